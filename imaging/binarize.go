package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"
)

var (
	blackPixel = color.Gray{Y: 0}
	whitePixel = color.Gray{Y: 255}
)

// Grayscale converts an image to single-channel intensity. Images that are
// already grayscale pass through untouched.
func Grayscale(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// Binarize converts an image to grayscale and applies global thresholding
// with an Otsu-selected threshold, so scans of varying quality need no fixed
// constant. It never fails: if anything goes wrong the original image is
// returned unchanged so OCR still gets some input. Applying Binarize to an
// already-binarized image is a no-op in pixel terms.
func Binarize(img image.Image) (out image.Image) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("image binarization failed", "panic", r)
			out = img
		}
	}()

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return img
	}

	gray := Grayscale(img)

	var hist [256]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	threshold := otsuThreshold(hist, bounds.Dx()*bounds.Dy())

	bin := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > threshold {
				bin.SetGray(x, y, whitePixel)
			} else {
				bin.SetGray(x, y, blackPixel)
			}
		}
	}
	return bin
}

// otsuThreshold picks the intensity level that maximizes the between-class
// variance of the histogram, equivalent to minimizing intra-class variance.
func otsuThreshold(hist [256]int, total int) uint8 {
	var sum float64
	for level, count := range hist {
		sum += float64(level) * float64(count)
	}

	var sumBg, weightBg float64
	var bestVariance float64
	var best uint8

	for level := 0; level < 256; level++ {
		weightBg += float64(hist[level])
		if weightBg == 0 {
			continue
		}
		weightFg := float64(total) - weightBg
		if weightFg == 0 {
			break
		}
		sumBg += float64(level) * float64(hist[level])

		meanBg := sumBg / weightBg
		meanFg := (sum - sumBg) / weightFg
		variance := weightBg * weightFg * (meanBg - meanFg) * (meanBg - meanFg)
		if variance > bestVariance {
			bestVariance = variance
			best = uint8(level)
		}
	}
	return best
}
