package imaging

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

// gradientImage produces a synthetic scan with a dark and a light region.
func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(255 * x / w)
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestGrayscalePassthrough(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	if got := Grayscale(gray); got != gray {
		t.Error("Grayscale allocated a new image for grayscale input")
	}
}

func TestGrayscaleConverts(t *testing.T) {
	img := gradientImage(16, 8)
	gray := Grayscale(img)
	if gray.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", gray.Bounds(), img.Bounds())
	}
}

func TestBinarizeTwoLevel(t *testing.T) {
	out := Binarize(gradientImage(64, 32))
	gray, ok := out.(*image.Gray)
	if !ok {
		t.Fatalf("Binarize returned %T, want *image.Gray", out)
	}
	var black, white int
	for _, p := range gray.Pix {
		switch p {
		case 0:
			black++
		case 255:
			white++
		default:
			t.Fatalf("pixel value %d, want 0 or 255", p)
		}
	}
	if black == 0 || white == 0 {
		t.Errorf("expected both classes on a gradient, got black=%d white=%d", black, white)
	}
}

func TestBinarizeIdempotent(t *testing.T) {
	once := Binarize(gradientImage(64, 32)).(*image.Gray)
	twice := Binarize(once).(*image.Gray)
	if !bytes.Equal(once.Pix, twice.Pix) {
		t.Error("binarizing an already-binarized image changed pixels")
	}
}

func TestBinarizeBlankCanvas(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	out := Binarize(img).(*image.Gray)
	for i, p := range out.Pix {
		if p != 255 {
			t.Fatalf("pixel %d = %d, blank canvas must stay white", i, p)
		}
	}
}

func TestBinarizeZeroArea(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 0, 0))
	if out := Binarize(img); out != image.Image(img) {
		t.Error("zero-area image was not returned unchanged")
	}
}

func TestOtsuThresholdSeparatesClasses(t *testing.T) {
	var hist [256]int
	hist[10] = 500  // dark ink
	hist[240] = 500 // paper
	threshold := otsuThreshold(hist, 1000)
	if threshold < 10 || threshold >= 240 {
		t.Errorf("threshold = %d, want a value between the two classes", threshold)
	}
}
