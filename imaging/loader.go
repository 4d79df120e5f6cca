// Package imaging normalizes uploads into in-memory raster images and
// prepares them for OCR.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// ErrNoPages is returned when a PDF contains no renderable pages.
var ErrNoPages = errors.New("imaging: document has no pages")

// Config configures the loader's rasterization collaborator.
type Config struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // rasterization DPI for PDF pages, default 300
}

// Loader turns uploaded bytes into a single raster image. Multi-page
// documents contribute their first page only.
type Loader struct {
	cfg    Config
	runner Runner
}

// NewLoader creates a loader with default binary paths filled in.
func NewLoader(cfg Config) *Loader {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Loader{cfg: cfg, runner: execRunner{}}
}

// Load decodes data into one raster image. PDFs are rasterized externally;
// everything else is decoded directly. There is no fallback here: corrupt
// bytes or an unsupported encoding fail the request.
func (l *Loader) Load(ctx context.Context, data []byte, filename string) (image.Image, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return l.loadPDF(ctx, data)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %q: %w", filename, err)
	}
	return img, nil
}
