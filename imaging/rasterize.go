package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ledongthuc/pdf"
)

// loadPDF rasterizes the first page of a PDF. The bytes are structurally
// validated first so corrupt documents and zero-page documents fail with a
// useful error before an external process is spawned.
func (l *Loader) loadPDF(ctx context.Context, data []byte) (image.Image, error) {
	pages, err := countPages(data)
	if err != nil {
		return nil, err
	}
	if pages == 0 {
		return nil, ErrNoPages
	}

	tmpDir, err := os.MkdirTemp("", "docdigest-raster-*")
	if err != nil {
		return nil, fmt.Errorf("creating raster dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	src := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(src, data, 0600); err != nil {
		return nil, fmt.Errorf("staging pdf: %w", err)
	}

	// pdftoppm -f 1 -l 1 -r <dpi> -png input.pdf page
	// Only the first page is rendered; the rest of the document is ignored.
	prefix := filepath.Join(tmpDir, "page")
	_, stderr, err := l.runner.Run(ctx, l.cfg.Pdftoppm,
		"-f", "1", "-l", "1", "-r", strconv.Itoa(l.cfg.DPI), "-png", src, prefix)
	if err != nil {
		return nil, fmt.Errorf("rasterizing pdf: %w: %s", err, firstLine(stderr))
	}

	rendered, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(rendered)
	if len(rendered) == 0 {
		return nil, ErrNoPages
	}

	f, err := os.Open(rendered[0])
	if err != nil {
		return nil, fmt.Errorf("opening rendered page: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding rendered page: %w", err)
	}
	return img, nil
}

// countPages parses the PDF structure. The pdf parser panics on some
// malformed inputs, so the panic is converted to a plain error here.
func countPages(data []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("reading pdf: %w", err)
	}
	return reader.NumPage(), nil
}

func firstLine(b []byte) string {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
