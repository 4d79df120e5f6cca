// Package ocr extracts text from raster images with the tesseract binary.
package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"
)

// Config configures the tesseract invocation.
type Config struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	TessdataDir string
}

// Engine runs OCR through an external tesseract process.
type Engine struct {
	cfg    Config
	runner Runner
}

// New creates an engine and verifies the binary can be resolved. A missing
// binary is an error here; callers decide whether that is fatal (the server
// treats it as fatal at startup).
func New(cfg Config) (*Engine, error) {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if _, err := exec.LookPath(cfg.Tesseract); err != nil {
		return nil, fmt.Errorf("resolving tesseract %q: %w", cfg.Tesseract, err)
	}
	return &Engine{cfg: cfg, runner: execRunner{}}, nil
}

// ExtractImage writes img to a temporary PNG and runs OCR over it. The
// result is whitespace-trimmed; an empty string with a nil error means
// tesseract genuinely found no text.
func (e *Engine) ExtractImage(ctx context.Context, img image.Image) (string, error) {
	tmp, err := os.CreateTemp("", "docdigest-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("creating ocr input: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encoding ocr input: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	return e.ExtractFile(ctx, tmp.Name())
}

// ExtractFile runs tesseract over an image file on disk.
func (e *Engine) ExtractFile(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.Lang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, stderr, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(stderr), 512))
	}
	return strings.TrimSpace(string(out)), nil
}

// Version reports the installed tesseract version for health checks.
// Older releases print the version banner on stderr.
func (e *Engine) Version(ctx context.Context) (string, error) {
	out, stderr, err := e.runner.Run(ctx, e.cfg.Tesseract, "--version")
	if err != nil {
		return "", fmt.Errorf("tesseract --version: %w", err)
	}
	banner := strings.TrimSpace(string(out))
	if banner == "" {
		banner = strings.TrimSpace(string(stderr))
	}
	if i := strings.IndexByte(banner, '\n'); i >= 0 {
		banner = banner[:i]
	}
	return strings.TrimSpace(strings.TrimPrefix(banner, "tesseract ")), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
