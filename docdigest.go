// Package docdigest extracts and summarizes text from scanned documents and
// images. Uploads flow through a sequential pipeline: validation, raster
// loading, Otsu binarization, tesseract OCR with a vision-model fallback,
// best-effort spelling correction, and LLM summarization with a truncated
// excerpt fallback.
package docdigest

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/brunobiangulo/docdigest/imaging"
	"github.com/brunobiangulo/docdigest/llm"
	"github.com/brunobiangulo/docdigest/ocr"
	"github.com/brunobiangulo/docdigest/spelling"
	"github.com/brunobiangulo/docdigest/store"
)

// Engine is the main entry point for document processing.
type Engine interface {
	// Process runs one upload through the full pipeline and returns the
	// assembled result. The upload is persisted before processing starts,
	// regardless of the pipeline outcome.
	Process(ctx context.Context, filename string, data []byte) (*Result, error)

	// Health probes the OCR binary and the Ollama endpoint.
	Health(ctx context.Context) HealthReport

	// ListDocuments returns the processing history, newest first.
	ListDocuments(ctx context.Context) ([]store.Record, error)

	// ExportXLSX renders the processing history as an XLSX workbook.
	ExportXLSX(ctx context.Context) ([]byte, error)

	// Close releases the history store.
	Close() error
}

// Result is the response payload for one processed document.
type Result struct {
	OriginalText string `json:"original_text"`
	Summary      string `json:"summary"`
	FilePath     string `json:"file_path"`
}

// HealthReport describes the state of the engine's external collaborators.
type HealthReport struct {
	Status       string `json:"status"` // "healthy" or "degraded"
	Tesseract    string `json:"tesseract"`
	Ollama       string `json:"ollama"` // "connected", "not connected", "not responding properly"
	UploadDir    string `json:"upload_dir"`
	ProcessedDir string `json:"processed_dir"`
}

// SummaryStatus tags the outcome of the summarization stage.
type SummaryStatus int

const (
	// SummaryGenerated means the model returned a usable summary.
	SummaryGenerated SummaryStatus = iota
	// SummaryEmpty means the model answered with an empty response.
	SummaryEmpty
	// SummaryUnavailable means the model endpoint could not be reached
	// (connection failure or timeout).
	SummaryUnavailable
	// SummaryFailed covers every other failure (bad status, bad JSON).
	SummaryFailed
)

// SummaryOutcome is the tagged result of the summarization stage. The stage
// never returns an error; callers branch on Status instead of inspecting
// the text for error markers.
type SummaryOutcome struct {
	Status SummaryStatus
	Text   string
	Err    error
}

// textExtractor is the OCR surface the pipeline needs.
type textExtractor interface {
	ExtractImage(ctx context.Context, img image.Image) (string, error)
	Version(ctx context.Context) (string, error)
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg     Config
	loader  *imaging.Loader
	ocr     textExtractor
	llm     *llm.Client
	speller *spelling.Corrector
	store   *store.Store
}

// New creates a docdigest engine. It creates the upload and processed
// directories, opens the history store, and verifies that the tesseract
// binary is present; a missing binary is a fatal configuration error.
func New(cfg Config) (Engine, error) {
	cfg.applyDefaults()

	for _, dir := range []string{cfg.UploadDir, cfg.ProcessedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	ocrEngine, err := ocr.New(ocr.Config{
		Tesseract:   cfg.Tesseract,
		Lang:        cfg.TesseractLang,
		TessdataDir: cfg.TessdataDir,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOCRUnavailable, err)
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}

	return &engine{
		cfg:    cfg,
		loader: imaging.NewLoader(imaging.Config{Pdftoppm: cfg.Pdftoppm, DPI: cfg.RasterDPI}),
		ocr:    ocrEngine,
		llm: llm.New(llm.Config{
			Host:    cfg.OllamaHost,
			Timeout: time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
		}),
		speller: spelling.New(cfg.SpellCorpus),
		store:   s,
	}, nil
}

func (e *engine) ListDocuments(ctx context.Context) ([]store.Record, error) {
	return e.store.List(ctx)
}

func (e *engine) ExportXLSX(ctx context.Context) ([]byte, error) {
	return e.store.ExportXLSX(ctx)
}

func (e *engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}
