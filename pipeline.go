package docdigest

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brunobiangulo/docdigest/imaging"
	"github.com/brunobiangulo/docdigest/llm"
	"github.com/brunobiangulo/docdigest/store"
)

// excerptLength is the size of the truncated-excerpt summary fallback.
const excerptLength = 200

// visionPrompt asks the multimodal model for a verbatim transcription of the
// image contents. The base64 image payload is appended by the LLM client.
const visionPrompt = `Analyze this image and extract all text content from it.
If there are any handwritten notes, transcribe them as accurately as possible.
If there is printed text, extract it exactly as it appears.
If there are any numbers or special characters, include them.
Format the output as plain text, maintaining the original structure where possible.`

// Process runs the pipeline: validate, persist, load, preprocess, extract
// (OCR with vision fallback), correct spelling, summarize (with excerpt
// fallback), assemble. Stages run strictly in sequence; the first four
// failures abort the request, everything after extraction degrades instead
// of failing.
func (e *engine) Process(ctx context.Context, filename string, data []byte) (*Result, error) {
	if filename == "" || len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if !ValidFileType(filename) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFileType, filepath.Ext(filename))
	}

	// Persist the upload before processing so a failed extraction still
	// leaves the artifact recoverable. Timestamp prefixing keeps concurrent
	// uploads from colliding.
	storedName := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(filename))
	storedPath := filepath.Join(e.cfg.UploadDir, storedName)
	if err := os.WriteFile(storedPath, data, 0644); err != nil {
		return nil, fmt.Errorf("saving upload: %w", err)
	}

	img, err := e.loader.Load(ctx, data, filename)
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}

	text := e.extractText(ctx, img)
	if text == "" {
		return nil, ErrNoText
	}

	corrected := e.speller.Correct(text)
	if strings.TrimSpace(corrected) == "" {
		slog.Warn("corrected text is empty, using original extracted text")
		corrected = text
	}

	outcome := e.summarize(ctx, corrected)
	summary := outcome.Text
	source := "model"
	if outcome.Status != SummaryGenerated {
		slog.Warn("summary generation failed, falling back to excerpt",
			"status", outcome.Status, "error", outcome.Err)
		summary = excerpt(corrected)
		source = "excerpt"
	}

	result := &Result{
		OriginalText: corrected,
		Summary:      summary,
		FilePath:     storedPath,
	}

	// History is best-effort; a write failure must not fail the request.
	if e.store != nil {
		rec := store.Record{
			Filename:      filepath.Base(filename),
			StoredPath:    storedPath,
			OriginalText:  corrected,
			Summary:       summary,
			SummarySource: source,
		}
		if err := e.store.Insert(ctx, rec); err != nil {
			slog.Error("recording processing history", "file", filename, "error", err)
		}
	}

	return result, nil
}

// extractText runs tesseract on the binarized image and falls back to the
// vision model (exactly once) when OCR errors or finds nothing. The result
// is whitespace-trimmed and possibly empty; emptiness is the caller's signal
// that extraction failed entirely.
func (e *engine) extractText(ctx context.Context, img image.Image) string {
	pre := imaging.Binarize(img)
	text, err := e.ocr.ExtractImage(ctx, pre)
	if err != nil {
		slog.Error("tesseract extraction failed", "error", err)
	}
	text = strings.TrimSpace(text)
	if err == nil && text != "" {
		return text
	}

	slog.Info("tesseract produced no text, trying vision model", "model", e.cfg.OllamaVisionModel)
	return e.visionFallback(ctx, img)
}

// visionFallback transcribes the original (non-binarized) image via the
// vision model. It absorbs every failure: an unreachable endpoint, a bad
// status, or an encoding problem all come back as an empty string.
func (e *engine) visionFallback(ctx context.Context, img image.Image) string {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		slog.Error("encoding image for vision model", "error", err)
		return ""
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	text, err := e.llm.GenerateWithImage(ctx, e.cfg.OllamaVisionModel, visionPrompt, encoded)
	if err != nil {
		slog.Error("vision model extraction failed", "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

// Health reports collaborator status. A missing or broken tesseract degrades
// the service; an unreachable Ollama endpoint is reported but does not, since
// OCR alone can still serve requests.
func (e *engine) Health(ctx context.Context) HealthReport {
	rep := HealthReport{
		Status:       "healthy",
		UploadDir:    e.cfg.UploadDir,
		ProcessedDir: e.cfg.ProcessedDir,
	}

	if version, err := e.ocr.Version(ctx); err != nil {
		rep.Status = "degraded"
		rep.Tesseract = fmt.Sprintf("error: %v", err)
	} else {
		rep.Tesseract = fmt.Sprintf("available (version %s)", version)
	}

	switch err := e.llm.Ping(ctx); {
	case err == nil:
		rep.Ollama = "connected"
	case errors.Is(err, llm.ErrUnreachable):
		rep.Ollama = "not connected"
	default:
		rep.Ollama = "not responding properly"
	}
	return rep
}

// excerpt builds the orchestrator-level summary fallback: the first
// excerptLength characters of the text with an ellipsis appended, or a
// sentinel when there is nothing to excerpt.
func excerpt(text string) string {
	if strings.TrimSpace(text) == "" {
		return "No text extracted to summarize."
	}
	runes := []rune(text)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes) + "..."
}
