package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/brunobiangulo/docdigest"
)

// maxUploadBytes caps multipart memory use; larger files spill to disk.
const maxUploadBytes = 50 << 20 // 50MB

type handler struct {
	engine docdigest.Engine
}

func newHandler(e docdigest.Engine) *handler {
	return &handler{engine: e}
}

// POST /process-document
// Accepts a multipart file upload and runs the extraction pipeline.
func (h *handler) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("reading upload", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}

	// Sanitise filename to prevent path traversal.
	safeName := filepath.Base(header.Filename)

	result, err := h.engine.Process(ctx, safeName, data)
	if err != nil {
		switch {
		case errors.Is(err, docdigest.ErrEmptyUpload):
			writeError(w, http.StatusBadRequest, "No file provided")
		case errors.Is(err, docdigest.ErrInvalidFileType):
			writeError(w, http.StatusBadRequest, fmt.Sprintf(
				"Invalid file type. Supported types: %s",
				strings.Join(docdigest.AllowedExtensions(), ", ")))
		case errors.Is(err, docdigest.ErrNoText):
			writeError(w, http.StatusBadRequest, "No text could be extracted from the document")
		default:
			slog.Error("processing document", "file", safeName, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to process document")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, h.engine.Health(ctx))
}

// GET /documents
func (h *handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.engine.ListDocuments(r.Context())
	if err != nil {
		slog.Error("listing documents", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
	})
}

// GET /documents/export
func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.engine.ExportXLSX(r.Context())
	if err != nil {
		slog.Error("exporting documents", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export documents")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="documents.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
