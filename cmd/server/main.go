package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brunobiangulo/docdigest"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON)")
	addr := flag.String("addr", ":8000", "Listen address")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := docdigest.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			slog.Error("opening config", "error", err)
			os.Exit(1)
		}
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			f.Close()
			slog.Error("parsing config", "error", err)
			os.Exit(1)
		}
		f.Close()
	}

	// Override from environment variables.
	if v := os.Getenv("DOCDIGEST_UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := os.Getenv("DOCDIGEST_PROCESSED_DIR"); v != "" {
		cfg.ProcessedDir = v
	}
	if v := os.Getenv("DOCDIGEST_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("DOCDIGEST_TESSERACT_PATH"); v != "" {
		cfg.Tesseract = v
	}
	if v := os.Getenv("DOCDIGEST_TESSERACT_LANG"); v != "" {
		cfg.TesseractLang = v
	}
	if v := os.Getenv("DOCDIGEST_PDFTOPPM_PATH"); v != "" {
		cfg.Pdftoppm = v
	}
	if v := os.Getenv("DOCDIGEST_OLLAMA_HOST"); v != "" {
		cfg.OllamaHost = v
	}
	if v := os.Getenv("DOCDIGEST_OLLAMA_MODEL"); v != "" {
		cfg.OllamaModel = v
	}
	if v := os.Getenv("DOCDIGEST_OLLAMA_VISION_MODEL"); v != "" {
		cfg.OllamaVisionModel = v
	}
	if v := os.Getenv("DOCDIGEST_SPELL_CORPUS"); v != "" {
		cfg.SpellCorpus = v
	}

	apiKey := os.Getenv("DOCDIGEST_API_KEY")
	corsOrigins := os.Getenv("DOCDIGEST_CORS_ORIGINS")

	// A missing tesseract binary fails here; the server refuses to start.
	engine, err := docdigest.New(cfg)
	if err != nil {
		slog.Error("creating engine", "error", err)
		slog.Info("install tesseract and set DOCDIGEST_TESSERACT_PATH if it is not on PATH")
		os.Exit(1)
	}
	defer engine.Close()

	h := newHandler(engine)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /process-document", h.handleProcessDocument)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /documents", h.handleListDocuments)
	mux.HandleFunc("GET /documents/export", h.handleExport)

	// Read-only exposure of stored artifacts.
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	mux.Handle("GET /processed/", http.StripPrefix("/processed/", http.FileServer(http.Dir(cfg.ProcessedDir))))

	// Middleware chain: recovery -> cors -> auth -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = authMiddleware(apiKey, handler)
	handler = corsMiddleware(corsOrigins, handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // uploads with two LLM round-trips can be slow
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}
