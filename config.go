package docdigest

// Config holds all configuration for the docdigest engine. It is built once
// at startup and injected into New; nothing reads configuration from process
// globals after that.
type Config struct {
	// UploadDir is where original uploads are persisted. Files are written
	// under a timestamp-prefixed name before any processing starts.
	UploadDir string `json:"upload_dir"`

	// ProcessedDir holds derived artifacts and is served read-only.
	ProcessedDir string `json:"processed_dir"`

	// DBPath is the path to the SQLite processing-history database.
	DBPath string `json:"db_path"`

	// Tesseract is the OCR binary name or absolute path. The engine refuses
	// to start when the binary cannot be resolved.
	Tesseract     string `json:"tesseract"`
	TesseractLang string `json:"tesseract_lang"`
	TessdataDir   string `json:"tessdata_dir"`

	// Pdftoppm rasterizes the first page of PDF uploads.
	Pdftoppm  string `json:"pdftoppm"`
	RasterDPI int    `json:"raster_dpi"`

	// Ollama endpoint used for the vision extraction fallback and for
	// summarization.
	OllamaHost        string `json:"ollama_host"`
	OllamaModel       string `json:"ollama_model"`
	OllamaVisionModel string `json:"ollama_vision_model"`

	// LLMTimeoutSeconds bounds each remote model call. A timed-out call is
	// treated the same as a connection failure.
	LLMTimeoutSeconds int `json:"llm_timeout_seconds"`

	// MaxSummaryTokens caps the summarization response length.
	MaxSummaryTokens int `json:"max_summary_tokens"`

	// SpellCorpus optionally points at a newline-separated word list used to
	// train the spelling corrector. When empty, correction relies on the
	// document's own vocabulary only.
	SpellCorpus string `json:"spell_corpus"`
}

// DefaultConfig returns a Config with sensible defaults for local inference.
func DefaultConfig() Config {
	return Config{
		UploadDir:         "uploads",
		ProcessedDir:      "processed",
		DBPath:            "docdigest.db",
		Tesseract:         "tesseract",
		TesseractLang:     "eng",
		Pdftoppm:          "pdftoppm",
		RasterDPI:         300,
		OllamaHost:        "http://localhost:11434",
		OllamaModel:       "mistral",
		LLMTimeoutSeconds: 30,
		MaxSummaryTokens:  1000,
	}
}

// applyDefaults fills zero values so a partially populated Config behaves
// like DefaultConfig.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.UploadDir == "" {
		c.UploadDir = d.UploadDir
	}
	if c.ProcessedDir == "" {
		c.ProcessedDir = d.ProcessedDir
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.Tesseract == "" {
		c.Tesseract = d.Tesseract
	}
	if c.TesseractLang == "" {
		c.TesseractLang = d.TesseractLang
	}
	if c.Pdftoppm == "" {
		c.Pdftoppm = d.Pdftoppm
	}
	if c.RasterDPI <= 0 {
		c.RasterDPI = d.RasterDPI
	}
	if c.OllamaHost == "" {
		c.OllamaHost = d.OllamaHost
	}
	if c.OllamaModel == "" {
		c.OllamaModel = d.OllamaModel
	}
	// The original deployment runs a single multimodal model for both text
	// and image prompts.
	if c.OllamaVisionModel == "" {
		c.OllamaVisionModel = c.OllamaModel
	}
	if c.LLMTimeoutSeconds <= 0 {
		c.LLMTimeoutSeconds = d.LLMTimeoutSeconds
	}
	if c.MaxSummaryTokens <= 0 {
		c.MaxSummaryTokens = d.MaxSummaryTokens
	}
}
