package docdigest

import "errors"

var (
	// ErrEmptyUpload is returned when no filename or no bytes were supplied.
	ErrEmptyUpload = errors.New("docdigest: no file provided")

	// ErrInvalidFileType is returned for filenames outside the allow-list.
	ErrInvalidFileType = errors.New("docdigest: unsupported file type")

	// ErrNoText is returned when both OCR and the vision-model fallback
	// produced nothing.
	ErrNoText = errors.New("docdigest: no text could be extracted from the document")

	// ErrOCRUnavailable is returned at construction when the tesseract
	// binary cannot be resolved. Callers are expected to treat it as fatal.
	ErrOCRUnavailable = errors.New("docdigest: tesseract executable not found")
)
