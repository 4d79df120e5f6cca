package docdigest

import "strings"

// allowedExtensions is the fixed set of recognized document and image
// suffixes. Matching is case-insensitive and looks only at the filename.
var allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".pdf", ".tiff", ".tif"}

// ValidFileType reports whether the filename carries an allowed suffix.
// It never touches the file bytes.
func ValidFileType(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// AllowedExtensions returns the allow-list for error messages.
func AllowedExtensions() []string {
	return append([]string(nil), allowedExtensions...)
}
