package docdigest

import "testing"

func TestValidFileType(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"scan.jpg", true},
		{"scan.jpeg", true},
		{"photo.PNG", true},
		{"anim.gif", true},
		{"report.pdf", true},
		{"fax.tiff", true},
		{"fax.tif", true},
		{"letter.docx", false},
		{"notes.txt", false},
		{"archive.tar.gz", false},
		{"", false},
		{"pdf", false},
		{"scan.pdf.exe", false},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := ValidFileType(tt.filename); got != tt.want {
				t.Errorf("ValidFileType(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestAllowedExtensionsIsACopy(t *testing.T) {
	exts := AllowedExtensions()
	if len(exts) != 7 {
		t.Fatalf("len = %d, want 7", len(exts))
	}
	exts[0] = ".exe"
	if AllowedExtensions()[0] == ".exe" {
		t.Error("AllowedExtensions exposed internal state")
	}
}
