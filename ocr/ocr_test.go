package ocr

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"
)

type stubRunner struct {
	stdout  string
	stderr  string
	err     error
	gotName string
	gotArgs []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.gotName = name
	s.gotArgs = args
	return []byte(s.stdout), []byte(s.stderr), s.err
}

func TestExtractImageTrimsOutput(t *testing.T) {
	runner := &stubRunner{stdout: "  Hello scanned world \n\n"}
	e := &Engine{cfg: Config{Tesseract: "tesseract", Lang: "eng"}, runner: runner}

	text, err := e.ExtractImage(context.Background(), image.NewGray(image.Rect(0, 0, 8, 8)))
	if err != nil {
		t.Fatalf("ExtractImage: %v", err)
	}
	if text != "Hello scanned world" {
		t.Errorf("text = %q", text)
	}
	if runner.gotName != "tesseract" {
		t.Errorf("binary = %q", runner.gotName)
	}
	got := strings.Join(runner.gotArgs, " ")
	if !strings.Contains(got, "stdout -l eng") {
		t.Errorf("args = %q", got)
	}
}

func TestExtractImageEmptyResult(t *testing.T) {
	e := &Engine{cfg: Config{Tesseract: "tesseract", Lang: "eng"}, runner: &stubRunner{stdout: "  \n"}}
	text, err := e.ExtractImage(context.Background(), image.NewGray(image.Rect(0, 0, 8, 8)))
	if err != nil {
		t.Fatalf("ExtractImage: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestExtractImageRunnerError(t *testing.T) {
	runner := &stubRunner{stderr: "Error opening data file", err: errors.New("exit status 1")}
	e := &Engine{cfg: Config{Tesseract: "tesseract", Lang: "eng"}, runner: runner}

	_, err := e.ExtractImage(context.Background(), image.NewGray(image.Rect(0, 0, 8, 8)))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Error opening data file") {
		t.Errorf("error %q does not carry stderr detail", err)
	}
}

func TestExtractFileTessdataDir(t *testing.T) {
	runner := &stubRunner{stdout: "ok"}
	e := &Engine{cfg: Config{Tesseract: "tesseract", Lang: "deu", TessdataDir: "/opt/tessdata"}, runner: runner}

	if _, err := e.ExtractFile(context.Background(), "scan.png"); err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	got := strings.Join(runner.gotArgs, " ")
	if !strings.Contains(got, "--tessdata-dir /opt/tessdata") || !strings.Contains(got, "-l deu") {
		t.Errorf("args = %q", got)
	}
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		stderr string
		want   string
	}{
		{"stdout banner", "tesseract 5.3.4\n leptonica-1.84.1\n", "", "5.3.4"},
		{"stderr banner", "", "tesseract 4.1.1\n", "4.1.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Engine{cfg: Config{Tesseract: "tesseract"}, runner: &stubRunner{stdout: tt.stdout, stderr: tt.stderr}}
			got, err := e.Version(context.Background())
			if err != nil {
				t.Fatalf("Version: %v", err)
			}
			if got != tt.want {
				t.Errorf("version = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewMissingBinary(t *testing.T) {
	if _, err := New(Config{Tesseract: "/nonexistent/bin/tesseract"}); err == nil {
		t.Fatal("expected error for missing binary, got nil")
	}
}
