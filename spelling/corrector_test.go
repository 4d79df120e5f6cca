package spelling

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCorpus(t *testing.T, words ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	var data []byte
	for _, w := range words {
		data = append(data, w...)
		data = append(data, '\n')
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCorrectEmptyInput(t *testing.T) {
	c := New("")
	for _, in := range []string{"", "   ", "\n\t "} {
		if got := c.Correct(in); got != in {
			t.Errorf("Correct(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestCorrectKnownTypo(t *testing.T) {
	c := New(writeCorpus(t, "hello", "world", "invoice", "total"))
	got := c.Correct("helo world")
	if got != "hello world" {
		t.Errorf("Correct = %q, want %q", got, "hello world")
	}
}

func TestCorrectPreservesCase(t *testing.T) {
	c := New(writeCorpus(t, "hello"))
	if got := c.Correct("Helo there"); got != "Hello there" {
		t.Errorf("Correct = %q, want %q", got, "Hello there")
	}
}

func TestCorrectWithoutCorpusIsStable(t *testing.T) {
	c := New("")
	in := "Ths document contains sme unusual words"
	if got := c.Correct(in); got == "" {
		t.Error("correction produced empty output")
	}
}

func TestCorrectKeepsRepeatedDocumentWords(t *testing.T) {
	c := New(writeCorpus(t, "hello"))
	// "helo" appears three times: the document's own usage wins over the
	// corpus spelling.
	in := "helo helo helo"
	if got := c.Correct(in); got != in {
		t.Errorf("Correct = %q, want repeated word kept as %q", got, in)
	}
}

func TestCorrectNeverPanics(t *testing.T) {
	c := New("")
	inputs := []string{
		"\xff\xfe broken encoding",
		"!!! ??? ###",
		"1234567890",
		"mixed \x00 content",
	}
	for _, in := range inputs {
		got := c.Correct(in)
		if got == "" {
			t.Errorf("Correct(%q) returned empty string", in)
		}
	}
}

func TestCorrectMissingCorpusFile(t *testing.T) {
	c := New("/nonexistent/corpus.txt")
	if got := c.Correct("plain text"); got != "plain text" {
		t.Errorf("Correct = %q", got)
	}
}

func TestRepeatedWords(t *testing.T) {
	got := repeatedWords("alpha alpha alpha beta beta gamma")
	for _, w := range got {
		if w != "alpha" {
			t.Errorf("unexpected repeated word %q", w)
		}
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3 occurrences of alpha", len(got))
	}
}
