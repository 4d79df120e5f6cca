// Package spelling applies statistical spelling correction to OCR output.
package spelling

import (
	"bufio"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/sajari/fuzzy"
)

var wordPattern = regexp.MustCompile(`[a-zA-Z]+`)

// Corrector corrects misspelled words using a Norvig-style frequency model.
// Correction is strictly best-effort: any internal failure, including a
// panic on malformed input, yields the original text unchanged.
type Corrector struct {
	corpus []string
}

// New creates a corrector. corpusPath optionally names a newline-separated
// word list; an unreadable corpus is logged and skipped, never fatal.
func New(corpusPath string) *Corrector {
	c := &Corrector{}
	if corpusPath == "" {
		return c
	}
	words, err := readCorpus(corpusPath)
	if err != nil {
		slog.Warn("spelling corpus not loaded", "path", corpusPath, "error", err)
		return c
	}
	c.corpus = words
	return c
}

// Correct returns text with misspelled words replaced. Empty or
// all-whitespace input passes through untouched. The model is built per
// call — trained on the configured corpus plus the document's own
// vocabulary — so one request never influences another.
func (c *Corrector) Correct(text string) (corrected string) {
	if strings.TrimSpace(text) == "" {
		return text
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("spelling correction failed", "panic", r)
			corrected = text
		}
	}()

	model := fuzzy.NewModel()
	model.SetDepth(2)
	model.SetThreshold(1)
	if len(c.corpus) > 0 {
		model.Train(c.corpus)
	}
	// Words the document uses repeatedly are taken as correct; this keeps
	// domain terms and proper nouns from being "fixed" into corpus words.
	// One-off words stay correctable: an OCR typo rarely repeats.
	model.Train(repeatedWords(text))

	corrected = wordPattern.ReplaceAllStringFunc(text, func(word string) string {
		suggestion := model.SpellCheck(strings.ToLower(word))
		if suggestion == "" || strings.EqualFold(suggestion, word) {
			return word
		}
		return matchCase(word, suggestion)
	})
	if strings.TrimSpace(corrected) == "" {
		return text
	}
	return corrected
}

// matchCase carries the original word's casing over to the suggestion.
func matchCase(original, suggestion string) string {
	if len(original) > 1 && original == strings.ToUpper(original) {
		return strings.ToUpper(suggestion)
	}
	first := []rune(original)
	if len(first) > 0 && unicode.IsUpper(first[0]) {
		out := []rune(suggestion)
		if len(out) > 0 {
			out[0] = unicode.ToUpper(out[0])
		}
		return string(out)
	}
	return suggestion
}

// repeatedWords returns the document words seen at least three times,
// once per occurrence so frequency still ranks candidates.
func repeatedWords(text string) []string {
	counts := make(map[string]int)
	all := wordPattern.FindAllString(strings.ToLower(text), -1)
	for _, w := range all {
		counts[w]++
	}
	var repeated []string
	for _, w := range all {
		if counts[w] >= 3 {
			repeated = append(repeated, w)
		}
	}
	return repeated
}

func readCorpus(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if w := strings.ToLower(strings.TrimSpace(scanner.Text())); w != "" {
			words = append(words, w)
		}
	}
	return words, scanner.Err()
}
