package docdigest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brunobiangulo/docdigest/llm"
)

// summaryPromptFormat is the structured summarization prompt. The %s slot
// receives the corrected document text.
const summaryPromptFormat = `You are a helpful assistant that summarizes documents.
Analyze the following text and provide a comprehensive summary.
Focus on the main points, key arguments, and important details.
Format your response in a clear, structured way with bullet points.

Text to summarize:
%s

Provide a summary that includes:
1. Main topic and purpose
2. Key points and arguments
3. Important details and conclusions
4. Any notable insights or implications`

// summarize asks the text model for a summary of text. It never returns an
// error: every failure mode is folded into the outcome's Status so the
// orchestrator can pick the excerpt fallback without string matching.
func (e *engine) summarize(ctx context.Context, text string) SummaryOutcome {
	prompt := fmt.Sprintf(summaryPromptFormat, text)

	response, err := e.llm.Generate(ctx, llm.GenerateRequest{
		Model:       e.cfg.OllamaModel,
		Prompt:      prompt,
		Temperature: 0.7,
		MaxTokens:   e.cfg.MaxSummaryTokens,
	})
	switch {
	case errors.Is(err, llm.ErrUnreachable):
		slog.Error("could not connect to ollama", "host", e.cfg.OllamaHost, "error", err)
		return SummaryOutcome{Status: SummaryUnavailable, Err: err}
	case err != nil:
		slog.Error("summary generation failed", "error", err)
		return SummaryOutcome{Status: SummaryFailed, Err: err}
	}

	response = strings.TrimSpace(response)
	if response == "" {
		slog.Error("empty summary received from ollama")
		return SummaryOutcome{Status: SummaryEmpty}
	}
	return SummaryOutcome{Status: SummaryGenerated, Text: response}
}
