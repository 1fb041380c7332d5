// Package sentiment implements the sentiment classifier behind the
// enricher. The model is a pure function (text -> label, confidence);
// swapping providers must not change enrichment selection logic.
package sentiment

import (
	"fmt"
	"strings"

	"market-movers/internal/interfaces"
	"market-movers/internal/store"
)

// NewClassifier builds a classifier from config. Unknown providers fail
// loudly rather than silently degrading to neutral.
func NewClassifier(cfg *store.Config) (interfaces.SentimentClassifier, error) {
	switch strings.ToUpper(cfg.Sentiment.Provider) {
	case "OPENAI":
		return NewOpenAIClassifier(cfg), nil
	case "CLAUDE":
		return NewClaudeClassifier(cfg), nil
	case "NOOP":
		return NewNoopClassifier(), nil
	default:
		return nil, fmt.Errorf("unsupported sentiment provider: %s", cfg.Sentiment.Provider)
	}
}

// classifierPrompt is shared by the LLM-backed providers.
func classifierPrompt(text string) string {
	const schema = `{"sentiment": "positive|neutral|negative", "confidence": 0.0 to 1.0}`

	if len(text) > 2000 {
		text = text[:2000] + "..."
	}

	return fmt.Sprintf(`Classify the sentiment of this financial news text with respect to the company it is about.

Text: %s

Respond ONLY with valid JSON matching this schema:
%s`, text, schema)
}

const classifierSystemPrompt = "You are a financial analyst expert at classifying news sentiment. Respond ONLY with valid JSON."
