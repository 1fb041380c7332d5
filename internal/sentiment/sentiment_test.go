package sentiment

import (
	"context"
	"strings"
	"testing"

	"market-movers/internal/store"
	"market-movers/internal/types"
)

func TestParseClassification(t *testing.T) {
	label, conf, err := parseClassification(`{"sentiment": "positive", "confidence": 0.85}`)
	if err != nil {
		t.Fatalf("parseClassification returned error: %v", err)
	}
	if label != types.SentimentPositive {
		t.Errorf("Expected positive, got %s", label)
	}
	if conf != 0.85 {
		t.Errorf("Expected confidence 0.85, got %f", conf)
	}
}

func TestParseClassificationNormalizesCase(t *testing.T) {
	label, _, err := parseClassification(`{"sentiment": " NEGATIVE ", "confidence": 0.5}`)
	if err != nil {
		t.Fatalf("parseClassification returned error: %v", err)
	}
	if label != types.SentimentNegative {
		t.Errorf("Expected negative, got %s", label)
	}
}

func TestParseClassificationRejectsUnknownLabel(t *testing.T) {
	if _, _, err := parseClassification(`{"sentiment": "bullish", "confidence": 0.5}`); err == nil {
		t.Error("Expected error for unknown label")
	}
}

func TestParseClassificationRejectsBadJSON(t *testing.T) {
	if _, _, err := parseClassification("the sentiment is positive"); err == nil {
		t.Error("Expected error for non-JSON reply")
	}
}

func TestParseClassificationClampsConfidence(t *testing.T) {
	_, conf, err := parseClassification(`{"sentiment": "neutral", "confidence": 1.7}`)
	if err != nil {
		t.Fatalf("parseClassification returned error: %v", err)
	}
	if conf != 0 {
		t.Errorf("Expected out-of-range confidence reset to 0, got %f", conf)
	}
}

func TestNoopClassifier(t *testing.T) {
	c := NewNoopClassifier()
	label, conf, err := c.Classify(context.Background(), "any headline")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if label != types.SentimentNeutral || conf != 0 {
		t.Errorf("Expected neutral with zero confidence, got %s %f", label, conf)
	}
}

func TestNewClassifierSelectsProvider(t *testing.T) {
	cfg := &store.Config{}
	cfg.Sentiment.Provider = "NOOP"
	c, err := NewClassifier(cfg)
	if err != nil {
		t.Fatalf("NewClassifier returned error: %v", err)
	}
	if _, ok := c.(*NoopClassifier); !ok {
		t.Errorf("Expected NoopClassifier, got %T", c)
	}

	cfg.Sentiment.Provider = "OPENAI"
	c, err = NewClassifier(cfg)
	if err != nil {
		t.Fatalf("NewClassifier returned error: %v", err)
	}
	if _, ok := c.(*OpenAIClassifier); !ok {
		t.Errorf("Expected OpenAIClassifier, got %T", c)
	}
}

func TestClassifierPromptTruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", 5000)
	prompt := classifierPrompt(long)
	if len(prompt) > 2500 {
		t.Errorf("Expected prompt to truncate article text, got %d chars", len(prompt))
	}
}
