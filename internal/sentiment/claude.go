package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"market-movers/internal/store"
	"market-movers/internal/trace"
	"market-movers/internal/types"
)

type ClaudeClassifier struct {
	cfg *store.Config
}

func NewClaudeClassifier(cfg *store.Config) *ClaudeClassifier {
	return &ClaudeClassifier{cfg: cfg}
}

func (c *ClaudeClassifier) Classify(ctx context.Context, text string) (types.Sentiment, float64, error) {
	ctx, span := trace.StartSpan(ctx, "claude-sentiment-call")
	defer span.End()

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return "", 0, errors.New("ANTHROPIC_API_KEY missing")
	}

	body := map[string]any{
		"model":      c.cfg.Sentiment.Model,
		"max_tokens": c.cfg.Sentiment.MaxTokens,
		"system":     classifierSystemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": classifierPrompt(text)},
		},
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.anthropic.com/v1/messages", bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", 0, fmt.Errorf("claude http %d", resp.StatusCode)
	}

	var r struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", 0, err
	}

	if len(r.Content) == 0 {
		return "", 0, errors.New("no content")
	}

	return parseClassification(strings.TrimSpace(r.Content[0].Text))
}
