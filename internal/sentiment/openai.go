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

type OpenAIClassifier struct {
	cfg *store.Config
}

func NewOpenAIClassifier(cfg *store.Config) *OpenAIClassifier {
	return &OpenAIClassifier{cfg: cfg}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (types.Sentiment, float64, error) {
	ctx, span := trace.StartSpan(ctx, "openai-sentiment-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", 0, errors.New("OPENAI_API_KEY missing")
	}

	body := map[string]any{
		"model": c.cfg.Sentiment.Model,
		"messages": []map[string]string{
			{"role": "system", "content": classifierSystemPrompt},
			{"role": "user", "content": classifierPrompt(text)},
		},
		"temperature": 0.1,
		"max_tokens":  c.cfg.Sentiment.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", 0, fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", 0, err
	}

	if len(r.Choices) == 0 {
		return "", 0, errors.New("no choices")
	}

	return parseClassification(strings.TrimSpace(r.Choices[0].Message.Content))
}

// parseClassification decodes the model's JSON reply and normalizes it.
func parseClassification(out string) (types.Sentiment, float64, error) {
	var parsed struct {
		Sentiment  string  `json:"sentiment"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return "", 0, fmt.Errorf("invalid JSON response: %w", err)
	}

	label := types.Sentiment(strings.ToLower(strings.TrimSpace(parsed.Sentiment)))
	switch label {
	case types.SentimentPositive, types.SentimentNeutral, types.SentimentNegative:
	default:
		return "", 0, fmt.Errorf("unknown sentiment label '%s'", parsed.Sentiment)
	}

	conf := parsed.Confidence
	if conf < 0 || conf > 1 {
		conf = 0
	}
	return label, conf, nil
}
