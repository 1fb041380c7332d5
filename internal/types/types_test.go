package types

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestSentimentAligned(t *testing.T) {
	cases := []struct {
		sentiment Sentiment
		direction Direction
		want      bool
	}{
		{SentimentPositive, DirectionGainer, true},
		{SentimentNegative, DirectionLoser, true},
		{SentimentPositive, DirectionLoser, false},
		{SentimentNegative, DirectionGainer, false},
		{SentimentNeutral, DirectionGainer, false},
		{SentimentNeutral, DirectionLoser, false},
	}
	for _, tc := range cases {
		if got := tc.sentiment.Aligned(tc.direction); got != tc.want {
			t.Errorf("%s.Aligned(%s) = %v, want %v", tc.sentiment, tc.direction, got, tc.want)
		}
	}
}

func TestReportStatusTerminal(t *testing.T) {
	for _, s := range []ReportStatus{StatusComplete, StatusPartial, StatusFailed} {
		if !s.Terminal() {
			t.Errorf("Expected %s to be terminal", s)
		}
	}
	for _, s := range []ReportStatus{StatusPending, StatusRunning} {
		if s.Terminal() {
			t.Errorf("Expected %s not to be terminal", s)
		}
	}
}

func TestDateKey(t *testing.T) {
	d := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	if got := DateKey(d); got != "2026-03-02" {
		t.Errorf("Expected 2026-03-02, got %s", got)
	}
}

func TestIsDataUnavailable(t *testing.T) {
	wrapped := fmt.Errorf("loading prices: %w", ErrDataUnavailable)
	if !IsDataUnavailable(wrapped) {
		t.Error("Expected wrapped ErrDataUnavailable to be detected")
	}
	if IsDataUnavailable(errors.New("other")) {
		t.Error("Expected unrelated error not to match")
	}
}
