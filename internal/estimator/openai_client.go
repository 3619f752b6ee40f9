package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type openAI struct {
	endpoint string
	key      string
	model    string
	httpc    *http.Client
	logger   *zap.Logger
}

// NewOpenAI talks to any OpenAI-compatible chat completions endpoint.
func NewOpenAI(endpoint, key, model string, timeout time.Duration, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &openAI{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		model:    model,
		httpc:    &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (c *openAI) Estimate(ctx context.Context, area int64, wantsSalt bool) *Estimate {
	est, err := c.estimate(ctx, area, wantsSalt)
	if err != nil {
		c.logger.Warn("estimate unavailable", zap.Int64("area", area), zap.Error(err))
		return nil
	}
	return est
}

func (c *openAI) estimate(ctx context.Context, area int64, wantsSalt bool) (*Estimate, error) {
	reqBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": "You estimate residential snow clearing jobs. Reply ONLY valid JSON."},
			{"role": "user", "content": renderPrompt(area, wantsSalt)},
		},
		"temperature":     0.2,
		"response_format": map[string]string{"type": "json_object"},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("estimate endpoint returned %d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("no choices")
	}

	return parseEstimate(out.Choices[0].Message.Content)
}

func parseEstimate(content string) (*Estimate, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw struct {
		EstimatedMinutes float64 `json:"estimatedMinutes"`
		Difficulty       string  `json:"difficulty"`
		ProTip           string  `json:"proTip"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("parse estimate: %w", err)
	}

	difficulty := normalizeDifficulty(raw.Difficulty)
	if raw.EstimatedMinutes <= 0 || difficulty == "" {
		return nil, fmt.Errorf("incomplete estimate: %q", content)
	}

	return &Estimate{
		EstimatedMinutes: int(raw.EstimatedMinutes + 0.5),
		Difficulty:       difficulty,
		ProTip:           strings.TrimSpace(raw.ProTip),
	}, nil
}

func normalizeDifficulty(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "low", "easy", "lav":
		return DifficultyLow
	case "medium", "moderate", "middel":
		return DifficultyMedium
	case "high", "hard", "høj":
		return DifficultyHigh
	}
	return ""
}

func renderPrompt(area int64, wantsSalt bool) string {
	salt := "does not want"
	if wantsSalt {
		salt = "wants"
	}
	return fmt.Sprintf(`Give a short assessment of a snow clearing job of %d square meters. The customer %s salting.
Answer as JSON with fields: "estimatedMinutes" (number), "difficulty" (low, medium, high) and "proTip" (one short sentence).`,
		area, salt)
}
