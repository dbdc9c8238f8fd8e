package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vibhu-thankii/aether-ai/internal/pkg/env"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-2.0-flash"
)

// GeminiClient produces end-of-session conversation summaries. Summaries
// are best-effort enrichment: callers time-box the call and drop the result
// on failure.
type GeminiClient struct {
	APIKey  string
	BaseURL string
	Model   string

	HTTPClient *http.Client
}

// NewGeminiClientFromEnv builds a client from GEMINI_* configuration.
func NewGeminiClientFromEnv() *GeminiClient {
	return &GeminiClient{
		APIKey:  strings.TrimSpace(env.GetEnv("GEMINI_API_KEY", "")),
		BaseURL: strings.TrimRight(env.GetEnv("GEMINI_API_BASE_URL", defaultGeminiBaseURL), "/"),
		Model:   strings.TrimSpace(env.GetEnv("GEMINI_MODEL", defaultGeminiModel)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Summarize condenses a conversation into a single short sentence.
func (c *GeminiClient) Summarize(ctx context.Context, conversationText string) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", errors.New("GEMINI_API_KEY is not configured")
	}
	if strings.TrimSpace(conversationText) == "" {
		return "", errors.New("conversation text is required")
	}

	prompt := fmt.Sprintf(
		"Briefly summarize the key points of this conversation in a single, short sentence: %q",
		conversationText,
	)
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out geminiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini response contained no summary")
	}

	summary := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if summary == "" {
		return "", errors.New("gemini returned an empty summary")
	}
	return summary, nil
}
