package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *GeminiClient {
	return &GeminiClient{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Model:      "gemini-2.0-flash",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSummarize(t *testing.T) {
	var gotPath string
	var gotRequest geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		_ = json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []struct {
				Content geminiContent `json:"content"`
			}{
				{Content: geminiContent{Parts: []geminiPart{{Text: "  They talked about hiking plans.  "}}}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	summary, err := client.Summarize(context.Background(), "user: let's go hiking\nagent: great idea")
	require.NoError(t, err)

	assert.Equal(t, "They talked about hiking plans.", summary)
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	require.Len(t, gotRequest.Contents, 1)
	require.Len(t, gotRequest.Contents[0].Parts, 1)
	assert.Contains(t, gotRequest.Contents[0].Parts[0].Text, "single, short sentence")
	assert.Contains(t, gotRequest.Contents[0].Parts[0].Text, "let's go hiking")
}

func TestSummarizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Summarize(context.Background(), "user: hello")
	assert.ErrorContains(t, err, "status=429")
}

func TestSummarizeEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Summarize(context.Background(), "user: hello")
	assert.Error(t, err)
}

func TestSummarizeRequiresConfiguration(t *testing.T) {
	client := newTestClient("http://localhost:0")
	client.APIKey = ""
	_, err := client.Summarize(context.Background(), "user: hello")
	assert.Error(t, err)

	client = newTestClient("http://localhost:0")
	_, err = client.Summarize(context.Background(), "   ")
	assert.Error(t, err)
}

func TestSummarizeHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).Summarize(ctx, "user: hello")
	assert.Error(t, err)
}
