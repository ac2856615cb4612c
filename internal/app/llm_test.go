package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"docchat/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMClient_Generate(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"42"}}]}`))
	}))
	defer srv.Close()

	client := NewLLMClient(&config.Config{
		LLMBaseURL:  srv.URL + "/v1/",
		APIKey:      "secret",
		LLMModel:    "gemini-test",
		Temperature: 0.3,
	})

	answer, err := client.Generate(context.Background(), "What is the answer?")
	require.NoError(t, err)
	assert.Equal(t, "42", answer)

	assert.Equal(t, "gemini-test", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "What is the answer?", got.Messages[0].Content)
}

func TestLLMClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "quota", status: http.StatusTooManyRequests, body: `{"error":"quota"}`, wantErr: "LLM returned status 429"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: "no response from LLM"},
		{name: "garbage", status: http.StatusOK, body: `not json`, wantErr: "failed to decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewLLMClient(&config.Config{LLMBaseURL: srv.URL, LLMModel: "m"})
			_, err := client.Generate(context.Background(), "q")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
