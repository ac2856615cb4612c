package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"docchat/internal/config"
)

// Generator - Generation Service: промпт на вход, текст на выход
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMClient ходит в OpenAI-compatible /chat/completions.
// Один запрос, без ретраев и стриминга.
type LLMClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

func NewLLMClient(cfg *config.Config) *LLMClient {
	return &LLMClient{
		baseURL:     strings.TrimRight(cfg.LLMBaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.LLMModel,
		temperature: cfg.Temperature,
		client:      &http.Client{},
	}
}

// Generate отправляет промпт в LLM и возвращает ответ
func (c *LLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	// Формируем запрос в OpenAI-compatible формате
	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": c.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	// Создаём HTTP запрос
	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	// Отправляем запрос
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("LLM returned status %d: %s", resp.StatusCode, string(body))
	}

	// Парсим ответ, нужен только первый choice
	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return response.Choices[0].Message.Content, nil
}

// buildPrompt подставляет найденные чанки и вопрос в фиксированный шаблон
func buildPrompt(question string, results []SearchResult) string {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Content)
	}

	var buf strings.Builder
	buf.WriteString("Use the context to answer. Context: ")
	buf.WriteString(strings.Join(texts, "\n\n"))
	buf.WriteString(" Question: ")
	buf.WriteString(question)
	buf.WriteString(" Answer:")
	return buf.String()
}
