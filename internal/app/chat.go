package app

import (
	"context"
	"fmt"
	"time"
)

// Answer - ответ модели и файлы, из которых взят контекст
type Answer struct {
	Text    string
	Sources []string
}

// Ask находит top-k чанков, собирает промпт и спрашивает модель.
// Кэша нет: одинаковые вопросы каждый раз проходят весь путь.
func (a *App) Ask(ctx context.Context, question string) (*Answer, error) {
	if err := a.Ready(); err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := a.searchRelevantChunks(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	a.logger.Debug("🔍 relevant chunks found", "count", len(results))

	prompt := buildPrompt(question, results)
	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	answer := &Answer{Text: text, Sources: uniqueSources(results)}
	a.logger.Info("🤖 question answered",
		"chunks", len(results),
		"sources", answer.Sources,
		"duration", time.Since(start).Round(time.Millisecond))
	return answer, nil
}
