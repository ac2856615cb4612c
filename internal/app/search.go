package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
)

// SearchResult - результат векторного поиска
type SearchResult struct {
	Content    string
	Source     string
	Page       int
	Similarity float32
}

// searchRelevantChunks возвращает top-k чанков без порога similarity.
// Пустой индекс даёт пустой результат, запрос к эмбеддингам при этом не делается.
func (a *App) searchRelevantChunks(ctx context.Context, queryText string) ([]SearchResult, error) {
	if a.index.Count() == 0 {
		return nil, nil
	}

	vec, err := a.index.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := a.index.Query(ctx, vec, a.cfg.TopK)
	if err != nil {
		return nil, err
	}

	searchResults := make([]SearchResult, 0, len(results))
	for _, r := range results {
		page, _ := strconv.Atoi(r.Metadata["page"])
		searchResults = append(searchResults, SearchResult{
			Content:    r.Content,
			Source:     r.Metadata["source"],
			Page:       page,
			Similarity: r.Similarity,
		})
	}

	return searchResults, nil
}

// uniqueSources собирает имена файлов без повторов
func uniqueSources(results []SearchResult) []string {
	seen := make(map[string]struct{}, len(results))
	sources := make([]string, 0, len(results))
	for _, r := range results {
		src := r.Source
		if src == "" {
			src = "Unknown"
		}
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		sources = append(sources, src)
	}
	sort.Strings(sources)
	return sources
}
