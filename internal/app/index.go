package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/philippgille/chromem-go"
)

// Index - единственная коллекция chromem.
// Запись сериализуется, чтение идёт параллельно.
// Документы только добавляются: ничего не удаляется и не обновляется.
type Index struct {
	mu    sync.RWMutex
	coll  *chromem.Collection
	embed chromem.EmbeddingFunc
}

func newIndex(db *chromem.DB, name string, embed chromem.EmbeddingFunc) (*Index, error) {
	coll, err := db.GetOrCreateCollection(name, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %q: %w", name, err)
	}
	return &Index{coll: coll, embed: embed}, nil
}

// Embed считает эмбеддинг текста. Нормализацию делает chromem при вставке и поиске.
func (ix *Index) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := ix.embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("embedding service returned an empty vector")
	}
	return vec, nil
}

// Add вставляет документы с готовыми эмбеддингами
func (ix *Index) Add(ctx context.Context, docs []chromem.Document, concurrency int) error {
	if len(docs) == 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.coll.AddDocuments(ctx, docs, concurrency); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

// Query возвращает до k ближайших документов. Пустой индекс не ошибка.
func (ix *Index) Query(ctx context.Context, embedding []float32, k int) ([]chromem.Result, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	n := ix.coll.Count()
	if n == 0 || k <= 0 {
		return nil, nil
	}
	if k > n {
		k = n
	}

	results, err := ix.coll.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return results, nil
}

func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.coll.Count()
}
