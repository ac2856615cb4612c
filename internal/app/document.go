package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"docchat/internal/chunker"

	"github.com/philippgille/chromem-go"
)

// IngestDocument сохраняет PDF, режет его на чанки и кладёт их в индекс.
// Возвращает число добавленных чанков.
//
// Эмбеддинги считаются для всех чанков до вставки: если хоть один не посчитался,
// в индекс ничего не попадает.
func (a *App) IngestDocument(ctx context.Context, filename string, r io.Reader) (int, error) {
	if err := a.Ready(); err != nil {
		return 0, err
	}

	name, err := storedName(filename)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	path := filepath.Join(a.cfg.UploadDir, name)
	size, err := saveFile(path, r)
	if err != nil {
		return 0, fmt.Errorf("failed to save file: %w", err)
	}
	a.logger.Info("📄 file saved", "file", name, "bytes", size)

	pages, err := extractPages(path)
	if err != nil {
		return 0, fmt.Errorf("failed to extract text from %s: %w", name, err)
	}

	chunks, err := a.chunkPages(pages, name)
	if err != nil {
		return 0, err
	}
	a.logger.Info("📦 split into chunks", "file", name, "pages", len(pages), "chunks", len(chunks))

	if len(chunks) == 0 {
		a.logger.Warn("⚠️  no extractable text", "file", name)
		if err := a.recordUpload(name, size, 0); err != nil {
			a.logger.Warn("⚠️  failed to save metadata", "error", err)
		}
		return 0, nil
	}

	docs, err := a.embedChunks(ctx, chunks)
	if err != nil {
		return 0, err
	}

	if err := a.index.Add(ctx, docs, a.cfg.EmbedConcurrency); err != nil {
		return 0, err
	}

	if err := a.recordUpload(name, size, len(docs)); err != nil {
		// Чанки уже в индексе, реестр вторичен
		a.logger.Warn("⚠️  failed to save metadata", "error", err)
	}

	a.logger.Info("✅ document indexed",
		"file", name,
		"chunks", len(docs),
		"duration", time.Since(start).Round(time.Millisecond))
	return len(docs), nil
}

// IngestFile загружает локальный PDF тем же пайплайном
func (a *App) IngestFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	return a.IngestDocument(ctx, filepath.Base(path), f)
}

// storedName оставляет только последний элемент пути
func storedName(filename string) (string, error) {
	name := filepath.Base(filepath.Clean(strings.TrimSpace(filename)))
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return "", ErrEmptyFilename
	}
	return name, nil
}

// saveFile пишет байты как есть, перезаписывая прежнюю копию
func saveFile(path string, r io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		return n, err
	}
	return n, f.Close()
}

// chunkPages режет каждую страницу отдельно, чанк не пересекает границу страниц
func (a *App) chunkPages(pages []Page, source string) ([]chunker.Chunk, error) {
	var chunks []chunker.Chunk
	for _, p := range pages {
		pageChunks, err := a.chunker.Chunk(p.Text, source)
		if err != nil {
			return nil, fmt.Errorf("failed to chunk page %d: %w", p.Number, err)
		}
		for i := range pageChunks {
			pageChunks[i].Metadata["page"] = strconv.Itoa(p.Number)
		}
		chunks = append(chunks, pageChunks...)
	}
	return chunks, nil
}

// embedChunks считает эмбеддинги параллельно, не больше EmbedConcurrency запросов сразу.
// Первая ошибка отменяет остальные запросы.
func (a *App) embedChunks(ctx context.Context, chunks []chunker.Chunk) ([]chromem.Document, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Semaphore для контроля concurrency
	sem := make(chan struct{}, a.cfg.EmbedConcurrency)
	docs := make([]chromem.Document, len(chunks))

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)

	for i, chunk := range chunks {
		wg.Add(1)
		go func(idx int, ch chunker.Chunk) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			vec, err := a.index.Embed(ctx, ch.Text)
			if err != nil {
				once.Do(func() {
					firstErr = fmt.Errorf("failed to embed chunk %d of %s: %w", idx+1, ch.Source, err)
					cancel()
				})
				return
			}

			metadata := make(map[string]string, len(ch.Metadata)+1)
			for k, v := range ch.Metadata {
				metadata[k] = v
			}
			metadata["source"] = ch.Source

			docs[idx] = chromem.Document{
				ID:        ch.ID,
				Content:   ch.Text,
				Metadata:  metadata,
				Embedding: vec,
			}
		}(i, chunk)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
