package chunker

import (
	"fmt"
	"log/slog"
	"strings"
)

// DefaultSeparators - от крупных границ к мелким: абзац, строка, предложение, слово, символ
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveChunker режет текст по самой крупной найденной границе
// и склеивает куски обратно до MaxChunkSize с хвостом Overlap.
// Ни один чанк не длиннее MaxChunkSize символов.
type RecursiveChunker struct {
	config     Config
	separators []string
}

// NewRecursiveChunker создаёт recursive chunker с разделителями по умолчанию
func NewRecursiveChunker(config Config) *RecursiveChunker {
	return &RecursiveChunker{config: config, separators: DefaultSeparators}
}

func (r *RecursiveChunker) Name() string {
	return "recursive"
}

func (r *RecursiveChunker) Chunk(content, source string) ([]Chunk, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	texts := r.Split(content)
	chunks := make([]Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, CreateChunk(text, source, map[string]string{
			"chunk_num": fmt.Sprintf("%d", i+1),
			"method":    r.Name(),
		}))
	}

	slog.Debug("✅ chunks created", "chunker", r.Name(), "source", source, "count", len(chunks))
	return chunks, nil
}

// Split возвращает тексты чанков без пустых
func (r *RecursiveChunker) Split(text string) []string {
	return r.split(text, r.separators)
}

func (r *RecursiveChunker) split(text string, separators []string) []string {
	// Выбираем первый разделитель, который встречается в тексте
	separator := ""
	var next []string
	for i, sep := range separators {
		if sep == "" {
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	var result, small []string
	for _, piece := range splitKeep(text, separator) {
		if runeLen(piece) < r.config.MaxChunkSize {
			small = append(small, piece)
			continue
		}

		if len(small) > 0 {
			result = append(result, r.merge(small)...)
			small = nil
		}

		if len(next) == 0 {
			if t := strings.TrimSpace(piece); t != "" {
				result = append(result, t)
			}
			continue
		}
		result = append(result, r.split(piece, next)...)
	}

	if len(small) > 0 {
		result = append(result, r.merge(small)...)
	}
	return result
}

// merge склеивает мелкие куски в чанки, перенося хвост не длиннее Overlap
func (r *RecursiveChunker) merge(pieces []string) []string {
	var docs, current []string
	total := 0

	for _, piece := range pieces {
		n := runeLen(piece)

		if total+n > r.config.MaxChunkSize && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
				docs = append(docs, doc)
			}
			for total > r.config.Overlap || (total+n > r.config.MaxChunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}

		current = append(current, piece)
		total += n
	}

	if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}
