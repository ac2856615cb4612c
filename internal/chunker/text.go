package chunker

import (
	"fmt"
	"log/slog"
)

// TextChunker разбивает plain text по размеру с overlap, без учёта границ слов
type TextChunker struct {
	config Config
}

// NewTextChunker создаёт новый simple chunker
func NewTextChunker(config Config) *TextChunker {
	return &TextChunker{config: config}
}

func (s *TextChunker) Name() string {
	return "simple"
}

func (s *TextChunker) Chunk(content, source string) ([]Chunk, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	chunks := s.chunkBySize(content, source)
	slog.Debug("✅ chunks created", "chunker", s.Name(), "source", source, "count", len(chunks))
	return chunks, nil
}

// chunkBySize простое разбиение по размеру с overlap
func (s *TextChunker) chunkBySize(content, source string) []Chunk {
	var chunks []Chunk
	runes := []rune(content)
	chunkNum := 1

	for i := 0; i < len(runes); i += s.config.MaxChunkSize - s.config.Overlap {
		end := i + s.config.MaxChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunk := CreateChunk(string(runes[i:end]), source, map[string]string{
			"chunk_num": fmt.Sprintf("%d", chunkNum),
			"method":    s.Name(),
		})
		// Кусок из одних пробелов не несёт смысла
		if chunk.Text != "" {
			chunks = append(chunks, chunk)
			chunkNum++
		}

		if end >= len(runes) {
			break
		}
	}

	return chunks
}
