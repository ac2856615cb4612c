package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// CreateChunk создаёт чанк со случайным ID.
// Одинаковый текст из повторной загрузки даёт новый чанк, а не перезапись старого.
func CreateChunk(text, source string, metadata map[string]string) Chunk {
	text = strings.TrimSpace(text)

	if metadata == nil {
		metadata = make(map[string]string)
	}

	return Chunk{
		ID:       uuid.NewString(),
		Text:     text,
		Source:   source,
		Metadata: metadata,
	}
}

// runeLen - длина в символах, а не в байтах
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// splitKeep режет текст по разделителю, оставляя его в конце куска.
// Пустой разделитель режет по символам.
func splitKeep(text, sep string) []string {
	var parts []string
	if sep == "" {
		parts = make([]string, 0, len(text))
		for _, r := range text {
			parts = append(parts, string(r))
		}
		return parts
	}

	for _, p := range strings.SplitAfter(text, sep) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
