package chunker

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig - размер чанка не положителен или overlap не меньше размера
var ErrInvalidConfig = errors.New("invalid chunker config")

// Chunk - кусок страницы, который уходит в эмбеддинг
type Chunk struct {
	ID       string
	Text     string
	Source   string            // имя загруженного файла
	Metadata map[string]string // page, chunk_num, method
}

type Chunker interface {
	Chunk(content, source string) ([]Chunk, error)
	// Name попадает в metadata["method"] и в логи
	Name() string
}

// Config - размеры в символах (рунах), не в байтах
type Config struct {
	MaxChunkSize int
	Overlap      int
}

func (c Config) Validate() error {
	if c.MaxChunkSize <= 0 || c.Overlap < 0 || c.Overlap >= c.MaxChunkSize {
		return fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidConfig, c.MaxChunkSize, c.Overlap)
	}
	return nil
}
