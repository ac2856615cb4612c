package chunker

import (
	"fmt"
	"sort"
	"strings"
)

var constructors = map[string]func(Config) Chunker{
	"recursive": func(c Config) Chunker { return NewRecursiveChunker(c) },
	"simple":    func(c Config) Chunker { return NewTextChunker(c) },
}

var aliases = map[string]string{
	"":     "recursive",
	"size": "simple",
}

type Factory struct {
	config Config
}

func NewFactory(config Config) *Factory {
	return &Factory{config: config}
}

// GetChunkerByMethod ищет метод без учёта регистра, пустой метод - recursive
func (f *Factory) GetChunkerByMethod(method string) (Chunker, error) {
	name := strings.ToLower(strings.TrimSpace(method))
	if alias, ok := aliases[name]; ok {
		name = alias
	}

	build, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown chunking method %q (available: %s)", method, strings.Join(Methods(), ", "))
	}
	return build(f.config), nil
}

// Methods - имена методов для CHUNK_METHOD
func Methods() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
