package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"docchat/internal/chunker"
	"docchat/internal/config"

	"github.com/philippgille/chromem-go"
)

var (
	// ErrNotReady возвращается, пока Init не прошёл успешно
	ErrNotReady = errors.New("service unavailable")
	// ErrEmptyFilename - имя файла нельзя использовать как путь
	ErrEmptyFilename = errors.New("filename is empty")
)

const (
	indexDirName     = "index"
	metadataFileName = "uploads.json"
)

type App struct {
	cfg           *config.Config
	logger        *slog.Logger
	db            *chromem.DB
	index         *Index
	embeddingFunc chromem.EmbeddingFunc
	generator     Generator
	chunker       chunker.Chunker

	metaMu   sync.Mutex
	metadata *Metadata

	stateMu sync.RWMutex
	initErr error
	ready   bool
}

// Metadata - реестр загруженных файлов, хранится рядом с индексом
type Metadata struct {
	Files map[string]FileInfo `json:"files"`
}

type FileInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Chunks     int       `json:"chunks"`
	Uploads    int       `json:"uploads"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Option настраивает App при создании
type Option func(*App)

// WithEmbeddingFunc подменяет Embedding Service
func WithEmbeddingFunc(fn chromem.EmbeddingFunc) Option {
	return func(a *App) {
		if fn != nil {
			a.embeddingFunc = fn
		}
	}
}

// WithGenerator подменяет Generation Service
func WithGenerator(g Generator) Option {
	return func(a *App) {
		if g != nil {
			a.generator = g
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	factory := chunker.NewFactory(chunker.Config{
		MaxChunkSize: cfg.ChunkSize,
		Overlap:      cfg.ChunkOverlap,
	})
	chunkr, err := factory.GetChunkerByMethod(cfg.ChunkMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to get chunker: %w", err)
	}

	app := &App{
		cfg:      cfg,
		logger:   slog.Default(),
		metadata: &Metadata{Files: make(map[string]FileInfo)},
		chunker:  chunkr,
	}

	for _, opt := range opts {
		opt(app)
	}

	// Эмбеддинги и генерация идут к одному провайдеру через OpenAI-compatible API
	if app.embeddingFunc == nil {
		app.embeddingFunc = chromem.NewEmbeddingFuncOpenAICompat(cfg.LLMBaseURL, cfg.APIKey, cfg.EmbedModel, nil)
	}
	if app.generator == nil {
		app.generator = NewLLMClient(cfg)
	}

	return app, nil
}

// Init готовит директории, открывает индекс и реестр загрузок.
// Результат запоминается: при ошибке Ready() возвращает ErrNotReady с причиной.
func (a *App) Init() error {
	err := a.init()

	a.stateMu.Lock()
	a.initErr = err
	a.ready = err == nil
	a.stateMu.Unlock()

	if err != nil {
		a.logger.Error("❌ initialization failed", "error", err)
		return err
	}

	a.logger.Info("✅ system ready",
		"collection", a.cfg.Collection,
		"chunks", a.index.Count(),
		"files", len(a.metadata.Files))
	return nil
}

func (a *App) init() error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	for _, dir := range []string{a.cfg.UploadDir, a.cfg.DataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := a.loadMetadata(); err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}

	db, err := chromem.NewPersistentDB(filepath.Join(a.cfg.DataDir, indexDirName), false)
	if err != nil {
		return fmt.Errorf("failed to open vector database: %w", err)
	}
	a.db = db

	index, err := newIndex(db, a.cfg.Collection, a.embeddingFunc)
	if err != nil {
		return err
	}
	a.index = index

	return nil
}

// Ready сообщает результат старта
func (a *App) Ready() error {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()

	if a.ready {
		return nil
	}
	if a.initErr != nil {
		return fmt.Errorf("%w: %v", ErrNotReady, a.initErr)
	}
	return fmt.Errorf("%w: not initialized", ErrNotReady)
}

// Documents возвращает реестр загрузок по имени и общее число чанков в индексе
func (a *App) Documents() ([]FileInfo, int, error) {
	if err := a.Ready(); err != nil {
		return nil, 0, err
	}

	a.metaMu.Lock()
	files := make([]FileInfo, 0, len(a.metadata.Files))
	for _, f := range a.metadata.Files {
		files = append(files, f)
	}
	a.metaMu.Unlock()

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, a.index.Count(), nil
}

func (a *App) metadataPath() string {
	return filepath.Join(a.cfg.DataDir, metadataFileName)
}

func (a *App) loadMetadata() error {
	a.metaMu.Lock()
	defer a.metaMu.Unlock()

	f, err := os.Open(a.metadataPath())
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&a.metadata); err != nil {
		return err
	}
	if a.metadata.Files == nil {
		a.metadata.Files = make(map[string]FileInfo)
	}
	return nil
}

// recordUpload обновляет реестр после успешной индексации
func (a *App) recordUpload(name string, size int64, chunks int) error {
	a.metaMu.Lock()
	defer a.metaMu.Unlock()

	info := a.metadata.Files[name]
	info.Name = name
	info.Size = size
	info.Chunks += chunks
	info.Uploads++
	info.UploadedAt = time.Now().UTC()
	a.metadata.Files[name] = info

	return a.saveMetadata()
}

// saveMetadata вызывается под metaMu
func (a *App) saveMetadata() error {
	f, err := os.Create(a.metadataPath())
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(a.metadata)
}
