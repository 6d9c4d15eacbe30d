package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tickflow/internal/domain"
)

// stateDoc is the persisted form of a state snapshot: one JSON document
// per key, last-write-wins.
type stateDoc struct {
	Key       string    `gorm:"primaryKey"`
	Doc       string    // JSON-encoded domain.Snapshot
	UpdatedAt time.Time `gorm:"index"`
}

// Storage is the SQLite persistence backend. It serves two concerns:
// the snapshot store and the pair registry.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (or creates) the SQLite database at dbPath and runs
// the schema migration.
func NewStorage(dbPath string) (*Storage, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Pure Go SQLite driver
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&stateDoc{}, &domain.Pair{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// ======================================================================================
// Snapshot Store
// ======================================================================================

// SaveSnapshot upserts the snapshot document for key.
func (s *Storage) SaveSnapshot(key string, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	doc := stateDoc{
		Key:       key,
		Doc:       string(data),
		UpdatedAt: time.Now(),
	}
	return s.db.Save(&doc).Error
}

// LoadSnapshot returns the snapshot stored under key, or (nil, nil)
// when the key is absent or the document cannot be parsed.
func (s *Storage) LoadSnapshot(key string) (*domain.Snapshot, error) {
	var doc stateDoc
	err := s.db.First(&doc, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("Failed to read state snapshot", slog.String("key", key), slog.Any("error", err))
		return nil, nil
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(doc.Doc), &snap); err != nil {
		slog.Warn("Failed to parse state snapshot", slog.String("key", key), slog.Any("error", err))
		return nil, nil
	}
	return &snap, nil
}

// ======================================================================================
// Pair Registry
// ======================================================================================

// Upsert creates or updates a pair's settings.
func (s *Storage) Upsert(pair *domain.Pair) error {
	return s.db.Save(pair).Error
}

// GetBySymbol retrieves a pair by symbol.
func (s *Storage) GetBySymbol(symbol string) (*domain.Pair, error) {
	var pair domain.Pair
	err := s.db.First(&pair, "symbol = ?", symbol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPairNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// ListActive retrieves all enabled pairs.
func (s *Storage) ListActive() ([]*domain.Pair, error) {
	var pairs []*domain.Pair
	err := s.db.Where("enabled = ?", true).Find(&pairs).Error
	return pairs, err
}

var (
	_ domain.SnapshotStore  = (*Storage)(nil)
	_ domain.PairRepository = (*Storage)(nil)
)
