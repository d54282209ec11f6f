package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixed collection keys. The stored schema under each key is exactly the
// corresponding models slice.
const (
	KeyLoads       = "loads"
	KeyShipments   = "shipments"
	KeyQuizReports = "quizReports"
)

// StateBlob is one persisted collection: a JSON document under a fixed key.
type StateBlob struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// Store is the durable key-value surface the warehouse engine writes
// through. Implementations must make Put atomic per key.
type Store interface {
	// Get returns the blob under key, and whether one exists.
	Get(key string) ([]byte, bool, error)
	// Put overwrites the blob under key.
	Put(key string, data []byte) error
}

// DB is the gorm-backed Store.
type DB struct {
	gorm *gorm.DB
}

// NewDB wraps an open gorm connection. The blob table must already be
// migrated.
func NewDB(g *gorm.DB) *DB {
	return &DB{gorm: g}
}

func (d *DB) Get(key string) ([]byte, bool, error) {
	var blob StateBlob
	// Struct condition so gorm quotes the column; key is a reserved word
	// on MySQL.
	if err := d.gorm.Where(&StateBlob{Key: key}).First(&blob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: get %s: %w", key, err)
	}
	return []byte(blob.Value), true, nil
}

func (d *DB) Put(key string, data []byte) error {
	blob := StateBlob{Key: key, Value: string(data)}
	result := d.gorm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob)
	if result.Error != nil {
		return fmt.Errorf("store: put %s: %w", key, result.Error)
	}
	return nil
}

// Reset deletes every stored collection.
func (d *DB) Reset() error {
	if err := d.gorm.Where("1 = 1").Delete(&StateBlob{}).Error; err != nil {
		return fmt.Errorf("store: reset: %w", err)
	}
	return nil
}

// Memory is an in-memory Store for tests and ephemeral runs.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (m *Memory) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.data[key] = cp
	return nil
}

// PutJSON serializes v and stores it under key.
func PutJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", key, err)
	}
	return s.Put(key, data)
}

// GetJSON decodes the blob under key into out. A missing key leaves out
// untouched and returns false.
func GetJSON(s Store, key string, out any) (bool, error) {
	data, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return true, nil
}
