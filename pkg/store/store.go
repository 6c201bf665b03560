// Copyright 2025 Certen Protocol

package store

import (
	"encoding/json"
	"fmt"
	"log"
)

// KV is the narrow key-value surface Store needs, implemented by
// pkg/kvdb.KVAdapter over a CometBFT dbm.DB.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Iterate(prefix []byte, fn func(key, value []byte) bool) error
}

// Store is C13 Persistence: the single concrete backing for every other
// component's Store/Directory/EligibleSet interface.
type Store struct {
	kv     KV
	mirror AuditMirror // optional Postgres audit mirror, may be nil
	logger *log.Logger
}

// Config holds Store construction options.
type Config struct {
	// Mirror is an optional audit sink (pkg/store's Postgres mirror)
	// written to alongside the primary KV store. Nil disables mirroring.
	Mirror AuditMirror
	Logger *log.Logger
}

// DefaultConfig returns the Store default configuration (no audit mirror).
func DefaultConfig() *Config {
	return &Config{Logger: log.New(log.Writer(), "[Store] ", log.LstdFlags)}
}

// New builds a Store over kv.
func New(kv KV, cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[Store] ", log.LstdFlags)
	}
	return &Store{kv: kv, mirror: cfg.Mirror, logger: cfg.Logger}
}

func (s *Store) getJSON(key []byte, out interface{}) (bool, error) {
	raw, err := s.kv.Get(key)
	if err != nil {
		return false, fmt.Errorf("store: get %s: %w", string(key[:1]), err)
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("store: decode %s: %w", string(key[:1]), err)
	}
	return true, nil
}

func (s *Store) putJSON(key []byte, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", string(key[:1]), err)
	}
	if err := s.kv.Set(key, raw); err != nil {
		return fmt.Errorf("store: put %s: %w", string(key[:1]), err)
	}
	return nil
}

// putJSONAtHeight writes value under key and records a height-index entry
// pointing back at key, so ReverseHeight can find and delete it on a
// reorg disconnect (§4.13 "reorgs reverse writes by block height").
func (s *Store) putJSONAtHeight(key []byte, value interface{}, height uint64) error {
	if err := s.putJSON(key, value); err != nil {
		return err
	}
	if err := s.kv.Set(heightIndexKey(height, key), []byte{1}); err != nil {
		return fmt.Errorf("store: index height %d: %w", height, err)
	}
	return nil
}

// ReverseHeight deletes every record indexed at height, undoing
// putJSONAtHeight writes on a reorg disconnect.
func (s *Store) ReverseHeight(height uint64) error {
	var dataKeys [][]byte
	prefix := heightIndexPrefix(height)
	err := s.kv.Iterate(prefix, func(key, value []byte) bool {
		dataKey := make([]byte, len(key)-len(prefix))
		copy(dataKey, key[len(prefix):])
		dataKeys = append(dataKeys, dataKey)
		return true
	})
	if err != nil {
		return fmt.Errorf("store: scan height index %d: %w", height, err)
	}

	for _, dataKey := range dataKeys {
		if err := s.kv.Delete(dataKey); err != nil {
			return fmt.Errorf("store: delete reversed key: %w", err)
		}
		if err := s.kv.Delete(heightIndexKey(height, dataKey)); err != nil {
			return fmt.Errorf("store: delete height index entry: %w", err)
		}
	}
	s.logger.Printf("reversed %d records at height %d", len(dataKeys), height)
	return nil
}
