// Package kv is a durable flat key/value table used for counters and
// configuration blobs that must survive a process restart: classification
// analytics, batch progress, and similar small state.
package kv

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Entry struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (Entry) TableName() string {
	return "kv_entries"
}

type Store struct {
	conn *gorm.DB
}

func NewStore(conn *gorm.DB) (*Store, error) {
	if err := conn.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Store{conn: conn}, nil
}

func (s *Store) Set(key, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&entry).Error
}

func (s *Store) Get(key string) (string, bool) {
	var entry Entry
	err := s.conn.First(&entry, "key = ?", key).Error
	if err != nil {
		return "", false
	}
	return entry.Value, true
}

func (s *Store) SetInt(key string, value int) error {
	return s.Set(key, strconv.Itoa(value))
}

func (s *Store) GetInt(key string) (int, bool) {
	raw, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *Store) SetBool(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}

func (s *Store) GetBool(key string) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	b, _ := strconv.ParseBool(raw)
	return b
}

func (s *Store) SetJSON(key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(key, string(encoded))
}

func (s *Store) GetJSON(key string, out any) error {
	raw, ok := s.Get(key)
	if !ok {
		return gorm.ErrRecordNotFound
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *Store) Delete(key string) error {
	err := s.conn.Delete(&Entry{}, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
