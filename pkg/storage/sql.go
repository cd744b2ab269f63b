package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is a row of the local_storage table.
type Entry struct {
	StorageKey string    `gorm:"column:storage_key;primaryKey"`
	Value      string    `gorm:"column:value;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (Entry) TableName() string { return "local_storage" }

// SQLKV persists values in the local_storage table through GORM.
type SQLKV struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQL(db *gorm.DB) *SQLKV {
	return &SQLKV{db: db, now: time.Now}
}

func (s *SQLKV) Get(ctx context.Context, key string) (string, bool, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Where("storage_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select local_storage %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (s *SQLKV) Set(ctx context.Context, key, value string) error {
	entry := Entry{StorageKey: key, Value: value, UpdatedAt: s.now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert local_storage %s: %w", key, err)
	}
	return nil
}
