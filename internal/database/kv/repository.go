// Package kv provides key/value operations over the datastore table.
//
// # Usage
//
//	repo := kv.NewRepository(db)
//	err := repo.SetKey(ctx, "downloads_data/ab12", book)
//	raw, ok, err := repo.GetValue(ctx, "downloads_data/ab12")
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/novelshelf/internal/entities"
)

// Repository handles all datastore operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new key/value repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GetKeys returns the keys starting with prefix in ascending order.
func (r *Repository) GetKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).
		Model(&entities.KeyValue{}).
		Where(`key LIKE ? ESCAPE '\'`, likeEscaper.Replace(prefix)+"%").
		Order("key").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

// GetValue returns the JSON stored under key.
func (r *Repository) GetValue(ctx context.Context, key string) ([]byte, bool, error) {
	var kv entities.KeyValue
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(kv.Value), true, nil
}

// SetKey creates or updates key with value encoded as JSON.
func (r *Repository) SetKey(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	db := r.db.WithContext(ctx)
	var kv entities.KeyValue
	result := db.Where("key = ?", key).First(&kv)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		kv = entities.KeyValue{
			Key:   key,
			Value: string(raw),
		}
		return db.Create(&kv).Error
	} else if result.Error != nil {
		return result.Error
	}

	kv.Value = string(raw)
	return db.Save(&kv).Error
}

// DeleteKey removes key. Missing keys are not an error.
func (r *Repository) DeleteKey(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&entities.KeyValue{}).Error
}
