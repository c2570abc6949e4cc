package entities

import (
	"time"
)

// KeyValue is one persisted datastore entry. Values are JSON documents.
type KeyValue struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:255" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KeyValue) TableName() string {
	return "datastore"
}

// Datastore folders. Keys are "<folder>/<book id>".
const (
	FolderBookmarkState = "result_bookmarked_state"
	FolderBookmark      = "result_bookmarked"
	FolderDownloads     = "downloads_data"
	FolderHistory       = "result_history"
)
