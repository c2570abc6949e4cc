// Package library groups the user's saved books into shelf sections and
// answers which section a title belongs to.
//
// Books are persisted in a key/value store under four folders (see the
// entities.Folder* constants). A bookmark is two entries sharing the same
// book id: its read-type code under FolderBookmarkState and the book itself
// under FolderBookmark.
package library

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Fixed section names besides the read types.
const (
	SectionDownloads = "Downloads"
	SectionHistory   = "History"
)

// Store is the read side of the key/value store.
type Store interface {
	// GetKeys returns every key starting with prefix, in key order.
	GetKeys(ctx context.Context, prefix string) ([]string, error)
	// GetValue returns the JSON stored under key. ok is false when the key
	// does not exist.
	GetValue(ctx context.Context, key string) (value []byte, ok bool, err error)
}

// Book is the cached summary of a saved novel.
type Book struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	Source        string    `json:"source"`
	Author        string    `json:"author,omitempty"`
	PosterURL     string    `json:"poster_url,omitempty"`
	TotalChapters int       `json:"total_chapters,omitempty"`
	LastChapter   int       `json:"last_chapter,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookID derives the storage id of a book from its URL: the first eight
// bytes of its SHA-256, hex encoded.
func BookID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:8])
}

func key(folder, id string) string {
	return folder + "/" + id
}
