package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrlokans/novelshelf/internal/entities"
)

// Writer is the write side of the key/value store.
type Writer interface {
	// SetKey stores value as JSON under key.
	SetKey(ctx context.Context, key string, value any) error
	DeleteKey(ctx context.Context, key string) error
}

// Recorder writes books into the folders the Aggregator reads.
type Recorder struct {
	store Writer
	now   func() time.Time
}

func NewRecorder(store Writer) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

func (r *Recorder) prepare(book Book) (Book, error) {
	if book.URL == "" {
		return Book{}, errors.New("book url is required")
	}
	if book.Name == "" {
		return Book{}, errors.New("book name is required")
	}
	if book.ID == "" {
		book.ID = BookID(book.URL)
	}
	book.UpdatedAt = r.now().UTC()
	return book, nil
}

// SetBookmark files book under rt. ReadTypeNone removes the bookmark.
func (r *Recorder) SetBookmark(ctx context.Context, book Book, rt entities.ReadType) (Book, error) {
	book, err := r.prepare(book)
	if err != nil {
		return Book{}, err
	}

	stateKey := key(entities.FolderBookmarkState, book.ID)
	bookKey := key(entities.FolderBookmark, book.ID)

	if rt == entities.ReadTypeNone {
		if err := r.store.DeleteKey(ctx, stateKey); err != nil {
			return Book{}, fmt.Errorf("delete bookmark state: %w", err)
		}
		if err := r.store.DeleteKey(ctx, bookKey); err != nil {
			return Book{}, fmt.Errorf("delete bookmark: %w", err)
		}
		return book, nil
	}

	if err := r.store.SetKey(ctx, bookKey, book); err != nil {
		return Book{}, fmt.Errorf("save bookmark: %w", err)
	}
	if err := r.store.SetKey(ctx, stateKey, rt.PrefValue()); err != nil {
		return Book{}, fmt.Errorf("save bookmark state: %w", err)
	}
	return book, nil
}

func (r *Recorder) AddDownload(ctx context.Context, book Book) (Book, error) {
	return r.save(ctx, entities.FolderDownloads, book)
}

func (r *Recorder) AddHistory(ctx context.Context, book Book) (Book, error) {
	return r.save(ctx, entities.FolderHistory, book)
}

func (r *Recorder) save(ctx context.Context, folder string, book Book) (Book, error) {
	book, err := r.prepare(book)
	if err != nil {
		return Book{}, err
	}
	if err := r.store.SetKey(ctx, key(folder, book.ID), book); err != nil {
		return Book{}, fmt.Errorf("save to %s: %w", folder, err)
	}
	return book, nil
}
