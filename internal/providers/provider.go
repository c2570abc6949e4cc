// Package providers defines the capability every remote novel source
// implements and a registry that resolves sources by name.
package providers

import (
	"context"
	"errors"
	"strings"

	"github.com/mrlokans/novelshelf/internal/catalog"
	"github.com/mrlokans/novelshelf/internal/entities"
	"github.com/mrlokans/novelshelf/internal/listing"
)

var (
	// ErrNotFound is returned when a novel, slug or chapter body is missing.
	ErrNotFound = errors.New("not found")
	// ErrUnknownProvider is returned by the registry for unregistered names.
	ErrUnknownProvider = errors.New("unknown provider")
)

// MainPageRequest selects one page of a provider's main listing.
type MainPageRequest struct {
	Page     int
	Category string
	OrderBy  string
	Tag      string
	// Chapters restricts results by chapter count. The zero value keeps
	// everything.
	Chapters listing.ChapterRange
}

// ListingKey identifies the listing req reads, ignoring the page.
func (req MainPageRequest) ListingKey() string {
	return strings.Join([]string{req.Category, req.OrderBy, req.Tag, req.Chapters.String()}, "|")
}

// Option is a selectable listing parameter: Name is shown, Value is sent.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Info describes a provider and the listing options it understands.
type Info struct {
	Name        string   `json:"name"`
	MainURL     string   `json:"main_url"`
	HasMainPage bool     `json:"has_main_page"`
	Categories  []Option `json:"categories,omitempty"`
	OrderBys    []Option `json:"order_bys,omitempty"`
	Tags        []Option `json:"tags,omitempty"`
}

// Provider is one remote novel source.
type Provider interface {
	// Name is the registry key, lower case.
	Name() string
	Info() Info
	LoadMainPage(ctx context.Context, req MainPageRequest) (*entities.HeadMainPage, error)
	Search(ctx context.Context, query string) ([]entities.SearchResult, error)
	Load(ctx context.Context, url string) (*entities.StreamResponse, error)
	// LoadHTML returns the chapter body markup.
	LoadHTML(ctx context.Context, url string) (string, error)
	// OnFilterChanged is called when the caller's chapter-count filter
	// changes. Providers that page through remote listings rewind here.
	OnFilterChanged()
}

// CatalogProvider is a provider backed by a locally held catalog.
type CatalogProvider interface {
	Provider
	Catalog() *catalog.Store
}

// Status values used in StreamResponse.Status.
const (
	StatusOngoing   = "Ongoing"
	StatusCompleted = "Completed"
	StatusPaused    = "Paused"
)

// NormalizeStatus maps the status text sources publish onto the three
// status values. Unrecognized text yields "".
func NormalizeStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ongoing", "on going", "updating", "active":
		return StatusOngoing
	case "completed", "complete", "finished", "end":
		return StatusCompleted
	case "hiatus", "paused", "on hold", "dropped", "stopped":
		return StatusPaused
	default:
		return ""
	}
}
