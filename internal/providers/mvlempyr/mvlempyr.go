// Package mvlempyr reads MVLEmpyr. The whole catalog is published as one
// WordPress JSON document, so listings and search run against a locally
// held copy; chapter lists come from the posts API and are cached until the
// newest chapter changes.
package mvlempyr

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mrlokans/novelshelf/internal/catalog"
	"github.com/mrlokans/novelshelf/internal/entities"
	"github.com/mrlokans/novelshelf/internal/freshness"
	"github.com/mrlokans/novelshelf/internal/listing"
	"github.com/mrlokans/novelshelf/internal/lru"
	"github.com/mrlokans/novelshelf/internal/providers"
	"github.com/mrlokans/novelshelf/internal/scrape"
)

const (
	Name = "mvlempyr"

	DefaultMainURL = "https://www.mvlempyr.com"
	DefaultAPIBase = "https://chap.heliosarchive.online/wp-json/wp/v2"

	posterURLFormat = "https://assets.mvlempyr.app/images/300/%d.webp"
	chapterSelector = "div#chapter.ct-text-block"
)

var (
	slugPattern    = regexp.MustCompile(`/novel/([^/]+)`)
	chapterPattern = regexp.MustCompile(`/chapter/(\d+)-(\d+)`)
)

// Options configures the provider. Zero values take the defaults.
type Options struct {
	Client  *scrape.Client
	DataDir string
	Catalog catalog.Options // Name and Dir are filled in

	PageSize            int // listing page size, default 30
	ChapterListCapacity int // default 20
	SignalCapacity      int // default 50
	ChapterHTMLCapacity int // default 20

	MainURL string
	APIBase string
}

type Provider struct {
	client   *scrape.Client
	catalog  *catalog.Store
	chapters *freshness.Reconciler[int]
	html     *lru.Cache[string, string]

	mainURL  string
	apiBase  string
	pageSize int
}

var _ providers.CatalogProvider = (*Provider)(nil)

func New(opts Options) (*Provider, error) {
	if opts.Client == nil {
		opts.Client = scrape.NewClient(scrape.Options{})
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 30
	}
	if opts.ChapterHTMLCapacity <= 0 {
		opts.ChapterHTMLCapacity = 20
	}
	if opts.MainURL == "" {
		opts.MainURL = DefaultMainURL
	}
	if opts.APIBase == "" {
		opts.APIBase = DefaultAPIBase
	}

	p := &Provider{
		client:   opts.Client,
		mainURL:  strings.TrimRight(opts.MainURL, "/"),
		apiBase:  strings.TrimRight(opts.APIBase, "/"),
		pageSize: opts.PageSize,
		html:     lru.New[string, string](opts.ChapterHTMLCapacity),
		chapters: freshness.NewReconciler[int](freshness.Options{
			ListCapacity:   opts.ChapterListCapacity,
			SignalCapacity: opts.SignalCapacity,
			NewestFirst:    true,
			Name:           "MVLEmpyr chapters",
		}),
	}

	catalogOpts := opts.Catalog
	catalogOpts.Name = Name
	catalogOpts.Dir = opts.DataDir
	store, err := catalog.NewStore(p.fetchCatalog, catalogOpts)
	if err != nil {
		return nil, fmt.Errorf("create mvlempyr catalog: %w", err)
	}
	p.catalog = store

	return p, nil
}

func (p *Provider) Name() string { return Name }

func (p *Provider) Catalog() *catalog.Store { return p.catalog }

func (p *Provider) Info() providers.Info {
	return providers.Info{
		Name:        "MVLEmpyr",
		MainURL:     p.mainURL,
		HasMainPage: true,
		Categories:  categories,
		OrderBys:    orderBys,
		Tags:        tags,
	}
}

// OnFilterChanged is a no-op: every listing is computed from the catalog.
func (p *Provider) OnFilterChanged() {}

func (p *Provider) fetchCatalog(ctx context.Context, pageSize int) ([]entities.Record, error) {
	var records []entities.Record
	url := fmt.Sprintf("%s/mvl-novels?per_page=%d", p.apiBase, pageSize)
	if err := p.client.JSON(ctx, url, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (p *Provider) LoadMainPage(ctx context.Context, req providers.MainPageRequest) (*entities.HeadMainPage, error) {
	if err := p.catalog.EnsureLoaded(ctx); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	sorted := listing.FilterAndSort(p.catalog.Records(), listing.Query{
		Status: req.Category,
		Genre:  req.Tag,
		SortBy: req.OrderBy,
	}, listing.DefaultFields)
	inRange := listing.FilterChapters(sorted, req.Chapters, listing.DefaultFields)
	page := listing.Paginate(inRange, req.Page, p.pageSize)

	items := make([]entities.SearchResult, 0, len(page))
	for _, rec := range page {
		if item, ok := p.searchResult(rec); ok {
			items = append(items, item)
		}
	}
	return &entities.HeadMainPage{URL: p.mainURL, Items: items}, nil
}

func (p *Provider) Search(ctx context.Context, query string) ([]entities.SearchResult, error) {
	if err := p.catalog.EnsureLoaded(ctx); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	needle := strings.ToLower(query)
	var results []entities.SearchResult
	for _, rec := range p.catalog.Records() {
		if !matchesQuery(rec, needle) {
			continue
		}
		item, ok := p.searchResult(rec)
		if !ok {
			continue
		}
		item.LatestChapter = item.TotalChapterCount
		results = append(results, item)
	}
	return results, nil
}

var searchFields = []string{"name", "author-name", "tags", "genre", "synopsis-text", "associated-names"}

func matchesQuery(rec entities.Record, needle string) bool {
	for _, field := range searchFields {
		if strings.Contains(strings.ToLower(rec.Text(field)), needle) {
			return true
		}
	}
	return false
}

// searchResult maps a catalog record. Records without a name, slug or
// novel code are skipped.
func (p *Provider) searchResult(rec entities.Record) (entities.SearchResult, bool) {
	name, ok := rec.Str("name")
	if !ok || name == "" {
		return entities.SearchResult{}, false
	}
	slug, ok := rec.Str("slug")
	if !ok || slug == "" {
		return entities.SearchResult{}, false
	}
	code, ok := rec.Int("novel-code")
	if !ok {
		return entities.SearchResult{}, false
	}
	return entities.SearchResult{
		Name:              name,
		URL:               p.mainURL + "/novel/" + slug,
		PosterURL:         fmt.Sprintf(posterURLFormat, code),
		TotalChapterCount: rec.Text(listing.DefaultFields.Chapters),
	}, true
}

func (p *Provider) Load(ctx context.Context, url string) (*entities.StreamResponse, error) {
	m := slugPattern.FindStringSubmatch(url)
	if m == nil {
		return nil, fmt.Errorf("slug in %q: %w", url, providers.ErrNotFound)
	}
	slug := m[1]

	if err := p.catalog.ForceFullLoad(ctx); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	rec, ok := p.catalog.Find(func(r entities.Record) bool {
		s, _ := r.Str("slug")
		return s == slug
	})
	if !ok {
		return nil, fmt.Errorf("novel %q: %w", slug, providers.ErrNotFound)
	}
	name, ok := rec.Str("name")
	if !ok || name == "" {
		return nil, fmt.Errorf("name of novel %q: %w", slug, providers.ErrNotFound)
	}

	author, _ := rec.Str("author-name")
	code, _ := rec.Int("novel-code")

	chapters, err := p.chapters.Chapters(ctx, code,
		func(ctx context.Context) (string, error) { return p.latestChapterDate(ctx, code) },
		func(ctx context.Context) ([]entities.Chapter, error) { return p.crawlChapters(ctx, code) },
	)
	if err != nil {
		return nil, err
	}

	return &entities.StreamResponse{
		Title:     name,
		URL:       scrape.AbsoluteURL(p.mainURL, url),
		Author:    author,
		PosterURL: fmt.Sprintf(posterURLFormat, code),
		Synopsis:  scrape.PlainText(rec.Text("synopsis")),
		Status:    providers.NormalizeStatus(rec.Text("status")),
		Chapters:  chapters,
	}, nil
}

func (p *Provider) LoadHTML(ctx context.Context, url string) (string, error) {
	if content, ok := p.html.Get(url); ok {
		return content, nil
	}

	doc, err := p.client.Document(ctx, scrape.AbsoluteURL(p.mainURL, url))
	if err != nil {
		return "", err
	}
	sel := doc.Find(chapterSelector).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("chapter content at %s: %w", url, providers.ErrNotFound)
	}
	content, err := sel.Html()
	if err != nil {
		return "", fmt.Errorf("render chapter content: %w", err)
	}

	p.html.Put(url, content)
	return content, nil
}
