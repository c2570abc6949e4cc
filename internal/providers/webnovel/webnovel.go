// Package webnovel reads the fan-fiction section of Webnovel's mobile site.
// Listing, search and detail data come from the site's JSON endpoints, which
// require the CSRF token the site sets as a cookie on first visit.
package webnovel

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/publicsuffix"

	"github.com/mrlokans/novelshelf/internal/entities"
	"github.com/mrlokans/novelshelf/internal/lru"
	"github.com/mrlokans/novelshelf/internal/pagination"
	"github.com/mrlokans/novelshelf/internal/providers"
	"github.com/mrlokans/novelshelf/internal/scrape"
)

const (
	Name           = "webnovel"
	DefaultMainURL = "https://m.webnovel.com"

	csrfCookie     = "_csrfToken"
	coverURLFormat = "https://book-pic.webnovel.com/bookcover/%s?imageMogr2/thumbnail/180x|imageMogr2/format/webp|imageMogr2/quality/70!"

	chapterLinkSelector = "a.lh24.db.oh.fs14.clearfix.g_row.pr.pt8.pb8"
	chapterNameSelector = "strong.styles_chapter_name__lQv69 > span"
	contentSelector     = "div.cha-content[data-report-l1='3'] div.cha-words"

	defaultTag      = "fanfic"
	defaultOrderBy  = "1"
	defaultCategory = "0"

	maxSearchPages = 50
)

// Options configures the provider. Zero values take the defaults.
type Options struct {
	Client              scrape.Options // the cookie jar is always replaced
	MainURL             string
	MinResults          int // default 11
	MaxPages            int // default 10
	ChapterHTMLCapacity int // default 20
}

type Provider struct {
	client    *scrape.Client
	mainURL   string
	collector *pagination.Collector[entities.SearchResult]
	html      *lru.Cache[string, string]

	mu        sync.Mutex
	csrfToken string
}

var _ providers.Provider = (*Provider)(nil)

func New(opts Options) (*Provider, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	clientOpts := opts.Client
	clientOpts.Jar = jar
	if clientOpts.UserAgent == "" {
		clientOpts.UserAgent = scrape.DefaultUserAgent
	}

	if opts.MainURL == "" {
		opts.MainURL = DefaultMainURL
	}
	if opts.ChapterHTMLCapacity <= 0 {
		opts.ChapterHTMLCapacity = 20
	}

	return &Provider{
		client:  scrape.NewClient(clientOpts),
		mainURL: strings.TrimRight(opts.MainURL, "/"),
		collector: pagination.NewCollector(opts.MinResults, opts.MaxPages, func(r entities.SearchResult) string {
			return r.URL
		}),
		html: lru.New[string, string](opts.ChapterHTMLCapacity),
	}, nil
}

func (p *Provider) Name() string { return Name }

func (p *Provider) Info() providers.Info {
	return providers.Info{
		Name:        "Webnovel (Fanfic)",
		MainURL:     p.mainURL,
		HasMainPage: true,
		Categories:  categories,
		OrderBys:    orderBys,
		Tags:        tags,
	}
}

// OnFilterChanged rewinds the listing cursor and forgets returned novels.
// LoadMainPage also rewinds on its own when the category, order, tag or
// chapter range differ from the previous call.
func (p *Provider) OnFilterChanged() {
	p.collector.Reset()
}

// token returns the CSRF token, visiting the home page once to obtain the
// session cookies.
func (p *Provider) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.csrfToken != "" {
		return p.csrfToken, nil
	}
	if _, err := p.client.Get(ctx, p.mainURL+"/"); err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	for _, c := range p.client.Cookies(p.mainURL) {
		if c.Name == csrfCookie && c.Value != "" {
			p.csrfToken = c.Value
			return p.csrfToken, nil
		}
	}
	return "", &scrape.LoadError{URL: p.mainURL, Err: fmt.Errorf("%s cookie not set", csrfCookie)}
}

func coverURL(bookID string) string {
	return fmt.Sprintf(coverURLFormat, bookID)
}

func (p *Provider) bookURL(bookID string) string {
	return p.mainURL + "/book/" + bookID
}

func (p *Provider) categoryURL(token string, req providers.MainPageRequest, page int) string {
	q := url.Values{}
	q.Set("_csrfToken", token)
	q.Set("language", "en")
	q.Set("categoryId", categoryID(orDefault(req.Tag, defaultTag)))
	q.Set("categoryType", "4")
	q.Set("orderBy", orDefault(req.OrderBy, defaultOrderBy))
	q.Set("pageIndex", fmt.Sprint(page))
	q.Set("bookStatus", orDefault(req.Category, defaultCategory))
	return p.mainURL + "/go/pcm/category/categoryAjax?" + q.Encode()
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

func (p *Provider) searchResult(b bookItem) (entities.SearchResult, bool) {
	id := string(b.BookID)
	if id == "" {
		return entities.SearchResult{}, false
	}
	name := strings.TrimSpace(b.BookName)
	if name == "" {
		name = "Untitled"
	}
	count := string(b.ChapterNum)
	if count == "" {
		count = "0"
	}
	return entities.SearchResult{
		Name:              name,
		URL:               p.bookURL(id),
		PosterURL:         coverURL(id),
		TotalChapterCount: count,
	}, true
}

func (p *Provider) LoadMainPage(ctx context.Context, req providers.MainPageRequest) (*entities.HeadMainPage, error) {
	token, err := p.token(ctx)
	if err != nil {
		return nil, err
	}
	referer := scrape.WithHeader("Referer", p.mainURL+"/stories/"+orDefault(req.Tag, defaultTag))

	fetch := func(ctx context.Context, page int) ([]entities.SearchResult, bool, error) {
		var resp categoryResponse
		if err := p.client.JSON(ctx, p.categoryURL(token, req, page), &resp, referer); err != nil {
			return nil, false, err
		}
		items := make([]entities.SearchResult, 0, len(resp.Data.Items))
		for _, b := range resp.Data.Items {
			if item, ok := p.searchResult(b); ok {
				items = append(items, item)
			}
		}
		return items, len(resp.Data.Items) > 0, nil
	}
	keep := func(r entities.SearchResult) bool {
		return req.Chapters.Allows(r.TotalChapterCount)
	}

	items, err := p.collector.CollectListing(ctx, req.ListingKey(), req.Page, fetch, keep)
	if err != nil {
		return nil, err
	}
	return &entities.HeadMainPage{
		URL:   p.categoryURL(token, req, p.collector.LastLoadedPage()),
		Items: items,
	}, nil
}

func (p *Provider) Search(ctx context.Context, query string) ([]entities.SearchResult, error) {
	token, err := p.token(ctx)
	if err != nil {
		return nil, err
	}
	keywords := url.QueryEscape(query)

	return pagination.Drain(ctx, maxSearchPages, func(ctx context.Context, page int) ([]entities.SearchResult, bool, error) {
		pageURL := fmt.Sprintf("%s/go/pcm/search/result?_csrfToken=%s&pageIndex=%d&type=fanfic&keywords=%s",
			p.mainURL, url.QueryEscape(token), page, keywords)

		var resp searchResponse
		err := p.client.JSON(ctx, pageURL, &resp,
			scrape.WithHeader("Referer", p.mainURL+"/fanfic-search?keywords="+keywords),
			scrape.WithHeader("X-Requested-With", "XMLHttpRequest"),
		)
		if err != nil {
			return nil, false, err
		}
		if resp.Data == nil || resp.Data.FanficBookInfo == nil {
			return nil, false, nil
		}

		info := resp.Data.FanficBookInfo
		results := make([]entities.SearchResult, 0, len(info.Items))
		for _, b := range info.Items {
			if item, ok := p.searchResult(b); ok {
				results = append(results, item)
			}
		}
		return results, !info.last(), nil
	})
}

func (p *Provider) Load(ctx context.Context, novelURL string) (*entities.StreamResponse, error) {
	token, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	bookID := strings.TrimRight(novelURL, "/")
	bookID = bookID[strings.LastIndex(bookID, "/")+1:]
	if bookID == "" {
		return nil, fmt.Errorf("book id in %q: %w", novelURL, providers.ErrNotFound)
	}

	var detail detailResponse
	detailURL := fmt.Sprintf("%s/go/pcm/book/get-book-detail?_csrfToken=%s&bookId=%s",
		p.mainURL, url.QueryEscape(token), url.QueryEscape(bookID))
	if err := p.client.JSON(ctx, detailURL, &detail); err != nil {
		return nil, fmt.Errorf("load book detail: %w", err)
	}
	if detail.Data == nil || detail.Data.BookInfo == nil {
		return nil, fmt.Errorf("book %s: %w", bookID, providers.ErrNotFound)
	}
	info := detail.Data.BookInfo

	chapters, err := p.catalog(ctx, bookID)
	if err != nil {
		return nil, err
	}

	title := orDefault(info.BookName, "Untitled")
	author := orDefault(info.AuthorName, "Unknown")

	return &entities.StreamResponse{
		Title:     title,
		URL:       scrape.AbsoluteURL(p.mainURL, novelURL),
		Author:    author,
		PosterURL: coverURL(bookID),
		Synopsis:  strings.TrimSpace(info.Description),
		Status:    providers.NormalizeStatus(actionStatus(info.ActionStatus)),
		Chapters:  chapters,
	}, nil
}

func (p *Provider) catalog(ctx context.Context, bookID string) ([]entities.Chapter, error) {
	doc, err := p.client.Document(ctx, p.bookURL(bookID)+"/catalog")
	if err != nil {
		return nil, fmt.Errorf("load chapter catalog: %w", err)
	}

	links := doc.Find(chapterLinkSelector)
	chapters := make([]entities.Chapter, 0, links.Length())
	for i := range links.Nodes {
		link := links.Eq(i)
		href, ok := link.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			continue
		}
		name := strings.TrimSpace(link.Find(chapterNameSelector).First().Text())
		if name == "" {
			name = fmt.Sprintf("Chapter %d", i+1)
		}
		chapters = append(chapters, entities.Chapter{
			Name: name,
			URL:  scrape.AbsoluteURL(p.mainURL, href),
		})
	}
	return chapters, nil
}

// actionStatus maps the detail API's numeric status.
func actionStatus(code int) string {
	switch code {
	case 30:
		return "ongoing"
	case 50:
		return "completed"
	default:
		return "paused"
	}
}

func (p *Provider) LoadHTML(ctx context.Context, chapterURL string) (string, error) {
	if content, ok := p.html.Get(chapterURL); ok {
		return content, nil
	}

	doc, err := p.client.Document(ctx, scrape.AbsoluteURL(p.mainURL, chapterURL))
	if err != nil {
		return "", err
	}
	sel := doc.Find(contentSelector).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("chapter content at %s: %w", chapterURL, providers.ErrNotFound)
	}
	content, err := sel.Html()
	if err != nil {
		return "", fmt.Errorf("render chapter content: %w", err)
	}

	p.html.Put(chapterURL, content)
	return content, nil
}
