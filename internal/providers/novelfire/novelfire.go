// Package novelfire scrapes novelfire.net. Its genre listings are filtered
// client side by chapter count, so main pages are assembled by a paginated
// collector that keeps reading remote pages until enough novels pass.
package novelfire

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mrlokans/novelshelf/internal/entities"
	"github.com/mrlokans/novelshelf/internal/pagination"
	"github.com/mrlokans/novelshelf/internal/providers"
	"github.com/mrlokans/novelshelf/internal/scrape"
)

const (
	Name           = "novelfire"
	DefaultMainURL = "https://novelfire.net"

	defaultCategory = "status-all"
	defaultOrderBy  = "sort-new"
	defaultTag      = "all"

	maxChapterPages = 500
	maxSearchPages  = 20
)

var digits = regexp.MustCompile(`\d+`)

// Options configures the provider. Zero values take the defaults.
type Options struct {
	Client     *scrape.Client
	MainURL    string
	MinResults int // default 11
	MaxPages   int // default 10
}

type Provider struct {
	client    *scrape.Client
	mainURL   string
	collector *pagination.Collector[entities.SearchResult]
}

var _ providers.Provider = (*Provider)(nil)

func New(opts Options) *Provider {
	if opts.Client == nil {
		opts.Client = scrape.NewClient(scrape.Options{})
	}
	if opts.MainURL == "" {
		opts.MainURL = DefaultMainURL
	}
	return &Provider{
		client:  opts.Client,
		mainURL: strings.TrimRight(opts.MainURL, "/"),
		collector: pagination.NewCollector(opts.MinResults, opts.MaxPages, func(r entities.SearchResult) string {
			return r.URL
		}),
	}
}

func (p *Provider) Name() string { return Name }

func (p *Provider) Info() providers.Info {
	return providers.Info{
		Name:        "NovelFire",
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

func (p *Provider) listingURL(req providers.MainPageRequest, page int) string {
	tag := orDefault(req.Tag, defaultTag)
	orderBy := orDefault(req.OrderBy, defaultOrderBy)
	category := orDefault(req.Category, defaultCategory)
	return fmt.Sprintf("%s/genre-%s/%s/%s/all-novel?page=%d", p.mainURL, tag, orderBy, category, page)
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

func (p *Provider) LoadMainPage(ctx context.Context, req providers.MainPageRequest) (*entities.HeadMainPage, error) {
	fetch := func(ctx context.Context, page int) ([]entities.SearchResult, bool, error) {
		doc, err := p.client.Document(ctx, p.listingURL(req, page))
		if err != nil {
			return nil, false, err
		}
		raw := doc.Find("li.novel-item")
		return p.listingItems(raw), raw.Length() > 0, nil
	}
	keep := func(r entities.SearchResult) bool {
		return req.Chapters.Allows(r.TotalChapterCount)
	}

	items, err := p.collector.CollectListing(ctx, req.ListingKey(), req.Page, fetch, keep)
	if err != nil {
		return nil, err
	}
	return &entities.HeadMainPage{
		URL:   p.listingURL(req, p.collector.LastLoadedPage()),
		Items: items,
	}, nil
}

func (p *Provider) listingItems(sel *goquery.Selection) []entities.SearchResult {
	var items []entities.SearchResult
	sel.Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a[title]").First()
		href, ok := link.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		title, _ := link.Attr("title")
		if title = strings.TrimSpace(title); title == "" {
			title = strings.TrimSpace(s.Find("h4.novel-title").First().Text())
		}
		if title == "" {
			return
		}

		img := s.Find("img").First()
		poster, ok := img.Attr("data-src")
		if !ok || poster == "" {
			poster, _ = img.Attr("src")
		}

		items = append(items, entities.SearchResult{
			Name:              title,
			URL:               scrape.AbsoluteURL(p.mainURL, href),
			PosterURL:         scrape.AbsoluteURL(p.mainURL, poster),
			TotalChapterCount: digits.FindString(ownText(s.Find(".novel-stats").First())),
		})
	})
	return items
}

// ownText is the text of sel's direct text nodes, without its children.
func ownText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
		}
	})
	return strings.TrimSpace(b.String())
}

func (p *Provider) Search(ctx context.Context, query string) ([]entities.SearchResult, error) {
	return pagination.Drain(ctx, maxSearchPages, func(ctx context.Context, page int) ([]entities.SearchResult, bool, error) {
		pageURL := fmt.Sprintf("%s/search/?keyword=%s&page=%d", p.mainURL, url.QueryEscape(query), page)
		doc, err := p.client.Document(ctx, pageURL)
		if err != nil {
			return nil, false, err
		}

		novels := doc.Find("ul.novel-list.horizontal.col2.chapters").First().Find("li.novel-item")
		if novels.Length() == 0 {
			return nil, false, nil
		}

		var results []entities.SearchResult
		novels.Each(func(_ int, s *goquery.Selection) {
			anchor := s.Find("a").First()
			href, ok := anchor.Attr("href")
			if !ok {
				return
			}
			title, _ := anchor.Attr("title")
			cover, _ := anchor.Find("img").First().Attr("src")

			var count string
			anchor.Find("div.novel-stats").EachWithBreak(func(_ int, stat *goquery.Selection) bool {
				if stat.Find("i.icon-book-open").Length() == 0 {
					return true
				}
				count = digits.FindString(stat.Text())
				return false
			})

			results = append(results, entities.SearchResult{
				Name:              strings.TrimSpace(title),
				URL:               scrape.AbsoluteURL(pageURL, href),
				PosterURL:         scrape.AbsoluteURL(pageURL, cover),
				TotalChapterCount: count,
			})
		})

		more := false
		doc.Find("ul.pagination li.page-item > a.page-link").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			more = strings.Contains(a.Text(), "›")
			return !more
		})
		return results, more, nil
	})
}

// bookID extracts the slug after /book/ from a novel URL.
func bookID(novelURL string) string {
	i := strings.LastIndex(novelURL, "/book/")
	if i < 0 {
		return ""
	}
	id := novelURL[i+len("/book/"):]
	if j := strings.IndexAny(id, "?/"); j >= 0 {
		id = id[:j]
	}
	return id
}

func (p *Provider) Load(ctx context.Context, novelURL string) (*entities.StreamResponse, error) {
	id := bookID(novelURL)
	if id == "" {
		return nil, fmt.Errorf("book id in %q: %w", novelURL, providers.ErrNotFound)
	}
	fullURL := scrape.AbsoluteURL(p.mainURL, novelURL)

	doc, err := p.client.Document(ctx, fullURL)
	if err != nil {
		return nil, err
	}
	synopsis, _ := doc.Find("meta[itemprop=description]").First().Attr("content")

	chapters, err := pagination.Drain(ctx, maxChapterPages, func(ctx context.Context, page int) ([]entities.Chapter, bool, error) {
		return p.chapterPage(ctx, id, page)
	})
	if err != nil {
		return nil, fmt.Errorf("load chapters of %s: %w", id, err)
	}

	return &entities.StreamResponse{
		Title:     strings.TrimSpace(doc.Find("h1.novel-title").First().Text()),
		URL:       fullURL,
		Author:    strings.TrimSpace(doc.Find("div.author a[itemprop=author]").First().Text()),
		PosterURL: fmt.Sprintf("%s/server-1/%s.jpg", p.mainURL, id),
		Synopsis:  strings.TrimSpace(synopsis),
		Chapters:  chapters,
	}, nil
}

func (p *Provider) chapterPage(ctx context.Context, id string, page int) ([]entities.Chapter, bool, error) {
	doc, err := p.client.Document(ctx, fmt.Sprintf("%s/book/%s/chapters?page=%d", p.mainURL, id, page))
	if err != nil {
		return nil, false, err
	}

	rows := doc.Find("ul.chapter-list > li")
	if rows.Length() == 0 {
		return nil, false, nil
	}

	var chapters []entities.Chapter
	rows.Each(func(_ int, li *goquery.Selection) {
		a := li.Find("a").First()
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		title, _ := a.Attr("title")
		chapters = append(chapters, entities.Chapter{
			Name:          strings.TrimSpace(title),
			URL:           scrape.AbsoluteURL(p.mainURL, href),
			DateOfRelease: strings.TrimSpace(li.Find("time").First().Text()),
		})
	})

	more := doc.Find("li.page-item > a[rel=next]").Length() > 0
	return chapters, more, nil
}

func (p *Provider) LoadHTML(ctx context.Context, chapterURL string) (string, error) {
	doc, err := p.client.Document(ctx, scrape.AbsoluteURL(p.mainURL, chapterURL))
	if err != nil {
		return "", err
	}

	content := doc.Find("div#content").First()
	if content.Length() == 0 {
		return "", fmt.Errorf("chapter content at %s: %w", chapterURL, providers.ErrNotFound)
	}
	content.Find("img[src*='disable-blocker.jpg']").Remove()

	html, err := content.Html()
	if err != nil {
		return "", fmt.Errorf("render chapter content: %w", err)
	}
	return html, nil
}
