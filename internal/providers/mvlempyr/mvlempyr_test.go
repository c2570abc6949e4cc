package mvlempyr

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/novelshelf/internal/listing"
	"github.com/mrlokans/novelshelf/internal/providers"
	"github.com/mrlokans/novelshelf/internal/scrape"
)

const catalogJSON = `[
  {"name":"Alpha","slug":"alpha","novel-code":1,"status":"Ongoing","genre":["Action","Fantasy"],"total-chapters":120,"author-name":"Ann","synopsis":"<p>A <b>hero</b> rises.</p>","synopsis-text":"A hero rises."},
  {"name":"Beta","slug":"beta","novel-code":2,"status":"Completed","genre":["Romance"],"total-chapters":300,"author-name":"Bob","synopsis-text":"A love story."},
  {"name":"Gamma","slug":"gamma","novel-code":3,"status":"Ongoing","genre":"Action, Comedy","total-chapters":50,"author-name":"Cid","synopsis-text":"Dragons.","associated-names":"Third Novel"},
  {"name":"Broken","novel-code":4,"status":"Ongoing","total-chapters":500}
]`

type fakeSite struct {
	mu          sync.Mutex
	latestDate  string
	crawls      atomic.Int32
	chapterHits atomic.Int32
}

func (f *fakeSite) setLatestDate(date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestDate = date
}

func (f *fakeSite) date() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latestDate
}

func (f *fakeSite) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp/mvl-novels", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(catalogJSON))
	})
	mux.HandleFunc("/wp/posts", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("tags") != "7" {
			w.Write([]byte(`[]`))
			return
		}
		if q.Get("per_page") == "1" {
			fmt.Fprintf(w, `[{"date":%q,"link":"https://mirror.example/chapter/1-3","acf":{"ch_name":"Chapter 3"}}]`, f.date())
			return
		}
		f.crawls.Add(1)
		w.Write([]byte(`[
		  {"date":"2024-03-03","link":"https://mirror.example/chapter/99-3","acf":{"ch_name":"Chapter 3"}},
		  {"date":"2024-03-02","link":"https://mirror.example/chapter/99-2","acf":{"ch_name":"Chapter 2"}},
		  {"date":"2024-03-01","link":"https://mirror.example/other/1","acf":false},
		  {"date":"2024-03-01","link":"https://mirror.example/chapter/99-1","acf":{"ch_name":"Chapter 1"}}
		]`))
	})
	mux.HandleFunc("/chapter/1-1", func(w http.ResponseWriter, r *http.Request) {
		f.chapterHits.Add(1)
		w.Write([]byte(`<html><body><div id="chapter" class="ct-text-block"><p>It begins.</p></div></body></html>`))
	})
	mux.HandleFunc("/chapter/1-2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div id="other">Nothing here</div></body></html>`))
	})
	return mux
}

func newTestProvider(t *testing.T) (*Provider, *fakeSite, *httptest.Server) {
	t.Helper()
	site := &fakeSite{latestDate: "2024-03-03"}
	srv := httptest.NewServer(site.handler())
	t.Cleanup(srv.Close)

	p, err := New(Options{
		Client:   scrape.NewClient(scrape.Options{}),
		DataDir:  t.TempDir(),
		PageSize: 2,
		MainURL:  srv.URL,
		APIBase:  srv.URL + "/wp",
	})
	require.NoError(t, err)
	t.Cleanup(p.Catalog().Wait)
	return p, site, srv
}

func itemNames(t *testing.T, p *Provider, req providers.MainPageRequest) []string {
	t.Helper()
	page, err := p.LoadMainPage(context.Background(), req)
	require.NoError(t, err)
	var out []string
	for _, item := range page.Items {
		out = append(out, item.Name)
	}
	return out
}

func TestChapterTag(t *testing.T) {
	assert.Equal(t, int64(1), chapterTag(0))
	assert.Equal(t, int64(7), chapterTag(1))
	assert.Equal(t, int64(49), chapterTag(2))

	for _, code := range []int{12345, 987654} {
		want := new(big.Int).Exp(big.NewInt(7), big.NewInt(int64(code)), big.NewInt(tagModulus))
		assert.Equal(t, want.Int64(), chapterTag(code), "code %d", code)
	}
}

func TestProvider_LoadMainPage(t *testing.T) {
	p, _, srv := newTestProvider(t)
	min100 := 100

	t.Run("sorts and pages the catalog", func(t *testing.T) {
		assert.Equal(t, []string{"Alpha", "Gamma"}, itemNames(t, p, providers.MainPageRequest{Page: 2, OrderBy: listing.SortChaptersDesc}))
	})

	t.Run("skips records without a slug", func(t *testing.T) {
		assert.Equal(t, []string{"Alpha"}, itemNames(t, p, providers.MainPageRequest{Page: 1, Category: "ongoing", OrderBy: listing.SortChaptersDesc}))
	})

	t.Run("filters by genre tag", func(t *testing.T) {
		assert.Equal(t, []string{"Gamma"}, itemNames(t, p, providers.MainPageRequest{Page: 1, Tag: "comedy"}))
	})

	t.Run("applies the chapter range after sorting", func(t *testing.T) {
		got := itemNames(t, p, providers.MainPageRequest{
			Page:     1,
			OrderBy:  listing.SortNameAsc,
			Chapters: listing.ChapterRange{Min: &min100},
		})
		assert.Equal(t, []string{"Alpha", "Beta"}, got)
	})

	t.Run("maps catalog fields", func(t *testing.T) {
		page, err := p.LoadMainPage(context.Background(), providers.MainPageRequest{Page: 1, Tag: "fantasy"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)

		item := page.Items[0]
		assert.Equal(t, srv.URL, page.URL)
		assert.Equal(t, srv.URL+"/novel/alpha", item.URL)
		assert.Equal(t, "https://assets.mvlempyr.app/images/300/1.webp", item.PosterURL)
		assert.Equal(t, "120", item.TotalChapterCount)
	})
}

func TestProvider_Search(t *testing.T) {
	p, _, _ := newTestProvider(t)

	t.Run("matches author names", func(t *testing.T) {
		results, err := p.Search(context.Background(), "BOB")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Beta", results[0].Name)
		assert.Equal(t, "300", results[0].LatestChapter)
	})

	t.Run("matches associated names and genres", func(t *testing.T) {
		results, err := p.Search(context.Background(), "third")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Gamma", results[0].Name)

		results, err = p.Search(context.Background(), "action")
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestProvider_Load(t *testing.T) {
	p, site, srv := newTestProvider(t)
	ctx := context.Background()

	first, err := p.Load(ctx, srv.URL+"/novel/alpha")
	require.NoError(t, err)

	t.Run("returns details with chapters in reading order", func(t *testing.T) {
		assert.Equal(t, "Alpha", first.Title)
		assert.Equal(t, "Ann", first.Author)
		assert.Equal(t, "A hero rises.", first.Synopsis)
		assert.Equal(t, providers.StatusOngoing, first.Status)
		require.Len(t, first.Chapters, 3)
		assert.Equal(t, "Chapter 1", first.Chapters[0].Name)
		assert.Equal(t, srv.URL+"/chapter/1-1", first.Chapters[0].URL)
		assert.Equal(t, "Chapter 3", first.Chapters[2].Name)
	})

	t.Run("reuses the cached chapters while the newest date is unchanged", func(t *testing.T) {
		second, err := p.Load(ctx, "/novel/alpha")
		require.NoError(t, err)
		assert.Same(t, &first.Chapters[0], &second.Chapters[0])
		assert.Equal(t, int32(1), site.crawls.Load())
	})

	t.Run("re-crawls when a newer chapter appears", func(t *testing.T) {
		site.setLatestDate("2024-04-01")
		_, err := p.Load(ctx, "/novel/alpha")
		require.NoError(t, err)
		assert.Equal(t, int32(2), site.crawls.Load())
	})

	t.Run("reports unknown slugs", func(t *testing.T) {
		_, err := p.Load(ctx, "/novel/missing")
		assert.ErrorIs(t, err, providers.ErrNotFound)

		_, err = p.Load(ctx, "/books/alpha")
		assert.ErrorIs(t, err, providers.ErrNotFound)
	})
}

func TestProvider_LoadHTML(t *testing.T) {
	p, site, _ := newTestProvider(t)
	ctx := context.Background()

	t.Run("extracts and caches the chapter body", func(t *testing.T) {
		content, err := p.LoadHTML(ctx, "/chapter/1-1")
		require.NoError(t, err)
		assert.Contains(t, content, "It begins.")

		again, err := p.LoadHTML(ctx, "/chapter/1-1")
		require.NoError(t, err)
		assert.Equal(t, content, again)
		assert.Equal(t, int32(1), site.chapterHits.Load())
	})

	t.Run("reports pages without a chapter body", func(t *testing.T) {
		_, err := p.LoadHTML(ctx, "/chapter/1-2")
		assert.ErrorIs(t, err, providers.ErrNotFound)
	})

	t.Run("reports remote failures as load errors", func(t *testing.T) {
		_, err := p.LoadHTML(ctx, "/chapter/1-404")
		assert.ErrorIs(t, err, scrape.ErrLoadFailed)
	})
}
