package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelshelf/internal/listing"
	"github.com/mrlokans/novelshelf/internal/providers"
)

// ProvidersController exposes the provider capabilities over HTTP.
type ProvidersController struct {
	registry *providers.Registry
	timeout  time.Duration
}

func NewProvidersController(registry *providers.Registry, timeout time.Duration) *ProvidersController {
	return &ProvidersController{registry: registry, timeout: timeout}
}

// requestContext bounds provider calls by the configured timeout.
func (pc *ProvidersController) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if pc.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), pc.timeout)
}

func (pc *ProvidersController) provider(c *gin.Context) (providers.Provider, bool) {
	p, err := pc.registry.Get(c.Param("name"))
	if err != nil {
		respondProviderError(c, err, "resolve provider")
		return nil, false
	}
	return p, true
}

// ListProviders handles GET /api/providers
func (pc *ProvidersController) ListProviders(c *gin.Context) {
	all := pc.registry.All()
	infos := make([]providers.Info, 0, len(all))
	for _, p := range all {
		infos = append(infos, p.Info())
	}
	c.JSON(http.StatusOK, gin.H{"providers": infos})
}

// MainPage handles GET /api/providers/:name/main
// The chapter filter is either a preset name (chapters=GREATER_EQUAL_200)
// or explicit min_chapters/max_chapters bounds.
func (pc *ProvidersController) MainPage(c *gin.Context) {
	p, ok := pc.provider(c)
	if !ok {
		return
	}

	page, present, ok := parseOptionalInt(c, "page")
	if !ok {
		return
	}
	if !present {
		page = 1
	}
	if page < 1 {
		respondBadRequest(c, "page must be at least 1")
		return
	}

	chapters, ok := parseChapterRange(c)
	if !ok {
		return
	}

	ctx, cancel := pc.requestContext(c)
	defer cancel()

	result, err := p.LoadMainPage(ctx, providers.MainPageRequest{
		Page:     page,
		Category: c.Query("category"),
		OrderBy:  c.Query("order_by"),
		Tag:      c.Query("tag"),
		Chapters: chapters,
	})
	if err != nil {
		respondProviderError(c, err, "load main page")
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseChapterRange(c *gin.Context) (listing.ChapterRange, bool) {
	if name := c.Query("chapters"); name != "" {
		preset, err := listing.ChapterPresetByName(name)
		if err != nil {
			respondBadRequest(c, err.Error())
			return listing.ChapterRange{}, false
		}
		return preset.Range, true
	}

	var r listing.ChapterRange
	minChapters, present, ok := parseOptionalInt(c, "min_chapters")
	if !ok {
		return r, false
	}
	if present {
		r.Min = &minChapters
	}
	maxChapters, present, ok := parseOptionalInt(c, "max_chapters")
	if !ok {
		return r, false
	}
	if present {
		r.Max = &maxChapters
	}
	if r.Min != nil && r.Max != nil && *r.Min >= *r.Max {
		respondBadRequest(c, "min_chapters must be below max_chapters")
		return r, false
	}
	return r, true
}

// Search handles GET /api/providers/:name/search?q=
func (pc *ProvidersController) Search(c *gin.Context) {
	p, ok := pc.provider(c)
	if !ok {
		return
	}
	query, ok := parseRequiredQuery(c, "q")
	if !ok {
		return
	}

	ctx, cancel := pc.requestContext(c)
	defer cancel()

	results, err := p.Search(ctx, query)
	if err != nil {
		respondProviderError(c, err, "search")
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "results": results})
}

// Novel handles GET /api/providers/:name/novel?url=
func (pc *ProvidersController) Novel(c *gin.Context) {
	p, ok := pc.provider(c)
	if !ok {
		return
	}
	url, ok := parseRequiredQuery(c, "url")
	if !ok {
		return
	}

	ctx, cancel := pc.requestContext(c)
	defer cancel()

	novel, err := p.Load(ctx, url)
	if err != nil {
		respondProviderError(c, err, "load novel")
		return
	}
	c.JSON(http.StatusOK, novel)
}

// Chapter handles GET /api/providers/:name/chapter?url=
// The chapter body is returned as HTML.
func (pc *ProvidersController) Chapter(c *gin.Context) {
	p, ok := pc.provider(c)
	if !ok {
		return
	}
	url, ok := parseRequiredQuery(c, "url")
	if !ok {
		return
	}

	ctx, cancel := pc.requestContext(c)
	defer cancel()

	body, err := p.LoadHTML(ctx, url)
	if err != nil {
		respondProviderError(c, err, "load chapter")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}

// FilterChanged handles POST /api/providers/:name/filter-changed
func (pc *ProvidersController) FilterChanged(c *gin.Context) {
	p, ok := pc.provider(c)
	if !ok {
		return
	}
	p.OnFilterChanged()
	respondSuccess(c, "filter reset")
}

// ChapterPresets handles GET /api/filters/chapter-count
func (pc *ProvidersController) ChapterPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": listing.ChapterPresets})
}
