package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/novelshelf/internal/entities"
	"github.com/mrlokans/novelshelf/internal/library"
	"github.com/mrlokans/novelshelf/internal/listing"
)

// LibraryController serves the aggregated library and records new entries.
type LibraryController struct {
	view     LibraryView
	recorder BookRecorder
}

func NewLibraryController(view LibraryView, recorder BookRecorder) *LibraryController {
	return &LibraryController{view: view, recorder: recorder}
}

// BookView is a library book as returned by the API.
type BookView struct {
	library.Book
	ChapterLabel string `json:"chapter_label,omitempty"`
}

// SectionView is one library section in display order.
type SectionView struct {
	Name   string     `json:"name"`
	Status string     `json:"status"`
	Books  []BookView `json:"books"`
}

// BookRequest is the request body for library writes.
type BookRequest struct {
	Name          string `json:"name" binding:"required"`
	URL           string `json:"url" binding:"required"`
	Source        string `json:"source"`
	Author        string `json:"author"`
	PosterURL     string `json:"poster_url"`
	TotalChapters int    `json:"total_chapters"`
	LastChapter   int    `json:"last_chapter"`
	// ReadType is only used for bookmarks. NONE removes the bookmark.
	ReadType string `json:"read_type"`
}

func (r BookRequest) book() library.Book {
	return library.Book{
		Name:          r.Name,
		URL:           r.URL,
		Source:        r.Source,
		Author:        r.Author,
		PosterURL:     r.PosterURL,
		TotalChapters: r.TotalChapters,
		LastChapter:   r.LastChapter,
	}
}

func chapterLabel(b library.Book) string {
	if label := listing.ChapterProgressLabel(b.LastChapter, b.TotalChapters); label != "" {
		return label
	}
	return listing.ChapterCountLabel(b.TotalChapters)
}

// sectionOrder lists read types first, then downloads and history.
func sectionOrder() []string {
	order := make([]string, 0, len(entities.ReadTypes)+1)
	for _, rt := range entities.ReadTypes {
		if rt != entities.ReadTypeNone {
			order = append(order, rt.String())
		}
	}
	return append(order, library.SectionDownloads, library.SectionHistory)
}

// GetLibrary handles GET /api/library
func (lc *LibraryController) GetLibrary(c *gin.Context) {
	if !lc.view.Built() {
		if err := lc.view.Rebuild(c.Request.Context()); err != nil {
			respondInternalError(c, err, "rebuild library")
			return
		}
	}

	sections := lc.view.Sections()
	out := make([]SectionView, 0, len(sections))
	for _, name := range sectionOrder() {
		books := sections[name]
		views := make([]BookView, 0, len(books))
		for _, b := range books {
			views = append(views, BookView{Book: b, ChapterLabel: chapterLabel(b)})
		}
		out = append(out, SectionView{Name: name, Status: library.FriendlyStatus(name), Books: views})
	}
	c.JSON(http.StatusOK, gin.H{"sections": out})
}

// Rebuild handles POST /api/library/rebuild
func (lc *LibraryController) Rebuild(c *gin.Context) {
	if err := lc.view.Rebuild(c.Request.Context()); err != nil {
		respondInternalError(c, err, "rebuild library")
		return
	}
	respondSuccess(c, "library rebuilt")
}

// Status handles GET /api/library/status?title=
func (lc *LibraryController) Status(c *gin.Context) {
	title, ok := parseRequiredQuery(c, "title")
	if !ok {
		return
	}
	if !lc.view.Built() {
		if err := lc.view.Rebuild(c.Request.Context()); err != nil {
			respondInternalError(c, err, "rebuild library")
			return
		}
	}

	label, found := lc.view.LookupStatus(title)
	c.JSON(http.StatusOK, gin.H{"title": title, "found": found, "status": label})
}

// AddBookmark handles POST /api/library/bookmarks
func (lc *LibraryController) AddBookmark(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	rt, ok := entities.ParseReadType(req.ReadType)
	if !ok {
		respondBadRequest(c, "invalid read_type: "+req.ReadType)
		return
	}

	lc.write(c, func(ctx context.Context) (library.Book, error) {
		return lc.recorder.SetBookmark(ctx, req.book(), rt)
	})
}

// AddHistory handles POST /api/library/history
func (lc *LibraryController) AddHistory(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	lc.write(c, func(ctx context.Context) (library.Book, error) {
		return lc.recorder.AddHistory(ctx, req.book())
	})
}

// AddDownload handles POST /api/library/downloads
func (lc *LibraryController) AddDownload(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	lc.write(c, func(ctx context.Context) (library.Book, error) {
		return lc.recorder.AddDownload(ctx, req.book())
	})
}

// write runs a recorder call and rebuilds the view so reads see it.
func (lc *LibraryController) write(c *gin.Context, save func(ctx context.Context) (library.Book, error)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	book, err := save(ctx)
	if err != nil {
		respondInternalError(c, err, "save library book")
		return
	}
	if err := lc.view.Rebuild(ctx); err != nil {
		respondInternalError(c, err, "rebuild library")
		return
	}
	respondCreated(c, BookView{Book: book, ChapterLabel: chapterLabel(book)})
}
