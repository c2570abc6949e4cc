package entities

// SearchResult is one novel as it appears in a listing or search page.
// URL is the identity used for de-duplication across pages.
type SearchResult struct {
	Name              string `json:"name"`
	URL               string `json:"url"`
	PosterURL         string `json:"poster_url,omitempty"`
	TotalChapterCount string `json:"total_chapter_count,omitempty"`
	LatestChapter     string `json:"latest_chapter,omitempty"`
	Rating            *int   `json:"rating,omitempty"`
}

// Chapter is a single entry of a novel's table of contents.
type Chapter struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	DateOfRelease string `json:"date_of_release,omitempty"`
}

// StreamResponse is the detail view of a novel together with its chapters
// in narrative order (first chapter first).
type StreamResponse struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Author    string    `json:"author,omitempty"`
	PosterURL string    `json:"poster_url,omitempty"`
	Synopsis  string    `json:"synopsis,omitempty"`
	Status    string    `json:"status,omitempty"`
	Chapters  []Chapter `json:"chapters"`
}

// HeadMainPage is a single page of a provider's main listing.
// URL is the canonical address of the last remote page that was read.
type HeadMainPage struct {
	URL   string         `json:"url"`
	Items []SearchResult `json:"items"`
}

// ReverseChapters reverses chapters in place.
func ReverseChapters(chapters []Chapter) {
	for i, j := 0, len(chapters)-1; i < j; i, j = i+1, j-1 {
		chapters[i], chapters[j] = chapters[j], chapters[i]
	}
}
