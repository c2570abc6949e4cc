package webnovel

import (
	"bytes"
	"encoding/json"
)

// flexString accepts a JSON string or number. Book ids exceed float64
// precision, so numbers are kept as their literal text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(data)
	}
	return nil
}

type bookItem struct {
	BookID     flexString `json:"bookId"`
	BookName   string     `json:"bookName"`
	ChapterNum flexString `json:"chapterNum"`
}

type categoryResponse struct {
	Data struct {
		Items []bookItem `json:"items"`
	} `json:"data"`
}

type searchResponse struct {
	Data *struct {
		FanficBookInfo *fanficBookInfo `json:"fanficBookInfo"`
	} `json:"data"`
}

type fanficBookInfo struct {
	Items  []bookItem `json:"fanficBookItems"`
	IsLast *int       `json:"isLast"`
}

// last treats a missing isLast as the final page.
func (f *fanficBookInfo) last() bool {
	return f.IsLast == nil || *f.IsLast == 1
}

type detailResponse struct {
	Data *struct {
		BookInfo *struct {
			BookName     string `json:"bookName"`
			AuthorName   string `json:"authorName"`
			Description  string `json:"description"`
			ActionStatus int    `json:"actionStatus"`
		} `json:"bookInfo"`
	} `json:"data"`
}
