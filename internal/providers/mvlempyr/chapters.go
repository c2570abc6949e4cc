package mvlempyr

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mrlokans/novelshelf/internal/entities"
	"github.com/mrlokans/novelshelf/internal/pagination"
)

const chaptersPerPage = 500

// Chapter posts are tagged with 7^code mod 1999999997.
const (
	tagBase    = 7
	tagModulus = 1999999997
)

func chapterTag(code int) int64 {
	result := int64(1)
	power := int64(tagBase)
	for exp := int64(code); exp > 0; exp >>= 1 {
		if exp&1 == 1 {
			result = result * power % tagModulus
		}
		power = power * power % tagModulus
	}
	return result
}

type wpPost struct {
	Date string          `json:"date"`
	Link string          `json:"link"`
	ACF  json.RawMessage `json:"acf"`
}

// chapterName reads acf.ch_name. WordPress sends `false` or `[]` for posts
// without custom fields, which yields "".
func (w wpPost) chapterName() string {
	var acf struct {
		ChName string `json:"ch_name"`
	}
	if err := json.Unmarshal(w.ACF, &acf); err != nil {
		return ""
	}
	return acf.ChName
}

func (p *Provider) postsURL(code, perPage, page int) string {
	return fmt.Sprintf("%s/posts?tags=%d&per_page=%d&page=%d", p.apiBase, chapterTag(code), perPage, page)
}

// latestChapterDate is the freshness signal: the publish date of the newest
// chapter post.
func (p *Provider) latestChapterDate(ctx context.Context, code int) (string, error) {
	var posts []wpPost
	if err := p.client.JSON(ctx, p.postsURL(code, 1, 1), &posts); err != nil {
		return "", err
	}
	if len(posts) == 0 {
		return "", nil
	}
	return posts[0].Date, nil
}

// crawlChapters reads every chapter post, newest first.
func (p *Provider) crawlChapters(ctx context.Context, code int) ([]entities.Chapter, error) {
	return pagination.Drain(ctx, 0, func(ctx context.Context, page int) ([]entities.Chapter, bool, error) {
		var posts []wpPost
		if err := p.client.JSON(ctx, p.postsURL(code, chaptersPerPage, page), &posts); err != nil {
			return nil, false, err
		}

		chapters := make([]entities.Chapter, 0, len(posts))
		for _, post := range posts {
			name := post.chapterName()
			if name == "" || post.Link == "" {
				continue
			}
			chapters = append(chapters, entities.Chapter{
				Name:          name,
				URL:           p.chapterURL(code, post.Link),
				DateOfRelease: post.Date,
			})
		}
		return chapters, pagination.FullPage(len(posts), chaptersPerPage), nil
	})
}

// chapterURL points chapter links at the reader site; the API links to its
// own mirror.
func (p *Provider) chapterURL(code int, link string) string {
	if m := chapterPattern.FindStringSubmatch(link); m != nil {
		return fmt.Sprintf("%s/chapter/%d-%s", p.mainURL, code, m[2])
	}
	return link
}
