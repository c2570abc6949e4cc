package webnovel

import "github.com/mrlokans/novelshelf/internal/providers"

var tags = []providers.Option{
	{Name: "All", Value: "fanfic"},
	{Name: "Anime & Comics", Value: "fanfic-anime-comics"},
	{Name: "Video Games", Value: "fanfic-video-games"},
	{Name: "Celebrities", Value: "fanfic-celebrities"},
	{Name: "Music & Bands", Value: "fanfic-music-bands"},
	{Name: "Movies", Value: "fanfic-movies"},
	{Name: "Book & Literature", Value: "fanfic-book-literature"},
	{Name: "TV", Value: "fanfic-tv"},
	{Name: "Theater", Value: "fanfic-theater"},
	{Name: "Others", Value: "fanfic-others"},
}

var orderBys = []providers.Option{
	{Name: "Popular", Value: "1"},
	{Name: "Recommended", Value: "2"},
	{Name: "Most Collections", Value: "3"},
	{Name: "Rating", Value: "4"},
	{Name: "Updated", Value: "5"},
}

var categories = []providers.Option{
	{Name: "All", Value: "0"},
	{Name: "Ongoing", Value: "1"},
	{Name: "Completed", Value: "2"},
}

var categoryIDs = map[string]string{
	"fanfic-book-literature": "81001",
	"fanfic-celebrities":     "81002",
	"fanfic-music-bands":     "81003",
	"fanfic-theater":         "81004",
	"fanfic-video-games":     "81005",
	"fanfic-anime-comics":    "81006",
	"fanfic-movies":          "81007",
	"fanfic-tv":              "81008",
	"fanfic-others":          "81009",
}

// categoryID maps a tag slug to the listing API's category id. Unknown
// slugs list every fan-fiction category.
func categoryID(tag string) string {
	if id, ok := categoryIDs[tag]; ok {
		return id
	}
	return "0"
}
