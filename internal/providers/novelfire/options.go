package novelfire

import (
	"strings"

	"github.com/mrlokans/novelshelf/internal/providers"
)

var categories = []providers.Option{
	{Name: "All", Value: "status-all"},
	{Name: "Completed", Value: "status-completed"},
	{Name: "Ongoing", Value: "status-ongoing"},
}

var orderBys = []providers.Option{
	{Name: "New", Value: "sort-new"},
	{Name: "Popular", Value: "sort-popular"},
	{Name: "Updates", Value: "sort-latest-release"},
}

var tags = tagOptions(
	"all", "action", "adult", "adventure", "anime", "arts", "comedy", "drama",
	"eastern", "ecchi", "fan-fiction", "fantasy", "game", "gender-bender",
	"harem", "historical", "horror", "isekai", "josei", "lgbt", "magic",
	"magical-realism", "manhua", "martial-arts", "mature", "mecha", "military",
	"modern-life", "movies", "mystery", "other", "psychological",
	"realistic-fiction", "reincarnation", "romance", "school-life", "sci-fi",
	"seinen", "shoujo", "shoujo-ai", "shounen", "shounen-ai", "slice-of-life",
	"smut", "sports", "supernatural", "system", "tragedy", "urban",
	"urban-life", "video-games", "war", "wuxia", "xianxia", "xuanhuan", "yaoi",
	"yuri",
)

// tagOptions capitalizes each slug for display: "slice-of-life" becomes
// "Slice-of-life".
func tagOptions(slugs ...string) []providers.Option {
	out := make([]providers.Option, len(slugs))
	for i, slug := range slugs {
		out[i] = providers.Option{Name: strings.ToUpper(slug[:1]) + slug[1:], Value: slug}
	}
	return out
}
