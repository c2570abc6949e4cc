package mvlempyr

import "github.com/mrlokans/novelshelf/internal/providers"

var orderBys = []providers.Option{
	{Name: "New", Value: "new"},
	{Name: "Chapters Desc", Value: "chapters_desc"},
	{Name: "Chapters Asc", Value: "chapters_asc"},
	{Name: "Average Rating", Value: "rating"},
	{Name: "Most Reviewed", Value: "reviews"},
	{Name: "Rank", Value: "rank"},
	{Name: "Weekly Rank", Value: "weekly_rank"},
	{Name: "Monthly Rank", Value: "monthly_rank"},
	{Name: "Name A-Z", Value: "name_asc"},
	{Name: "Name Z-A", Value: "name_desc"},
}

var categories = []providers.Option{
	{Name: "All", Value: "All"},
	{Name: "Ongoing", Value: "Ongoing"},
	{Name: "Completed", Value: "Completed"},
	{Name: "Hiatus", Value: "Hiatus"},
}

var tags = []providers.Option{
	{Name: "All", Value: "all"},
	{Name: "Action", Value: "action"},
	{Name: "Adult", Value: "adult"},
	{Name: "Adventure", Value: "adventure"},
	{Name: "Comedy", Value: "comedy"},
	{Name: "Drama", Value: "drama"},
	{Name: "Ecchi", Value: "ecchi"},
	{Name: "Fan-Fiction", Value: "fan-fiction"},
	{Name: "Fantasy", Value: "fantasy"},
	{Name: "Gender Bender", Value: "gender-bender"},
	{Name: "Harem", Value: "harem"},
	{Name: "Historical", Value: "historical"},
	{Name: "Horror", Value: "horror"},
	{Name: "Josei", Value: "josei"},
	{Name: "Martial Arts", Value: "martial-arts"},
	{Name: "Mature", Value: "mature"},
	{Name: "Mecha", Value: "mecha"},
	{Name: "Mystery", Value: "mystery"},
	{Name: "Psychological", Value: "psychological"},
	{Name: "Romance", Value: "romance"},
	{Name: "School Life", Value: "school-life"},
	{Name: "Sci-fi", Value: "sci-fi"},
	{Name: "Seinen", Value: "seinen"},
	{Name: "Shoujo", Value: "shoujo"},
	{Name: "Shounen", Value: "shounen"},
	{Name: "Shounen Ai", Value: "shounen-ai"},
	{Name: "Slice of Life", Value: "slice-of-life"},
	{Name: "Smut", Value: "smut"},
	{Name: "Sports", Value: "sports"},
	{Name: "Supernatural", Value: "supernatural"},
	{Name: "Tragedy", Value: "tragedy"},
	{Name: "Wuxia", Value: "wuxia"},
	{Name: "Xianxia", Value: "xianxia"},
	{Name: "Xuanhuan", Value: "xuanhuan"},
	{Name: "Yaoi", Value: "yaoi"},
	{Name: "Yuri", Value: "yuri"},
}
