package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/novelshelf/internal/entities"
)

func names(records []entities.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Text("name"))
	}
	return out
}

func novel(name string, attrs map[string]entities.Value) entities.Record {
	r := entities.Record{"name": entities.String(name)}
	for k, v := range attrs {
		r[k] = v
	}
	return r
}

func TestFilterAndSort_Status(t *testing.T) {
	records := []entities.Record{
		novel("A", map[string]entities.Value{"status": entities.String("Ongoing")}),
		novel("B", map[string]entities.Value{"status": entities.String("Completed")}),
		novel("C", nil),
	}

	t.Run("matches status ignoring case", func(t *testing.T) {
		got := FilterAndSort(records, Query{Status: "ongoing"}, DefaultFields)
		assert.Equal(t, []string{"A"}, names(got))
	})

	t.Run("all and empty disable the filter", func(t *testing.T) {
		assert.Len(t, FilterAndSort(records, Query{Status: "All"}, DefaultFields), 3)
		assert.Len(t, FilterAndSort(records, Query{}, DefaultFields), 3)
	})
}

func TestFilterAndSort_Genre(t *testing.T) {
	records := []entities.Record{
		novel("List", map[string]entities.Value{"genre": entities.List("Action", "Fantasy")}),
		novel("Comma", map[string]entities.Value{"genre": entities.String("Drama, fantasy")}),
		novel("Dot", map[string]entities.Value{"genre": entities.String("Romance · Fantasy")}),
		novel("Semi", map[string]entities.Value{"genre": entities.String("Horror;Mystery")}),
		novel("Number", map[string]entities.Value{"genre": entities.Number(3)}),
		novel("Missing", nil),
	}

	t.Run("matches list and delimited string genres", func(t *testing.T) {
		got := FilterAndSort(records, Query{Genre: "FANTASY"}, DefaultFields)
		assert.Equal(t, []string{"List", "Comma", "Dot"}, names(got))
	})

	t.Run("splits on semicolons", func(t *testing.T) {
		got := FilterAndSort(records, Query{Genre: "mystery"}, DefaultFields)
		assert.Equal(t, []string{"Semi"}, names(got))
	})

	t.Run("all disables the filter", func(t *testing.T) {
		assert.Len(t, FilterAndSort(records, Query{Genre: "all"}, DefaultFields), len(records))
	})
}

func TestFilterAndSort_Sorting(t *testing.T) {
	records := []entities.Record{
		novel("Beta", map[string]entities.Value{
			"createdOn": entities.String("2024-01-02"), "total-chapters": entities.Number(50),
			"total-reviews": entities.Number(10), "rank": entities.Number(2),
		}),
		novel("Alpha", map[string]entities.Value{
			"createdOn": entities.String("2024-03-01"), "total-chapters": entities.Number(500),
			"total-reviews": entities.Number(3),
		}),
		novel("Gamma", map[string]entities.Value{
			"createdOn": entities.String("2023-12-31"), "total-chapters": entities.Number(50),
			"rank": entities.Number(1),
		}),
	}

	cases := []struct {
		sortBy string
		want   []string
	}{
		{SortNew, []string{"Alpha", "Beta", "Gamma"}},
		{SortChaptersDesc, []string{"Alpha", "Beta", "Gamma"}},
		{SortChaptersAsc, []string{"Beta", "Gamma", "Alpha"}},
		{SortReviews, []string{"Beta", "Alpha", "Gamma"}},
		{SortRank, []string{"Gamma", "Beta", "Alpha"}},
		{SortNameAsc, []string{"Alpha", "Beta", "Gamma"}},
		{SortNameDesc, []string{"Gamma", "Beta", "Alpha"}},
		{"unknown", []string{"Beta", "Alpha", "Gamma"}},
		{"", []string{"Beta", "Alpha", "Gamma"}},
	}
	for _, tc := range cases {
		t.Run("sorts by "+tc.sortBy, func(t *testing.T) {
			got := FilterAndSort(records, Query{SortBy: tc.sortBy}, DefaultFields)
			assert.Equal(t, tc.want, names(got))
		})
	}

	t.Run("does not reorder the input", func(t *testing.T) {
		FilterAndSort(records, Query{SortBy: SortNameAsc}, DefaultFields)
		assert.Equal(t, []string{"Beta", "Alpha", "Gamma"}, names(records))
	})
}

func TestFilterAndSort_RatingWeighsReviewCount(t *testing.T) {
	records := []entities.Record{
		novel("Few reviews", map[string]entities.Value{
			"average-review": entities.Number(4.5), "total-reviews": entities.Number(1),
		}),
		novel("Many reviews", map[string]entities.Value{
			"average-review": entities.Number(4.0), "total-reviews": entities.Number(100),
		}),
	}

	got := FilterAndSort(records, Query{SortBy: SortRating}, DefaultFields)

	assert.Equal(t, []string{"Many reviews", "Few reviews"}, names(got))
	assert.InDelta(t, 8.017, RatingScore(4.0, 100), 0.001)
	assert.InDelta(t, 1.355, RatingScore(4.5, 1), 0.001)
	assert.Equal(t, 0.0, RatingScore(5, 0))
}

func TestFilterAndSort_StableTies(t *testing.T) {
	records := []entities.Record{
		novel("First", map[string]entities.Value{"weekly-rank": entities.Number(3)}),
		novel("Unranked", nil),
		novel("Second", map[string]entities.Value{"weekly-rank": entities.Number(3)}),
		novel("Top", map[string]entities.Value{"weekly-rank": entities.Number(1)}),
	}

	got := FilterAndSort(records, Query{SortBy: SortWeeklyRank}, DefaultFields)

	assert.Equal(t, []string{"Top", "First", "Second", "Unranked"}, names(got))
}
