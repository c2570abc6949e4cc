// Package listing filters and orders catalog records for a listing page.
//
// Everything here is a pure function over a slice of records. Sorting is
// stable, so records that compare equal keep their catalog order.
package listing

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mrlokans/novelshelf/internal/entities"
)

// Sort keys understood by FilterAndSort.
const (
	SortNew          = "new"
	SortChaptersDesc = "chapters_desc"
	SortChaptersAsc  = "chapters_asc"
	SortRating       = "rating"
	SortReviews      = "reviews"
	SortRank         = "rank"
	SortWeeklyRank   = "weekly_rank"
	SortMonthlyRank  = "monthly_rank"
	SortNameAsc      = "name_asc"
	SortNameDesc     = "name_desc"
)

// Fields names the record attributes the engine reads. Catalog schemas
// differ between providers.
type Fields struct {
	Status      string
	Genre       string
	CreatedOn   string
	Chapters    string
	Rating      string
	Reviews     string
	Rank        string
	WeeklyRank  string
	MonthlyRank string
	Name        string
}

// DefaultFields matches the WordPress catalog schema.
var DefaultFields = Fields{
	Status:      "status",
	Genre:       "genre",
	CreatedOn:   "createdOn",
	Chapters:    "total-chapters",
	Rating:      "average-review",
	Reviews:     "total-reviews",
	Rank:        "rank",
	WeeklyRank:  "weekly-rank",
	MonthlyRank: "monthly-rank",
	Name:        "name",
}

// Query selects and orders records. Empty fields disable that step.
type Query struct {
	Status string
	Genre  string
	SortBy string
}

// EqualFold reports whether a and b are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	// Casers carry state and must not be shared between goroutines.
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

// FilterAndSort returns the records matching q.Status and q.Genre ordered
// by q.SortBy. An unknown sort key keeps catalog order. The input slice is
// never modified.
func FilterAndSort(records []entities.Record, q Query, f Fields) []entities.Record {
	out := make([]entities.Record, 0, len(records))
	for _, r := range records {
		if matchesStatus(r, q.Status, f) && matchesGenre(r, q.Genre, f) {
			out = append(out, r)
		}
	}

	less := comparator(q.SortBy, f)
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func matchesStatus(r entities.Record, status string, f Fields) bool {
	if status == "" || EqualFold(status, "all") {
		return true
	}
	got, _ := r.Str(f.Status)
	return EqualFold(got, status)
}

func matchesGenre(r entities.Record, genre string, f Fields) bool {
	if genre == "" || EqualFold(genre, "all") {
		return true
	}
	for _, token := range GenreTokens(r, f.Genre) {
		if EqualFold(token, genre) {
			return true
		}
	}
	return false
}

// GenreTokens normalizes a genre attribute that is either a list or a
// string delimited by commas, semicolons or middle dots.
func GenreTokens(r entities.Record, field string) []string {
	if list, ok := r.Strings(field); ok {
		return list
	}
	s, ok := r.Str(field)
	if !ok {
		return nil
	}
	parts := strings.FieldsFunc(s, func(c rune) bool {
		return c == ',' || c == ';' || c == '·'
	})
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tokens = append(tokens, strings.TrimSpace(p))
	}
	return tokens
}

// RatingScore weighs the average rating by review volume.
func RatingScore(rating float64, reviews int) float64 {
	return rating * math.Log10(float64(reviews)+1.0)
}

func intOr(r entities.Record, field string, fallback int) int {
	if n, ok := r.Int(field); ok {
		return n
	}
	return fallback
}

func strOr(r entities.Record, field string) string {
	s, _ := r.Str(field)
	return s
}

func comparator(sortBy string, f Fields) func(a, b entities.Record) bool {
	switch sortBy {
	case SortNew:
		return func(a, b entities.Record) bool { return strOr(a, f.CreatedOn) > strOr(b, f.CreatedOn) }
	case SortChaptersDesc:
		return func(a, b entities.Record) bool { return intOr(a, f.Chapters, 0) > intOr(b, f.Chapters, 0) }
	case SortChaptersAsc:
		return func(a, b entities.Record) bool { return intOr(a, f.Chapters, 0) < intOr(b, f.Chapters, 0) }
	case SortRating:
		score := func(r entities.Record) float64 {
			rating, _ := r.Num(f.Rating)
			return RatingScore(rating, intOr(r, f.Reviews, 0))
		}
		return func(a, b entities.Record) bool { return score(a) > score(b) }
	case SortReviews:
		return func(a, b entities.Record) bool { return intOr(a, f.Reviews, 0) > intOr(b, f.Reviews, 0) }
	case SortRank:
		return ascendingRank(f.Rank)
	case SortWeeklyRank:
		return ascendingRank(f.WeeklyRank)
	case SortMonthlyRank:
		return ascendingRank(f.MonthlyRank)
	case SortNameAsc:
		return func(a, b entities.Record) bool { return strOr(a, f.Name) < strOr(b, f.Name) }
	case SortNameDesc:
		return func(a, b entities.Record) bool { return strOr(a, f.Name) > strOr(b, f.Name) }
	default:
		return nil
	}
}

// Unranked records sort last.
func ascendingRank(field string) func(a, b entities.Record) bool {
	return func(a, b entities.Record) bool {
		return intOr(a, field, math.MaxInt) < intOr(b, field, math.MaxInt)
	}
}
