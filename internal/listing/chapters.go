package listing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrlokans/novelshelf/internal/entities"
)

// ChapterRange is the half-open interval [Min, Max) of chapter counts a
// listing is restricted to. A nil bound is open.
type ChapterRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// Contains applies the range to a known chapter count.
func (r ChapterRange) Contains(count int) bool {
	if r.Min != nil && count < *r.Min {
		return false
	}
	if r.Max != nil && count >= *r.Max {
		return false
	}
	return true
}

// Allows applies the range to a chapter count as scraped from a page.
// Text that is not a plain integer (blank, "V5 46") always passes.
func (r ChapterRange) Allows(raw string) bool {
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return true
	}
	return r.Contains(count)
}

// IsOpen reports whether the range accepts every count.
func (r ChapterRange) IsOpen() bool {
	return r.Min == nil && r.Max == nil
}

// String renders the range as "min-max" with open bounds left blank.
func (r ChapterRange) String() string {
	var lo, hi string
	if r.Min != nil {
		lo = strconv.Itoa(*r.Min)
	}
	if r.Max != nil {
		hi = strconv.Itoa(*r.Max)
	}
	return lo + "-" + hi
}

// ChapterPreset is a named chapter range offered to users.
type ChapterPreset struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Range       ChapterRange `json:"range"`
}

func bound(n int) *int { return &n }

// ChapterPresets lists the chapter ranges in display order.
var ChapterPresets = []ChapterPreset{
	{Name: "ALL", DisplayName: "all"},
	{Name: "LESS_THAN_100", DisplayName: "<100", Range: ChapterRange{Max: bound(100)}},
	{Name: "GREATER_EQUAL_100", DisplayName: ">100", Range: ChapterRange{Min: bound(100)}},
	{Name: "GREATER_EQUAL_200", DisplayName: ">200", Range: ChapterRange{Min: bound(200)}},
	{Name: "GREATER_EQUAL_300", DisplayName: ">300", Range: ChapterRange{Min: bound(300)}},
	{Name: "GREATER_EQUAL_400", DisplayName: ">400", Range: ChapterRange{Min: bound(400)}},
	{Name: "GREATER_EQUAL_500", DisplayName: ">500", Range: ChapterRange{Min: bound(500)}},
}

// ChapterPresetByName looks a preset up by its name, ignoring case.
func ChapterPresetByName(name string) (ChapterPreset, error) {
	for _, p := range ChapterPresets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return ChapterPreset{}, fmt.Errorf("unknown chapter filter: %s", name)
}

// FilterChapters keeps the records whose chapter count attribute lies in r.
func FilterChapters(records []entities.Record, r ChapterRange, f Fields) []entities.Record {
	if r.IsOpen() {
		return records
	}
	out := make([]entities.Record, 0, len(records))
	for _, rec := range records {
		if r.Allows(rec.Text(f.Chapters)) {
			out = append(out, rec)
		}
	}
	return out
}

// Paginate returns the 1-based page of size perPage. Pages past the end are
// empty.
func Paginate[T any](items []T, page, perPage int) []T {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}

// ChapterCountLabel renders a chapter count badge, "" for unknown counts.
func ChapterCountLabel(count int) string {
	if count <= 0 {
		return ""
	}
	return fmt.Sprintf("%d ch", count)
}

// ChapterCountLabelFromString renders a badge for a scraped count. Text that
// is not a number is shown as is.
func ChapterCountLabelFromString(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	n, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		return raw + " ch"
	case n == 0:
		return ""
	case n > 0:
		return fmt.Sprintf("%d ch", n)
	default:
		return raw + " ch"
	}
}

// ChapterProgressLabel renders "current / total" when both are known.
func ChapterProgressLabel(current, total int) string {
	if current <= 0 || total <= 0 {
		return ""
	}
	return fmt.Sprintf("%d / %d", current, total)
}
