package entities

import "strings"

// ReadType is the reading progress a user assigned to a bookmarked book.
type ReadType int

const (
	ReadTypeNone ReadType = iota
	ReadTypeReading
	ReadTypeOnHold
	ReadTypePlanToRead
	ReadTypeCompleted
	ReadTypeDropped
)

// ReadTypes lists every read type in display order.
var ReadTypes = []ReadType{
	ReadTypeNone,
	ReadTypeReading,
	ReadTypeOnHold,
	ReadTypePlanToRead,
	ReadTypeCompleted,
	ReadTypeDropped,
}

var readTypeNames = map[ReadType]string{
	ReadTypeNone:       "NONE",
	ReadTypeReading:    "READING",
	ReadTypeOnHold:     "ON_HOLD",
	ReadTypePlanToRead: "PLAN_TO_READ",
	ReadTypeCompleted:  "COMPLETED",
	ReadTypeDropped:    "DROPPED",
}

// String returns the section name of the read type, e.g. "PLAN_TO_READ".
func (r ReadType) String() string {
	if name, ok := readTypeNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// PrefValue is the numeric code persisted for the read type.
func (r ReadType) PrefValue() int {
	return int(r) - 1
}

// ReadTypeFromPref maps a persisted code back to its read type.
func ReadTypeFromPref(value int) (ReadType, bool) {
	for _, r := range ReadTypes {
		if r.PrefValue() == value {
			return r, true
		}
	}
	return ReadTypeNone, false
}

// ParseReadType accepts a section name in any case.
func ParseReadType(name string) (ReadType, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for r, n := range readTypeNames {
		if n == name {
			return r, true
		}
	}
	return ReadTypeNone, false
}
