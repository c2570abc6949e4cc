package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindList
	// KindRaw holds JSON the catalog carries but nothing reads
	// (objects, booleans). It is kept so snapshots round-trip.
	KindRaw
)

// Value is one attribute of a catalog record: a string, a number,
// a list of strings or null.
type Value struct {
	kind Kind
	str  string
	num  float64
	list []string
	raw  json.RawMessage
}

func String(s string) Value      { return Value{kind: KindString, str: s} }
func Number(n float64) Value     { return Value{kind: KindNumber, num: n} }
func List(items ...string) Value { return Value{kind: KindList, list: items} }

// Null is the absent value.
var Null = Value{}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string variant. ok is false for any other kind.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsNumber returns the numeric variant. ok is false for any other kind.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsList returns the list variant. ok is false for any other kind.
func (v Value) AsList() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// Text renders the value the way it is shown to users: numbers without a
// trailing ".0", lists space-joined, null as "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindList:
		var buf bytes.Buffer
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(item)
		}
		return buf.String()
	case KindRaw:
		return string(v.raw)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindRaw:
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*v = Null
		return nil
	}

	switch data[0] {
	case 'n':
		*v = Null
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			var elem Value
			if err := elem.UnmarshalJSON(item); err != nil {
				return err
			}
			if elem.kind == KindNull {
				continue
			}
			list = append(list, elem.Text())
		}
		*v = List(list...)
	case '{', 't', 'f':
		*v = Value{kind: KindRaw, raw: append(json.RawMessage(nil), data...)}
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("decode number %q: %w", data, err)
		}
		*v = Number(n)
	}
	return nil
}

// Record is one catalog row. The schema differs between providers, so the
// typed accessors report absence instead of failing on a mismatch.
type Record map[string]Value

func (r Record) Str(key string) (string, bool) {
	return r[key].AsString()
}

func (r Record) Num(key string) (float64, bool) {
	return r[key].AsNumber()
}

// Int truncates the numeric value of key toward zero.
func (r Record) Int(key string) (int, bool) {
	n, ok := r[key].AsNumber()
	if !ok {
		return 0, false
	}
	return int(n), true
}

func (r Record) Strings(key string) ([]string, bool) {
	return r[key].AsList()
}

// Text returns the display text of key, "" when absent.
func (r Record) Text(key string) string {
	return r[key].Text()
}
