package collection

import (
	"cmp"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Confidence buckets. Lower bounds are inclusive, upper bounds exclusive.
const (
	BucketHigh   = "high"
	BucketMedium = "medium"
	BucketLow    = "low"

	HighThreshold   = 0.8
	MediumThreshold = 0.6
)

// ConfidenceBucket classifies a 0..1 confidence score.
func ConfidenceBucket(c float64) string {
	switch {
	case c >= HighThreshold:
		return BucketHigh
	case c >= MediumThreshold:
		return BucketMedium
	default:
		return BucketLow
	}
}

// IsBucket reports whether value names a confidence bucket.
func IsBucket(value string) bool {
	return value == BucketHigh || value == BucketMedium || value == BucketLow
}

// ContainsFold reports whether any field contains needle, ignoring case.
func ContainsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// collate.Collator keeps internal buffers and is not safe for concurrent use.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Spanish, collate.IgnoreCase)
)

// CompareText orders strings by Spanish collation rules, so "Árbol" sorts
// next to "arbol" instead of after "zapato".
func CompareText(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// CompareTime orders instants, earliest first.
func CompareTime(a, b time.Time) int {
	return a.Compare(b)
}

// CompareNumber orders any ordered numeric value, smallest first.
func CompareNumber[N cmp.Ordered](a, b N) int {
	return cmp.Compare(a, b)
}

// Reverse flips a comparator.
func Reverse[T any](c Compare[T]) Compare[T] {
	return func(a, b T) int {
		return c(b, a)
	}
}

// By builds a comparator from a key extractor and a key comparator.
func By[T, K any](key func(T) K, c func(a, b K) int) Compare[T] {
	return func(a, b T) int {
		return c(key(a), key(b))
	}
}

// DateLayout is the format of the date-range filter values.
const DateLayout = "2006-01-02"

// ParseDayStart parses value as the first instant of that day in loc.
func ParseDayStart(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
}

// ParseDayEnd parses value as the last millisecond of that day in loc, so a
// "to" date includes everything processed on it.
func ParseDayEnd(value string, loc *time.Location) (time.Time, error) {
	day, err := ParseDayStart(value, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(24*time.Hour - time.Millisecond), nil
}
