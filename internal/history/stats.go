package history

import (
	"cmp"
	"slices"
	"time"

	"github.com/jonathan/image-classifier/internal/collection"
)

// Share is one slice of the category distribution.
type Share struct {
	Type    string  `json:"type"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Stats is the statistics panel of the history page.
type Stats struct {
	Total                 int            `json:"totalClassifications"`
	AverageConfidence     float64        `json:"averageAccuracy"`
	AverageProcessingTime time.Duration  `json:"averageProcessingTime"`
	ThisWeek              int            `json:"thisWeekCount"`
	Buckets               map[string]int `json:"buckets"`
	Distribution          []Share        `json:"categoryDistribution"`
}

// ComputeStats summarizes records as of now. ThisWeek counts the records of
// the seven days up to now.
func ComputeStats(records []Record, now time.Time) Stats {
	s := Stats{
		Total: len(records),
		Buckets: map[string]int{
			collection.BucketHigh:   0,
			collection.BucketMedium: 0,
			collection.BucketLow:    0,
		},
	}
	if len(records) == 0 {
		return s
	}

	weekAgo := now.Add(-7 * 24 * time.Hour)
	counts := make(map[string]int)
	var confidence float64
	var processing time.Duration
	for _, r := range records {
		confidence += r.Confidence
		processing += r.ProcessingTime
		counts[r.CategoryType]++
		s.Buckets[r.Bucket()]++
		if r.ProcessedAt.After(weekAgo) && !r.ProcessedAt.After(now) {
			s.ThisWeek++
		}
	}
	s.AverageConfidence = confidence / float64(len(records))
	s.AverageProcessingTime = processing / time.Duration(len(records))

	for typ, n := range counts {
		s.Distribution = append(s.Distribution, Share{
			Type:    typ,
			Label:   TypeLabel(typ),
			Count:   n,
			Percent: float64(n) * 100 / float64(len(records)),
		})
	}
	slices.SortFunc(s.Distribution, func(a, b Share) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})
	return s
}
