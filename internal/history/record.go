// Package history is the classification history page: every past
// classification, filterable, sortable, paginated, with bulk export and
// delete over the selected rows.
package history

import (
	"strings"
	"time"

	"github.com/jonathan/image-classifier/internal/collection"
)

// Category type slugs used by the filter select.
const (
	TypeAnimals  = "animals"
	TypeClothing = "clothing"
	TypeObjects  = "objects"
	TypeFood     = "food"
	TypeVehicles = "vehicles"
)

var typeLabels = map[string]string{
	TypeAnimals:  "Animales",
	TypeClothing: "Ropa",
	TypeObjects:  "Objetos",
	TypeFood:     "Comida",
	TypeVehicles: "Vehículos",
}

// Types returns the category type slugs in menu order.
func Types() []string {
	return []string{TypeAnimals, TypeClothing, TypeObjects, TypeFood, TypeVehicles}
}

// TypeLabel returns the display label of a slug, or the slug itself.
func TypeLabel(slug string) string {
	if l, ok := typeLabels[slug]; ok {
		return l
	}
	return slug
}

// Record is one past classification.
type Record struct {
	ID                int           `json:"id"`
	Filename          string        `json:"filename"`
	Image             string        `json:"image"`
	ImageAlt          string        `json:"imageAlt"`
	PredictedCategory string        `json:"predictedCategory"`
	Confidence        float64       `json:"confidence"`
	CategoryType      string        `json:"categoryType"`
	ProcessedAt       time.Time     `json:"processedAt"`
	ProcessingTime    time.Duration `json:"processingTime"`
}

// Bucket returns the confidence bucket of the record.
func (r Record) Bucket() string {
	return collection.ConfidenceBucket(r.Confidence)
}

// Filter keys.
const (
	FilterSearch     = "search"
	FilterCategory   = "category"
	FilterConfidence = "confidence"
	FilterDateFrom   = "dateFrom"
	FilterDateTo     = "dateTo"
)

// Sort keys.
const (
	SortDateDesc       = "date-desc"
	SortDateAsc        = "date-asc"
	SortConfidenceDesc = "confidence-desc"
	SortConfidenceAsc  = "confidence-asc"
	SortFilenameAsc    = "filename-asc"
	SortFilenameDesc   = "filename-desc"

	DefaultSort = SortDateDesc
)

// NewView registers the history filters and sorts. Date filters are
// interpreted in loc; a nil loc means UTC.
func NewView(policy collection.Policy, loc *time.Location) *collection.View[Record] {
	if loc == nil {
		loc = time.UTC
	}
	byDate := collection.By(func(r Record) time.Time { return r.ProcessedAt }, collection.CompareTime)
	byConfidence := collection.By(func(r Record) float64 { return r.Confidence }, collection.CompareNumber[float64])
	byFilename := collection.By(func(r Record) string { return r.Filename }, collection.CompareText)

	return collection.NewView[Record](policy).
		Filter(FilterSearch, func(r Record, v string) bool {
			return collection.ContainsFold(v, r.Filename, r.PredictedCategory)
		}).
		Filter(FilterCategory, func(r Record, v string) bool {
			v = strings.TrimSpace(v)
			return strings.EqualFold(r.CategoryType, v) || strings.EqualFold(TypeLabel(r.CategoryType), v)
		}).
		Filter(FilterConfidence, func(r Record, v string) bool {
			return r.Bucket() == v
		}).
		Filter(FilterDateFrom, func(r Record, v string) bool {
			from, err := collection.ParseDayStart(v, loc)
			return err == nil && !r.ProcessedAt.Before(from)
		}).
		Filter(FilterDateTo, func(r Record, v string) bool {
			to, err := collection.ParseDayEnd(v, loc)
			return err == nil && !r.ProcessedAt.After(to)
		}).
		Sort(SortDateDesc, collection.Reverse(byDate)).
		Sort(SortDateAsc, byDate).
		Sort(SortConfidenceDesc, collection.Reverse(byConfidence)).
		Sort(SortConfidenceAsc, byConfidence).
		Sort(SortFilenameAsc, byFilename).
		Sort(SortFilenameDesc, collection.Reverse(byFilename))
}
