// Package categories is the category management page: the classification
// categories the user maintains, with create, edit, duplicate, import and
// export.
package categories

import (
	"time"

	"github.com/jonathan/image-classifier/internal/collection"
)

// Category types.
const (
	TypeAnimals  = "animals"
	TypeClothing = "clothing"
	TypeFood     = "food"
	TypeVehicles = "vehicles"
	TypeCustom   = "custom"
)

// Category statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusTraining = "training"
)

// DefaultThreshold is the confidence threshold of a new category.
const DefaultThreshold = 75

// SampleImage is one reference image of a category.
type SampleImage struct {
	ID  int    `json:"id" yaml:"id"`
	URL string `json:"url" yaml:"url" validate:"required"`
	Alt string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// Category is one classification category.
type Category struct {
	ID                   string        `json:"id" yaml:"id"`
	Name                 string        `json:"name" yaml:"name"`
	Description          string        `json:"description" yaml:"description"`
	Type                 string        `json:"type" yaml:"type"`
	Status               string        `json:"status" yaml:"status"`
	ConfidenceThreshold  int           `json:"confidenceThreshold" yaml:"confidenceThreshold"`
	TotalClassifications int           `json:"totalClassifications" yaml:"totalClassifications"`
	Accuracy             int           `json:"accuracy" yaml:"accuracy"`
	LastUpdated          time.Time     `json:"lastUpdated" yaml:"lastUpdated"`
	SampleImages         []SampleImage `json:"sampleImages" yaml:"sampleImages"`
}

var typeLabels = map[string]string{
	TypeAnimals:  "Animales",
	TypeClothing: "Ropa",
	TypeFood:     "Comida",
	TypeVehicles: "Vehículos",
	TypeCustom:   "Personalizada",
}

var statusLabels = map[string]string{
	StatusActive:   "Activo",
	StatusInactive: "Inactivo",
	StatusTraining: "Entrenando",
}

// TypeLabel returns the display label of a type.
func TypeLabel(t string) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return t
}

// StatusLabel returns the display label of a status.
func StatusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

// Filter keys.
const (
	FilterSearch = "search"
	FilterType   = "type"
	FilterStatus = "status"
)

// Sort keys. Every order but name puts the largest or newest first.
const (
	SortName            = "name"
	SortAccuracy        = "accuracy"
	SortClassifications = "classifications"
	SortUpdated         = "updated"
)

// NewView registers the category filters and sorts.
func NewView(policy collection.Policy) *collection.View[Category] {
	return collection.NewView[Category](policy).
		Filter(FilterSearch, func(c Category, v string) bool {
			return collection.ContainsFold(v, c.Name, c.Description)
		}).
		Filter(FilterType, func(c Category, v string) bool { return c.Type == v }).
		Filter(FilterStatus, func(c Category, v string) bool { return c.Status == v }).
		Sort(SortName, collection.By(func(c Category) string { return c.Name }, collection.CompareText)).
		Sort(SortAccuracy, collection.Reverse(collection.By(func(c Category) int { return c.Accuracy }, collection.CompareNumber[int]))).
		Sort(SortClassifications, collection.Reverse(collection.By(func(c Category) int { return c.TotalClassifications }, collection.CompareNumber[int]))).
		Sort(SortUpdated, collection.Reverse(collection.By(func(c Category) time.Time { return c.LastUpdated }, collection.CompareTime)))
}
