package categories

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/image-classifier/internal/collection"
	"github.com/jonathan/image-classifier/internal/export"
	"github.com/jonathan/image-classifier/internal/listing"
	"github.com/jonathan/image-classifier/internal/schemas"
	"github.com/jonathan/image-classifier/internal/selection"
)

var (
	// ErrNotFound is returned for an id that is not in the collection.
	ErrNotFound = errors.New("categories: category not found")
)

// ImportError rejects an import file. Nothing is imported when it occurs.
type ImportError struct {
	Cause error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import categories: %v", e.Cause)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// Options configures a Manager. Zero values pick defaults.
type Options struct {
	Policy collection.Policy
	Sink   export.Sink
	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
}

// Manager is the state of the category management page.
type Manager struct {
	list  *listing.Listing[Category, string]
	sink  export.Sink
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

// NewManager builds the page over cats, sorted by name. Every category fits
// on one page.
func NewManager(cats []Category, opts Options) (*Manager, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	list, err := listing.New(NewView(opts.Policy), func(c Category) string { return c.ID }, cats, SortName, math.MaxInt32)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return &Manager{
		list:  list,
		sink:  opts.Sink,
		log:   opts.Logger.With("page", "categories"),
		now:   opts.Now,
		newID: opts.NewID,
	}, nil
}

// Categories returns the whole collection in insertion order.
func (m *Manager) Categories() []Category {
	return m.list.Items()
}

// Get looks a category up by id.
func (m *Manager) Get(id string) (Category, bool) {
	return m.list.Find(id)
}

// Page returns the filtered, sorted categories.
func (m *Manager) Page() listing.Page[Category, string] {
	return m.list.Page()
}

// SetFilter applies one filter.
func (m *Manager) SetFilter(key, value string) error {
	return m.list.SetFilter(key, value)
}

// ClearFilters resets every filter.
func (m *Manager) ClearFilters() error {
	return m.list.ClearFilters()
}

// SetSort picks the sort order.
func (m *Manager) SetSort(key string) error {
	return m.list.SetSort(key)
}

// Toggle flips a visible category in the export selection.
func (m *Manager) Toggle(id string) (bool, error) {
	return m.list.Toggle(id)
}

// SelectAll selects every visible category.
func (m *Manager) SelectAll() {
	m.list.SelectAll()
}

// DeselectAll empties the selection.
func (m *Manager) DeselectAll() {
	m.list.DeselectAll()
}

// Create validates f and adds a new category.
func (m *Manager) Create(f Form) (Category, error) {
	if err := f.Validate(); err != nil {
		return Category{}, err
	}
	c := Category{
		ID:                  m.newID(),
		Name:                f.Name,
		Description:         f.Description,
		Type:                f.Type,
		Status:              f.Status,
		ConfidenceThreshold: f.ConfidenceThreshold,
		LastUpdated:         m.now(),
		SampleImages:        slices.Clone(f.SampleImages),
	}
	if err := m.list.Replace(append(m.list.Items(), c)); err != nil {
		return Category{}, err
	}
	m.log.Info("category created", "id", c.ID, "name", c.Name)
	return c, nil
}

// Update validates f and applies it to an existing category. Counters and
// accuracy are kept.
func (m *Manager) Update(id string, f Form) (Category, error) {
	if _, ok := m.list.Find(id); !ok {
		return Category{}, ErrNotFound
	}
	if err := f.Validate(); err != nil {
		return Category{}, err
	}
	return m.modify(id, func(c *Category) {
		c.Name = f.Name
		c.Description = f.Description
		c.Type = f.Type
		c.Status = f.Status
		c.ConfidenceThreshold = f.ConfidenceThreshold
		c.SampleImages = slices.Clone(f.SampleImages)
		c.LastUpdated = m.now()
	})
}

// Duplicate copies a category under a new id with its counter reset.
func (m *Manager) Duplicate(id string) (Category, error) {
	src, ok := m.list.Find(id)
	if !ok {
		return Category{}, ErrNotFound
	}
	c := src
	c.ID = m.newID()
	c.Name = src.Name + " (Copia)"
	c.TotalClassifications = 0
	c.LastUpdated = m.now()
	c.SampleImages = slices.Clone(src.SampleImages)
	if err := m.list.Replace(append(m.list.Items(), c)); err != nil {
		return Category{}, err
	}
	m.log.Info("category duplicated", "from", id, "id", c.ID)
	return c, nil
}

// ToggleStatus switches an active category to inactive and anything else
// to active.
func (m *Manager) ToggleStatus(id string) (Category, error) {
	return m.modify(id, func(c *Category) {
		if c.Status == StatusActive {
			c.Status = StatusInactive
		} else {
			c.Status = StatusActive
		}
	})
}

// Delete removes a category once confirmed and reports whether it did.
func (m *Manager) Delete(id string, confirm selection.Confirmer) (bool, error) {
	c, ok := m.list.Find(id)
	if !ok {
		return false, ErrNotFound
	}
	prompt := fmt.Sprintf("¿Eliminar la categoría %q? Se perderán %d clasificaciones asociadas.", c.Name, c.TotalClassifications)
	if !confirm.Confirm(prompt) {
		return false, nil
	}
	kept := slices.DeleteFunc(m.list.Items(), func(c Category) bool { return c.ID == id })
	if err := m.list.Replace(kept); err != nil {
		return false, err
	}
	m.log.Info("category deleted", "id", id)
	return true, nil
}

// Import adds every category of a JSON export. The whole file is rejected
// if any entry is invalid.
func (m *Manager) Import(data []byte) ([]Category, error) {
	if err := schemas.Validate(schemas.Categories, data); err != nil {
		return nil, &ImportError{Cause: err}
	}
	var incoming []Category
	if err := json.Unmarshal(data, &incoming); err != nil {
		return nil, &ImportError{Cause: err}
	}

	now := m.now()
	added := make([]Category, len(incoming))
	for i, c := range incoming {
		c.ID = m.newID()
		c.TotalClassifications = 0
		c.LastUpdated = now
		if c.ConfidenceThreshold == 0 {
			c.ConfidenceThreshold = DefaultThreshold
		}
		added[i] = c
	}
	if err := m.list.Replace(append(m.list.Items(), added...)); err != nil {
		return nil, err
	}
	m.log.Info("categories imported", "count", len(added))
	return added, nil
}

// ImportYAML is Import for a YAML export.
func (m *Manager) ImportYAML(data []byte) ([]Category, error) {
	doc, err := yamlToJSON(data)
	if err != nil {
		return nil, &ImportError{Cause: err}
	}
	return m.Import(doc)
}

// Export downloads the selected categories, or all of them when nothing is
// selected, and returns the file name.
func (m *Manager) Export(format string) (string, error) {
	cats := m.list.SelectedItems()
	if len(cats) == 0 {
		cats = m.list.Items()
	}
	data, mime, err := Encode(cats, format)
	if err != nil {
		return "", err
	}
	name := ExportFilename(m.now(), format)
	if m.sink == nil {
		return "", &export.Error{Filename: name, Cause: errors.New("no export sink configured")}
	}
	if err := m.sink.Export(data, mime, name); err != nil {
		m.log.Warn("export failed", "file", name, "error", err)
		return "", &export.Error{Filename: name, Cause: err}
	}
	m.log.Info("categories exported", "count", len(cats), "file", name)
	return name, nil
}

// ExportFilename is the download name of an export made at t.
func ExportFilename(t time.Time, format string) string {
	return fmt.Sprintf("categorias_%s.%s", t.Format(collection.DateLayout), format)
}

// Stats is the summary strip of the page.
type Stats struct {
	Total                int `json:"totalCategories"`
	Active               int `json:"activeCategories"`
	Training             int `json:"trainingCategories"`
	TotalClassifications int `json:"totalClassifications"`
	AverageAccuracy      int `json:"averageAccuracy"`
}

// Stats summarizes the whole collection.
func (m *Manager) Stats() Stats {
	return ComputeStats(m.list.Items())
}

// ComputeStats summarizes cats. AverageAccuracy is rounded to a whole
// percent.
func ComputeStats(cats []Category) Stats {
	s := Stats{Total: len(cats)}
	accuracy := 0
	for _, c := range cats {
		switch c.Status {
		case StatusActive:
			s.Active++
		case StatusTraining:
			s.Training++
		}
		s.TotalClassifications += c.TotalClassifications
		accuracy += c.Accuracy
	}
	if len(cats) > 0 {
		s.AverageAccuracy = int(math.Round(float64(accuracy) / float64(len(cats))))
	}
	return s
}

func (m *Manager) modify(id string, change func(*Category)) (Category, error) {
	items := m.list.Items()
	i := slices.IndexFunc(items, func(c Category) bool { return c.ID == id })
	if i < 0 {
		return Category{}, ErrNotFound
	}
	change(&items[i])
	if err := m.list.Replace(items); err != nil {
		return Category{}, err
	}
	return items[i], nil
}
