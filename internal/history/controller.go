package history

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/jonathan/image-classifier/internal/collection"
	"github.com/jonathan/image-classifier/internal/export"
	"github.com/jonathan/image-classifier/internal/listing"
	"github.com/jonathan/image-classifier/internal/nav"
	"github.com/jonathan/image-classifier/internal/results"
	"github.com/jonathan/image-classifier/internal/selection"
)

// PerPageOptions are the page sizes the page offers.
var PerPageOptions = []int{10, 25, 50, 100}

// Options configures a Controller. Zero values pick defaults.
type Options struct {
	Policy    collection.Policy
	PerPage   int
	Location  *time.Location
	Navigator nav.Navigator
	Sink      export.Sink
	Logger    *slog.Logger
	Now       func() time.Time
}

// Controller is the state of the history page.
type Controller struct {
	list *listing.Listing[Record, int]
	loc  *time.Location
	nav  nav.Navigator
	sink export.Sink
	log  *slog.Logger
	now  func() time.Time
}

// NewController builds the page over records, newest first.
func NewController(records []Record, opts Options) (*Controller, error) {
	if opts.PerPage <= 0 {
		opts.PerPage = collection.DefaultPerPage
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	view := NewView(opts.Policy, opts.Location)
	list, err := listing.New(view, func(r Record) int { return r.ID }, records, DefaultSort, opts.PerPage)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &Controller{
		list: list,
		loc:  opts.Location,
		nav:  opts.Navigator,
		sink: opts.Sink,
		log:  opts.Logger.With("page", "history"),
		now:  opts.Now,
	}, nil
}

// Records returns the whole history in insertion order.
func (c *Controller) Records() []Record {
	return c.list.Items()
}

// Page returns what the page renders now.
func (c *Controller) Page() listing.Page[Record, int] {
	return c.list.Page()
}

// SetFilter validates and applies one filter value.
func (c *Controller) SetFilter(key, value string) error {
	if err := c.validateFilter(key, value); err != nil {
		return err
	}
	return c.list.SetFilter(key, value)
}

// ClearFilters resets every filter.
func (c *Controller) ClearFilters() error {
	return c.list.ClearFilters()
}

// SetSort picks the sort order.
func (c *Controller) SetSort(key string) error {
	return c.list.SetSort(key)
}

// SetPage moves to page.
func (c *Controller) SetPage(page int) error {
	return c.list.SetPage(page)
}

// SetPerPage changes the page size to one of PerPageOptions.
func (c *Controller) SetPerPage(n int) error {
	if !slices.Contains(PerPageOptions, n) {
		return &ValidationError{Field: "itemsPerPage", Value: fmt.Sprint(n), Message: "must be one of 10, 25, 50, 100"}
	}
	return c.list.SetPerPage(n)
}

// Toggle flips the selection of a visible record.
func (c *Controller) Toggle(id int) (bool, error) {
	return c.list.Toggle(id)
}

// SelectAll selects the current page.
func (c *Controller) SelectAll() {
	c.list.SelectAll()
}

// DeselectAll empties the selection.
func (c *Controller) DeselectAll() {
	c.list.DeselectAll()
}

// Add appends a new record with the next free id and returns it.
func (c *Controller) Add(r Record) (Record, error) {
	items := c.list.Items()
	r.ID = 1
	for _, item := range items {
		r.ID = max(r.ID, item.ID+1)
	}
	if err := c.list.Replace(append(items, r)); err != nil {
		return Record{}, err
	}
	c.log.Debug("record added", "id", r.ID, "filename", r.Filename)
	return r, nil
}

// View opens the results view for one record.
func (c *Controller) View(id int) error {
	r, ok := c.list.Find(id)
	if !ok {
		return ErrNotFound
	}
	if c.nav == nil {
		return nil
	}
	return c.nav.NavigateTo(nav.Results, r.Result())
}

// ExportItem downloads one record.
func (c *Controller) ExportItem(id int, format string) (string, error) {
	r, ok := c.list.Find(id)
	if !ok {
		return "", ErrNotFound
	}
	name := fmt.Sprintf("clasificacion_%d.%s", r.ID, format)
	if err := c.write([]Record{r}, format, name); err != nil {
		return "", err
	}
	return name, nil
}

// BulkExport downloads the selected records and returns the file name.
func (c *Controller) BulkExport(format string) (string, error) {
	items := c.list.SelectedItems()
	if len(items) == 0 {
		return "", ErrNothingSelected
	}
	name := fmt.Sprintf("historial_%s.%s", c.now().In(c.loc).Format(collection.DateLayout), format)
	if err := c.write(items, format, name); err != nil {
		return "", err
	}
	c.log.Info("bulk export", "count", len(items), "file", name)
	return name, nil
}

// BulkDelete removes every selected record once confirmed and reports how
// many were removed. A declined confirmation removes nothing.
func (c *Controller) BulkDelete(confirm selection.Confirmer) (int, error) {
	ids := c.list.Selected()
	if len(ids) == 0 {
		return 0, ErrNothingSelected
	}
	prompt := fmt.Sprintf("¿Eliminar %d elementos seleccionados? Esta acción no se puede deshacer.", len(ids))
	if !confirm.Confirm(prompt) {
		return 0, nil
	}

	n, err := c.remove(ids...)
	if err != nil {
		return 0, err
	}
	c.list.DeselectAll()
	c.log.Info("bulk delete", "count", n)
	return n, nil
}

// Delete removes one record once confirmed. It reports whether the record
// was removed.
func (c *Controller) Delete(id int, confirm selection.Confirmer) (bool, error) {
	r, ok := c.list.Find(id)
	if !ok {
		return false, ErrNotFound
	}
	if !confirm.Confirm(fmt.Sprintf("¿Eliminar %s?", r.Filename)) {
		return false, nil
	}
	if _, err := c.remove(id); err != nil {
		return false, err
	}
	c.log.Info("record deleted", "id", id)
	return true, nil
}

// Stats summarizes the whole history.
func (c *Controller) Stats() Stats {
	return ComputeStats(c.list.Items(), c.now())
}

func (c *Controller) remove(ids ...int) (int, error) {
	items := c.list.Items()
	kept := slices.DeleteFunc(slices.Clone(items), func(r Record) bool {
		return slices.Contains(ids, r.ID)
	})
	if err := c.list.Replace(kept); err != nil {
		return 0, err
	}
	return len(items) - len(kept), nil
}

func (c *Controller) write(items []Record, format, name string) error {
	data, mime, err := Encode(items, format)
	if err != nil {
		return err
	}
	if c.sink == nil {
		return &ExportError{Filename: name, Cause: fmt.Errorf("no export sink configured")}
	}
	if err := c.sink.Export(data, mime, name); err != nil {
		c.log.Warn("export failed", "file", name, "error", err)
		return &ExportError{Filename: name, Cause: err}
	}
	return nil
}

func (c *Controller) validateFilter(key, value string) error {
	if collection.IsDefault(value) {
		return nil
	}
	switch key {
	case FilterConfidence:
		if !collection.IsBucket(value) {
			return &ValidationError{Field: key, Value: value, Message: "must be high, medium or low"}
		}
	case FilterCategory:
		if !knownType(value) {
			return &ValidationError{Field: key, Value: value, Message: "unknown category type"}
		}
	case FilterDateFrom, FilterDateTo:
		if _, err := collection.ParseDayStart(value, c.loc); err != nil {
			return &ValidationError{Field: key, Value: value, Message: "date must be YYYY-MM-DD"}
		}
	}
	return nil
}

func knownType(value string) bool {
	value = strings.TrimSpace(value)
	for _, slug := range Types() {
		if strings.EqualFold(slug, value) || strings.EqualFold(TypeLabel(slug), value) {
			return true
		}
	}
	return false
}

// Result converts a record into the results view payload.
func (r Record) Result() results.Result {
	return results.Result{
		Image:        results.Image{Filename: r.Filename, URL: r.Image, Alt: r.ImageAlt},
		CategoryType: r.CategoryType,
		Predictions: []results.Prediction{
			{Category: r.PredictedCategory, Confidence: r.Confidence, IsTop: true},
		},
		Processing: results.Processing{Total: r.ProcessingTime, Timestamp: r.ProcessedAt},
		Model:      results.DefaultModel,
	}
}
