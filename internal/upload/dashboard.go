package upload

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jonathan/image-classifier/internal/export"
	"github.com/jonathan/image-classifier/internal/history"
	"github.com/jonathan/image-classifier/internal/kvstore"
	"github.com/jonathan/image-classifier/internal/nav"
	"github.com/jonathan/image-classifier/internal/progress"
	"github.com/jonathan/image-classifier/internal/results"
)

// WelcomeKey is the store key remembering that the welcome was dismissed.
const WelcomeKey = "hasSeenWelcome"

var (
	// ErrBusy is returned when the selection is changed during a run.
	ErrBusy = errors.New("classification in progress")
	// ErrNoFiles is returned when starting without any file.
	ErrNoFiles = errors.New("no files selected")
	// ErrNoCategory is returned when starting without a category.
	ErrNoCategory = errors.New("no category selected")
)

// CategoryError is returned for an unknown upload category.
type CategoryError struct {
	Category string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("unknown category type: %q", e.Category)
}

// Appender stores finished classifications. *history.Controller satisfies it.
type Appender interface {
	Add(r history.Record) (history.Record, error)
}

// Outcome is the payload handed to the results view.
type Outcome struct {
	Results []results.Result `json:"results"`
	Saved   []history.Record `json:"saved,omitempty"`
	Report  string           `json:"report,omitempty"`
}

// Config wires the dashboard to its collaborators. Only Runner is required.
type Config struct {
	Runner    *progress.Runner
	Stages    []progress.Stage
	Navigator nav.Navigator
	Store     kvstore.Store
	History   Appender
	Sink      export.Sink
	Logger    *slog.Logger
	Now       func() time.Time
}

// Dashboard holds the upload page state.
type Dashboard struct {
	cfg Config
	log *slog.Logger

	mu          sync.Mutex
	files       []File
	category    string
	options     Options
	task        *progress.Handle
	processing  bool
	last        progress.Progress
	fileLabel   string
	showWelcome bool
}

// NewDashboard returns an empty dashboard.
func NewDashboard(cfg Config) *Dashboard {
	if cfg.Runner == nil {
		cfg.Runner = progress.NewRunner(nil)
	}
	if cfg.Stages == nil {
		cfg.Stages = progress.DefaultStages()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Dashboard{
		cfg:     cfg,
		log:     log.With("page", "upload"),
		options: DefaultOptions(),
	}
}

// Mount reads the welcome flag. A store failure shows the welcome and is
// returned so the caller can report it.
func (d *Dashboard) Mount() error {
	seen := false
	var err error
	if d.cfg.Store != nil {
		var v string
		v, _, err = d.cfg.Store.Get(WelcomeKey)
		seen = err == nil && v == "true"
	}
	d.mu.Lock()
	d.showWelcome = !seen
	d.mu.Unlock()
	if err != nil {
		d.log.Warn("reading welcome flag failed", "error", err)
	}
	return err
}

// ShowWelcome reports whether the welcome message is visible.
func (d *Dashboard) ShowWelcome() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.showWelcome
}

// DismissWelcome hides the welcome and remembers it. If the flag cannot be
// stored the welcome stays visible.
func (d *Dashboard) DismissWelcome() error {
	if d.cfg.Store != nil {
		if err := d.cfg.Store.Set(WelcomeKey, "true"); err != nil {
			return err
		}
	}
	d.mu.Lock()
	d.showWelcome = false
	d.mu.Unlock()
	return nil
}

// SelectFiles replaces the selection with the acceptable files. Rejected
// files are reported in a *ValidationError; if none is acceptable the
// selection is kept.
func (d *Dashboard) SelectFiles(files []File) error {
	valid, err := Partition(files)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.processing {
		return ErrBusy
	}
	if len(valid) > 0 {
		d.files = valid
	}
	return err
}

// RemoveFile drops the file at index i of the selection.
func (d *Dashboard) RemoveFile(i int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.processing {
		return ErrBusy
	}
	if i < 0 || i >= len(d.files) {
		return fmt.Errorf("file index %d out of range [0,%d)", i, len(d.files))
	}
	d.files = slices.Delete(slices.Clone(d.files), i, i+1)
	return nil
}

// Files returns the current selection.
func (d *Dashboard) Files() []File {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.files)
}

// SelectCategory sets the upload category.
func (d *Dashboard) SelectCategory(category string) error {
	if !results.KnownType(category) {
		return &CategoryError{Category: category}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.processing {
		return ErrBusy
	}
	d.category = category
	return nil
}

// Category returns the chosen category, or "".
func (d *Dashboard) Category() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.category
}

// SetOptions replaces the processing options.
func (d *Dashboard) SetOptions(o Options) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.processing {
		return ErrBusy
	}
	d.options = o
	return nil
}

// Options returns the processing options.
func (d *Dashboard) Options() Options {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.options
}

// ClearSelection drops the files and category and restores the default
// options.
func (d *Dashboard) ClearSelection() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.processing {
		return ErrBusy
	}
	d.files = nil
	d.category = ""
	d.options = DefaultOptions()
	return nil
}

// CanStart reports whether StartClassification would be accepted.
func (d *Dashboard) CanStart() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.processing && len(d.files) > 0 && d.category != ""
}

// Processing reports whether a run is in progress.
func (d *Dashboard) Processing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.processing
}

// Progress returns the latest event and the label of the files being
// processed. ok is false when nothing is running.
func (d *Dashboard) Progress() (p progress.Progress, label string, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last, d.fileLabel, d.processing
}

// StartClassification runs the staged animation over the selection. When
// it completes the results are simulated, optionally saved and reported,
// and the dashboard navigates to the results view.
func (d *Dashboard) StartClassification() (*progress.Handle, error) {
	d.mu.Lock()
	switch {
	case d.processing:
		d.mu.Unlock()
		return nil, ErrBusy
	case len(d.files) == 0:
		d.mu.Unlock()
		return nil, ErrNoFiles
	case d.category == "":
		d.mu.Unlock()
		return nil, ErrNoCategory
	}
	files := slices.Clone(d.files)
	category := d.category
	opts := d.options
	d.processing = true
	d.fileLabel = Label(files)
	d.last = progress.Progress{}
	d.mu.Unlock()

	var task string
	onProgress := func(p progress.Progress) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if task != "" && p.TaskID != task {
			return
		}
		d.last = p
		if p.Cancelled {
			d.processing = false
			d.task = nil
		}
	}
	onComplete := func() {
		d.complete(files, category, opts)
	}

	h, err := d.cfg.Runner.Start(d.cfg.Stages, onProgress, onComplete)
	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.processing = false
		d.fileLabel = ""
		return nil, err
	}
	task = h.ID()
	if h.State() == progress.Running {
		d.task = h
	}
	d.log.Info("classification started", "task_id", h.ID(), "files", len(files), "category", category)
	return h, nil
}

// Cancel stops the current run. It reports false when nothing was running.
func (d *Dashboard) Cancel() bool {
	d.mu.Lock()
	h := d.task
	d.mu.Unlock()
	if h == nil {
		return false
	}
	return h.Cancel()
}

func (d *Dashboard) complete(files []File, category string, opts Options) {
	now := d.cfg.Now()
	out := Outcome{Results: make([]results.Result, 0, len(files))}
	for _, f := range files {
		out.Results = append(out.Results, results.Simulate(results.Input{
			Filename:     f.Name,
			Size:         f.Size,
			CategoryType: category,
			At:           now,
		}))
	}

	if opts.SaveToHistory && d.cfg.History != nil {
		for _, r := range out.Results {
			saved, err := d.cfg.History.Add(recordOf(r))
			if err != nil {
				d.log.Warn("saving to history failed", "filename", r.Image.Filename, "error", err)
				continue
			}
			out.Saved = append(out.Saved, saved)
		}
	}

	if opts.GenerateReport && d.cfg.Sink != nil {
		name, err := d.writeReport(out.Results, now)
		if err != nil {
			d.log.Warn("writing report failed", "error", err)
		} else {
			out.Report = name
		}
	}

	d.mu.Lock()
	d.processing = false
	d.task = nil
	d.mu.Unlock()

	d.log.Info("classification complete", "files", len(files), "saved", len(out.Saved))
	if d.cfg.Navigator != nil {
		if err := d.cfg.Navigator.NavigateTo(nav.Results, out); err != nil {
			d.log.Warn("navigation failed", "route", nav.Results, "error", err)
		}
	}
}

func (d *Dashboard) writeReport(rs []results.Result, now time.Time) (string, error) {
	name := fmt.Sprintf("reporte_clasificacion_%d.json", now.UnixMilli())
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return "", &export.Error{Filename: name, Cause: err}
	}
	if err := d.cfg.Sink.Export(data, "application/json", name); err != nil {
		return "", err
	}
	return name, nil
}

func recordOf(r results.Result) history.Record {
	top, _ := r.Top()
	return history.Record{
		Filename:          r.Image.Filename,
		Image:             r.Image.URL,
		ImageAlt:          r.Image.Alt,
		PredictedCategory: top.Category,
		Confidence:        top.Confidence,
		CategoryType:      r.CategoryType,
		ProcessedAt:       r.Processing.Timestamp,
		ProcessingTime:    r.Processing.Total,
	}
}
