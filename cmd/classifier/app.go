package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/jonathan/image-classifier/internal/categories"
	"github.com/jonathan/image-classifier/internal/collection"
	"github.com/jonathan/image-classifier/internal/export"
	"github.com/jonathan/image-classifier/internal/history"
	"github.com/jonathan/image-classifier/internal/kvstore"
	"github.com/jonathan/image-classifier/internal/nav"
	"github.com/jonathan/image-classifier/internal/observability"
	"github.com/jonathan/image-classifier/internal/selection"
	"github.com/jonathan/image-classifier/internal/settings"
)

// Store keys of the persisted collections.
const (
	historyKey    = "history"
	categoriesKey = "categories"
)

// app holds the collaborators shared by every command.
type app struct {
	store   *kvstore.SQLite
	sink    *export.FileSink
	nav     *nav.Recorder
	printer *observability.Printer
	prefs   settings.Preferences
	log     *slog.Logger
	in      io.Reader
	out     io.Writer
}

func openApp(out io.Writer) (*app, error) {
	store, err := kvstore.OpenSQLite(appConfig.Database())
	if err != nil {
		return nil, err
	}
	a := &app{
		store:   store,
		sink:    export.NewFileSink(afero.NewOsFs(), appConfig.Exports()),
		nav:     &nav.Recorder{},
		printer: observability.NewPrinter(out),
		log:     slog.Default(),
		in:      os.Stdin,
		out:     out,
	}
	a.prefs, err = settings.Load(store)
	if err != nil {
		a.log.Warn("using default preferences", "error", err)
	}
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) policy() collection.Policy {
	if appConfig.StrictKeys {
		return collection.Strict
	}
	return collection.Lenient
}

// loadDoc decodes the JSON document under key, reporting false when absent.
func (a *app) loadDoc(key string, v any) (bool, error) {
	raw, ok, err := a.store.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (a *app) saveDoc(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return a.store.Set(key, string(data))
}

// history opens the history page over the stored records, seeding the
// sample history on first use.
func (a *app) history() (*history.Controller, error) {
	var records []history.Record
	found, err := a.loadDoc(historyKey, &records)
	if err != nil {
		return nil, err
	}
	if !found {
		records = history.SeedRecords()
	}
	loc, err := appConfig.Location()
	if err != nil {
		return nil, err
	}
	return history.NewController(records, history.Options{
		Policy:    a.policy(),
		PerPage:   a.prefs.ItemsPerPage,
		Location:  loc,
		Navigator: a.nav,
		Sink:      a.sink,
		Logger:    a.log,
	})
}

func (a *app) saveHistory(c *history.Controller) error {
	return a.saveDoc(historyKey, c.Records())
}

// categories opens the category page over the stored categories, seeding
// the defaults on first use.
func (a *app) categories() (*categories.Manager, error) {
	var cats []categories.Category
	found, err := a.loadDoc(categoriesKey, &cats)
	if err != nil {
		return nil, err
	}
	if !found {
		cats = categories.SeedCategories()
	}
	return categories.NewManager(cats, categories.Options{
		Policy: a.policy(),
		Sink:   a.sink,
		Logger: a.log,
	})
}

func (a *app) saveCategories(m *categories.Manager) error {
	return a.saveDoc(categoriesKey, m.Categories())
}

// confirmer asks on the terminal unless yes is set.
func (a *app) confirmer(yes bool) selection.Confirmer {
	if yes {
		return selection.Always
	}
	reader := bufio.NewReader(a.in)
	return selection.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(a.out, "%s [s/N] ", prompt)
		line, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "s", "si", "sí", "y", "yes":
			return true
		}
		return false
	})
}
