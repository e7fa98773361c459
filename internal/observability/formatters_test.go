package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/image-classifier/internal/categories"
	"github.com/jonathan/image-classifier/internal/history"
	"github.com/jonathan/image-classifier/internal/progress"
	"github.com/jonathan/image-classifier/internal/results"
	"github.com/jonathan/image-classifier/internal/upload"
)

func newTestPrinter() (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Now = func() time.Time { return time.Date(2025, 11, 7, 12, 0, 0, 0, time.UTC) }
	return p, &buf
}

func TestPrintBox_AlignsWideRunes(t *testing.T) {
	p, buf := newTestPrinter()
	p.printBox("TÍTULO", "Categoría: Vehículos\n"+strings.Repeat("ñ", 100))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	for _, line := range lines {
		assert.Equal(t, boxWidth, runewidth.StringWidth(line), "line %q", line)
	}
	assert.Contains(t, lines[4], "...")
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", barWidth), Bar(0))
	assert.Equal(t, strings.Repeat("█", barWidth), Bar(100))
	assert.Equal(t, strings.Repeat("█", 15)+strings.Repeat("░", 15), Bar(50))
	assert.Equal(t, strings.Repeat("█", barWidth), Bar(250))
}

func TestPrintProgress(t *testing.T) {
	p, buf := newTestPrinter()
	p.PrintProgress(progress.Progress{Stage: progress.StageProcessing, Percent: 42.5}, "2 archivos")
	p.PrintProgress(progress.Progress{Stage: progress.StageProcessing, Percent: 42.5, Cancelled: true}, "2 archivos")

	out := buf.String()
	assert.Contains(t, out, " 42.5%  processing · 2 archivos")
	assert.Contains(t, out, "cancelado · 2 archivos")
}

func TestPrintUploadSummary(t *testing.T) {
	p, buf := newTestPrinter()
	files := []upload.File{
		{Name: "perro.jpg", Size: 2_000_000, MIME: "image/jpeg"},
		{Name: "gato.png", Size: 1_000_000, MIME: "image/png"},
	}
	p.PrintUploadSummary(files, "animals", upload.DefaultOptions())

	out := buf.String()
	assert.Contains(t, out, "UPLOAD (2 files)")
	assert.Contains(t, out, "perro.jpg (2.0 MB)")
	assert.Contains(t, out, "Total:     3.0 MB")
	assert.Contains(t, out, "~5s, $0.04, 2 thread(s)")
}

func TestPrintResult(t *testing.T) {
	p, buf := newTestPrinter()
	r := results.Simulate(results.Input{Filename: "perro.jpg", Size: 1024, CategoryType: results.TypeAnimals})
	p.PrintResult(r)

	top, _ := r.Top()
	out := buf.String()
	assert.Contains(t, out, "RESULT: perro.jpg")
	assert.Contains(t, out, top.Category)
	assert.Contains(t, out, "Alternatives:")
	assert.Contains(t, out, "ImageNet-CNN-v3")
}

func TestPrintResult_NoPredictions(t *testing.T) {
	p, buf := newTestPrinter()
	p.PrintResult(results.Result{Image: results.Image{Filename: "x.png"}})
	assert.Contains(t, buf.String(), "No predictions")
}

func TestPrintHistoryPage(t *testing.T) {
	p, buf := newTestPrinter()
	c, err := history.NewController(history.SeedRecords(), history.Options{PerPage: 10})
	require.NoError(t, err)
	_, err = c.Toggle(1)
	require.NoError(t, err)

	p.PrintHistoryPage(c.Page())
	out := buf.String()
	assert.Contains(t, out, "perro_golden_retriever.jpg")
	assert.Contains(t, out, "94.0%")
	assert.Contains(t, out, "1 hour ago")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "Showing 1–10 of 10 (10 total) · page 1/1  [1] · 1 selected")
}

func TestPrintHistoryPage_Empty(t *testing.T) {
	p, buf := newTestPrinter()
	c, err := history.NewController(nil, history.Options{})
	require.NoError(t, err)

	p.PrintHistoryPage(c.Page())
	assert.Contains(t, buf.String(), "No items match the current filters.")
}

func TestPrintHistoryStats(t *testing.T) {
	p, buf := newTestPrinter()
	now := time.Date(2025, 11, 7, 12, 0, 0, 0, time.UTC)
	p.PrintHistoryStats(history.ComputeStats(history.SeedRecords(), now))

	out := buf.String()
	assert.Contains(t, out, "HISTORY STATISTICS")
	assert.Contains(t, out, "Avg. confidence:  86.4%")
	assert.Contains(t, out, "Avg. time:        1226ms")
	assert.Contains(t, out, "8 high, 2 medium, 0 low")
}

func TestPrintCategories(t *testing.T) {
	p, buf := newTestPrinter()
	m, err := categories.NewManager(categories.SeedCategories(), categories.Options{})
	require.NoError(t, err)

	p.PrintCategories(m.Page())
	p.PrintCategoryStats(m.Stats())

	out := buf.String()
	for _, c := range categories.SeedCategories() {
		assert.Contains(t, out, c.Name)
	}
	assert.Contains(t, out, "Classifications:  3,507")
	assert.Contains(t, out, "Avg. accuracy:    89%")
}

func TestPrintKeyValues(t *testing.T) {
	p, buf := newTestPrinter()
	p.PrintKeyValues("PREFERENCES", []string{"language", "itemsPerPage"}, map[string]string{"language": "es", "itemsPerPage": "25"})

	out := buf.String()
	assert.Contains(t, out, "language:     es")
	assert.Contains(t, out, "itemsPerPage: 25")
}

func TestPrintWelcome(t *testing.T) {
	p, buf := newTestPrinter()
	p.PrintWelcome()
	assert.Contains(t, buf.String(), "welcome dismiss")
}
