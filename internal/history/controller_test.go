package history

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/image-classifier/internal/collection"
	"github.com/jonathan/image-classifier/internal/export"
	"github.com/jonathan/image-classifier/internal/listing"
	"github.com/jonathan/image-classifier/internal/nav"
	"github.com/jonathan/image-classifier/internal/results"
	"github.com/jonathan/image-classifier/internal/selection"
)

var testNow = time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC)

type fixture struct {
	c    *Controller
	nav  *nav.Recorder
	sink *export.Recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{nav: &nav.Recorder{}, sink: &export.Recorder{}}
	c, err := NewController(SeedRecords(), Options{
		Navigator: f.nav,
		Sink:      f.sink,
		Now:       func() time.Time { return testNow },
	})
	require.NoError(t, err)
	f.c = c
	return f
}

func ids(p listing.Page[Record, int]) []int {
	out := make([]int, len(p.Items))
	for i, r := range p.Items {
		out[i] = r.ID
	}
	return out
}

func TestController_DefaultPage(t *testing.T) {
	f := newFixture(t)
	p := f.c.Page()
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(p), "newest first")
	assert.Equal(t, 25, p.PerPage)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, SortDateDesc, p.State.Sort)
}

func TestController_Filters(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string]string
		want    []int
	}{
		{"search filename", map[string]string{FilterSearch: "PERRO"}, []int{1}},
		{"search predicted category", map[string]string{FilterSearch: "calzado"}, []int{6}},
		{"category label", map[string]string{FilterCategory: "Animales"}, []int{1, 3, 8}},
		{"category slug", map[string]string{FilterCategory: "animals"}, []int{1, 3, 8}},
		{"medium confidence", map[string]string{FilterConfidence: "medium"}, []int{5, 9}},
		{"no low confidence", map[string]string{FilterConfidence: "low"}, []int{}},
		{"single day", map[string]string{FilterDateFrom: "2025-11-06", FilterDateTo: "2025-11-06"}, []int{3, 4}},
		{"to is inclusive", map[string]string{FilterDateTo: "2025-11-03"}, []int{9, 10}},
		{"combined", map[string]string{FilterCategory: "clothing", FilterConfidence: "high"}, []int{2, 6}},
		{"all means none", map[string]string{FilterCategory: "all", FilterConfidence: "all"}, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for k, v := range tt.filters {
				require.NoError(t, f.c.SetFilter(k, v))
			}
			p := f.c.Page()
			assert.Equal(t, tt.want, ids(p))
			assert.Equal(t, len(tt.want), p.FilteredCount)
		})
	}
}

func TestController_Sorts(t *testing.T) {
	tests := []struct {
		sort string
		want []int
	}{
		{SortDateAsc, []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}},
		{SortConfidenceDesc, []int{1, 7, 3, 4, 8, 2, 10, 6, 9, 5}},
		{SortConfidenceAsc, []int{5, 9, 6, 10, 2, 8, 4, 3, 7, 1}},
		{SortFilenameAsc, []int{2, 9, 5, 3, 7, 10, 8, 1, 4, 6}},
		{SortFilenameDesc, []int{6, 4, 1, 8, 10, 7, 3, 5, 9, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.c.SetSort(tt.sort))
			assert.Equal(t, tt.want, ids(f.c.Page()))
		})
	}
}

func TestController_RejectsBadInput(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{FilterConfidence, "very"},
		{FilterCategory, "plants"},
		{FilterDateFrom, "07/11/2025"},
		{FilterDateTo, "2025-13-01"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			f := newFixture(t)
			err := f.c.SetFilter(tt.key, tt.value)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.key, verr.Field)
			assert.Empty(t, f.c.Page().State.Filters)
		})
	}

	f := newFixture(t)
	var unknown *collection.UnknownKeyError
	assert.ErrorAs(t, f.c.SetFilter("colour", "red"), &unknown)
	assert.ErrorAs(t, f.c.SetSort("size-desc"), &unknown)

	var verr *ValidationError
	assert.ErrorAs(t, f.c.SetPerPage(7), &verr)
	assert.Equal(t, 25, f.c.Page().PerPage)
}

func TestController_SelectAllThenFilterToFour(t *testing.T) {
	f := newFixture(t)
	f.c.SelectAll()
	require.Len(t, f.c.Page().Selected, 10)

	require.NoError(t, f.c.SetFilter(FilterDateFrom, "2025-11-06"))
	p := f.c.Page()
	assert.Equal(t, []int{1, 2, 3, 4}, ids(p))
	assert.LessOrEqual(t, len(p.Selected), 4)
	for _, id := range p.Selected {
		assert.Contains(t, ids(p), id)
	}
}

func TestController_PerPageAndPages(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.SetPerPage(10))
	for i := 0; i < 13; i++ {
		_, err := f.c.Add(Record{Filename: "extra.jpg", CategoryType: TypeObjects, Confidence: 0.5, ProcessedAt: testNow})
		require.NoError(t, err)
	}
	require.NoError(t, f.c.SetPage(4))
	p := f.c.Page()
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 3, p.Page)
	assert.Len(t, p.Items, 3)
	assert.Equal(t, 21, p.Start)
	assert.Equal(t, 23, p.End)
}

func TestController_View(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.View(1))

	visit, ok := f.nav.Last()
	require.True(t, ok)
	assert.Equal(t, nav.Results, visit.Route)
	res, ok := visit.Payload.(results.Result)
	require.True(t, ok)
	top, _ := res.Top()
	assert.Equal(t, "Perro", top.Category)
	assert.Equal(t, 0.94, top.Confidence)
	assert.Equal(t, 1250*time.Millisecond, res.Processing.Total)

	assert.ErrorIs(t, f.c.View(99), ErrNotFound)
}

func TestController_Export(t *testing.T) {
	f := newFixture(t)

	name, err := f.c.ExportItem(1, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "clasificacion_1.csv", name)
	require.Len(t, f.sink.Files, 1)
	assert.Equal(t, "text/csv", f.sink.Files[0].MimeType)
	assert.Equal(t,
		"ID,Archivo,Categoría,Tipo,Confianza,Fecha,Tiempo (ms)\n1,perro_golden_retriever.jpg,Perro,Animales,0.94,2025-11-07T10:30:00Z,1250\n",
		string(f.sink.Files[0].Data))

	_, err = f.c.BulkExport(FormatJSON)
	assert.ErrorIs(t, err, ErrNothingSelected)

	f.c.SelectAll()
	name, err = f.c.BulkExport(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "historial_2025-11-08.json", name)
	assert.Equal(t, "application/json", f.sink.Files[1].MimeType)

	var verr *ValidationError
	_, err = f.c.ExportItem(1, "pdf")
	assert.ErrorAs(t, err, &verr)
}

func TestController_ExportFailureLeavesStateAlone(t *testing.T) {
	boom := errors.New("disk full")
	c, err := NewController(SeedRecords(), Options{
		Sink: export.Func(func([]byte, string, string) error { return boom }),
	})
	require.NoError(t, err)
	c.SelectAll()

	_, err = c.BulkExport(FormatCSV)
	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, c.Page().Selected, 10)
	assert.Len(t, c.Records(), 10)
}

func TestController_BulkDelete(t *testing.T) {
	f := newFixture(t)
	_, err := f.c.BulkDelete(selection.Always)
	assert.ErrorIs(t, err, ErrNothingSelected)

	for _, id := range []int{2, 4, 6} {
		_, err := f.c.Toggle(id)
		require.NoError(t, err)
	}

	n, err := f.c.BulkDelete(selection.Never)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, f.c.Records(), 10)
	assert.Equal(t, []int{2, 4, 6}, f.c.Page().Selected)

	var prompt string
	n, err = f.c.BulkDelete(selection.ConfirmFunc(func(p string) bool { prompt = p; return true }))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Contains(t, prompt, "3")
	assert.Equal(t, []int{1, 3, 5, 7, 8, 9, 10}, ids(f.c.Page()))
	assert.Empty(t, f.c.Page().Selected)
}

func TestController_DeleteSelectedRecord(t *testing.T) {
	f := newFixture(t)
	f.c.SelectAll()

	removed, err := f.c.Delete(3, selection.Always)
	require.NoError(t, err)
	assert.True(t, removed)

	p := f.c.Page()
	assert.NotContains(t, ids(p), 3)
	assert.NotContains(t, p.Selected, 3)
	assert.Len(t, p.Selected, 9)
	assert.True(t, p.AllSelected)

	removed, err = f.c.Delete(4, selection.Never)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = f.c.Delete(3, selection.Always)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestController_Add(t *testing.T) {
	f := newFixture(t)
	r, err := f.c.Add(Record{Filename: "nuevo.png", CategoryType: TypeFood, Confidence: 0.9, ProcessedAt: testNow})
	require.NoError(t, err)
	assert.Equal(t, 11, r.ID)
	assert.Equal(t, 11, ids(f.c.Page())[0])
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(SeedRecords(), testNow)
	assert.Equal(t, 10, s.Total)
	assert.InDelta(t, 0.864, s.AverageConfidence, 1e-9)
	assert.Equal(t, 1226*time.Millisecond, s.AverageProcessingTime)
	assert.Equal(t, 10, s.ThisWeek)
	assert.Equal(t, map[string]int{"high": 8, "medium": 2, "low": 0}, s.Buckets)

	require.Len(t, s.Distribution, 4)
	assert.Equal(t, Share{Type: TypeAnimals, Label: "Animales", Count: 3, Percent: 30}, s.Distribution[0])
	assert.Equal(t, TypeClothing, s.Distribution[1].Type)
	assert.Equal(t, TypeFood, s.Distribution[2].Type)
	assert.Equal(t, TypeVehicles, s.Distribution[3].Type)

	later := ComputeStats(SeedRecords(), time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 9, later.ThisWeek)

	empty := ComputeStats(nil, testNow)
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.Distribution)
}
