package settings

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/image-classifier/internal/kvstore"
	"github.com/jonathan/image-classifier/internal/schemas"
)

func TestDefaultsAreValid(t *testing.T) {
	p := Defaults()
	require.NoError(t, p.Validate())
	doc, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NoError(t, schemas.Validate(schemas.Preferences, doc))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Preferences)
		field  string
	}{
		{"language", func(p *Preferences) { p.Language = "fr" }, "language"},
		{"unknown category", func(p *Preferences) { p.DefaultCategory = "planets" }, "defaultCategory"},
		{"empty category", func(p *Preferences) { p.DefaultCategory = "" }, "defaultCategory"},
		{"threshold low", func(p *Preferences) { p.ConfidenceThreshold = 49 }, "confidenceThreshold"},
		{"threshold high", func(p *Preferences) { p.ConfidenceThreshold = 96 }, "confidenceThreshold"},
		{"per page", func(p *Preferences) { p.ItemsPerPage = 20 }, "itemsPerPage"},
		{"export format", func(p *Preferences) { p.ExportFormat = "pdf" }, "exportFormat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults()
			tt.modify(&p)
			var verr *ValidationError
			require.ErrorAs(t, p.Validate(), &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.NotEmpty(t, verr.Fields[0].Message)
		})
	}
}

func TestLoad(t *testing.T) {
	store := kvstore.NewMemory()
	p, err := Load(store)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), p)

	want := Defaults()
	want.Language = "en"
	want.ItemsPerPage = 50
	want.Notifications = false
	require.NoError(t, Save(store, want))
	p, err = Load(store)
	require.NoError(t, err)
	assert.Equal(t, want, p)
}

func TestLoad_CorruptFallsBack(t *testing.T) {
	tests := map[string]string{
		"not json":       "{oops",
		"wrong type":     `{"itemsPerPage":"many"}`,
		"unknown key":    `{"theme":"dark"}`,
		"invalid values": `{"confidenceThreshold":20}`,
		"bad category":   `{"defaultCategory":"planets"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			store := kvstore.NewMemory()
			require.NoError(t, store.Set(Key, raw))

			p, err := Load(store)
			var corrupt *CorruptError
			assert.ErrorAs(t, err, &corrupt)
			assert.Equal(t, Defaults(), p)
		})
	}
}

func TestLoad_PartialDocumentKeepsDefaults(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(Key, `{"language":"en"}`))
	p, err := Load(store)
	require.NoError(t, err)
	want := Defaults()
	want.Language = "en"
	assert.Equal(t, want, p)
}

type failingStore struct{ err error }

func (s failingStore) Get(string) (string, bool, error) { return "", false, s.err }
func (s failingStore) Set(string, string) error         { return s.err }

func TestStoreFailures(t *testing.T) {
	boom := errors.New("locked")
	store := failingStore{err: boom}

	p, err := Load(store)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Defaults(), p)

	assert.ErrorIs(t, Save(store, Defaults()), boom)
	_, err = Set(store, "language", "en")
	assert.ErrorIs(t, err, boom)
}

func TestSave_RejectsInvalid(t *testing.T) {
	store := kvstore.NewMemory()
	p := Defaults()
	p.ExportFormat = "xml"

	var verr *ValidationError
	require.ErrorAs(t, Save(store, p), &verr)
	assert.Empty(t, store.Snapshot())
}

func TestGetSet(t *testing.T) {
	store := kvstore.NewMemory()

	v, err := Get(store, "itemsPerPage")
	require.NoError(t, err)
	assert.Equal(t, "25", v)

	p, err := Set(store, "itemsPerPage", "100")
	require.NoError(t, err)
	assert.Equal(t, 100, p.ItemsPerPage)

	p, err = Set(store, "language", "en")
	require.NoError(t, err)
	assert.Equal(t, "en", p.Language)
	assert.Equal(t, 100, p.ItemsPerPage, "earlier changes are kept")

	_, err = Set(store, "autoSave", "false")
	require.NoError(t, err)
	v, err = Get(store, "autoSave")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	v, err = Get(store, "language")
	require.NoError(t, err)
	assert.Equal(t, "en", v)
}

func TestSet_Rejections(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, Save(store, Defaults()))

	var kerr *KeyError
	_, err := Set(store, "theme", "dark")
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, "theme", kerr.Key)
	_, err = Get(store, "theme")
	assert.ErrorAs(t, err, &kerr)

	_, err = Set(store, "itemsPerPage", "30")
	assert.Error(t, err)
	_, err = Set(store, "confidenceThreshold", "high")
	assert.Error(t, err, "a string where a number belongs fails the schema")

	p, err := Load(store)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), p, "rejected changes are not written")
}

func TestSet_ReplacesCorruptDocument(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(Key, "{oops"))

	p, err := Set(store, "language", "en")
	require.NoError(t, err)
	assert.Equal(t, "en", p.Language)

	loaded, err := Load(store)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}
