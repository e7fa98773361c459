package results

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 11, 7, 14, 20, 52, 0, time.UTC)

func TestSimulate_Deterministic(t *testing.T) {
	in := Input{Filename: "golden_retriever_photo.jpg", Size: 2457600, CategoryType: TypeAnimals, At: at}
	assert.Equal(t, Simulate(in), Simulate(in))

	other := in
	other.Filename = "labrador.jpg"
	assert.NotEqual(t, Simulate(in).Predictions, Simulate(other).Predictions)
}

func TestSimulate_RankedPredictions(t *testing.T) {
	for _, typ := range append(Types(), "unknown") {
		t.Run(typ, func(t *testing.T) {
			r := Simulate(Input{Filename: "img.png", Size: 1024, CategoryType: typ, At: at})
			require.Len(t, r.Predictions, len(Labels(typ)))

			top, ok := r.Top()
			require.True(t, ok)
			assert.True(t, top.IsTop)
			assert.GreaterOrEqual(t, top.Confidence, 0.75)
			assert.Less(t, top.Confidence, 0.98)

			for i := 1; i < len(r.Predictions); i++ {
				assert.False(t, r.Predictions[i].IsTop)
				assert.Less(t, r.Predictions[i].Confidence, r.Predictions[i-1].Confidence)
				assert.Greater(t, r.Predictions[i].Confidence, 0.0)
			}
			assert.ElementsMatch(t, Labels(typ), categories(r.Predictions))
			assert.Equal(t, r.Processing.Upload+r.Processing.Inference, r.Processing.Total)
			assert.Equal(t, at, r.Processing.Timestamp)
		})
	}
}

func categories(preds []Prediction) []string {
	out := make([]string, len(preds))
	for i, p := range preds {
		out[i] = p.Category
	}
	return out
}

func TestMetrics(t *testing.T) {
	tests := []struct {
		name  string
		preds []Prediction
		want  Metrics
	}{
		{"empty", nil, Metrics{}},
		{"single", []Prediction{{Category: "Perro", Confidence: 0.8, IsTop: true}}, Metrics{Bucket: "high", Margin: 0.8, Candidates: 1}},
		{"medium with runner-up", []Prediction{
			{Category: "A", Confidence: 0.7, IsTop: true},
			{Category: "B", Confidence: 0.5},
		}, Metrics{Bucket: "medium", Margin: 0.2, Candidates: 2}},
		{"low", []Prediction{{Category: "A", Confidence: 0.59, IsTop: true}}, Metrics{Bucket: "low", Margin: 0.59, Candidates: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Result{Predictions: tt.preds}.Metrics()
			assert.Equal(t, tt.want.Bucket, got.Bucket)
			assert.InDelta(t, tt.want.Margin, got.Margin, 1e-9)
			assert.Equal(t, tt.want.Candidates, got.Candidates)
		})
	}
}

func TestAlternatives(t *testing.T) {
	r := Result{Predictions: []Prediction{{Category: "A", IsTop: true}, {Category: "B"}, {Category: "C"}}}
	assert.Equal(t, []string{"B", "C"}, categories(r.Alternatives()))
	assert.Nil(t, Result{}.Alternatives())
}

func TestEncode(t *testing.T) {
	r := Result{
		Image:       Image{Filename: "perro.jpg", Size: 10},
		Predictions: []Prediction{{Category: "Perro", Confidence: 0.947, IsTop: true}},
		Processing:  Processing{Total: 4668 * time.Millisecond},
	}

	data, mime, err := Encode(r, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", mime)
	assert.Equal(t, "Archivo,Categoría,Confianza,Tiempo de Procesamiento\nperro.jpg,Perro,94.7%,4668ms\n", string(data))

	data, mime, err = Encode(r, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", mime)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "predictions")
	assert.True(t, strings.HasPrefix(string(data), "{\n  "))

	_, _, err = Encode(r, "xml")
	assert.Error(t, err)

	assert.Equal(t, "clasificacion_resultado_1762525252000.csv", Filename(1762525252000, FormatCSV))
}

func TestLabels(t *testing.T) {
	assert.True(t, KnownType(TypeSports))
	assert.False(t, KnownType("gif"))
	assert.Len(t, Types(), 8)
	assert.Equal(t, []string{"Objeto", "Escena", "Otros"}, Labels("custom"))
}
