// Package results builds the classification result view: the ranked
// predictions for one image plus processing and model metrics.
package results

import (
	"hash/fnv"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/jonathan/image-classifier/internal/collection"
)

// Prediction is one candidate label. Confidence is in [0, 1].
type Prediction struct {
	Category   string  `json:"category" yaml:"category"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	IsTop      bool    `json:"isTopPrediction" yaml:"isTopPrediction"`
}

// Image describes the classified file.
type Image struct {
	Filename string `json:"fileName"`
	URL      string `json:"url,omitempty"`
	Alt      string `json:"alt,omitempty"`
	Size     int64  `json:"fileSize"`
}

// Processing holds the timings of one run.
type Processing struct {
	Upload    time.Duration `json:"uploadTime"`
	Inference time.Duration `json:"inferenceTime"`
	Total     time.Duration `json:"totalTime"`
	Timestamp time.Time     `json:"timestamp"`
}

// Model describes the classifier that produced a result.
type Model struct {
	Name      string  `json:"name"`
	Version   string  `json:"version"`
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1Score"`
	Dataset   string  `json:"trainingDataset"`
}

// DefaultModel is the model every simulated result reports.
var DefaultModel = Model{
	Name:      "ImageNet-CNN-v3",
	Version:   "3.2.1",
	Accuracy:  92.4,
	Precision: 89.7,
	Recall:    91.2,
	F1:        90.4,
	Dataset:   "ImageNet + Custom Pet Dataset",
}

// Result is the payload of the results view.
type Result struct {
	Image        Image        `json:"image"`
	CategoryType string       `json:"categoryType"`
	Predictions  []Prediction `json:"predictions"`
	Processing   Processing   `json:"processing"`
	Model        Model        `json:"model"`
}

// Top returns the highest-ranked prediction.
func (r Result) Top() (Prediction, bool) {
	if len(r.Predictions) == 0 {
		return Prediction{}, false
	}
	return r.Predictions[0], true
}

// Alternatives returns every prediction after the top one.
func (r Result) Alternatives() []Prediction {
	if len(r.Predictions) < 2 {
		return nil
	}
	return slices.Clone(r.Predictions[1:])
}

// Metrics summarizes how decisive a result is.
type Metrics struct {
	Bucket string  `json:"bucket"`
	Margin float64 `json:"margin"`
	// Candidates counts every prediction, the top one included.
	Candidates int `json:"candidates"`
}

// Metrics returns the confidence bucket of the top prediction and its margin
// over the runner-up. A single prediction has its whole confidence as margin.
func (r Result) Metrics() Metrics {
	top, ok := r.Top()
	if !ok {
		return Metrics{}
	}
	m := Metrics{
		Bucket:     collection.ConfidenceBucket(top.Confidence),
		Margin:     top.Confidence,
		Candidates: len(r.Predictions),
	}
	if len(r.Predictions) > 1 {
		m.Margin = top.Confidence - r.Predictions[1].Confidence
	}
	return m
}

// Input is what Simulate needs to know about one file.
type Input struct {
	Filename     string
	Size         int64
	CategoryType string
	At           time.Time
}

// Simulate produces the ranked predictions for one file. The same input
// always yields the same result.
func Simulate(in Input) Result {
	rng := rand.New(rand.NewPCG(seed(in.Filename, in.CategoryType), uint64(in.Size)))

	labels := slices.Clone(Labels(in.CategoryType))
	rng.Shuffle(len(labels), func(i, j int) { labels[i], labels[j] = labels[j], labels[i] })

	// Strictly decreasing confidences starting in [0.75, 0.98).
	preds := make([]Prediction, 0, len(labels))
	conf := 0.75 + rng.Float64()*0.23
	for i, label := range labels {
		preds = append(preds, Prediction{Category: label, Confidence: round(conf), IsTop: i == 0})
		conf *= 0.45 + rng.Float64()*0.4
	}

	upload := time.Duration(800+rng.IntN(700)) * time.Millisecond
	inference := time.Duration(2500+rng.IntN(1500)) * time.Millisecond
	return Result{
		Image:        Image{Filename: in.Filename, Size: in.Size},
		CategoryType: in.CategoryType,
		Predictions:  preds,
		Processing: Processing{
			Upload:    upload,
			Inference: inference,
			Total:     upload + inference,
			Timestamp: in.At,
		},
		Model: DefaultModel,
	}
}

func seed(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// round keeps three decimals, which is what the percent display shows.
func round(c float64) float64 {
	return float64(int(c*1000+0.5)) / 1000
}
