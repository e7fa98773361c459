package upload

import "math"

// Options are the processing switches of the dashboard.
type Options struct {
	BatchProcessing bool `json:"batchProcessing"`
	HighAccuracy    bool `json:"highAccuracy"`
	SaveToHistory   bool `json:"saveToHistory"`
	GenerateReport  bool `json:"generateReport"`
	CompressImages  bool `json:"compressImages"`
}

// DefaultOptions returns the switches a fresh dashboard starts with.
func DefaultOptions() Options {
	return Options{
		BatchProcessing: true,
		SaveToHistory:   true,
		CompressImages:  true,
	}
}

// EstimatedSeconds is the processing time shown before starting n files.
func (o Options) EstimatedSeconds(n int) int {
	per := 3.0
	if o.HighAccuracy {
		per = 8
	}
	bonus := 1.0
	if o.BatchProcessing && n > 1 {
		bonus = 0.7
	}
	return int(math.Ceil(float64(n) * per * bonus))
}

// EstimatedCost is the mock cost shown before starting n files.
func (o Options) EstimatedCost(n int) float64 {
	cost := float64(n) * 0.02
	if o.HighAccuracy {
		cost *= 1.5
	}
	return math.Round(cost*100) / 100
}

// Threads is the parallelism shown for batch processing.
func (o Options) Threads(n int) int {
	if !o.BatchProcessing {
		return 1
	}
	return max(1, min(n, 4))
}
