// Package progress runs the simulated, cancellable classification task.
//
// A task walks an ordered list of stages on an injectable Clock, emitting a
// Progress event every tick. Percent is weighted by each stage's declared
// duration and never goes down. A run ends either by reaching 100 on the
// last stage, followed by a short settle delay and the completion callback,
// or by a single cancelled event.
package progress

import (
	"errors"
	"fmt"
	"time"
)

// Stage names used by the upload dashboard.
const (
	StageUploading  = "uploading"
	StageProcessing = "processing"
	StageAnalyzing  = "analyzing"
	StageComplete   = "complete"
)

// Stage is one named step with a nominal duration.
type Stage struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
}

// DefaultStages is the upload dashboard sequence. Processing takes twice as
// long as the other stages.
func DefaultStages() []Stage {
	return []Stage{
		{Name: StageUploading, Duration: 1500 * time.Millisecond},
		{Name: StageProcessing, Duration: 3000 * time.Millisecond},
		{Name: StageAnalyzing, Duration: 1500 * time.Millisecond},
		{Name: StageComplete, Duration: 1500 * time.Millisecond},
	}
}

// TotalDuration sums the nominal durations.
func TotalDuration(stages []Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += s.Duration
	}
	return total
}

var (
	// ErrNoStages is returned by Start for an empty stage list.
	ErrNoStages = errors.New("progress: no stages")
	// ErrTaskRunning is returned by Start while the runner's previous task
	// has not finished. Starting never cancels the running task implicitly.
	ErrTaskRunning = errors.New("progress: a task is already running")
)

// StageError reports an invalid stage definition.
type StageError struct {
	Index  int
	Reason string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("progress: stage %d: %s", e.Index, e.Reason)
}

func validateStages(stages []Stage) error {
	if len(stages) == 0 {
		return ErrNoStages
	}
	for i, s := range stages {
		if s.Name == "" {
			return &StageError{Index: i, Reason: "empty name"}
		}
		if s.Duration < 0 {
			return &StageError{Index: i, Reason: "negative duration"}
		}
	}
	return nil
}

// weights returns each stage's share of the run. Stages with equal durations
// get equal shares; if every duration is zero all stages count equally.
func weights(stages []Stage) []float64 {
	out := make([]float64, len(stages))
	total := TotalDuration(stages)
	for i, s := range stages {
		if total == 0 {
			out[i] = 1 / float64(len(stages))
			continue
		}
		out[i] = float64(s.Duration) / float64(total)
	}
	return out
}
