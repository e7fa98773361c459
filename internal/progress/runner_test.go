package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects events; callbacks run on the goroutine driving the clock.
type recorder struct {
	mu        sync.Mutex
	events    []Progress
	completed int
}

func (r *recorder) onProgress(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, p)
}

func (r *recorder) onComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *recorder) snapshot() ([]Progress, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Progress(nil), r.events...), r.completed
}

func fourEqualStages() []Stage {
	return []Stage{
		{Name: "a", Duration: time.Second},
		{Name: "b", Duration: time.Second},
		{Name: "c", Duration: time.Second},
		{Name: "d", Duration: time.Second},
	}
}

func newTestRunner() (*Runner, *FakeClock) {
	clock := NewFakeClock(time.Date(2025, 11, 7, 10, 0, 0, 0, time.UTC))
	return NewRunner(clock), clock
}

func assertMonotonic(t *testing.T, events []Progress) {
	t.Helper()
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].Percent, events[i-1].Percent, "event %d regressed", i)
		assert.GreaterOrEqual(t, events[i].StageIndex, events[i-1].StageIndex, "event %d went back a stage", i)
	}
}

func TestRunner_NaturalCompletion(t *testing.T) {
	runner, clock := newTestRunner()
	rec := &recorder{}

	h, err := runner.Start(fourEqualStages(), rec.onProgress, rec.onComplete)
	require.NoError(t, err)
	assert.Equal(t, Running, h.State())

	clock.Advance(4 * time.Second)
	events, completed := rec.snapshot()

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, 100.0, last.Percent)
	assert.Equal(t, 3, last.StageIndex)
	assert.Equal(t, "d", last.Stage)
	assert.Equal(t, 0, completed, "completion waits for the settle delay")
	assert.Equal(t, Running, h.State())

	clock.Advance(DefaultSettleDelay - time.Millisecond)
	_, completed = rec.snapshot()
	assert.Equal(t, 0, completed)

	clock.Advance(time.Millisecond)
	events, completed = rec.snapshot()
	assert.Equal(t, 1, completed)
	assert.Equal(t, Complete, h.State())
	assertMonotonic(t, events)
	for _, e := range events {
		assert.False(t, e.Cancelled)
		assert.Equal(t, h.ID(), e.TaskID)
	}

	select {
	case <-h.Done():
	default:
		t.Fatal("done channel not closed after completion")
	}
	assert.Equal(t, 0, clock.Pending())
}

func TestRunner_EmissionGranularity(t *testing.T) {
	runner, clock := newTestRunner()
	rec := &recorder{}

	_, err := runner.Start(DefaultStages(), rec.onProgress, nil)
	require.NoError(t, err)
	clock.Advance(TotalDuration(DefaultStages()))

	events, _ := rec.snapshot()
	assert.Len(t, events, len(DefaultStages())*DefaultTicksPerStage+1)
	assert.Equal(t, 0.0, events[0].Percent)
	for i := 1; i < len(events); i++ {
		assert.LessOrEqual(t, events[i].Percent-events[i-1].Percent, 5.0+1e-9)
	}
}

func TestRunner_EqualStagesMatchTickFormula(t *testing.T) {
	runner, clock := newTestRunner()
	runner.TicksPerStage = 4
	rec := &recorder{}

	_, err := runner.Start(fourEqualStages(), rec.onProgress, nil)
	require.NoError(t, err)
	clock.Advance(4 * time.Second)

	events, _ := rec.snapshot()
	require.Len(t, events, 17)
	for i, e := range events[:16] {
		stage, tick := i/4, i%4
		expected := float64(stage*4+tick) / float64(4*4) * 100
		assert.InDelta(t, expected, e.Percent, 1e-9, "event %d", i)
		assert.Equal(t, stage, e.StageIndex)
	}
}

func TestRunner_DurationWeighting(t *testing.T) {
	runner, clock := newTestRunner()
	runner.TicksPerStage = 2
	rec := &recorder{}

	stages := []Stage{
		{Name: "short", Duration: time.Second},
		{Name: "long", Duration: 3 * time.Second},
	}
	_, err := runner.Start(stages, rec.onProgress, nil)
	require.NoError(t, err)

	clock.Advance(time.Second)
	events, _ := rec.snapshot()
	last := events[len(events)-1]
	assert.Equal(t, "long", last.Stage)
	assert.InDelta(t, 25.0, last.Percent, 1e-9, "the first quarter of the time is the first quarter of the bar")

	clock.Advance(1500 * time.Millisecond)
	events, _ = rec.snapshot()
	assert.InDelta(t, 62.5, events[len(events)-1].Percent, 1e-9)
}

func TestRunner_CancelMidStageTwo(t *testing.T) {
	runner, clock := newTestRunner()
	rec := &recorder{}

	h, err := runner.Start(fourEqualStages(), rec.onProgress, rec.onComplete)
	require.NoError(t, err)

	clock.Advance(1500 * time.Millisecond)
	before, _ := rec.snapshot()
	assert.Equal(t, 1, before[len(before)-1].StageIndex)

	assert.True(t, h.Cancel())
	events, _ := rec.snapshot()
	require.Len(t, events, len(before)+1)
	last := events[len(events)-1]
	assert.True(t, last.Cancelled)
	assert.Equal(t, 1, last.StageIndex)
	assert.Equal(t, before[len(before)-1].Percent, last.Percent)
	assert.Equal(t, Cancelled, h.State())

	clock.Advance(time.Minute)
	after, completed := rec.snapshot()
	assert.Equal(t, events, after, "no events after cancellation")
	assert.Equal(t, 0, completed)
	assert.False(t, h.Cancel(), "second cancel is a no-op")

	for _, e := range events[:len(events)-1] {
		assert.False(t, e.Cancelled)
	}
	assertMonotonic(t, events)
}

func TestRunner_CancelDuringSettle(t *testing.T) {
	runner, clock := newTestRunner()
	rec := &recorder{}

	h, err := runner.Start(fourEqualStages(), rec.onProgress, rec.onComplete)
	require.NoError(t, err)
	clock.Advance(4*time.Second + time.Second)

	assert.True(t, h.Cancel())
	clock.Advance(time.Minute)

	events, completed := rec.snapshot()
	assert.True(t, events[len(events)-1].Cancelled)
	assert.Equal(t, 0, completed)
}

func TestRunner_CancelAfterCompleteIsNoop(t *testing.T) {
	runner, clock := newTestRunner()
	rec := &recorder{}

	h, err := runner.Start(fourEqualStages(), rec.onProgress, rec.onComplete)
	require.NoError(t, err)
	clock.Advance(time.Minute)

	eventsBefore, _ := rec.snapshot()
	assert.False(t, h.Cancel())
	eventsAfter, completed := rec.snapshot()
	assert.Equal(t, eventsBefore, eventsAfter)
	assert.Equal(t, 1, completed)
}

func TestRunner_CancelFromCallback(t *testing.T) {
	runner, clock := newTestRunner()
	rec := &recorder{}

	var h *Handle
	onProgress := func(p Progress) {
		rec.onProgress(p)
		if p.StageIndex == 2 && !p.Cancelled {
			h.Cancel()
		}
	}

	var err error
	h, err = runner.Start(fourEqualStages(), onProgress, rec.onComplete)
	require.NoError(t, err)
	clock.Advance(time.Minute)

	events, completed := rec.snapshot()
	require.GreaterOrEqual(t, len(events), 2)
	last := events[len(events)-1]
	assert.True(t, last.Cancelled)
	assert.Equal(t, 2, last.StageIndex)
	assert.Equal(t, 2, events[len(events)-2].StageIndex)
	assert.Equal(t, 0, completed)
}

func TestRunner_PanickingCallbackIsIsolated(t *testing.T) {
	runner, clock := newTestRunner()
	var calls int
	h, err := runner.Start(fourEqualStages(), func(p Progress) {
		calls++
		panic("boom")
	}, nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() { clock.Advance(time.Minute) })
	assert.Equal(t, Complete, h.State())
	assert.Equal(t, 4*DefaultTicksPerStage+1, calls)
	assert.Equal(t, 100.0, h.Progress().Percent)
}

func TestRunner_RejectsConcurrentStart(t *testing.T) {
	runner, clock := newTestRunner()

	first, err := runner.Start(fourEqualStages(), nil, nil)
	require.NoError(t, err)

	_, err = runner.Start(fourEqualStages(), nil, nil)
	assert.ErrorIs(t, err, ErrTaskRunning)
	assert.Equal(t, Running, first.State(), "the running task is left alone")
	assert.Same(t, first, runner.Active())

	first.Cancel()
	second, err := runner.Start(fourEqualStages(), nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())

	clock.Advance(time.Minute)
	assert.Equal(t, Complete, second.State())
}

func TestRunner_InvalidStages(t *testing.T) {
	runner, _ := newTestRunner()

	_, err := runner.Start(nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoStages)

	_, err = runner.Start([]Stage{{Name: "x", Duration: -time.Second}}, nil, nil)
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, 0, stageErr.Index)

	_, err = runner.Start([]Stage{{Name: "ok", Duration: time.Second}, {Duration: time.Second}}, nil, nil)
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, 1, stageErr.Index)
}

func TestRunner_ZeroDurationStages(t *testing.T) {
	runner, clock := newTestRunner()
	runner.SettleDelay = 0
	rec := &recorder{}

	_, err := runner.Start([]Stage{{Name: "a"}, {Name: "b"}}, rec.onProgress, rec.onComplete)
	require.NoError(t, err)
	clock.Advance(0)

	events, completed := rec.snapshot()
	assert.Equal(t, 100.0, events[len(events)-1].Percent)
	assert.Equal(t, 1, completed)
	assertMonotonic(t, events)
}

func TestHandle_WaitCancelsOnContext(t *testing.T) {
	runner, _ := newTestRunner()
	rec := &recorder{}

	h, err := runner.Start(fourEqualStages(), rec.onProgress, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = h.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Cancelled, h.State())

	events, _ := rec.snapshot()
	assert.True(t, events[len(events)-1].Cancelled)
}

func TestRunner_RealClock(t *testing.T) {
	runner := NewRunner(RealClock{})
	runner.TicksPerStage = 2
	runner.SettleDelay = time.Millisecond
	rec := &recorder{}

	h, err := runner.Start([]Stage{{Name: "a", Duration: 4 * time.Millisecond}, {Name: "b", Duration: 4 * time.Millisecond}}, rec.onProgress, rec.onComplete)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.Wait(ctx))

	events, completed := rec.snapshot()
	assert.Equal(t, 1, completed)
	assert.Equal(t, 100.0, events[len(events)-1].Percent)
	assertMonotonic(t, events)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "complete", Complete.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "unknown", State(42).String())
}
