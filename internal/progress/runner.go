package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Defaults matching the upload dashboard animation.
const (
	DefaultTicksPerStage = 20
	DefaultSettleDelay   = 2 * time.Second
)

// State is the lifecycle position of a task.
type State int

const (
	Idle State = iota
	Running
	Complete
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Progress is one event of a running task.
type Progress struct {
	TaskID     string  `json:"task_id"`
	Stage      string  `json:"stage"`
	StageIndex int     `json:"stage_index"`
	Percent    float64 `json:"percent"`
	Cancelled  bool    `json:"cancelled,omitempty"`
}

// Runner starts tasks one at a time.
type Runner struct {
	Clock         Clock
	TicksPerStage int
	SettleDelay   time.Duration
	Logger        *slog.Logger

	mu     sync.Mutex
	active *Handle
}

// NewRunner returns a runner with the default tick rate and settle delay.
func NewRunner(clock Clock) *Runner {
	if clock == nil {
		clock = RealClock{}
	}
	return &Runner{
		Clock:         clock,
		TicksPerStage: DefaultTicksPerStage,
		SettleDelay:   DefaultSettleDelay,
	}
}

// Active returns the most recently started task, or nil.
func (r *Runner) Active() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Start begins a task and emits its first event before returning.
// onProgress receives every tick; onComplete runs once after the settle
// delay that follows 100%. Either callback may be nil.
func (r *Runner) Start(stages []Stage, onProgress func(Progress), onComplete func()) (*Handle, error) {
	if err := validateStages(stages); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.active != nil && r.active.State() == Running {
		r.mu.Unlock()
		return nil, ErrTaskRunning
	}
	h := r.newHandle(stages, onProgress, onComplete)
	r.active = h
	r.mu.Unlock()

	h.begin()
	return h, nil
}

func (r *Runner) newHandle(stages []Stage, onProgress func(Progress), onComplete func()) *Handle {
	ticks := r.TicksPerStage
	if ticks <= 0 {
		ticks = DefaultTicksPerStage
	}
	settle := r.SettleDelay
	if settle < 0 {
		settle = 0
	}
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}
	clock := r.Clock
	if clock == nil {
		clock = RealClock{}
	}

	w := weights(stages)
	prefix := make([]float64, len(w))
	for i := 1; i < len(w); i++ {
		prefix[i] = prefix[i-1] + w[i-1]
	}

	id := uuid.NewString()
	return &Handle{
		id:         id,
		clock:      clock,
		stages:     append([]Stage(nil), stages...),
		weights:    w,
		prefix:     prefix,
		ticks:      ticks,
		settle:     settle,
		onProgress: onProgress,
		onComplete: onComplete,
		log:        log.With("task_id", id),
		done:       make(chan struct{}),
	}
}

// Handle controls one running task.
type Handle struct {
	id         string
	clock      Clock
	stages     []Stage
	weights    []float64
	prefix     []float64
	ticks      int
	settle     time.Duration
	onProgress func(Progress)
	onComplete func()
	log        *slog.Logger

	mu       sync.Mutex
	state    State
	stage    int
	tick     int
	percent  float64
	timer    Timer
	outbox   []delivery
	draining bool
	done     chan struct{}
}

// delivery is one queued callback invocation. Events are queued under the
// lock at the moment of the state change, so queue order is emission order.
type delivery struct {
	progress *Progress
	complete bool
	terminal bool
}

// ID identifies the task in events and logs.
func (h *Handle) ID() string { return h.id }

// State returns the current lifecycle state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Progress returns the latest event.
func (h *Handle) Progress() Progress {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked(h.state == Cancelled)
}

// Done is closed after the terminal callback has been delivered.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Cancel stops the task and emits one cancelled event. It reports false if
// the task had already finished or been cancelled.
func (h *Handle) Cancel() bool {
	h.mu.Lock()
	if h.state != Running {
		h.mu.Unlock()
		return false
	}
	h.state = Cancelled
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	p := h.snapshotLocked(true)
	h.outbox = append(h.outbox, delivery{progress: &p, terminal: true})
	h.mu.Unlock()

	h.log.Info("task cancelled", "stage", p.Stage, "percent", p.Percent)
	h.drain()
	return true
}

// Wait blocks until the task finishes. If ctx ends first the task is
// cancelled and ctx.Err() returned. Do not call Wait from a task callback.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		h.Cancel()
		<-h.done
		return ctx.Err()
	}
}

func (h *Handle) begin() {
	h.mu.Lock()
	h.state = Running
	h.log.Debug("task started", "stages", len(h.stages), "ticks_per_stage", h.ticks)
	p := h.snapshotLocked(false)
	h.outbox = append(h.outbox, delivery{progress: &p})
	h.scheduleLocked(h.stepLocked(), h.onTick)
	h.mu.Unlock()

	h.drain()
}

func (h *Handle) onTick() {
	h.mu.Lock()
	if h.state != Running {
		h.mu.Unlock()
		return
	}

	h.tick++
	if h.tick >= h.ticks {
		h.stage++
		h.tick = 0
	}

	if h.stage == len(h.stages) {
		// Natural end: hold at 100 on the last stage, then settle.
		h.stage = len(h.stages) - 1
		h.tick = h.ticks
		h.percent = 100
		p := h.snapshotLocked(false)
		h.outbox = append(h.outbox, delivery{progress: &p})
		h.scheduleLocked(h.settle, h.onSettle)
		h.mu.Unlock()

		h.drain()
		return
	}

	h.percent = max(h.percent, h.percentLocked())
	p := h.snapshotLocked(false)
	h.outbox = append(h.outbox, delivery{progress: &p})
	h.scheduleLocked(h.stepLocked(), h.onTick)
	h.mu.Unlock()

	h.drain()
}

func (h *Handle) onSettle() {
	h.mu.Lock()
	if h.state != Running {
		h.mu.Unlock()
		return
	}
	h.state = Complete
	h.timer = nil
	h.outbox = append(h.outbox, delivery{complete: true, terminal: true})
	h.mu.Unlock()

	h.log.Info("task complete")
	h.drain()
}

// drain delivers queued events. Only one caller drains at a time; a
// callback that cancels the task queues its event for the current drainer.
func (h *Handle) drain() {
	h.mu.Lock()
	if h.draining {
		h.mu.Unlock()
		return
	}
	h.draining = true
	for len(h.outbox) > 0 {
		d := h.outbox[0]
		h.outbox = h.outbox[1:]
		h.mu.Unlock()
		h.deliver(d)
		h.mu.Lock()
	}
	h.draining = false
	h.mu.Unlock()
}

func (h *Handle) deliver(d delivery) {
	if d.progress != nil && h.onProgress != nil {
		p := *d.progress
		h.call("progress", func() { h.onProgress(p) })
	}
	if d.complete && h.onComplete != nil {
		h.call("complete", h.onComplete)
	}
	if d.terminal {
		close(h.done)
	}
}

// call runs a caller-supplied callback. A panic is logged and swallowed so
// it cannot leave the task half-updated.
func (h *Handle) call(name string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("task callback panicked", "callback", name, "panic", r)
		}
	}()
	f()
}

func (h *Handle) scheduleLocked(d time.Duration, f func()) {
	h.timer = h.clock.AfterFunc(d, f)
}

func (h *Handle) stepLocked() time.Duration {
	return h.stages[h.stage].Duration / time.Duration(h.ticks)
}

func (h *Handle) percentLocked() float64 {
	p := (h.prefix[h.stage] + h.weights[h.stage]*float64(h.tick)/float64(h.ticks)) * 100
	return min(p, 100)
}

func (h *Handle) snapshotLocked(cancelled bool) Progress {
	return Progress{
		TaskID:     h.id,
		Stage:      h.stages[h.stage].Name,
		StageIndex: h.stage,
		Percent:    h.percent,
		Cancelled:  cancelled,
	}
}
