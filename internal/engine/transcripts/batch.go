package transcripts

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/naki0227/my-language-dojo-sub000/internal/engine"
)

// RunState is the lifecycle state of the batch runner.
type RunState string

const (
	StateIdle      RunState = "idle"
	StateRunning   RunState = "running"
	StateCompleted RunState = "completed"
	StateCancelled RunState = "cancelled"
)

// errMsgLimit caps error text in batch log entries.
const errMsgLimit = 50

// Runner processes work items strictly one at a time. A single runner
// serves the whole server; only one run may be active at once.
//
// Cancellation is cooperative at item granularity: Cancel stops the run
// before the next item starts, but the in-flight item always finishes and
// its artifact is persisted normally.
type Runner struct {
	mu      sync.Mutex
	state   RunState
	log     []BatchLogEntry // newest first
	index   int             // items processed so far
	total   int
	success int
	started time.Time
	cancel  context.CancelFunc

	process func(ctx context.Context, item WorkItem) error
}

// NewRunner creates a runner with the given per-item processor.
func NewRunner(process func(ctx context.Context, item WorkItem) error) *Runner {
	return &Runner{state: StateIdle, process: process}
}

var (
	defaultRunner     *Runner
	defaultRunnerOnce sync.Once
)

// DefaultRunner returns the shared runner wired to the transcript pipeline.
func DefaultRunner() *Runner {
	defaultRunnerOnce.Do(func() {
		defaultRunner = NewRunner(func(ctx context.Context, item WorkItem) error {
			_, err := GetOrBuildTranscript(ctx, item.VideoID, "en", false)
			return err
		})
	})
	return defaultRunner
}

// Start begins a run over items. Returns an error if a run is already
// active. The run executes in the background; observe it via Status.
func (r *Runner) Start(items []WorkItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRunning {
		return fmt.Errorf("a batch run is already in progress (%d/%d)", r.index, r.total)
	}
	if len(items) == 0 {
		return fmt.Errorf("nothing to process")
	}

	// The run owns its context: it is detached from the request that
	// started it and ends only via Cancel or completion.
	runCtx, cancel := context.WithCancel(context.Background())
	r.state = StateRunning
	r.log = nil
	r.index = 0
	r.total = len(items)
	r.success = 0
	r.started = time.Now()
	r.cancel = cancel

	go r.run(runCtx, items)
	return nil
}

// Cancel requests the active run to stop. No-op when nothing is running.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRunning && r.cancel != nil {
		r.cancel()
	}
}

// Status returns a snapshot of the runner. The log copy is newest-first.
func (r *Runner) Status() BatchStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	logCopy := make([]BatchLogEntry, len(r.log))
	copy(logCopy, r.log)
	return BatchStatus{
		State:   r.state,
		Index:   r.index,
		Total:   r.total,
		Success: r.success,
		Log:     logCopy,
	}
}

func (r *Runner) run(runCtx context.Context, items []WorkItem) {
	// Courtesy pacing between items. The first Wait consumes the initial
	// token immediately; every later item waits out the full interval.
	limiter := rate.NewLimiter(rate.Every(engine.Cfg.BatchDelay), 1)

	cancelled := false
	for i, item := range items {
		if runCtx.Err() != nil {
			cancelled = true
			break
		}
		_ = limiter.Wait(runCtx)
		if runCtx.Err() != nil {
			cancelled = true
			break
		}

		slog.Info("processing batch item",
			slog.Int("index", i+1), slog.Int("total", len(items)),
			slog.String("video_id", item.VideoID), slog.String("origin", item.Origin))

		start := time.Now()
		// The item runs on a background context on purpose: Cancel must not
		// abort work already in flight.
		err := r.process(context.Background(), item)

		r.mu.Lock()
		r.index = i + 1
		if err != nil {
			r.appendLogLocked(fmt.Sprintf("%s: %s", item.VideoID,
				engine.TruncateRunes(err.Error(), errMsgLimit, "...")), OutcomeFailure)
		} else {
			r.success++
			r.appendLogLocked(fmt.Sprintf("%s: saved in %dms", item.VideoID,
				time.Since(start).Milliseconds()), OutcomeSuccess)
		}
		r.mu.Unlock()
	}

	r.mu.Lock()
	finalState := StateCompleted
	summary := fmt.Sprintf("completed: %d/%d succeeded", r.success, r.total)
	outcome := OutcomeSuccess
	if cancelled {
		finalState = StateCancelled
		summary = fmt.Sprintf("cancelled after %d/%d items", r.index, r.total)
		outcome = OutcomeCancelled
	}
	rec := BatchRunRecord{
		StartedAt:  r.started,
		FinishedAt: time.Now(),
		Total:      r.total,
		Success:    r.success,
		Outcome:    string(finalState),
	}
	r.mu.Unlock()

	// Persist the history row before the state flips, so a terminal state
	// observed via Status always has its run on record.
	engine.IncrBatchRuns()
	if err := recordRun(rec); err != nil {
		slog.Warn("failed to record batch run", slog.Any("error", err))
	}

	r.mu.Lock()
	r.state = finalState
	r.appendLogLocked(summary, outcome)
	r.cancel = nil
	r.mu.Unlock()
}

// appendLogLocked prepends an entry; the log reads newest-first. Callers
// hold r.mu.
func (r *Runner) appendLogLocked(msg string, outcome Outcome) {
	entry := BatchLogEntry{Message: msg, Timestamp: time.Now(), Outcome: outcome}
	r.log = append([]BatchLogEntry{entry}, r.log...)
}
