package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"show-sync/core/database"
)

// UnitStore is the persistence surface the runner needs.
type UnitStore interface {
	SelectOpenUnits(ctx context.Context, farmID, date string) ([]UnitState, error)
	ApplyUnit(ctx context.Context, unit UnitState, changes []Change, rec Recorder) error
}

// SnapshotFetcher retrieves the authoritative snapshot of one unit.
type SnapshotFetcher interface {
	Fetch(ctx context.Context, ref UnitRef) (*UnitSnapshot, error)
}

// Params select what one cycle reconciles.
type Params struct {
	FarmID string
	Date   string
}

// UnitOutcome is the per-unit line of a cycle report.
type UnitOutcome struct {
	APIClassID int    `json:"api_class_id"`
	ClassName  string `json:"class_name"`
	Outcome    string `json:"outcome"`
	Changes    int    `json:"changes"`
	Error      string `json:"error,omitempty"`
}

// Report summarizes one reconciliation cycle.
type Report struct {
	Date     string        `json:"date"`
	Selected int           `json:"selected"`
	Applied  int           `json:"applied"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Changes  int           `json:"changes"`
	Units    []UnitOutcome `json:"units"`
}

const (
	outcomeApplied = "applied"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"
)

// Runner executes reconciliation cycles over a bounded worker pool. Units are
// independent: one unit failing, or being locked by a concurrent cycle, never
// stops the rest.
type Runner struct {
	store    UnitStore
	fetcher  SnapshotFetcher
	locker   database.Locker
	recorder Recorder
	cfg      Config
	logger   *zap.Logger

	// now is swappable in tests.
	now func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(store UnitStore, fetcher SnapshotFetcher, locker database.Locker, recorder Recorder, cfg Config, logger *zap.Logger) *Runner {
	return &Runner{
		store:    store,
		fetcher:  fetcher,
		locker:   locker,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// RunCycle reconciles every open unit for the date under a wall-clock
// deadline. Units not reached before the deadline are left for the next cycle.
func (r *Runner) RunCycle(ctx context.Context, params Params) (*Report, error) {
	date := params.Date
	if date == "" {
		date = r.now().UTC().Format("2006-01-02")
	}

	deadline := r.cfg.DeadlineSeconds
	if deadline <= 0 {
		deadline = 120
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(deadline)*time.Second)
	defer cancel()

	units, err := r.store.SelectOpenUnits(ctx, params.FarmID, date)
	if err != nil {
		return nil, err
	}

	report := &Report{Date: date, Selected: len(units)}
	if len(units) == 0 {
		return report, nil
	}

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = 6
	}
	if workers > len(units) {
		workers = len(units)
	}

	jobs := make(chan UnitState)
	results := make(chan UnitOutcome, len(units))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for unit := range jobs {
				results <- r.processUnit(ctx, unit)
			}
		}()
	}

	for _, unit := range units {
		jobs <- unit
	}
	close(jobs)
	wg.Wait()
	close(results)

	for out := range results {
		switch out.Outcome {
		case outcomeApplied:
			report.Applied++
		case outcomeSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
		report.Changes += out.Changes
		report.Units = append(report.Units, out)
	}

	r.logger.Info("reconciliation cycle finished",
		zap.String("date", date),
		zap.Int("selected", report.Selected),
		zap.Int("applied", report.Applied),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("changes", report.Changes))
	return report, nil
}

// processUnit reconciles a single unit end to end: lock, fetch, diff, apply.
func (r *Runner) processUnit(ctx context.Context, unit UnitState) UnitOutcome {
	out := UnitOutcome{APIClassID: unit.Ref.APIClassID, ClassName: unit.Ref.ClassName}

	if err := ctx.Err(); err != nil {
		out.Outcome = outcomeSkipped
		out.Error = "deadline reached"
		return out
	}

	// MySQL caps lock names at 64 characters, so the name stays short.
	lockName := fmt.Sprintf("rec:%s:%d:%d", unit.Ref.FarmID, unit.Ref.APIShowID, unit.Ref.APIClassID)
	lock, acquired, err := r.locker.TryAcquire(ctx, lockName)
	if err != nil {
		out.Outcome = outcomeFailed
		out.Error = err.Error()
		r.logger.Error("failed to acquire unit lock",
			zap.Int("api_class_id", unit.Ref.APIClassID), zap.Error(err))
		return out
	}
	if !acquired {
		out.Outcome = outcomeSkipped
		out.Error = "locked by another cycle"
		return out
	}
	defer func() {
		// Release even when the cycle deadline has expired.
		if rerr := lock.Release(context.WithoutCancel(ctx)); rerr != nil {
			r.logger.Warn("failed to release unit lock",
				zap.Int("api_class_id", unit.Ref.APIClassID), zap.Error(rerr))
		}
	}()

	snap, err := r.fetcher.Fetch(ctx, unit.Ref)
	if err != nil {
		out.Outcome = outcomeFailed
		out.Error = err.Error()
		r.logger.Error("failed to fetch unit snapshot",
			zap.Int("api_class_id", unit.Ref.APIClassID), zap.Error(err))
		return out
	}

	next, changes := Diff(unit, *snap, r.now().UTC())

	if err := ctx.Err(); err != nil {
		out.Outcome = outcomeSkipped
		out.Error = "deadline reached"
		return out
	}

	if err := r.store.ApplyUnit(ctx, next, changes, r.recorder); err != nil {
		out.Outcome = outcomeFailed
		out.Error = err.Error()
		r.logger.Error("failed to apply unit state",
			zap.Int("api_class_id", unit.Ref.APIClassID), zap.Error(err))
		return out
	}

	out.Outcome = outcomeApplied
	out.Changes = len(changes)
	if len(changes) > 0 {
		r.logger.Info("unit reconciled with changes",
			zap.Int("api_class_id", unit.Ref.APIClassID),
			zap.String("class", unit.Ref.ClassName),
			zap.Int("changes", len(changes)))
	}
	return out
}
