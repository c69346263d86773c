package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pattypatxxr/YouTube-Video-Explorer/internal/model"
	"github.com/pattypatxxr/YouTube-Video-Explorer/pkg/hash"
)

// ErrOperationFailed wraps every error raised while fetching, shaping or
// presenting. Callers only ever see this one kind of failure.
var ErrOperationFailed = errors.New("operation failed")

// Pipeline stage names, used for logs and metrics.
const (
	StageFetch   = "fetch"
	StageShape   = "shape"
	StagePresent = "present"
)

// Renderer draws the report charts.
type Renderer interface {
	Render(report model.Report) (model.Charts, error)
}

// Observer receives stage timings and run outcomes.
type Observer interface {
	ObserveStage(stage string, d time.Duration)
	ObserveRun(ok bool, rows int)
}

// Failure is the single user-facing error of a failed run.
type Failure struct {
	Message string
	err     error
}

// Result is either a table with its report, or a failure. Never both.
type Result struct {
	RunID   string
	Table   model.Table
	Report  *model.Report
	Charts  *model.Charts
	Dropped int
	Failure *Failure
}

// OK reports whether the run succeeded.
func (r Result) OK() bool {
	return r.Failure == nil
}

// Err returns the wrapped failure, matchable with errors.Is(err, ErrOperationFailed).
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure.err
}

// Explorer runs the fetch, shape and present stages for one query.
type Explorer struct {
	fetch    *FetchService
	renderer Renderer
	observer Observer
	logger   zerolog.Logger
}

// NewExplorer wires the pipeline. renderer and observer may be nil.
func NewExplorer(fetch *FetchService, renderer Renderer, observer Observer, logger zerolog.Logger) *Explorer {
	return &Explorer{
		fetch:    fetch,
		renderer: renderer,
		observer: observer,
		logger:   logger,
	}
}

// Run executes the whole pipeline synchronously. Any error, or a panic
// in shaping or presenting, discards the partial work and returns a failure.
func (e *Explorer) Run(ctx context.Context, q Query) (res Result) {
	runID := uuid.NewString()
	log := e.logger.With().
		Str("run_id", runID).
		Str("key_fp", hash.Fingerprint(q.APIKey)).
		Int("query_len", len(q.Text)).
		Int("max_results", q.MaxResults).
		Logger()

	stage := StageFetch
	defer func() {
		if p := recover(); p != nil {
			res = e.fail(log, runID, stage, fmt.Errorf("panic: %v", p))
		}
	}()

	start := time.Now()
	items, err := e.fetch.Fetch(ctx, q)
	e.observeStage(stage, start)
	if err != nil {
		return e.fail(log, runID, stage, err)
	}

	stage = StageShape
	start = time.Now()
	shaped := Shape(items)
	e.observeStage(stage, start)
	if shaped.Dropped > 0 {
		log.Debug().Int("dropped", shaped.Dropped).Msg("rows without publish hour or views dropped")
	}

	stage = StagePresent
	start = time.Now()
	report := BuildReport(shaped.Table)
	var charts *model.Charts
	if q.Charts && e.renderer != nil {
		rendered, err := e.renderer.Render(report)
		if err != nil {
			return e.fail(log, runID, stage, err)
		}
		charts = &rendered
	}
	e.observeStage(stage, start)

	if e.observer != nil {
		e.observer.ObserveRun(true, shaped.Table.Len())
	}
	log.Info().
		Int("fetched", len(items)).
		Int("rows", shaped.Table.Len()).
		Int("dropped", shaped.Dropped).
		Msg("explorer run complete")

	return Result{
		RunID:   runID,
		Table:   shaped.Table,
		Report:  &report,
		Charts:  charts,
		Dropped: shaped.Dropped,
	}
}

func (e *Explorer) fail(log zerolog.Logger, runID, stage string, err error) Result {
	if e.observer != nil {
		e.observer.ObserveRun(false, 0)
	}
	log.Warn().Str("stage", stage).Err(err).Msg("explorer run failed")
	return Result{
		RunID: runID,
		Failure: &Failure{
			Message: err.Error(),
			err:     fmt.Errorf("%w: %w", ErrOperationFailed, err),
		},
	}
}

func (e *Explorer) observeStage(stage string, start time.Time) {
	if e.observer != nil {
		e.observer.ObserveStage(stage, time.Since(start))
	}
}
