package transport

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/Bapt252/nextvision/internal/adapters/routing"
	"github.com/Bapt252/nextvision/internal/domain/model"
	"github.com/Bapt252/nextvision/pkg/logger"
	"github.com/Bapt252/nextvision/pkg/metrics"
)

// Default engine tuning. The per-query timeout lives on the Scorer and
// must stay below the batch timeout; config validation enforces that.
const (
	defaultConcurrency  = 10
	defaultBatchTimeout = 10 * time.Second

	// degradedDefaultScore replaces a job whose transport computation
	// failed; conservative rather than neutral.
	degradedDefaultScore = 0.6
)

// Engine batches transport scoring for one candidate across many jobs
// under bounded concurrency. Requests past the limit queue on the
// semaphore rather than being rejected, and one job's failure never
// aborts the batch.
type Engine struct {
	scorer       *Scorer
	cache        *routing.Cache
	concurrency  int64
	batchTimeout time.Duration
	logger       logger.Logger

	batches      atomic.Int64
	jobsScored   atomic.Int64
	jobsDegraded atomic.Int64
	totalLatency atomic.Int64 // milliseconds across all jobs
}

// EngineOption applies a configuration option to the Engine.
type EngineOption func(*Engine)

// WithConcurrency bounds simultaneous outstanding route computations.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = int64(n)
		}
	}
}

// WithBatchTimeout bounds one whole batch.
func WithBatchTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.batchTimeout = d
		}
	}
}

// WithEngineLogger sets a custom logger for the engine.
func WithEngineLogger(l logger.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine over the given scorer. cache may be nil;
// it is only used for hit-rate analytics.
func NewEngine(scorer *Scorer, cache *routing.Cache, opts ...EngineOption) *Engine {
	e := &Engine{
		scorer:       scorer,
		cache:        cache,
		concurrency:  defaultConcurrency,
		batchTimeout: defaultBatchTimeout,
		logger:       logger.Get().Named("transport-engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BatchScore scores the candidate's commute against every job. It always
// returns exactly one ComponentScore per job id: jobs that fail, panic
// or run out of budget get the conservative degraded default.
func (e *Engine) BatchScore(ctx context.Context, c *model.Candidate, jobs []*model.Job) map[string]model.ComponentScore {
	batchID := uuid.NewString()
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.batchTimeout)
	defer cancel()

	sem := semaphore.NewWeighted(e.concurrency)
	var mu sync.Mutex
	results := make(map[string]model.ComponentScore, len(jobs))

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(job *model.Job) {
			defer wg.Done()
			score := e.scoreOne(ctx, sem, c, job)
			mu.Lock()
			results[job.ID] = score
			mu.Unlock()
		}(job)
	}
	wg.Wait()

	elapsed := time.Since(start)
	e.batches.Add(1)
	e.totalLatency.Add(elapsed.Milliseconds())
	metrics.RecordBatch(len(jobs), elapsed)

	e.logger.Info(ctx, "transport batch scored",
		logger.String("batch_id", batchID),
		logger.String("candidate", c.ID),
		logger.Int("jobs", len(jobs)),
		logger.Int("elapsed_ms", int(elapsed.Milliseconds())),
	)

	return results
}

// scoreOne runs a single job under the semaphore, converting any failure
// into the degraded default.
func (e *Engine) scoreOne(ctx context.Context, sem *semaphore.Weighted, c *model.Candidate, job *model.Job) (score model.ComponentScore) {
	defer func() {
		if r := recover(); r != nil {
			e.jobsDegraded.Add(1)
			metrics.RecordBatchJobDegraded()
			e.logger.Error(ctx, "transport scoring panicked",
				logger.String("job", job.ID),
				logger.Any("panic", r),
			)
			score = e.degradedScore("internal error")
		}
	}()

	if err := sem.Acquire(ctx, 1); err != nil {
		// Batch budget exhausted while queued.
		e.jobsDegraded.Add(1)
		metrics.RecordBatchJobDegraded()
		return e.degradedScore("batch timeout while queued")
	}
	defer sem.Release(1)

	if ctx.Err() != nil {
		e.jobsDegraded.Add(1)
		metrics.RecordBatchJobDegraded()
		return e.degradedScore("batch timeout")
	}

	e.jobsScored.Add(1)
	return e.scorer.Score(ctx, c, job)
}

func (e *Engine) degradedScore(reason string) model.ComponentScore {
	return model.ComponentScore{
		Value:       degradedDefaultScore,
		Confidence:  0.3,
		Explanation: []string{"transport: degraded default (" + reason + ")"},
	}
}

// Analytics is a read-only snapshot for the monitoring collaborator.
type Analytics struct {
	Batches        int64   `json:"batches"`
	JobsScored     int64   `json:"jobs_scored"`
	JobsDegraded   int64   `json:"jobs_degraded"`
	AvgBatchMs     float64 `json:"avg_batch_ms"`
	CacheHitRate   float64 `json:"cache_hit_rate"`
	ProviderCalls  int64   `json:"provider_calls"`
	ProviderErrors int64   `json:"provider_errors"`
}

// Snapshot returns the engine counters, folding in the cache view when
// available.
func (e *Engine) Snapshot() Analytics {
	a := Analytics{
		Batches:      e.batches.Load(),
		JobsScored:   e.jobsScored.Load(),
		JobsDegraded: e.jobsDegraded.Load(),
	}
	if a.Batches > 0 {
		a.AvgBatchMs = float64(e.totalLatency.Load()) / float64(a.Batches)
	}
	if e.cache != nil {
		cs := e.cache.Snapshot()
		a.CacheHitRate = cs.HitRate
		a.ProviderCalls = cs.ProviderCalls
		a.ProviderErrors = cs.ProviderErrors
	}
	return a
}
