package smoketest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Bapt252/nextvision/internal/domain/model"
	"github.com/Bapt252/nextvision/pkg/logger"
)

// Run executes the complete smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting nextvision smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("matches", config.NumMatches),
		logger.Int("batches", config.NumBatches),
		logger.Int("batchSize", config.BatchSize),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
	)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Submit match requests concurrently
	if err := runMatches(ctx, config, stats); err != nil {
		return fmt.Errorf("match phase failed: %w", err)
	}

	// Step 3: Submit transport batches
	if err := runBatches(ctx, config, stats); err != nil {
		return fmt.Errorf("batch phase failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.InvariantViolations > 0 {
		return fmt.Errorf("%d invariant violations detected", stats.InvariantViolations)
	}
	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.BaseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := (&http.Client{Timeout: config.Timeout}).Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status %d", resp.StatusCode)
	}
	return nil
}

// runMatches fires NumMatches randomized match requests through a
// worker pool, verifying every response.
func runMatches(ctx context.Context, config *Config, stats *Stats) error {
	logger.Get().Info(ctx, "submitting match requests",
		logger.Int("count", config.NumMatches),
		logger.Int("workers", config.Workers),
	)

	c := newClient(config.Timeout)

	var (
		successful int64
		degraded   int64
		failed     int64
		violations int64
	)

	work := make(chan struct{}, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range work {
				if ctx.Err() != nil {
					return
				}
				req := matchRequest{
					Candidate: generateCandidate(),
					Job:       generateJob(),
					Context:   generateContext(),
				}
				result, err := c.match(ctx, config.BaseURL, req)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "match request failed", logger.Error(err))
					}
					continue
				}
				atomic.AddInt64(&successful, 1)
				if result.Degraded {
					atomic.AddInt64(&degraded, 1)
				}
				for _, v := range verifyMatch(result) {
					atomic.AddInt64(&violations, 1)
					logger.Get().Error(ctx, "match invariant violated", logger.String("violation", v))
				}
			}
		}()
	}

	for i := 0; i < config.NumMatches; i++ {
		select {
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return ctx.Err()
		case work <- struct{}{}:
		}
	}
	close(work)
	wg.Wait()

	stats.MatchesSubmitted = config.NumMatches
	stats.MatchesSuccessful = int(successful)
	stats.MatchesDegraded = int(degraded)
	stats.MatchesFailed = int(failed)
	stats.InvariantViolations += int(violations)
	return nil
}

// runBatches fires NumBatches transport batch requests, each with a
// fresh candidate and BatchSize jobs.
func runBatches(ctx context.Context, config *Config, stats *Stats) error {
	logger.Get().Info(ctx, "submitting transport batches",
		logger.Int("count", config.NumBatches),
		logger.Int("batchSize", config.BatchSize),
	)

	c := newClient(config.Timeout)

	for i := 0; i < config.NumBatches; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		jobs := make([]*model.Job, config.BatchSize)
		for k := range jobs {
			jobs[k] = generateJob()
		}
		req := batchRequest{Candidate: generateCandidate(), Jobs: jobs}

		resp, err := c.batch(ctx, config.BaseURL, req)
		stats.BatchesSubmitted++
		if err != nil {
			stats.BatchesFailed++
			logger.Get().Warn(ctx, "batch request failed", logger.Error(err))
			continue
		}
		stats.BatchesSuccessful++

		for _, v := range verifyBatch(jobs, resp) {
			stats.InvariantViolations++
			logger.Get().Error(ctx, "batch invariant violated", logger.String("violation", v))
		}
	}
	return nil
}

// displayFinalStats prints the run summary.
func displayFinalStats(stats *Stats) {
	ctx := context.Background()
	logger.Get().Info(ctx, "smoke test summary",
		logger.Int("matchesSubmitted", stats.MatchesSubmitted),
		logger.Int("matchesSuccessful", stats.MatchesSuccessful),
		logger.Int("matchesDegraded", stats.MatchesDegraded),
		logger.Int("matchesFailed", stats.MatchesFailed),
		logger.Int("batchesSubmitted", stats.BatchesSubmitted),
		logger.Int("batchesSuccessful", stats.BatchesSuccessful),
		logger.Int("batchesFailed", stats.BatchesFailed),
		logger.Int("invariantViolations", stats.InvariantViolations),
		logger.Duration("duration", stats.Duration),
	)
}
