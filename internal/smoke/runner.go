package smoke

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/scorecalc/pkg/logger"
)

// ErrSmokeFailed reports that at least one check did not pass.
var ErrSmokeFailed = errors.New("smoke run failed")

type job struct {
	meta Metadata
}

// Run executes the complete smoke run against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("smoke")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("repeat", cfg.Repeat),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Load the catalog and each calculator's example
	metas, err := loadCatalog(ctx, client)
	if err != nil {
		return stats, fmt.Errorf("catalog retrieval failed: %w", err)
	}
	stats.Calculators = len(metas)

	// Step 3: Submit example calculations concurrently
	submitCalculations(ctx, cfg, client, metas, stats)

	// Step 4: Unknown calculators must be 404
	resp, err := client.Post(ctx, "/api/"+unknownScoreID+"/calculate", map[string]any{})
	if err == nil {
		err = verifyUnknown(resp)
	}
	if err != nil {
		stats.Failed++
		stats.Failures = append(stats.Failures, err.Error())
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d checks failed", ErrSmokeFailed, stats.Failed, stats.Submitted+1)
	}
	log.Info(ctx, "smoke run completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := client.getJSON(ctx, "/healthz", &health); err != nil {
		return err
	}
	if health.Status != "ok" {
		return fmt.Errorf("service reports status %q", health.Status)
	}
	return nil
}

// loadCatalog lists calculators and fetches their metadata.
func loadCatalog(ctx context.Context, client *HTTPClient) ([]Metadata, error) {
	var list scoreList
	if err := client.getJSON(ctx, "/api/scores", &list); err != nil {
		return nil, err
	}
	if len(list.Scores) == 0 {
		return nil, errors.New("service lists no calculators")
	}

	metas := make([]Metadata, 0, len(list.Scores))
	for _, s := range list.Scores {
		var m Metadata
		if err := client.getJSON(ctx, "/api/scores/"+s.ID, &m); err != nil {
			return nil, err
		}
		if len(m.Example) == 0 {
			return nil, fmt.Errorf("%s: metadata has no example parameters", s.ID)
		}
		metas = append(metas, m)
	}
	return metas, nil
}

// submitCalculations posts every calculator's example cfg.Repeat times
// through a worker pool.
func submitCalculations(ctx context.Context, cfg *Config, client *HTTPClient, metas []Metadata, stats *Stats) {
	workers := max(cfg.Workers, 1)
	repeat := max(cfg.Repeat, 1)
	log := logger.Named("smoke")

	var (
		submitted atomic.Int64
		succeeded atomic.Int64
		mu        sync.Mutex
		failures  []string
	)

	jobs := make(chan job, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				submitted.Add(1)
				resp, err := client.Post(ctx, "/api/"+j.meta.ID+"/calculate", j.meta.Example)
				if err == nil {
					err = verifyCalculation(j.meta, resp)
				}
				if err != nil {
					mu.Lock()
					failures = append(failures, err.Error())
					mu.Unlock()
					continue
				}
				succeeded.Add(1)
				if cfg.Verbose {
					log.Debug(ctx, "calculation verified",
						logger.String("calculator", j.meta.ID),
						logger.String("request_id", resp.requestID))
				}
			}
		}()
	}

	// Send jobs to workers
	go func() {
		defer close(jobs)
		for r := 0; r < repeat; r++ {
			for _, m := range metas {
				select {
				case <-ctx.Done():
					return
				case jobs <- job{meta: m}:
				}
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Succeeded = int(succeeded.Load())
	stats.Failed = len(failures)
	stats.Failures = failures
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, perSecond float64
	if stats.Submitted > 0 {
		successRate = float64(stats.Succeeded) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	log := logger.Named("smoke")
	log.Info(ctx, "final statistics",
		logger.Int("calculators", stats.Calculators),
		logger.Int("submitted", stats.Submitted),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", perSecond))

	for i, f := range stats.Failures {
		if i == maxReportedFailures {
			log.Warn(ctx, "further failures omitted", logger.Int("omitted", len(stats.Failures)-i))
			break
		}
		log.Warn(ctx, "check failed", logger.String("failure", f))
	}
}
