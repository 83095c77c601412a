package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/meridian/internal/geo"
	"github.com/UnknownOlympus/meridian/internal/metrics"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/UnknownOlympus/meridian/internal/repository"
	"github.com/UnknownOlympus/meridian/internal/resolver"
)

// NormalizerService turns raw location text stored in the database into
// validated coordinates. It combines logging, repository access, a resolver
// chain, metrics tracking, and worker management.
type NormalizerService struct {
	log          *slog.Logger         // Logger for logging service activities
	repo         repository.Interface // Interface for data repository access
	resolver     resolver.Resolver    // Resolver turning raw text into coordinates
	resolverName string               // Name of the resolver for metrics labeling
	metrics      *metrics.Metrics     // Metrics for tracking service performance
	numWorkers   int                  // Number of concurrent workers for processing
	pollInterval time.Duration        // Interval for polling normalization work
}

// NewNormalizerService creates a new instance of NormalizerService.
// It takes a logger, a repository interface, a resolver, the resolver name
// for metrics, metrics for monitoring, the number of workers to use, and a
// polling interval. It returns a pointer to the newly created NormalizerService.
func NewNormalizerService(
	log *slog.Logger,
	repo repository.Interface,
	res resolver.Resolver,
	resolverName string,
	metrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
) *NormalizerService {
	return &NormalizerService{
		log:          log,
		repo:         repo,
		resolver:     res,
		resolverName: resolverName,
		metrics:      metrics,
		numWorkers:   numWorkers,
		pollInterval: pollInterval,
	}
}

// Run starts the normalizer service, which periodically polls for new tasks.
// It listens for a cancellation signal from the context to gracefully stop the service.
func (ns *NormalizerService) Run(ctx context.Context) {
	ticker := time.NewTicker(ns.pollInterval)
	defer ticker.Stop()

	ns.log.InfoContext(ctx, "Normalizer service started...")

	for {
		select {
		case <-ctx.Done():
			ns.log.InfoContext(ctx, "Normalizer service stopped.")
			return
		case <-ticker.C:
			ns.log.InfoContext(ctx, "Polling for new locations to normalize...")
			ns.processTask(ctx)
		}
	}
}

// processTask fetches pending locations from the repository, starts a worker pool
// to process them, and waits for all workers to finish. It logs errors if task
// fetching fails and logs the status of task processing.
func (ns *NormalizerService) processTask(ctx context.Context) {
	taskLimit := 100
	tasks, err := ns.repo.FetchTasksForNormalization(ctx, taskLimit)
	if err != nil {
		ns.log.ErrorContext(ctx, "Failed to fetch tasks", "error", err)
		return
	}
	if len(tasks) == 0 {
		ns.log.InfoContext(ctx, "No tasks to process.")
		return
	}

	ns.log.InfoContext(
		ctx,
		"Found tasks to process. Starting worker pool.",
		"jobs",
		len(tasks),
		"num_workers",
		ns.numWorkers,
	)

	jobs := make(chan models.Task, len(tasks))
	var wgr sync.WaitGroup

	for i := 1; i <= ns.numWorkers; i++ {
		wgr.Add(1)
		go ns.worker(ctx, i, &wgr, jobs)
	}

	for _, task := range tasks {
		jobs <- task
	}
	close(jobs)

	wgr.Wait()
	ns.log.InfoContext(ctx, "Processing batch finished")
}

// worker processes tasks from the jobs channel. It increments the active worker
// count, resolves the raw text, and measures the time the resolution took.
// In case of an error, it updates the failure count and logs the error.
// On success, it writes back the decimal coordinate, the EWKT point, and the
// UTM rendering when the point lies inside the UTM domain.
func (ns *NormalizerService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Task) {
	defer wg.Done()
	for task := range jobs {
		ns.metrics.ActiveWorkers.Inc()
		ns.log.DebugContext(ctx, "Processing task", "worker", idx, "task", task.ID)

		startTime := time.Now()
		coord, err := ns.resolver.Resolve(ctx, task.RawText)
		duration := time.Since(startTime).Seconds()
		ns.metrics.ResolveSeconds.WithLabelValues(ns.resolverName).Observe(duration)

		if err != nil {
			ns.log.ErrorContext(ctx, "Failed to resolve location", "worker", idx, "task", task.ID, "error", err)
			ns.metrics.TaskProcessed.WithLabelValues("failure").Inc()

			var malformedErr *geo.MalformedInputError
			if errors.As(err, &malformedErr) {
				ns.metrics.ParseFailures.WithLabelValues(string(malformedErr.Format)).Inc()
			}

			if err = ns.repo.IncrementFailureCount(ctx, task.ID, err.Error()); err != nil {
				ns.log.ErrorContext(
					ctx,
					"Could not update failure count for task",
					"worker", idx,
					"task", task.ID,
					"error", err,
				)
			}
			ns.metrics.ActiveWorkers.Dec()
			continue
		}

		ns.metrics.TaskProcessed.WithLabelValues("success").Inc()

		loc := models.NormalizedLocation{
			Latitude:  coord.Latitude(),
			Longitude: coord.Longitude(),
			EWKT:      coord.PostGIS(),
		}
		// Points outside the UTM latitude range are stored without a grid
		// reference.
		if utm, utmErr := coord.UTMString(); utmErr == nil {
			loc.UTM = utm
		}

		if err = ns.repo.UpdateTaskLocation(ctx, task.ID, loc); err != nil {
			ns.log.ErrorContext(
				ctx,
				"Failed to update location for task",
				"worker", idx,
				"task", task.ID,
				"error", err,
			)
		} else {
			ns.log.DebugContext(ctx, "Worker successfully processed the task", "worker", idx, "task", task.ID)
		}

		ns.metrics.ActiveWorkers.Dec()
	}
}
