package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelanza/freelanza-backend/internal/core/ports"
	"github.com/freelanza/freelanza-backend/internal/pkg/metrics"
)

const (
	defaultWorkers     = 4
	defaultMaxAttempts = 5
	defaultBackoff     = time.Second
	channelBuffer      = 256
)

// Config sizes the dispatcher. Zero values pick the defaults.
type Config struct {
	Workers     int
	MaxAttempts int
	// Backoff is the delay before the second attempt; it doubles after each failure.
	Backoff time.Duration
}

// Dispatcher retries failed profile provisioning on a fixed set of workers.
// Jobs are sharded by username so retries for one account never race.
type Dispatcher struct {
	workers     []chan ports.ProvisionJob
	processor   ports.Reprovisioner
	maxAttempts int
	backoff     time.Duration
	log         zerolog.Logger
	wg          sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Call Start before enqueueing.
func NewDispatcher(cfg Config, processor ports.Reprovisioner, log zerolog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultBackoff
	}
	d := &Dispatcher{
		workers:     make([]chan ports.ProvisionJob, cfg.Workers),
		processor:   processor,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		log:         log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ProvisionJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands job to the worker responsible for its username. It never
// blocks; a full shard drops the job and reports false.
func (d *Dispatcher) Enqueue(job ports.ProvisionJob) bool {
	select {
	case d.workers[d.shardIndex(job.Username)] <- job:
		return true
	default:
		metrics.ProvisioningRetriesTotal.WithLabelValues("dropped").Inc()
		d.log.Error().Str("username", job.Username).Msg("provisioning retry queue full, job dropped")
		return false
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ProvisionJob) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-ch:
			d.process(ctx, id, job)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, job ports.ProvisionJob) {
	wait := d.backoff
	for attempt := 1; ; attempt++ {
		err := d.processor.Reprovision(ctx, job)
		if err == nil {
			metrics.ProvisioningRetriesTotal.WithLabelValues("succeeded").Inc()
			return
		}
		if attempt >= d.maxAttempts {
			metrics.ProvisioningRetriesTotal.WithLabelValues("failed").Inc()
			d.log.Error().Err(err).
				Str("username", job.Username).
				Int("worker_id", id).
				Int("attempts", attempt).
				Msg("profile provisioning abandoned")
			return
		}

		d.log.Warn().Err(err).
			Str("username", job.Username).
			Int("worker_id", id).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("profile provisioning retry failed")

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		wait *= 2
	}
}
