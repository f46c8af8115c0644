// Package pipeline runs course conversions through a bounded worker
// pool. Each course converts on a single goroutine; parallelism is
// across courses only, and every course owns its own tree and IR values.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olxtools/olx2lia/internal/component"
	"github.com/olxtools/olx2lia/internal/config"
)

// maxQueuedJobs bounds the submission backlog.
const maxQueuedJobs = 256

// Orchestrator manages the batch conversion worker pool.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	cfg   config.Config
	reg   *component.Registry
	log   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(cfg config.Config, reg *component.Registry, log *slog.Logger) *Orchestrator {
	if reg == nil {
		reg = component.NewRegistry()
	}
	return &Orchestrator{
		jobs:  NewJobStore(),
		queue: make(chan *Job, maxQueuedJobs),
		cfg:   cfg,
		reg:   reg,
		log:   log,
	}
}

// Start launches the worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.Workers; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.cfg, o.reg, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}
}

// Submit queues a course source (directory or archive) for conversion.
func (o *Orchestrator) Submit(source string) (*Job, error) {
	job := &Job{
		ID:        uuid.New().String(),
		Source:    source,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return job, nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queued")
		return job, fmt.Errorf("job queue is full (%d)", cap(o.queue))
	}
}

// Drain closes the queue and waits for the workers to finish the
// remaining jobs.
func (o *Orchestrator) Drain() {
	close(o.queue)
	o.wg.Wait()
	if o.cancel != nil {
		o.cancel()
	}
}

// Stop cancels in-flight work without draining the queue.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// GetJob returns a job by ID, or nil.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// Jobs returns snapshots of all jobs in submission order.
func (o *Orchestrator) Jobs() []JobSnapshot {
	return o.jobs.List()
}
