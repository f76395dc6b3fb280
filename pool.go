package qinfo

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/theapemachine/errnie"
)

/*
Pool evaluates exclusion programs concurrently. Jobs are queued with Schedule,
dispatched to the first idle worker and solved synchronously there; results
are collected in a ResultSpace and delivered on the channel Schedule returned.
*/
type Pool struct {
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	workers    chan chan Job
	jobs       chan Job
	space      *ResultSpace
	metrics    *Metrics
	workerMu   sync.Mutex
	workerList []*Worker
	config     *Config
	options    []ExclusionOption
}

/*
NewPool starts size workers. The config drives the default solver and the
scheduling timeout; extra options, such as WithSolver, are passed to every
job.
*/
func NewPool(ctx context.Context, size int, config *Config, opts ...ExclusionOption) *Pool {
	if config == nil {
		config = NewConfig()
	}
	size = max(size, 1)

	ctx, cancel := context.WithCancel(ctx)
	q := &Pool{
		ctx:        ctx,
		cancel:     cancel,
		workerList: make([]*Worker, 0, size),
		jobs:       make(chan Job, size*10),
		workers:    make(chan chan Job, size),
		space:      newResultSpace(time.Minute),
		metrics:    newMetrics(),
		config:     config,
		options:    append([]ExclusionOption{WithConfig(config)}, opts...),
	}

	for i := 0; i < size; i++ {
		q.startWorker()
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.manage()
	}()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.collectMetrics()
	}()

	errnie.Info("NewPool - workers %d, scheduling timeout %v", size, config.getSchedulingTimeout())
	return q
}

func (q *Pool) manage() {
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			select {
			case <-q.ctx.Done():
				return
			case workerChan := <-q.workers:
				select {
				case workerChan <- job:
				case <-q.ctx.Done():
					return
				}
			case <-time.After(q.config.getSchedulingTimeout()):
				log.Printf("No available workers for job: %s, timeout occurred", job.ID)
				q.metrics.recordSchedulingFailure()
				q.space.Store(job.ID, nil, errors.New("no available workers"), job.TTL)
			}
		}
	}
}

func (q *Pool) collectMetrics() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.metrics.mu.Lock()
			q.metrics.JobQueueSize = len(q.jobs)
			q.metrics.mu.Unlock()
		}
	}
}

/*
Schedule queues an exclusion program over states and returns a channel that
receives its Result. The job ID defaults to a random UUID and is reported in
Result.JobID.
*/
func (q *Pool) Schedule(kind ExclusionKind, states []*Matrix, opts ...JobOption) chan Result {
	job := Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		States:    states,
		StartTime: time.Now(),
	}
	for _, opt := range opts {
		opt(&job)
	}

	if err := q.ctx.Err(); err != nil {
		return failed(job.ID, errors.Wrap(err, "pool is closed"))
	}

	ctx, cancel := context.WithTimeout(q.ctx, q.config.getSchedulingTimeout())
	defer cancel()

	select {
	case q.jobs <- job:
		// A result stored before this call is still handed out by Await.
		return q.space.Await(job.ID)
	case <-ctx.Done():
		q.metrics.recordSchedulingFailure()
		return failed(job.ID, errors.Wrap(ctx.Err(), "job scheduling timeout"))
	}
}

// Metrics returns a snapshot of the pool metrics.
func (q *Pool) Metrics() MetricsSnapshot {
	return q.metrics.snapshot()
}

func failed(id string, err error) chan Result {
	ch := make(chan Result, 1)
	ch <- Result{JobID: id, Error: err, CreatedAt: time.Now()}
	close(ch)
	return ch
}

func (q *Pool) startWorker() {
	worker := &Worker{
		pool: q,
		jobs: make(chan Job),
	}
	q.workerMu.Lock()
	q.workerList = append(q.workerList, worker)
	q.workerMu.Unlock()

	q.metrics.mu.Lock()
	q.metrics.WorkerCount++
	q.metrics.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		worker.run()
	}()
}

// Close cancels in-flight solves and waits for every goroutine to exit.
func (q *Pool) Close() {
	if q == nil {
		return
	}

	q.cancel()
	q.wg.Wait()
	q.space.Close()

	q.workerMu.Lock()
	q.workerList = nil
	q.workerMu.Unlock()

	log.Println("Pool closed")
}
