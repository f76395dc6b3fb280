package qinfo

import (
	"log"
)

// Worker solves jobs handed to it by the pool, one at a time.
type Worker struct {
	pool *Pool
	jobs chan Job
}

func (w *Worker) run() {
	for {
		select {
		case <-w.pool.ctx.Done():
			return
		case w.pool.workers <- w.jobs:
		}

		select {
		case <-w.pool.ctx.Done():
			return
		case job, ok := <-w.jobs:
			if !ok {
				return
			}
			result, err := w.processJob(job)
			w.pool.space.Store(job.ID, result, err, job.TTL)
		}
	}
}

func (w *Worker) processJob(job Job) (*ExclusionResult, error) {
	result, err := job.run(w.pool.ctx, w.pool.options...)

	iterations := 0
	if result != nil {
		iterations = result.Iterations
	}
	w.pool.metrics.recordJobExecution(job.StartTime, iterations, err == nil)

	if err != nil {
		log.Printf("Job %s (%s) failed: %v", job.ID, job.Kind, err)
		return nil, err
	}
	return result, nil
}
