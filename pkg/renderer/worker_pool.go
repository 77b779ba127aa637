package renderer

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// RowTask represents a single row of the frame to render
type RowTask struct {
	Row int
}

// RowResult contains the result from rendering a row
type RowResult struct {
	Row      int
	Counters integrator.Counters
	Error    error
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual row rendering tasks
type Worker struct {
	ID          int
	raytracer   *Raytracer
	frame       *FrameBuffer
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool that renders rows of frame with raytracer.
// numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(raytracer *Raytracer, frame *FrameBuffer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, numWorkers),
		resultQueue: make(chan RowResult, frame.Height), // Workers never block on results
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			raytracer:   raytracer,
			frame:       frame,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers. Results stay readable until drained.
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask queues a row, blocking while all workers are busy.
// Returns false without queueing if ctx is done first.
func (wp *WorkerPool) SubmitTask(ctx context.Context, task RowTask) bool {
	select {
	case <-ctx.Done():
		return false
	case wp.taskQueue <- task:
		return true
	}
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Each row has its own slice of the frame, so this is thread-safe
		counters, err := w.renderRow(task.Row)
		w.resultQueue <- RowResult{
			Row:      task.Row,
			Counters: counters,
			Error:    err,
		}
	}
}

// renderRow converts a panic while shading into an error for the row
func (w *Worker) renderRow(row int) (counters integrator.Counters, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("row %d: %w", row, e)
			} else {
				err = fmt.Errorf("row %d: panic: %v", row, r)
			}
		}
	}()

	counters = w.raytracer.RenderRow(row, w.frame.Row(row))
	return counters, nil
}
