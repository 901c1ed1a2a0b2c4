package renderer

import (
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RowTask represents a scanline rendering task for the worker pool.
// Row counts from the bottom of the frame.
type RowTask struct {
	Row int
}

// WorkerPool manages parallel scanline rendering
type WorkerPool struct {
	taskQueue  chan RowTask
	workers    []*Worker
	numWorkers int
	wg         sync.WaitGroup
}

// Worker handles individual scanline rendering tasks
type Worker struct {
	ID        int
	raytracer *Raytracer
	frame     *Frame
	taskQueue chan RowTask
	onRowDone func()
}

// NewWorkerPool creates a worker pool writing into frame
func NewWorkerPool(raytracer *Raytracer, frame *Frame, numWorkers int, onRowDone func()) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	wp := &WorkerPool{
		taskQueue:  make(chan RowTask, frame.Height), // Buffer for every row
		numWorkers: numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:        i,
			raytracer: raytracer,
			frame:     frame,
			taskQueue: wp.taskQueue,
			onRowDone: onRowDone,
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

// Stop closes the queue and waits for the submitted rows to finish
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
}

// SubmitTask submits a scanline task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Each row gets its own stream so the image does not depend on scheduling
		sampler := core.NewSeededSampler(rowSeed(w.raytracer.config.Seed, task.Row))

		// Rows are disjoint, so writing into the shared frame is safe
		row := w.frame.Pixels[w.frame.Height-1-task.Row]
		w.raytracer.renderRow(task.Row, row, sampler)

		if w.onRowDone != nil {
			w.onRowDone()
		}
	}
}

// rowSeed derives a decorrelated seed for a scanline with the splitmix64 finalizer
func rowSeed(seed int64, row int) int64 {
	z := uint64(seed) + uint64(row+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return int64(z)
}
