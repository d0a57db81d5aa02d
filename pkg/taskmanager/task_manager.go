package taskmanager

import (
	"context"
	"sync"

	"github.com/deploydeck/deploydeck-backend/internal/logger"
	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

// TaskManager runs enqueued tasks on a fixed pool of workers. Workers do not
// coordinate with each other; any shared state between a task and its
// observers goes through the progress store.
type TaskManager struct {
	tasks      chan entities.Task
	numWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewTaskManager(numWorkers int, bufferSize int) *TaskManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &TaskManager{
		tasks:      make(chan entities.Task, bufferSize),
		numWorkers: numWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (tm *TaskManager) Start() {
	for i := 0; i < tm.numWorkers; i++ {
		tm.wg.Add(1)
		go func(workerID int) {
			defer tm.wg.Done()
			for {
				select {
				case <-tm.ctx.Done():
					logger.Debugf("worker %d exiting", workerID)
					return
				case task, ok := <-tm.tasks:
					if !ok {
						return
					}
					task()
				}
			}
		}(i)
	}
}

// AddTask enqueues a task for execution. The call is fire-and-forget; it
// blocks only when the buffer is full.
func (tm *TaskManager) AddTask(task entities.Task) {
	tm.tasks <- task
}

func (tm *TaskManager) Stop() {
	tm.cancel()
	close(tm.tasks)
	tm.wg.Wait()
	logger.Debugf("all workers stopped")
}
