package taskmanager

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskManagerRunsEveryTask(t *testing.T) {
	tm := NewTaskManager(3, 16)
	tm.Start()

	var ran int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		tm.AddTask(func() {
			atomic.AddInt64(&ran, 1)
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not finish in time")
	}

	assert.Equal(t, int64(10), atomic.LoadInt64(&ran))
}

func TestTaskManagerRunsTasksConcurrently(t *testing.T) {
	tm := NewTaskManager(2, 4)
	tm.Start()

	release := make(chan struct{})
	first := make(chan struct{})
	second := make(chan struct{})

	tm.AddTask(func() {
		close(first)
		<-release
	})
	tm.AddTask(func() {
		close(second)
		<-release
	})

	// Both workers must pick up a task while neither has finished.
	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("first task not started")
	}
	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("second task not started while first still running")
	}
	close(release)
}

func TestStopWaitsForWorkers(t *testing.T) {
	tm := NewTaskManager(1, 1)
	tm.Start()

	stopped := make(chan struct{})
	go func() {
		tm.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
