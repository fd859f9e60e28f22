package concurrency

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrQueueClosed 종료된 큐에 작업을 제출했을 때 반환됩니다.
var ErrQueueClosed = errors.New("작업 큐가 이미 종료되었습니다")

// ErrQueueFull 대기열이 가득 차 작업을 받을 수 없을 때 반환됩니다.
var ErrQueueFull = errors.New("작업 큐의 대기열이 가득 찼습니다")

// Job 큐에서 실행되는 작업입니다. ctx는 작업을 제출한 호출자의 Context 입니다.
type Job func(ctx context.Context) error

type queuedJob struct {
	ctx  context.Context
	fn   Job
	done chan error
}

// SerialQueue 제출된 작업을 FIFO 순서로 하나씩 실행하는 큐입니다.
//
// 동시에 실행 중인 작업은 항상 최대 1개이며, 앞선 작업이 끝나기 전에는 다음 작업이 시작되지 않습니다.
// 작업 결과는 Submit이 반환한 채널로 전달됩니다.
type SerialQueue struct {
	jobs chan queuedJob

	mu     sync.RWMutex
	closed bool

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewSerialQueue 대기열 크기가 capacity인 SerialQueue를 생성하고 워커를 시작합니다.
func NewSerialQueue(capacity int) *SerialQueue {
	if capacity < 1 {
		capacity = 1
	}

	q := &SerialQueue{
		jobs:    make(chan queuedJob, capacity),
		stopped: make(chan struct{}),
	}

	go q.worker()

	return q
}

func (q *SerialQueue) worker() {
	defer close(q.stopped)

	for j := range q.jobs {
		// 대기 중에 호출자가 취소한 작업은 실행하지 않는다.
		if err := j.ctx.Err(); err != nil {
			j.done <- err
			continue
		}
		j.done <- q.run(j)
	}
}

func (q *SerialQueue) run(j queuedJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	return j.fn(j.ctx)
}

// Submit 작업을 대기열 끝에 추가하고, 작업 결과를 한 번 전달하는 채널을 반환합니다.
// 대기열이 가득 차면 ErrQueueFull을 반환합니다.
func (q *SerialQueue) Submit(ctx context.Context, fn Job) (<-chan error, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return nil, ErrQueueClosed
	}

	done := make(chan error, 1)
	select {
	case q.jobs <- queuedJob{ctx: ctx, fn: fn, done: done}:
		return done, nil
	default:
		return nil, ErrQueueFull
	}
}

// Do 작업을 제출하고 실행이 끝날 때까지 기다립니다.
//
// 대기 중 ctx가 취소되면 즉시 ctx.Err()를 반환하며, 이 경우 작업은 실행 순서가 되었을 때 건너뜁니다.
func (q *SerialQueue) Do(ctx context.Context, fn Job) error {
	done, err := q.Submit(ctx, fn)
	if err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 새로운 작업 제출을 막고, 이미 대기열에 있는 작업이 모두 끝날 때까지 기다립니다.
func (q *SerialQueue) Close() {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		close(q.jobs)
		q.mu.Unlock()
	})

	<-q.stopped
}

// PanicError 작업 실행 중 발생한 패닉을 감싼 에러입니다.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("작업 실행 중 패닉이 발생했습니다: %v", e.Value)
}
