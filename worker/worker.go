package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

var (
	queue     chan func()
	startOnce sync.Once
)

func start() {
	n := runtime.NumCPU()
	queue = make(chan func(), n*4)
	for i := 0; i < n; i++ {
		go worker()
	}
}

func worker() {
	for f := range queue {
		run(f)
	}
}

func run(f func()) {
	defer sentry.Recover()
	f()
}

// Submit queues f on the shared pool. To be used by a function that may be CPU intensive,
// such as a batch of world queries. Submit blocks while the queue is full.
func Submit(f func()) {
	startOnce.Do(start)
	queue <- f
}

// Go runs f on the shared pool and returns a channel that is closed once f has returned,
// including when it panicked.
func Go(f func()) <-chan struct{} {
	done := make(chan struct{})
	Submit(func() {
		defer close(done)
		f()
	})
	return done
}
