package ui

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// ticker runs a function on the fyne main goroutine at a fixed interval
type ticker struct {
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
}

func newTicker(interval time.Duration) *ticker {
	return &ticker{
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (t *ticker) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
}

func (t *ticker) Go(fn func()) {
	go func() {
		tick := time.NewTicker(t.interval)
		defer tick.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-tick.C:
			}
			fyne.Do(func() {
				// Stop may have been called while this tick was queued
				select {
				case <-t.stop:
					return
				default:
				}
				fn()
			})
		}
	}()
}
