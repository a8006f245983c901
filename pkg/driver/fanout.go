package driver

import (
	"sync"

	"github.com/aretw0/stepwise/pkg/domain"
)

// fanout delivers playback states to subscribers with latest-wins semantics.
type fanout struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan domain.PlaybackState
	closed bool
}

func newFanout() *fanout {
	return &fanout{subs: make(map[int]chan domain.PlaybackState)}
}

func (f *fanout) subscribe() (<-chan domain.PlaybackState, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan domain.PlaybackState, 1)
	if f.closed {
		close(ch)
		return ch, func() {}
	}
	id := f.next
	f.next++
	f.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if c, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(c)
			}
		})
	}
}

func (f *fanout) publish(s domain.PlaybackState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- s:
		default:
			// Drop the stale state and keep the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

func (f *fanout) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
