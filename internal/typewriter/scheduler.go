package typewriter

import (
	"sync"
	"time"
)

// Scheduler runs fn every interval until the returned stop function is called.
// After stop returns, fn may still be invoked at most once more by a tick which
// was already in flight, so callers guard against stale ticks themselves.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// RealScheduler ticks with the wall clock.
type RealScheduler struct{}

func (RealScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	return func() {
		once.Do(func() { close(done) })
	}
}

// VirtualScheduler only moves forward when Advance is called. Due functions are
// invoked synchronously from Advance, in order of their due time.
type VirtualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*virtualTimer
}

type virtualTimer struct {
	interval time.Duration
	next     time.Duration
	fn       func()
	stopped  bool
}

func (v *VirtualScheduler) Every(interval time.Duration, fn func()) func() {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	t := &virtualTimer{
		interval: interval,
		next:     v.now + interval,
		fn:       fn,
	}
	v.timers = append(v.timers, t)
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		t.stopped = true
	}
}

// Advance moves the virtual clock forward by d, firing every tick due on the way.
func (v *VirtualScheduler) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now + d
	v.mu.Unlock()
	for {
		v.mu.Lock()
		var due *virtualTimer
		for _, t := range v.timers {
			if t.stopped || t.next > target {
				continue
			}
			if due == nil || t.next < due.next {
				due = t
			}
		}
		if due == nil {
			v.now = target
			v.compact()
			v.mu.Unlock()
			return
		}
		v.now = due.next
		due.next += due.interval
		fn := due.fn
		v.mu.Unlock()
		fn()
	}
}

// Active returns the amount of timers which haven't been stopped.
func (v *VirtualScheduler) Active() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	am := 0
	for _, t := range v.timers {
		if !t.stopped {
			am++
		}
	}
	return am
}

func (v *VirtualScheduler) compact() {
	kept := v.timers[:0]
	for _, t := range v.timers {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	v.timers = kept
}
