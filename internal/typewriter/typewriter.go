package typewriter

import (
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultInterval between two revealed runes.
const DefaultInterval = 20 * time.Millisecond

type State int

const (
	Idle State = iota
	Revealing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Revealing:
		return "revealing"
	default:
		return "unknown"
	}
}

// Frame is what should currently be displayed. Typing is true while more runes
// are about to be revealed.
type Frame struct {
	Text   string
	Typing bool
}

// Prefix returns the first ticks runes of s, or all of s if it has fewer runes.
func Prefix(s string, ticks int) string {
	if ticks <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == ticks {
			return s[:pos]
		}
		i++
	}
	return s
}

// Renderer reveals answers one rune per interval. There is at most one active
// timer per Renderer: any new trigger stops the previous timer before starting.
type Renderer struct {
	mu        sync.Mutex
	scheduler Scheduler
	interval  time.Duration
	sink      func(Frame)

	state     State
	target    string
	targetLen int
	ticks     int
	displayed string
	// gen is bumped on every trigger so that ticks of superseded reveals are ignored
	gen  uint64
	stop func()
}

type Option func(*Renderer)

func WithScheduler(s Scheduler) Option {
	return func(r *Renderer) {
		r.scheduler = s
	}
}

func WithInterval(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.interval = d
		}
	}
}

// New renderer which emits every frame to sink. The sink is called while the
// renderer is locked, and must not call back into the renderer.
func New(sink func(Frame), opts ...Option) *Renderer {
	r := &Renderer{
		scheduler: RealScheduler{},
		interval:  DefaultInterval,
		sink:      sink,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sink == nil {
		r.sink = func(Frame) {}
	}
	return r
}

// Reveal text progressively, superseding whatever is currently displayed.
func (r *Renderer) Reveal(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked()
	r.gen++
	r.target = text
	r.targetLen = utf8.RuneCountInString(text)
	r.ticks = 0
	r.displayed = ""
	if r.targetLen == 0 {
		r.state = Idle
		r.sink(Frame{})
		return
	}
	r.state = Revealing
	r.sink(Frame{Typing: true})
	gen := r.gen
	r.stop = r.scheduler.Every(r.interval, func() { r.tick(gen) })
}

// ShowError displays text at once, without any reveal.
func (r *Renderer) ShowError(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked()
	r.gen++
	r.state = Idle
	r.target = text
	r.targetLen = utf8.RuneCountInString(text)
	r.ticks = r.targetLen
	r.displayed = text
	r.sink(Frame{Text: text})
}

// Stop any ongoing reveal. What has been revealed so far stays displayed.
func (r *Renderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked()
	r.gen++
	r.state = Idle
}

func (r *Renderer) Displayed() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.displayed
}

func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Renderer) tick(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen || r.state != Revealing {
		return
	}
	r.ticks++
	r.displayed = Prefix(r.target, r.ticks)
	done := r.ticks >= r.targetLen
	if done {
		r.state = Idle
		r.cancelLocked()
	}
	r.sink(Frame{Text: r.displayed, Typing: !done})
}

func (r *Renderer) cancelLocked() {
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
}
