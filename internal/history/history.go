package history

import (
	"sync"

	"github.com/baalimago/clask/internal/models"
)

// DefaultCapacity is the amount of records kept when no capacity is given.
const DefaultCapacity = 5

// History is a fixed-size store of query records, newest first. When full, a
// Prepend overwrites the oldest record in place.
type History struct {
	buf     []models.QueryRecord
	start   int // index of the newest record
	n       int
	onEvict func(models.QueryRecord)
	mu      sync.RWMutex
}

type Option func(*History)

// WithCapacity sets the amount of records kept. Values below 1 are ignored.
func WithCapacity(capacity int) Option {
	return func(h *History) {
		if capacity > 0 {
			h.buf = make([]models.QueryRecord, capacity)
		}
	}
}

// WithEvictHook registers a function which receives every record pushed out
// of the history. It is called while the history is locked, so it must not
// call back into the history.
func WithEvictHook(fn func(models.QueryRecord)) Option {
	return func(h *History) {
		h.onEvict = fn
	}
}

func New(opts ...Option) *History {
	h := &History{
		buf: make([]models.QueryRecord, DefaultCapacity),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Prepend inserts r at index 0. If the history is at capacity the record at
// the last index is discarded.
func (h *History) Prepend(r models.QueryRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	size := len(h.buf)
	h.start = (h.start - 1 + size) % size
	if h.n == size {
		// The new head slot currently holds the oldest record
		if h.onEvict != nil {
			h.onEvict(h.buf[h.start])
		}
	} else {
		h.n++
	}
	h.buf[h.start] = r
}

// At returns the n-th most recent record. ok is false if out of range.
func (h *History) At(n int) (models.QueryRecord, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n < 0 || n >= h.n {
		return models.QueryRecord{}, false
	}
	return h.buf[(h.start+n)%len(h.buf)], true
}

// Records returns a copy of all records, newest first.
func (h *History) Records() []models.QueryRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ret := make([]models.QueryRecord, 0, h.n)
	for i := 0; i < h.n; i++ {
		ret = append(ret, h.buf[(h.start+i)%len(h.buf)])
	}
	return ret
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.n
}

func (h *History) Cap() int {
	return len(h.buf)
}
