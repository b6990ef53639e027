package session

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/baalimago/clask/internal/answer"
	"github.com/baalimago/clask/internal/history"
	"github.com/baalimago/clask/internal/models"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/google/uuid"
)

// DefaultMaxQueryLength is the max amount of runes a query may have after trimming.
const DefaultMaxQueryLength = 500

// State is a snapshot of the session.
type State struct {
	DraftQuery    string
	Loading       bool
	CurrentAnswer string
	CurrentError  string
	History       []models.QueryRecord
}

// Controller owns the session state. All mutations go through SubmitQuery,
// SetDraft and Close. At most one query is in flight at any time.
type Controller struct {
	svc      models.AnswerService
	history  *history.History
	maxLen   int
	onEffect func(Effect)
	now      func() time.Time
	newID    func() string
	debug    bool

	mu            sync.Mutex
	draft         string
	loading       bool
	currentAnswer string
	currentError  string
	closed        bool
}

type Option func(*Controller)

func WithHistory(h *history.History) Option {
	return func(c *Controller) {
		if h != nil {
			c.history = h
		}
	}
}

func WithMaxQueryLength(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxLen = n
		}
	}
}

// WithEffectHandler sets a handler which receives every effect of a completed
// submission, in addition to them being returned in the Outcome. It's called
// after the session has been unlocked.
func WithEffectHandler(fn func(Effect)) Option {
	return func(c *Controller) {
		c.onEffect = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

func New(svc models.AnswerService, opts ...Option) *Controller {
	c := &Controller{
		svc:    svc,
		maxLen: DefaultMaxQueryLength,
		now:    time.Now,
		newID:  newRecordID,
		debug:  misc.Truthy(os.Getenv("DEBUG")),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.history == nil {
		c.history = history.New()
	}
	return c
}

// newRecordID returns a time ordered uuid, so ids sort in creation order.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SubmitQuery sends the trimmed text to the answer service and blocks until it
// has responded. Empty or too long queries, queries submitted while another is in
// flight and queries submitted after Close are skipped without any change to
// the session.
func (c *Controller) SubmitQuery(ctx context.Context, text string) Outcome {
	query := strings.TrimSpace(text)
	if query == "" {
		return Outcome{Skip: SkipEmpty}
	}
	if utf8.RuneCountInString(query) > c.maxLen {
		return Outcome{Skip: SkipTooLong}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Outcome{Skip: SkipClosed}
	}
	if c.loading {
		c.mu.Unlock()
		return Outcome{Skip: SkipInFlight}
	}
	c.loading = true
	c.currentAnswer = ""
	c.currentError = ""
	c.draft = ""
	c.mu.Unlock()

	if c.debug {
		ancli.PrintOK(fmt.Sprintf("submitting query: '%v'\n", query))
	}
	ans, err := c.ask(ctx, query)
	var out Outcome
	if err != nil {
		out = c.handleFailure(query, err)
	} else {
		out = c.handleSuccess(query, ans)
	}
	if c.onEffect != nil {
		for _, e := range out.Effects {
			c.onEffect(e)
		}
	}
	return out
}

// ask the service, converting any panic into an unexpected error so that the
// in-flight gate is always released.
func (c *Controller) ask(ctx context.Context, query string) (ans string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &answer.UnexpectedError{Cause: fmt.Errorf("answer service panicked: %v", r)}
		}
	}()
	return c.svc.Ask(ctx, query)
}

func (c *Controller) handleSuccess(query, ans string) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.logDiscard(query)
		return Outcome{Discarded: true}
	}
	rec := c.newRecord(query, ans, models.StatusSuccess)
	c.currentAnswer = ans
	c.history.Prepend(rec)
	c.loading = false
	return Outcome{
		Record: rec,
		Effects: []Effect{
			{Kind: ScrollToResponse},
			{Kind: Reveal, Text: ans},
		},
	}
}

func (c *Controller) handleFailure(query string, err error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.logDiscard(query)
		return Outcome{Discarded: true, Err: err}
	}
	msg := answer.Message(err)
	if c.debug {
		ancli.PrintWarn(fmt.Sprintf("query '%v' failed: %v\n", query, err))
	}
	rec := c.newRecord(query, msg, models.StatusError)
	c.currentError = msg
	c.history.Prepend(rec)
	c.loading = false
	return Outcome{
		Record:  rec,
		Err:     err,
		Effects: []Effect{{Kind: ShowError, Text: msg}},
	}
}

func (c *Controller) logDiscard(query string) {
	if c.debug {
		ancli.PrintWarn(fmt.Sprintf("session closed, discarding result of query: '%v'\n", query))
	}
}

func (c *Controller) newRecord(query, ans string, status models.Status) models.QueryRecord {
	return models.QueryRecord{
		ID:        c.newID(),
		Query:     query,
		Answer:    ans,
		Timestamp: c.now(),
		Status:    status,
	}
}

// SetDraft replaces the draft query. No-op after Close.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.draft = text
}

func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// MaxQueryLength returns the max amount of runes a query may have.
func (c *Controller) MaxQueryLength() int {
	return c.maxLen
}

// Latest returns the most recent record, if any.
func (c *Controller) Latest() (models.QueryRecord, bool) {
	return c.history.At(0)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		DraftQuery:    c.draft,
		Loading:       c.loading,
		CurrentAnswer: c.currentAnswer,
		CurrentError:  c.currentError,
		History:       c.history.Records(),
	}
}

// Close ends the session. Results of a query still in flight are discarded
// once they arrive.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
