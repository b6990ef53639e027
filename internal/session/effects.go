package session

import "github.com/baalimago/clask/internal/models"

type EffectKind int

const (
	// ScrollToResponse signals that the response should be brought into view.
	ScrollToResponse EffectKind = iota
	// Reveal the text in Effect.Text progressively.
	Reveal
	// ShowError displays Effect.Text at once.
	ShowError
)

func (k EffectKind) String() string {
	switch k {
	case ScrollToResponse:
		return "scroll-to-response"
	case Reveal:
		return "reveal"
	case ShowError:
		return "show-error"
	default:
		return "unknown"
	}
}

type Effect struct {
	Kind EffectKind
	Text string
}

type SkipReason int

const (
	NotSkipped SkipReason = iota
	SkipEmpty
	SkipTooLong
	SkipInFlight
	SkipClosed
)

func (s SkipReason) String() string {
	switch s {
	case NotSkipped:
		return "not skipped"
	case SkipEmpty:
		return "empty query"
	case SkipTooLong:
		return "query too long"
	case SkipInFlight:
		return "query already in flight"
	case SkipClosed:
		return "session closed"
	default:
		return "unknown"
	}
}

// Outcome of a SubmitQuery call.
type Outcome struct {
	Skip SkipReason
	// Discarded is set if the session was closed while the query was in flight.
	// The result is then dropped without touching the session.
	Discarded bool
	Record    models.QueryRecord
	// Err is the service error behind an error record, if any.
	Err     error
	Effects []Effect
}

func (o Outcome) Accepted() bool {
	return o.Skip == NotSkipped
}
