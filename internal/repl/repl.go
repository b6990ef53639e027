package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/baalimago/clask/internal/answer"
	"github.com/baalimago/clask/internal/models"
	"github.com/baalimago/clask/internal/session"
	"github.com/baalimago/clask/internal/typewriter"
	"github.com/baalimago/clask/internal/utils"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// ErrQueryFailed is returned by a one-shot query whose answer is an error.
var ErrQueryFailed = errors.New("query failed")

const (
	historyAnswerLen = 200
	prompt           = "clask(':h' history, ':e' examples, 'q' to quit): "
)

type Config struct {
	// Raw disables the reveal, the loading animation and all decorations.
	Raw     bool
	Verbose bool
	// Animate enables the loading animation and typing cursor. Should only be set
	// when Out is a terminal.
	Animate        bool
	RevealInterval time.Duration
	Scheduler      typewriter.Scheduler
	In             io.Reader
	Out            io.Writer
	// Query makes the querier ask this once and exit, instead of starting the REPL.
	Query string
}

// Querier is the terminal front of a session.
type Querier struct {
	ctrl      *session.Controller
	renderer  *typewriter.Renderer
	in        io.Reader
	out       io.Writer
	raw       bool
	verbose   bool
	animate   bool
	oneShot   string
	termWidth int
	debug     bool

	mu         sync.Mutex
	printed    string
	revealDone chan struct{}
}

func New(ctrl *session.Controller, conf Config) *Querier {
	if conf.In == nil {
		conf.In = os.Stdin
	}
	if conf.Out == nil {
		conf.Out = os.Stdout
	}
	termWidth, err := utils.TermWidth()
	if err != nil {
		ancli.PrintWarn(fmt.Sprintf("failed to get terminal size: %v\n", err))
	}
	q := &Querier{
		ctrl:       ctrl,
		in:         conf.In,
		out:        conf.Out,
		raw:        conf.Raw,
		verbose:    conf.Verbose,
		animate:    conf.Animate && !conf.Raw,
		oneShot:    conf.Query,
		termWidth:  termWidth,
		debug:      misc.Truthy(os.Getenv("DEBUG")),
		revealDone: make(chan struct{}, 1),
	}
	opts := []typewriter.Option{typewriter.WithInterval(conf.RevealInterval)}
	if conf.Scheduler != nil {
		opts = append(opts, typewriter.WithScheduler(conf.Scheduler))
	}
	q.renderer = typewriter.New(q.writeFrame, opts...)
	return q
}

// Query either asks the one-shot query, or runs the REPL until the user quits.
func (q *Querier) Query(ctx context.Context) error {
	defer q.renderer.Stop()
	defer q.ctrl.Close()
	if q.oneShot != "" {
		return q.queryOnce(ctx)
	}
	return q.loop(ctx)
}

func (q *Querier) queryOnce(ctx context.Context) error {
	out, err := q.submit(ctx, q.oneShot)
	if err != nil {
		return err
	}
	switch {
	case out.Skip == session.SkipEmpty:
		return errors.New("query is empty")
	case out.Skip == session.SkipTooLong:
		return fmt.Errorf("query is too long, max is %v characters", q.ctrl.MaxQueryLength())
	case out.Record.IsError():
		return ErrQueryFailed
	}
	return nil
}

func (q *Querier) loop(ctx context.Context) error {
	lr := utils.NewLineReader(q.in)
	if !q.raw {
		fmt.Fprintf(q.out, "%v\n\n", utils.Colorize(utils.ThemePrimaryColor(), "Ask anything about Luke Skywalker"))
	}
	for {
		if !q.raw {
			fmt.Fprint(q.out, utils.Colorize(utils.ThemePrimaryColor(), prompt))
		}
		line, err := lr.ReadLine(ctx)
		if err != nil {
			return err
		}
		if err := q.handleLine(ctx, line); err != nil {
			return err
		}
	}
}

func (q *Querier) handleLine(ctx context.Context, line string) error {
	trimmed := strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(trimmed, " ")
	switch cmd {
	case ":h", ":history":
		q.printHistory()
		return nil
	case ":e", ":examples":
		if arg == "" {
			q.printExamples()
			return nil
		}
		example, err := exampleFromArg(arg)
		if err != nil {
			ancli.PrintWarn(fmt.Sprintf("%v\n", err))
			return nil
		}
		q.ctrl.SetDraft(example)
		fmt.Fprintf(q.out, "draft: %v\n(press enter to ask)\n", example)
		return nil
	case "":
		draft := q.ctrl.Draft()
		if draft == "" {
			return nil
		}
		_, err := q.submit(ctx, draft)
		return err
	default:
		_, err := q.submit(ctx, line)
		return err
	}
}

// submit the text to the session and display the outcome. The returned error is
// only set if the user wants out while waiting.
func (q *Querier) submit(ctx context.Context, text string) (session.Outcome, error) {
	done := make(chan session.Outcome, 1)
	go func() {
		done <- q.ctrl.SubmitQuery(ctx, text)
	}()

	stopLoading := func() {}
	if q.animate {
		stopLoading = startLoading(q.out, q.termWidth)
	}
	var out session.Outcome
	select {
	case out = <-done:
		stopLoading()
	case <-ctx.Done():
		stopLoading()
		return session.Outcome{}, utils.ErrUserInitiatedExit
	}

	if q.debug {
		ancli.PrintOK(fmt.Sprintf("outcome: skip: %v, record: %+v\n", out.Skip, out.Record))
	}
	if !out.Accepted() {
		q.explainSkip(text, out.Skip)
		return out, nil
	}
	if err := q.display(ctx, out); err != nil {
		return out, err
	}
	return out, nil
}

func (q *Querier) explainSkip(text string, reason session.SkipReason) {
	switch reason {
	case session.SkipTooLong:
		ancli.PrintWarn(fmt.Sprintf("%v/%v characters, please shorten your question\n",
			len([]rune(strings.TrimSpace(text))), q.ctrl.MaxQueryLength()))
	case session.SkipInFlight:
		ancli.PrintWarn("a question is already being answered, please wait\n")
	case session.SkipClosed:
		ancli.PrintWarn("session is closed\n")
	}
}

func (q *Querier) display(ctx context.Context, out session.Outcome) error {
	for _, e := range out.Effects {
		switch e.Kind {
		case session.ScrollToResponse:
			q.printHeader(out.Record)
		case session.Reveal:
			if err := q.reveal(ctx, e.Text); err != nil {
				return err
			}
		case session.ShowError:
			q.printHeader(out.Record)
			q.showError(e.Text, answer.Detail(out.Err))
		}
	}
	return nil
}

func (q *Querier) printHeader(rec models.QueryRecord) {
	if q.raw {
		return
	}
	label := utils.Colorize(utils.ThemeSuccessColor(), "Answer:")
	if rec.IsError() {
		label = utils.Colorize(utils.ThemeErrorColor(), "Error:")
	}
	fmt.Fprintf(q.out, "\n%v %v\n%v\n",
		utils.Colorize(utils.ThemeSecondaryColor(), "Your question:"),
		rec.Query,
		label)
	if q.verbose {
		fmt.Fprintf(q.out, "%v\n", utils.Colorize(utils.ThemeSecondaryColor(),
			fmt.Sprintf("[id: %v, at: %v]", rec.ID, rec.Timestamp.Format(time.RFC3339))))
	}
}

func (q *Querier) reveal(ctx context.Context, text string) error {
	if q.raw {
		fmt.Fprintln(q.out, text)
		return nil
	}
	q.mu.Lock()
	q.printed = ""
	select {
	case <-q.revealDone:
	default:
	}
	q.mu.Unlock()

	q.renderer.Reveal(text)
	select {
	case <-q.revealDone:
		return nil
	case <-ctx.Done():
		q.renderer.Stop()
		fmt.Fprintln(q.out)
		return utils.ErrUserInitiatedExit
	}
}

func (q *Querier) showError(msg, detail string) {
	if q.raw {
		fmt.Fprintln(q.out, msg)
		return
	}
	q.mu.Lock()
	q.printed = ""
	q.mu.Unlock()
	q.renderer.ShowError(msg)
	select {
	case <-q.revealDone:
	default:
	}
	if q.verbose && detail != "" {
		fmt.Fprintf(q.out, "%v\n", utils.Colorize(utils.ThemeSecondaryColor(), detail))
	}
}

// writeFrame prints the part of the frame which hasn't been printed yet. It's the
// sink of the renderer, and so is called while the renderer is locked.
func (q *Querier) writeFrame(f typewriter.Frame) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if strings.HasPrefix(f.Text, q.printed) {
		fmt.Fprint(q.out, f.Text[len(q.printed):])
	} else {
		fmt.Fprint(q.out, "\n"+f.Text)
	}
	q.printed = f.Text
	if q.animate {
		if f.Typing {
			// Print cursor, then step back onto it so the next rune replaces it
			fmt.Fprint(q.out, "|\b")
		} else {
			fmt.Fprint(q.out, " \b")
		}
	}
	if !f.Typing {
		fmt.Fprintln(q.out)
		select {
		case q.revealDone <- struct{}{}:
		default:
		}
	}
}

// printHistory lists all records but the most recent one, which is the one
// currently displayed.
func (q *Querier) printHistory() {
	records := q.ctrl.State().History
	if len(records) <= 1 {
		fmt.Fprintln(q.out, "no recent queries")
		return
	}
	fmt.Fprintf(q.out, "%v\n", utils.Colorize(utils.ThemePrimaryColor(), "Recent queries:"))
	for _, rec := range records[1:] {
		mark, color := "✓", utils.ThemeSuccessColor()
		if rec.IsError() {
			mark, color = "✗", utils.ThemeErrorColor()
		}
		prefix := fmt.Sprintf("%v %v ", mark, rec.Timestamp.Local().Format("15:04:05"))
		fmt.Fprintln(q.out, utils.OneLiner(prefix, rec.Query, color, q.termWidth, 0))
		ansColor := utils.ThemeBreadtextColor()
		if rec.IsError() {
			ansColor = utils.ThemeErrorColor()
		}
		ans := utils.Colorize(ansColor, utils.ShortenedOutput(rec.Answer, historyAnswerLen))
		fmt.Fprintf(q.out, "    %v\n", ans)
	}
}

func (q *Querier) printExamples() {
	fmt.Fprintf(q.out, "%v\n", utils.Colorize(utils.ThemePrimaryColor(), "Try these example queries (':e <number>' to use one):"))
	for i, ex := range exampleQueries {
		fmt.Fprintf(q.out, "  %v: %v\n", i+1, ex)
	}
}
