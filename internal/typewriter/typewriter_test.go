package typewriter

import (
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (f *frameRecorder) sink(fr Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
}

func (f *frameRecorder) all() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	ret := make([]Frame, len(f.frames))
	copy(ret, f.frames)
	return ret
}

func (f *frameRecorder) last() Frame {
	all := f.all()
	if len(all) == 0 {
		return Frame{}
	}
	return all[len(all)-1]
}

func TestPrefix(t *testing.T) {
	testCases := []struct {
		desc  string
		s     string
		ticks int
		want  string
	}{
		{desc: "zero ticks", s: "Son.", ticks: 0, want: ""},
		{desc: "negative ticks", s: "Son.", ticks: -3, want: ""},
		{desc: "one tick", s: "Son.", ticks: 1, want: "S"},
		{desc: "all ticks", s: "Son.", ticks: 4, want: "Son."},
		{desc: "more ticks than runes", s: "Son.", ticks: 100, want: "Son."},
		{desc: "multi byte runes", s: "åäö🙂x", ticks: 4, want: "åäö🙂"},
		{desc: "empty string", s: "", ticks: 2, want: ""},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			testboil.FailTestIfDiff(t, Prefix(tC.s, tC.ticks), tC.want)
		})
	}
}

func TestReveal(t *testing.T) {
	t.Run("it should reveal one rune per interval until done", func(t *testing.T) {
		vs := &VirtualScheduler{}
		rec := &frameRecorder{}
		r := New(rec.sink, WithScheduler(vs))
		want := "Son."
		r.Reveal(want)
		testboil.FailTestIfDiff(t, r.State(), Revealing)

		prevLen := 0
		ticks := 0
		for r.State() == Revealing {
			vs.Advance(DefaultInterval)
			ticks++
			gotLen := utf8.RuneCountInString(r.Displayed())
			if gotLen < prevLen {
				t.Fatalf("revealed length decreased from %v to %v", prevLen, gotLen)
			}
			prevLen = gotLen
			if ticks > 100 {
				t.Fatal("reveal never finished")
			}
		}
		if ticks < len(want)-1 {
			t.Fatalf("reveal finished after %v ticks, expected at least %v", ticks, len(want)-1)
		}
		testboil.FailTestIfDiff(t, r.Displayed(), want)
		testboil.FailTestIfDiff(t, rec.last(), Frame{Text: want, Typing: false})
		testboil.FailTestIfDiff(t, vs.Active(), 0)
	})

	t.Run("it should not advance between intervals", func(t *testing.T) {
		vs := &VirtualScheduler{}
		r := New(nil, WithScheduler(vs), WithInterval(time.Second))
		r.Reveal("abc")
		vs.Advance(time.Second / 2)
		testboil.FailTestIfDiff(t, r.Displayed(), "")
		vs.Advance(time.Second / 2)
		testboil.FailTestIfDiff(t, r.Displayed(), "a")
		vs.Advance(2 * time.Second)
		testboil.FailTestIfDiff(t, r.Displayed(), "abc")
	})

	t.Run("it should emit frames that are prefixes of the answer", func(t *testing.T) {
		vs := &VirtualScheduler{}
		rec := &frameRecorder{}
		r := New(rec.sink, WithScheduler(vs))
		want := "Luke is the son of Anakin."
		r.Reveal(want)
		vs.Advance(time.Duration(len(want)+5) * DefaultInterval)
		for i, f := range rec.all() {
			if !strings.HasPrefix(want, f.Text) {
				t.Fatalf("frame %v: %q is not a prefix of %q", i, f.Text, want)
			}
			if utf8.RuneCountInString(f.Text) != i {
				t.Fatalf("frame %v: expected %v runes, got %q", i, i, f.Text)
			}
		}
	})

	t.Run("empty answer should go directly to idle", func(t *testing.T) {
		vs := &VirtualScheduler{}
		rec := &frameRecorder{}
		r := New(rec.sink, WithScheduler(vs))
		r.Reveal("")
		testboil.FailTestIfDiff(t, r.State(), Idle)
		testboil.FailTestIfDiff(t, vs.Active(), 0)
		testboil.FailTestIfDiff(t, len(rec.all()), 1)
	})
}

func TestSupersession(t *testing.T) {
	t.Run("new answer should restart reveal without interleaving", func(t *testing.T) {
		vs := &VirtualScheduler{}
		rec := &frameRecorder{}
		r := New(rec.sink, WithScheduler(vs))
		first := "aaaaaaaaaa"
		second := "bbbb"
		r.Reveal(first)
		vs.Advance(3 * DefaultInterval)
		testboil.FailTestIfDiff(t, r.Displayed(), "aaa")

		r.Reveal(second)
		testboil.FailTestIfDiff(t, r.Displayed(), "")
		testboil.FailTestIfDiff(t, vs.Active(), 1)

		vs.Advance(20 * DefaultInterval)
		testboil.FailTestIfDiff(t, r.Displayed(), second)

		seenSecond := false
		for _, f := range rec.all() {
			if strings.Contains(f.Text, "b") {
				seenSecond = true
			}
			if seenSecond && strings.Contains(f.Text, "a") {
				t.Fatalf("old content leaked after supersession: %q", f.Text)
			}
			if strings.Contains(f.Text, "a") && strings.Contains(f.Text, "b") {
				t.Fatalf("interleaved frame: %q", f.Text)
			}
		}
	})

	t.Run("error should cancel reveal and show full text at once", func(t *testing.T) {
		vs := &VirtualScheduler{}
		rec := &frameRecorder{}
		r := New(rec.sink, WithScheduler(vs))
		r.Reveal("a long answer which never gets fully revealed")
		vs.Advance(2 * DefaultInterval)

		errMsg := "HTTP error! status: 500"
		r.ShowError(errMsg)
		testboil.FailTestIfDiff(t, r.Displayed(), errMsg)
		testboil.FailTestIfDiff(t, r.State(), Idle)
		testboil.FailTestIfDiff(t, vs.Active(), 0)
		testboil.FailTestIfDiff(t, rec.last(), Frame{Text: errMsg})

		framesBefore := len(rec.all())
		vs.Advance(50 * DefaultInterval)
		testboil.FailTestIfDiff(t, len(rec.all()), framesBefore)
		testboil.FailTestIfDiff(t, r.Displayed(), errMsg)
	})

	t.Run("ticks of a superseded reveal should be ignored", func(t *testing.T) {
		rec := &frameRecorder{}
		r := New(rec.sink, WithScheduler(&VirtualScheduler{}))
		r.Reveal("first")
		staleGen := r.gen
		r.Reveal("second")
		r.tick(staleGen)
		testboil.FailTestIfDiff(t, r.Displayed(), "")
	})
}

func TestStop(t *testing.T) {
	vs := &VirtualScheduler{}
	r := New(nil, WithScheduler(vs))
	r.Reveal("abcdef")
	vs.Advance(2 * DefaultInterval)
	r.Stop()
	testboil.FailTestIfDiff(t, vs.Active(), 0)
	testboil.FailTestIfDiff(t, r.State(), Idle)
	vs.Advance(10 * DefaultInterval)
	testboil.FailTestIfDiff(t, r.Displayed(), "ab")
}

func TestRealScheduler(t *testing.T) {
	done := make(chan struct{})
	r := New(func(f Frame) {
		if f.Text == "ok" && !f.Typing {
			close(done)
		}
	}, WithInterval(time.Millisecond))
	r.Reveal("ok")
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reveal with real scheduler did not finish in time")
	}
	testboil.FailTestIfDiff(t, r.State(), Idle)
}

func TestStateString(t *testing.T) {
	testboil.FailTestIfDiff(t, Idle.String(), "idle")
	testboil.FailTestIfDiff(t, Revealing.String(), "revealing")
}
