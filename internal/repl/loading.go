package repl

import (
	"fmt"
	"io"
	"time"

	"github.com/baalimago/clask/internal/utils"
)

var loadingFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startLoading animates a spinner with elapsed time on the current line of w,
// until the returned function is called. The returned function blocks until the
// line has been cleared.
func startLoading(w io.Writer, termWidth int) func() {
	t0 := time.Now()
	ticker := time.NewTicker(time.Second / 15)
	stop := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				elapsed := time.Since(t0)
				utils.ClearTermTo(w, termWidth, 0)
				fmt.Fprintf(w, "%v %v",
					loadingFrame(elapsed),
					utils.Colorize(utils.ThemeSecondaryColor(), fmt.Sprintf("Thinking... %.1fs", elapsed.Seconds())))
			case <-stop:
				utils.ClearTermTo(w, termWidth, 0)
				return
			}
		}
	}()
	return func() {
		close(stop)
		<-stopped
	}
}

func loadingFrame(elapsed time.Duration) string {
	return loadingFrames[int(elapsed/(time.Second/15))%len(loadingFrames)]
}
