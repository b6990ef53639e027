package utils

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

var quitters = []string{"q", "quit", "exit"}

// LineReader reads lines in the background, so that waiting for user input can
// be interrupted by context cancellation.
type LineReader struct {
	lines chan string
	errs  chan error
}

func NewLineReader(r io.Reader) *LineReader {
	lr := &LineReader{
		lines: make(chan string),
		errs:  make(chan error, 1),
	}
	go func() {
		reader := bufio.NewReader(r)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				lr.lines <- line
			}
			if err != nil {
				lr.errs <- err
				return
			}
		}
	}()
	return lr
}

// ReadLine blocks until a line has been read, the input is exhausted or ctx is
// done. The line is returned without its line ending. Quit commands, end of input and
// ctx cancellation all result in ErrUserInitiatedExit.
func (lr *LineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ErrUserInitiatedExit
	case line := <-lr.lines:
		line = strings.TrimRight(line, "\r\n")
		if slices.Contains(quitters, strings.TrimSpace(line)) {
			return "", ErrUserInitiatedExit
		}
		return line, nil
	case err := <-lr.errs:
		if errors.Is(err, io.EOF) {
			return "", ErrUserInitiatedExit
		}
		return "", fmt.Errorf("failed to read user input: %w", err)
	}
}
