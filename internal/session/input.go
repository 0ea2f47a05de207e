package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// ErrInputClosed is returned when the operator input ends before the session is terminated.
var ErrInputClosed = errors.New("input closed")

type lineResult struct {
	line string
	err  error
}

// lineReader reads operator lines in the background so a blocked read can be
// abandoned when the context is cancelled. Lines have no length limit.
type lineReader struct {
	lines chan lineResult
	done  chan struct{}
}

func newLineReader(r io.Reader) *lineReader {
	l := &lineReader{
		lines: make(chan lineResult),
		done:  make(chan struct{}),
	}

	go func() {
		defer close(l.lines)
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				res := lineResult{line: strings.TrimRight(line, "\r\n")}
				if !l.send(res) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					l.send(lineResult{err: err})
				}
				return
			}
		}
	}()

	return l
}

// send delivers a result unless the reader has been closed.
func (l *lineReader) send(res lineResult) bool {
	select {
	case l.lines <- res:
		return true
	case <-l.done:
		return false
	}
}

// Close stops delivering lines. A read already blocked on the underlying
// reader finishes on its own, its line is discarded.
func (l *lineReader) Close() {
	close(l.done)
}

func (l *lineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-l.lines:
		if !ok {
			return "", ErrInputClosed
		}
		if res.err != nil {
			return "", res.err
		}
		return res.line, nil
	}
}
