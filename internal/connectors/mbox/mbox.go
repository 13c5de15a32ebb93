package mbox

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// streamMbox splits one mbox file on "From " separator lines and emits each
// message. Content before the first separator is ignored. Cancellation is
// honoured between messages, never inside one.
func (s *Source) streamMbox(ctx context.Context, path string, seq int, mails chan<- domain.RawMail, errs chan<- error) int {
	f, err := os.Open(path)
	if err != nil {
		s.sendErr(ctx, errs, fmt.Errorf("opening mbox %s: %w", path, err))
		return seq
	}
	defer f.Close()

	var (
		r         = bufio.NewReader(f)
		current   []byte
		inMessage bool
	)

	for {
		line, readErr := r.ReadString('\n')
		if len(line) > 0 {
			if strings.HasPrefix(line, "From ") {
				if inMessage {
					seq = s.emit(ctx, path, current, seq, mails, errs)
					if ctx.Err() != nil {
						return seq
					}
				}
				current = nil
				inMessage = true
			} else if inMessage {
				current = append(current, unstuff(line)...)
			}
		}
		if readErr != nil {
			if readErr != io.EOF {
				s.sendErr(ctx, errs, fmt.Errorf("reading mbox %s: %w", path, readErr))
			}
			break
		}
	}
	if inMessage && ctx.Err() == nil {
		seq = s.emit(ctx, path, current, seq, mails, errs)
	}
	return seq
}

// unstuff reverses mboxrd From-stuffing: one leading '>' comes off lines
// that would otherwise read as a message separator.
func unstuff(line string) string {
	if !strings.HasPrefix(line, ">") {
		return line
	}
	if strings.HasPrefix(strings.TrimLeft(line, ">"), "From ") {
		return line[1:]
	}
	return line
}
