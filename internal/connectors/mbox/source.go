// Package mbox streams messages out of local mail archives. It understands
// single-file mbox archives (with mboxrd From-stuffing) and maildir trees,
// and walks directories containing either.
package mbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driven"
)

// Ensure Source implements the port.
var _ driven.MailSource = (*Source)(nil)

// Source streams messages from an archive directory.
type Source struct {
	root string
}

// New creates a source rooted at the given directory. The root may also be
// a single mbox file.
func New(root string) *Source {
	return &Source{root: root}
}

// Messages walks the archive and streams every message it can parse, in
// walk order. Per-message failures go to the error channel; both channels
// close when the walk ends or ctx is cancelled. Callers must drain both.
func (s *Source) Messages(ctx context.Context) (<-chan domain.RawMail, <-chan error) {
	mails := make(chan domain.RawMail)
	errs := make(chan error, 1)

	go func() {
		defer close(mails)
		defer close(errs)

		if _, err := os.Stat(s.root); err != nil {
			s.sendErr(ctx, errs, fmt.Errorf("%w: %s: %v", domain.ErrArchiveUnavailable, s.root, err))
			return
		}

		seq := 0
		walkErr := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.sendErr(ctx, errs, fmt.Errorf("walking %s: %w", path, err))
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			name := d.Name()
			if d.IsDir() {
				if strings.HasPrefix(name, ".") && path != s.root {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(name, ".") || !d.Type().IsRegular() {
				return nil
			}

			switch {
			case isMboxName(name):
				seq = s.streamMbox(ctx, path, seq, mails, errs)
			case isMaildirMessage(path):
				seq = s.streamMaildirFile(ctx, path, seq, mails, errs)
			}
			return nil
		})
		if walkErr != nil && walkErr != ctx.Err() {
			s.sendErr(ctx, errs, fmt.Errorf("walking archive %s: %w", s.root, walkErr))
		}
	}()

	return mails, errs
}

// streamMaildirFile emits one maildir file as one message.
func (s *Source) streamMaildirFile(ctx context.Context, path string, seq int, mails chan<- domain.RawMail, errs chan<- error) int {
	data, err := os.ReadFile(path)
	if err != nil {
		s.sendErr(ctx, errs, fmt.Errorf("reading maildir message %s: %w", path, err))
		return seq
	}
	return s.emit(ctx, path, data, seq, mails, errs)
}

// emit parses one raw message and sends it downstream. It returns the next
// sequence number, unchanged when the message was unparseable or the send
// was cancelled.
func (s *Source) emit(ctx context.Context, path string, raw []byte, seq int, mails chan<- domain.RawMail, errs chan<- error) int {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		s.sendErr(ctx, errs, fmt.Errorf("parsing message %d from %s: %w", seq, path, err))
		return seq
	}
	body, err := io.ReadAll(msg.Body)
	if err != nil {
		s.sendErr(ctx, errs, fmt.Errorf("reading message %d from %s: %w", seq, path, err))
		return seq
	}

	select {
	case mails <- domain.RawMail{Path: path, Seq: seq, Header: msg.Header, Body: body}:
		return seq + 1
	case <-ctx.Done():
		return seq
	}
}

func (s *Source) sendErr(ctx context.Context, errs chan<- error, err error) {
	select {
	case errs <- err:
	case <-ctx.Done():
	}
}

// isMboxName reports whether a file name denotes an mbox archive.
func isMboxName(name string) bool {
	lower := strings.ToLower(name)
	return lower == "mbox" || strings.HasSuffix(lower, ".mbox")
}

// isMaildirMessage reports whether the path sits in a maildir cur/ or new/
// directory.
func isMaildirMessage(path string) bool {
	parent := filepath.Base(filepath.Dir(path))
	return parent == "cur" || parent == "new"
}
