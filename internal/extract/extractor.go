// Package extract turns one raw archived email into one normalised record:
// subject metadata, a plain-text body, structured content (commits, file
// segments, sections) and topical tags. Extraction is independent per
// message and carries no state between calls, so it can run across any
// number of workers.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"

	"github.com/google/uuid"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driven"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/tags"
)

// Ensure Extractor implements the port.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor assembles records from raw mail. Safe for concurrent use.
type Extractor struct {
	classifier tags.Classifier
}

// New creates an Extractor. The classifier may be nil, in which case records
// carry no tags.
func New(classifier tags.Classifier) *Extractor {
	return &Extractor{classifier: classifier}
}

// Extract builds the record for one raw message.
func (e *Extractor) Extract(ctx context.Context, raw domain.RawMail) (domain.Record, error) {
	msg := &mail.Message{Header: raw.Header, Body: bytes.NewReader(raw.Body)}

	subject := decodeHeader(raw.Header.Get("Subject"))
	body, err := ExtractBody(msg)
	if err != nil {
		return domain.Record{}, fmt.Errorf("extracting body of %s: %w", raw.Path, err)
	}

	meta := ParseSubject(subject)

	messageID := raw.Header.Get("Message-Id")
	prNumbers := meta.PRNumbers
	if n, ok := PRNumberFromMessageID(messageID); ok && !containsInt(prNumbers, n) {
		prNumbers = append(prNumbers, n)
	}

	rec := domain.Record{
		ID:            uuid.New().String(),
		Subject:       subject,
		Sender:        decodeHeader(raw.Header.Get("From")),
		Date:          raw.Header.Get("Date"),
		MessageID:     messageID,
		PRNumbers:     prNumbers,
		PRTitle:       meta.PRTitle,
		Repos:         meta.Repos,
		Tickets:       meta.Tickets,
		Body:          body,
		Sections:      ExtractSections(body),
		Commits:       ExtractCommits(body),
		FilesModified: ExtractFilesModified(body),
		Contributors:  meta.Contributors,
		SQLStatements: ExtractSQLStatements(body),
		IssueRefs:     ExtractIssueRefs(body),
	}

	if e.classifier != nil {
		labels, err := e.classifier.Classify(ctx, rec.PRTitle, rec.FilesModified, rec.Sections)
		if err != nil {
			return domain.Record{}, fmt.Errorf("classifying %q: %w", subject, err)
		}
		rec.Tags = labels
	}

	rec.Normalize()
	return rec, nil
}

func containsInt(values []int, n int) bool {
	for _, v := range values {
		if v == n {
			return true
		}
	}
	return false
}
