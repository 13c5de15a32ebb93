package extract

import (
	"context"
	"io"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/tags"
)

func rawMailFromString(t *testing.T, raw string) domain.RawMail {
	t.Helper()
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	require.NoError(t, err)
	body, err := io.ReadAll(msg.Body)
	require.NoError(t, err)
	return domain.RawMail{Path: "archive/mbox", Seq: 1, Header: msg.Header, Body: body}
}

func TestExtract_FullNotification(t *testing.T) {
	raw := rawMailFromString(t, `From: Alice Dev <alice@example.com>
Date: Mon, 01 Jul 2024 10:00:00 +0000
Message-Id: <org/repo/pull/42/c100@github.com>
Subject: [org/repo] PR #42: Fix bug FOO-123
Content-Type: text/plain

Commit Summary
abc1234 Fix login timeout

File Changes
M src/core/index.py

Fixes #7`)

	extractor := New(tags.NewRuleClassifier())
	rec, err := extractor.Extract(context.Background(), raw)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "[org/repo] PR #42: Fix bug FOO-123", rec.Subject)
	assert.Equal(t, "Alice Dev <alice@example.com>", rec.Sender)
	assert.Equal(t, "Mon, 01 Jul 2024 10:00:00 +0000", rec.Date)
	assert.Equal(t, "<org/repo/pull/42/c100@github.com>", rec.MessageID)

	assert.Equal(t, []int{42}, rec.PRNumbers)
	assert.Equal(t, "Fix bug", rec.PRTitle)
	assert.Equal(t, []string{"org/repo"}, rec.Repos)
	assert.Equal(t, []string{"FOO-123"}, rec.Tickets)

	require.Len(t, rec.Commits, 1)
	assert.Equal(t, "abc1234", rec.Commits[0].Short)
	assert.Equal(t, "Fix login timeout", rec.Commits[0].Message)

	assert.Equal(t, []string{"src", "core", "index.py"}, rec.FilesModified)
	assert.Equal(t, []int{7}, rec.IssueRefs)
	assert.Equal(t, []string{"backend", "bug"}, rec.Tags)

	require.Len(t, rec.Sections.Headings, 2)
	assert.Equal(t, "Commit Summary", rec.Sections.Headings[0].Title)
	assert.Equal(t, "File Changes", rec.Sections.Headings[1].Title)

	// Reserved link fields stay empty through extraction.
	assert.Nil(t, rec.LinkedPRs)
	assert.Nil(t, rec.LinkedTickets)
}

func TestExtract_MessageIDSuppliesPRNumber(t *testing.T) {
	raw := rawMailFromString(t, `From: bot@github.com
Message-Id: <org/repo/pull/9/issue_event/5@github.com>
Subject: Re: nightly build

ok`)

	extractor := New(nil)
	rec, err := extractor.Extract(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, []int{9}, rec.PRNumbers)
}

func TestExtract_MessageIDNumberNotDuplicated(t *testing.T) {
	raw := rawMailFromString(t, `From: bot@github.com
Message-Id: <org/repo/pull/42/c1@github.com>
Subject: PR #42: still failing

ok`)

	extractor := New(nil)
	rec, err := extractor.Extract(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, []int{42}, rec.PRNumbers)
}

func TestExtract_NoClassifierMeansNoTags(t *testing.T) {
	raw := rawMailFromString(t, `From: dev@example.com
Subject: Fix crash in parser

details`)

	extractor := New(nil)
	rec, err := extractor.Extract(context.Background(), raw)
	require.NoError(t, err)

	assert.Nil(t, rec.Tags)
}

func TestExtract_EmptyCollectionsAreNil(t *testing.T) {
	raw := rawMailFromString(t, `From: dev@example.com
Subject: hello

just words`)

	extractor := New(tags.NewRuleClassifier())
	rec, err := extractor.Extract(context.Background(), raw)
	require.NoError(t, err)

	assert.Nil(t, rec.PRNumbers)
	assert.Nil(t, rec.Repos)
	assert.Nil(t, rec.Tickets)
	assert.Nil(t, rec.Commits)
	assert.Nil(t, rec.FilesModified)
	assert.Nil(t, rec.Tags)
	assert.Nil(t, rec.Contributors)
	assert.Nil(t, rec.SQLStatements)
	assert.Nil(t, rec.IssueRefs)
	assert.Nil(t, rec.Sections.CodeBlocks)
	assert.Nil(t, rec.Sections.Lists)
}

func TestExtract_EncodedSubject(t *testing.T) {
	raw := rawMailFromString(t, `From: dev@example.com
Subject: =?UTF-8?B?SGVsbG8gV29ybGQ=?=

body`)

	extractor := New(nil)
	rec, err := extractor.Extract(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "Hello World", rec.Subject)
	assert.Equal(t, "Hello World", rec.PRTitle)
}
