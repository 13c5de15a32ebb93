// Package merge folds normalised mail records into canonical per-PR
// records. Records arrive in extraction order, which is arrival order of
// the underlying emails, not necessarily chronological order.
package merge

import (
	"sort"
	"strings"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// Merge folds the records into canonical records, one per distinct pull
// request, preserving first-seen order. Records without a PR number pass
// through unmerged.
func Merge(records []domain.Record) []domain.Record {
	var canonical []domain.Record
	for _, rec := range records {
		canonical = appendByPR(canonical, rec)
	}
	return canonical
}

// appendByPR folds one record into the accumulator. For every PR number the
// record carries, it merges into the first canonical record holding that
// number; a record whose numbers are all unseen starts a new canonical
// record. A record spanning several PRs can merge into several canonical
// records, and its body is appended to each of them.
func appendByPR(acc []domain.Record, rec domain.Record) []domain.Record {
	if len(rec.PRNumbers) == 0 {
		return append(acc, rec)
	}

	merged := false
	for _, pr := range rec.PRNumbers {
		for i := range acc {
			if acc[i].HasPR(pr) {
				mergeInto(&acc[i], rec)
				merged = true
				break
			}
		}
	}
	if !merged {
		acc = append(acc, rec)
	}
	return acc
}

// mergeInto merges r into the established record e. The identity fields
// (ID, Subject, Sender, Date, MessageID, PRTitle, PRNumbers) stay as the
// first email set them; list fields union with e's order first; the body
// always concatenates, so merging the same record twice doubles it.
func mergeInto(e *domain.Record, r domain.Record) {
	e.Repos = unionStrings(e.Repos, r.Repos)
	e.Tickets = unionStrings(e.Tickets, r.Tickets)
	e.Commits = unionCommits(e.Commits, r.Commits)
	e.FilesModified = unionStrings(e.FilesModified, r.FilesModified)
	e.Contributors = unionStrings(e.Contributors, r.Contributors)
	e.LinkedPRs = unionInts(e.LinkedPRs, r.LinkedPRs)
	e.LinkedTickets = unionStrings(e.LinkedTickets, r.LinkedTickets)
	e.SQLStatements = unionStrings(e.SQLStatements, r.SQLStatements)
	e.IssueRefs = unionInts(e.IssueRefs, r.IssueRefs)

	if tags := unionStrings(e.Tags, r.Tags); len(tags) > 0 {
		sort.Strings(tags)
		e.Tags = tags
	}

	mergeSections(&e.Sections, r.Sections)

	e.Body = e.Body + "\n\n" + r.Body
}

// mergeSections merges r's structured content into e, key by key. The
// fixed code-block and list views append; heading buckets append into the
// bucket with the same title, or join as new buckets. Appends into an
// existing non-empty key are suppressed when the heading title or the new
// content mentions sonar, which keeps recurring static-analysis boilerplate
// from piling up.
func mergeSections(e *domain.Sections, r domain.Sections) {
	if r.IsZero() {
		return
	}
	if e.IsZero() {
		*e = r
		return
	}

	e.CodeBlocks = appendItems(e.CodeBlocks, r.CodeBlocks)
	e.Lists = appendItems(e.Lists, r.Lists)

	for _, bucket := range r.Headings {
		idx := e.HeadingIndex(bucket.Title)
		if idx < 0 {
			e.Headings = append(e.Headings, bucket)
			continue
		}
		if len(e.Headings[idx].Lines) == 0 || len(bucket.Lines) == 0 {
			continue
		}
		if containsSonar(bucket.Title) || containsSonar(strings.Join(bucket.Lines, " ")) {
			continue
		}
		e.Headings[idx].Lines = append(e.Headings[idx].Lines, bucket.Lines...)
	}
}

// appendItems appends incoming items to an existing view. An empty existing
// view adopts the incoming items as-is; a non-empty one only takes items
// that do not mention sonar.
func appendItems(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}
	if len(existing) == 0 {
		return incoming
	}
	if containsSonar(strings.Join(incoming, " ")) {
		return existing
	}
	return append(existing, incoming...)
}

func containsSonar(s string) bool {
	return strings.Contains(strings.ToLower(s), "sonar")
}

// unionStrings returns existing followed by the unseen incoming values,
// keeping first-occurrence order. Nil stays nil when nothing is added.
func unionStrings(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		seen[v] = struct{}{}
	}
	out := existing
	for _, v := range incoming {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func unionInts(existing, incoming []int) []int {
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[int]struct{}, len(existing))
	for _, v := range existing {
		seen[v] = struct{}{}
	}
	out := existing
	for _, v := range incoming {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// unionCommits deduplicates by the whole commit value, so the same SHA with
// two different messages keeps both lines.
func unionCommits(existing, incoming []domain.Commit) []domain.Commit {
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[domain.Commit]struct{}, len(existing))
	for _, v := range existing {
		seen[v] = struct{}{}
	}
	out := existing
	for _, v := range incoming {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
