package domain

import (
	"strconv"
	"strings"
)

// FullText renders the record into the single text blob used for
// embedding and prompting. The section order and the omission of empty
// fields are fixed: embeddings are sensitive to input ordering, so the
// same record must always render to the same string.
func (r *Record) FullText() string {
	parts := make([]string, 0, 12)

	if len(r.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(r.Tags, ", "))
	}
	if r.PRTitle != "" {
		parts = append(parts, "Title: "+r.PRTitle)
	}
	if len(r.PRNumbers) > 0 {
		parts = append(parts, "PR Numbers: "+joinInts(dedupeInts(r.PRNumbers), ", "))
	}
	if len(r.Repos) > 0 {
		parts = append(parts, "Repos: "+strings.Join(r.Repos, ", "))
	}
	if len(r.Tickets) > 0 {
		parts = append(parts, "Tickets: "+strings.Join(r.Tickets, ", "))
	}
	if md := r.Sections.renderLines(); len(md) > 0 {
		parts = append(parts, "Markdown Sections:\n"+strings.Join(md, "\n"))
	}
	if len(r.Commits) > 0 {
		lines := make([]string, len(r.Commits))
		for i, c := range r.Commits {
			lines[i] = c.Short + "," + c.Message
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	if len(r.FilesModified) > 0 {
		parts = append(parts, strings.Join(r.FilesModified, "\n"))
	}
	if len(r.LinkedPRs) > 0 {
		parts = append(parts, "Linked PRs: "+joinInts(r.LinkedPRs, ", "))
	}
	if len(r.LinkedTickets) > 0 {
		parts = append(parts, "Linked Tickets: "+strings.Join(r.LinkedTickets, ", "))
	}
	if len(r.Contributors) > 0 {
		parts = append(parts, "Contributors: "+strings.Join(r.Contributors, ", "))
	}

	// The body is always the final part, even when empty.
	parts = append(parts, r.Body)

	return strings.Join(parts, "\n\n")
}

// renderLines flattens the sections into "## key" / "- item" lines.
// Code blocks and lists render under fixed pseudo-headings; the preamble
// bucket renders its lines without a heading of its own.
func (s Sections) renderLines() []string {
	var lines []string

	if len(s.CodeBlocks) > 0 {
		lines = append(lines, "## code_blocks")
		for _, b := range s.CodeBlocks {
			lines = append(lines, "- "+b)
		}
	}
	for _, h := range s.Headings {
		if h.Title != "" {
			lines = append(lines, "## "+h.Title)
		}
		for _, l := range h.Lines {
			lines = append(lines, "- "+l)
		}
	}
	if len(s.Lists) > 0 {
		lines = append(lines, "## lists")
		for _, it := range s.Lists {
			lines = append(lines, "- "+it)
		}
	}

	return lines
}

func dedupeInts(ns []int) []int {
	seen := make(map[int]struct{}, len(ns))
	out := make([]int, 0, len(ns))
	for _, n := range ns {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func joinInts(ns []int, sep string) string {
	strs := make([]string, len(ns))
	for i, n := range ns {
		strs[i] = strconv.Itoa(n)
	}
	return strings.Join(strs, sep)
}
