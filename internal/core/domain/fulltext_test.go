package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFullText_AllFields tests the full rendering order with every field set
func TestFullText_AllFields(t *testing.T) {
	r := Record{
		PRNumbers: []int{42, 42, 7},
		PRTitle:   "Fix bug",
		Repos:     []string{"org/repo"},
		Tickets:   []string{"FOO-123"},
		Body:      "see commit below",
		Sections: Sections{
			Headings: []Heading{{Title: "Summary", Lines: []string{"fixed the crash"}}},
		},
		Commits:       []Commit{NewCommit("a1b2c3d4e5f6071", "Fix crash")},
		FilesModified: []string{"src", "core", "index.py"},
		Tags:          []string{"bug"},
		Contributors:  []string{"alice"},
		LinkedPRs:     []int{99},
		LinkedTickets: []string{"BAR-9"},
	}

	got := r.FullText()

	want := strings.Join([]string{
		"Tags: bug",
		"Title: Fix bug",
		"PR Numbers: 42, 7",
		"Repos: org/repo",
		"Tickets: FOO-123",
		"Markdown Sections:\n## Summary\n- fixed the crash",
		"a1b2c3d,Fix crash",
		"src\ncore\nindex.py",
		"Linked PRs: 99",
		"Linked Tickets: BAR-9",
		"Contributors: alice",
		"see commit below",
	}, "\n\n")

	assert.Equal(t, want, got)
}

// TestFullText_Deterministic tests that repeated rendering is byte-identical
func TestFullText_Deterministic(t *testing.T) {
	r := Record{
		PRNumbers: []int{8040},
		PRTitle:   "Update handler",
		Body:      "body text",
		Tags:      []string{"api", "bug"},
	}

	first := r.FullText()
	for range 20 {
		assert.Equal(t, first, r.FullText())
	}
}

// TestFullText_EmptyFieldsOmitted tests that absent fields emit no part at all
func TestFullText_EmptyFieldsOmitted(t *testing.T) {
	r := Record{Body: "only a body"}

	got := r.FullText()

	assert.Equal(t, "only a body", got)
	assert.NotContains(t, got, "Tags:")
	assert.NotContains(t, got, "PR Numbers:")
	assert.NotContains(t, got, "Markdown Sections:")
}

// TestFullText_EmptyBodyStillAppended tests that the body part is unconditional
func TestFullText_EmptyBodyStillAppended(t *testing.T) {
	r := Record{PRTitle: "Fix bug", Body: ""}

	got := r.FullText()

	assert.Equal(t, "Title: Fix bug\n\n", got)
}

// TestFullText_CommitWithoutMessage tests the trailing comma on bare-sha lines
func TestFullText_CommitWithoutMessage(t *testing.T) {
	r := Record{
		Commits: []Commit{NewCommit("abcdef1234567", "")},
		Body:    "b",
	}

	got := r.FullText()

	assert.Contains(t, got, "abcdef1,\n\nb")
}

// TestFullText_SectionsRendering tests code block, heading, preamble and list rendering
func TestFullText_SectionsRendering(t *testing.T) {
	r := Record{
		Body: "b",
		Sections: Sections{
			CodeBlocks: []string{"SELECT 1;"},
			Headings: []Heading{
				{Title: "", Lines: []string{"intro line"}},
				{Title: "File Changes", Lines: []string{"M a.py (2)"}},
			},
			Lists: []string{"- first", "2. second"},
		},
	}

	got := r.FullText()

	require.Contains(t, got, "Markdown Sections:\n")
	md := strings.SplitN(got, "Markdown Sections:\n", 2)[1]
	md = strings.SplitN(md, "\n\n", 2)[0]

	want := strings.Join([]string{
		"## code_blocks",
		"- SELECT 1;",
		"- intro line",
		"## File Changes",
		"- M a.py (2)",
		"## lists",
		"- - first",
		"- 2. second",
	}, "\n")
	assert.Equal(t, want, md)
}

// TestFullText_PRNumberDedupe tests first-seen dedupe of PR numbers
func TestFullText_PRNumberDedupe(t *testing.T) {
	r := Record{PRNumbers: []int{7, 42, 7, 42, 42}, Body: "b"}

	assert.Contains(t, r.FullText(), "PR Numbers: 7, 42")
	assert.NotContains(t, r.FullText(), "7, 42, 7")
}
