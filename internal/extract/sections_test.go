package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

func TestExtractSections_IndependentViews(t *testing.T) {
	body := "Intro line.\n" +
		"\n" +
		"## File Changes\n" +
		"- M src/app.py\n" +
		"- M src/db.py\n" +
		"\n" +
		"Testing Notes (2)\n" +
		"All suites green.\n" +
		"```sql\n" +
		"SELECT 1;\n" +
		"```\n"

	sections := ExtractSections(body)

	assert.Equal(t, []string{"SELECT 1;"}, sections.CodeBlocks)

	require.Len(t, sections.Headings, 3)
	assert.Equal(t, domain.Heading{Title: "", Lines: []string{"Intro line."}}, sections.Headings[0])
	assert.Equal(t, domain.Heading{Title: "File Changes", Lines: []string{"- M src/app.py", "- M src/db.py"}}, sections.Headings[1])
	// The fence lines count as heading content too: the three views are
	// separate scans, not a partition.
	assert.Equal(t, domain.Heading{Title: "Testing Notes", Lines: []string{"All suites green.", "```sql", "SELECT 1;", "```"}}, sections.Headings[2])

	assert.Equal(t, []string{"- M src/app.py", "- M src/db.py"}, sections.Lists)
}

func TestExtractSections_EmptyBody(t *testing.T) {
	sections := ExtractSections("")

	assert.True(t, sections.IsZero())
	assert.Nil(t, sections.CodeBlocks)
	assert.Nil(t, sections.Headings)
	assert.Nil(t, sections.Lists)
}

func TestExtractSections_UnclosedFence(t *testing.T) {
	sections := ExtractSections("```go\nfmt.Println(1)\n")

	assert.Nil(t, sections.CodeBlocks)
}

func TestExtractSections_ListMarkers(t *testing.T) {
	body := "1. first\n2) second\n* third\n+ fourth\n-dangling\n"

	sections := ExtractSections(body)

	// "2)" and "-dangling" are not list markers.
	assert.Equal(t, []string{"1. first", "* third", "+ fourth"}, sections.Lists)
}

func TestExtractHeadings_HeadingWithoutContent(t *testing.T) {
	sections := ExtractSections("## Alpha\n## Beta\ncontent under beta\n")

	require.Len(t, sections.Headings, 2)
	assert.Equal(t, "Alpha", sections.Headings[0].Title)
	assert.Empty(t, sections.Headings[0].Lines)
	assert.Equal(t, "Beta", sections.Headings[1].Title)
	assert.Equal(t, []string{"content under beta"}, sections.Headings[1].Lines)
}

func TestExtractHeadings_PlainVocabularyCasing(t *testing.T) {
	sections := ExtractSections("what changed?\nswapped the cache layer\n")

	require.Len(t, sections.Headings, 1)
	// Title keeps the input casing; the parenthesized suffix, when present,
	// is dropped.
	assert.Equal(t, "what changed?", sections.Headings[0].Title)
	assert.Equal(t, []string{"swapped the cache layer"}, sections.Headings[0].Lines)
}

func TestExtractHeadings_SuffixDropped(t *testing.T) {
	sections := ExtractSections("File Changes (3)\nM a.py\n")

	require.Len(t, sections.Headings, 1)
	assert.Equal(t, "File Changes", sections.Headings[0].Title)
}

func TestExtractHeadings_BlankLinesNeverBecomeContent(t *testing.T) {
	sections := ExtractSections("## Summary\n\n   \n\nline one\n")

	require.Len(t, sections.Headings, 1)
	assert.Equal(t, []string{"line one"}, sections.Headings[0].Lines)
}

func TestExtractHeadings_IndentedLinesKeepLeadingWhitespace(t *testing.T) {
	sections := ExtractSections("## Detail\n    indented line\n")

	require.Len(t, sections.Headings, 1)
	assert.Equal(t, []string{"    indented line"}, sections.Headings[0].Lines)
}

func TestExtractHeadings_NoPreambleWithoutContent(t *testing.T) {
	sections := ExtractSections("## Only\nstuff\n")

	require.Len(t, sections.Headings, 1)
	assert.Equal(t, "Only", sections.Headings[0].Title)
}
