package tags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

func TestTagsFromTitle(t *testing.T) {
	c := NewRuleClassifier()

	tests := []struct {
		name     string
		title    string
		expected []string
	}{
		{
			name:     "fix and db words",
			title:    "Fix crash when DB table missing",
			expected: []string{"bug", "sql"},
		},
		{
			name:     "word boundary blocks tableview",
			title:    "tableView update",
			expected: nil,
		},
		{
			name:     "case insensitive",
			title:    "FIX Bug IN UI MODULE",
			expected: []string{"bug", "ui"},
		},
		{
			name:     "no matches",
			title:    "Add documentation and README updates",
			expected: nil,
		},
		{
			name:     "authorization",
			title:    "Harden authorization checks",
			expected: []string{"security"},
		},
		{
			name:     "query and optimise",
			title:    "Optimise query planner",
			expected: []string{"sql", "performance"},
		},
		{
			name:     "empty title",
			title:    "",
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, c.TagsFromTitle(tc.title))
		})
	}
}

func TestTagsFromFiles(t *testing.T) {
	c := NewRuleClassifier()

	tests := []struct {
		name     string
		files    []string
		expected []string
	}{
		{
			name:     "python extension",
			files:    []string{"src", "app", "index.py"},
			expected: []string{"backend"},
		},
		{
			name:     "controller fragment",
			files:    []string{"UserController.php"},
			expected: []string{"api", "backend"},
		},
		{
			name:     "stylesheet",
			files:    []string{"styles.css"},
			expected: []string{"ui"},
		},
		{
			name:     "sql file",
			files:    []string{"0001_init.sql"},
			expected: []string{"sql"},
		},
		{
			name:     "jwt fragment",
			files:    []string{"jwt_helper.py"},
			expected: []string{"security", "backend"},
		},
		{
			name:     "cache fragment",
			files:    []string{"cache_layer.go"},
			expected: []string{"performance", "backend"},
		},
		{
			name:     "no files",
			files:    nil,
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, c.TagsFromFiles(tc.files))
		})
	}
}

func TestRuleClassifier_Classify(t *testing.T) {
	c := NewRuleClassifier()
	sections := domain.Sections{
		Headings: []domain.Heading{
			{Title: "Summary", Lines: []string{"tuned the cache for latency"}},
		},
	}

	got, err := c.Classify(context.Background(), "Fix login UI", []string{"handlers", "login.go"}, sections)
	require.NoError(t, err)

	// Sorted union of title, file and section hits.
	assert.Equal(t, []string{"backend", "bug", "performance", "ui"}, got)
}

func TestRuleClassifier_SectionTitlesExcluded(t *testing.T) {
	c := NewRuleClassifier()
	sections := domain.Sections{
		Headings: []domain.Heading{
			// The title would match the sql rule, but titles do not count.
			{Title: "Database Changes", Lines: []string{"renamed a directory"}},
		},
	}

	got, err := c.Classify(context.Background(), "", nil, sections)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRuleClassifier_NothingMatches(t *testing.T) {
	c := NewRuleClassifier()

	got, err := c.Classify(context.Background(), "Routine chores", nil, domain.Sections{})
	require.NoError(t, err)
	assert.Nil(t, got)
}
