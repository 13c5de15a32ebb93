// Package transcript provides the conversation transcript component for the TUI.
package transcript

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driving/tui/styles"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// RoleError marks an entry that reports a failed exchange. It never
// appears in stored conversation history, only on screen.
const RoleError = "error"

// Entry is a single rendered message in the transcript.
type Entry struct {
	Role    string
	Text    string
	Sources []string
}

// Transcript displays the conversation as a scrollable window of
// rendered lines, pinned to the newest message.
type Transcript struct {
	entries []Entry
	styles  *styles.Styles
	width   int
	height  int
	offset  int // lines scrolled up from the bottom
}

// New creates a new transcript component.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Transcript{
		entries: nil,
		styles:  s,
		width:   80,
		height:  10,
		offset:  0,
	}
}

// Init initialises the transcript.
func (t *Transcript) Init() tea.Cmd {
	return nil
}

// Update handles transcript messages.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	// Transcript is passive, updated via Append and the scroll methods
	return t, nil
}

// View renders the visible window of the transcript.
func (t *Transcript) View() string {
	lines := t.lines()
	if len(lines) <= t.height {
		return strings.Join(lines, "\n")
	}

	start := len(lines) - t.height - t.offset
	if start < 0 {
		start = 0
	}
	end := start + t.height
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

// lines renders every entry to display lines.
func (t *Transcript) lines() []string {
	if len(t.entries) == 0 {
		return []string{t.styles.Muted.Render("No messages yet. Ask about your indexed PR emails.")}
	}

	wrap := t.width - 2
	if wrap < 20 {
		wrap = 20
	}

	lines := make([]string, 0, len(t.entries)*4)
	for i := range t.entries {
		e := &t.entries[i]

		lines = append(lines, t.renderRole(e.Role))

		body := t.styles.Normal.Width(wrap).Render(e.Text)
		lines = append(lines, strings.Split(body, "\n")...)

		if len(e.Sources) > 0 {
			lines = append(lines, t.styles.Subtitle.Render("Sources:"))
			for j, src := range e.Sources {
				lines = append(lines, t.styles.Muted.Render(fmt.Sprintf("  [%d] %s", j+1, src)))
			}
		}

		lines = append(lines, "")
	}

	return lines
}

// renderRole formats the speaker label for an entry.
func (t *Transcript) renderRole(role string) string {
	switch role {
	case domain.RoleUser:
		return t.styles.User.Render("You")
	case domain.RoleAssistant:
		return t.styles.Assistant.Render("prmail")
	case RoleError:
		return t.styles.Error.Render("error")
	}
	return t.styles.Normal.Render(role)
}

// Append adds an entry and jumps the window back to the newest message.
func (t *Transcript) Append(entry Entry) {
	t.entries = append(t.entries, entry)
	t.offset = 0
}

// SetEntries replaces all entries.
func (t *Transcript) SetEntries(entries []Entry) {
	t.entries = entries
	t.offset = 0
}

// Entries returns the current entries.
func (t *Transcript) Entries() []Entry {
	return t.entries
}

// ScrollUp moves the window one line towards the oldest message.
func (t *Transcript) ScrollUp() {
	maxOffset := len(t.lines()) - t.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if t.offset < maxOffset {
		t.offset++
	}
}

// ScrollDown moves the window one line towards the newest message.
func (t *Transcript) ScrollDown() {
	if t.offset > 0 {
		t.offset--
	}
}

// SetDimensions sets the component dimensions.
func (t *Transcript) SetDimensions(width, height int) {
	t.width = width
	if height < 1 {
		height = 1
	}
	t.height = height
}

// Width returns the current width.
func (t *Transcript) Width() int {
	return t.width
}

// Height returns the current height.
func (t *Transcript) Height() int {
	return t.height
}

// Count returns the number of entries.
func (t *Transcript) Count() int {
	return len(t.entries)
}

// IsEmpty returns whether the transcript has no entries.
func (t *Transcript) IsEmpty() bool {
	return len(t.entries) == 0
}
