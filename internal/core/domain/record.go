package domain

// Commit is one commit reference lifted out of an email body.
type Commit struct {
	// SHA is the hex hash as it appeared, 7 to 40 characters.
	SHA string `json:"sha"`

	// Short is the first 7 characters of SHA (the whole SHA when shorter).
	Short string `json:"short"`

	// Message is the text after the hash on the same line, empty when absent.
	Message string `json:"message"`
}

// NewCommit builds a Commit, deriving Short from the hash.
func NewCommit(sha, message string) Commit {
	short := sha
	if len(short) > 7 {
		short = short[:7]
	}
	return Commit{SHA: sha, Short: short, Message: message}
}

// Heading is one heading-delimited span of body text.
// The bucket of lines before the first heading has an empty Title.
type Heading struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// Sections holds the structured views extracted from a body: fenced code
// blocks, heading-delimited spans, and list lines. The three views are
// independent scans over the same text, not a partition.
type Sections struct {
	CodeBlocks []string  `json:"code_blocks"`
	Headings   []Heading `json:"headings"`
	Lists      []string  `json:"lists"`
}

// IsZero reports whether no section content was extracted.
func (s Sections) IsZero() bool {
	return len(s.CodeBlocks) == 0 && len(s.Headings) == 0 && len(s.Lists) == 0
}

// HeadingIndex returns the position of the first bucket with the given
// title, or -1.
func (s Sections) HeadingIndex(title string) int {
	for i, h := range s.Headings {
		if h.Title == title {
			return i
		}
	}
	return -1
}

// Record is the normalized representation of one notification email, and
// after merging, of all emails that reference the same pull request.
// Optional list fields are nil when nothing was extracted, never an empty
// slice; the merge logic relies on that to tell "absent" from "present".
type Record struct {
	// ID is the unique identifier assigned at build time.
	ID string `json:"id"`

	// Subject is the raw decoded subject header.
	Subject string `json:"subject"`

	// Sender is the From header, empty when absent.
	Sender string `json:"sender"`

	// Date is the Date header as received, empty when absent.
	Date string `json:"date"`

	// MessageID is the Message-ID header, empty when absent.
	MessageID string `json:"message_id"`

	// PRNumbers are the pull request numbers this email references,
	// deduplicated, in discovery order. May be empty.
	PRNumbers []int `json:"pr_numbers"`

	// PRTitle is the subject with repo, PR and ticket markers stripped.
	// Never starts or ends with '-', ':', '_' or whitespace.
	PRTitle string `json:"pr_title"`

	// Repos are the bracketed repository names from the subject.
	Repos []string `json:"repos"`

	// Tickets are issue-tracker keys like "FOO-123" from the subject.
	Tickets []string `json:"tickets"`

	// Body is the normalized plain-text body. Required, possibly empty.
	// After merging it is the concatenation of all contributing bodies.
	Body string `json:"body"`

	// Sections is the structured markdown content of the body.
	Sections Sections `json:"sections"`

	// Commits are the commit lines found in the body, in encounter order.
	Commits []Commit `json:"commits"`

	// FilesModified are the flattened path segments of diff status lines,
	// deduplicated. "M src/core/index.py" contributes "src", "core",
	// "index.py" rather than the joined path.
	FilesModified []string `json:"files_modified"`

	// Tags is the sorted topical classification of this record.
	Tags []string `json:"tags"`

	// Contributors are the @mentions found in the subject.
	Contributors []string `json:"contributors"`

	// LinkedPRs and LinkedTickets are reserved fields carried through
	// merging but not populated by extraction.
	LinkedPRs     []int    `json:"linked_prs"`
	LinkedTickets []string `json:"linked_tickets"`

	// SQLStatements are statements spotted in the body, through the first
	// semicolon each. Feeds exact-match scoring, not the full text.
	SQLStatements []string `json:"sql_statements"`

	// IssueRefs are issue numbers from "Fixes #N" style phrases.
	IssueRefs []int `json:"issue_refs"`
}

// HasPR reports whether the record references the given PR number.
func (r *Record) HasPR(n int) bool {
	for _, p := range r.PRNumbers {
		if p == n {
			return true
		}
	}
	return false
}

// Normalize turns empty optional collections into nil so that absence is
// represented uniformly. Safe to call repeatedly.
func (r *Record) Normalize() {
	if len(r.PRNumbers) == 0 {
		r.PRNumbers = nil
	}
	if len(r.Repos) == 0 {
		r.Repos = nil
	}
	if len(r.Tickets) == 0 {
		r.Tickets = nil
	}
	if len(r.Commits) == 0 {
		r.Commits = nil
	}
	if len(r.FilesModified) == 0 {
		r.FilesModified = nil
	}
	if len(r.Tags) == 0 {
		r.Tags = nil
	}
	if len(r.Contributors) == 0 {
		r.Contributors = nil
	}
	if len(r.LinkedPRs) == 0 {
		r.LinkedPRs = nil
	}
	if len(r.LinkedTickets) == 0 {
		r.LinkedTickets = nil
	}
	if len(r.SQLStatements) == 0 {
		r.SQLStatements = nil
	}
	if len(r.IssueRefs) == 0 {
		r.IssueRefs = nil
	}
	if len(r.Sections.CodeBlocks) == 0 {
		r.Sections.CodeBlocks = nil
	}
	if len(r.Sections.Headings) == 0 {
		r.Sections.Headings = nil
	}
	if len(r.Sections.Lists) == 0 {
		r.Sections.Lists = nil
	}
}
