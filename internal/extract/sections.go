package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

var (
	fencedBlockRe  = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*\n(.*?)```")
	atxHeadingRe   = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	plainHeadingRe = regexp.MustCompile(`(?i)^(Commit Summary|File Changes|What changed\?|What changed|Summary|Implementation Details|Implementation|Testing Notes|Changelog|Description)\s*(?:\(.+\))?$`)
	listLineRe     = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+]|\d+\.)\s+.+$`)
)

// ExtractSections builds the three structural views over a body: fenced code
// blocks, heading-delimited buckets and list lines. The views are
// independent scans of the same text; a list line under a heading appears in
// both.
func ExtractSections(body string) domain.Sections {
	sections := domain.Sections{}

	for _, m := range fencedBlockRe.FindAllStringSubmatch(body, -1) {
		sections.CodeBlocks = append(sections.CodeBlocks, strings.TrimSpace(m[1]))
	}

	sections.Headings = extractHeadings(body)

	for _, line := range listLineRe.FindAllString(body, -1) {
		sections.Lists = append(sections.Lists, strings.TrimSpace(line))
	}

	return sections
}

// extractHeadings walks the body line by line. ATX headings and a fixed
// vocabulary of plain section headers each start a new bucket; other
// non-blank lines accumulate under the current bucket, right-trimmed. Lines
// before the first heading land in an untitled preamble bucket that is only
// emitted when it collected something; a heading with no content still
// yields an empty bucket.
func extractHeadings(body string) []domain.Heading {
	var headings []domain.Heading
	current := domain.Heading{}
	started := false

	flush := func() {
		if started || len(current.Lines) > 0 {
			headings = append(headings, current)
		}
	}

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		if line == "" {
			continue
		}

		if m := atxHeadingRe.FindStringSubmatch(line); m != nil {
			flush()
			current = domain.Heading{Title: strings.TrimSpace(m[2])}
			started = true
			continue
		}
		if m := plainHeadingRe.FindStringSubmatch(line); m != nil {
			flush()
			current = domain.Heading{Title: m[1]}
			started = true
			continue
		}

		current.Lines = append(current.Lines, line)
	}
	flush()

	return headings
}
