package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// SubjectMeta is the structured metadata recoverable from a notification
// subject line.
type SubjectMeta struct {
	// Repos holds every bracketed token, e.g. "org/repo" from "[org/repo]",
	// in encounter order.
	Repos []string

	// PRNumbers holds pull-request numbers referenced by an explicit marker
	// (#42, PR #42, pull request #42), deduplicated, in encounter order.
	PRNumbers []int

	// Tickets holds issue-tracker keys such as "JIRA-123".
	Tickets []string

	// PRTitle is the subject with every recognised marker removed.
	PRTitle string

	// Contributors holds @-mentioned usernames, deduplicated.
	Contributors []string
}

var (
	bracketRe  = regexp.MustCompile(`\[([^\]]+)\]`)
	prMarkerRe = regexp.MustCompile(`(?i)(?:PR\s*#|pull request\s*#|#)(\d+)`)
	ticketRe   = regexp.MustCompile(`\b([A-Z]+-\d+)\b`)
	mentionRe  = regexp.MustCompile(`@([A-Za-z0-9-]+)`)
)

// ParseSubject pulls repositories, PR numbers, tickets, contributors and the
// cleaned human title out of a subject line like
// "[org/repo] PR #42: Fix bug FOO-123".
func ParseSubject(subject string) SubjectMeta {
	meta := SubjectMeta{}

	for _, m := range bracketRe.FindAllStringSubmatch(subject, -1) {
		meta.Repos = append(meta.Repos, m[1])
	}

	// Digits inside repo brackets must not be mistaken for PR numbers, so
	// the marker scan runs over the subject with bracketed spans removed.
	stripped := bracketRe.ReplaceAllString(subject, "")
	seenNumbers := make(map[int]struct{})
	for _, m := range prMarkerRe.FindAllStringSubmatch(stripped, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := seenNumbers[n]; ok {
			continue
		}
		seenNumbers[n] = struct{}{}
		meta.PRNumbers = append(meta.PRNumbers, n)
	}

	for _, m := range ticketRe.FindAllStringSubmatch(subject, -1) {
		meta.Tickets = append(meta.Tickets, m[1])
	}

	seenNames := make(map[string]struct{})
	for _, m := range mentionRe.FindAllStringSubmatch(subject, -1) {
		if _, ok := seenNames[m[1]]; ok {
			continue
		}
		seenNames[m[1]] = struct{}{}
		meta.Contributors = append(meta.Contributors, m[1])
	}

	meta.PRTitle = cleanTitle(subject, meta.Repos, meta.PRNumbers, meta.Tickets)
	return meta
}

// cleanTitle removes every extracted marker from the subject and trims the
// leftover separators. Only markers tied to extracted values are touched;
// arbitrary digit runs survive.
func cleanTitle(subject string, repos []string, prNumbers []int, tickets []string) string {
	title := subject
	for _, repo := range repos {
		title = strings.ReplaceAll(title, "["+repo+"]", "")
	}
	for _, n := range prNumbers {
		re := regexp.MustCompile(`(?i)(?:PR\s*#|pull request\s*#|#)` + strconv.Itoa(n))
		title = re.ReplaceAllString(title, "")
	}
	for _, ticket := range tickets {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(ticket) + `[:\-\s]*`)
		title = re.ReplaceAllString(title, "")
	}
	return strings.Trim(title, " -:_")
}
