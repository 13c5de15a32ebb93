package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

var (
	// The message separator is spaces and tabs only so a commit message can
	// never be pulled in from the following line.
	commitLineRe = regexp.MustCompile(`(?m)^[ \t]*([0-9a-f]{7,40})\b(?:[ \t]+(.+))?`)

	fileLineRe    = regexp.MustCompile(`(?m)^[ \t]*(?:M|A|D|R\d{1,3})\s+(?:a/|b/)?([A-Za-z0-9_./\-\+]+)`)
	changeCountRe = regexp.MustCompile(`\(\d+\)$`)

	sqlStatementRe = regexp.MustCompile(`(?i)((?:SELECT|UPDATE|DELETE|INSERT|CREATE)[\s\S]+?;)`)
	issueRefRe     = regexp.MustCompile(`(?i)(?:Issue|Fixes|Closes)\s*#?(\d+)`)
	pullPathRe     = regexp.MustCompile(`/pull/(\d+)/`)
)

// ExtractCommits finds commit lines in a body: a 7-40 character hex token at
// the start of a line, optionally followed by the commit message on the same
// line. Diff hunks can produce hex-looking noise; that is accepted. Order is
// preserved and duplicates are kept.
func ExtractCommits(body string) []domain.Commit {
	var commits []domain.Commit
	for _, m := range commitLineRe.FindAllStringSubmatch(body, -1) {
		commits = append(commits, domain.NewCommit(m[1], strings.TrimSpace(m[2])))
	}
	return commits
}

// ExtractFilesModified finds git status lines ("M path", "A path", "D path",
// "R100 path") and returns the deduplicated path segments, not whole paths:
// "M src/core/index.py" contributes "src", "core" and "index.py". The
// flattened segments are what the tag rules and the exact-match scorer
// consume.
func ExtractFilesModified(body string) []string {
	var segments []string
	seen := make(map[string]struct{})
	for _, m := range fileLineRe.FindAllStringSubmatch(body, -1) {
		path := strings.TrimSpace(changeCountRe.ReplaceAllString(m[1], ""))
		for _, segment := range strings.Split(path, "/") {
			if segment == "" {
				continue
			}
			if _, ok := seen[segment]; ok {
				continue
			}
			seen[segment] = struct{}{}
			segments = append(segments, segment)
		}
	}
	return segments
}

// ExtractSQLStatements captures SQL keyword runs through their terminating
// semicolon, in encounter order.
func ExtractSQLStatements(body string) []string {
	var statements []string
	for _, m := range sqlStatementRe.FindAllStringSubmatch(body, -1) {
		statements = append(statements, strings.TrimSpace(m[1]))
	}
	return statements
}

// ExtractIssueRefs finds issue references such as "Fixes #123", "Closes 45"
// or "Issue #7", deduplicated, in encounter order.
func ExtractIssueRefs(body string) []int {
	var refs []int
	seen := make(map[int]struct{})
	for _, m := range issueRefRe.FindAllStringSubmatch(body, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		refs = append(refs, n)
	}
	return refs
}

// PRNumberFromMessageID recovers a pull-request number from a GitHub
// notification Message-ID, which embeds a "/pull/<n>/" path segment.
func PRNumberFromMessageID(messageID string) (int, bool) {
	m := pullPathRe.FindStringSubmatch(messageID)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
