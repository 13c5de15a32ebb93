package tags

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// Ensure RuleClassifier implements the interface.
var _ Classifier = (*RuleClassifier)(nil)

// rule associates one tag with the patterns that assign it.
type rule struct {
	tag      string
	patterns []*regexp.Regexp
}

// titleRules match on word boundaries in lowercased free text. They apply
// to titles and to section content alike.
var titleRules = []rule{
	{tag: "bug", patterns: compile(`\bbug\b`, `\bfix\b`, `\berror\b`, `\bissue\b`, `\bcrash\b`, `\bhotfix\b`)},
	{tag: "sql", patterns: compile(`\bsql\b`, `\btable\b`, `\bdatabase\b`, `\bdb\b`, `\bquery\b`)},
	{tag: "ui", patterns: compile(`\bui\b`, `\bux\b`, `\bfrontend\b`, `\bbutton\b`, `\blayout\b`, `\bdesign\b`)},
	{tag: "api", patterns: compile(`\bapi\b`, `\bendpoints?\b`, `\brest\b`, `\bjson\b`)},
	{tag: "security", patterns: compile(`\bsecurity\b`, `\bxss\b`, `\bsql[\s_-]?injection\b`, `\bauth(entication|orization)?\b`, `\bcsrf\b`)},
	{tag: "performance", patterns: compile(`\bperformance\b`, `\bspeed\b`, `\bfaster\b`, `\boptimi[sz](e|ing|ation)?\b`, `\blatency\b`)},
}

// fileRules are substring matches against lowercased path segments. The
// segments arrive flattened ("src", "core", "index.py"), so the
// slash-delimited directory patterns rarely fire; the extension and
// bare-word patterns do the work.
var fileRules = []struct {
	tag      string
	patterns []string
}{
	{tag: "ui", patterns: []string{"/ui/", "/frontend/", "/components/", "/views/", "/templates/", ".css", ".scss", ".sass", ".less", ".jsx", ".tsx", ".vue", ".html", ".phtml"}},
	{tag: "sql", patterns: []string{"/migrations/", "/migration/", "/db/", "/database/", ".sql"}},
	{tag: "api", patterns: []string{"/api/", "/routes/", "/controllers/", "/endpoints/", "router", "controller"}},
	{tag: "security", patterns: []string{"/auth/", "/authentication/", "/authorization/", "jwt", "oauth", "/security/", "permissions"}},
	{tag: "performance", patterns: []string{"cache", "caching", "/utils/perf", "/performance/", "indexing", "batch", "async", "concurrency"}},
	{tag: "backend", patterns: []string{"/services/", "/models/", "/handlers/", "/core/", ".go", ".rb", ".py", ".java", ".ts", ".php"}},
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// RuleClassifier assigns tags by pattern matching alone. Fixed input, fixed
// output, no external calls.
type RuleClassifier struct{}

// NewRuleClassifier creates a rule-based classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify returns the sorted union of title, file and section rule hits.
func (c *RuleClassifier) Classify(_ context.Context, title string, files []string, sections domain.Sections) ([]string, error) {
	set := make(map[string]struct{})
	for _, tag := range c.TagsFromTitle(title) {
		set[tag] = struct{}{}
	}
	for _, tag := range c.TagsFromFiles(files) {
		set[tag] = struct{}{}
	}
	for _, tag := range c.TagsFromTitle(sectionText(sections)) {
		set[tag] = struct{}{}
	}
	return sortedTags(set), nil
}

// TagsFromTitle applies the word-boundary rules to free text.
func (c *RuleClassifier) TagsFromTitle(text string) []string {
	lowered := strings.ToLower(text)
	var out []string
	for _, r := range titleRules {
		for _, p := range r.patterns {
			if p.MatchString(lowered) {
				out = append(out, r.tag)
				break
			}
		}
	}
	return out
}

// TagsFromFiles applies the substring rules to path segments.
func (c *RuleClassifier) TagsFromFiles(files []string) []string {
	var out []string
	for _, r := range fileRules {
		if anySegmentMatches(files, r.patterns) {
			out = append(out, r.tag)
		}
	}
	return out
}

func anySegmentMatches(files []string, patterns []string) bool {
	for _, f := range files {
		lowered := strings.ToLower(f)
		for _, p := range patterns {
			if strings.Contains(lowered, p) {
				return true
			}
		}
	}
	return false
}

// sectionText flattens every heading bucket's content lines into one
// comma-joined string. Titles are excluded; only collected lines count.
func sectionText(sections domain.Sections) string {
	parts := make([]string, 0, len(sections.Headings))
	for _, h := range sections.Headings {
		parts = append(parts, strings.Join(h.Lines, ","))
	}
	return strings.Join(parts, ",")
}

func sortedTags(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
