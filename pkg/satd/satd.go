// Package satd flags self-admitted technical debt: ledger comments that
// contain one of a list of debt keywords ("todo", "hack", "fixme", ...).
package satd

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/commentlife/pkg/lifecycle"
)

var specialChars = regexp.MustCompile(`[^a-z0-9\s]`)

// Preprocess lowercases text, drops everything but ASCII letters, digits and
// whitespace, and collapses whitespace runs to single spaces.
func Preprocess(text string) string {
	cleaned := specialChars.ReplaceAllString(strings.ToLower(text), "")

	return strings.Join(strings.Fields(cleaned), " ")
}

// LoadKeywords reads one keyword per line, skipping blank lines.
func LoadKeywords(r io.Reader) ([]string, error) {
	var keywords []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if kw := strings.TrimSpace(scanner.Text()); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read keywords: %w", err)
	}

	return keywords, nil
}

// Filter matches comments against a keyword list on word boundaries.
type Filter struct {
	pattern *regexp.Regexp
}

// NewFilter compiles keywords into a filter. Keywords go through Preprocess
// so they compare against preprocessed comments; keywords that preprocess
// to nothing are ignored. A filter without keywords matches nothing.
func NewFilter(keywords []string) *Filter {
	alternatives := make([]string, 0, len(keywords))

	for _, kw := range keywords {
		if kw = Preprocess(kw); kw != "" {
			alternatives = append(alternatives, regexp.QuoteMeta(kw))
		}
	}

	if len(alternatives) == 0 {
		return &Filter{}
	}

	return &Filter{pattern: regexp.MustCompile(`\b(?:` + strings.Join(alternatives, "|") + `)\b`)}
}

// Match reports whether comment contains any keyword.
func (f *Filter) Match(comment string) bool {
	if f.pattern == nil {
		return false
	}

	return f.pattern.MatchString(Preprocess(comment))
}

// Rows returns the rows whose comment matches, in input order.
func (f *Filter) Rows(rows []lifecycle.Row) []lifecycle.Row {
	var out []lifecycle.Row

	for _, row := range rows {
		if f.Match(row.Comment) {
			out = append(out, row)
		}
	}

	return out
}
