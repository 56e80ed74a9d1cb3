// Package classify decides which comment grammar applies to a tracked file.
package classify

import (
	"path"
	"slices"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/commentlife/pkg/comments"
	"github.com/Sumatoshi-tech/commentlife/pkg/lifecycle"
)

// Rule maps a file extension, dot included, to a grammar.
type Rule struct {
	Extension string
	Language  comments.Language
}

// DefaultRules returns the built-in extension table. Matching is
// case-sensitive: ".F90" is Fortran, ".f90" is not.
func DefaultRules() []Rule {
	return []Rule{
		{Extension: ".py", Language: comments.Python},
		{Extension: ".F90", Language: comments.Fortran},
		{Extension: ".cpp", Language: comments.CFamily},
		{Extension: ".h", Language: comments.CFamily},
		{Extension: ".hpp", Language: comments.CFamily},
	}
}

// processingOrder is the order in which language groups are walked.
var processingOrder = []comments.Language{comments.CFamily, comments.Fortran, comments.Python}

// enryLanguages maps linguist names onto grammars for the detection fallback.
var enryLanguages = map[string]comments.Language{
	"Python":            comments.Python,
	"C":                 comments.CFamily,
	"C++":               comments.CFamily,
	"Fortran":           comments.Fortran,
	"Fortran Free Form": comments.Fortran,
}

// Classifier assigns grammars to paths.
type Classifier struct {
	rules  map[string]comments.Language
	detect bool
}

// New builds a classifier from rules; nil rules select DefaultRules. With
// detect set, paths the table does not cover fall back to enry's extension
// detection.
func New(rules []Rule, detect bool) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}

	table := make(map[string]comments.Language, len(rules))
	for _, rule := range rules {
		table[rule.Extension] = rule.Language
	}

	return &Classifier{rules: table, detect: detect}
}

// Classify returns the grammar for p, or comments.Unknown.
func (c *Classifier) Classify(p string) comments.Language {
	if lang, ok := c.rules[path.Ext(p)]; ok {
		return lang
	}

	if !c.detect {
		return comments.Unknown
	}

	name, _ := enry.GetLanguageByExtension(path.Base(p))

	if lang, ok := enryLanguages[name]; ok {
		return lang
	}

	return comments.Unknown
}

// Targets classifies paths and returns the walkable ones grouped C-family,
// then Fortran, then Python, sorted within each group. Unclassified paths
// are dropped.
func (c *Classifier) Targets(paths []string) []lifecycle.Target {
	groups := make(map[comments.Language][]string, len(processingOrder))

	for _, p := range paths {
		lang := c.Classify(p)
		if lang == comments.Unknown {
			continue
		}

		groups[lang] = append(groups[lang], p)
	}

	var targets []lifecycle.Target

	for _, lang := range processingOrder {
		group := groups[lang]
		slices.Sort(group)

		for _, p := range group {
			targets = append(targets, lifecycle.Target{Path: p, Language: lang})
		}
	}

	return targets
}
