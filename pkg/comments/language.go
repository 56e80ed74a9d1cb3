package comments

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/commentlife/pkg/textutil"
)

// Sentinel errors.
var (
	// ErrDecode is returned when content cannot be read as text.
	ErrDecode = errors.New("content is not valid text")
	// ErrUnsupportedLanguage is returned for a language without a grammar.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Language selects a comment grammar.
type Language int

// Supported languages.
const (
	Unknown Language = iota
	Python
	CFamily
	Fortran
)

// String returns the canonical language name.
func (l Language) String() string {
	switch l {
	case Python:
		return "python"
	case CFamily:
		return "cpp"
	case Fortran:
		return "fortran"
	case Unknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// ParseLanguage maps a user-supplied name to a Language.
func ParseLanguage(name string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "python", "py":
		return Python, nil
	case "cpp", "c++", "c", "cfamily", "c-family":
		return CFamily, nil
	case "fortran", "f90":
		return Fortran, nil
	default:
		return Unknown, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
	}
}

// Extractor turns the content of one file snapshot into its comment set.
type Extractor interface {
	// Extract returns ErrDecode, together with an empty set, when content is not text.
	Extract(content []byte) (Set, error)
	// ExtractText never fails.
	ExtractText(content string) Set
	Language() Language
}

// grammar is a line-driven comment state machine. feed is called once per
// line in order; flush is called once after the last line.
type grammar interface {
	feed(line string, emit func(string))
	flush(emit func(string))
}

type extractor struct {
	lang       Language
	newGrammar func() grammar
}

// For returns the extractor of the given language.
func For(lang Language) (Extractor, error) {
	switch lang {
	case Python:
		return extractor{lang: lang, newGrammar: func() grammar { return &pythonGrammar{} }}, nil
	case CFamily:
		return extractor{lang: lang, newGrammar: func() grammar { return &cGrammar{} }}, nil
	case Fortran:
		return extractor{lang: lang, newGrammar: func() grammar { return &fortranGrammar{} }}, nil
	case Unknown:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedLanguage, int(lang))
	}
}

// Extract is a shortcut for For(lang) followed by Extract.
func Extract(lang Language, content []byte) (Set, error) {
	ext, err := For(lang)
	if err != nil {
		return Set{}, err
	}

	return ext.Extract(content)
}

func (e extractor) Language() Language {
	return e.lang
}

func (e extractor) Extract(content []byte) (Set, error) {
	if !textutil.IsText(content) {
		return Set{}, ErrDecode
	}

	return e.ExtractText(string(content)), nil
}

func (e extractor) ExtractText(content string) Set {
	set := Set{}
	g := e.newGrammar()

	for _, line := range textutil.SplitLines(content) {
		g.feed(line, set.Add)
	}

	g.flush(set.Add)

	return set
}
