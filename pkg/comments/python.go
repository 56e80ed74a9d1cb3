package comments

import "strings"

const (
	hashMarker        = "#"
	doubleTripleQuote = `"""`
	singleTripleQuote = "'''"
)

type pythonState int

const (
	pyNormal pythonState = iota
	pyInHashRun
	pyInTripleQuote
)

type pythonLine int

const (
	pyCode      pythonLine = iota // no comment syntax; closes a hash run
	pyHash                        // first token is '#'
	pyInline                      // '#' after code
	pyDelimiter                   // carries a triple-quote delimiter
	pyBlockBody                   // inside a triple-quote block
)

// pythonGrammar recognizes '#' comments, runs of full-line '#' comments and
// triple-quoted blocks. Every triple-quoted span counts as a comment, string
// literals included.
type pythonGrammar struct {
	state pythonState
	run   []string
	block []string
}

func (g *pythonGrammar) classify(line, trimmed string) pythonLine {
	if g.state == pyInTripleQuote {
		if hasTripleQuote(trimmed) {
			return pyDelimiter
		}

		return pyBlockBody
	}

	switch {
	case strings.HasPrefix(trimmed, hashMarker):
		return pyHash
	case strings.Contains(line, hashMarker):
		return pyInline
	case hasTripleQuote(trimmed):
		return pyDelimiter
	default:
		return pyCode
	}
}

func (g *pythonGrammar) feed(line string, emit func(string)) {
	trimmed := strings.TrimSpace(line)

	switch g.classify(line, trimmed) {
	case pyInline:
		// An inline comment leaves an open hash run untouched.
		emit(line[strings.Index(line, hashMarker)+len(hashMarker):])
	case pyHash:
		g.run = append(g.run, strings.TrimSpace(trimmed[len(hashMarker):]))
		g.state = pyInHashRun
	case pyDelimiter:
		g.closeRun(emit)
		g.delimiter(trimmed, emit)
	case pyBlockBody:
		g.block = append(g.block, trimmed)
	case pyCode:
		g.closeRun(emit)
	}
}

func (g *pythonGrammar) delimiter(trimmed string, emit func(string)) {
	if g.state == pyInTripleQuote {
		g.block = append(g.block, trimmed)
		emit(stripTripleQuotes(strings.Join(g.block, "\n")))
		g.block = nil
		g.state = pyNormal

		return
	}

	if countTripleQuotes(trimmed)%2 == 0 {
		emit(stripTripleQuotes(trimmed))

		return
	}

	g.block = []string{trimmed}
	g.state = pyInTripleQuote
}

func (g *pythonGrammar) closeRun(emit func(string)) {
	if g.state != pyInHashRun {
		return
	}

	emit(strings.Join(g.run, "\n"))
	g.run = nil
	g.state = pyNormal
}

// flush emits an open hash run; an unterminated triple-quote block is dropped.
func (g *pythonGrammar) flush(emit func(string)) {
	g.closeRun(emit)
}

func hasTripleQuote(s string) bool {
	return strings.Contains(s, doubleTripleQuote) || strings.Contains(s, singleTripleQuote)
}

func countTripleQuotes(s string) int {
	return strings.Count(s, doubleTripleQuote) + strings.Count(s, singleTripleQuote)
}

func stripTripleQuotes(s string) string {
	s = strings.ReplaceAll(s, doubleTripleQuote, "")

	return strings.TrimSpace(strings.ReplaceAll(s, singleTripleQuote, ""))
}
