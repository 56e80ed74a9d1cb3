package comments

import "strings"

const fortranMarker = "!"

type fortranState int

const (
	fNormal fortranState = iota
	fInCommentBlock
)

type fortranLine int

const (
	fCode   fortranLine = iota // closes a comment block
	fFull                      // first token is '!'
	fInline                    // '!' after code
)

// fortranGrammar recognizes free-form '!' comments and runs of full-line ones.
type fortranGrammar struct {
	state fortranState
	block []string
}

func classifyFortran(trimmed string) fortranLine {
	switch {
	case strings.HasPrefix(trimmed, fortranMarker):
		return fFull
	case strings.Contains(trimmed, fortranMarker):
		return fInline
	default:
		return fCode
	}
}

func (g *fortranGrammar) feed(line string, emit func(string)) {
	trimmed := strings.TrimSpace(line)

	switch classifyFortran(trimmed) {
	case fFull:
		g.block = append(g.block, strings.TrimSpace(trimmed[len(fortranMarker):]))
		g.state = fInCommentBlock
	case fInline:
		g.flush(emit)
		emit(trimmed[strings.Index(trimmed, fortranMarker)+len(fortranMarker):])
	case fCode:
		g.flush(emit)
	}
}

func (g *fortranGrammar) flush(emit func(string)) {
	if g.state != fInCommentBlock {
		return
	}

	emit(strings.Join(g.block, "\n"))
	g.block = nil
	g.state = fNormal
}
