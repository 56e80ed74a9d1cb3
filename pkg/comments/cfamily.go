package comments

import "strings"

const (
	lineMarker       = "//"
	blockOpenMarker  = "/*"
	blockCloseMarker = "*/"
)

type cState int

const (
	cNormal cState = iota
	cInLineRun
	cInBlock
)

type cLine int

const (
	cCode        cLine = iota // closes a line-comment run
	cLineComment              // first token is '//'
	cInline                   // '//' after code
	cBlockStart               // first token is '/*'
	cBlockBody                // inside a block comment
	cBlockEnd                 // inside a block comment, carries '*/'
)

// cGrammar recognizes '//' comments, runs of full-line '//' comments and
// '/* */' blocks.
type cGrammar struct {
	state cState
	run   []string
	block []string
}

func (g *cGrammar) classify(line, trimmed string) cLine {
	if g.state == cInBlock {
		if strings.Contains(trimmed, blockCloseMarker) {
			return cBlockEnd
		}

		return cBlockBody
	}

	switch {
	case strings.HasPrefix(trimmed, blockOpenMarker):
		return cBlockStart
	case strings.HasPrefix(trimmed, lineMarker):
		return cLineComment
	case strings.Contains(line, lineMarker):
		return cInline
	default:
		return cCode
	}
}

func (g *cGrammar) feed(line string, emit func(string)) {
	trimmed := strings.TrimSpace(line)

	switch g.classify(line, trimmed) {
	case cBlockStart:
		g.closeRun(emit)

		rest := trimmed[len(blockOpenMarker):]

		// A line that also ends with '*/' is one comment with every marker dropped.
		if strings.HasSuffix(rest, blockCloseMarker) {
			emit(stripBlockMarkers(trimmed))

			return
		}

		if end := strings.Index(rest, blockCloseMarker); end >= 0 {
			emit(rest[:end])

			return
		}

		g.block = []string{strings.TrimSpace(rest)}
		g.state = cInBlock
	case cBlockEnd:
		end := strings.Index(trimmed, blockCloseMarker)
		g.block = append(g.block, strings.TrimSpace(trimmed[:end]))
		g.closeBlock(emit)
	case cBlockBody:
		g.block = append(g.block, trimmed)
	case cLineComment:
		g.run = append(g.run, strings.TrimSpace(trimmed[len(lineMarker):]))
		g.state = cInLineRun
	case cInline:
		// An inline comment leaves an open run untouched.
		emit(line[strings.Index(line, lineMarker)+len(lineMarker):])
	case cCode:
		g.closeRun(emit)
	}
}

func stripBlockMarkers(line string) string {
	return strings.ReplaceAll(strings.ReplaceAll(line, blockOpenMarker, ""), blockCloseMarker, "")
}

func (g *cGrammar) closeRun(emit func(string)) {
	if g.state != cInLineRun {
		return
	}

	emit(strings.Join(g.run, " "))
	g.run = nil
	g.state = cNormal
}

func (g *cGrammar) closeBlock(emit func(string)) {
	emit(strings.Join(g.block, " "))
	g.block = nil
	g.state = cNormal
}

func (g *cGrammar) flush(emit func(string)) {
	switch g.state {
	case cInLineRun:
		g.closeRun(emit)
	case cInBlock:
		g.closeBlock(emit)
	case cNormal:
	}
}
