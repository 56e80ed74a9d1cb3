// Package report renders run summaries for the terminal and comment
// timelines as HTML.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/commentlife/pkg/lifecycle"
)

// RepositorySummary is one line of the run summary.
type RepositorySummary struct {
	Err        error
	Repository string
	Stats      lifecycle.Stats
}

// Status names, colored when the output is a terminal.
const (
	statusOK      = "ok"
	statusPartial = "partial"
	statusFailed  = "failed"
)

// WriteSummary renders one table row per repository plus a totals footer.
func WriteSummary(w io.Writer, repos []RepositorySummary) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Format.Footer = text.FormatDefault

	tbl.AppendHeader(table.Row{
		"Repository", "Files", "Revisions", "Introduced", "Removed", "Errors", "Duration", "Status",
	})

	var total lifecycle.Stats

	for _, repo := range repos {
		tbl.AppendRow(table.Row{
			repo.Repository,
			humanize.Comma(int64(repo.Stats.Files)),
			humanize.Comma(int64(repo.Stats.Revisions)),
			humanize.Comma(int64(repo.Stats.Introduced)),
			humanize.Comma(int64(repo.Stats.Removed)),
			humanize.Comma(int64(repo.Stats.Errors)),
			repo.Stats.Duration.Round(time.Millisecond).String(),
			status(repo),
		})

		total.Files += repo.Stats.Files
		total.Revisions += repo.Stats.Revisions
		total.Introduced += repo.Stats.Introduced
		total.Removed += repo.Stats.Removed
		total.Errors += repo.Stats.Errors
		total.Duration += repo.Stats.Duration
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("Total (%d)", len(repos)),
		humanize.Comma(int64(total.Files)),
		humanize.Comma(int64(total.Revisions)),
		humanize.Comma(int64(total.Introduced)),
		humanize.Comma(int64(total.Removed)),
		humanize.Comma(int64(total.Errors)),
		total.Duration.Round(time.Millisecond).String(),
		"",
	})

	tbl.Render()

	return nil
}

// Artifact describes one written ledger file.
type Artifact struct {
	Label string
	Path  string
	Rows  int
	Size  int64
}

// WriteArtifacts prints where the ledgers went and how large they are.
func WriteArtifacts(w io.Writer, artifacts ...Artifact) {
	for _, a := range artifacts {
		fmt.Fprintf(w, "%s %s -> %s (%s)\n",
			humanize.Comma(int64(a.Rows)), a.Label, a.Path, humanize.Bytes(uint64(max(a.Size, 0))))
	}
}

func status(repo RepositorySummary) string {
	switch {
	case repo.Err != nil:
		return color.New(color.FgRed).Sprint(statusFailed)
	case repo.Stats.Errors > 0:
		return color.New(color.FgYellow).Sprint(statusPartial)
	default:
		return color.New(color.FgGreen).Sprint(statusOK)
	}
}
