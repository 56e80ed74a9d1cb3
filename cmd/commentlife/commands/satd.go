package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commentlife/pkg/lifecycle"
	"github.com/Sumatoshi-tech/commentlife/pkg/satd"
)

// NewSATDCommand creates the satd subcommand.
func NewSATDCommand() *cobra.Command {
	var keywordsPath, in, out string

	cmd := &cobra.Command{
		Use:   "satd",
		Short: "Keep the ledger rows whose comment matches a technical debt keyword",
		Long: `satd reads a keyword list (one per line) and a CSV comment ledger and writes the
rows whose comment contains a keyword as a whole word. Both the keywords and the
comments are lowercased and stripped of punctuation before matching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keywordsPath == "" || in == "" {
				return fmt.Errorf("%w: --keywords and --in", ErrMissingFlag)
			}

			return runSATD(keywordsPath, in, out, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&keywordsPath, "keywords", "k", "", "keyword file, one keyword per line")
	cmd.Flags().StringVarP(&in, "in", "i", "", "comment ledger CSV")
	cmd.Flags().StringVarP(&out, "out", "o", "", "filtered CSV path (default stdout)")

	return cmd
}

func runSATD(keywordsPath, in, out string, stdout io.Writer) error {
	kf, err := os.Open(keywordsPath)
	if err != nil {
		return fmt.Errorf("open keywords: %w", err)
	}
	defer kf.Close()

	keywords, err := satd.LoadKeywords(kf)
	if err != nil {
		return err
	}

	rows, err := readLedgerFile(in)
	if err != nil {
		return err
	}

	matched := satd.NewFilter(keywords).Rows(rows)

	if out == "" {
		return lifecycle.WriteLedgerCSV(stdout, matched)
	}

	f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}

	writeErr := lifecycle.WriteLedgerCSV(f, matched)
	closeErr := f.Close()

	if writeErr != nil {
		return writeErr
	}

	if closeErr != nil {
		return closeErr
	}

	fmt.Fprintf(stdout, "%d of %d comments matched -> %s\n", len(matched), len(rows), out)

	return nil
}
