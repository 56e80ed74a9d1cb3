package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commentlife/pkg/lifecycle"
	"github.com/Sumatoshi-tech/commentlife/pkg/report"
)

const filePerm = 0o600

// ErrMissingFlag is returned when a required flag is empty.
var ErrMissingFlag = errors.New("required flag not set")

// NewPlotCommand creates the plot subcommand.
func NewPlotCommand() *cobra.Command {
	var in, out, title string

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render a CSV comment ledger as a monthly HTML timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in == "" || out == "" {
				return fmt.Errorf("%w: --in and --out", ErrMissingFlag)
			}

			rows, err := readLedgerFile(in)
			if err != nil {
				return err
			}

			err = writePlot(out, title, rows)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "timeline -> %s\n", out)

			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "comment ledger CSV")
	cmd.Flags().StringVarP(&out, "out", "o", "", "HTML output path")
	cmd.Flags().StringVar(&title, "title", plotTitle, "chart title")

	return cmd
}

func readLedgerFile(path string) ([]lifecycle.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	rows, err := lifecycle.ReadLedgerCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return rows, nil
}

func writePlot(path, title string, rows []lifecycle.Row) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}

	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close plot: %w", closeErr)
		}
	}()

	return report.WriteTimeline(f, title, rows)
}
