package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commentlife/internal/config"
	"github.com/Sumatoshi-tech/commentlife/pkg/comments"
)

// ErrUnknownLanguage is returned when extract cannot pick a grammar.
var ErrUnknownLanguage = errors.New("cannot determine comment language (use --language)")

// NewExtractCommand creates the extract subcommand.
func NewExtractCommand(global *GlobalFlags) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the comments of one file, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			lang, err := extractLanguage(global, language, path)
			if err != nil {
				return err
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			set, err := comments.Extract(lang, content)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			for _, c := range set.Sorted() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "grammar: python, cpp or fortran (default: from extension)")

	return cmd
}

func extractLanguage(global *GlobalFlags, explicit, path string) (comments.Language, error) {
	if explicit != "" {
		return comments.ParseLanguage(explicit)
	}

	cfg, err := config.LoadConfig(global.ConfigPath)
	if err != nil {
		return comments.Unknown, err
	}

	lang := newClassifier(cfg).Classify(path)
	if lang == comments.Unknown {
		return lang, fmt.Errorf("%w: %s", ErrUnknownLanguage, path)
	}

	return lang, nil
}
