// Package main provides the entry point for the commentlife CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commentlife/cmd/commentlife/commands"
	"github.com/Sumatoshi-tech/commentlife/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	var global commands.GlobalFlags

	rootCmd := &cobra.Command{
		Use:   "commentlife",
		Short: "Track when source comments appear and disappear in git history",
		Long: `commentlife replays the history of every Python, C-family and Fortran file
in one or more git repositories and records, per comment, the last time it was
introduced and the last time it was removed.

Commands:
  walk      Walk repositories and write the comment and error ledgers
  extract   Print the comments of a single file
  satd      Filter a comment ledger by self-admitted technical debt keywords
  plot      Render a ledger as a monthly HTML timeline
  mcp       Serve the extractors over the Model Context Protocol`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&global.ConfigPath, "config", "", "config file (default .commentlife.yaml in CWD or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&global.Quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(commands.NewWalkCommand(&global))
	rootCmd.AddCommand(commands.NewExtractCommand(&global))
	rootCmd.AddCommand(commands.NewSATDCommand())
	rootCmd.AddCommand(commands.NewPlotCommand())
	rootCmd.AddCommand(commands.NewMCPCommand(&global))
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "commentlife %s\n", version.String())
		},
	}
}
