package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/glorpus-work/droidrepo/internal/cli"
	"github.com/glorpus-work/droidrepo/internal/logger"
	"github.com/spf13/cobra"
)

var (
	repoPath string
	verbose  bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "droidrepo",
		Short: "Manage an F-Droid compatible app repository",
		Long: `droidrepo manages an F-Droid compatible application repository:
- add, remove and sign apk files
- reconcile the repository index against the package directory
- drive the fdroid tool to produce the signed, client-facing index`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := "info"
			if verbose {
				level = "debug"
			}
			logger.InitLogger(level)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&repoPath, "repo", "r", "", "repository root directory (default: current directory)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Set up CLI pkg variables
	cli.RepoPath = &repoPath
	cli.Verbose = &verbose

	// Add subcommands
	cmd.AddCommand(
		cli.NewInitCmd(),
		cli.NewUpdateCmd(),
		cli.NewAddCmd(),
		cli.NewRemoveCmd(),
		cli.NewSignCmd(),
		cli.NewPublishCmd(),
		cli.NewListCmd(),
		cli.NewConfigCmd(),
		cli.NewRewriteMetaCmd(),
		cli.NewClearCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
