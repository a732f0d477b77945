package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPublishCmd creates the publish command.
func NewPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Sign staged unsigned packages",
		Long: `Sign all packages staged in the unsigned directory through the external
tool and run an update cycle afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			report, err := manager.Publish(cmd.Context())
			if err != nil {
				return err
			}
			printReport(report)
			return nil
		},
	}
}

// NewRewriteMetaCmd creates the rewritemeta command.
func NewRewriteMetaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rewritemeta",
		Short: "Normalize the tool's metadata files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			return manager.RewriteMeta(cmd.Context())
		},
	}
}

// NewClearCmd creates the clear command.
func NewClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all packages and metadata from the repository",
		Long: `Delete all packages and tool metadata from the repository.

Configuration and signing material are kept. This cannot be undone, so the
command requires the --yes flag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the repository without --yes")
			}
			manager, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			report, err := manager.Clear(cmd.Context())
			if err != nil {
				return err
			}
			printReport(report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all packages and metadata")

	return cmd
}
