package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAddCmd creates the add command.
func NewAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <apk-file>...",
		Short: "Add apk files to the repository",
		Long: `Copy one or more apk files into the repository and run an update cycle.

When the cycle fails, the copied files are removed again.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			for _, file := range args {
				report, err := manager.AddApp(cmd.Context(), file)
				if err != nil {
					return fmt.Errorf("failed to add %s: %w", file, err)
				}
				fmt.Printf("added %s: %s\n", file, report.Summary())
			}
			return nil
		},
	}
}

// NewRemoveCmd creates the remove command.
func NewRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <apk-name>",
		Short: "Remove an apk file from the repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			report, err := manager.RemoveApp(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printReport(report)
			return nil
		},
	}
}

// NewSignCmd creates the sign command.
func NewSignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign <apk-file>",
		Short: "Sign an apk file and add it to the repository",
		Long: `Stage an unsigned apk under its canonical name, sign it through the
external tool and run an update cycle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			report, err := manager.SignApp(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printReport(report)
			return nil
		},
	}
}
