package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new repository",
		Long: `Initialize a new repository in the target directory.

Opening a directory without a config.yml bootstraps a fresh repository,
including keystore and configuration, through the external tool.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Repository ready at %s\n", manager.Root())
			return nil
		},
	}
}
