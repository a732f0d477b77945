package cli

import (
	"fmt"

	"github.com/glorpus-work/droidrepo/pkg/repository"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command with its subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the repository configuration",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetCmd(),
		newConfigImageCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the public repository configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := manager.Config()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var public repository.Config

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change public repository configuration fields",
		Long: `Change public configuration fields of the repository.

Only the fields given as flags are changed. Signing material is never
touched. The signed index is regenerated afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := manager.Config()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("url") {
				cfg.RepoURL = public.RepoURL
			}
			if flags.Changed("name") {
				cfg.RepoName = public.RepoName
			}
			if flags.Changed("description") {
				cfg.RepoDescription = public.RepoDescription
			}
			if flags.Changed("icon") {
				cfg.RepoIcon = public.RepoIcon
			}
			if flags.Changed("archive-url") {
				cfg.ArchiveURL = public.ArchiveURL
			}
			if flags.Changed("archive-name") {
				cfg.ArchiveName = public.ArchiveName
			}
			if flags.Changed("archive-description") {
				cfg.ArchiveDescription = public.ArchiveDescription
			}
			if flags.Changed("archive-older") {
				cfg.ArchiveOlder = public.ArchiveOlder
			}

			return manager.SetConfig(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&public.RepoURL, "url", "", "public URL of the repository")
	cmd.Flags().StringVar(&public.RepoName, "name", "", "display name of the repository")
	cmd.Flags().StringVar(&public.RepoDescription, "description", "", "description of the repository")
	cmd.Flags().StringVar(&public.RepoIcon, "icon", "", "file name of the repository icon")
	cmd.Flags().StringVar(&public.ArchiveURL, "archive-url", "", "public URL of the archive")
	cmd.Flags().StringVar(&public.ArchiveName, "archive-name", "", "display name of the archive")
	cmd.Flags().StringVar(&public.ArchiveDescription, "archive-description", "", "description of the archive")
	cmd.Flags().IntVar(&public.ArchiveOlder, "archive-older", 0, "number of versions to keep before archiving")

	return cmd
}

func newConfigImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image <image-file>",
		Short: "Replace the repository icon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			return manager.SetImage(cmd.Context(), args[0])
		},
	}
}
