package cli

import (
	"fmt"

	"github.com/glorpus-work/droidrepo/pkg/reconcile"
	"github.com/spf13/cobra"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Scan the repository and regenerate the index",
		Long: `Scan the package directory for added, changed and removed apk files,
reconcile the repository index and regenerate the signed index.

Files that cannot be extracted and files conflicting with existing releases
are reported and skipped; they never abort the update.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			report, err := manager.RunCycle(cmd.Context())
			if err != nil {
				return err
			}
			printReport(report)
			return nil
		},
	}
}

func printReport(report *reconcile.ChangeReport) {
	fmt.Println(report.Summary())
	for _, skipped := range report.Skipped {
		fmt.Printf("skipped: %s: %s\n", skipped.Path, skipped.Reason)
	}
	for _, conflict := range report.Conflicts {
		fmt.Printf("conflict: %s versionCode %d (%s): %s\n",
			conflict.AppID, conflict.VersionCode, conflict.Path, conflict.Reason)
	}
}
