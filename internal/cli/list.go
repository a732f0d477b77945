package cli

import (
	"fmt"
	"strings"

	"github.com/glorpus-work/droidrepo/pkg/model"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var nameFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications in the repository",
		Long: `List all applications from the repository index.

By default, shows all applications with identifier, name and latest version.
Use --name to filter applications by name or identifier.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := openManager(cmd.Context())
			if err != nil {
				return err
			}
			apps, err := manager.Apps()
			if err != nil {
				return err
			}
			printApps(apps, nameFilter)
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFilter, "name", "", "Filter applications by name or identifier (partial match)")

	return cmd
}

func printApps(apps []*model.AppMetadata, nameFilter string) {
	filter := strings.ToLower(nameFilter)
	var matched []*model.AppMetadata
	for _, app := range apps {
		if filter != "" &&
			!strings.Contains(strings.ToLower(app.ID), filter) &&
			!strings.Contains(strings.ToLower(app.Name), filter) {
			continue
		}
		matched = append(matched, app)
	}

	if len(matched) == 0 {
		fmt.Println("No applications in the repository")
		return
	}

	fmt.Printf("%-40s %-25s %-15s %s\n", "APPLICATION ID", "NAME", "VERSION", "RELEASES")
	fmt.Println(strings.Repeat("-", 90))

	for _, app := range matched {
		fmt.Printf("%-40s %-25s %-15s %d\n", app.ID, app.Name, displayVersion(app), len(app.Releases))
	}
}

// displayVersion renders the latest release's version, preferring the
// parsed semantic form over the raw version name.
func displayVersion(app *model.AppMetadata) string {
	latest := app.LatestRelease()
	if latest == nil {
		return "-"
	}
	if v := latest.GetVersion(); v != nil {
		return v.String()
	}
	return latest.VersionName
}
