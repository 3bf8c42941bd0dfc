package cmd

import (
	"github.com/spf13/cobra"

	"github.com/axlocate/axlocate/internal/engine"
	"github.com/axlocate/axlocate/internal/output"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List running applications",
	Long:  "List the applications visible to the accessibility layer, in front-to-back order.",
	RunE:  runApps,
}

func init() {
	rootCmd.AddCommand(appsCmd)
}

func runApps(cmd *cobra.Command, args []string) error {
	desktop, err := engine.New()
	if err != nil {
		return err
	}

	apps, err := desktop.Applications()
	if err != nil {
		return err
	}

	views := make([]elementView, 0, len(apps))
	for _, app := range apps {
		attrs, err := app.Attributes()
		if err != nil {
			// An application can quit between enumeration and read.
			continue
		}
		views = append(views, viewOf(attrs))
	}
	return output.Print(views)
}
