package cmd

import (
	"github.com/spf13/cobra"

	"github.com/axlocate/axlocate/internal/output"
)

var locateCmd = &cobra.Command{
	Use:   "locate <selector>",
	Short: "Locate elements by selector",
	Long: `Locate UI elements matching a selector, waiting for a match to appear.

Selectors are prefix:value pairs chained with " >> ":
  axlocate locate "role:button"
  axlocate locate "window:Calculator >> name:Seven"
  axlocate locate "id:num7Button" --app Calculator
  axlocate locate "text:Save" --all`,
	Args: cobra.ExactArgs(1),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
	addScopeFlag(locateCmd)
	locateCmd.Flags().Bool("all", false, "Return every match instead of the first")
}

func runLocate(cmd *cobra.Command, args []string) error {
	loc, err := buildLocator(cmd, args[0])
	if err != nil {
		return err
	}

	if all, _ := cmd.Flags().GetBool("all"); all {
		elements, err := loc.All()
		if err != nil {
			return err
		}
		views := make([]elementView, 0, len(elements))
		for _, el := range elements {
			attrs, err := el.Attributes()
			if err != nil {
				continue
			}
			views = append(views, viewOf(attrs))
		}
		return output.Print(views)
	}

	attrs, err := loc.Attributes()
	if err != nil {
		return err
	}
	return output.Print(viewOf(attrs))
}
