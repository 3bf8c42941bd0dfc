package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axlocate/axlocate/internal/engine"
	"github.com/axlocate/axlocate/internal/output"
	"github.com/axlocate/axlocate/internal/platform"
)

var expectCmd = &cobra.Command{
	Use:   "expect <selector>",
	Short: "Wait until an element reaches a state",
	Long: `Locate an element and wait until it satisfies a condition, polling
until the timeout. Exactly one condition flag must be given.

  axlocate expect "name:Save" --visible
  axlocate expect "id:submitButton" --enabled
  axlocate expect "role:text" --text "Done" --app Installer`,
	Args: cobra.ExactArgs(1),
	RunE: runExpect,
}

func init() {
	rootCmd.AddCommand(expectCmd)
	addScopeFlag(expectCmd)
	expectCmd.Flags().Bool("visible", false, "Wait until the element is visible")
	expectCmd.Flags().Bool("enabled", false, "Wait until the element is enabled")
	expectCmd.Flags().String("text", "", "Wait until the element's text equals this value")
	expectCmd.Flags().Int("depth", platform.DefaultTextDepth, "Text aggregation depth for --text")
}

func runExpect(cmd *cobra.Command, args []string) error {
	visible, _ := cmd.Flags().GetBool("visible")
	enabled, _ := cmd.Flags().GetBool("enabled")
	wantText := cmd.Flags().Changed("text")

	conditions := 0
	for _, set := range []bool{visible, enabled, wantText} {
		if set {
			conditions++
		}
	}
	if conditions != 1 {
		return fmt.Errorf("exactly one of --visible, --enabled or --text is required")
	}

	loc, err := buildLocator(cmd, args[0])
	if err != nil {
		return err
	}

	var el *engine.Element
	switch {
	case visible:
		el, err = loc.ExpectVisible()
	case enabled:
		el, err = loc.ExpectEnabled()
	default:
		text, _ := cmd.Flags().GetString("text")
		depth, _ := cmd.Flags().GetInt("depth")
		el, err = loc.ExpectTextEquals(text, depth)
	}
	if err != nil {
		return err
	}

	attrs, err := el.Attributes()
	if err != nil {
		return err
	}
	return output.Print(viewOf(attrs))
}
