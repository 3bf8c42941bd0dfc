package cmd

import (
	"github.com/spf13/cobra"

	"github.com/axlocate/axlocate/internal/output"
	"github.com/axlocate/axlocate/internal/platform"
)

var clickCmd = &cobra.Command{
	Use:   "click <selector>",
	Short: "Click an element",
	Long: `Locate an element by selector and click it. The native action API is
preferred; when an element rejects it, a mouse click is synthesized at the
center of its bounds and the result is tagged method: coordinate.`,
	Args: cobra.ExactArgs(1),
	RunE: runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	addScopeFlag(clickCmd)
	clickCmd.Flags().Bool("double", false, "Double-click")
	clickCmd.Flags().Bool("right", false, "Right-click")
}

func runClick(cmd *cobra.Command, args []string) error {
	loc, err := buildLocator(cmd, args[0])
	if err != nil {
		return err
	}

	var res platform.InvokeResult
	double, _ := cmd.Flags().GetBool("double")
	right, _ := cmd.Flags().GetBool("right")
	switch {
	case double:
		res, err = loc.DoubleClick()
	case right:
		res, err = loc.RightClick()
	default:
		res, err = loc.Click()
	}
	if err != nil {
		return err
	}
	return output.Print(viewOfResult(res))
}
