package cmd

import (
	"github.com/spf13/cobra"

	"github.com/axlocate/axlocate/internal/output"
)

var attrsCmd = &cobra.Command{
	Use:   "attrs <selector>",
	Short: "Dump the full attribute bundle of an element",
	Long: `Locate an element and print every attribute the backend exposes,
including platform-specific properties such as the raw native role.`,
	Args: cobra.ExactArgs(1),
	RunE: runAttrs,
}

func init() {
	rootCmd.AddCommand(attrsCmd)
	addScopeFlag(attrsCmd)
}

func runAttrs(cmd *cobra.Command, args []string) error {
	loc, err := buildLocator(cmd, args[0])
	if err != nil {
		return err
	}

	attrs, err := loc.Attributes()
	if err != nil {
		return err
	}
	return output.Print(attrs)
}
