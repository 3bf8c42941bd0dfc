package cmd

import (
	"github.com/spf13/cobra"
)

var pressCmd = &cobra.Command{
	Use:   "press <selector> <key>",
	Short: "Press a key combination on an element",
	Long: `Locate an element by selector, focus it and press a key combination.
Modifiers join with "+", the key comes last:

  axlocate press "role:edit" enter
  axlocate press "window:Notes" ctrl+s`,
	Args: cobra.ExactArgs(2),
	RunE: runPress,
}

func init() {
	rootCmd.AddCommand(pressCmd)
	addScopeFlag(pressCmd)
}

func runPress(cmd *cobra.Command, args []string) error {
	loc, err := buildLocator(cmd, args[0])
	if err != nil {
		return err
	}
	return loc.PressKey(args[1])
}
