package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var typeCmd = &cobra.Command{
	Use:   "type <selector>",
	Short: "Type text into an element",
	Long: `Locate an element by selector and set its text. The value is written
through the native API where the element supports it, otherwise the element
is focused and the text typed as keystrokes.

  axlocate type "role:edit" --text "hello"
  axlocate type "id:searchField" --text "query" --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
	addScopeFlag(typeCmd)
	typeCmd.Flags().String("text", "", "Text to type (required)")
	typeCmd.Flags().Bool("clear", false, "Clear existing content first")
}

func runType(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	if !cmd.Flags().Changed("text") {
		return fmt.Errorf("--text is required")
	}
	clear, _ := cmd.Flags().GetBool("clear")

	loc, err := buildLocator(cmd, args[0])
	if err != nil {
		return err
	}
	return loc.TypeText(text, clear)
}
