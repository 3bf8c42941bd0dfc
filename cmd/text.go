package cmd

import (
	"github.com/spf13/cobra"

	"github.com/axlocate/axlocate/internal/output"
	"github.com/axlocate/axlocate/internal/platform"
)

var textCmd = &cobra.Command{
	Use:   "text <selector>",
	Short: "Read the text content of an element",
	Long: `Locate an element and aggregate the visible text of its subtree,
breadth-first, down to --depth levels.`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)
	addScopeFlag(textCmd)
	textCmd.Flags().Int("depth", platform.DefaultTextDepth, "Max depth of text aggregation")
}

func runText(cmd *cobra.Command, args []string) error {
	loc, err := buildLocator(cmd, args[0])
	if err != nil {
		return err
	}

	depth, _ := cmd.Flags().GetInt("depth")
	text, err := loc.Text(depth)
	if err != nil {
		return err
	}
	return output.Print(map[string]string{"text": text})
}
