package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axlocate/axlocate/internal/apps"
	"github.com/axlocate/axlocate/internal/engine"
	"github.com/axlocate/axlocate/internal/output"
)

var openCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Open an application or URL",
	Long: `Launch an application by name and wait until it shows up in the
accessibility tree, or open a URL in the default (or named) browser.

  axlocate open Calculator
  axlocate open --url https://example.com
  axlocate open --url https://example.com --browser Firefox`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().String("url", "", "Open a URL instead of an application")
	openCmd.Flags().String("browser", "", "Browser to open the URL with (default system browser)")
}

func runOpen(cmd *cobra.Command, args []string) error {
	if url, _ := cmd.Flags().GetString("url"); url != "" {
		browser, _ := cmd.Flags().GetString("browser")
		return apps.OpenURL(url, browser)
	}
	if len(args) != 1 {
		return fmt.Errorf("an application name or --url is required")
	}

	desktop, err := engine.New()
	if err != nil {
		return err
	}
	app, err := desktop.OpenApplication(args[0], cfg.Timeout)
	if err != nil {
		return err
	}

	attrs, err := app.Attributes()
	if err != nil {
		return err
	}
	return output.Print(viewOf(attrs))
}
