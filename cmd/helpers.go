package cmd

import (
	"github.com/spf13/cobra"

	"github.com/axlocate/axlocate/internal/engine"
	"github.com/axlocate/axlocate/internal/model"
	"github.com/axlocate/axlocate/internal/platform"
)

// elementView is the CLI-facing shape of a resolved element.
type elementView struct {
	Role        string        `yaml:"role" json:"role"`
	Name        string        `yaml:"name,omitempty" json:"name,omitempty"`
	ID          string        `yaml:"id,omitempty" json:"id,omitempty"`
	Value       string        `yaml:"value,omitempty" json:"value,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Bounds      *model.Bounds `yaml:"bounds,omitempty" json:"bounds,omitempty"`
	Enabled     bool          `yaml:"enabled" json:"enabled"`
	Visible     bool          `yaml:"visible" json:"visible"`
	Focused     bool          `yaml:"focused,omitempty" json:"focused,omitempty"`
}

func viewOf(attrs model.Attributes) elementView {
	return elementView{
		Role:        attrs.Role,
		Name:        attrs.Name,
		ID:          attrs.ID,
		Value:       attrs.Value,
		Description: attrs.Description,
		Bounds:      attrs.Bounds,
		Enabled:     attrs.Enabled,
		Visible:     attrs.Visible,
		Focused:     attrs.Focused,
	}
}

// actionView is the CLI-facing shape of an action result.
type actionView struct {
	Method string `yaml:"method" json:"method"`
	X      int    `yaml:"x,omitempty" json:"x,omitempty"`
	Y      int    `yaml:"y,omitempty" json:"y,omitempty"`
	Detail string `yaml:"detail,omitempty" json:"detail,omitempty"`
}

func viewOfResult(res platform.InvokeResult) actionView {
	return actionView{Method: res.Method, X: res.X, Y: res.Y, Detail: res.Detail}
}

// buildLocator connects to the desktop and compiles selector, honoring the
// shared --app scope flag plus the resolved timeout, poll and depth config.
func buildLocator(cmd *cobra.Command, selector string) (*engine.Locator, error) {
	desktop, err := engine.New()
	if err != nil {
		return nil, err
	}

	loc, err := desktop.Locator(selector)
	if err != nil {
		return nil, err
	}

	if app, _ := cmd.Flags().GetString("app"); app != "" {
		scope, err := desktop.Application(app)
		if err != nil {
			return nil, err
		}
		loc = loc.Within(scope)
	}

	return loc.WithTimeout(cfg.Timeout).
		WithPollInterval(cfg.Poll).
		WithMaxDepth(cfg.MaxDepth), nil
}

// addScopeFlag registers the --app scope flag shared by the element verbs.
func addScopeFlag(cmd *cobra.Command) {
	cmd.Flags().String("app", "", "Scope the search to an application by name")
}
