//go:build darwin

package darwin

import (
	"testing"

	"github.com/axlocate/axlocate/internal/model"
)

func TestMapAXRole(t *testing.T) {
	cases := []struct {
		ax   string
		want string
	}{
		{"AXButton", model.RoleButton},
		{"AXTextField", model.RoleEdit},
		{"AXTextArea", model.RoleEdit},
		{"AXStaticText", model.RoleText},
		{"AXWindow", model.RoleWindow},
		{"AXApplication", model.RoleApplication},
		{"AXMenuBarItem", model.RoleMenuItem},
		{"AXWebArea", model.RoleDocument},
		{"AXSomethingCustom", model.RoleUnknown},
		{"", model.RoleUnknown},
	}
	for _, c := range cases {
		if got := mapAXRole(c.ax); got != c.want {
			t.Errorf("mapAXRole(%q) = %q, want %q", c.ax, got, c.want)
		}
	}
}
