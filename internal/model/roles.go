package model

import "strings"

// Generic role vocabulary. Backends map their native role systems
// (AXRole strings on macOS, UIA control type IDs on Windows) onto these
// tags; the engine never sees a native role.
const (
	RoleApplication = "application"
	RoleWindow      = "window"
	RoleDialog      = "dialog"
	RolePane        = "pane"
	RoleGroup       = "group"
	RoleButton      = "button"
	RoleCheckbox    = "checkbox"
	RoleRadio       = "radio"
	RoleCombobox    = "combobox"
	RoleEdit        = "edit"
	RoleText        = "text"
	RoleDocument    = "document"
	RoleLink        = "link"
	RoleImage       = "image"
	RoleList        = "list"
	RoleListItem    = "listitem"
	RoleTable       = "table"
	RoleRow         = "row"
	RoleCell        = "cell"
	RoleTree        = "tree"
	RoleTreeItem    = "treeitem"
	RoleTab         = "tab"
	RoleTabItem     = "tabitem"
	RoleMenu        = "menu"
	RoleMenuBar     = "menubar"
	RoleMenuItem    = "menuitem"
	RoleToolbar     = "toolbar"
	RoleStatusBar   = "statusbar"
	RoleTitleBar    = "titlebar"
	RoleScrollBar   = "scrollbar"
	RoleSlider      = "slider"
	RoleProgressBar = "progressbar"
	RoleSeparator   = "separator"
	RoleUnknown     = "unknown"
)

// knownRoles is the closed-ish vocabulary used for selector prefix
// recognition: "window:Calculator" parses as role=window name=Calculator
// only because "window" appears here.
var knownRoles = map[string]bool{
	RoleApplication: true,
	RoleWindow:      true,
	RoleDialog:      true,
	RolePane:        true,
	RoleGroup:       true,
	RoleButton:      true,
	RoleCheckbox:    true,
	RoleRadio:       true,
	RoleCombobox:    true,
	RoleEdit:        true,
	RoleText:        true,
	RoleDocument:    true,
	RoleLink:        true,
	RoleImage:       true,
	RoleList:        true,
	RoleListItem:    true,
	RoleTable:       true,
	RoleRow:         true,
	RoleCell:        true,
	RoleTree:        true,
	RoleTreeItem:    true,
	RoleTab:         true,
	RoleTabItem:     true,
	RoleMenu:        true,
	RoleMenuBar:     true,
	RoleMenuItem:    true,
	RoleToolbar:     true,
	RoleStatusBar:   true,
	RoleTitleBar:    true,
	RoleScrollBar:   true,
	RoleSlider:      true,
	RoleProgressBar: true,
	RoleSeparator:   true,
	RoleUnknown:     true,
}

// role aliases accepted in selectors; normalized before comparison.
var roleAliases = map[string]string{
	"textfield":  RoleEdit,
	"textbox":    RoleEdit,
	"input":      RoleEdit,
	"label":      RoleText,
	"statictext": RoleText,
	"hyperlink":  RoleLink,
	"app":        RoleApplication,
}

// NormalizeRole lower-cases a role tag and resolves aliases. Unknown tags
// pass through unchanged so property-style matching still works.
func NormalizeRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	if alias, ok := roleAliases[r]; ok {
		return alias
	}
	return r
}

// IsKnownRole reports whether the tag (after normalization) belongs to the
// generic vocabulary.
func IsKnownRole(role string) bool {
	return knownRoles[NormalizeRole(role)]
}

// RolesEqual compares two role tags case-insensitively after alias
// resolution. Role matching in selectors is case-insensitive exact match.
func RolesEqual(a, b string) bool {
	return NormalizeRole(a) == NormalizeRole(b)
}
