//go:build darwin

package darwin

import "github.com/axlocate/axlocate/internal/model"

// axRoleMap maps macOS AXRole values to the generic role vocabulary.
var axRoleMap = map[string]string{
	"AXApplication":       model.RoleApplication,
	"AXWindow":            model.RoleWindow,
	"AXSheet":             model.RoleDialog,
	"AXDialog":            model.RoleDialog,
	"AXSystemDialog":      model.RoleDialog,
	"AXGroup":             model.RoleGroup,
	"AXSplitGroup":        model.RoleGroup,
	"AXScrollArea":        model.RolePane,
	"AXLayoutArea":        model.RolePane,
	"AXDrawer":            model.RolePane,
	"AXButton":            model.RoleButton,
	"AXPopUpButton":       model.RoleCombobox,
	"AXComboBox":          model.RoleCombobox,
	"AXCheckBox":          model.RoleCheckbox,
	"AXRadioButton":       model.RoleRadio,
	"AXTextField":         model.RoleEdit,
	"AXTextArea":          model.RoleEdit,
	"AXSearchField":       model.RoleEdit,
	"AXStaticText":        model.RoleText,
	"AXWebArea":           model.RoleDocument,
	"AXLink":              model.RoleLink,
	"AXImage":             model.RoleImage,
	"AXList":              model.RoleList,
	"AXTable":             model.RoleTable,
	"AXOutline":           model.RoleTree,
	"AXRow":               model.RoleRow,
	"AXCell":              model.RoleCell,
	"AXTabGroup":          model.RoleTab,
	"AXMenu":              model.RoleMenu,
	"AXMenuBar":           model.RoleMenuBar,
	"AXMenuItem":          model.RoleMenuItem,
	"AXMenuBarItem":       model.RoleMenuItem,
	"AXToolbar":           model.RoleToolbar,
	"AXSlider":            model.RoleSlider,
	"AXProgressIndicator": model.RoleProgressBar,
	"AXScrollBar":         model.RoleScrollBar,
	"AXSplitter":          model.RoleSeparator,
}

// mapAXRole converts an AXRole to the generic vocabulary. Unmapped roles
// become "unknown"; the raw value stays available through the element's
// property map under "axrole".
func mapAXRole(axRole string) string {
	if generic, ok := axRoleMap[axRole]; ok {
		return generic
	}
	return model.RoleUnknown
}
