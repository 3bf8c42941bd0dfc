//go:build windows

package windows

import "github.com/axlocate/axlocate/internal/model"

// UIA control type ids, UIAutomationClient.h.
const (
	ctButton      = 50000
	ctCalendar    = 50001
	ctCheckBox    = 50002
	ctComboBox    = 50003
	ctEdit        = 50004
	ctHyperlink   = 50005
	ctImage       = 50006
	ctListItem    = 50007
	ctList        = 50008
	ctMenu        = 50009
	ctMenuBar     = 50010
	ctMenuItem    = 50011
	ctProgressBar = 50012
	ctRadioButton = 50013
	ctScrollBar   = 50014
	ctSlider      = 50015
	ctSpinner     = 50016
	ctStatusBar   = 50017
	ctTab         = 50018
	ctTabItem     = 50019
	ctText        = 50020
	ctToolBar     = 50021
	ctToolTip     = 50022
	ctTree        = 50023
	ctTreeItem    = 50024
	ctCustom      = 50025
	ctGroup       = 50026
	ctThumb       = 50027
	ctDataGrid    = 50028
	ctDataItem    = 50029
	ctDocument    = 50030
	ctSplitButton = 50031
	ctWindow      = 50032
	ctPane        = 50033
	ctHeader      = 50034
	ctHeaderItem  = 50035
	ctTable       = 50036
	ctTitleBar    = 50037
	ctSeparator   = 50038
)

var controlTypeMap = map[int]string{
	ctButton:      model.RoleButton,
	ctCheckBox:    model.RoleCheckbox,
	ctComboBox:    model.RoleCombobox,
	ctEdit:        model.RoleEdit,
	ctHyperlink:   model.RoleLink,
	ctImage:       model.RoleImage,
	ctListItem:    model.RoleListItem,
	ctList:        model.RoleList,
	ctMenu:        model.RoleMenu,
	ctMenuBar:     model.RoleMenuBar,
	ctMenuItem:    model.RoleMenuItem,
	ctProgressBar: model.RoleProgressBar,
	ctRadioButton: model.RoleRadio,
	ctScrollBar:   model.RoleScrollBar,
	ctSlider:      model.RoleSlider,
	ctStatusBar:   model.RoleStatusBar,
	ctTab:         model.RoleTab,
	ctTabItem:     model.RoleTabItem,
	ctText:        model.RoleText,
	ctToolBar:     model.RoleToolbar,
	ctTree:        model.RoleTree,
	ctTreeItem:    model.RoleTreeItem,
	ctGroup:       model.RoleGroup,
	ctDataGrid:    model.RoleTable,
	ctDataItem:    model.RoleCell,
	ctDocument:    model.RoleDocument,
	ctSplitButton: model.RoleButton,
	ctWindow:      model.RoleWindow,
	ctPane:        model.RolePane,
	ctHeaderItem:  model.RoleCell,
	ctTable:       model.RoleTable,
	ctTitleBar:    model.RoleTitleBar,
	ctSeparator:   model.RoleSeparator,
}

// mapControlType maps a UIA control type onto the cross-platform role
// vocabulary. Unmapped types (custom, calendar and the like) come back as
// the unknown role with the raw id preserved by the caller.
func mapControlType(ct int) string {
	if role, ok := controlTypeMap[ct]; ok {
		return role
	}
	return model.RoleUnknown
}
