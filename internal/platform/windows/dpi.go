//go:build windows

package windows

import (
	"sync"

	"golang.org/x/sys/windows"
)

var dpiOnce sync.Once

// setDPIAware opts the process out of DPI virtualization. UIA reports
// bounding rectangles in physical pixels; without this, synthesized mouse
// input lands at scaled coordinates on high-DPI displays.
func setDPIAware() {
	dpiOnce.Do(func() {
		user32 := windows.NewLazySystemDLL("user32.dll")
		proc := user32.NewProc("SetProcessDPIAware")
		proc.Call()
	})
}
