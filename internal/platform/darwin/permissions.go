//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework Foundation
#include <ApplicationServices/ApplicationServices.h>

static int ax_is_trusted() {
    return AXIsProcessTrusted();
}
*/
import "C"

import "github.com/axlocate/axlocate/internal/axerr"

// CheckAccessibilityPermission fails with PermissionDenied and remediation
// instructions when the process is not trusted for accessibility access.
func CheckAccessibilityPermission() error {
	if C.ax_is_trusted() == 0 {
		return axerr.New(axerr.PermissionDenied,
			"accessibility permission required\n\n"+
				"Grant permission at: System Settings > Privacy & Security > Accessibility\n"+
				"Add your terminal app (e.g. Terminal.app, iTerm2, or the IDE running this command).\n"+
				"Then restart the terminal and try again.")
	}
	return nil
}

// IsAccessibilityTrusted reports whether the process has accessibility
// permission.
func IsAccessibilityTrusted() bool {
	return C.ax_is_trusted() != 0
}
