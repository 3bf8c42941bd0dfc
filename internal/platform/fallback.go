package platform

import (
	"strings"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/axlocate/axlocate/internal/axerr"
	"github.com/axlocate/axlocate/internal/model"
)

// Coordinate-synthesis fallbacks, used when the native action API rejects an
// invoke (common for custom-drawn controls). Results are tagged
// MethodCoordinate so callers can judge trust.

// CoordinateClick moves the cursor to the center of bounds and clicks.
func CoordinateClick(bounds *model.Bounds, kind ActionKind) (InvokeResult, error) {
	if bounds == nil || bounds.Empty() {
		return InvokeResult{}, axerr.New(axerr.UnsupportedOperation,
			"element has no usable bounds for a coordinate click")
	}
	x, y := bounds.Center()
	robotgo.Move(x, y)

	switch kind {
	case ActionClick:
		robotgo.Click("left", false)
	case ActionDoubleClick:
		robotgo.Click("left", true)
	case ActionRightClick:
		robotgo.Click("right", false)
	default:
		return InvokeResult{}, axerr.New(axerr.UnsupportedOperation,
			"no coordinate fallback for action %s", kind)
	}

	return InvokeResult{
		Method: MethodCoordinate,
		X:      x,
		Y:      y,
		Detail: "native invoke unavailable, synthesized mouse input at bounds center",
	}, nil
}

// TypeTextFallback types text via synthesized keystrokes into whatever
// element currently has keyboard focus. Callers focus the target first.
func TypeTextFallback(text string) InvokeResult {
	robotgo.TypeStr(text)
	return InvokeResult{
		Method: MethodCoordinate,
		Detail: "typed via synthesized keystrokes",
	}
}

// PressKeyFallback taps a key spec such as "enter", "f5" or "ctrl+shift+t".
// The last segment is the key, the rest are modifiers.
func PressKeyFallback(keySpec string) (InvokeResult, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(keySpec)), "+")
	if len(parts) == 0 || parts[0] == "" {
		return InvokeResult{}, axerr.New(axerr.InvalidArgument, "empty key spec")
	}
	for i, p := range parts {
		parts[i] = normalizeKey(strings.TrimSpace(p))
	}

	key := parts[len(parts)-1]
	mods := parts[:len(parts)-1]
	if len(mods) == 0 {
		robotgo.KeyTap(key)
	} else {
		args := make([]interface{}, len(mods))
		for i, m := range mods {
			args[i] = m
		}
		robotgo.KeyTap(key, args...)
	}
	// Give the target app a beat to process the injected event.
	time.Sleep(20 * time.Millisecond)

	return InvokeResult{
		Method: MethodCoordinate,
		Detail: "key tap via synthesized input",
	}, nil
}

// normalizeKey maps common key spec aliases onto robotgo key names.
func normalizeKey(k string) string {
	switch k {
	case "return":
		return "enter"
	case "del":
		return "delete"
	case "esc":
		return "escape"
	case "win", "super", "meta":
		return "cmd"
	case "option":
		return "alt"
	default:
		return k
	}
}
