// Package platform defines the capability set every OS backend implements
// over its native accessibility API, plus the registration hook that selects
// exactly one backend at startup. OS branching happens here and nowhere else
// in the engine.
package platform

import (
	"strings"

	"github.com/axlocate/axlocate/internal/axerr"
	"github.com/axlocate/axlocate/internal/model"
)

// Handle is an opaque reference to one native accessibility node. It is
// owned by the backend that produced it and becomes stale the moment the
// underlying node is destroyed; operations on a stale handle fail with
// ElementNotFound, they never crash.
type Handle interface{}

// ActionKind enumerates the actions a backend can invoke on a node.
type ActionKind int

const (
	ActionClick ActionKind = iota
	ActionDoubleClick
	ActionRightClick
	ActionSetText
	ActionPressKey
	ActionFocus
	ActionGetText
)

func (k ActionKind) String() string {
	switch k {
	case ActionClick:
		return "click"
	case ActionDoubleClick:
		return "double_click"
	case ActionRightClick:
		return "right_click"
	case ActionSetText:
		return "set_text"
	case ActionPressKey:
		return "press_key"
	case ActionFocus:
		return "focus"
	case ActionGetText:
		return "get_text"
	default:
		return "unknown"
	}
}

// DefaultTextDepth bounds get_text descendant aggregation when the caller
// does not pass a depth.
const DefaultTextDepth = 5

// Action is one invocation request.
type Action struct {
	Kind ActionKind

	// Text is the input for set_text.
	Text string
	// ClearFirst clears an edit field before set_text.
	ClearFirst bool
	// Key is the key spec for press_key, e.g. "enter" or "ctrl+shift+t".
	Key string
	// MaxDepth bounds get_text aggregation; 0 means DefaultTextDepth.
	MaxDepth int
}

// Invocation methods reported back to callers so they can judge trust in
// the result: native accessibility invokes are reliable, coordinate
// synthesis is best-effort.
const (
	MethodNative     = "native"
	MethodCoordinate = "coordinate"
)

// InvokeResult reports how an action was carried out and any produced data.
type InvokeResult struct {
	Method string `yaml:"method"              json:"method"`
	Text   string `yaml:"text,omitempty"      json:"text,omitempty"`
	X      int    `yaml:"x,omitempty"         json:"x,omitempty"`
	Y      int    `yaml:"y,omitempty"         json:"y,omitempty"`
	Detail string `yaml:"detail,omitempty"    json:"detail,omitempty"`
}

// Backend is the per-OS capability set. Implementations serialize native
// calls internally where the underlying OS API is not thread-safe, so the
// interface is safe to use from concurrent resolutions.
//
// Every method maps native failures into the axerr taxonomy before
// returning; no raw platform error crosses this boundary.
type Backend interface {
	// Name identifies the backend ("darwin", "windows") for diagnostics.
	Name() string

	// Root returns the desktop root container.
	Root() (Handle, error)

	// Applications returns one handle per running top-level application.
	Applications() ([]Handle, error)

	// Children returns the direct children of a node, fetched fresh from
	// the native tree on every call. Depth is the matcher's concern.
	Children(h Handle) ([]Handle, error)

	// Parent returns the parent node, or nil for the root.
	Parent(h Handle) (Handle, error)

	// Attributes fetches the node's attribute bundle in one batched read.
	Attributes(h Handle) (model.Attributes, error)

	// FocusedElement returns the node that currently has keyboard focus.
	FocusedElement() (Handle, error)

	// Invoke performs an action on a node, falling back to coordinate
	// input synthesis when the native action API rejects the request.
	Invoke(h Handle, act Action) (InvokeResult, error)
}

// NewBackendFunc is set by platform-specific packages via init().
// See internal/platform/darwin and internal/platform/windows.
var NewBackendFunc func() (Backend, error)

// NewBackend returns the backend for the current OS.
func NewBackend() (Backend, error) {
	if NewBackendFunc == nil {
		return nil, axerr.New(axerr.UnsupportedPlatform,
			"no accessibility backend for this OS; supported: darwin, windows")
	}
	return NewBackendFunc()
}

// GatherText aggregates visible text from a node and its descendants down
// to maxDepth, in breadth-first order. Backends share this traversal so the
// depth-truncation contract is identical on both platforms: depth 0 is the
// element itself, each level of children costs one.
func GatherText(b Backend, h Handle, maxDepth int) (string, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultTextDepth
	}

	type entry struct {
		h     Handle
		depth int
	}
	queue := []entry{{h: h, depth: 0}}
	var parts []string

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		attrs, err := b.Attributes(cur.h)
		if err != nil {
			if cur.depth == 0 {
				return "", err
			}
			// A descendant vanished mid-walk. Skip it; the tree is
			// externally owned and mutates between reads.
			continue
		}
		if attrs.Visible {
			if attrs.Value != "" {
				parts = append(parts, attrs.Value)
			} else if attrs.Name != "" && attrs.Role != model.RoleWindow && attrs.Role != model.RoleApplication {
				parts = append(parts, attrs.Name)
			}
		}

		if cur.depth >= maxDepth {
			continue
		}
		children, err := b.Children(cur.h)
		if err != nil {
			continue
		}
		for _, c := range children {
			queue = append(queue, entry{h: c, depth: cur.depth + 1})
		}
	}

	return strings.Join(parts, " "), nil
}
