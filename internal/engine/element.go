package engine

import (
	"github.com/axlocate/axlocate/internal/axerr"
	"github.com/axlocate/axlocate/internal/model"
	"github.com/axlocate/axlocate/internal/platform"
)

// Element is a live reference to one node in the native accessibility tree.
// It holds the backend's opaque handle and nothing else: attributes are
// fetched on demand and relations are resolved fresh through the backend,
// never cached, because the native tree mutates underneath us.
//
// When the underlying node is destroyed the handle is stale; every accessor
// then fails with ElementNotFound. A stale Element is never resurrected, a
// fresh resolution is required.
type Element struct {
	backend platform.Backend
	handle  platform.Handle
}

func newElement(b platform.Backend, h platform.Handle) *Element {
	return &Element{backend: b, handle: h}
}

// Attributes fetches the element's attribute bundle in one batched read.
func (e *Element) Attributes() (model.Attributes, error) {
	return e.backend.Attributes(e.handle)
}

// Role returns the element's normalized role tag.
func (e *Element) Role() (string, error) {
	attrs, err := e.Attributes()
	if err != nil {
		return "", err
	}
	return attrs.Role, nil
}

// Name returns the element's human-readable name, possibly empty.
func (e *Element) Name() (string, error) {
	attrs, err := e.Attributes()
	if err != nil {
		return "", err
	}
	return attrs.Name, nil
}

// Bounds returns the element's screen rectangle, or nil when the element
// has no geometry.
func (e *Element) Bounds() (*model.Bounds, error) {
	attrs, err := e.Attributes()
	if err != nil {
		return nil, err
	}
	return attrs.Bounds, nil
}

// IsVisible reports the platform's visibility heuristic: non-empty bounds
// intersecting a display, and no ancestor reporting itself hidden. Both
// backends compute the flag the same way so expectation semantics match.
func (e *Element) IsVisible() (bool, error) {
	attrs, err := e.Attributes()
	if err != nil {
		return false, err
	}
	return attrs.Visible, nil
}

// IsEnabled reports whether the element accepts interaction.
func (e *Element) IsEnabled() (bool, error) {
	attrs, err := e.Attributes()
	if err != nil {
		return false, err
	}
	return attrs.Enabled, nil
}

// Parent resolves the parent element, or nil at the desktop root. The
// returned Element is an independent reference and may itself go stale.
func (e *Element) Parent() (*Element, error) {
	h, err := e.backend.Parent(e.handle)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, nil
	}
	return newElement(e.backend, h), nil
}

// Children resolves the direct children, fetched fresh from the native
// tree. Two successive calls may disagree; that is the contract.
func (e *Element) Children() ([]*Element, error) {
	handles, err := e.backend.Children(e.handle)
	if err != nil {
		return nil, err
	}
	out := make([]*Element, len(handles))
	for i, h := range handles {
		out[i] = newElement(e.backend, h)
	}
	return out, nil
}

// Text aggregates visible text from the element and its descendants down to
// maxDepth (DefaultTextDepth when 0), in traversal order.
func (e *Element) Text(maxDepth int) (string, error) {
	res, err := e.invoke(platform.Action{Kind: platform.ActionGetText, MaxDepth: maxDepth})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Click invokes the element's primary action, reporting whether the native
// path or the coordinate fallback carried it out.
func (e *Element) Click() (platform.InvokeResult, error) {
	return e.invoke(platform.Action{Kind: platform.ActionClick})
}

// DoubleClick double-clicks the element.
func (e *Element) DoubleClick() (platform.InvokeResult, error) {
	return e.invoke(platform.Action{Kind: platform.ActionDoubleClick})
}

// RightClick opens the element's context menu.
func (e *Element) RightClick() (platform.InvokeResult, error) {
	return e.invoke(platform.Action{Kind: platform.ActionRightClick})
}

// TypeText types into the element, clearing existing content first when
// clearFirst is set.
func (e *Element) TypeText(text string, clearFirst bool) error {
	_, err := e.invoke(platform.Action{Kind: platform.ActionSetText, Text: text, ClearFirst: clearFirst})
	return err
}

// PressKey sends a key spec such as "enter" or "ctrl+shift+t" to the element.
func (e *Element) PressKey(key string) error {
	if key == "" {
		return axerr.New(axerr.InvalidArgument, "empty key spec")
	}
	_, err := e.invoke(platform.Action{Kind: platform.ActionPressKey, Key: key})
	return err
}

// Focus gives the element keyboard focus.
func (e *Element) Focus() error {
	_, err := e.invoke(platform.Action{Kind: platform.ActionFocus})
	return err
}

// invoke re-validates handle liveness immediately before the action, so a
// node destroyed between resolution and action surfaces as ElementNotFound
// rather than an unmapped native failure.
func (e *Element) invoke(act platform.Action) (platform.InvokeResult, error) {
	if _, err := e.backend.Attributes(e.handle); err != nil {
		if axerr.IsKind(err, axerr.ElementNotFound) {
			return platform.InvokeResult{}, axerr.Wrap(axerr.ElementNotFound, err,
				"element vanished before %s could run", act.Kind)
		}
		return platform.InvokeResult{}, err
	}
	return e.backend.Invoke(e.handle, act)
}
