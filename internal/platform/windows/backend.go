//go:build windows

package windows

import (
	"runtime"
	"strconv"
	"sync"
	"unsafe"

	"github.com/go-ole/go-ole"

	"github.com/axlocate/axlocate/internal/axerr"
	"github.com/axlocate/axlocate/internal/model"
	"github.com/axlocate/axlocate/internal/platform"
)

// uiaHandle wraps one IUIAutomationElement reference.
type uiaHandle struct {
	el *uiaElement
}

func wrapElement(el *uiaElement) *uiaHandle {
	h := &uiaHandle{el: el}
	runtime.SetFinalizer(h, func(h *uiaHandle) {
		h.el.Release()
	})
	return h
}

// Backend implements platform.Backend on UI Automation. UIA client objects
// are apartment-agnostic under COINIT_MULTITHREADED, but calls are still
// serialized behind one mutex so provider-side reentrancy cannot bite.
type Backend struct {
	mu     sync.Mutex
	auto   *uiAutomation
	walker *uiaTreeWalker
	root   *uiaHandle
}

// NewBackend initializes COM and connects to the UI Automation service.
func NewBackend() (*Backend, error) {
	setDPIAware()
	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		// S_FALSE means COM was already initialized on this thread.
		if oleErr, ok := err.(*ole.OleError); !ok || oleErr.Code() != uintptr(1) {
			return nil, axerr.Wrap(axerr.PlatformError, err, "initializing COM")
		}
	}
	auto, err := newUIAutomation()
	if err != nil {
		return nil, err
	}
	rootEl, err := auto.rootElement()
	if err != nil {
		return nil, err
	}
	walker, err := auto.controlViewWalker()
	if err != nil {
		return nil, err
	}
	return &Backend{auto: auto, walker: walker, root: wrapElement(rootEl)}, nil
}

func (b *Backend) Name() string { return "windows" }

func (b *Backend) toHandle(h platform.Handle) (*uiaHandle, error) {
	uh, ok := h.(*uiaHandle)
	if !ok || uh.el == nil {
		return nil, axerr.New(axerr.Internal, "foreign handle passed to windows backend")
	}
	return uh, nil
}

func (b *Backend) Root() (platform.Handle, error) {
	return b.root, nil
}

// Applications returns the top-level windows under the desktop root. UIA
// has no distinct application node, so each top-level window stands in for
// its application.
func (b *Backend) Applications() ([]platform.Handle, error) {
	return b.Children(b.root)
}

func (b *Backend) Children(h platform.Handle) ([]platform.Handle, error) {
	uh, err := b.toHandle(h)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	out := []platform.Handle{}
	child, err := b.walker.firstChild(uh.el)
	if err != nil {
		return nil, err
	}
	for child != nil {
		out = append(out, wrapElement(child))
		next, err := b.walker.nextSibling(child)
		if err != nil {
			return nil, err
		}
		child = next
	}
	return out, nil
}

func (b *Backend) Parent(h platform.Handle) (platform.Handle, error) {
	uh, err := b.toHandle(h)
	if err != nil {
		return nil, err
	}
	if uh == b.root {
		return nil, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	parent, err := b.walker.parent(uh.el)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, nil
	}
	return wrapElement(parent), nil
}

func (b *Backend) Attributes(h platform.Handle) (model.Attributes, error) {
	uh, err := b.toHandle(h)
	if err != nil {
		return model.Attributes{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	// The control type read doubles as the liveness probe: a destroyed
	// element answers UIA_E_ELEMENTNOTAVAILABLE here.
	ct, err := uh.el.intProperty(propControlType)
	if err != nil {
		return model.Attributes{}, err
	}

	attrs := model.Attributes{
		Role:       mapControlType(ct),
		Properties: map[string]string{"controltype": strconv.Itoa(ct)},
	}
	if attrs.Name, err = uh.el.stringProperty(propName); err != nil {
		return model.Attributes{}, err
	}
	if attrs.ID, err = uh.el.stringProperty(propAutomationID); err != nil {
		return model.Attributes{}, err
	}
	if attrs.Value, err = uh.el.stringProperty(propValueValue); err != nil {
		return model.Attributes{}, err
	}
	if attrs.Description, err = uh.el.stringProperty(propHelpText); err != nil {
		return model.Attributes{}, err
	}
	if class, err := uh.el.stringProperty(propClassName); err == nil && class != "" {
		attrs.Properties["classname"] = class
	}

	if attrs.Enabled, err = uh.el.boolProperty(propIsEnabled, true); err != nil {
		return model.Attributes{}, err
	}
	if attrs.Focused, err = uh.el.boolProperty(propHasKeyboardFocus, false); err != nil {
		return model.Attributes{}, err
	}
	if attrs.Focusable, err = uh.el.boolProperty(propIsKeyboardFocusable, false); err != nil {
		return model.Attributes{}, err
	}

	x, y, w, hgt, hasBounds, err := uh.el.boundingRectangle()
	if err != nil {
		return model.Attributes{}, err
	}
	if hasBounds {
		attrs.Bounds = &model.Bounds{X: x, Y: y, Width: w, Height: hgt}
	}

	offscreen, err := uh.el.boolProperty(propIsOffscreen, false)
	if err != nil {
		return model.Attributes{}, err
	}
	// Visibility heuristic: on-screen with non-empty bounds. Keep in sync
	// with the darwin backend.
	attrs.Visible = hasBounds && !attrs.Bounds.Empty() && !offscreen

	return attrs, nil
}

func (b *Backend) FocusedElement() (platform.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	el, err := b.auto.focusedElement()
	if err != nil {
		return nil, err
	}
	return wrapElement(el), nil
}

func (b *Backend) Invoke(h platform.Handle, act platform.Action) (platform.InvokeResult, error) {
	uh, err := b.toHandle(h)
	if err != nil {
		return platform.InvokeResult{}, err
	}

	switch act.Kind {
	case platform.ActionClick:
		return b.click(uh)
	case platform.ActionDoubleClick, platform.ActionRightClick:
		// UIA has no pattern for either; synthesize at the bounds center.
		return b.coordinateFallback(uh, act.Kind)
	case platform.ActionSetText:
		return b.setText(uh, act)
	case platform.ActionPressKey:
		b.mu.Lock()
		uh.el.setFocus() // direct the injected keys at this element
		b.mu.Unlock()
		return platform.PressKeyFallback(act.Key)
	case platform.ActionFocus:
		b.mu.Lock()
		err := uh.el.setFocus()
		b.mu.Unlock()
		if err != nil {
			return platform.InvokeResult{}, err
		}
		return platform.InvokeResult{Method: platform.MethodNative}, nil
	case platform.ActionGetText:
		text, err := platform.GatherText(b, h, act.MaxDepth)
		if err != nil {
			return platform.InvokeResult{}, err
		}
		return platform.InvokeResult{Method: platform.MethodNative, Text: text}, nil
	default:
		return platform.InvokeResult{}, axerr.New(axerr.UnsupportedOperation,
			"unknown action %s", act.Kind)
	}
}

// click prefers the Invoke pattern, then Toggle for checkbox-like controls,
// then coordinate synthesis.
func (b *Backend) click(uh *uiaHandle) (platform.InvokeResult, error) {
	b.mu.Lock()
	unknown, err := uh.el.pattern(patternInvoke, iidInvokePattern)
	if err == nil && unknown != nil {
		perr := (*invokePattern)(unsafe.Pointer(unknown)).invoke()
		unknown.Release()
		b.mu.Unlock()
		if perr != nil {
			return platform.InvokeResult{}, perr
		}
		return platform.InvokeResult{Method: platform.MethodNative, Detail: "InvokePattern"}, nil
	}
	if err != nil {
		b.mu.Unlock()
		return platform.InvokeResult{}, err
	}

	unknown, err = uh.el.pattern(patternToggle, iidTogglePattern)
	if err == nil && unknown != nil {
		perr := (*togglePattern)(unsafe.Pointer(unknown)).toggle()
		unknown.Release()
		b.mu.Unlock()
		if perr != nil {
			return platform.InvokeResult{}, perr
		}
		return platform.InvokeResult{Method: platform.MethodNative, Detail: "TogglePattern"}, nil
	}
	b.mu.Unlock()
	if err != nil {
		return platform.InvokeResult{}, err
	}

	return b.coordinateFallback(uh, platform.ActionClick)
}

func (b *Backend) coordinateFallback(uh *uiaHandle, kind platform.ActionKind) (platform.InvokeResult, error) {
	attrs, err := b.Attributes(uh)
	if err != nil {
		return platform.InvokeResult{}, err
	}
	return platform.CoordinateClick(attrs.Bounds, kind)
}

func (b *Backend) setText(uh *uiaHandle, act platform.Action) (platform.InvokeResult, error) {
	b.mu.Lock()
	unknown, err := uh.el.pattern(patternValue, iidValuePattern)
	if err != nil {
		b.mu.Unlock()
		return platform.InvokeResult{}, err
	}
	if unknown != nil {
		// SetValue replaces the whole value, which covers ClearFirst.
		perr := (*valuePattern)(unsafe.Pointer(unknown)).setValue(act.Text)
		unknown.Release()
		b.mu.Unlock()
		if perr != nil {
			return platform.InvokeResult{}, perr
		}
		return platform.InvokeResult{Method: platform.MethodNative, Detail: "ValuePattern"}, nil
	}
	uh.el.setFocus()
	b.mu.Unlock()

	// Controls without a Value pattern: focus and type.
	if act.ClearFirst {
		if res, err := platform.PressKeyFallback("ctrl+a"); err != nil {
			return res, err
		}
		if res, err := platform.PressKeyFallback("delete"); err != nil {
			return res, err
		}
	}
	return platform.TypeTextFallback(act.Text), nil
}
