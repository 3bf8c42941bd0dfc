//go:build windows

package windows

import (
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"

	"github.com/axlocate/axlocate/internal/axerr"
)

// Minimal UI Automation client bindings. Only the slots this backend calls
// are named; everything else is positional padding so the offsets line up
// with UIAutomationClient.h.

var (
	clsidCUIAutomation = ole.NewGUID("{ff48dba4-60ef-4201-aa87-54103eef594e}")
	iidIUIAutomation   = ole.NewGUID("{30cbe57d-d9d0-452a-ab13-7ac5ac4825ee}")

	iidInvokePattern = ole.NewGUID("{fb377fbe-8ea6-46d5-9c73-6499642d3059}")
	iidValuePattern  = ole.NewGUID("{a94cd8b1-0844-4cd6-9d2d-640537ab39e9}")
	iidTogglePattern = ole.NewGUID("{94cf8058-9b8d-4ab9-8bfd-4cd0a33c8c70}")
)

// UIA property ids.
const (
	propBoundingRectangle   = 30001
	propControlType         = 30003
	propName                = 30005
	propHasKeyboardFocus    = 30008
	propIsKeyboardFocusable = 30009
	propIsEnabled           = 30010
	propAutomationID        = 30011
	propClassName           = 30012
	propHelpText            = 30013
	propIsOffscreen         = 30022
	propValueValue          = 30045
)

// UIA pattern ids.
const (
	patternInvoke = 10000
	patternValue  = 10002
	patternToggle = 10015
)

const (
	hrElementNotAvailable = 0x80040201 // UIA_E_ELEMENTNOTAVAILABLE
	hrAccessDenied        = 0x80070005 // E_ACCESSDENIED
)

// mapHRESULT converts a UIA call failure into the shared taxonomy.
func mapHRESULT(hr uintptr, context string) error {
	switch uint32(hr) {
	case 0:
		return nil
	case hrElementNotAvailable:
		return axerr.New(axerr.ElementNotFound, "%s: element no longer exists", context)
	case hrAccessDenied:
		return axerr.New(axerr.PermissionDenied, "%s: access denied by UI Automation", context)
	default:
		return axerr.New(axerr.PlatformError, "%s: HRESULT 0x%08x", context, uint32(hr))
	}
}

type uiAutomation struct{ ole.IUnknown }

type uiAutomationVtbl struct {
	ole.IUnknownVtbl
	CompareElements             uintptr
	CompareRuntimeIds           uintptr
	GetRootElement              uintptr
	ElementFromHandle           uintptr
	ElementFromPoint            uintptr
	GetFocusedElement           uintptr
	GetRootElementBuildCache    uintptr
	ElementFromHandleBuildCache uintptr
	ElementFromPointBuildCache  uintptr
	GetFocusedElementBuildCache uintptr
	CreateTreeWalker            uintptr
	GetControlViewWalker        uintptr
	GetContentViewWalker        uintptr
	GetRawViewWalker            uintptr
}

func (a *uiAutomation) vtbl() *uiAutomationVtbl {
	return (*uiAutomationVtbl)(unsafe.Pointer(a.RawVTable))
}

func newUIAutomation() (*uiAutomation, error) {
	unknown, err := ole.CreateInstance(clsidCUIAutomation, iidIUIAutomation)
	if err != nil {
		return nil, axerr.Wrap(axerr.PlatformError, err, "creating the UI Automation client")
	}
	return (*uiAutomation)(unsafe.Pointer(unknown)), nil
}

func (a *uiAutomation) rootElement() (*uiaElement, error) {
	var el *uiaElement
	hr, _, _ := syscall.SyscallN(a.vtbl().GetRootElement,
		uintptr(unsafe.Pointer(a)), uintptr(unsafe.Pointer(&el)))
	if err := mapHRESULT(hr, "getting the desktop root"); err != nil {
		return nil, err
	}
	if el == nil {
		return nil, axerr.New(axerr.PlatformError, "UI Automation returned no desktop root")
	}
	return el, nil
}

func (a *uiAutomation) focusedElement() (*uiaElement, error) {
	var el *uiaElement
	hr, _, _ := syscall.SyscallN(a.vtbl().GetFocusedElement,
		uintptr(unsafe.Pointer(a)), uintptr(unsafe.Pointer(&el)))
	if err := mapHRESULT(hr, "getting the focused element"); err != nil {
		return nil, err
	}
	if el == nil {
		return nil, axerr.New(axerr.ElementNotFound, "no element has keyboard focus")
	}
	return el, nil
}

func (a *uiAutomation) controlViewWalker() (*uiaTreeWalker, error) {
	var w *uiaTreeWalker
	hr, _, _ := syscall.SyscallN(a.vtbl().GetControlViewWalker,
		uintptr(unsafe.Pointer(a)), uintptr(unsafe.Pointer(&w)))
	if err := mapHRESULT(hr, "getting the control view walker"); err != nil {
		return nil, err
	}
	return w, nil
}

type uiaElement struct{ ole.IUnknown }

type uiaElementVtbl struct {
	ole.IUnknownVtbl
	SetFocus                uintptr
	GetRuntimeId            uintptr
	FindFirst               uintptr
	FindAll                 uintptr
	FindFirstBuildCache     uintptr
	FindAllBuildCache       uintptr
	BuildUpdatedCache       uintptr
	GetCurrentPropertyValue uintptr
	GetCurrentPropertyValEx uintptr
	GetCachedPropertyValue  uintptr
	GetCachedPropertyValEx  uintptr
	GetCurrentPatternAs     uintptr
	GetCachedPatternAs      uintptr
	GetCurrentPattern       uintptr
	GetCachedPattern        uintptr
	GetCachedParent         uintptr
	GetCachedChildren       uintptr
	GetCurrentProcessID     uintptr
	GetCurrentControlType   uintptr
}

func (e *uiaElement) vtbl() *uiaElementVtbl {
	return (*uiaElementVtbl)(unsafe.Pointer(e.RawVTable))
}

// property fetches one current property as a VARIANT. The caller owns the
// returned variant and must VariantClear it.
func (e *uiaElement) property(propID int) (ole.VARIANT, error) {
	var v ole.VARIANT
	ole.VariantInit(&v)
	hr, _, _ := syscall.SyscallN(e.vtbl().GetCurrentPropertyValue,
		uintptr(unsafe.Pointer(e)), uintptr(propID), uintptr(unsafe.Pointer(&v)))
	if err := mapHRESULT(hr, "reading a property"); err != nil {
		return v, err
	}
	return v, nil
}

func (e *uiaElement) stringProperty(propID int) (string, error) {
	v, err := e.property(propID)
	if err != nil {
		return "", err
	}
	defer v.Clear()
	if v.VT != ole.VT_BSTR {
		return "", nil
	}
	return v.ToString(), nil
}

func (e *uiaElement) boolProperty(propID int, fallback bool) (bool, error) {
	v, err := e.property(propID)
	if err != nil {
		return fallback, err
	}
	defer v.Clear()
	if v.VT != ole.VT_BOOL {
		return fallback, nil
	}
	return v.Value().(bool), nil
}

func (e *uiaElement) intProperty(propID int) (int, error) {
	v, err := e.property(propID)
	if err != nil {
		return 0, err
	}
	defer v.Clear()
	switch v.VT {
	case ole.VT_I4:
		return int(int32(v.Val)), nil
	case ole.VT_I2:
		return int(int16(v.Val)), nil
	}
	return 0, nil
}

// boundingRectangle returns left, top, width, height. UIA hands the rect
// back as a four-element VT_R8 safearray.
func (e *uiaElement) boundingRectangle() (x, y, w, h int, ok bool, err error) {
	v, perr := e.property(propBoundingRectangle)
	if perr != nil {
		return 0, 0, 0, 0, false, perr
	}
	defer v.Clear()
	arr := v.ToArray()
	if arr == nil {
		return 0, 0, 0, 0, false, nil
	}
	vals := arr.ToValueArray()
	if len(vals) != 4 {
		return 0, 0, 0, 0, false, nil
	}
	f := make([]float64, 4)
	for i, raw := range vals {
		d, isFloat := raw.(float64)
		if !isFloat {
			return 0, 0, 0, 0, false, nil
		}
		f[i] = d
	}
	return int(f[0]), int(f[1]), int(f[2]), int(f[3]), true, nil
}

func (e *uiaElement) setFocus() error {
	hr, _, _ := syscall.SyscallN(e.vtbl().SetFocus, uintptr(unsafe.Pointer(e)))
	return mapHRESULT(hr, "focusing element")
}

// pattern asks the element for one of its control patterns. A nil result
// with a nil error means the element does not implement the pattern.
func (e *uiaElement) pattern(patternID int, iid *ole.GUID) (*ole.IUnknown, error) {
	var unknown *ole.IUnknown
	hr, _, _ := syscall.SyscallN(e.vtbl().GetCurrentPattern,
		uintptr(unsafe.Pointer(e)), uintptr(patternID), uintptr(unsafe.Pointer(&unknown)))
	if err := mapHRESULT(hr, "querying a control pattern"); err != nil {
		return nil, err
	}
	if unknown == nil {
		return nil, nil
	}
	typed, err := unknown.QueryInterface(iid)
	unknown.Release()
	if err != nil {
		return nil, axerr.Wrap(axerr.PlatformError, err, "resolving a control pattern interface")
	}
	return (*ole.IUnknown)(unsafe.Pointer(typed)), nil
}

type uiaTreeWalker struct{ ole.IUnknown }

type uiaTreeWalkerVtbl struct {
	ole.IUnknownVtbl
	GetParentElement          uintptr
	GetFirstChildElement      uintptr
	GetLastChildElement       uintptr
	GetNextSiblingElement     uintptr
	GetPreviousSiblingElement uintptr
	NormalizeElement          uintptr
}

func (w *uiaTreeWalker) vtbl() *uiaTreeWalkerVtbl {
	return (*uiaTreeWalkerVtbl)(unsafe.Pointer(w.RawVTable))
}

func (w *uiaTreeWalker) step(slot uintptr, from *uiaElement, context string) (*uiaElement, error) {
	var el *uiaElement
	hr, _, _ := syscall.SyscallN(slot,
		uintptr(unsafe.Pointer(w)), uintptr(unsafe.Pointer(from)), uintptr(unsafe.Pointer(&el)))
	if err := mapHRESULT(hr, context); err != nil {
		return nil, err
	}
	return el, nil
}

func (w *uiaTreeWalker) parent(el *uiaElement) (*uiaElement, error) {
	return w.step(w.vtbl().GetParentElement, el, "walking to parent")
}

func (w *uiaTreeWalker) firstChild(el *uiaElement) (*uiaElement, error) {
	return w.step(w.vtbl().GetFirstChildElement, el, "walking to first child")
}

func (w *uiaTreeWalker) nextSibling(el *uiaElement) (*uiaElement, error) {
	return w.step(w.vtbl().GetNextSiblingElement, el, "walking to next sibling")
}

// Pattern interfaces. Each pattern vtable starts right after IUnknown.

type invokePattern struct{ ole.IUnknown }

type invokePatternVtbl struct {
	ole.IUnknownVtbl
	Invoke uintptr
}

func (p *invokePattern) invoke() error {
	vt := (*invokePatternVtbl)(unsafe.Pointer(p.RawVTable))
	hr, _, _ := syscall.SyscallN(vt.Invoke, uintptr(unsafe.Pointer(p)))
	return mapHRESULT(hr, "invoking element")
}

type valuePattern struct{ ole.IUnknown }

type valuePatternVtbl struct {
	ole.IUnknownVtbl
	SetValue        uintptr
	GetCurrentValue uintptr
	GetCurrentIsRO  uintptr
}

func (p *valuePattern) setValue(text string) error {
	vt := (*valuePatternVtbl)(unsafe.Pointer(p.RawVTable))
	bstr := ole.SysAllocString(text)
	defer ole.SysFreeString(bstr)
	hr, _, _ := syscall.SyscallN(vt.SetValue,
		uintptr(unsafe.Pointer(p)), uintptr(unsafe.Pointer(bstr)))
	return mapHRESULT(hr, "setting element value")
}

type togglePattern struct{ ole.IUnknown }

type togglePatternVtbl struct {
	ole.IUnknownVtbl
	Toggle uintptr
}

func (p *togglePattern) toggle() error {
	vt := (*togglePatternVtbl)(unsafe.Pointer(p.RawVTable))
	hr, _, _ := syscall.SyscallN(vt.Toggle, uintptr(unsafe.Pointer(p)))
	return mapHRESULT(hr, "toggling element")
}
