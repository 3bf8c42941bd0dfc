//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreGraphics -framework CoreFoundation -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreGraphics/CoreGraphics.h>
#include <stdio.h>
#include <stdlib.h>
#include <string.h>

// Batched attribute bundle for one element. One cgo crossing per read.
typedef struct {
    char *role;
    char *subrole;
    char *title;
    char *value;
    char *description;
    char *identifier;
    int x, y, width, height;
    int hasBounds;
    int enabled;
    int focused;
    int focusable;
    int appHidden;
    pid_t pid;
} AXAttrs;

static char *ax_copy_string(AXUIElementRef el, CFStringRef attr) {
    CFTypeRef value = NULL;
    if (AXUIElementCopyAttributeValue(el, attr, &value) != kAXErrorSuccess || value == NULL) {
        return NULL;
    }
    char *out = NULL;
    if (CFGetTypeID(value) == CFStringGetTypeID()) {
        CFStringRef s = (CFStringRef)value;
        CFIndex cap = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
        out = malloc(cap);
        if (out && !CFStringGetCString(s, out, cap, kCFStringEncodingUTF8)) {
            free(out);
            out = NULL;
        }
    } else if (CFGetTypeID(value) == CFNumberGetTypeID()) {
        double d = 0;
        CFNumberGetValue((CFNumberRef)value, kCFNumberDoubleType, &d);
        out = malloc(32);
        if (out) snprintf(out, 32, "%g", d);
    }
    CFRelease(value);
    return out;
}

static int ax_copy_bool(AXUIElementRef el, CFStringRef attr, int fallback) {
    CFTypeRef value = NULL;
    if (AXUIElementCopyAttributeValue(el, attr, &value) != kAXErrorSuccess || value == NULL) {
        return fallback;
    }
    int out = fallback;
    if (CFGetTypeID(value) == CFBooleanGetTypeID()) {
        out = CFBooleanGetValue((CFBooleanRef)value) ? 1 : 0;
    }
    CFRelease(value);
    return out;
}

static AXError ax_copy_attrs(AXUIElementRef el, AXAttrs *out) {
    memset(out, 0, sizeof(*out));

    // The role read doubles as the liveness probe: a destroyed element
    // answers kAXErrorInvalidUIElement here.
    CFTypeRef roleValue = NULL;
    AXError err = AXUIElementCopyAttributeValue(el, kAXRoleAttribute, &roleValue);
    if (err != kAXErrorSuccess) {
        return err;
    }
    if (roleValue != NULL) {
        if (CFGetTypeID(roleValue) == CFStringGetTypeID()) {
            CFStringRef s = (CFStringRef)roleValue;
            CFIndex cap = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
            out->role = malloc(cap);
            if (out->role && !CFStringGetCString(s, out->role, cap, kCFStringEncodingUTF8)) {
                free(out->role);
                out->role = NULL;
            }
        }
        CFRelease(roleValue);
    }

    out->subrole = ax_copy_string(el, kAXSubroleAttribute);
    out->title = ax_copy_string(el, kAXTitleAttribute);
    out->value = ax_copy_string(el, kAXValueAttribute);
    out->description = ax_copy_string(el, kAXDescriptionAttribute);
    out->identifier = ax_copy_string(el, kAXIdentifierAttribute);

    out->enabled = ax_copy_bool(el, kAXEnabledAttribute, 1);
    out->focused = ax_copy_bool(el, kAXFocusedAttribute, 0);
    CFStringRef focusableAttr = CFSTR("AXFocusable");
    out->focusable = ax_copy_bool(el, focusableAttr, 0);

    CFTypeRef posValue = NULL, sizeValue = NULL;
    if (AXUIElementCopyAttributeValue(el, kAXPositionAttribute, &posValue) == kAXErrorSuccess &&
        AXUIElementCopyAttributeValue(el, kAXSizeAttribute, &sizeValue) == kAXErrorSuccess) {
        CGPoint p;
        CGSize s;
        if (AXValueGetValue((AXValueRef)posValue, kAXValueCGPointType, &p) &&
            AXValueGetValue((AXValueRef)sizeValue, kAXValueCGSizeType, &s)) {
            out->x = (int)p.x;
            out->y = (int)p.y;
            out->width = (int)s.width;
            out->height = (int)s.height;
            out->hasBounds = 1;
        }
    }
    if (posValue) CFRelease(posValue);
    if (sizeValue) CFRelease(sizeValue);

    // Owning application hidden state feeds the visibility heuristic.
    if (AXUIElementGetPid(el, &out->pid) == kAXErrorSuccess && out->pid > 0) {
        AXUIElementRef app = AXUIElementCreateApplication(out->pid);
        if (app != NULL) {
            out->appHidden = ax_copy_bool(app, kAXHiddenAttribute, 0);
            CFRelease(app);
        }
    }

    return kAXErrorSuccess;
}

static void ax_free_attrs(AXAttrs *a) {
    free(a->role);
    free(a->subrole);
    free(a->title);
    free(a->value);
    free(a->description);
    free(a->identifier);
}

static AXError ax_copy_children(AXUIElementRef el, AXUIElementRef **out, int *count) {
    *out = NULL;
    *count = 0;
    CFTypeRef value = NULL;
    AXError err = AXUIElementCopyAttributeValue(el, kAXChildrenAttribute, &value);
    if (err == kAXErrorNoValue) {
        return kAXErrorSuccess;
    }
    if (err != kAXErrorSuccess) {
        return err;
    }
    if (value == NULL || CFGetTypeID(value) != CFArrayGetTypeID()) {
        if (value) CFRelease(value);
        return kAXErrorSuccess;
    }
    CFArrayRef arr = (CFArrayRef)value;
    CFIndex n = CFArrayGetCount(arr);
    if (n > 0) {
        *out = malloc(sizeof(AXUIElementRef) * n);
        for (CFIndex i = 0; i < n; i++) {
            AXUIElementRef child = (AXUIElementRef)CFArrayGetValueAtIndex(arr, i);
            CFRetain(child);
            (*out)[i] = child;
        }
        *count = (int)n;
    }
    CFRelease(value);
    return kAXErrorSuccess;
}

static AXUIElementRef ax_copy_parent(AXUIElementRef el, AXError *errOut) {
    CFTypeRef value = NULL;
    AXError err = AXUIElementCopyAttributeValue(el, kAXParentAttribute, &value);
    if (err == kAXErrorNoValue || value == NULL) {
        *errOut = kAXErrorSuccess;
        return NULL;
    }
    if (err != kAXErrorSuccess) {
        *errOut = err;
        return NULL;
    }
    *errOut = kAXErrorSuccess;
    return (AXUIElementRef)value; // already retained by the copy
}

static AXError ax_perform(AXUIElementRef el, const char *action) {
    CFStringRef name = CFStringCreateWithCString(NULL, action, kCFStringEncodingUTF8);
    AXError err = AXUIElementPerformAction(el, name);
    CFRelease(name);
    return err;
}

static AXError ax_set_string_value(AXUIElementRef el, const char *text) {
    CFStringRef s = CFStringCreateWithCString(NULL, text, kCFStringEncodingUTF8);
    AXError err = AXUIElementSetAttributeValue(el, kAXValueAttribute, s);
    CFRelease(s);
    return err;
}

static AXError ax_set_focused(AXUIElementRef el) {
    return AXUIElementSetAttributeValue(el, kAXFocusedAttribute, kCFBooleanTrue);
}

static AXUIElementRef ax_focused_element(AXError *errOut) {
    AXUIElementRef systemWide = AXUIElementCreateSystemWide();
    CFTypeRef value = NULL;
    *errOut = AXUIElementCopyAttributeValue(systemWide, kAXFocusedUIElementAttribute, &value);
    CFRelease(systemWide);
    if (*errOut != kAXErrorSuccess || value == NULL) {
        return NULL;
    }
    return (AXUIElementRef)value;
}

// Running application pids with on-screen windows, deduplicated, in window
// z-order.
static int cg_app_pids(pid_t **pids, int *count) {
    *pids = NULL;
    *count = 0;
    CFArrayRef windows = CGWindowListCopyWindowInfo(
        kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements, kCGNullWindowID);
    if (windows == NULL) {
        return -1;
    }
    CFIndex n = CFArrayGetCount(windows);
    pid_t *buf = malloc(sizeof(pid_t) * (n > 0 ? n : 1));
    int found = 0;
    for (CFIndex i = 0; i < n; i++) {
        CFDictionaryRef info = CFArrayGetValueAtIndex(windows, i);
        CFNumberRef layerNum = CFDictionaryGetValue(info, kCGWindowLayer);
        int layer = -1;
        if (layerNum) CFNumberGetValue(layerNum, kCFNumberIntType, &layer);
        if (layer != 0) continue; // real application windows only
        CFNumberRef pidNum = CFDictionaryGetValue(info, kCGWindowOwnerPID);
        pid_t pid = 0;
        if (pidNum) CFNumberGetValue(pidNum, kCFNumberIntType, &pid);
        if (pid <= 0) continue;
        int dup = 0;
        for (int j = 0; j < found; j++) {
            if (buf[j] == pid) { dup = 1; break; }
        }
        if (!dup) buf[found++] = pid;
    }
    CFRelease(windows);
    *pids = buf;
    *count = found;
    return 0;
}

// Reports whether a screen rectangle intersects any attached display.
static int cg_rect_on_screen(int x, int y, int w, int h) {
    CGDirectDisplayID displays[16];
    uint32_t n = 0;
    if (CGGetActiveDisplayList(16, displays, &n) != kCGErrorSuccess) {
        return 1; // cannot tell; do not hide elements on query failure
    }
    CGRect rect = CGRectMake(x, y, w, h);
    for (uint32_t i = 0; i < n; i++) {
        if (CGRectIntersectsRect(rect, CGDisplayBounds(displays[i]))) {
            return 1;
        }
    }
    return 0;
}

static void ax_release(AXUIElementRef el) {
    if (el) CFRelease(el);
}

static AXUIElementRef ax_app_element(pid_t pid) {
    return AXUIElementCreateApplication(pid);
}
*/
import "C"

import (
	"runtime"
	"strconv"
	"sync"
	"unsafe"

	"github.com/axlocate/axlocate/internal/axerr"
	"github.com/axlocate/axlocate/internal/model"
	"github.com/axlocate/axlocate/internal/platform"
)

// axHandle wraps one retained AXUIElementRef. The desktop root is a
// synthetic handle with no ref; its children are the running applications.
type axHandle struct {
	ref  C.AXUIElementRef
	root bool
}

func wrapRef(ref C.AXUIElementRef) *axHandle {
	h := &axHandle{ref: ref}
	runtime.SetFinalizer(h, func(h *axHandle) {
		C.ax_release(h.ref)
	})
	return h
}

// Backend implements platform.Backend on the macOS AX API. The AX API is
// not documented as thread-safe, so every native call is serialized behind
// one mutex; callers see a thread-safe capability set.
type Backend struct {
	mu       sync.Mutex
	rootOnce axHandle
}

// NewBackend verifies accessibility permission and returns the backend.
func NewBackend() (*Backend, error) {
	if err := CheckAccessibilityPermission(); err != nil {
		return nil, err
	}
	return &Backend{rootOnce: axHandle{root: true}}, nil
}

func (b *Backend) Name() string { return "darwin" }

// mapAXError converts an AXError into the shared taxonomy.
func mapAXError(err C.AXError, context string) error {
	switch err {
	case C.kAXErrorSuccess:
		return nil
	case C.kAXErrorInvalidUIElement:
		return axerr.New(axerr.ElementNotFound, "%s: element no longer exists", context)
	case C.kAXErrorAttributeUnsupported, C.kAXErrorActionUnsupported, C.kAXErrorNotImplemented:
		return axerr.New(axerr.UnsupportedOperation, "%s: not supported by this element", context)
	case C.kAXErrorAPIDisabled, C.kAXErrorNotificationNotRegistered:
		return axerr.New(axerr.PermissionDenied, "%s: accessibility API disabled for this process", context)
	case C.kAXErrorNoValue:
		return nil
	default:
		return axerr.New(axerr.PlatformError, "%s: AXError %d", context, int(err))
	}
}

func (b *Backend) toHandle(h platform.Handle) (*axHandle, error) {
	ax, ok := h.(*axHandle)
	if !ok || (ax.ref == nil && !ax.root) {
		return nil, axerr.New(axerr.Internal, "foreign handle passed to darwin backend")
	}
	return ax, nil
}

func (b *Backend) Root() (platform.Handle, error) {
	return &b.rootOnce, nil
}

func (b *Backend) Applications() ([]platform.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.applicationsLocked()
}

func (b *Backend) applicationsLocked() ([]platform.Handle, error) {
	var cPids *C.pid_t
	var cCount C.int
	if C.cg_app_pids(&cPids, &cCount) != 0 {
		return nil, axerr.New(axerr.PlatformError, "enumerating application windows")
	}
	defer C.free(unsafe.Pointer(cPids))

	count := int(cCount)
	if count == 0 {
		return []platform.Handle{}, nil
	}
	pids := unsafe.Slice(cPids, count)

	out := make([]platform.Handle, 0, count)
	for i := 0; i < count; i++ {
		ref := C.ax_app_element(pids[i])
		if ref == nil {
			continue
		}
		out = append(out, wrapRef(ref))
	}
	return out, nil
}

func (b *Backend) Children(h platform.Handle) ([]platform.Handle, error) {
	ax, err := b.toHandle(h)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if ax.root {
		return b.applicationsLocked()
	}

	var cChildren *C.AXUIElementRef
	var cCount C.int
	if err := mapAXError(C.ax_copy_children(ax.ref, &cChildren, &cCount), "reading children"); err != nil {
		return nil, err
	}
	count := int(cCount)
	if count == 0 {
		return []platform.Handle{}, nil
	}
	defer C.free(unsafe.Pointer(cChildren))

	refs := unsafe.Slice(cChildren, count)
	out := make([]platform.Handle, count)
	for i := 0; i < count; i++ {
		out[i] = wrapRef(refs[i])
	}
	return out, nil
}

func (b *Backend) Parent(h platform.Handle) (platform.Handle, error) {
	ax, err := b.toHandle(h)
	if err != nil {
		return nil, err
	}
	if ax.root {
		return nil, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var cErr C.AXError
	ref := C.ax_copy_parent(ax.ref, &cErr)
	if err := mapAXError(cErr, "reading parent"); err != nil {
		return nil, err
	}
	if ref == nil {
		// Top of a native tree; the synthetic desktop root sits above it.
		return &b.rootOnce, nil
	}
	return wrapRef(ref), nil
}

func (b *Backend) Attributes(h platform.Handle) (model.Attributes, error) {
	ax, err := b.toHandle(h)
	if err != nil {
		return model.Attributes{}, err
	}
	if ax.root {
		return model.Attributes{
			Role: model.RolePane, Name: "Desktop", Enabled: true, Visible: true,
		}, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var cAttrs C.AXAttrs
	if err := mapAXError(C.ax_copy_attrs(ax.ref, &cAttrs), "reading attributes"); err != nil {
		return model.Attributes{}, err
	}
	defer C.ax_free_attrs(&cAttrs)

	axRole := C.GoString(cAttrs.role)
	attrs := model.Attributes{
		Role:        mapAXRole(axRole),
		Name:        C.GoString(cAttrs.title),
		ID:          C.GoString(cAttrs.identifier),
		Value:       C.GoString(cAttrs.value),
		Description: C.GoString(cAttrs.description),
		Enabled:     cAttrs.enabled != 0,
		Focused:     cAttrs.focused != 0,
		Focusable:   cAttrs.focusable != 0,
		Properties:  map[string]string{"axrole": axRole},
	}
	if sub := C.GoString(cAttrs.subrole); sub != "" {
		attrs.Properties["subrole"] = sub
		if sub == "AXDialog" || sub == "AXSheet" || sub == "AXSystemDialog" {
			attrs.Role = model.RoleDialog
		}
	}
	if cAttrs.pid > 0 {
		attrs.Properties["pid"] = strconv.Itoa(int(cAttrs.pid))
	}

	if cAttrs.hasBounds != 0 {
		attrs.Bounds = &model.Bounds{
			X:      int(cAttrs.x),
			Y:      int(cAttrs.y),
			Width:  int(cAttrs.width),
			Height: int(cAttrs.height),
		}
	}

	// Visibility heuristic: non-empty bounds intersecting an attached
	// display, and the owning application not hidden. Keep in sync with
	// the windows backend.
	attrs.Visible = cAttrs.hasBounds != 0 &&
		!attrs.Bounds.Empty() &&
		cAttrs.appHidden == 0 &&
		C.cg_rect_on_screen(cAttrs.x, cAttrs.y, cAttrs.width, cAttrs.height) != 0
	if attrs.Role == model.RoleApplication {
		// Application elements carry no geometry of their own.
		attrs.Visible = cAttrs.appHidden == 0
	}

	return attrs, nil
}

func (b *Backend) FocusedElement() (platform.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var cErr C.AXError
	ref := C.ax_focused_element(&cErr)
	if err := mapAXError(cErr, "reading focused element"); err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, axerr.New(axerr.ElementNotFound, "no element has keyboard focus")
	}
	return wrapRef(ref), nil
}

func (b *Backend) Invoke(h platform.Handle, act platform.Action) (platform.InvokeResult, error) {
	ax, err := b.toHandle(h)
	if err != nil {
		return platform.InvokeResult{}, err
	}
	if ax.root {
		return platform.InvokeResult{}, axerr.New(axerr.UnsupportedOperation,
			"actions cannot target the desktop root")
	}

	switch act.Kind {
	case platform.ActionClick:
		return b.pressOrFallback(ax, "AXPress", act.Kind)
	case platform.ActionRightClick:
		return b.pressOrFallback(ax, "AXShowMenu", act.Kind)
	case platform.ActionDoubleClick:
		// No AX action maps to a double click; coordinate synthesis is
		// the only route.
		return b.coordinateFallback(ax, act.Kind)
	case platform.ActionSetText:
		return b.setText(ax, act)
	case platform.ActionPressKey:
		return b.pressKey(ax, act.Key)
	case platform.ActionFocus:
		b.mu.Lock()
		err := mapAXError(C.ax_set_focused(ax.ref), "focusing element")
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

// pressOrFallback tries a native AX action and degrades to coordinate
// synthesis when the element rejects it.
func (b *Backend) pressOrFallback(ax *axHandle, axAction string, kind platform.ActionKind) (platform.InvokeResult, error) {
	cAction := C.CString(axAction)
	defer C.free(unsafe.Pointer(cAction))

	b.mu.Lock()
	cErr := C.ax_perform(ax.ref, cAction)
	b.mu.Unlock()

	err := mapAXError(cErr, axAction)
	if err == nil {
		return platform.InvokeResult{Method: platform.MethodNative, Detail: axAction}, nil
	}
	if axerr.IsKind(err, axerr.UnsupportedOperation) || axerr.IsKind(err, axerr.PlatformError) {
		return b.coordinateFallback(ax, kind)
	}
	return platform.InvokeResult{}, err
}

func (b *Backend) coordinateFallback(ax *axHandle, kind platform.ActionKind) (platform.InvokeResult, error) {
	attrs, err := b.Attributes(ax)
	if err != nil {
		return platform.InvokeResult{}, err
	}
	return platform.CoordinateClick(attrs.Bounds, kind)
}

func (b *Backend) setText(ax *axHandle, act platform.Action) (platform.InvokeResult, error) {
	cText := C.CString(act.Text)
	defer C.free(unsafe.Pointer(cText))

	b.mu.Lock()
	C.ax_set_focused(ax.ref) // best effort; some fields require focus first
	cErr := C.ax_set_string_value(ax.ref, cText)
	b.mu.Unlock()

	err := mapAXError(cErr, "setting value")
	if err == nil {
		return platform.InvokeResult{Method: platform.MethodNative}, nil
	}
	if !axerr.IsKind(err, axerr.UnsupportedOperation) {
		return platform.InvokeResult{}, err
	}

	// Custom controls without a settable AXValue: focus and type.
	if act.ClearFirst {
		if res, err := platform.PressKeyFallback("cmd+a"); err != nil {
			return res, err
		}
		if res, err := platform.PressKeyFallback("delete"); err != nil {
			return res, err
		}
	}
	return platform.TypeTextFallback(act.Text), nil
}

func (b *Backend) pressKey(ax *axHandle, key string) (platform.InvokeResult, error) {
	b.mu.Lock()
	C.ax_set_focused(ax.ref) // direct the injected keys at this element
	b.mu.Unlock()
	return platform.PressKeyFallback(key)
}
