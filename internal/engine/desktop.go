// Package engine is the selector resolution core: it turns compiled
// selector chains into live element references through a platform backend,
// under an explicit wait/retry/timeout contract.
package engine

import (
	"log/slog"
	"strings"
	"time"

	"github.com/axlocate/axlocate/internal/apps"
	"github.com/axlocate/axlocate/internal/axerr"
	"github.com/axlocate/axlocate/internal/platform"
	"github.com/axlocate/axlocate/internal/selector"
)

// Desktop is the entry point for UI automation. It owns the platform
// backend selected at startup and hands out locators and elements backed by
// it. It holds no mutable desktop state: the foreground application and
// focused element are read fresh from the backend per call.
type Desktop struct {
	backend platform.Backend
}

// New selects the backend for the current OS. Fails with
// UnsupportedPlatform when none is registered.
func New() (*Desktop, error) {
	b, err := platform.NewBackend()
	if err != nil {
		return nil, err
	}
	slog.Info("accessibility backend selected", "backend", b.Name())
	return &Desktop{backend: b}, nil
}

// NewWithBackend wires an explicit backend. Used by tests and by callers
// that already hold one.
func NewWithBackend(b platform.Backend) *Desktop {
	return &Desktop{backend: b}
}

// Root returns the desktop root container.
func (d *Desktop) Root() (*Element, error) {
	h, err := d.backend.Root()
	if err != nil {
		return nil, err
	}
	return newElement(d.backend, h), nil
}

// Applications returns one element per running top-level application.
func (d *Desktop) Applications() ([]*Element, error) {
	handles, err := d.backend.Applications()
	if err != nil {
		return nil, err
	}
	out := make([]*Element, len(handles))
	for i, h := range handles {
		out[i] = newElement(d.backend, h)
	}
	return out, nil
}

// Application finds a running application by name, case-insensitively.
func (d *Desktop) Application(name string) (*Element, error) {
	if strings.TrimSpace(name) == "" {
		return nil, axerr.New(axerr.InvalidArgument, "empty application name")
	}
	elements, err := d.Applications()
	if err != nil {
		return nil, err
	}
	for _, e := range elements {
		attrs, err := e.Attributes()
		if err != nil {
			continue
		}
		if strings.EqualFold(attrs.Name, name) {
			return e, nil
		}
	}
	return nil, axerr.New(axerr.ElementNotFound, "no running application named %q", name)
}

// ActivateApplication brings a running application to the foreground by
// focusing its element.
func (d *Desktop) ActivateApplication(name string) error {
	app, err := d.Application(name)
	if err != nil {
		return err
	}
	return app.Focus()
}

// FocusedElement returns the element that currently has keyboard focus,
// read fresh from the backend.
func (d *Desktop) FocusedElement() (*Element, error) {
	h, err := d.backend.FocusedElement()
	if err != nil {
		return nil, err
	}
	return newElement(d.backend, h), nil
}

// Locator compiles a selector chain (steps joined with " >> ") and binds
// it to the desktop root scope.
func (d *Desktop) Locator(sel string) (*Locator, error) {
	chain, err := selector.ParseChainString(sel)
	if err != nil {
		return nil, err
	}
	return newLocator(d.backend, chain), nil
}

// OpenApplication launches (or activates) an application by name through
// the process-launch collaborator, then waits for it to show up in the
// accessibility tree and returns its element as a search scope.
func (d *Desktop) OpenApplication(name string, timeout time.Duration) (*Element, error) {
	if strings.TrimSpace(name) == "" {
		return nil, axerr.New(axerr.InvalidArgument, "empty application name")
	}
	if err := apps.Open(name); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	deadline := time.Now().Add(timeout)
	for {
		element, err := d.Application(name)
		if err == nil {
			return element, nil
		}
		if !axerr.Retryable(err) {
			return nil, err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, axerr.New(axerr.ElementNotFound,
				"application %q not visible in the accessibility tree after %s", name, timeout)
		}
		time.Sleep(min(DefaultPollInterval, remaining))
	}
}

// OpenURL opens a URL in the given browser (default browser when empty).
// Seeding only: locating elements inside the browser is the caller's next
// step.
func (d *Desktop) OpenURL(url, browser string) error {
	return apps.OpenURL(url, browser)
}
