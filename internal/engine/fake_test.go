package engine

import (
	"sync"

	"github.com/axlocate/axlocate/internal/axerr"
	"github.com/axlocate/axlocate/internal/model"
	"github.com/axlocate/axlocate/internal/platform"
)

// fakeNode is an in-memory accessibility node. Tests mutate the tree and
// flip staleness between polls to exercise the wait/retry contract.
type fakeNode struct {
	attrs    model.Attributes
	children []*fakeNode
	parent   *fakeNode
	stale    bool
}

func node(role, name string, children ...*fakeNode) *fakeNode {
	n := &fakeNode{
		attrs: model.Attributes{
			Role:    role,
			Name:    name,
			Enabled: true,
			Visible: true,
			Bounds:  &model.Bounds{X: 0, Y: 0, Width: 100, Height: 40},
		},
		children: children,
	}
	for _, c := range children {
		c.parent = n
	}
	return n
}

// addChild attaches a node to a parent after construction, for tests that
// grow the tree while a wait loop is polling.
func (n *fakeNode) addChild(c *fakeNode) {
	c.parent = n
	n.children = append(n.children, c)
}

// markStale invalidates a node and its subtree, as if the native UI
// destroyed it.
func (n *fakeNode) markStale() {
	n.stale = true
	for _, c := range n.children {
		c.markStale()
	}
}

type fakeBackend struct {
	mu      sync.Mutex
	root    *fakeNode
	focused *fakeNode

	// invoked records actions for assertion.
	invoked []platform.Action
	// rejectNative makes Invoke fail as a custom-drawn control would,
	// forcing the coordinate-fallback decision path in the backend
	// contract (the fake reports it the way real backends do).
	rejectNative bool
	// attrErr, when set, is returned by every Attributes call.
	attrErr error
	// reads counts Attributes calls, to observe retry behavior.
	reads int
}

func newFakeBackend(root *fakeNode) *fakeBackend {
	return &fakeBackend{root: root}
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Root() (platform.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.root, nil
}

func (f *fakeBackend) Applications() ([]platform.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]platform.Handle, 0, len(f.root.children))
	for _, c := range f.root.children {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeBackend) Children(h platform.Handle) ([]platform.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := h.(*fakeNode)
	if n.stale {
		return nil, axerr.New(axerr.ElementNotFound, "stale handle")
	}
	out := make([]platform.Handle, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeBackend) Parent(h platform.Handle) (platform.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := h.(*fakeNode)
	if n.stale {
		return nil, axerr.New(axerr.ElementNotFound, "stale handle")
	}
	if n.parent == nil {
		return nil, nil
	}
	return n.parent, nil
}

func (f *fakeBackend) Attributes(h platform.Handle) (model.Attributes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.attrErr != nil {
		return model.Attributes{}, f.attrErr
	}
	n := h.(*fakeNode)
	if n.stale {
		return model.Attributes{}, axerr.New(axerr.ElementNotFound, "stale handle")
	}
	return n.attrs, nil
}

func (f *fakeBackend) FocusedElement() (platform.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.focused == nil {
		return nil, axerr.New(axerr.ElementNotFound, "nothing focused")
	}
	return f.focused, nil
}

func (f *fakeBackend) Invoke(h platform.Handle, act platform.Action) (platform.InvokeResult, error) {
	f.mu.Lock()
	n := h.(*fakeNode)
	if n.stale {
		f.mu.Unlock()
		return platform.InvokeResult{}, axerr.New(axerr.ElementNotFound, "stale handle")
	}
	f.invoked = append(f.invoked, act)
	reject := f.rejectNative
	f.mu.Unlock()

	if act.Kind == platform.ActionGetText {
		text, err := platform.GatherText(f, h, act.MaxDepth)
		if err != nil {
			return platform.InvokeResult{}, err
		}
		return platform.InvokeResult{Method: platform.MethodNative, Text: text}, nil
	}

	if reject {
		f.mu.Lock()
		bounds := n.attrs.Bounds
		f.mu.Unlock()
		if bounds == nil {
			return platform.InvokeResult{}, axerr.New(axerr.UnsupportedOperation, "no native action and no bounds")
		}
		x, y := bounds.Center()
		return platform.InvokeResult{Method: platform.MethodCoordinate, X: x, Y: y}, nil
	}
	return platform.InvokeResult{Method: platform.MethodNative}, nil
}

// calculatorTree builds the fixture used throughout: a desktop with a
// Calculator app whose window holds digit buttons and a result display.
func calculatorTree() (*fakeNode, *fakeNode) {
	display := node(model.RoleText, "CalcDisplay")
	display.attrs.Value = "0"
	display.attrs.ID = "CalcResults"

	seven := node(model.RoleButton, "Seven")
	seven.attrs.ID = "num7Button"
	eight := node(model.RoleButton, "Eight")
	eight.attrs.ID = "num8Button"

	pad := node(model.RoleGroup, "NumberPad", seven, eight)
	win := node(model.RoleWindow, "Calculator", display, pad)
	app := node(model.RoleApplication, "Calculator", win)

	other := node(model.RoleApplication, "TextEdit",
		node(model.RoleWindow, "Untitled",
			node(model.RoleEdit, "Body")))

	root := node(model.RolePane, "Desktop", app, other)
	return root, seven
}
