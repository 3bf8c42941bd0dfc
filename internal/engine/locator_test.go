package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/axlocate/axlocate/internal/axerr"
	"github.com/axlocate/axlocate/internal/model"
	"github.com/axlocate/axlocate/internal/platform"
)

func calcDesktop(t *testing.T) (*Desktop, *fakeBackend, *fakeNode) {
	t.Helper()
	root, seven := calculatorTree()
	b := newFakeBackend(root)
	return NewWithBackend(b), b, seven
}

// fastLocator compiles a chain with test-friendly wait parameters.
func fastLocator(t *testing.T, d *Desktop, sels ...string) *Locator {
	t.Helper()
	loc, err := d.Locator(sels[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range sels[1:] {
		loc, err = loc.Locator(s)
		if err != nil {
			t.Fatal(err)
		}
	}
	return loc.WithTimeout(500 * time.Millisecond).WithPollInterval(10 * time.Millisecond)
}

func TestFirst_CalculatorSeven(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "window:Calculator", "name:Seven")

	element, err := loc.First()
	if err != nil {
		t.Fatal(err)
	}
	attrs, err := element.Attributes()
	if err != nil {
		t.Fatal(err)
	}
	if attrs.Role != model.RoleButton || attrs.Name != "Seven" {
		t.Errorf("resolved %s %q, want button Seven", attrs.Role, attrs.Name)
	}
}

func TestFirst_ChainTextSyntax(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "window:Calculator >> name:Seven")

	if got := loc.Chain(); got != "window:Calculator >> name:Seven" {
		t.Fatalf("chain = %q, input chain text must split into steps", got)
	}

	element, err := loc.First()
	if err != nil {
		t.Fatal(err)
	}
	attrs, err := element.Attributes()
	if err != nil {
		t.Fatal(err)
	}
	if attrs.Role != model.RoleButton || attrs.Name != "Seven" {
		t.Errorf("resolved %s %q, want button Seven", attrs.Role, attrs.Name)
	}
}

func TestLocatorExtension_ChainTextSyntax(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "window:Calculator", "group:NumberPad >> name:Eight")

	element, err := loc.First()
	if err != nil {
		t.Fatal(err)
	}
	if name, _ := element.Name(); name != "Eight" {
		t.Errorf("resolved %q, want Eight", name)
	}
}

func TestAll_SingleMatchTree(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "name:Seven")

	elements, err := loc.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(elements) != 1 {
		t.Errorf("all() on a tree with one match returned %d elements", len(elements))
	}
}

func TestAll_NMatchesIndependentlyResolvable(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "window:Calculator", "role:button")

	elements, err := loc.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(elements))
	}
	seen := map[string]bool{}
	for _, e := range elements {
		attrs, err := e.Attributes()
		if err != nil {
			t.Fatalf("element not independently resolvable: %v", err)
		}
		if seen[attrs.ID] {
			t.Errorf("duplicate handle for id %q", attrs.ID)
		}
		seen[attrs.ID] = true
	}
}

func TestFirst_NotFoundWaitsFullTimeout(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "window:NoSuchApp").WithTimeout(200 * time.Millisecond)

	start := time.Now()
	_, err := loc.First()
	elapsed := time.Since(start)

	if !axerr.IsKind(err, axerr.ElementNotFound) {
		t.Fatalf("kind = %v, want ElementNotFound", axerr.KindOf(err))
	}
	if elapsed < 200*time.Millisecond {
		t.Errorf("failed after %s, must wait at least the 200ms timeout", elapsed)
	}
}

func TestFirst_SucceedsImmediatelyWithoutWaiting(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "name:Seven").WithTimeout(5 * time.Second)

	start := time.Now()
	if _, err := loc.First(); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("immediate match took %s; the loop must not sleep before the first attempt", elapsed)
	}
}

func TestFirst_PerCallTimeoutOverride(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "window:NoSuchApp").WithTimeout(10 * time.Second)

	start := time.Now()
	_, err := loc.First(150 * time.Millisecond)
	elapsed := time.Since(start)

	if !axerr.IsKind(err, axerr.ElementNotFound) {
		t.Fatalf("kind = %v, want ElementNotFound", axerr.KindOf(err))
	}
	if elapsed >= 5*time.Second {
		t.Errorf("per-call timeout ignored: waited %s", elapsed)
	}
}

func TestFirst_FindsElementThatAppearsLater(t *testing.T) {
	root, _ := calculatorTree()
	b := newFakeBackend(root)
	d := NewWithBackend(b)
	loc := fastLocator(t, d, "name:Late").WithTimeout(2 * time.Second)

	go func() {
		time.Sleep(50 * time.Millisecond)
		b.mu.Lock()
		root.addChild(node(model.RoleButton, "Late"))
		b.mu.Unlock()
	}()

	element, err := loc.First()
	if err != nil {
		t.Fatal(err)
	}
	if name, _ := element.Name(); name != "Late" {
		t.Errorf("resolved %q, want the element that appeared mid-wait", name)
	}
}

func TestLocator_IdempotentResolution(t *testing.T) {
	d, b, _ := calcDesktop(t)

	resolve := func() platform.Handle {
		loc := fastLocator(t, d, "window:Calculator", "name:Seven")
		e, err := loc.First()
		if err != nil {
			t.Fatal(err)
		}
		return e.handle
	}
	if resolve() != resolve() {
		t.Error("identical chains against an unchanged tree must resolve identically")
	}
	_ = b
}

func TestLocator_ExtensionDoesNotMutateBase(t *testing.T) {
	d, _, _ := calcDesktop(t)
	base := fastLocator(t, d, "window:Calculator")

	a, err := base.Locator("name:Seven")
	if err != nil {
		t.Fatal(err)
	}
	bLoc, err := base.Locator("name:Eight")
	if err != nil {
		t.Fatal(err)
	}

	ea, err := a.First()
	if err != nil {
		t.Fatal(err)
	}
	eb, err := bLoc.First()
	if err != nil {
		t.Fatal(err)
	}
	na, _ := ea.Name()
	nb, _ := eb.Name()
	if na != "Seven" || nb != "Eight" {
		t.Errorf("sibling extensions interfered: got %q and %q", na, nb)
	}
	if base.Chain() != "window:Calculator" {
		t.Errorf("base chain mutated: %q", base.Chain())
	}
}

func TestLocator_InvalidSelector(t *testing.T) {
	d, _, _ := calcDesktop(t)
	_, err := d.Locator("name:")
	if !axerr.IsKind(err, axerr.InvalidArgument) {
		t.Errorf("kind = %v, want InvalidArgument", axerr.KindOf(err))
	}
}

func TestWithin_ScopesSearch(t *testing.T) {
	d, _, _ := calcDesktop(t)

	calcWin, err := fastLocator(t, d, "window:Calculator").First()
	if err != nil {
		t.Fatal(err)
	}

	// Scoped to the calculator window, TextEdit's Body must be invisible.
	loc := fastLocator(t, d, "name:Body").Within(calcWin).WithTimeout(100 * time.Millisecond)
	if _, err := loc.First(); !axerr.IsKind(err, axerr.ElementNotFound) {
		t.Errorf("kind = %v, want ElementNotFound outside scope", axerr.KindOf(err))
	}

	loc = fastLocator(t, d, "name:Seven").Within(calcWin)
	if _, err := loc.First(); err != nil {
		t.Errorf("in-scope search failed: %v", err)
	}
}

func TestExpectTextEquals_ImmediateSuccess(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "id:CalcResults")

	start := time.Now()
	if _, err := loc.ExpectTextEquals("0", 1); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > time.Second {
		t.Error("expectation already true must succeed immediately")
	}
}

func TestExpectTextEquals_TimeoutKindWhenTextNeverMatches(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "id:CalcResults").WithTimeout(150 * time.Millisecond)

	_, err := loc.ExpectTextEquals("42", 1)
	if !axerr.IsKind(err, axerr.Timeout) {
		t.Errorf("kind = %v, want Timeout: the element was found, only the condition failed", axerr.KindOf(err))
	}
}

func TestExpect_NotFoundKindWhenElementNeverAppears(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "name:Ghost").WithTimeout(150 * time.Millisecond)

	_, err := loc.ExpectVisible()
	if !axerr.IsKind(err, axerr.ElementNotFound) {
		t.Errorf("kind = %v, want ElementNotFound when no match existed at all", axerr.KindOf(err))
	}
}

func TestExpectTextEquals_SeesUpdatedValue(t *testing.T) {
	root, _ := calculatorTree()
	b := newFakeBackend(root)
	d := NewWithBackend(b)
	loc := fastLocator(t, d, "id:CalcResults").WithTimeout(2 * time.Second)

	go func() {
		time.Sleep(50 * time.Millisecond)
		b.mu.Lock()
		// window -> display
		root.children[0].children[0].children[0].attrs.Value = "7"
		b.mu.Unlock()
	}()

	if _, err := loc.ExpectTextEquals("7", 1); err != nil {
		t.Fatalf("condition must be re-checked against a fresh element every poll: %v", err)
	}
}

func TestExpectEnabled(t *testing.T) {
	root, seven := calculatorTree()
	seven.attrs.Enabled = false
	b := newFakeBackend(root)
	d := NewWithBackend(b)
	loc := fastLocator(t, d, "name:Seven").WithTimeout(2 * time.Second)

	go func() {
		time.Sleep(50 * time.Millisecond)
		b.mu.Lock()
		seven.attrs.Enabled = true
		b.mu.Unlock()
	}()

	if _, err := loc.ExpectEnabled(); err != nil {
		t.Fatal(err)
	}
}

func TestClick_OnResolvedElement(t *testing.T) {
	d, b, _ := calcDesktop(t)
	loc := fastLocator(t, d, "window:Calculator", "name:Seven")

	res, err := loc.Click()
	if err != nil {
		t.Fatal(err)
	}
	if res.Method != platform.MethodNative {
		t.Errorf("method = %q, want native", res.Method)
	}
	if len(b.invoked) != 1 || b.invoked[0].Kind != platform.ActionClick {
		t.Errorf("invoked = %+v, want one click", b.invoked)
	}
}

func TestClick_CoordinateFallbackReported(t *testing.T) {
	d, b, _ := calcDesktop(t)
	b.rejectNative = true
	loc := fastLocator(t, d, "name:Seven")

	res, err := loc.Click()
	if err != nil {
		t.Fatal(err)
	}
	if res.Method != platform.MethodCoordinate {
		t.Errorf("method = %q, want coordinate so callers can judge trust", res.Method)
	}
	if res.X == 0 && res.Y == 0 {
		t.Error("coordinate fallback must report where it clicked")
	}
}

func TestAction_OnVanishedElement(t *testing.T) {
	d, _, seven := calcDesktop(t)
	loc := fastLocator(t, d, "name:Seven")

	element, err := loc.First()
	if err != nil {
		t.Fatal(err)
	}

	// Native node destroyed between resolution and action.
	seven.markStale()
	_, err = element.Click()
	if !axerr.IsKind(err, axerr.ElementNotFound) {
		t.Errorf("kind = %v, want ElementNotFound, never a crash or Internal", axerr.KindOf(err))
	}
}

func TestText_DepthTruncation(t *testing.T) {
	d, _, _ := calcDesktop(t)

	// Seven/Eight sit two levels below the window (group -> button).
	win := fastLocator(t, d, "window:Calculator")

	shallow, err := win.Text(1)
	if err != nil {
		t.Fatal(err)
	}
	if contains(shallow, "Seven") {
		t.Errorf("max_depth=1 must not reach button labels two levels down, got %q", shallow)
	}

	deep, err := win.Text(3)
	if err != nil {
		t.Fatal(err)
	}
	if !contains(deep, "Seven") || !contains(deep, "Eight") {
		t.Errorf("max_depth=3 must include the full text, got %q", deep)
	}
}

func TestIsVisible_FalseWhenAbsent(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "name:Ghost").WithTimeout(100 * time.Millisecond)

	visible, err := loc.IsVisible()
	if err != nil {
		t.Fatal(err)
	}
	if visible {
		t.Error("an element that never appeared is not visible")
	}
}

func TestTypeTextAndPressKey(t *testing.T) {
	d, b, _ := calcDesktop(t)
	loc := fastLocator(t, d, "window:Untitled", "role:edit")

	if err := loc.TypeText("hello", true); err != nil {
		t.Fatal(err)
	}
	if err := loc.PressKey("ctrl+s"); err != nil {
		t.Fatal(err)
	}

	if len(b.invoked) != 2 {
		t.Fatalf("invoked %d actions, want 2", len(b.invoked))
	}
	if b.invoked[0].Kind != platform.ActionSetText || b.invoked[0].Text != "hello" || !b.invoked[0].ClearFirst {
		t.Errorf("first action = %+v, want set_text hello clear_first", b.invoked[0])
	}
	if b.invoked[1].Kind != platform.ActionPressKey || b.invoked[1].Key != "ctrl+s" {
		t.Errorf("second action = %+v, want press_key ctrl+s", b.invoked[1])
	}
}

func TestPressKey_EmptySpec(t *testing.T) {
	d, _, _ := calcDesktop(t)
	loc := fastLocator(t, d, "name:Seven")
	if err := loc.PressKey(""); !axerr.IsKind(err, axerr.InvalidArgument) {
		t.Errorf("kind = %v, want InvalidArgument", axerr.KindOf(err))
	}
}

func TestFatalKindsAreNotRetried(t *testing.T) {
	d, b, _ := calcDesktop(t)
	b.attrErr = axerr.New(axerr.PermissionDenied, "accessibility not trusted")
	loc := fastLocator(t, d, "name:Seven").WithTimeout(5 * time.Second)

	start := time.Now()
	_, err := loc.First()
	if !axerr.IsKind(err, axerr.PermissionDenied) {
		t.Fatalf("kind = %v, want PermissionDenied", axerr.KindOf(err))
	}
	if time.Since(start) > time.Second {
		t.Error("fatal failures must end the wait immediately, not burn the timeout")
	}
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
