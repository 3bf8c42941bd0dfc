package engine

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/axlocate/axlocate/internal/axerr"
	"github.com/axlocate/axlocate/internal/model"
	"github.com/axlocate/axlocate/internal/platform"
	"github.com/axlocate/axlocate/internal/selector"
)

// Wait policy defaults. Overridable per Locator and per call.
const (
	DefaultTimeout      = 5000 * time.Millisecond
	DefaultPollInterval = 100 * time.Millisecond
)

// Locator binds a compiled selector chain, a scope and a wait policy.
// It is immutable: Locator(), Within() and the With* setters return copies,
// so a locator can be extended and reused safely across goroutines.
type Locator struct {
	backend  platform.Backend
	chain    selector.Chain
	root     platform.Handle // nil means desktop root
	timeout  time.Duration
	poll     time.Duration
	maxDepth int
}

func newLocator(b platform.Backend, chain selector.Chain) *Locator {
	return &Locator{
		backend:  b,
		chain:    chain,
		timeout:  DefaultTimeout,
		poll:     DefaultPollInterval,
		maxDepth: DefaultMaxDepth,
	}
}

// Locator extends the chain with more selectors (steps joined with " >> "):
// the new predicates are matched only within the subtree of this locator's
// result.
func (l *Locator) Locator(sel string) (*Locator, error) {
	extension, err := selector.ParseChainString(sel)
	if err != nil {
		return nil, err
	}
	next := *l
	chain := l.chain
	for _, compiled := range extension {
		chain = chain.Extend(compiled)
	}
	next.chain = chain
	return &next, nil
}

// Within scopes the search to the subtree rooted at element instead of the
// desktop root.
func (l *Locator) Within(element *Element) *Locator {
	next := *l
	next.root = element.handle
	return &next
}

// WithTimeout sets the default timeout for waits on the returned locator.
func (l *Locator) WithTimeout(d time.Duration) *Locator {
	next := *l
	next.timeout = d
	return &next
}

// WithPollInterval sets the retry sleep between tree reads.
func (l *Locator) WithPollInterval(d time.Duration) *Locator {
	next := *l
	next.poll = d
	return &next
}

// WithMaxDepth bounds per-step BFS depth.
func (l *Locator) WithMaxDepth(depth int) *Locator {
	next := *l
	next.maxDepth = depth
	return &next
}

// Chain returns the selector chain text, for diagnostics.
func (l *Locator) Chain() string { return l.chain.String() }

func (l *Locator) effectiveTimeout(override []time.Duration) time.Duration {
	if len(override) > 0 && override[0] > 0 {
		return override[0]
	}
	return l.timeout
}

// scopeRoot resolves the traversal root for one matcher pass.
func (l *Locator) scopeRoot() (platform.Handle, error) {
	if l.root != nil {
		return l.root, nil
	}
	return l.backend.Root()
}

// First waits for the earliest element (in BFS order) matching the chain,
// polling the live tree until the timeout elapses. Zero-match resolutions
// fail with ElementNotFound only after the full timeout.
func (l *Locator) First(timeout ...time.Duration) (*Element, error) {
	handles, err := l.waitForMatch(l.effectiveTimeout(timeout), 1)
	if err != nil {
		return nil, err
	}
	return newElement(l.backend, handles[0]), nil
}

// All waits until at least one element matches, then returns every match in
// BFS order. Each returned Element is independently resolvable.
func (l *Locator) All(timeout ...time.Duration) ([]*Element, error) {
	handles, err := l.waitForMatch(l.effectiveTimeout(timeout), 0)
	if err != nil {
		return nil, err
	}
	out := make([]*Element, len(handles))
	for i, h := range handles {
		out[i] = newElement(l.backend, h)
	}
	return out, nil
}

// waitForMatch is the shared poll loop: run the matcher over the full chain
// against the current live tree, sleep poll interval, repeat until deadline.
// The compiled chain is pure data and reused unchanged across attempts.
func (l *Locator) waitForMatch(timeout time.Duration, limit int) ([]platform.Handle, error) {
	deadline := time.Now().Add(timeout)
	m := newMatcher(l.backend, l.maxDepth)
	var lastErr error

	for attempt := 1; ; attempt++ {
		root, err := l.scopeRoot()
		if err != nil {
			if !axerr.Retryable(err) {
				return nil, err
			}
			lastErr = err
		} else {
			handles, err := m.resolve(root, l.chain, limit)
			if err != nil {
				if !axerr.Retryable(err) {
					return nil, err
				}
				lastErr = err
			} else if len(handles) > 0 {
				return handles, nil
			}
			slog.Debug("locator poll: no match yet",
				"chain", l.chain.String(), "attempt", attempt)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, l.notFound(timeout, lastErr)
		}
		// Never fail before the deadline: the last sleep is shortened so
		// one final attempt runs at or after it.
		time.Sleep(min(l.poll, remaining))
	}
}

func (l *Locator) notFound(timeout time.Duration, lastErr error) error {
	msg := "no element matched " + l.chain.String() + " within " + timeout.String()
	if lastErr != nil {
		return axerr.Wrap(axerr.ElementNotFound, lastErr, "%s (last error shown)", msg)
	}
	return axerr.New(axerr.ElementNotFound, "%s", msg)
}

// Condition is an expectation re-checked against a freshly resolved element
// on every poll iteration. A stale element from a previous iteration is
// never reused: visibility and enabled state change without the tree shape
// changing.
type Condition struct {
	// Describe names the condition in timeout diagnostics.
	Describe string
	// Check runs against the freshly resolved element.
	Check func(*Element) (bool, error)
}

// ExpectVisible waits until a matching element reports visible.
func (l *Locator) ExpectVisible(timeout ...time.Duration) (*Element, error) {
	return l.expect(Condition{
		Describe: "visible",
		Check:    (*Element).IsVisible,
	}, timeout...)
}

// ExpectEnabled waits until a matching element reports enabled.
func (l *Locator) ExpectEnabled(timeout ...time.Duration) (*Element, error) {
	return l.expect(Condition{
		Describe: "enabled",
		Check:    (*Element).IsEnabled,
	}, timeout...)
}

// ExpectTextEquals waits until the element's aggregated text equals
// expected (whitespace-trimmed). maxDepth 0 uses the get_text default.
func (l *Locator) ExpectTextEquals(expected string, maxDepth int, timeout ...time.Duration) (*Element, error) {
	want := strings.TrimSpace(expected)
	return l.expect(Condition{
		Describe: "text equals " + strconv.Quote(want),
		Check: func(e *Element) (bool, error) {
			got, err := e.Text(maxDepth)
			if err != nil {
				return false, err
			}
			return strings.TrimSpace(got) == want, nil
		},
	}, timeout...)
}

// expect is the Searching -> Found -> Verifying loop. The timeout error
// distinguishes "element never found" from "found but condition never
// became true" for diagnosability.
func (l *Locator) expect(cond Condition, timeout ...time.Duration) (*Element, error) {
	total := l.effectiveTimeout(timeout)
	deadline := time.Now().Add(total)
	m := newMatcher(l.backend, l.maxDepth)
	start := time.Now()
	everFound := false

	for {
		root, err := l.scopeRoot()
		if err == nil {
			handles, err := m.resolve(root, l.chain, 1)
			if err != nil && !axerr.Retryable(err) {
				return nil, err
			}
			if err == nil && len(handles) > 0 {
				everFound = true
				element := newElement(l.backend, handles[0])
				ok, err := cond.Check(element)
				if err != nil && !axerr.Retryable(err) {
					return nil, err
				}
				if err == nil && ok {
					return element, nil
				}
			}
		} else if !axerr.Retryable(err) {
			return nil, err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			elapsed := time.Since(start).Round(time.Millisecond)
			if !everFound {
				return nil, axerr.New(axerr.ElementNotFound,
					"no element matched %s within %s while waiting for %s",
					l.chain.String(), elapsed, cond.Describe)
			}
			return nil, axerr.New(axerr.Timeout,
				"element %s found but never became %s within %s",
				l.chain.String(), cond.Describe, elapsed)
		}
		time.Sleep(min(l.poll, remaining))
	}
}

// --- Action methods: bounded find, then invoke through the backend. ---

// Click resolves the first match and clicks it.
func (l *Locator) Click(timeout ...time.Duration) (platform.InvokeResult, error) {
	element, err := l.First(timeout...)
	if err != nil {
		return platform.InvokeResult{}, err
	}
	return element.Click()
}

// DoubleClick resolves the first match and double-clicks it.
func (l *Locator) DoubleClick(timeout ...time.Duration) (platform.InvokeResult, error) {
	element, err := l.First(timeout...)
	if err != nil {
		return platform.InvokeResult{}, err
	}
	return element.DoubleClick()
}

// RightClick resolves the first match and opens its context menu.
func (l *Locator) RightClick(timeout ...time.Duration) (platform.InvokeResult, error) {
	element, err := l.First(timeout...)
	if err != nil {
		return platform.InvokeResult{}, err
	}
	return element.RightClick()
}

// TypeText resolves the first match and types into it.
func (l *Locator) TypeText(text string, clearFirst bool, timeout ...time.Duration) error {
	element, err := l.First(timeout...)
	if err != nil {
		return err
	}
	return element.TypeText(text, clearFirst)
}

// PressKey resolves the first match and sends a key spec to it.
func (l *Locator) PressKey(key string, timeout ...time.Duration) error {
	element, err := l.First(timeout...)
	if err != nil {
		return err
	}
	return element.PressKey(key)
}

// Text resolves the first match and aggregates its text.
func (l *Locator) Text(maxDepth int, timeout ...time.Duration) (string, error) {
	element, err := l.First(timeout...)
	if err != nil {
		return "", err
	}
	return element.Text(maxDepth)
}

// Attributes resolves the first match and fetches its attribute bundle.
func (l *Locator) Attributes(timeout ...time.Duration) (model.Attributes, error) {
	element, err := l.First(timeout...)
	if err != nil {
		return model.Attributes{}, err
	}
	return element.Attributes()
}

// Bounds resolves the first match and returns its screen rectangle.
func (l *Locator) Bounds(timeout ...time.Duration) (*model.Bounds, error) {
	element, err := l.First(timeout...)
	if err != nil {
		return nil, err
	}
	return element.Bounds()
}

// IsVisible resolves the first match and reports visibility. A locator that
// never matches within the timeout reports false rather than an error,
// matching the intuitive reading of "is it visible right now".
func (l *Locator) IsVisible(timeout ...time.Duration) (bool, error) {
	element, err := l.First(timeout...)
	if err != nil {
		if axerr.IsKind(err, axerr.ElementNotFound) || axerr.IsKind(err, axerr.Timeout) {
			return false, nil
		}
		return false, err
	}
	return element.IsVisible()
}
