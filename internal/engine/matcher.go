package engine

import (
	"github.com/axlocate/axlocate/internal/axerr"
	"github.com/axlocate/axlocate/internal/platform"
	"github.com/axlocate/axlocate/internal/selector"
)

// DefaultMaxDepth bounds breadth-first traversal per chain step so a
// pathological native tree cannot run away.
const DefaultMaxDepth = 50

// matcher executes compiled selector chains against the live tree through
// a backend. It holds no state between runs; every run reads the tree fresh.
type matcher struct {
	backend  platform.Backend
	maxDepth int
}

func newMatcher(b platform.Backend, maxDepth int) *matcher {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &matcher{backend: b, maxDepth: maxDepth}
}

// resolve runs the full chain from root. Each predicate is resolved to
// completion before the next one starts: every match of step i becomes an
// independent subtree root for step i+1, in BFS discovery order. A step
// with zero matches short-circuits the chain.
//
// limit > 0 caps the number of final-step matches collected; limit 1 gives
// first() its deterministic earliest-in-BFS-order element without walking
// the rest of the scope.
func (m *matcher) resolve(root platform.Handle, chain selector.Chain, limit int) ([]platform.Handle, error) {
	if len(chain) == 0 {
		return nil, nil
	}

	scopes := []platform.Handle{root}
	for i, sel := range chain {
		last := i == len(chain)-1
		stepLimit := 0
		if last {
			stepLimit = limit
		}

		var matches []platform.Handle
		for _, scope := range scopes {
			remaining := 0
			if stepLimit > 0 {
				remaining = stepLimit - len(matches)
				if remaining <= 0 {
					break
				}
			}
			found, err := m.collect(scope, sel, remaining)
			if err != nil {
				return nil, err
			}
			matches = append(matches, found...)
		}

		if len(matches) == 0 {
			// Chain short-circuits without evaluating later predicates.
			return nil, nil
		}
		scopes = matches
	}
	return scopes, nil
}

// collect breadth-first searches one subtree for nodes matching a single
// predicate. The scope node itself participates. Nodes that vanish between
// discovery and the attribute read are skipped, not errors: the tree is
// externally owned.
func (m *matcher) collect(scope platform.Handle, sel selector.Selector, limit int) ([]platform.Handle, error) {
	type entry struct {
		h     platform.Handle
		depth int
	}
	queue := []entry{{h: scope, depth: 0}}
	var matches []platform.Handle

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		attrs, err := m.backend.Attributes(cur.h)
		if err != nil {
			if !axerr.Retryable(err) {
				// Permission and argument failures are fatal per call;
				// they must not be masked as "no match".
				return nil, err
			}
			// Node vanished or flaked between discovery and read. Skip it.
			continue
		}
		if sel.Matches(attrs) {
			matches = append(matches, cur.h)
			if limit > 0 && len(matches) >= limit {
				return matches, nil
			}
		}

		if cur.depth >= m.maxDepth {
			continue
		}
		children, err := m.backend.Children(cur.h)
		if err != nil {
			if !axerr.Retryable(err) {
				return nil, err
			}
			continue
		}
		for _, c := range children {
			queue = append(queue, entry{h: c, depth: cur.depth + 1})
		}
	}
	return matches, nil
}
