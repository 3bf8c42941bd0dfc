// Package selector compiles textual selectors of the form "prefix:value"
// into pure-data predicates. A compiled selector carries no native handle
// and is reused unchanged across every retry of a resolution attempt.
package selector

import (
	"fmt"
	"strings"

	"github.com/axlocate/axlocate/internal/axerr"
	"github.com/axlocate/axlocate/internal/model"
)

// Kind discriminates the predicate variants.
type Kind int

const (
	// ByRole matches on the normalized role, optionally narrowed by name.
	ByRole Kind = iota
	// ByName matches the name attribute exactly (case-sensitive).
	ByName
	// ByID matches the platform automation identifier exactly.
	ByID
	// ByText matches name, value or description by case-insensitive substring.
	ByText
	// ByProperty matches a platform-specific property key against a value.
	ByProperty
)

func (k Kind) String() string {
	switch k {
	case ByRole:
		return "role"
	case ByName:
		return "name"
	case ByID:
		return "id"
	case ByText:
		return "text"
	case ByProperty:
		return "property"
	default:
		return "unknown"
	}
}

// Selector is one compiled predicate. Immutable pure data.
type Selector struct {
	Kind Kind

	// Role is set for ByRole; already normalized.
	Role string
	// Name is the expected name for ByRole (optional narrowing) and ByName.
	Name string
	// ID is the automation identifier for ByID.
	ID string
	// Text is the substring for ByText.
	Text string
	// Key and Value are the property pair for ByProperty.
	Key   string
	Value string

	// raw is the original selector string, kept for error messages.
	raw string
}

// String returns the original selector text.
func (s Selector) String() string { return s.raw }

// Parse compiles one selector string.
//
// Grammar: "prefix:value" with prefix in {role, name, id, text} or any role
// vocabulary word ("window:Calculator" means role=window name=Calculator).
// Unrecognized prefixes compile to property predicates. A bare string with
// no colon is an implicit exact name match.
func Parse(raw string) (Selector, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Selector{}, axerr.New(axerr.InvalidArgument, "empty selector")
	}

	prefix, value, found := strings.Cut(trimmed, ":")
	if !found {
		// Implicit name predicate.
		return Selector{Kind: ByName, Name: trimmed, raw: raw}, nil
	}

	prefix = strings.TrimSpace(prefix)
	value = strings.TrimSpace(value)
	if prefix == "" {
		return Selector{}, axerr.New(axerr.InvalidArgument, "selector %q has an empty prefix", raw)
	}
	if value == "" {
		return Selector{}, axerr.New(axerr.InvalidArgument, "selector %q has an empty value", raw)
	}

	switch strings.ToLower(prefix) {
	case "role":
		return Selector{Kind: ByRole, Role: model.NormalizeRole(value), raw: raw}, nil
	case "name":
		return Selector{Kind: ByName, Name: value, raw: raw}, nil
	case "id":
		return Selector{Kind: ByID, ID: value, raw: raw}, nil
	case "text":
		return Selector{Kind: ByText, Text: value, raw: raw}, nil
	}

	if model.IsKnownRole(prefix) {
		// Role-word prefix: role plus name narrowing in one predicate.
		return Selector{
			Kind: ByRole,
			Role: model.NormalizeRole(prefix),
			Name: value,
			raw:  raw,
		}, nil
	}

	return Selector{Kind: ByProperty, Key: strings.ToLower(prefix), Value: value, raw: raw}, nil
}

// Matches tests the predicate against one attribute bundle.
func (s Selector) Matches(attrs model.Attributes) bool {
	switch s.Kind {
	case ByRole:
		if !model.RolesEqual(attrs.Role, s.Role) {
			return false
		}
		return s.Name == "" || attrs.Name == s.Name
	case ByName:
		return attrs.Name == s.Name
	case ByID:
		return attrs.ID != "" && attrs.ID == s.ID
	case ByText:
		needle := strings.ToLower(s.Text)
		return strings.Contains(strings.ToLower(attrs.Name), needle) ||
			strings.Contains(strings.ToLower(attrs.Value), needle) ||
			strings.Contains(strings.ToLower(attrs.Description), needle)
	case ByProperty:
		return attrs.Property(s.Key) == s.Value
	default:
		return false
	}
}

// Chain is an ordered selector sequence; predicate i+1 is evaluated only
// inside the subtree rooted at a match of predicate i.
type Chain []Selector

// Extend returns a new chain with sel appended. The receiver is never
// mutated so existing locators stay valid.
func (c Chain) Extend(sel Selector) Chain {
	out := make(Chain, len(c), len(c)+1)
	copy(out, c)
	return append(out, sel)
}

// chainSeparator joins selector steps in textual chain syntax.
const chainSeparator = " >> "

// String renders the chain for diagnostics, e.g.
// "window:Calculator >> name:Seven".
func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, s := range c {
		parts[i] = s.String()
	}
	return strings.Join(parts, chainSeparator)
}

// ParseChainString compiles textual chain syntax: selector steps joined
// with " >> ", e.g. "window:Calculator >> name:Seven". A string without
// the separator compiles to a one-step chain. Round-trips with
// Chain.String.
func ParseChainString(raw string) (Chain, error) {
	return ParseChain(strings.Split(raw, chainSeparator)...)
}

// ParseChain compiles a sequence of selector strings in order.
func ParseChain(raws ...string) (Chain, error) {
	chain := make(Chain, 0, len(raws))
	for _, raw := range raws {
		sel, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling chain: %w", err)
		}
		chain = append(chain, sel)
	}
	return chain, nil
}
