package selector

import (
	"errors"
	"testing"

	"github.com/axlocate/axlocate/internal/axerr"
	"github.com/axlocate/axlocate/internal/model"
)

func TestParse(t *testing.T) {
	cases := []struct {
		raw  string
		want Selector
	}{
		{"role:button", Selector{Kind: ByRole, Role: "button"}},
		{"role:Button", Selector{Kind: ByRole, Role: "button"}},
		{"role:textfield", Selector{Kind: ByRole, Role: "edit"}},
		{"name:Seven", Selector{Kind: ByName, Name: "Seven"}},
		{"id:num7Button", Selector{Kind: ByID, ID: "num7Button"}},
		{"text:calc", Selector{Kind: ByText, Text: "calc"}},
		{"window:Calculator", Selector{Kind: ByRole, Role: "window", Name: "Calculator"}},
		{"button:Seven", Selector{Kind: ByRole, Role: "button", Name: "Seven"}},
		{"Seven", Selector{Kind: ByName, Name: "Seven"}},
		{"classname:CalcFrame", Selector{Kind: ByProperty, Key: "classname", Value: "CalcFrame"}},
		{"ClassName:CalcFrame", Selector{Kind: ByProperty, Key: "classname", Value: "CalcFrame"}},
	}
	for _, c := range cases {
		got, err := Parse(c.raw)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", c.raw, err)
			continue
		}
		if got.Kind != c.want.Kind || got.Role != c.want.Role || got.Name != c.want.Name ||
			got.ID != c.want.ID || got.Text != c.want.Text || got.Key != c.want.Key || got.Value != c.want.Value {
			t.Errorf("Parse(%q) = %+v, want %+v", c.raw, got, c.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "name:", "role:", ":value", "window:  "} {
		_, err := Parse(raw)
		if err == nil {
			t.Errorf("Parse(%q): expected error", raw)
			continue
		}
		if !axerr.IsKind(err, axerr.InvalidArgument) {
			t.Errorf("Parse(%q): kind = %v, want InvalidArgument", raw, axerr.KindOf(err))
		}
	}
}

func TestParse_PreservesRaw(t *testing.T) {
	sel, err := Parse("window:Calculator")
	if err != nil {
		t.Fatal(err)
	}
	if sel.String() != "window:Calculator" {
		t.Errorf("String() = %q, want original text", sel.String())
	}
}

func TestMatches(t *testing.T) {
	attrs := model.Attributes{
		Role:        "button",
		Name:        "Seven",
		ID:          "num7Button",
		Value:       "7",
		Description: "Seven digit key",
		Properties:  map[string]string{"classname": "Button"},
	}

	cases := []struct {
		raw  string
		want bool
	}{
		{"role:button", true},
		{"role:Button", true},
		{"role:link", false},
		{"name:Seven", true},
		{"name:seven", false}, // name match is exact
		{"Seven", true},
		{"id:num7Button", true},
		{"id:other", false},
		{"text:seven", true}, // text match is case-insensitive substring
		{"text:digit", true},
		{"text:eight", false},
		{"button:Seven", true},
		{"button:Eight", false},
		{"window:Seven", false},
		{"classname:Button", true},
		{"classname:Other", false},
		{"missingprop:x", false},
	}
	for _, c := range cases {
		sel, err := Parse(c.raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.raw, err)
		}
		if got := sel.Matches(attrs); got != c.want {
			t.Errorf("%q.Matches = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestMatches_EmptyID(t *testing.T) {
	sel, _ := Parse("id:x")
	if sel.Matches(model.Attributes{Role: "button"}) {
		t.Error("ByID must not match elements without an automation id")
	}
}

func TestChainExtend_Immutable(t *testing.T) {
	base, err := ParseChain("window:Calculator")
	if err != nil {
		t.Fatal(err)
	}
	a := base.Extend(mustParse(t, "name:Seven"))
	b := base.Extend(mustParse(t, "name:Eight"))

	if len(base) != 1 {
		t.Fatalf("base chain mutated: len = %d", len(base))
	}
	if a[1].Name != "Seven" || b[1].Name != "Eight" {
		t.Error("extended chains must be independent")
	}
}

func TestChainString(t *testing.T) {
	chain, err := ParseChain("window:Calculator", "name:Seven")
	if err != nil {
		t.Fatal(err)
	}
	if got := chain.String(); got != "window:Calculator >> name:Seven" {
		t.Errorf("Chain.String() = %q", got)
	}
}

func TestParseChainString(t *testing.T) {
	chain, err := ParseChainString("window:Calculator >> name:Seven")
	if err != nil {
		t.Fatal(err)
	}
	if len(chain) != 2 {
		t.Fatalf("len = %d, want 2 steps", len(chain))
	}
	if chain[0].Kind != ByRole || chain[0].Role != "window" || chain[0].Name != "Calculator" {
		t.Errorf("step 0 = %+v, want role=window name=Calculator", chain[0])
	}
	if chain[1].Kind != ByName || chain[1].Name != "Seven" {
		t.Errorf("step 1 = %+v, want name=Seven", chain[1])
	}
	if got := chain.String(); got != "window:Calculator >> name:Seven" {
		t.Errorf("round trip = %q", got)
	}
}

func TestParseChainString_SingleStep(t *testing.T) {
	chain, err := ParseChainString("role:button")
	if err != nil {
		t.Fatal(err)
	}
	if len(chain) != 1 || chain[0].Kind != ByRole || chain[0].Role != "button" {
		t.Errorf("chain = %+v, want one role=button step", chain)
	}
}

func TestParseChain_ErrorPropagates(t *testing.T) {
	_, err := ParseChain("window:Calculator", "name:")
	if err == nil {
		t.Fatal("expected error")
	}
	var e *axerr.Error
	if !errors.As(err, &e) || e.Kind != axerr.InvalidArgument {
		t.Errorf("kind = %v, want InvalidArgument", axerr.KindOf(err))
	}
}

func mustParse(t *testing.T, raw string) Selector {
	t.Helper()
	sel, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return sel
}
