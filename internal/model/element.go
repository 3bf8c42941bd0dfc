// Package model holds the backend-agnostic element data types: the attribute
// bundle fetched from a native node, screen bounds, and the normalized role
// vocabulary shared by both platform backends.
package model

// Attributes is the batched attribute bundle for one native node. Backends
// fill it in a single fetch where the native API allows, so one read costs
// one round trip rather than N.
type Attributes struct {
	Role        string            `yaml:"role"                  json:"role"`
	Name        string            `yaml:"name,omitempty"        json:"name,omitempty"`
	ID          string            `yaml:"id,omitempty"          json:"id,omitempty"`
	Value       string            `yaml:"value,omitempty"       json:"value,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Properties  map[string]string `yaml:"properties,omitempty"  json:"properties,omitempty"`

	// Bounds is nil for elements with no on-screen geometry.
	Bounds *Bounds `yaml:"bounds,omitempty" json:"bounds,omitempty"`

	Enabled   bool `yaml:"enabled"             json:"enabled"`
	Visible   bool `yaml:"visible"             json:"visible"`
	Focused   bool `yaml:"focused,omitempty"   json:"focused,omitempty"`
	Focusable bool `yaml:"focusable,omitempty" json:"focusable,omitempty"`
}

// Label returns the best human-readable label: name, then description.
// Value is excluded because it changes with element state.
func (a Attributes) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Description
}

// Property returns a platform-specific property value, or "" if absent.
func (a Attributes) Property(key string) string {
	if a.Properties == nil {
		return ""
	}
	return a.Properties[key]
}
