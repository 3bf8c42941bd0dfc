package model

// Bounds is a screen rectangle in global (desktop) coordinates.
type Bounds struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"w" json:"w"`
	Height int `yaml:"h" json:"h"`
}

// Center returns the midpoint of the rectangle. Used for coordinate-fallback
// clicks when the native action API rejects an invoke.
func (b Bounds) Center() (x, y int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Empty reports whether the rectangle has zero area.
func (b Bounds) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Intersects reports whether two rectangles overlap.
func (b Bounds) Intersects(o Bounds) bool {
	return b.X < o.X+o.Width && b.X+b.Width > o.X &&
		b.Y < o.Y+o.Height && b.Y+b.Height > o.Y
}
