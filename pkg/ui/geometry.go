package ui

import "fmt"

// Point is a 2D coordinate in widget-local or screen space.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("Point(%d, %d)", p.X, p.Y)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X int
	Y int
	W int
	H int
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d, %d, %d, %d)", r.X, r.Y, r.W, r.H)
}
