package entities

import "math"

// Bin is a monitored container at a fixed position on the collection map.
type Bin struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Point is a location on the collection map (depot or bin).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (b Bin) Position() Point { return Point{X: b.X, Y: b.Y} }

// Distance is the straight-line distance between two points in map units.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}
