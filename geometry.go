package pathfind

import "math"

type Line struct {
	Start Pt
	End   Pt
}

// Rectangle is an axis-aligned rectangle. Min must be smaller or equal to
// Max on both axes.
type Rectangle struct {
	Min Pt
	Max Pt
}

func NewRectangle(minX, minY, maxX, maxY float64) Rectangle {
	return Rectangle{Pt{minX, minY}, Pt{maxX, maxY}}
}

func (r *Rectangle) Width() float64 {
	return r.Max.X - r.Min.X
}

func (r *Rectangle) Height() float64 {
	return r.Max.Y - r.Min.Y
}

func (r *Rectangle) ContainsPt(pt Pt) bool {
	return pt.X >= r.Min.X && pt.X <= r.Max.X &&
		pt.Y >= r.Min.Y && pt.Y <= r.Max.Y
}

func (r *Rectangle) Intersects(other Rectangle) bool {
	return r.Min.X < other.Max.X && r.Max.X > other.Min.X &&
		r.Min.Y < other.Max.Y && r.Max.Y > other.Min.Y
}

func (r *Rectangle) ContainsRect(other Rectangle) bool {
	return other.Min.X >= r.Min.X && other.Max.X <= r.Max.X &&
		other.Min.Y >= r.Min.Y && other.Max.Y <= r.Max.Y
}

// parallelEpsilon is the tolerance under which two edge directions are
// treated as parallel. The edges we compare come from polygons with
// coordinates in the tens-to-thousands range, so the cross product of two
// normalized directions sits comfortably above this for any pair of edges
// that actually diverges.
const parallelEpsilon = 1e-9

// Parallel says whether two direction vectors point along the same line,
// in either orientation.
func Parallel(a Pt, b Pt) bool {
	la := a.Len()
	lb := b.Len()
	if la == 0 || lb == 0 {
		// A zero-length direction is parallel to everything. It only comes
		// up with degenerate polygons, which the callers must screen out.
		return true
	}
	return math.Abs(a.Cross(b))/(la*lb) < parallelEpsilon
}
