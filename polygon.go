package pathfind

import "math"

// Polygon is a convex polygon given by its vertices, in order. The order of
// the vertices matters beyond the winding: vertex indices are used as stable
// identifiers by the pathfinder, which remembers which vertex of which
// polygon it tried to touch. So a Polygon must not reorder its vertices after
// construction.
//
// The edges, the centroid and the bounding box are computed once, on
// construction. Vertices are in local coordinates. A polygon gets a position
// in the world only when it is placed there by a Collidable or by a trace,
// so every geometric test takes the position as a separate parameter instead
// of baking it into the vertices.
type Polygon struct {
	Vertices []Pt
	Edges    []Pt // Edges[i] goes from Vertices[i] to Vertices[i+1].
	Centroid Pt
	BBox     Rectangle
}

func NewPolygon(vertices []Pt) (p Polygon) {
	p.Vertices = vertices
	p.Edges = make([]Pt, len(vertices))
	for i := range vertices {
		p.Edges[i] = vertices[i].To(vertices[(i+1)%len(vertices)])
	}
	for _, v := range vertices {
		p.Centroid.Add(v)
	}
	p.Centroid = p.Centroid.DivBy(float64(len(vertices)))
	p.BBox.Min = vertices[0]
	p.BBox.Max = vertices[0]
	for _, v := range vertices[1:] {
		p.BBox.Min.X = math.Min(p.BBox.Min.X, v.X)
		p.BBox.Min.Y = math.Min(p.BBox.Min.Y, v.Y)
		p.BBox.Max.X = math.Max(p.BBox.Max.X, v.X)
		p.BBox.Max.Y = math.Max(p.BBox.Max.Y, v.Y)
	}
	return
}

// NewSquare creates a square of the given side, centered on the origin.
func NewSquare(side float64) Polygon {
	h := side / 2
	return NewPolygon([]Pt{{-h, -h}, {h, -h}, {h, h}, {-h, h}})
}

// NewRegularPolygon creates a regular polygon with n vertices inscribed in a
// circle of the given radius, centered on the origin. The first vertex sits
// at angle zero, on the positive X axis.
func NewRegularPolygon(n int, radius float64) Polygon {
	vertices := make([]Pt, n)
	for i := range vertices {
		angle := 2 * math.Pi * float64(i) / float64(n)
		vertices[i] = Pt{radius * math.Cos(angle), radius * math.Sin(angle)}
	}
	return NewPolygon(vertices)
}

func (p *Polygon) Translated(d Pt) Polygon {
	vertices := make([]Pt, len(p.Vertices))
	for i := range vertices {
		vertices[i] = p.Vertices[i].Plus(d)
	}
	return NewPolygon(vertices)
}

// TranslatedBBox returns the world bounding box of the polygon placed at pos.
func (p *Polygon) TranslatedBBox(pos Pt) Rectangle {
	return Rectangle{p.BBox.Min.Plus(pos), p.BBox.Max.Plus(pos)}
}

// ContainsPt says whether pt is strictly inside the polygon placed at pos.
// A point exactly on the boundary counts as outside. The pathfinder places
// polygons so that they touch obstacles at exactly one point, so boundary
// points have to be allowed as valid free space.
func (p *Polygon) ContainsPt(pt Pt, pos Pt) bool {
	// For a convex polygon, the point is strictly inside if and only if it is
	// strictly on the same side of every edge. Which side that is depends on
	// the winding, which we don't fix, so we only require consistency.
	positive := false
	negative := false
	for i, v := range p.Vertices {
		side := p.Edges[i].Cross(v.Plus(pos).To(pt))
		if side > 0 {
			positive = true
		} else if side < 0 {
			negative = true
		} else {
			// On the supporting line of an edge, which for a convex polygon
			// means on the boundary or outside.
			return false
		}
	}
	return !(positive && negative)
}

// FurthestVertex returns the index of the vertex furthest along dir. Among
// vertices projecting equally far, the one with the lowest index wins, which
// keeps the choice deterministic.
func (p *Polygon) FurthestVertex(dir Pt) int {
	best := 0
	bestDot := p.Vertices[0].Dot(dir)
	for i := 1; i < len(p.Vertices); i++ {
		d := p.Vertices[i].Dot(dir)
		if d > bestDot {
			bestDot = d
			best = i
		}
	}
	return best
}

// intersectEpsilon absorbs the floating point error that accumulates when a
// polygon is placed by vertex-snapping arithmetic (obstaclePos + theirVertex
// - ourVertex). Such a placement touches the obstacle at exactly one point
// mathematically, but the float computation can land a hair inside it. Any
// overlap smaller than this is treated as touching, and touching is not
// intersecting.
const intersectEpsilon = 1e-6

// PolygonsIntersect says whether polygon a placed at posA strictly overlaps
// polygon b placed at posB. Overlap of zero area (touching at a point or
// along an edge) does not count. Both polygons must be convex; this is a
// straightforward separating axis test over the edge normals of both.
func PolygonsIntersect(a *Polygon, posA Pt, b *Polygon, posB Pt) bool {
	// Cheap reject on bounding boxes first.
	ba := a.TranslatedBBox(posA)
	bb := b.TranslatedBBox(posB)
	if ba.Max.X <= bb.Min.X+intersectEpsilon ||
		bb.Max.X <= ba.Min.X+intersectEpsilon ||
		ba.Max.Y <= bb.Min.Y+intersectEpsilon ||
		bb.Max.Y <= ba.Min.Y+intersectEpsilon {
		return false
	}
	return !separatedOnAxes(a, posA, b, posB) &&
		!separatedOnAxes(b, posB, a, posA)
}

// separatedOnAxes says whether some edge normal of a is a separating axis
// between a placed at posA and b placed at posB.
func separatedOnAxes(a *Polygon, posA Pt, b *Polygon, posB Pt) bool {
	// The offset between the two placements can be applied to one projection
	// instead of every vertex.
	offset := posB.Minus(posA)
	for _, e := range a.Edges {
		normal := Pt{-e.Y, e.X}
		minA, maxA := projectOnto(a.Vertices, normal)
		minB, maxB := projectOnto(b.Vertices, normal)
		shift := offset.Dot(normal)
		minB += shift
		maxB += shift
		if maxA <= minB+intersectEpsilon || maxB <= minA+intersectEpsilon {
			return true
		}
	}
	return false
}

func projectOnto(vertices []Pt, axis Pt) (min, max float64) {
	min = vertices[0].Dot(axis)
	max = min
	for _, v := range vertices[1:] {
		d := v.Dot(axis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return
}

// SweptTraces builds the set of convex shapes covered by poly while it
// translates from `from` to `to`. The shapes are in coordinates relative to
// `from`: the polygon where it starts, the polygon where it ends, and one
// parallelogram per edge, the edge extruded along the displacement. Together
// they cover the swept area exactly. A single convex hull would too, but the
// per-edge parallelograms fall out of the vertex ring directly and keep every
// shape convex without a hull computation.
func SweptTraces(poly *Polygon, from Pt, to Pt) []Polygon {
	d := from.To(to)
	traces := make([]Polygon, 0, len(poly.Vertices)+2)
	traces = append(traces, *poly)
	traces = append(traces, poly.Translated(d))
	if d.X == 0 && d.Y == 0 {
		// Not going anywhere. The start polygon is the whole sweep.
		return traces[:1]
	}
	for i, v := range poly.Vertices {
		w := poly.Vertices[(i+1)%len(poly.Vertices)]
		quad := NewPolygon([]Pt{v, w, w.Plus(d), v.Plus(d)})
		traces = append(traces, quad)
	}
	return traces
}
