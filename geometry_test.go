package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectContainsPt(t *testing.T) {
	r := Rectangle{Pt{10, 20}, Pt{30, 50}}
	assert.True(t, r.ContainsPt(Pt{10, 20}))
	assert.True(t, r.ContainsPt(Pt{10, 25}))
	assert.True(t, r.ContainsPt(Pt{15, 25}))
	assert.True(t, r.ContainsPt(Pt{30, 50}))
	assert.False(t, r.ContainsPt(Pt{9, 20}))
	assert.False(t, r.ContainsPt(Pt{10, 19}))
	assert.False(t, r.ContainsPt(Pt{31, 50}))
	assert.False(t, r.ContainsPt(Pt{30, 51}))
	assert.False(t, r.ContainsPt(Pt{31, 51}))
}

func TestRectIntersects(t *testing.T) {
	var r1, r2 Rectangle
	r1 = NewRectangle(10, 20, 30, 50)
	r2 = NewRectangle(15, 25, 35, 55)
	assert.True(t, r1.Intersects(r2))
	assert.True(t, r2.Intersects(r1))

	r1 = NewRectangle(10, 20, 30, 50)
	r2 = NewRectangle(15, 25, 20, 30)
	assert.True(t, r1.Intersects(r2))
	assert.True(t, r2.Intersects(r1))

	// Touching edges don't intersect.
	r1 = NewRectangle(10, 20, 30, 50)
	r2 = NewRectangle(30, 20, 60, 50)
	assert.False(t, r1.Intersects(r2))
	assert.False(t, r2.Intersects(r1))

	r1 = NewRectangle(10, 20, 30, 50)
	r2 = NewRectangle(100, 200, 300, 500)
	assert.False(t, r1.Intersects(r2))
	assert.False(t, r2.Intersects(r1))
}

func TestRectContainsRect(t *testing.T) {
	r := NewRectangle(0, 0, 100, 100)
	assert.True(t, r.ContainsRect(NewRectangle(10, 10, 90, 90)))
	assert.True(t, r.ContainsRect(NewRectangle(0, 0, 100, 100)))
	assert.False(t, r.ContainsRect(NewRectangle(-1, 10, 90, 90)))
	assert.False(t, r.ContainsRect(NewRectangle(10, 10, 101, 90)))
}

func TestNewPolygon(t *testing.T) {
	p := NewSquare(2)
	assert.Equal(t, 4, len(p.Vertices))
	assert.Equal(t, 4, len(p.Edges))
	assert.Equal(t, Pt{0, 0}, p.Centroid)
	assert.Equal(t, Pt{-1, -1}, p.BBox.Min)
	assert.Equal(t, Pt{1, 1}, p.BBox.Max)
	// Each edge goes from one vertex to the next.
	for i := range p.Vertices {
		next := p.Vertices[(i+1)%len(p.Vertices)]
		assert.Equal(t, p.Vertices[i].To(next), p.Edges[i])
	}
}

func TestPolygonContainsPt(t *testing.T) {
	p := NewSquare(2)
	assert.True(t, p.ContainsPt(Pt{0, 0}, Pt{0, 0}))
	assert.True(t, p.ContainsPt(Pt{0.9, 0.9}, Pt{0, 0}))
	// The boundary counts as outside.
	assert.False(t, p.ContainsPt(Pt{1, 0}, Pt{0, 0}))
	assert.False(t, p.ContainsPt(Pt{1, 1}, Pt{0, 0}))
	assert.False(t, p.ContainsPt(Pt{1.1, 0}, Pt{0, 0}))
	// The position shifts the polygon, not the point.
	assert.True(t, p.ContainsPt(Pt{10, 10}, Pt{10, 10}))
	assert.False(t, p.ContainsPt(Pt{0, 0}, Pt{10, 10}))

	tri := NewPolygon([]Pt{{-1, -1}, {1, -1}, {0, 1}})
	assert.True(t, tri.ContainsPt(Pt{0, 0}, Pt{0, 0}))
	assert.False(t, tri.ContainsPt(Pt{0, 1}, Pt{0, 0}))
	assert.False(t, tri.ContainsPt(Pt{-1, 1}, Pt{0, 0}))
}

func TestFurthestVertex(t *testing.T) {
	p := NewSquare(2)
	assert.Equal(t, Pt{1, 1}, p.Vertices[p.FurthestVertex(Pt{1, 1})])
	assert.Equal(t, Pt{-1, -1}, p.Vertices[p.FurthestVertex(Pt{-1, -1})])
	tri := NewPolygon([]Pt{{-1, -1}, {1, -1}, {0, 1}})
	assert.Equal(t, Pt{0, 1}, tri.Vertices[tri.FurthestVertex(Pt{0, 1})])
}

func TestPolygonsIntersect(t *testing.T) {
	a := NewSquare(2)
	b := NewSquare(2)

	// Overlapping.
	assert.True(t, PolygonsIntersect(&a, Pt{0, 0}, &b, Pt{1, 1}))
	assert.True(t, PolygonsIntersect(&b, Pt{1, 1}, &a, Pt{0, 0}))

	// Touching along an edge is not intersecting.
	assert.False(t, PolygonsIntersect(&a, Pt{0, 0}, &b, Pt{2, 0}))
	// Touching at a corner is not intersecting.
	assert.False(t, PolygonsIntersect(&a, Pt{0, 0}, &b, Pt{2, 2}))
	// Clearly apart.
	assert.False(t, PolygonsIntersect(&a, Pt{0, 0}, &b, Pt{5, 0}))

	// A vertex-snapped placement: one corner of the triangle lands exactly
	// on a corner of the square. This is the placement the pathfinder
	// produces all the time and it must not read as a collision.
	tri := NewPolygon([]Pt{{-1, -1}, {1, -1}, {0, 1}})
	snap := Pt{1, 1}.Minus(Pt{-1, -1})
	assert.False(t, PolygonsIntersect(&a, Pt{0, 0}, &tri, snap))

	// A diamond against the square. At the first placement the bounding
	// boxes overlap, so the separating axis test decides; at the second the
	// two are apart.
	c := NewPolygon([]Pt{{0, -2}, {2, 0}, {0, 2}, {-2, 0}})
	assert.True(t, PolygonsIntersect(&a, Pt{0, 0}, &c, Pt{1.5, 1.5}))
	assert.False(t, PolygonsIntersect(&a, Pt{0, 0}, &c, Pt{3.1, 3.1}))
}

func TestSweptTraces(t *testing.T) {
	p := NewSquare(2)

	traces := SweptTraces(&p, Pt{10, 10}, Pt{20, 10})
	// Start and end placements plus one parallelogram per edge.
	assert.Equal(t, 2+4, len(traces))

	// An obstacle halfway along the sweep is hit even though it touches
	// neither the start nor the end placement.
	obstacle := NewSquare(2)
	hit := false
	for i := range traces {
		if PolygonsIntersect(&traces[i], Pt{10, 10}, &obstacle, Pt{15, 10}) {
			hit = true
		}
	}
	assert.True(t, hit)

	// An obstacle off to the side is not hit.
	for i := range traces {
		assert.False(t,
			PolygonsIntersect(&traces[i], Pt{10, 10}, &obstacle, Pt{15, 20}))
	}

	// A zero displacement degenerates to the polygon itself.
	traces = SweptTraces(&p, Pt{10, 10}, Pt{10, 10})
	assert.Equal(t, 1, len(traces))
}

func TestParallel(t *testing.T) {
	assert.True(t, Parallel(Pt{1, 0}, Pt{5, 0}))
	assert.True(t, Parallel(Pt{1, 0}, Pt{-3, 0}))
	assert.True(t, Parallel(Pt{1, 2}, Pt{2, 4}))
	assert.False(t, Parallel(Pt{1, 0}, Pt{0, 1}))
	assert.False(t, Parallel(Pt{1, 2}, Pt{2, 4.01}))
}
