package pathfind

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RWorldPos is a utility for getting a random position at which a square of
// side up to 60 fits in a 2000x1000 world.
func RWorldPos() Pt {
	return Pt{RFloat(40, 1960), RFloat(40, 960)}
}

func TestPartitionedMapStartsAsOneLeaf(t *testing.T) {
	m := NewPartitionedMap(2000, 1000, DefaultPartitionSettings())
	assert.Equal(t, 0, len(m.Partitions))
	assert.Equal(t, 1, len(m.Maps))
	assert.Equal(t, NewRectangle(0, 0, 2000, 1000), m.Maps[0].WorldRect())
	require.NoError(t, m.InvariantViolation())
}

func TestPartitionedMapRegisterSplits(t *testing.T) {
	m := NewPartitionedMap(2000, 1000, DefaultPartitionSettings())

	// Two clusters of collidables, left and right. Once the count passes
	// the create trigger, the leaf must split, and the chosen split ought
	// to pass through the gap between the clusters.
	RSeed(1)
	for i := range 16 {
		x := RFloat(100, 400)
		if i%2 == 1 {
			x = RFloat(1600, 1900)
		}
		m.Register(NewCollidable(Pt{x, RFloat(100, 900)}, NewSquare(20)),
			false)
		require.NoError(t, m.InvariantViolation())
	}

	require.Equal(t, 1, len(m.Partitions))
	assert.Equal(t, 2, len(m.Maps))
	root := m.Partitions[m.rootIdx()]
	assert.True(t, root.IsRoot())
	assert.False(t, root.Horizontal())
	// The left cluster's footprints end before x=410 and the right ones
	// start after x=1590; the split must land well inside that gap.
	assert.Greater(t, root.Split, 420.0)
	assert.Less(t, root.Split, 1580.0)
}

func TestFindMapTiesGoLeft(t *testing.T) {
	m := NewPartitionedMap(2000, 1000, DefaultPartitionSettings())
	RSeed(2)
	for range 20 {
		m.Register(NewCollidable(RWorldPos(), NewSquare(20)), false)
	}
	require.NotEmpty(t, m.Partitions)

	root := m.Partitions[m.rootIdx()]
	var onSplit Pt
	if root.Horizontal() {
		onSplit = Pt{500, root.Split}
	} else {
		onSplit = Pt{root.Split, 500}
	}
	leaf := &m.Maps[m.FindMap(onSplit)]
	rect := leaf.WorldRect()
	// A point exactly on the split line resolves to the side that ends at
	// the split.
	if root.Horizontal() {
		assert.Equal(t, root.Split, rect.Max.Y)
	} else {
		assert.Equal(t, root.Split, rect.Max.X)
	}

	// Any point maps to a leaf whose rectangle covers it.
	for range 100 {
		pos := RWorldPos()
		rect := m.Maps[m.FindMap(pos)].WorldRect()
		assert.True(t, rect.ContainsPt(pos))
	}
}

func TestPartitionedMapInvariantsUnderChurn(t *testing.T) {
	m := NewPartitionedMap(2000, 1000, DefaultPartitionSettings())
	RSeed(3)
	var alive []uint32

	for range 400 {
		op := RInt(0, 2)
		switch {
		case op == 0 || len(alive) == 0:
			side := RFloat(10, 60)
			id := m.Register(NewCollidable(RWorldPos(), NewSquare(side)),
				false)
			alive = append(alive, id)
		case op == 1:
			id := alive[RInt(0, int64(len(alive))-1)]
			m.Move(id, RWorldPos())
		default:
			i := RInt(0, int64(len(alive))-1)
			m.Unregister(alive[i])
			alive = append(alive[:i], alive[i+1:]...)
		}
		require.NoError(t, m.InvariantViolation())
	}
}

// traceIds runs a TraceExhaust on a map and returns the sorted hit ids.
func traceIds(m Map, poly *Polygon, from, to Pt,
	excludeIds map[uint32]bool, excludeFlags uint64) []uint32 {
	hits := m.TraceExhaustPolygon(poly, from, to, excludeIds, excludeFlags)
	ids := make([]uint32, len(hits))
	for i, c := range hits {
		ids[i] = c.Id
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestTraceEquivalence(t *testing.T) {
	// Whatever the partition tree looks like, its trace results must be
	// exactly what a flat scan of the same collidables gives.
	pm := NewPartitionedMap(2000, 1000, DefaultPartitionSettings())
	sm := NewSimpleMap(2000, 1000)
	RSeed(4)
	for range 60 {
		pm.Register(NewCollidable(RWorldPos(), NewSquare(RFloat(10, 60))),
			false)
	}
	require.NotEmpty(t, pm.Partitions)
	sm.Collidables = pm.Collidables

	square := NewSquare(8)
	for range 200 {
		from := RWorldPos()
		to := RWorldPos()
		var exclude map[uint32]bool
		if RInt(0, 1) == 1 {
			exclude = map[uint32]bool{uint32(RInt(0, 59)): true}
		}
		want := traceIds(sm, &square, from, to, exclude, 0)
		got := traceIds(pm, &square, from, to, exclude, 0)
		require.Equal(t, want, got)

		// The uniqueness requirement: no id twice, even for collidables
		// that straddle split lines.
		for i := 1; i < len(got); i++ {
			require.NotEqual(t, got[i-1], got[i])
		}

		// The boolean trace agrees with the exhaustive one.
		require.Equal(t, len(want) == 0,
			pm.TracePolygon(&square, from, to, exclude, 0))
	}
}

func TestTraceExhaustDoesNotMutateExcludeSet(t *testing.T) {
	m := NewPartitionedMap(2000, 1000, DefaultPartitionSettings())
	RSeed(5)
	for range 30 {
		m.Register(NewCollidable(RWorldPos(), NewSquare(40)), false)
	}
	square := NewSquare(8)
	exclude := map[uint32]bool{3: true}
	m.TraceExhaustPolygon(&square, Pt{50, 50}, Pt{1950, 950}, exclude, 0)
	assert.Equal(t, map[uint32]bool{3: true}, exclude)
}

func TestRegisterForceId(t *testing.T) {
	m := NewPartitionedMap(2000, 1000, DefaultPartitionSettings())
	c := NewCollidable(Pt{100, 100}, NewSquare(20))
	c.Id = 77
	id := m.Register(c, true)
	assert.Equal(t, uint32(77), id)

	// The counter moves past the forced id so later ids stay unique.
	id2 := m.Register(NewCollidable(Pt{200, 200}, NewSquare(20)), false)
	assert.Equal(t, uint32(78), id2)
}

func TestPartitionedMapGetIntersecting(t *testing.T) {
	m := NewPartitionedMap(2000, 1000, DefaultPartitionSettings())
	RSeed(6)
	for range 20 {
		m.Register(NewCollidable(RWorldPos(), NewSquare(20)), false)
	}
	target := m.Register(NewCollidable(Pt{1000, 500}, NewSquare(20)), false)

	id, ok := m.GetIntersecting(Pt{1000, 500})
	assert.True(t, ok)
	assert.Equal(t, target, id)

	_, ok = m.GetIntersecting(Pt{5, 5})
	assert.False(t, ok)
}

func TestMoveFastPath(t *testing.T) {
	m := NewPartitionedMap(2000, 1000, DefaultPartitionSettings())
	id := m.Register(NewCollidable(Pt{1000, 500}, NewSquare(20)), false)

	// A small move in a single-leaf world takes the fast path: nothing but
	// the position may change.
	m.Move(id, Pt{1010, 505})
	assert.Equal(t, Pt{1010, 505}, m.ById[id].Pos)
	require.NoError(t, m.InvariantViolation())
}

func TestSplitCollapseHysteresis(t *testing.T) {
	m := NewPartitionedMap(2000, 1000, DefaultPartitionSettings())
	RSeed(7)
	var ids []uint32
	for range 16 {
		ids = append(ids,
			m.Register(NewCollidable(RWorldPos(), NewSquare(20)), false))
	}
	require.NotEmpty(t, m.Partitions)

	numPartitions := len(m.Partitions)
	numMaps := len(m.Maps)
	splits := make([]float64, numPartitions)
	for i := range m.Partitions {
		splits[i] = m.Partitions[i].Split
	}

	// Jiggle every collidable around its position. The per-leaf counts
	// stay far from both triggers, so the tree must not move at all.
	for range 50 {
		for _, id := range ids {
			pos := m.ById[id].Pos
			delta := Pt{RFloat(-2, 2), RFloat(-2, 2)}
			m.Move(id, pos.Plus(delta))
			require.NoError(t, m.InvariantViolation())
		}
	}

	assert.Equal(t, numPartitions, len(m.Partitions))
	assert.Equal(t, numMaps, len(m.Maps))
	for i := range m.Partitions {
		assert.Equal(t, splits[i], m.Partitions[i].Split)
	}
}

func TestAdaptivePartitionScenario(t *testing.T) {
	// A 2000x1000 world filled with a grid of 50 collidables, then
	// thinned out. The tree must stay consistent throughout, must never
	// grow while entities only disappear, and must still answer path
	// queries correctly afterwards.
	m := NewPartitionedMap(2000, 1000, DefaultPartitionSettings())
	var ids []uint32
	for i := range 50 {
		x := float64(i%10)*100 + 100
		y := float64(i/10)*100 + 100
		ids = append(ids,
			m.Register(NewCollidable(Pt{x, y}, NewSquare(10)), false))
		require.NoError(t, m.InvariantViolation())
	}
	require.NotEmpty(t, m.Partitions)

	numLeaves := len(m.Maps)
	for i := 1; i < len(ids); i += 2 {
		m.Unregister(ids[i])
		require.NoError(t, m.InvariantViolation())
		require.LessOrEqual(t, len(m.Maps), numLeaves)
		numLeaves = len(m.Maps)
	}

	// Path across the thinned grid, with a mover small enough to fit
	// between the obstacles.
	tri := NewPolygon([]Pt{{-1, -1}, {1, -1}, {0, 1}})
	start := Pt{50, 300}
	end := Pt{1500, 300}
	pf := NewPathfinder(m, &tri, start, end, nil, 0)
	path := pf.CalculatePath()
	require.NotNil(t, path)
	assertPathValid(t, m, &tri, start, path, nil, 0)
}
