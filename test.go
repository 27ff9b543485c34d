package pathfind

import "fmt"

// Test describes a pathfinding scenario loaded from a YAML file: a world,
// some obstacles, a moving polygon and one path query with its expected
// kind of outcome. Keeping scenarios in data files instead of test code
// makes it trivial to turn a problematic situation from a recorded session
// into a permanent test: describe the geometry, state what should happen.
type Test struct {
	Width            float64        `yaml:"Width"`
	Height           float64        `yaml:"Height"`
	Mover            []Pt           `yaml:"Mover"`
	Obstacles        []TestObstacle `yaml:"Obstacles"`
	Start            Pt             `yaml:"Start"`
	End              Pt             `yaml:"End"`
	ExcludeFlags     uint64         `yaml:"ExcludeFlags"`
	ExcludeObstacles []int64        `yaml:"ExcludeObstacles"`
	// Expect is "direct" (the straight line is clear), "path" (a detour
	// is found) or "none" (no path exists).
	Expect string `yaml:"Expect"`
}

// TestObstacle gives the obstacle shape one of three ways: an explicit
// vertex ring, a regular polygon, or a square.
type TestObstacle struct {
	Verts  []Pt    `yaml:"Verts"`
	Ngon   int64   `yaml:"Ngon"`
	Radius float64 `yaml:"Radius"`
	Square float64 `yaml:"Square"`
	Pos    Pt      `yaml:"Pos"`
	Flags  uint64  `yaml:"Flags"`
}

func (o *TestObstacle) Shape() Polygon {
	if len(o.Verts) > 0 {
		return NewPolygon(o.Verts)
	}
	if o.Ngon > 0 {
		return NewRegularPolygon(int(o.Ngon), o.Radius)
	}
	if o.Square > 0 {
		return NewSquare(o.Square)
	}
	panic(fmt.Errorf("test obstacle with no shape"))
}

// Build registers the scenario's obstacles in a fresh partitioned map and
// returns it together with the moving polygon and the exclusion set the
// query should run with.
func (t *Test) Build() (*PartitionedMap, Polygon, map[uint32]bool) {
	m := NewPartitionedMap(t.Width, t.Height, DefaultPartitionSettings())
	ids := make([]uint32, len(t.Obstacles))
	for i := range t.Obstacles {
		c := NewCollidable(t.Obstacles[i].Pos, t.Obstacles[i].Shape())
		c.Flags = t.Obstacles[i].Flags
		ids[i] = m.Register(c, false)
	}
	var excludeIds map[uint32]bool
	if len(t.ExcludeObstacles) > 0 {
		excludeIds = map[uint32]bool{}
		for _, idx := range t.ExcludeObstacles {
			excludeIds[ids[idx]] = true
		}
	}
	return m, NewPolygon(t.Mover), excludeIds
}
