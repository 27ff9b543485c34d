package pathfind

// SimpleMap is the dumbest possible map: a flat list of collidables that
// every query scans from the start. It is correct and fast enough for a few
// dozen collidables, and it is the ground truth that PartitionedMap is
// tested against. PartitionedMap also uses one SimpleMap per leaf.
type SimpleMap struct {
	Width       float64
	Height      float64
	Collidables []*Collidable
	IdCounter   uint32
}

func NewSimpleMap(width, height float64) *SimpleMap {
	return &SimpleMap{Width: width, Height: height}
}

// Register puts the collidable in the map, gives it an id and returns it.
// No geometric validation happens here: callers may register collidables
// that overlap others or stick out of the map.
func (m *SimpleMap) Register(c *Collidable) uint32 {
	c.Id = m.IdCounter
	m.IdCounter++
	m.Collidables = append(m.Collidables, c)
	return c.Id
}

// Contains says whether the polygon placed at pos fits in the map. The check
// is on the polygon's bounding box against [0, Width) x [0, Height), with
// the low side checked on the position itself.
func (m *SimpleMap) Contains(poly *Polygon, pos Pt) bool {
	return pos.X >= 0 && pos.Y >= 0 &&
		pos.X+poly.BBox.Max.X < m.Width &&
		pos.Y+poly.BBox.Max.Y < m.Height
}

// GetIntersecting returns the id of the first registered collidable whose
// bounds strictly contain pos. Points on a boundary belong to no collidable.
func (m *SimpleMap) GetIntersecting(pos Pt) (uint32, bool) {
	for _, c := range m.Collidables {
		if c.Bounds.ContainsPt(pos, c.Pos) {
			return c.Id, true
		}
	}
	return 0, false
}

// Trace says whether the given shapes, placed at from, are free of eligible
// collidables. True means the way is clear.
func (m *SimpleMap) Trace(traces []Polygon, from Pt,
	excludeIds map[uint32]bool, excludeFlags uint64) bool {
	for _, c := range m.Collidables {
		if !c.Eligible(excludeIds, excludeFlags) {
			continue
		}
		for i := range traces {
			if PolygonsIntersect(&traces[i], from, &c.Bounds, c.Pos) {
				return false
			}
		}
	}
	return true
}

// TraceExhaust returns every eligible collidable that overlaps at least one
// of the shapes placed at from. Each collidable appears at most once, in the
// order it was registered.
func (m *SimpleMap) TraceExhaust(traces []Polygon, from Pt,
	excludeIds map[uint32]bool, excludeFlags uint64) []*Collidable {
	var result []*Collidable
	for _, c := range m.Collidables {
		if !c.Eligible(excludeIds, excludeFlags) {
			continue
		}
		for i := range traces {
			if PolygonsIntersect(&traces[i], from, &c.Bounds, c.Pos) {
				result = append(result, c)
				break
			}
		}
	}
	return result
}

// removeCollidable drops the collidable from the list, keeping the order of
// the others. The partitioned map uses this when a collidable leaves a
// leaf; the SimpleMap API itself has no unregister.
func (m *SimpleMap) removeCollidable(c *Collidable) {
	for i := range m.Collidables {
		if m.Collidables[i] == c {
			m.Collidables = append(m.Collidables[:i], m.Collidables[i+1:]...)
			return
		}
	}
}

func (m *SimpleMap) TracePolygon(poly *Polygon, from Pt, to Pt,
	excludeIds map[uint32]bool, excludeFlags uint64) bool {
	return m.Trace(SweptTraces(poly, from, to), from, excludeIds, excludeFlags)
}

func (m *SimpleMap) TraceExhaustPolygon(poly *Polygon, from Pt, to Pt,
	excludeIds map[uint32]bool, excludeFlags uint64) []*Collidable {
	return m.TraceExhaust(SweptTraces(poly, from, to), from, excludeIds,
		excludeFlags)
}
