package pathfind

import (
	"fmt"
	"slices"
)

// PartitionedMap splits the world into rectangles so that traces only have
// to scan the collidables near them. The split positions adapt to where the
// collidables actually are: a leaf that gets too crowded is split at a
// coordinate that passes between entity clusters, and a subtree that empties
// out is merged back into one leaf.
//
// The tree is stored as two flat arrays instead of linked nodes. A partition
// is an inner node: a split line and two children, each of which is either
// another partition or a leaf. A leaf owns a SimpleMap with the collidables
// whose footprint touches its rectangle. A collidable that straddles a split
// line is in several leaves at once, and trace results are deduplicated by
// id when they are collected.
//
// Children and parents reference each other by index into the arrays. The
// arrays are kept dense: removing nodes during a merge shifts the live
// entries left and rewrites every affected index. Indices are therefore
// stable across splits and arena growth, but not across merges.
const (
	// The partition's split line is horizontal (Split is a Y value). Without
	// this flag the line is vertical (Split is an X value).
	PartitionHorizontal = 1 << iota
	// Left/Right index a leaf in Maps instead of a partition in Partitions.
	PartitionLeftIsMap
	PartitionRightIsMap
	// This partition is the root and has no parent.
	PartitionIsRoot
	// This partition is the left child of its parent.
	PartitionLeftOfParent
)

type Partition struct {
	Flags  uint8
	Split  float64
	Left   int
	Right  int
	Parent int
}

func (p *Partition) Horizontal() bool   { return p.Flags&PartitionHorizontal != 0 }
func (p *Partition) LeftIsMap() bool    { return p.Flags&PartitionLeftIsMap != 0 }
func (p *Partition) RightIsMap() bool   { return p.Flags&PartitionRightIsMap != 0 }
func (p *Partition) IsRoot() bool       { return p.Flags&PartitionIsRoot != 0 }
func (p *Partition) LeftOfParent() bool { return p.Flags&PartitionLeftOfParent != 0 }

// LeafMap is a leaf of the partition tree: a rectangle of the world and the
// collidables that touch it. Offset is the world position of the
// rectangle's low corner; the SimpleMap's width and height are the
// rectangle's dimensions. Collidable positions stay in world coordinates
// even inside a leaf, only the rectangle bookkeeping is local.
type LeafMap struct {
	LeftOfParent bool
	Parent       int // index into Partitions, -1 while the tree has no partitions
	Offset       Pt
	Map          *SimpleMap
}

func (l *LeafMap) WorldRect() Rectangle {
	return Rectangle{l.Offset,
		l.Offset.Plus(Pt{l.Map.Width, l.Map.Height})}
}

// PartitionSettings are the knobs of the split and merge decisions. The
// constraints keep the two triggers apart so that a small back-and-forth
// movement cannot split a leaf and immediately merge it again.
type PartitionSettings struct {
	// A leaf must keep at least this many entities on each side of a split.
	MinPartitionEntities int64 `yaml:"MinPartitionEntities"`
	// A split considers at most this many candidate gaps per side.
	MaxPartitionEntities int64 `yaml:"MaxPartitionEntities"`
	// A leaf with more entities than this is split.
	TriggerCreateEntities int64 `yaml:"TriggerCreateEntities"`
	// A subtree with at most this many entities is merged back into a leaf.
	TriggerDestroyEntities int64 `yaml:"TriggerDestroyEntities"`
}

func DefaultPartitionSettings() PartitionSettings {
	return PartitionSettings{
		MinPartitionEntities:   4,
		MaxPartitionEntities:   20,
		TriggerCreateEntities:  15,
		TriggerDestroyEntities: 4,
	}
}

func (s *PartitionSettings) Validate() {
	if s.TriggerCreateEntities < 2*s.MinPartitionEntities {
		Check(fmt.Errorf("TriggerCreateEntities (%d) must be at least "+
			"2*MinPartitionEntities (%d)", s.TriggerCreateEntities,
			2*s.MinPartitionEntities))
	}
	if s.TriggerDestroyEntities > 2*s.MinPartitionEntities-1 {
		Check(fmt.Errorf("TriggerDestroyEntities (%d) must be at most "+
			"2*MinPartitionEntities-1 (%d)", s.TriggerDestroyEntities,
			2*s.MinPartitionEntities-1))
	}
	if s.MaxPartitionEntities < s.MinPartitionEntities {
		Check(fmt.Errorf("MaxPartitionEntities (%d) must be at least "+
			"MinPartitionEntities (%d)", s.MaxPartitionEntities,
			s.MinPartitionEntities))
	}
}

type PartitionedMap struct {
	Width      float64
	Height     float64
	Settings   PartitionSettings
	Partitions []Partition
	Maps       []LeafMap
	// All registered collidables, in registration order, plus an id lookup.
	// These are the owning references; the per-leaf lists are views.
	Collidables []*Collidable
	ById        map[uint32]*Collidable
	IdCounter   uint32
}

func NewPartitionedMap(width, height float64,
	settings PartitionSettings) *PartitionedMap {
	settings.Validate()
	m := PartitionedMap{
		Width:    width,
		Height:   height,
		Settings: settings,
		ById:     map[uint32]*Collidable{},
	}
	// The tree starts as a single leaf covering the whole world.
	m.Maps = append(m.Maps, LeafMap{
		Parent: -1,
		Map:    NewSimpleMap(width, height),
	})
	return &m
}

func (m *PartitionedMap) Contains(poly *Polygon, pos Pt) bool {
	return pos.X >= 0 && pos.Y >= 0 &&
		pos.X+poly.BBox.Max.X < m.Width &&
		pos.Y+poly.BBox.Max.Y < m.Height
}

// FindMap returns the index of the leaf whose rectangle holds pos. A point
// exactly on a split line goes to the left (or top) side.
func (m *PartitionedMap) FindMap(pos Pt) int {
	if len(m.Partitions) == 0 {
		return 0
	}
	idx := m.rootIdx()
	for {
		p := &m.Partitions[idx]
		var v, split float64
		if p.Horizontal() {
			v, split = pos.Y, p.Split
		} else {
			v, split = pos.X, p.Split
		}
		if v <= split {
			if p.LeftIsMap() {
				return p.Left
			}
			idx = p.Left
		} else {
			if p.RightIsMap() {
				return p.Right
			}
			idx = p.Right
		}
	}
}

func (m *PartitionedMap) rootIdx() int {
	// The root is the first partition ever created and merges never remove
	// it, so compaction keeps it at index 0; the scan finds it by its flag
	// instead of relying on that. The arena stays small enough that a scan
	// is fine.
	for i := range m.Partitions {
		if m.Partitions[i].IsRoot() {
			return i
		}
	}
	panic("partition arena has no root")
}

// findMapsRects returns the indices of every leaf whose rectangle
// intersects at least one of the given boxes. Once some leaf contains all
// the boxes entirely, later leaves that also contain all of them are
// skipped: they can only see the same collidables.
func (m *PartitionedMap) findMapsRects(boxes []Rectangle) []int {
	var result []int
	containmentSeen := false
	for i := range m.Maps {
		rect := m.Maps[i].WorldRect()
		intersects := false
		containsAll := true
		for j := range boxes {
			if rect.Intersects(boxes[j]) {
				intersects = true
			}
			if !rect.ContainsRect(boxes[j]) {
				containsAll = false
			}
		}
		if !intersects {
			continue
		}
		if containsAll {
			if containmentSeen {
				continue
			}
			containmentSeen = true
		}
		result = append(result, i)
	}
	return result
}

func (m *PartitionedMap) findMapsTraces(traces []Polygon, from Pt) []int {
	boxes := make([]Rectangle, len(traces))
	for i := range traces {
		boxes[i] = traces[i].TranslatedBBox(from)
	}
	return m.findMapsRects(boxes)
}

// Trace reports whether the given shapes placed at from are clear of
// eligible collidables in every leaf they touch.
func (m *PartitionedMap) Trace(traces []Polygon, from Pt,
	excludeIds map[uint32]bool, excludeFlags uint64) bool {
	for _, mapIdx := range m.findMapsTraces(traces, from) {
		if !m.Maps[mapIdx].Map.Trace(traces, from, excludeIds, excludeFlags) {
			return false
		}
	}
	return true
}

// TraceExhaust collects every eligible collidable hit by the shapes placed
// at from, across all the leaves they touch. A collidable that straddles a
// split line is in several leaves but is reported once. The caller's
// exclusion set is not modified; a private copy grows with each reported
// collidable so that later leaves skip it.
func (m *PartitionedMap) TraceExhaust(traces []Polygon, from Pt,
	excludeIds map[uint32]bool, excludeFlags uint64) []*Collidable {
	mapIdxs := m.findMapsTraces(traces, from)
	if len(mapIdxs) == 1 {
		return m.Maps[mapIdxs[0]].Map.TraceExhaust(traces, from, excludeIds,
			excludeFlags)
	}

	var result []*Collidable
	var exclude map[uint32]bool
	for _, mapIdx := range mapIdxs {
		if exclude == nil && len(result) > 0 {
			exclude = make(map[uint32]bool,
				len(excludeIds)+len(result))
			for id := range excludeIds {
				exclude[id] = true
			}
			for _, c := range result {
				exclude[c.Id] = true
			}
		}
		ids := excludeIds
		if exclude != nil {
			ids = exclude
		}
		hits := m.Maps[mapIdx].Map.TraceExhaust(traces, from, ids,
			excludeFlags)
		result = append(result, hits...)
		if exclude != nil {
			for _, c := range hits {
				exclude[c.Id] = true
			}
		}
	}
	return result
}

func (m *PartitionedMap) TracePolygon(poly *Polygon, from Pt, to Pt,
	excludeIds map[uint32]bool, excludeFlags uint64) bool {
	return m.Trace(SweptTraces(poly, from, to), from, excludeIds,
		excludeFlags)
}

func (m *PartitionedMap) TraceExhaustPolygon(poly *Polygon, from Pt, to Pt,
	excludeIds map[uint32]bool, excludeFlags uint64) []*Collidable {
	return m.TraceExhaust(SweptTraces(poly, from, to), from, excludeIds,
		excludeFlags)
}

// GetIntersecting returns the id of the first collidable whose bounds
// strictly contain pos, scanning only the leaf that holds pos. A point on a
// split line is looked up in the left leaf.
func (m *PartitionedMap) GetIntersecting(pos Pt) (uint32, bool) {
	return m.Maps[m.FindMap(pos)].Map.GetIntersecting(pos)
}

// Register puts the collidable into every leaf its footprint touches and
// gives it a fresh id, unless forceId asks to keep the id already set. A
// forced id moves the id counter past it, so later fresh ids stay unique.
func (m *PartitionedMap) Register(c *Collidable, forceId bool) uint32 {
	if !forceId {
		c.Id = m.IdCounter
		m.IdCounter++
	} else if c.Id >= m.IdCounter {
		m.IdCounter = c.Id + 1
	}

	mapIdxs := m.findMapsRects([]Rectangle{c.Bounds.TranslatedBBox(c.Pos)})
	for _, mapIdx := range mapIdxs {
		leaf := m.Maps[mapIdx].Map
		leaf.Collidables = append(leaf.Collidables, c)
	}
	m.Collidables = append(m.Collidables, c)
	m.ById[c.Id] = c

	for _, mapIdx := range mapIdxs {
		m.ConsiderSplit(mapIdx)
	}
	if AssertsEnabled {
		m.VerifyInvariants()
	}
	return c.Id
}

// Unregister removes the collidable from the map. Unregistering an id that
// was never registered, or was already unregistered, is a bug in the caller
// and crashes.
func (m *PartitionedMap) Unregister(id uint32) {
	c := m.ById[id]
	if c == nil {
		Check(fmt.Errorf("unregister of unknown collidable id %d", id))
	}

	mapIdxs := m.findMapsRects([]Rectangle{c.Bounds.TranslatedBBox(c.Pos)})
	for _, mapIdx := range mapIdxs {
		m.Maps[mapIdx].Map.removeCollidable(c)
	}
	delete(m.ById, id)
	for i := range m.Collidables {
		if m.Collidables[i] == c {
			m.Collidables = append(m.Collidables[:i], m.Collidables[i+1:]...)
			break
		}
	}

	m.ConsiderPrune(mapIdxs)
	if AssertsEnabled {
		m.VerifyInvariants()
	}
}

// Move changes the collidable's position and keeps the per-leaf lists
// consistent. Most moves are small and stay inside one leaf, which costs
// nothing beyond the position write.
func (m *PartitionedMap) Move(id uint32, pos Pt) {
	c := m.ById[id]
	if c == nil {
		Check(fmt.Errorf("move of unknown collidable id %d", id))
	}

	oldIdxs := m.findMapsRects([]Rectangle{c.Bounds.TranslatedBBox(c.Pos)})
	newBox := c.Bounds.TranslatedBBox(pos)
	if len(oldIdxs) == 1 {
		rect := m.Maps[oldIdxs[0]].WorldRect()
		if newBox.Min.X > rect.Min.X && newBox.Min.Y > rect.Min.Y &&
			newBox.Max.X < rect.Max.X && newBox.Max.Y < rect.Max.Y {
			c.Pos = pos
			if AssertsEnabled {
				m.VerifyInvariants()
			}
			return
		}
	}

	newIdxs := m.findMapsRects([]Rectangle{newBox})
	var removed, added []int
	for _, oldIdx := range oldIdxs {
		if !slices.Contains(newIdxs, oldIdx) {
			m.Maps[oldIdx].Map.removeCollidable(c)
			removed = append(removed, oldIdx)
		}
	}
	for _, newIdx := range newIdxs {
		if !slices.Contains(oldIdxs, newIdx) {
			leaf := m.Maps[newIdx].Map
			leaf.Collidables = append(leaf.Collidables, c)
			added = append(added, newIdx)
		}
	}
	c.Pos = pos

	for _, mapIdx := range added {
		m.ConsiderSplit(mapIdx)
	}
	m.ConsiderPrune(removed)
	if AssertsEnabled {
		m.VerifyInvariants()
	}
}

