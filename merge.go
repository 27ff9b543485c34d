package pathfind

// FindMapLocation computes the world rectangle covered by one side of a
// partition, from the split geometry alone. It does not look at what is
// currently under that side, which is the point: during a merge the subtree
// under the side is about to be thrown away, and the replacement leaf needs
// the rectangle the subtree used to tile.
func (m *PartitionedMap) FindMapLocation(partIdx int, left bool) Rectangle {
	// Record the path from the partition up to the root, as a sequence of
	// (partition, which side we came from) hops.
	type hop struct {
		partIdx int
		left    bool
	}
	path := []hop{{partIdx, left}}
	cur := partIdx
	for !m.Partitions[cur].IsRoot() {
		path = append(path, hop{m.Partitions[cur].Parent,
			m.Partitions[cur].LeftOfParent()})
		cur = m.Partitions[cur].Parent
	}

	// Descend from the whole world, tightening one coordinate per hop.
	rect := NewRectangle(0, 0, m.Width, m.Height)
	for i := len(path) - 1; i >= 0; i-- {
		p := &m.Partitions[path[i].partIdx]
		if p.Horizontal() {
			if path[i].left {
				rect.Max.Y = p.Split
			} else {
				rect.Min.Y = p.Split
			}
		} else {
			if path[i].left {
				rect.Max.X = p.Split
			} else {
				rect.Min.X = p.Split
			}
		}
	}
	return rect
}

// CountNumEntities counts the collidables in every leaf under one side of a
// partition. A collidable sitting in several of those leaves is counted
// once per leaf; the split/merge triggers work on these per-leaf totals,
// not on distinct entities.
func (m *PartitionedMap) CountNumEntities(partIdx int, left bool) int {
	p := &m.Partitions[partIdx]
	if left {
		if p.LeftIsMap() {
			return len(m.Maps[p.Left].Map.Collidables)
		}
		return m.CountNumEntities(p.Left, true) +
			m.CountNumEntities(p.Left, false)
	}
	if p.RightIsMap() {
		return len(m.Maps[p.Right].Map.Collidables)
	}
	return m.CountNumEntities(p.Right, true) +
		m.CountNumEntities(p.Right, false)
}

// ConsiderPrune merges subtrees that emptied out, starting from leaves
// whose count just dropped. For each such leaf, the smallest subtree that
// contains it and fits under the destroy trigger is grown as far up the
// tree as the trigger allows, then collapsed into a single leaf. The root
// partition itself is never collapsed; when the whole tree fits under the
// trigger, each side of the root is collapsed separately and the root
// stays.
//
// Merging shifts arena indices, so the pending leaf indices are remapped
// after every merge, and leaves that were themselves swallowed by a merge
// are dropped.
func (m *PartitionedMap) ConsiderPrune(mapIdxs []int) {
	pending := append([]int(nil), mapIdxs...)
	for len(pending) > 0 {
		mapIdx := pending[0]
		pending = pending[1:]
		if mapIdx < 0 {
			continue
		}
		leaf := &m.Maps[mapIdx]
		if leaf.Parent == -1 {
			continue
		}

		p := leaf.Parent
		total := m.CountNumEntities(p, true) + m.CountNumEntities(p, false)
		if int64(total) > m.Settings.TriggerDestroyEntities {
			continue
		}
		for !m.Partitions[p].IsRoot() {
			parent := m.Partitions[p].Parent
			other := total + m.CountNumEntities(parent,
				!m.Partitions[p].LeftOfParent())
			if int64(other) > m.Settings.TriggerDestroyEntities {
				break
			}
			total = other
			p = parent
		}

		var mapShift []int
		if m.Partitions[p].IsRoot() {
			// The whole tree fits, but the root stays. Collapse its sides
			// one at a time; the second side's index has to survive the
			// first side's remap.
			rootIdx := p
			mapShift = m.MergeAllChildren(rootIdx, true)
			remapPending(pending, mapShift)
			rootIdx = m.rootIdx()
			second := m.MergeAllChildren(rootIdx, false)
			remapPending(pending, second)
		} else {
			target := m.Partitions[p].Parent
			side := m.Partitions[p].LeftOfParent()
			mapShift = m.MergeAllChildren(target, side)
			remapPending(pending, mapShift)
		}
	}
}

func remapPending(pending []int, mapShift []int) {
	if mapShift == nil {
		return
	}
	for i, idx := range pending {
		if idx < 0 {
			continue
		}
		pending[i] = mapShift[idx]
	}
}

// MergeAllChildren replaces everything under one side of a partition with a
// single fresh leaf holding the union of the collidables of every leaf in
// the collapsed subtree. Both arenas are compacted afterwards, so indices
// held by the caller become stale; the returned table maps every old leaf
// index to its new one, with -1 for leaves that no longer exist. A side
// that is already a single leaf is left alone and nil is returned.
func (m *PartitionedMap) MergeAllChildren(partIdx int, left bool) []int {
	part := &m.Partitions[partIdx]
	var child int
	if left {
		if part.LeftIsMap() {
			return nil
		}
		child = part.Left
	} else {
		if part.RightIsMap() {
			return nil
		}
		child = part.Right
	}

	// The rectangle must be computed before anything is removed, while the
	// recorded split geometry is still intact.
	rect := m.FindMapLocation(partIdx, left)

	// Walk the subtree, listing its partitions and leaves and collecting
	// every distinct collidable.
	var subParts, subMaps []int
	var collected []*Collidable
	seen := map[uint32]bool{}
	stack := []int{child}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		subParts = append(subParts, cur)
		p := &m.Partitions[cur]
		for _, side := range []bool{true, false} {
			childIdx := p.Left
			isMap := p.LeftIsMap()
			if !side {
				childIdx = p.Right
				isMap = p.RightIsMap()
			}
			if isMap {
				subMaps = append(subMaps, childIdx)
				for _, c := range m.Maps[childIdx].Map.Collidables {
					if !seen[c.Id] {
						seen[c.Id] = true
						collected = append(collected, c)
					}
				}
			} else {
				stack = append(stack, childIdx)
			}
		}
	}

	// Build the rolling shift tables: for a surviving index i the new index
	// is i - shift[i], removed indices map to -1.
	partShift := buildShiftTable(len(m.Partitions), subParts)
	mapShift := buildShiftTable(len(m.Maps), subMaps)

	// Compact the arenas, shifting live entries left over the holes.
	m.Partitions = compactPartitions(m.Partitions, partShift)
	m.Maps = compactMaps(m.Maps, mapShift)

	// Rewrite every surviving index through the tables.
	for i := range m.Partitions {
		p := &m.Partitions[i]
		if !p.IsRoot() {
			p.Parent = partShift[p.Parent]
		}
		if p.LeftIsMap() {
			p.Left = mapShift[p.Left]
		} else {
			p.Left = partShift[p.Left]
		}
		if p.RightIsMap() {
			p.Right = mapShift[p.Right]
		} else {
			p.Right = partShift[p.Right]
		}
	}
	for i := range m.Maps {
		if m.Maps[i].Parent != -1 {
			m.Maps[i].Parent = partShift[m.Maps[i].Parent]
		}
	}

	// Attach the merged leaf to the (remapped) target partition. The
	// target is above the collapsed subtree, so it must have survived.
	newPartIdx := partShift[partIdx]
	Assert(newPartIdx != -1)
	newLeafIdx := len(m.Maps)
	leaf := LeafMap{
		LeftOfParent: left,
		Parent:       newPartIdx,
		Offset:       rect.Min,
		Map:          NewSimpleMap(rect.Width(), rect.Height()),
	}
	leaf.Map.Collidables = collected
	m.Maps = append(m.Maps, leaf)
	target := &m.Partitions[newPartIdx]
	if left {
		target.Left = newLeafIdx
		target.Flags |= PartitionLeftIsMap
	} else {
		target.Right = newLeafIdx
		target.Flags |= PartitionRightIsMap
	}

	return mapShift
}

// buildShiftTable computes new_index = i - shift for every live index and
// -1 for removed ones.
func buildShiftTable(n int, removed []int) []int {
	isRemoved := make([]bool, n)
	for _, r := range removed {
		isRemoved[r] = true
	}
	table := make([]int, n)
	shift := 0
	for i := 0; i < n; i++ {
		if isRemoved[i] {
			shift++
			table[i] = -1
		} else {
			table[i] = i - shift
		}
	}
	return table
}

func compactPartitions(arena []Partition, shift []int) []Partition {
	out := arena[:0]
	for i := range arena {
		if shift[i] != -1 {
			out = append(out, arena[i])
		}
	}
	return out
}

func compactMaps(arena []LeafMap, shift []int) []LeafMap {
	out := arena[:0]
	for i := range arena {
		if shift[i] != -1 {
			out = append(out, arena[i])
		}
	}
	return out
}
