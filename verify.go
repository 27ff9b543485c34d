package pathfind

import (
	"fmt"
	"math"
)

// VerifyInvariants crashes if the partition tree diverged from what the
// rest of the code is allowed to assume. It runs after every mutation when
// asserts are enabled and costs a full sweep of the tree, so it is strictly
// a debugging tool.
func (m *PartitionedMap) VerifyInvariants() {
	Check(m.InvariantViolation())
}

// InvariantViolation returns the first violated partition invariant, or nil
// if the tree is consistent. The checks mirror the guarantees the queries
// rely on: leaves tile the world exactly, parent/child links agree in both
// directions, and every collidable sits in exactly the leaves its footprint
// touches.
func (m *PartitionedMap) InvariantViolation() error {
	// Leaves tile the world: pairwise disjoint, all inside, areas add up.
	area := 0.0
	for i := range m.Maps {
		rect := m.Maps[i].WorldRect()
		if rect.Min.X < 0 || rect.Min.Y < 0 ||
			rect.Max.X > m.Width || rect.Max.Y > m.Height {
			return fmt.Errorf("leaf %d sticks out of the world: %v", i, rect)
		}
		area += rect.Width() * rect.Height()
		for j := i + 1; j < len(m.Maps); j++ {
			other := m.Maps[j].WorldRect()
			if rect.Intersects(other) {
				return fmt.Errorf("leaves %d and %d overlap", i, j)
			}
		}
	}
	if math.Abs(area-m.Width*m.Height) > 1e-6*m.Width*m.Height {
		return fmt.Errorf("leaf areas sum to %f, world area is %f", area,
			m.Width*m.Height)
	}

	// Links agree in both directions and all indices are live.
	rootSeen := false
	for i := range m.Partitions {
		p := &m.Partitions[i]
		if p.IsRoot() {
			if rootSeen {
				return fmt.Errorf("more than one root partition")
			}
			rootSeen = true
		} else {
			if p.Parent < 0 || p.Parent >= len(m.Partitions) {
				return fmt.Errorf("partition %d has parent %d out of range",
					i, p.Parent)
			}
			parent := &m.Partitions[p.Parent]
			onLeft := !parent.LeftIsMap() && parent.Left == i
			onRight := !parent.RightIsMap() && parent.Right == i
			if onLeft == onRight {
				return fmt.Errorf("partition %d is not exactly one child "+
					"of its parent %d", i, p.Parent)
			}
			if onLeft != p.LeftOfParent() {
				return fmt.Errorf("partition %d has the wrong side flag", i)
			}
		}
		if p.LeftIsMap() && (p.Left < 0 || p.Left >= len(m.Maps)) ||
			!p.LeftIsMap() && (p.Left < 0 || p.Left >= len(m.Partitions)) {
			return fmt.Errorf("partition %d has left child %d out of range",
				i, p.Left)
		}
		if p.RightIsMap() && (p.Right < 0 || p.Right >= len(m.Maps)) ||
			!p.RightIsMap() && (p.Right < 0 || p.Right >= len(m.Partitions)) {
			return fmt.Errorf("partition %d has right child %d out of range",
				i, p.Right)
		}
	}
	if rootSeen != (len(m.Partitions) > 0) {
		return fmt.Errorf("partition arena has no root")
	}
	for i := range m.Maps {
		leaf := &m.Maps[i]
		if leaf.Parent == -1 {
			if len(m.Partitions) != 0 {
				return fmt.Errorf("leaf %d has no parent but partitions "+
					"exist", i)
			}
			continue
		}
		parent := &m.Partitions[leaf.Parent]
		if leaf.LeftOfParent {
			if !parent.LeftIsMap() || parent.Left != i {
				return fmt.Errorf("leaf %d is not the left child of its "+
					"parent %d", i, leaf.Parent)
			}
		} else {
			if !parent.RightIsMap() || parent.Right != i {
				return fmt.Errorf("leaf %d is not the right child of its "+
					"parent %d", i, leaf.Parent)
			}
		}
	}

	// Every collidable is in exactly the leaves its footprint intersects.
	for _, c := range m.Collidables {
		box := c.Bounds.TranslatedBBox(c.Pos)
		for i := range m.Maps {
			rect := m.Maps[i].WorldRect()
			inLeaf := false
			for _, lc := range m.Maps[i].Map.Collidables {
				if lc == c {
					inLeaf = true
					break
				}
			}
			if inLeaf != rect.Intersects(box) {
				return fmt.Errorf("collidable %d and leaf %d disagree: in "+
					"leaf %v, intersects %v", c.Id, i, inLeaf, !inLeaf)
			}
		}
	}

	// And no leaf holds something that was unregistered.
	for i := range m.Maps {
		for _, lc := range m.Maps[i].Map.Collidables {
			if m.ById[lc.Id] != lc {
				return fmt.Errorf("leaf %d holds unregistered collidable %d",
					i, lc.Id)
			}
		}
	}
	return nil
}
