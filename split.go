package pathfind

import (
	"math"
	"sort"
)

// The split coordinate of a crowded leaf is chosen by minimizing a
// punishment function over candidate positions: every entity center
// contributes a bump
//
//	1 / (a*d*d + b*|d| + c), d = center - candidate
//
// so the total is large near entity clusters and small in the gaps between
// them. Minimizing it puts the split line through the widest gap, weighted
// by how many entities sit on each side of it. The constants are calibrated
// so that between two consecutive entity centers the linear term dominates
// the derivative, which keeps the Newton iteration below well behaved. They
// must not be changed independently of each other.
const (
	punishmentA = 16.0
	punishmentB = 25.0
	punishmentC = 0.7
)

// newtonEpsilon is the scale under which a derivative counts as zero for
// the Newton iteration on the punishment function.
const newtonEpsilon = 1e-9

const maxNewtonIterations = 10

func punishment(points []float64, x float64) float64 {
	total := 0.0
	for _, z := range points {
		d := z - x
		total += 1 / (punishmentA*d*d + punishmentB*math.Abs(d) + punishmentC)
	}
	return total
}

// punishmentDerivatives returns the first and second derivative of the
// punishment function at x. With g = a*d*d + b*|d| + c and
// u = 2*a*d + b*sign(d), each entity contributes u/g^2 to the first
// derivative and 2*u*u/g^3 - 2*a/g^2 to the second.
func punishmentDerivatives(points []float64, x float64) (d1, d2 float64) {
	for _, z := range points {
		d := z - x
		sign := 0.0
		if d > 0 {
			sign = 1
		} else if d < 0 {
			sign = -1
		}
		g := punishmentA*d*d + punishmentB*math.Abs(d) + punishmentC
		u := 2*punishmentA*d + punishmentB*sign
		g2 := g * g
		d1 += u / g2
		d2 += 2*u*u/(g2*g) - 2*punishmentA/g2
	}
	return
}

// minimizePunishment looks for the position with the smallest punishment.
// Seeds are the midpoints between consecutive entity centers in the middle
// of the sorted order; the outermost centers are skipped so that a split
// never strands fewer than MinPartitionEntities entities on a side, and at
// most 2*MaxPartitionEntities centers are examined so the cost of the
// search is bounded by the settings, not by the crowd.
//
// From each seed, Newton's method walks toward the local minimum of the
// punishment. The function is smooth between consecutive centers but kinked
// at each center, so an iterate is abandoned as soon as it leaves the
// bracket of its seed, or the derivatives flatten out, or the arithmetic
// degenerates. The best value seen anywhere survives.
func minimizePunishment(points []float64,
	settings *PartitionSettings) (bestX, bestP float64, ok bool) {
	n := len(points)
	minEntities := int(settings.MinPartitionEntities)
	viable := n - 2*minEntities
	if viable > 2*int(settings.MaxPartitionEntities) {
		viable = 2 * int(settings.MaxPartitionEntities)
	}
	if viable < 1 {
		return 0, 0, false
	}
	edges := (n - viable) / 2
	if edges < minEntities {
		edges = minEntities
	}

	sort.Float64s(points)
	bestP = math.Inf(1)
	for i := edges; i < n-edges-1; i++ {
		lo := points[i]
		hi := points[i+1]
		x := (lo + hi) / 2
		for iter := 0; iter < maxNewtonIterations; iter++ {
			p := punishment(points, x)
			if p < bestP {
				bestP = p
				bestX = x
				ok = true
			}
			d1, d2 := punishmentDerivatives(points, x)
			if math.Abs(d1) < newtonEpsilon {
				break
			}
			if math.Abs(d2) < newtonEpsilon {
				break
			}
			next := x - d1/d2
			if math.IsNaN(next) || math.IsInf(next, 0) ||
				next < lo || next > hi {
				break
			}
			x = next
		}
	}
	return
}

// ConsiderSplit splits the leaf if it got too crowded. The split line can be
// horizontal or vertical; both axes are scored with the punishment function
// on a shared normalized scale and the better one wins. The shorter side of
// the leaf is squeezed toward the middle of that scale, which makes its
// entities look closer together and biases the choice toward cutting the
// long side. Repeated splits therefore keep leaves roughly square instead
// of producing slivers.
func (m *PartitionedMap) ConsiderSplit(mapIdx int) {
	leaf := &m.Maps[mapIdx]
	collidables := leaf.Map.Collidables
	if int64(len(collidables)) <= m.Settings.TriggerCreateEntities {
		return
	}

	w := leaf.Map.Width
	h := leaf.Map.Height
	longSide := math.Max(w, h)
	offsetX := (1 - w/longSide) / 2
	offsetY := (1 - h/longSide) / 2

	xs := make([]float64, len(collidables))
	ys := make([]float64, len(collidables))
	for i, c := range collidables {
		center := c.Pos.Plus(c.Bounds.Centroid)
		xs[i] = (center.X-leaf.Offset.X)/longSide + offsetX
		ys[i] = (center.Y-leaf.Offset.Y)/longSide + offsetY
	}

	xSplit, xPunishment, xOk := minimizePunishment(xs, &m.Settings)
	ySplit, yPunishment, yOk := minimizePunishment(ys, &m.Settings)

	// Centers of collidables that straddle into the leaf from outside can
	// pull the optimum beyond the leaf itself; such a cut would not divide
	// anything.
	xWorld := leaf.Offset.X + (xSplit-offsetX)*longSide
	yWorld := leaf.Offset.Y + (ySplit-offsetY)*longSide
	xOk = xOk && xWorld > leaf.Offset.X && xWorld < leaf.Offset.X+w
	yOk = yOk && yWorld > leaf.Offset.Y && yWorld < leaf.Offset.Y+h
	if !xOk && !yOk {
		return
	}

	if xOk && (!yOk || xPunishment <= yPunishment) {
		m.createSplit(mapIdx, false, xWorld)
	} else {
		m.createSplit(mapIdx, true, yWorld)
	}
}

// createSplit cuts the leaf in two at the given world coordinate. The
// existing leaf shrinks to the left (or top) half and a fresh leaf takes
// the other half; a fresh partition node takes the place the leaf had in
// the tree. Collidables of the old leaf land in whichever halves their
// footprint touches, possibly both.
func (m *PartitionedMap) createSplit(mapIdx int, horizontal bool,
	split float64) {
	leaf := &m.Maps[mapIdx]
	rect := leaf.WorldRect()

	partIdx := len(m.Partitions)
	part := Partition{Split: split, Left: mapIdx, Right: len(m.Maps),
		Parent: leaf.Parent}
	part.Flags = PartitionLeftIsMap | PartitionRightIsMap
	if horizontal {
		part.Flags |= PartitionHorizontal
	}
	if leaf.Parent == -1 {
		part.Flags |= PartitionIsRoot
		part.Parent = -1
	} else {
		parent := &m.Partitions[leaf.Parent]
		if leaf.LeftOfParent {
			parent.Left = partIdx
			parent.Flags &^= PartitionLeftIsMap
			part.Flags |= PartitionLeftOfParent
		} else {
			parent.Right = partIdx
			parent.Flags &^= PartitionRightIsMap
		}
	}
	m.Partitions = append(m.Partitions, part)

	var leftRect, rightRect Rectangle
	if horizontal {
		leftRect = Rectangle{rect.Min, Pt{rect.Max.X, split}}
		rightRect = Rectangle{Pt{rect.Min.X, split}, rect.Max}
	} else {
		leftRect = Rectangle{rect.Min, Pt{split, rect.Max.Y}}
		rightRect = Rectangle{Pt{split, rect.Min.Y}, rect.Max}
	}

	collidables := leaf.Map.Collidables
	leaf.Offset = leftRect.Min
	leaf.Map = NewSimpleMap(leftRect.Width(), leftRect.Height())
	leaf.Parent = partIdx
	leaf.LeftOfParent = true

	m.Maps = append(m.Maps, LeafMap{
		Parent: partIdx,
		Offset: rightRect.Min,
		Map:    NewSimpleMap(rightRect.Width(), rightRect.Height()),
	})
	newLeaf := &m.Maps[len(m.Maps)-1]
	leaf = &m.Maps[mapIdx] // the append may have moved the backing array

	for _, c := range collidables {
		box := c.Bounds.TranslatedBBox(c.Pos)
		if box.Intersects(leftRect) {
			leaf.Map.Collidables = append(leaf.Map.Collidables, c)
		}
		if box.Intersects(rightRect) {
			newLeaf.Map.Collidables = append(newLeaf.Map.Collidables, c)
		}
	}
}
