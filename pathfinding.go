package pathfind

import "container/heap"

// The pathfinder walks a polygon through a map by snapping it against the
// corners of whatever is in the way. A candidate placement aligns one vertex
// of the moving polygon with one vertex of an obstacle; from each placement
// the search tries to go straight to the goal, and when something blocks
// that, the blocking obstacles contribute their own corners as new
// candidates. The resulting paths hug obstacle corners the way a human
// player would steer around them, without any grid underneath.
//
// The search is greedy rather than optimal: candidates are expanded in
// order of g + 1.5*h, and the inflated heuristic weight pushes depth-first
// toward the goal. In open maps this finds a sensible path after expanding
// a handful of nodes. It does not find shortest paths and it gives up on
// narrow corridors, both on purpose.

const heuristicWeight = 1.5

// Unvisited is a candidate placement in the search tree. Location is where
// the moving polygon's reference point would be; Collidable, TheirVertex
// and OurVertex remember which obstacle corner the placement snaps to, so
// that the expansion can tell a slide along the same obstacle from a fresh
// approach. The path is read back by walking Parent to the root.
type Unvisited struct {
	Parent      *Unvisited
	Location    Pt
	Collidable  *Collidable // nil for the start node
	TheirVertex int
	OurVertex   int
	G           float64
	H           float64
}

func (u *Unvisited) priority() float64 {
	return u.G + heuristicWeight*u.H
}

type unvisitedHeap []*Unvisited

func (h unvisitedHeap) Len() int { return len(h) }
func (h unvisitedHeap) Less(i, j int) bool {
	return h[i].priority() < h[j].priority()
}
func (h unvisitedHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *unvisitedHeap) Push(x any)   { *h = append(*h, x.(*Unvisited)) }
func (h *unvisitedHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// snapKey identifies one snap attempt: which obstacle, which of its
// vertices, which of ours. Every key is tried at most once per search,
// which is what bounds the search.
type snapKey struct {
	id          uint32
	theirVertex int
	ourVertex   int
}

// Pathfinder computes one path for one polygon through one map. It is
// single-use: construct it with the whole problem and call CalculatePath
// once. Several pathfinders may query the same map at the same time as long
// as nobody mutates the map meanwhile.
type Pathfinder struct {
	Map          Map
	Moving       *Polygon
	Start        Pt
	End          Pt
	ExcludeIds   map[uint32]bool
	ExcludeFlags uint64
	closed       map[snapKey]bool
	queue        unvisitedHeap
}

func NewPathfinder(m Map, moving *Polygon, start, end Pt,
	excludeIds map[uint32]bool, excludeFlags uint64) *Pathfinder {
	return &Pathfinder{
		Map:          m,
		Moving:       moving,
		Start:        start,
		End:          end,
		ExcludeIds:   excludeIds,
		ExcludeFlags: excludeFlags,
		closed:       map[snapKey]bool{},
		queue:        make(unvisitedHeap, 0, 256),
	}
}

// CalculatePath returns the waypoints from start to end, with the start
// itself left out and the end included. A single-element result means the
// straight line was already clear. Nil means no path was found, which
// includes the case where the destination placement itself collides with
// something.
func (f *Pathfinder) CalculatePath() []Pt {
	obstacles := f.Map.TraceExhaustPolygon(f.Moving, f.Start, f.End,
		f.ExcludeIds, f.ExcludeFlags)
	if len(obstacles) == 0 {
		return []Pt{f.End}
	}

	// If the polygon cannot even stand at the destination, no amount of
	// searching will get it there.
	if !f.Map.Trace([]Polygon{*f.Moving}, f.End, f.ExcludeIds,
		f.ExcludeFlags) {
		return nil
	}

	start := &Unvisited{Location: f.Start, H: f.Start.DistTo(f.End)}
	heap.Init(&f.queue)
	f.queueCollidables(start, obstacles)

	for f.queue.Len() > 0 {
		node := heap.Pop(&f.queue).(*Unvisited)
		blocking := f.Map.TraceExhaustPolygon(f.Moving, node.Location,
			f.End, f.ExcludeIds, f.ExcludeFlags)
		if len(blocking) == 0 {
			return reconstructPath(node, f.End)
		}
		f.queueCollidables(node, blocking)
	}
	return nil
}

func reconstructPath(node *Unvisited, end Pt) []Pt {
	path := []Pt{end}
	for n := node; n.Parent != nil; n = n.Parent {
		path = append(path, n.Location)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// naturalOurVertex picks the vertex of the moving polygon that would touch
// the given obstacle vertex if the polygon was pressed against it from
// outside: the vertex furthest along the direction from the obstacle vertex
// toward the obstacle's middle.
func (f *Pathfinder) naturalOurVertex(obstacle *Collidable,
	theirVertex int) int {
	dir := obstacle.Bounds.Vertices[theirVertex].To(obstacle.Bounds.Centroid)
	return f.Moving.FurthestVertex(dir)
}

// queueCollidables expands a node: for every vertex of every obstacle in
// the list, derive the snap candidates and enqueue the reachable ones.
// Obstacles found blocking the way toward a candidate are appended to the
// list and expanded in the same pass, so one call walks the whole cluster
// of obstacles between the node and its candidates.
func (f *Pathfinder) queueCollidables(from *Unvisited,
	obstacles []*Collidable) {
	known := make(map[uint32]bool, len(obstacles))
	for _, o := range obstacles {
		known[o.Id] = true
	}

	for i := 0; i < len(obstacles); i++ {
		obstacle := obstacles[i]
		n := len(obstacle.Bounds.Vertices)
		for theirVtx := 0; theirVtx < n; theirVtx++ {
			ourVtx := f.naturalOurVertex(obstacle, theirVtx)

			var hits []*Collidable
			if from.Collidable != obstacle {
				// Fresh approach: try the natural contact pair directly.
				hits = f.considerTarget(from, obstacle, theirVtx, ourVtx)
			} else {
				hits = f.slideCandidates(from, obstacle, theirVtx, ourVtx)
			}
			for _, hit := range hits {
				if !known[hit.Id] {
					known[hit.Id] = true
					obstacles = append(obstacles, hit)
				}
			}
		}
	}
}

// slideCandidates handles continuing along the obstacle the node is already
// touching. Only steps to a neighboring obstacle vertex are considered;
// sliding to a vertex further around the ring almost never traces clear, so
// those are not worth the trace.
func (f *Pathfinder) slideCandidates(from *Unvisited, obstacle *Collidable,
	theirVtx, ourVtx int) []*Collidable {
	n := len(obstacle.Bounds.Vertices)
	diff := (theirVtx - from.TheirVertex + n) % n
	if diff != 1 && diff != n-1 {
		return nil
	}

	if ourVtx == from.OurVertex {
		return f.considerTarget(from, obstacle, theirVtx, ourVtx)
	}

	// The contact vertex on our side has to change. Step our ring one
	// vertex toward the natural one, the short way around; on a tie, step
	// by increment.
	ringLen := len(f.Moving.Vertices)
	incDist := (ourVtx - from.OurVertex + ringLen) % ringLen
	decDist := ringLen - incDist
	var targetOurVtx int
	if incDist <= decDist {
		targetOurVtx = (from.OurVertex + 1) % ringLen
	} else {
		targetOurVtx = (from.OurVertex - 1 + ringLen) % ringLen
	}

	if targetOurVtx == ourVtx {
		// One step is the whole change. If our edge between the two contact
		// vertices runs parallel to the obstacle edge we are sliding along,
		// rotating the contact does not actually displace the polygon, so
		// the two motions fold into one straight step.
		ourEdge := f.Moving.Edges[from.OurVertex]
		if incDist > decDist {
			ourEdge = f.Moving.Edges[targetOurVtx]
		}
		theirEdge := obstacle.Bounds.Edges[from.TheirVertex]
		if diff == n-1 {
			theirEdge = obstacle.Bounds.Edges[theirVtx]
		}
		if Parallel(ourEdge, theirEdge) {
			return f.considerTarget(from, obstacle, theirVtx, ourVtx)
		}
	}

	// Rotating around either contact vertex is legitimate, and which one
	// leads anywhere depends on geometry the search cannot see from here,
	// so both orders are queued: first move their contact, then ours, and
	// the other way around.
	hits := f.considerTarget(from, obstacle, from.TheirVertex, targetOurVtx)
	hits = append(hits,
		f.considerTarget(from, obstacle, theirVtx, from.OurVertex)...)
	return hits
}

// considerTarget tries one snap placement. If the way there is clear the
// placement joins the queue and its key is closed. If the placement is out
// of the map it is closed without a trace. If something blocks the way, the
// key stays open (another node may reach it later) and the blockers are
// returned for the caller to snap around.
func (f *Pathfinder) considerTarget(from *Unvisited, obstacle *Collidable,
	theirVtx, ourVtx int) []*Collidable {
	key := snapKey{obstacle.Id, theirVtx, ourVtx}
	if f.closed[key] {
		return nil
	}

	p := obstacle.Pos.Plus(obstacle.Bounds.Vertices[theirVtx]).
		Minus(f.Moving.Vertices[ourVtx])
	if !f.Map.Contains(f.Moving, p) {
		f.closed[key] = true
		return nil
	}

	hits := f.Map.TraceExhaustPolygon(f.Moving, from.Location, p,
		f.ExcludeIds, f.ExcludeFlags)
	if len(hits) > 0 {
		return hits
	}

	f.closed[key] = true
	heap.Push(&f.queue, &Unvisited{
		Parent:      from,
		Location:    p,
		Collidable:  obstacle,
		TheirVertex: theirVtx,
		OurVertex:   ourVtx,
		G:           from.G + from.Location.DistTo(p),
		H:           p.DistTo(f.End),
	})
	return nil
}
