package pathfind

// Map is what the pathfinder needs from a world full of collidables. Both
// SimpleMap and PartitionedMap implement it, so a pathfinder doesn't care
// whether the world behind it is a flat list or a partition tree.
//
// Traces come in two forms. The explicit form takes a set of convex shapes
// in coordinates relative to `from` and asks whether any eligible collidable
// overlaps any of them. The convenience form takes a single polygon and a
// from/to displacement and builds the swept shapes itself. A trace that
// finds nothing returns true (Trace) or an empty list (TraceExhaust).
type Map interface {
	Contains(poly *Polygon, pos Pt) bool
	Trace(traces []Polygon, from Pt, excludeIds map[uint32]bool,
		excludeFlags uint64) bool
	TraceExhaust(traces []Polygon, from Pt, excludeIds map[uint32]bool,
		excludeFlags uint64) []*Collidable
	TracePolygon(poly *Polygon, from Pt, to Pt, excludeIds map[uint32]bool,
		excludeFlags uint64) bool
	TraceExhaustPolygon(poly *Polygon, from Pt, to Pt,
		excludeIds map[uint32]bool, excludeFlags uint64) []*Collidable
}
