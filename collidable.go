package pathfind

// Collidable is something placed in a map that things can collide with. The
// world footprint of a collidable is its Bounds placed at Pos.
//
// Id is assigned by the map on registration and stays stable for the
// lifetime of the collidable. Flags is a bitmask freely chosen by whoever
// registers the collidable; traces can filter collidables out by any
// combination of flag bits. Bit 63 is reserved so that flag arithmetic never
// has to deal with the sign bit when flags pass through signed storage.
//
// Pos must only be changed through the owning map's Move. The partitioned
// map keeps per-leaf lists of collidables that are computed from Pos, so
// changing Pos behind its back silently corrupts those lists.
type Collidable struct {
	Id     uint32
	Flags  uint64
	Pos    Pt
	Bounds Polygon
}

func NewCollidable(pos Pt, bounds Polygon) *Collidable {
	return &Collidable{Pos: pos, Bounds: bounds}
}

// Eligible says whether the collidable takes part in a trace with the given
// exclusions.
func (c *Collidable) Eligible(excludeIds map[uint32]bool, excludeFlags uint64) bool {
	return !excludeIds[c.Id] && c.Flags&excludeFlags == 0
}
