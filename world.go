package pathfind

import (
	"bytes"
	"fmt"
)

// SimulationVersion is the version of the simulation semantics: the split
// and merge decisions, the trace geometry, the pathfinder's expansion
// order. Replaying a recorded session only reproduces the original run if
// the executable has the same SimulationVersion as the one that recorded
// it. Any change that makes any world diverge during a replay must bump it.
const SimulationVersion = 1

// ReleaseVersion labels a build handed to someone. It changes much more
// often than the other versions: every packaged build gets a fresh one,
// even if nothing in the simulation moved.
const ReleaseVersion = 1

// Level is the static definition of a world: its size, the partition
// tunables, a palette of polygon shapes, and the obstacles present before
// any input arrives. Shapes are referenced by index from obstacles and
// inputs instead of being embedded in them, so that inputs stay fixed-size
// and serialize cheaply.
type Level struct {
	Width     float64           `yaml:"Width"`
	Height    float64           `yaml:"Height"`
	Settings  PartitionSettings `yaml:"Settings"`
	Shapes    [][]Pt            `yaml:"Shapes"`
	Obstacles []ObstacleParams  `yaml:"Obstacles"`
}

type ObstacleParams struct {
	Shape int64  `yaml:"Shape"`
	Pos   Pt     `yaml:"Pos"`
	Flags uint64 `yaml:"Flags"`
}

func (l *Level) Serialize(w *bytes.Buffer) {
	Serialize(w, l.Width)
	Serialize(w, l.Height)
	Serialize(w, l.Settings)
	Serialize(w, int64(len(l.Shapes)))
	for _, shape := range l.Shapes {
		SerializeSlice(w, shape)
	}
	SerializeSlice(w, l.Obstacles)
}

func (l *Level) Deserialize(r *bytes.Buffer) {
	Deserialize(r, &l.Width)
	Deserialize(r, &l.Height)
	Deserialize(r, &l.Settings)
	var nShapes int64
	Deserialize(r, &nShapes)
	l.Shapes = make([][]Pt, nShapes)
	for i := range l.Shapes {
		DeserializeSlice(r, &l.Shapes[i])
	}
	DeserializeSlice(r, &l.Obstacles)
}

// LoadLevel reads a level definition from a YAML file. A missing file gets
// its own error: the YAML layer's open failure buries the file name, and a
// mistyped level path should say exactly what wasn't found.
func LoadLevel(fsys FS, name string) (l Level) {
	if !FileExists(fsys, name) {
		Check(fmt.Errorf("level file %s does not exist", name))
	}
	LoadYAML(fsys, name, &l)
	return
}

// WorldInput is one event sent to a World: register an obstacle, remove
// one, move one, or ask for a path. All fields are fixed-size so a history
// of inputs serializes as a flat slice.
type WorldInput struct {
	Op           int64
	Shape        int64 // shape palette index, for Register and FindPath
	Id           int64 // collidable id, for Unregister and Move
	Flags        uint64
	ExcludeId    int64 // a collidable the path may pass through, -1 for none
	ExcludeFlags uint64
	Pos          Pt // position for Register/Move, start for FindPath
	End          Pt
}

const (
	OpNone = int64(iota)
	OpRegister
	OpUnregister
	OpMove
	OpFindPath
)

// World ties a partitioned map to the input event stream. It exists for
// recording and replaying: a Level plus a history of WorldInputs fully
// determines every map mutation and every computed path, so a session can
// be stored, replayed and compared against itself after a refactoring.
type World struct {
	Level
	Map    *PartitionedMap
	Shapes []Polygon
	// The outcome of the most recent OpFindPath, kept so that the world
	// state captures what the caller was told.
	LastPath      []Pt
	LastPathFound bool
}

func NewWorld(level Level) (w World) {
	w.Level = level
	w.Map = NewPartitionedMap(level.Width, level.Height, level.Settings)
	w.Shapes = make([]Polygon, len(level.Shapes))
	for i, ring := range level.Shapes {
		w.Shapes[i] = NewPolygon(ring)
	}
	for _, o := range level.Obstacles {
		c := NewCollidable(o.Pos, w.Shapes[o.Shape])
		c.Flags = o.Flags
		w.Map.Register(c, false)
	}
	return w
}

func (w *World) Step(input WorldInput) {
	switch input.Op {
	case OpNone:
	case OpRegister:
		c := NewCollidable(input.Pos, w.Shapes[input.Shape])
		c.Flags = input.Flags
		w.Map.Register(c, false)
	case OpUnregister:
		w.Map.Unregister(uint32(input.Id))
	case OpMove:
		w.Map.Move(uint32(input.Id), input.Pos)
	case OpFindPath:
		var excludeIds map[uint32]bool
		if input.ExcludeId >= 0 {
			excludeIds = map[uint32]bool{uint32(input.ExcludeId): true}
		}
		pf := NewPathfinder(w.Map, &w.Shapes[input.Shape], input.Pos,
			input.End, excludeIds, input.ExcludeFlags)
		w.LastPath = pf.CalculatePath()
		w.LastPathFound = w.LastPath != nil
	default:
		panic(fmt.Errorf("unhandled world input op: %d", input.Op))
	}
}

// StateBytes is an array of bytes that represent the current state of the
// World, as perceived by the outside. If two Worlds have the same
// StateBytes they are considered "the same", even if their implementations
// differ. The state includes the partition tree layout on purpose: the
// tree decides which collidables a trace scans, so a refactoring that
// changes where splits land changes behavior that callers can observe
// through query cost, and it should show up in regression ids.
func (w *World) StateBytes() []byte {
	buf := new(bytes.Buffer)
	Serialize(buf, int64(len(w.Map.Partitions)))
	for i := range w.Map.Partitions {
		p := &w.Map.Partitions[i]
		Serialize(buf, p.Flags)
		Serialize(buf, p.Split)
		Serialize(buf, int64(p.Left))
		Serialize(buf, int64(p.Right))
		Serialize(buf, int64(p.Parent))
	}
	Serialize(buf, int64(len(w.Map.Maps)))
	for i := range w.Map.Maps {
		leaf := &w.Map.Maps[i]
		Serialize(buf, leaf.Offset)
		Serialize(buf, leaf.Map.Width)
		Serialize(buf, leaf.Map.Height)
		Serialize(buf, int64(leaf.Parent))
		Serialize(buf, leaf.LeftOfParent)
		Serialize(buf, int64(len(leaf.Map.Collidables)))
		for _, c := range leaf.Map.Collidables {
			Serialize(buf, c.Id)
		}
	}
	Serialize(buf, int64(len(w.Map.Collidables)))
	for _, c := range w.Map.Collidables {
		Serialize(buf, c.Id)
		Serialize(buf, c.Flags)
		Serialize(buf, c.Pos)
	}
	SerializeSlice(buf, w.LastPath)
	Serialize(buf, w.LastPathFound)
	return buf.Bytes()
}
