package pathfind

import "math"

type Pt struct {
	X float64
	Y float64
}

func (p Pt) SquaredDistTo(other Pt) float64 {
	return p.To(other).SquaredLen()
}

func (p Pt) DistTo(other Pt) float64 {
	return math.Sqrt(p.SquaredDistTo(other))
}

func (p *Pt) Add(other Pt) {
	p.X = p.X + other.X
	p.Y = p.Y + other.Y
}

func (p Pt) Plus(other Pt) Pt {
	return Pt{p.X + other.X, p.Y + other.Y}
}

func (p Pt) Minus(other Pt) Pt {
	return Pt{p.X - other.X, p.Y - other.Y}
}

func (p *Pt) Subtract(other Pt) {
	p.X = p.X - other.X
	p.Y = p.Y - other.Y
}

func (p Pt) Times(multiply float64) Pt {
	return Pt{p.X * multiply, p.Y * multiply}
}

func (p Pt) DivBy(divide float64) Pt {
	return Pt{p.X / divide, p.Y / divide}
}

func (p Pt) SquaredLen() float64 {
	return p.X*p.X + p.Y*p.Y
}

func (p Pt) Len() float64 {
	return math.Sqrt(p.SquaredLen())
}

func (p Pt) To(other Pt) Pt {
	return Pt{other.X - p.X, other.Y - p.Y}
}

func (p Pt) Dot(other Pt) float64 {
	return p.X*other.X + p.Y*other.Y
}

// Cross is the Z component of the 3D cross product of the two vectors,
// extended with Z = 0. The sign says on which side of p the other vector
// points.
func (p Pt) Cross(other Pt) float64 {
	return p.X*other.Y - p.Y*other.X
}
