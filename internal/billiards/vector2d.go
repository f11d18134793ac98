package billiards

import "math"

// Vec2 is a 2D vector used for ball positions and velocities.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// round2 rounds half-to-even at two decimal places, the tolerance used by the
// curved-boundary predicates.
func round2(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	return math.RoundToEven(n*100) / 100
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromAngle returns the unit vector pointing at the given angle in degrees.
func FromAngle(degrees float64) Vec2 {
	rad := degrees * math.Pi / 180
	return Vec2{X: math.Cos(rad), Y: math.Sin(rad)}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) Normalize() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{}
	}
	return v.Times(1.0 / m)
}

func (v Vec2) LeftNormal() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// ReflectAcross reflects v about the unit normal n, keeping the component
// along the unit tangent t: -(v.n)n + (v.t)t.
func (v Vec2) ReflectAcross(n, t Vec2) Vec2 {
	return n.Times(-v.Dot(n)).Plus(t.Times(v.Dot(t)))
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
