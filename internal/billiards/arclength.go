package billiards

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// PhaseSample is one point of the Birkhoff phase-space portrait: the boundary
// arc length S from the rightmost point, counter-clockwise, and the cosine of
// the angle between the outgoing velocity and the boundary tangent.
type PhaseSample struct {
	S        float64 `json:"s"`
	CosTheta float64 `json:"cos_theta"`
}

// MapToPhaseSpace maps a contact and the post-reflection velocity to a phase
// sample. ok is false for rectangles and for ContactNone records.
func MapToPhaseSpace(vel Vec2, c Collision, t Table) (PhaseSample, bool) {
	if !c.Found() {
		return PhaseSample{}, false
	}
	return t.phase(vel, c)
}

// SupportsPhaseSpace reports whether t defines a phase-space mapping.
func SupportsPhaseSpace(t Table) bool {
	return t.Variant() != VariantRectangle
}

func (r Rectangle) phase(Vec2, Collision) (PhaseSample, bool) {
	return PhaseSample{}, false
}

// ArcLength integrates the ellipse arc from angle 0 to phi with fixed-order
// Gauss-Legendre quadrature.
func (e Ellipse) ArcLength(phi float64) float64 {
	if !(phi > 0) {
		return 0
	}
	f := func(theta float64) float64 {
		return math.Hypot(e.A*math.Sin(theta), e.B*math.Cos(theta))
	}
	return quad.Fixed(f, 0, phi, QuadratureOrder, quad.Legendre{}, 0)
}

// eccentricAngle returns atan(a*y / b*x) shifted into [0, pi).
func (e Ellipse) eccentricAngle(p Vec2) float64 {
	phi := math.Atan((e.A * p.Y) / (e.B * p.X))
	if math.IsNaN(phi) {
		return 0
	}
	if phi < 0 {
		phi += math.Pi
	}
	return phi
}

func (e Ellipse) phase(vel Vec2, c Collision) (PhaseSample, bool) {
	_, tangent, ok := frame(e.gradient(c.Point))
	speed := vel.Magnitude()
	if !ok || speed == 0 {
		return PhaseSample{S: e.ArcLength(e.eccentricAngle(c.Point))}, true
	}
	return PhaseSample{
		S:        e.ArcLength(e.eccentricAngle(c.Point)),
		CosTheta: vel.Dot(tangent) / speed,
	}, true
}

// Stadium arc length runs right cap (upper quarter) -> top edge -> left cap
// -> bottom edge -> right cap (lower quarter), starting at the rightmost point.
func (s Stadium) phase(vel Vec2, c Collision) (PhaseSample, bool) {
	var arc float64
	var tangent Vec2
	if c.Kind == ContactFlat {
		tangent = Vec2{X: 1, Y: 0}
		arc = s.edgeArc(c.Point)
	} else {
		_, tangent, _ = frame(s.capGradient(c.Point, c.End))
		if c.End == EndRight {
			arc = s.rightCapArc(c.Point)
		} else {
			arc = s.leftCapArc(c.Point)
		}
	}
	return PhaseSample{S: arc, CosTheta: vel.Dot(tangent)}, true
}

func (s Stadium) edgeArc(p Vec2) float64 {
	semi := s.semicirclePerimeter()
	if p.Y > 0 {
		return semi/2 + s.Width/2 - p.X
	}
	return 1.5*semi + s.Width + p.X + s.Width/2
}

// rightCapArc measures the upper quarter directly from the polar angle about
// the cap centre; the lower quarter is offset past the rest of the boundary.
// Angles are clamped to their quarter so points just inside the cap centre
// line stay on the correct end of the segment.
func (s Stadium) rightCapArc(p Vec2) float64 {
	r := s.Radius()
	theta := math.Atan2(p.Y, p.X-s.Width/2)
	if p.Y > 0 {
		return r * clamp(theta, 0, math.Pi/2)
	}
	return s.boxPerimeter() + 1.5*s.semicirclePerimeter() + r*clamp(theta+math.Pi/2, 0, math.Pi/2)
}

func (s Stadium) leftCapArc(p Vec2) float64 {
	r := s.Radius()
	theta := math.Atan2(p.Y, p.X+s.Width/2)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return s.boxPerimeter()/2 + s.semicirclePerimeter()/2 + r*clamp(theta-math.Pi/2, 0, math.Pi)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
