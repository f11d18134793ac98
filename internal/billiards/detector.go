package billiards

import (
	"fmt"
	"math"
)

// ContactKind says which reflection law applies at a collision.
type ContactKind int

const (
	// ContactNone marks a step where no crossing was found within the horizon.
	ContactNone ContactKind = iota
	ContactFlat
	ContactCurved
)

func (k ContactKind) String() string {
	switch k {
	case ContactFlat:
		return "flat"
	case ContactCurved:
		return "curved"
	default:
		return "none"
	}
}

func (k ContactKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ContactKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "flat":
		*k = ContactFlat
	case "curved":
		*k = ContactCurved
	case "none":
		*k = ContactNone
	default:
		return fmt.Errorf("billiards: unknown contact kind %q", b)
	}
	return nil
}

// Wall identifies the flat wall orientation hit, and with it the velocity
// component that flips.
type Wall int

const (
	WallNone       Wall = iota
	WallVertical        // x flips
	WallHorizontal      // y flips
)

// End identifies a stadium cap. The values are the sign applied to Width/2
// when recentring a contact point on its cap.
type End int

const (
	EndNone  End = 0
	EndRight End = -1
	EndLeft  End = 1
)

// Collision is the outcome of one ray march.
type Collision struct {
	Point Vec2
	Kind  ContactKind
	Wall  Wall
	End   End
	// Index is the sample index along the marched ray.
	Index int
}

// Found reports whether the march hit the boundary.
func (c Collision) Found() bool {
	return c.Kind != ContactNone
}

// NextCollision is the package-level entry point for collision detection.
func NextCollision(pos, vel Vec2, t Table) Collision {
	return t.NextCollision(pos, vel)
}

// sampleCount matches the length of arange(0, HorizonFactor*tmax, TimeStep).
func sampleCount(tmax float64) int {
	n := int(math.Ceil(HorizonFactor * tmax / TimeStep))
	if n < 2 {
		return 2
	}
	return n
}

type ray struct {
	pos, vel Vec2
}

func (r ray) at(i int) Vec2 {
	t := float64(i) * TimeStep
	return Vec2{X: r.pos.X + r.vel.X*t, Y: r.pos.Y + r.vel.Y*t}
}

// firstIndex returns the first k in [0, n) for which hit holds.
func firstIndex(n int, hit func(k int) bool) (int, bool) {
	for k := 0; k < n; k++ {
		if hit(k) {
			return k, true
		}
	}
	return 0, false
}

// firstCrossing is firstIndex, except that a hit at k == 0 with no later hit
// counts as no crossing. A ball resting on a wall it is leaving matches only
// there. A hit at k == 0 followed by any later hit still returns 0, so the
// ball reflects again where it stands. Stored trajectories and derived keys
// depend on this rule.
func firstCrossing(n int, hit func(k int) bool) (int, bool) {
	atStart := false
	for k := 0; k < n; k++ {
		if !hit(k) {
			continue
		}
		if k == 0 {
			atStart = true
			continue
		}
		if atStart {
			return 0, true
		}
		return k, true
	}
	return 0, false
}

// NextCollision checks the vertical walls (left, then right) and the
// horizontal walls (bottom, then top) independently. The earlier crossing
// wins; on a tie the vertical wall wins.
func (r Rectangle) NextCollision(pos, vel Vec2) Collision {
	n := sampleCount(r.Horizon())
	ry := ray{pos: pos, vel: vel}
	hw, hh := r.Width/2, r.Height/2

	ix, okX := firstCrossing(n, func(k int) bool { return ry.at(k).X <= -hw })
	if !okX {
		ix, okX = firstCrossing(n, func(k int) bool { return ry.at(k).X >= hw })
	}
	iy, okY := firstCrossing(n, func(k int) bool { return ry.at(k).Y <= -hh })
	if !okY {
		iy, okY = firstCrossing(n, func(k int) bool { return ry.at(k).Y >= hh })
	}

	switch {
	case okX && (!okY || ix <= iy):
		return Collision{Point: ry.at(ix), Kind: ContactFlat, Wall: WallVertical, Index: ix}
	case okY:
		return Collision{Point: ry.at(iy), Kind: ContactFlat, Wall: WallHorizontal, Index: iy}
	}
	return Collision{Kind: ContactNone}
}

// NextCollision evaluates the rounded ellipse equation on every sample after
// the first. The recorded point is the sample preceding the first one on or
// beyond the boundary.
func (e Ellipse) NextCollision(pos, vel Vec2) Collision {
	n := sampleCount(e.Horizon())
	ry := ray{pos: pos, vel: vel}

	k, ok := firstIndex(n-1, func(k int) bool {
		return round2(e.level(ry.at(k+1))-1) >= 0
	})
	if !ok {
		return Collision{Kind: ContactNone}
	}
	return Collision{Point: ry.at(k), Kind: ContactCurved, Index: k}
}

// NextCollision checks the flat edges (bottom, then top) and the end caps.
// The right cap is tried first; the left cap only when the right never
// fires. Cap predicates skip the first sample and, like the ellipse, record
// the sample preceding the crossing. A tie between an edge and a cap goes to
// the edge.
func (s Stadium) NextCollision(pos, vel Vec2) Collision {
	n := sampleCount(s.Horizon())
	ry := ray{pos: pos, vel: vel}
	hw, hh, r := s.Width/2, s.Height/2, s.Radius()

	tb, okEdge := firstCrossing(n, func(k int) bool { return ry.at(k).Y < -hh })
	if !okEdge {
		tb, okEdge = firstCrossing(n, func(k int) bool { return ry.at(k).Y > hh })
	}

	capReach := func(p Vec2) float64 {
		return math.Sqrt(math.Abs(r*r - p.Y*p.Y))
	}
	end := EndRight
	ec, okCap := firstCrossing(n-1, func(k int) bool {
		p := ry.at(k + 1)
		return round2(p.X-hw-capReach(p)) >= 0
	})
	if !okCap {
		end = EndLeft
		ec, okCap = firstCrossing(n-1, func(k int) bool {
			p := ry.at(k + 1)
			return round2(p.X+hw+capReach(p)) <= 0
		})
	}

	switch {
	case okEdge && (!okCap || tb <= ec):
		return Collision{Point: ry.at(tb), Kind: ContactFlat, Wall: WallHorizontal, End: end, Index: tb}
	case okCap:
		return Collision{Point: ry.at(ec), Kind: ContactCurved, End: end, Index: ec}
	}
	return Collision{Kind: ContactNone, End: end}
}
