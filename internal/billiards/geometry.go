package billiards

import (
	"fmt"
	"math"
	"strings"
)

// Variant names a table family.
type Variant string

const (
	VariantRectangle Variant = "rectangle"
	VariantEllipse   Variant = "ellipse"
	VariantStadium   Variant = "stadium"
)

// Table is an immutable table description. It is implemented only by
// Rectangle, Ellipse and Stadium, all centred on the origin.
type Table interface {
	Variant() Variant
	// Dims returns the two defining dimensions in declaration order.
	Dims() (float64, float64)
	Validate() error
	Contains(p Vec2) bool
	// Horizon is the upper bound on time-to-collision for a unit-speed ball.
	Horizon() float64
	Perimeter() float64
	// NextCollision ray-marches from pos along vel and returns the first
	// boundary contact, or a ContactNone record when none is found.
	NextCollision(pos, vel Vec2) Collision

	reflect(vel Vec2, c Collision) (Vec2, Vec2)
	phase(vel Vec2, c Collision) (PhaseSample, bool)
}

// Rectangle is a width x height box.
type Rectangle struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Ellipse has semi-major axis A along x and semi-minor axis B along y.
type Ellipse struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Stadium is a Bunimovich stadium: a Width x Height central box capped left
// and right by semicircles of radius Height/2.
type Stadium struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ParseVariant resolves a variant name, case-insensitively. "elliptical" is
// accepted for ellipses.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case string(VariantRectangle):
		return VariantRectangle, nil
	case string(VariantEllipse), "elliptical":
		return VariantEllipse, nil
	case string(VariantStadium):
		return VariantStadium, nil
	}
	return "", fmt.Errorf("%w: unknown variant %q", ErrInvalidTable, name)
}

// NewTable builds a validated table from a variant name and its two
// dimensions (width/height, or a/b for ellipses).
func NewTable(variant string, d1, d2 float64) (Table, error) {
	v, err := ParseVariant(variant)
	if err != nil {
		return nil, err
	}
	var t Table
	switch v {
	case VariantRectangle:
		t = Rectangle{Width: d1, Height: d2}
	case VariantEllipse:
		t = Ellipse{A: d1, B: d2}
	default:
		t = Stadium{Width: d1, Height: d2}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ValidateStart checks that pos lies on the table (inside or on the boundary).
func ValidateStart(t Table, pos Vec2) error {
	if !pos.IsFinite() || !t.Contains(pos) {
		return fmt.Errorf("%w: (%g, %g)", ErrOutsideTable, pos.X, pos.Y)
	}
	return nil
}

func positive(vals ...float64) bool {
	for _, v := range vals {
		if !(v > 0) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (r Rectangle) Variant() Variant         { return VariantRectangle }
func (r Rectangle) Dims() (float64, float64) { return r.Width, r.Height }

func (r Rectangle) Validate() error {
	if !positive(r.Width, r.Height) {
		return fmt.Errorf("%w: rectangle %gx%g", ErrInvalidTable, r.Width, r.Height)
	}
	return nil
}

func (r Rectangle) Contains(p Vec2) bool {
	return math.Abs(p.X) <= r.Width/2 && math.Abs(p.Y) <= r.Height/2
}

func (r Rectangle) Horizon() float64 {
	return math.Sqrt(r.Width*r.Width + r.Height*r.Height)
}

func (r Rectangle) Perimeter() float64 {
	return 2 * (r.Width + r.Height)
}

func (e Ellipse) Variant() Variant         { return VariantEllipse }
func (e Ellipse) Dims() (float64, float64) { return e.A, e.B }

func (e Ellipse) Validate() error {
	if !positive(e.A, e.B) || e.A < e.B {
		return fmt.Errorf("%w: ellipse needs a >= b > 0, got a=%g b=%g", ErrInvalidTable, e.A, e.B)
	}
	return nil
}

func (e Ellipse) Contains(p Vec2) bool {
	return e.level(p) <= 1
}

// level evaluates (x/a)^2 + (y/b)^2.
func (e Ellipse) level(p Vec2) float64 {
	x, y := p.X/e.A, p.Y/e.B
	return x*x + y*y
}

func (e Ellipse) Horizon() float64 {
	return 2 * e.A
}

func (e Ellipse) Perimeter() float64 {
	return 2 * e.ArcLength(math.Pi)
}

func (s Stadium) Variant() Variant         { return VariantStadium }
func (s Stadium) Dims() (float64, float64) { return s.Width, s.Height }

func (s Stadium) Validate() error {
	if !positive(s.Width, s.Height) {
		return fmt.Errorf("%w: stadium %gx%g", ErrInvalidTable, s.Width, s.Height)
	}
	return nil
}

// Radius is the radius of both semicircular end caps.
func (s Stadium) Radius() float64 {
	return s.Height / 2
}

func (s Stadium) Contains(p Vec2) bool {
	hw, r := s.Width/2, s.Radius()
	if math.Abs(p.Y) > r {
		return false
	}
	if math.Abs(p.X) <= hw {
		return true
	}
	dx := math.Abs(p.X) - hw
	return dx*dx+p.Y*p.Y <= r*r
}

func (s Stadium) Horizon() float64 {
	return s.Width + s.Height
}

// Perimeter is the box perimeter 2w plus two semicircle perimeters.
func (s Stadium) Perimeter() float64 {
	return s.boxPerimeter() + 2*s.semicirclePerimeter()
}

func (s Stadium) boxPerimeter() float64 {
	return 2 * s.Width
}

func (s Stadium) semicirclePerimeter() float64 {
	return math.Pi * s.Height / 2
}
