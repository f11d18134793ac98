package billiards

// Reflect returns the post-collision velocity and the unit tangent of the
// boundary at the contact. Speed is preserved. A ContactNone record leaves the
// velocity unchanged and yields a zero tangent.
func Reflect(vel Vec2, c Collision, t Table) (Vec2, Vec2) {
	if !c.Found() {
		return vel, Vec2{}
	}
	return t.reflect(vel, c)
}

// curvedReflect reflects vel off a boundary whose unnormalised outward
// gradient at the contact is grad.
func curvedReflect(vel, grad Vec2) (Vec2, Vec2) {
	n, t, ok := frame(grad)
	if !ok {
		return vel, Vec2{}
	}
	return vel.ReflectAcross(n, t), t
}

// frame returns the unit normal along grad and the unit tangent to its left.
func frame(grad Vec2) (Vec2, Vec2, bool) {
	if grad.IsZero() || !grad.IsFinite() {
		return Vec2{}, Vec2{}, false
	}
	n := grad.Normalize()
	return n, n.LeftNormal(), true
}

func flatReflect(vel Vec2, w Wall) (Vec2, Vec2) {
	if w == WallVertical {
		return Vec2{X: -vel.X, Y: vel.Y}, Vec2{X: 0, Y: 1}
	}
	return Vec2{X: vel.X, Y: -vel.Y}, Vec2{X: 1, Y: 0}
}

func (r Rectangle) reflect(vel Vec2, c Collision) (Vec2, Vec2) {
	return flatReflect(vel, c.Wall)
}

func (e Ellipse) reflect(vel Vec2, c Collision) (Vec2, Vec2) {
	return curvedReflect(vel, e.gradient(c.Point))
}

// gradient of (x/a)^2 + (y/b)^2 - 1.
func (e Ellipse) gradient(p Vec2) Vec2 {
	return Vec2{X: 2 * p.X / (e.A * e.A), Y: 2 * p.Y / (e.B * e.B)}
}

func (s Stadium) reflect(vel Vec2, c Collision) (Vec2, Vec2) {
	if c.Kind == ContactFlat {
		return flatReflect(vel, WallHorizontal)
	}
	return curvedReflect(vel, s.capGradient(c.Point, c.End))
}

// capGradient is the gradient of the end-cap circle equation about the cap
// centre selected by end.
func (s Stadium) capGradient(p Vec2, end End) Vec2 {
	return Vec2{X: 2 * (p.X + s.Width/2*float64(end)), Y: 2 * p.Y}
}
