package billiards

import (
	"math"
	"testing"
)

func TestFlatReflectionFlipsOneComponent(t *testing.T) {
	table := Rectangle{Width: 2, Height: 1}
	v := NewVec2(0.6, 0.8)

	got, _ := Reflect(v, Collision{Kind: ContactFlat, Wall: WallVertical}, table)
	if got.X != -0.6 || got.Y != 0.8 {
		t.Errorf("vertical wall: got %+v, want (-0.6, 0.8)", got)
	}
	got, _ = Reflect(v, Collision{Kind: ContactFlat, Wall: WallHorizontal}, table)
	if got.X != 0.6 || got.Y != -0.8 {
		t.Errorf("horizontal wall: got %+v, want (0.6, -0.8)", got)
	}
}

func TestEllipseReflectionAtVertex(t *testing.T) {
	table := Ellipse{A: 2, B: 1}
	c := Collision{Point: NewVec2(2, 0), Kind: ContactCurved}

	got, tangent := Reflect(NewVec2(1, 0.5), c, table)
	if !near(got.X, -1, 1e-12) || !near(got.Y, 0.5, 1e-12) {
		t.Errorf("got %+v, want (-1, 0.5)", got)
	}
	if !near(tangent.X, 0, 1e-12) || !near(tangent.Y, 1, 1e-12) {
		t.Errorf("tangent = %+v, want (0,1)", tangent)
	}
}

func TestStadiumCapReflectionUsesCapCentre(t *testing.T) {
	table := Stadium{Width: 2, Height: 1}
	r := table.Radius()
	// 45 degrees up the right cap: outward normal is (1,1)/sqrt2.
	p := NewVec2(1+r*math.Sqrt2/2, r*math.Sqrt2/2)
	c := Collision{Point: p, Kind: ContactCurved, End: EndRight}

	got, _ := Reflect(NewVec2(1, 0), c, table)
	if !near(got.X, 0, 1e-12) || !near(got.Y, -1, 1e-12) {
		t.Errorf("got %+v, want (0,-1)", got)
	}

	// Mirror image on the left cap.
	p = NewVec2(-1-r*math.Sqrt2/2, r*math.Sqrt2/2)
	c = Collision{Point: p, Kind: ContactCurved, End: EndLeft}
	got, _ = Reflect(NewVec2(-1, 0), c, table)
	if !near(got.X, 0, 1e-12) || !near(got.Y, -1, 1e-12) {
		t.Errorf("left cap: got %+v, want (0,-1)", got)
	}
}

func TestStadiumEdgeReflection(t *testing.T) {
	table := Stadium{Width: 2, Height: 1}
	got, tangent := Reflect(NewVec2(0.3, 0.4), Collision{Kind: ContactFlat, Wall: WallHorizontal}, table)
	if got.X != 0.3 || got.Y != -0.4 {
		t.Errorf("got %+v, want (0.3,-0.4)", got)
	}
	if tangent != (Vec2{X: 1, Y: 0}) {
		t.Errorf("tangent = %+v, want (1,0)", tangent)
	}
}

func TestDegenerateGradientLeavesVelocity(t *testing.T) {
	table := Ellipse{A: 2, B: 1}
	v := NewVec2(0.3, -0.2)
	got, tangent := Reflect(v, Collision{Point: Vec2{}, Kind: ContactCurved}, table)
	if got != v || !tangent.IsZero() {
		t.Errorf("zero gradient: got %+v tangent %+v, want unchanged and zero", got, tangent)
	}
}

func TestNoneContactLeavesVelocity(t *testing.T) {
	v := NewVec2(1, 2)
	got, _ := Reflect(v, Collision{}, Stadium{Width: 1, Height: 1})
	if got != v {
		t.Errorf("got %+v, want %+v", got, v)
	}
}

func TestSpeedConservedOverRuns(t *testing.T) {
	tables := []Table{
		Rectangle{Width: 3, Height: 2},
		Ellipse{A: 2, B: 1},
		Ellipse{A: 3, B: 3},
		Stadium{Width: 2, Height: 1},
	}
	for _, table := range tables {
		for _, deg := range []float64{17, 45, 73, 130} {
			res, err := Run(NewBall(0.1, -0.05, deg), table, 60, false)
			if err != nil {
				t.Fatalf("%s @%v: %v", table.Variant(), deg, err)
			}
			for i, v := range res.Velocities {
				if math.Abs(v.Magnitude()-1) > 1e-9 {
					t.Errorf("%s @%v step %d: speed %v, want 1", table.Variant(), deg, i+1, v.Magnitude())
				}
			}
		}
	}
}
