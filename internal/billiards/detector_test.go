package billiards

import (
	"math"
	"testing"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestRectangleHitsRightWall(t *testing.T) {
	table := Rectangle{Width: 2, Height: 1}
	c := table.NextCollision(NewVec2(0, 0), FromAngle(0))

	if c.Kind != ContactFlat || c.Wall != WallVertical {
		t.Fatalf("contact = %v wall=%v, want flat vertical", c.Kind, c.Wall)
	}
	if !near(c.Point.X, 1, 1e-9) || !near(c.Point.Y, 0, 1e-9) {
		t.Errorf("point = %+v, want (1,0)", c.Point)
	}
	if c.Index != 1000 {
		t.Errorf("index = %d, want 1000", c.Index)
	}
}

func TestRectangleIgnoresWallItIsLeaving(t *testing.T) {
	table := Rectangle{Width: 2, Height: 1}
	c := table.NextCollision(NewVec2(1, 0), NewVec2(-1, 0))

	if c.Kind != ContactFlat || c.Wall != WallVertical {
		t.Fatalf("contact = %v wall=%v, want flat vertical", c.Kind, c.Wall)
	}
	if !near(c.Point.X, -1, 1e-9) {
		t.Errorf("point = %+v, want (-1,0)", c.Point)
	}
}

func TestRectangleCornerTieGoesToVerticalWall(t *testing.T) {
	table := Rectangle{Width: 2, Height: 2}
	c := table.NextCollision(NewVec2(0, 0), NewVec2(1, 1))

	if c.Wall != WallVertical {
		t.Errorf("corner tie resolved to wall %v, want vertical", c.Wall)
	}
}

func TestRectangleHorizontalWall(t *testing.T) {
	table := Rectangle{Width: 4, Height: 1}
	c := table.NextCollision(NewVec2(0, 0), FromAngle(80))

	if c.Wall != WallHorizontal {
		t.Fatalf("wall = %v, want horizontal", c.Wall)
	}
	if c.Point.Y < 0.5 || c.Point.Y > 0.5+TimeStep {
		t.Errorf("y = %v, want just past 0.5", c.Point.Y)
	}
}

func TestNoCollisionWithinHorizon(t *testing.T) {
	tables := []Table{
		Rectangle{Width: 2, Height: 1},
		Ellipse{A: 2, B: 1},
		Stadium{Width: 2, Height: 1},
	}
	for _, table := range tables {
		c := table.NextCollision(NewVec2(0, 0), NewVec2(1e-6, 0))
		if c.Found() {
			t.Errorf("%s: expected no collision for a crawling ball, got %+v", table.Variant(), c)
		}
	}
}

func TestEllipseFirstQuadrantHit(t *testing.T) {
	table := Ellipse{A: 2, B: 1}
	c := table.NextCollision(NewVec2(0, 0), FromAngle(45))

	if c.Kind != ContactCurved {
		t.Fatalf("contact = %v, want curved", c.Kind)
	}
	if c.Point.X <= 0 || c.Point.Y <= 0 {
		t.Errorf("point = %+v, want first quadrant", c.Point)
	}
	if lvl := table.level(c.Point); !near(lvl, 1, 0.01) {
		t.Errorf("(x/a)^2+(y/b)^2 = %v, want ~1", lvl)
	}
	// The recorded point is the sample before the rounded crossing.
	if lvl := table.level(c.Point); lvl >= 1 {
		t.Errorf("recorded point is outside the ellipse: level=%v", lvl)
	}
}

func TestStadiumTopEdge(t *testing.T) {
	table := Stadium{Width: 2, Height: 1}
	c := table.NextCollision(NewVec2(0, 0), FromAngle(90))

	if c.Kind != ContactFlat || c.Wall != WallHorizontal {
		t.Fatalf("contact = %v wall=%v, want flat horizontal", c.Kind, c.Wall)
	}
	if !near(c.Point.X, 0, 1e-9) || !near(c.Point.Y, 0.5, 0.01) {
		t.Errorf("point = %+v, want ~(0,0.5)", c.Point)
	}
}

func TestStadiumEndCaps(t *testing.T) {
	table := Stadium{Width: 2, Height: 1}
	cases := []struct {
		name  string
		vel   Vec2
		end   End
		wantX float64
	}{
		{"right", NewVec2(1, 0), EndRight, 1.5},
		{"left", NewVec2(-1, 0), EndLeft, -1.5},
	}
	for _, tc := range cases {
		c := table.NextCollision(NewVec2(0, 0), tc.vel)
		if c.Kind != ContactCurved {
			t.Errorf("%s: contact = %v, want curved", tc.name, c.Kind)
			continue
		}
		if c.End != tc.end {
			t.Errorf("%s: end = %v, want %v", tc.name, c.End, tc.end)
		}
		if !near(c.Point.X, tc.wantX, 0.01) || c.Point.Y != 0 {
			t.Errorf("%s: point = %+v, want ~(%v,0)", tc.name, c.Point, tc.wantX)
		}
	}
}

func TestStadiumCapRecordsSampleInside(t *testing.T) {
	table := Stadium{Width: 2, Height: 1}
	c := table.NextCollision(NewVec2(0, 0), FromAngle(20))
	if c.Kind != ContactCurved || c.End != EndRight {
		t.Fatalf("contact = %v end=%v, want curved right", c.Kind, c.End)
	}
	if !table.Contains(c.Point) {
		t.Errorf("cap contact %+v should be the last sample inside the table", c.Point)
	}
}

func TestSampleCountMatchesHorizon(t *testing.T) {
	if n := sampleCount(Stadium{Width: 2, Height: 1}.Horizon()); n != 3300 {
		t.Errorf("stadium 2x1 samples = %d, want 3300", n)
	}
	if n := sampleCount(Ellipse{A: 2, B: 1}.Horizon()); n != 4400 {
		t.Errorf("ellipse 2x1 samples = %d, want 4400", n)
	}
}

func TestFirstCrossing(t *testing.T) {
	hits := func(idx ...int) func(int) bool {
		return func(k int) bool {
			for _, i := range idx {
				if k == i {
					return true
				}
			}
			return false
		}
	}
	tests := []struct {
		name   string
		hit    func(int) bool
		wantK  int
		wantOK bool
	}{
		{"none", hits(), 0, false},
		{"start only", hits(0), 0, false},
		{"later only", hits(7, 9), 7, true},
		{"start then later re-reflects in place", hits(0, 7), 0, true},
	}
	for _, tt := range tests {
		k, ok := firstCrossing(20, tt.hit)
		if k != tt.wantK || ok != tt.wantOK {
			t.Errorf("%s: got (%d, %v), want (%d, %v)", tt.name, k, ok, tt.wantK, tt.wantOK)
		}
	}
}
