package layout

import "testing"

func TestDimensionConstrain(t *testing.T) {
	tests := []struct {
		name       string
		dim        Dimension
		size       float32
		applyFixed bool
		want       float32
	}{
		{"unconstrained", Dimension{}, 42, true, 42},
		{"below minimum", AtLeast(10), 5, true, 10},
		{"within range", Between(10, 20), 15, true, 15},
		{"above maximum", Between(10, 20), 25, true, 20},
		{"fixed wins", Fixed(30), 5, true, 30},
		{"fixed ignored", Fixed(30), 5, false, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dim.Constrain(tt.size, tt.applyFixed); got != tt.want {
				t.Errorf("Constrain(%v) = %v, want %v", tt.size, got, tt.want)
			}
		})
	}
}

func TestDimensionEffectiveMinimum(t *testing.T) {
	tests := []struct {
		name string
		dim  Dimension
		want float32
	}{
		{"unset", Dimension{}, 0},
		{"minimum", AtLeast(12), 12},
		{"fixed over minimum", Fixed(40).Intersection(AtLeast(12)), 40},
		{"capped by maximum", Between(50, 30), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dim.EffectiveMinimum(); got != tt.want {
				t.Errorf("EffectiveMinimum() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDimensionResolve(t *testing.T) {
	d := Percent(25)
	r := d.Resolve(400)
	if v, ok := r.FixedSize(); !ok || v != 100 {
		t.Errorf("Resolve(400) fixed = %v, %v; want 100, true", v, ok)
	}

	d.SetMaximum(60)
	if v, _ := d.Resolve(400).FixedSize(); v != 60 {
		t.Errorf("Resolve with maximum = %v, want 60", v)
	}

	f := Fixed(10)
	f.SetPercentage(50)
	if v, _ := f.Resolve(400).FixedSize(); v != 10 {
		t.Errorf("explicit fixed size should win, got %v", v)
	}
}

func TestDimensionUnionIntersection(t *testing.T) {
	a, b := Between(10, 50), Between(20, 80)

	u := a.Union(b)
	if lo, _ := u.Minimum(); lo != 10 {
		t.Errorf("Union minimum = %v, want 10", lo)
	}
	if hi, _ := u.Maximum(); hi != 80 {
		t.Errorf("Union maximum = %v, want 80", hi)
	}

	i := a.Intersection(b)
	if lo, _ := i.Minimum(); lo != 20 {
		t.Errorf("Intersection minimum = %v, want 20", lo)
	}
	if hi, _ := i.Maximum(); hi != 50 {
		t.Errorf("Intersection maximum = %v, want 50", hi)
	}
}

func TestDimensionUnionOneSided(t *testing.T) {
	u := AtLeast(10).Union(Between(20, 80))
	if lo, _ := u.Minimum(); lo != 10 {
		t.Errorf("Union minimum = %v, want 10", lo)
	}
	if hi, ok := u.Maximum(); !ok || hi != 80 {
		t.Errorf("Union maximum = %v, %v; want 80, true", hi, ok)
	}
	if u.HasFixed() {
		t.Error("Union of unfixed dimensions should not be fixed")
	}
}

func TestDimensionConstrainDelta(t *testing.T) {
	tests := []struct {
		name      string
		d         Dimension
		size      float32
		want      float32
		wantDelta float32
	}{
		{"unconstrained", Dimension{}, 42, 42, 0},
		{"capped at maximum", Between(10, 50), 70, 50, -20},
		{"raised to minimum", AtLeast(30), 12, 30, 18},
		{"fixed", Fixed(25), 40, 25, -15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, delta := tt.d.ConstrainDelta(tt.size, true)
			if got != tt.want || delta != tt.wantDelta {
				t.Errorf("ConstrainDelta(%v) = %v, %v; want %v, %v", tt.size, got, delta, tt.want, tt.wantDelta)
			}
		})
	}
}

func TestDimensionScale(t *testing.T) {
	d := Between(10, 40)
	d.SetFixed(20)
	d.SetPercentage(50)

	s := d.Scale(1.5)
	lo, _ := s.Minimum()
	hi, _ := s.Maximum()
	fixed, _ := s.FixedSize()
	pct, _ := s.Percentage()
	if lo != 15 || hi != 60 || fixed != 30 || pct != 50 {
		t.Errorf("Scale(1.5) = min %v max %v fixed %v percent %v; want 15 60 30 50", lo, hi, fixed, pct)
	}
	if Fixed(8).Scale(2).HasMinimum() {
		t.Error("Scale should not set constraints that were absent")
	}
}

func TestDimensionAutoComputeFixed(t *testing.T) {
	if v, ok := Between(32, 32).AutoComputeFixed().FixedSize(); !ok || v != 32 {
		t.Errorf("AutoComputeFixed = %v, %v; want 32, true", v, ok)
	}
	if Between(10, 32).AutoComputeFixed().HasFixed() {
		t.Error("distinct bounds should not become fixed")
	}
}

func TestRectContains(t *testing.T) {
	r := RectF{Left: 10, Top: 10, Width: 20, Height: 10}
	tests := []struct {
		p    Vec2
		want bool
	}{
		{Vec2{10, 10}, true},
		{Vec2{29.9, 19.9}, true},
		{Vec2{30, 15}, false},
		{Vec2{15, 20}, false},
		{Vec2{9, 15}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectIntersection(t *testing.T) {
	a := RectF{0, 0, 10, 10}
	got, ok := a.Intersection(RectF{5, 5, 10, 10})
	if !ok || got != (RectF{5, 5, 5, 5}) {
		t.Errorf("Intersection = %+v, %v", got, ok)
	}
	if _, ok := a.Intersection(RectF{10, 0, 5, 5}); ok {
		t.Error("touching rects should not intersect")
	}
}
