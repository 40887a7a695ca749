package vecmath

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -5, 6)

	if got := a.Add(b); got != V3(5, -3, 9) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Sub(b); got != V3(-3, 7, -3) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Scale(2); got != V3(2, 4, 6) {
		t.Errorf("Scale: got %v", got)
	}
	if got := a.Mul(b); got != V3(4, -10, 18) {
		t.Errorf("Mul: got %v", got)
	}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot: got %v, want 12", got)
	}
	if got := V3(1, 0, 0).Cross(V3(0, 1, 0)); got != V3(0, 0, 1) {
		t.Errorf("Cross: got %v, want +Z", got)
	}
}

func TestVec3LerpEndpoints(t *testing.T) {
	a := V3(-10, 2, 5)
	b := V3(-10, 100, 5)

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0): got %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1): got %v, want %v", got, b)
	}
	if got := a.Lerp(b, 0.5); !got.ApproxEqual(V3(-10, 51, 5), eps) {
		t.Errorf("Lerp(0.5): got %v", got)
	}
}

func TestVec3Rotations(t *testing.T) {
	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"X quarter turn", V3(0, 1, 0).RotateX(math.Pi / 2), V3(0, 0, 1)},
		{"Y quarter turn", V3(0, 0, 1).RotateY(math.Pi / 2), V3(1, 0, 0)},
		{"Z quarter turn", V3(1, 0, 0).RotateZ(math.Pi / 2), V3(0, 1, 0)},
		{"Z negative quarter", V3(1, 0, 0).RotateZ(-math.Pi / 2), V3(0, -1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.ApproxEqual(tt.want, eps) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestVec3Normalize(t *testing.T) {
	if got := V3(3, 0, 4).Normalize(); !got.ApproxEqual(V3(0.6, 0, 0.8), eps) {
		t.Errorf("Normalize: got %v", got)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize(zero): got %v", got)
	}
}
