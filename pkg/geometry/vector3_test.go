package geometry

import (
	"math"
	"testing"
)

func TestVector3Sub(t *testing.T) {
	v1 := NewVector3(5, 7, 9)
	v2 := NewVector3(1, 2, 3)
	result := v1.Sub(v2)

	expected := NewVector3(4, 5, 6)
	if result != expected {
		t.Errorf("Sub failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Length(t *testing.T) {
	v := NewVector3(3, 4, 0)
	length := v.Length()

	expected := 5.0
	if math.Abs(length-expected) > 1e-10 {
		t.Errorf("Length failed: expected %v, got %v", expected, length)
	}
}

func TestVector3RotateYQuarterTurn(t *testing.T) {
	// Row-vector convention: [x, y, z]·R_y(90°) = [-z, y, x]
	v := NewVector3(1, 2, 3)
	r := v.RotateY(math.Pi / 2)

	expected := NewVector3(-3, 2, 1)
	if r.Sub(expected).Length() > 1e-12 {
		t.Errorf("RotateY failed: expected %v, got %v", expected, r)
	}
}

func TestVector3RotateYPreservesLength(t *testing.T) {
	v := NewVector3(-12.5, 40, 73.1)
	for _, deg := range []float64{0, 7, 25, 45, 75, 120} {
		r := v.RotateY(deg * math.Pi / 180)
		if math.Abs(r.Length()-v.Length()) > 1e-10 {
			t.Errorf("RotateY(%v°) changed length: %v -> %v", deg, v.Length(), r.Length())
		}
		if r.Y != v.Y {
			t.Errorf("RotateY(%v°) changed Y: %v -> %v", deg, v.Y, r.Y)
		}
	}
}

func TestRotationYMatchesRotateY(t *testing.T) {
	a := 0.6
	m := RotationY(a)
	v := NewVector3(2, -1, 5)

	// row vector times matrix
	got := NewVector3(
		v.X*m[0]+v.Y*m[3]+v.Z*m[6],
		v.X*m[1]+v.Y*m[4]+v.Z*m[7],
		v.X*m[2]+v.Y*m[5]+v.Z*m[8],
	)
	want := v.RotateY(a)
	if got.Sub(want).Length() > 1e-12 {
		t.Errorf("RotationY mismatch: expected %v, got %v", want, got)
	}
}

func TestVector3DotProduct(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	dot := v1.Dot(v2)

	expected := 32.0 // 1*4 + 2*5 + 3*6
	if math.Abs(dot-expected) > 1e-10 {
		t.Errorf("Dot product failed: expected %v, got %v", expected, dot)
	}
}
