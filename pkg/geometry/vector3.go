package geometry

import "math"

// Vector3 represents a point in the sample frame, Z along the beam
type Vector3 struct {
	X, Y, Z float64
}

// NewVector3 creates a new 3D vector
func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Sub returns the difference between two vectors
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Dot returns the dot product of two vectors
func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Length returns the magnitude of the vector
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// RotateY multiplies the row vector v by the rotation matrix about the Y axis
//
//	[ cos a  0  sin a ]
//	[   0    1    0   ]
//	[-sin a  0  cos a ]
//
// which is the convention the cone projection is defined in.
func (v Vector3) RotateY(a float64) Vector3 {
	sin, cos := math.Sincos(a)
	return Vector3{
		X: v.X*cos - v.Z*sin,
		Y: v.Y,
		Z: v.X*sin + v.Z*cos,
	}
}

// RotationY returns the row-major 3x3 matrix used by RotateY.
func RotationY(a float64) [9]float64 {
	sin, cos := math.Sincos(a)
	return [9]float64{
		cos, 0, sin,
		0, 1, 0,
		-sin, 0, cos,
	}
}
