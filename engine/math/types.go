package math

import m "math"

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Vec3One returns a vector of ones, the scale of an untransformed object.
func Vec3One() Vec3 {
	return Vec3{X: 1, Y: 1, Z: 1}
}

// LengthSquared returns the squared length of the vector.
func (v Vec3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the length of the vector.
func (v Vec3) Length() float32 {
	return float32(m.Sqrt(float64(v.LengthSquared())))
}

// Vec2FromSlice builds a Vec2 from up to two components. Missing components are zero.
func Vec2FromSlice(s []float32) Vec2 {
	var v Vec2
	if len(s) > 0 {
		v.X = s[0]
	}
	if len(s) > 1 {
		v.Y = s[1]
	}
	return v
}

// Vec3FromSlice builds a Vec3 from up to three components. Missing components are zero.
func Vec3FromSlice(s []float32) Vec3 {
	var v Vec3
	if len(s) > 0 {
		v.X = s[0]
	}
	if len(s) > 1 {
		v.Y = s[1]
	}
	if len(s) > 2 {
		v.Z = s[2]
	}
	return v
}
