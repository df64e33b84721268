package common

import "github.com/chewxy/math32"

// Mat4 is a 4x4 float matrix stored in column-major order, the layout
// expected by a mat4x4<f32> vertex attribute.
type Mat4 = [16]float32

// Identity returns the 4x4 identity matrix.
//
// Returns:
//   - Mat4: the identity matrix
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul4 multiplies two column-major 4x4 matrices.
// Result: a * b
//
// Parameters:
//   - a: left-hand matrix
//   - b: right-hand matrix
//
// Returns:
//   - Mat4: the product
func Mul4(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Translation returns a matrix translating by (x, y, z).
func Translation(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale returns a matrix scaling by (x, y, z).
func Scale(x, y, z float32) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotationZ returns a matrix rotating counter-clockwise around the Z axis.
//
// Parameters:
//   - angle: rotation in radians
//
// Returns:
//   - Mat4: the rotation matrix
func RotationZ(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// ModelMatrix composes translation * rotationZ * scale, the usual 2D instance transform.
//
// Parameters:
//   - x, y: translation in clip or world units
//   - angle: rotation around Z in radians
//   - sx, sy: scale factors
//
// Returns:
//   - Mat4: the composed transform
func ModelMatrix(x, y, angle, sx, sy float32) Mat4 {
	return Mul4(Translation(x, y, 0), Mul4(RotationZ(angle), Scale(sx, sy, 1)))
}

// ApproxEqual4 reports whether every element of a and b differs by at most eps.
func ApproxEqual4(a, b Mat4, eps float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
