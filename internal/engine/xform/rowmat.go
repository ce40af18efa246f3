package xform

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/stageproj/pkg/math"
)

// rmat is a 4x4 matrix under the source document's row-vector convention
// (points are row vectors multiplying from the left: p' = p * M), stored
// row-major. It never leaves this package: toColumn is the only exit.
type rmat [16]float32

func rIdentity() rmat {
	return rmat{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// rTranslate returns a row-convention translation (translation in the
// bottom row).
func rTranslate(x, y, z float32) rmat {
	return rmat{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

func rScale(x, y, z float32) rmat {
	return rmat{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// rRotateX returns a right-handed rotation about X; angle in radians.
func rRotateX(angle float32) rmat {
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	return rmat{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

func rRotateY(angle float32) rmat {
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	return rmat{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

func rRotateZ(angle float32) rmat {
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	return rmat{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// rFromQuat builds the row-convention rotation for a unit quaternion
// (x, y, z, w).
func rFromQuat(q [4]float32) rmat {
	qq := math.Quat{X: q[0], Y: q[1], Z: q[2], W: q[3]}.Normalize()

	xx := qq.X * qq.X
	xy := qq.X * qq.Y
	xz := qq.X * qq.Z
	xw := qq.X * qq.W
	yy := qq.Y * qq.Y
	yz := qq.Y * qq.Z
	yw := qq.Y * qq.W
	zz := qq.Z * qq.Z
	zw := qq.Z * qq.W

	return rmat{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// rMul returns a * b in the row convention.
func rMul(a, b rmat) rmat {
	var out rmat
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row*4+col] =
				a[row*4+0]*b[0*4+col] +
					a[row*4+1]*b[1*4+col] +
					a[row*4+2]*b[2*4+col] +
					a[row*4+3]*b[3*4+col]
		}
	}
	return out
}

// inverse returns the matrix inverse and whether the determinant was
// numerically non-singular. Inversion commutes with transposition, so the
// column-major cofactor code applies to the row-major layout unchanged.
func (m rmat) inverse() (rmat, bool) {
	inv, ok := math.Mat4(m).InverseOK()
	return rmat(inv), ok
}

// toColumn converts to the renderer's column-vector convention. This is
// the transpose M_col = M_row^T; since rmat is stored row-major and
// math.Mat4 column-major, the flat element order is already the same and
// only the interpretation changes. This function is the only point where
// row-convention values cross into renderer-convention ones.
func (m rmat) toColumn() math.Mat4 {
	return math.Mat4(m)
}
