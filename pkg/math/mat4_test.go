package math

import (
	"testing"

	"github.com/chewxy/math32"
)

const matEps = 1e-5

func matNear(t *testing.T, got, want Mat4, msg string) {
	t.Helper()
	for i := 0; i < 16; i++ {
		if math32.Abs(got[i]-want[i]) > matEps {
			t.Fatalf("%s: element %d: got %f, want %f", msg, i, got[i], want[i])
		}
	}
}

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in column 4 (indices 12, 13, 14).
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint([3]float32{1, 2, 3})

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	m := Translate(1, 2, 3).Mul(RotateY(0.5)).Mul(Scale(2, 2, 2))
	matNear(t, m.Transpose().Transpose(), m, "double transpose")
}

func TestDeterminant(t *testing.T) {
	if d := Identity().Determinant(); math32.Abs(d-1) > matEps {
		t.Errorf("det(I) = %f, want 1", d)
	}
	if d := Scale(2, 3, 4).Determinant(); math32.Abs(d-24) > matEps {
		t.Errorf("det(scale 2,3,4) = %f, want 24", d)
	}
	if d := Scale(1, 0, 1).Determinant(); math32.Abs(d) > matEps {
		t.Errorf("det of flattened scale = %f, want 0", d)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Translate(3, -2, 7).Mul(RotateX(1.1)).Mul(Scale(2, 0.5, 3))
	inv, ok := m.InverseOK()
	if !ok {
		t.Fatal("matrix should be invertible")
	}
	matNear(t, m.Mul(inv), Identity(), "M * inv(M)")
}

func TestInverseSingular(t *testing.T) {
	if _, ok := Scale(1, 1, 0).InverseOK(); ok {
		t.Error("singular matrix reported as invertible")
	}
	matNear(t, Scale(1, 1, 0).Inverse(), Identity(), "Inverse of singular falls back to identity")
}

func TestDecomposeTRS(t *testing.T) {
	trans := Translate(1, 2, 3)
	rot := RotateZ(math32.Pi / 4)
	scale := Scale(2, 3, 4)
	m := trans.Mul(rot).Mul(scale)

	pos, r, s, sheared := m.Decompose()
	if sheared {
		t.Fatal("pure TRS matrix reported as sheared")
	}
	if math32.Abs(pos.X-1) > matEps || math32.Abs(pos.Y-2) > matEps || math32.Abs(pos.Z-3) > matEps {
		t.Errorf("translation: got %v", pos)
	}
	if math32.Abs(s.X-2) > matEps || math32.Abs(s.Y-3) > matEps || math32.Abs(s.Z-4) > matEps {
		t.Errorf("scale: got %v", s)
	}

	// Rebuilding from the parts must match the original.
	rebuilt := Translate(pos.X, pos.Y, pos.Z).Mul(r.ToMat4()).Mul(Scale(s.X, s.Y, s.Z))
	matNear(t, rebuilt, m, "TRS rebuild")
}

func TestDecomposeShearDetected(t *testing.T) {
	shear := Identity()
	shear[4] = 0.5 // x += 0.5*y
	_, _, _, sheared := shear.Decompose()
	if !sheared {
		t.Error("sheared matrix not detected")
	}
}

func TestDecomposeNegativeScale(t *testing.T) {
	m := Scale(-2, 1, 1)
	_, _, s, _ := m.Decompose()
	if s.X > 0 {
		t.Errorf("mirrored axis should yield negative scale, got %v", s)
	}
}
