package xform

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/stageproj/pkg/math"
	"github.com/Faultbox/stageproj/pkg/stage"
)

const eps = 1e-5

func matNear(t *testing.T, got, want math.Mat4, msg string) {
	t.Helper()
	for i := 0; i < 16; i++ {
		if math32.Abs(got[i]-want[i]) > eps {
			t.Fatalf("%s: element %d: got %f, want %f\ngot  %v\nwant %v", msg, i, got[i], want[i], got, want)
		}
	}
}

func vecNear(t *testing.T, got, want [3]float32, msg string) {
	t.Helper()
	for i := range want {
		if math32.Abs(got[i]-want[i]) > eps {
			t.Fatalf("%s: got %v, want %v", msg, got, want)
		}
	}
}

func xformPrim(t *testing.T) *stage.Prim {
	t.Helper()
	return stage.New().Define("/x", "Xform")
}

func TestTranslateOnly(t *testing.T) {
	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"xformOp:translate"})
	p.Set("xformOp:translate", [3]float32{1, 2, 3})

	res := Evaluate(p, 0)
	// Column convention: translation lives in the fourth column.
	matNear(t, res.Matrix, math.Translate(1, 2, 3), "translate matrix")
	vecNear(t, res.Translation.Arr(), [3]float32{1, 2, 3}, "translation channel")
	if res.Sheared {
		t.Error("translation should not report shear")
	}
}

func TestFirstOpOutermost(t *testing.T) {
	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"xformOp:translate", "xformOp:scale"})
	p.Set("xformOp:translate", [3]float32{1, 0, 0})
	p.Set("xformOp:scale", [3]float32{2, 2, 2})

	res := Evaluate(p, 0)
	// Scale applies first, then translate.
	got := res.Matrix.TransformPoint([3]float32{1, 1, 1})
	vecNear(t, got, [3]float32{3, 2, 2}, "scale-then-translate")
}

func TestRotateXYZPointMapping(t *testing.T) {
	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"xformOp:rotateXYZ"})
	p.Set("xformOp:rotateXYZ", [3]float32{0, 90, 0})

	res := Evaluate(p, 0)
	got := res.Matrix.TransformPoint([3]float32{1, 0, 0})
	vecNear(t, got, [3]float32{0, 0, -1}, "rotate Y by 90")
}

func TestIdempotence(t *testing.T) {
	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"xformOp:translate", "xformOp:rotateXYZ", "xformOp:scale", "xformOp:rotateZ"})
	p.Set("xformOp:translate", [3]float32{1, 2, 3})
	p.Set("xformOp:rotateXYZ", [3]float32{10, 20, 30})
	p.Set("xformOp:scale", [3]float32{2, 1, 0.5})
	p.Set("xformOp:rotateZ", float32(45))

	a := Evaluate(p, 0)
	b := Evaluate(p, 0)
	if a.Matrix != b.Matrix {
		t.Error("repeated evaluation must be bit-identical")
	}
}

func TestInversePairCancellation(t *testing.T) {
	ops := []struct {
		name    string
		operand any
	}{
		{"xformOp:translate", [3]float32{4, -1, 2}},
		{"xformOp:rotateXYZ", [3]float32{30, 45, 60}},
		{"xformOp:scale", [3]float32{2, 3, 4}},
	}
	for _, op := range ops {
		p := xformPrim(t)
		p.Set("xformOpOrder", []string{op.name, "!invert!" + op.name})
		p.Set(op.name, op.operand)

		res := Evaluate(p, 0)
		matNear(t, res.Matrix, math.Identity(), op.name+" followed by its inverse")
	}
}

func TestInvertedOpAlone(t *testing.T) {
	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"!invert!xformOp:translate"})
	p.Set("xformOp:translate", [3]float32{5, 0, 0})

	res := Evaluate(p, 0)
	matNear(t, res.Matrix, math.Translate(-5, 0, 0), "inverted translate")
}

func TestSingularInvertSkipped(t *testing.T) {
	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"!invert!xformOp:scale", "xformOp:translate"})
	p.Set("xformOp:scale", [3]float32{0, 0, 0})
	p.Set("xformOp:translate", [3]float32{1, 0, 0})

	res := Evaluate(p, 0)
	// The singular op contributes identity; the sibling op still applies.
	matNear(t, res.Matrix, math.Translate(1, 0, 0), "singular invert skipped")
}

func TestResetXformStack(t *testing.T) {
	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"xformOp:scale", "!resetXformStack!", "xformOp:translate"})
	p.Set("xformOp:scale", [3]float32{9, 9, 9})
	p.Set("xformOp:translate", [3]float32{0, 1, 0})

	res := Evaluate(p, 0)
	matNear(t, res.Matrix, math.Translate(0, 1, 0), "reset drops earlier ops")
}

func TestMalformedOperandSkipped(t *testing.T) {
	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"xformOp:translate", "xformOp:scale"})
	p.Set("xformOp:translate", "oops")
	p.Set("xformOp:scale", [3]float32{2, 2, 2})

	res := Evaluate(p, 0)
	matNear(t, res.Matrix, math.Scale(2, 2, 2), "malformed op contributes identity")
}

func TestUnknownOpSkipped(t *testing.T) {
	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"xformOp:rotateZYX", "xformOp:translate"})
	p.Set("xformOp:rotateZYX", [3]float32{90, 0, 0})
	p.Set("xformOp:translate", [3]float32{1, 0, 0})

	res := Evaluate(p, 0)
	matNear(t, res.Matrix, math.Translate(1, 0, 0), "unsupported rotation order skipped")
}

func TestFastPathMatchesGeneralPath(t *testing.T) {
	build := func(order []string) *stage.Prim {
		p := xformPrim(t)
		p.Set("xformOpOrder", order)
		p.Set("xformOp:translate", [3]float32{1, 0, 0})
		p.Set("xformOp:rotateXYZ", [3]float32{0, 90, 0})
		p.Set("xformOp:scale", [3]float32{2, 2, 2})
		return p
	}

	fast := Evaluate(build([]string{"xformOp:translate", "xformOp:rotateXYZ", "xformOp:scale"}), 0)
	if !fast.FastPath {
		t.Fatal("plain TRS triple should take the fast path")
	}

	// A leading reset token defeats the fast-path match without changing
	// the composed transform.
	general := Evaluate(build([]string{"!resetXformStack!", "xformOp:translate", "xformOp:rotateXYZ", "xformOp:scale"}), 0)
	if general.FastPath {
		t.Fatal("non-triple op list must take the general path")
	}

	if fast.Matrix != general.Matrix {
		t.Errorf("fast and general path matrices differ:\nfast    %v\ngeneral %v", fast.Matrix, general.Matrix)
	}

	vecNear(t, fast.Translation.Arr(), general.Translation.Arr(), "translation channels")
	vecNear(t, fast.Scale.Arr(), general.Scale.Arr(), "scale channels")
	fr, gr := fast.Rotation, general.Rotation
	if fr.Dot(gr) < 0 {
		gr = math.Quat{X: -gr.X, Y: -gr.Y, Z: -gr.Z, W: -gr.W}
	}
	if math32.Abs(fr.X-gr.X) > eps || math32.Abs(fr.Y-gr.Y) > eps ||
		math32.Abs(fr.Z-gr.Z) > eps || math32.Abs(fr.W-gr.W) > eps {
		t.Errorf("rotation channels differ: fast %v general %v", fr, gr)
	}

	// The TRS channels must rebuild the authoritative matrix.
	rebuilt := math.Translate(fast.Translation.X, fast.Translation.Y, fast.Translation.Z).
		Mul(fast.Rotation.ToMat4()).
		Mul(math.Scale(fast.Scale.X, fast.Scale.Y, fast.Scale.Z))
	matNear(t, rebuilt, fast.Matrix, "TRS rebuild")
}

func TestMatrixOpWithShear(t *testing.T) {
	// Row-convention shear: y contributes to x.
	shear := math.Mat4(rIdentity())
	shear[4] = 0.5

	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"xformOp:transform"})
	p.Set("xformOp:transform", shear)

	res := Evaluate(p, 0)
	if !res.Sheared {
		t.Error("shear matrix op should set Sheared")
	}
}

func TestFallbackMatrixProperty(t *testing.T) {
	p := xformPrim(t)
	// No xformOpOrder authored; a matrix op exists in the property set.
	p.Set("xformOp:transform", math.Mat4(rTranslate(7, 8, 9)))

	res := Evaluate(p, 0)
	matNear(t, res.Matrix, math.Translate(7, 8, 9), "matrix property fallback")
}

func TestFallbackConventionalNames(t *testing.T) {
	p := xformPrim(t)
	p.Set("xformOp:translate", [3]float32{1, 1, 1})
	p.Set("xformOp:scale", [3]float32{2, 2, 2})

	res := Evaluate(p, 0)
	got := res.Matrix.TransformPoint([3]float32{1, 0, 0})
	vecNear(t, got, [3]float32{3, 1, 1}, "conventional attribute fallback")
}

func TestNoTransformAttributes(t *testing.T) {
	p := xformPrim(t)
	res := Evaluate(p, 0)
	matNear(t, res.Matrix, math.Identity(), "empty prim evaluates to identity")
}

func TestTimeSampledTranslate(t *testing.T) {
	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"xformOp:translate"})
	p.SetSampled("xformOp:translate",
		stage.TimeSample{Time: 0, Value: [3]float32{0, 0, 0}},
		stage.TimeSample{Time: 10, Value: [3]float32{10, 0, 0}},
	)

	res := Evaluate(p, 5)
	matNear(t, res.Matrix, math.Translate(5, 0, 0), "animated translate at midpoint")

	clamped := Evaluate(p, 100)
	matNear(t, clamped.Matrix, math.Translate(10, 0, 0), "clamped past last sample")
}

func TestSingleAxisRotations(t *testing.T) {
	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"xformOp:rotateZ"})
	p.Set("xformOp:rotateZ", float32(90))

	res := Evaluate(p, 0)
	got := res.Matrix.TransformPoint([3]float32{1, 0, 0})
	vecNear(t, got, [3]float32{0, 1, 0}, "rotate Z by 90")
}

func TestOrientOpMatchesRotateXYZ(t *testing.T) {
	q := math.QuatFromAxisAngle(math.Vec3{Y: 1}, math32.Pi/2)

	p := xformPrim(t)
	p.Set("xformOpOrder", []string{"xformOp:orient"})
	p.Set("xformOp:orient", [4]float32{q.X, q.Y, q.Z, q.W})

	r := xformPrim(t)
	r.Set("xformOpOrder", []string{"xformOp:rotateXYZ"})
	r.Set("xformOp:rotateXYZ", [3]float32{0, 90, 0})

	matNear(t, Evaluate(p, 0).Matrix, Evaluate(r, 0).Matrix, "orient vs rotateXYZ")
}
