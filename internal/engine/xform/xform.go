// Package xform evaluates a prim's ordered transform-operation stack into a
// renderer-ready matrix. The source document composes operations under a
// row-vector convention; the result is converted once to the renderer's
// column-vector convention and decomposed for tooling.
package xform

import (
	"sort"
	"strings"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/stageproj/internal/logger"
	"github.com/Faultbox/stageproj/pkg/math"
	"github.com/Faultbox/stageproj/pkg/stage"
)

const (
	opPrefix     = "xformOp:"
	invertPrefix = "!invert!"
	resetToken   = "!resetXformStack!"

	degToRad = math32.Pi / 180
)

// Result is the evaluated local transform of one prim. Matrix is always
// authoritative; the TRS fields are a decomposition for hosts that want
// separate channels, and are not faithful when Sheared is set.
type Result struct {
	Matrix      math.Mat4
	Translation math.Vec3
	Rotation    math.Quat
	Scale       math.Vec3
	Sheared     bool

	// FastPath reports that the op list was the plain
	// translate/rotateXYZ/scale triple and TRS was taken directly from
	// the operands rather than decomposed.
	FastPath bool
}

// Evaluate composes a prim's transform stack at time t. It never fails:
// unresolvable or malformed operations contribute identity.
func Evaluate(prim *stage.Prim, t float64) Result {
	tokens, _ := prim.Attr("xformOpOrder").TokensAt(t)
	if len(tokens) == 0 {
		tokens = fallbackOpOrder(prim)
	}

	acc := rIdentity()
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == resetToken {
			acc = rIdentity()
			continue
		}
		// A token followed by its exact inverse cancels; skip both.
		if i+1 < len(tokens) && isInversePair(tok, tokens[i+1]) {
			i++
			continue
		}
		op, ok := resolveOp(prim, tok, t)
		if !ok {
			continue
		}
		// Left-multiply so the first-listed op ends up outermost.
		acc = rMul(op, acc)
	}

	res := Result{Matrix: acc.toColumn()}
	if isFastTriple(tokens) {
		res.FastPath = true
		res.Translation, res.Rotation, res.Scale = fastTRS(prim, t)
		return res
	}

	tr, rot, sc, sheared := res.Matrix.Decompose()
	res.Translation, res.Rotation, res.Scale, res.Sheared = tr, rot, sc, sheared
	return res
}

// fallbackOpOrder synthesizes an op list for prims without an authored
// xformOpOrder: first any matrix-type op present in the property set, else
// the conventionally named translate/rotateXYZ/scale attributes.
func fallbackOpOrder(prim *stage.Prim) []string {
	var matrixOps []string
	for name, attr := range prim.Properties {
		if !strings.HasPrefix(name, opPrefix+"transform") {
			continue
		}
		if _, ok := attr.Default.(math.Mat4); ok {
			matrixOps = append(matrixOps, name)
		}
	}
	if len(matrixOps) > 0 {
		// Property maps are unordered; sort for a deterministic pick.
		sort.Strings(matrixOps)
		return matrixOps[:1]
	}

	var tokens []string
	for _, name := range []string{
		opPrefix + "translate",
		opPrefix + "rotateXYZ",
		opPrefix + "scale",
	} {
		if prim.Attr(name) != nil {
			tokens = append(tokens, name)
		}
	}
	return tokens
}

// isInversePair reports whether a and b name the same op with exactly one
// of them carrying the !invert! prefix.
func isInversePair(a, b string) bool {
	aInv := strings.HasPrefix(a, invertPrefix)
	bInv := strings.HasPrefix(b, invertPrefix)
	if aInv == bInv {
		return false
	}
	return strings.TrimPrefix(a, invertPrefix) == strings.TrimPrefix(b, invertPrefix)
}

// resolveOp fetches a token's operand at time t and builds its
// row-convention matrix. ok is false when the op should contribute
// identity: unknown kind, malformed operand shape, or a singular matrix
// under !invert!.
func resolveOp(prim *stage.Prim, tok string, t float64) (rmat, bool) {
	inverted := strings.HasPrefix(tok, invertPrefix)
	base := strings.TrimPrefix(tok, invertPrefix)
	if !strings.HasPrefix(base, opPrefix) {
		return rmat{}, false
	}
	attr := prim.Attr(base)
	if attr == nil {
		return rmat{}, false
	}

	kind := base[len(opPrefix):]
	var m rmat
	switch {
	case strings.HasPrefix(kind, "translate"):
		v, ok := attr.Float3At(t)
		if !ok {
			return rmat{}, false
		}
		m = rTranslate(v[0], v[1], v[2])
	case strings.HasPrefix(kind, "scale"):
		v, ok := attr.Float3At(t)
		if !ok {
			return rmat{}, false
		}
		m = rScale(v[0], v[1], v[2])
	case strings.HasPrefix(kind, "rotateXYZ"):
		v, ok := attr.Float3At(t)
		if !ok {
			return rmat{}, false
		}
		m = rotateXYZ(v)
	case strings.HasPrefix(kind, "rotateX"):
		v, ok := attr.FloatAt(t)
		if !ok {
			return rmat{}, false
		}
		m = rRotateX(v * degToRad)
	case strings.HasPrefix(kind, "rotateY"):
		v, ok := attr.FloatAt(t)
		if !ok {
			return rmat{}, false
		}
		m = rRotateY(v * degToRad)
	case strings.HasPrefix(kind, "rotateZ"):
		v, ok := attr.FloatAt(t)
		if !ok {
			return rmat{}, false
		}
		m = rRotateZ(v * degToRad)
	case strings.HasPrefix(kind, "orient"):
		v, ok := attr.Float4At(t)
		if !ok {
			return rmat{}, false
		}
		m = rFromQuat(v)
	case strings.HasPrefix(kind, "transform"):
		v, ok := attr.Mat4At(t)
		if !ok {
			return rmat{}, false
		}
		m = rmat(v)
	default:
		logger.Debug("unknown xform op kind, skipping",
			zap.String("op", tok), zap.String("prim", prim.Path))
		return rmat{}, false
	}

	if inverted {
		inv, ok := m.inverse()
		if !ok {
			logger.Debug("singular xform op under !invert!, skipping",
				zap.String("op", tok), zap.String("prim", prim.Path))
			return rmat{}, false
		}
		m = inv
	}
	return m, true
}

// rotateXYZ composes per-axis right-handed rotations as Rx*Ry*Rz in the
// row convention; angles are degrees.
func rotateXYZ(deg [3]float32) rmat {
	rx := rRotateX(deg[0] * degToRad)
	ry := rRotateY(deg[1] * degToRad)
	rz := rRotateZ(deg[2] * degToRad)
	return rMul(rMul(rx, ry), rz)
}

func isFastTriple(tokens []string) bool {
	return len(tokens) == 3 &&
		tokens[0] == opPrefix+"translate" &&
		tokens[1] == opPrefix+"rotateXYZ" &&
		tokens[2] == opPrefix+"scale"
}

// fastTRS reads translate/rotateXYZ/scale operands directly, skipping the
// matrix decomposition. Missing or malformed operands contribute identity,
// matching the general path.
func fastTRS(prim *stage.Prim, t float64) (math.Vec3, math.Quat, math.Vec3) {
	tr := math.Vec3{}
	if v, ok := prim.Attr(opPrefix+"translate").Float3At(t); ok {
		tr = math.FromArr(v)
	}

	rot := math.QuatIdentity()
	if v, ok := prim.Attr(opPrefix+"rotateXYZ").Float3At(t); ok {
		qx := math.QuatFromAxisAngle(math.Vec3{X: 1}, v[0]*degToRad)
		qy := math.QuatFromAxisAngle(math.Vec3{Y: 1}, v[1]*degToRad)
		qz := math.QuatFromAxisAngle(math.Vec3{Z: 1}, v[2]*degToRad)
		// Row-convention Rx*Ry*Rz equals Rz*Ry*Rx in column convention.
		rot = qz.Mul(qy).Mul(qx)
	}

	sc := math.Vec3{X: 1, Y: 1, Z: 1}
	if v, ok := prim.Attr(opPrefix+"scale").Float3At(t); ok {
		sc = math.FromArr(v)
	}
	return tr, rot, sc
}
