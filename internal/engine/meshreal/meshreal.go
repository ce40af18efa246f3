// Package meshreal realizes authored polygonal topology into de-indexed
// triangle buffers. Faces are triangulated, per-corner attribute values are
// resolved by interpolation class, and enough bookkeeping is kept (original
// point indices, face-to-triangle ranges) for skin binding and face-subset
// material assignment to survive the de-indexing.
package meshreal

import (
	"go.uber.org/zap"

	"github.com/Faultbox/stageproj/internal/logger"
)

// Interpolation is a primvar's element-count class relative to the topology.
type Interpolation int

// Interpolation classes.
const (
	InterpConstant    Interpolation = iota // one value for the whole mesh
	InterpUniform                          // one value per face
	InterpVertex                           // one value per point
	InterpFaceVarying                      // one value per polygon corner
)

// ParseInterpolation maps an authored interpolation token to its class.
// Unknown tokens fall back to constant, the safest over-read.
func ParseInterpolation(s string) Interpolation {
	switch s {
	case "uniform":
		return InterpUniform
	case "vertex", "varying":
		return InterpVertex
	case "faceVarying":
		return InterpFaceVarying
	default:
		return InterpConstant
	}
}

// Topology is the authored polygonal mesh structure.
type Topology struct {
	Points            [][3]float32
	FaceVertexCounts  []int32
	FaceVertexIndices []int32
}

// Vec3Primvar is a 3-component per-geometry attribute.
type Vec3Primvar struct {
	Values  [][3]float32
	Interp  Interpolation
	Indices []int32 // optional element-index remap
}

// Vec2Primvar is a 2-component per-geometry attribute.
type Vec2Primvar struct {
	Values  [][2]float32
	Interp  Interpolation
	Indices []int32
}

// Primvars are the attribute channels a mesh may author.
type Primvars struct {
	Color  *Vec3Primvar
	Normal *Vec3Primvar
	UV     *Vec2Primvar
}

// Options controls realization.
type Options struct {
	// LeftHanded flips triangle winding for left-handed source orientation.
	LeftHanded bool
	// SmoothNormals averages computed normals across shared points instead
	// of emitting flat per-triangle normals. Ignored when normals are
	// authored.
	SmoothNormals bool
	// Scale uniformly scales positions (stage units to renderer units).
	// Zero means 1.
	Scale float32
}

// TriRange is a contiguous triangle range in the emitted stream.
type TriRange struct {
	Start int32
	Count int32
}

// Result holds the realized vertex buffers. Every three consecutive
// vertices form one triangle. PointIndex maps each emitted vertex back to
// its originating point in Topology.Points.
type Result struct {
	Positions  [][3]float32
	Normals    [][3]float32
	Colors     [][3]float32
	UVs        [][2]float32
	PointIndex []int32

	// FaceToTriangles has one range per authored face, in face order, so
	// polygon-level material subsets can be re-applied after
	// triangulation. Degenerate faces get a zero-count range.
	FaceToTriangles []TriRange
}

// TriangleCount returns the number of emitted triangles.
func (r *Result) TriangleCount() int {
	return len(r.Positions) / 3
}

// Realize de-indexes and triangulates a mesh. It never fails: malformed
// faces, out-of-range indices, and short arrays degrade locally with a log
// line while the rest of the mesh still realizes.
func Realize(topo Topology, primvars Primvars, opts Options) *Result {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	res := &Result{
		FaceToTriangles: make([]TriRange, 0, len(topo.FaceVertexCounts)),
	}
	if primvars.Color != nil {
		res.Colors = [][3]float32{}
	}
	if primvars.UV != nil {
		res.UVs = [][2]float32{}
	}

	cursor := 0
	for f, count := range topo.FaceVertexCounts {
		n := int(count)
		if n < 0 || cursor+n > len(topo.FaceVertexIndices) {
			logger.Warn("face vertex counts overrun index array, truncating mesh",
				zap.Int("face", f), zap.Int("indices", len(topo.FaceVertexIndices)))
			res.FaceToTriangles = append(res.FaceToTriangles, TriRange{Start: int32(res.TriangleCount())})
			break
		}

		triStart := int32(res.TriangleCount())
		if n < 3 {
			// Degenerate face: consume its corners, emit nothing.
			cursor += n
			res.FaceToTriangles = append(res.FaceToTriangles, TriRange{Start: triStart})
			continue
		}

		pointIdx := make([]int32, n)
		corners := make([][3]float32, n)
		for i := 0; i < n; i++ {
			pi := topo.FaceVertexIndices[cursor+i]
			if pi < 0 || int(pi) >= len(topo.Points) {
				logger.Warn("point index out of range, clamping to 0",
					zap.Int32("index", pi), zap.Int("face", f))
				pi = 0
			}
			pointIdx[i] = pi
			corners[i] = topo.Points[pi]
		}

		tris := triangulateFace(corners)
		for _, tri := range tris {
			if opts.LeftHanded {
				tri[1], tri[2] = tri[2], tri[1]
			}
			for _, c := range tri {
				pi := pointIdx[c]
				flatCorner := cursor + c

				p := corners[c]
				res.Positions = append(res.Positions, [3]float32{p[0] * scale, p[1] * scale, p[2] * scale})
				res.PointIndex = append(res.PointIndex, pi)

				if primvars.Color != nil {
					res.Colors = append(res.Colors,
						resolveVec3(primvars.Color, f, int(pi), flatCorner, [3]float32{1, 1, 1}))
				}
				if primvars.UV != nil {
					res.UVs = append(res.UVs,
						resolveVec2(primvars.UV, f, int(pi), flatCorner))
				}
				if primvars.Normal != nil {
					res.Normals = append(res.Normals,
						resolveVec3(primvars.Normal, f, int(pi), flatCorner, [3]float32{0, 0, 1}))
				}
			}
		}

		res.FaceToTriangles = append(res.FaceToTriangles,
			TriRange{Start: triStart, Count: int32(len(tris))})
		cursor += n
	}

	if primvars.Normal == nil {
		computeNormals(res, opts.SmoothNormals)
	}
	return res
}

// triangulateFace produces local corner-index triples for one polygon.
// Triangles from ear clipping are winding-corrected against the polygon's
// Newell normal; authored winding of plain triangles is preserved.
func triangulateFace(corners [][3]float32) [][3]int {
	n := len(corners)
	if n == 3 {
		return [][3]int{{0, 1, 2}}
	}

	faceNormal := newellNormal(corners)
	poly := project2D(corners, dropAxis(faceNormal))

	tris := earClip(poly)
	if tris == nil {
		tris = fanTriangulate(n)
	}

	for i, tri := range tris {
		gn := triNormal(corners[tri[0]], corners[tri[1]], corners[tri[2]])
		if dot3(gn, faceNormal) < 0 {
			tris[i][1], tris[i][2] = tri[2], tri[1]
		}
	}
	return tris
}

// resolveVec3 fetches one element of a 3-component primvar for an emitted
// corner. Out-of-range element indices clamp; an empty value array yields
// the fallback.
func resolveVec3(pv *Vec3Primvar, face, point, flatCorner int, fallback [3]float32) [3]float32 {
	if len(pv.Values) == 0 {
		return fallback
	}
	elem := elementIndex(pv.Interp, face, point, flatCorner)
	elem = remapElement(elem, pv.Indices)
	if elem >= len(pv.Values) {
		elem = 0
	}
	return pv.Values[elem]
}

func resolveVec2(pv *Vec2Primvar, face, point, flatCorner int) [2]float32 {
	if len(pv.Values) == 0 {
		return [2]float32{}
	}
	elem := elementIndex(pv.Interp, face, point, flatCorner)
	elem = remapElement(elem, pv.Indices)
	if elem >= len(pv.Values) {
		elem = 0
	}
	return pv.Values[elem]
}

// elementIndex picks the contributing element by interpolation class.
func elementIndex(interp Interpolation, face, point, flatCorner int) int {
	switch interp {
	case InterpUniform:
		return face
	case InterpVertex:
		return point
	case InterpFaceVarying:
		return flatCorner
	default:
		return 0
	}
}

// remapElement applies an authored index array, clamping out-of-range
// lookups to a safe element.
func remapElement(elem int, indices []int32) int {
	if len(indices) == 0 {
		return elem
	}
	if elem >= len(indices) {
		elem = 0
	}
	mapped := indices[elem]
	if mapped < 0 {
		return 0
	}
	return int(mapped)
}

// computeNormals fills Result.Normals for meshes without authored normals:
// flat per-triangle, or averaged across all vertices sharing an original
// point. Positions already carry the final winding, so computed normals
// automatically respect a left-handed flip.
func computeNormals(res *Result, smooth bool) {
	res.Normals = make([][3]float32, len(res.Positions))

	if !smooth {
		for i := 0; i+2 < len(res.Positions); i += 3 {
			n := normalize3(triNormal(res.Positions[i], res.Positions[i+1], res.Positions[i+2]))
			res.Normals[i] = n
			res.Normals[i+1] = n
			res.Normals[i+2] = n
		}
		return
	}

	sums := make(map[int32][3]float32)
	for i := 0; i+2 < len(res.Positions); i += 3 {
		n := normalize3(triNormal(res.Positions[i], res.Positions[i+1], res.Positions[i+2]))
		for c := 0; c < 3; c++ {
			pi := res.PointIndex[i+c]
			s := sums[pi]
			s[0] += n[0]
			s[1] += n[1]
			s[2] += n[2]
			sums[pi] = s
		}
	}
	for i := range res.Normals {
		res.Normals[i] = normalize3(sums[res.PointIndex[i]])
	}
}
