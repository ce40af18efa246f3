package skeleton

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/stageproj/internal/engine/graph"
	"github.com/Faultbox/stageproj/internal/logger"
	"github.com/Faultbox/stageproj/pkg/math"
)

// influencesPerVertex is the fixed width of the emitted skin buffers.
const influencesPerVertex = 4

// PendingSkin is a skinned mesh waiting for (or ready to bind to) its
// skeleton. JointIndices/JointWeights are per original point, ElementSize
// influences each, in the mesh's own authored joint order.
type PendingSkin struct {
	SkeletonPath string
	Node         *graph.Node
	Mesh         *graph.MeshPrimitive
	JointIndices []int32
	JointWeights []float32
	ElementSize  int
	JointOrder   []string // mesh-local joint order; nil means skeleton order
	MeshWorld    math.Mat4
}

// Binder tracks realized skeletons and skinned meshes across one scene
// walk. A mesh visited before its skeleton queues as a pending record and
// binds when the skeleton resolves; records for skeletons that never
// resolve stay queued and the mesh keeps its static primitive. State is
// walk-scoped: callers inject a Binder per build (or Reset between
// builds), never share one globally.
type Binder struct {
	skeletons map[string]*graph.SkeletonResource
	pending   map[string][]*PendingSkin
}

// NewBinder returns an empty binder.
func NewBinder() *Binder {
	b := &Binder{}
	b.Reset()
	return b
}

// Reset clears all registered skeletons and pending records. Called at the
// start of every scene build.
func (b *Binder) Reset() {
	b.skeletons = make(map[string]*graph.SkeletonResource)
	b.pending = make(map[string][]*PendingSkin)
}

// Skeleton returns the registered skeleton at a prim path, or nil.
func (b *Binder) Skeleton(path string) *graph.SkeletonResource {
	return b.skeletons[path]
}

// PendingCount reports how many meshes are still waiting for a skeleton.
func (b *Binder) PendingCount() int {
	n := 0
	for _, recs := range b.pending {
		n += len(recs)
	}
	return n
}

// AddSkeleton registers a realized skeleton and binds any pending meshes
// already waiting for its path. Pending records are consumed.
func (b *Binder) AddSkeleton(res *graph.SkeletonResource) {
	if res == nil {
		return
	}
	b.skeletons[res.Path] = res
	recs := b.pending[res.Path]
	delete(b.pending, res.Path)
	for _, rec := range recs {
		BindSkin(rec, res)
	}
}

// Bind binds a skinned mesh immediately when its skeleton is already
// registered, otherwise queues it. Returns whether the mesh is now bound.
func (b *Binder) Bind(rec *PendingSkin) bool {
	if skel, ok := b.skeletons[rec.SkeletonPath]; ok {
		return BindSkin(rec, skel)
	}
	b.pending[rec.SkeletonPath] = append(b.pending[rec.SkeletonPath], rec)
	return false
}

// BindSkin remaps a mesh's per-point skin weights onto a resolved skeleton
// and replaces the node's static primitive with a skinned one. Weights are
// gathered through each realized vertex's original point index, remapped
// from the mesh's authored joint order to the skeleton's, truncated to the
// four largest influences, and renormalized.
func BindSkin(rec *PendingSkin, skel *graph.SkeletonResource) bool {
	if skel == nil || len(skel.Bones) == 0 || rec.Mesh == nil {
		return false
	}

	remap := jointRemap(rec, skel)
	es := rec.ElementSize
	if es <= 0 {
		es = 1
	}

	nv := len(rec.Mesh.Positions)
	outIdx := make([]uint16, nv*influencesPerVertex)
	outWgt := make([]float32, nv*influencesPerVertex)

	type influence struct {
		joint  int
		weight float32
	}
	gathered := make([]influence, 0, es)

	for v := 0; v < nv; v++ {
		base := int(rec.Mesh.PointIndex[v]) * es

		gathered = gathered[:0]
		for k := 0; k < es; k++ {
			if base+k >= len(rec.JointIndices) || base+k >= len(rec.JointWeights) {
				break
			}
			w := rec.JointWeights[base+k]
			if w <= 0 {
				continue
			}
			j := remapJoint(rec.JointIndices[base+k], remap, len(skel.Bones))
			if j < 0 {
				continue
			}
			gathered = append(gathered, influence{joint: j, weight: w})
		}

		if len(gathered) > influencesPerVertex {
			sort.SliceStable(gathered, func(a, b int) bool {
				return gathered[a].weight > gathered[b].weight
			})
			gathered = gathered[:influencesPerVertex]
		}

		var sum float32
		for _, inf := range gathered {
			sum += inf.weight
		}
		for k, inf := range gathered {
			outIdx[v*influencesPerVertex+k] = uint16(inf.joint)
			w := inf.weight
			if sum > 0 {
				w /= sum
			}
			outWgt[v*influencesPerVertex+k] = w
		}
	}

	rec.Node.Skin = &graph.SkinnedPrimitive{
		Mesh:         rec.Mesh,
		JointIndices: outIdx,
		JointWeights: outWgt,
		Skeleton:     skel,
		BindMatrix:   skel.World.Inverse().Mul(rec.MeshWorld),
	}
	rec.Node.Mesh = nil
	return true
}

// jointRemap builds the mesh-local to skeleton joint-index table; nil
// means the mesh already uses skeleton order.
func jointRemap(rec *PendingSkin, skel *graph.SkeletonResource) []int {
	if rec.JointOrder == nil {
		return nil
	}
	byName := make(map[string]int, len(skel.Bones))
	for i := range skel.Bones {
		byName[skel.Bones[i].Name] = i
	}
	remap := make([]int, len(rec.JointOrder))
	for i, name := range rec.JointOrder {
		idx, ok := byName[name]
		if !ok {
			logger.Warn("mesh joint not present in skeleton, dropping influence",
				zap.String("skeleton", skel.Path), zap.String("joint", name))
			idx = -1
		}
		remap[i] = idx
	}
	return remap
}

// remapJoint translates one authored joint index, returning -1 for
// influences that cannot be mapped onto the skeleton.
func remapJoint(authored int32, remap []int, boneCount int) int {
	if authored < 0 {
		return -1
	}
	if remap == nil {
		if int(authored) >= boneCount {
			return -1
		}
		return int(authored)
	}
	if int(authored) >= len(remap) {
		return -1
	}
	return remap[authored]
}
