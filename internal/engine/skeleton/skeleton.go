// Package skeleton realizes skeleton prims into bone hierarchies and binds
// skinned meshes to them. Joint parenting is derived purely from the
// path-like joint names; binding tolerates meshes and skeletons arriving in
// either order during the scene walk.
package skeleton

import (
	"go.uber.org/zap"

	"github.com/Faultbox/stageproj/internal/engine/graph"
	"github.com/Faultbox/stageproj/internal/logger"
	"github.com/Faultbox/stageproj/pkg/math"
	"github.com/Faultbox/stageproj/pkg/stage"
)

// Realize builds a bone hierarchy from a skeleton prim at time t. Returns
// nil when the prim authors no joints. world is the prim's world transform
// at build time, kept for bind-matrix computation.
func Realize(prim *stage.Prim, t float64, world math.Mat4) *graph.SkeletonResource {
	joints, _ := prim.Attr("joints").TokensAt(t)
	if len(joints) == 0 {
		logger.Warn("skeleton prim has no joints", zap.String("prim", prim.Path))
		return nil
	}

	binds, _ := prim.Attr("bindTransforms").Mat4sAt(t)
	if binds != nil && len(binds) != len(joints) {
		logger.Warn("bindTransforms length mismatch, ignoring bind pose",
			zap.String("prim", prim.Path),
			zap.Int("joints", len(joints)), zap.Int("bindTransforms", len(binds)))
		binds = nil
	}
	rests, _ := prim.Attr("restTransforms").Mat4sAt(t)
	if rests != nil && len(rests) != len(joints) {
		logger.Warn("restTransforms length mismatch, ignoring rest pose",
			zap.String("prim", prim.Path),
			zap.Int("joints", len(joints)), zap.Int("restTransforms", len(rests)))
		rests = nil
	}

	// Name lookup for parenting. Duplicate names would silently
	// mis-parent, so only the first occurrence participates; later
	// duplicates are logged and left unparented.
	byName := make(map[string]int, len(joints))
	for i, name := range joints {
		if _, dup := byName[name]; dup {
			logger.Warn("duplicate joint name, skipping for hierarchy",
				zap.String("prim", prim.Path), zap.String("joint", name))
			continue
		}
		byName[name] = i
	}

	res := &graph.SkeletonResource{
		Path:  prim.Path,
		World: world,
		Bones: make([]graph.Bone, len(joints)),
	}

	for i, name := range joints {
		parent := -1
		if first, ok := byName[name]; ok && first == i {
			if p, ok := byName[stage.ParentPath(name)]; ok {
				parent = p
			}
		}
		res.Bones[i] = graph.Bone{Name: name, Parent: parent}
	}

	switch {
	case binds != nil:
		poseFromBind(res, binds)
	case rests != nil:
		poseFromRest(res, rests)
	default:
		for i := range res.Bones {
			res.Bones[i].Local = math.Identity()
			res.Bones[i].WorldBind = math.Identity()
			res.Bones[i].InverseBind = math.Identity()
		}
	}
	return res
}

// poseFromBind poses bones from world-space bind matrices: local transforms
// come from dividing out the parent's world bind, and inverse-bind matrices
// are the plain inverse of each joint's world bind.
func poseFromBind(res *graph.SkeletonResource, binds []math.Mat4) {
	for i := range res.Bones {
		b := &res.Bones[i]
		b.WorldBind = binds[i]
		if b.Parent >= 0 {
			b.Local = binds[b.Parent].Inverse().Mul(binds[i])
		} else {
			b.Local = binds[i]
		}
		b.InverseBind = binds[i].Inverse()
	}
}

// poseFromRest poses bones from local-space rest matrices and derives each
// joint's world matrix by walking its parent chain, so inverse-bind
// matrices stay well-defined without an authored bind pose.
func poseFromRest(res *graph.SkeletonResource, rests []math.Mat4) {
	worlds := make([]math.Mat4, len(res.Bones))
	done := make([]bool, len(res.Bones))

	var worldOf func(i int) math.Mat4
	worldOf = func(i int) math.Mat4 {
		if done[i] {
			return worlds[i]
		}
		done[i] = true // set before recursing; parenting cycles stop here
		w := rests[i]
		if p := res.Bones[i].Parent; p >= 0 {
			w = worldOf(p).Mul(rests[i])
		}
		worlds[i] = w
		return w
	}

	for i := range res.Bones {
		b := &res.Bones[i]
		b.Local = rests[i]
		b.WorldBind = worldOf(i)
		b.InverseBind = b.WorldBind.Inverse()
	}
}
