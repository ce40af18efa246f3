package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/stageproj/internal/engine/graph"
	"github.com/Faultbox/stageproj/internal/engine/meshreal"
	"github.com/Faultbox/stageproj/internal/engine/skeleton"
	"github.com/Faultbox/stageproj/internal/logger"
	"github.com/Faultbox/stageproj/pkg/math"
	"github.com/Faultbox/stageproj/pkg/stage"
)

func (p *Projector) projectMesh(prim *stage.Prim, node *graph.Node, world math.Mat4) {
	t := p.opts.Time

	points, ok := prim.Attr("points").Vec3sAt(t)
	if !ok || len(points) == 0 {
		logger.Warn("mesh without points, skipping",
			zap.String("prim", prim.Path))
		return
	}
	counts, _ := prim.Attr("faceVertexCounts").IntsAt(t)
	indices, _ := prim.Attr("faceVertexIndices").IntsAt(t)
	if len(counts) == 0 || len(indices) == 0 {
		logger.Warn("mesh without face topology, skipping",
			zap.String("prim", prim.Path))
		return
	}

	topo := meshreal.Topology{
		Points:            points,
		FaceVertexCounts:  counts,
		FaceVertexIndices: indices,
	}
	pvs := meshreal.Primvars{
		Color:  vec3Primvar(prim, "primvars:displayColor", t),
		Normal: normalPrimvar(prim, t),
		UV:     vec2Primvar(prim, "primvars:st", t),
	}
	orient, _ := prim.Attr("orientation").Token()

	res := meshreal.Realize(topo, pvs, meshreal.Options{
		LeftHanded:    orient == "leftHanded",
		SmoothNormals: p.opts.SmoothNormals,
		Scale:         p.opts.Scale,
	})
	if res.TriangleCount() == 0 {
		logger.Debug("mesh realized to zero triangles",
			zap.String("prim", prim.Path))
		return
	}

	mesh := &graph.MeshPrimitive{
		Positions:  res.Positions,
		Normals:    res.Normals,
		Colors:     res.Colors,
		UVs:        res.UVs,
		PointIndex: res.PointIndex,
		Groups:     materialGroups(prim, res),
	}
	node.Mesh = mesh

	p.bindSkinIfAuthored(prim, node, mesh, world)
}

// vec3Primvar reads a 3-component primvar with its interpolation class and
// optional index remap. Nil when unauthored.
func vec3Primvar(prim *stage.Prim, name string, t float64) *meshreal.Vec3Primvar {
	attr := prim.Attr(name)
	if attr == nil {
		return nil
	}
	values, ok := attr.Vec3sAt(t)
	if !ok || len(values) == 0 {
		return nil
	}
	idx, _ := prim.Attr(name + ":indices").IntsAt(t)
	return &meshreal.Vec3Primvar{
		Values:  values,
		Interp:  meshreal.ParseInterpolation(attr.Interpolation),
		Indices: idx,
	}
}

func vec2Primvar(prim *stage.Prim, name string, t float64) *meshreal.Vec2Primvar {
	attr := prim.Attr(name)
	if attr == nil {
		return nil
	}
	values, ok := attr.Vec2sAt(t)
	if !ok || len(values) == 0 {
		return nil
	}
	idx, _ := prim.Attr(name + ":indices").IntsAt(t)
	return &meshreal.Vec2Primvar{
		Values:  values,
		Interp:  meshreal.ParseInterpolation(attr.Interpolation),
		Indices: idx,
	}
}

// normalPrimvar prefers the plain normals attribute but accepts the primvar
// spelling some exporters use.
func normalPrimvar(prim *stage.Prim, t float64) *meshreal.Vec3Primvar {
	if pv := vec3Primvar(prim, "normals", t); pv != nil {
		return pv
	}
	return vec3Primvar(prim, "primvars:normals", t)
}

// materialGroups maps GeomSubset children and the mesh's own material
// binding onto contiguous triangle ranges. Triangles are emitted in face
// order, so faces with the same material coalesce into runs.
func materialGroups(prim *stage.Prim, res *meshreal.Result) []graph.MaterialGroup {
	faceCount := len(res.FaceToTriangles)
	base, _ := prim.Relationship("material:binding")

	faceMat := make([]string, faceCount)
	for i := range faceMat {
		faceMat[i] = base
	}

	any := base != ""
	// Sorted so overlapping subsets resolve the same way every build.
	for _, child := range sortedChildren(prim) {
		if KindOf(child.TypeName) != KindGeomSubset {
			continue
		}
		mat, ok := child.Relationship("material:binding")
		if !ok || mat == "" {
			continue
		}
		faces, _ := child.Attr("indices").IntsAt(0)
		for _, f := range faces {
			if f < 0 || int(f) >= faceCount {
				logger.Warn("subset face index out of range, skipping",
					zap.String("subset", child.Path),
					zap.Int32("face", f))
				continue
			}
			faceMat[f] = mat
			any = true
		}
	}
	if !any {
		return nil
	}

	var groups []graph.MaterialGroup
	for f := 0; f < faceCount; f++ {
		r := res.FaceToTriangles[f]
		if r.Count == 0 {
			continue
		}
		if n := len(groups); n > 0 && groups[n-1].Material == faceMat[f] &&
			groups[n-1].Start+groups[n-1].Count == r.Start {
			groups[n-1].Count += r.Count
			continue
		}
		groups = append(groups, graph.MaterialGroup{
			Material: faceMat[f],
			Start:    r.Start,
			Count:    r.Count,
		})
	}
	return groups
}

// bindSkinIfAuthored queues the mesh for skinning when it carries a skeleton
// binding. The skeleton may realize before or after this mesh; the binder
// resolves either order.
func (p *Projector) bindSkinIfAuthored(prim *stage.Prim, node *graph.Node, mesh *graph.MeshPrimitive, world math.Mat4) {
	skelPath, ok := prim.Relationship("skel:skeleton")
	if !ok || skelPath == "" {
		return
	}

	t := p.opts.Time
	jiAttr := prim.Attr("primvars:skel:jointIndices")
	ji, okI := jiAttr.IntsAt(t)
	jw, okW := prim.Attr("primvars:skel:jointWeights").FloatsAt(t)
	if !okI || !okW || len(ji) == 0 || len(ji) != len(jw) {
		logger.Warn("skeleton binding without usable joint influences, mesh stays static",
			zap.String("prim", prim.Path),
			zap.String("skeleton", skelPath))
		return
	}

	elemSize := 1
	if jiAttr != nil && jiAttr.ElementSize > 0 {
		elemSize = jiAttr.ElementSize
	}
	jointOrder, _ := prim.Attr("skel:joints").TokensAt(t)

	p.binder.Bind(&skeleton.PendingSkin{
		SkeletonPath: skelPath,
		Node:         node,
		Mesh:         mesh,
		JointIndices: ji,
		JointWeights: jw,
		ElementSize:  elemSize,
		JointOrder:   jointOrder,
		MeshWorld:    world,
	})
}
