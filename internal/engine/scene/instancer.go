package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/stageproj/internal/engine/graph"
	"github.com/Faultbox/stageproj/internal/logger"
	"github.com/Faultbox/stageproj/pkg/math"
	"github.com/Faultbox/stageproj/pkg/stage"
)

// projectInstancer expands a point instancer into one transform node per
// instance. Each prototype is projected once and its subtree shared by every
// instance that references it; hosts must treat instanced subtrees as
// read-only.
func (p *Projector) projectInstancer(prim *stage.Prim, node *graph.Node) {
	t := p.opts.Time

	targets := prim.RelationshipTargets("prototypes")
	if len(targets) == 0 {
		logger.Warn("point instancer without prototypes, skipping",
			zap.String("prim", prim.Path))
		return
	}
	protoIdx, ok := prim.Attr("protoIndices").IntsAt(t)
	if !ok || len(protoIdx) == 0 {
		logger.Warn("point instancer without protoIndices, skipping",
			zap.String("prim", prim.Path))
		return
	}

	positions, _ := prim.Attr("positions").Vec3sAt(t)
	orientations, _ := prim.Attr("orientations").Vec4sAt(t)
	scales, _ := prim.Attr("scales").Vec3sAt(t)

	for i, pi := range protoIdx {
		if pi < 0 || int(pi) >= len(targets) {
			logger.Warn("protoIndex out of range, skipping instance",
				zap.String("prim", prim.Path),
				zap.Int("instance", i),
				zap.Int32("protoIndex", pi))
			continue
		}
		proto := p.prototype(targets[pi])
		if proto == nil {
			continue
		}

		inst := graph.NewNode(fmt.Sprintf("%s_%d", node.Name, i), prim.Path)
		if i < len(positions) {
			inst.Translation = math.Vec3{X: positions[i][0], Y: positions[i][1], Z: positions[i][2]}
		}
		if i < len(orientations) {
			q := orientations[i] // x, y, z, w
			inst.Rotation = math.Quat{X: q[0], Y: q[1], Z: q[2], W: q[3]}.Normalize()
		}
		if i < len(scales) {
			inst.Scale = math.Vec3{X: scales[i][0], Y: scales[i][1], Z: scales[i][2]}
		}
		inst.Children = append(inst.Children, proto)
		node.AddChild(inst)
	}
}

// prototype projects the prototype subtree at the given path, caching the
// result for the remainder of the build. The subtree is built with an
// identity world transform; instances supply the placement.
func (p *Projector) prototype(path string) *graph.Node {
	if cached, ok := p.protos[path]; ok {
		return cached
	}

	var built *graph.Node
	if prim := p.stage.PrimAt(path); prim == nil {
		logger.Warn("prototype path does not resolve",
			zap.String("prototype", path))
	} else {
		scratch := graph.NewNode("proto", path)
		p.visit(prim, scratch, math.Identity())
		if len(scratch.Children) == 1 {
			built = scratch.Children[0]
		}
	}
	p.protos[path] = built
	return built
}
