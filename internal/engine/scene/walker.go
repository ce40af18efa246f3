// Package scene projects a resolved stage into a renderer scene graph. It
// walks the prim tree once, evaluates every prim's transform stack, realizes
// meshes and skeletons through the engine components, and wires skinned
// meshes to their skeletons regardless of traversal order.
package scene

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/stageproj/internal/engine/graph"
	"github.com/Faultbox/stageproj/internal/engine/skeleton"
	"github.com/Faultbox/stageproj/internal/engine/xform"
	"github.com/Faultbox/stageproj/internal/logger"
	"github.com/Faultbox/stageproj/pkg/math"
	"github.com/Faultbox/stageproj/pkg/stage"
)

// Options controls one projection pass.
type Options struct {
	// Time is the stage time the attributes are sampled at.
	Time float64
	// SmoothNormals averages computed mesh normals across shared points.
	SmoothNormals bool
	// Scale uniformly scales mesh positions. Zero means 1.
	Scale float32
}

// Projector builds scene graphs from stages. A single Projector may be
// reused; state accumulated during one Build does not leak into the next.
type Projector struct {
	opts   Options
	binder *skeleton.Binder

	// Walk-scoped state, reset at the top of Build.
	stage     *stage.Stage
	protos    map[string]*graph.Node
	skeletons []*graph.SkeletonResource
}

// New returns a projector with the given options.
func New(opts Options) *Projector {
	return &Projector{
		opts:   opts,
		binder: skeleton.NewBinder(),
	}
}

// Build projects the stage into a scene graph. It never fails: malformed
// prims degrade locally and are logged, never fatal.
func (p *Projector) Build(st *stage.Stage) *graph.Scene {
	p.binder.Reset()
	p.stage = st
	p.protos = make(map[string]*graph.Node)
	p.skeletons = nil

	root := graph.NewNode("root", stage.PathSep)
	if st != nil && st.Root != nil {
		for _, child := range sortedChildren(st.Root) {
			p.visit(child, root, math.Identity())
		}
	}

	if n := p.binder.PendingCount(); n > 0 {
		logger.Warn("skinned meshes left unbound, kept static",
			zap.Int("count", n))
	}

	scene := &graph.Scene{Root: root, Skeletons: p.skeletons}
	p.stage = nil
	return scene
}

func (p *Projector) visit(prim *stage.Prim, parent *graph.Node, parentWorld math.Mat4) {
	if !prim.Active() || invisible(prim) {
		return
	}

	xr := xform.Evaluate(prim, p.opts.Time)
	node := graph.NewNode(stage.BaseName(prim.Path), prim.Path)
	node.Translation = xr.Translation
	node.Rotation = xr.Rotation
	node.Scale = xr.Scale
	if xr.Sheared {
		m := xr.Matrix
		node.Matrix = &m
	}
	parent.AddChild(node)

	world := parentWorld.Mul(xr.Matrix)

	kind := KindOf(prim.TypeName)
	switch {
	case kind == KindMesh:
		p.projectMesh(prim, node, world)
	case kind == KindSkeleton:
		if res := skeleton.Realize(prim, p.opts.Time, world); res != nil {
			p.binder.AddSkeleton(res)
			p.skeletons = append(p.skeletons, res)
		}
	case kind == KindPointInstancer:
		p.projectInstancer(prim, node)
		// Prototype subtrees are reachable only through instances.
		return
	case kind.IsLight():
		node.Light = projectLight(prim, kind, p.opts.Time)
	}

	for _, child := range sortedChildren(prim) {
		// Subsets are consumed by the mesh projection, not walked.
		if KindOf(child.TypeName) == KindGeomSubset {
			continue
		}
		p.visit(child, node, world)
	}
}

func invisible(prim *stage.Prim) bool {
	tok, ok := prim.Attr("visibility").Token()
	return ok && tok == "invisible"
}

func sortedChildren(prim *stage.Prim) []*stage.Prim {
	names := make([]string, 0, len(prim.Children))
	for name := range prim.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*stage.Prim, 0, len(names))
	for _, name := range names {
		out = append(out, prim.Children[name])
	}
	return out
}
