package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/stageproj/internal/config"
	"github.com/Faultbox/stageproj/internal/engine/graph"
)

var lightNames = map[graph.LightKind]string{
	graph.LightDistant: "distant",
	graph.LightSphere:  "sphere",
	graph.LightRect:    "rect",
	graph.LightDisk:    "disk",
	graph.LightDome:    "dome",
}

type dumper struct {
	w       io.Writer
	cfg     config.DumpConfig
	printed int
	// Instanced subtrees are shared; print each once.
	seen map[*graph.Node]bool
}

func dump(w io.Writer, sc *graph.Scene, cfg config.DumpConfig) {
	d := &dumper{w: w, cfg: cfg, seen: make(map[*graph.Node]bool)}

	stats := collect(sc.Root, &sceneStats{})
	fmt.Fprintf(w, "scene: %d nodes, %d meshes, %d skinned, %d lights, %d skeletons\n",
		stats.nodes, stats.meshes, stats.skinned, stats.lights, len(sc.Skeletons))

	for _, skel := range sc.Skeletons {
		fmt.Fprintf(w, "skeleton %s (%d joints)\n", skel.Path, len(skel.Bones))
		for i, b := range skel.Bones {
			fmt.Fprintf(w, "  [%d] %s parent=%d\n", i, b.Name, b.Parent)
		}
	}

	d.node(sc.Root, 0)
	if d.cfg.MaxNodes > 0 && d.printed >= d.cfg.MaxNodes {
		fmt.Fprintf(w, "... truncated at %d nodes\n", d.cfg.MaxNodes)
	}
}

type sceneStats struct {
	nodes, meshes, skinned, lights int
}

func collect(n *graph.Node, s *sceneStats) *sceneStats {
	s.nodes++
	if n.Mesh != nil {
		s.meshes++
	}
	if n.Skin != nil {
		s.skinned++
	}
	if n.Light != nil {
		s.lights++
	}
	for _, c := range n.Children {
		collect(c, s)
	}
	return s
}

func (d *dumper) node(n *graph.Node, depth int) {
	if d.cfg.MaxNodes > 0 && d.printed >= d.cfg.MaxNodes {
		return
	}
	d.printed++

	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(d.w, "%s%s", indent, n.Name)
	if n.Matrix != nil {
		fmt.Fprint(d.w, " [matrix]")
	} else {
		t, s := n.Translation, n.Scale
		if t.X != 0 || t.Y != 0 || t.Z != 0 {
			fmt.Fprintf(d.w, " T(%.3g,%.3g,%.3g)", t.X, t.Y, t.Z)
		}
		if s.X != 1 || s.Y != 1 || s.Z != 1 {
			fmt.Fprintf(d.w, " S(%.3g,%.3g,%.3g)", s.X, s.Y, s.Z)
		}
	}
	if n.Mesh != nil {
		fmt.Fprintf(d.w, " mesh(%d tris", n.Mesh.TriangleCount())
		for _, g := range n.Mesh.Groups {
			fmt.Fprintf(d.w, ", %s:%d+%d", g.Material, g.Start, g.Count)
		}
		fmt.Fprint(d.w, ")")
	}
	if n.Skin != nil {
		fmt.Fprintf(d.w, " skin(%d tris -> %s)",
			n.Skin.Mesh.TriangleCount(), n.Skin.Skeleton.Path)
	}
	if n.Light != nil {
		fmt.Fprintf(d.w, " light(%s i=%.3g)", lightNames[n.Light.Kind], n.Light.Intensity)
	}
	if d.seen[n] {
		fmt.Fprintln(d.w, " (shared)")
		return
	}
	d.seen[n] = true
	fmt.Fprintln(d.w)

	if n.Mesh != nil && d.cfg.Buffers {
		d.buffers(n.Mesh, indent+"  ")
	}
	if n.Skin != nil && d.cfg.Buffers {
		d.buffers(n.Skin.Mesh, indent+"  ")
	}

	for _, c := range n.Children {
		d.node(c, depth+1)
	}
}

func (d *dumper) buffers(m *graph.MeshPrimitive, indent string) {
	for i, p := range m.Positions {
		fmt.Fprintf(d.w, "%sv%d pos(%.3g,%.3g,%.3g) n(%.3g,%.3g,%.3g) pt=%d\n",
			indent, i, p[0], p[1], p[2],
			m.Normals[i][0], m.Normals[i][1], m.Normals[i][2],
			m.PointIndex[i])
	}
}
