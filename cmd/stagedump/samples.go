package main

import (
	"github.com/Faultbox/stageproj/pkg/math"
	"github.com/Faultbox/stageproj/pkg/stage"
)

// sampleQuadGrid is a 2x2 grid of textured quads under a rotated root, with
// a per-vertex color primvar, faceVarying UVs, and one material subset.
func sampleQuadGrid() *stage.Stage {
	st := stage.New()

	st.Define("/grid", "Xform").
		Set("xformOpOrder", []string{"xformOp:translate", "xformOp:rotateXYZ", "xformOp:scale"}).
		Set("xformOp:translate", [3]float32{0, 1, 0}).
		Set("xformOp:rotateXYZ", [3]float32{0, 45, 0}).
		Set("xformOp:scale", [3]float32{1, 1, 1})

	// 3x3 points, 4 quad faces.
	var points [][3]float32
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			points = append(points, [3]float32{float32(x), float32(y), 0})
		}
	}
	var colors [][3]float32
	for i := range points {
		c := float32(i) / float32(len(points)-1)
		colors = append(colors, [3]float32{c, 0.2, 1 - c})
	}

	st.Define("/grid/quads", "Mesh").
		Set("points", points).
		Set("faceVertexCounts", []int32{4, 4, 4, 4}).
		Set("faceVertexIndices", []int32{
			0, 1, 4, 3,
			1, 2, 5, 4,
			3, 4, 7, 6,
			4, 5, 8, 7,
		}).
		Set("material:binding", "/materials/checker").
		SetPrimvar("primvars:displayColor", colors, "vertex").
		SetPrimvar("primvars:st", [][2]float32{
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
		}, "faceVarying")

	st.Define("/grid/quads/top", "GeomSubset").
		Set("material:binding", "/materials/gold").
		Set("indices", []int32{2, 3})

	return st
}

// sampleLimb is a two-joint skinned strip. The mesh deliberately sits
// before the skeleton in name order so the deferred binding path runs.
func sampleLimb() *stage.Stage {
	st := stage.New()

	st.Define("/limb", "SkelRoot")

	// A 2x5 strip of points along +y, blending from root to tip.
	var points [][3]float32
	var ji []int32
	var jw []float32
	for row := 0; row < 5; row++ {
		y := float32(row) * 0.5
		points = append(points, [3]float32{0, y, 0}, [3]float32{0.3, y, 0})
		w := float32(row) / 4
		for k := 0; k < 2; k++ {
			ji = append(ji, 0, 1)
			jw = append(jw, 1-w, w)
		}
	}
	var counts []int32
	var indices []int32
	for row := 0; row < 4; row++ {
		base := int32(row * 2)
		counts = append(counts, 4)
		indices = append(indices, base, base+1, base+3, base+2)
	}

	st.Define("/limb/arm", "Mesh").
		Set("points", points).
		Set("faceVertexCounts", counts).
		Set("faceVertexIndices", indices).
		Set("skel:skeleton", "/limb/skel").
		Set("skel:joints", []string{"shoulder", "shoulder/elbow"}).
		Set("primvars:skel:jointIndices", ji).
		SetElementSize("primvars:skel:jointIndices", 2).
		Set("primvars:skel:jointWeights", jw).
		SetElementSize("primvars:skel:jointWeights", 2)

	st.Define("/limb/skel", "Skeleton").
		Set("joints", []string{"shoulder", "shoulder/elbow"}).
		Set("bindTransforms", []math.Mat4{
			math.Identity(),
			math.Translate(0, 1, 0),
		})

	return st
}

// sampleCrowd instances a pyramid prototype over a line, with animated
// instancer translation to exercise time sampling.
func sampleCrowd() *stage.Stage {
	st := stage.New()

	const n = 8
	var protoIdx []int32
	var positions [][3]float32
	var scales [][3]float32
	for i := 0; i < n; i++ {
		protoIdx = append(protoIdx, 0)
		positions = append(positions, [3]float32{float32(i) * 2, 0, 0})
		s := 1 + float32(i%3)*0.25
		scales = append(scales, [3]float32{s, s, s})
	}

	crowd := st.Define("/crowd", "PointInstancer").
		Set("prototypes", []string{"/crowd/pyramid"}).
		Set("protoIndices", protoIdx).
		Set("positions", positions).
		Set("scales", scales)
	crowd.Set("xformOpOrder", []string{"xformOp:translate"})
	crowd.SetSampled("xformOp:translate",
		stage.TimeSample{Time: 0, Value: [3]float32{0, 0, 0}},
		stage.TimeSample{Time: 48, Value: [3]float32{0, 0, -10}},
	)

	st.Define("/crowd/pyramid", "Mesh").
		Set("points", [][3]float32{
			{-0.5, 0, -0.5}, {0.5, 0, -0.5}, {0.5, 0, 0.5}, {-0.5, 0, 0.5},
			{0, 1, 0},
		}).
		Set("faceVertexCounts", []int32{4, 3, 3, 3, 3}).
		Set("faceVertexIndices", []int32{
			3, 2, 1, 0,
			0, 1, 4,
			1, 2, 4,
			2, 3, 4,
			3, 0, 4,
		})

	return st
}

// sampleLights is one of each supported light kind around a floor quad.
func sampleLights() *stage.Stage {
	st := stage.New()

	st.Define("/floor", "Mesh").
		Set("points", [][3]float32{{-5, 0, -5}, {5, 0, -5}, {5, 0, 5}, {-5, 0, 5}}).
		Set("faceVertexCounts", []int32{4}).
		Set("faceVertexIndices", []int32{0, 1, 2, 3})

	st.Define("/lights", "Xform")
	st.Define("/lights/sun", "DistantLight").
		Set("inputs:intensity", float32(5)).
		Set("inputs:angle", float32(0.53)).
		Set("inputs:color", [3]float32{1, 0.96, 0.9})
	st.Define("/lights/bulb", "SphereLight").
		Set("xformOpOrder", []string{"xformOp:translate"}).
		Set("xformOp:translate", [3]float32{0, 3, 0}).
		Set("inputs:radius", float32(0.2)).
		Set("inputs:intensity", float32(80))
	st.Define("/lights/panel", "RectLight").
		Set("xformOpOrder", []string{"xformOp:translate", "xformOp:rotateXYZ"}).
		Set("xformOp:translate", [3]float32{-3, 2, 0}).
		Set("xformOp:rotateXYZ", [3]float32{0, 0, 90}).
		Set("inputs:width", float32(2)).
		Set("inputs:height", float32(1))
	st.Define("/lights/spot", "DiskLight").
		Set("inputs:radius", float32(0.5)).
		Set("inputs:exposure", float32(2))
	st.Define("/lights/sky", "DomeLight").
		Set("inputs:intensity", float32(0.8))

	// An invisible rig helper that must not reach the scene graph.
	st.Define("/lights/rig", "Xform").Set("visibility", "invisible")
	st.Define("/lights/rig/marker", "Mesh")

	return st
}
