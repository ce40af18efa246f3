package scene

import (
	"github.com/Faultbox/stageproj/internal/engine/graph"
	"github.com/Faultbox/stageproj/pkg/stage"
)

// projectLight reads the common light inputs plus the shape parameters of
// the specific kind. Texture and IBL inputs are host territory and ignored.
func projectLight(prim *stage.Prim, kind PrimKind, t float64) *graph.Light {
	l := &graph.Light{
		Color:     [3]float32{1, 1, 1},
		Intensity: 1,
	}
	if c, ok := prim.Attr("inputs:color").Float3At(t); ok {
		l.Color = c
	}
	if v, ok := prim.Attr("inputs:intensity").FloatAt(t); ok {
		l.Intensity = v
	}
	if v, ok := prim.Attr("inputs:exposure").FloatAt(t); ok {
		l.Exposure = v
	}

	switch kind {
	case KindDistantLight:
		l.Kind = graph.LightDistant
		l.Angle = 0.53
		if v, ok := prim.Attr("inputs:angle").FloatAt(t); ok {
			l.Angle = v
		}
	case KindSphereLight:
		l.Kind = graph.LightSphere
		l.Radius = 0.5
		if v, ok := prim.Attr("inputs:radius").FloatAt(t); ok {
			l.Radius = v
		}
	case KindDiskLight:
		l.Kind = graph.LightDisk
		l.Radius = 0.5
		if v, ok := prim.Attr("inputs:radius").FloatAt(t); ok {
			l.Radius = v
		}
	case KindRectLight:
		l.Kind = graph.LightRect
		l.Width, l.Height = 1, 1
		if v, ok := prim.Attr("inputs:width").FloatAt(t); ok {
			l.Width = v
		}
		if v, ok := prim.Attr("inputs:height").FloatAt(t); ok {
			l.Height = v
		}
	case KindDomeLight:
		l.Kind = graph.LightDome
	}
	return l
}
