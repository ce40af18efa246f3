package stage

import (
	"sort"

	"github.com/Faultbox/stageproj/pkg/math"
)

// TimeSample is one authored value at a point on the stage timeline.
type TimeSample struct {
	Time  float64
	Value any
}

// Attribute is a resolved property value: a default plus optional time
// samples (sorted by time, all times distinct). Numeric and tuple values
// interpolate linearly between bracketing samples; everything else holds
// the earlier sample. Queries outside the sampled range clamp to the ends.
type Attribute struct {
	Default any
	Samples []TimeSample

	// Interpolation is the primvar interpolation class (constant, uniform,
	// vertex, faceVarying) for geometry attributes; empty otherwise.
	Interpolation string
	// ElementSize is the number of array elements per logical element,
	// e.g. influences per point for skinning primvars. Zero means 1.
	ElementSize int
}

// Value returns the default value.
func (a *Attribute) Value() any {
	if a == nil {
		return nil
	}
	return a.Default
}

// ValueAt returns the attribute value at time t. Attributes without samples
// return the default.
func (a *Attribute) ValueAt(t float64) any {
	if a == nil {
		return nil
	}
	n := len(a.Samples)
	if n == 0 {
		return a.Default
	}
	if t <= a.Samples[0].Time {
		return a.Samples[0].Value
	}
	if t >= a.Samples[n-1].Time {
		return a.Samples[n-1].Value
	}

	// First sample with Time > t; its predecessor brackets from below.
	hi := sort.Search(n, func(i int) bool { return a.Samples[i].Time > t })
	lo := hi - 1
	s0, s1 := a.Samples[lo], a.Samples[hi]
	frac := float32((t - s0.Time) / (s1.Time - s0.Time))
	return lerpValue(s0.Value, s1.Value, frac)
}

// lerpValue linearly interpolates between two sampled values of the same
// numeric or tuple kind. Mismatched or non-numeric kinds step to a.
func lerpValue(a, b any, t float32) any {
	switch av := a.(type) {
	case float32:
		if bv, ok := b.(float32); ok {
			return av + t*(bv-av)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av + float64(t)*(bv-av)
		}
	case [2]float32:
		if bv, ok := b.([2]float32); ok {
			return [2]float32{
				av[0] + t*(bv[0]-av[0]),
				av[1] + t*(bv[1]-av[1]),
			}
		}
	case [3]float32:
		if bv, ok := b.([3]float32); ok {
			return lerp3(av, bv, t)
		}
	case [4]float32:
		if bv, ok := b.([4]float32); ok {
			return [4]float32{
				av[0] + t*(bv[0]-av[0]),
				av[1] + t*(bv[1]-av[1]),
				av[2] + t*(bv[2]-av[2]),
				av[3] + t*(bv[3]-av[3]),
			}
		}
	case []float32:
		if bv, ok := b.([]float32); ok && len(bv) == len(av) {
			out := make([]float32, len(av))
			for i := range av {
				out[i] = av[i] + t*(bv[i]-av[i])
			}
			return out
		}
	case [][3]float32:
		// Animated point/normal arrays.
		if bv, ok := b.([][3]float32); ok && len(bv) == len(av) {
			out := make([][3]float32, len(av))
			for i := range av {
				out[i] = lerp3(av[i], bv[i], t)
			}
			return out
		}
	case math.Mat4:
		if bv, ok := b.(math.Mat4); ok {
			var out math.Mat4
			for i := range av {
				out[i] = av[i] + t*(bv[i]-av[i])
			}
			return out
		}
	}
	return a
}

func lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
		a[2] + t*(b[2]-a[2]),
	}
}
