package stage

import "github.com/Faultbox/stageproj/pkg/math"

// Typed accessors. Each returns the zero value and false when the attribute
// is missing or its value has a different shape; callers treat that as an
// absent operand rather than an error.

// FloatAt returns a scalar value at time t.
func (a *Attribute) FloatAt(t float64) (float32, bool) {
	switch v := a.ValueAt(t).(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	}
	return 0, false
}

// Float2At returns a 2-tuple value at time t.
func (a *Attribute) Float2At(t float64) ([2]float32, bool) {
	v, ok := a.ValueAt(t).([2]float32)
	return v, ok
}

// Float3At returns a 3-tuple value at time t.
func (a *Attribute) Float3At(t float64) ([3]float32, bool) {
	v, ok := a.ValueAt(t).([3]float32)
	return v, ok
}

// Float4At returns a 4-tuple value at time t.
func (a *Attribute) Float4At(t float64) ([4]float32, bool) {
	v, ok := a.ValueAt(t).([4]float32)
	return v, ok
}

// FloatsAt returns a flat float array at time t.
func (a *Attribute) FloatsAt(t float64) ([]float32, bool) {
	v, ok := a.ValueAt(t).([]float32)
	return v, ok
}

// Vec2sAt returns an array of 2-tuples at time t.
func (a *Attribute) Vec2sAt(t float64) ([][2]float32, bool) {
	v, ok := a.ValueAt(t).([][2]float32)
	return v, ok
}

// Vec3sAt returns an array of 3-tuples at time t.
func (a *Attribute) Vec3sAt(t float64) ([][3]float32, bool) {
	v, ok := a.ValueAt(t).([][3]float32)
	return v, ok
}

// Vec4sAt returns an array of 4-tuples at time t.
func (a *Attribute) Vec4sAt(t float64) ([][4]float32, bool) {
	v, ok := a.ValueAt(t).([][4]float32)
	return v, ok
}

// IntsAt returns an int array at time t.
func (a *Attribute) IntsAt(t float64) ([]int32, bool) {
	switch v := a.ValueAt(t).(type) {
	case []int32:
		return v, true
	case []int:
		out := make([]int32, len(v))
		for i, x := range v {
			out[i] = int32(x)
		}
		return out, true
	}
	return nil, false
}

// Mat4At returns a 4x4 matrix value at time t.
func (a *Attribute) Mat4At(t float64) (math.Mat4, bool) {
	v, ok := a.ValueAt(t).(math.Mat4)
	return v, ok
}

// Mat4sAt returns a matrix array at time t.
func (a *Attribute) Mat4sAt(t float64) ([]math.Mat4, bool) {
	v, ok := a.ValueAt(t).([]math.Mat4)
	return v, ok
}

// TokensAt returns a token array at time t.
func (a *Attribute) TokensAt(t float64) ([]string, bool) {
	v, ok := a.ValueAt(t).([]string)
	return v, ok
}

// Token returns a string value from the default (tokens do not animate here).
func (a *Attribute) Token() (string, bool) {
	v, ok := a.Value().(string)
	return v, ok
}

// Bool returns a boolean default value.
func (a *Attribute) Bool() (bool, bool) {
	v, ok := a.Value().(bool)
	return v, ok
}

// Elements returns the declared element size, defaulting to 1.
func (a *Attribute) Elements() int {
	if a == nil || a.ElementSize <= 0 {
		return 1
	}
	return a.ElementSize
}
