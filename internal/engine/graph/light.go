package graph

// LightKind identifies the light prim a Light was projected from.
type LightKind int

// Supported light kinds.
const (
	LightDistant LightKind = iota
	LightSphere
	LightRect
	LightDisk
	LightDome
)

// Light holds the renderer-facing parameters of a light prim. Texture and
// IBL setup belong to the host, not the projection core.
type Light struct {
	Kind      LightKind
	Color     [3]float32
	Intensity float32
	Exposure  float32

	// Kind-specific shape parameters; unused ones stay zero.
	Angle  float32 // distant: angular size in degrees
	Radius float32 // sphere/disk
	Width  float32 // rect
	Height float32 // rect
}
