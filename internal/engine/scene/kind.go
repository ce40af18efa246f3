package scene

// PrimKind is the resolved prim classification used for dispatch. The type
// name is resolved once per prim during the walk; unknown types still get a
// transform node so their children stay reachable.
type PrimKind int

const (
	KindUnknown PrimKind = iota
	KindXform
	KindScope
	KindMesh
	KindSkelRoot
	KindSkeleton
	KindPointInstancer
	KindGeomSubset
	KindDistantLight
	KindSphereLight
	KindRectLight
	KindDiskLight
	KindDomeLight
)

var kindByType = map[string]PrimKind{
	"Xform":          KindXform,
	"Scope":          KindScope,
	"Mesh":           KindMesh,
	"SkelRoot":       KindSkelRoot,
	"Skeleton":       KindSkeleton,
	"PointInstancer": KindPointInstancer,
	"GeomSubset":     KindGeomSubset,
	"DistantLight":   KindDistantLight,
	"SphereLight":    KindSphereLight,
	"RectLight":      KindRectLight,
	"DiskLight":      KindDiskLight,
	"DomeLight":      KindDomeLight,
}

// KindOf maps a prim type name to its kind.
func KindOf(typeName string) PrimKind {
	if k, ok := kindByType[typeName]; ok {
		return k
	}
	return KindUnknown
}

// IsLight reports whether the kind is one of the light prims.
func (k PrimKind) IsLight() bool {
	switch k {
	case KindDistantLight, KindSphereLight, KindRectLight, KindDiskLight, KindDomeLight:
		return true
	}
	return false
}
