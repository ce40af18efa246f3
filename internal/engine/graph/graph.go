// Package graph defines the renderer-facing scene graph produced by the
// stage projection engine: transform nodes, triangle-mesh primitives,
// skinned primitives, and lights. It is pure data; the host renderer walks
// it and uploads what it needs.
package graph

import (
	"github.com/google/uuid"

	"github.com/Faultbox/stageproj/pkg/math"
)

// Scene is the result of projecting one stage.
type Scene struct {
	Root      *Node
	Skeletons []*SkeletonResource
}

// Node is a transform node. Translation/Rotation/Scale are authoritative
// unless Matrix is set, which happens when the source transform carries
// shear that TRS cannot represent.
type Node struct {
	ID       uuid.UUID
	Name     string
	PrimPath string

	Translation math.Vec3
	Rotation    math.Quat
	Scale       math.Vec3
	Matrix      *math.Mat4

	Children []*Node

	Mesh  *MeshPrimitive
	Skin  *SkinnedPrimitive
	Light *Light
}

// NewNode returns a node with an identity transform and a fresh ID.
func NewNode(name, primPath string) *Node {
	return &Node{
		ID:       uuid.New(),
		Name:     name,
		PrimPath: primPath,
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// AddChild appends a child node.
func (n *Node) AddChild(c *Node) {
	n.Children = append(n.Children, c)
}

// LocalMatrix returns the node's local transform as a matrix.
func (n *Node) LocalMatrix() math.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	t := math.Translate(n.Translation.X, n.Translation.Y, n.Translation.Z)
	s := math.Scale(n.Scale.X, n.Scale.Y, n.Scale.Z)
	return t.Mul(n.Rotation.ToMat4()).Mul(s)
}

// MaterialGroup maps a contiguous triangle range to a material path.
type MaterialGroup struct {
	Material string
	Start    int32 // first triangle
	Count    int32
}

// MeshPrimitive holds de-indexed triangle buffers. Every three consecutive
// entries form one triangle; there is no index buffer. PointIndex carries
// each vertex's originating point index in the authored topology, which
// skinning uses to look up per-point weights after de-indexing.
type MeshPrimitive struct {
	Positions  [][3]float32
	Normals    [][3]float32
	Colors     [][3]float32
	UVs        [][2]float32
	PointIndex []int32

	Groups []MaterialGroup
}

// TriangleCount returns the number of triangles in the primitive.
func (m *MeshPrimitive) TriangleCount() int {
	return len(m.Positions) / 3
}

// SkinnedPrimitive is a mesh bound to a skeleton. JointIndices and
// JointWeights carry four influences per vertex, aligned with Mesh buffers.
type SkinnedPrimitive struct {
	Mesh         *MeshPrimitive
	JointIndices []uint16
	JointWeights []float32
	Skeleton     *SkeletonResource
	BindMatrix   math.Mat4
}

// Bone is one joint of a skeleton.
type Bone struct {
	Name        string // full joint path, e.g. "root/torso/arm"
	Parent      int    // index into Bones, -1 for roots
	Local       math.Mat4
	WorldBind   math.Mat4
	InverseBind math.Mat4
}

// SkeletonResource is a realized joint hierarchy shared by the skinned
// primitives bound to it.
type SkeletonResource struct {
	Path  string
	World math.Mat4 // skeleton prim's world transform at build time
	Bones []Bone
}

// BoneIndex returns the index of the named joint, or -1.
func (s *SkeletonResource) BoneIndex(name string) int {
	for i := range s.Bones {
		if s.Bones[i].Name == name {
			return i
		}
	}
	return -1
}
