package scene

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/stageproj/internal/engine/graph"
	"github.com/Faultbox/stageproj/pkg/math"
	"github.com/Faultbox/stageproj/pkg/stage"
)

const eps = 1e-5

func quadMesh(st *stage.Stage, path string) *stage.Prim {
	return st.Define(path, "Mesh").
		Set("points", [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}).
		Set("faceVertexCounts", []int32{4}).
		Set("faceVertexIndices", []int32{0, 1, 2, 3})
}

func findNode(n *graph.Node, name string) *graph.Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if f := findNode(c, name); f != nil {
			return f
		}
	}
	return nil
}

func TestBuildHierarchyAndTransforms(t *testing.T) {
	st := stage.New()
	st.Define("/world", "Xform").
		Set("xformOpOrder", []string{"xformOp:translate"}).
		Set("xformOp:translate", [3]float32{1, 2, 3})
	quadMesh(st, "/world/quad")

	scene := New(Options{}).Build(st)

	world := findNode(scene.Root, "world")
	if world == nil {
		t.Fatal("world node missing")
	}
	if world.Translation.X != 1 || world.Translation.Y != 2 || world.Translation.Z != 3 {
		t.Errorf("world translation: got %+v", world.Translation)
	}

	quad := findNode(scene.Root, "quad")
	if quad == nil {
		t.Fatal("quad node missing")
	}
	if quad.Mesh == nil {
		t.Fatal("quad mesh missing")
	}
	if got := quad.Mesh.TriangleCount(); got != 2 {
		t.Errorf("triangle count: got %d, want 2", got)
	}
	if quad.Mesh.Groups != nil {
		t.Errorf("unbound mesh should carry no material groups, got %v", quad.Mesh.Groups)
	}
}

func TestInactiveAndInvisiblePruneSubtrees(t *testing.T) {
	st := stage.New()
	st.Define("/off", "Xform").SetMetadata("active", false)
	quadMesh(st, "/off/mesh")
	st.Define("/hidden", "Xform").Set("visibility", "invisible")
	quadMesh(st, "/hidden/mesh")
	quadMesh(st, "/kept")

	scene := New(Options{}).Build(st)

	if findNode(scene.Root, "off") != nil || findNode(scene.Root, "hidden") != nil {
		t.Error("pruned prims should not produce nodes")
	}
	if len(scene.Root.Children) != 1 || scene.Root.Children[0].Name != "kept" {
		t.Fatalf("only the kept prim should survive, got %d children", len(scene.Root.Children))
	}
}

func TestMaterialGroupsFromSubsets(t *testing.T) {
	st := stage.New()
	st.Define("/grid", "Mesh").
		Set("points", [][3]float32{
			{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
			{0, 1, 0}, {1, 1, 0}, {2, 1, 0},
		}).
		Set("faceVertexCounts", []int32{4, 4}).
		Set("faceVertexIndices", []int32{0, 1, 4, 3, 1, 2, 5, 4}).
		Set("material:binding", "/materials/base")
	st.Define("/grid/redFaces", "GeomSubset").
		Set("material:binding", "/materials/red").
		Set("indices", []int32{1})

	scene := New(Options{}).Build(st)

	node := findNode(scene.Root, "grid")
	if node == nil || node.Mesh == nil {
		t.Fatal("grid mesh missing")
	}
	want := []graph.MaterialGroup{
		{Material: "/materials/base", Start: 0, Count: 2},
		{Material: "/materials/red", Start: 2, Count: 2},
	}
	got := node.Mesh.Groups
	if len(got) != len(want) {
		t.Fatalf("groups: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("group %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSubsetChildrenAreNotWalked(t *testing.T) {
	st := stage.New()
	quadMesh(st, "/m")
	st.Define("/m/sub", "GeomSubset").
		Set("material:binding", "/materials/a").
		Set("indices", []int32{0})

	scene := New(Options{}).Build(st)
	if findNode(scene.Root, "sub") != nil {
		t.Error("GeomSubset should not become a scene node")
	}
}

func skinnedStage(skelName, meshName string) *stage.Stage {
	st := stage.New()
	st.Define("/"+skelName, "Skeleton").
		Set("joints", []string{"root", "root/tip"}).
		Set("bindTransforms", []math.Mat4{math.Identity(), math.Translate(0, 1, 0)})
	quadMesh(st, "/"+meshName).
		Set("skel:skeleton", "/"+skelName).
		Set("primvars:skel:jointIndices", []int32{0, 0, 1, 1}).
		SetElementSize("primvars:skel:jointIndices", 1).
		Set("primvars:skel:jointWeights", []float32{1, 1, 1, 1})
	return st
}

func TestSkinnedMeshBinds(t *testing.T) {
	scene := New(Options{}).Build(skinnedStage("skel", "limb"))

	if len(scene.Skeletons) != 1 {
		t.Fatalf("skeletons: got %d, want 1", len(scene.Skeletons))
	}
	node := findNode(scene.Root, "limb")
	if node == nil {
		t.Fatal("limb node missing")
	}
	if node.Skin == nil {
		t.Fatal("mesh with skeleton binding should be skinned")
	}
	if node.Mesh != nil {
		t.Error("bound mesh should drop its static primitive")
	}
	if node.Skin.Skeleton != scene.Skeletons[0] {
		t.Error("skin should reference the realized skeleton")
	}
	if got, want := len(node.Skin.JointIndices), len(node.Skin.Mesh.Positions)*4; got != want {
		t.Errorf("joint buffer length: got %d, want %d", got, want)
	}
}

func TestSkinBindingOrderIndependent(t *testing.T) {
	// Children are visited in name order, so these two stages walk the
	// skeleton and the mesh in opposite orders.
	a := New(Options{}).Build(skinnedStage("askel", "zmesh"))
	b := New(Options{}).Build(skinnedStage("zskel", "amesh"))

	na := findNode(a.Root, "zmesh")
	nb := findNode(b.Root, "amesh")
	if na == nil || nb == nil || na.Skin == nil || nb.Skin == nil {
		t.Fatal("both orders must bind")
	}
	for i := range na.Skin.JointIndices {
		if na.Skin.JointIndices[i] != nb.Skin.JointIndices[i] {
			t.Fatalf("joint index %d differs between traversal orders", i)
		}
		if na.Skin.JointWeights[i] != nb.Skin.JointWeights[i] {
			t.Fatalf("joint weight %d differs between traversal orders", i)
		}
	}
}

func TestUnresolvedSkeletonKeepsMeshStatic(t *testing.T) {
	st := stage.New()
	quadMesh(st, "/m").
		Set("skel:skeleton", "/nowhere").
		Set("primvars:skel:jointIndices", []int32{0, 0, 0, 0}).
		Set("primvars:skel:jointWeights", []float32{1, 1, 1, 1})

	scene := New(Options{}).Build(st)
	node := findNode(scene.Root, "m")
	if node == nil || node.Mesh == nil {
		t.Fatal("mesh should stay static when the skeleton never resolves")
	}
	if node.Skin != nil {
		t.Error("no skin should be attached")
	}
}

func TestLightProjection(t *testing.T) {
	st := stage.New()
	st.Define("/sun", "DistantLight").
		Set("inputs:intensity", float32(3)).
		Set("inputs:color", [3]float32{1, 0.9, 0.8})
	st.Define("/bulb", "SphereLight").
		Set("inputs:radius", float32(2))
	st.Define("/sky", "DomeLight")

	scene := New(Options{}).Build(st)

	sun := findNode(scene.Root, "sun")
	if sun == nil || sun.Light == nil {
		t.Fatal("distant light missing")
	}
	if sun.Light.Kind != graph.LightDistant {
		t.Errorf("sun kind: got %v", sun.Light.Kind)
	}
	if sun.Light.Intensity != 3 {
		t.Errorf("sun intensity: got %f", sun.Light.Intensity)
	}
	if math32.Abs(sun.Light.Angle-0.53) > eps {
		t.Errorf("sun angle should default to 0.53, got %f", sun.Light.Angle)
	}

	bulb := findNode(scene.Root, "bulb")
	if bulb == nil || bulb.Light == nil || bulb.Light.Kind != graph.LightSphere {
		t.Fatal("sphere light missing")
	}
	if bulb.Light.Radius != 2 {
		t.Errorf("bulb radius: got %f", bulb.Light.Radius)
	}
	if bulb.Light.Intensity != 1 {
		t.Errorf("bulb intensity should default to 1, got %f", bulb.Light.Intensity)
	}

	sky := findNode(scene.Root, "sky")
	if sky == nil || sky.Light == nil || sky.Light.Kind != graph.LightDome {
		t.Fatal("dome light missing")
	}
}

func TestPointInstancerExpansion(t *testing.T) {
	st := stage.New()
	st.Define("/crowd", "PointInstancer").
		Set("prototypes", []string{"/crowd/proto"}).
		Set("protoIndices", []int32{0, 0, 5}). // third is out of range
		Set("positions", [][3]float32{{0, 0, 0}, {4, 0, 0}, {8, 0, 0}}).
		Set("scales", [][3]float32{{1, 1, 1}, {2, 2, 2}, {1, 1, 1}})
	quadMesh(st, "/crowd/proto")

	scene := New(Options{}).Build(st)

	crowd := findNode(scene.Root, "crowd")
	if crowd == nil {
		t.Fatal("crowd node missing")
	}
	if len(crowd.Children) != 2 {
		t.Fatalf("instances: got %d, want 2 (invalid index skipped)", len(crowd.Children))
	}

	first, second := crowd.Children[0], crowd.Children[1]
	if second.Translation.X != 4 || second.Scale.X != 2 {
		t.Errorf("second instance transform: T=%+v S=%+v", second.Translation, second.Scale)
	}
	if len(first.Children) != 1 || first.Children[0].Mesh == nil {
		t.Fatal("instance should carry the prototype subtree")
	}
	if first.Children[0] != second.Children[0] {
		t.Error("prototype subtree should be shared between instances")
	}
}

func TestProjectorReuse(t *testing.T) {
	p := New(Options{})

	first := p.Build(skinnedStage("skel", "limb"))
	if len(first.Skeletons) != 1 {
		t.Fatalf("first build skeletons: got %d", len(first.Skeletons))
	}

	st := stage.New()
	quadMesh(st, "/plain")
	second := p.Build(st)

	if len(second.Skeletons) != 0 {
		t.Error("skeletons must not leak across builds")
	}
	if findNode(second.Root, "limb") != nil {
		t.Error("nodes must not leak across builds")
	}
}

func TestShearedTransformCarriesMatrix(t *testing.T) {
	shear := math.Identity()
	shear[4] = 0.5 // x += 0.5*y

	st := stage.New()
	st.Define("/sheared", "Xform").
		Set("xformOpOrder", []string{"xformOp:transform"}).
		Set("xformOp:transform", shear)

	scene := New(Options{}).Build(st)
	node := findNode(scene.Root, "sheared")
	if node == nil {
		t.Fatal("sheared node missing")
	}
	if node.Matrix == nil {
		t.Fatal("sheared transform should carry an explicit matrix")
	}
	if math32.Abs((*node.Matrix)[4]-0.5) > eps {
		t.Errorf("matrix shear term: got %f", (*node.Matrix)[4])
	}
}
