package meshreal

import "github.com/chewxy/math32"

// newellNormal accumulates edge cross-product contributions over the whole
// polygon. Robust for non-planar and concave faces where a single corner's
// cross product is not.
func newellNormal(corners [][3]float32) [3]float32 {
	var n [3]float32
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		n[0] += (a[1] - b[1]) * (a[2] + b[2])
		n[1] += (a[2] - b[2]) * (a[0] + b[0])
		n[2] += (a[0] - b[0]) * (a[1] + b[1])
	}
	return n
}

// dropAxis returns the index of the component with the largest magnitude;
// projecting the polygon by dropping that axis loses the least area.
func dropAxis(n [3]float32) int {
	ax, ay, az := math32.Abs(n[0]), math32.Abs(n[1]), math32.Abs(n[2])
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	default:
		return 2
	}
}

// project2D flattens polygon corners by dropping the given axis.
func project2D(corners [][3]float32, axis int) [][2]float32 {
	out := make([][2]float32, len(corners))
	for i, c := range corners {
		switch axis {
		case 0:
			out[i] = [2]float32{c[1], c[2]}
		case 1:
			out[i] = [2]float32{c[0], c[2]}
		default:
			out[i] = [2]float32{c[0], c[1]}
		}
	}
	return out
}

// earClip triangulates a simple 2D polygon into local corner-index triples.
// Returns nil when no ear can be found (degenerate input); the caller falls
// back to fan triangulation.
func earClip(poly [][2]float32) [][3]int {
	n := len(poly)
	if n < 3 {
		return nil
	}

	area := signedArea(poly)
	if math32.Abs(area) < 1e-12 {
		return nil
	}
	ccw := area > 0

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	tris := make([][3]int, 0, n-2)
	for len(remaining) > 3 {
		clipped := false
		for i := 0; i < len(remaining); i++ {
			prev := remaining[(i+len(remaining)-1)%len(remaining)]
			curr := remaining[i]
			next := remaining[(i+1)%len(remaining)]

			if !isEar(poly, remaining, prev, curr, next, ccw) {
				continue
			}
			tris = append(tris, [3]int{prev, curr, next})
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// No ear on a full pass; the polygon is degenerate or
			// self-intersecting.
			return nil
		}
	}
	tris = append(tris, [3]int{remaining[0], remaining[1], remaining[2]})
	return tris
}

// isEar reports whether the corner curr forms a clippable ear: convex with
// respect to the polygon winding, with no other remaining vertex inside.
func isEar(poly [][2]float32, remaining []int, prev, curr, next int, ccw bool) bool {
	a, b, c := poly[prev], poly[curr], poly[next]

	cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
	if ccw {
		if cross <= 0 {
			return false
		}
	} else if cross >= 0 {
		return false
	}

	for _, idx := range remaining {
		if idx == prev || idx == curr || idx == next {
			continue
		}
		if pointInTriangle(poly[idx], a, b, c) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c [2]float32) bool {
	d1 := edgeSign(p, a, b)
	d2 := edgeSign(p, b, c)
	d3 := edgeSign(p, c, a)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func edgeSign(p, a, b [2]float32) float32 {
	return (p[0]-b[0])*(a[1]-b[1]) - (a[0]-b[0])*(p[1]-b[1])
}

func signedArea(poly [][2]float32) float32 {
	var area float32
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		area += a[0]*b[1] - b[0]*a[1]
	}
	return area / 2
}

// fanTriangulate emits triangles radiating from corner 0. Geometrically
// wrong for concave faces but never loses vertices; used when ear clipping
// fails.
func fanTriangulate(n int) [][3]int {
	tris := make([][3]int, 0, n-2)
	for i := 1; i < n-1; i++ {
		tris = append(tris, [3]int{0, i, i + 1})
	}
	return tris
}

// triNormal returns the geometric normal of a 3D triangle.
func triNormal(a, b, c [3]float32) [3]float32 {
	e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	return [3]float32{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
}

func dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func normalize3(v [3]float32) [3]float32 {
	l := math32.Sqrt(dot3(v, v))
	if l < 1e-12 {
		return [3]float32{}
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
