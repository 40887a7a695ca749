// Package geometry builds the flat-shaded polygon meshes drawn by the renderer.
//
// Every builder returns planar polygons in local space, wound counter-clockwise
// when seen from outside, so that Normal points away from the solid.
package geometry

import (
	"math"

	"github.com/gonewx/rocketlaunch/internal/vecmath"
)

// Polygon is a planar, convex face.
type Polygon []vecmath.Vec3

// Normal returns the unit face normal using Newell's method.
func (p Polygon) Normal() vecmath.Vec3 {
	var n vecmath.Vec3
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n.Normalize()
}

// Centroid returns the vertex average.
func (p Polygon) Centroid() vecmath.Vec3 {
	var c vecmath.Vec3
	for _, v := range p {
		c = c.Add(v)
	}
	if len(p) == 0 {
		return c
	}
	return c.Scale(1 / float64(len(p)))
}

// Box returns the six faces of an axis-aligned box centred on the origin.
func Box(size vecmath.Vec3) []Polygon {
	hx := vecmath.V3(size.X/2, 0, 0)
	hy := vecmath.V3(0, size.Y/2, 0)
	hz := vecmath.V3(0, 0, size.Z/2)

	// u × v points along the face normal.
	quad := func(center, u, v vecmath.Vec3) Polygon {
		return Polygon{
			center.Sub(u).Sub(v),
			center.Add(u).Sub(v),
			center.Add(u).Add(v),
			center.Sub(u).Add(v),
		}
	}

	return []Polygon{
		quad(hx, hy, hz),
		quad(hx.Scale(-1), hz, hy),
		quad(hy, hz, hx),
		quad(hy.Scale(-1), hx, hz),
		quad(hz, hx, hy),
		quad(hz.Scale(-1), hy, hx),
	}
}

// Cylinder returns a Y-aligned cylinder (or cone when radiusTop is 0) centred on
// the origin.
func Cylinder(radiusTop, radiusBottom, height float64, segments int) []Polygon {
	if segments < 3 {
		segments = 3
	}
	top, bottom := height/2, -height/2

	ring := func(r, y float64, i int) vecmath.Vec3 {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		return vecmath.V3(r*math.Sin(theta), y, r*math.Cos(theta))
	}

	faces := make([]Polygon, 0, segments+2)
	for i := 0; i < segments; i++ {
		side := Polygon{ring(radiusBottom, bottom, i), ring(radiusBottom, bottom, i+1), ring(radiusTop, top, i+1)}
		if radiusTop > 0 {
			side = append(side, ring(radiusTop, top, i))
		}
		faces = append(faces, side)
	}

	if radiusTop > 0 {
		lid := make(Polygon, segments)
		for i := range lid {
			lid[i] = ring(radiusTop, top, i)
		}
		faces = append(faces, lid)
	}
	if radiusBottom > 0 {
		lid := make(Polygon, segments)
		for i := range lid {
			lid[i] = ring(radiusBottom, bottom, segments-i)
		}
		faces = append(faces, lid)
	}
	return faces
}

// Torus returns a torus segment in the XY plane sweeping arc radians from +X.
func Torus(radius, tube float64, radialSegments, tubularSegments int, arc float64) []Polygon {
	if radialSegments < 3 {
		radialSegments = 3
	}
	if tubularSegments < 1 {
		tubularSegments = 1
	}
	if arc <= 0 {
		return nil
	}

	vertex := func(j, i int) vecmath.Vec3 {
		u := float64(i) / float64(tubularSegments) * arc
		v := float64(j) / float64(radialSegments) * 2 * math.Pi
		r := radius + tube*math.Cos(v)
		return vecmath.V3(r*math.Cos(u), r*math.Sin(u), tube*math.Sin(v))
	}

	faces := make([]Polygon, 0, radialSegments*tubularSegments)
	for j := 1; j <= radialSegments; j++ {
		for i := 1; i <= tubularSegments; i++ {
			faces = append(faces, Polygon{
				vertex(j, i-1),
				vertex(j-1, i-1),
				vertex(j-1, i),
				vertex(j, i),
			})
		}
	}
	return faces
}

// Triangulate ear-clips a simple outline lying in the local XY plane.
// A closing vertex equal to the first one is ignored. The resulting triangles
// are wound counter-clockwise seen from +Z.
func Triangulate(outline []vecmath.Vec3) []Polygon {
	pts := dedupe(outline)
	if len(pts) < 3 {
		return nil
	}
	if signedArea(pts) < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}

	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}

	var tris []Polygon
	for len(idx) > 3 {
		clipped := false
		for k := range idx {
			prev, cur, next := idx[(k+len(idx)-1)%len(idx)], idx[k], idx[(k+1)%len(idx)]
			if !isEar(pts, idx, prev, cur, next) {
				continue
			}
			tris = append(tris, Polygon{pts[prev], pts[cur], pts[next]})
			idx = append(idx[:k], idx[k+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// self-intersecting outline: fan the remainder
			for k := 1; k+1 < len(idx); k++ {
				tris = append(tris, Polygon{pts[idx[0]], pts[idx[k]], pts[idx[k+1]]})
			}
			return tris
		}
	}
	return append(tris, Polygon{pts[idx[0]], pts[idx[1]], pts[idx[2]]})
}

func dedupe(outline []vecmath.Vec3) []vecmath.Vec3 {
	pts := make([]vecmath.Vec3, 0, len(outline))
	for _, p := range outline {
		if len(pts) > 0 && pts[len(pts)-1].ApproxEqual(p, 1e-12) {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) > 1 && pts[0].ApproxEqual(pts[len(pts)-1], 1e-12) {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func signedArea(pts []vecmath.Vec3) float64 {
	area := 0.0
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2
}

func cross2(o, a, b vecmath.Vec3) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func isEar(pts []vecmath.Vec3, idx []int, prev, cur, next int) bool {
	a, b, c := pts[prev], pts[cur], pts[next]
	if cross2(a, b, c) <= 0 {
		return false
	}
	for _, k := range idx {
		if k == prev || k == cur || k == next {
			continue
		}
		p := pts[k]
		if cross2(a, b, p) >= 0 && cross2(b, c, p) >= 0 && cross2(c, a, p) >= 0 {
			return false
		}
	}
	return true
}
