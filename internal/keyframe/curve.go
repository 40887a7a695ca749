package keyframe

import (
	"math"

	"github.com/gonewx/rocketlaunch/internal/vecmath"
)

// CatmullRomCurve is an open centripetal Catmull-Rom spline through a list of
// control points. The missing outer neighbours at both ends are extrapolated by
// mirroring the adjacent segment.
type CatmullRomCurve struct {
	Points []vecmath.Vec3
}

// NewCatmullRomCurve returns a curve through points. At least two points are needed
// for a meaningful curve; with fewer, PointAt returns the single point (or zero).
func NewCatmullRomCurve(points ...vecmath.Vec3) *CatmullRomCurve {
	return &CatmullRomCurve{Points: points}
}

// PointAt returns the point at parameter t ∈ [0, 1]. The parameter is uniform in
// segment index, not arc length: t = k/(n-1) lands exactly on control point k.
func (c *CatmullRomCurve) PointAt(t float64) vecmath.Vec3 {
	n := len(c.Points)
	switch n {
	case 0:
		return vecmath.Vec3{}
	case 1:
		return c.Points[0]
	}

	t = math.Max(0, math.Min(1, t))
	p := float64(n-1) * t
	seg := int(math.Floor(p))
	weight := p - float64(seg)
	if seg >= n-1 {
		seg = n - 2
		weight = 1
	}

	var p0, p3 vecmath.Vec3
	p1 := c.Points[seg]
	p2 := c.Points[seg+1]

	if seg > 0 {
		p0 = c.Points[seg-1]
	} else {
		p0 = c.Points[0].Sub(c.Points[1]).Add(c.Points[0])
	}
	if seg+2 < n {
		p3 = c.Points[seg+2]
	} else {
		p3 = c.Points[n-1].Sub(c.Points[n-2]).Add(c.Points[n-1])
	}

	// centripetal parameterisation: knot spacing is the square root of the distance
	dt0 := math.Pow(p0.DistSq(p1), 0.25)
	dt1 := math.Pow(p1.DistSq(p2), 0.25)
	dt2 := math.Pow(p2.DistSq(p3), 0.25)
	if dt1 < 1e-4 {
		dt1 = 1
	}
	if dt0 < 1e-4 {
		dt0 = dt1
	}
	if dt2 < 1e-4 {
		dt2 = dt1
	}

	return vecmath.Vec3{
		X: nonuniformCubic(p0.X, p1.X, p2.X, p3.X, dt0, dt1, dt2, weight),
		Y: nonuniformCubic(p0.Y, p1.Y, p2.Y, p3.Y, dt0, dt1, dt2, weight),
		Z: nonuniformCubic(p0.Z, p1.Z, p2.Z, p3.Z, dt0, dt1, dt2, weight),
	}
}

// Sample samples the curve at divisions+1 evenly spaced parameters, endpoints
// included.
func (c *CatmullRomCurve) Sample(divisions int) []vecmath.Vec3 {
	if divisions < 1 {
		divisions = 1
	}
	out := make([]vecmath.Vec3, 0, divisions+1)
	for d := 0; d <= divisions; d++ {
		out = append(out, c.PointAt(float64(d)/float64(divisions)))
	}
	return out
}

// nonuniformCubic evaluates one coordinate of the Hermite segment between x1 and x2
// whose tangents come from the non-uniform Catmull-Rom formulation.
func nonuniformCubic(x0, x1, x2, x3, dt0, dt1, dt2, t float64) float64 {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	t1 *= dt1
	t2 *= dt1

	c0 := x1
	c1 := t1
	c2 := -3*x1 + 3*x2 - 2*t1 - t2
	c3 := 2*x1 - 2*x2 + t1 + t2

	t2p := t * t
	return c0 + c1*t + c2*t2p + c3*t2p*t
}

// UniformTimes returns n sample times i/n for i in [0, n), the spacing used when a
// sampled curve is replayed over a one-second clip.
func UniformTimes(n int, duration float64) []float64 {
	times := make([]float64, n)
	for i := range times {
		times[i] = duration * float64(i) / float64(n)
	}
	return times
}
