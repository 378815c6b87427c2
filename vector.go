package nbody

import "math"

// Vec3 is a 3-component vector, passed by value so the force kernel's
// O(N²) inner loop never touches the heap.
type Vec3 [3]float64

// Add returns the sum of two vectors.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns the vector scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the inner product of two vectors.
func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Norm2 returns the squared Euclidean length of v (avoids the sqrt
// in the many places only a comparison is needed).
func (v Vec3) Norm2() float64 {
	return v.Dot(v)
}

// Unit returns the unit vector of v, or the zero vector if v is
// (numerically) zero.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n < 1e-300 {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

// vecAt reads the i-th 3-vector out of a flat 3N slice.
func vecAt(flat []float64, i int) Vec3 {
	o := 3 * i
	return Vec3{flat[o], flat[o+1], flat[o+2]}
}

// setVecAt writes v into the i-th slot of a flat 3N slice.
func setVecAt(flat []float64, i int, v Vec3) {
	o := 3 * i
	flat[o], flat[o+1], flat[o+2] = v[0], v[1], v[2]
}

// addVecAt accumulates v into the i-th slot of a flat 3N slice.
func addVecAt(flat []float64, i int, v Vec3) {
	o := 3 * i
	flat[o] += v[0]
	flat[o+1] += v[1]
	flat[o+2] += v[2]
}

// kahanSum is a Kahan-compensated running sum, used by energy
// accounting so that summing O(N²) pair potential terms doesn't
// accumulate more rounding error than the physics already has.
type kahanSum struct {
	sum, c float64
}

func (k *kahanSum) Add(x float64) {
	y := x - k.c
	t := k.sum + y
	k.c = (t - k.sum) - y
	k.sum = t
}

func (k *kahanSum) Value() float64 {
	return k.sum
}

// stumpff evaluates the Stumpff functions c0..c3 at argument z,
// following the standard series-for-small-|z| / closed-form-otherwise
// split used throughout universal-variable Kepler solvers.
func stumpff(z float64) (c0, c1, c2, c3 float64) {
	switch {
	case z > 1e-6:
		sz := math.Sqrt(z)
		c0 = math.Cos(sz)
		c1 = math.Sin(sz) / sz
		c2 = (1 - c0) / z
		c3 = (1 - c1) / z
	case z < -1e-6:
		sz := math.Sqrt(-z)
		c0 = math.Cosh(sz)
		c1 = math.Sinh(sz) / sz
		c2 = (1 - c0) / z
		c3 = (1 - c1) / z
	default:
		// Taylor series around z = 0, good to machine precision for
		// |z| <= 1e-6.
		c0 = 1 - z/2 + z*z/24
		c1 = 1 - z/6 + z*z/120
		c2 = 0.5 - z/24 + z*z/720
		c3 = 1.0/6 - z/120 + z*z/5040
	}
	return
}
