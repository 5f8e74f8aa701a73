package dynamo

import "math"

// Vec3 is a 3D vector in the fixed internal unit system.
type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v[0] * f, v[1] * f, v[2] * f}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Configuration holds one Vec3 per particle.
type Configuration []Vec3

func NewConfiguration(n int) Configuration {
	return make(Configuration, n)
}

func (c Configuration) Clone() Configuration {
	out := make(Configuration, len(c))
	copy(out, c)
	return out
}

func (c Configuration) IsValid() bool {
	for _, p := range c {
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Flat returns the configuration as a row-major N*3 slice.
func (c Configuration) Flat() []float64 {
	out := make([]float64, 0, len(c)*3)
	for _, p := range c {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

// FromRows builds a configuration from [][]float64 rows of length 3.
func FromRows(rows [][]float64) (Configuration, error) {
	c := make(Configuration, len(rows))
	for i, r := range rows {
		if len(r) != 3 {
			return nil, &SimulationError{Step: -1, Wrapped: ErrDimensionMismatch}
		}
		c[i] = Vec3{r[0], r[1], r[2]}
	}
	return c, nil
}

// Rows is the inverse of FromRows.
func (c Configuration) Rows() [][]float64 {
	rows := make([][]float64, len(c))
	for i, p := range c {
		rows[i] = []float64{p[0], p[1], p[2]}
	}
	return rows
}
