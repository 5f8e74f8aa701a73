// Package geometry computes pairwise displacements and distances for
// particles in a cubic periodic box.
package geometry

import (
	"math"

	"github.com/san-kum/ljsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Displacement returns the raw p1 - p2, without periodic wrapping.
func Displacement(p1, p2 dynamo.Vec3) dynamo.Vec3 {
	return p1.Sub(p2)
}

// MinimumImage returns p1 - p2 - L*round((p1-p2)/L) per axis.
// Halves round to even, so a pair exactly half a box apart along an axis
// keeps a displacement of +L/2 or -L/2 depending on the parity of the ratio.
func MinimumImage(p1, p2 dynamo.Vec3, l float64) dynamo.Vec3 {
	var d dynamo.Vec3
	for k := range d {
		diff := p1[k] - p2[k]
		d[k] = diff - l*math.RoundToEven(diff/l)
	}
	return d
}

// PBCDistance is the Euclidean norm of the minimum-image displacement.
func PBCDistance(p1, p2 dynamo.Vec3, l float64) float64 {
	d := MinimumImage(p1, p2, l)
	return floats.Norm(d[:], 2)
}

// DistanceMatrix returns the N×N minimum-image distance matrix with only the
// lower triangle (i >= j) populated. Entries with i < j are zero and must not
// be read as distances; the diagonal is always zero.
func DistanceMatrix(c dynamo.Configuration, l float64) [][]float64 {
	n := len(c)
	m := newSquare(n)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			m[i][j] = PBCDistance(c[i], c[j], l)
		}
	}
	return m
}

// EuclideanMatrix returns the full symmetric N×N matrix of plain Euclidean
// distances. No periodic wrapping is applied.
func EuclideanMatrix(c dynamo.Configuration) [][]float64 {
	n := len(c)
	m := newSquare(n)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			d := Displacement(c[i], c[j])
			r := floats.Norm(d[:], 2)
			m[i][j] = r
			m[j][i] = r
		}
	}
	return m
}

func newSquare(n int) [][]float64 {
	backing := make([]float64, n*n)
	m := make([][]float64, n)
	for i := range m {
		m[i] = backing[i*n : (i+1)*n]
	}
	return m
}
