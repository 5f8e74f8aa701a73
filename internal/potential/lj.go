// Package potential implements the Lennard-Jones energy and force laws.
//
// Energies are smoothly truncated: pairs closer than 2σ use the raw
// potential, pairs between 2σ and 3σ are scaled by a quintic switching
// function, and pairs beyond 3σ do not interact.
//
// Forces are NOT switched and not truncated. The force law is the derivative
// of the raw potential, so between 2σ and 3σ it is not the gradient of the
// switched energy.
package potential

import (
	"math"

	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/geometry"
	"gonum.org/v1/gonum/floats"
)

// LennardJones holds the well depth (kcal/mol) and length scale (angstrom).
type LennardJones struct {
	Epsilon float64
	Sigma   float64
}

func New(epsilon, sigma float64) LennardJones {
	return LennardJones{Epsilon: epsilon, Sigma: sigma}
}

// Switch is S(x) = 1 - 6x^5 + 15x^4 - 10x^3. S(0)=1, S(1)=0, S'(0)=S'(1)=0.
func Switch(x float64) float64 {
	return 1 - 6*math.Pow(x, 5) + 15*math.Pow(x, 4) - 10*math.Pow(x, 3)
}

// Cutoff is the distance beyond which pairs do not interact.
func (lj LennardJones) Cutoff() float64 { return 3 * lj.Sigma }

// SwitchOn is the distance where switching starts.
func (lj LennardJones) SwitchOn() float64 { return 2 * lj.Sigma }

// SwitchFactor returns the switching multiplier for a pair at distance r.
func (lj LennardJones) SwitchFactor(r float64) float64 {
	switch {
	case r > lj.Cutoff():
		return 0
	case r > lj.SwitchOn():
		return Switch((r - lj.SwitchOn()) / lj.Sigma)
	}
	return 1
}

// Raw is 4ε[(σ/r)^12 - (σ/r)^6], with r == 0 treated as no interaction.
func (lj LennardJones) Raw(r float64) float64 {
	inv := reciprocal(r)
	sr := lj.Sigma * inv
	return 4 * lj.Epsilon * (math.Pow(sr, 12) - math.Pow(sr, 6))
}

// PairEnergy is the switched pair energy at distance r.
func (lj LennardJones) PairEnergy(r float64) float64 {
	if r > lj.Cutoff() {
		return 0
	}
	return lj.SwitchFactor(r) * lj.Raw(r)
}

// TotalEnergy sums pair energies over the populated lower triangle of a
// distance matrix from geometry.DistanceMatrix. Entries above the diagonal
// are ignored.
func (lj LennardJones) TotalEnergy(dist [][]float64) float64 {
	terms := make([]float64, 0, len(dist)*len(dist)/2)
	for i := range dist {
		for j := 0; j <= i; j++ {
			terms = append(terms, lj.PairEnergy(dist[i][j]))
		}
	}
	return floats.Sum(terms)
}

// PotentialEnergy evaluates the total switched energy of a configuration in a
// periodic box of edge l.
func (lj LennardJones) PotentialEnergy(c dynamo.Configuration, l float64) float64 {
	return lj.TotalEnergy(geometry.DistanceMatrix(c, l))
}

// ForceMagnitude is 48εσ^12/r^13 - 24εσ^6/r^7. Positive values repel.
// r == 0 yields zero.
func (lj LennardJones) ForceMagnitude(r float64) float64 {
	inv := reciprocal(r)
	return 48*lj.Epsilon*math.Pow(lj.Sigma, 12)*math.Pow(inv, 13) -
		24*lj.Epsilon*math.Pow(lj.Sigma, 6)*math.Pow(inv, 7)
}

// ForceTensor returns the N×N pairwise force tensor over every ordered pair.
// Entry [i][j] is the force j exerts on i, directed along the unit vector
// from j to i. Distances come from the full, unwrapped Euclidean matrix.
// Self pairs and coincident particles contribute zero.
func (lj LennardJones) ForceTensor(c dynamo.Configuration) [][]dynamo.Vec3 {
	n := len(c)
	dist := geometry.EuclideanMatrix(c)
	backing := make([]dynamo.Vec3, n*n)
	f := make([][]dynamo.Vec3, n)
	for i := range f {
		f[i] = backing[i*n : (i+1)*n]
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r := dist[i][j]
			if i == j || r == 0 {
				continue
			}
			u := geometry.Displacement(c[i], c[j]).Scale(1 / r)
			f[i][j] = u.Scale(lj.ForceMagnitude(r))
		}
	}
	return f
}

// NetForces sums a force tensor over its second axis.
func NetForces(tensor [][]dynamo.Vec3) dynamo.Configuration {
	net := dynamo.NewConfiguration(len(tensor))
	for i, row := range tensor {
		var sum dynamo.Vec3
		for _, f := range row {
			sum = sum.Add(f)
		}
		net[i] = sum
	}
	return net
}

// Forces is NetForces(ForceTensor(c)).
func (lj LennardJones) Forces(c dynamo.Configuration) dynamo.Configuration {
	return NetForces(lj.ForceTensor(c))
}

func reciprocal(r float64) float64 {
	if r == 0 {
		return 0
	}
	return 1 / r
}
