package experiment

import (
	"fmt"
	"math"

	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/random"
)

// Lattice places n particles on a simple cubic grid filling a box of edge l.
// Sites are cell centres, filled x fastest.
func Lattice(n int, l float64) (dynamo.Configuration, error) {
	if n <= 0 {
		return nil, fmt.Errorf("lattice: %w: need at least one particle, got %d", dynamo.ErrInvalidArgument, n)
	}
	if l <= 0 {
		return nil, fmt.Errorf("lattice: %w: box edge must be positive, got %g", dynamo.ErrInvalidArgument, l)
	}

	k := int(math.Ceil(math.Cbrt(float64(n))))
	for k*k*k < n {
		k++
	}
	a := l / float64(k)

	c := dynamo.NewConfiguration(n)
	for i := range c {
		ix := i % k
		iy := (i / k) % k
		iz := i / (k * k)
		c[i] = dynamo.Vec3{(float64(ix) + 0.5) * a, (float64(iy) + 0.5) * a, (float64(iz) + 0.5) * a}
	}
	return c, nil
}

// RandomTopology draws n positions uniformly in [0, l).
func RandomTopology(src random.Source, n int, l float64) dynamo.Configuration {
	return random.UniformConfiguration(src, n, 0, l)
}
