// Package random supplies the uniform random numbers the engines draw for
// candidate positions, initial velocities and Metropolis decisions.
//
// Engines depend only on [Source]; tests substitute [Fixed] or [Sequence]
// for reproducible draws.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/san-kum/ljsim/internal/dynamo"
)

// Source yields uniform floats in [0, 1).
type Source interface {
	Float64() float64
}

// RNG is a deterministic PCG-backed Source.
type RNG struct {
	r    *rand.Rand
	seed int64
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0)), seed: seed}
}

func (r *RNG) Float64() float64 { return r.r.Float64() }

func (r *RNG) Seed() int64 { return r.seed }

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Uniform draws one value in [a, b).
func Uniform(src Source, a, b float64) float64 {
	return a + (b-a)*src.Float64()
}

// UniformConfiguration draws an n×3 configuration with every component in [a, b).
// Components are drawn in row-major order.
func UniformConfiguration(src Source, n int, a, b float64) dynamo.Configuration {
	c := dynamo.NewConfiguration(n)
	for i := range c {
		for k := 0; k < 3; k++ {
			c[i][k] = Uniform(src, a, b)
		}
	}
	return c
}

// Fixed always returns the same value.
type Fixed float64

func (f Fixed) Float64() float64 { return float64(f) }

// Sequence replays a fixed list of values, cycling when exhausted.
type Sequence struct {
	Values []float64
	pos    int
}

func NewSequence(values ...float64) *Sequence {
	return &Sequence{Values: values}
}

func (s *Sequence) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}
