package geometry

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/san-kum/ljsim/internal/dynamo"
)

func TestMinimumImage(t *testing.T) {
	tests := []struct {
		name     string
		p1, p2   dynamo.Vec3
		l        float64
		expected float64
	}{
		{"same point", dynamo.Vec3{1, 1, 1}, dynamo.Vec3{1, 1, 1}, 10, 0},
		{"inside box", dynamo.Vec3{0, 0, 0}, dynamo.Vec3{3, 0, 0}, 10, 3},
		{"wraps across boundary", dynamo.Vec3{0.5, 0, 0}, dynamo.Vec3{9.5, 0, 0}, 10, 1},
		{"half box", dynamo.Vec3{0, 0, 0}, dynamo.Vec3{5, 0, 0}, 10, 5},
		{"image one box away", dynamo.Vec3{0, 0, 0}, dynamo.Vec3{15, 0, 0}, 10, 5},
		{"diagonal", dynamo.Vec3{0, 0, 0}, dynamo.Vec3{9, 9, 9}, 10, math.Sqrt(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			g.Expect(PBCDistance(tt.p1, tt.p2, tt.l)).To(BeNumerically("~", tt.expected, 1e-12))
		})
	}
}

func TestMinimumImage_RoundsHalfToEven(t *testing.T) {
	g := NewWithT(t)
	d := MinimumImage(dynamo.Vec3{0, 0, 0}, dynamo.Vec3{5, 0, 0}, 10)
	g.Expect(d[0]).To(Equal(-5.0))
}

func TestDistanceMatrix_LowerTriangular(t *testing.T) {
	g := NewWithT(t)
	c := dynamo.Configuration{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}}
	m := DistanceMatrix(c, 10)

	g.Expect(m).To(HaveLen(3))
	for i := range m {
		g.Expect(m[i][i]).To(BeZero())
		for j := i + 1; j < len(m); j++ {
			g.Expect(m[i][j]).To(BeZero(), "upper triangle must stay empty")
		}
	}
	g.Expect(m[1][0]).To(BeNumerically("~", 1, 1e-12))
	g.Expect(m[2][0]).To(BeNumerically("~", 2, 1e-12))
	g.Expect(m[2][1]).To(BeNumerically("~", math.Sqrt(5), 1e-12))
}

func TestEuclideanMatrix_FullAndUnwrapped(t *testing.T) {
	g := NewWithT(t)
	c := dynamo.Configuration{{0.5, 0, 0}, {9.5, 0, 0}}
	m := EuclideanMatrix(c)

	g.Expect(m[0][1]).To(BeNumerically("~", 9, 1e-12))
	g.Expect(m[1][0]).To(Equal(m[0][1]))
	g.Expect(m[0][0]).To(BeZero())
}
