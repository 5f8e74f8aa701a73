package md_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ljsim/internal/dynamo"
	"github.com/san-kum/ljsim/internal/integrators"
	"github.com/san-kum/ljsim/internal/md"
	"github.com/san-kum/ljsim/internal/random"
	"github.com/san-kum/ljsim/internal/units"
)

var rmin = math.Pow(2, 1.0/6) * md.DefaultSigma

func equilibriumPair() dynamo.Configuration {
	return dynamo.Configuration{{5, 5, 5}, {5 + rmin, 5, 5}}
}

var _ = Describe("Engine", func() {
	Describe("construction", func() {
		It("applies the documented defaults", func() {
			e, err := md.New(equilibriumPair(), 20, md.Options{Random: random.Fixed(0.5)})
			Expect(err).NotTo(HaveOccurred())

			p := e.Params()
			Expect(p.Epsilon).To(Equal(0.238))
			Expect(p.Sigma).To(Equal(3.4))
			Expect(p.Temperature).To(Equal(298.0))
			Expect(p.NParticles).To(Equal(2))
			Expect(e.Timestep()).To(Equal(2.5e-15))
			Expect(e.Mass()).To(BeNumerically("~", 39.9*units.DaltonKilograms, 1e-40))
		})

		It("accepts tagged quantities", func() {
			e, err := md.New(equilibriumPair(), 20, md.Options{
				Epsilon: units.Q(1, "kJ/mol"),
				Sigma:   units.Q(0.34, "nm"),
				Random:  random.Fixed(0.5),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Params().Epsilon).To(BeNumerically("~", 1/4.184, 1e-12))
			Expect(e.Params().Sigma).To(BeNumerically("~", 3.4, 1e-12))
		})

		It("requires a topology", func() {
			_, err := md.New(nil, 20, md.Options{})
			var cerr *dynamo.ConfigurationError
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Parameter).To(Equal("topology"))
		})

		It("rejects parameters of the wrong type", func() {
			_, err := md.New(equilibriumPair(), 20, md.Options{Epsilon: struct{}{}})
			Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
		})

		It("rejects initial velocities of the wrong shape", func() {
			_, err := md.New(equilibriumPair(), 20, md.Options{InitialVelocities: dynamo.Configuration{{0, 0, 0}}})
			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})
	})

	Describe("the bootstrap step", func() {
		It("records the topology, initial kinetic energy and a self-consistent half kick", func() {
			topology := dynamo.Configuration{{1, 1, 1}, {4.5, 1, 1}, {1, 5, 1}}
			e, err := md.New(topology, 20, md.Options{Random: random.Fixed(0.75)})
			Expect(err).NotTo(HaveOccurred())

			_, err = e.Step()
			Expect(err).NotTo(HaveOccurred())

			v0 := random.UniformConfiguration(random.Fixed(0.75), 3, -0.1, 0.1)
			Expect(v0[2][1]).To(BeNumerically("~", 0.05, 1e-15))
			Expect(e.KineticEnergies()[0]).To(Equal(e.CalcKineticEnergy(v0)))
			Expect(e.PotentialEnergies()[0]).To(Equal(e.CalcPotentialEnergy(topology)))
			Expect(e.Trajectories()[0]).To(Equal(topology))

			f := e.CalcForce(topology)
			vv := integrators.NewVelocityVerlet(e.Timestep(), e.Mass(), 20)
			Expect(e.Velocities()[0]).To(Equal(vv.Velocity(v0, f, f)))
		})

		It("uses supplied initial velocities", func() {
			v0 := dynamo.Configuration{{1, 0, 0}, {-1, 0, 0}}
			e, err := md.New(equilibriumPair(), 20, md.Options{InitialVelocities: v0})
			Expect(err).NotTo(HaveOccurred())
			_, err = e.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(e.KineticEnergies()[0]).To(BeNumerically("~", e.Mass(), 1e-40))
		})
	})

	Describe("steady-state steps", func() {
		It("advance with the velocity-Verlet rules", func() {
			topology := dynamo.Configuration{{1, 1, 1}, {4.5, 1, 1}}
			e, err := md.New(topology, 20, md.Options{Random: random.NewRNG(9)})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Run(context.Background(), 2)).To(Succeed())

			vv := integrators.NewVelocityVerlet(e.Timestep(), e.Mass(), 20)
			pos0 := e.Trajectories()[0]
			vel0 := e.Velocities()[0]
			f0 := e.CalcForce(pos0)

			pos1 := vv.Position(pos0, vel0, f0)
			Expect(e.Trajectories()[1]).To(Equal(pos1))

			f1 := e.CalcForce(pos1)
			vel1 := vv.Velocity(vel0, f0, f1)
			Expect(e.Velocities()[1]).To(Equal(vel1))
			Expect(e.KineticEnergies()[1]).To(Equal(e.CalcKineticEnergy(vel1)))
			Expect(e.PotentialEnergies()[1]).To(Equal(e.CalcPotentialEnergy(pos1)))
		})

		It("runs exactly the requested number of steps", func() {
			e, err := md.New(equilibriumPair(), 20, md.Options{Random: random.NewRNG(1)})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Run(context.Background(), 25)).To(Succeed())

			Expect(e.StepsTaken()).To(Equal(25))
			Expect(e.Trajectories()).To(HaveLen(25))
			Expect(e.Velocities()).To(HaveLen(25))
			Expect(e.PotentialEnergies()).To(HaveLen(25))
			Expect(e.KineticEnergies()).To(HaveLen(25))
		})

		It("replays identically for the same seed", func() {
			run := func() []dynamo.Configuration {
				e, err := md.New(equilibriumPair(), 20, md.Options{Random: random.NewRNG(77)})
				Expect(err).NotTo(HaveOccurred())
				Expect(e.Run(context.Background(), 10)).To(Succeed())
				return e.Trajectories()
			}
			Expect(run()).To(Equal(run()))
		})
	})

	Describe("energy conservation", func() {
		It("keeps total energy of an equilibrium pair within 5% of the well depth", func() {
			e, err := md.New(equilibriumPair(), 20, md.Options{Random: random.Fixed(0.5)})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Run(context.Background(), 100)).To(Succeed())

			pot := e.PotentialEnergies()
			kin := e.KineticEnergies()
			Expect(pot[0]).To(BeNumerically("~", -md.DefaultEpsilon, 1e-9))
			Expect(kin[0]).To(Equal(0.0))

			e0 := pot[0] + kin[0]
			for i := range pot {
				Expect(math.Abs(pot[i]+kin[i]-e0)).To(BeNumerically("<", 0.05*md.DefaultEpsilon), "step %d", i)
			}
		})
	})

	Describe("cancellation", func() {
		It("stops between steps when the context is done", func() {
			e, err := md.New(equilibriumPair(), 20, md.Options{Random: random.Fixed(0.5)})
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err = e.Run(ctx, 10)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(e.StepsTaken()).To(Equal(0))
		})
	})
})
