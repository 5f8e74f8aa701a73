package integrators

import "github.com/san-kum/ljsim/internal/dynamo"

// VelocityVerlet holds the fixed parameters of a velocity-Verlet run.
type VelocityVerlet struct {
	Dt        float64
	Mass      float64
	BoxLength float64
}

func NewVelocityVerlet(dt, mass, boxLength float64) *VelocityVerlet {
	return &VelocityVerlet{Dt: dt, Mass: mass, BoxLength: boxLength}
}

// Position returns x + v*dt + 0.5*(F/m)*dt^2. A coordinate that ends up
// beyond the box edge is wrapped by subtracting the box length once; larger
// excursions and negative coordinates are left as they are.
func (v *VelocityVerlet) Position(x, vel, force dynamo.Configuration) dynamo.Configuration {
	out := dynamo.NewConfiguration(len(x))
	dt2 := v.Dt * v.Dt
	for i := range x {
		for k := 0; k < 3; k++ {
			p := x[i][k] + vel[i][k]*v.Dt + 0.5*(force[i][k]/v.Mass)*dt2
			if p > v.BoxLength {
				p -= v.BoxLength
			}
			out[i][k] = p
		}
	}
	return out
}

// Velocity returns v + 0.5*((F_last + F_this)/m)*dt.
func (v *VelocityVerlet) Velocity(vel, lastForce, thisForce dynamo.Configuration) dynamo.Configuration {
	out := dynamo.NewConfiguration(len(vel))
	halfDt := 0.5 * v.Dt
	for i := range vel {
		for k := 0; k < 3; k++ {
			out[i][k] = vel[i][k] + ((lastForce[i][k]+thisForce[i][k])/v.Mass)*halfDt
		}
	}
	return out
}
