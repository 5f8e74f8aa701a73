// Package dynamo provides the shared primitives for Lennard-Jones particle
// simulations.
//
// The package defines the value types every engine passes around:
//
//   - [Vec3]: a 3D vector (position, velocity or force of one particle)
//   - [Configuration]: an N×3 array, one [Vec3] per particle
//
// and the error taxonomy used across the module ([ConfigurationError],
// [SimulationError] and the Err* sentinels).
//
// # Thread Safety
//
// Engines built on these types are NOT thread-safe. Each run owns its
// state exclusively; start separate engines for separate runs.
package dynamo
