// Package lidar implements a simulated scanning range sensor: deterministic
// scan geometry, multi-ray beam sampling against an analytic scene, a
// composable per-sensor filter chain over timestamped buffers, and a
// scheduler/manager pair that runs sensors in lockstep with a simulation
// loop while keeping most-recent-buffer queries non-blocking.
//
// The package does not talk to hardware. The scene collaborator answers
// nearest-hit ray queries and body pose lookups at simulated timestamps; see
// internal/scene for the analytic implementation used in production and the
// tests for flat-plane fakes.
package lidar
