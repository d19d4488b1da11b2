// Package scene provides the analytic world the simulated sensors sample:
// an arena of rigid bodies with shapes that answer nearest-hit ray queries
// and report their pose at any simulated instant.
package scene

import (
	"fmt"
	"math"

	"github.com/banshee-data/scansim/internal/geom"
)

// BodyID is a stable index into the world's body arena. Bodies are never
// removed, so an ID stays valid for the lifetime of the world.
type BodyID int

// InvalidBody is returned by AddBody on error and rejected by lookups.
const InvalidBody BodyID = -1

// MotionFunc reports a body's pose at a simulated time. Bodies without a
// motion function hold their base pose.
type MotionFunc func(timeSeconds float64) geom.Pose

// Body is one rigid body: an optional shape to be sensed, a base pose and an
// optional scripted motion.
type Body struct {
	Name        string
	Shape       Shape // nil for invisible bodies (pure mounts)
	Reflectance float64
	BasePose    geom.Pose
	Motion      MotionFunc
}

// Hit is the result of a successful ray query.
type Hit struct {
	RangeMeters float64
	Reflectance float64
	Body        BodyID
}

// World is an arena of bodies sharing one simulation clock. It is the
// physics collaborator for the sensor package: ray casts and pose lookups
// are answered against the scripted state at the requested simulated time,
// not wall-clock time.
type World struct {
	bodies []Body
}

// NewWorld returns an empty world.
func NewWorld() *World { return &World{} }

// AddBody appends a body to the arena and returns its stable ID.
func (w *World) AddBody(b Body) BodyID {
	if b.Reflectance == 0 {
		b.Reflectance = 1.0
	}
	if b.BasePose.Rot == (geom.Quat{}) {
		b.BasePose.Rot = geom.QuatIdentity()
	}
	w.bodies = append(w.bodies, b)
	return BodyID(len(w.bodies) - 1)
}

// BodyCount returns the number of bodies in the arena.
func (w *World) BodyCount() int { return len(w.bodies) }

// BodyPose returns the pose of a body at the given simulated time.
func (w *World) BodyPose(id BodyID, timeSeconds float64) (geom.Pose, error) {
	if id < 0 || int(id) >= len(w.bodies) {
		return geom.PoseIdentity(), fmt.Errorf("scene: no body with id %d", id)
	}
	b := &w.bodies[id]
	if b.Motion != nil {
		return b.Motion(timeSeconds), nil
	}
	return b.BasePose, nil
}

// CastRay casts a world-frame ray at the given simulated time and returns
// the nearest hit across all bodies. dir must be unit length. ok=false
// means the ray escaped the scene.
func (w *World) CastRay(timeSeconds float64, origin, dir geom.Vec3) (Hit, bool, error) {
	best := Hit{RangeMeters: math.Inf(1), Body: InvalidBody}
	found := false

	for i := range w.bodies {
		b := &w.bodies[i]
		if b.Shape == nil {
			continue
		}
		pose := b.BasePose
		if b.Motion != nil {
			pose = b.Motion(timeSeconds)
		}
		// Transform the ray into the body's local frame.
		inv := pose.Inverse()
		localOrigin := inv.Transform(origin)
		localDir := inv.TransformDir(dir)

		t, ok := b.Shape.Intersect(localOrigin, localDir)
		if !ok || t >= best.RangeMeters {
			continue
		}
		best = Hit{RangeMeters: t, Reflectance: b.Reflectance, Body: BodyID(i)}
		found = true
	}

	return best, found, nil
}
