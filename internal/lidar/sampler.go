package lidar

import (
	"github.com/banshee-data/scansim/internal/geom"
	"github.com/banshee-data/scansim/internal/scene"
)

// Scene is the collaborator contract with the physics/scene engine. Both
// queries are answered for a simulated timestamp, never wall-clock time.
// *scene.World satisfies it; tests use small fakes.
type Scene interface {
	// CastRay returns the nearest hit for a world-frame ray, or ok=false
	// when the ray escapes the scene.
	CastRay(timeSeconds float64, origin, dir geom.Vec3) (scene.Hit, bool, error)
	// BodyPose returns the pose of a mounted body at the given time.
	BodyPose(id scene.BodyID, timeSeconds float64) (geom.Pose, error)
}

// intensityFalloff controls the quadratic range attenuation applied to
// surface reflectance when computing return intensity.
const intensityFalloff = 0.01

// hitIntensity converts a surface reflectance and range into a return
// intensity. Monotone in reflectance, decreasing in range, and always above
// NoReturnEpsilon for ranges a scanning lidar can plausibly resolve.
func hitIntensity(reflectance, rangeMeters float64) float32 {
	return float32(reflectance / (1 + intensityFalloff*rangeMeters*rangeMeters))
}

// sampleScan runs the ray-sampling kernel for one scan cycle: every beam of
// the precomputed direction grid is expanded into its sub-ray pattern,
// transformed through sensorPose into the world frame, cast against the
// scene at sampleTime, and reduced to one sample per the configured return
// mode. Scene query errors degrade to "no hit" for the affected sub-ray;
// the count of such failures is returned for logging.
func sampleScan(sc Scene, sensorPose geom.Pose, cfg *ScanConfig, beams []geom.Vec3, pattern []subRayOffset, sampleTime float64, out []DISample) (queryFailures int) {
	origin := sensorPose.Pos
	scratch := make([]geom.Vec3, 0, len(pattern))

	for i, nominal := range beams {
		scratch = subRayDirections(nominal, cfg.DivergenceAngleRadians, pattern, scratch)

		var (
			hits      int
			sumRange  float64
			sumInt    float64
			bestRange float32
			bestInt   float32
		)

		for _, local := range scratch {
			world := sensorPose.TransformDir(local)
			hit, ok, err := sc.CastRay(sampleTime, origin, world)
			if err != nil {
				queryFailures++
				continue
			}
			if !ok {
				continue
			}

			r := float32(hit.RangeMeters)
			in := hitIntensity(hit.Reflectance, hit.RangeMeters)
			if hits == 0 {
				bestRange, bestInt = r, in
			} else {
				switch cfg.Mode {
				case StrongestReturn:
					if in > bestInt {
						bestRange, bestInt = r, in
					}
				case FirstReturn:
					if r < bestRange {
						bestRange, bestInt = r, in
					}
				case LastReturn:
					if r > bestRange {
						bestRange, bestInt = r, in
					}
				}
			}
			sumRange += float64(r)
			sumInt += float64(in)
			hits++
		}

		if hits == 0 {
			out[i] = DISample{RangeMeters: NoReturnRange, Intensity: 0}
			continue
		}
		if cfg.Mode == MeanReturn {
			out[i] = DISample{
				RangeMeters: float32(sumRange / float64(hits)),
				Intensity:   float32(sumInt / float64(hits)),
			}
			continue
		}
		out[i] = DISample{RangeMeters: bestRange, Intensity: bestInt}
	}
	return queryFailures
}
