// Command scansim runs a simulated scanning lidar against an analytic test
// scene: a ground plane, two walls and a box orbiting the origin. Two
// sensors observe the scene, an idealized single-ray unit and a modeled
// unit with beam divergence, multi-ray sampling and range noise. Published
// buffers can be persisted to sqlite/CSV and rendered to PNG heatmaps and
// HTML scatter pages.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/scansim/internal/config"
	"github.com/banshee-data/scansim/internal/geom"
	"github.com/banshee-data/scansim/internal/lidar"
	"github.com/banshee-data/scansim/internal/lidar/store"
	"github.com/banshee-data/scansim/internal/lidar/visual"
	"github.com/banshee-data/scansim/internal/scene"
	"github.com/banshee-data/scansim/internal/units"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON tuning config (optional)")
	outputDir := flag.String("output", "", "output directory (overrides config)")
	saveClouds := flag.Bool("save", false, "persist point clouds to sqlite and CSV")
	visualize := flag.Bool("vis", false, "render depth heatmaps and cloud scatter pages")
	duration := flag.Float64("duration", 0, "simulated seconds to run (overrides config)")
	flag.Parse()

	cfg := config.EmptySimConfig()
	if *configPath != "" {
		loaded, err := config.LoadSimConfig(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	if err := run(cfg, *outputDir, *saveClouds, *visualize, *duration); err != nil {
		log.Fatalf("scansim: %v", err)
	}
}

func run(cfg *config.SimConfig, outputDir string, saveClouds, visualize bool, duration float64) error {
	if outputDir == "" {
		outputDir = cfg.GetOutputDir()
	}
	saveClouds = saveClouds || cfg.GetSaveClouds()
	visualize = visualize || cfg.GetVisualize()
	if duration <= 0 {
		duration = cfg.GetDurationSeconds()
	}

	world, orbiter := buildWorld()
	manager := lidar.NewSensorManager(world)

	scan := lidar.ScanConfig{
		HorizontalSamples:    cfg.GetHorizontalSamples(),
		VerticalSamples:      cfg.GetVerticalSamples(),
		HorizontalFOVRadians: units.DegToRad(cfg.GetHorizontalFOVDegrees()),
		MinVerticalRadians:   units.DegToRad(cfg.GetMinVerticalDegrees()),
		MaxVerticalRadians:   units.DegToRad(cfg.GetMaxVerticalDegrees()),
	}

	mount := geom.Pose{Pos: geom.Vec3{Z: 1.0}, Rot: geom.QuatIdentity()}

	ideal, err := lidar.NewSensor(lidar.SensorConfig{
		Name:                    "lidar-ideal",
		Body:                    orbiter,
		Offset:                  mount,
		Scan:                    scan,
		UpdateRateHz:            cfg.GetUpdateRateHz(),
		CollectionWindowSeconds: cfg.GetCollectionWindowSeconds(),
		LagSeconds:              cfg.GetLagSeconds(),
	})
	if err != nil {
		return fmt.Errorf("building ideal sensor: %w", err)
	}

	modelScan := scan
	modelScan.SampleRadius = cfg.GetSampleRadius()
	modelScan.DivergenceAngleRadians = cfg.GetDivergenceAngleRadians()
	modelScan.Mode = lidar.MeanReturn

	model, err := lidar.NewSensor(lidar.SensorConfig{
		Name:                    "lidar-model",
		Body:                    orbiter,
		Offset:                  mount,
		Scan:                    modelScan,
		UpdateRateHz:            cfg.GetUpdateRateHz(),
		CollectionWindowSeconds: cfg.GetCollectionWindowSeconds(),
		LagSeconds:              cfg.GetLagSeconds(),
	})
	if err != nil {
		return fmt.Errorf("building model sensor: %w", err)
	}

	ideal.PushFilter(lidar.DIAccess{})

	model.PushFilter(lidar.NoiseFilter{Model: lidar.NewNoiseConstNormal(
		0, cfg.GetRangeNoiseStdDev(), 0, cfg.GetIntensityNoiseStdDev(),
		uint64(cfg.GetNoiseSeed()))})
	model.PushFilter(lidar.PCFromDepth{})

	if visualize {
		depth, err := visual.NewDepthPlotter(filepath.Join(outputDir, "depth"))
		if err != nil {
			return err
		}
		cloud, err := visual.NewCloudScatter(filepath.Join(outputDir, "cloud"))
		if err != nil {
			return err
		}
		model.PushFilter(lidar.VisualizeDepth{Label: "Raw Lidar Depth Data", Renderer: depth})
		model.PushFilter(lidar.VisualizeCloud{Label: "Lidar Point Cloud", Renderer: cloud})
	}

	var cloudStore *store.CloudStore
	if saveClouds {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		dsn := cfg.GetDatabaseDSN()
		if dsn == "" {
			dsn = filepath.Join(outputDir, "scans.db")
		}
		cloudStore, err = store.NewCloudStore(dsn)
		if err != nil {
			return fmt.Errorf("opening cloud store: %w", err)
		}
		defer cloudStore.Close()
		model.PushFilter(lidar.SavePointCloud{Writer: cloudStore})

		csvWriter, err := store.NewCSVWriter(filepath.Join(outputDir, "csv"))
		if err != nil {
			return err
		}
		model.PushFilter(lidar.SavePointCloud{Writer: csvWriter})
	}

	model.PushFilter(lidar.DIAccess{})
	model.PushFilter(lidar.XYZIAccess{})

	if err := manager.AddSensor(ideal); err != nil {
		return err
	}
	if err := manager.AddSensor(model); err != nil {
		return err
	}
	defer manager.Close()

	step := cfg.GetStepDuration().Seconds()
	steps := int(math.Ceil(duration / step))
	log.Printf("running %d steps of %.3fms (%.1fs simulated), %d beams per cycle",
		steps, step*1e3, duration, scan.BeamCount())

	var (
		lastIdeal float64 = -1
		errSum    float64
		errCount  int
	)
	for i := 0; i < steps; i++ {
		manager.Update(step)

		idealBuf := manager.MostRecentDIBuffer(ideal)
		modelBuf := manager.MostRecentDIBuffer(model)
		if !idealBuf.Valid || !modelBuf.Valid {
			continue
		}
		// Compare only when both sensors have fresh, matching cycles.
		if idealBuf.LaunchSeconds == lastIdeal || idealBuf.LaunchSeconds != modelBuf.LaunchSeconds {
			continue
		}
		lastIdeal = idealBuf.LaunchSeconds

		sum, n := meanAbsRangeError(idealBuf, modelBuf)
		errSum += sum
		errCount += n
		if n > 0 {
			log.Printf("t=%.3fs cycle error: mean |range| deviation %.4fm over %d beams",
				idealBuf.LaunchSeconds, sum/float64(n), n)
		}
	}

	if errCount > 0 {
		log.Printf("overall mean |range| deviation: %.4fm over %d beam comparisons",
			errSum/float64(errCount), errCount)
	}
	if cloudStore != nil {
		for _, name := range []string{ideal.Name(), model.Name()} {
			n, err := cloudStore.CycleCount(name)
			if err == nil {
				log.Printf("sensor %s: %d cycles persisted", name, n)
			}
		}
	}
	log.Printf("done at t=%.3fs", manager.TimeSeconds())
	return nil
}

// buildWorld assembles the demo scene and returns it with the body the
// sensors are mounted on.
func buildWorld() (*scene.World, scene.BodyID) {
	world := scene.NewWorld()

	world.AddBody(scene.Body{
		Name:        "ground",
		Shape:       scene.Plane{Point: geom.Vec3{Z: -1}, Normal: geom.Vec3{Z: 1}},
		Reflectance: 0.3,
	})
	world.AddBody(scene.Body{
		Name:        "wall-east",
		Shape:       scene.Box{HalfExtents: geom.Vec3{X: 0.5, Y: 12, Z: 5}},
		Reflectance: 0.8,
		BasePose:    geom.Pose{Pos: geom.Vec3{X: 10}, Rot: geom.QuatIdentity()},
	})
	world.AddBody(scene.Body{
		Name:        "wall-west",
		Shape:       scene.Box{HalfExtents: geom.Vec3{X: 0.5, Y: 12, Z: 5}},
		Reflectance: 0.8,
		BasePose:    geom.Pose{Pos: geom.Vec3{X: -10}, Rot: geom.QuatIdentity()},
	})
	world.AddBody(scene.Body{
		Name:        "pillar",
		Shape:       scene.Sphere{Radius: 1.5},
		Reflectance: 0.95,
		BasePose:    geom.Pose{Pos: geom.Vec3{Y: 6, Z: 0.5}, Rot: geom.QuatIdentity()},
	})

	// The sensor mount orbits the origin at 3m radius, yawing to face
	// along its direction of travel.
	orbiter := world.AddBody(scene.Body{
		Name:  "orbiter",
		Shape: scene.Box{HalfExtents: geom.Vec3{X: 0.3, Y: 0.3, Z: 0.3}},
		Motion: func(t float64) geom.Pose {
			angle := 0.2 * t
			return geom.Pose{
				Pos: geom.Vec3{X: 3 * math.Cos(angle), Y: 3 * math.Sin(angle)},
				Rot: geom.QuatFromAxisAngle(geom.Vec3{Z: 1}, angle),
			}
		},
	})

	return world, orbiter
}

// meanAbsRangeError sums absolute per-beam range differences between two
// equally shaped buffers, skipping beams where either side saw no return.
func meanAbsRangeError(a, b *lidar.DIBuffer) (sum float64, n int) {
	if a.Width != b.Width || a.Height != b.Height || len(a.Data) != len(b.Data) {
		return 0, 0
	}
	for i := range a.Data {
		if a.Data[i].NoReturn() || b.Data[i].NoReturn() {
			continue
		}
		sum += math.Abs(float64(a.Data[i].RangeMeters - b.Data[i].RangeMeters))
		n++
	}
	return sum, n
}
