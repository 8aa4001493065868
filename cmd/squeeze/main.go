package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"texsqueeze/internal/backup"
	"texsqueeze/internal/batch"
	"texsqueeze/internal/config"
	"texsqueeze/internal/distance"
	"texsqueeze/internal/logging"
	"texsqueeze/internal/scene"
	"texsqueeze/internal/texture"
)

const usageModes = "all | selected | distance | detect | restore | restore-all"

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	mode := flag.String("mode", "all", "Operation: "+usageModes)
	scenePath := flag.String("scene", "", "Path to scene YAML file")
	textureDir := flag.String("textures", "", "Directory searched for textures named in the scene (default: scene dir)")
	saveDir := flag.String("save", "", "Directory for originals and quality variants")
	qualityName := flag.String("quality", "", "Fixed quality: 4096, 2048, 1024, 512, 128 or CUSTOM")
	custom := flag.Int("custom", 0, "Custom resolution when -quality=CUSTOM")
	format := flag.String("format", "", "Variant output format: png or webp")
	minDist := flag.Float64("min-distance", 0, "Start of the quality gradient")
	maxDist := flag.Float64("max-distance", 10, "End of the quality gradient")
	nearQuality := flag.String("near-quality", "", "Quality for the nearest image: 4096, 2048, 1024, 512, 128 or CUSTOM")
	nearCustom := flag.Int("near-custom", 0, "Custom nearest resolution when -near-quality=CUSTOM")
	farQuality := flag.String("far-quality", "", "Quality for the farthest image: 4096, 2048, 1024, 512, 128 or CUSTOM")
	farCustom := flag.Int("far-custom", 0, "Custom farthest resolution when -far-quality=CUSTOM")
	report := flag.String("report", "", "Write a JSON report of per-image outcomes to this path")
	sceneOut := flag.String("scene-out", "", "Write the updated scene to this path")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Distances override the config file only when given explicitly
	var minOverride, maxOverride *float64
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-distance":
			minOverride = minDist
		case "max-distance":
			maxOverride = maxDist
		}
	})

	logger := logging.New(*debug)

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		ScenePath:     *scenePath,
		TextureDir:    *textureDir,
		SaveDir:       *saveDir,
		Quality:       *qualityName,
		CustomQuality: *custom,
		Format:        *format,

		MinDistance:           minOverride,
		MaxDistance:           maxOverride,
		NearestQuality:        *nearQuality,
		NearestCustomQuality:  *nearCustom,
		FarthestQuality:       *farQuality,
		FarthestCustomQuality: *farCustom,
	})

	if cfg.ScenePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no scene file. Use -scene flag or config.json.")
		os.Exit(1)
	}

	opts, err := cfg.BatchOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	codec := texture.FileCodec{}
	texIndex := texture.BuildIndex(cfg.TextureDir)
	sc, err := scene.Load(cfg.ScenePath, texIndex, codec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	logger.WithFields(logrus.Fields{
		"scene":    cfg.ScenePath,
		"objects":  len(sc.Objects),
		"images":   sc.Images.Len(),
		"textures": texIndex.Len(),
		"mode":     *mode,
	}).Info("Scene loaded")

	applier := batch.NewApplier(codec, logger, opts)
	start := time.Now()

	var results []batch.Result
	switch *mode {
	case "all", "selected":
		res, err := cfg.FixedResolution()
		if err != nil {
			fail(err)
		}
		images := sc.Images.All()
		if *mode == "selected" {
			_, img, err := sc.SelectedImage()
			if err != nil {
				fail(err)
			}
			images = []*texture.Image{img}
		}
		results, err = applier.ApplyFixed(images, res, cfg.SaveDir)
		if err != nil {
			fail(err)
		}

	case "distance":
		samples, err := distance.FromScene(sc)
		if err != nil {
			fail(err)
		}
		r, err := cfg.Range()
		if err != nil {
			fail(err)
		}
		results, err = applier.ApplyByDistance(samples, r, cfg.SaveDir)
		if err != nil {
			fail(err)
		}

	case "detect":
		samples, err := distance.FromScene(sc)
		if err != nil {
			fail(err)
		}
		nearest, farthest, _ := distance.NearestAndFarthest(samples)
		fmt.Printf("Nearest:  %s (%s, %.3f)\n", nearest.Image.Name, nearest.Object.Name, nearest.Distance)
		fmt.Printf("Farthest: %s (%s, %.3f)\n", farthest.Image.Name, farthest.Object.Name, farthest.Distance)
		return

	case "restore":
		_, img, err := sc.SelectedImage()
		if err != nil {
			fail(err)
		}
		restored, err := applier.Store().Restore(img, cfg.SaveDir)
		if err != nil {
			fail(err)
		}
		n := sc.Install(restored)
		fmt.Printf("Restored original image from %s (%d object(s))\n", restored.Path, n)

	case "restore-all":
		sum, err := applier.Store().RestoreAll(sc.Images.All(), cfg.SaveDir)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Restored: %d/%d\n", sum.Restored, sc.Images.Len())
		for _, name := range sum.Errors {
			fmt.Printf("  Could not restore: %s\n", name)
		}

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q (want %s)\n", *mode, usageModes)
		os.Exit(2)
	}

	failed := 0
	if results != nil {
		elapsed := time.Since(start)
		fmt.Println("------------------------------------------------------------")
		fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

		var success int
		success, failed = batch.Count(results)
		fmt.Printf("Resized: %d/%d\n", success, len(results))

		if failed > 0 {
			fmt.Printf("\nFailed (%d):\n", failed)
			for _, r := range results {
				if !r.Success {
					fmt.Printf("  %s: %s\n", r.Name, r.Error)
				}
			}
		}

		if *report != "" {
			if err := batch.WriteReport(*report, results); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: report write failed: %v\n", err)
			} else {
				fmt.Printf("Report: %s\n", *report)
			}
		}
	}

	if *sceneOut != "" {
		if err := scene.Save(*sceneOut, sc); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: scene write failed: %v\n", err)
		} else {
			fmt.Printf("Scene: %s\n", *sceneOut)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// fail reports a precondition error and exits before anything is written.
func fail(err error) {
	switch {
	case errors.Is(err, backup.ErrNoSaveDirectory):
		fmt.Fprintln(os.Stderr, "Error: no save path set. Use -save flag or config.json.")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
