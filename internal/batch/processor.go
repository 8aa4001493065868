// Package batch applies target resolutions to many textures at once, backing
// up each original first. One image's failure never stops the batch.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"texsqueeze/internal/backup"
	"texsqueeze/internal/distance"
	"texsqueeze/internal/logging"
	"texsqueeze/internal/quality"
	"texsqueeze/internal/texture"
)

// ErrInvalidResolution is returned for a fixed target below 1 pixel.
var ErrInvalidResolution = errors.New("resolution must be at least 1")

// Options tunes output files.
type Options struct {
	// Format of quality variant files. Backups are always PNG.
	Format texture.Format
	// DistanceInPlace makes ApplyByDistance only resize the live images,
	// without writing quality variant files.
	DistanceInPlace bool
}

// Result holds the outcome of processing one image.
type Result struct {
	Name          string
	Resolution    int
	Distance      float64 // distance mode only
	OutputPath    string  // quality variant, if written
	BackupCreated bool
	Success       bool
	Error         string
}

// Applier resizes images through a codec and keeps their backups.
type Applier struct {
	codec texture.Codec
	store *backup.Store
	log   logrus.FieldLogger
	opts  Options
}

// NewApplier creates an applier. A nil codec uses texture.FileCodec; a nil
// logger discards.
func NewApplier(codec texture.Codec, log logrus.FieldLogger, opts Options) *Applier {
	if codec == nil {
		codec = texture.FileCodec{}
	}
	if opts.Format == "" {
		opts.Format = texture.FormatPNG
	}
	log = logging.OrDiscard(log)
	return &Applier{
		codec: codec,
		store: backup.NewStore(codec, log),
		log:   log,
		opts:  opts,
	}
}

// Store returns the backup store the applier writes through.
func (a *Applier) Store() *backup.Store {
	return a.store
}

// ApplyFixed sets every file-backed image to resolution×resolution and
// writes a quality variant for each. Generated images are skipped; if none
// remain, nothing is written.
func (a *Applier) ApplyFixed(images []*texture.Image, resolution int, saveDir string) ([]Result, error) {
	if saveDir == "" {
		return nil, backup.ErrNoSaveDirectory
	}
	if resolution < 1 {
		return nil, fmt.Errorf("batch: %d: %w", resolution, ErrInvalidResolution)
	}

	var eligible []*texture.Image
	for _, img := range images {
		if img == nil {
			continue
		}
		if !img.FileBacked() {
			a.log.WithField("image", img.Name).Debug("Skipping non-file image")
			continue
		}
		eligible = append(eligible, img)
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("batch: no file-backed images: %w", distance.ErrNoImagesFound)
	}
	if err := prepareDir(saveDir); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(eligible))
	for _, img := range eligible {
		results = append(results, a.processImage(img, resolution, saveDir, true))
	}
	return results, nil
}

// ApplyByDistance resizes each sampled image to the resolution its distance
// maps to in r. An image bound to several objects is processed once, at its
// nearest object's distance. All preconditions are checked before anything
// is written.
func (a *Applier) ApplyByDistance(samples []distance.Sample, r quality.Range, saveDir string) ([]Result, error) {
	if saveDir == "" {
		return nil, backup.ErrNoSaveDirectory
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, distance.ErrNoImagesFound
	}
	if err := prepareDir(saveDir); err != nil {
		return nil, err
	}

	seen := make(map[*texture.Image]bool, len(samples))
	var results []Result
	for _, s := range samples {
		if s.Image == nil || seen[s.Image] {
			continue
		}
		seen[s.Image] = true
		res := a.processImage(s.Image, r.At(s.Distance), saveDir, !a.opts.DistanceInPlace)
		res.Distance = s.Distance
		results = append(results, res)
	}
	return results, nil
}

func (a *Applier) processImage(img *texture.Image, resolution int, saveDir string, writeVariant bool) Result {
	res := Result{Name: img.Name, Resolution: resolution}
	log := a.log.WithFields(logrus.Fields{"image": img.Name, "resolution": resolution})

	b, err := a.store.EnsureBackup(img, saveDir)
	if err != nil {
		log.WithError(err).Warn("Could not save original image")
		res.Error = err.Error()
		return res
	}
	res.BackupCreated = b.Created

	if err := a.codec.Resize(img, resolution, resolution); err != nil {
		log.WithError(err).Warn("Could not scale image")
		res.Error = err.Error()
		return res
	}

	if writeVariant {
		out := VariantPath(saveDir, img.Name, resolution, a.opts.Format)
		if err := a.codec.SaveAs(img, out, a.opts.Format); err != nil {
			log.WithError(err).Warn("Could not save image")
			res.Error = err.Error()
			return res
		}
		img.Path = out
		res.OutputPath = out
	}

	log.Infof("Set %s to %dx%d", img.Name, resolution, resolution)
	res.Success = true
	return res
}

// VariantPath returns {saveDir}/{name}_quality_{res}.{ext}.
func VariantPath(saveDir, name string, resolution int, format texture.Format) string {
	return filepath.Join(saveDir, name+"_quality_"+strconv.Itoa(resolution)+format.Ext())
}

// Count returns the number of successful and failed results.
func Count(results []Result) (success, failed int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
		}
	}
	return success, failed
}

func prepareDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("batch: create %s: %w", dir, err)
	}
	return nil
}
