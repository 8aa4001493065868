// Package backup keeps full-resolution copies of textures before they are
// resized, and puts them back on request.
//
// Backups live flat in a save directory as {name}_original.png. A backup is
// written once and never overwritten; it is the ground truth for restores.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"texsqueeze/internal/logging"
	"texsqueeze/internal/texture"
)

var (
	// ErrNoSaveDirectory is returned when no save directory is configured.
	ErrNoSaveDirectory = errors.New("no save path set")
	// ErrBackupNotFound is returned when restoring an image that was never backed up.
	ErrBackupNotFound = errors.New("no original image found")
	// ErrNoImage is returned when a nil image is passed in.
	ErrNoImage = errors.New("no image found")
)

// Path returns the deterministic backup location for an image name.
func Path(saveDir, name string) string {
	return filepath.Join(saveDir, name+"_original.png")
}

// Result describes the outcome of EnsureBackup.
type Result struct {
	Created bool
	Path    string
}

// RestoreSummary counts the outcome of RestoreAll.
type RestoreSummary struct {
	Restored int
	Failed   int
	Missing  []string // images without a backup
	Errors   []string // images whose backup could not be loaded
}

// Store reads and writes backups through a texture codec.
type Store struct {
	codec texture.Codec
	log   logrus.FieldLogger
}

// NewStore creates a store. A nil codec uses texture.FileCodec; a nil
// logger discards.
func NewStore(codec texture.Codec, log logrus.FieldLogger) *Store {
	if codec == nil {
		codec = texture.FileCodec{}
	}
	return &Store{codec: codec, log: logging.OrDiscard(log)}
}

// EnsureBackup writes img's current pixels to its backup path unless a file
// already exists there.
func (s *Store) EnsureBackup(img *texture.Image, saveDir string) (Result, error) {
	if saveDir == "" {
		return Result{}, ErrNoSaveDirectory
	}
	if img == nil {
		return Result{}, ErrNoImage
	}
	path := Path(saveDir, img.Name)
	exists, err := fileExists(path)
	if err != nil {
		return Result{Path: path}, fmt.Errorf("backup: stat %s: %w", path, err)
	}
	if exists {
		return Result{Path: path}, nil
	}

	if err := s.codec.SaveAs(img, path, texture.FormatPNG); err != nil {
		return Result{Path: path}, fmt.Errorf("backup: could not save original for %s: %w", img.Name, err)
	}
	w, h := img.Size()
	s.log.WithFields(logrus.Fields{
		"image": img.Name,
		"path":  path,
		"size":  fmt.Sprintf("%dx%d", w, h),
	}).Debug("Saved original")
	return Result{Created: true, Path: path}, nil
}

// Restore loads img's backup into a new handle tagged sRGB. The caller
// installs it into the scene; img itself is not modified.
func (s *Store) Restore(img *texture.Image, saveDir string) (*texture.Image, error) {
	if saveDir == "" {
		return nil, ErrNoSaveDirectory
	}
	if img == nil {
		return nil, ErrNoImage
	}
	path := Path(saveDir, img.Name)
	exists, err := fileExists(path)
	if err != nil {
		return nil, fmt.Errorf("backup: stat %s: %w", path, err)
	}
	if !exists {
		return nil, fmt.Errorf("backup: %s: %w at %s", img.Name, ErrBackupNotFound, path)
	}

	restored, err := s.codec.Load(path)
	if err != nil {
		return nil, fmt.Errorf("backup: restore %s: %w", img.Name, err)
	}
	restored.Name = img.Name
	restored.Source = texture.SourceFile
	restored.ColorSpace = texture.ColorSpaceSRGB
	s.log.WithFields(logrus.Fields{"image": img.Name, "path": path}).Info("Restored original image")
	return restored, nil
}

// RestoreAll reloads every image that has a backup, in place. Images
// without a backup or whose backup fails to load are counted as failures
// and do not stop the batch. Nil entries are skipped.
func (s *Store) RestoreAll(images []*texture.Image, saveDir string) (RestoreSummary, error) {
	var sum RestoreSummary
	if saveDir == "" {
		return sum, ErrNoSaveDirectory
	}

	for _, img := range images {
		if img == nil {
			continue
		}
		restored, err := s.Restore(img, saveDir)
		if err != nil {
			sum.Failed++
			if errors.Is(err, ErrBackupNotFound) {
				sum.Missing = append(sum.Missing, img.Name)
				continue
			}
			sum.Errors = append(sum.Errors, img.Name)
			s.log.WithField("image", img.Name).WithError(err).Warn("Could not restore")
			continue
		}
		img.Pixels = restored.Pixels
		img.Path = restored.Path
		img.Source = restored.Source
		img.ColorSpace = restored.ColorSpace
		sum.Restored++
	}

	if sum.Restored == 0 {
		s.log.Warn("No original images found.")
	} else {
		s.log.WithField("count", sum.Restored).Info("Restored original images")
	}
	return sum, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
