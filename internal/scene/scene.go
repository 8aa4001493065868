// Package scene models the parts of a 3D scene the texture tools touch:
// the active camera, objects with positions, and the images bound to them.
package scene

import (
	"errors"
	"fmt"

	"texsqueeze/internal/mathutil"
	"texsqueeze/internal/texture"
)

var (
	// ErrNoCamera is returned when an operation needs the active camera.
	ErrNoCamera = errors.New("no active camera found")
	// ErrNoSelection is returned when no selected object carries an image.
	ErrNoSelection = errors.New("no selected object with an image")
	// ErrInvalidPosition is returned for a NaN or infinite coordinate.
	ErrInvalidPosition = errors.New("position must be finite")
)

// Camera is the scene's active camera.
type Camera struct {
	Position mathutil.Vec3
}

// Object is a scene object. Image is nil when no texture is bound.
type Object struct {
	Name     string
	Position mathutil.Vec3
	Image    *texture.Image
}

// Scene is passed explicitly to every operation.
type Scene struct {
	Camera   *Camera
	Objects  []*Object
	Images   *texture.Library
	Selected string // name of the selected object, if any
}

// Object returns the object with the given name.
func (s *Scene) Object(name string) (*Object, bool) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// SelectedImage returns the selected object and its bound image.
func (s *Scene) SelectedImage() (*Object, *texture.Image, error) {
	if s.Selected == "" {
		return nil, nil, ErrNoSelection
	}
	o, ok := s.Object(s.Selected)
	if !ok {
		return nil, nil, fmt.Errorf("scene: object %q: %w", s.Selected, ErrNoSelection)
	}
	if o.Image == nil {
		return nil, nil, fmt.Errorf("scene: object %q has no image: %w", o.Name, ErrNoSelection)
	}
	return o, o.Image, nil
}

// Install binds img to every object whose slot currently holds an image of
// the same name and replaces the library entry.
func (s *Scene) Install(img *texture.Image) int {
	n := 0
	for _, o := range s.Objects {
		if o.Image != nil && o.Image.Name == img.Name {
			o.Image = img
			n++
		}
	}
	if s.Images != nil {
		s.Images.Replace(img)
	}
	return n
}
