package texture

import (
	"fmt"
)

// Library holds the images of one scene, keyed by unique name and kept in
// insertion order.
type Library struct {
	items map[string]*Image
	order []string
	index *Index
	codec Codec
}

// NewLibrary creates an empty library. Images added by name only are
// resolved through index and decoded with codec.
func NewLibrary(index *Index, codec Codec) *Library {
	if index == nil {
		index = &Index{entries: map[string]string{}}
	}
	if codec == nil {
		codec = FileCodec{}
	}
	return &Library{
		items: make(map[string]*Image),
		index: index,
		codec: codec,
	}
}

// Add registers img under its name. Names must be unique.
func (l *Library) Add(img *Image) error {
	if img == nil || img.Name == "" {
		return fmt.Errorf("texture: library: image has no name")
	}
	if _, exists := l.items[img.Name]; exists {
		return fmt.Errorf("texture: library: duplicate image %q", img.Name)
	}
	l.items[img.Name] = img
	l.order = append(l.order, img.Name)
	return nil
}

// LoadFile decodes path (or, if empty, the indexed texture for name) and
// registers it under name.
func (l *Library) LoadFile(name, path string) (*Image, error) {
	if path == "" {
		p, ok := l.index.ResolvePath(name)
		if !ok {
			return nil, fmt.Errorf("texture: %s: no file found in texture index", name)
		}
		path = p
	}
	img, err := l.codec.Load(path)
	if err != nil {
		return nil, err
	}
	img.Name = name
	if err := l.Add(img); err != nil {
		return nil, err
	}
	return img, nil
}

// Get returns the image registered under name.
func (l *Library) Get(name string) (*Image, bool) {
	img, ok := l.items[name]
	return img, ok
}

// Replace swaps the handle registered under img.Name, as done when a
// restored image is installed.
func (l *Library) Replace(img *Image) {
	if _, exists := l.items[img.Name]; !exists {
		l.order = append(l.order, img.Name)
	}
	l.items[img.Name] = img
}

// All returns every image in insertion order.
func (l *Library) All() []*Image {
	out := make([]*Image, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.items[name])
	}
	return out
}

// Len returns the number of images.
func (l *Library) Len() int {
	return len(l.order)
}
