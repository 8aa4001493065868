package scene

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"texsqueeze/internal/mathutil"
	"texsqueeze/internal/texture"
)

// fileScene matches the scene YAML schema.
type fileScene struct {
	Camera   *fileCamera  `yaml:"camera,omitempty"`
	Selected string       `yaml:"selected,omitempty"`
	Images   []fileImage  `yaml:"images,omitempty"`
	Objects  []fileObject `yaml:"objects"`
}

type fileCamera struct {
	Position mathutil.Vec3 `yaml:"position,flow"`
}

type fileImage struct {
	Name      string         `yaml:"name"`
	Path      string         `yaml:"path,omitempty"`
	Generated *fileGenerated `yaml:"generated,omitempty"`
}

type fileGenerated struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Color  string `yaml:"color,omitempty"`
}

type fileObject struct {
	Name     string        `yaml:"name"`
	Position mathutil.Vec3 `yaml:"position,flow"`
	Image    string        `yaml:"image,omitempty"`
}

// Load reads a scene file. Relative image paths are resolved against the
// scene file's directory; images named by objects but not declared are
// looked up in the texture index.
func Load(path string, index *texture.Index, codec texture.Codec) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var fs fileScene
	if err := yaml.Unmarshal(raw, &fs); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}

	base := filepath.Dir(path)
	lib := texture.NewLibrary(index, codec)
	for _, fi := range fs.Images {
		if fi.Name == "" {
			return nil, fmt.Errorf("scene: %s: image entry without name", path)
		}
		if fi.Generated != nil {
			img, err := generated(fi.Name, fi.Generated)
			if err != nil {
				return nil, fmt.Errorf("scene: %s: %w", path, err)
			}
			if err := lib.Add(img); err != nil {
				return nil, fmt.Errorf("scene: %s: %w", path, err)
			}
			continue
		}
		p := fi.Path
		if p != "" && !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		if _, err := lib.LoadFile(fi.Name, p); err != nil {
			return nil, fmt.Errorf("scene: %s: %w", path, err)
		}
	}

	s := &Scene{Images: lib, Selected: fs.Selected}
	if fs.Camera != nil {
		if !fs.Camera.Position.Finite() {
			return nil, fmt.Errorf("scene: %s: camera %v: %w", path, fs.Camera.Position, ErrInvalidPosition)
		}
		s.Camera = &Camera{Position: fs.Camera.Position}
	}
	for _, fo := range fs.Objects {
		if !fo.Position.Finite() {
			return nil, fmt.Errorf("scene: %s: object %q %v: %w", path, fo.Name, fo.Position, ErrInvalidPosition)
		}
		o := &Object{Name: fo.Name, Position: fo.Position}
		if fo.Image != "" {
			img, ok := lib.Get(fo.Image)
			if !ok {
				img, err = lib.LoadFile(fo.Image, "")
				if err != nil {
					return nil, fmt.Errorf("scene: %s: object %q: %w", path, fo.Name, err)
				}
			}
			o.Image = img
		}
		s.Objects = append(s.Objects, o)
	}
	return s, nil
}

// Save writes s back to path, recording each file-backed image's current
// path. Paths under the scene file's directory are stored relative to it.
func Save(path string, s *Scene) error {
	base := filepath.Dir(path)
	var fs fileScene
	if s.Camera != nil {
		fs.Camera = &fileCamera{Position: s.Camera.Position}
	}
	fs.Selected = s.Selected
	if s.Images != nil {
		for _, img := range s.Images.All() {
			fi := fileImage{Name: img.Name}
			if img.Source == texture.SourceGenerated {
				w, h := img.Size()
				fi.Generated = &fileGenerated{Width: w, Height: h, Color: hexColor(img)}
			} else {
				fi.Path = relTo(base, img.Path)
			}
			fs.Images = append(fs.Images, fi)
		}
	}
	for _, o := range s.Objects {
		fo := fileObject{Name: o.Name, Position: o.Position}
		if o.Image != nil {
			fo.Image = o.Image.Name
		}
		fs.Objects = append(fs.Objects, fo)
	}

	data, err := yaml.Marshal(&fs)
	if err != nil {
		return fmt.Errorf("scene: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("scene: write %s: %w", path, err)
	}
	return nil
}

func generated(name string, g *fileGenerated) (*texture.Image, error) {
	if g.Width < 1 || g.Height < 1 {
		return nil, fmt.Errorf("generated image %q: invalid size %dx%d", name, g.Width, g.Height)
	}
	c, err := parseColor(g.Color)
	if err != nil {
		return nil, fmt.Errorf("generated image %q: %w", name, err)
	}
	return &texture.Image{
		Name:   name,
		Source: texture.SourceGenerated,
		Pixels: texture.Fill(g.Width, g.Height, c),
	}, nil
}

// parseColor accepts #rrggbb or #rrggbbaa. Empty means opaque black.
func parseColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 255}
	if s == "" {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return c, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return c, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	c.R, c.G, c.B, c.A = uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)
	return c, nil
}

func hexColor(img *texture.Image) string {
	if img.Pixels == nil || len(img.Pixels.Pix) < 4 {
		return ""
	}
	p := img.Pixels.Pix
	return fmt.Sprintf("#%02x%02x%02x%02x", p[0], p[1], p[2], p[3])
}

func relTo(base, p string) string {
	if p == "" {
		return ""
	}
	rel, err := filepath.Rel(base, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}
