// Package texturetest provides codec doubles and fixtures for tests.
package texturetest

import (
	"image/color"
	"image/png"
	"os"
	"testing"

	"texsqueeze/internal/texture"
)

// Codec wraps a real codec and injects failures per image name.
type Codec struct {
	texture.Codec

	FailLoad   map[string]error // keyed by path
	FailResize map[string]error // keyed by image name
	FailSave   map[string]error // keyed by image name

	Saves   []string // paths passed to SaveAs, in call order
	Resizes []string // image names passed to Resize, in call order
}

// NewCodec wraps texture.FileCodec.
func NewCodec() *Codec {
	return &Codec{
		Codec:      texture.FileCodec{},
		FailLoad:   map[string]error{},
		FailResize: map[string]error{},
		FailSave:   map[string]error{},
	}
}

func (c *Codec) Load(path string) (*texture.Image, error) {
	if err := c.FailLoad[path]; err != nil {
		return nil, err
	}
	return c.Codec.Load(path)
}

func (c *Codec) Resize(img *texture.Image, w, h int) error {
	c.Resizes = append(c.Resizes, img.Name)
	if err := c.FailResize[img.Name]; err != nil {
		return err
	}
	return c.Codec.Resize(img, w, h)
}

func (c *Codec) SaveAs(img *texture.Image, path string, format texture.Format) error {
	c.Saves = append(c.Saves, path)
	if err := c.FailSave[img.Name]; err != nil {
		return err
	}
	return c.Codec.SaveAs(img, path, format)
}

// Image returns a file-backed w×h image filled with c.
func Image(name string, w, h int, c color.NRGBA) *texture.Image {
	return &texture.Image{
		Name:   name,
		Path:   name + ".png",
		Source: texture.SourceFile,
		Pixels: texture.Fill(w, h, c),
	}
}

// WritePNG writes a w×h PNG filled with c to path.
func WritePNG(t testing.TB, path string, w, h int, c color.NRGBA) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, texture.Fill(w, h, c)); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}
