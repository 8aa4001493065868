package scene

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texsqueeze/internal/mathutil"
	"texsqueeze/internal/texture"
	"texsqueeze/internal/texture/texturetest"
)

const sceneYAML = `
camera:
  position: [0, 0, 0]
selected: Wall
images:
  - name: wall
    path: textures/wall.png
  - name: noise
    generated: {width: 4, height: 2, color: "#ff8000"}
objects:
  - name: Wall
    position: [0, 0, 5]
    image: wall
  - name: Crate
    position: [3, 4, 0]
    image: crate
  - name: Empty
    position: [1, 1, 1]
  - name: Sky
    position: [0, 100, 0]
    image: noise
`

func writeScene(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	tex := filepath.Join(dir, "textures")
	require.NoError(t, os.MkdirAll(tex, 0755))
	texturetest.WritePNG(t, filepath.Join(tex, "wall.png"), 16, 16, color.NRGBA{R: 255, A: 255})
	texturetest.WritePNG(t, filepath.Join(tex, "crate.png"), 8, 8, color.NRGBA{G: 255, A: 255})

	path = filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sceneYAML), 0644))
	return dir, path
}

func TestLoad(t *testing.T) {
	dir, path := writeScene(t)

	s, err := Load(path, texture.BuildIndex(filepath.Join(dir, "textures")), nil)
	require.NoError(t, err)

	require.NotNil(t, s.Camera)
	assert.Equal(t, mathutil.Vec3{0, 0, 0}, s.Camera.Position)
	require.Len(t, s.Objects, 4)
	assert.Equal(t, 3, s.Images.Len())

	wall, ok := s.Object("Wall")
	require.True(t, ok)
	assert.Equal(t, mathutil.Vec3{0, 0, 5}, wall.Position)
	require.NotNil(t, wall.Image)
	assert.Equal(t, filepath.Join(dir, "textures", "wall.png"), wall.Image.Path)

	crate, _ := s.Object("Crate")
	require.NotNil(t, crate.Image)
	assert.Equal(t, "crate", crate.Image.Name)

	empty, _ := s.Object("Empty")
	assert.Nil(t, empty.Image)

	sky, _ := s.Object("Sky")
	require.NotNil(t, sky.Image)
	assert.Equal(t, texture.SourceGenerated, sky.Image.Source)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x80, A: 0xff}, sky.Image.Pixels.NRGBAAt(0, 0))

	obj, img, err := s.SelectedImage()
	require.NoError(t, err)
	assert.Same(t, wall, obj)
	assert.Same(t, wall.Image, img)
}

func TestLoadMissingTexture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("objects:\n  - name: A\n    image: ghost\n"), 0644))

	_, err := Load(path, nil, nil)
	assert.ErrorContains(t, err, "ghost")
}

func TestLoadRejectsNonFinitePositions(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"nan camera", "camera:\n  position: [.nan, 0, 0]\nobjects: []\n"},
		{"inf object", "objects:\n  - name: A\n    position: [0, .inf, 0]\n"},
		{"negative inf object", "objects:\n  - name: A\n    position: [0, 0, -.inf]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scene.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))
			_, err := Load(path, nil, nil)
			assert.ErrorIs(t, err, ErrInvalidPosition)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir, path := writeScene(t)
	s, err := Load(path, texture.BuildIndex(filepath.Join(dir, "textures")), nil)
	require.NoError(t, err)

	wall, _ := s.Object("Wall")
	wall.Image.Path = filepath.Join(dir, "saves", "wall_quality_512.png")

	out := filepath.Join(dir, "scene_out.yaml")
	require.NoError(t, Save(out, s))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), filepath.Join("saves", "wall_quality_512.png"))
	assert.Contains(t, string(data), "generated:")
	assert.Contains(t, string(data), "#ff8000ff")
}

func TestSelectedImageErrors(t *testing.T) {
	s := &Scene{Objects: []*Object{{Name: "A"}}}
	_, _, err := s.SelectedImage()
	assert.ErrorIs(t, err, ErrNoSelection)

	s.Selected = "A"
	_, _, err = s.SelectedImage()
	assert.ErrorIs(t, err, ErrNoSelection)

	s.Selected = "B"
	_, _, err = s.SelectedImage()
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestInstall(t *testing.T) {
	old := &texture.Image{Name: "wall"}
	lib := texture.NewLibrary(nil, nil)
	require.NoError(t, lib.Add(old))
	s := &Scene{
		Images: lib,
		Objects: []*Object{
			{Name: "A", Image: old},
			{Name: "B", Image: old},
			{Name: "C"},
		},
	}

	fresh := &texture.Image{Name: "wall", ColorSpace: texture.ColorSpaceSRGB}
	assert.Equal(t, 2, s.Install(fresh))
	assert.Same(t, fresh, s.Objects[0].Image)
	assert.Same(t, fresh, s.Objects[1].Image)
	assert.Nil(t, s.Objects[2].Image)
	got, _ := lib.Get("wall")
	assert.Same(t, fresh, got)
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{A: 255}, c)

	c, err = parseColor("#11223344")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, c)

	_, err = parseColor("#123")
	assert.Error(t, err)
	_, err = parseColor("#zzzzzz")
	assert.Error(t, err)
}
