package texture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// Format is an output encoding for SaveAs.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ErrUnknownFormat is returned for an output format other than png or webp.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts "png" or "webp" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPNG, "":
		return FormatPNG, nil
	case FormatWebP:
		return FormatWebP, nil
	}
	return "", fmt.Errorf("texture: %q: %w", s, ErrUnknownFormat)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == FormatWebP {
		return ".webp"
	}
	return ".png"
}

// Codec loads, scales and writes texture images.
type Codec interface {
	// Load decodes the file at path into a new file-backed image.
	Load(path string) (*Image, error)
	// Resize scales img to w×h in place. The previous pixels are lost.
	Resize(img *Image, w, h int) error
	// SaveAs encodes img's current pixels to path.
	SaveAs(img *Image, path string, format Format) error
}

// FileCodec is the Codec backed by the local filesystem.
type FileCodec struct{}

// Load implements Codec.
func (FileCodec) Load(path string) (*Image, error) {
	px, err := LoadTexture(path)
	if err != nil {
		return nil, err
	}
	return &Image{
		Name:   stem(path),
		Path:   path,
		Source: SourceFile,
		Pixels: px,
	}, nil
}

// Resize implements Codec.
func (FileCodec) Resize(img *Image, w, h int) error {
	if img == nil || img.Pixels == nil {
		return errors.New("texture: resize: image has no pixel data")
	}
	if w < 1 || h < 1 {
		return fmt.Errorf("texture: resize %s: invalid size %dx%d", img.Name, w, h)
	}
	img.Pixels = Scale(img.Pixels, w, h)
	return nil
}

// SaveAs implements Codec. A partially written file is removed on failure.
func (FileCodec) SaveAs(img *Image, path string, format Format) error {
	if img == nil || img.Pixels == nil {
		return fmt.Errorf("texture: save %s: image has no pixel data", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("texture: save %s: %w", path, err)
	}
	err = encode(f, img.Pixels, format)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("texture: save %s: %w", path, err)
	}
	return nil
}

func encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("WebP encode: %w", err)
		}
		return nil
	}
	return ErrUnknownFormat
}

// Scale resamples img to w×h with premultiplied-alpha-aware CatmullRom
// filtering. This prevents dark halo artifacts at transparent edges.
func Scale(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		out := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Copy(out, image.Point{}, img, b, draw.Src, nil)
		return out
	}

	// Premultiply alpha
	premul := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := premul.PixOffset(x, y)
			a := float64(img.Pix[si+3]) / 255.0
			premul.Pix[di] = uint8(float64(img.Pix[si])*a + 0.5)
			premul.Pix[di+1] = uint8(float64(img.Pix[si+1])*a + 0.5)
			premul.Pix[di+2] = uint8(float64(img.Pix[si+2])*a + 0.5)
			premul.Pix[di+3] = img.Pix[si+3]
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	// Unpremultiply alpha
	result := image.NewNRGBA(dst.Bounds())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := dst.PixOffset(x, y)
			di := result.PixOffset(x, y)
			a := float64(dst.Pix[si+3])
			if a > 1 {
				inv := 255.0 / a
				result.Pix[di] = clamp8(float64(dst.Pix[si]) * inv)
				result.Pix[di+1] = clamp8(float64(dst.Pix[si+1]) * inv)
				result.Pix[di+2] = clamp8(float64(dst.Pix[si+2]) * inv)
			}
			result.Pix[di+3] = dst.Pix[si+3]
		}
	}

	return result
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
