package texture

import "image"

// Source describes where an image's pixels come from.
type Source string

const (
	// SourceFile images were loaded from a file on disk.
	SourceFile Source = "file"
	// SourceGenerated images were produced procedurally and have no file.
	SourceGenerated Source = "generated"
)

// ColorSpaceSRGB is the color space tag applied to restored images.
const ColorSpaceSRGB = "sRGB"

// Image is a named texture handle. Resize mutates it in place.
type Image struct {
	Name       string
	Path       string // file holding the current pixels, empty for generated images
	Source     Source
	ColorSpace string
	Pixels     *image.NRGBA
}

// Size returns the current pixel dimensions.
func (img *Image) Size() (w, h int) {
	if img == nil || img.Pixels == nil {
		return 0, 0
	}
	b := img.Pixels.Bounds()
	return b.Dx(), b.Dy()
}

// FileBacked reports whether img is eligible for resolution changes.
func (img *Image) FileBacked() bool {
	return img != nil && img.Source == SourceFile
}
