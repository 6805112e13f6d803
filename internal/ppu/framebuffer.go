package ppu

import (
	"image"
	imgcolor "image/color"

	xdraw "golang.org/x/image/draw"
)

const (
	// Width is the framebuffer width in pixels.
	Width = 160
	// Height is the framebuffer height in pixels.
	Height = 144
)

// Framebuffer holds one frame as 2-bit color indices, per §6: the raw index
// array is the core's primary output, consumed by a host presenter.
type Framebuffer [Height][Width]uint8

// palette8 is the fixed DMG four-shade palette as a color.Palette, shared by
// every Image() call.
var palette8 = imgcolor.Palette{
	imgcolor.RGBA{R: shades[0].R, G: shades[0].G, B: shades[0].B, A: 0xFF},
	imgcolor.RGBA{R: shades[1].R, G: shades[1].G, B: shades[1].B, A: 0xFF},
	imgcolor.RGBA{R: shades[2].R, G: shades[2].G, B: shades[2].B, A: 0xFF},
	imgcolor.RGBA{R: shades[3].R, G: shades[3].G, B: shades[3].B, A: 0xFF},
}

// Image renders the framebuffer into an image.Paletted for a host presenter.
// A caller that wants a different size can scale the result with
// golang.org/x/image/draw directly; Scaled does that for the common case.
func (f *Framebuffer) Image() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, Width, Height), palette8)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			img.SetColorIndex(x, y, f[y][x])
		}
	}
	return img
}

// Scaled renders the framebuffer at an integer multiple of its native size
// using golang.org/x/image/draw's bilinear scaler.
func (f *Framebuffer) Scaled(factor int) *image.RGBA {
	src := f.Image()
	dst := image.NewRGBA(image.Rect(0, 0, Width*factor, Height*factor))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}
