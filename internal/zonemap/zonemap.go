// The zonemap package draws a top-down map of zone positions.
package zonemap

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/clarosa/srzone/internal/catalog"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Margin is the width of the border around the plotted area, in pixels.
const Margin = 16

// Colors used by Draw.
var (
	Background = color.RGBA{0x10, 0x10, 0x18, 0xFF}
	Marker     = color.RGBA{0xFF, 0x40, 0x40, 0xFF}
	Label      = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// Projection maps world X and Z to pixel coordinates of a square image. North
// (increasing Z) is up.
type Projection struct {
	Size       int
	MinX, MinZ float64
	Scale      float64
}

// Fit returns a projection of zones onto an image of the given size.
func Fit(zones []catalog.Zone, size int) Projection {
	p := Projection{Size: size, Scale: 1}
	if len(zones) == 0 {
		return p
	}
	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for _, z := range zones {
		x, y := float64(z.Offset.X), float64(z.Offset.Z)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minZ, maxZ = math.Min(minZ, y), math.Max(maxZ, y)
	}
	span := math.Max(maxX-minX, maxZ-minZ)
	if span > 0 {
		p.Scale = float64(size-2*Margin) / span
	}
	p.MinX, p.MinZ = minX, minZ
	return p
}

// Point returns the pixel at world position (x, z).
func (p Projection) Point(x, z float32) image.Point {
	return image.Point{
		X: Margin + int(math.Round((float64(x)-p.MinX)*p.Scale)),
		Y: p.Size - 1 - Margin - int(math.Round((float64(z)-p.MinZ)*p.Scale)),
	}
}

// Draw plots each zone as a marker labelled with its name.
func Draw(zones []catalog.Zone, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	proj := Fit(zones, size)
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(Label),
		Face: basicfont.Face7x13,
	}
	for _, z := range zones {
		pt := proj.Point(z.Offset.X, z.Offset.Z)
		marker := image.Rect(pt.X-1, pt.Y-1, pt.X+2, pt.Y+2)
		draw.Draw(img, marker, image.NewUniform(Marker), image.Point{}, draw.Src)
		d.Dot = fixed.P(pt.X+4, pt.Y+4)
		d.DrawString(z.Name)
	}
	return img
}

// Encode draws zones and writes the map to w as a PNG image.
func Encode(w io.Writer, zones []catalog.Zone, size int) error {
	return png.Encode(w, Draw(zones, size))
}
