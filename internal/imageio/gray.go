package imageio

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/imgfilter"
)

// Luma weights applied to 8-bit R, G and B.
const (
	WeightR = 0.2989
	WeightG = 0.5870
	WeightB = 0.1140
)

// Luma returns the grayscale value of an 8-bit RGB triple.
func Luma(r, g, b uint8) float64 {
	return WeightR*float64(r) + WeightG*float64(g) + WeightB*float64(b)
}

// ToGray converts img to a grayscale grid with values in [0, 255].
// *image.Gray inputs are copied without reweighting. Alpha is ignored.
func ToGray(img image.Image) *imgfilter.Grid {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	g, err := imgfilter.NewGrid(height, width)
	if err != nil {
		return nil
	}

	switch src := img.(type) {
	case *image.Gray:
		for y := range height {
			row := g.Row(y)
			pix := src.Pix[y*src.Stride:]
			for x := range row {
				row[x] = float64(pix[x])
			}
		}

	case *image.NRGBA:
		for y := range height {
			row := g.Row(y)
			pix := src.Pix[y*src.Stride:]
			for x := range row {
				off := x * 4
				row[x] = Luma(pix[off], pix[off+1], pix[off+2])
			}
		}

	default:
		for y := range height {
			row := g.Row(y)
			for x := range row {
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				row[x] = Luma(c.R, c.G, c.B)
			}
		}
	}

	return g
}

// ToImage converts g to an 8-bit grayscale image.
// Values are rounded to the nearest integer and clamped to [0, 255].
func ToImage(g *imgfilter.Grid) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, g.Width(), g.Height()))
	for y := range g.Height() {
		pix := out.Pix[y*out.Stride:]
		for x, v := range g.Row(y) {
			pix[x] = clampUint8(v)
		}
	}
	return out
}

// Downscale shrinks img so that its longer side is at most maxSide pixels,
// preserving the aspect ratio. Images already within the limit, and
// maxSide <= 0, are returned unchanged.
func Downscale(img image.Image, maxSide int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}

	scale := float64(maxSide) / float64(max(w, h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)

	imgfilter.Logger().Debug("imageio: downscaled", "from", bounds.Size().String(), "to", dst.Bounds().Size().String())
	return dst
}

// clampUint8 clamps v to [0, 255] and rounds to the nearest integer.
func clampUint8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
