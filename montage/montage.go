// Package montage lays out labeled grayscale panels side by side, the way the
// filtering pipeline presents an original next to its filtered variants.
package montage

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/imgfilter"
	"github.com/gogpu/imgfilter/internal/imageio"
)

// Montage errors.
var (
	// ErrNoPanels is returned when there is nothing to compose.
	ErrNoPanels = errors.New("montage: no panels")

	// ErrLabelMismatch is returned when grids and labels differ in length.
	ErrLabelMismatch = errors.New("montage: number of images must match number of labels")
)

// Panel is one captioned image.
type Panel struct {
	Grid  *imgfilter.Grid
	Label string
}

// NewPanels pairs grids with labels.
func NewPanels(grids []*imgfilter.Grid, labels []string) ([]Panel, error) {
	if len(grids) != len(labels) {
		return nil, fmt.Errorf("%w: %d images, %d labels", ErrLabelMismatch, len(grids), len(labels))
	}
	panels := make([]Panel, len(grids))
	for i := range grids {
		panels[i] = Panel{Grid: grids[i], Label: labels[i]}
	}
	return panels, nil
}

// Scaling selects how grid values are mapped to 8-bit intensities.
type Scaling int

const (
	// ScaleAuto stretches each panel's [min, max] to [0, 255].
	// Negative edge responses stay visible this way.
	ScaleAuto Scaling = iota

	// ScaleClip clamps values to [0, 255] without stretching.
	ScaleClip
)

// Options controls the layout.
type Options struct {
	// PanelHeight is the height every panel is scaled to.
	// 0 uses the tallest panel's height.
	PanelHeight int

	// Gap is the margin around and between panels, in pixels.
	Gap int

	// FontSize is the caption size in points at 72 DPI.
	FontSize float64

	// Scaling maps grid values to pixels.
	Scaling Scaling

	// Background is the gray level of the margins.
	Background uint8

	// Foreground is the gray level of the captions.
	Foreground uint8
}

// DefaultOptions returns white margins, black 14pt captions and auto scaling.
func DefaultOptions() Options {
	return Options{
		Gap:        12,
		FontSize:   14,
		Scaling:    ScaleAuto,
		Background: 255,
		Foreground: 0,
	}
}

var parseFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// Compose renders panels left to right with a caption above each one.
func Compose(panels []Panel, opts Options) (*image.Gray, error) {
	if len(panels) == 0 {
		return nil, ErrNoPanels
	}
	for i, p := range panels {
		if p.Grid.IsEmpty() {
			return nil, fmt.Errorf("montage: panel %d (%q): %w", i, p.Label, imgfilter.ErrInvalidArgument)
		}
	}

	gap := max(opts.Gap, 0)
	fontSize := opts.FontSize
	if fontSize <= 0 {
		fontSize = DefaultOptions().FontSize
	}

	panelHeight := opts.PanelHeight
	if panelHeight <= 0 {
		for _, p := range panels {
			panelHeight = max(panelHeight, p.Grid.Height())
		}
	}

	f, err := parseFont()
	if err != nil {
		return nil, fmt.Errorf("montage: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("montage: create face: %w", err)
	}
	defer func() { _ = face.Close() }()

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	captionHeight := ascent + metrics.Descent.Ceil()

	// Scale panels and compute each slot width (wide enough for its caption).
	scaled := make([]*image.Gray, len(panels))
	slots := make([]int, len(panels))
	total := gap
	for i, p := range panels {
		scaled[i] = scalePanel(render(p.Grid, opts.Scaling), panelHeight)
		captionWidth := font.MeasureString(face, p.Label).Ceil()
		slots[i] = max(scaled[i].Bounds().Dx(), captionWidth)
		total += slots[i] + gap
	}

	height := gap + captionHeight + gap/2 + panelHeight + gap
	dst := image.NewGray(image.Rect(0, 0, total, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Gray{Y: opts.Background}), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Gray{Y: opts.Foreground}),
		Face: face,
	}

	x := gap
	top := gap + captionHeight + gap/2
	for i, p := range panels {
		slot := slots[i]

		captionWidth := font.MeasureString(face, p.Label).Ceil()
		drawer.Dot = fixed.P(x+(slot-captionWidth)/2, gap+ascent)
		drawer.DrawString(p.Label)

		pw := scaled[i].Bounds().Dx()
		r := image.Rect(x+(slot-pw)/2, top, x+(slot-pw)/2+pw, top+panelHeight)
		draw.Draw(dst, r, scaled[i], image.Point{}, draw.Src)

		x += slot + gap
	}

	return dst, nil
}

// render converts a grid to 8-bit pixels according to scaling.
func render(g *imgfilter.Grid, scaling Scaling) *image.Gray {
	if scaling != ScaleAuto {
		return imageio.ToImage(g)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for y := range g.Height() {
		for _, v := range g.Row(y) {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if hi <= lo {
		return imageio.ToImage(g)
	}

	scale := 255 / (hi - lo)
	out := image.NewGray(image.Rect(0, 0, g.Width(), g.Height()))
	for y := range g.Height() {
		pix := out.Pix[y*out.Stride:]
		for x, v := range g.Row(y) {
			pix[x] = uint8(math.Round((v - lo) * scale))
		}
	}
	return out
}

// scalePanel resizes img to the given height, preserving aspect ratio.
func scalePanel(img *image.Gray, height int) *image.Gray {
	b := img.Bounds()
	if b.Dy() == height {
		return img
	}
	width := max(1, int(math.Round(float64(b.Dx())*float64(height)/float64(b.Dy()))))
	dst := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
