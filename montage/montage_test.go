package montage

import (
	"context"
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/imgfilter"
	"github.com/gogpu/imgfilter/internal/imageio"
)

func gridOf(t *testing.T, h, w int, v float64) *imgfilter.Grid {
	t.Helper()
	g, err := imgfilter.NewGrid(h, w)
	require.NoError(t, err)
	g.Fill(v)
	return g
}

func TestNewPanels(t *testing.T) {
	g := gridOf(t, 2, 2, 0)

	panels, err := NewPanels([]*imgfilter.Grid{g, g}, []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, panels, 2)
	assert.Equal(t, "b", panels[1].Label)

	_, err = NewPanels([]*imgfilter.Grid{g}, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrLabelMismatch)
}

func TestComposeNoPanels(t *testing.T) {
	_, err := Compose(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoPanels)
}

func TestComposeEmptyGrid(t *testing.T) {
	_, err := Compose([]Panel{{Grid: nil, Label: "x"}}, DefaultOptions())
	assert.ErrorIs(t, err, imgfilter.ErrInvalidArgument)
}

func TestComposeLayout(t *testing.T) {
	opts := DefaultOptions()
	opts.Scaling = ScaleClip

	panels := []Panel{
		{Grid: gridOf(t, 40, 60, 0), Label: "a"},
		{Grid: gridOf(t, 20, 20, 0), Label: "b"},
	}

	img, err := Compose(panels, opts)
	require.NoError(t, err)

	// Second panel is scaled to the tallest height: 20x20 -> 40x40.
	b := img.Bounds()
	assert.GreaterOrEqual(t, b.Dx(), opts.Gap*3+60+40)
	assert.Greater(t, b.Dy(), 40+2*opts.Gap)

	// Margins keep the background level.
	assert.Equal(t, uint8(255), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), img.GrayAt(b.Max.X-1, b.Max.Y-1).Y)

	// Panel area is black (value 0 clipped).
	assert.Equal(t, uint8(0), img.GrayAt(opts.Gap+30, b.Max.Y-opts.Gap-1).Y)
}

func TestComposeDrawsCaption(t *testing.T) {
	opts := DefaultOptions()
	opts.Gap = 4
	g := gridOf(t, 10, 200, 255)

	blank, err := Compose([]Panel{{Grid: g, Label: ""}}, opts)
	require.NoError(t, err)
	captioned, err := Compose([]Panel{{Grid: g, Label: "Edge Detection"}}, opts)
	require.NoError(t, err)

	require.Equal(t, blank.Bounds(), captioned.Bounds())
	assert.NotEqual(t, blank.Pix, captioned.Pix, "caption pixels should differ from a blank caption")
}

func TestComposeWideCaptionWidensSlot(t *testing.T) {
	opts := DefaultOptions()
	g := gridOf(t, 4, 4, 0)

	short, err := Compose([]Panel{{Grid: g, Label: "a"}}, opts)
	require.NoError(t, err)
	long, err := Compose([]Panel{{Grid: g, Label: "Sharpened Image (Factor 8)"}}, opts)
	require.NoError(t, err)

	assert.Greater(t, long.Bounds().Dx(), short.Bounds().Dx())
}

func TestRenderAutoScaling(t *testing.T) {
	g, err := imgfilter.GridFromRows([][]float64{{-4, 0, 4}})
	require.NoError(t, err)

	img := render(g, ScaleAuto)
	assert.Equal(t, []uint8{0, 128, 255}, img.Pix[:3])

	clipped := render(g, ScaleClip)
	assert.Equal(t, []uint8{0, 0, 4}, clipped.Pix[:3])

	flat := render(gridOf(t, 1, 2, 77), ScaleAuto)
	assert.Equal(t, []uint8{77, 77}, flat.Pix[:2])
}

func TestScalePanel(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 30, 10))
	assert.Same(t, img, scalePanel(img, 10))
	assert.Equal(t, image.Pt(60, 20), scalePanel(img, 20).Bounds().Size())
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Task 1 - Blurring":        "task-1-blurring",
		"Edge Detection":           "edge-detection",
		"  --Sharpening!! ":        "sharpening",
		"":                         "montage",
		"???":                      "montage",
		"Sharpened (Factor 2.5)":   "sharpened-factor-2-5",
		"Original Grayscale Image": "original-grayscale-image",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), "Slug(%q)", in)
	}
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := NewFileSink(dir)

	panels := []Panel{
		{Grid: gridOf(t, 8, 8, 10), Label: "original"},
		{Grid: gridOf(t, 8, 8, 200), Label: "3X3 Kernel"},
	}
	require.NoError(t, sink.Show(context.Background(), "Blurring", panels))

	img, err := imageio.LoadFile(sink.Path("Blurring"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "blurring.png"), sink.Path("Blurring"))
	assert.Greater(t, img.Bounds().Dx(), 16)
}

func TestFileSinkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := NewFileSink(t.TempDir())
	err := sink.Show(ctx, "x", []Panel{{Grid: gridOf(t, 1, 1, 0), Label: "x"}})
	assert.ErrorIs(t, err, context.Canceled)
}
