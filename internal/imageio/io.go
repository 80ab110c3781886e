package imageio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/imgfilter"
)

// MaxFetchBytes caps the size of a downloaded image.
const MaxFetchBytes = 64 << 20

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when no registered decoder recognizes the data.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")

	// ErrEmptyData is returned when the image data is empty.
	ErrEmptyData = errors.New("imageio: empty data")
)

// Decode decodes an image from r, auto-detecting the format.
// It returns the image and the registered format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupportedFormat
		}
		return nil, "", fmt.Errorf("imageio: decode: %w", err)
	}
	return img, format, nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// LoadFile decodes the image stored at path.
func LoadFile(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, format, err := Decode(f)
	if err != nil {
		return nil, err
	}

	imgfilter.Logger().Debug("imageio: decoded file",
		"path", path, "format", format, "bounds", img.Bounds().String())
	return img, nil
}

// Fetch downloads and decodes the image at url.
// A nil client uses http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("imageio: build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imageio: fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("imageio: fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("imageio: read body: %w", err)
	}
	if len(data) > MaxFetchBytes {
		return nil, fmt.Errorf("imageio: fetch %s: body exceeds %d bytes", url, MaxFetchBytes)
	}

	img, format, err := DecodeBytes(data)
	if err != nil {
		return nil, err
	}

	imgfilter.Logger().Debug("imageio: fetched image",
		"url", url, "bytes", len(data), "format", format, "bounds", img.Bounds().String())
	return img, nil
}

// IsURL reports whether source names an http or https resource.
func IsURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Open loads source, which is either a file path or an http(s) URL.
func Open(ctx context.Context, client *http.Client, source string) (image.Image, error) {
	if source == "" {
		return nil, fmt.Errorf("imageio: no image source given")
	}
	if IsURL(source) {
		return Fetch(ctx, client, source)
	}
	return LoadFile(source)
}

// EncodePNG writes g as an 8-bit grayscale PNG (see ToImage).
func EncodePNG(w io.Writer, g *imgfilter.Grid) error {
	if err := png.Encode(w, ToImage(g)); err != nil {
		return fmt.Errorf("imageio: encode PNG: %w", err)
	}
	return nil
}

// EncodeJPEG writes g as a grayscale JPEG with the given quality (1-100).
func EncodeJPEG(w io.Writer, g *imgfilter.Grid, quality int) error {
	quality = min(max(quality, 1), 100)
	if err := jpeg.Encode(w, ToImage(g), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("imageio: encode JPEG: %w", err)
	}
	return nil
}

// SavePNG writes g to path as a grayscale PNG.
func SavePNG(path string, g *imgfilter.Grid) error {
	return SaveImage(path, ToImage(g))
}

// SaveImage encodes img to path. The format follows the extension:
// .jpg/.jpeg writes JPEG at quality 90, everything else writes PNG.
func SaveImage(path string, img image.Image) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("imageio: close %s: %w", path, err)
	}

	imgfilter.Logger().Info("imageio: wrote image", "path", path, "bounds", img.Bounds().String())
	return nil
}

// LoadGray opens source, downscales it to maxSide (0 = keep size) and
// converts it to a grayscale grid.
func LoadGray(ctx context.Context, client *http.Client, source string, maxSide int) (*imgfilter.Grid, error) {
	img, err := Open(ctx, client, source)
	if err != nil {
		return nil, err
	}

	g := ToGray(Downscale(img, maxSide))
	if g == nil {
		return nil, fmt.Errorf("imageio: %s: %w", source, ErrEmptyData)
	}
	return g, nil
}
