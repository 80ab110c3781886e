package montage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gogpu/imgfilter"
	"github.com/gogpu/imgfilter/internal/imageio"
)

// Sink displays a titled group of panels.
type Sink interface {
	Show(ctx context.Context, title string, panels []Panel) error
}

// FileSink composes panels and writes them as <Dir>/<slug(title)>.png.
type FileSink struct {
	Dir     string
	Options Options
}

// NewFileSink returns a FileSink writing to dir with DefaultOptions.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir, Options: DefaultOptions()}
}

// Show implements Sink.
func (s *FileSink) Show(ctx context.Context, title string, panels []Panel) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := Compose(panels, s.Options)
	if err != nil {
		return fmt.Errorf("montage: %s: %w", title, err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("montage: create output directory: %w", err)
	}

	path := s.Path(title)
	if err := imageio.SaveImage(path, img); err != nil {
		return err
	}

	imgfilter.Logger().Debug("montage: panels written", "title", title, "panels", len(panels), "path", path)
	return nil
}

// Path returns the file the sink writes for title.
func (s *FileSink) Path(title string) string {
	return filepath.Join(s.Dir, Slug(title)+".png")
}

// Slug lowercases title and replaces every run of non-alphanumeric
// characters with a single '-'. An empty result becomes "montage".
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "montage"
	}
	return s
}
