package poppler

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/bornholm/pdfsplit/internal/core/model"
	"github.com/bornholm/pdfsplit/internal/core/port"
	"github.com/bornholm/pdfsplit/internal/util"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

const baseDPI = 72

// ThumbnailRenderer rasterizes pages with poppler's pdftoppm command.
type ThumbnailRenderer struct {
	command string
	maxSize int
}

// RenderThumbnail implements [port.ThumbnailRenderer].
func (r *ThumbnailRenderer) RenderThumbnail(ctx context.Context, doc *model.Document, page model.PageIndex, scale float64) (image.Image, error) {
	if !page.In(doc.PageCount()) {
		return nil, errors.Errorf("page %d is out of range 1-%d", page.Number(), doc.PageCount())
	}

	if scale <= 0 {
		return nil, errors.Errorf("invalid scale '%v'", scale)
	}

	baseDir, err := util.TempDir()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	tempDir, err := os.MkdirTemp(baseDir, "thumbnail-*")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer os.RemoveAll(tempDir)

	source := filepath.Join(tempDir, "source.pdf")
	target := filepath.Join(tempDir, "page")

	file, err := os.Create(source)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if _, err := io.Copy(file, doc.Reader()); err != nil {
		file.Close()
		return nil, errors.WithStack(err)
	}

	if err := file.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	number := strconv.Itoa(page.Number())
	dpi := strconv.Itoa(max(int(scale*baseDPI), 1))

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, r.command, "-f", number, "-l", number, "-r", dpi, "-png", "-singlefile", source, target)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "pdftoppm failed: %s", stderr.String())
	}

	output, err := os.Open(target + ".png")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer output.Close()

	img, err := png.Decode(output)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return fit(img, r.maxSize), nil
}

// fit downscales img so that its largest side is at most maxSize.
func fit(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return img
	}

	var ratio float64
	if width > height {
		ratio = float64(maxSize) / float64(width)
	} else {
		ratio = float64(maxSize) / float64(height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, max(int(float64(width)*ratio), 1), max(int(float64(height)*ratio), 1)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	return dst
}

func NewThumbnailRenderer(command string, maxSize int) *ThumbnailRenderer {
	return &ThumbnailRenderer{
		command: command,
		maxSize: maxSize,
	}
}

var _ port.ThumbnailRenderer = &ThumbnailRenderer{}
