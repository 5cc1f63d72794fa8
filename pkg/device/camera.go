package device

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register decoder
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder
)

// Shot is the result of a camera capture.
type Shot struct {
	Canceled bool
	Base64   string
}

// Camera captures still images.
type Camera interface {
	RequestPermission(ctx context.Context) (PermissionStatus, error)
	Capture(ctx context.Context) (Shot, error)
}

// FileCamera "captures" by asking for an image file and re-encoding it as JPEG.
type FileCamera struct {
	perms   Permissions
	prompt  Prompter
	maxDim  int
	quality int
}

// NewFileCamera builds a camera that reads images from disk. maxDim bounds the
// longest side in pixels and quality is the JPEG quality (1-100).
func NewFileCamera(perms Permissions, prompt Prompter, maxDim, quality int) *FileCamera {
	return &FileCamera{perms: perms, prompt: prompt, maxDim: maxDim, quality: quality}
}

func (c *FileCamera) RequestPermission(ctx context.Context) (PermissionStatus, error) {
	if c.perms == nil {
		return StatusUndetermined, nil
	}
	return c.perms.Request(ctx, PermissionCamera)
}

// Capture asks for a path; an empty answer cancels the capture.
func (c *FileCamera) Capture(ctx context.Context) (Shot, error) {
	if c.prompt == nil {
		return Shot{Canceled: true}, nil
	}
	path, err := c.prompt.Ask(ctx, "Caminho da foto (vazio cancela):")
	if err != nil {
		return Shot{}, fmt.Errorf("ask photo path: %w", err)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Shot{Canceled: true}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Shot{}, fmt.Errorf("read photo: %w", err)
	}
	encoded, err := EncodeJPEG(raw, c.maxDim, c.quality)
	if err != nil {
		return Shot{}, err
	}
	return Shot{Base64: base64.StdEncoding.EncodeToString(encoded)}, nil
}

// EncodeJPEG decodes any registered image format, applies the EXIF orientation,
// fits it within maxDim and re-encodes it as JPEG at quality.
func EncodeJPEG(data []byte, maxDim, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	img = applyOrientation(img, exifOrientation(data))
	img = fit(img, maxDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// exifOrientation returns the EXIF orientation tag, 1 when absent.
func exifOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

// applyOrientation maps every source pixel to its upright position.
func applyOrientation(img image.Image, orientation int) image.Image {
	if orientation < 2 || orientation > 8 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	dw, dh := w, h
	if orientation >= 5 {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch orientation {
			case 2:
				dx, dy = w-1-x, y
			case 3:
				dx, dy = w-1-x, h-1-y
			case 4:
				dx, dy = x, h-1-y
			case 5:
				dx, dy = y, x
			case 6:
				dx, dy = h-1-y, x
			case 7:
				dx, dy = h-1-y, w-1-x
			case 8:
				dx, dy = y, w-1-x
			}
			dst.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// fit scales img down so neither side exceeds maxDim, keeping the aspect ratio.
func fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if s := float64(maxDim) / float64(h); s < scale {
		scale = s
	}
	nw, nh := max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
