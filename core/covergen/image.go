package covergen

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	_ "image/jpeg" // register JPEG decoding for image covers

	"github.com/stegoflow/stegoflow/core/codec"
	xdraw "golang.org/x/image/draw"
)

// FromImage decodes a PNG or JPEG and returns its grayscale pixel
// plane as cover data. Bit-0 changes in a gray plane stay below the
// visible threshold, which is what makes rasters useful carriers.
func FromImage(r io.Reader) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover image: %w", err)
	}
	return grayPlane(img), nil
}

// FitToCapacity scales the image until its pixel plane can carry at
// least minPayload bytes, then returns the plane. Images that are
// already large enough are not scaled.
func FitToCapacity(img image.Image, minPayload int) ([]byte, error) {
	if minPayload < 0 {
		return nil, fmt.Errorf("negative payload size: %d", minPayload)
	}
	need := codec.RequiredCoverSize(minPayload)

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("cannot scale an empty image")
	}
	if width*height >= need {
		return grayPlane(img), nil
	}

	factor := math.Sqrt(float64(need) / float64(width*height))
	newWidth := int(math.Ceil(float64(width) * factor))
	newHeight := int(math.Ceil(float64(height) * factor))
	for newWidth*newHeight < need {
		newWidth++
	}

	dst := image.NewGray(image.Rect(0, 0, newWidth, newHeight))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst.Pix, nil
}

// ToPNG wraps a (possibly steganographic) byte plane back into a
// grayscale PNG of the given width. The plane is padded with zero rows
// when its length is not a multiple of the width.
func ToPNG(data []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %d", width)
	}
	height := (len(data) + width - 1) / width
	if height == 0 {
		height = 1
	}

	gray := image.NewGray(image.Rect(0, 0, width, height))
	copy(gray.Pix, data)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("failed to encode cover image: %w", err)
	}
	return buf.Bytes(), nil
}

// grayPlane converts any image to its grayscale pixel bytes.
func grayPlane(img image.Image) []byte {
	if gray, ok := img.(*image.Gray); ok {
		out := make([]byte, len(gray.Pix))
		copy(out, gray.Pix)
		return out
	}
	bounds := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
	return dst.Pix
}
