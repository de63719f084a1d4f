package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const DefaultMaxImageSize = 5 * 1024 * 1024

type ImageProcessor struct {
	MaxSize int64 // bytes
	Quality int   // JPEG quality of the output
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: DefaultMaxImageSize, Quality: 90}
}

// ValidateImage accepts JPEG and PNG up to MaxSize.
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("image is empty")
	}
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("image exceeds %dMB", p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// Fit scales the image to fit a size x size box and re-encodes it as JPEG.
// Smaller images are not enlarged.
func (p *ImageProcessor) Fit(data []byte, size int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	out := img
	b := img.Bounds()
	if b.Dx() > size || b.Dy() > size {
		out = imaging.Fit(img, size, size, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, out, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("cannot encode image: %w", err)
	}
	return buf.Bytes(), nil
}
