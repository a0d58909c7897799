package document

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"

	"verident/pkg/sentinel"
)

// Contrast and brightness multipliers tuned empirically against low-resolution
// phone captures of the source document.
const (
	contrastFactor   = 5.0
	brightnessFactor = 2.0
)

// Decode parses an encoded photograph. Unreadable payloads surface
// sentinel.ErrDecode so the service layer can classify them as caller input
// errors.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel.ErrDecode, err)
	}
	return img, nil
}

// Preprocess prepares a photographed document for the OCR engine: single
// channel luminance, doubled linear dimensions with a bicubic-equivalent
// filter to compensate for low-resolution captures, then fixed contrast and
// brightness boosts. It is a pure transform with no error path; degenerate
// inputs produce degenerate outputs and downstream OCR simply finds no text.
func Preprocess(img image.Image) *image.Gray {
	bounds := img.Bounds()

	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(gray, gray.Bounds(), img, bounds.Min, xdraw.Src)

	scaled := image.NewGray(image.Rect(0, 0, bounds.Dx()*2, bounds.Dy()*2))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), gray, gray.Bounds(), xdraw.Src, nil)

	return enhance(scaled)
}

// enhance applies contrast around the image mean, then a brightness multiplier,
// mirroring the enhancement order of the capture tuning.
func enhance(img *image.Gray) *image.Gray {
	pix := img.Pix
	if len(pix) == 0 {
		return img
	}

	var sum uint64
	for _, p := range pix {
		sum += uint64(p)
	}
	mean := float64(sum) / float64(len(pix))

	out := image.NewGray(img.Bounds())
	for i, p := range pix {
		v := mean + contrastFactor*(float64(p)-mean)
		v *= brightnessFactor
		out.Pix[i] = clampByte(v)
	}
	return out
}

// EncodePNG serializes a preprocessed image for engines that consume encoded
// bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func clampByte(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
