// Package ocr defines the narrow contract against the optical character
// recognition engine. The verification pipeline only consumes the concatenated
// text of the readings, in the order the engine returns them; regions and
// confidences are carried for observability.
package ocr

import (
	"context"
	"strings"
)

// Region describes a rectangular area in pixel coordinates with the origin in
// the upper-left corner of the image.
type Region struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Reading is one recognized text region.
type Reading struct {
	Region     Region
	Text       string
	Confidence float64
}

// Engine is the OCR provider contract: one encoded image in, ordered readings
// out. An image with no recognizable text yields an empty slice, not an error.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) ([]Reading, error)
}

// JoinText concatenates reading texts in engine order, separated by single
// spaces. Empty readings are skipped.
func JoinText(readings []Reading) string {
	parts := make([]string, 0, len(readings))
	for _, r := range readings {
		if t := strings.TrimSpace(r.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
