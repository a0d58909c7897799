// Package tesseract adapts the gosseract client to the ocr.Engine contract.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"verident/internal/ocr"
)

// Engine implements ocr.Engine using a fresh gosseract client per call.
// Clients are cheap to construct and not safe for concurrent use, so the
// factory keeps the engine itself shareable across requests.
type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed OCR engine with the given trained-data
// language hints (e.g. "spa", "eng").
func New(languages []string) *Engine {
	return &Engine{
		languages:     append([]string(nil), languages...),
		clientFactory: gosseract.NewClient,
	}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on a single encoded image and returns word-level
// readings in layout order.
func (e *Engine) Recognize(ctx context.Context, image []byte) ([]ocr.Reading, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	readings := make([]ocr.Reading, 0, len(boxes))
	for _, b := range boxes {
		if b.Word == "" {
			continue
		}
		readings = append(readings, ocr.Reading{
			Region: ocr.Region{
				X:      float64(b.Box.Min.X),
				Y:      float64(b.Box.Min.Y),
				Width:  float64(b.Box.Dx()),
				Height: float64(b.Box.Dy()),
			},
			Text:       b.Word,
			Confidence: b.Confidence / 100.0,
		})
	}
	return readings, nil
}
