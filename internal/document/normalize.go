// Package document implements the text half of the verification pipeline:
// preparing a photographed ID card for OCR, normalizing the noisy OCR output,
// and extracting the printed fields by their anchor tokens.
package document

import (
	"regexp"
	"strings"
)

// The normalization passes run in a fixed order; later passes depend on
// earlier ones (e.g. digit-run removal assumes noise glyphs are already
// spaces). Each pass operates on the full string.
var (
	// Anything that is not a word character, whitespace, or an accented
	// vowel/Ñ is OCR noise.
	reNoise = regexp.MustCompile(`[^0-9A-Za-z_\sÁÉÍÓÚÑáéíóúñ]`)

	reSpaceRuns = regexp.MustCompile(`\s+`)

	// The printed fields are uppercase; lowercase survivors are OCR artifacts
	// or fine print.
	reLowercase = regexp.MustCompile(`[a-z]`)

	// Runs of two or more digits are dates and codes that corrupt field
	// boundaries, not part of a name or address.
	reDigitRuns = regexp.MustCompile(`[0-9]{2,}`)
)

// Normalize cleans raw OCR output into the canonical uppercase token stream
// the extractors operate on. It is a lossy, best-effort cleanup tuned to one
// document layout with no failure mode; the worst case is an empty string.
func Normalize(raw string) string {
	text := reNoise.ReplaceAllString(raw, " ")
	text = strings.TrimSpace(reSpaceRuns.ReplaceAllString(text, " "))
	text = reLowercase.ReplaceAllString(text, "")
	text = reDigitRuns.ReplaceAllString(text, "")
	return text
}
