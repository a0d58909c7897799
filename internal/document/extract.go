package document

import (
	"regexp"
	"strings"
)

// Anchor tokens from the fixed document layout. Field values are located
// relative to these literals because OCR output has no reliable column or
// coordinate structure by the time it reaches this stage. Anchor misreads
// (e.g. CLAVEDEELECTOR recognized as separate tokens) are a known correctness
// boundary; the split spelling is tolerated explicitly rather than hidden in
// one pattern.
const (
	anchorName     = "NOMBRE"
	anchorAddress  = "DOMICILIO"
	anchorKey      = "CLAVEDEELECTOR"
	anchorKeySplit = "CLAVE DE ELECTOR"
	anchorCURP     = "CURP"

	sexMarker = "SEXO"
)

// Per-field alphabets. Anchor-relative capture still admits stray noise
// between anchors, so each captured value gets a second, field-local cleanup.
var (
	reNotNameChars    = regexp.MustCompile(`[^A-Z\s]`)
	reNotAddressChars = regexp.MustCompile(`[^A-Z0-9\s,]`)
	reNotKeyChars     = regexp.MustCompile(`[^A-Z0-9]`)
)

// ExtractName returns the full name printed between the NOMBRE and DOMICILIO
// anchors. An optional sex marker (SEXO H / SEXO M) directly after the anchor
// is skipped. Returns ok=false when either anchor is missing or the captured
// value is empty after cleanup; it never fails on arbitrary input.
func ExtractName(text string) (string, bool) {
	captured, ok := captureBetween(text, anchorName, anchorAddress)
	if !ok {
		return "", false
	}
	captured = stripSexMarker(captured)
	return cleanField(captured, reNotNameChars)
}

// ExtractAddress returns the address printed between the DOMICILIO anchor and
// the elector-key anchor. Both the fused and the split spelling of the key
// anchor occur in practice; whichever is present terminates the field.
func ExtractAddress(text string) (string, bool) {
	for _, end := range []string{anchorKey, anchorKeySplit} {
		if captured, ok := captureBetween(text, anchorAddress, end); ok {
			return cleanField(captured, reNotAddressChars)
		}
	}
	return "", false
}

// ExtractKey returns the elector key printed between the elector-key anchor
// and the CURP anchor. The key alphabet is uppercase letters and digits;
// spaces inside the capture are OCR noise and removed.
func ExtractKey(text string) (string, bool) {
	for _, start := range []string{anchorKey, anchorKeySplit} {
		if captured, ok := captureBetween(text, start, anchorCURP); ok {
			key := reNotKeyChars.ReplaceAllString(captured, "")
			if key == "" {
				return "", false
			}
			return key, true
		}
	}
	return "", false
}

// captureBetween is the single scanner step the extractors are built from:
// find the start anchor, capture until the next occurrence of the end anchor.
func captureBetween(text, start, end string) (string, bool) {
	i := strings.Index(text, start)
	if i < 0 {
		return "", false
	}
	rest := text[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:j]), true
}

// stripSexMarker drops a leading "SEXO H" / "SEXO M" (or a bare "SEXO") from
// a captured name value.
func stripSexMarker(value string) string {
	if !strings.HasPrefix(value, sexMarker) {
		return value
	}
	value = strings.TrimSpace(strings.TrimPrefix(value, sexMarker))
	if len(value) > 1 && (value[0] == 'H' || value[0] == 'M') && value[1] == ' ' {
		value = strings.TrimSpace(value[1:])
	}
	return value
}

func cleanField(value string, notAllowed *regexp.Regexp) (string, bool) {
	value = notAllowed.ReplaceAllString(value, "")
	value = strings.TrimSpace(reSpaceRuns.ReplaceAllString(value, " "))
	if value == "" {
		return "", false
	}
	return value, true
}
