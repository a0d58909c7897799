package verification

import "time"

// ExtractedIdentity holds the fields recovered from the document text. Every
// field is optional because extraction can fail independently per field;
// absence is a valid terminal state, not an error.
type ExtractedIdentity struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	ElectorKey *string `json:"elector_key"`
}

// Record is the persisted union of the extracted fields and the face match
// outcome for one submission. Append-only; never mutated after creation.
type Record struct {
	ID              string    `json:"id"`
	Name            *string   `json:"name"`
	Address         *string   `json:"address"`
	ElectorKey      *string   `json:"elector_key"`
	Matched         bool      `json:"matched"`
	MatchedWorkerID *string   `json:"matched_worker_id"`
	Similarity      *float64  `json:"similarity"`
	CreatedAt       time.Time `json:"created_at"`
}

// Result is what a verification request returns to the caller. AuditStored
// is false when the record could not be durably stored: the result is still
// served but the request is a partial success (audit trail missing).
type Result struct {
	Record      Record `json:"record"`
	AuditStored bool   `json:"audit_stored"`
}
