package audit

import "time"

// Action names the auditable steps of the verification pipeline.
type Action string

const (
	ActionWorkerEnrolled        Action = "worker_enrolled"
	ActionEnrollmentRejected    Action = "enrollment_rejected"
	ActionVerificationCompleted Action = "verification_completed"
	ActionPersistFailed         Action = "verification_persist_failed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	// WorkerID is the external worker identifier involved, when known.
	WorkerID string `json:"worker_id,omitempty"`
	// RecordID links to the persisted verification record, when one exists.
	RecordID string `json:"record_id,omitempty"`
	// Decision summarizes the outcome (e.g. "matched", "unmatched").
	Decision string `json:"decision,omitempty"`
	// Reason explains rejections and failures.
	Reason string `json:"reason,omitempty"`
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string `json:"request_id,omitempty"`
}
