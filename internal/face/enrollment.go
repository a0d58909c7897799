package face

import (
	"context"
	"errors"
	"log/slog"

	"verident/internal/audit"
	"verident/internal/platform/metrics"
	derrors "verident/pkg/domain-errors"
	"verident/pkg/requestcontext"
	"verident/pkg/sentinel"
)

// EnrollmentService owns the invariant "at most one enrolled face per worker".
// An existence check ahead of face detection decides duplicates; the store's
// conditional insert remains the backstop, so two concurrent enrollments for
// one worker cannot both commit.
type EnrollmentService struct {
	provider Provider
	store    Store
	auditor  audit.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewEnrollmentService(provider Provider, store Store, auditor audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *EnrollmentService {
	return &EnrollmentService{
		provider: provider,
		store:    store,
		auditor:  auditor,
		metrics:  m,
		logger:   logger,
	}
}

// Enroll registers the reference face for a worker. The duplicate check runs
// before face detection so an already-enrolled worker is always rejected as a
// duplicate, whatever the submitted image contains. When the image holds
// several faces only the first detection is used; multi-face images are not
// rejected. Nothing is written to the store unless a face was found.
func (s *EnrollmentService) Enroll(ctx context.Context, workerID string, image []byte) (Enrollment, error) {
	if workerID == "" {
		return Enrollment{}, derrors.New(derrors.CodeBadRequest, "worker id is required")
	}
	if len(image) == 0 {
		return Enrollment{}, derrors.New(derrors.CodeBadRequest, "image is required")
	}

	if _, err := s.store.FindByWorker(ctx, workerID); err == nil {
		s.metrics.RecordEnrollment("duplicate")
		s.emit(ctx, audit.ActionEnrollmentRejected, workerID, "already enrolled")
		return Enrollment{}, derrors.New(derrors.CodeDuplicate, "worker already has an enrolled face")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.RecordEnrollment("failed")
		return Enrollment{}, derrors.Wrap(derrors.CodeUnavailable, "enrollment store unavailable", err)
	}

	embeddings, err := s.provider.DetectAndEncode(ctx, image)
	if err != nil {
		return Enrollment{}, s.classifyProviderError(ctx, workerID, err)
	}
	if len(embeddings) == 0 {
		s.metrics.RecordEnrollment("no_face")
		s.emit(ctx, audit.ActionEnrollmentRejected, workerID, "no face detected")
		return Enrollment{}, derrors.New(derrors.CodeNoFace, "no face detected in image")
	}

	enrollment := Enrollment{
		WorkerID:   workerID,
		Embedding:  embeddings[0],
		EnrolledAt: requestcontext.Now(ctx),
	}
	if err := s.store.InsertIfAbsent(ctx, enrollment); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.RecordEnrollment("duplicate")
			s.emit(ctx, audit.ActionEnrollmentRejected, workerID, "already enrolled")
			return Enrollment{}, derrors.Wrap(derrors.CodeDuplicate, "worker already has an enrolled face", err)
		}
		s.metrics.RecordEnrollment("failed")
		return Enrollment{}, derrors.Wrap(derrors.CodeUnavailable, "enrollment store unavailable", err)
	}

	s.metrics.RecordEnrollment("enrolled")
	s.emit(ctx, audit.ActionWorkerEnrolled, workerID, "")
	return enrollment, nil
}

// LatestWorker returns the most recently enrolled worker.
func (s *EnrollmentService) LatestWorker(ctx context.Context) (Enrollment, error) {
	enrollment, err := s.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Enrollment{}, derrors.New(derrors.CodeNotFound, "no workers enrolled")
		}
		return Enrollment{}, derrors.Wrap(derrors.CodeUnavailable, "enrollment store unavailable", err)
	}
	return enrollment, nil
}

func (s *EnrollmentService) classifyProviderError(ctx context.Context, workerID string, err error) error {
	switch {
	case errors.Is(err, sentinel.ErrDecode):
		s.metrics.RecordEnrollment("failed")
		return derrors.Wrap(derrors.CodeBadRequest, "image could not be decoded", err)
	case errors.Is(err, sentinel.ErrUnavailable):
		s.metrics.RecordEnrollment("failed")
		return derrors.Wrap(derrors.CodeUnavailable, "face service unavailable", err)
	default:
		s.metrics.RecordEnrollment("failed")
		s.logger.ErrorContext(ctx, "face encoding failed",
			"worker_id", workerID,
			"error", err.Error(),
		)
		return derrors.Wrap(derrors.CodeInternal, "face encoding failed", err)
	}
}

func (s *EnrollmentService) emit(ctx context.Context, action audit.Action, workerID, reason string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:    action,
		WorkerID:  workerID,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	})
}
