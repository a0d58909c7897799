// Package verification sequences the two halves of the identity pipeline for
// one submitted document image: preprocessing, OCR and field extraction on
// one branch, face encoding and corpus matching on the other, merged into a
// single persisted record.
package verification

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"verident/internal/audit"
	"verident/internal/document"
	"verident/internal/face"
	"verident/internal/ocr"
	"verident/internal/platform/metrics"
	derrors "verident/pkg/domain-errors"
	"verident/pkg/requestcontext"
	"verident/pkg/sentinel"
)

// CorpusMatcher is the slice of the face matcher the orchestrator needs.
type CorpusMatcher interface {
	MatchAny(ctx context.Context, probe []byte) (face.MatchResult, error)
}

// Service orchestrates one verification request. The text and face branches
// are independent and best-effort: a branch failure degrades that branch's
// contribution (fields "not found", matched=false) instead of failing the
// request. Only external-service outages fail the whole request, since an
// empty-but-successful response would be indistinguishable from a genuine
// non-match.
type Service struct {
	engine        ocr.Engine
	matcher       CorpusMatcher
	records       Store
	auditor       audit.Publisher
	metrics       *metrics.Metrics
	logger        *slog.Logger
	branchTimeout time.Duration
	tracer        trace.Tracer
}

func NewService(
	engine ocr.Engine,
	matcher CorpusMatcher,
	records Store,
	auditor audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	branchTimeout time.Duration,
) *Service {
	return &Service{
		engine:        engine,
		matcher:       matcher,
		records:       records,
		auditor:       auditor,
		metrics:       m,
		logger:        logger,
		branchTimeout: branchTimeout,
		tracer:        otel.Tracer("verident/verification"),
	}
}

// Verify runs the full pipeline for one submitted document image. The raw
// image lives only for the duration of this call and is never persisted.
func (s *Service) Verify(ctx context.Context, image []byte) (Result, error) {
	if len(image) == 0 {
		return Result{}, derrors.New(derrors.CodeBadRequest, "image is required")
	}
	decoded, err := document.Decode(image)
	if err != nil {
		return Result{}, derrors.Wrap(derrors.CodeBadRequest, "image could not be decoded", err)
	}

	var (
		identity ExtractedIdentity
		match    face.MatchResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		identity, err = s.textBranch(gctx, decoded)
		return err
	})
	g.Go(func() error {
		var err error
		match, err = s.faceBranch(gctx, image)
		return err
	})
	if err := g.Wait(); err != nil {
		s.metrics.RecordVerification("failed")
		return Result{}, err
	}

	record := Record{
		ID:         uuid.NewString(),
		Name:       identity.Name,
		Address:    identity.Address,
		ElectorKey: identity.ElectorKey,
		Matched:    match.Matched,
		Similarity: match.Similarity,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if match.Matched {
		workerID := match.WorkerID
		record.MatchedWorkerID = &workerID
		if match.Similarity != nil {
			s.metrics.ObserveSimilarity(*match.Similarity)
		}
	}

	result := Result{Record: record, AuditStored: true}
	if err := s.records.Insert(ctx, record); err != nil {
		// The computed result is still served; the caller is told the audit
		// trail is missing.
		s.logger.ErrorContext(ctx, "verification record not persisted",
			"record_id", record.ID,
			"error", err.Error(),
		)
		s.metrics.RecordVerification("partial")
		s.emit(ctx, audit.Event{
			Action:    audit.ActionPersistFailed,
			RecordID:  record.ID,
			Reason:    err.Error(),
			RequestID: requestcontext.RequestID(ctx),
		})
		result.AuditStored = false
		return result, nil
	}

	outcome := "unmatched"
	if match.Matched {
		outcome = "matched"
	}
	s.metrics.RecordVerification(outcome)
	s.emit(ctx, audit.Event{
		Action:    audit.ActionVerificationCompleted,
		WorkerID:  match.WorkerID,
		RecordID:  record.ID,
		Decision:  outcome,
		RequestID: requestcontext.RequestID(ctx),
	})
	return result, nil
}

// textBranch runs preprocess → OCR → normalize → extract. Extraction misses
// and timeouts degrade to absent fields; only an unavailable OCR engine
// propagates.
func (s *Service) textBranch(ctx context.Context, img image.Image) (ExtractedIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.branchTimeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "verification.text_branch")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveBranch("text", time.Since(start)) }()

	prepared := document.Preprocess(img)
	encoded, err := document.EncodePNG(prepared)
	if err != nil {
		s.logger.WarnContext(ctx, "preprocessed image encoding failed", "error", err.Error())
		return ExtractedIdentity{}, nil
	}

	readings, err := s.engine.Recognize(ctx, encoded)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return ExtractedIdentity{}, derrors.Wrap(derrors.CodeUnavailable, "ocr engine unavailable", err)
		}
		s.logger.WarnContext(ctx, "ocr degraded",
			"engine", s.engine.Name(),
			"error", err.Error(),
		)
		return ExtractedIdentity{}, nil
	}

	normalized := document.Normalize(ocr.JoinText(readings))

	var identity ExtractedIdentity
	if name, ok := document.ExtractName(normalized); ok {
		identity.Name = &name
	}
	if address, ok := document.ExtractAddress(normalized); ok {
		identity.Address = &address
	}
	if key, ok := document.ExtractKey(normalized); ok {
		identity.ElectorKey = &key
	}
	span.SetAttributes(
		attribute.String("engine", s.engine.Name()),
		attribute.Bool("name_found", identity.Name != nil),
		attribute.Bool("address_found", identity.Address != nil),
		attribute.Bool("elector_key_found", identity.ElectorKey != nil),
	)
	return identity, nil
}

// faceBranch encodes the probe and matches it against the enrolled corpus.
// No detected face and timeouts degrade to a negative result; an unavailable
// face service propagates.
func (s *Service) faceBranch(ctx context.Context, image []byte) (face.MatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.branchTimeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "verification.face_branch")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveBranch("face", time.Since(start)) }()

	match, err := s.matcher.MatchAny(ctx, image)
	if err != nil {
		switch {
		// An expired branch deadline also surfaces as an unavailable face
		// service, so the timeout check runs first.
		case errors.Is(err, context.DeadlineExceeded):
			s.logger.WarnContext(ctx, "face branch timed out")
			return face.MatchResult{}, nil
		case derrors.Is(err, derrors.CodeUnavailable):
			return face.MatchResult{}, err
		default:
			// The image decoded locally, so a provider-side rejection is a
			// degraded branch, not a caller error.
			s.logger.WarnContext(ctx, "face match degraded", "error", err.Error())
			return face.MatchResult{}, nil
		}
	}
	span.SetAttributes(attribute.Bool("matched", match.Matched))
	return match, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	s.auditor.Emit(ctx, event)
}
