package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"verident/internal/face"
	"verident/internal/verification"
	derrors "verident/pkg/domain-errors"
	"verident/pkg/requestcontext"
)

// maxUploadBytes bounds the multipart form; ID card photographs are a few MB.
const maxUploadBytes = 10 << 20

//go:generate mockgen -source=handler.go -destination=mocks/handler_mocks.go -package=mocks VerifierService,EnrollmentService

// VerifierService runs the full verification pipeline for one image.
type VerifierService interface {
	Verify(ctx context.Context, image []byte) (verification.Result, error)
}

// EnrollmentService registers reference faces and answers worker lookups.
type EnrollmentService interface {
	Enroll(ctx context.Context, workerID string, image []byte) (face.Enrollment, error)
	LatestWorker(ctx context.Context) (face.Enrollment, error)
}

// Handler is the thin HTTP layer over the identity pipeline. It delegates to
// the services without embedding business logic so transport concerns remain
// isolated.
type Handler struct {
	logger     *slog.Logger
	verifier   VerifierService
	enrollment EnrollmentService
}

func New(verifier VerifierService, enrollment EnrollmentService, logger *slog.Logger) *Handler {
	return &Handler{
		logger:     logger,
		verifier:   verifier,
		enrollment: enrollment,
	}
}

// Register mounts the identity routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/identity/verify", h.handleVerify)
	r.Post("/identity/enroll", h.handleEnroll)
	r.Get("/identity/workers/latest", h.handleLatestWorker)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	image, err := readImagePart(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.verifier.Verify(ctx, image)
	if err != nil {
		h.logError(ctx, "verification failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type enrollResponse struct {
	WorkerID   string    `json:"worker_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	image, err := readImagePart(r)
	if err != nil {
		writeError(w, err)
		return
	}
	workerID := r.FormValue("worker_id")

	enrollment, err := h.enrollment.Enroll(ctx, workerID, image)
	if err != nil {
		h.logError(ctx, "enrollment failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, enrollResponse{
		WorkerID:   enrollment.WorkerID,
		EnrolledAt: enrollment.EnrolledAt,
	})
}

func (h *Handler) handleLatestWorker(w http.ResponseWriter, r *http.Request) {
	enrollment, err := h.enrollment.LatestWorker(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enrollResponse{
		WorkerID:   enrollment.WorkerID,
		EnrolledAt: enrollment.EnrolledAt,
	})
}

// readImagePart extracts the uploaded image bytes from the multipart form.
func readImagePart(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, derrors.New(derrors.CodeBadRequest, "invalid multipart form")
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, derrors.New(derrors.CodeBadRequest, "no image file provided")
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, derrors.New(derrors.CodeBadRequest, "could not read image")
	}
	return image, nil
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	code := derrors.CodeOf(err)
	if code == derrors.CodeInternal || code == derrors.CodeUnavailable {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"code", string(code),
	)
}

// writeError centralizes domain error translation to HTTP responses so every
// handler produces the same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := derrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	var de *derrors.Error
	if errors.As(err, &de) && de.Message != "" {
		body["message"] = de.Message
	}
	writeJSON(w, derrors.ToHTTPStatus(code), body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
