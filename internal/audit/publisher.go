package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher captures structured audit events. Emission is best-effort and
// must never block or fail a verification request; delivery guarantees live
// in the sink.
type Publisher interface {
	Emit(ctx context.Context, event Event)
}

// Sink is where events ultimately land (Kafka, memory for tests, a logger as
// last resort).
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// AsyncPublisher decouples emission from delivery through a buffered inbox
// consumed by a Worker. A full inbox drops the event with a log line rather
// than stalling the request path.
type AsyncPublisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewAsyncPublisher(buffer int, logger *slog.Logger) *AsyncPublisher {
	return &AsyncPublisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

func (p *AsyncPublisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, event dropped",
			"action", string(event.Action),
			"worker_id", event.WorkerID,
		)
	}
}

// Inbox exposes the receive side for the worker.
func (p *AsyncPublisher) Inbox() <-chan Event { return p.inbox }

// Worker consumes audit events from the publisher inbox and appends them to
// the sink. It keeps background processing testable without wiring queue
// implementations into services.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run drains the inbox until the context is canceled. Sink failures are
// logged and the worker keeps going; the audit trail is best-effort.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit append failed",
					"action", string(event.Action),
					"error", err.Error(),
				)
			}
		}
	}
}

// LogSink writes events to the structured log. Used when no Kafka brokers
// are configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Append(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "audit",
		"action", string(event.Action),
		"worker_id", event.WorkerID,
		"record_id", event.RecordID,
		"decision", event.Decision,
		"reason", event.Reason,
		"request_id", event.RequestID,
	)
	return nil
}
