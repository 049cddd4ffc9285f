package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Domain event types emitted after successful writes. Transport and
// delivery guarantees are the subscriber's problem; emission is
// best-effort and never fails the originating request.
const (
	TypeAttendanceRecorded = "attendance.recorded"
	TypePaymentReceived    = "payment.received"
	TypeStudentsPromoted   = "students.promoted"
)

type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher is what the domain services depend on.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
	Close() error
}

type Producer struct {
	conn          *nats.Conn
	subjectPrefix string
	logger        *slog.Logger
}

func NewProducer(url, subjectPrefix string, logger *slog.Logger) (*Producer, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	logger.Info("NATS producer initialized", "url", url, "subject_prefix", subjectPrefix)

	return &Producer{
		conn:          nc,
		subjectPrefix: subjectPrefix,
		logger:        logger,
	}, nil
}

func (p *Producer) Publish(ctx context.Context, eventType string, payload interface{}) error {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "type", eventType, "error", err)
		return err
	}

	subject := p.subjectPrefix + "." + eventType
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event", "subject", subject, "error", err)
		return err
	}

	p.logger.InfoContext(ctx, "event published", "subject", subject, "event_id", event.ID)
	return nil
}

func (p *Producer) Close() error {
	p.conn.Close()
	return nil
}

// Emit publishes through an optional publisher. A nil publisher or a
// publish failure only logs; the caller's write has already succeeded.
func Emit(ctx context.Context, pub Publisher, logger *slog.Logger, eventType string, payload interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, eventType, payload); err != nil {
		logger.WarnContext(ctx, "event emission failed", "type", eventType, "error", err)
	}
}
