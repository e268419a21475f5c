package movement

import (
	"context"
	"time"

	"warehouse-scan-be/internal/pkg/logger"
	pkgEvents "warehouse-scan-be/pkg/events"
)

const (
	EventSubmissionSucceeded = "SCAN_SUBMISSION_SUCCEEDED"
	EventSubmissionFailed    = "SCAN_SUBMISSION_FAILED"
	EventItemStatusUpdated   = "ITEM_STATUS_UPDATED"
)

// Submission summarises one reconciliation attempt.
type Submission struct {
	SubmissionID  string
	Direction     string
	OperationID   string
	CustomerID    string
	SessionID     string
	LogCount      int
	ItemIDs       []string
	AppliedChunks int
	TotalChunks   int
	Error         string
}

func (s Submission) data() map[string]interface{} {
	d := map[string]interface{}{
		"submission_id":  s.SubmissionID,
		"direction":      s.Direction,
		"operation_id":   s.OperationID,
		"customer_id":    s.CustomerID,
		"session_id":     s.SessionID,
		"log_count":      s.LogCount,
		"item_count":     len(s.ItemIDs),
		"item_ids":       s.ItemIDs,
		"applied_chunks": s.AppliedChunks,
		"total_chunks":   s.TotalChunks,
	}
	if s.Error != "" {
		d["error"] = s.Error
	}
	return d
}

// EventPublisher is satisfied by *nats.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

type Publisher interface {
	PublishSubmissionSucceeded(ctx context.Context, s Submission)
	PublishSubmissionFailed(ctx context.Context, s Submission)
	PublishItemStatusUpdated(ctx context.Context, itemID, from, to string)
}

// NatsPublisher publishes movement events. Failures are logged and never
// returned: the store write they describe has already happened.
type NatsPublisher struct {
	publisher EventPublisher
	logger    logger.ILogger
	now       func() time.Time
}

// NewNatsPublisher accepts a nil publisher, in which case every call is a
// no-op (NATS not configured).
func NewNatsPublisher(publisher EventPublisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{publisher: publisher, logger: logger, now: time.Now}
}

func (p *NatsPublisher) PublishSubmissionSucceeded(ctx context.Context, s Submission) {
	p.publish(ctx, EventSubmissionSucceeded, s.data())
}

func (p *NatsPublisher) PublishSubmissionFailed(ctx context.Context, s Submission) {
	p.publish(ctx, EventSubmissionFailed, s.data())
}

func (p *NatsPublisher) PublishItemStatusUpdated(ctx context.Context, itemID, from, to string) {
	p.publish(ctx, EventItemStatusUpdated, map[string]interface{}{
		"item_id":     itemID,
		"from_status": from,
		"to_status":   to,
	})
}

func (p *NatsPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.publisher == nil {
		return
	}
	evt := pkgEvents.BaseEvent{Type: eventType, Data: data, OccurredAt: p.now()}
	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("MOVEMENT", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}
