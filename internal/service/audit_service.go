package service

import (
	"context"
	"slices"
	"time"

	"warehouse-scan-be/internal/dto"
	"warehouse-scan-be/internal/entity"
	"warehouse-scan-be/internal/mapper"
	"warehouse-scan-be/internal/pkg/logger"
	"warehouse-scan-be/internal/repository/contract"
	"warehouse-scan-be/internal/repository/specification"
	"warehouse-scan-be/pkg/events"
	"warehouse-scan-be/pkg/movement"
	pktNats "warehouse-scan-be/pkg/nats"
	"warehouse-scan-be/pkg/scan"

	"github.com/google/uuid"
)

const (
	defaultAuditLimit = 20
	maxAuditLimit     = 100
	auditDurable      = "submission-audit-worker"
)

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler pktNats.EventHandler) error
}

type IAuditService interface {
	// Start attaches the audit writer to the event bus. Without a bus it is a
	// no-op and submissions are recorded through RecordingPublisher instead.
	Start(ctx context.Context) error
	Record(ctx context.Context, status string, s movement.Submission) error
	List(ctx context.Context, query *dto.ListSubmissionsQuery) (*dto.SubmissionAuditListResponse, error)
}

type auditService struct {
	repo       contract.ISubmissionAuditRepository
	subscriber EventSubscriber
	mapper     *mapper.WarehouseMapper
	logger     logger.ILogger
	now        func() time.Time
}

// NewAuditService accepts a nil repository (no database configured); List
// then reports the trail as unavailable and Record does nothing.
func NewAuditService(
	repo contract.ISubmissionAuditRepository,
	subscriber EventSubscriber,
	mapper *mapper.WarehouseMapper,
	logger logger.ILogger,
) IAuditService {
	return &auditService{
		repo:       repo,
		subscriber: subscriber,
		mapper:     mapper,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *auditService) Start(ctx context.Context) error {
	if s.subscriber == nil || s.repo == nil {
		return nil
	}
	for _, eventType := range []string{movement.EventSubmissionSucceeded, movement.EventSubmissionFailed} {
		if err := s.subscriber.Subscribe(ctx, eventType, auditDurable+"-"+eventType, s.handleEvent); err != nil {
			return err
		}
	}
	s.logger.Info("AUDIT", "Audit service listening for submission events", nil)
	return nil
}

func (s *auditService) handleEvent(ctx context.Context, event events.Event) error {
	status := entity.SubmissionStatusSucceeded
	if event.EventType() == movement.EventSubmissionFailed {
		status = entity.SubmissionStatusFailed
	}
	return s.Record(ctx, status, submissionFromPayload(event.Payload()))
}

func (s *auditService) Record(ctx context.Context, status string, sub movement.Submission) error {
	if s.repo == nil {
		return nil
	}
	id, err := uuid.Parse(sub.SubmissionID)
	if err != nil {
		id = uuid.New()
	}
	return s.repo.Create(ctx, &entity.SubmissionAudit{
		Id:            id,
		SessionID:     sub.SessionID,
		Direction:     sub.Direction,
		OperationID:   sub.OperationID,
		CustomerID:    sub.CustomerID,
		Status:        status,
		LogCount:      sub.LogCount,
		ItemCount:     len(sub.ItemIDs),
		AppliedChunks: sub.AppliedChunks,
		TotalChunks:   sub.TotalChunks,
		ItemIDs:       sub.ItemIDs,
		Error:         sub.Error,
		CreatedAt:     s.now(),
	})
}

func (s *auditService) List(ctx context.Context, query *dto.ListSubmissionsQuery) (*dto.SubmissionAuditListResponse, error) {
	if s.repo == nil {
		return nil, scan.Lookupf("submission audit trail is not configured")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	limit = min(limit, maxAuditLimit)
	offset := max(query.Offset, 0)

	var filters []specification.Specification
	if query.Direction != "" {
		filters = append(filters, specification.ByDirection{Direction: query.Direction})
	}
	if query.Status != "" {
		filters = append(filters, specification.ByAuditStatus{Status: query.Status})
	}

	specs := append(slices.Clone(filters),
		specification.NewestFirst{},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	audits, err := s.repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	data := make([]dto.SubmissionAuditResponse, 0, len(audits))
	for _, a := range audits {
		data = append(data, s.mapper.Audit(a))
	}
	return &dto.SubmissionAuditListResponse{Data: data, Total: total, Limit: limit}, nil
}

// submissionFromPayload reverses movement.Submission's event data. Numbers
// arrive as float64 after the JSON round trip.
func submissionFromPayload(p map[string]interface{}) movement.Submission {
	str := func(k string) string {
		v, _ := p[k].(string)
		return v
	}
	num := func(k string) int {
		switch v := p[k].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
		return 0
	}

	var ids []string
	switch v := p["item_ids"].(type) {
	case []string:
		ids = v
	case []interface{}:
		for _, id := range v {
			if s, ok := id.(string); ok {
				ids = append(ids, s)
			}
		}
	}

	return movement.Submission{
		SubmissionID:  str("submission_id"),
		Direction:     str("direction"),
		OperationID:   str("operation_id"),
		CustomerID:    str("customer_id"),
		SessionID:     str("session_id"),
		LogCount:      num("log_count"),
		ItemIDs:       ids,
		AppliedChunks: num("applied_chunks"),
		TotalChunks:   num("total_chunks"),
		Error:         str("error"),
	}
}

// RecordingPublisher writes submission outcomes straight to the audit trail
// and forwards every event to next. It stands in for the bus subscriber when
// NATS is not configured.
type RecordingPublisher struct {
	next   movement.Publisher
	audit  IAuditService
	logger logger.ILogger
}

func NewRecordingPublisher(next movement.Publisher, audit IAuditService, logger logger.ILogger) *RecordingPublisher {
	return &RecordingPublisher{next: next, audit: audit, logger: logger}
}

func (p *RecordingPublisher) PublishSubmissionSucceeded(ctx context.Context, s movement.Submission) {
	p.record(ctx, entity.SubmissionStatusSucceeded, s)
	p.next.PublishSubmissionSucceeded(ctx, s)
}

func (p *RecordingPublisher) PublishSubmissionFailed(ctx context.Context, s movement.Submission) {
	p.record(ctx, entity.SubmissionStatusFailed, s)
	p.next.PublishSubmissionFailed(ctx, s)
}

func (p *RecordingPublisher) PublishItemStatusUpdated(ctx context.Context, itemID, from, to string) {
	p.next.PublishItemStatusUpdated(ctx, itemID, from, to)
}

func (p *RecordingPublisher) record(ctx context.Context, status string, s movement.Submission) {
	if err := p.audit.Record(ctx, status, s); err != nil {
		p.logger.Error("AUDIT", "Failed to record submission", map[string]interface{}{
			"submission_id": s.SubmissionID,
			"error":         err.Error(),
		})
	}
}
