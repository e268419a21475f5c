package service

import (
	"context"
	"errors"

	"warehouse-scan-be/internal/constant"
	"warehouse-scan-be/internal/dto"
	"warehouse-scan-be/internal/entity"
	"warehouse-scan-be/internal/mapper"
	"warehouse-scan-be/internal/pkg/logger"
	"warehouse-scan-be/internal/pkg/mailer"
	"warehouse-scan-be/internal/repository/contract"
	"warehouse-scan-be/internal/repository/specification"
	"warehouse-scan-be/internal/tracer"
	"warehouse-scan-be/pkg/airtable"
	"warehouse-scan-be/pkg/movement"
	"warehouse-scan-be/pkg/scan"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SubmissionRequest is one batch of committed logs to reconcile.
type SubmissionRequest struct {
	SessionID string
	Scope     scan.Scope
	Logs      []scan.LogEntry
}

type ISubmissionService interface {
	Submit(ctx context.Context, req SubmissionRequest) (*dto.SubmissionResponse, error)
	SubmitIncoming(ctx context.Context, req *dto.SubmitLogsRequest) (*dto.SubmissionResponse, error)
	SubmitOutgoing(ctx context.Context, req *dto.SubmitLogsRequest) (*dto.SubmissionResponse, error)
}

type submissionService struct {
	items      contract.IItemRepository
	operations contract.IOperationRepository
	inventory  IInventoryService
	publisher  movement.Publisher
	alerts     IAlertPublisher
	mapper     *mapper.WarehouseMapper
	tracer     trace.Tracer
	logger     logger.ILogger
}

func NewSubmissionService(
	items contract.IItemRepository,
	operations contract.IOperationRepository,
	inventory IInventoryService,
	publisher movement.Publisher,
	alerts IAlertPublisher,
	mapper *mapper.WarehouseMapper,
	logger logger.ILogger,
) ISubmissionService {
	return &submissionService{
		items:      items,
		operations: operations,
		inventory:  inventory,
		publisher:  publisher,
		alerts:     alerts,
		mapper:     mapper,
		tracer:     otel.Tracer(tracer.ServiceName),
		logger:     logger,
	}
}

func (s *submissionService) SubmitIncoming(ctx context.Context, req *dto.SubmitLogsRequest) (*dto.SubmissionResponse, error) {
	return s.Submit(ctx, SubmissionRequest{
		Scope: scan.Scope{Direction: scan.DirectionIncoming, OperationID: req.OperationId},
		Logs:  s.mapper.LogEntries(req.Logs),
	})
}

func (s *submissionService) SubmitOutgoing(ctx context.Context, req *dto.SubmitLogsRequest) (*dto.SubmissionResponse, error) {
	return s.Submit(ctx, SubmissionRequest{
		Scope: scan.Scope{Direction: scan.DirectionOutgoing, CustomerID: req.CustomerId},
		Logs:  s.mapper.LogEntries(req.Logs),
	})
}

// Submit writes every logged item to the store in chunks of
// airtable.MaxRecordsPerUpdate, in log order, then marks an incoming
// operation as stored. Chunks already written when a later one fails stay
// written; the error reports how many were applied.
func (s *submissionService) Submit(ctx context.Context, req SubmissionRequest) (*dto.SubmissionResponse, error) {
	if len(req.Logs) == 0 {
		return nil, scan.ErrNoLogs
	}
	// The store writes must not stop half way because the caller went away.
	ctx = context.WithoutCancel(ctx)

	incoming := req.Scope.Direction == scan.DirectionIncoming
	if !incoming && req.Scope.Direction != scan.DirectionOutgoing {
		return nil, scan.Validationf("unknown direction %q", req.Scope.Direction)
	}

	var op *entity.Operation
	if incoming {
		for _, l := range req.Logs {
			if l.Pallet == nil || l.Pallet.ID == "" {
				return nil, scan.ErrNoPallet
			}
		}

		found, err := s.operations.FindOne(ctx, specification.ByOperationID{OperationID: req.Scope.OperationID})
		if err != nil {
			return nil, scan.Transport("look up operation", err)
		}
		if found == nil {
			return nil, scan.Lookupf("operation %q not found", req.Scope.OperationID)
		}
		op = found
	}

	updates := buildItemUpdates(req.Scope.Direction, req.Logs)
	if len(updates) == 0 {
		return nil, scan.ErrEmptySelection
	}

	summary := movement.Submission{
		SubmissionID: uuid.NewString(),
		Direction:    string(req.Scope.Direction),
		OperationID:  req.Scope.OperationID,
		CustomerID:   req.Scope.CustomerID,
		SessionID:    req.SessionID,
		LogCount:     len(req.Logs),
		ItemIDs:      updateIDs(updates),
		TotalChunks:  len(scan.Chunk(updates, airtable.MaxRecordsPerUpdate)),
	}

	s.logger.Info("SUBMISSION", "Submitting logs", map[string]interface{}{
		"submission_id": summary.SubmissionID,
		"direction":     summary.Direction,
		"operation_id":  summary.OperationID,
		"customer_id":   summary.CustomerID,
		"items":         len(updates),
		"batches":       summary.TotalChunks,
	})

	if err := scan.Dispatch(ctx, updates, airtable.MaxRecordsPerUpdate, s.writeChunk); err != nil {
		applied := summary.TotalChunks
		var chunkErr *scan.ChunkError
		if errors.As(err, &chunkErr) {
			applied = chunkErr.Applied
		}
		s.fail(ctx, summary, applied, updates, err)
		return nil, err
	}

	if op != nil {
		if err := s.operations.UpdateStatus(ctx, op.RecordID, constant.StatusStored); err != nil {
			err = scan.Transport("mark operation stored", err)
			s.fail(ctx, summary, summary.TotalChunks, updates, err)
			return nil, err
		}
		s.inventory.InvalidateOperations()
	}

	summary.AppliedChunks = summary.TotalChunks
	s.publisher.PublishSubmissionSucceeded(ctx, summary)
	s.logger.Info("SUBMISSION", "Submission applied", map[string]interface{}{
		"submission_id": summary.SubmissionID,
		"items":         len(updates),
	})

	return &dto.SubmissionResponse{
		SubmissionId: uuid.MustParse(summary.SubmissionID),
		Direction:    summary.Direction,
		LogCount:     summary.LogCount,
		ItemCount:    len(updates),
		Batches:      summary.TotalChunks,
	}, nil
}

func (s *submissionService) writeChunk(ctx context.Context, index int, chunk []airtable.RecordUpdate) error {
	ctx, span := s.tracer.Start(ctx, "submission.write_chunk", trace.WithAttributes(
		attribute.Int("chunk.index", index),
		attribute.Int("chunk.size", len(chunk)),
	))
	defer span.End()

	if err := s.items.UpdateFields(ctx, chunk); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *submissionService) fail(ctx context.Context, summary movement.Submission, applied int, updates []airtable.RecordUpdate, err error) {
	summary.AppliedChunks = applied
	summary.Error = err.Error()

	s.logger.Error("SUBMISSION", "Submission failed", map[string]interface{}{
		"submission_id":  summary.SubmissionID,
		"applied_chunks": applied,
		"total_chunks":   summary.TotalChunks,
		"error":          err.Error(),
	})
	s.publisher.PublishSubmissionFailed(ctx, summary)

	// Nothing reached the store, so there is nothing to reconcile.
	if applied == 0 {
		return
	}

	split := min(applied*airtable.MaxRecordsPerUpdate, len(updates))
	alert := mailer.ReconciliationAlert{
		Direction:      summary.Direction,
		OperationID:    summary.OperationID,
		CustomerID:     summary.CustomerID,
		AppliedChunks:  applied,
		TotalChunks:    summary.TotalChunks,
		AppliedItemIDs: updateIDs(updates[:split]),
		PendingItemIDs: updateIDs(updates[split:]),
		Reason:         err.Error(),
	}
	if perr := s.alerts.PublishReconciliationAlert(alert); perr != nil {
		s.logger.Error("SUBMISSION", "Failed to queue reconciliation alert", map[string]interface{}{"error": perr.Error()})
	}
}

func buildItemUpdates(direction scan.Direction, logs []scan.LogEntry) []airtable.RecordUpdate {
	var updates []airtable.RecordUpdate
	for _, l := range logs {
		for _, item := range l.Items {
			fields := map[string]any{}
			if direction == scan.DirectionIncoming {
				fields[constant.FieldPallet] = l.Pallet.ID
				fields[constant.FieldStatus] = constant.StatusStored
			} else {
				fields[constant.FieldPallet] = nil
				fields[constant.FieldStatus] = constant.StatusInTransitOutgoing
			}
			updates = append(updates, airtable.RecordUpdate{ID: item.ID, Fields: fields})
		}
	}
	return updates
}

func updateIDs(updates []airtable.RecordUpdate) []string {
	ids := make([]string, len(updates))
	for i, u := range updates {
		ids[i] = u.ID
	}
	return ids
}
