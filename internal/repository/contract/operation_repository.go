package contract

import (
	"context"

	"warehouse-scan-be/internal/entity"
	"warehouse-scan-be/internal/repository/specification"
)

type IOperationRepository interface {
	FindAll(ctx context.Context, specs ...specification.RecordSpecification) ([]*entity.Operation, error)
	// FindOne returns nil, nil when nothing matches.
	FindOne(ctx context.Context, specs ...specification.RecordSpecification) (*entity.Operation, error)
	FindByRecordID(ctx context.Context, recordID string) (*entity.Operation, error)
	UpdateStatus(ctx context.Context, recordID, status string) error
}
