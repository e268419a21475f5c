package contract

import (
	"context"

	"warehouse-scan-be/internal/entity"
	"warehouse-scan-be/internal/repository/specification"
)

type ISubmissionAuditRepository interface {
	Create(ctx context.Context, audit *entity.SubmissionAudit) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubmissionAudit, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
