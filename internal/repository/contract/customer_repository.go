package contract

import (
	"context"

	"warehouse-scan-be/internal/entity"
)

type ICustomerRepository interface {
	FindAll(ctx context.Context) ([]*entity.Customer, error)
	FindByRecordID(ctx context.Context, recordID string) (*entity.Customer, error)
}
