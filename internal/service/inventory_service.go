package service

import (
	"context"
	"time"

	"warehouse-scan-be/internal/constant"
	"warehouse-scan-be/internal/dto"
	"warehouse-scan-be/internal/mapper"
	"warehouse-scan-be/internal/pkg/logger"
	"warehouse-scan-be/internal/repository/contract"
	"warehouse-scan-be/internal/repository/specification"
	"warehouse-scan-be/pkg/airtable"
	"warehouse-scan-be/pkg/movement"
	"warehouse-scan-be/pkg/scan"

	"github.com/patrickmn/go-cache"
)

type IInventoryService interface {
	ListOperations(ctx context.Context, flow string) ([]dto.OperationResponse, error)
	ResolveOperationCustomer(ctx context.Context, operationRecordID string) (*dto.OperationCustomerResponse, error)
	FindCustomer(ctx context.Context, customerRecordID string) (*dto.CustomerResponse, error)

	ItemsForOperation(ctx context.Context, operationID string) ([]dto.ItemResponse, error)
	IncomingItems(ctx context.Context, operationID string) ([]dto.ItemResponse, error)
	ItemsForCustomer(ctx context.Context, customerID string) ([]dto.ItemResponse, error)
	StoredItemsForCustomer(ctx context.Context, customerID string) ([]dto.ItemResponse, error)

	// ScopeItems loads the items a scan session may select.
	ScopeItems(ctx context.Context, scope scan.Scope) ([]scan.Item, error)

	UpdateItemStatus(ctx context.Context, req *dto.UpdateItemStatusRequest) (*dto.UpdateItemStatusResponse, error)

	// InvalidateOperations drops cached operation lists after a status write.
	InvalidateOperations()
}

type inventoryService struct {
	items      contract.IItemRepository
	operations contract.IOperationRepository
	customers  contract.ICustomerRepository
	publisher  movement.Publisher
	mapper     *mapper.WarehouseMapper
	opCache    *cache.Cache
	logger     logger.ILogger
}

func NewInventoryService(
	items contract.IItemRepository,
	operations contract.IOperationRepository,
	customers contract.ICustomerRepository,
	publisher movement.Publisher,
	mapper *mapper.WarehouseMapper,
	operationsTTL time.Duration,
	logger logger.ILogger,
) IInventoryService {
	return &inventoryService{
		items:      items,
		operations: operations,
		customers:  customers,
		publisher:  publisher,
		mapper:     mapper,
		opCache:    cache.New(operationsTTL, 2*operationsTTL),
		logger:     logger,
	}
}

func (s *inventoryService) ListOperations(ctx context.Context, flow string) ([]dto.OperationResponse, error) {
	var status string
	switch flow {
	case "", constant.FlowIncoming:
		flow, status = constant.FlowIncoming, constant.StatusOnTheWay
	case constant.FlowOutgoing:
		flow, status = constant.FlowOutgoing, constant.StatusOutgoing
	default:
		return nil, scan.Validationf("unknown flow %q", flow)
	}

	if cached, ok := s.opCache.Get(flow); ok {
		return cached.([]dto.OperationResponse), nil
	}

	ops, err := s.operations.FindAll(ctx, specification.ByStatus{Status: status})
	if err != nil {
		return nil, scan.Transport("list operations", err)
	}
	res := s.mapper.Operations(ops)
	s.opCache.SetDefault(flow, res)
	return res, nil
}

func (s *inventoryService) InvalidateOperations() {
	s.opCache.Flush()
}

func (s *inventoryService) ResolveOperationCustomer(ctx context.Context, operationRecordID string) (*dto.OperationCustomerResponse, error) {
	op, err := s.operations.FindByRecordID(ctx, operationRecordID)
	if err != nil {
		return nil, err
	}
	if len(op.CustomerRecordIDs) == 0 {
		return nil, scan.Lookupf("operation %s has no linked customer", operationRecordID)
	}

	customer, err := s.customers.FindByRecordID(ctx, op.CustomerRecordIDs[0])
	if err != nil {
		return nil, err
	}
	if customer.CustomerID == "" {
		return nil, scan.Lookupf("customer %s has no Customer ID", customer.RecordID)
	}

	return &dto.OperationCustomerResponse{
		Operation: s.mapper.Operation(op),
		Customer:  s.mapper.Customer(customer),
	}, nil
}

func (s *inventoryService) FindCustomer(ctx context.Context, customerRecordID string) (*dto.CustomerResponse, error) {
	customer, err := s.customers.FindByRecordID(ctx, customerRecordID)
	if err != nil {
		return nil, err
	}
	res := s.mapper.Customer(customer)
	return &res, nil
}

func (s *inventoryService) ItemsForOperation(ctx context.Context, operationID string) ([]dto.ItemResponse, error) {
	return s.findItems(ctx, specification.ByOperationID{OperationID: operationID})
}

func (s *inventoryService) IncomingItems(ctx context.Context, operationID string) ([]dto.ItemResponse, error) {
	return s.findItems(ctx,
		specification.ByOperationID{OperationID: operationID},
		specification.ByStatus{Status: constant.StatusOnTheWay},
	)
}

func (s *inventoryService) ItemsForCustomer(ctx context.Context, customerID string) ([]dto.ItemResponse, error) {
	return s.findItems(ctx, specification.ByCustomerID{CustomerID: customerID})
}

func (s *inventoryService) StoredItemsForCustomer(ctx context.Context, customerID string) ([]dto.ItemResponse, error) {
	return s.findItems(ctx,
		specification.ByCustomerID{CustomerID: customerID},
		specification.ByStatus{Status: constant.StatusStored},
	)
}

func (s *inventoryService) findItems(ctx context.Context, specs ...specification.RecordSpecification) ([]dto.ItemResponse, error) {
	items, err := s.items.FindAll(ctx, specs...)
	if err != nil {
		return nil, scan.Transport("fetch items", err)
	}
	return s.mapper.Items(items), nil
}

func (s *inventoryService) ScopeItems(ctx context.Context, scope scan.Scope) ([]scan.Item, error) {
	var specs []specification.RecordSpecification
	switch scope.Direction {
	case scan.DirectionIncoming:
		if scope.OperationID == "" {
			return nil, scan.Validationf("operation id is required for incoming sessions")
		}
		specs = append(specs, specification.ByOperationID{OperationID: scope.OperationID})
	case scan.DirectionOutgoing:
		if scope.CustomerID == "" {
			return nil, scan.Validationf("customer id is required for outgoing sessions")
		}
		specs = append(specs,
			specification.ByCustomerID{CustomerID: scope.CustomerID},
			specification.ByStatus{Status: constant.StatusStored},
		)
	default:
		return nil, scan.Validationf("unknown direction %q", scope.Direction)
	}

	items, err := s.items.FindAll(ctx, specs...)
	if err != nil {
		return nil, scan.Transport("fetch items", err)
	}
	return items, nil
}

// UpdateItemStatus moves a single item out of "On The Way". Any other
// current status is rejected so a stale screen cannot overwrite a later move.
func (s *inventoryService) UpdateItemStatus(ctx context.Context, req *dto.UpdateItemStatusRequest) (*dto.UpdateItemStatusResponse, error) {
	item, err := s.items.FindByID(ctx, req.ItemId)
	if err != nil {
		return nil, err
	}

	current := scan.ResolveFieldValue(item.Fields[constant.FieldStatus]).Value
	if current != constant.StatusOnTheWay {
		return nil, scan.Validationf("item %s is %q, only %q items can be updated", req.ItemId, current, constant.StatusOnTheWay)
	}

	err = s.items.UpdateFields(ctx, []airtable.RecordUpdate{{
		ID:     req.ItemId,
		Fields: map[string]any{constant.FieldStatus: req.Status},
	}})
	if err != nil {
		return nil, scan.Transport("update item status", err)
	}

	s.logger.Info("INVENTORY", "Item status updated", map[string]interface{}{
		"item_id": req.ItemId,
		"from":    current,
		"to":      req.Status,
	})
	s.publisher.PublishItemStatusUpdated(ctx, req.ItemId, current, req.Status)

	return &dto.UpdateItemStatusResponse{Id: req.ItemId, FromStatus: current, ToStatus: req.Status}, nil
}
