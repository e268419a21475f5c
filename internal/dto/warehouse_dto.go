package dto

import (
	"time"

	"github.com/google/uuid"
)

type ItemResponse struct {
	Id          string         `json:"id"`
	Barcode     string         `json:"barcode"`
	BarcodeKind string         `json:"barcode_kind"`
	Name        string         `json:"name,omitempty"`
	Status      string         `json:"status,omitempty"`
	Fields      map[string]any `json:"fields"`
}

type OperationResponse struct {
	Id                string   `json:"id"`
	OperationId       string   `json:"operation_id"`
	Status            string   `json:"status"`
	CustomerRecordIds []string `json:"customer_record_ids"`
}

type CustomerResponse struct {
	Id         string `json:"id"`
	CustomerId string `json:"customer_id"`
	Name       string `json:"name"`
}

// OperationCustomerResponse is what the outgoing dashboard needs to open a
// customer scan page.
type OperationCustomerResponse struct {
	Operation OperationResponse `json:"operation"`
	Customer  CustomerResponse  `json:"customer"`
}

type UpdateItemStatusRequest struct {
	ItemId string `json:"-"`
	Status string `json:"status" validate:"required"`
}

type UpdateItemStatusResponse struct {
	Id         string `json:"id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// Submission request shape: {"logs":[{"pallet":{"id"},"items":[{"id","fields"}]}]}

type PalletRequest struct {
	Id string `json:"id" validate:"required"`
}

type LogItemRequest struct {
	Id     string         `json:"id" validate:"required"`
	Fields map[string]any `json:"fields"`
}

type LogEntryRequest struct {
	Pallet *PalletRequest   `json:"pallet"`
	Items  []LogItemRequest `json:"items" validate:"required,min=1,dive"`
}

type SubmitLogsRequest struct {
	OperationId string            `json:"-"`
	CustomerId  string            `json:"customer_id"`
	Logs        []LogEntryRequest `json:"logs" validate:"required,min=1,dive"`
}

type SubmissionResponse struct {
	SubmissionId uuid.UUID `json:"submission_id"`
	Direction    string    `json:"direction"`
	LogCount     int       `json:"log_count"`
	ItemCount    int       `json:"item_count"`
	Batches      int       `json:"batches"`
}

type SubmissionAuditResponse struct {
	Id            uuid.UUID `json:"id"`
	SessionId     string    `json:"session_id,omitempty"`
	Direction     string    `json:"direction"`
	OperationId   string    `json:"operation_id,omitempty"`
	CustomerId    string    `json:"customer_id,omitempty"`
	Status        string    `json:"status"`
	LogCount      int       `json:"log_count"`
	ItemCount     int       `json:"item_count"`
	AppliedChunks int       `json:"applied_batches"`
	TotalChunks   int       `json:"total_batches"`
	ItemIds       []string  `json:"item_ids"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type ListSubmissionsQuery struct {
	Limit     int    `query:"limit"`
	Offset    int    `query:"offset"`
	Direction string `query:"direction" validate:"omitempty,oneof=incoming outgoing"`
	Status    string `query:"status" validate:"omitempty,oneof=succeeded failed"`
}

type SubmissionAuditListResponse struct {
	Data  []SubmissionAuditResponse `json:"data"`
	Total int64                     `json:"total"`
	Limit int                       `json:"limit"`
}
