package entity

import (
	"time"

	"github.com/google/uuid"
)

// Operation is an inbound delivery or outbound shipment.
type Operation struct {
	RecordID          string
	OperationID       string
	Status            string
	CustomerRecordIDs []string
	Fields            map[string]any
}

type Customer struct {
	RecordID   string
	CustomerID string
	Name       string
}

// SubmissionAudit records one reconciliation attempt and how far it got.
type SubmissionAudit struct {
	Id            uuid.UUID
	SessionID     string
	Direction     string
	OperationID   string
	CustomerID    string
	Status        string
	LogCount      int
	ItemCount     int
	AppliedChunks int
	TotalChunks   int
	ItemIDs       []string
	Error         string
	CreatedAt     time.Time
}

const (
	SubmissionStatusSucceeded = "succeeded"
	SubmissionStatusFailed    = "failed"
)
