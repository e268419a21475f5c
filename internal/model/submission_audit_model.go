package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubmissionAudit struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionID     string         `gorm:"type:varchar(64);index"`
	Direction     string         `gorm:"type:varchar(16);not null;index"`
	OperationID   string         `gorm:"type:varchar(100);index"`
	CustomerID    string         `gorm:"type:varchar(100);index"`
	Status        string         `gorm:"type:varchar(16);not null;index"`
	LogCount      int            `gorm:"not null"`
	ItemCount     int            `gorm:"not null"`
	AppliedChunks int            `gorm:"not null"`
	TotalChunks   int            `gorm:"not null"`
	ItemIDs       datatypes.JSON `gorm:"type:jsonb"`
	Error         string         `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index"`
}

func (SubmissionAudit) TableName() string {
	return "submission_audits"
}
