package implementation

import (
	"context"
	"encoding/json"

	"warehouse-scan-be/internal/entity"
	"warehouse-scan-be/internal/model"
	"warehouse-scan-be/internal/repository/contract"
	"warehouse-scan-be/internal/repository/specification"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type submissionAuditRepositoryImpl struct {
	db *gorm.DB
}

func NewSubmissionAuditRepository(db *gorm.DB) contract.ISubmissionAuditRepository {
	return &submissionAuditRepositoryImpl{db: db}
}

func (r *submissionAuditRepositoryImpl) Create(ctx context.Context, audit *entity.SubmissionAudit) error {
	ids, err := json.Marshal(audit.ItemIDs)
	if err != nil {
		return err
	}
	m := &model.SubmissionAudit{
		Id:            audit.Id,
		SessionID:     audit.SessionID,
		Direction:     audit.Direction,
		OperationID:   audit.OperationID,
		CustomerID:    audit.CustomerID,
		Status:        audit.Status,
		LogCount:      audit.LogCount,
		ItemCount:     audit.ItemCount,
		AppliedChunks: audit.AppliedChunks,
		TotalChunks:   audit.TotalChunks,
		ItemIDs:       datatypes.JSON(ids),
		Error:         audit.Error,
		CreatedAt:     audit.CreatedAt,
	}
	// Redelivered events carry the same id and are ignored.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error
}

func (r *submissionAuditRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubmissionAudit, error) {
	var rows []*model.SubmissionAudit
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*entity.SubmissionAudit, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.mapToEntity(row))
	}
	return out, nil
}

func (r *submissionAuditRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	query := r.db.WithContext(ctx).Model(&model.SubmissionAudit{})
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *submissionAuditRepositoryImpl) mapToEntity(m *model.SubmissionAudit) *entity.SubmissionAudit {
	var ids []string
	if len(m.ItemIDs) > 0 {
		_ = json.Unmarshal(m.ItemIDs, &ids)
	}
	return &entity.SubmissionAudit{
		Id:            m.Id,
		SessionID:     m.SessionID,
		Direction:     m.Direction,
		OperationID:   m.OperationID,
		CustomerID:    m.CustomerID,
		Status:        m.Status,
		LogCount:      m.LogCount,
		ItemCount:     m.ItemCount,
		AppliedChunks: m.AppliedChunks,
		TotalChunks:   m.TotalChunks,
		ItemIDs:       ids,
		Error:         m.Error,
		CreatedAt:     m.CreatedAt,
	}
}
