package specification

import (
	"gorm.io/gorm"
)

type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}

type NewestFirst struct{}

func (NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

type ByDirection struct {
	Direction string
}

func (s ByDirection) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("direction = ?", s.Direction)
}

type ByAuditStatus struct {
	Status string
}

func (s ByAuditStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
