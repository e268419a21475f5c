package specification

import (
	"warehouse-scan-be/pkg/airtable"

	"gorm.io/gorm"
)

// Specification narrows a gorm query (audit trail).
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// RecordSpecification narrows a record-store query to a filter formula.
type RecordSpecification interface {
	Formula() airtable.Formula
}

// Combine ANDs record specifications together.
func Combine(specs ...RecordSpecification) airtable.Formula {
	parts := make([]airtable.Formula, 0, len(specs))
	for _, s := range specs {
		parts = append(parts, s.Formula())
	}
	return airtable.And(parts...)
}
