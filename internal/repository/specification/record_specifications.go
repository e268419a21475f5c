package specification

import (
	"warehouse-scan-be/internal/constant"
	"warehouse-scan-be/pkg/airtable"
)

// ByOperationID matches items or operations carrying the human operation id.
type ByOperationID struct {
	OperationID string
}

func (s ByOperationID) Formula() airtable.Formula {
	return airtable.Eq(constant.FieldOperationID, s.OperationID)
}

// ByCustomerID matches items whose customer field equals the business id.
type ByCustomerID struct {
	CustomerID string
}

func (s ByCustomerID) Formula() airtable.Formula {
	return airtable.Eq(constant.FieldCustomerID, s.CustomerID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Formula() airtable.Formula {
	return airtable.Eq(constant.FieldStatus, s.Status)
}

// RawFormula passes a formula through unchanged.
type RawFormula string

func (s RawFormula) Formula() airtable.Formula {
	return airtable.Formula(s)
}
