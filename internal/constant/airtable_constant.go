package constant

// Tables
const (
	TableItem      = "Item"
	TableOperation = "Operation"
	TableCustomer  = "Customer"
)

// Field names
const (
	FieldStatus      = "Status"
	FieldPallet      = "Pallet"
	FieldBarcode     = "Barcode"
	FieldName        = "Name"
	FieldOperationID = "Operation ID"
	FieldCustomerID  = "Customer ID"
)

// Item and operation status values
const (
	StatusOnTheWay          = "On The Way"
	StatusStored            = "Stored"
	StatusInTransitOutgoing = "In Transit - Outgoing"
	StatusOutgoing          = "Outgoing"
)

// Operation flows listed on the dashboards.
const (
	FlowIncoming = "incoming"
	FlowOutgoing = "outgoing"
)
