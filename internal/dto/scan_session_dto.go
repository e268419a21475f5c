package dto

import "time"

type StartScanSessionRequest struct {
	Direction   string `json:"direction" validate:"required,oneof=incoming outgoing"`
	OperationId string `json:"operation_id" validate:"required_if=Direction incoming"`
	CustomerId  string `json:"customer_id" validate:"required_if=Direction outgoing"`
}

type KeyEventRequest struct {
	Key string    `json:"key" validate:"required"`
	At  time.Time `json:"at"`
}

type FeedKeysRequest struct {
	Events []KeyEventRequest `json:"events" validate:"required,min=1,dive"`
}

type BarcodeRequest struct {
	Barcode string `json:"barcode" validate:"required"`
}

type PalletResponse struct {
	Id string `json:"id"`
}

type LogEntryResponse struct {
	LogId     string          `json:"log_id"`
	Pallet    *PalletResponse `json:"pallet"`
	Items     []ItemResponse  `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

type SessionItemResponse struct {
	ItemResponse
	Selected bool `json:"selected"`
	Logged   bool `json:"logged"`
}

type ScanSessionResponse struct {
	Id            string                `json:"id"`
	Direction     string                `json:"direction"`
	OperationId   string                `json:"operation_id,omitempty"`
	CustomerId    string                `json:"customer_id,omitempty"`
	State         string                `json:"state"`
	SelectionMode string                `json:"selection_mode"`
	Pallet        *PalletResponse       `json:"pallet"`
	Items         []SessionItemResponse `json:"items"`
	Selected      []ItemResponse        `json:"selected"`
	Logs          []LogEntryResponse    `json:"logs"`
	Submitting    bool                  `json:"submitting"`
	PendingKeys   string                `json:"pending_keys,omitempty"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

type ScanResultResponse struct {
	Kind   string `json:"kind"`
	Token  string `json:"token"`
	ItemId string `json:"item_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

type ScanResponse struct {
	Scan    ScanResultResponse  `json:"scan"`
	Session ScanSessionResponse `json:"session"`
}

type FeedKeysResponse struct {
	Scans   []ScanResultResponse `json:"scans"`
	Session ScanSessionResponse  `json:"session"`
}
