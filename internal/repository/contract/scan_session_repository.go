package contract

import "warehouse-scan-be/pkg/scan"

// IScanSessionRepository holds live sessions. Sessions expire after a period
// without access.
type IScanSessionRepository interface {
	Save(session *scan.Session)
	Get(sessionID string) (*scan.Session, bool)
	Delete(sessionID string)
	Count() int
}
