package service

import (
	"context"
	"strings"
	"time"

	"warehouse-scan-be/internal/dto"
	"warehouse-scan-be/internal/mapper"
	"warehouse-scan-be/internal/pkg/logger"
	"warehouse-scan-be/internal/repository/contract"
	"warehouse-scan-be/pkg/scan"

	"github.com/google/uuid"
)

// SnapshotNotifier pushes session state to connected scanner screens.
// Typically implemented by the WebSocket Hub.
type SnapshotNotifier interface {
	NotifySession(sessionID string, session dto.ScanSessionResponse)
}

// ScanSessionConfig holds the per-session scanner settings.
type ScanSessionConfig struct {
	Mode       scan.SelectionMode
	KeyGap     time.Duration
	Terminator string
}

type IScanSessionService interface {
	Start(ctx context.Context, req *dto.StartScanSessionRequest) (*dto.ScanSessionResponse, error)
	Get(ctx context.Context, sessionID string) (*dto.ScanSessionResponse, error)
	Discard(ctx context.Context, sessionID string) error

	FeedKeys(ctx context.Context, sessionID string, req *dto.FeedKeysRequest) (*dto.FeedKeysResponse, error)
	// HandleKey applies a single keystroke and returns the scan result when
	// it completed a barcode.
	HandleKey(ctx context.Context, sessionID string, ev scan.KeyEvent) (*dto.ScanResultResponse, error)
	SubmitBarcode(ctx context.Context, sessionID string, req *dto.BarcodeRequest) (*dto.ScanResponse, error)
	Unselect(ctx context.Context, sessionID, itemID string) (*dto.ScanSessionResponse, error)

	CommitLog(ctx context.Context, sessionID string) (*dto.ScanSessionResponse, error)
	EditLog(ctx context.Context, sessionID, logID string) (*dto.ScanSessionResponse, error)
	ClearLog(ctx context.Context, sessionID, logID string) (*dto.ScanSessionResponse, error)

	Submit(ctx context.Context, sessionID string) (*dto.SubmissionResponse, error)

	SetNotifier(notifier SnapshotNotifier)
}

type scanSessionService struct {
	sessions    contract.IScanSessionRepository
	inventory   IInventoryService
	submissions ISubmissionService
	classifier  *scan.Classifier
	mapper      *mapper.WarehouseMapper
	cfg         ScanSessionConfig
	notifier    SnapshotNotifier
	logger      logger.ILogger
}

func NewScanSessionService(
	sessions contract.IScanSessionRepository,
	inventory IInventoryService,
	submissions ISubmissionService,
	classifier *scan.Classifier,
	mapper *mapper.WarehouseMapper,
	cfg ScanSessionConfig,
	logger logger.ILogger,
) IScanSessionService {
	return &scanSessionService{
		sessions:    sessions,
		inventory:   inventory,
		submissions: submissions,
		classifier:  classifier,
		mapper:      mapper,
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *scanSessionService) SetNotifier(notifier SnapshotNotifier) {
	s.notifier = notifier
}

func (s *scanSessionService) Start(ctx context.Context, req *dto.StartScanSessionRequest) (*dto.ScanSessionResponse, error) {
	scope := scan.Scope{
		Direction:   scan.Direction(req.Direction),
		OperationID: req.OperationId,
		CustomerID:  req.CustomerId,
	}
	items, err := s.inventory.ScopeItems(ctx, scope)
	if err != nil {
		return nil, err
	}

	session := scan.NewSession(uuid.NewString(), scope, items, scan.Options{
		Mode:       s.cfg.Mode,
		Decoder:    scan.NewDecoder(s.cfg.KeyGap, s.cfg.Terminator),
		Classifier: s.classifier,
	})
	s.sessions.Save(session)

	s.logger.Info("SCAN_SESSION", "Session started", map[string]interface{}{
		"session_id":   session.ID(),
		"direction":    req.Direction,
		"operation_id": req.OperationId,
		"customer_id":  req.CustomerId,
		"items":        len(items),
	})
	return s.render(session), nil
}

func (s *scanSessionService) Get(ctx context.Context, sessionID string) (*dto.ScanSessionResponse, error) {
	session, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}
	return s.render(session), nil
}

func (s *scanSessionService) Discard(ctx context.Context, sessionID string) error {
	if _, err := s.find(sessionID); err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	return nil
}

func (s *scanSessionService) FeedKeys(ctx context.Context, sessionID string, req *dto.FeedKeysRequest) (*dto.FeedKeysResponse, error) {
	session, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}

	scans := make([]dto.ScanResultResponse, 0)
	for _, ev := range req.Events {
		c, ok, err := session.HandleKey(scan.KeyEvent{Key: ev.Key, At: ev.At})
		if ok {
			scans = append(scans, s.mapper.Scan(c, err))
		}
	}

	return &dto.FeedKeysResponse{Scans: scans, Session: *s.publish(session)}, nil
}

func (s *scanSessionService) HandleKey(ctx context.Context, sessionID string, ev scan.KeyEvent) (*dto.ScanResultResponse, error) {
	session, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}
	c, ok, err := session.HandleKey(ev)
	if !ok {
		return nil, nil
	}
	res := s.mapper.Scan(c, err)
	s.publish(session)
	return &res, nil
}

// SubmitBarcode applies a manually entered barcode exactly like a scanned
// one. Surrounding whitespace is dropped.
func (s *scanSessionService) SubmitBarcode(ctx context.Context, sessionID string, req *dto.BarcodeRequest) (*dto.ScanResponse, error) {
	session, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}
	c, err := session.HandleToken(strings.TrimSpace(req.Barcode))
	if scan.IsValidation(err) {
		return nil, err
	}
	return &dto.ScanResponse{Scan: s.mapper.Scan(c, err), Session: *s.publish(session)}, nil
}

func (s *scanSessionService) Unselect(ctx context.Context, sessionID, itemID string) (*dto.ScanSessionResponse, error) {
	return s.mutate(sessionID, func(session *scan.Session) error {
		session.UnselectItem(itemID)
		return nil
	})
}

func (s *scanSessionService) CommitLog(ctx context.Context, sessionID string) (*dto.ScanSessionResponse, error) {
	return s.mutate(sessionID, func(session *scan.Session) error {
		_, err := session.CommitLog()
		return err
	})
}

func (s *scanSessionService) EditLog(ctx context.Context, sessionID, logID string) (*dto.ScanSessionResponse, error) {
	return s.mutate(sessionID, func(session *scan.Session) error {
		return session.EditLog(logID)
	})
}

func (s *scanSessionService) ClearLog(ctx context.Context, sessionID, logID string) (*dto.ScanSessionResponse, error) {
	return s.mutate(sessionID, func(session *scan.Session) error {
		return session.ClearLog(logID)
	})
}

// Submit sends every committed log of the session. On success the session is
// reset and its items reloaded; on failure it is left exactly as it was so
// the operator can retry.
func (s *scanSessionService) Submit(ctx context.Context, sessionID string) (*dto.SubmissionResponse, error) {
	session, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}

	logs, err := session.BeginSubmission()
	if err != nil {
		return nil, err
	}
	s.publish(session)

	res, err := s.submissions.Submit(ctx, SubmissionRequest{
		SessionID: session.ID(),
		Scope:     session.Scope(),
		Logs:      logs,
	})
	session.EndSubmission(err == nil)

	if err == nil {
		items, rerr := s.inventory.ScopeItems(context.WithoutCancel(ctx), session.Scope())
		if rerr != nil {
			s.logger.Warn("SCAN_SESSION", "Failed to refresh items after submission", map[string]interface{}{
				"session_id": session.ID(),
				"error":      rerr.Error(),
			})
		} else {
			session.ReplaceItems(items)
		}
	}

	s.publish(session)
	return res, err
}

func (s *scanSessionService) mutate(sessionID string, fn func(*scan.Session) error) (*dto.ScanSessionResponse, error) {
	session, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	return s.publish(session), nil
}

func (s *scanSessionService) find(sessionID string) (*scan.Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, scan.Lookupf("scan session %s not found", sessionID)
	}
	return session, nil
}

func (s *scanSessionService) render(session *scan.Session) *dto.ScanSessionResponse {
	res := s.mapper.Session(session.Snapshot())
	return &res
}

// publish renders the session and pushes it to any connected screens.
func (s *scanSessionService) publish(session *scan.Session) *dto.ScanSessionResponse {
	res := s.render(session)
	if s.notifier != nil {
		s.notifier.NotifySession(session.ID(), *res)
	}
	return res
}
