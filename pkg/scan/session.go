package scan

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// SelectionMode decides what re-scanning an already selected item does.
type SelectionMode string

const (
	SelectToggle  SelectionMode = "toggle"
	SelectAddOnly SelectionMode = "add-only"
)

func ParseSelectionMode(s string) SelectionMode {
	if SelectionMode(s) == SelectAddOnly {
		return SelectAddOnly
	}
	return SelectToggle
}

type State string

const (
	StateIdle          State = "IDLE"
	StatePalletScanned State = "PALLET_SCANNED"
	StateItemsSelected State = "ITEMS_SELECTED"
)

// Scope identifies what a session is moving.
type Scope struct {
	Direction   Direction `json:"direction"`
	OperationID string    `json:"operation_id,omitempty"`
	CustomerID  string    `json:"customer_id,omitempty"`
}

// RequiresPallet reports whether CommitLog needs a scanned pallet. Outgoing
// moves clear the pallet link, so they do not.
func (s Scope) RequiresPallet() bool {
	return s.Direction != DirectionOutgoing
}

type Pallet struct {
	ID string `json:"id"`
}

type LogEntry struct {
	ID        string    `json:"log_id"`
	Pallet    *Pallet   `json:"pallet,omitempty"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

func (l LogEntry) ItemIDs() []string {
	ids := make([]string, len(l.Items))
	for i, item := range l.Items {
		ids[i] = item.ID
	}
	return ids
}

// Snapshot is a detached copy of a session's state.
type Snapshot struct {
	ID            string
	Scope         Scope
	State         State
	Mode          SelectionMode
	Items         []Item
	Selected      []Item
	Pallet        *Pallet
	Logs          []LogEntry
	LoggedItemIDs []string
	Submitting    bool
	PendingKeys   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Options configures a new Session. Nil fields get defaults.
type Options struct {
	Mode       SelectionMode
	Decoder    *Decoder
	Classifier *Classifier
	Now        func() time.Time
	NewLogID   func() string
}

// Session is the scan-session state machine. All methods are safe for
// concurrent use; mutations are applied one at a time in call order.
type Session struct {
	mu sync.Mutex

	id         string
	scope      Scope
	mode       SelectionMode
	decoder    *Decoder
	classifier *Classifier
	now        func() time.Time
	newLogID   func() string

	items    []Item
	index    map[string]int
	selected []string
	pallet   *Pallet
	logs     []LogEntry
	logged   map[string]struct{}

	submitting bool
	createdAt  time.Time
	updatedAt  time.Time
}

func NewSession(id string, scope Scope, items []Item, opts Options) *Session {
	if opts.Mode == "" {
		opts.Mode = SelectToggle
	}
	if opts.Decoder == nil {
		opts.Decoder = NewDecoder(DefaultKeyGap, DefaultTerminator)
	}
	if opts.Classifier == nil {
		opts.Classifier = NewClassifier(nil, Framing{})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewLogID == nil {
		opts.NewLogID = newLogID
	}

	s := &Session{
		id:         id,
		scope:      scope,
		mode:       opts.Mode,
		decoder:    opts.Decoder,
		classifier: opts.Classifier,
		now:        opts.Now,
		newLogID:   opts.NewLogID,
		logged:     make(map[string]struct{}),
	}
	s.setItems(items)
	s.createdAt = s.now()
	s.updatedAt = s.createdAt
	return s
}

func newLogID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "log-" + uuid.NewString()
	}
	return "log-" + id.String()
}

func (s *Session) ID() string { return s.id }

func (s *Session) Scope() Scope { return s.scope }

func (s *Session) Classifier() *Classifier { return s.classifier }

// State derives the machine state from the current fields.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	switch {
	case len(s.selected) > 0:
		return StateItemsSelected
	case s.pallet != nil:
		return StatePalletScanned
	default:
		return StateIdle
	}
}

// ReplaceItems swaps the in-scope item list, e.g. after a refresh. Selected
// IDs that are no longer in scope are dropped.
func (s *Session) ReplaceItems(items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setItems(items)
	s.selected = slices.DeleteFunc(s.selected, func(id string) bool {
		_, ok := s.index[id]
		return !ok
	})
	s.touch()
}

func (s *Session) setItems(items []Item) {
	s.items = slices.Clone(items)
	s.index = make(map[string]int, len(s.items))
	for i, item := range s.items {
		if _, dup := s.index[item.ID]; !dup {
			s.index[item.ID] = i
		}
	}
}

// ScanPallet replaces the current pallet.
func (s *Session) ScanPallet(barcode string) error {
	if barcode == "" {
		return Validationf("pallet barcode is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pallet = &Pallet{ID: barcode}
	s.touch()
	return nil
}

// ScanItem selects itemID, or deselects it in toggle mode when already
// selected. Items that are already logged are left alone. The returned bool
// reports whether the item is selected afterwards.
func (s *Session) ScanItem(itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanItem(itemID)
}

func (s *Session) scanItem(itemID string) (bool, error) {
	if _, ok := s.index[itemID]; !ok {
		return false, Lookupf("item %q is not part of this session", itemID)
	}
	if _, ok := s.logged[itemID]; ok {
		return false, nil
	}
	if i := slices.Index(s.selected, itemID); i >= 0 {
		if s.mode == SelectAddOnly {
			return true, nil
		}
		s.selected = slices.Delete(s.selected, i, i+1)
		s.touch()
		return false, nil
	}
	s.selected = append(s.selected, itemID)
	s.touch()
	return true, nil
}

// UnselectItem removes itemID from the selection if present.
func (s *Session) UnselectItem(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.selected, itemID); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		s.touch()
	}
}

// HandleToken classifies a decoded token and applies it as an item or
// pallet scan.
func (s *Session) HandleToken(token string) (Classification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handleToken(token)
}

func (s *Session) handleToken(token string) (Classification, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Classification{}, Validationf("barcode is empty")
	}
	c := s.classifier.Classify(token, s.items)
	if c.Kind == KindItem {
		item := *c.Item
		c.Item = &item
		_, err := s.scanItem(item.ID)
		return c, err
	}
	s.pallet = &Pallet{ID: token}
	s.touch()
	return c, nil
}

// HandleKey feeds one keystroke to the decoder. When it completes a token,
// the token is applied and its classification returned with ok=true.
func (s *Session) HandleKey(ev KeyEvent) (c Classification, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.decoder.Feed(ev)
	if !ok {
		return Classification{}, false, nil
	}
	c, err = s.handleToken(token)
	return c, true, err
}

// CommitLog turns the current selection into a new log entry under the
// current pallet. The pallet stays active.
func (s *Session) CommitLog() (LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return LogEntry{}, ErrSubmissionInProgress
	}
	if len(s.selected) == 0 {
		return LogEntry{}, ErrEmptySelection
	}
	if s.pallet == nil && s.scope.RequiresPallet() {
		return LogEntry{}, ErrNoPallet
	}

	entry := LogEntry{
		ID:        s.newLogID(),
		Items:     make([]Item, 0, len(s.selected)),
		CreatedAt: s.now(),
	}
	if s.pallet != nil {
		p := *s.pallet
		entry.Pallet = &p
	}
	for _, id := range s.selected {
		entry.Items = append(entry.Items, s.items[s.index[id]])
		s.logged[id] = struct{}{}
	}

	s.logs = append([]LogEntry{entry}, s.logs...)
	s.selected = nil
	s.touch()
	return entry, nil
}

// EditLog moves a log entry back into the live selection and restores its
// pallet. The selection must be empty.
func (s *Session) EditLog(logID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return ErrSubmissionInProgress
	}
	if len(s.selected) > 0 {
		return ErrSelectionPending
	}
	i := s.logIndex(logID)
	if i < 0 {
		return ErrLogNotFound
	}

	entry := s.logs[i]
	s.selected = entry.ItemIDs()
	if entry.Pallet != nil {
		p := *entry.Pallet
		s.pallet = &p
	} else {
		s.pallet = nil
	}
	s.clearLog(i)
	s.touch()
	return nil
}

// ClearLog drops a log entry and releases its items. Unknown IDs are ignored.
func (s *Session) ClearLog(logID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return ErrSubmissionInProgress
	}
	if i := s.logIndex(logID); i >= 0 {
		s.clearLog(i)
		s.touch()
	}
	return nil
}

func (s *Session) clearLog(i int) {
	for _, item := range s.logs[i].Items {
		delete(s.logged, item.ID)
	}
	s.logs = slices.Delete(s.logs, i, i+1)
}

func (s *Session) logIndex(logID string) int {
	return slices.IndexFunc(s.logs, func(l LogEntry) bool { return l.ID == logID })
}

// BeginSubmission raises the submitting flag and returns the logs to send.
func (s *Session) BeginSubmission() ([]LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return nil, ErrSubmissionInProgress
	}
	if len(s.logs) == 0 {
		return nil, ErrNoLogs
	}
	s.submitting = true
	return slices.Clone(s.logs), nil
}

// EndSubmission lowers the submitting flag. A successful submission resets
// the session; a failed one leaves it exactly as it was.
func (s *Session) EndSubmission(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if success {
		s.reset()
	}
	s.touch()
}

// Reset clears selection, pallet and logs.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.touch()
}

func (s *Session) reset() {
	s.selected = nil
	s.pallet = nil
	s.logs = nil
	s.logged = make(map[string]struct{})
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:            s.id,
		Scope:         s.scope,
		State:         s.state(),
		Mode:          s.mode,
		Items:         slices.Clone(s.items),
		Selected:      make([]Item, 0, len(s.selected)),
		Logs:          make([]LogEntry, len(s.logs)),
		LoggedItemIDs: make([]string, 0, len(s.logged)),
		Submitting:    s.submitting,
		PendingKeys:   s.decoder.Pending(),
		CreatedAt:     s.createdAt,
		UpdatedAt:     s.updatedAt,
	}
	for _, id := range s.selected {
		snap.Selected = append(snap.Selected, s.items[s.index[id]])
	}
	if s.pallet != nil {
		p := *s.pallet
		snap.Pallet = &p
	}
	for i, l := range s.logs {
		l.Items = slices.Clone(l.Items)
		snap.Logs[i] = l
	}
	for _, l := range s.logs {
		snap.LoggedItemIDs = append(snap.LoggedItemIDs, l.ItemIDs()...)
	}
	return snap
}

func (s *Session) touch() {
	s.updatedAt = s.now()
}
