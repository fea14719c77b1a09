package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ncuskey/lothelper-engine/internal/adapters/lothelper"
	"github.com/ncuskey/lothelper-engine/internal/domain/book"
	"github.com/ncuskey/lothelper-engine/internal/domain/decision"
	"github.com/ncuskey/lothelper-engine/internal/domain/duplicate"
	"github.com/ncuskey/lothelper-engine/internal/domain/fees"
	"github.com/ncuskey/lothelper-engine/internal/domain/profit"
	"github.com/ncuskey/lothelper-engine/internal/domain/series"
	"github.com/ncuskey/lothelper-engine/internal/infrastructure/storage"
)

// Status is the lifecycle state of one scan session.
type Status string

const (
	StatusPending    Status = "pending"
	StatusSubmitting Status = "submitting"
	StatusPolling    Status = "polling"
	StatusResolved   Status = "resolved"
	StatusFailed     Status = "failed"

	// StatusSuperseded marks a session whose result arrived after a
	// newer scan was started. Last write wins; the result is dropped.
	StatusSuperseded Status = "superseded"
)

// ErrInvalidISBN reports scanner input that cannot be coerced to ISBN-13.
var ErrInvalidISBN = errors.New("invalid isbn")

// ErrNotResolved reports a resolve call on a session without a verdict.
var ErrNotResolved = errors.New("scan is not resolved")

// ErrSessionNotFound reports an unknown session ID.
var ErrSessionNotFound = errors.New("scan session not found")

// Request holds everything the user supplies for one scan.
type Request struct {
	ISBN      string
	Condition string
	Edition   string

	// AcquisitionCost is the user-entered cost, 0 for a free book.
	// Validation happens upstream; negative values flow through the
	// arithmetic unchanged.
	AcquisitionCost float64

	// CurrentMedianPrice is an optional live eBay median that overrides
	// the backend estimate for the eBay channel.
	CurrentMedianPrice *float64
}

// Outcome is the full decision bundle for a resolved scan.
type Outcome struct {
	Record  book.EvaluationRecord
	Profits map[profit.Channel]profit.ChannelProfit
	Verdict decision.Verdict
	Series  series.Context
}

// Session is a snapshot of one scan's state. Handlers receive copies;
// the service owns the mutable originals.
type Session struct {
	ID          string
	ISBN        string
	Request     Request
	Status      Status
	Duplicate   duplicate.Result
	StartedAt   time.Time
	CompletedAt *time.Time
	Outcome     *Outcome
	FailureMsg  string
}

// Service runs scan sessions. At most one session is "current": starting
// a new scan supersedes interest in any outstanding fetch, checked by
// session identity before results are applied rather than by forcibly
// cancelling the in-flight request.
type Service struct {
	backend     Backend
	coordinator *Coordinator
	repo        storage.Repository
	detector    *duplicate.Detector
	analyzer    *series.Analyzer
	calc        profit.Calculator
	logger      *slog.Logger

	mu        sync.RWMutex
	sessions  map[string]*Session
	currentID string
}

// NewService wires the scan pipeline together.
func NewService(backend Backend, repo storage.Repository, table fees.Table, cfg CoordinatorConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	cat := catalog{repo: repo}
	return &Service{
		backend:     backend,
		coordinator: NewCoordinator(backend, cfg, logger),
		repo:        repo,
		detector:    duplicate.NewDetector(cat),
		analyzer:    series.NewAnalyzer(cat, cat, cat, logger),
		calc:        profit.NewCalculator(table),
		logger:      logger,
		sessions:    make(map[string]*Session),
	}
}

// StartScan normalizes the ISBN, runs the duplicate check synchronously
// so the UI can warn immediately, then evaluates in the background.
// The caller's context is not the parent of the background work: the
// HTTP request ends long before the evaluation does.
func (s *Service) StartScan(ctx context.Context, req Request) (Session, error) {
	isbn := book.NormalizeISBN(req.ISBN)
	if isbn == "" {
		return Session{}, fmt.Errorf("%w: %q", ErrInvalidISBN, req.ISBN)
	}
	req.ISBN = isbn

	dup, err := s.detector.Check(ctx, isbn)
	if err != nil {
		return Session{}, fmt.Errorf("duplicate check: %w", err)
	}

	sess := &Session{
		ID:        uuid.NewString(),
		ISBN:      isbn,
		Request:   req,
		Status:    StatusPending,
		Duplicate: dup,
		StartedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.currentID = sess.ID
	s.mu.Unlock()

	go s.run(sess.ID, req)

	return *sess, nil
}

func (s *Service) run(id string, req Request) {
	ctx := context.Background()

	s.setStatus(id, StatusSubmitting)
	attrs := lothelper.ScanAttributes{Condition: req.Condition, Edition: req.Edition}
	if err := s.backend.SubmitScan(ctx, req.ISBN, attrs); err != nil {
		s.fail(id, fmt.Errorf("submit scan: %w", err))
		return
	}

	s.setStatus(id, StatusPolling)
	rec, err := s.coordinator.AwaitEvaluation(ctx, req.ISBN)
	if err != nil {
		s.fail(id, err)
		return
	}

	seriesCtx, err := s.analyzer.Analyze(ctx, req.ISBN, rec.SeriesName)
	if err != nil {
		// The verdict is still computable without collection context.
		s.logger.Warn("series analysis failed", "isbn", req.ISBN, "error", err)
		seriesCtx = series.Context{}
	}

	profits := s.calc.Compute(profit.Input{
		Record:             rec,
		AcquisitionCost:    req.AcquisitionCost,
		CurrentMedianPrice: req.CurrentMedianPrice,
	})
	verdict := decision.Decide(decision.Input{Record: rec, Profits: profits, Series: seriesCtx})

	s.apply(id, Outcome{Record: rec, Profits: profits, Verdict: verdict, Series: seriesCtx})
}

func (s *Service) setStatus(id string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.Status = status
	}
}

func (s *Service) apply(id string, outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return
	}

	now := time.Now().UTC()
	sess.CompletedAt = &now

	if s.currentID != id {
		sess.Status = StatusSuperseded
		s.logger.Info("stale evaluation discarded", "isbn", sess.ISBN, "session", id)
		return
	}

	sess.Outcome = &outcome
	sess.Status = StatusResolved
	s.logger.Info("scan resolved",
		"isbn", sess.ISBN,
		"buy", outcome.Verdict.ShouldAcquire,
		"reason", outcome.Verdict.Reason)
}

func (s *Service) fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return
	}

	now := time.Now().UTC()
	sess.CompletedAt = &now

	if s.currentID != id {
		sess.Status = StatusSuperseded
		return
	}

	sess.Status = StatusFailed
	sess.FailureMsg = err.Error()
	s.logger.Error("scan failed", "isbn", sess.ISBN, "error", err)
}

// GetSession returns a snapshot of the session.
func (s *Service) GetSession(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Current returns the session the UI is showing, if any.
func (s *Service) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[s.currentID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Resolve records the user's accept/reject decision for a resolved scan.
// Accepting also inserts the book into accepted inventory; this is the
// one place the engine's caches are written.
func (s *Service) Resolve(ctx context.Context, id string, accepted bool, location string) error {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	var snapshot Session
	if ok {
		snapshot = *sess
	}
	s.mu.RUnlock()

	if !ok {
		return ErrSessionNotFound
	}
	if snapshot.Status != StatusResolved || snapshot.Outcome == nil {
		return fmt.Errorf("%w: status %s", ErrNotResolved, snapshot.Status)
	}

	rec := snapshot.Outcome.Record
	eventDecision := string(series.DecisionRejected)
	if accepted {
		eventDecision = string(series.DecisionAccepted)
	}

	event := &storage.ScanEvent{
		ISBN:         snapshot.ISBN,
		Title:        rec.Title,
		SeriesName:   rec.SeriesName,
		SeriesIndex:  rec.SeriesIndex,
		Decision:     eventDecision,
		LocationName: location,
	}
	if err := s.repo.RecordScanEvent(ctx, event); err != nil {
		return fmt.Errorf("record scan event: %w", err)
	}

	if !accepted {
		return nil
	}

	acceptedBook := &storage.AcceptedBook{
		ISBN:        snapshot.ISBN,
		Title:       rec.Title,
		SeriesName:  rec.SeriesName,
		SeriesIndex: rec.SeriesIndex,
		Condition:   snapshot.Request.Condition,
		Location:    location,
	}
	if err := s.repo.InsertAcceptedBook(ctx, acceptedBook); err != nil {
		return fmt.Errorf("insert accepted book: %w", err)
	}
	return nil
}

// CheckDuplicate is the synchronous duplicate probe for the API.
func (s *Service) CheckDuplicate(ctx context.Context, rawISBN string) (duplicate.Result, error) {
	isbn := book.NormalizeISBN(rawISBN)
	if isbn == "" {
		return duplicate.Result{}, fmt.Errorf("%w: %q", ErrInvalidISBN, rawISBN)
	}
	return s.detector.Check(ctx, isbn)
}

// SeriesContext resolves collection context without a full scan.
func (s *Service) SeriesContext(ctx context.Context, isbn, seriesName string) (series.Context, error) {
	return s.analyzer.Analyze(ctx, book.NormalizeISBN(isbn), seriesName)
}

// Evaluate runs profits and the cascade over a caller-supplied record.
// The mobile client uses this to re-run the verdict after the user edits
// the acquisition cost, without another backend round trip.
func (s *Service) Evaluate(ctx context.Context, rec book.EvaluationRecord, acquisitionCost float64, currentMedian *float64) Outcome {
	seriesCtx, err := s.analyzer.Analyze(ctx, rec.ISBN, rec.SeriesName)
	if err != nil {
		s.logger.Warn("series analysis failed", "isbn", rec.ISBN, "error", err)
		seriesCtx = series.Context{}
	}

	profits := s.calc.Compute(profit.Input{
		Record:             rec,
		AcquisitionCost:    acquisitionCost,
		CurrentMedianPrice: currentMedian,
	})
	verdict := decision.Decide(decision.Input{Record: rec, Profits: profits, Series: seriesCtx})

	return Outcome{Record: rec, Profits: profits, Verdict: verdict, Series: seriesCtx}
}
