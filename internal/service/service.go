// Package service implements the aggregation-and-orchestration core: the
// one-time session load, the coaching backfill, and the per-view
// derivations (dashboard, leaderboard, skill-up).
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rapidoqa/coach-server/internal/coach"
	"github.com/rapidoqa/coach-server/internal/domain"
	"github.com/rapidoqa/coach-server/internal/normalize"
	"github.com/rapidoqa/coach-server/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	ErrAgentNotFound = errors.New("agent not found")
)

const (
	// qualifyingScoreCeiling is the overall score below which an audit gets
	// coaching generated.
	qualifyingScoreCeiling = 80.0

	defaultAgentsTable       = "Agents"
	defaultAuditsTable       = "Audits"
	defaultCoachingTipsTable = "CoachingTips"
)

// Config tunes the service. Zero values fall back to sensible defaults.
type Config struct {
	AgentsTable       string
	AuditsTable       string
	CoachingTipsTable string
	// AuditorEmail is the account allowed to submit audits; it is excluded
	// from agent listings.
	AuditorEmail string
	// GenerationConcurrency caps concurrent coaching generations during a
	// backfill pass. Zero or negative means unbounded.
	GenerationConcurrency int
}

// CoachService aggregates audit data and orchestrates coaching generation.
type CoachService struct {
	source TabularSource
	gen    Generator
	store  *store.Store
	logger *zap.Logger
	cfg    Config

	// sf memoizes the in-flight session load so concurrent callers attach to
	// the same unit of work. A failed load is not memoized past its own
	// flight, which leaves a later caller free to retry.
	sf singleflight.Group

	now func() time.Time
}

// NewCoachService creates the service.
func NewCoachService(src TabularSource, gen Generator, st *store.Store, logger *zap.Logger, cfg Config) *CoachService {
	if src == nil {
		panic("source must not be nil")
	}
	if gen == nil {
		panic("generator must not be nil")
	}
	if st == nil {
		st = store.New()
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	if cfg.AgentsTable == "" {
		cfg.AgentsTable = defaultAgentsTable
	}
	if cfg.AuditsTable == "" {
		cfg.AuditsTable = defaultAuditsTable
	}
	if cfg.CoachingTipsTable == "" {
		cfg.CoachingTipsTable = defaultCoachingTipsTable
	}
	return &CoachService{
		source: src,
		gen:    gen,
		store:  st,
		logger: logger.Named("coach-service"),
		cfg:    cfg,
		now:    time.Now,
	}
}

// ensureLoaded performs the one-time session load. The first caller triggers
// the three concurrent table fetches followed by the coaching backfill pass;
// every other caller, concurrent or later, observes that same load. A load
// that fails leaves the cache unloaded so a subsequent caller retries.
func (s *CoachService) ensureLoaded(ctx context.Context) error {
	if s.store.Loaded() {
		return nil
	}
	_, err, _ := s.sf.Do("session-load", func() (any, error) {
		if s.store.Loaded() {
			return nil, nil
		}
		return nil, s.loadAll(ctx)
	})
	return err
}

func (s *CoachService) loadAll(ctx context.Context) error {
	started := s.now()

	var (
		agents []domain.Agent
		audits []domain.Audit
		tips   []domain.CoachingTip
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		grid, err := s.source.Fetch(gctx, s.cfg.AgentsTable)
		if err != nil {
			return fmt.Errorf("load %s: %w", s.cfg.AgentsTable, err)
		}
		agents = normalize.Agents(grid)
		return nil
	})
	g.Go(func() error {
		grid, err := s.source.Fetch(gctx, s.cfg.AuditsTable)
		if err != nil {
			return fmt.Errorf("load %s: %w", s.cfg.AuditsTable, err)
		}
		audits = normalize.Audits(grid, s.logger)
		return nil
	})
	g.Go(func() error {
		grid, err := s.source.Fetch(gctx, s.cfg.CoachingTipsTable)
		if err != nil {
			return fmt.Errorf("load %s: %w", s.cfg.CoachingTipsTable, err)
		}
		tips = normalize.CoachingTips(grid)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("session load failed", zap.Error(err))
		return err
	}

	s.store.Populate(agents, audits, tips)

	// The cache is marked loaded only once the backfill has joined, so a
	// caller observing Loaded never sees a qualifying audit without its tip.
	generated := s.backfill(ctx)
	s.store.MarkLoaded()

	s.logger.Info("session loaded",
		zap.Int("agents", len(agents)),
		zap.Int("audits", len(audits)),
		zap.Int("coachingTips", len(tips)),
		zap.Int("tipsBackfilled", generated),
		zap.Duration("took", s.now().Sub(started)))
	return nil
}

// backfill guarantees every qualifying audit has a coaching tip, issuing at
// most one generation attempt per audit. Generations run concurrently and the
// pass joins only when every branch has settled; a failed generation becomes
// an error-tip and never aborts the pass.
func (s *CoachService) backfill(ctx context.Context) int {
	audits := s.store.Audits()

	var generated atomic.Int64
	g := new(errgroup.Group)
	if s.cfg.GenerationConcurrency > 0 {
		g.SetLimit(s.cfg.GenerationConcurrency)
	}

	for _, audit := range audits {
		if !s.qualifies(audit) || s.store.HasTipFor(audit.AuditID) {
			continue
		}
		audit := audit
		g.Go(func() error {
			s.store.AppendTip(s.generateTip(ctx, audit))
			generated.Add(1)
			return nil
		})
	}

	_ = g.Wait()
	return int(generated.Load())
}

// qualifies reports whether an audit should receive generated coaching.
func (s *CoachService) qualifies(a domain.Audit) bool {
	return a.OverallScore < qualifyingScoreCeiling && a.Feedback != "" && a.AuditID != ""
}

// generateTip runs one coaching generation for an audit. The result is always
// a first-class tip: a generation failure is captured as an error-tip rather
// than propagated.
func (s *CoachService) generateTip(ctx context.Context, audit domain.Audit) domain.CoachingTip {
	tip := domain.CoachingTip{
		AuditID:   audit.AuditID,
		Timestamp: s.now().UTC(),
	}

	text, err := s.gen.CoachingTips(ctx, audit.Feedback)
	if err != nil {
		s.logger.Warn("coaching generation failed",
			zap.String("auditId", audit.AuditID),
			zap.Error(err))
		tip.CoachingID = "err_" + uuid.NewString()
		tip.ErrorMessage = coach.MessageOf(err)
		return tip
	}

	tip.CoachingID = "coach_" + uuid.NewString()
	tip.Tips = text
	return tip
}
