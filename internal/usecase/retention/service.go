// Package retention implements the tiered daily/weekly/monthly retention
// engine and the pass that applies it to a backup catalogue.
package retention

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bnema/zerowrap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/bnema/wpbackup/internal/boundaries/out"
	"github.com/bnema/wpbackup/internal/domain"
)

// Config controls a retention pass.
type Config struct {
	// Target names the catalogue in logs and metrics ("remote", "local").
	Target string
	Policy domain.RetentionPolicy
	// Location fixes the calendar used to compute ages. Defaults to UTC.
	Location *time.Location
	// MaxParallelDeletes bounds concurrent deletions. Values below 1 mean 1.
	MaxParallelDeletes int
	// DeleteRatePerSecond paces deletions. Zero disables pacing.
	DeleteRatePerSecond float64
}

// Service applies the retention policy to one catalogue.
type Service struct {
	catalogue out.BackupCatalogue
	recorder  out.RetentionRecorder
	config    Config
	nowFn     func() time.Time
}

// NewService creates a retention service. recorder may be nil.
func NewService(catalogue out.BackupCatalogue, recorder out.RetentionRecorder, config Config) *Service {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.MaxParallelDeletes < 1 {
		config.MaxParallelDeletes = 1
	}
	if config.Target == "" {
		config.Target = "remote"
	}
	return &Service{
		catalogue: catalogue,
		recorder:  recorder,
		config:    config,
		nowFn:     time.Now,
	}
}

// Plan lists the catalogue once and classifies it without deleting anything.
func (s *Service) Plan(ctx context.Context) (*domain.RetentionPlan, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "PlanRetention",
		"target":              s.config.Target,
	})
	log := zerowrap.FromCtx(ctx)

	if err := s.config.Policy.Validate(); err != nil {
		return nil, err
	}

	ids, err := s.catalogue.ListUnits(ctx)
	if err != nil {
		return nil, log.WrapErr(err, "failed to list backup units")
	}

	today := domain.Today(s.nowFn(), s.config.Location)
	plan := BuildPlan(today, ids, s.config.Policy)

	log.Debug().
		Str("today", today.String()).
		Int("units", len(plan.Decisions)).
		Int("unparsed", len(plan.ParseFailures)).
		Msg("catalogue classified")

	return plan, nil
}

// Apply runs a full retention pass: list, classify, delete.
//
// Deletion failures are counted and logged but never abort the pass; the
// folder stays in place and is re-evaluated on the next run. The returned
// error is non-nil only when the catalogue cannot be listed or ctx ends
// before every deletion was attempted.
func (s *Service) Apply(ctx context.Context) (domain.RetentionSummary, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "ApplyRetention",
		"target":              s.config.Target,
	})
	log := zerowrap.FromCtx(ctx)
	started := time.Now()

	plan, err := s.Plan(ctx)
	if err != nil {
		return domain.RetentionSummary{}, err
	}

	if plan.Empty() {
		summary := domain.RetentionSummary{Empty: true}
		log.Info().Msg("backup catalogue is empty, nothing to do")
		s.record(ctx, summary, time.Since(started))
		return summary, nil
	}

	for _, pf := range plan.ParseFailures {
		log.Warn().Err(pf.Err).Str(zerowrap.FieldEntityID, pf.ID).Msg("skipping catalogue entry without a valid date")
	}

	summary := domain.RetentionSummary{Unparsed: len(plan.ParseFailures)}
	toDelete := make([]domain.BackupUnit, 0, len(plan.Decisions))
	for _, d := range plan.Decisions {
		if d.Verdict.Keep() {
			summary.Retained++
			log.Debug().
				Str(zerowrap.FieldEntityID, d.Unit.ID).
				Str("verdict", string(d.Verdict)).
				Msg("keeping backup unit")
			continue
		}
		toDelete = append(toDelete, d.Unit)
	}

	deleted, failed := s.deleteUnits(ctx, toDelete)
	summary.Deleted = deleted
	summary.Failed = failed

	log.Info().
		Int("retained", summary.Retained).
		Int("deleted", summary.Deleted).
		Int("failed", summary.Failed).
		Int("unparsed", summary.Unparsed).
		Dur(zerowrap.FieldDuration, time.Since(started)).
		Msg("retention pass completed")

	s.record(ctx, summary, time.Since(started))

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("%w: %w", domain.ErrRetentionFailed, err)
	}
	return summary, nil
}

// deleteUnits removes units with bounded parallelism. Deletions are
// independent, so one failure never cancels the others.
func (s *Service) deleteUnits(ctx context.Context, units []domain.BackupUnit) (int, int) {
	if len(units) == 0 {
		return 0, 0
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if s.config.DeleteRatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.config.DeleteRatePerSecond), 1)
	}

	var deleted, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.config.MaxParallelDeletes)

	for _, unit := range units {
		g.Go(func() error {
			if err := s.deleteUnit(ctx, limiter, unit); err != nil {
				failed.Add(1)
				return nil
			}
			deleted.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return int(deleted.Load()), int(failed.Load())
}

func (s *Service) deleteUnit(ctx context.Context, limiter *rate.Limiter, unit domain.BackupUnit) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldAction:   "DeleteUnit",
		zerowrap.FieldEntityID: unit.ID,
	})
	log := zerowrap.FromCtx(ctx)

	if err := limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Msg("backup unit deletion not attempted")
		return fmt.Errorf("%w %s: %w", domain.ErrDeletionFailed, unit.ID, err)
	}

	if err := s.catalogue.DeleteUnit(ctx, unit.ID); err != nil {
		log.Warn().Err(err).Msg("failed to delete backup unit, will retry on next run")
		return fmt.Errorf("%w %s: %w", domain.ErrDeletionFailed, unit.ID, err)
	}

	log.Info().Str("date", unit.Date.String()).Msg("deleted backup unit")
	return nil
}

func (s *Service) record(ctx context.Context, summary domain.RetentionSummary, d time.Duration) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordRetentionPass(ctx, s.config.Target, summary, d)
}
