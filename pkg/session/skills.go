package session

import (
	"context"
	"strings"

	"github.com/oakwood-commons/nvset/pkg/host"
	"github.com/oakwood-commons/nvset/pkg/logger"
)

// SkillsOutcomeKind tells the caller what RunSkillsMigration did.
type SkillsOutcomeKind int

const (
	// SkillsNothingToMigrate means the source held no entries.
	SkillsNothingToMigrate SkillsOutcomeKind = iota
	// SkillsNeedsDecision means some targets exist; call ApplySkillsMigration
	// with ModeReplace or ModeSkip.
	SkillsNeedsDecision
	// SkillsApplied means everything was copied.
	SkillsApplied
)

type SkillsOutcome struct {
	Kind   SkillsOutcomeKind
	Plan   *host.SkillsMigrationPlan
	Result *host.SkillsMigrationResult
}

func (s *Session) skillsRequest() (host.SkillsPlanRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req := host.SkillsPlanRequest{
		SourcePath: strings.TrimSpace(s.skillsSource),
		TargetPath: strings.TrimSpace(s.skillsTarget),
	}
	if req.SourcePath == "" || req.TargetPath == "" {
		return req, ErrSkillsPathsRequired
	}
	return req, nil
}

// RunSkillsMigration plans a migration and applies it right away when no
// target conflicts. Conflicting plans are kept pending for a decision.
func (s *Session) RunSkillsMigration(ctx context.Context) (*SkillsOutcome, error) {
	req, err := s.skillsRequest()
	if err != nil {
		return nil, err
	}
	if err := s.begin(&s.skillsBusy); err != nil {
		return nil, err
	}
	defer s.end(&s.skillsBusy)

	lgr := logger.FromContext(ctx)
	plan, err := s.bridge.PlanSkillsMigration(ctx, req)
	if err != nil {
		lgr.Error(err, "failed to plan skills migration")
		return nil, err
	}
	if len(plan.Items) == 0 {
		return &SkillsOutcome{Kind: SkillsNothingToMigrate, Plan: plan}, nil
	}
	if plan.ConflictCount > 0 {
		s.mu.Lock()
		s.pendingPlan = plan
		s.mu.Unlock()
		return &SkillsOutcome{Kind: SkillsNeedsDecision, Plan: plan}, nil
	}
	res, err := s.applySkills(ctx, req, host.ModeReplace)
	if err != nil {
		return nil, err
	}
	return &SkillsOutcome{Kind: SkillsApplied, Plan: plan, Result: res}, nil
}

// ApplySkillsMigration copies the skills using mode for existing targets.
func (s *Session) ApplySkillsMigration(ctx context.Context, mode host.MigrationMode) (*host.SkillsMigrationResult, error) {
	req, err := s.skillsRequest()
	if err != nil {
		return nil, err
	}
	if err := s.begin(&s.skillsBusy); err != nil {
		return nil, err
	}
	defer s.end(&s.skillsBusy)
	return s.applySkills(ctx, req, mode)
}

func (s *Session) applySkills(ctx context.Context, req host.SkillsPlanRequest, mode host.MigrationMode) (*host.SkillsMigrationResult, error) {
	res, err := s.bridge.ApplySkillsMigration(ctx, host.SkillsApplyRequest{
		SourcePath: req.SourcePath,
		TargetPath: req.TargetPath,
		Mode:       mode,
	})
	if err != nil {
		logger.FromContext(ctx).Error(err, "failed to apply skills migration")
		return nil, err
	}
	s.mu.Lock()
	s.pendingPlan = nil
	s.mu.Unlock()
	return res, nil
}

// DismissSkillsPlan drops a pending conflicting plan.
func (s *Session) DismissSkillsPlan() {
	s.mu.Lock()
	s.pendingPlan = nil
	s.mu.Unlock()
}
