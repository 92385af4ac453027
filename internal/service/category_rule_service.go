package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

type CategoryRuleService struct {
	*deps
}

// AddCategoryRule stores a rule with the lowest priority so far. With
// ApplyOnHistory set it also returns how many transactions were re-categorized.
func (s *CategoryRuleService) AddCategoryRule(ctx context.Context, session string, draft ledger.CategoryRuleDraft) (*ledger.CategoryRule, int64, error) {
	if err := draft.Validate(); err != nil {
		return nil, 0, err
	}
	action := &actions.AddCategoryRule{Draft: draft, Logger: s.actionLogger(session)}
	if err := s.process(ctx, session, action); err != nil {
		return nil, 0, err
	}
	return action.Rule, action.Backfilled, nil
}

func (s *CategoryRuleService) GetCategoryRule(ctx context.Context, session string, id uuid.UUID) (*ledger.CategoryRule, error) {
	reader, err := s.read(session)
	if err != nil {
		return nil, err
	}
	return reader.GetCategoryRule(ctx, id)
}

// ListCategoryRules returns the rules in priority order.
func (s *CategoryRuleService) ListCategoryRules(ctx context.Context, session string) ([]ledger.CategoryRule, error) {
	reader, err := s.read(session)
	if err != nil {
		return nil, err
	}
	return reader.ListCategoryRules(ctx)
}

// UpdateCategoryRule rewrites a rule without touching existing transactions.
func (s *CategoryRuleService) UpdateCategoryRule(ctx context.Context, session string, id uuid.UUID, draft ledger.CategoryRuleDraft) (*ledger.CategoryRule, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	action := &actions.UpdateCategoryRule{RuleID: id, Draft: draft}
	if err := s.process(ctx, session, action); err != nil {
		return nil, err
	}
	return action.Rule, nil
}

func (s *CategoryRuleService) DeleteCategoryRule(ctx context.Context, session string, id uuid.UUID) error {
	return s.process(ctx, session, &actions.DeleteCategoryRule{RuleID: id})
}
