package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

type SavingGoalService struct {
	*deps
}

func (s *SavingGoalService) AddSavingGoal(ctx context.Context, session string, draft ledger.SavingGoalDraft) (*ledger.SavingGoal, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	action := &actions.AddSavingGoal{Draft: draft}
	if err := s.process(ctx, session, action); err != nil {
		return nil, err
	}
	return action.Goal, nil
}

func (s *SavingGoalService) GetSavingGoal(ctx context.Context, session string, id uuid.UUID) (*ledger.SavingGoal, error) {
	reader, err := s.read(session)
	if err != nil {
		return nil, err
	}
	return reader.GetSavingGoal(ctx, id)
}

func (s *SavingGoalService) ListSavingGoals(ctx context.Context, session string) ([]ledger.SavingGoal, error) {
	reader, err := s.read(session)
	if err != nil {
		return nil, err
	}
	return reader.ListSavingGoals(ctx)
}

// DeleteSavingGoal refunds everything allocated to the goal and removes it.
// It returns the refund transactions.
func (s *SavingGoalService) DeleteSavingGoal(ctx context.Context, session string, id uuid.UUID) ([]ledger.Transaction, error) {
	action := &actions.DeleteSavingGoal{GoalID: id, Now: s.now()}
	if err := s.process(ctx, session, action); err != nil {
		return nil, err
	}
	return action.Refunds, nil
}
