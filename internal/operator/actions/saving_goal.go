package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

type AddSavingGoal struct {
	Draft ledger.SavingGoalDraft

	Goal *ledger.SavingGoal
	IAction
}

func (a *AddSavingGoal) Perform(ctx context.Context, writer storage.Writer) error {
	id, err := newID()
	if err != nil {
		return err
	}
	goal := a.Draft.Build(id)
	if err := writer.InsertSavingGoal(ctx, &goal); err != nil {
		return err
	}
	a.Goal = &goal
	return nil
}

// DeleteSavingGoal returns every allocation of the goal to the account as a
// refund dated Now, then removes the goal.
type DeleteSavingGoal struct {
	GoalID uuid.UUID
	Now    time.Time

	Refunds []ledger.Transaction
	IAction
}

func (d *DeleteSavingGoal) Perform(ctx context.Context, writer storage.Writer) error {
	goal, err := writer.GetSavingGoal(ctx, d.GoalID)
	if err != nil {
		return err
	}
	allocations, err := writer.ListGoalAllocations(ctx, d.GoalID)
	if err != nil {
		return err
	}

	for _, allocation := range allocations {
		id, err := newID()
		if err != nil {
			return err
		}
		refund := ledger.RefundTransaction(id, allocation, goal.Name, d.Now)
		if err := writer.InsertTransaction(ctx, &refund); err != nil {
			return err
		}
		d.Refunds = append(d.Refunds, refund)
	}

	return writer.DeleteSavingGoal(ctx, d.GoalID)
}
