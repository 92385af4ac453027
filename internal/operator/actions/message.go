package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

type MarkMessageRead struct {
	MessageID uuid.UUID
	IAction
}

func (m *MarkMessageRead) Perform(ctx context.Context, writer storage.Writer) error {
	return writer.MarkMessageRead(ctx, m.MessageID)
}

type AddMessageRule struct {
	Draft ledger.MessageRuleDraft

	Rule *ledger.MessageRule
	IAction
}

func (a *AddMessageRule) Perform(ctx context.Context, writer storage.Writer) error {
	if _, err := writer.GetCategory(ctx, a.Draft.CategoryID); err != nil {
		return err
	}

	id, err := newID()
	if err != nil {
		return err
	}
	rule := a.Draft.Build(id)
	if err := writer.InsertMessageRule(ctx, &rule); err != nil {
		return err
	}
	a.Rule = &rule
	return nil
}

type DeleteMessageRule struct {
	RuleID uuid.UUID
	IAction
}

func (d *DeleteMessageRule) Perform(ctx context.Context, writer storage.Writer) error {
	return writer.DeleteMessageRule(ctx, d.RuleID)
}
