package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// AddCategoryRule stores a rule behind all existing rules and, when asked,
// re-categorizes every existing transaction it matches.
type AddCategoryRule struct {
	Draft  ledger.CategoryRuleDraft
	Logger logrus.FieldLogger

	Rule       *ledger.CategoryRule
	Backfilled int64
	IAction
}

func (a *AddCategoryRule) Perform(ctx context.Context, writer storage.Writer) error {
	if _, err := writer.GetCategory(ctx, a.Draft.CategoryID); err != nil {
		return err
	}

	id, err := newID()
	if err != nil {
		return err
	}
	rule := a.Draft.Build(id)
	if err := writer.InsertCategoryRule(ctx, &rule); err != nil {
		return err
	}

	if rule.ApplyOnHistory {
		a.Backfilled, err = writer.ApplyCategoryRule(ctx, rule)
		if err != nil {
			return err
		}
		loggerOrStandard(a.Logger).WithFields(logrus.Fields{
			"ruleID":     rule.ID,
			"backfilled": a.Backfilled,
		}).Debug("Actions.AddCategoryRule.Backfill")
	}

	a.Rule = &rule
	return nil
}

// UpdateCategoryRule rewrites a rule in place, keeping its priority. Existing
// transactions keep their category; ApplyOnHistory only acts when a rule is
// added.
type UpdateCategoryRule struct {
	RuleID uuid.UUID
	Draft  ledger.CategoryRuleDraft

	Rule *ledger.CategoryRule
	IAction
}

func (u *UpdateCategoryRule) Perform(ctx context.Context, writer storage.Writer) error {
	if _, err := writer.GetCategory(ctx, u.Draft.CategoryID); err != nil {
		return err
	}

	rule := u.Draft.Build(u.RuleID)
	if err := writer.UpdateCategoryRule(ctx, &rule); err != nil {
		return err
	}

	u.Rule = &rule
	return nil
}

type DeleteCategoryRule struct {
	RuleID uuid.UUID
	IAction
}

func (d *DeleteCategoryRule) Perform(ctx context.Context, writer storage.Writer) error {
	return writer.DeleteCategoryRule(ctx, d.RuleID)
}
