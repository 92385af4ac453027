package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// AssignCategory sets or clears the category of a visible transaction.
type AssignCategory struct {
	TransactionID uuid.UUID
	CategoryID    uuid.NullUUID

	Transaction *ledger.Transaction
	IAction
}

func (a *AssignCategory) Perform(ctx context.Context, writer storage.Writer) error {
	if err := requireCategory(ctx, writer, a.CategoryID); err != nil {
		return err
	}
	if err := writer.AssignCategory(ctx, a.TransactionID, a.CategoryID); err != nil {
		return err
	}

	tx, err := writer.GetTransaction(ctx, a.TransactionID)
	if err != nil {
		return err
	}
	a.Transaction = tx
	return nil
}

// UpdateTransaction replaces the client supplied fields of a transaction.
// Derived entries created when it was added are left untouched.
type UpdateTransaction struct {
	TransactionID uuid.UUID
	Draft         ledger.TransactionDraft

	Transaction *ledger.Transaction
	IAction
}

func (u *UpdateTransaction) Perform(ctx context.Context, writer storage.Writer) error {
	if err := requireCategory(ctx, writer, u.Draft.CategoryID); err != nil {
		return err
	}

	tx := u.Draft.Build(u.TransactionID)
	if err := writer.UpdateTransaction(ctx, &tx); err != nil {
		return err
	}
	u.Transaction = &tx
	return nil
}

type DeleteTransaction struct {
	TransactionID uuid.UUID
	IAction
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer storage.Writer) error {
	return writer.DeleteTransaction(ctx, d.TransactionID)
}
