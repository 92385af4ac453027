package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

type CreateCategory struct {
	Draft ledger.CategoryDraft

	Category *ledger.Category
	IAction
}

func (c *CreateCategory) Perform(ctx context.Context, writer storage.Writer) error {
	id, err := newID()
	if err != nil {
		return err
	}
	category := ledger.Category{ID: id, Name: c.Draft.Name}
	if err := writer.InsertCategory(ctx, &category); err != nil {
		return err
	}
	c.Category = &category
	return nil
}

type UpdateCategory struct {
	CategoryID uuid.UUID
	Draft      ledger.CategoryDraft

	Category *ledger.Category
	IAction
}

func (u *UpdateCategory) Perform(ctx context.Context, writer storage.Writer) error {
	category := ledger.Category{ID: u.CategoryID, Name: u.Draft.Name}
	if err := writer.UpdateCategory(ctx, &category); err != nil {
		return err
	}
	u.Category = &category
	return nil
}

// DeleteCategory removes the category. Its transactions become uncategorized,
// its message rules go with it, and rules pointing at it are skipped from now on.
type DeleteCategory struct {
	CategoryID uuid.UUID
	IAction
}

func (d *DeleteCategory) Perform(ctx context.Context, writer storage.Writer) error {
	return writer.DeleteCategory(ctx, d.CategoryID)
}
