package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

type CategoryService struct {
	*deps
}

func (s *CategoryService) CreateCategory(ctx context.Context, session string, draft ledger.CategoryDraft) (*ledger.Category, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	action := &actions.CreateCategory{Draft: draft}
	if err := s.process(ctx, session, action); err != nil {
		return nil, err
	}
	return action.Category, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, session string, id uuid.UUID) (*ledger.Category, error) {
	reader, err := s.read(session)
	if err != nil {
		return nil, err
	}
	return reader.GetCategory(ctx, id)
}

func (s *CategoryService) ListCategories(ctx context.Context, session string) ([]ledger.Category, error) {
	reader, err := s.read(session)
	if err != nil {
		return nil, err
	}
	return reader.ListCategories(ctx)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, session string, id uuid.UUID, draft ledger.CategoryDraft) (*ledger.Category, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	action := &actions.UpdateCategory{CategoryID: id, Draft: draft}
	if err := s.process(ctx, session, action); err != nil {
		return nil, err
	}
	return action.Category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, session string, id uuid.UUID) error {
	return s.process(ctx, session, &actions.DeleteCategory{CategoryID: id})
}
