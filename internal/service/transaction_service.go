package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

// TransactionService admits transactions into the ledger and serves them back.
type TransactionService struct {
	*deps
}

// AddTransaction validates draft and runs the full derivation pipeline on it
// as one write. Generated messages are published once the write committed.
func (s *TransactionService) AddTransaction(ctx context.Context, session string, draft ledger.TransactionDraft) (*ledger.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	action := &actions.AddTransaction{
		Draft:  draft,
		Now:    s.now(),
		Logger: s.actionLogger(session),
	}
	if err := s.process(ctx, session, action); err != nil {
		return nil, err
	}

	s.publish(ctx, session, action.Messages)
	return action.Transaction, nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, session string, id uuid.UUID) (*ledger.Transaction, error) {
	reader, err := s.read(session)
	if err != nil {
		return nil, err
	}
	return reader.GetTransaction(ctx, id)
}

// ListTransactions returns a page of visible transactions, newest first, and
// the cursor of the next page if there is one.
func (s *TransactionService) ListTransactions(ctx context.Context, session string, cursor *TransactionCursor) ([]ledger.Transaction, *TransactionCursor, error) {
	reader, err := s.read(session)
	if err != nil {
		return nil, nil, err
	}

	page := cursor.normalized()
	rows, err := reader.ListTransactions(ctx, ledger.TransactionFilter{
		CategoryID: page.CategoryID,
		Limit:      page.Limit + 1,
		Offset:     page.Position,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > page.Limit {
		rows = rows[:page.Limit]
		nextCursor = &TransactionCursor{
			Position:   page.Position + page.Limit,
			Limit:      page.Limit,
			CategoryID: page.CategoryID,
		}
	}
	return rows, nextCursor, nil
}

// AssignCategory sets the category of a transaction. A zero categoryID clears it.
func (s *TransactionService) AssignCategory(ctx context.Context, session string, id uuid.UUID, categoryID uuid.NullUUID) (*ledger.Transaction, error) {
	action := &actions.AssignCategory{TransactionID: id, CategoryID: categoryID}
	if err := s.process(ctx, session, action); err != nil {
		return nil, err
	}
	return action.Transaction, nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, session string, id uuid.UUID, draft ledger.TransactionDraft) (*ledger.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	action := &actions.UpdateTransaction{TransactionID: id, Draft: draft}
	if err := s.process(ctx, session, action); err != nil {
		return nil, err
	}
	return action.Transaction, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, session string, id uuid.UUID) error {
	return s.process(ctx, session, &actions.DeleteTransaction{TransactionID: id})
}
