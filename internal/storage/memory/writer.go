package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// Writer stages changes on a private copy of the session partition.
type Writer struct {
	Reader

	store   *Store
	session string
	slot    chan struct{}
	staged  *partition
	closed  bool
}

func (w *Writer) Commit() error {
	if w.closed {
		return errWriterClosed
	}
	w.closed = true
	w.store.commit(w.session, w.staged)
	<-w.slot
	return nil
}

func (w *Writer) Rollback() error {
	if w.closed {
		return nil
	}
	w.closed = true
	<-w.slot
	return nil
}

func (w *Writer) Isolated(_ context.Context, _ string, fn func() error) error {
	saved := w.staged.clone()
	if err := fn(); err != nil {
		w.staged = saved
		return err
	}
	return nil
}

func (w *Writer) visibleIndex(id uuid.UUID) int {
	return slices.IndexFunc(w.staged.transactions, func(tx ledger.Transaction) bool {
		return tx.ID == id && !tx.Internal
	})
}

func (w *Writer) InsertTransaction(_ context.Context, tx *ledger.Transaction) error {
	if slices.ContainsFunc(w.staged.transactions, func(existing ledger.Transaction) bool { return existing.ID == tx.ID }) {
		return ledger.StoreError("insert transaction", fmt.Errorf("duplicate id %s", tx.ID))
	}
	w.staged.transactions = append(w.staged.transactions, *tx)
	return nil
}

func (w *Writer) UpdateTransaction(_ context.Context, tx *ledger.Transaction) error {
	i := w.visibleIndex(tx.ID)
	if i < 0 {
		return ledger.NotFoundError("transaction", tx.ID)
	}
	updated := *tx
	updated.Internal = false
	updated.SavingGoalID = uuid.NullUUID{}
	w.staged.transactions[i] = updated
	return nil
}

func (w *Writer) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	i := w.visibleIndex(id)
	if i < 0 {
		return ledger.NotFoundError("transaction", id)
	}
	w.staged.transactions = slices.Delete(w.staged.transactions, i, i+1)
	for r := range w.staged.requests {
		request := &w.staged.requests[r]
		request.SettledTransactionIDs = slices.DeleteFunc(request.SettledTransactionIDs, func(txID uuid.UUID) bool {
			return txID == id
		})
	}
	return nil
}

func (w *Writer) AssignCategory(_ context.Context, txID uuid.UUID, categoryID uuid.NullUUID) error {
	i := w.visibleIndex(txID)
	if i < 0 {
		return ledger.NotFoundError("transaction", txID)
	}
	w.staged.transactions[i].CategoryID = categoryID
	return nil
}

func (w *Writer) ApplyCategoryRule(_ context.Context, rule ledger.CategoryRule) (int64, error) {
	var changed int64
	for i := range w.staged.transactions {
		tx := &w.staged.transactions[i]
		if tx.Internal || !rule.Matches(*tx) {
			continue
		}
		if tx.CategoryID.Valid && tx.CategoryID.UUID == rule.CategoryID {
			continue
		}
		tx.CategoryID = uuid.NullUUID{UUID: rule.CategoryID, Valid: true}
		changed++
	}
	return changed, nil
}

func (w *Writer) InsertCategory(_ context.Context, category *ledger.Category) error {
	w.staged.categories = append(w.staged.categories, *category)
	return nil
}

func (w *Writer) UpdateCategory(_ context.Context, category *ledger.Category) error {
	i := slices.IndexFunc(w.staged.categories, func(c ledger.Category) bool { return c.ID == category.ID })
	if i < 0 {
		return ledger.NotFoundError("category", category.ID)
	}
	w.staged.categories[i] = *category
	return nil
}

func (w *Writer) DeleteCategory(_ context.Context, id uuid.UUID) error {
	i := slices.IndexFunc(w.staged.categories, func(c ledger.Category) bool { return c.ID == id })
	if i < 0 {
		return ledger.NotFoundError("category", id)
	}
	w.staged.categories = slices.Delete(w.staged.categories, i, i+1)
	for t := range w.staged.transactions {
		tx := &w.staged.transactions[t]
		if tx.CategoryID.Valid && tx.CategoryID.UUID == id {
			tx.CategoryID = uuid.NullUUID{}
		}
	}
	w.staged.messageRules = slices.DeleteFunc(w.staged.messageRules, func(rule ledger.MessageRule) bool {
		return rule.CategoryID == id
	})
	return nil
}

func (w *Writer) InsertCategoryRule(_ context.Context, rule *ledger.CategoryRule) error {
	rule.Sequence = w.staged.nextSequence()
	w.staged.rules = append(w.staged.rules, *rule)
	return nil
}

func (w *Writer) UpdateCategoryRule(_ context.Context, rule *ledger.CategoryRule) error {
	i := slices.IndexFunc(w.staged.rules, func(r ledger.CategoryRule) bool { return r.ID == rule.ID })
	if i < 0 {
		return ledger.NotFoundError("category rule", rule.ID)
	}
	rule.Sequence = w.staged.rules[i].Sequence
	w.staged.rules[i] = *rule
	return nil
}

func (w *Writer) DeleteCategoryRule(_ context.Context, id uuid.UUID) error {
	i := slices.IndexFunc(w.staged.rules, func(r ledger.CategoryRule) bool { return r.ID == id })
	if i < 0 {
		return ledger.NotFoundError("category rule", id)
	}
	w.staged.rules = slices.Delete(w.staged.rules, i, i+1)
	return nil
}

func (w *Writer) InsertSavingGoal(_ context.Context, goal *ledger.SavingGoal) error {
	w.staged.goals = append(w.staged.goals, *goal)
	return nil
}

func (w *Writer) UpdateSavingGoalBalance(_ context.Context, goal *ledger.SavingGoal) error {
	i := slices.IndexFunc(w.staged.goals, func(g ledger.SavingGoal) bool { return g.ID == goal.ID })
	if i < 0 {
		return ledger.NotFoundError("saving goal", goal.ID)
	}
	w.staged.goals[i].Balance = goal.Balance
	return nil
}

func (w *Writer) DeleteSavingGoal(_ context.Context, id uuid.UUID) error {
	i := slices.IndexFunc(w.staged.goals, func(g ledger.SavingGoal) bool { return g.ID == id })
	if i < 0 {
		return ledger.NotFoundError("saving goal", id)
	}
	w.staged.goals = slices.Delete(w.staged.goals, i, i+1)
	for t := range w.staged.transactions {
		tx := &w.staged.transactions[t]
		if tx.SavingGoalID.Valid && tx.SavingGoalID.UUID == id {
			tx.SavingGoalID = uuid.NullUUID{}
		}
	}
	return nil
}

func (w *Writer) InsertPaymentRequest(_ context.Context, request *ledger.PaymentRequest) error {
	request.Sequence = w.staged.nextSequence()
	stored := *request
	stored.SettledTransactionIDs = slices.Clone(request.SettledTransactionIDs)
	w.staged.requests = append(w.staged.requests, stored)
	return nil
}

func (w *Writer) LinkPaymentRequestTransaction(_ context.Context, requestID, txID uuid.UUID, filled bool) error {
	i := slices.IndexFunc(w.staged.requests, func(r ledger.PaymentRequest) bool { return r.ID == requestID })
	if i < 0 {
		return ledger.NotFoundError("payment request", requestID)
	}
	request := &w.staged.requests[i]
	request.SettledTransactionIDs = append(request.SettledTransactionIDs, txID)
	request.Filled = request.Filled || filled
	return nil
}

func (w *Writer) InsertMessage(_ context.Context, message *ledger.Message) error {
	w.staged.messages = append(w.staged.messages, *message)
	return nil
}

func (w *Writer) MarkMessageRead(_ context.Context, id uuid.UUID) error {
	i := slices.IndexFunc(w.staged.messages, func(m ledger.Message) bool { return m.ID == id })
	if i < 0 {
		return ledger.NotFoundError("message", id)
	}
	w.staged.messages[i].Read = true
	return nil
}

func (w *Writer) InsertMessageRule(_ context.Context, rule *ledger.MessageRule) error {
	w.staged.messageRules = append(w.staged.messageRules, *rule)
	return nil
}

func (w *Writer) DeleteMessageRule(_ context.Context, id uuid.UUID) error {
	i := slices.IndexFunc(w.staged.messageRules, func(r ledger.MessageRule) bool { return r.ID == id })
	if i < 0 {
		return ledger.NotFoundError("message rule", id)
	}
	w.staged.messageRules = slices.Delete(w.staged.messageRules, i, i+1)
	return nil
}
