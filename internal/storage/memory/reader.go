package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

type Reader struct {
	load func() *partition
}

func (r *Reader) GetTransaction(_ context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	p := r.load()
	i := slices.IndexFunc(p.transactions, func(tx ledger.Transaction) bool {
		return tx.ID == id && !tx.Internal
	})
	if i < 0 {
		return nil, ledger.NotFoundError("transaction", id)
	}
	tx := p.transactions[i]
	return &tx, nil
}

func (r *Reader) ListTransactions(_ context.Context, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	p := r.load()

	var visible []ledger.Transaction
	for i := len(p.transactions) - 1; i >= 0; i-- {
		tx := p.transactions[i]
		if tx.Internal {
			continue
		}
		if filter.CategoryID != nil && (!tx.CategoryID.Valid || tx.CategoryID.UUID != *filter.CategoryID) {
			continue
		}
		visible = append(visible, tx)
	}
	slices.SortStableFunc(visible, func(a, b ledger.Transaction) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	if filter.Offset >= len(visible) {
		return nil, nil
	}
	visible = visible[filter.Offset:]
	if filter.Limit > 0 && len(visible) > filter.Limit {
		visible = visible[:filter.Limit]
	}
	return visible, nil
}

func (r *Reader) AllTransactions(_ context.Context) ([]ledger.Transaction, error) {
	return ledger.SortByTimestamp(r.load().transactions), nil
}

func (r *Reader) LatestTransactionBefore(_ context.Context, ts time.Time, exclude uuid.UUID) (*ledger.Transaction, error) {
	var latest *ledger.Transaction
	for _, tx := range r.load().transactions {
		if tx.Internal || tx.ID == exclude || !tx.Timestamp.Before(ts) {
			continue
		}
		if latest == nil || !tx.Timestamp.Before(latest.Timestamp) {
			found := tx
			latest = &found
		}
	}
	return latest, nil
}

func (r *Reader) Balance(_ context.Context) (decimal.Decimal, error) {
	return ledger.Balance(r.load().transactions), nil
}

func (r *Reader) GetCategory(_ context.Context, id uuid.UUID) (*ledger.Category, error) {
	p := r.load()
	i := slices.IndexFunc(p.categories, func(c ledger.Category) bool { return c.ID == id })
	if i < 0 {
		return nil, ledger.NotFoundError("category", id)
	}
	category := p.categories[i]
	return &category, nil
}

func (r *Reader) ListCategories(_ context.Context) ([]ledger.Category, error) {
	return slices.Clone(r.load().categories), nil
}

func (r *Reader) GetCategoryRule(_ context.Context, id uuid.UUID) (*ledger.CategoryRule, error) {
	p := r.load()
	i := slices.IndexFunc(p.rules, func(rule ledger.CategoryRule) bool { return rule.ID == id })
	if i < 0 {
		return nil, ledger.NotFoundError("category rule", id)
	}
	rule := p.rules[i]
	return &rule, nil
}

func (r *Reader) ListCategoryRules(_ context.Context) ([]ledger.CategoryRule, error) {
	rules := slices.Clone(r.load().rules)
	slices.SortStableFunc(rules, func(a, b ledger.CategoryRule) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})
	return rules, nil
}

func (r *Reader) GetSavingGoal(_ context.Context, id uuid.UUID) (*ledger.SavingGoal, error) {
	p := r.load()
	i := slices.IndexFunc(p.goals, func(g ledger.SavingGoal) bool { return g.ID == id })
	if i < 0 {
		return nil, ledger.NotFoundError("saving goal", id)
	}
	goal := p.goals[i]
	return &goal, nil
}

func (r *Reader) ListSavingGoals(_ context.Context) ([]ledger.SavingGoal, error) {
	return slices.Clone(r.load().goals), nil
}

func (r *Reader) ListGoalAllocations(_ context.Context, goalID uuid.UUID) ([]ledger.Transaction, error) {
	var allocations []ledger.Transaction
	for _, tx := range r.load().transactions {
		if tx.Internal && tx.SavingGoalID.Valid && tx.SavingGoalID.UUID == goalID {
			allocations = append(allocations, tx)
		}
	}
	return allocations, nil
}

func (r *Reader) GetPaymentRequest(_ context.Context, id uuid.UUID) (*ledger.PaymentRequest, error) {
	p := r.load()
	i := slices.IndexFunc(p.requests, func(req ledger.PaymentRequest) bool { return req.ID == id })
	if i < 0 {
		return nil, ledger.NotFoundError("payment request", id)
	}
	request := p.requests[i]
	request.SettledTransactionIDs = slices.Clone(request.SettledTransactionIDs)
	return &request, nil
}

func (r *Reader) ListPaymentRequests(_ context.Context) ([]ledger.PaymentRequest, error) {
	p := r.load()
	requests := make([]ledger.PaymentRequest, len(p.requests))
	for i, req := range p.requests {
		req.SettledTransactionIDs = slices.Clone(req.SettledTransactionIDs)
		requests[i] = req
	}
	slices.SortStableFunc(requests, func(a, b ledger.PaymentRequest) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})
	return requests, nil
}

func (r *Reader) GetMessage(_ context.Context, id uuid.UUID) (*ledger.Message, error) {
	p := r.load()
	i := slices.IndexFunc(p.messages, func(m ledger.Message) bool { return m.ID == id })
	if i < 0 {
		return nil, ledger.NotFoundError("message", id)
	}
	message := p.messages[i]
	return &message, nil
}

func (r *Reader) ListMessages(_ context.Context, unreadOnly bool) ([]ledger.Message, error) {
	var messages []ledger.Message
	for _, m := range r.load().messages {
		if unreadOnly && m.Read {
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *Reader) ListMessageRules(_ context.Context) ([]ledger.MessageRule, error) {
	return slices.Clone(r.load().messageRules), nil
}
