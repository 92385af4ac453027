package storage

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// Reader exposes the committed state of one session. Internal transactions
// never appear in GetTransaction or ListTransactions; they are only returned
// by AllTransactions and ListGoalAllocations and always count towards Balance.
//
// Lookups of a single entity return an error matching ledger.ErrNotFound when
// it does not exist.
type Reader interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	// ListTransactions is ordered newest first.
	ListTransactions(ctx context.Context, filter ledger.TransactionFilter) ([]ledger.Transaction, error)
	// AllTransactions includes internal transactions, oldest first.
	AllTransactions(ctx context.Context) ([]ledger.Transaction, error)
	// LatestTransactionBefore returns the newest visible transaction strictly
	// before ts, ignoring exclude. It returns nil when there is none.
	LatestTransactionBefore(ctx context.Context, ts time.Time, exclude uuid.UUID) (*ledger.Transaction, error)
	Balance(ctx context.Context) (decimal.Decimal, error)

	GetCategory(ctx context.Context, id uuid.UUID) (*ledger.Category, error)
	ListCategories(ctx context.Context) ([]ledger.Category, error)

	GetCategoryRule(ctx context.Context, id uuid.UUID) (*ledger.CategoryRule, error)
	// ListCategoryRules is ordered by sequence, oldest first.
	ListCategoryRules(ctx context.Context) ([]ledger.CategoryRule, error)

	GetSavingGoal(ctx context.Context, id uuid.UUID) (*ledger.SavingGoal, error)
	// ListSavingGoals is ordered by creation.
	ListSavingGoals(ctx context.Context) ([]ledger.SavingGoal, error)
	// ListGoalAllocations returns the internal transactions linked to a goal.
	ListGoalAllocations(ctx context.Context, goalID uuid.UUID) ([]ledger.Transaction, error)

	GetPaymentRequest(ctx context.Context, id uuid.UUID) (*ledger.PaymentRequest, error)
	// ListPaymentRequests is ordered by sequence.
	ListPaymentRequests(ctx context.Context) ([]ledger.PaymentRequest, error)

	GetMessage(ctx context.Context, id uuid.UUID) (*ledger.Message, error)
	// ListMessages is ordered oldest first.
	ListMessages(ctx context.Context, unreadOnly bool) ([]ledger.Message, error)

	ListMessageRules(ctx context.Context) ([]ledger.MessageRule, error)
}
