package storage

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// Writer stages changes to one session. Reads through a Writer observe its own
// staged changes. Nothing becomes visible to other readers until Commit, and
// Rollback discards everything. Only one Writer per session is open at a time.
type Writer interface {
	Reader

	InsertTransaction(ctx context.Context, tx *ledger.Transaction) error
	UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	AssignCategory(ctx context.Context, txID uuid.UUID, categoryID uuid.NullUUID) error
	// ApplyCategoryRule assigns the rule's category to every visible
	// transaction matching it and reports how many rows changed.
	ApplyCategoryRule(ctx context.Context, rule ledger.CategoryRule) (int64, error)

	InsertCategory(ctx context.Context, category *ledger.Category) error
	UpdateCategory(ctx context.Context, category *ledger.Category) error
	// DeleteCategory uncategorises the transactions that referenced it.
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// InsertCategoryRule assigns rule.Sequence.
	InsertCategoryRule(ctx context.Context, rule *ledger.CategoryRule) error
	UpdateCategoryRule(ctx context.Context, rule *ledger.CategoryRule) error
	DeleteCategoryRule(ctx context.Context, id uuid.UUID) error

	InsertSavingGoal(ctx context.Context, goal *ledger.SavingGoal) error
	UpdateSavingGoalBalance(ctx context.Context, goal *ledger.SavingGoal) error
	DeleteSavingGoal(ctx context.Context, id uuid.UUID) error

	// InsertPaymentRequest assigns request.Sequence.
	InsertPaymentRequest(ctx context.Context, request *ledger.PaymentRequest) error
	LinkPaymentRequestTransaction(ctx context.Context, requestID, txID uuid.UUID, filled bool) error

	InsertMessage(ctx context.Context, message *ledger.Message) error
	MarkMessageRead(ctx context.Context, id uuid.UUID) error

	InsertMessageRule(ctx context.Context, rule *ledger.MessageRule) error
	DeleteMessageRule(ctx context.Context, id uuid.UUID) error

	// Isolated runs fn so that its failure discards only the changes fn made
	// and leaves the writer usable. fn's error is returned unchanged.
	Isolated(ctx context.Context, name string, fn func() error) error

	Commit() error
	Rollback() error
}
