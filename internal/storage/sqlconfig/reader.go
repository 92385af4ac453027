package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

type Reader struct {
	exec    bob.Executor
	session string
}

func (r *Reader) sessionIs() dialect.Expression {
	return column("session_id").EQ(psql.Arg(r.session))
}

func (r *Reader) selectFrom(table string, columns []any, queryMods ...bob.Mod[*dialect.SelectQuery]) bob.BaseQuery[*dialect.SelectQuery] {
	base := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(table),
		sm.Where(r.sessionIs()),
	}
	return psql.Select(append(base, queryMods...)...)
}

func (r *Reader) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	q := r.selectFrom("transactions", transactionColumns,
		sm.Where(idIs(id)),
		sm.Where(column("internal").EQ(psql.Arg(false))),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, lookupError(err, "transaction", id)
	}
	tx := row.toLedger()
	return &tx, nil
}

func (r *Reader) ListTransactions(ctx context.Context, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Where(column("internal").EQ(psql.Arg(false))),
	}
	if filter.CategoryID != nil {
		queryMods = append(queryMods, sm.Where(column("category_id").EQ(psql.Arg(*filter.CategoryID))))
	}
	if filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit))
	}
	if filter.Offset > 0 {
		queryMods = append(queryMods, sm.Offset(filter.Offset))
	}
	queryMods = append(queryMods,
		sm.OrderBy("occurred_at").Desc(),
		sm.OrderBy("seq").Desc(),
	)

	rows, err := bob.All(ctx, r.exec, r.selectFrom("transactions", transactionColumns, queryMods...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, ledger.StoreError("list transactions", err)
	}
	return transactionsFromRows(rows), nil
}

func (r *Reader) AllTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	q := r.selectFrom("transactions", transactionColumns,
		sm.OrderBy("occurred_at").Asc(),
		sm.OrderBy("seq").Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, ledger.StoreError("all transactions", err)
	}
	return transactionsFromRows(rows), nil
}

func (r *Reader) LatestTransactionBefore(ctx context.Context, ts time.Time, exclude uuid.UUID) (*ledger.Transaction, error) {
	q := r.selectFrom("transactions", transactionColumns,
		sm.Where(column("internal").EQ(psql.Arg(false))),
		sm.Where(column("id").NE(psql.Arg(exclude))),
		sm.Where(column("occurred_at").LT(psql.Arg(ts))),
		sm.OrderBy("occurred_at").Desc(),
		sm.OrderBy("seq").Desc(),
		sm.Limit(1),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[transactionRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, ledger.StoreError("latest transaction", err)
	}
	tx := row.toLedger()
	return &tx, nil
}

func (r *Reader) Balance(ctx context.Context) (decimal.Decimal, error) {
	sum := psql.Raw("COALESCE(SUM(CASE WHEN type = 'withdrawal' THEN -amount ELSE amount END), 0)")
	q := r.selectFrom("transactions", []any{sum})
	balance, err := bob.One(ctx, r.exec, q, scan.SingleColumnMapper[decimal.Decimal])
	if err != nil {
		return decimal.Zero, ledger.StoreError("balance", err)
	}
	return balance, nil
}

func (r *Reader) GetCategory(ctx context.Context, id uuid.UUID) (*ledger.Category, error) {
	q := r.selectFrom("categories", categoryColumns, sm.Where(idIs(id)))
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[categoryRow]())
	if err != nil {
		return nil, lookupError(err, "category", id)
	}
	category := row.toLedger()
	return &category, nil
}

func (r *Reader) ListCategories(ctx context.Context) ([]ledger.Category, error) {
	q := r.selectFrom("categories", categoryColumns, sm.OrderBy("seq").Asc())
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[categoryRow]())
	if err != nil {
		return nil, ledger.StoreError("list categories", err)
	}
	categories := make([]ledger.Category, len(rows))
	for i, row := range rows {
		categories[i] = row.toLedger()
	}
	return categories, nil
}

func (r *Reader) GetCategoryRule(ctx context.Context, id uuid.UUID) (*ledger.CategoryRule, error) {
	q := r.selectFrom("category_rules", categoryRuleColumns, sm.Where(idIs(id)))
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[categoryRuleRow]())
	if err != nil {
		return nil, lookupError(err, "category rule", id)
	}
	rule := row.toLedger()
	return &rule, nil
}

func (r *Reader) ListCategoryRules(ctx context.Context) ([]ledger.CategoryRule, error) {
	q := r.selectFrom("category_rules", categoryRuleColumns, sm.OrderBy("seq").Asc())
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[categoryRuleRow]())
	if err != nil {
		return nil, ledger.StoreError("list category rules", err)
	}
	rules := make([]ledger.CategoryRule, len(rows))
	for i, row := range rows {
		rules[i] = row.toLedger()
	}
	return rules, nil
}

func (r *Reader) GetSavingGoal(ctx context.Context, id uuid.UUID) (*ledger.SavingGoal, error) {
	q := r.selectFrom("saving_goals", savingGoalColumns, sm.Where(idIs(id)))
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[savingGoalRow]())
	if err != nil {
		return nil, lookupError(err, "saving goal", id)
	}
	goal := row.toLedger()
	return &goal, nil
}

func (r *Reader) ListSavingGoals(ctx context.Context) ([]ledger.SavingGoal, error) {
	q := r.selectFrom("saving_goals", savingGoalColumns, sm.OrderBy("seq").Asc())
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[savingGoalRow]())
	if err != nil {
		return nil, ledger.StoreError("list saving goals", err)
	}
	goals := make([]ledger.SavingGoal, len(rows))
	for i, row := range rows {
		goals[i] = row.toLedger()
	}
	return goals, nil
}

func (r *Reader) ListGoalAllocations(ctx context.Context, goalID uuid.UUID) ([]ledger.Transaction, error) {
	q := r.selectFrom("transactions", transactionColumns,
		sm.Where(column("internal").EQ(psql.Arg(true))),
		sm.Where(column("saving_goal_id").EQ(psql.Arg(goalID))),
		sm.OrderBy("occurred_at").Asc(),
		sm.OrderBy("seq").Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, ledger.StoreError("list goal allocations", err)
	}
	return transactionsFromRows(rows), nil
}

// settledTransactions groups the request links of the session by request,
// oldest link first.
func (r *Reader) settledTransactions(ctx context.Context, requestID *uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{sm.OrderBy("seq").Asc()}
	if requestID != nil {
		queryMods = append(queryMods, sm.Where(column("payment_request_id").EQ(psql.Arg(*requestID))))
	}
	q := r.selectFrom("payment_request_transactions", []any{"payment_request_id", "transaction_id"}, queryMods...)
	links, err := bob.All(ctx, r.exec, q, scan.StructMapper[requestLinkRow]())
	if err != nil {
		return nil, ledger.StoreError("list request links", err)
	}
	settled := make(map[uuid.UUID][]uuid.UUID)
	for _, link := range links {
		settled[link.PaymentRequestID] = append(settled[link.PaymentRequestID], link.TransactionID)
	}
	return settled, nil
}

func (r *Reader) GetPaymentRequest(ctx context.Context, id uuid.UUID) (*ledger.PaymentRequest, error) {
	q := r.selectFrom("payment_requests", paymentRequestColumns, sm.Where(idIs(id)))
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[paymentRequestRow]())
	if err != nil {
		return nil, lookupError(err, "payment request", id)
	}
	settled, err := r.settledTransactions(ctx, &id)
	if err != nil {
		return nil, err
	}
	request := row.toLedger(settled[id])
	return &request, nil
}

func (r *Reader) ListPaymentRequests(ctx context.Context) ([]ledger.PaymentRequest, error) {
	q := r.selectFrom("payment_requests", paymentRequestColumns, sm.OrderBy("seq").Asc())
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[paymentRequestRow]())
	if err != nil {
		return nil, ledger.StoreError("list payment requests", err)
	}
	settled, err := r.settledTransactions(ctx, nil)
	if err != nil {
		return nil, err
	}
	requests := make([]ledger.PaymentRequest, len(rows))
	for i, row := range rows {
		requests[i] = row.toLedger(settled[row.ID])
	}
	return requests, nil
}

func (r *Reader) GetMessage(ctx context.Context, id uuid.UUID) (*ledger.Message, error) {
	q := r.selectFrom("messages", messageColumns, sm.Where(idIs(id)))
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[messageRow]())
	if err != nil {
		return nil, lookupError(err, "message", id)
	}
	message := row.toLedger()
	return &message, nil
}

func (r *Reader) ListMessages(ctx context.Context, unreadOnly bool) ([]ledger.Message, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{sm.OrderBy("seq").Asc()}
	if unreadOnly {
		queryMods = append(queryMods, sm.Where(column("read").EQ(psql.Arg(false))))
	}
	rows, err := bob.All(ctx, r.exec, r.selectFrom("messages", messageColumns, queryMods...), scan.StructMapper[messageRow]())
	if err != nil {
		return nil, ledger.StoreError("list messages", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	messages := make([]ledger.Message, len(rows))
	for i, row := range rows {
		messages[i] = row.toLedger()
	}
	return messages, nil
}

func (r *Reader) ListMessageRules(ctx context.Context) ([]ledger.MessageRule, error) {
	q := r.selectFrom("message_rules", messageRuleColumns, sm.OrderBy("seq").Asc())
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[messageRuleRow]())
	if err != nil {
		return nil, ledger.StoreError("list message rules", err)
	}
	rules := make([]ledger.MessageRule, len(rows))
	for i, row := range rows {
		rules[i] = row.toLedger()
	}
	return rules, nil
}
