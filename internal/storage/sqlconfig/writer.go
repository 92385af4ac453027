package sqlconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func (w *Writer) Commit() error {
	return ledger.StoreError("commit", w.tx.Commit())
}

func (w *Writer) Rollback() error {
	err := w.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func (w *Writer) InsertTransaction(ctx context.Context, tx *ledger.Transaction) error {
	q := psql.Insert(
		im.Into("transactions",
			"id", "session_id", "occurred_at", "amount", "description",
			"counterparty_iban", "type", "category_id", "internal", "saving_goal_id"),
		im.Values(
			psql.Arg(tx.ID), psql.Arg(w.session), psql.Arg(tx.Timestamp), psql.Arg(tx.Amount),
			psql.Arg(tx.Description), psql.Arg(tx.CounterpartyIBAN), psql.Arg(string(tx.Type)),
			psql.Arg(tx.CategoryID), psql.Arg(tx.Internal), psql.Arg(tx.SavingGoalID),
		),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return ledger.StoreError("insert transaction", err)
}

func (w *Writer) UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	q := psql.Update(
		um.Table("transactions"),
		um.SetCol("occurred_at").ToArg(tx.Timestamp),
		um.SetCol("amount").ToArg(tx.Amount),
		um.SetCol("description").ToArg(tx.Description),
		um.SetCol("counterparty_iban").ToArg(tx.CounterpartyIBAN),
		um.SetCol("type").ToArg(string(tx.Type)),
		um.SetCol("category_id").ToArg(tx.CategoryID),
		um.Where(w.sessionIs()),
		um.Where(idIs(tx.ID)),
		um.Where(column("internal").EQ(psql.Arg(false))),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	return affectedOne(result, err, "transaction", tx.ID)
}

func (w *Writer) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From("transactions"),
		dm.Where(w.sessionIs()),
		dm.Where(idIs(id)),
		dm.Where(column("internal").EQ(psql.Arg(false))),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	return affectedOne(result, err, "transaction", id)
}

func (w *Writer) AssignCategory(ctx context.Context, txID uuid.UUID, categoryID uuid.NullUUID) error {
	q := psql.Update(
		um.Table("transactions"),
		um.SetCol("category_id").ToArg(categoryID),
		um.Where(w.sessionIs()),
		um.Where(idIs(txID)),
		um.Where(column("internal").EQ(psql.Arg(false))),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	return affectedOne(result, err, "transaction", txID)
}

// ApplyCategoryRule assigns the rule's category to every visible matching
// transaction that does not already carry it.
func (w *Writer) ApplyCategoryRule(ctx context.Context, rule ledger.CategoryRule) (int64, error) {
	q := psql.Update(
		um.Table("transactions"),
		um.SetCol("category_id").ToArg(rule.CategoryID),
		um.Where(w.sessionIs()),
		um.Where(column("internal").EQ(psql.Arg(false))),
		um.Where(column("type").EQ(psql.Arg(string(rule.Type)))),
		um.Where(psql.Raw("strpos(description, ?) > 0", rule.DescriptionPattern)),
		um.Where(psql.Raw("strpos(counterparty_iban, ?) > 0", rule.IBANPattern)),
		um.Where(psql.Raw("category_id IS DISTINCT FROM ?", rule.CategoryID)),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return 0, ledger.StoreError("apply category rule", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, ledger.StoreError("apply category rule", err)
	}
	return n, nil
}

func (w *Writer) InsertCategory(ctx context.Context, category *ledger.Category) error {
	q := psql.Insert(
		im.Into("categories", "id", "session_id", "name"),
		im.Values(psql.Arg(category.ID), psql.Arg(w.session), psql.Arg(category.Name)),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return ledger.StoreError("insert category", err)
}

func (w *Writer) UpdateCategory(ctx context.Context, category *ledger.Category) error {
	q := psql.Update(
		um.Table("categories"),
		um.SetCol("name").ToArg(category.Name),
		um.Where(w.sessionIs()),
		um.Where(idIs(category.ID)),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	return affectedOne(result, err, "category", category.ID)
}

// DeleteCategory relies on the schema to clear transaction categories and
// drop the category's message rules.
func (w *Writer) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From("categories"),
		dm.Where(w.sessionIs()),
		dm.Where(idIs(id)),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	return affectedOne(result, err, "category", id)
}

func (w *Writer) InsertCategoryRule(ctx context.Context, rule *ledger.CategoryRule) error {
	q := psql.Insert(
		im.Into("category_rules",
			"id", "session_id", "description_pattern", "iban_pattern", "type", "category_id", "apply_on_history"),
		im.Values(
			psql.Arg(rule.ID), psql.Arg(w.session), psql.Arg(rule.DescriptionPattern),
			psql.Arg(rule.IBANPattern), psql.Arg(string(rule.Type)), psql.Arg(rule.CategoryID),
			psql.Arg(rule.ApplyOnHistory),
		),
		im.Returning("seq"),
	)
	seq, err := bob.One(ctx, w.tx, q, scan.SingleColumnMapper[int64])
	if err != nil {
		return ledger.StoreError("insert category rule", err)
	}
	rule.Sequence = seq
	return nil
}

func (w *Writer) UpdateCategoryRule(ctx context.Context, rule *ledger.CategoryRule) error {
	q := psql.Update(
		um.Table("category_rules"),
		um.SetCol("description_pattern").ToArg(rule.DescriptionPattern),
		um.SetCol("iban_pattern").ToArg(rule.IBANPattern),
		um.SetCol("type").ToArg(string(rule.Type)),
		um.SetCol("category_id").ToArg(rule.CategoryID),
		um.SetCol("apply_on_history").ToArg(rule.ApplyOnHistory),
		um.Where(w.sessionIs()),
		um.Where(idIs(rule.ID)),
		um.Returning("seq"),
	)
	seq, err := bob.One(ctx, w.tx, q, scan.SingleColumnMapper[int64])
	if err != nil {
		return lookupError(err, "category rule", rule.ID)
	}
	rule.Sequence = seq
	return nil
}

func (w *Writer) DeleteCategoryRule(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From("category_rules"),
		dm.Where(w.sessionIs()),
		dm.Where(idIs(id)),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	return affectedOne(result, err, "category rule", id)
}

func (w *Writer) InsertSavingGoal(ctx context.Context, goal *ledger.SavingGoal) error {
	q := psql.Insert(
		im.Into("saving_goals",
			"id", "session_id", "name", "goal", "save_per_month", "min_balance_required", "balance"),
		im.Values(
			psql.Arg(goal.ID), psql.Arg(w.session), psql.Arg(goal.Name), psql.Arg(goal.Goal),
			psql.Arg(goal.SavePerMonth), psql.Arg(goal.MinBalanceRequired), psql.Arg(goal.Balance),
		),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return ledger.StoreError("insert saving goal", err)
}

func (w *Writer) UpdateSavingGoalBalance(ctx context.Context, goal *ledger.SavingGoal) error {
	q := psql.Update(
		um.Table("saving_goals"),
		um.SetCol("balance").ToArg(goal.Balance),
		um.Where(w.sessionIs()),
		um.Where(idIs(goal.ID)),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	return affectedOne(result, err, "saving goal", goal.ID)
}

func (w *Writer) DeleteSavingGoal(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From("saving_goals"),
		dm.Where(w.sessionIs()),
		dm.Where(idIs(id)),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	return affectedOne(result, err, "saving goal", id)
}

func (w *Writer) InsertPaymentRequest(ctx context.Context, request *ledger.PaymentRequest) error {
	q := psql.Insert(
		im.Into("payment_requests",
			"id", "session_id", "description", "due_date", "amount", "number_of_requests", "filled"),
		im.Values(
			psql.Arg(request.ID), psql.Arg(w.session), psql.Arg(request.Description),
			psql.Arg(request.DueDate), psql.Arg(request.Amount), psql.Arg(request.NumberOfRequests),
			psql.Arg(request.Filled),
		),
		im.Returning("seq"),
	)
	seq, err := bob.One(ctx, w.tx, q, scan.SingleColumnMapper[int64])
	if err != nil {
		return ledger.StoreError("insert payment request", err)
	}
	request.Sequence = seq
	return nil
}

func (w *Writer) LinkPaymentRequestTransaction(ctx context.Context, requestID, txID uuid.UUID, filled bool) error {
	update := psql.Update(
		um.Table("payment_requests"),
		um.SetCol("filled").To(psql.Raw("filled OR ?", filled)),
		um.Where(w.sessionIs()),
		um.Where(idIs(requestID)),
	)
	result, err := bob.Exec(ctx, w.tx, update)
	if err := affectedOne(result, err, "payment request", requestID); err != nil {
		return err
	}

	link := psql.Insert(
		im.Into("payment_request_transactions", "payment_request_id", "transaction_id", "session_id"),
		im.Values(psql.Arg(requestID), psql.Arg(txID), psql.Arg(w.session)),
	)
	_, err = bob.Exec(ctx, w.tx, link)
	return ledger.StoreError("link payment request", err)
}

// Isolated wraps fn in a savepoint, so a failed statement inside fn does not
// abort the surrounding transaction. name must be a plain identifier.
func (w *Writer) Isolated(ctx context.Context, name string, fn func() error) error {
	if _, err := bob.Exec(ctx, w.tx, psql.RawQuery("SAVEPOINT "+name)); err != nil {
		return ledger.StoreError("savepoint "+name, err)
	}
	if err := fn(); err != nil {
		if _, rollbackErr := bob.Exec(ctx, w.tx, psql.RawQuery("ROLLBACK TO SAVEPOINT "+name)); rollbackErr != nil {
			return ledger.StoreError("rollback to savepoint "+name, rollbackErr)
		}
		return err
	}
	_, err := bob.Exec(ctx, w.tx, psql.RawQuery("RELEASE SAVEPOINT "+name))
	return ledger.StoreError("release savepoint "+name, err)
}

// InsertMessage runs isolated so a failed insert leaves the rest of the
// transaction usable.
func (w *Writer) InsertMessage(ctx context.Context, message *ledger.Message) error {
	return w.Isolated(ctx, "message_insert", func() error {
		q := psql.Insert(
			im.Into("messages", "id", "session_id", "text", "occurred_at", "read", "type", "kind"),
			im.Values(
				psql.Arg(message.ID), psql.Arg(w.session), psql.Arg(message.Text), psql.Arg(message.Timestamp),
				psql.Arg(message.Read), psql.Arg(string(message.Type)), psql.Arg(string(message.Kind)),
			),
		)
		_, err := bob.Exec(ctx, w.tx, q)
		return ledger.StoreError("insert message", err)
	})
}

func (w *Writer) MarkMessageRead(ctx context.Context, id uuid.UUID) error {
	q := psql.Update(
		um.Table("messages"),
		um.SetCol("read").ToArg(true),
		um.Where(w.sessionIs()),
		um.Where(idIs(id)),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	return affectedOne(result, err, "message", id)
}

func (w *Writer) InsertMessageRule(ctx context.Context, rule *ledger.MessageRule) error {
	q := psql.Insert(
		im.Into("message_rules", "id", "session_id", "category_id", "type", "value"),
		im.Values(
			psql.Arg(rule.ID), psql.Arg(w.session), psql.Arg(rule.CategoryID),
			psql.Arg(string(rule.Type)), psql.Arg(rule.Value),
		),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return ledger.StoreError("insert message rule", err)
}

func (w *Writer) DeleteMessageRule(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From("message_rules"),
		dm.Where(w.sessionIs()),
		dm.Where(idIs(id)),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	return affectedOne(result, err, "message rule", id)
}
