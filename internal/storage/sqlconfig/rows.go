package sqlconfig

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

var transactionColumns = []any{
	"id", "occurred_at", "amount", "description", "counterparty_iban",
	"type", "category_id", "internal", "saving_goal_id",
}

type transactionRow struct {
	ID               uuid.UUID       `db:"id"`
	OccurredAt       time.Time       `db:"occurred_at"`
	Amount           decimal.Decimal `db:"amount"`
	Description      string          `db:"description"`
	CounterpartyIBAN string          `db:"counterparty_iban"`
	Type             string          `db:"type"`
	CategoryID       uuid.NullUUID   `db:"category_id"`
	Internal         bool            `db:"internal"`
	SavingGoalID     uuid.NullUUID   `db:"saving_goal_id"`
}

func (row transactionRow) toLedger() ledger.Transaction {
	return ledger.Transaction{
		ID:               row.ID,
		Timestamp:        row.OccurredAt.UTC(),
		Amount:           row.Amount,
		Description:      row.Description,
		CounterpartyIBAN: row.CounterpartyIBAN,
		Type:             ledger.TransactionType(row.Type),
		CategoryID:       row.CategoryID,
		Internal:         row.Internal,
		SavingGoalID:     row.SavingGoalID,
	}
}

func transactionsFromRows(rows []transactionRow) []ledger.Transaction {
	if len(rows) == 0 {
		return nil
	}
	result := make([]ledger.Transaction, len(rows))
	for i, row := range rows {
		result[i] = row.toLedger()
	}
	return result
}

var categoryColumns = []any{"id", "name"}

type categoryRow struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}

func (row categoryRow) toLedger() ledger.Category {
	return ledger.Category{ID: row.ID, Name: row.Name}
}

var categoryRuleColumns = []any{
	"id", "seq", "description_pattern", "iban_pattern", "type", "category_id", "apply_on_history",
}

type categoryRuleRow struct {
	ID                 uuid.UUID `db:"id"`
	Seq                int64     `db:"seq"`
	DescriptionPattern string    `db:"description_pattern"`
	IBANPattern        string    `db:"iban_pattern"`
	Type               string    `db:"type"`
	CategoryID         uuid.UUID `db:"category_id"`
	ApplyOnHistory     bool      `db:"apply_on_history"`
}

func (row categoryRuleRow) toLedger() ledger.CategoryRule {
	return ledger.CategoryRule{
		ID:                 row.ID,
		Sequence:           row.Seq,
		DescriptionPattern: row.DescriptionPattern,
		IBANPattern:        row.IBANPattern,
		Type:               ledger.TransactionType(row.Type),
		CategoryID:         row.CategoryID,
		ApplyOnHistory:     row.ApplyOnHistory,
	}
}

var savingGoalColumns = []any{"id", "name", "goal", "save_per_month", "min_balance_required", "balance"}

type savingGoalRow struct {
	ID                 uuid.UUID       `db:"id"`
	Name               string          `db:"name"`
	Goal               decimal.Decimal `db:"goal"`
	SavePerMonth       decimal.Decimal `db:"save_per_month"`
	MinBalanceRequired decimal.Decimal `db:"min_balance_required"`
	Balance            decimal.Decimal `db:"balance"`
}

func (row savingGoalRow) toLedger() ledger.SavingGoal {
	return ledger.SavingGoal{
		ID:                 row.ID,
		Name:               row.Name,
		Goal:               row.Goal,
		SavePerMonth:       row.SavePerMonth,
		MinBalanceRequired: row.MinBalanceRequired,
		Balance:            row.Balance,
	}
}

var paymentRequestColumns = []any{
	"id", "seq", "description", "due_date", "amount", "number_of_requests", "filled",
}

type paymentRequestRow struct {
	ID               uuid.UUID       `db:"id"`
	Seq              int64           `db:"seq"`
	Description      string          `db:"description"`
	DueDate          time.Time       `db:"due_date"`
	Amount           decimal.Decimal `db:"amount"`
	NumberOfRequests int             `db:"number_of_requests"`
	Filled           bool            `db:"filled"`
}

func (row paymentRequestRow) toLedger(settled []uuid.UUID) ledger.PaymentRequest {
	return ledger.PaymentRequest{
		ID:                    row.ID,
		Sequence:              row.Seq,
		Description:           row.Description,
		DueDate:               row.DueDate.UTC(),
		Amount:                row.Amount,
		NumberOfRequests:      row.NumberOfRequests,
		Filled:                row.Filled,
		SettledTransactionIDs: settled,
	}
}

type requestLinkRow struct {
	PaymentRequestID uuid.UUID `db:"payment_request_id"`
	TransactionID    uuid.UUID `db:"transaction_id"`
}

var messageColumns = []any{"id", "text", "occurred_at", "read", "type", "kind"}

type messageRow struct {
	ID         uuid.UUID `db:"id"`
	Text       string    `db:"text"`
	OccurredAt time.Time `db:"occurred_at"`
	Read       bool      `db:"read"`
	Type       string    `db:"type"`
	Kind       string    `db:"kind"`
}

func (row messageRow) toLedger() ledger.Message {
	return ledger.Message{
		ID:        row.ID,
		Text:      row.Text,
		Timestamp: row.OccurredAt.UTC(),
		Read:      row.Read,
		Type:      ledger.MessageType(row.Type),
		Kind:      ledger.MessageKind(row.Kind),
	}
}

var messageRuleColumns = []any{"id", "category_id", "type", "value"}

type messageRuleRow struct {
	ID         uuid.UUID       `db:"id"`
	CategoryID uuid.UUID       `db:"category_id"`
	Type       string          `db:"type"`
	Value      decimal.Decimal `db:"value"`
}

func (row messageRuleRow) toLedger() ledger.MessageRule {
	return ledger.MessageRule{
		ID:         row.ID,
		CategoryID: row.CategoryID,
		Type:       ledger.MessageType(row.Type),
		Value:      row.Value,
	}
}
