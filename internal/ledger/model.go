package ledger

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money movement.
type TransactionType string

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
)

// ParseTransactionType converts s into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case Deposit, Withdrawal:
		return TransactionType(s), nil
	}
	return "", invalid("type", "must be deposit or withdrawal")
}

// MinimumAmount is the smallest accepted transaction amount.
var MinimumAmount = decimal.NewFromInt(1)

// Transaction is a single ledger entry.
type Transaction struct {
	ID               uuid.UUID
	Timestamp        time.Time
	Amount           decimal.Decimal
	Description      string
	CounterpartyIBAN string
	Type             TransactionType
	CategoryID       uuid.NullUUID

	// Internal entries are created by the saving goal allocator and are hidden
	// from listings and lookups. SavingGoalID links allocations to their goal;
	// refunds carry no link.
	Internal     bool
	SavingGoalID uuid.NullUUID
}

// Signed returns the amount with withdrawals negated.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Withdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionFilter selects a page of visible transactions. A Limit of zero
// returns everything from Offset on.
type TransactionFilter struct {
	CategoryID *uuid.UUID
	Limit      int
	Offset     int
}

// TransactionDraft is the client supplied part of a transaction.
type TransactionDraft struct {
	Timestamp        time.Time
	Amount           decimal.Decimal
	Description      string
	CounterpartyIBAN string
	Type             TransactionType
	CategoryID       uuid.NullUUID
}

func (d TransactionDraft) Validate() error {
	if d.Timestamp.IsZero() {
		return invalid("date", "is required")
	}
	if d.Amount.LessThan(MinimumAmount) {
		return invalid("amount", "must be at least 1")
	}
	if d.Description == "" {
		return invalid("description", "is required")
	}
	if _, err := ParseTransactionType(string(d.Type)); err != nil {
		return err
	}
	return nil
}

// Build turns the draft into a transaction with the given id.
func (d TransactionDraft) Build(id uuid.UUID) Transaction {
	return Transaction{
		ID:               id,
		Timestamp:        d.Timestamp.UTC(),
		Amount:           d.Amount,
		Description:      d.Description,
		CounterpartyIBAN: d.CounterpartyIBAN,
		Type:             d.Type,
		CategoryID:       d.CategoryID,
	}
}

type Category struct {
	ID   uuid.UUID
	Name string
}

type CategoryDraft struct {
	Name string
}

func (d CategoryDraft) Validate() error {
	if d.Name == "" {
		return invalid("name", "is required")
	}
	return nil
}

// CategoryRule assigns CategoryID to transactions matching all three patterns.
// Sequence is assigned by the store and orders rules oldest first.
type CategoryRule struct {
	ID                 uuid.UUID
	Sequence           int64
	DescriptionPattern string
	IBANPattern        string
	Type               TransactionType
	CategoryID         uuid.UUID
	ApplyOnHistory     bool
}

type CategoryRuleDraft struct {
	DescriptionPattern string
	IBANPattern        string
	Type               TransactionType
	CategoryID         uuid.UUID
	ApplyOnHistory     bool
}

func (d CategoryRuleDraft) Validate() error {
	if _, err := ParseTransactionType(string(d.Type)); err != nil {
		return err
	}
	if d.CategoryID == uuid.Nil {
		return invalid("category_id", "is required")
	}
	return nil
}

func (d CategoryRuleDraft) Build(id uuid.UUID) CategoryRule {
	return CategoryRule{
		ID:                 id,
		DescriptionPattern: d.DescriptionPattern,
		IBANPattern:        d.IBANPattern,
		Type:               d.Type,
		CategoryID:         d.CategoryID,
		ApplyOnHistory:     d.ApplyOnHistory,
	}
}

type SavingGoal struct {
	ID                 uuid.UUID
	Name               string
	Goal               decimal.Decimal
	SavePerMonth       decimal.Decimal
	MinBalanceRequired decimal.Decimal
	Balance            decimal.Decimal
}

// Remaining is the amount still needed to reach the goal.
func (g SavingGoal) Remaining() decimal.Decimal {
	return g.Goal.Sub(g.Balance)
}

type SavingGoalDraft struct {
	Name               string
	Goal               decimal.Decimal
	SavePerMonth       decimal.Decimal
	MinBalanceRequired decimal.Decimal
}

func (d SavingGoalDraft) Validate() error {
	if d.Name == "" {
		return invalid("name", "is required")
	}
	if !d.Goal.IsPositive() {
		return invalid("goal", "must be positive")
	}
	if !d.SavePerMonth.IsPositive() {
		return invalid("save_per_month", "must be positive")
	}
	if d.MinBalanceRequired.IsNegative() {
		return invalid("min_balance_required", "must not be negative")
	}
	return nil
}

func (d SavingGoalDraft) Build(id uuid.UUID) SavingGoal {
	return SavingGoal{
		ID:                 id,
		Name:               d.Name,
		Goal:               d.Goal,
		SavePerMonth:       d.SavePerMonth,
		MinBalanceRequired: d.MinBalanceRequired,
		Balance:            decimal.Zero,
	}
}

// PaymentRequest is settled by NumberOfRequests deposits of exactly Amount
// received on or before DueDate.
type PaymentRequest struct {
	ID                    uuid.UUID
	Sequence              int64
	Description           string
	DueDate               time.Time
	Amount                decimal.Decimal
	NumberOfRequests      int
	Filled                bool
	SettledTransactionIDs []uuid.UUID
}

type PaymentRequestDraft struct {
	Description      string
	DueDate          time.Time
	Amount           decimal.Decimal
	NumberOfRequests int
}

func (d PaymentRequestDraft) Validate() error {
	if d.Description == "" {
		return invalid("description", "is required")
	}
	if d.DueDate.IsZero() {
		return invalid("due_date", "is required")
	}
	if !d.Amount.IsPositive() {
		return invalid("amount", "must be positive")
	}
	if d.NumberOfRequests < 1 {
		return invalid("number_of_requests", "must be at least 1")
	}
	return nil
}

func (d PaymentRequestDraft) Build(id uuid.UUID) PaymentRequest {
	return PaymentRequest{
		ID:               id,
		Description:      d.Description,
		DueDate:          d.DueDate.UTC(),
		Amount:           d.Amount,
		NumberOfRequests: d.NumberOfRequests,
	}
}

type MessageType string

const (
	Info    MessageType = "info"
	Warning MessageType = "warning"
)

func ParseMessageType(s string) (MessageType, error) {
	switch MessageType(s) {
	case Info, Warning:
		return MessageType(s), nil
	}
	return "", invalid("type", "must be info or warning")
}

// MessageKind identifies what produced a message.
type MessageKind string

const (
	KindNegativeBalance MessageKind = "negative_balance"
	KindNewHigh         MessageKind = "new_high"
	KindGoalFilled      MessageKind = "goal_filled"
	KindRequestFilled   MessageKind = "request_filled"
	KindRequestOverdue  MessageKind = "request_overdue"
	KindMessageRule     MessageKind = "message_rule"
)

type Message struct {
	ID        uuid.UUID
	Text      string
	Timestamp time.Time
	Read      bool
	Type      MessageType
	Kind      MessageKind
}

// MessageRule emits a message once month-to-date withdrawals in CategoryID exceed Value.
type MessageRule struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Type       MessageType
	Value      decimal.Decimal
}

type MessageRuleDraft struct {
	CategoryID uuid.UUID
	Type       MessageType
	Value      decimal.Decimal
}

func (d MessageRuleDraft) Validate() error {
	if d.CategoryID == uuid.Nil {
		return invalid("category_id", "is required")
	}
	if _, err := ParseMessageType(string(d.Type)); err != nil {
		return err
	}
	if d.Value.IsNegative() {
		return invalid("value", "must not be negative")
	}
	return nil
}

func (d MessageRuleDraft) Build(id uuid.UUID) MessageRule {
	return MessageRule{
		ID:         id,
		CategoryID: d.CategoryID,
		Type:       d.Type,
		Value:      d.Value,
	}
}
