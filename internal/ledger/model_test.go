package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// -- TransactionDraft --

func validDraft() TransactionDraft {
	return TransactionDraft{
		Timestamp:        time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC),
		Amount:           dec("12.50"),
		Description:      "Groceries",
		CounterpartyIBAN: "NL01BANK0123456789",
		Type:             Withdrawal,
	}
}

func TestTransactionDraft_Valid(t *testing.T) {
	assert.NoError(t, validDraft().Validate())
}

func TestTransactionDraft_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*TransactionDraft)
		field string
	}{
		{"zero amount", func(d *TransactionDraft) { d.Amount = dec("0") }, "amount"},
		{"negative amount", func(d *TransactionDraft) { d.Amount = dec("-5") }, "amount"},
		{"sub unit amount", func(d *TransactionDraft) { d.Amount = dec("0.99") }, "amount"},
		{"missing date", func(d *TransactionDraft) { d.Timestamp = time.Time{} }, "date"},
		{"missing description", func(d *TransactionDraft) { d.Description = "" }, "description"},
		{"bad type", func(d *TransactionDraft) { d.Type = "transfer" }, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.edit(&draft)

			err := draft.Validate()
			assert.ErrorIs(t, err, ErrValidation)

			var validationErr *ValidationError
			assert.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestTransactionDraft_BuildNormalisesToUTC(t *testing.T) {
	draft := validDraft()
	draft.Timestamp = time.Date(2025, 3, 4, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	tx := draft.Build(newID())

	assert.Equal(t, time.UTC, tx.Timestamp.Location())
	assert.True(t, tx.Timestamp.Equal(draft.Timestamp))
	assert.False(t, tx.Internal)
}

// -- SavingGoalDraft --

func TestSavingGoalDraft_Validate(t *testing.T) {
	valid := SavingGoalDraft{Name: "Bike", Goal: dec("500"), SavePerMonth: dec("50"), MinBalanceRequired: dec("0")}
	assert.NoError(t, valid.Validate())

	noGoal := valid
	noGoal.Goal = dec("0")
	assert.ErrorIs(t, noGoal.Validate(), ErrValidation)

	noSaving := valid
	noSaving.SavePerMonth = dec("-1")
	assert.ErrorIs(t, noSaving.Validate(), ErrValidation)

	negativeMin := valid
	negativeMin.MinBalanceRequired = dec("-0.01")
	assert.ErrorIs(t, negativeMin.Validate(), ErrValidation)

	goal := valid.Build(newID())
	assert.True(t, goal.Balance.IsZero())
	assert.True(t, goal.Remaining().Equal(dec("500")))
}

// -- PaymentRequestDraft --

func TestPaymentRequestDraft_Validate(t *testing.T) {
	valid := PaymentRequestDraft{Description: "Rent", DueDate: at(2025, 5, 1), Amount: dec("50"), NumberOfRequests: 3}
	assert.NoError(t, valid.Validate())

	noRequests := valid
	noRequests.NumberOfRequests = 0
	assert.ErrorIs(t, noRequests.Validate(), ErrValidation)

	noAmount := valid
	noAmount.Amount = dec("0")
	assert.ErrorIs(t, noAmount.Validate(), ErrValidation)
}

// -- MessageRuleDraft --

func TestMessageRuleDraft_Validate(t *testing.T) {
	valid := MessageRuleDraft{CategoryID: newID(), Type: Warning, Value: dec("0")}
	assert.NoError(t, valid.Validate())

	badType := valid
	badType.Type = "alert"
	assert.ErrorIs(t, badType.Validate(), ErrValidation)

	negative := valid
	negative.Value = dec("-1")
	assert.ErrorIs(t, negative.Validate(), ErrValidation)
}

// -- Errors --

func TestStoreError_KeepsDomainErrors(t *testing.T) {
	notFound := NotFoundError("category", newID())
	assert.Equal(t, notFound, StoreError("lookup", notFound))
	assert.Nil(t, StoreError("lookup", nil))

	wrapped := StoreError("insert", errors.New("connection reset"))
	assert.ErrorIs(t, wrapped, ErrStore)
	assert.Contains(t, wrapped.Error(), "connection reset")
}
