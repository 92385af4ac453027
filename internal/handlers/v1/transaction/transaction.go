package transaction

import (
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/common"
	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID               string `json:"id" doc:"Transaction UUID"`
	Date             string `json:"date" doc:"RFC3339 transaction time"`
	Amount           string `json:"amount" doc:"Decimal amount, always positive"`
	Description      string `json:"description" doc:"Free text description"`
	CounterpartyIBAN string `json:"counterpartyIBAN,omitempty" doc:"IBAN of the other party"`
	Type             string `json:"type" enum:"deposit,withdrawal" doc:"Direction of the money movement"`
	CategoryID       string `json:"categoryID,omitempty" doc:"Category UUID, absent when uncategorised"`
}

func toTransaction(tx ledger.Transaction) Transaction {
	return Transaction{
		ID:               tx.ID.String(),
		Date:             common.FormatTime(tx.Timestamp),
		Amount:           tx.Amount.String(),
		Description:      tx.Description,
		CounterpartyIBAN: tx.CounterpartyIBAN,
		Type:             string(tx.Type),
		CategoryID:       common.FormatOptionalID(tx.CategoryID),
	}
}

// TransactionBody is the request body shared by create and update.
type TransactionBody struct {
	Date             string `json:"date" required:"true" format:"date-time" doc:"RFC3339 transaction time"`
	Amount           string `json:"amount" required:"true" doc:"Decimal amount, at least 1"`
	Description      string `json:"description" required:"true" doc:"Free text description"`
	CounterpartyIBAN string `json:"counterpartyIBAN,omitempty" doc:"IBAN of the other party"`
	Type             string `json:"type" required:"true" enum:"deposit,withdrawal" doc:"Direction of the money movement"`
	CategoryID       string `json:"categoryID,omitempty" doc:"Explicit category UUID; skips rule matching"`
}

// parseTransactionBody converts the body into a draft. Domain validation is
// left to the engine.
func parseTransactionBody(body TransactionBody) (ledger.TransactionDraft, error) {
	date, err := common.ParseTime("date", body.Date)
	if err != nil {
		return ledger.TransactionDraft{}, err
	}
	amount, err := common.ParseAmount("amount", body.Amount)
	if err != nil {
		return ledger.TransactionDraft{}, err
	}
	categoryID, err := common.ParseOptionalID("categoryID", body.CategoryID)
	if err != nil {
		return ledger.TransactionDraft{}, err
	}

	return ledger.TransactionDraft{
		Timestamp:        date,
		Amount:           amount,
		Description:      body.Description,
		CounterpartyIBAN: body.CounterpartyIBAN,
		Type:             ledger.TransactionType(body.Type),
		CategoryID:       categoryID,
	}, nil
}
