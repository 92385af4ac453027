package ledger

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func deposit(amount string, ts time.Time) Transaction {
	return Transaction{ID: newID(), Timestamp: ts, Amount: dec(amount), Type: Deposit, Description: "deposit"}
}

func withdrawal(amount string, ts time.Time) Transaction {
	return Transaction{ID: newID(), Timestamp: ts, Amount: dec(amount), Type: Withdrawal, Description: "withdrawal"}
}

func category(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}
