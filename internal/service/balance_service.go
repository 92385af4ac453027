package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

type BalanceService struct {
	*deps
}

func (s *BalanceService) GetBalance(ctx context.Context, session string) (decimal.Decimal, error) {
	reader, err := s.read(session)
	if err != nil {
		return decimal.Zero, err
	}
	return reader.Balance(ctx)
}

// GetBalanceHistory returns count candlesticks of unit, oldest first, ending
// with the interval that contains now. A zero count means DefaultIntervals.
func (s *BalanceService) GetBalanceHistory(ctx context.Context, session string, unit ledger.Unit, count int) ([]ledger.Candlestick, error) {
	if count == 0 {
		count = ledger.DefaultIntervals
	}
	if _, err := ledger.ParseUnit(string(unit)); err != nil {
		return nil, err
	}

	reader, err := s.read(session)
	if err != nil {
		return nil, err
	}
	txs, err := reader.AllTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.BalanceHistory(txs, unit, count, s.now())
}
