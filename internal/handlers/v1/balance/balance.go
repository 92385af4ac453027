package balance

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/common"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
)

type BalanceInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
}

type BalanceOutput struct {
	Body struct {
		Balance string `json:"balance" doc:"Current balance including saving goal allocations"`
	}
}

type HistoryInput struct {
	Session  string `header:"X-session-ID" doc:"Session token"`
	Interval string `query:"interval" default:"month" enum:"hour,day,week,month,year" doc:"Width of one candlestick"`
	Count    int    `query:"count" doc:"Number of candlesticks, 1 to 200; omitted means 24"`
}

// Candlestick is the API response model for one history interval.
type Candlestick struct {
	Open               string `json:"open"`
	Close              string `json:"close"`
	High               string `json:"high"`
	Low                string `json:"low"`
	Volume             string `json:"volume" doc:"Sum of absolute amounts moved in the interval"`
	IntervalStart      string `json:"intervalStart" doc:"RFC3339 start of the interval"`
	IntervalStartEpoch int64  `json:"intervalStartEpoch" doc:"Start of the interval in Unix seconds"`
}

type HistoryOutput struct {
	Body struct {
		Candlesticks []Candlestick `json:"candlesticks" doc:"Oldest first; the last one contains now"`
	}
}

type balanceService interface {
	GetBalance(ctx context.Context, session string) (decimal.Decimal, error)
	GetBalanceHistory(ctx context.Context, session string, unit ledger.Unit, count int) ([]ledger.Candlestick, error)
}

// Handler serves the balance endpoints under /v1/balance.
type Handler struct {
	BalanceService balanceService
}

func NewHandler(svc balanceService) *Handler {
	return &Handler{BalanceService: svc}
}

func (h *Handler) Register(api huma.API) {
	tags := []string{"Balance"}

	huma.Register(api, huma.Operation{
		OperationID: "get-balance",
		Method:      http.MethodGet,
		Path:        "/v1/balance",
		Summary:     "Get the current balance",
		Tags:        tags,
	}, h.balance)

	huma.Register(api, huma.Operation{
		OperationID: "get-balance-history",
		Method:      http.MethodGet,
		Path:        "/v1/balance/history",
		Summary:     "Get balance history",
		Description: "Returns open, close, high, low and volume per interval.",
		Tags:        tags,
	}, h.history)
}

func (h *Handler) balance(ctx context.Context, input *BalanceInput) (*BalanceOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}

	balance, err := h.BalanceService.GetBalance(ctx, session)
	if err != nil {
		return nil, common.Error("failed to get balance", err)
	}

	resp := &BalanceOutput{}
	resp.Body.Balance = balance.String()
	return resp, nil
}

func (h *Handler) history(ctx context.Context, input *HistoryInput) (*HistoryOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}

	candles, err := common.Timed(logging.GetLogData(ctx), "balanceHistoryMs", func() ([]ledger.Candlestick, error) {
		return h.BalanceService.GetBalanceHistory(ctx, session, ledger.Unit(input.Interval), input.Count)
	})
	if err != nil {
		return nil, common.Error("failed to get balance history", err)
	}

	resp := &HistoryOutput{}
	resp.Body.Candlesticks = make([]Candlestick, len(candles))
	for i, c := range candles {
		resp.Body.Candlesticks[i] = Candlestick{
			Open:               c.Open.String(),
			Close:              c.Close.String(),
			High:               c.High.String(),
			Low:                c.Low.String(),
			Volume:             c.Volume.String(),
			IntervalStart:      common.FormatTime(c.IntervalStart),
			IntervalStartEpoch: c.IntervalStart.Unix(),
		}
	}
	return resp, nil
}
