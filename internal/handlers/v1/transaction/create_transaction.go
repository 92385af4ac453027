package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/common"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
)

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	Body    TransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
// The transaction comes back with the category the engine assigned.
type CreateTransactionOutput struct {
	Body struct {
		Transaction Transaction `json:"transaction" doc:"The stored transaction"`
	}
}

type transactionCreator interface {
	AddTransaction(ctx context.Context, session string, draft ledger.TransactionDraft) (*ledger.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create a transaction",
		Description:   "Records a transaction and runs categorisation, saving goal allocation, payment request matching and notifications.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	draft, err := parseTransactionBody(input.Body)
	if err != nil {
		return nil, err
	}

	tx, err := common.Timed(logging.GetLogData(ctx), "addTransactionMs", func() (*ledger.Transaction, error) {
		return h.TransactionService.AddTransaction(ctx, session, draft)
	})
	if err != nil {
		return nil, common.Error("failed to create transaction", err)
	}

	resp := &CreateTransactionOutput{}
	resp.Body.Transaction = toTransaction(*tx)
	return resp, nil
}
