package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/common"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/service"
)

// ListTransactionsCursor represents a pagination cursor in request and response bodies.
// It bundles position, limit, and the category filter so subsequent pages use consistent parameters.
type ListTransactionsCursor struct {
	Position   int    `json:"position" minimum:"0" doc:"Numeric offset position for the next page"`
	Limit      int    `json:"limit" minimum:"1" maximum:"100" doc:"Page size used for this cursor"`
	CategoryID string `json:"categoryID,omitempty" doc:"Only list transactions in this category"`
}

// ListTransactionsBody is the request body for listing transactions.
type ListTransactionsBody struct {
	Cursor *ListTransactionsCursor `json:"cursor,omitempty" doc:"Cursor from a previous response, or a first page filter"`
}

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	Body    ListTransactionsBody
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction           `json:"transactions" doc:"Page of transactions, newest first"`
	NextCursor   *ListTransactionsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, session string, cursor *service.TransactionCursor) ([]ledger.Transaction, *service.TransactionCursor, error)
}

// ListTransactionsHandler handles POST /v1/transaction/list.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/list",
		Summary:     "List transactions",
		Description: "Returns a paginated list of transactions, newest first, using cursor-based pagination.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput parses and validates the API input.
// Without a cursor, the service uses its default limit.
func parseListTransactionsInput(input *ListTransactionsInput) (*service.TransactionCursor, error) {
	if input.Body.Cursor == nil {
		return nil, nil
	}

	if input.Body.Cursor.Position < 0 {
		return nil, huma.NewError(http.StatusBadRequest, "cursor position must be non-negative")
	}

	cursor := &service.TransactionCursor{
		Position: input.Body.Cursor.Position,
		Limit:    input.Body.Cursor.Limit,
	}
	if input.Body.Cursor.CategoryID != "" {
		categoryID, err := common.ParseID("cursor categoryID", input.Body.Cursor.CategoryID)
		if err != nil {
			return nil, err
		}
		cursor.CategoryID = &categoryID
	}
	return cursor, nil
}

func toListCursor(cursor *service.TransactionCursor) *ListTransactionsCursor {
	if cursor == nil {
		return nil
	}
	out := &ListTransactionsCursor{
		Position: cursor.Position,
		Limit:    cursor.Limit,
	}
	if cursor.CategoryID != nil {
		out.CategoryID = cursor.CategoryID.String()
	}
	return out
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	requestCursor, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("listTransactionsMs")
	transactions, nextCursor, err := h.TransactionService.ListTransactions(ctx, session, requestCursor)
	stopTimer()
	if err != nil {
		return nil, common.Error("failed to list transactions", err)
	}
	logData.AddData("transactionCount", len(transactions))

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(transactions)),
		NextCursor:   toListCursor(nextCursor),
	}
	for i, tx := range transactions {
		resp.Transactions[i] = toTransaction(tx)
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
