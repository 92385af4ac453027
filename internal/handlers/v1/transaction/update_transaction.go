package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/common"
	"github.com/carson-networks/budget-ledger/internal/ledger"
)

type UpdateTransactionInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	ID      string `path:"id" doc:"Transaction UUID"`
	Body    TransactionBody
}

type AssignCategoryInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	ID      string `path:"id" doc:"Transaction UUID"`
	Body    struct {
		CategoryID string `json:"categoryID,omitempty" doc:"Category UUID; empty clears the category"`
	}
}

type TransactionOutput struct {
	Body Transaction
}

type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, session string, id uuid.UUID, draft ledger.TransactionDraft) (*ledger.Transaction, error)
	AssignCategory(ctx context.Context, session string, id uuid.UUID, categoryID uuid.NullUUID) (*ledger.Transaction, error)
}

// UpdateTransactionHandler serves the two mutations of an existing
// transaction. Neither reruns the derivation pipeline.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/v1/transaction/{id}",
		Summary:     "Update a transaction",
		Description: "Replaces the client supplied fields of a transaction.",
		Tags:        []string{"Transactions"},
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID: "assign-transaction-category",
		Method:      http.MethodPut,
		Path:        "/v1/transaction/{id}/category",
		Summary:     "Assign a category",
		Description: "Sets or clears the category of a transaction.",
		Tags:        []string{"Transactions"},
	}, h.assign)
}

func (h *UpdateTransactionHandler) update(ctx context.Context, input *UpdateTransactionInput) (*TransactionOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	draft, err := parseTransactionBody(input.Body)
	if err != nil {
		return nil, err
	}

	tx, err := h.TransactionService.UpdateTransaction(ctx, session, id, draft)
	if err != nil {
		return nil, common.Error("failed to update transaction", err)
	}
	return &TransactionOutput{Body: toTransaction(*tx)}, nil
}

func (h *UpdateTransactionHandler) assign(ctx context.Context, input *AssignCategoryInput) (*TransactionOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	categoryID, err := common.ParseOptionalID("categoryID", input.Body.CategoryID)
	if err != nil {
		return nil, err
	}

	tx, err := h.TransactionService.AssignCategory(ctx, session, id, categoryID)
	if err != nil {
		return nil, common.Error("failed to assign category", err)
	}
	return &TransactionOutput{Body: toTransaction(*tx)}, nil
}
