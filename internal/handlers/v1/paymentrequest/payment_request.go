package paymentrequest

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/common"
	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// PaymentRequest is the API response model for a payment request.
type PaymentRequest struct {
	ID                    string   `json:"id" doc:"Payment request UUID"`
	Description           string   `json:"description"`
	DueDate               string   `json:"dueDate" doc:"RFC3339 deadline, inclusive"`
	Amount                string   `json:"amount" doc:"Exact amount of each installment"`
	NumberOfRequests      int      `json:"numberOfRequests" doc:"Installments needed to fill the request"`
	Filled                bool     `json:"filled"`
	SettledTransactionIDs []string `json:"settledTransactionIDs" doc:"Deposits matched so far, oldest first"`
}

func toPaymentRequest(p ledger.PaymentRequest) PaymentRequest {
	settled := make([]string, len(p.SettledTransactionIDs))
	for i, id := range p.SettledTransactionIDs {
		settled[i] = id.String()
	}
	return PaymentRequest{
		ID:                    p.ID.String(),
		Description:           p.Description,
		DueDate:               common.FormatTime(p.DueDate),
		Amount:                p.Amount.String(),
		NumberOfRequests:      p.NumberOfRequests,
		Filled:                p.Filled,
		SettledTransactionIDs: settled,
	}
}

type CreatePaymentRequestInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	Body    struct {
		Description      string `json:"description" required:"true"`
		DueDate          string `json:"dueDate" required:"true" format:"date-time"`
		Amount           string `json:"amount" required:"true" doc:"Positive decimal installment amount"`
		NumberOfRequests int    `json:"numberOfRequests" required:"true" minimum:"1"`
	}
}

type PaymentRequestIDInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	ID      string `path:"id" doc:"Payment request UUID"`
}

type ListPaymentRequestsInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
}

type PaymentRequestOutput struct {
	Body PaymentRequest
}

type ListPaymentRequestsOutput struct {
	Body struct {
		Requests []PaymentRequest `json:"requests" doc:"Requests in creation order"`
	}
}

type paymentRequestService interface {
	AddPaymentRequest(ctx context.Context, session string, draft ledger.PaymentRequestDraft) (*ledger.PaymentRequest, error)
	GetPaymentRequest(ctx context.Context, session string, id uuid.UUID) (*ledger.PaymentRequest, error)
	ListPaymentRequests(ctx context.Context, session string) ([]ledger.PaymentRequest, error)
}

// Handler serves the payment request endpoints under /v1/payment-request.
type Handler struct {
	RequestService paymentRequestService
}

func NewHandler(svc paymentRequestService) *Handler {
	return &Handler{RequestService: svc}
}

func (h *Handler) Register(api huma.API) {
	tags := []string{"Payment requests"}

	huma.Register(api, huma.Operation{
		OperationID:   "create-payment-request",
		Method:        http.MethodPost,
		Path:          "/v1/payment-request",
		Summary:       "Create a payment request",
		Description:   "Incoming deposits of exactly the requested amount on or before the due date settle the request.",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "list-payment-requests",
		Method:      http.MethodGet,
		Path:        "/v1/payment-request",
		Summary:     "List payment requests",
		Tags:        tags,
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "get-payment-request",
		Method:      http.MethodGet,
		Path:        "/v1/payment-request/{id}",
		Summary:     "Get a payment request",
		Tags:        tags,
	}, h.get)
}

func (h *Handler) create(ctx context.Context, input *CreatePaymentRequestInput) (*PaymentRequestOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	dueDate, err := common.ParseTime("dueDate", input.Body.DueDate)
	if err != nil {
		return nil, err
	}
	amount, err := common.ParseAmount("amount", input.Body.Amount)
	if err != nil {
		return nil, err
	}

	request, err := h.RequestService.AddPaymentRequest(ctx, session, ledger.PaymentRequestDraft{
		Description:      input.Body.Description,
		DueDate:          dueDate,
		Amount:           amount,
		NumberOfRequests: input.Body.NumberOfRequests,
	})
	if err != nil {
		return nil, common.Error("failed to create payment request", err)
	}
	return &PaymentRequestOutput{Body: toPaymentRequest(*request)}, nil
}

func (h *Handler) list(ctx context.Context, input *ListPaymentRequestsInput) (*ListPaymentRequestsOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}

	requests, err := h.RequestService.ListPaymentRequests(ctx, session)
	if err != nil {
		return nil, common.Error("failed to list payment requests", err)
	}

	resp := &ListPaymentRequestsOutput{}
	resp.Body.Requests = make([]PaymentRequest, len(requests))
	for i, r := range requests {
		resp.Body.Requests[i] = toPaymentRequest(r)
	}
	return resp, nil
}

func (h *Handler) get(ctx context.Context, input *PaymentRequestIDInput) (*PaymentRequestOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	request, err := h.RequestService.GetPaymentRequest(ctx, session, id)
	if err != nil {
		return nil, common.Error("failed to get payment request", err)
	}
	return &PaymentRequestOutput{Body: toPaymentRequest(*request)}, nil
}
