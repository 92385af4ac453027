package message

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/common"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
)

// Message is the API response model for a generated message.
type Message struct {
	ID   string `json:"id" doc:"Message UUID"`
	Text string `json:"text"`
	Date string `json:"date" doc:"Time of the transaction that produced the message"`
	Read bool   `json:"read"`
	Type string `json:"type" enum:"info,warning"`
	Kind string `json:"kind" doc:"What produced the message"`
}

func toMessage(m ledger.Message) Message {
	return Message{
		ID:   m.ID.String(),
		Text: m.Text,
		Date: common.FormatTime(m.Timestamp),
		Read: m.Read,
		Type: string(m.Type),
		Kind: string(m.Kind),
	}
}

type ListMessagesInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	Unread  bool   `query:"unread" doc:"Only return unread messages"`
}

type MessageIDInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	ID      string `path:"id" doc:"Message UUID"`
}

type ListMessagesOutput struct {
	Body struct {
		Messages []Message `json:"messages" doc:"Messages in creation order"`
	}
}

type messageService interface {
	ListUnreadMessages(ctx context.Context, session string) ([]ledger.Message, error)
	ListMessages(ctx context.Context, session string, unreadOnly bool) ([]ledger.Message, error)
	MarkMessageRead(ctx context.Context, session string, id uuid.UUID) error
}

// Handler serves the message inbox under /v1/message.
type Handler struct {
	MessageService messageService
}

func NewHandler(svc messageService) *Handler {
	return &Handler{MessageService: svc}
}

func (h *Handler) Register(api huma.API) {
	tags := []string{"Messages"}

	huma.Register(api, huma.Operation{
		OperationID: "list-messages",
		Method:      http.MethodGet,
		Path:        "/v1/message",
		Summary:     "List messages",
		Tags:        tags,
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID:   "mark-message-read",
		Method:        http.MethodPost,
		Path:          "/v1/message/{id}/read",
		Summary:       "Mark a message read",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
	}, h.markRead)
}

func (h *Handler) list(ctx context.Context, input *ListMessagesInput) (*ListMessagesOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}

	var messages []ledger.Message
	if input.Unread {
		messages, err = h.MessageService.ListUnreadMessages(ctx, session)
	} else {
		messages, err = h.MessageService.ListMessages(ctx, session, false)
	}
	if err != nil {
		return nil, common.Error("failed to list messages", err)
	}
	logging.GetLogData(ctx).AddData("messageCount", len(messages))

	resp := &ListMessagesOutput{}
	resp.Body.Messages = make([]Message, len(messages))
	for i, m := range messages {
		resp.Body.Messages[i] = toMessage(m)
	}
	return resp, nil
}

func (h *Handler) markRead(ctx context.Context, input *MessageIDInput) (*struct{}, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	if err := h.MessageService.MarkMessageRead(ctx, session, id); err != nil {
		return nil, common.Error("failed to mark message read", err)
	}
	return nil, nil
}
