package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// Publisher fans committed ledger messages out to other systems.
type Publisher interface {
	Publish(ctx context.Context, session string, messages []ledger.Message) error
	Close() error
}

// MessageEvent is the JSON body published for every generated message.
type MessageEvent struct {
	Session   string    `json:"session"`
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Kind      string    `json:"kind"`
}

func NewMessageEvent(session string, message ledger.Message) MessageEvent {
	return MessageEvent{
		Session:   session,
		ID:        message.ID.String(),
		Text:      message.Text,
		Timestamp: message.Timestamp,
		Type:      string(message.Type),
		Kind:      string(message.Kind),
	}
}

func (e MessageEvent) ToJSON() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal message event: %w", err)
	}
	return body, nil
}

// NopPublisher drops every message.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []ledger.Message) error { return nil }
func (NopPublisher) Close() error                                            { return nil }

// NewPublisher connects to the configured broker, or returns a NopPublisher
// when no AMQP URL is set.
func NewPublisher(env *config.Config, logger logrus.FieldLogger) (Publisher, error) {
	if env.AMQPURL == "" {
		logger.Info("Notify.disabled")
		return NopPublisher{}, nil
	}

	client, err := NewAMQPPublisher(env.AMQPURL, env.AMQPExchange, env.AMQPQueue, logger)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"exchange": env.AMQPExchange,
		"queue":    env.AMQPQueue,
	}).Info("Notify.amqp")
	return client, nil
}
