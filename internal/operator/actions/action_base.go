package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

type IAction interface {
	Perform(ctx context.Context, writer storage.Writer) error
}

func newID() (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate id: %w", err)
	}
	return id, nil
}

func loggerOrStandard(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}

// requireCategory returns ErrNotFound when id is set but not a category of the session.
func requireCategory(ctx context.Context, reader storage.Reader, id uuid.NullUUID) error {
	if !id.Valid {
		return nil
	}
	_, err := reader.GetCategory(ctx, id.UUID)
	return err
}

// writeMessages stores messages one by one. Messages are advisory, so a
// failed write is logged and skipped. It returns the messages that were stored.
func writeMessages(ctx context.Context, writer storage.Writer, logger logrus.FieldLogger, messages []ledger.Message) []ledger.Message {
	var written []ledger.Message
	for _, message := range messages {
		id, err := newID()
		if err != nil {
			logger.WithError(err).WithField("kind", message.Kind).Warn("Actions.WriteMessage.Error")
			continue
		}
		message.ID = id
		if err := writer.InsertMessage(ctx, &message); err != nil {
			logger.WithError(err).WithField("kind", message.Kind).Warn("Actions.WriteMessage.Error")
			continue
		}
		written = append(written, message)
	}
	return written
}
