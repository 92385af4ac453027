package status

import (
	"errors"
	"net/http"

	"github.com/carson-networks/budget-ledger/internal/logging"
)

type readiness interface {
	Ready() error
}

// Handler answers liveness probes. It reports 503 once the operator
// delegator has stopped accepting work.
type Handler struct {
	Operator readiness
}

func NewHandler(op readiness) Handler {
	return Handler{Operator: op}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	if err := h.Operator.Ready(); err != nil {
		logData.AddData("ready", false)
		w.WriteHeader(http.StatusServiceUnavailable)
		return err
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
