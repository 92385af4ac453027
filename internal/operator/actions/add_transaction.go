package actions

import (
	"context"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// AddTransaction admits one transaction and runs every derivation on it:
// rule matching, saving goal allocation, payment request matching,
// notifications and message rules. Everything but the messages is all or
// nothing: a failing notification or message rule stage is logged and yields
// no messages.
type AddTransaction struct {
	Draft  ledger.TransactionDraft
	Now    time.Time
	Logger logrus.FieldLogger

	Transaction *ledger.Transaction
	Allocations []ledger.Transaction
	Request     *ledger.PaymentRequest
	Messages    []ledger.Message
	IAction
}

func (a *AddTransaction) Perform(ctx context.Context, writer storage.Writer) error {
	id, err := newID()
	if err != nil {
		return err
	}
	tx := a.Draft.Build(id)
	logger := loggerOrStandard(a.Logger).WithField("transactionID", tx.ID)

	categories, err := writer.ListCategories(ctx)
	if err != nil {
		return err
	}
	if err := a.assignCategory(ctx, writer, &tx, categories); err != nil {
		return err
	}

	if err := writer.InsertTransaction(ctx, &tx); err != nil {
		return err
	}

	balance, err := writer.Balance(ctx)
	if err != nil {
		return err
	}

	allocation, err := a.allocate(ctx, writer, tx, balance)
	if err != nil {
		return err
	}
	messages := allocation.Messages

	requestMessages, err := a.matchRequest(ctx, writer, tx)
	if err != nil {
		return err
	}
	messages = append(messages, requestMessages...)

	messages = append(messages, advisory(ctx, writer, logger, "notifications", func() ([]ledger.Message, error) {
		return a.notifications(ctx, writer, tx, allocation.Balance)
	})...)
	messages = append(messages, advisory(ctx, writer, logger, "message_rules", func() ([]ledger.Message, error) {
		return a.messageRules(ctx, writer, tx, categories)
	})...)

	a.Messages = writeMessages(ctx, writer, logger, messages)
	a.Transaction = &tx

	logger.WithFields(logrus.Fields{
		"allocations": len(a.Allocations),
		"messages":    len(a.Messages),
	}).Debug("Actions.AddTransaction.Complete")
	return nil
}

func (a *AddTransaction) assignCategory(ctx context.Context, writer storage.Writer, tx *ledger.Transaction, categories []ledger.Category) error {
	if tx.CategoryID.Valid {
		return requireCategory(ctx, writer, tx.CategoryID)
	}

	rules, err := writer.ListCategoryRules(ctx)
	if err != nil {
		return err
	}
	if categoryID, ok := ledger.MatchCategory(*tx, rules, ledger.CategorySet(categories)); ok {
		tx.CategoryID = uuid.NullUUID{UUID: categoryID, Valid: true}
	}
	return nil
}

func (a *AddTransaction) allocate(ctx context.Context, writer storage.Writer, tx ledger.Transaction, balance decimal.Decimal) (ledger.AllocationResult, error) {
	previous, err := writer.LatestTransactionBefore(ctx, tx.Timestamp, tx.ID)
	if err != nil {
		return ledger.AllocationResult{}, err
	}
	goals, err := writer.ListSavingGoals(ctx)
	if err != nil {
		return ledger.AllocationResult{}, err
	}

	allocated := make(map[ledger.AllocationKey]bool)
	for _, goal := range goals {
		existing, err := writer.ListGoalAllocations(ctx, goal.ID)
		if err != nil {
			return ledger.AllocationResult{}, err
		}
		for key := range ledger.AllocatedMonths(existing) {
			allocated[key] = true
		}
	}

	result := ledger.Allocate(ledger.AllocationInput{
		Trigger:   tx,
		Previous:  previous,
		Balance:   balance,
		Goals:     goals,
		Allocated: allocated,
	})

	names := make(map[uuid.UUID]string, len(goals))
	for _, goal := range goals {
		names[goal.ID] = goal.Name
	}
	for _, allocation := range result.Allocations {
		id, err := newID()
		if err != nil {
			return ledger.AllocationResult{}, err
		}
		entry := ledger.AllocationTransaction(id, allocation, names[allocation.GoalID])
		if err := writer.InsertTransaction(ctx, &entry); err != nil {
			return ledger.AllocationResult{}, err
		}
		a.Allocations = append(a.Allocations, entry)
	}

	for _, goal := range result.Goals {
		if !slices.Contains(result.Changed, goal.ID) {
			continue
		}
		if err := writer.UpdateSavingGoalBalance(ctx, &goal); err != nil {
			return ledger.AllocationResult{}, err
		}
	}
	return result, nil
}

func (a *AddTransaction) matchRequest(ctx context.Context, writer storage.Writer, tx ledger.Transaction) ([]ledger.Message, error) {
	if tx.Type != ledger.Deposit {
		return nil, nil
	}
	requests, err := writer.ListPaymentRequests(ctx)
	if err != nil {
		return nil, err
	}
	request, ok := ledger.MatchPaymentRequest(tx, requests)
	if !ok {
		return nil, nil
	}

	settled := request.Settle(tx.ID)
	if err := writer.LinkPaymentRequestTransaction(ctx, request.ID, tx.ID, settled.Filled); err != nil {
		return nil, err
	}
	a.Request = &settled

	if settled.Filled {
		return []ledger.Message{ledger.RequestFilledMessage(settled, tx)}, nil
	}
	return nil, nil
}

func (a *AddTransaction) notifications(ctx context.Context, writer storage.Writer, tx ledger.Transaction, balance decimal.Decimal) ([]ledger.Message, error) {
	all, err := writer.AllTransactions(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := writer.ListPaymentRequests(ctx)
	if err != nil {
		return nil, err
	}
	unread, err := writer.ListMessages(ctx, true)
	if err != nil {
		return nil, err
	}

	return ledger.Notifications(ledger.NotificationInput{
		Trigger:      tx,
		Balance:      balance,
		Transactions: all,
		Requests:     requests,
		UnreadHigh: slices.ContainsFunc(unread, func(m ledger.Message) bool {
			return m.Kind == ledger.KindNewHigh
		}),
		Now: a.Now,
	}), nil
}

func (a *AddTransaction) messageRules(ctx context.Context, writer storage.Writer, tx ledger.Transaction, categories []ledger.Category) ([]ledger.Message, error) {
	if tx.Type != ledger.Withdrawal || !tx.CategoryID.Valid {
		return nil, nil
	}
	rules, err := writer.ListMessageRules(ctx)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, nil
	}
	all, err := writer.AllTransactions(ctx)
	if err != nil {
		return nil, err
	}

	var categoryName string
	if i := slices.IndexFunc(categories, func(c ledger.Category) bool { return c.ID == tx.CategoryID.UUID }); i >= 0 {
		categoryName = categories[i].Name
	}
	return ledger.MessageRuleMessages(tx, categoryName, rules, ledger.MonthlySpending(tx, all)), nil
}

// advisory runs a message producing stage in isolation. A failure is logged
// and the stage contributes nothing.
func advisory(ctx context.Context, writer storage.Writer, logger logrus.FieldLogger, stage string, derive func() ([]ledger.Message, error)) []ledger.Message {
	var messages []ledger.Message
	err := writer.Isolated(ctx, stage, func() error {
		var err error
		messages, err = derive()
		return err
	})
	if err != nil {
		logger.WithError(err).WithField("stage", stage).Warn("Actions.Advisory.Error")
		return nil
	}
	return messages
}
