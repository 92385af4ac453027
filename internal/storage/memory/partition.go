package memory

import (
	"slices"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// partition is the full state of one session. A committed partition is never
// modified; writers work on a clone and swap it in on commit.
type partition struct {
	transactions []ledger.Transaction
	categories   []ledger.Category
	rules        []ledger.CategoryRule
	goals        []ledger.SavingGoal
	requests     []ledger.PaymentRequest
	messages     []ledger.Message
	messageRules []ledger.MessageRule
	sequence     int64
}

func (p *partition) clone() *partition {
	requests := make([]ledger.PaymentRequest, len(p.requests))
	for i, r := range p.requests {
		r.SettledTransactionIDs = slices.Clone(r.SettledTransactionIDs)
		requests[i] = r
	}

	return &partition{
		transactions: slices.Clone(p.transactions),
		categories:   slices.Clone(p.categories),
		rules:        slices.Clone(p.rules),
		goals:        slices.Clone(p.goals),
		requests:     requests,
		messages:     slices.Clone(p.messages),
		messageRules: slices.Clone(p.messageRules),
		sequence:     p.sequence,
	}
}

func (p *partition) nextSequence() int64 {
	p.sequence++
	return p.sequence
}
