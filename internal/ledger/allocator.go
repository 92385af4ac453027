package ledger

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// MonthIndex counts calendar months since year zero, in UTC.
func MonthIndex(t time.Time) int {
	t = t.UTC()
	return t.Year()*12 + int(t.Month()) - 1
}

// MonthStart is 00:00 UTC on the first day of the month with the given index.
func MonthStart(index int) time.Time {
	return time.Date(index/12, time.Month(index%12+1), 1, 0, 0, 0, 0, time.UTC)
}

// MonthCrossings is the number of month boundaries between prev and next.
func MonthCrossings(prev, next time.Time) int {
	crossings := MonthIndex(next) - MonthIndex(prev)
	if crossings < 0 {
		return 0
	}
	return crossings
}

// AllocationKey identifies one monthly allocation of one goal.
type AllocationKey struct {
	GoalID uuid.UUID
	Month  int
}

// AllocationInput is the state the allocator runs against. Balance is the
// account balance after the trigger was committed.
type AllocationInput struct {
	Trigger  Transaction
	Previous *Transaction
	Balance  decimal.Decimal
	Goals    []SavingGoal
	// Allocated holds the months each goal has already been paid for.
	Allocated map[AllocationKey]bool
}

type Allocation struct {
	GoalID uuid.UUID
	Month  time.Time
	Amount decimal.Decimal
}

// AllocationResult holds what Allocate decided. Goals contains every goal with
// its updated balance, in input order.
type AllocationResult struct {
	Allocations []Allocation
	Goals       []SavingGoal
	Changed     []uuid.UUID
	Messages    []Message
	Balance     decimal.Decimal
}

// Allocate pays monthly savings into goals for every month boundary crossed
// between the previous transaction and the trigger. Each goal is paid at most
// once per month. All goals of a month draw from the same shrinking balance,
// so an earlier goal can starve a later one.
func Allocate(in AllocationInput) AllocationResult {
	result := AllocationResult{
		Goals:   make([]SavingGoal, len(in.Goals)),
		Balance: in.Balance,
	}
	copy(result.Goals, in.Goals)

	if in.Previous == nil {
		return result
	}
	crossings := MonthCrossings(in.Previous.Timestamp, in.Trigger.Timestamp)
	if crossings == 0 {
		return result
	}

	changed := make(map[uuid.UUID]bool)
	first := MonthIndex(in.Previous.Timestamp) + 1
	for month := first; month < first+crossings; month++ {
		for i := range result.Goals {
			goal := &result.Goals[i]
			if in.Allocated[AllocationKey{GoalID: goal.ID, Month: month}] {
				continue
			}

			perMonth := decimal.Min(goal.SavePerMonth, goal.Remaining())
			if result.Balance.LessThan(goal.MinBalanceRequired) ||
				result.Balance.LessThan(perMonth) ||
				!goal.Balance.LessThan(goal.Goal) ||
				!perMonth.IsPositive() {
				continue
			}

			result.Balance = result.Balance.Sub(perMonth)
			goal.Balance = goal.Balance.Add(perMonth)
			result.Allocations = append(result.Allocations, Allocation{
				GoalID: goal.ID,
				Month:  MonthStart(month),
				Amount: perMonth,
			})
			if !changed[goal.ID] {
				changed[goal.ID] = true
				result.Changed = append(result.Changed, goal.ID)
			}

			if goal.Balance.Equal(goal.Goal) {
				result.Messages = append(result.Messages, Message{
					Text:      fmt.Sprintf("Saving goal %q has been filled", goal.Name),
					Timestamp: in.Trigger.Timestamp,
					Type:      Info,
					Kind:      KindGoalFilled,
				})
			}
		}
	}
	return result
}

// AllocationTransaction is the internal withdrawal that moves a into its goal.
func AllocationTransaction(id uuid.UUID, a Allocation, goalName string) Transaction {
	return Transaction{
		ID:           id,
		Timestamp:    a.Month,
		Amount:       a.Amount,
		Description:  fmt.Sprintf("Saving goal: %s", goalName),
		Type:         Withdrawal,
		Internal:     true,
		SavingGoalID: uuid.NullUUID{UUID: a.GoalID, Valid: true},
	}
}

// RefundTransaction returns the amount of an allocation to the account.
func RefundTransaction(id uuid.UUID, allocation Transaction, goalName string, now time.Time) Transaction {
	return Transaction{
		ID:          id,
		Timestamp:   now.UTC(),
		Amount:      allocation.Amount,
		Description: fmt.Sprintf("Saving goal refund: %s", goalName),
		Type:        Deposit,
		Internal:    true,
	}
}

// AllocatedMonths indexes the months already paid for by allocation transactions.
func AllocatedMonths(allocations []Transaction) map[AllocationKey]bool {
	months := make(map[AllocationKey]bool, len(allocations))
	for _, tx := range allocations {
		if !tx.Internal || !tx.SavingGoalID.Valid {
			continue
		}
		months[AllocationKey{GoalID: tx.SavingGoalID.UUID, Month: MonthIndex(tx.Timestamp)}] = true
	}
	return months
}
