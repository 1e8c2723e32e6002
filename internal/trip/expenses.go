package trip

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/minhng/tripfund/internal/models"
)

// validateExpenseFields checks the invariants shared by add and edit.
func validateExpenseFields(t *models.Trip, description string, amount int64, paidBy string, participants []string, paidFromFund bool) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: expense description is required", ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: expense amount must be positive", ErrValidation)
	}
	if len(participants) == 0 {
		return fmt.Errorf("%w: expense needs at least one beneficiary", ErrValidation)
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if !hasParticipant(t, p) {
			return fmt.Errorf("%w: unknown beneficiary %q", ErrValidation, p)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate beneficiary %q", ErrValidation, p)
		}
		seen[p] = true
	}
	if !paidFromFund && !hasParticipant(t, paidBy) {
		return fmt.Errorf("%w: unknown payer %q", ErrValidation, paidBy)
	}
	return nil
}

// AddExpense records a new spending event. When paidFromFund is set the
// stored payer is the fund sentinel, overriding any supplied payer.
func AddExpense(t *models.Trip, e models.Expense) (*models.Expense, error) {
	if err := validateExpenseFields(t, e.Description, e.Amount, e.PaidBy, e.Participants, e.PaidFromFund); err != nil {
		return nil, err
	}
	if e.PaidFromFund {
		e.PaidBy = models.FundPayer
	}
	e.ID = uuid.New().String()
	t.Expenses = append(t.Expenses, e)
	return &t.Expenses[len(t.Expenses)-1], nil
}

// ExpenseUpdate carries the fields of a partial expense edit. Nil fields are
// left unchanged.
type ExpenseUpdate struct {
	Description  *string
	Amount       *int64
	PaidBy       *string
	Category     *string
	Date         *string
	Participants []string // nil = unchanged
	PaidFromFund *bool
}

// EditExpense applies a partial update to an expense, re-running the same
// validation as AddExpense on the merged result.
func EditExpense(t *models.Trip, id string, upd ExpenseUpdate) error {
	idx := -1
	for i := range t.Expenses {
		if t.Expenses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: expense %s", ErrNotFound, id)
	}

	merged := t.Expenses[idx]
	if upd.Description != nil {
		merged.Description = *upd.Description
	}
	if upd.Amount != nil {
		merged.Amount = *upd.Amount
	}
	if upd.PaidBy != nil {
		merged.PaidBy = *upd.PaidBy
	}
	if upd.Category != nil {
		merged.Category = *upd.Category
	}
	if upd.Date != nil {
		merged.Date = *upd.Date
	}
	if upd.Participants != nil {
		merged.Participants = upd.Participants
	}
	if upd.PaidFromFund != nil {
		merged.PaidFromFund = *upd.PaidFromFund
	}

	if err := validateExpenseFields(t, merged.Description, merged.Amount, merged.PaidBy, merged.Participants, merged.PaidFromFund); err != nil {
		return err
	}
	if merged.PaidFromFund {
		merged.PaidBy = models.FundPayer
	}
	t.Expenses[idx] = merged
	return nil
}

// RemoveExpense deletes an expense outright. No cascading: the payer lock in
// RemoveParticipant inspects live expenses, so deleting someone's last
// personally-paid expense unlocks them for removal.
func RemoveExpense(t *models.Trip, id string) error {
	for i := range t.Expenses {
		if t.Expenses[i].ID == id {
			t.Expenses = append(t.Expenses[:i], t.Expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: expense %s", ErrNotFound, id)
}
