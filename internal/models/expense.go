package models

// FundPayer is the sentinel stored in Expense.PaidBy when the expense was
// paid directly from the shared fund rather than by a participant.
const FundPayer = "Fund"

// Expense represents one itemized spending event and who shares its cost.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description says what the money was spent on.
	Description string

	// Amount is the full expense amount in minor units.
	Amount int64

	// PaidBy is the name of the paying participant, or FundPayer when
	// PaidFromFund is true. Only meaningful for personal payments.
	PaidBy string

	// Category is a free-form label ("Food", "Transport", ...).
	Category string

	// Date is the YYYY-MM-DD date of the expense.
	Date string

	// Participants lists who shares this cost. Never empty; the amount is
	// divided equally across them at read time.
	Participants []string

	// PaidFromFund marks expenses paid out of the shared fund.
	PaidFromFund bool
}
