package models

// Contribution records one participant's pledged or paid amount in a single
// fund-raising round.
type Contribution struct {
	// ID is the unique identifier for the contribution (UUID format).
	ID string

	// Participant is the name of the participant who owes this amount.
	Participant string

	// Amount is the per-person amount of the round, in minor units.
	Amount int64

	// Paid reports whether the money has actually been handed over. Unpaid
	// contributions are pledges and count toward no balance.
	Paid bool
}

// ContributionRound is one discrete fund-raising event after the initial one.
// Every contained Contribution carries the same per-person Amount; editing the
// round amount rewrites all of them.
type ContributionRound struct {
	// ID is the unique identifier for the round (UUID format).
	ID string

	// Amount is the per-person amount for this round, in minor units.
	Amount int64

	// Date is the YYYY-MM-DD date the round was opened.
	Date string

	// Description says what the round is for (e.g. "Hotel deposit").
	Description string

	// Contributions has exactly one entry per participant included in the
	// round. A round may cover a strict subset of the trip's participants.
	Contributions []Contribution
}
