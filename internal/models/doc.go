// Package models defines the core domain models for Tripfund.
//
// # Models
//
//   - Trip: the aggregate — participants, both contribution ledgers, expenses,
//     and itinerary/packing metadata
//   - Contribution / ContributionRound: the fund-raising ledger
//   - Expense: the spending ledger
//   - TimelineEvent / PackingItem: itinerary metadata (no financial meaning)
//   - User: a planner account
//
// Participants are identified by display name (strings). Names act as the
// foreign key for every other record in a trip, so renaming a participant must
// cascade through all of them; that logic lives in the trip package, never
// here. Models are pure data: no methods that mutate across entities.
//
// # Money
//
// All amounts are int64 minor currency units. Arithmetic on amounts is
// integer-only — see the money package.
package models
