// Package trip is the mutation surface of the Trip aggregate. Every change to
// a trip's participants, ledgers, or itinerary goes through here so that the
// cross-entity invariants hold: all referenced names exist in Participants,
// expense beneficiary lists are never empty, and renames cascade everywhere.
//
// All operations are all-or-nothing: they validate first and only then touch
// the Trip, so a returned error always leaves the value unmodified.
package trip

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minhng/tripfund/internal/models"
)

// New builds a trip with its initial fund-raising round: one unpaid
// Contribution per participant at the given per-person amount.
// A zero contributionAmount is allowed (trip without a shared fund).
func New(name, destination, startDate, endDate, coverImageURL, managerID string, participants []string, contributionAmount int64) (*models.Trip, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: trip name is required", ErrValidation)
	}
	if strings.TrimSpace(destination) == "" {
		return nil, fmt.Errorf("%w: destination is required", ErrValidation)
	}
	if contributionAmount < 0 {
		return nil, fmt.Errorf("%w: contribution amount cannot be negative", ErrValidation)
	}

	t := &models.Trip{
		Name:          name,
		Destination:   destination,
		StartDate:     startDate,
		EndDate:       endDate,
		CoverImageURL: coverImageURL,
		ManagerID:     managerID,
	}
	for _, p := range participants {
		if err := AddParticipant(t, p); err != nil {
			return nil, err
		}
	}
	// AddParticipant copies the round-0 rate, which is zero while the trip
	// is being built; set the real rate on everyone afterwards.
	for i := range t.Contributions {
		t.Contributions[i].Amount = contributionAmount
	}
	return t, nil
}

// Duplicate deep-copies a trip into a new unsaved trip. The copy gets fresh
// ids, keeps all ledger data, and leaves ShortCode and CreatedAt for the
// caller to assign.
func Duplicate(t *models.Trip) *models.Trip {
	dup := &models.Trip{
		Name:          t.Name + " (copy)",
		Destination:   t.Destination,
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		CoverImageURL: t.CoverImageURL,
		ManagerID:     t.ManagerID,
		Participants:  append([]string(nil), t.Participants...),
	}
	for _, c := range t.Contributions {
		c.ID = uuid.New().String()
		dup.Contributions = append(dup.Contributions, c)
	}
	for _, r := range t.AdditionalContributions {
		round := models.ContributionRound{
			ID:          uuid.New().String(),
			Amount:      r.Amount,
			Date:        r.Date,
			Description: r.Description,
		}
		for _, c := range r.Contributions {
			c.ID = uuid.New().String()
			round.Contributions = append(round.Contributions, c)
		}
		dup.AdditionalContributions = append(dup.AdditionalContributions, round)
	}
	for _, e := range t.Expenses {
		e.ID = uuid.New().String()
		e.Participants = append([]string(nil), e.Participants...)
		dup.Expenses = append(dup.Expenses, e)
	}
	for _, ev := range t.Timeline {
		ev.ID = uuid.New().String()
		dup.Timeline = append(dup.Timeline, ev)
	}
	for _, item := range t.PackingList {
		item.ID = uuid.New().String()
		dup.PackingList = append(dup.PackingList, item)
	}
	return dup
}

// TotalCollected sums every paid contribution across the initial round and
// all top-up rounds. Recomputed on demand, never cached.
func TotalCollected(t *models.Trip) int64 {
	var total int64
	for _, c := range t.Contributions {
		if c.Paid {
			total += c.Amount
		}
	}
	for _, round := range t.AdditionalContributions {
		for _, c := range round.Contributions {
			if c.Paid {
				total += c.Amount
			}
		}
	}
	return total
}

// TotalSpent sums every expense regardless of how it was paid.
func TotalSpent(t *models.Trip) int64 {
	var total int64
	for _, e := range t.Expenses {
		total += e.Amount
	}
	return total
}

// TotalSpentFromFund sums expenses paid directly from the shared fund.
func TotalSpentFromFund(t *models.Trip) int64 {
	var total int64
	for _, e := range t.Expenses {
		if e.PaidFromFund {
			total += e.Amount
		}
	}
	return total
}

// DayCount returns the number of days the trip spans, inclusive. Falls back
// to 1 when the dates are missing or unparseable.
func DayCount(t *models.Trip) int {
	start, err := time.Parse("2006-01-02", t.StartDate)
	if err != nil {
		return 1
	}
	end, err := time.Parse("2006-01-02", t.EndDate)
	if err != nil {
		return 1
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}
