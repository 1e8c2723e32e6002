package trip

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/minhng/tripfund/internal/models"
)

// AddRound opens a new top-up fund-raising round with one unpaid contribution
// per name in participants. A round may cover a strict subset of the trip's
// participants — who needs to pay is chosen here, at creation time.
func AddRound(t *models.Trip, amount int64, description, date string, participants []string) (*models.ContributionRound, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: round amount must be positive", ErrValidation)
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: round needs at least one participant", ErrValidation)
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if !hasParticipant(t, p) {
			return nil, fmt.Errorf("%w: unknown participant %q", ErrValidation, p)
		}
		if seen[p] {
			return nil, fmt.Errorf("%w: duplicate participant %q", ErrValidation, p)
		}
		seen[p] = true
	}

	round := models.ContributionRound{
		ID:          uuid.New().String(),
		Amount:      amount,
		Date:        date,
		Description: description,
	}
	for _, p := range participants {
		round.Contributions = append(round.Contributions, models.Contribution{
			ID:          uuid.New().String(),
			Participant: p,
			Amount:      amount,
			Paid:        false,
		})
	}
	t.AdditionalContributions = append(t.AdditionalContributions, round)
	return &t.AdditionalContributions[len(t.AdditionalContributions)-1], nil
}

// RemoveRound deletes a top-up round entirely. No cascading effects.
func RemoveRound(t *models.Trip, roundID string) error {
	for i := range t.AdditionalContributions {
		if t.AdditionalContributions[i].ID == roundID {
			t.AdditionalContributions = append(t.AdditionalContributions[:i], t.AdditionalContributions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: round %s", ErrNotFound, roundID)
}

func findRound(t *models.Trip, roundID string) *models.ContributionRound {
	for i := range t.AdditionalContributions {
		if t.AdditionalContributions[i].ID == roundID {
			return &t.AdditionalContributions[i]
		}
	}
	return nil
}

// EditRoundAmount rewrites the per-person amount on a round and on every
// contribution in it. Paid flags are left alone — everyone in a round owes
// the same per-person amount, paid or not.
func EditRoundAmount(t *models.Trip, roundID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: round amount must be positive", ErrValidation)
	}
	round := findRound(t, roundID)
	if round == nil {
		return fmt.Errorf("%w: round %s", ErrNotFound, roundID)
	}
	round.Amount = amount
	for i := range round.Contributions {
		round.Contributions[i].Amount = amount
	}
	return nil
}

// EditRoundDescription rewrites what a top-up round is for.
func EditRoundDescription(t *models.Trip, roundID, description string) error {
	round := findRound(t, roundID)
	if round == nil {
		return fmt.Errorf("%w: round %s", ErrNotFound, roundID)
	}
	round.Description = description
	return nil
}

// EditInitialAmount rewrites the per-person amount of the initial round on
// every participant's contribution, uniformly.
func EditInitialAmount(t *models.Trip, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: contribution amount must be positive", ErrValidation)
	}
	for i := range t.Contributions {
		t.Contributions[i].Amount = amount
	}
	return nil
}

// ToggleInitialContributionPaid flips the paid flag on a participant's
// initial-round contribution.
func ToggleInitialContributionPaid(t *models.Trip, participant string) error {
	for i := range t.Contributions {
		if t.Contributions[i].Participant == participant {
			t.Contributions[i].Paid = !t.Contributions[i].Paid
			return nil
		}
	}
	return fmt.Errorf("%w: no initial contribution for %q", ErrNotFound, participant)
}

// ToggleRoundContributionPaid flips the paid flag for one participant in one
// top-up round. A missing round or pairing is a caller error.
func ToggleRoundContributionPaid(t *models.Trip, roundID, participant string) error {
	round := findRound(t, roundID)
	if round == nil {
		return fmt.Errorf("%w: round %s", ErrNotFound, roundID)
	}
	for i := range round.Contributions {
		if round.Contributions[i].Participant == participant {
			round.Contributions[i].Paid = !round.Contributions[i].Paid
			return nil
		}
	}
	return fmt.Errorf("%w: no contribution for %q in round %s", ErrNotFound, participant, roundID)
}
