package trip

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/minhng/tripfund/internal/models"
)

func hasParticipant(t *models.Trip, name string) bool {
	for _, p := range t.Participants {
		if p == name {
			return true
		}
	}
	return false
}

// AddParticipant appends a new participant and creates their unpaid initial
// contribution at the current round-0 per-person rate.
func AddParticipant(t *models.Trip, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: participant name is required", ErrValidation)
	}
	if name == models.FundPayer {
		return fmt.Errorf("%w: %q is a reserved name", ErrValidation, name)
	}
	if hasParticipant(t, name) {
		return fmt.Errorf("%w: participant %q already exists", ErrConflict, name)
	}

	var rate int64
	if len(t.Contributions) > 0 {
		rate = t.Contributions[0].Amount
	}
	t.Participants = append(t.Participants, name)
	t.Contributions = append(t.Contributions, models.Contribution{
		ID:          uuid.New().String(),
		Participant: name,
		Amount:      rate,
		Paid:        false,
	})
	return nil
}

// RenameParticipant rewrites oldName to newName in the participants list, the
// initial round, every top-up round, and every expense (both payer and
// beneficiary entries). The rewrite is atomic: it either fully applies or the
// trip is untouched. Renaming is pure relabeling and never changes balances.
func RenameParticipant(t *models.Trip, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: participant name is required", ErrValidation)
	}
	if newName == models.FundPayer {
		return fmt.Errorf("%w: %q is a reserved name", ErrValidation, newName)
	}
	if !hasParticipant(t, oldName) {
		return fmt.Errorf("%w: participant %q", ErrNotFound, oldName)
	}
	if newName == oldName {
		return nil
	}
	if hasParticipant(t, newName) {
		return fmt.Errorf("%w: participant %q already exists", ErrConflict, newName)
	}

	for i, p := range t.Participants {
		if p == oldName {
			t.Participants[i] = newName
		}
	}
	for i := range t.Contributions {
		if t.Contributions[i].Participant == oldName {
			t.Contributions[i].Participant = newName
		}
	}
	for r := range t.AdditionalContributions {
		round := &t.AdditionalContributions[r]
		for i := range round.Contributions {
			if round.Contributions[i].Participant == oldName {
				round.Contributions[i].Participant = newName
			}
		}
	}
	for i := range t.Expenses {
		e := &t.Expenses[i]
		if e.PaidBy == oldName {
			e.PaidBy = newName
		}
		for j, p := range e.Participants {
			if p == oldName {
				e.Participants[j] = newName
			}
		}
	}
	return nil
}

// RemoveParticipant deletes a participant and strips them from both ledgers.
// It refuses when the participant personally paid for any expense (financial
// integrity lock) or is the sole beneficiary of an expense, since an expense
// must always keep at least one beneficiary to split across.
//
// Stripping a name from an expense silently redistributes their share: the
// split is amount divided by the live beneficiary count, recomputed at read
// time, so the remaining beneficiaries simply absorb it.
func RemoveParticipant(t *models.Trip, name string) error {
	if !hasParticipant(t, name) {
		return fmt.Errorf("%w: participant %q", ErrNotFound, name)
	}
	for _, e := range t.Expenses {
		if e.PaidBy == name && !e.PaidFromFund {
			return fmt.Errorf("%w: %q paid for %q and cannot be removed", ErrConflict, name, e.Description)
		}
	}
	for _, e := range t.Expenses {
		if len(e.Participants) == 1 && e.Participants[0] == name {
			return fmt.Errorf("%w: %q is the only beneficiary of %q", ErrConflict, name, e.Description)
		}
	}

	kept := t.Participants[:0]
	for _, p := range t.Participants {
		if p != name {
			kept = append(kept, p)
		}
	}
	t.Participants = kept

	contribs := t.Contributions[:0]
	for _, c := range t.Contributions {
		if c.Participant != name {
			contribs = append(contribs, c)
		}
	}
	t.Contributions = contribs

	for r := range t.AdditionalContributions {
		round := &t.AdditionalContributions[r]
		roundContribs := round.Contributions[:0]
		for _, c := range round.Contributions {
			if c.Participant != name {
				roundContribs = append(roundContribs, c)
			}
		}
		round.Contributions = roundContribs
	}

	for i := range t.Expenses {
		e := &t.Expenses[i]
		beneficiaries := e.Participants[:0]
		for _, p := range e.Participants {
			if p != name {
				beneficiaries = append(beneficiaries, p)
			}
		}
		e.Participants = beneficiaries
	}
	return nil
}
