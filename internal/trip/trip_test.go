package trip

import (
	"errors"
	"reflect"
	"testing"

	"github.com/minhng/tripfund/internal/models"
)

func newTestTrip(t *testing.T) *models.Trip {
	t.Helper()
	tr, err := New("Beach week", "Nha Trang", "2026-06-01", "2026-06-04", "", "mgr-1", []string{"An", "Binh", "Chi"}, 50000)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tr
}

func TestNew(t *testing.T) {
	tr := newTestTrip(t)

	if len(tr.Participants) != 3 {
		t.Fatalf("participants = %d, want 3", len(tr.Participants))
	}
	if len(tr.Contributions) != 3 {
		t.Fatalf("initial contributions = %d, want 3", len(tr.Contributions))
	}
	for _, c := range tr.Contributions {
		if c.Amount != 50000 {
			t.Errorf("contribution amount = %d, want 50000", c.Amount)
		}
		if c.Paid {
			t.Errorf("contribution for %s created paid, want pledge", c.Participant)
		}
		if c.ID == "" {
			t.Error("contribution created without id")
		}
	}

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := New("", "Hue", "", "", "", "mgr-1", nil, 0)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects duplicate participants", func(t *testing.T) {
		_, err := New("Trip", "Hue", "", "", "", "mgr-1", []string{"An", "An"}, 0)
		if !errors.Is(err, ErrConflict) {
			t.Errorf("err = %v, want ErrConflict", err)
		}
	})
}

func TestAddParticipant(t *testing.T) {
	tr := newTestTrip(t)

	if err := AddParticipant(tr, "Dung"); err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if len(tr.Participants) != 4 || tr.Participants[3] != "Dung" {
		t.Errorf("participants = %v, want Dung appended", tr.Participants)
	}
	// New members owe the same round-0 rate as everyone else, unpaid.
	last := tr.Contributions[len(tr.Contributions)-1]
	if last.Participant != "Dung" || last.Amount != 50000 || last.Paid {
		t.Errorf("new contribution = %+v, want Dung/50000/unpaid", last)
	}

	tests := []struct {
		name    string
		arg     string
		wantErr error
	}{
		{"blank", "  ", ErrValidation},
		{"duplicate", "An", ErrConflict},
		{"reserved fund name", models.FundPayer, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := AddParticipant(tr, tt.arg); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddParticipant(%q) = %v, want %v", tt.arg, err, tt.wantErr)
			}
		})
	}
}

func TestRenameParticipantCascades(t *testing.T) {
	tr := newTestTrip(t)
	round, err := AddRound(tr, 20000, "Top-up", "2026-06-02", []string{"An", "Binh"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := AddExpense(tr, models.Expense{
		Description:  "Seafood",
		Amount:       90000,
		PaidBy:       "An",
		Category:     "Food",
		Date:         "2026-06-02",
		Participants: []string{"An", "Binh", "Chi"},
	}); err != nil {
		t.Fatal(err)
	}

	if err := RenameParticipant(tr, "An", "An Nguyen"); err != nil {
		t.Fatalf("RenameParticipant failed: %v", err)
	}

	// No record anywhere may still reference the old name.
	for _, p := range tr.Participants {
		if p == "An" {
			t.Error("participants still contain old name")
		}
	}
	for _, c := range tr.Contributions {
		if c.Participant == "An" {
			t.Error("initial round still references old name")
		}
	}
	for _, c := range round.Contributions {
		if c.Participant == "An" {
			t.Error("top-up round still references old name")
		}
	}
	for _, e := range tr.Expenses {
		if e.PaidBy == "An" {
			t.Error("expense payer still references old name")
		}
		for _, p := range e.Participants {
			if p == "An" {
				t.Error("expense beneficiaries still reference old name")
			}
		}
	}
	if tr.Expenses[0].PaidBy != "An Nguyen" {
		t.Errorf("payer = %q, want renamed", tr.Expenses[0].PaidBy)
	}
}

func TestRenameParticipantValidation(t *testing.T) {
	tr := newTestTrip(t)

	tests := []struct {
		name     string
		from, to string
		wantErr  error
	}{
		{"blank target", "An", "", ErrValidation},
		{"duplicate target", "An", "Binh", ErrConflict},
		{"unknown source", "Nobody", "X", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := RenameParticipant(tr, tt.from, tt.to); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("rename to same name is a no-op", func(t *testing.T) {
		if err := RenameParticipant(tr, "An", "An"); err != nil {
			t.Errorf("err = %v, want nil", err)
		}
	})
}

func TestRemoveParticipant(t *testing.T) {
	t.Run("payer lock", func(t *testing.T) {
		tr := newTestTrip(t)
		if _, err := AddExpense(tr, models.Expense{
			Description:  "Taxi",
			Amount:       10000,
			PaidBy:       "Binh",
			Participants: []string{"An", "Binh"},
		}); err != nil {
			t.Fatal(err)
		}

		snapshot := *tr
		err := RemoveParticipant(tr, "Binh")
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("err = %v, want ErrConflict", err)
		}
		if !reflect.DeepEqual(snapshot.Participants, tr.Participants) {
			t.Error("failed removal modified the trip")
		}

		// Deleting the expense unlocks removal.
		if err := RemoveExpense(tr, tr.Expenses[0].ID); err != nil {
			t.Fatal(err)
		}
		if err := RemoveParticipant(tr, "Binh"); err != nil {
			t.Errorf("removal after unlock failed: %v", err)
		}
	})

	t.Run("fund payer is not locked", func(t *testing.T) {
		tr := newTestTrip(t)
		if _, err := AddExpense(tr, models.Expense{
			Description:  "Tickets",
			Amount:       30000,
			Participants: []string{"An", "Binh", "Chi"},
			PaidFromFund: true,
		}); err != nil {
			t.Fatal(err)
		}

		if err := RemoveParticipant(tr, "Binh"); err != nil {
			t.Fatalf("RemoveParticipant failed: %v", err)
		}
		// Their share redistributes to the remaining beneficiaries.
		if got := tr.Expenses[0].Participants; !reflect.DeepEqual(got, []string{"An", "Chi"}) {
			t.Errorf("beneficiaries = %v, want [An Chi]", got)
		}
	})

	t.Run("sole beneficiary blocks removal", func(t *testing.T) {
		tr := newTestTrip(t)
		if _, err := AddExpense(tr, models.Expense{
			Description:  "Spa",
			Amount:       20000,
			Participants: []string{"Chi"},
			PaidFromFund: true,
		}); err != nil {
			t.Fatal(err)
		}
		if err := RemoveParticipant(tr, "Chi"); !errors.Is(err, ErrConflict) {
			t.Errorf("err = %v, want ErrConflict", err)
		}
	})

	t.Run("strips ledgers", func(t *testing.T) {
		tr := newTestTrip(t)
		if _, err := AddRound(tr, 10000, "Round 2", "2026-06-02", []string{"An", "Chi"}); err != nil {
			t.Fatal(err)
		}

		if err := RemoveParticipant(tr, "Chi"); err != nil {
			t.Fatalf("RemoveParticipant failed: %v", err)
		}
		if len(tr.Contributions) != 2 {
			t.Errorf("initial contributions = %d, want 2", len(tr.Contributions))
		}
		if len(tr.AdditionalContributions[0].Contributions) != 1 {
			t.Errorf("round contributions = %d, want 1", len(tr.AdditionalContributions[0].Contributions))
		}
	})

	t.Run("unknown participant", func(t *testing.T) {
		tr := newTestTrip(t)
		if err := RemoveParticipant(tr, "Nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestAddExpenseValidation(t *testing.T) {
	tr := newTestTrip(t)

	tests := []struct {
		name    string
		expense models.Expense
		wantErr error
	}{
		{"empty description", models.Expense{Amount: 100, PaidBy: "An", Participants: []string{"An"}}, ErrValidation},
		{"zero amount", models.Expense{Description: "X", PaidBy: "An", Participants: []string{"An"}}, ErrValidation},
		{"negative amount", models.Expense{Description: "X", Amount: -5, PaidBy: "An", Participants: []string{"An"}}, ErrValidation},
		{"no beneficiaries", models.Expense{Description: "X", Amount: 100, PaidBy: "An"}, ErrValidation},
		{"unknown beneficiary", models.Expense{Description: "X", Amount: 100, PaidBy: "An", Participants: []string{"Nobody"}}, ErrValidation},
		{"unknown payer", models.Expense{Description: "X", Amount: 100, PaidBy: "Nobody", Participants: []string{"An"}}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := AddExpense(tr, tt.expense); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if len(tr.Expenses) != 0 {
		t.Errorf("failed adds left %d expenses behind", len(tr.Expenses))
	}

	t.Run("fund payment overrides payer", func(t *testing.T) {
		e, err := AddExpense(tr, models.Expense{
			Description:  "Bus",
			Amount:       5000,
			PaidBy:       "An",
			Participants: []string{"An", "Binh"},
			PaidFromFund: true,
		})
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
		if e.PaidBy != models.FundPayer {
			t.Errorf("PaidBy = %q, want %q", e.PaidBy, models.FundPayer)
		}
		if e.ID == "" {
			t.Error("expense created without id")
		}
	})
}

func TestEditExpense(t *testing.T) {
	tr := newTestTrip(t)
	e, err := AddExpense(tr, models.Expense{
		Description:  "Dinner",
		Amount:       40000,
		PaidBy:       "An",
		Participants: []string{"An", "Binh"},
	})
	if err != nil {
		t.Fatal(err)
	}

	amount := int64(45000)
	desc := "Dinner + drinks"
	if err := EditExpense(tr, e.ID, ExpenseUpdate{Description: &desc, Amount: &amount, Participants: []string{"An", "Binh", "Chi"}}); err != nil {
		t.Fatalf("EditExpense failed: %v", err)
	}
	got := tr.Expenses[0]
	if got.Description != desc || got.Amount != 45000 || len(got.Participants) != 3 {
		t.Errorf("expense after edit = %+v", got)
	}
	if got.PaidBy != "An" {
		t.Errorf("untouched field changed: PaidBy = %q", got.PaidBy)
	}

	t.Run("invalid update leaves expense alone", func(t *testing.T) {
		bad := int64(-1)
		if err := EditExpense(tr, e.ID, ExpenseUpdate{Amount: &bad}); !errors.Is(err, ErrValidation) {
			t.Fatalf("err = %v, want ErrValidation", err)
		}
		if tr.Expenses[0].Amount != 45000 {
			t.Errorf("amount = %d, want 45000 after failed edit", tr.Expenses[0].Amount)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if err := EditExpense(tr, "missing", ExpenseUpdate{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestRounds(t *testing.T) {
	tr := newTestTrip(t)

	t.Run("validation", func(t *testing.T) {
		if _, err := AddRound(tr, 0, "x", "", []string{"An"}); !errors.Is(err, ErrValidation) {
			t.Errorf("zero amount: err = %v, want ErrValidation", err)
		}
		if _, err := AddRound(tr, 100, "x", "", nil); !errors.Is(err, ErrValidation) {
			t.Errorf("empty subset: err = %v, want ErrValidation", err)
		}
		if _, err := AddRound(tr, 100, "x", "", []string{"Nobody"}); !errors.Is(err, ErrValidation) {
			t.Errorf("unknown name: err = %v, want ErrValidation", err)
		}
	})

	round, err := AddRound(tr, 20000, "Hotel deposit", "2026-06-02", []string{"An", "Binh"})
	if err != nil {
		t.Fatalf("AddRound failed: %v", err)
	}
	if len(round.Contributions) != 2 {
		t.Fatalf("round contributions = %d, want 2", len(round.Contributions))
	}
	for _, c := range round.Contributions {
		if c.Paid || c.Amount != 20000 {
			t.Errorf("contribution = %+v, want unpaid/20000", c)
		}
	}

	t.Run("toggle paid", func(t *testing.T) {
		if err := ToggleRoundContributionPaid(tr, round.ID, "An"); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if !round.Contributions[0].Paid {
			t.Error("contribution not marked paid")
		}
		if err := ToggleRoundContributionPaid(tr, round.ID, "An"); err != nil {
			t.Fatalf("toggle back failed: %v", err)
		}
		if round.Contributions[0].Paid {
			t.Error("contribution not flipped back")
		}

		if err := ToggleRoundContributionPaid(tr, round.ID, "Chi"); !errors.Is(err, ErrNotFound) {
			t.Errorf("missing pairing: err = %v, want ErrNotFound", err)
		}
		if err := ToggleRoundContributionPaid(tr, "missing", "An"); !errors.Is(err, ErrNotFound) {
			t.Errorf("missing round: err = %v, want ErrNotFound", err)
		}
	})

	t.Run("edit amount keeps paid flags", func(t *testing.T) {
		if err := ToggleRoundContributionPaid(tr, round.ID, "Binh"); err != nil {
			t.Fatal(err)
		}
		if err := EditRoundAmount(tr, round.ID, 25000); err != nil {
			t.Fatalf("EditRoundAmount failed: %v", err)
		}
		for _, c := range round.Contributions {
			if c.Amount != 25000 {
				t.Errorf("contribution amount = %d, want 25000", c.Amount)
			}
		}
		if !round.Contributions[1].Paid {
			t.Error("paid flag lost on amount edit")
		}

		if err := EditRoundAmount(tr, round.ID, 0); !errors.Is(err, ErrValidation) {
			t.Errorf("zero amount: err = %v, want ErrValidation", err)
		}
	})

	t.Run("edit description", func(t *testing.T) {
		if err := EditRoundDescription(tr, round.ID, "Hotel deposit + breakfast"); err != nil {
			t.Fatalf("EditRoundDescription failed: %v", err)
		}
		if round.Description != "Hotel deposit + breakfast" {
			t.Errorf("description = %q, want %q", round.Description, "Hotel deposit + breakfast")
		}
		if err := EditRoundDescription(tr, "missing", "x"); !errors.Is(err, ErrNotFound) {
			t.Errorf("missing round: err = %v, want ErrNotFound", err)
		}
	})

	t.Run("remove round", func(t *testing.T) {
		if err := RemoveRound(tr, round.ID); err != nil {
			t.Fatalf("RemoveRound failed: %v", err)
		}
		if len(tr.AdditionalContributions) != 0 {
			t.Errorf("rounds remaining = %d, want 0", len(tr.AdditionalContributions))
		}
		if err := RemoveRound(tr, round.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("second remove: err = %v, want ErrNotFound", err)
		}
	})
}

func TestEditInitialAmount(t *testing.T) {
	tr := newTestTrip(t)
	if err := ToggleInitialContributionPaid(tr, "An"); err != nil {
		t.Fatal(err)
	}

	if err := EditInitialAmount(tr, 60000); err != nil {
		t.Fatalf("EditInitialAmount failed: %v", err)
	}
	for _, c := range tr.Contributions {
		if c.Amount != 60000 {
			t.Errorf("contribution amount = %d, want 60000", c.Amount)
		}
	}
	if !tr.Contributions[0].Paid {
		t.Error("paid flag lost on initial amount edit")
	}
}

func TestTotals(t *testing.T) {
	tr := newTestTrip(t)
	if err := ToggleInitialContributionPaid(tr, "An"); err != nil {
		t.Fatal(err)
	}
	if _, err := AddExpense(tr, models.Expense{
		Description: "Dinner", Amount: 30000, PaidBy: "An", Participants: []string{"An", "Binh"},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := AddExpense(tr, models.Expense{
		Description: "Bus", Amount: 12000, Participants: []string{"An", "Binh", "Chi"}, PaidFromFund: true,
	}); err != nil {
		t.Fatal(err)
	}

	if got := TotalCollected(tr); got != 50000 {
		t.Errorf("TotalCollected = %d, want 50000", got)
	}
	if got := TotalSpent(tr); got != 42000 {
		t.Errorf("TotalSpent = %d, want 42000", got)
	}
	if got := TotalSpentFromFund(tr); got != 12000 {
		t.Errorf("TotalSpentFromFund = %d, want 12000", got)
	}
}

func TestDayCountAndTimeline(t *testing.T) {
	tr := newTestTrip(t)
	if got := DayCount(tr); got != 4 {
		t.Errorf("DayCount = %d, want 4", got)
	}

	EnsureTimeline(tr)
	if len(tr.Timeline) != 4 {
		t.Fatalf("timeline events = %d, want 4", len(tr.Timeline))
	}
	if tr.Timeline[0].Day != 1 || tr.Timeline[3].Day != 4 {
		t.Errorf("timeline days = %d..%d, want 1..4", tr.Timeline[0].Day, tr.Timeline[3].Day)
	}

	// A populated timeline is left alone.
	EnsureTimeline(tr)
	if len(tr.Timeline) != 4 {
		t.Errorf("EnsureTimeline grew a populated timeline to %d", len(tr.Timeline))
	}

	t.Run("unparseable dates fall back to one day", func(t *testing.T) {
		bad := &models.Trip{StartDate: "whenever", EndDate: "later"}
		if got := DayCount(bad); got != 1 {
			t.Errorf("DayCount = %d, want 1", got)
		}
	})
}

func TestDuplicate(t *testing.T) {
	tr := newTestTrip(t)
	tr.ID = "orig-id"
	tr.ShortCode = "nha-trang-abc123"
	if _, err := AddExpense(tr, models.Expense{
		Description: "Dinner", Amount: 30000, PaidBy: "An", Participants: []string{"An", "Binh"},
	}); err != nil {
		t.Fatal(err)
	}

	dup := Duplicate(tr)

	if dup.ID != "" || dup.ShortCode != "" {
		t.Errorf("duplicate carried identity: id=%q code=%q", dup.ID, dup.ShortCode)
	}
	if dup.Name != "Beach week (copy)" {
		t.Errorf("name = %q", dup.Name)
	}
	if len(dup.Expenses) != 1 || dup.Expenses[0].ID == tr.Expenses[0].ID {
		t.Error("expense not copied with a fresh id")
	}
	// Mutating the copy must not touch the original.
	dup.Expenses[0].Participants[0] = "Someone"
	if tr.Expenses[0].Participants[0] != "An" {
		t.Error("duplicate shares backing arrays with the original")
	}
}
