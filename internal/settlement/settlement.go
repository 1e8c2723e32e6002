// Package settlement turns a trip's two ledgers into per-person net balances
// and a greedy pairwise settlement plan. Compute is a pure function of the
// trip value: no state, no I/O, recomputed on every read, safe to call
// concurrently from any number of readers.
package settlement

import (
	"github.com/minhng/tripfund/internal/models"
	"github.com/minhng/tripfund/internal/money"
	"github.com/minhng/tripfund/internal/trip"
)

// DustThreshold is the smallest amount, in minor units, worth a settlement
// transaction. Residuals below it are absorbed rather than paid.
const DustThreshold = 1

// Transaction is one suggested payment from a net debtor to a net creditor.
// Suggestions are advisory only; nothing here executes payments.
type Transaction struct {
	From   string
	To     string
	Amount int64
}

// Result is the full financial view of a trip.
type Result struct {
	// FundBalance is what remains in the shared pool: everything paid in
	// minus everything the fund paid out.
	FundBalance int64

	// TotalContributed sums all paid contributions across every round.
	TotalContributed int64

	// TotalSpent sums every expense; TotalSpentFromFund only those paid
	// from the pool.
	TotalSpent         int64
	TotalSpentFromFund int64

	// Balances maps each participant to their net position. Positive means
	// the group owes them (creditor), negative means they owe (debtor).
	Balances map[string]int64

	// Transactions is the greedy settlement plan over the balances.
	Transactions []Transaction
}

// Compute derives the trip's financial state from its ledgers.
//
// A participant's balance rises with money they put in — fund contributions
// and personal payments for group expenses — and falls by their equal share
// of every expense they benefit from, regardless of who paid it. The fund is
// a pooled asset the group owns together: fund-paid expenses reduce group
// wealth but are never debited to individuals beyond that equal share.
func Compute(t *models.Trip) Result {
	res := Result{
		TotalContributed:   trip.TotalCollected(t),
		TotalSpent:         trip.TotalSpent(t),
		TotalSpentFromFund: trip.TotalSpentFromFund(t),
		Balances:           make(map[string]int64, len(t.Participants)),
	}
	res.FundBalance = res.TotalContributed - res.TotalSpentFromFund

	for _, p := range t.Participants {
		res.Balances[p] = 0
	}

	for _, c := range t.Contributions {
		if c.Paid {
			if _, ok := res.Balances[c.Participant]; ok {
				res.Balances[c.Participant] += c.Amount
			}
		}
	}
	for _, round := range t.AdditionalContributions {
		for _, c := range round.Contributions {
			if c.Paid {
				if _, ok := res.Balances[c.Participant]; ok {
					res.Balances[c.Participant] += c.Amount
				}
			}
		}
	}

	for _, e := range t.Expenses {
		if !e.PaidFromFund {
			if _, ok := res.Balances[e.PaidBy]; ok {
				res.Balances[e.PaidBy] += e.Amount
			}
		}
		shares := money.Split(e.Amount, len(e.Participants))
		for i, name := range e.Participants {
			if _, ok := res.Balances[name]; ok {
				res.Balances[name] -= shares[i]
			}
		}
	}

	res.Transactions = settle(t.Participants, res.Balances)
	return res
}

// settle pairs debtors with creditors greedily in participant-list order.
// Not a minimum-transaction-count matching: a stable pairing in encounter
// order that terminates in at most debtors+creditors transactions, with every
// debtor's total outgoing equal to their debt and every creditor's total
// incoming equal to their credit.
func settle(participants []string, balances map[string]int64) []Transaction {
	type party struct {
		name      string
		remaining int64
	}
	var debtors, creditors []party
	for _, p := range participants {
		switch b := balances[p]; {
		case b < 0:
			debtors = append(debtors, party{name: p, remaining: -b})
		case b > 0:
			creditors = append(creditors, party{name: p, remaining: b})
		}
	}

	var txs []Transaction
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].remaining
		if creditors[j].remaining < amount {
			amount = creditors[j].remaining
		}

		if amount > DustThreshold {
			txs = append(txs, Transaction{
				From:   debtors[i].name,
				To:     creditors[j].name,
				Amount: amount,
			})
		}

		debtors[i].remaining -= amount
		creditors[j].remaining -= amount

		// A tie advances both sides in the same iteration.
		if debtors[i].remaining < DustThreshold {
			i++
		}
		if creditors[j].remaining < DustThreshold {
			j++
		}
	}
	return txs
}
