package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/minhng/tripfund/internal/models"
	"github.com/minhng/tripfund/internal/money"
	"github.com/minhng/tripfund/internal/settlement"
	"github.com/minhng/tripfund/internal/trip"
)

// Wire amounts are decimal strings ("12.50"); shopspring/decimal also accepts
// bare JSON numbers, so both shapes parse. Conversion to minor units happens
// exactly once, here at the boundary.

func parseAmount(d decimal.Decimal) (int64, error) {
	units, err := money.FromDecimal(d)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return units, nil
}

type contributionView struct {
	ID          string `json:"id"`
	Participant string `json:"participant"`
	Amount      string `json:"amount"`
	Paid        bool   `json:"paid"`
}

type roundView struct {
	ID            string             `json:"id"`
	Amount        string             `json:"amount"`
	Date          string             `json:"date"`
	Description   string             `json:"description"`
	Contributions []contributionView `json:"contributions"`
}

type expenseView struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Amount       string   `json:"amount"`
	PaidBy       string   `json:"paid_by"`
	Category     string   `json:"category"`
	Date         string   `json:"date"`
	Participants []string `json:"participants"`
	PaidFromFund bool     `json:"paid_from_fund"`
}

type timelineEventView struct {
	ID          string `json:"id"`
	Day         int    `json:"day"`
	DayTitle    string `json:"day_title"`
	Time        string `json:"time"`
	Activity    string `json:"activity"`
	Description string `json:"description"`
	Location    string `json:"location"`
	LocationURL string `json:"location_url"`
}

type packingItemView struct {
	ID     string `json:"id"`
	Item   string `json:"item"`
	Packed bool   `json:"packed"`
}

type tripView struct {
	ID                      string              `json:"id"`
	ShortCode               string              `json:"short_code"`
	Name                    string              `json:"name"`
	Destination             string              `json:"destination"`
	StartDate               string              `json:"start_date"`
	EndDate                 string              `json:"end_date"`
	CoverImageURL           string              `json:"cover_image_url"`
	ManagerID               string              `json:"manager_id"`
	Participants            []string            `json:"participants"`
	Contributions           []contributionView  `json:"contributions"`
	AdditionalContributions []roundView         `json:"additional_contributions"`
	Expenses                []expenseView       `json:"expenses"`
	Timeline                []timelineEventView `json:"timeline"`
	PackingList             []packingItemView   `json:"packing_list"`
	DayCount                int                 `json:"day_count"`
	CreatedAt               int64               `json:"created_at"`
}

func toContributionViews(cs []models.Contribution) []contributionView {
	views := make([]contributionView, 0, len(cs))
	for _, c := range cs {
		views = append(views, contributionView{
			ID:          c.ID,
			Participant: c.Participant,
			Amount:      money.Format(c.Amount),
			Paid:        c.Paid,
		})
	}
	return views
}

func toTripView(t *models.Trip) tripView {
	view := tripView{
		ID:            t.ID,
		ShortCode:     t.ShortCode,
		Name:          t.Name,
		Destination:   t.Destination,
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		CoverImageURL: t.CoverImageURL,
		ManagerID:     t.ManagerID,
		Participants:  t.Participants,
		Contributions: toContributionViews(t.Contributions),
		DayCount:      trip.DayCount(t),
		CreatedAt:     t.CreatedAt,
	}
	if view.Participants == nil {
		view.Participants = []string{}
	}

	view.AdditionalContributions = make([]roundView, 0, len(t.AdditionalContributions))
	for _, r := range t.AdditionalContributions {
		view.AdditionalContributions = append(view.AdditionalContributions, roundView{
			ID:            r.ID,
			Amount:        money.Format(r.Amount),
			Date:          r.Date,
			Description:   r.Description,
			Contributions: toContributionViews(r.Contributions),
		})
	}

	view.Expenses = make([]expenseView, 0, len(t.Expenses))
	for _, e := range t.Expenses {
		view.Expenses = append(view.Expenses, expenseView{
			ID:           e.ID,
			Description:  e.Description,
			Amount:       money.Format(e.Amount),
			PaidBy:       e.PaidBy,
			Category:     e.Category,
			Date:         e.Date,
			Participants: e.Participants,
			PaidFromFund: e.PaidFromFund,
		})
	}

	view.Timeline = make([]timelineEventView, 0, len(t.Timeline))
	for _, ev := range t.Timeline {
		view.Timeline = append(view.Timeline, timelineEventView(ev))
	}

	view.PackingList = make([]packingItemView, 0, len(t.PackingList))
	for _, item := range t.PackingList {
		view.PackingList = append(view.PackingList, packingItemView(item))
	}

	return view
}

type tripSummaryView struct {
	ID            string   `json:"id"`
	ShortCode     string   `json:"short_code"`
	Name          string   `json:"name"`
	Destination   string   `json:"destination"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	CoverImageURL string   `json:"cover_image_url"`
	Participants  []string `json:"participants"`
	CreatedAt     int64    `json:"created_at"`
}

func toTripSummaries(trips []models.Trip) []tripSummaryView {
	views := make([]tripSummaryView, 0, len(trips))
	for _, t := range trips {
		participants := t.Participants
		if participants == nil {
			participants = []string{}
		}
		views = append(views, tripSummaryView{
			ID:            t.ID,
			ShortCode:     t.ShortCode,
			Name:          t.Name,
			Destination:   t.Destination,
			StartDate:     t.StartDate,
			EndDate:       t.EndDate,
			CoverImageURL: t.CoverImageURL,
			Participants:  participants,
			CreatedAt:     t.CreatedAt,
		})
	}
	return views
}

type balanceView struct {
	Participant string `json:"participant"`
	Amount      string `json:"amount"`
}

type transactionView struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type settlementView struct {
	FundBalance        string            `json:"fund_balance"`
	TotalContributed   string            `json:"total_contributed"`
	TotalSpent         string            `json:"total_spent"`
	TotalSpentFromFund string            `json:"total_spent_from_fund"`
	Balances           []balanceView     `json:"balances"`
	Transactions       []transactionView `json:"transactions"`
}

// toSettlementView renders balances in participant order so the payload is
// deterministic across calls.
func toSettlementView(t *models.Trip, res settlement.Result) settlementView {
	view := settlementView{
		FundBalance:        money.Format(res.FundBalance),
		TotalContributed:   money.Format(res.TotalContributed),
		TotalSpent:         money.Format(res.TotalSpent),
		TotalSpentFromFund: money.Format(res.TotalSpentFromFund),
		Balances:           make([]balanceView, 0, len(res.Balances)),
		Transactions:       make([]transactionView, 0, len(res.Transactions)),
	}
	for _, p := range t.Participants {
		view.Balances = append(view.Balances, balanceView{
			Participant: p,
			Amount:      money.Format(res.Balances[p]),
		})
	}
	for _, tx := range res.Transactions {
		view.Transactions = append(view.Transactions, transactionView{
			From:   tx.From,
			To:     tx.To,
			Amount: money.Format(tx.Amount),
		})
	}
	return view
}

type userView struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
}

func toUserView(u *models.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
