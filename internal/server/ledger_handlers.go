package server

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/minhng/tripfund/internal/models"
	"github.com/minhng/tripfund/internal/trip"
)

// initialRoundID is the route value that targets the initial fund-raising
// round instead of a top-up round.
const initialRoundID = "initial"

// pathParam returns a URL-decoded route parameter; participant names may
// contain spaces or diacritics.
func pathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

type participantRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddParticipant(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}

	var body participantRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := trip.AddParticipant(t, body.Name); err != nil {
		return err
	}
	return s.saveAndRender(c, t)
}

func (s *Server) handleRenameParticipant(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}

	var body participantRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := trip.RenameParticipant(t, pathParam(c, "name"), body.Name); err != nil {
		return err
	}
	return s.saveAndRender(c, t)
}

func (s *Server) handleRemoveParticipant(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}
	if err := trip.RemoveParticipant(t, pathParam(c, "name")); err != nil {
		return err
	}
	return s.saveAndRender(c, t)
}

type expenseRequest struct {
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	PaidBy       string          `json:"paid_by"`
	Category     string          `json:"category"`
	Date         string          `json:"date"`
	Participants []string        `json:"participants"`
	PaidFromFund bool            `json:"paid_from_fund"`
}

func (s *Server) handleAddExpense(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}

	var body expenseRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return err
	}

	if _, err := trip.AddExpense(t, models.Expense{
		Description:  body.Description,
		Amount:       amount,
		PaidBy:       body.PaidBy,
		Category:     body.Category,
		Date:         body.Date,
		Participants: body.Participants,
		PaidFromFund: body.PaidFromFund,
	}); err != nil {
		return err
	}
	return s.saveAndRender(c, t)
}

type expenseUpdateRequest struct {
	Description  *string          `json:"description"`
	Amount       *decimal.Decimal `json:"amount"`
	PaidBy       *string          `json:"paid_by"`
	Category     *string          `json:"category"`
	Date         *string          `json:"date"`
	Participants []string         `json:"participants"`
	PaidFromFund *bool            `json:"paid_from_fund"`
}

func (s *Server) handleEditExpense(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}

	var body expenseUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	upd := trip.ExpenseUpdate{
		Description:  body.Description,
		PaidBy:       body.PaidBy,
		Category:     body.Category,
		Date:         body.Date,
		Participants: body.Participants,
		PaidFromFund: body.PaidFromFund,
	}
	if body.Amount != nil {
		amount, err := parseAmount(*body.Amount)
		if err != nil {
			return err
		}
		upd.Amount = &amount
	}

	if err := trip.EditExpense(t, c.Params("expenseId"), upd); err != nil {
		return err
	}
	return s.saveAndRender(c, t)
}

func (s *Server) handleRemoveExpense(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}
	if err := trip.RemoveExpense(t, c.Params("expenseId")); err != nil {
		return err
	}
	return s.saveAndRender(c, t)
}

type roundRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         string          `json:"date"`
	Participants []string        `json:"participants"`
}

func (s *Server) handleAddRound(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}

	var body roundRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return err
	}

	participants := body.Participants
	if len(participants) == 0 {
		// Default a round to everyone currently on the trip.
		participants = t.Participants
	}
	if _, err := trip.AddRound(t, amount, body.Description, body.Date, participants); err != nil {
		return err
	}
	return s.saveAndRender(c, t)
}

type roundUpdateRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
}

func (s *Server) handleEditRound(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}

	var body roundUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return err
	}

	if c.Params("roundId") == initialRoundID {
		// The initial round has no description; a supplied one is ignored.
		if err := trip.EditInitialAmount(t, amount); err != nil {
			return err
		}
		return s.saveAndRender(c, t)
	}

	if err := trip.EditRoundAmount(t, c.Params("roundId"), amount); err != nil {
		return err
	}
	if body.Description != nil {
		if err := trip.EditRoundDescription(t, c.Params("roundId"), *body.Description); err != nil {
			return err
		}
	}
	return s.saveAndRender(c, t)
}

func (s *Server) handleRemoveRound(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}
	if c.Params("roundId") == initialRoundID {
		return fiber.NewError(fiber.StatusBadRequest, "the initial round cannot be removed")
	}
	if err := trip.RemoveRound(t, c.Params("roundId")); err != nil {
		return err
	}
	return s.saveAndRender(c, t)
}

func (s *Server) handleToggleContribution(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}

	var body participantRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if c.Params("roundId") == initialRoundID {
		err = trip.ToggleInitialContributionPaid(t, body.Name)
	} else {
		err = trip.ToggleRoundContributionPaid(t, c.Params("roundId"), body.Name)
	}
	if err != nil {
		return err
	}
	return s.saveAndRender(c, t)
}
