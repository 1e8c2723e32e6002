package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/minhng/tripfund/internal/models"
	"github.com/minhng/tripfund/internal/shortcode"
	"github.com/minhng/tripfund/internal/trip"
)

type createTripRequest struct {
	Name               string          `json:"name"`
	Destination        string          `json:"destination"`
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
	CoverImageURL      string          `json:"cover_image_url"`
	Participants       []string        `json:"participants"`
	ContributionAmount decimal.Decimal `json:"contribution_amount"`
}

type updateTripRequest struct {
	Name          *string `json:"name"`
	Destination   *string `json:"destination"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	CoverImageURL *string `json:"cover_image_url"`
}

// loadOwnedTrip fetches the trip in the :id param and checks the caller may
// mutate it: the owning planner, or any admin.
func (s *Server) loadOwnedTrip(c *fiber.Ctx) (*models.Trip, error) {
	t, err := s.store.GetTripByShortCode(c.Context(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if t.ManagerID != currentUserID(c) && currentRole(c) != models.RoleAdmin {
		return nil, fiber.NewError(fiber.StatusForbidden, "not your trip")
	}
	return t, nil
}

// saveAndRender persists the mutated trip and returns its full view.
func (s *Server) saveAndRender(c *fiber.Ctx, t *models.Trip) error {
	if err := s.store.UpdateTrip(c.Context(), t); err != nil {
		return err
	}
	return c.JSON(toTripView(t))
}

func (s *Server) handleListTrips(c *fiber.Ctx) error {
	var (
		trips []models.Trip
		err   error
	)
	if currentRole(c) == models.RoleAdmin {
		trips, err = s.store.ListTrips(c.Context())
	} else {
		trips, err = s.store.ListTripsByManager(c.Context(), currentUserID(c))
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"trips": toTripSummaries(trips)})
}

func (s *Server) handleCreateTrip(c *fiber.Ctx) error {
	var body createTripRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	amount, err := parseAmount(body.ContributionAmount)
	if err != nil {
		return err
	}

	t, err := trip.New(body.Name, body.Destination, body.StartDate, body.EndDate,
		body.CoverImageURL, currentUserID(c), body.Participants, amount)
	if err != nil {
		return err
	}
	t.ShortCode = shortcode.New(t.Destination)
	trip.EnsureTimeline(t)

	if err := s.store.CreateTrip(c.Context(), t); err != nil {
		return err
	}

	slog.Info("trip created", "trip_id", t.ID, "short_code", t.ShortCode, "manager_id", t.ManagerID)
	return c.Status(fiber.StatusCreated).JSON(toTripView(t))
}

func (s *Server) handleGetTrip(c *fiber.Ctx) error {
	t, err := s.store.GetTripByShortCode(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toTripView(t))
}

func (s *Server) handleUpdateTrip(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}

	var body updateTripRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if body.Name != nil {
		if *body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "trip name cannot be empty")
		}
		t.Name = *body.Name
	}
	if body.Destination != nil {
		if *body.Destination == "" {
			return fiber.NewError(fiber.StatusBadRequest, "destination cannot be empty")
		}
		t.Destination = *body.Destination
	}
	if body.StartDate != nil {
		t.StartDate = *body.StartDate
	}
	if body.EndDate != nil {
		t.EndDate = *body.EndDate
	}
	if body.CoverImageURL != nil {
		t.CoverImageURL = *body.CoverImageURL
	}

	return s.saveAndRender(c, t)
}

func (s *Server) handleDeleteTrip(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTrip(c.Context(), t.ID); err != nil {
		return err
	}
	slog.Info("trip deleted", "trip_id", t.ID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleDuplicateTrip(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}

	dup := trip.Duplicate(t)
	dup.ManagerID = currentUserID(c)
	dup.ShortCode = shortcode.New(dup.Destination)
	if err := s.store.CreateTrip(c.Context(), dup); err != nil {
		return err
	}

	slog.Info("trip duplicated", "source_trip_id", t.ID, "trip_id", dup.ID)
	return c.Status(fiber.StatusCreated).JSON(toTripView(dup))
}

type replaceTimelineRequest struct {
	Events []timelineEventView `json:"events"`
}

func (s *Server) handleReplaceTimeline(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}

	var body replaceTimelineRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	events := make([]models.TimelineEvent, 0, len(body.Events))
	for _, ev := range body.Events {
		events = append(events, models.TimelineEvent(ev))
	}
	trip.ReplaceTimeline(t, events)
	return s.saveAndRender(c, t)
}

type replacePackingRequest struct {
	Items []packingItemView `json:"items"`
}

func (s *Server) handleReplacePacking(c *fiber.Ctx) error {
	t, err := s.loadOwnedTrip(c)
	if err != nil {
		return err
	}

	var body replacePackingRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	items := make([]models.PackingItem, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, models.PackingItem(item))
	}
	trip.ReplacePackingList(t, items)
	return s.saveAndRender(c, t)
}
