package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/minhng/tripfund/internal/models"
	"github.com/minhng/tripfund/internal/settlement"
	"github.com/minhng/tripfund/internal/trip"
)

// handleGetSettlement serves the trip's financial view: fund balance,
// per-person net positions and the suggested settle-up payments. The view is
// recomputed from the ledgers on every call.
func (s *Server) handleGetSettlement(c *fiber.Ctx) error {
	t, err := s.store.GetTripByShortCode(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	res := settlement.Compute(t)
	settlementsComputed.Inc()
	return c.JSON(toSettlementView(t, res))
}

func (s *Server) handleSuggestTimeline(c *fiber.Ctx) error {
	t, err := s.store.GetTripByShortCode(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	targetDay := c.QueryInt("day", 0)
	suggestions := s.suggest.SuggestTimeline(c.Context(),
		t.Destination, trip.DayCount(t), c.Query("interests"), targetDay)
	return c.JSON(fiber.Map{"suggestions": suggestions})
}

func (s *Server) handleSuggestPacking(c *fiber.Ctx) error {
	t, err := s.store.GetTripByShortCode(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	activities := c.Query("activities")
	if activities == "" {
		activities = summarizeActivities(t)
	}
	suggestions := s.suggest.SuggestPacking(c.Context(),
		t.Destination, trip.DayCount(t), activities)
	return c.JSON(fiber.Map{"suggestions": suggestions})
}

// summarizeActivities joins the planned timeline activities into the free-form
// hint the packing suggester takes.
func summarizeActivities(t *models.Trip) string {
	var names []string
	for _, ev := range t.Timeline {
		if ev.Activity != "" {
			names = append(names, ev.Activity)
		}
	}
	if len(names) == 0 {
		return "sightseeing"
	}
	return strings.Join(names, ", ")
}

func (s *Server) handleGetWeather(c *fiber.Ctx) error {
	t, err := s.store.GetTripByShortCode(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(s.weather.Get(c.Context(), t.Destination))
}
