package trip

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/minhng/tripfund/internal/models"
)

// ReplaceTimeline swaps the whole itinerary, assigning ids to new events.
func ReplaceTimeline(t *models.Trip, events []models.TimelineEvent) {
	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.New().String()
		}
	}
	t.Timeline = events
}

// ReplacePackingList swaps the whole packing checklist, assigning ids to new
// items.
func ReplacePackingList(t *models.Trip, items []models.PackingItem) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
	}
	t.PackingList = items
}

// EnsureTimeline fills an empty itinerary with one placeholder event per trip
// day so the timeline view always has a row to edit.
func EnsureTimeline(t *models.Trip) {
	if len(t.Timeline) > 0 {
		return
	}
	days := DayCount(t)
	for day := 1; day <= days; day++ {
		t.Timeline = append(t.Timeline, models.TimelineEvent{
			ID:       uuid.New().String(),
			Day:      day,
			DayTitle: fmt.Sprintf("Day %d", day),
			Time:     "09:00",
			Activity: "No activity yet",
		})
	}
}
