package models

// TimelineEvent is one activity on the trip itinerary.
type TimelineEvent struct {
	ID          string
	Day         int    // 1-based day number within the trip
	DayTitle    string // optional custom title for the day
	Time        string // display time, e.g. "09:00"
	Activity    string
	Description string
	Location    string
	LocationURL string // full map link, optional
}

// PackingItem is one entry on the shared packing checklist.
type PackingItem struct {
	ID     string
	Item   string
	Packed bool
}
