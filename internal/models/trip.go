package models

// Trip represents one planned trip: who is going, the shared fund they pay
// into, what has been spent, and the itinerary around it.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// ShortCode is the human-shareable identifier, e.g. "paris-a3x7k2".
	// Assigned at creation time; uniqueness is best-effort.
	ShortCode string

	// Name is the display name of the trip.
	Name string

	// Destination is the place the trip goes to. Also the slug source for
	// ShortCode.
	Destination string

	// StartDate and EndDate are YYYY-MM-DD strings.
	StartDate string
	EndDate   string

	// CoverImageURL is an optional image for the trip header.
	CoverImageURL string

	// ManagerID is the user ID of the planner who owns this trip.
	ManagerID string

	// Participants is the ordered list of participant names. Names are
	// unique within a trip and referenced by every ledger record below.
	Participants []string

	// Contributions is the initial fund-raising round, flattened: at most
	// one Contribution per participant.
	Contributions []Contribution

	// AdditionalContributions holds every top-up round after the initial
	// one.
	AdditionalContributions []ContributionRound

	// Expenses is the spending ledger.
	Expenses []Expense

	// Timeline is the day-by-day itinerary.
	Timeline []TimelineEvent

	// PackingList is the shared packing checklist.
	PackingList []PackingItem

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}
