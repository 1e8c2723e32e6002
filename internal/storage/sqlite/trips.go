package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/minhng/tripfund/internal/models"
	"github.com/minhng/tripfund/internal/storage"
)

// CreateTrip persists a new trip with all its ledgers.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (id, short_code, name, destination, start_date, end_date, cover_image_url, manager_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trip.ID, trip.ShortCode, trip.Name, trip.Destination,
		trip.StartDate, trip.EndDate, trip.CoverImageURL, trip.ManagerID, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	if err := insertChildren(ctx, tx, trip); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateTrip replaces the stored trip wholesale. The trip row is updated and
// every child ledger row is deleted and reinserted in one transaction, so the
// stored state always matches the in-memory aggregate exactly.
func (s *SQLiteStore) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE trips SET short_code = ?, name = ?, destination = ?, start_date = ?, end_date = ?, cover_image_url = ?, manager_id = ?
		 WHERE id = ?`,
		trip.ShortCode, trip.Name, trip.Destination, trip.StartDate, trip.EndDate,
		trip.CoverImageURL, trip.ManagerID, trip.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}

	if err := deleteChildren(ctx, tx, trip.ID); err != nil {
		return err
	}
	if err := insertChildren(ctx, tx, trip); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTrip removes a trip; foreign keys cascade to the ledgers.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, tripID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetTrip retrieves a trip by ID, including every ledger.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return s.getTripWhere(ctx, "id = ?", tripID)
}

// GetTripByShortCode retrieves a trip by its share code, falling back to an ID
// lookup so raw-ID links keep working.
func (s *SQLiteStore) GetTripByShortCode(ctx context.Context, code string) (*models.Trip, error) {
	trip, err := s.getTripWhere(ctx, "short_code = ?", code)
	if errors.Is(err, storage.ErrNotFound) {
		return s.getTripWhere(ctx, "id = ?", code)
	}
	return trip, err
}

func (s *SQLiteStore) getTripWhere(ctx context.Context, where string, arg any) (*models.Trip, error) {
	trip := &models.Trip{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, short_code, name, destination, start_date, end_date, cover_image_url, manager_id, created_at
		 FROM trips WHERE `+where, arg,
	).Scan(&trip.ID, &trip.ShortCode, &trip.Name, &trip.Destination,
		&trip.StartDate, &trip.EndDate, &trip.CoverImageURL, &trip.ManagerID, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	if err := s.loadChildren(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// ListTrips returns summaries of every trip, newest first. Summaries carry the
// trip row and participant list but not the ledgers.
func (s *SQLiteStore) ListTrips(ctx context.Context) ([]models.Trip, error) {
	return s.listTripsWhere(ctx, "", nil)
}

// ListTripsByManager returns summaries of one planner's trips, newest first.
func (s *SQLiteStore) ListTripsByManager(ctx context.Context, managerID string) ([]models.Trip, error) {
	return s.listTripsWhere(ctx, "WHERE manager_id = ?", []any{managerID})
}

func (s *SQLiteStore) listTripsWhere(ctx context.Context, where string, args []any) ([]models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, short_code, name, destination, start_date, end_date, cover_image_url, manager_id, created_at
		 FROM trips `+where+` ORDER BY created_at DESC, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var t models.Trip
		if err := rows.Scan(&t.ID, &t.ShortCode, &t.Name, &t.Destination,
			&t.StartDate, &t.EndDate, &t.CoverImageURL, &t.ManagerID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	for i := range trips {
		participants, err := s.loadParticipants(ctx, trips[i].ID)
		if err != nil {
			return nil, err
		}
		trips[i].Participants = participants
	}
	return trips, nil
}

func deleteChildren(ctx context.Context, tx *sql.Tx, tripID string) error {
	// expense_participants and round contributions cascade off their parents.
	for _, stmt := range []string{
		"DELETE FROM trip_participants WHERE trip_id = ?",
		"DELETE FROM contributions WHERE trip_id = ?",
		"DELETE FROM contribution_rounds WHERE trip_id = ?",
		"DELETE FROM expenses WHERE trip_id = ?",
		"DELETE FROM timeline_events WHERE trip_id = ?",
		"DELETE FROM packing_items WHERE trip_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, tripID); err != nil {
			return fmt.Errorf("failed to clear trip ledgers: %w", err)
		}
	}
	return nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, trip *models.Trip) error {
	for i, name := range trip.Participants {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO trip_participants (trip_id, pos, name) VALUES (?, ?, ?)",
			trip.ID, i, name,
		); err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i := range trip.Contributions {
		c := &trip.Contributions[i]
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO contributions (id, trip_id, round_id, pos, participant, amount, paid) VALUES (?, ?, NULL, ?, ?, ?, ?)",
			c.ID, trip.ID, i, c.Participant, c.Amount, c.Paid,
		); err != nil {
			return fmt.Errorf("failed to insert contribution: %w", err)
		}
	}

	for i := range trip.AdditionalContributions {
		round := &trip.AdditionalContributions[i]
		if round.ID == "" {
			round.ID = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO contribution_rounds (id, trip_id, pos, amount, date, description) VALUES (?, ?, ?, ?, ?, ?)",
			round.ID, trip.ID, i, round.Amount, round.Date, round.Description,
		); err != nil {
			return fmt.Errorf("failed to insert contribution round: %w", err)
		}
		for j := range round.Contributions {
			c := &round.Contributions[j]
			if c.ID == "" {
				c.ID = uuid.New().String()
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO contributions (id, trip_id, round_id, pos, participant, amount, paid) VALUES (?, ?, ?, ?, ?, ?, ?)",
				c.ID, trip.ID, round.ID, j, c.Participant, c.Amount, c.Paid,
			); err != nil {
				return fmt.Errorf("failed to insert round contribution: %w", err)
			}
		}
	}

	for i := range trip.Expenses {
		e := &trip.Expenses[i]
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO expenses (id, trip_id, pos, description, amount, paid_by, category, date, paid_from_fund) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			e.ID, trip.ID, i, e.Description, e.Amount, e.PaidBy, e.Category, e.Date, e.PaidFromFund,
		); err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
		for j, name := range e.Participants {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO expense_participants (expense_id, pos, name) VALUES (?, ?, ?)",
				e.ID, j, name,
			); err != nil {
				return fmt.Errorf("failed to insert expense participant: %w", err)
			}
		}
	}

	for i := range trip.Timeline {
		ev := &trip.Timeline[i]
		if ev.ID == "" {
			ev.ID = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO timeline_events (id, trip_id, pos, day, day_title, time, activity, description, location, location_url) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			ev.ID, trip.ID, i, ev.Day, ev.DayTitle, ev.Time, ev.Activity, ev.Description, ev.Location, ev.LocationURL,
		); err != nil {
			return fmt.Errorf("failed to insert timeline event: %w", err)
		}
	}

	for i := range trip.PackingList {
		item := &trip.PackingList[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO packing_items (id, trip_id, pos, item, packed) VALUES (?, ?, ?, ?, ?)",
			item.ID, trip.ID, i, item.Item, item.Packed,
		); err != nil {
			return fmt.Errorf("failed to insert packing item: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, tripID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM trip_participants WHERE trip_id = ? ORDER BY pos", tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return names, nil
}

func (s *SQLiteStore) loadChildren(ctx context.Context, trip *models.Trip) error {
	participants, err := s.loadParticipants(ctx, trip.ID)
	if err != nil {
		return err
	}
	trip.Participants = participants

	// Initial-round contributions.
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, participant, amount, paid FROM contributions WHERE trip_id = ? AND round_id IS NULL ORDER BY pos",
		trip.ID)
	if err != nil {
		return fmt.Errorf("failed to get contributions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c models.Contribution
		if err := rows.Scan(&c.ID, &c.Participant, &c.Amount, &c.Paid); err != nil {
			return fmt.Errorf("failed to scan contribution: %w", err)
		}
		trip.Contributions = append(trip.Contributions, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate contributions: %w", err)
	}

	// Top-up rounds with their contributions.
	roundRows, err := s.db.QueryContext(ctx,
		"SELECT id, amount, date, description FROM contribution_rounds WHERE trip_id = ? ORDER BY pos",
		trip.ID)
	if err != nil {
		return fmt.Errorf("failed to get contribution rounds: %w", err)
	}
	defer roundRows.Close()
	for roundRows.Next() {
		var round models.ContributionRound
		if err := roundRows.Scan(&round.ID, &round.Amount, &round.Date, &round.Description); err != nil {
			return fmt.Errorf("failed to scan contribution round: %w", err)
		}
		trip.AdditionalContributions = append(trip.AdditionalContributions, round)
	}
	if err := roundRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate contribution rounds: %w", err)
	}
	for i := range trip.AdditionalContributions {
		round := &trip.AdditionalContributions[i]
		crows, err := s.db.QueryContext(ctx,
			"SELECT id, participant, amount, paid FROM contributions WHERE round_id = ? ORDER BY pos",
			round.ID)
		if err != nil {
			return fmt.Errorf("failed to get round contributions: %w", err)
		}
		for crows.Next() {
			var c models.Contribution
			if err := crows.Scan(&c.ID, &c.Participant, &c.Amount, &c.Paid); err != nil {
				crows.Close()
				return fmt.Errorf("failed to scan round contribution: %w", err)
			}
			round.Contributions = append(round.Contributions, c)
		}
		crows.Close()
		if err := crows.Err(); err != nil {
			return fmt.Errorf("failed to iterate round contributions: %w", err)
		}
	}

	// Expenses with their beneficiaries.
	expRows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount, paid_by, category, date, paid_from_fund FROM expenses WHERE trip_id = ? ORDER BY pos",
		trip.ID)
	if err != nil {
		return fmt.Errorf("failed to get expenses: %w", err)
	}
	defer expRows.Close()
	for expRows.Next() {
		var e models.Expense
		if err := expRows.Scan(&e.ID, &e.Description, &e.Amount, &e.PaidBy, &e.Category, &e.Date, &e.PaidFromFund); err != nil {
			return fmt.Errorf("failed to scan expense: %w", err)
		}
		trip.Expenses = append(trip.Expenses, e)
	}
	if err := expRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expenses: %w", err)
	}
	for i := range trip.Expenses {
		e := &trip.Expenses[i]
		prows, err := s.db.QueryContext(ctx,
			"SELECT name FROM expense_participants WHERE expense_id = ? ORDER BY pos", e.ID)
		if err != nil {
			return fmt.Errorf("failed to get expense participants: %w", err)
		}
		for prows.Next() {
			var name string
			if err := prows.Scan(&name); err != nil {
				prows.Close()
				return fmt.Errorf("failed to scan expense participant: %w", err)
			}
			e.Participants = append(e.Participants, name)
		}
		prows.Close()
		if err := prows.Err(); err != nil {
			return fmt.Errorf("failed to iterate expense participants: %w", err)
		}
	}

	// Timeline.
	evRows, err := s.db.QueryContext(ctx,
		"SELECT id, day, day_title, time, activity, description, location, location_url FROM timeline_events WHERE trip_id = ? ORDER BY pos",
		trip.ID)
	if err != nil {
		return fmt.Errorf("failed to get timeline: %w", err)
	}
	defer evRows.Close()
	for evRows.Next() {
		var ev models.TimelineEvent
		if err := evRows.Scan(&ev.ID, &ev.Day, &ev.DayTitle, &ev.Time, &ev.Activity, &ev.Description, &ev.Location, &ev.LocationURL); err != nil {
			return fmt.Errorf("failed to scan timeline event: %w", err)
		}
		trip.Timeline = append(trip.Timeline, ev)
	}
	if err := evRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate timeline: %w", err)
	}

	// Packing list.
	pkRows, err := s.db.QueryContext(ctx,
		"SELECT id, item, packed FROM packing_items WHERE trip_id = ? ORDER BY pos", trip.ID)
	if err != nil {
		return fmt.Errorf("failed to get packing list: %w", err)
	}
	defer pkRows.Close()
	for pkRows.Next() {
		var item models.PackingItem
		if err := pkRows.Scan(&item.ID, &item.Item, &item.Packed); err != nil {
			return fmt.Errorf("failed to scan packing item: %w", err)
		}
		trip.PackingList = append(trip.PackingList, item)
	}
	if err := pkRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate packing list: %w", err)
	}

	return nil
}
