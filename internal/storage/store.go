// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/minhng/tripfund/internal/models"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for trip and user storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the handler layer.
type Store interface {
	// CreateTrip persists a new trip with all its ledgers. ID and CreatedAt
	// are populated by the store when unset.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip by its ID, including every ledger.
	// Returns ErrNotFound if the trip does not exist.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// GetTripByShortCode retrieves a trip by its share code, falling back to
	// an ID lookup so old links with raw IDs keep working.
	GetTripByShortCode(ctx context.Context, code string) (*models.Trip, error)

	// UpdateTrip replaces the stored trip wholesale: the trip row and every
	// child ledger row are rewritten in one transaction. Last write wins.
	UpdateTrip(ctx context.Context, trip *models.Trip) error

	// DeleteTrip removes a trip and all its ledgers.
	DeleteTrip(ctx context.Context, tripID string) error

	// ListTrips returns summaries of every trip, newest first.
	ListTrips(ctx context.Context) ([]models.Trip, error)

	// ListTripsByManager returns summaries of the trips owned by one planner,
	// newest first.
	ListTripsByManager(ctx context.Context, managerID string) ([]models.Trip, error)

	// CreateUser inserts a new planner account. ID and CreatedAt are
	// populated by the store when unset.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
