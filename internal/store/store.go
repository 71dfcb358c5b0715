// Package store is the persistence contract for the platform. Two
// interchangeable backends implement it: postgres via GORM for normal
// deployments, and flat JSON files for single-box installs without a
// database (selected by leaving DB_DSN empty). Every operation is atomic
// at single-record granularity; there are no cross-record transactions.
package store

import (
	"errors"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("store: record not found")
	ErrDuplicateID = errors.New("store: duplicate id")
)

type OrderStore interface {
	// Create persists a new order. ErrDuplicateID if the OrderID is taken;
	// the caller regenerates the id and retries.
	Create(o *models.Order) error
	FindByID(orderID string) (*models.Order, error)
	// FindByOwner returns the owner's orders, newest first.
	FindByOwner(userID uuid.UUID) ([]models.Order, error)
	// FindByStatus returns orders in the given status, oldest submission
	// first (the admin verification queue ordering).
	FindByStatus(status models.OrderStatus) ([]models.Order, error)
	// Update applies mutate to the stored record atomically. If mutate
	// returns an error nothing is written and that error is returned.
	Update(orderID string, mutate func(*models.Order) error) (*models.Order, error)
	CountByStatus() (map[models.OrderStatus]int64, error)
	// PaidRevenue is the sum of Amount over paid orders.
	PaidRevenue() (int64, error)
}

type ValentineStore interface {
	Create(v *models.Valentine) error
	FindByID(valentineID string) (*models.Valentine, error)
	FindByOwner(userID uuid.UUID) ([]models.Valentine, error)
	// IncrementViews bumps the view counter by one. Best-effort analytics;
	// concurrent serves may race without harm beyond an off-by-one count.
	IncrementViews(valentineID string) error
	Count() (int64, error)
	TotalViews() (int64, error)
}

type UserStore interface {
	// Create persists a new user. ErrDuplicateID if the email is taken.
	Create(u *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	Count() (int64, error)
}

// Stores bundles the three collections a backend provides.
type Stores struct {
	Orders     OrderStore
	Valentines ValentineStore
	Users      UserStore
}
