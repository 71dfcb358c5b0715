// Package checkout owns the order lifecycle: pending →
// awaiting_verification → paid (or pending → failed by operator action),
// and the creation of exactly one valentine per paid order. All guard
// violations return an error and leave stored state untouched.
package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/pricing"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/services/upi"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/store"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/utils"
)

const (
	// MinTransactionIDLen is a sanity floor for attestation tokens. It
	// filters garbage, it does not verify anything.
	MinTransactionIDLen = 6

	orderIDPrefix = "VAL-"
	tokenLen      = 8
	createRetries = 5
)

type Service struct {
	Orders     store.OrderStore
	Valentines store.ValentineStore
	UPI        *upi.Service

	// Themes are the template names orders may reference.
	Themes []string

	// AutoPublish publishes on attestation. When false the platform runs
	// in manual-verification mode: attested orders queue for an operator.
	AutoPublish bool
}

func (s *Service) knownTheme(theme string) bool {
	for _, t := range s.Themes {
		if t == theme {
			return true
		}
	}
	return false
}

type CreateOrderInput struct {
	Theme    string
	Features []string
	Config   json.RawMessage
	UserID   *uuid.UUID
}

type CreateOrderResult struct {
	Order   *models.Order
	Payment upi.PaymentRef
}

// CreateOrder recomputes the amount from the price table (the client's
// idea of the total is ignored) and persists a pending order.
func (s *Service) CreateOrder(in CreateOrderInput) (*CreateOrderResult, error) {
	if !s.knownTheme(in.Theme) {
		return nil, validationErr("unknown theme: " + in.Theme)
	}

	amount := pricing.Total(in.Theme, in.Features)

	order := &models.Order{
		UserID:   in.UserID,
		Amount:   amount,
		Theme:    in.Theme,
		Features: models.FeaturesJSON(in.Features),
		Config:   configJSON(in.Config),
		Status:   models.OrderStatusPending,
	}

	var err error
	for i := 0; i < createRetries; i++ {
		order.OrderID = orderIDPrefix + utils.NewID(tokenLen)
		err = s.Orders.Create(order)
		if !errors.Is(err, store.ErrDuplicateID) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	log.Printf("[ORDER] %s - ₹%d (%s)", order.OrderID, amount, in.Theme)

	return &CreateOrderResult{
		Order:   order,
		Payment: s.UPI.PaymentRef(order.OrderID, amount),
	}, nil
}

type AttestResult struct {
	Order *models.Order
	// Valentine is set only when the order was auto-published.
	Valentine *models.Valentine
}

// AttestPayment records the buyer's claim of having paid. Allowed only
// from pending; a concurrent second attestation loses with ErrConflict.
// The buyer's final page configuration may ride along and replaces the
// one stored at checkout.
func (s *Service) AttestPayment(orderID, transactionID string, config json.RawMessage) (*AttestResult, error) {
	if len(transactionID) < MinTransactionIDLen {
		return nil, validationErr("invalid transaction id")
	}

	valentineID := utils.NewID(tokenLen)
	now := time.Now()

	order, err := s.Orders.Update(orderID, func(o *models.Order) error {
		if o.Status != models.OrderStatusPending {
			return ErrConflict
		}
		o.TransactionID = transactionID
		o.SubmittedAt = &now
		if config != nil {
			o.Config = configJSON(config)
		}
		if s.AutoPublish {
			o.Status = models.OrderStatusPaid
			o.PaidAt = &now
			o.ValentineID = valentineID
		} else {
			o.Status = models.OrderStatusAwaitingVerification
		}
		return nil
	})
	if err != nil {
		return nil, translateStoreErr(err)
	}

	res := &AttestResult{Order: order}
	if s.AutoPublish {
		v, err := s.ensureValentine(order)
		if err != nil {
			return nil, err
		}
		res.Valentine = v
		log.Printf("[PAID] %s → valentine %s", order.OrderID, v.ValentineID)
	} else {
		log.Printf("[ATTESTED] %s awaiting verification (txn %s)", order.OrderID, transactionID)
	}
	return res, nil
}

// VerifyPayment is the operator confirming an attested payment. Idempotent:
// an already-paid order returns its existing valentine, and a crash between
// the order write and the valentine write heals on the next call because
// the valentine id is written onto the order first.
func (s *Service) VerifyPayment(orderID string) (*models.Valentine, error) {
	current, err := s.Orders.FindByID(orderID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if current.Status == models.OrderStatusPaid {
		return s.ensureValentine(current)
	}
	if current.Status != models.OrderStatusAwaitingVerification {
		return nil, ErrConflict
	}

	valentineID := utils.NewID(tokenLen)
	now := time.Now()
	order, err := s.Orders.Update(orderID, func(o *models.Order) error {
		if o.Status == models.OrderStatusPaid {
			return nil // concurrent verify already won; keep its valentine id
		}
		if o.Status != models.OrderStatusAwaitingVerification {
			return ErrConflict
		}
		o.Status = models.OrderStatusPaid
		o.PaidAt = &now
		o.ValentineID = valentineID
		return nil
	})
	if err != nil {
		return nil, translateStoreErr(err)
	}

	v, err := s.ensureValentine(order)
	if err != nil {
		return nil, err
	}
	log.Printf("[VERIFIED] %s → valentine %s", order.OrderID, v.ValentineID)
	return v, nil
}

// FailOrder abandons an order. Operator action only; there is no automatic
// expiry. Failing an already-failed order is a no-op; a paid order cannot
// be failed.
func (s *Service) FailOrder(orderID string) (*models.Order, error) {
	order, err := s.Orders.Update(orderID, func(o *models.Order) error {
		if o.Status == models.OrderStatusFailed {
			return nil
		}
		if o.Status == models.OrderStatusPaid {
			return ErrConflict
		}
		o.Status = models.OrderStatusFailed
		return nil
	})
	if err != nil {
		return nil, translateStoreErr(err)
	}
	log.Printf("[FAILED] %s", order.OrderID)
	return order, nil
}

type DirectPublishInput struct {
	Theme    string
	Features []string
	Config   json.RawMessage
	UserID   *uuid.UUID
}

// DirectPublish creates a valentine with no backing order (trial and demo
// content). Same id uniqueness and immutability rules as the normal path.
func (s *Service) DirectPublish(in DirectPublishInput) (*models.Valentine, error) {
	if !s.knownTheme(in.Theme) {
		return nil, validationErr("unknown theme: " + in.Theme)
	}

	v := &models.Valentine{
		UserID:   in.UserID,
		Theme:    in.Theme,
		Config:   configJSON(in.Config),
		Features: models.FeaturesJSON(in.Features),
		IsActive: true,
	}

	var err error
	for i := 0; i < createRetries; i++ {
		v.ValentineID = utils.NewID(tokenLen)
		err = s.Valentines.Create(v)
		if !errors.Is(err, store.ErrDuplicateID) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("direct publish: %w", err)
	}
	log.Printf("[PUBLISH] valentine %s (%s, no order)", v.ValentineID, v.Theme)
	return v, nil
}

// PendingOrders is the operator verification queue, oldest attestation
// first.
func (s *Service) PendingOrders() ([]models.Order, error) {
	return s.Orders.FindByStatus(models.OrderStatusAwaitingVerification)
}

// ensureValentine makes the order's valentine exist, creating it from the
// order snapshot if it does not. The order must already carry a
// ValentineID. Safe to call repeatedly.
func (s *Service) ensureValentine(o *models.Order) (*models.Valentine, error) {
	if o.ValentineID == "" {
		return nil, fmt.Errorf("order %s is paid but has no valentine id", o.OrderID)
	}

	v, err := s.Valentines.FindByID(o.ValentineID)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("valentine lookup: %w", err)
	}

	v = &models.Valentine{
		ValentineID: o.ValentineID,
		UserID:      o.UserID,
		OrderID:     o.OrderID,
		Theme:       o.Theme,
		Config:      o.Config,
		Features:    o.Features,
		IsActive:    true,
	}
	if err := s.Valentines.Create(v); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			// lost a race with another verify of the same order
			return s.Valentines.FindByID(o.ValentineID)
		}
		return nil, fmt.Errorf("create valentine: %w", err)
	}
	return v, nil
}

func configJSON(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(raw)
}

func translateStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
