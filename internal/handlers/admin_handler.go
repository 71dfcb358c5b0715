package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/services/checkout"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/store"
)

// AdminHandler is everything behind the operator secret: the manual
// verification queue, the order escape hatches and the dashboard stats.
type AdminHandler struct {
	Checkout *checkout.Service
	Stores   store.Stores
}

func NewAdminHandler(svc *checkout.Service, st store.Stores) *AdminHandler {
	return &AdminHandler{Checkout: svc, Stores: st}
}

// VerifyPayment confirms an attested order. Safe against repeated clicks:
// re-verifying a paid order returns the same valentine id with a 200.
func (h *AdminHandler) VerifyPayment(c *fiber.Ctx) error {
	v, err := h.Checkout.VerifyPayment(c.Params("id"))
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"valentine_id": v.ValentineID,
		"share_url":    shareURL(v.ValentineID),
	})
}

func (h *AdminHandler) FailOrder(c *fiber.Ctx) error {
	order, err := h.Checkout.FailOrder(c.Params("id"))
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"order_id": order.OrderID,
		"status":   order.Status,
	})
}

type DirectPublishReq struct {
	Theme    string          `json:"theme"`
	Features []string        `json:"features"`
	Config   json.RawMessage `json:"config"`
}

func (h *AdminHandler) DirectPublish(c *fiber.Ctx) error {
	var req DirectPublishReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	v, err := h.Checkout.DirectPublish(checkout.DirectPublishInput{
		Theme:    req.Theme,
		Features: req.Features,
		Config:   req.Config,
	})
	if err != nil {
		return respondDomainErr(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"valentine_id": v.ValentineID,
		"share_url":    shareURL(v.ValentineID),
	})
}

func (h *AdminHandler) PendingOrders(c *fiber.Ctx) error {
	orders, err := h.Checkout.PendingOrders()
	if err != nil {
		return respondDomainErr(c, err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(fiber.Map{"success": true, "data": orders})
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	counts, err := h.Stores.Orders.CountByStatus()
	if err != nil {
		return respondDomainErr(c, err)
	}
	revenue, err := h.Stores.Orders.PaidRevenue()
	if err != nil {
		return respondDomainErr(c, err)
	}
	valentines, err := h.Stores.Valentines.Count()
	if err != nil {
		return respondDomainErr(c, err)
	}
	views, err := h.Stores.Valentines.TotalViews()
	if err != nil {
		return respondDomainErr(c, err)
	}
	users, err := h.Stores.Users.Count()
	if err != nil {
		return respondDomainErr(c, err)
	}

	var totalOrders int64
	for _, n := range counts {
		totalOrders += n
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_orders":          totalOrders,
			"pending_orders":        counts[models.OrderStatusPending],
			"awaiting_verification": counts[models.OrderStatusAwaitingVerification],
			"paid_orders":           counts[models.OrderStatusPaid],
			"failed_orders":         counts[models.OrderStatusFailed],
			"total_valentines":      valentines,
			"total_users":           users,
			"total_revenue":         revenue,
			"total_views":           views,
		},
	})
}
