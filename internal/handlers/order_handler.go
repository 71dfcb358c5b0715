package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/services/checkout"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/store"
)

type OrderHandler struct {
	Checkout   *checkout.Service
	Orders     store.OrderStore
	Valentines store.ValentineStore
}

func NewOrderHandler(svc *checkout.Service, st store.Stores) *OrderHandler {
	return &OrderHandler{Checkout: svc, Orders: st.Orders, Valentines: st.Valentines}
}

type CreateOrderReq struct {
	Theme    string          `json:"theme"`
	Features []string        `json:"features"`
	Config   json.RawMessage `json:"config"`
	// Amount is accepted from old frontends and ignored; the server
	// recomputes it from the price table.
	Amount int64 `json:"amount"`
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	res, err := h.Checkout.CreateOrder(checkout.CreateOrderInput{
		Theme:    req.Theme,
		Features: req.Features,
		Config:   req.Config,
		UserID:   currentUserID(c),
	})
	if err != nil {
		return respondDomainErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"order_id": res.Order.OrderID,
		"amount":   res.Order.Amount,
		"upi_id":   res.Payment.UPIID,
		"upi_link": res.Payment.UPILink,
		"qr_url":   res.Payment.QRURL,
	})
}

type AttestPaymentReq struct {
	TransactionID string          `json:"transaction_id"`
	Config        json.RawMessage `json:"config"`
}

func (h *OrderHandler) AttestPayment(c *fiber.Ctx) error {
	orderID := c.Params("id")

	var req AttestPaymentReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	res, err := h.Checkout.AttestPayment(orderID, req.TransactionID, req.Config)
	if err != nil {
		return respondDomainErr(c, err)
	}

	if res.Valentine != nil {
		return c.JSON(fiber.Map{
			"success":      true,
			"status":       "paid",
			"order_id":     res.Order.OrderID,
			"valentine_id": res.Valentine.ValentineID,
			"share_url":    shareURL(res.Valentine.ValentineID),
			"message":      "Payment confirmed! Share this link with your loved one! 💕",
		})
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"status":   "pending_verification",
		"order_id": res.Order.OrderID,
		"message":  "Thanks! We'll verify your payment shortly and your link will go live.",
	})
}

func (h *OrderHandler) Status(c *fiber.Ctx) error {
	order, err := h.Orders.FindByID(c.Params("id"))
	if err != nil {
		return respondDomainErr(c, err)
	}

	data := fiber.Map{
		"order_id": order.OrderID,
		"status":   order.Status,
	}
	if order.ValentineID != "" {
		data["valentine_id"] = order.ValentineID
		data["share_url"] = shareURL(order.ValentineID)
	}
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	uid := currentUserID(c)
	if uid == nil {
		return fiber.ErrUnauthorized
	}

	orders, err := h.Orders.FindByOwner(*uid)
	if err != nil {
		return respondDomainErr(c, err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(fiber.Map{"success": true, "data": orders})
}

func (h *OrderHandler) MyValentines(c *fiber.Ctx) error {
	uid := currentUserID(c)
	if uid == nil {
		return fiber.ErrUnauthorized
	}

	valentines, err := h.Valentines.FindByOwner(*uid)
	if err != nil {
		return respondDomainErr(c, err)
	}
	if valentines == nil {
		valentines = []models.Valentine{}
	}
	return c.JSON(fiber.Map{"success": true, "data": valentines})
}

func shareURL(valentineID string) string {
	return "/p/" + valentineID
}
