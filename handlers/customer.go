package handlers

import (
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/pricing"
	"food-ordering-api/service"

	"github.com/gin-gonic/gin"
)

type PlaceOrderRequest struct {
	ShopID           string             `json:"shopId"`
	Items            []pricing.CartLine `json:"items"`
	DeliveryAddress  string             `json:"deliveryAddress"`
	PaymentMethod    string             `json:"paymentMethod"`
	PaymentReference string             `json:"paymentReference"`
}

type PayRequest struct {
	PaymentMethod    string `json:"paymentMethod"`
	PaymentReference string `json:"paymentReference"`
}

// PlaceOrder creates a new order (customer only)
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.svc.Orders.Create(c.Request.Context(), middleware.GetActor(c), service.CreateOrderInput{
		ShopID:           req.ShopID,
		Items:            req.Items,
		DeliveryAddress:  req.DeliveryAddress,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

// GetMyOrders returns all orders for the logged-in customer
func (h *Handler) GetMyOrders(c *gin.Context) {
	orders, err := h.svc.Orders.Mine(c.Request.Context(), middleware.GetActor(c), statusQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail is open to everyone the order concerns
func (h *Handler) GetOrderDetail(c *gin.Context) {
	order, err := h.svc.Orders.Get(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) GetOrderHistory(c *gin.Context) {
	history, err := h.svc.Orders.History(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(history), "history": history})
}

// PayOrder records a mock card or KPay payment
func (h *Handler) PayOrder(c *gin.Context) {
	var req PayRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.svc.Orders.Pay(c.Request.Context(), middleware.GetActor(c), c.Param("id"), service.PayInput{
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded", "order": order})
}
