package handlers

import (
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/service"

	"github.com/gin-gonic/gin"
)

type PhoneItemRequest struct {
	MenuID   string `json:"menuId"`
	Quantity any    `json:"quantity"`
}

type PhoneOrderRequest struct {
	ShopID          string             `json:"shopId"`
	CustomerName    string             `json:"customerName"`
	CustomerPhone   string             `json:"customerPhone"`
	CustomerAddress string             `json:"customerAddress"`
	DeliveryCompany string             `json:"deliveryCompany"`
	Items           []PhoneItemRequest `json:"items"`
}

// CreatePhoneOrder records an order taken over the phone (shop-admin or admin)
func (h *Handler) CreatePhoneOrder(c *gin.Context) {
	var req PhoneOrderRequest
	if !bind(c, &req) {
		return
	}
	items := make([]service.PhoneItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.PhoneItemInput{MenuID: it.MenuID, Quantity: it.Quantity}
	}
	order, err := h.svc.PhoneOrders.Create(c.Request.Context(), middleware.GetActor(c), service.PhoneOrderInput{
		ShopID:            req.ShopID,
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		CustomerAddress:   req.CustomerAddress,
		DeliveryCompanyID: req.DeliveryCompany,
		Items:             items,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Phone order created", "order": order})
}

func (h *Handler) GetPhoneOrder(c *gin.Context) {
	order, err := h.svc.PhoneOrders.Get(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) GetShopPhoneOrders(c *gin.Context) {
	orders, err := h.svc.PhoneOrders.ByShop(c.Request.Context(), middleware.GetActor(c), c.Param("shopId"), statusQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

func (h *Handler) GetCompanyPhoneOrders(c *gin.Context) {
	orders, err := h.svc.PhoneOrders.ByCompany(c.Request.Context(), middleware.GetActor(c), statusQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

func (h *Handler) GetStaffPhoneOrders(c *gin.Context) {
	orders, err := h.svc.PhoneOrders.ByStaff(c.Request.Context(), middleware.GetActor(c), statusQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// AssignPhoneOrderStaff sets the staff; a confirmed order also becomes assigned
func (h *Handler) AssignPhoneOrderStaff(c *gin.Context) {
	var req AssignStaffRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.svc.PhoneOrders.AssignStaff(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.StaffID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delivery staff assigned", "order": order})
}

func (h *Handler) UpdatePhoneOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.svc.PhoneOrders.UpdateStatus(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.Status, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated to " + string(order.Status), "order": order})
}
