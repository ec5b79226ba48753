package handlers

import (
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/gin-gonic/gin"
)

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

type AssignCompanyRequest struct {
	CompanyID string `json:"companyId" binding:"required"`
}

// GetShopOrders lists a shop's app orders (owning shop-admin or admin)
func (h *Handler) GetShopOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ByShop(c.Request.Context(), middleware.GetActor(c), c.Param("shopId"), statusQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// UpdateOrderStatus moves an order; who may set which status depends on role and ownership
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.svc.Orders.UpdateStatus(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.Status, req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated to " + string(order.Status), "order": order})
}

func (h *Handler) AssignCompany(c *gin.Context) {
	var req AssignCompanyRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.svc.Orders.AssignCompany(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.CompanyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delivery company assigned", "order": order})
}

// AdminGetAllOrders returns every app order, optionally filtered
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	orders, err := h.svc.Orders.List(c.Request.Context(), store.OrderFilter{
		ShopID:     c.Query("shopId"),
		CompanyID:  c.Query("companyId"),
		CustomerID: c.Query("customerId"),
		Status:     statusQuery(c),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

func (h *Handler) AdminDeleteOrder(c *gin.Context) {
	if err := h.svc.Orders.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
