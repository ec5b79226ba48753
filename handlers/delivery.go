package handlers

import (
	"io"
	"net/http"
	"time"

	"food-ordering-api/middleware"
	"food-ordering-api/service"

	"github.com/gin-gonic/gin"
)

const streamKeepAlive = 20 * time.Second

type AssignStaffRequest struct {
	StaffID string `json:"staffId" binding:"required"`
}

type LocationRequest struct {
	Lat     *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lng     *float64 `json:"lng" binding:"required,gte=-180,lte=180"`
	Heading float64  `json:"heading"`
}

// GetCompanyOrders lists app orders of the caller's delivery company
func (h *Handler) GetCompanyOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ByCompany(c.Request.Context(), middleware.GetActor(c), statusQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetMyDeliveries lists app orders assigned to the calling staff member
func (h *Handler) GetMyDeliveries(c *gin.Context) {
	orders, err := h.svc.Orders.ByStaff(c.Request.Context(), middleware.GetActor(c), statusQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

func (h *Handler) AssignStaff(c *gin.Context) {
	var req AssignStaffRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.svc.Orders.AssignStaff(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.StaffID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delivery staff assigned", "order": order})
}

// PublishLocation stores the calling staff member's position
func (h *Handler) PublishLocation(c *gin.Context) {
	var req LocationRequest
	if !bind(c, &req) {
		return
	}
	loc, err := h.svc.Locations.Publish(c.Request.Context(), middleware.GetActor(c), service.PositionInput{
		Lat:     *req.Lat,
		Lng:     *req.Lng,
		Heading: req.Heading,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location updated", "location": loc})
}

func (h *Handler) GetStaffLocation(c *gin.Context) {
	loc, err := h.svc.Locations.Staff(c.Request.Context(), middleware.GetActor(c), c.Param("staffId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

// GetOrderLocation returns where the delivery staff of an order currently is
func (h *Handler) GetOrderLocation(c *gin.Context) {
	loc, err := h.svc.Orders.Location(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

// StreamOrderLocation pushes position updates as server-sent events until the client leaves.
func (h *Handler) StreamOrderLocation(c *gin.Context) {
	ctx := c.Request.Context()
	actor := middleware.GetActor(c)
	updates, cancel, err := h.svc.Orders.StreamLocation(ctx, actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer cancel()

	if loc, err := h.svc.Orders.Location(ctx, actor, c.Param("id")); err == nil {
		c.SSEvent("location", loc)
		c.Writer.Flush()
	}

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case loc, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("location", loc)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}
