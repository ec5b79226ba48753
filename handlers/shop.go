package handlers

import (
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/service"
	"food-ordering-api/store"

	"github.com/gin-gonic/gin"
)

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type ShopRequest struct {
	Name        string   `json:"name"`
	Photo       string   `json:"photo"`
	Address     string   `json:"address"`
	OpenTime    string   `json:"openTime"`
	CloseTime   string   `json:"closeTime"`
	Categories  []string `json:"categories" binding:"omitempty,dive,ref"`
	IsActive    *bool    `json:"isActive"`
	AdminUserID string   `json:"adminUserId" binding:"omitempty,ref"`
}

func (r ShopRequest) input() service.ShopInput {
	return service.ShopInput{
		Name:        r.Name,
		Photo:       r.Photo,
		Address:     r.Address,
		OpenTime:    r.OpenTime,
		CloseTime:   r.CloseTime,
		Categories:  r.Categories,
		IsActive:    r.IsActive,
		AdminUserID: r.AdminUserID,
	}
}

type MenuRequest struct {
	ShopID      string         `json:"shopId"`
	Name        string         `json:"name"`
	Price       *float64       `json:"price" binding:"omitempty,gte=0"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	IsAvailable *bool          `json:"isAvailable"`
	AddOns      []models.AddOn `json:"addOns"`
}

func (r MenuRequest) input() service.MenuInput {
	return service.MenuInput{
		ShopID:      r.ShopID,
		Name:        r.Name,
		Price:       r.Price,
		CategoryID:  r.Category,
		Description: r.Description,
		Image:       r.Image,
		IsAvailable: r.IsAvailable,
		AddOns:      r.AddOns,
	}
}

// ── Categories ──────────────────────────────────────────────────

func (h *Handler) ListCategories(c *gin.Context) {
	list, err := h.svc.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "categories": list})
}

func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.svc.Catalog.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bind(c, &req) {
		return
	}
	category, err := h.svc.Catalog.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bind(c, &req) {
		return
	}
	category, err := h.svc.Catalog.UpdateCategory(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": category})
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.svc.Catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// ── Shops ───────────────────────────────────────────────────────

// ListShops returns shops (public). Filters: category, search, active=true
func (h *Handler) ListShops(c *gin.Context) {
	shops, err := h.svc.Catalog.ListShops(c.Request.Context(), store.ShopFilter{
		ActiveOnly: c.Query("active") == "true",
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(shops), "shops": shops})
}

func (h *Handler) GetShop(c *gin.Context) {
	shop, err := h.svc.Catalog.GetShop(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shop": shop})
}

// CreateShop is admin only; adminUserId links the shop-admin account
func (h *Handler) CreateShop(c *gin.Context) {
	var req ShopRequest
	if !bind(c, &req) {
		return
	}
	shop, err := h.svc.Catalog.CreateShop(c.Request.Context(), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Shop created", "shop": shop})
}

func (h *Handler) UpdateShop(c *gin.Context) {
	var req ShopRequest
	if !bind(c, &req) {
		return
	}
	shop, err := h.svc.Catalog.UpdateShop(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shop updated", "shop": shop})
}

func (h *Handler) DeleteShop(c *gin.Context) {
	if err := h.svc.Catalog.DeleteShop(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shop deleted"})
}

// ── Menus ───────────────────────────────────────────────────────

// GetShopMenu returns the menu of a shop (public). Filters: category, available=true
func (h *Handler) GetShopMenu(c *gin.Context) {
	menus, err := h.svc.Catalog.ListMenus(c.Request.Context(), c.Param("shopId"), store.MenuFilter{
		CategoryID:    c.Query("category"),
		AvailableOnly: c.Query("available") == "true",
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(menus), "menus": menus})
}

func (h *Handler) GetMenu(c *gin.Context) {
	menu, err := h.svc.Catalog.GetMenu(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": menu})
}

func (h *Handler) CreateMenu(c *gin.Context) {
	var req MenuRequest
	if !bind(c, &req) {
		return
	}
	menu, err := h.svc.Catalog.CreateMenu(c.Request.Context(), middleware.GetActor(c), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu created", "menu": menu})
}

func (h *Handler) UpdateMenu(c *gin.Context) {
	var req MenuRequest
	if !bind(c, &req) {
		return
	}
	menu, err := h.svc.Catalog.UpdateMenu(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu updated", "menu": menu})
}

func (h *Handler) DeleteMenu(c *gin.Context) {
	if err := h.svc.Catalog.DeleteMenu(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu deleted"})
}
