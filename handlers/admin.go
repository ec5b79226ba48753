package handlers

import (
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/service"
	"food-ordering-api/store"

	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	RegisterRequest
	ShopID    string `json:"shopId" binding:"omitempty,ref"`
	CompanyID string `json:"companyId" binding:"omitempty,ref"`
}

type UpdateUserRequest struct {
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	Password  string          `json:"password" binding:"omitempty,min=6"`
	Role      models.UserRole `json:"role" binding:"omitempty,role"`
	ShopID    *string         `json:"shopId"`
	CompanyID *string         `json:"companyId"`
	IsActive  *bool           `json:"isActive"`
}

// AdminCreateUser creates an account with any role (admin only)
func (h *Handler) AdminCreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bind(c, &req) {
		return
	}
	user, err := h.svc.Users.Create(c.Request.Context(), service.CreateUserInput{
		RegisterInput: service.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
			Address:  req.Address,
			Role:     req.Role,
		},
		ShopID:    req.ShopID,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created", "user": user})
}

// AdminGetAllUsers lists users, optionally filtered by role, shopId or companyId
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	users, err := h.svc.Users.List(c.Request.Context(), store.UserFilter{
		Role:      models.UserRole(c.Query("role")),
		ShopID:    c.Query("shopId"),
		CompanyID: c.Query("companyId"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// GetUser is open to admins and to the user themself.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.svc.Users.Get(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if !bind(c, &req) {
		return
	}
	user, err := h.svc.Users.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), service.UpdateUserInput{
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		Password:  req.Password,
		Role:      req.Role,
		ShopID:    req.ShopID,
		CompanyID: req.CompanyID,
		IsActive:  req.IsActive,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated", "user": user})
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	if err := h.svc.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
