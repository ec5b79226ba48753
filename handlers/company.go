package handlers

import (
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/service"

	"github.com/gin-gonic/gin"
)

type CompanyRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email" binding:"omitempty,email"`
	Photo       string   `json:"photo"`
	ServiceFee  *float64 `json:"serviceFee" binding:"omitempty,gte=0"`
	IsActive    *bool    `json:"isActive"`
	AdminUserID string   `json:"adminUserId" binding:"omitempty,ref"`
}

func (r CompanyRequest) input() service.CompanyInput {
	return service.CompanyInput{
		Name:        r.Name,
		Email:       r.Email,
		Photo:       r.Photo,
		ServiceFee:  r.ServiceFee,
		IsActive:    r.IsActive,
		AdminUserID: r.AdminUserID,
	}
}

type StaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (h *Handler) CreateCompany(c *gin.Context) {
	var req CompanyRequest
	if !bind(c, &req) {
		return
	}
	company, err := h.svc.Companies.Create(c.Request.Context(), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Delivery company created", "company": company})
}

// ListCompanies returns delivery companies; active=true hides inactive ones
func (h *Handler) ListCompanies(c *gin.Context) {
	list, err := h.svc.Companies.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "companies": list})
}

func (h *Handler) GetCompany(c *gin.Context) {
	company, err := h.svc.Companies.Get(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *Handler) UpdateCompany(c *gin.Context) {
	var req CompanyRequest
	if !bind(c, &req) {
		return
	}
	company, err := h.svc.Companies.Update(c.Request.Context(), middleware.GetActor(c), c.Param("companyId"), req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delivery company updated", "company": company})
}

func (h *Handler) DeleteCompany(c *gin.Context) {
	if err := h.svc.Companies.Delete(c.Request.Context(), c.Param("companyId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delivery company deleted"})
}

// GetCompanyStaffs returns the company, its staff and the staff count
func (h *Handler) GetCompanyStaffs(c *gin.Context) {
	list, err := h.svc.Companies.ListStaffs(c.Request.Context(), middleware.GetActor(c), c.Param("companyId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) AddCompanyStaff(c *gin.Context) {
	var req StaffRequest
	if !bind(c, &req) {
		return
	}
	staff, err := h.svc.Companies.AddStaff(c.Request.Context(), middleware.GetActor(c), c.Param("companyId"), service.StaffInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Staff added", "staff": staff})
}
