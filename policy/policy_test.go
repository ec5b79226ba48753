package policy

import (
	"testing"

	"food-ordering-api/errs"
	"food-ordering-api/models"

	"github.com/stretchr/testify/assert"
)

var (
	admin        = Actor{ID: "u-admin", Role: models.RoleAdmin}
	shopAdmin    = Actor{ID: "u-shop", Role: models.RoleShopAdmin, ShopID: "shop-1"}
	companyAdmin = Actor{ID: "u-comp", Role: models.RoleCompanyAdmin, CompanyID: "comp-1"}
	staff        = Actor{ID: "u-staff", Role: models.RoleCompanyStaff, CompanyID: "comp-1"}
	customer     = Actor{ID: "u-cust", Role: models.RoleCustomer}
)

func TestAdminAllowedEverything(t *testing.T) {
	for action := range grants {
		assert.NoError(t, Authorize(admin, action, Resource{}), string(action))
	}
}

func TestShopOwnership(t *testing.T) {
	mine := Resource{ShopID: "shop-1"}
	theirs := Resource{ShopID: "shop-2"}

	assert.NoError(t, Authorize(shopAdmin, ManageMenu, mine))
	err := Authorize(shopAdmin, ManageMenu, theirs)
	assert.True(t, errs.Is(err, errs.KindForbidden))

	assert.False(t, Allowed(Actor{ID: "x", Role: models.RoleShopAdmin}, ManageMenu, Resource{}),
		"an empty scope id must never match")
}

func TestAssignStaffRequiresOwningCompany(t *testing.T) {
	order := &models.Order{ShopID: "shop-1", DeliveryCompanyID: "comp-1"}
	assert.NoError(t, Authorize(companyAdmin, AssignStaff, OrderResource(order)))

	order.DeliveryCompanyID = "comp-2"
	assert.True(t, errs.Is(Authorize(companyAdmin, AssignStaff, OrderResource(order)), errs.KindForbidden))

	order.DeliveryCompanyID = ""
	assert.False(t, Allowed(companyAdmin, AssignStaff, OrderResource(order)))

	assert.False(t, Allowed(shopAdmin, AssignStaff, Resource{ShopID: "shop-1", CompanyID: "comp-1"}))
}

func TestViewOrder(t *testing.T) {
	order := &models.Order{CustomerID: "u-cust", ShopID: "shop-1", DeliveryCompanyID: "comp-1", DeliveryStaffID: "u-staff"}
	r := OrderResource(order)
	for _, a := range []Actor{customer, shopAdmin, companyAdmin, staff} {
		assert.NoError(t, Authorize(a, ViewOrder, r), string(a.Role))
	}
	stranger := Actor{ID: "u-other", Role: models.RoleCustomer}
	assert.Error(t, Authorize(stranger, ViewOrder, r))
}

func TestDeliveryStatusActors(t *testing.T) {
	r := PhoneOrderResource(&models.PhoneCalledOrder{ShopID: "shop-1", DeliveryCompanyID: "comp-1", DeliveryStaffID: "u-staff"})
	assert.NoError(t, Authorize(staff, UpdateDeliveryStatus, r))
	assert.NoError(t, Authorize(companyAdmin, UpdateDeliveryStatus, r))

	otherStaff := Actor{ID: "u-staff-2", Role: models.RoleCompanyStaff, CompanyID: "comp-1"}
	assert.Error(t, Authorize(otherStaff, UpdateDeliveryStatus, r))
	assert.Error(t, Authorize(shopAdmin, UpdateDeliveryStatus, r))
}

func TestDeleteOrderAdminOnly(t *testing.T) {
	err := Authorize(shopAdmin, DeleteOrder, Resource{ShopID: "shop-1"})
	assert.EqualError(t, err, "You are not allowed to delete orders")
}
