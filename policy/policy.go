// Package policy decides whether an actor may perform an action on a resource.
// Every role and ownership comparison the services need lives here.
package policy

import (
	"food-ordering-api/errs"
	"food-ordering-api/models"
)

// Actor is the authenticated caller, taken from the bearer token.
type Actor struct {
	ID        string          `json:"_id"`
	Role      models.UserRole `json:"role"`
	ShopID    string          `json:"shopId,omitempty"`
	CompanyID string          `json:"companyId,omitempty"`
}

// Resource carries the scope ids of the target document. Unset fields never match.
type Resource struct {
	UserID     string
	CustomerID string
	ShopID     string
	CompanyID  string
	StaffID    string
}

type Action string

const (
	ManageCategories     Action = "manage categories"
	ManageShop           Action = "manage this shop"
	ManageMenu           Action = "manage this menu"
	ViewShopOrders       Action = "view this shop's orders"
	UpdateShopStatus     Action = "update this order"
	AssignCompany        Action = "assign a delivery company to this order"
	AssignStaff          Action = "assign delivery staff to this order"
	UpdateDeliveryStatus Action = "update the delivery status of this order"
	ViewOrder            Action = "view this order"
	CancelOwnOrder       Action = "cancel this order"
	PayOrder             Action = "pay for this order"
	DeleteOrder          Action = "delete orders"
	ManageCompany        Action = "manage this delivery company"
	ViewCompany          Action = "view this delivery company"
	ViewCompanyOrders    Action = "view this company's orders"
	CreatePhoneOrder     Action = "create phone orders for this shop"
	ManageUser           Action = "manage this user"
	ViewStaffLocation    Action = "view this staff member's location"
	PublishLocation      Action = "share a location"
)

type grant struct {
	role  models.UserRole
	allow func(a Actor, r Resource) bool
}

func ownsShop(a Actor, r Resource) bool {
	return a.ShopID != "" && a.ShopID == r.ShopID
}

func ownsCompany(a Actor, r Resource) bool {
	return a.CompanyID != "" && a.CompanyID == r.CompanyID
}

func isCustomer(a Actor, r Resource) bool {
	return a.ID != "" && a.ID == r.CustomerID
}

func isStaff(a Actor, r Resource) bool {
	return a.ID != "" && a.ID == r.StaffID
}

func isSelf(a Actor, r Resource) bool {
	return a.ID != "" && a.ID == r.UserID
}

func anyone(Actor, Resource) bool { return true }

// Admins are allowed everything and are not listed.
var grants = map[Action][]grant{
	ManageCategories: nil,
	ManageShop:       {{models.RoleShopAdmin, ownsShop}},
	ManageMenu:       {{models.RoleShopAdmin, ownsShop}},
	ViewShopOrders:   {{models.RoleShopAdmin, ownsShop}},
	UpdateShopStatus: {{models.RoleShopAdmin, ownsShop}},
	AssignCompany:    {{models.RoleShopAdmin, ownsShop}},
	AssignStaff:      {{models.RoleCompanyAdmin, ownsCompany}},
	UpdateDeliveryStatus: {
		{models.RoleCompanyAdmin, ownsCompany},
		{models.RoleCompanyStaff, isStaff},
	},
	ViewOrder: {
		{models.RoleCustomer, isCustomer},
		{models.RoleShopAdmin, ownsShop},
		{models.RoleCompanyAdmin, ownsCompany},
		{models.RoleCompanyStaff, isStaff},
	},
	CancelOwnOrder: {{models.RoleCustomer, isCustomer}},
	PayOrder:       {{models.RoleCustomer, isCustomer}},
	DeleteOrder:    nil,
	ManageCompany:  {{models.RoleCompanyAdmin, ownsCompany}},
	ViewCompany: {
		{models.RoleCompanyAdmin, ownsCompany},
		{models.RoleCompanyStaff, ownsCompany},
	},
	ViewCompanyOrders: {{models.RoleCompanyAdmin, ownsCompany}},
	CreatePhoneOrder:  {{models.RoleShopAdmin, ownsShop}},
	ManageUser: {
		{models.RoleCustomer, isSelf},
		{models.RoleShopAdmin, isSelf},
		{models.RoleCompanyAdmin, isSelf},
		{models.RoleCompanyStaff, isSelf},
	},
	ViewStaffLocation: {
		{models.RoleCompanyStaff, isSelf},
		{models.RoleCompanyAdmin, ownsCompany},
	},
	PublishLocation: {{models.RoleCompanyStaff, anyone}},
}

// Authorize returns nil when a may perform action on r, a Forbidden error otherwise.
func Authorize(a Actor, action Action, r Resource) error {
	if Allowed(a, action, r) {
		return nil
	}
	return errs.Forbidden("You are not allowed to %s", action)
}

// AuthorizeRole checks only that a's role can ever perform action, before the resource is
// complete enough for Authorize.
func AuthorizeRole(a Actor, action Action) error {
	if a.Role == models.RoleAdmin {
		return nil
	}
	for _, g := range grants[action] {
		if g.role == a.Role {
			return nil
		}
	}
	return errs.Forbidden("You are not allowed to %s", action)
}

func Allowed(a Actor, action Action, r Resource) bool {
	if a.Role == models.RoleAdmin {
		return true
	}
	for _, g := range grants[action] {
		if g.role == a.Role && g.allow(a, r) {
			return true
		}
	}
	return false
}

// OrderResource describes an app order.
func OrderResource(o *models.Order) Resource {
	return Resource{
		CustomerID: o.CustomerID,
		ShopID:     o.ShopID,
		CompanyID:  o.DeliveryCompanyID,
		StaffID:    o.DeliveryStaffID,
	}
}

// PhoneOrderResource describes a phone order.
func PhoneOrderResource(o *models.PhoneCalledOrder) Resource {
	return Resource{
		ShopID:    o.ShopID,
		CompanyID: o.DeliveryCompanyID,
		StaffID:   o.DeliveryStaffID,
	}
}
