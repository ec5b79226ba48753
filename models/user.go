package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleAdmin        UserRole = "admin"
	RoleShopAdmin    UserRole = "shop-admin"
	RoleCompanyAdmin UserRole = "company-admin"
	RoleCompanyStaff UserRole = "company-staff"
	RoleCustomer     UserRole = "customer"
)

// Roles lists every role a user can hold.
var Roles = []UserRole{RoleAdmin, RoleShopAdmin, RoleCompanyAdmin, RoleCompanyStaff, RoleCustomer}

func (r UserRole) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User is a platform account. ShopID is meaningful for shop-admins and CompanyID for
// company-admins and company-staff; nothing below the handlers enforces that.
type User struct {
	ID               string     `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	Name             string     `json:"name" bson:"name" gorm:"not null"`
	Email            string     `json:"email" bson:"email" gorm:"uniqueIndex;not null"`
	PasswordHash     string     `json:"-" bson:"passwordHash" gorm:"not null"`
	Role             UserRole   `json:"role" bson:"role" gorm:"index;not null"`
	Phone            string     `json:"phone" bson:"phone"`
	Address          string     `json:"address" bson:"address"`
	ShopID           string     `json:"shopId,omitempty" bson:"shopId,omitempty" gorm:"index;size:36"`
	CompanyID        string     `json:"companyId,omitempty" bson:"companyId,omitempty" gorm:"index;size:36"`
	WalletBalance    float64    `json:"walletBalance" bson:"walletBalance"`
	IsActive         bool       `json:"isActive" bson:"isActive"`
	ResetToken       string     `json:"-" bson:"resetToken,omitempty" gorm:"index"`
	ResetTokenExpiry *time.Time `json:"-" bson:"resetTokenExpiry,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt" bson:"updatedAt"`
}
