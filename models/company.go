package models

import "time"

// DeliveryCompany delivers orders for shops. StaffCount is a cached value refreshed when
// staff are added or listed.
type DeliveryCompany struct {
	ID         string    `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	Name       string    `json:"name" bson:"name" gorm:"not null"`
	Email      string    `json:"email" bson:"email" gorm:"uniqueIndex;not null"`
	Photo      string    `json:"photo" bson:"photo"`
	ServiceFee float64   `json:"serviceFee" bson:"serviceFee"`
	StaffCount int       `json:"staffCount" bson:"staffCount"`
	IsActive   bool      `json:"isActive" bson:"isActive"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// StaffLocation is the last position shared by a delivery staff member. It lives in the
// location tracker, not in the database.
type StaffLocation struct {
	StaffID   string    `json:"staffId"`
	CompanyID string    `json:"companyId"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Heading   float64   `json:"heading,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
