package models

import "time"

// OrderStatus represents every stage of both order lifecycles
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusConfirmed OrderStatus = "confirmed" // phone orders start here
	StatusAssigned  OrderStatus = "assigned"
	StatusPickedUp  OrderStatus = "picked-up"
	StatusDelivered OrderStatus = "delivered"
	StatusComplete  OrderStatus = "complete"
	StatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentWallet PaymentMethod = "wallet"
	PaymentKPay   PaymentMethod = "kpay"
)

// PaymentMethods lists the accepted payment methods.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentWallet, PaymentKPay}

type OrderType string

const (
	OrderTypeApp   OrderType = "app"
	OrderTypePhone OrderType = "phone"
)

// LineAddOn is an add-on snapshot taken when the order was placed.
type LineAddOn struct {
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
}

// LineItem is one priced entry of an order. Name and Price are snapshots of the menu.
type LineItem struct {
	MenuID      string      `json:"menu" bson:"menu"`
	Name        string      `json:"name" bson:"name"`
	Price       float64     `json:"price" bson:"price"`
	Quantity    int         `json:"quantity" bson:"quantity"`
	AddOns      []LineAddOn `json:"addOns" bson:"addOns"`
	Note        string      `json:"note" bson:"note"`
	AddOnsTotal float64     `json:"addOnsTotal" bson:"addOnsTotal"`
	LineTotal   float64     `json:"lineTotal" bson:"lineTotal"`
}

// Order is an order placed by a customer through the app.
type Order struct {
	ID                string        `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	CustomerID        string        `json:"customer" bson:"customer" gorm:"index;size:36;not null"`
	ShopID            string        `json:"shop" bson:"shop" gorm:"index;size:36;not null"`
	Items             []LineItem    `json:"items" bson:"items" gorm:"serializer:json"`
	TotalAmount       float64       `json:"totalAmount" bson:"totalAmount"`
	Status            OrderStatus   `json:"status" bson:"status" gorm:"index;not null"`
	DeliveryCompanyID string        `json:"deliveryCompany,omitempty" bson:"deliveryCompany,omitempty" gorm:"index;size:36"`
	DeliveryStaffID   string        `json:"deliveryStaff,omitempty" bson:"deliveryStaff,omitempty" gorm:"index;size:36"`
	DeliveryAddress   string        `json:"deliveryAddress" bson:"deliveryAddress"`
	PaymentMethod     PaymentMethod `json:"paymentMethod" bson:"paymentMethod"`
	PaymentReference  string        `json:"paymentReference" bson:"paymentReference"`
	Paid              bool          `json:"isPaid" bson:"isPaid"`
	PaidAt            *time.Time    `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	WalletDebitedAt   *time.Time    `json:"walletDebitedAt,omitempty" bson:"walletDebitedAt,omitempty"`
	WalletRefundedAt  *time.Time    `json:"walletRefundedAt,omitempty" bson:"walletRefundedAt,omitempty"`
	CreatedAt         time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// PhoneLineItem is a call-center line: no add-ons, no notes.
type PhoneLineItem struct {
	MenuID   string  `json:"menu" bson:"menu"`
	Name     string  `json:"name" bson:"name"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"`
}

// PhoneCalledOrder is placed by shop staff on behalf of a caller without an account.
type PhoneCalledOrder struct {
	ID                string          `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	CustomerName      string          `json:"customerName" bson:"customerName" gorm:"not null"`
	CustomerPhone     string          `json:"customerPhone" bson:"customerPhone" gorm:"not null"`
	CustomerAddress   string          `json:"customerAddress" bson:"customerAddress" gorm:"not null"`
	DeliveryCompanyID string          `json:"deliveryCompany" bson:"deliveryCompany" gorm:"index;size:36;not null"`
	Items             []PhoneLineItem `json:"items" bson:"items" gorm:"serializer:json"`
	TotalItems        int             `json:"totalItems" bson:"totalItems"`
	TotalAmount       float64         `json:"totalAmount" bson:"totalAmount"`
	ShopID            string          `json:"shop" bson:"shop" gorm:"index;size:36;not null"`
	CreatedBy         string          `json:"createdBy" bson:"createdBy" gorm:"size:36"`
	OrderType         OrderType       `json:"orderType" bson:"orderType"`
	Status            OrderStatus     `json:"status" bson:"status" gorm:"index;not null"`
	DeliveryStaffID   string          `json:"deliveryStaff,omitempty" bson:"deliveryStaff,omitempty" gorm:"index;size:36"`
	CreatedAt         time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// OrderStatusHistory tracks every status change of either order type
type OrderStatusHistory struct {
	ID         string      `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	OrderID    string      `json:"orderId" bson:"orderId" gorm:"index;size:36;not null"`
	OrderType  OrderType   `json:"orderType" bson:"orderType"`
	FromStatus OrderStatus `json:"fromStatus" bson:"fromStatus"`
	ToStatus   OrderStatus `json:"toStatus" bson:"toStatus" gorm:"not null"`
	ChangedBy  string      `json:"changedBy" bson:"changedBy"` // user ID who triggered the transition
	Note       string      `json:"note" bson:"note"`
	CreatedAt  time.Time   `json:"createdAt" bson:"createdAt"`
}
