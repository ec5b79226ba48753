package models

import "time"

// Shop is owned by exactly one shop-admin, linked through User.ShopID.
type Shop struct {
	ID         string    `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	Name       string    `json:"name" bson:"name" gorm:"not null"`
	Photo      string    `json:"photo" bson:"photo"`
	Categories []string  `json:"categories" bson:"categories" gorm:"serializer:json"`
	Address    string    `json:"address" bson:"address"`
	OpenTime   string    `json:"openTime" bson:"openTime"`
	CloseTime  string    `json:"closeTime" bson:"closeTime"`
	IsActive   bool      `json:"isActive" bson:"isActive"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Category is a plain tag for shops and menu items.
type Category struct {
	ID        string    `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" bson:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// AddOn is an optional priced modifier selectable per order line.
type AddOn struct {
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
}

type Menu struct {
	ID          string    `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" bson:"name" gorm:"not null"`
	Price       float64   `json:"price" bson:"price" gorm:"not null"`
	CategoryID  string    `json:"category,omitempty" bson:"category,omitempty" gorm:"index;size:36"`
	Description string    `json:"description" bson:"description"`
	Image       string    `json:"image" bson:"image"`
	IsAvailable bool      `json:"isAvailable" bson:"isAvailable"`
	AddOns      []AddOn   `json:"addOns" bson:"addOns" gorm:"serializer:json"`
	ShopID      string    `json:"shopId" bson:"shopId" gorm:"index;size:36;not null"`
	CreatedBy   string    `json:"createdBy,omitempty" bson:"createdBy,omitempty" gorm:"size:36"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
