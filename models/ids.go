package models

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh document identifier.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id has the identifier format.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func ensure(id *string) string {
	if *id == "" {
		*id = NewID()
	}
	return *id
}

func (u *User) EnsureID() string               { return ensure(&u.ID) }
func (s *Shop) EnsureID() string               { return ensure(&s.ID) }
func (c *Category) EnsureID() string           { return ensure(&c.ID) }
func (m *Menu) EnsureID() string               { return ensure(&m.ID) }
func (c *DeliveryCompany) EnsureID() string    { return ensure(&c.ID) }
func (o *Order) EnsureID() string              { return ensure(&o.ID) }
func (o *PhoneCalledOrder) EnsureID() string   { return ensure(&o.ID) }
func (h *OrderStatusHistory) EnsureID() string { return ensure(&h.ID) }

func stamp(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

// Stamp sets the timestamps gorm maintains on its own; the document store calls it.
func (u *User) Stamp(now time.Time)             { stamp(&u.CreatedAt, &u.UpdatedAt, now) }
func (s *Shop) Stamp(now time.Time)             { stamp(&s.CreatedAt, &s.UpdatedAt, now) }
func (c *Category) Stamp(now time.Time)         { stamp(&c.CreatedAt, &c.UpdatedAt, now) }
func (m *Menu) Stamp(now time.Time)             { stamp(&m.CreatedAt, &m.UpdatedAt, now) }
func (c *DeliveryCompany) Stamp(now time.Time)  { stamp(&c.CreatedAt, &c.UpdatedAt, now) }
func (o *Order) Stamp(now time.Time)            { stamp(&o.CreatedAt, &o.UpdatedAt, now) }
func (o *PhoneCalledOrder) Stamp(now time.Time) { stamp(&o.CreatedAt, &o.UpdatedAt, now) }
func (h *OrderStatusHistory) Stamp(now time.Time) {
	stamp(&h.CreatedAt, nil, now)
}
