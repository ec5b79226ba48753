package statemachine

import (
	"fmt"

	"food-ordering-api/models"
)

type Event string

const EventAssignStaff Event = "assign-staff"

// Outcome is what firing an event does to an order.
type Outcome struct {
	SetStaff  bool               `json:"setStaff"`
	NewStatus models.OrderStatus `json:"newStatus,omitempty"` // empty leaves status alone
}

// Rule is one guarded row of the event table. Rules are tried in order.
type Rule struct {
	Event   Event            `json:"event"`
	Type    models.OrderType `json:"type"`
	Guard   string           `json:"guard"`
	Outcome Outcome          `json:"effect"`

	when func(models.OrderStatus) bool
}

func statusIs(s models.OrderStatus) func(models.OrderStatus) bool {
	return func(cur models.OrderStatus) bool { return cur == s }
}

func always(models.OrderStatus) bool { return true }

var rules = []Rule{
	{
		Event: EventAssignStaff, Type: models.OrderTypePhone, Guard: "status == confirmed",
		Outcome: Outcome{SetStaff: true, NewStatus: models.StatusAssigned},
		when:    statusIs(models.StatusConfirmed),
	},
	{
		Event: EventAssignStaff, Type: models.OrderTypePhone, Guard: "status != confirmed",
		Outcome: Outcome{SetStaff: true},
		when:    always,
	},
	{
		Event: EventAssignStaff, Type: models.OrderTypeApp, Guard: "always",
		Outcome: Outcome{SetStaff: true},
		when:    always,
	},
}

// Fire returns the outcome of event on an order of type t in status current.
func Fire(event Event, t models.OrderType, current models.OrderStatus) (Outcome, error) {
	for _, r := range rules {
		if r.Event == event && r.Type == t && r.when(current) {
			return r.Outcome, nil
		}
	}
	return Outcome{}, fmt.Errorf("no %s rule for %s order in status %s", event, t, current)
}

// Rules returns the event table for documentation.
func Rules() []Rule {
	return rules
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}

// Description is the public summary of both lifecycles.
type Description struct {
	Statuses       map[models.OrderType][]models.OrderStatus                     `json:"statuses"`
	Initial        map[models.OrderType]models.OrderStatus                       `json:"initial"`
	TerminalStates []models.OrderStatus                                          `json:"terminalStates"`
	Transitions    []Transition                                                  `json:"transitions"`
	RoleStatuses   map[models.OrderType]map[models.UserRole][]models.OrderStatus `json:"roleStatuses"`
	Events         []Rule                                                        `json:"events"`
}

// Describe returns the lifecycle tables. Transitions are only enforced in strict mode.
func Describe() Description {
	d := Description{
		Statuses: map[models.OrderType][]models.OrderStatus{
			models.OrderTypeApp:   OrderStatuses,
			models.OrderTypePhone: PhoneStatuses,
		},
		Initial: map[models.OrderType]models.OrderStatus{
			models.OrderTypeApp:   InitialStatus(models.OrderTypeApp),
			models.OrderTypePhone: InitialStatus(models.OrderTypePhone),
		},
		TerminalStates: []models.OrderStatus{models.StatusComplete, models.StatusCancelled},
		Transitions:    GetAllTransitions(),
		RoleStatuses:   map[models.OrderType]map[models.UserRole][]models.OrderStatus{},
		Events:         Rules(),
	}
	for _, t := range []models.OrderType{models.OrderTypeApp, models.OrderTypePhone} {
		byRole := make(map[models.UserRole][]models.OrderStatus, len(models.Roles))
		initial := InitialStatus(t)
		for _, role := range models.Roles {
			if list := AllowedStatuses(t, role, initial); len(list) > 0 {
				byRole[role] = list
			}
		}
		d.RoleStatuses[t] = byRole
	}
	return d
}
