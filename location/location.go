// Package location shares live delivery-staff positions.
package location

import (
	"context"
	"errors"

	"food-ordering-api/models"
)

// ErrNoPosition is returned by Latest when the staff member has not shared a position recently.
var ErrNoPosition = errors.New("no recent location for this staff member")

type Tracker interface {
	Publish(ctx context.Context, loc models.StaffLocation) error
	Latest(ctx context.Context, staffID string) (*models.StaffLocation, error)
	// Subscribe delivers every position published for staffID until cancel is called or ctx ends.
	Subscribe(ctx context.Context, staffID string) (<-chan models.StaffLocation, func())
}

func key(staffID string) string {
	return "location:" + staffID
}
