package service

import (
	"context"
	"errors"
	"time"

	"food-ordering-api/errs"
	"food-ordering-api/location"
	"food-ordering-api/models"
	"food-ordering-api/policy"
	"food-ordering-api/store"

	"go.uber.org/zap"
)

type LocationService struct {
	users   store.UserRepository
	tracker location.Tracker
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewLocationService(users store.UserRepository, tracker location.Tracker, logger *zap.SugaredLogger) *LocationService {
	return &LocationService{users: users, tracker: tracker, logger: logger, now: time.Now}
}

type PositionInput struct {
	Lat     float64
	Lng     float64
	Heading float64
}

// Publish shares the caller's own position.
func (s *LocationService) Publish(ctx context.Context, actor policy.Actor, in PositionInput) (*models.StaffLocation, error) {
	if err := policy.Authorize(actor, policy.PublishLocation, policy.Resource{UserID: actor.ID}); err != nil {
		return nil, err
	}
	if in.Lat < -90 || in.Lat > 90 || in.Lng < -180 || in.Lng > 180 {
		return nil, errs.Invalid("lat must be within [-90, 90] and lng within [-180, 180]")
	}
	loc := models.StaffLocation{
		StaffID:   actor.ID,
		CompanyID: actor.CompanyID,
		Lat:       in.Lat,
		Lng:       in.Lng,
		Heading:   in.Heading,
		UpdatedAt: s.now(),
	}
	if err := s.tracker.Publish(ctx, loc); err != nil {
		return nil, errs.Internal(err)
	}
	return &loc, nil
}

// Staff returns the last shared position of a staff member.
func (s *LocationService) Staff(ctx context.Context, actor policy.Actor, staffID string) (*models.StaffLocation, error) {
	staff, err := fetch(ctx, s.users.GetByID, staffID, "Staff")
	if err != nil {
		return nil, err
	}
	if staff.Role != models.RoleCompanyStaff {
		return nil, errs.NotFound("Staff not found")
	}
	r := policy.Resource{UserID: staff.ID, CompanyID: staff.CompanyID}
	if err := policy.Authorize(actor, policy.ViewStaffLocation, r); err != nil {
		return nil, err
	}
	loc, err := s.tracker.Latest(ctx, staff.ID)
	if errors.Is(err, location.ErrNoPosition) {
		return nil, errs.NotFound("%s", err.Error())
	}
	if err != nil {
		return nil, errs.Internal(err)
	}
	return loc, nil
}
