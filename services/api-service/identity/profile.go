package identity

import (
	"context"
	"errors"
	"strings"

	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/services/api-service/models"
	"rakshak-women-safety/services/api-service/store"
)

func (s *Service) Profile(ctx context.Context, actor models.Actor) (*models.User, error) {
	return s.load(ctx, actor.ID)
}

type ProfileInput struct {
	Name             *string
	Phone            *string
	Address          *string
	EmergencyContact *string
	ProfilePicture   *string
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

// UpdateProfile edits the caller's own contact details.
func (s *Service) UpdateProfile(ctx context.Context, actor models.Actor, in ProfileInput) (*models.User, error) {
	patch := models.UserPatch{
		Name:             trimmedPtr(in.Name),
		Phone:            trimmedPtr(in.Phone),
		Address:          trimmedPtr(in.Address),
		EmergencyContact: trimmedPtr(in.EmergencyContact),
		ProfilePicture:   trimmedPtr(in.ProfilePicture),
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, apperror.Validation("Name cannot be empty")
	}

	user, err := s.users.UpdateUser(ctx, actor.ID, patch)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to update profile")
	}
	return user, nil
}

// UpdateLocation records the caller's last known position.
func (s *Service) UpdateLocation(ctx context.Context, actor models.Actor, latitude, longitude float64) (*models.Location, error) {
	if !models.ValidCoordinates(latitude, longitude) {
		return nil, apperror.Validation("Invalid latitude or longitude")
	}

	location := models.Location{Latitude: latitude, Longitude: longitude, Timestamp: s.now()}
	user, err := s.users.UpdateUser(ctx, actor.ID, models.UserPatch{CurrentLocation: &location})
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to update location")
	}
	return user.CurrentLocation, nil
}
