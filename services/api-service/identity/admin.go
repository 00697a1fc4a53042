package identity

import (
	"context"
	"errors"
	"strings"

	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/services/api-service/access"
	"rakshak-women-safety/services/api-service/models"
	"rakshak-women-safety/services/api-service/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requireAdmin(actor models.Actor) error {
	if !access.CanManageUsers(actor) {
		return apperror.Authorization("Only admins can manage accounts")
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, actor models.Actor) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch users")
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

type PoliceInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	DivisionID *primitive.ObjectID
}

func (s *Service) ensureDivision(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.divisions.FindDivision(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("Division not found")
	}
	if err != nil {
		return apperror.Internal(err, "Failed to load division")
	}
	return nil
}

// CreatePolice creates an officer account and, when a division is given,
// enrolls the officer in it.
func (s *Service) CreatePolice(ctx context.Context, actor models.Actor, in PoliceInput) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	if err := validateAccount(in.Name, email, in.Password, in.Phone); err != nil {
		return nil, err
	}
	if in.DivisionID != nil {
		if err := s.ensureDivision(ctx, *in.DivisionID); err != nil {
			return nil, err
		}
	}

	officer, err := s.newAccount(ctx, in.Name, email, in.Password, in.Phone, models.RolePolice)
	if err != nil {
		return nil, err
	}
	if in.DivisionID != nil {
		if err := s.membership.Transfer(ctx, officer, in.DivisionID); err != nil {
			return nil, err
		}
	}
	return s.load(ctx, officer.ID)
}

type UserUpdate struct {
	Name       *string
	Email      *string
	Phone      *string
	Role       *models.Role
	DivisionID *primitive.ObjectID
	Active     *bool
}

// UpdateUser applies an admin edit. Promotion to police requires a
// division, and an account that stops being police leaves its division.
func (s *Service) UpdateUser(ctx context.Context, actor models.Actor, id primitive.ObjectID, in UserUpdate) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	role := user.Role
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperror.Validation("Invalid role")
		}
		role = *in.Role
	}
	promoted := role == models.RolePolice && user.Role != models.RolePolice
	if promoted && in.DivisionID == nil && user.Division == nil {
		return nil, apperror.Validation("Police officers must be assigned to a division")
	}
	if in.DivisionID != nil {
		if role != models.RolePolice {
			return nil, apperror.Validation("Only police officers can belong to a division")
		}
		if err := s.ensureDivision(ctx, *in.DivisionID); err != nil {
			return nil, err
		}
	}

	patch := models.UserPatch{Role: in.Role, Active: in.Active}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		name := strings.TrimSpace(*in.Name)
		patch.Name = &name
	}
	if in.Phone != nil && strings.TrimSpace(*in.Phone) != "" {
		phone := strings.TrimSpace(*in.Phone)
		patch.Phone = &phone
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		email := normalizeEmail(*in.Email)
		if !models.ValidEmail(email) {
			return nil, apperror.Validation("Invalid email address")
		}
		patch.Email = &email
	}

	updated, err := s.users.UpdateUser(ctx, id, patch)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return nil, apperror.Conflict("Email already in use")
	case errors.Is(err, store.ErrNotFound):
		return nil, apperror.NotFound("User not found")
	case err != nil:
		return nil, apperror.Internal(err, "Failed to update user")
	}

	target := updated.Division
	if in.DivisionID != nil {
		target = in.DivisionID
	}
	if role != models.RolePolice {
		target = nil
	}
	if err := s.membership.Transfer(ctx, updated, target); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// DeleteUser removes an account, detaching officers from their division first.
func (s *Service) DeleteUser(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if s.privilegedEmail != "" && strings.EqualFold(user.Email, s.privilegedEmail) {
		return apperror.Conflict("Cannot delete the main admin account")
	}

	if user.Division != nil {
		if err := s.membership.Transfer(ctx, user, nil); err != nil {
			return err
		}
	}

	err = s.users.DeleteUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("User not found")
	}
	if err != nil {
		return apperror.Internal(err, "Failed to delete user")
	}
	return nil
}
