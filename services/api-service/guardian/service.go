// Package guardian manages the emergency contacts a user registers for SOS alerts.
package guardian

import (
	"context"
	"errors"
	"strings"
	"time"

	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/pkg/middleware"
	"rakshak-women-safety/services/api-service/access"
	"rakshak-women-safety/services/api-service/models"
	"rakshak-women-safety/services/api-service/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service struct {
	guardians store.Guardians
	users     store.Users
	now       func() time.Time
}

func NewService(guardians store.Guardians, users store.Users) *Service {
	return &Service{guardians: guardians, users: users, now: time.Now}
}

type Input struct {
	Name         string
	Relationship string
	Phone        string
	Email        string
	Address      string
}

func (in Input) trimmed() Input {
	return Input{
		Name:         strings.TrimSpace(in.Name),
		Relationship: strings.TrimSpace(in.Relationship),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		Address:      strings.TrimSpace(in.Address),
	}
}

func (s *Service) List(ctx context.Context, owner models.Actor) ([]models.Guardian, error) {
	guardians, err := s.guardians.ListGuardians(ctx, owner.ID)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch guardians")
	}
	return guardians, nil
}

func (s *Service) Create(ctx context.Context, owner models.Actor, in Input) (*models.Guardian, error) {
	in = in.trimmed()
	if in.Name == "" || in.Relationship == "" || in.Phone == "" || in.Email == "" {
		return nil, apperror.Validation("Name, relationship, phone, and email are required")
	}
	if !models.ValidEmail(in.Email) {
		return nil, apperror.Validation("Invalid guardian email")
	}

	now := s.now()
	guardian := &models.Guardian{
		ID:           primitive.NewObjectID(),
		Name:         in.Name,
		Relationship: in.Relationship,
		Phone:        in.Phone,
		Email:        in.Email,
		Address:      in.Address,
		User:         owner.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.guardians.CreateGuardian(ctx, guardian); err != nil {
		return nil, apperror.Internal(err, "Failed to save guardian")
	}

	if err := s.users.AddGuardianRef(ctx, owner.ID, guardian.ID); err != nil {
		// the guardian record is authoritative for SOS lookups
		middleware.LogWarn(middleware.TraceIDFromContext(ctx), "failed to add guardian reference to user", err)
	}
	return guardian, nil
}

func (s *Service) owned(ctx context.Context, owner models.Actor, id primitive.ObjectID) (*models.Guardian, error) {
	guardian, err := s.guardians.FindGuardian(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("Guardian not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load guardian")
	}
	if !access.CanManageGuardian(owner, guardian) {
		return nil, apperror.Authorization("Unauthorized")
	}
	return guardian, nil
}

// Update changes the non-blank fields of in.
func (s *Service) Update(ctx context.Context, owner models.Actor, id primitive.ObjectID, in Input) (*models.Guardian, error) {
	if _, err := s.owned(ctx, owner, id); err != nil {
		return nil, err
	}

	in = in.trimmed()
	var patch models.GuardianPatch
	if in.Name != "" {
		patch.Name = &in.Name
	}
	if in.Relationship != "" {
		patch.Relationship = &in.Relationship
	}
	if in.Phone != "" {
		patch.Phone = &in.Phone
	}
	if in.Email != "" {
		if !models.ValidEmail(in.Email) {
			return nil, apperror.Validation("Invalid guardian email")
		}
		patch.Email = &in.Email
	}
	if in.Address != "" {
		patch.Address = &in.Address
	}

	guardian, err := s.guardians.UpdateGuardian(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("Guardian not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to update guardian")
	}
	return guardian, nil
}

// Delete removes the guardian and its back-reference on the owner.
func (s *Service) Delete(ctx context.Context, owner models.Actor, id primitive.ObjectID) error {
	if _, err := s.owned(ctx, owner, id); err != nil {
		return err
	}

	err := s.guardians.DeleteGuardian(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("Guardian not found")
	}
	if err != nil {
		return apperror.Internal(err, "Failed to delete guardian")
	}

	if err := s.users.RemoveGuardianRef(ctx, owner.ID, id); err != nil {
		return apperror.Internal(err, "Failed to update user guardians")
	}
	return nil
}
