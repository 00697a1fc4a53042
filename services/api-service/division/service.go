// Package division manages the division registry and keeps each
// division's officer set consistent with its officers' division reference.
package division

import (
	"context"
	"errors"
	"fmt"
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
	divisions store.Divisions
	users     store.Users
	tx        store.Transactor
	now       func() time.Time
}

func NewService(divisions store.Divisions, users store.Users, tx store.Transactor) *Service {
	if tx == nil {
		tx = &store.MemoryTx{}
	}
	return &Service{divisions: divisions, users: users, tx: tx, now: time.Now}
}

type Input struct {
	Name  string
	Area  string
	City  string
	State string
}

func requireAdmin(actor models.Actor) error {
	if !access.CanManageDivisions(actor) {
		return apperror.Authorization("Only admins can manage divisions")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actor models.Actor, in Input) (*models.Division, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	in = Input{
		Name:  strings.TrimSpace(in.Name),
		Area:  strings.TrimSpace(in.Area),
		City:  strings.TrimSpace(in.City),
		State: strings.TrimSpace(in.State),
	}
	if in.Name == "" || in.Area == "" || in.City == "" || in.State == "" {
		return nil, apperror.Validation("Name, area, city, and state are required")
	}

	now := s.now()
	division := &models.Division{
		ID:        primitive.NewObjectID(),
		Name:      in.Name,
		Area:      in.Area,
		City:      in.City,
		State:     in.State,
		Officers:  []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.divisions.CreateDivision(ctx, division)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, apperror.Conflict("Division with this name already exists")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to create division")
	}
	return division, nil
}

// Update changes the non-blank fields of in.
func (s *Service) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, in Input) (*models.Division, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var patch models.DivisionPatch
	if v := strings.TrimSpace(in.Name); v != "" {
		patch.Name = &v
	}
	if v := strings.TrimSpace(in.Area); v != "" {
		patch.Area = &v
	}
	if v := strings.TrimSpace(in.City); v != "" {
		patch.City = &v
	}
	if v := strings.TrimSpace(in.State); v != "" {
		patch.State = &v
	}

	division, err := s.divisions.UpdateDivision(ctx, id, patch)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, apperror.NotFound("Division not found")
	case errors.Is(err, store.ErrDuplicate):
		return nil, apperror.Conflict("Division with this name already exists")
	case err != nil:
		return nil, apperror.Internal(err, "Failed to update division")
	}
	return division, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Division, error) {
	division, err := s.divisions.FindDivision(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("Division not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load division")
	}
	return division, nil
}

func (s *Service) List(ctx context.Context) ([]models.Division, error) {
	divisions, err := s.divisions.ListDivisions(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch divisions")
	}
	return divisions, nil
}

// Delete refuses while the division still has officers. The store repeats
// the check atomically so a concurrent AddOfficer cannot be orphaned.
const staffedDivisionMessage = "Cannot delete division with assigned police officers. Reassign officers first."

func (s *Service) Delete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	division, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if len(division.Officers) > 0 {
		return apperror.Conflict(staffedDivisionMessage)
	}

	err = s.divisions.DeleteDivision(ctx, id)
	if errors.Is(err, store.ErrInUse) {
		return apperror.Conflict(staffedDivisionMessage)
	}
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("Division not found")
	}
	if err != nil {
		return apperror.Internal(err, "Failed to delete division")
	}
	return nil
}

func (s *Service) loadOfficer(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	officer, err := s.users.FindUser(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Internal(err, "Failed to load police officer")
	}
	if officer == nil || officer.Role != models.RolePolice {
		return nil, apperror.Validation("Invalid police officer ID")
	}
	return officer, nil
}

// AddOfficer links an officer who has no division yet. Officers in
// another division must be removed first, and a repeat add is a conflict.
func (s *Service) AddOfficer(ctx context.Context, actor models.Actor, divisionID, officerID primitive.ObjectID) (*models.Division, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if officerID.IsZero() {
		return nil, apperror.Validation("Police officer ID is required")
	}
	if _, err := s.Get(ctx, divisionID); err != nil {
		return nil, err
	}
	officer, err := s.loadOfficer(ctx, officerID)
	if err != nil {
		return nil, err
	}

	if officer.Division != nil {
		if *officer.Division == divisionID {
			return nil, apperror.Conflict("Police officer is already in this division")
		}
		return nil, apperror.Conflict("Police officer belongs to another division. Remove them from it first.")
	}

	if err := s.link(ctx, divisionID, officerID); err != nil {
		return nil, err
	}
	return s.Get(ctx, divisionID)
}

func (s *Service) RemoveOfficer(ctx context.Context, actor models.Actor, divisionID, officerID primitive.ObjectID) (*models.Division, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, divisionID); err != nil {
		return nil, err
	}
	officer, err := s.loadOfficer(ctx, officerID)
	if err != nil {
		return nil, err
	}
	if !models.SameID(officer.Division, divisionID) {
		return nil, apperror.Conflict("Police officer is not in this division")
	}

	if err := s.unlink(ctx, divisionID, officerID); err != nil {
		return nil, err
	}
	return s.Get(ctx, divisionID)
}

// Transfer moves officer to target, or detaches them when target is nil.
// Account management calls it after its own authorization checks.
func (s *Service) Transfer(ctx context.Context, officer *models.User, target *primitive.ObjectID) error {
	if models.SameOptionalID(officer.Division, target) {
		return nil
	}
	if target != nil {
		if _, err := s.Get(ctx, *target); err != nil {
			return err
		}
	}
	if officer.Division != nil {
		if err := s.unlink(ctx, *officer.Division, officer.ID); err != nil {
			return err
		}
	}
	if target != nil {
		return s.link(ctx, *target, officer.ID)
	}
	return nil
}

func (s *Service) link(ctx context.Context, divisionID, officerID primitive.ObjectID) error {
	return s.dualWrite(ctx, "add officer",
		func(ctx context.Context) error { return s.divisions.AddDivisionOfficer(ctx, divisionID, officerID) },
		func(ctx context.Context) error { return s.users.SetUserDivision(ctx, officerID, &divisionID) },
		func(ctx context.Context) error { return s.divisions.RemoveDivisionOfficer(ctx, divisionID, officerID) },
	)
}

func (s *Service) unlink(ctx context.Context, divisionID, officerID primitive.ObjectID) error {
	return s.dualWrite(ctx, "remove officer",
		func(ctx context.Context) error {
			err := s.divisions.RemoveDivisionOfficer(ctx, divisionID, officerID)
			if errors.Is(err, store.ErrNotFound) {
				// the division is gone; clearing the officer side still applies
				return nil
			}
			return err
		},
		func(ctx context.Context) error { return s.users.SetUserDivision(ctx, officerID, nil) },
		func(ctx context.Context) error { return s.divisions.AddDivisionOfficer(ctx, divisionID, officerID) },
	)
}

// dualWrite runs the division side then the officer side in one
// transaction. Without transaction support a failed officer write is
// compensated by undoing the division write.
func (s *Service) dualWrite(ctx context.Context, op string, divisionSide, officerSide, undo func(ctx context.Context) error) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := divisionSide(ctx); err != nil {
			return err
		}
		if err := officerSide(ctx); err != nil {
			if !s.tx.Atomic() {
				if undoErr := undo(ctx); undoErr != nil {
					middleware.LogError(middleware.TraceIDFromContext(ctx), fmt.Sprintf("%s: compensation failed, division and officer may disagree", op), undoErr)
				}
			}
			return err
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("Division or officer not found")
	}
	if err != nil {
		return apperror.Internal(err, "Failed to "+op)
	}
	return nil
}
