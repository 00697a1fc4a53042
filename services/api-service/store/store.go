// Package store defines persistence for the api-service and provides
// MongoDB and in-memory implementations.
package store

import (
	"context"
	"errors"

	"rakshak-women-safety/services/api-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrInUse is returned when a delete would orphan references to the record.
	ErrInUse = errors.New("record in use")
)

type Users interface {
	FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	// SetUserDivision sets or, with a nil division, clears the division reference.
	SetUserDivision(ctx context.Context, id primitive.ObjectID, division *primitive.ObjectID) error
	AddGuardianRef(ctx context.Context, userID, guardianID primitive.ObjectID) error
	RemoveGuardianRef(ctx context.Context, userID, guardianID primitive.ObjectID) error
	CountUsers(ctx context.Context, role models.Role) (int64, error)
}

type Divisions interface {
	FindDivision(ctx context.Context, id primitive.ObjectID) (*models.Division, error)
	FindDivisionByName(ctx context.Context, name string) (*models.Division, error)
	// FindFirstDivision returns the earliest created division.
	FindFirstDivision(ctx context.Context) (*models.Division, error)
	ListDivisions(ctx context.Context) ([]models.Division, error)
	CreateDivision(ctx context.Context, division *models.Division) error
	UpdateDivision(ctx context.Context, id primitive.ObjectID, patch models.DivisionPatch) (*models.Division, error)
	// DeleteDivision removes a division only while it has no officers.
	DeleteDivision(ctx context.Context, id primitive.ObjectID) error
	AddDivisionOfficer(ctx context.Context, id, officerID primitive.ObjectID) error
	RemoveDivisionOfficer(ctx context.Context, id, officerID primitive.ObjectID) error
	CountDivisions(ctx context.Context) (int64, error)
}

type Guardians interface {
	FindGuardian(ctx context.Context, id primitive.ObjectID) (*models.Guardian, error)
	ListGuardians(ctx context.Context, owner primitive.ObjectID) ([]models.Guardian, error)
	CreateGuardian(ctx context.Context, guardian *models.Guardian) error
	UpdateGuardian(ctx context.Context, id primitive.ObjectID, patch models.GuardianPatch) (*models.Guardian, error)
	DeleteGuardian(ctx context.Context, id primitive.ObjectID) error
}

type Complaints interface {
	FindComplaint(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error)
	FindComplaints(ctx context.Context, filter ComplaintFilter, opts ListOptions) ([]models.Complaint, error)
	CountComplaints(ctx context.Context, filter ComplaintFilter) (int64, error)
	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	// AppendStatus sets the status and pushes entry in a single document update.
	AppendStatus(ctx context.Context, id primitive.ObjectID, entry models.StatusUpdate) (*models.Complaint, error)
	// Assign sets officer, division and status and pushes the entry in a single document update.
	Assign(ctx context.Context, id primitive.ObjectID, assignment models.Assignment) (*models.Complaint, error)
	AddAttachment(ctx context.Context, id primitive.ObjectID, key string) (*models.Complaint, error)
}

type SystemStates interface {
	// GetSystemState returns ErrNotFound until the state is first written.
	GetSystemState(ctx context.Context, id string) (*models.SystemState, error)
	MarkAdminInitialized(ctx context.Context) error
}

// Transactor runs fn so that every store write made with the ctx it
// receives commits or aborts together, where the backend supports it.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Atomic reports whether RunInTx provides real rollback.
	Atomic() bool
}
