// Package lifecycle files complaints and moves them through their statuses.
//
// Every accepted operation appends exactly one history entry, and the
// complaint status always equals the status of its last entry. Status is a
// closed set but transitions between its values are unrestricted.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/pkg/middleware"
	"rakshak-women-safety/pkg/storage"
	"rakshak-women-safety/services/api-service/access"
	"rakshak-women-safety/services/api-service/models"
	"rakshak-women-safety/services/api-service/notify"
	"rakshak-women-safety/services/api-service/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	filedMessage       = "Complaint filed"
	attachmentURLTTL   = 15 * time.Minute
	attachmentFolder   = "complaints"
	maxAttachmentCount = 10
)

type Engine struct {
	complaints store.Complaints
	users      store.Users
	divisions  store.Divisions
	dispatcher notify.Dispatcher
	objects    storage.ObjectStorage
	now        func() time.Time
}

type Deps struct {
	Complaints store.Complaints
	Users      store.Users
	Divisions  store.Divisions
	Dispatcher notify.Dispatcher
	// Objects may be nil, which disables evidence uploads.
	Objects storage.ObjectStorage
	Now     func() time.Time
}

func NewEngine(deps Deps) *Engine {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		complaints: deps.Complaints,
		users:      deps.Users,
		divisions:  deps.Divisions,
		dispatcher: deps.Dispatcher,
		objects:    deps.Objects,
		now:        now,
	}
}

type FileInput struct {
	Title       string
	Description string
	Location    *models.Location
	Attachments []string
}

// FileComplaint creates a pending complaint with a single "filed" entry.
// A supplied location places the complaint in the first registered
// division. Without one the filer's last known location is recorded and
// the division stays unset.
func (e *Engine) FileComplaint(ctx context.Context, filer models.Actor, in FileInput) (*models.Complaint, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, apperror.Validation("Title and description are required")
	}
	if len(in.Attachments) > maxAttachmentCount {
		return nil, apperror.Validation(fmt.Sprintf("At most %d attachments are allowed", maxAttachmentCount))
	}

	user, err := e.users.FindUser(ctx, filer.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load user")
	}

	now := e.now()
	var (
		location *models.Location
		division *primitive.ObjectID
	)

	if in.Location != nil {
		if !models.ValidCoordinates(in.Location.Latitude, in.Location.Longitude) {
			return nil, apperror.Validation("Invalid location coordinates")
		}
		loc := *in.Location
		if loc.Timestamp.IsZero() {
			loc.Timestamp = now
		}
		location = &loc

		first, err := e.divisions.FindFirstDivision(ctx)
		switch {
		case err == nil:
			id := first.ID
			division = &id
		case !errors.Is(err, store.ErrNotFound):
			return nil, apperror.Internal(err, "Failed to resolve division")
		}
	} else if user.CurrentLocation != nil {
		loc := *user.CurrentLocation
		location = &loc
	}

	attachments := append([]string{}, in.Attachments...)
	complaint := &models.Complaint{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		User:        user.ID,
		Status:      models.StatusPending,
		Division:    division,
		Location:    location,
		Attachments: attachments,
		StatusUpdates: []models.StatusUpdate{{
			Status:    models.StatusPending,
			Message:   filedMessage,
			UpdatedBy: user.ID,
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.complaints.CreateComplaint(ctx, complaint); err != nil {
		return nil, apperror.Internal(err, "Failed to save complaint")
	}

	middleware.LogInfo(middleware.TraceIDFromContext(ctx), fmt.Sprintf("complaint %s filed by %s", complaint.ID.Hex(), user.ID.Hex()))
	return complaint, nil
}

// UpdateStatus records a new status set by police or an admin and tells
// the filer. A failed notification never undoes the update.
func (e *Engine) UpdateStatus(ctx context.Context, actor models.Actor, id primitive.ObjectID, status models.Status, message string) (*models.Complaint, error) {
	message = strings.TrimSpace(message)
	if status == "" || message == "" {
		return nil, apperror.Validation("Status and message are required")
	}
	if !status.Valid() {
		return nil, apperror.Validation("Invalid status value")
	}

	complaint, err := e.findComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanUpdateStatus(actor, complaint) {
		return nil, apperror.Authorization("Unauthorized. You are not assigned to this complaint.")
	}

	updated, err := e.complaints.AppendStatus(ctx, id, models.StatusUpdate{
		Status:    status,
		Message:   message,
		UpdatedBy: actor.ID,
		Timestamp: e.now(),
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("Complaint not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to update complaint status")
	}

	e.notifyFiler(ctx, updated, status, message)
	return updated, nil
}

type AssignInput struct {
	OfficerID primitive.ObjectID
	// DivisionID overrides the officer's own division when set.
	DivisionID *primitive.ObjectID
}

// AssignOfficer hands a complaint to a police officer and forces it to
// in-progress regardless of its prior status.
func (e *Engine) AssignOfficer(ctx context.Context, actor models.Actor, id primitive.ObjectID, in AssignInput) (*models.Complaint, error) {
	if !access.CanAssign(actor) {
		return nil, apperror.Authorization("Only admins can assign complaints")
	}
	if in.OfficerID.IsZero() {
		return nil, apperror.Validation("Police officer ID is required")
	}

	officer, err := e.users.FindUser(ctx, in.OfficerID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Internal(err, "Failed to load police officer")
	}
	if officer == nil || officer.Role != models.RolePolice {
		return nil, apperror.Validation("Invalid police officer ID")
	}

	division := officer.Division
	if in.DivisionID != nil {
		if _, err := e.divisions.FindDivision(ctx, *in.DivisionID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperror.NotFound("Division not found")
			}
			return nil, apperror.Internal(err, "Failed to load division")
		}
		division = in.DivisionID
	}

	updated, err := e.complaints.Assign(ctx, id, models.Assignment{
		Officer:  officer.ID,
		Division: division,
		Entry: models.StatusUpdate{
			Status:    models.StatusInProgress,
			Message:   "Assigned to police officer " + officer.Name,
			UpdatedBy: actor.ID,
			Timestamp: e.now(),
		},
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("Complaint not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to assign complaint")
	}

	e.notifyFiler(ctx, updated, models.StatusInProgress, "Your complaint has been assigned to officer "+officer.Name)
	return updated, nil
}

// ListComplaints returns the complaints actor may view, newest first.
// Filers see creation order; police and admins see last-update order.
// An empty status lists every status.
func (e *Engine) ListComplaints(ctx context.Context, actor models.Actor, status models.Status) ([]models.Complaint, error) {
	if status != "" && !status.Valid() {
		return nil, apperror.Validation("Invalid status value")
	}

	filter, err := access.ListFilter(actor)
	if err != nil {
		return nil, err
	}

	opts := store.ListOptions{Sort: store.SortUpdatedDesc}
	if actor.Role == models.RoleUser {
		opts.Sort = store.SortCreatedDesc
	}

	complaints, err := e.complaints.FindComplaints(ctx, filter.WithStatus(status), opts)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch complaints")
	}
	return complaints, nil
}

func (e *Engine) GetComplaint(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Complaint, error) {
	complaint, err := e.findComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanViewComplaint(actor, complaint) {
		return nil, apperror.Authorization("Unauthorized")
	}
	return complaint, nil
}

func (e *Engine) findComplaint(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	complaint, err := e.complaints.FindComplaint(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("Complaint not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load complaint")
	}
	return complaint, nil
}

// notifyFiler is best effort: failures are logged and swallowed.
func (e *Engine) notifyFiler(ctx context.Context, c *models.Complaint, status models.Status, message string) {
	traceID := middleware.TraceIDFromContext(ctx)
	if e.dispatcher == nil {
		return
	}

	filer, err := e.users.FindUser(ctx, c.User)
	if err != nil {
		middleware.LogWarn(traceID, "skipping status notification, filer not loaded", err)
		return
	}

	if _, err := e.dispatcher.NotifyStatusChange(ctx, filer, c.Title, status, message); err != nil {
		middleware.LogWarn(traceID, fmt.Sprintf("status notification for complaint %s failed", c.ID.Hex()), err)
	}
}
