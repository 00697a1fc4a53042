// Package stats builds the admin and police dashboards.
package stats

import (
	"context"

	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/services/api-service/access"
	"rakshak-women-safety/services/api-service/models"
	"rakshak-women-safety/services/api-service/store"
)

const recentLimit = 5

type StatusCounts struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Dismissed  int64 `json:"dismissed"`
}

type AdminDashboard struct {
	Complaints       StatusCounts       `json:"complaints"`
	Users            int64              `json:"users"`
	Police           int64              `json:"police"`
	Divisions        int64              `json:"divisions"`
	RecentComplaints []models.Complaint `json:"recent_complaints"`
}

type PoliceDashboard struct {
	Assigned         StatusCounts       `json:"assigned"`
	Division         *StatusCounts      `json:"division,omitempty"`
	RecentComplaints []models.Complaint `json:"recent_complaints"`
}

type Service struct {
	complaints store.Complaints
	users      store.Users
	divisions  store.Divisions
}

func NewService(complaints store.Complaints, users store.Users, divisions store.Divisions) *Service {
	return &Service{complaints: complaints, users: users, divisions: divisions}
}

func (s *Service) count(ctx context.Context, filter store.ComplaintFilter) (StatusCounts, error) {
	var counts StatusCounts
	targets := map[models.Status]*int64{
		models.StatusPending:    &counts.Pending,
		models.StatusInProgress: &counts.InProgress,
		models.StatusResolved:   &counts.Resolved,
		models.StatusDismissed:  &counts.Dismissed,
	}

	total, err := s.complaints.CountComplaints(ctx, filter)
	if err != nil {
		return counts, err
	}
	counts.Total = total
	for status, target := range targets {
		n, err := s.complaints.CountComplaints(ctx, filter.WithStatus(status))
		if err != nil {
			return counts, err
		}
		*target = n
	}
	return counts, nil
}

func (s *Service) Admin(ctx context.Context, actor models.Actor) (*AdminDashboard, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperror.Authorization("Only admins can view this dashboard")
	}

	complaints, err := s.count(ctx, store.ComplaintFilter{})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to count complaints")
	}
	users, err := s.users.CountUsers(ctx, models.RoleUser)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to count users")
	}
	police, err := s.users.CountUsers(ctx, models.RolePolice)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to count police officers")
	}
	divisions, err := s.divisions.CountDivisions(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to count divisions")
	}
	recent, err := s.complaints.FindComplaints(ctx, store.ComplaintFilter{}, store.ListOptions{Sort: store.SortCreatedDesc, Limit: recentLimit})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch recent complaints")
	}

	return &AdminDashboard{
		Complaints:       complaints,
		Users:            users,
		Police:           police,
		Divisions:        divisions,
		RecentComplaints: recent,
	}, nil
}

// Police reports the officer's assigned workload, the workload of their
// division when they have one, and the latest activity they can see.
func (s *Service) Police(ctx context.Context, actor models.Actor) (*PoliceDashboard, error) {
	if actor.Role != models.RolePolice {
		return nil, apperror.Authorization("Only police officers can view this dashboard")
	}

	officer := actor.ID
	assigned, err := s.count(ctx, store.ComplaintFilter{AssignedTo: &officer})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to count assigned complaints")
	}

	dashboard := &PoliceDashboard{Assigned: assigned}
	if actor.Division != nil {
		division := *actor.Division
		counts, err := s.count(ctx, store.ComplaintFilter{Division: &division})
		if err != nil {
			return nil, apperror.Internal(err, "Failed to count division complaints")
		}
		dashboard.Division = &counts
	}

	filter, err := access.ListFilter(actor)
	if err != nil {
		return nil, err
	}
	dashboard.RecentComplaints, err = s.complaints.FindComplaints(ctx, filter, store.ListOptions{Sort: store.SortUpdatedDesc, Limit: recentLimit})
	if err != nil {
		return nil, apperror.Internal(err, "Failed to fetch recent complaints")
	}
	return dashboard, nil
}
