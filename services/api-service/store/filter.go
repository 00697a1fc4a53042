package store

import (
	"sort"

	"rakshak-women-safety/services/api-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComplaintFilter selects complaints. Owner and Status are conjunctive.
// AssignedTo and Division form a disjunction: a complaint matches when it
// is assigned to AssignedTo or belongs to Division.
// The zero value matches every complaint.
type ComplaintFilter struct {
	Owner      *primitive.ObjectID
	AssignedTo *primitive.ObjectID
	Division   *primitive.ObjectID
	Status     models.Status
}

func (f ComplaintFilter) Matches(c *models.Complaint) bool {
	if f.Owner != nil && c.User != *f.Owner {
		return false
	}
	if f.AssignedTo != nil || f.Division != nil {
		if !models.SameOptionalID(c.AssignedTo, f.AssignedTo) && !models.SameOptionalID(c.Division, f.Division) {
			return false
		}
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	return true
}

// WithStatus returns a copy of f narrowed to status.
func (f ComplaintFilter) WithStatus(status models.Status) ComplaintFilter {
	f.Status = status
	return f
}

type SortOrder int

const (
	SortCreatedDesc SortOrder = iota
	SortUpdatedDesc
)

type ListOptions struct {
	Sort  SortOrder
	Limit int
}

func sortComplaints(items []models.Complaint, order SortOrder) {
	sort.SliceStable(items, func(i, j int) bool {
		if order == SortUpdatedDesc {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
