// Package access decides what an actor may see and change.
//
// Viewing and status mutation share one rule for police: an officer may
// act on a complaint assigned to them or placed in their division.
package access

import (
	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/services/api-service/models"
	"rakshak-women-safety/services/api-service/store"
)

// inScope is the police predicate used by both view and update checks.
func inScope(actor models.Actor, c *models.Complaint) bool {
	if models.SameID(c.AssignedTo, actor.ID) {
		return true
	}
	return models.SameOptionalID(c.Division, actor.Division)
}

func CanViewComplaint(actor models.Actor, c *models.Complaint) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return c.User == actor.ID
	case models.RolePolice:
		return inScope(actor, c)
	default:
		return false
	}
}

// ListFilter expresses CanViewComplaint as a store query.
func ListFilter(actor models.Actor) (store.ComplaintFilter, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return store.ComplaintFilter{}, nil
	case models.RoleUser:
		id := actor.ID
		return store.ComplaintFilter{Owner: &id}, nil
	case models.RolePolice:
		id := actor.ID
		filter := store.ComplaintFilter{AssignedTo: &id}
		if actor.Division != nil {
			division := *actor.Division
			filter.Division = &division
		}
		return filter, nil
	default:
		return store.ComplaintFilter{}, apperror.Authorization("Unknown role")
	}
}

// CanUpdateStatus never lets a filer change their own complaint's status.
func CanUpdateStatus(actor models.Actor, c *models.Complaint) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RolePolice:
		return inScope(actor, c)
	default:
		return false
	}
}

func CanAssign(actor models.Actor) bool {
	return actor.Role == models.RoleAdmin
}

func CanManageDivisions(actor models.Actor) bool {
	return actor.Role == models.RoleAdmin
}

func CanManageUsers(actor models.Actor) bool {
	return actor.Role == models.RoleAdmin
}

func CanManageGuardian(actor models.Actor, g *models.Guardian) bool {
	return g.User == actor.ID
}
