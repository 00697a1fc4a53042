package access

import (
	"testing"

	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/services/api-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptr(id primitive.ObjectID) *primitive.ObjectID { return &id }

type fixture struct {
	owner, officer, otherOfficer, admin models.Actor
	d1, d2                              primitive.ObjectID
}

func newFixture() fixture {
	d1 := primitive.NewObjectID()
	d2 := primitive.NewObjectID()
	return fixture{
		owner:        models.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser},
		officer:      models.Actor{ID: primitive.NewObjectID(), Role: models.RolePolice, Division: ptr(d1)},
		otherOfficer: models.Actor{ID: primitive.NewObjectID(), Role: models.RolePolice, Division: ptr(d2)},
		admin:        models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin},
		d1:           d1,
		d2:           d2,
	}
}

func TestCanViewComplaint(t *testing.T) {
	f := newFixture()
	stranger := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}
	noDivision := models.Actor{ID: primitive.NewObjectID(), Role: models.RolePolice}

	unplaced := &models.Complaint{User: f.owner.ID}
	inD1 := &models.Complaint{User: f.owner.ID, Division: ptr(f.d1)}
	assignedAcross := &models.Complaint{User: f.owner.ID, Division: ptr(f.d1), AssignedTo: ptr(f.otherOfficer.ID)}

	cases := []struct {
		name  string
		actor models.Actor
		c     *models.Complaint
		want  bool
	}{
		{"admin sees unplaced", f.admin, unplaced, true},
		{"owner sees own", f.owner, unplaced, true},
		{"other user denied", stranger, unplaced, false},
		{"officer sees division", f.officer, inD1, true},
		{"officer denied unplaced", f.officer, unplaced, false},
		{"other division denied", f.otherOfficer, inD1, false},
		{"assignee sees across divisions", f.otherOfficer, assignedAcross, true},
		{"officer without division denied unplaced", noDivision, unplaced, false},
		{"unknown role denied", models.Actor{ID: f.owner.ID, Role: "guest"}, unplaced, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanViewComplaint(tc.actor, tc.c))
		})
	}
}

func TestListFilterAgreesWithCanView(t *testing.T) {
	f := newFixture()
	complaints := []*models.Complaint{
		{User: f.owner.ID},
		{User: f.owner.ID, Division: ptr(f.d1)},
		{User: primitive.NewObjectID(), Division: ptr(f.d2)},
		{User: primitive.NewObjectID(), AssignedTo: ptr(f.officer.ID), Division: ptr(f.d2)},
	}

	for _, actor := range []models.Actor{f.owner, f.officer, f.otherOfficer, f.admin} {
		filter, err := ListFilter(actor)
		require.NoError(t, err)
		for i, c := range complaints {
			assert.Equal(t, CanViewComplaint(actor, c), filter.Matches(c), "actor %s complaint %d", actor.Role, i)
		}
	}
}

func TestListFilterUnknownRole(t *testing.T) {
	_, err := ListFilter(models.Actor{ID: primitive.NewObjectID(), Role: "guest"})
	assert.True(t, apperror.Is(err, apperror.KindAuthorization))
}

func TestCanUpdateStatus(t *testing.T) {
	f := newFixture()
	c := &models.Complaint{User: f.owner.ID, Division: ptr(f.d1), AssignedTo: ptr(f.officer.ID)}

	assert.True(t, CanUpdateStatus(f.admin, c))
	assert.True(t, CanUpdateStatus(f.officer, c))
	assert.False(t, CanUpdateStatus(f.otherOfficer, c))
	assert.False(t, CanUpdateStatus(f.owner, c), "filers cannot change status")
}

func TestAdminOnlyChecks(t *testing.T) {
	f := newFixture()
	assert.True(t, CanAssign(f.admin))
	assert.False(t, CanAssign(f.officer))
	assert.True(t, CanManageDivisions(f.admin))
	assert.False(t, CanManageUsers(f.owner))
}

func TestCanManageGuardian(t *testing.T) {
	f := newFixture()
	g := &models.Guardian{User: f.owner.ID}
	assert.True(t, CanManageGuardian(f.owner, g))
	assert.False(t, CanManageGuardian(f.admin, g))
}
