package store

import (
	"context"
	"testing"
	"time"

	"rakshak-women-safety/services/api-service/models"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Memory
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) TestUserLookup() {
	s.Run("finds by id and email", func() {
		user := &models.User{Name: "Asha", Email: "asha@example.com", Role: models.RoleUser}
		s.Require().NoError(s.store.CreateUser(s.ctx, user))
		s.False(user.ID.IsZero())

		byID, err := s.store.FindUser(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal("Asha", byID.Name)

		byEmail, err := s.store.FindUserByEmail(s.ctx, "asha@example.com")
		s.Require().NoError(err)
		s.Equal(user.ID, byEmail.ID)
	})

	s.Run("rejects duplicate email", func() {
		err := s.store.CreateUser(s.ctx, &models.User{Email: "asha@example.com"})
		s.ErrorIs(err, ErrDuplicate)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindUser(s.ctx, primitive.NewObjectID())
		s.ErrorIs(err, ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestReturnedValuesAreCopies() {
	division := primitive.NewObjectID()
	user := &models.User{Email: "p@example.com", Role: models.RolePolice, Division: &division}
	s.Require().NoError(s.store.CreateUser(s.ctx, user))

	found, err := s.store.FindUser(s.ctx, user.ID)
	s.Require().NoError(err)
	other := primitive.NewObjectID()
	*found.Division = other

	again, err := s.store.FindUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(division, *again.Division)
}

func (s *MemoryStoreSuite) TestSetUserDivision() {
	user := &models.User{Email: "officer@example.com", Role: models.RolePolice}
	s.Require().NoError(s.store.CreateUser(s.ctx, user))

	division := primitive.NewObjectID()
	s.Require().NoError(s.store.SetUserDivision(s.ctx, user.ID, &division))
	found, _ := s.store.FindUser(s.ctx, user.ID)
	s.Require().NotNil(found.Division)
	s.Equal(division, *found.Division)

	s.Require().NoError(s.store.SetUserDivision(s.ctx, user.ID, nil))
	found, _ = s.store.FindUser(s.ctx, user.ID)
	s.Nil(found.Division)
}

func (s *MemoryStoreSuite) TestFirstDivisionIsOldest() {
	_, err := s.store.FindFirstDivision(s.ctx)
	s.ErrorIs(err, ErrNotFound)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.CreateDivision(s.ctx, &models.Division{Name: "Worli", CreatedAt: base.Add(time.Hour)}))
	s.Require().NoError(s.store.CreateDivision(s.ctx, &models.Division{Name: "Bandra", CreatedAt: base}))

	first, err := s.store.FindFirstDivision(s.ctx)
	s.Require().NoError(err)
	s.Equal("Bandra", first.Name)

	err = s.store.CreateDivision(s.ctx, &models.Division{Name: "Worli"})
	s.ErrorIs(err, ErrDuplicate)
}

func (s *MemoryStoreSuite) TestComplaintFilterAndOrder() {
	owner := primitive.NewObjectID()
	officer := primitive.NewObjectID()
	division := primitive.NewObjectID()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	older := &models.Complaint{Title: "older", User: owner, Status: models.StatusPending,
		CreatedAt: base, UpdatedAt: base.Add(3 * time.Hour)}
	newer := &models.Complaint{Title: "newer", User: owner, Status: models.StatusResolved, Division: &division,
		CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)}
	assigned := &models.Complaint{Title: "assigned", User: primitive.NewObjectID(), Status: models.StatusInProgress,
		AssignedTo: &officer, CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(2 * time.Hour)}
	for _, c := range []*models.Complaint{older, newer, assigned} {
		s.Require().NoError(s.store.CreateComplaint(s.ctx, c))
	}

	byCreated, err := s.store.FindComplaints(s.ctx, ComplaintFilter{Owner: &owner}, ListOptions{Sort: SortCreatedDesc})
	s.Require().NoError(err)
	s.Require().Len(byCreated, 2)
	s.Equal("newer", byCreated[0].Title)

	byUpdated, err := s.store.FindComplaints(s.ctx, ComplaintFilter{Owner: &owner}, ListOptions{Sort: SortUpdatedDesc})
	s.Require().NoError(err)
	s.Equal("older", byUpdated[0].Title)

	scoped := ComplaintFilter{AssignedTo: &officer, Division: &division}
	visible, err := s.store.FindComplaints(s.ctx, scoped, ListOptions{})
	s.Require().NoError(err)
	s.Len(visible, 2)

	count, err := s.store.CountComplaints(s.ctx, scoped.WithStatus(models.StatusResolved))
	s.Require().NoError(err)
	s.EqualValues(1, count)

	limited, err := s.store.FindComplaints(s.ctx, ComplaintFilter{}, ListOptions{Limit: 1})
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func (s *MemoryStoreSuite) TestAppendStatusUpdatesStatusAndHistoryTogether() {
	filer := primitive.NewObjectID()
	c := &models.Complaint{
		User:          filer,
		Status:        models.StatusPending,
		StatusUpdates: []models.StatusUpdate{{Status: models.StatusPending, Message: "Complaint filed", UpdatedBy: filer}},
	}
	s.Require().NoError(s.store.CreateComplaint(s.ctx, c))

	at := time.Now()
	updated, err := s.store.AppendStatus(s.ctx, c.ID, models.StatusUpdate{
		Status: models.StatusDismissed, Message: "duplicate", UpdatedBy: primitive.NewObjectID(), Timestamp: at,
	})
	s.Require().NoError(err)
	s.Equal(models.StatusDismissed, updated.Status)
	s.Len(updated.StatusUpdates, 2)
	s.Equal(at, updated.UpdatedAt)

	_, err = s.store.AppendStatus(s.ctx, primitive.NewObjectID(), models.StatusUpdate{})
	s.ErrorIs(err, ErrNotFound)
}

func (s *MemoryStoreSuite) TestGuardianRefs() {
	user := &models.User{Email: "g@example.com"}
	s.Require().NoError(s.store.CreateUser(s.ctx, user))
	guardian := primitive.NewObjectID()

	s.Require().NoError(s.store.AddGuardianRef(s.ctx, user.ID, guardian))
	s.Require().NoError(s.store.AddGuardianRef(s.ctx, user.ID, guardian))
	found, _ := s.store.FindUser(s.ctx, user.ID)
	s.Len(found.Guardians, 1)

	s.Require().NoError(s.store.RemoveGuardianRef(s.ctx, user.ID, guardian))
	found, _ = s.store.FindUser(s.ctx, user.ID)
	s.Empty(found.Guardians)
}

func (s *MemoryStoreSuite) TestSystemState() {
	_, err := s.store.GetSystemState(s.ctx, models.BootstrapStateID)
	s.ErrorIs(err, ErrNotFound)

	s.Require().NoError(s.store.MarkAdminInitialized(s.ctx))
	state, err := s.store.GetSystemState(s.ctx, models.BootstrapStateID)
	s.Require().NoError(err)
	s.True(state.AdminInitialized)
}
