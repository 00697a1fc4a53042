package store

import (
	"testing"

	"rakshak-women-safety/services/api-service/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComplaintFilterMatches(t *testing.T) {
	owner := primitive.NewObjectID()
	officer := primitive.NewObjectID()
	division := primitive.NewObjectID()
	otherDivision := primitive.NewObjectID()

	inDivision := &models.Complaint{User: owner, Division: &division, Status: models.StatusPending}
	assigned := &models.Complaint{User: owner, AssignedTo: &officer, Division: &otherDivision, Status: models.StatusInProgress}
	unplaced := &models.Complaint{User: primitive.NewObjectID(), Status: models.StatusPending}

	assert.True(t, ComplaintFilter{}.Matches(unplaced))
	assert.True(t, ComplaintFilter{Owner: &owner}.Matches(inDivision))
	assert.False(t, ComplaintFilter{Owner: &owner}.Matches(unplaced))

	police := ComplaintFilter{AssignedTo: &officer, Division: &division}
	assert.True(t, police.Matches(inDivision))
	assert.True(t, police.Matches(assigned))
	assert.False(t, police.Matches(unplaced))

	assert.False(t, police.WithStatus(models.StatusResolved).Matches(assigned))
	assert.True(t, police.WithStatus(models.StatusInProgress).Matches(assigned))
}

func TestComplaintQuery(t *testing.T) {
	owner := primitive.NewObjectID()
	officer := primitive.NewObjectID()

	assert.Equal(t, bson.M{}, complaintQuery(ComplaintFilter{}))
	assert.Equal(t, bson.M{"user": owner}, complaintQuery(ComplaintFilter{Owner: &owner}))
	assert.Equal(t, bson.M{
		"$or":    bson.A{bson.M{"assigned_to": officer}},
		"status": models.StatusPending,
	}, complaintQuery(ComplaintFilter{AssignedTo: &officer, Status: models.StatusPending}))
}
