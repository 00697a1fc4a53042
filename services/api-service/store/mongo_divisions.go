package store

import (
	"context"
	"fmt"

	"rakshak-women-safety/services/api-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Mongo) FindDivision(ctx context.Context, id primitive.ObjectID) (*models.Division, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var division models.Division
	if err := s.divisions.FindOne(ctx, bson.M{"_id": id}).Decode(&division); err != nil {
		return nil, translate(err)
	}
	return &division, nil
}

func (s *Mongo) FindDivisionByName(ctx context.Context, name string) (*models.Division, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var division models.Division
	if err := s.divisions.FindOne(ctx, bson.M{"name": name}).Decode(&division); err != nil {
		return nil, translate(err)
	}
	return &division, nil
}

func (s *Mongo) FindFirstDivision(ctx context.Context) (*models.Division, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	var division models.Division
	if err := s.divisions.FindOne(ctx, bson.M{}, opts).Decode(&division); err != nil {
		return nil, translate(err)
	}
	return &division, nil
}

func (s *Mongo) ListDivisions(ctx context.Context) ([]models.Division, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.divisions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch divisions: %w", err)
	}
	defer cursor.Close(ctx)

	divisions := []models.Division{}
	if err := cursor.All(ctx, &divisions); err != nil {
		return nil, fmt.Errorf("failed to decode divisions: %w", err)
	}
	return divisions, nil
}

func (s *Mongo) CreateDivision(ctx context.Context, division *models.Division) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if division.ID.IsZero() {
		division.ID = primitive.NewObjectID()
	}
	if division.Officers == nil {
		division.Officers = []primitive.ObjectID{}
	}
	_, err := s.divisions.InsertOne(ctx, division)
	return translate(err)
}

func (s *Mongo) UpdateDivision(ctx context.Context, id primitive.ObjectID, patch models.DivisionPatch) (*models.Division, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := bson.M{"updated_at": s.now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Area != nil {
		set["area"] = *patch.Area
	}
	if patch.City != nil {
		set["city"] = *patch.City
	}
	if patch.State != nil {
		set["state"] = *patch.State
	}

	var division models.Division
	err := s.divisions.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate()).Decode(&division)
	if err != nil {
		return nil, translate(err)
	}
	return &division, nil
}

func (s *Mongo) DeleteDivision(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"police_officers": bson.M{"$size": 0}},
			bson.M{"police_officers": nil},
		},
	}
	result, err := s.divisions.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete division: %w", err)
	}
	if result.DeletedCount > 0 {
		return nil
	}

	count, err := s.divisions.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to check division: %w", err)
	}
	if count > 0 {
		return ErrInUse
	}
	return ErrNotFound
}

func (s *Mongo) updateDivisionOfficers(ctx context.Context, id primitive.ObjectID, op string, officerID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{
		op:     bson.M{"police_officers": officerID},
		"$set": bson.M{"updated_at": s.now()},
	}
	result, err := s.divisions.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Mongo) AddDivisionOfficer(ctx context.Context, id, officerID primitive.ObjectID) error {
	return s.updateDivisionOfficers(ctx, id, "$addToSet", officerID)
}

func (s *Mongo) RemoveDivisionOfficer(ctx context.Context, id, officerID primitive.ObjectID) error {
	return s.updateDivisionOfficers(ctx, id, "$pull", officerID)
}

func (s *Mongo) CountDivisions(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.divisions.CountDocuments(ctx, bson.M{})
}
