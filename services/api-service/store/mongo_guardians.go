package store

import (
	"context"
	"fmt"

	"rakshak-women-safety/services/api-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Mongo) FindGuardian(ctx context.Context, id primitive.ObjectID) (*models.Guardian, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var guardian models.Guardian
	if err := s.guardians.FindOne(ctx, bson.M{"_id": id}).Decode(&guardian); err != nil {
		return nil, translate(err)
	}
	return &guardian, nil
}

func (s *Mongo) ListGuardians(ctx context.Context, owner primitive.ObjectID) ([]models.Guardian, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.guardians.Find(ctx, bson.M{"user": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guardians: %w", err)
	}
	defer cursor.Close(ctx)

	guardians := []models.Guardian{}
	if err := cursor.All(ctx, &guardians); err != nil {
		return nil, fmt.Errorf("failed to decode guardians: %w", err)
	}
	return guardians, nil
}

func (s *Mongo) CreateGuardian(ctx context.Context, guardian *models.Guardian) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if guardian.ID.IsZero() {
		guardian.ID = primitive.NewObjectID()
	}
	_, err := s.guardians.InsertOne(ctx, guardian)
	return translate(err)
}

func (s *Mongo) UpdateGuardian(ctx context.Context, id primitive.ObjectID, patch models.GuardianPatch) (*models.Guardian, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := bson.M{"updated_at": s.now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Relationship != nil {
		set["relationship"] = *patch.Relationship
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}

	var guardian models.Guardian
	err := s.guardians.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate()).Decode(&guardian)
	if err != nil {
		return nil, translate(err)
	}
	return &guardian, nil
}

func (s *Mongo) DeleteGuardian(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.guardians.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete guardian: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
