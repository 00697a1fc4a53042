package store

import (
	"context"

	"rakshak-women-safety/services/api-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Mongo) GetSystemState(ctx context.Context, id string) (*models.SystemState, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var state models.SystemState
	if err := s.states.FindOne(ctx, bson.M{"_id": id}).Decode(&state); err != nil {
		return nil, translate(err)
	}
	return &state, nil
}

func (s *Mongo) MarkAdminInitialized(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.states.UpdateOne(ctx,
		bson.M{"_id": models.BootstrapStateID},
		bson.M{"$set": bson.M{"admin_initialized": true, "updated_at": s.now()}},
		options.Update().SetUpsert(true),
	)
	return translate(err)
}
