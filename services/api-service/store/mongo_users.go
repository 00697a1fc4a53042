package store

import (
	"context"
	"fmt"

	"rakshak-women-safety/services/api-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Mongo) findOneUser(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Mongo) FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOneUser(ctx, bson.M{"_id": id})
}

func (s *Mongo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOneUser(ctx, bson.M{"email": email})
}

func (s *Mongo) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (s *Mongo) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Guardians == nil {
		user.Guardians = []primitive.ObjectID{}
	}
	_, err := s.users.InsertOne(ctx, user)
	return translate(err)
}

func userPatchSet(patch models.UserPatch) bson.M {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.EmergencyContact != nil {
		set["emergency_contact"] = *patch.EmergencyContact
	}
	if patch.ProfilePicture != nil {
		set["profile_picture"] = *patch.ProfilePicture
	}
	if patch.Active != nil {
		set["active"] = *patch.Active
	}
	if patch.CurrentLocation != nil {
		set["current_location"] = *patch.CurrentLocation
	}
	return set
}

func (s *Mongo) UpdateUser(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := userPatchSet(patch)
	set["updated_at"] = s.now()

	var user models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate()).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Mongo) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Mongo) updateUserByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Mongo) SetUserDivision(ctx context.Context, id primitive.ObjectID, division *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"updated_at": s.now()}}
	if division == nil {
		update["$unset"] = bson.M{"division": ""}
	} else {
		update["$set"] = bson.M{"division": *division, "updated_at": s.now()}
	}
	return s.updateUserByID(ctx, id, update)
}

func (s *Mongo) AddGuardianRef(ctx context.Context, userID, guardianID primitive.ObjectID) error {
	return s.updateUserByID(ctx, userID, bson.M{"$addToSet": bson.M{"guardians": guardianID}})
}

func (s *Mongo) RemoveGuardianRef(ctx context.Context, userID, guardianID primitive.ObjectID) error {
	return s.updateUserByID(ctx, userID, bson.M{"$pull": bson.M{"guardians": guardianID}})
}

func (s *Mongo) CountUsers(ctx context.Context, role models.Role) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.users.CountDocuments(ctx, bson.M{"role": role})
}
