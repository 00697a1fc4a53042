package store

import (
	"context"
	"fmt"

	"rakshak-women-safety/services/api-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// complaintQuery translates f into a MongoDB filter document.
func complaintQuery(f ComplaintFilter) bson.M {
	query := bson.M{}
	if f.Owner != nil {
		query["user"] = *f.Owner
	}

	var scope bson.A
	if f.AssignedTo != nil {
		scope = append(scope, bson.M{"assigned_to": *f.AssignedTo})
	}
	if f.Division != nil {
		scope = append(scope, bson.M{"division": *f.Division})
	}
	if len(scope) > 0 {
		query["$or"] = scope
	}

	if f.Status != "" {
		query["status"] = f.Status
	}
	return query
}

func complaintSort(order SortOrder) bson.D {
	if order == SortUpdatedDesc {
		return bson.D{{Key: "updated_at", Value: -1}}
	}
	return bson.D{{Key: "created_at", Value: -1}}
}

func (s *Mongo) FindComplaint(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var complaint models.Complaint
	if err := s.complaints.FindOne(ctx, bson.M{"_id": id}).Decode(&complaint); err != nil {
		return nil, translate(err)
	}
	return &complaint, nil
}

func (s *Mongo) FindComplaints(ctx context.Context, filter ComplaintFilter, opts ListOptions) ([]models.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	findOpts := options.Find().SetSort(complaintSort(opts.Sort))
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := s.complaints.Find(ctx, complaintQuery(filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch complaints: %w", err)
	}
	defer cursor.Close(ctx)

	complaints := []models.Complaint{}
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, fmt.Errorf("failed to decode complaints: %w", err)
	}
	return complaints, nil
}

func (s *Mongo) CountComplaints(ctx context.Context, filter ComplaintFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.complaints.CountDocuments(ctx, complaintQuery(filter))
}

func (s *Mongo) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if complaint.ID.IsZero() {
		complaint.ID = primitive.NewObjectID()
	}
	if complaint.Attachments == nil {
		complaint.Attachments = []string{}
	}
	_, err := s.complaints.InsertOne(ctx, complaint)
	return translate(err)
}

func (s *Mongo) updateComplaint(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var complaint models.Complaint
	err := s.complaints.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, afterUpdate()).Decode(&complaint)
	if err != nil {
		return nil, translate(err)
	}
	return &complaint, nil
}

func (s *Mongo) AppendStatus(ctx context.Context, id primitive.ObjectID, entry models.StatusUpdate) (*models.Complaint, error) {
	return s.updateComplaint(ctx, id, bson.M{
		"$set": bson.M{
			"status":     entry.Status,
			"updated_at": entry.Timestamp,
		},
		"$push": bson.M{"status_updates": entry},
	})
}

func (s *Mongo) Assign(ctx context.Context, id primitive.ObjectID, assignment models.Assignment) (*models.Complaint, error) {
	set := bson.M{
		"assigned_to": assignment.Officer,
		"status":      assignment.Entry.Status,
		"updated_at":  assignment.Entry.Timestamp,
	}
	update := bson.M{
		"$set":  set,
		"$push": bson.M{"status_updates": assignment.Entry},
	}
	if assignment.Division != nil {
		set["division"] = *assignment.Division
	} else {
		update["$unset"] = bson.M{"division": ""}
	}
	return s.updateComplaint(ctx, id, update)
}

func (s *Mongo) AddAttachment(ctx context.Context, id primitive.ObjectID, key string) (*models.Complaint, error) {
	return s.updateComplaint(ctx, id, bson.M{
		"$push": bson.M{"attachments": key},
		"$set":  bson.M{"updated_at": s.now()},
	})
}
