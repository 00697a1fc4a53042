package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection      = "users"
	divisionsCollection  = "divisions"
	guardiansCollection  = "guardians"
	complaintsCollection = "complaints"
	stateCollection      = "system_state"

	queryTimeout = 5 * time.Second
	listTimeout  = 10 * time.Second
)

// Mongo implements every store against a single database.
type Mongo struct {
	db         *mongo.Database
	users      *mongo.Collection
	divisions  *mongo.Collection
	guardians  *mongo.Collection
	complaints *mongo.Collection
	states     *mongo.Collection
	now        func() time.Time
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		db:         db,
		users:      db.Collection(usersCollection),
		divisions:  db.Collection(divisionsCollection),
		guardians:  db.Collection(guardiansCollection),
		complaints: db.Collection(complaintsCollection),
		states:     db.Collection(stateCollection),
		now:        time.Now,
	}
}

// EnsureIndexes creates the unique and lookup indexes the stores rely on.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	specs := map[*mongo.Collection][]mongo.IndexModel{
		s.users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		s.divisions: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		s.guardians: {
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
		s.complaints: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
			{Keys: bson.D{{Key: "division", Value: 1}}},
			{Keys: bson.D{{Key: "updated_at", Value: -1}}},
		},
	}

	for coll, indexes := range specs {
		if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// MongoTx runs blocks inside multi-document transactions when the
// deployment is a replica set or sharded cluster.
type MongoTx struct {
	client *mongo.Client
	atomic bool
}

// NewMongoTx probes the deployment with hello to decide whether
// transactions are available.
func NewMongoTx(ctx context.Context, db *mongo.Database) *MongoTx {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var hello bson.M
	err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
	atomic := false
	if err == nil {
		_, replicaSet := hello["setName"]
		atomic = replicaSet || hello["msg"] == "isdbgrid"
	}
	return &MongoTx{client: db.Client(), atomic: atomic}
}

func (t *MongoTx) Atomic() bool { return t.atomic }

func (t *MongoTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.atomic {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
