package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/spainrp/awards/internal/models"
)

const (
	votesCollection  = "votes"
	configCollection = "awardconfigs"
	configDocumentID = "current"
)

// MongoRepository is the MongoDB-backed store
type MongoRepository struct {
	client *mongo.Client
	votes  *mongo.Collection
	config *mongo.Collection
	now    func() time.Time
}

// configDocument pins the single config document to a fixed _id.
type configDocument struct {
	ID                 string `bson:"_id"`
	models.AwardConfig `bson:",inline"`
}

// NewMongo connects to uri, selects database and ensures the unique index on userId
func NewMongo(ctx context.Context, uri, database string) (*MongoRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	repo := &MongoRepository{
		client: client,
		votes:  db.Collection(votesCollection),
		config: db.Collection(configCollection),
		now:    time.Now,
	}

	_, err = repo.votes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("userId_unique"),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create vote index: %w", err)
	}

	return repo, nil
}

// Ping checks the primary is reachable
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (r *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

// ==================== Config Methods ====================

func (r *MongoRepository) GetConfig(ctx context.Context) (*models.AwardConfig, error) {
	var doc configDocument
	err := r.config.FindOne(ctx, bson.M{"_id": configDocumentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc.AwardConfig, nil
}

func (r *MongoRepository) SaveConfig(ctx context.Context, cfg *models.AwardConfig) error {
	cfg.UpdatedAt = r.now().UTC()
	doc := configDocument{ID: configDocumentID, AwardConfig: *cfg}
	_, err := r.config.ReplaceOne(ctx, bson.M{"_id": configDocumentID}, doc, options.Replace().SetUpsert(true))
	return err
}

// ==================== Vote Methods ====================

func (r *MongoRepository) GetVote(ctx context.Context, userID string) (*models.Vote, error) {
	var v models.Vote
	err := r.votes.FindOne(ctx, bson.M{"userId": userID}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *MongoRepository) CreateVote(ctx context.Context, vote *models.Vote) error {
	now := r.now().UTC()
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = now
	}
	vote.UpdatedAt = now
	if vote.Selections == nil {
		vote.Selections = map[string]string{}
	}

	_, err := r.votes.InsertOne(ctx, vote)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// UpdateSelections sets votes.<category> for each key in partial. Category ids
// never contain '.' or '$' so they are safe as field path segments.
func (r *MongoRepository) UpdateSelections(ctx context.Context, userID string, partial map[string]string) (*models.Vote, error) {
	set := bson.M{"updatedAt": r.now().UTC()}
	for k, v := range partial {
		set["votes."+k] = v
	}

	var updated models.Vote
	err := r.votes.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) ListVotes(ctx context.Context) ([]models.Vote, error) {
	cur, err := r.votes.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	votes := []models.Vote{}
	if err := cur.All(ctx, &votes); err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *MongoRepository) CountVotes(ctx context.Context) (int64, error) {
	return r.votes.CountDocuments(ctx, bson.M{})
}
