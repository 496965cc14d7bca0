package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careerhub-client/internal/session/domain/model"
	apperrors "careerhub-client/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// currentSessionID is the _id of the one session document this client owns.
const currentSessionID = "current"

type sessionDocument struct {
	ID          string    `bson:"_id"`
	Token       string    `bson:"token"`
	UserID      int64     `bson:"user_id"`
	DisplayName string    `bson:"display_name"`
	SavedAt     time.Time `bson:"saved_at"`
}

// MongoStore keeps the session as a single document replaced on every save.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to uri and verifies the server is reachable.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, session *model.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	doc := sessionDocument{
		ID:          currentSessionID,
		Token:       session.Token,
		UserID:      session.UserID,
		DisplayName: session.DisplayName,
		SavedAt:     session.SavedAt,
	}
	if doc.SavedAt.IsZero() {
		doc.SavedAt = time.Now().UTC()
	}

	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": currentSessionID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session to mongodb: %w", err)
	}
	return nil
}

func (s *MongoStore) Current(ctx context.Context) (*model.Session, error) {
	var doc sessionDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": currentSessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session from mongodb: %w", err)
	}
	return &model.Session{
		Token:       doc.Token,
		UserID:      doc.UserID,
		DisplayName: doc.DisplayName,
		SavedAt:     doc.SavedAt.UTC(),
	}, nil
}

func (s *MongoStore) Clear(ctx context.Context) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": currentSessionID}); err != nil {
		return fmt.Errorf("clear session in mongodb: %w", err)
	}
	return nil
}

func (s *MongoStore) IsActive(ctx context.Context) bool {
	_, err := s.Current(ctx)
	return err == nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
