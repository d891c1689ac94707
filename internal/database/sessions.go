package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

const sessionCollection = "onboarding_sessions"

// SessionStore is the Mongo-backed durable side of a wizard session. The
// full draft never touches it; only the step reached and the identifiers a
// restart must not lose.
type SessionStore struct {
	db *mongo.Database
}

func NewSessionStore(db *mongo.Database) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Save(ctx context.Context, session models.OnboardingSession) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Collection(sessionCollection).ReplaceOne(
		ctx,
		bson.M{"_id": session.ID},
		session,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *SessionStore) Find(ctx context.Context, id string) (models.OnboardingSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.OnboardingSession
	err := s.db.Collection(sessionCollection).
		FindOne(ctx, bson.M{"_id": id}).
		Decode(&session)
	return session, err
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Collection(sessionCollection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}
