package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureSessionIndexes creates the indexes the onboarding_sessions collection
// relies on: a TTL index so abandoned drafts expire on their own, and a
// sparse email index for support lookups.
func EnsureSessionIndexes(db *mongo.Database, sessionTTL time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(sessionCollection).Indexes()

	ttlIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "updatedAt", Value: 1}},
		Options: options.Index().
			SetName("session_ttl").
			SetExpireAfterSeconds(int32(sessionTTL.Seconds())),
	}

	log.Println("EnsureSessionIndexes: creating session_ttl index")
	if _, err := indexes.CreateOne(ctx, ttlIndex); err != nil {
		log.Println("EnsureSessionIndexes: ttl index error:", err)
		return err
	}

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("session_email").
			SetSparse(true),
	}

	log.Println("EnsureSessionIndexes: creating session_email index")
	if _, err := indexes.CreateOne(ctx, emailIndex); err != nil {
		log.Println("EnsureSessionIndexes: email index error:", err)
		return err
	}

	log.Println("EnsureSessionIndexes: indexes created")
	return nil
}
