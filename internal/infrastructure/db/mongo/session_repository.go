package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/masjidmap/auth-service/internal/core/domain"
)

const sessionCollection = "sessions"

// MongoSessionRepository persists login sessions.
type MongoSessionRepository struct {
	coll *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{coll: db.Collection(sessionCollection)}
}

type sessionDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       primitive.ObjectID `bson:"user_id"`
	SessionToken string             `bson:"session_token"`
	ExpiresAt    time.Time          `bson:"expires_at"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// EnsureIndexes creates the token and housekeeping indexes: the token lookup
// is the hot path, user_id backs rotate/extend, expires_at backs the sweep.
func (r *MongoSessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create session indexes: %w", err)
	}
	return nil
}

func (r *MongoSessionRepository) Insert(ctx context.Context, session domain.CreateSession) error {
	userID, err := primitive.ObjectIDFromHex(session.UserID)
	if err != nil {
		return fmt.Errorf("insert session: invalid user id %q", session.UserID)
	}

	_, err = r.coll.InsertOne(ctx, sessionDoc{
		UserID:       userID,
		SessionToken: session.SessionToken,
		ExpiresAt:    session.ExpiresAt,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *MongoSessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	var doc sessionDoc
	if err := r.coll.FindOne(ctx, bson.M{"session_token": token}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session by token: %w", err)
	}
	return fromSessionDoc(&doc), nil
}

func (r *MongoSessionRepository) FindByUserID(ctx context.Context, userID string) (*domain.Session, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}

	var doc sessionDoc
	if err := r.coll.FindOne(ctx, bson.M{"user_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session by user: %w", err)
	}
	return fromSessionDoc(&doc), nil
}

// UpdateByUserID merge-updates the user's session: only the non-nil fields of
// the update are written. With several concurrent sessions for one user the
// first match wins, mirroring the last-write-wins rotate/extend contract.
func (r *MongoSessionRepository) UpdateByUserID(ctx context.Context, userID string, update domain.UpdateSession) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("update session: invalid user id %q", userID)
	}

	set := bson.M{}
	if update.SessionToken != nil {
		set["session_token"] = *update.SessionToken
	}
	if update.ExpiresAt != nil {
		set["expires_at"] = *update.ExpiresAt
	}
	if len(set) == 0 {
		return nil
	}

	if _, err := r.coll.UpdateOne(ctx, bson.M{"user_id": oid}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// DeleteByToken removes the session matching the token; deleting an absent
// token is a no-op.
func (r *MongoSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"session_token": token}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session whose expiry is at or before now.
func (r *MongoSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.DeletedCount, nil
}

func fromSessionDoc(doc *sessionDoc) *domain.Session {
	return &domain.Session{
		ID:           doc.ID.Hex(),
		UserID:       doc.UserID.Hex(),
		SessionToken: doc.SessionToken,
		ExpiresAt:    doc.ExpiresAt,
		CreatedAt:    doc.CreatedAt,
	}
}
