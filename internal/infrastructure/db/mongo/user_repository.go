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

const (
	userCollection       = "users"
	identifierCollection = "user_identifiers"
)

// MongoUserRepository persists users and their login identifiers.
type MongoUserRepository struct {
	client      *mongo.Client
	users       *mongo.Collection
	identifiers *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		client:      db.Client(),
		users:       db.Collection(userCollection),
		identifiers: db.Collection(identifierCollection),
	}
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	DisplayName  string             `bson:"display_name"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

type identifierDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Type      string             `bson:"identifier_type"`
	Value     string             `bson:"identifier_value"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// EnsureIndexes creates the unique index on (identifier_type,
// identifier_value). The index is the authoritative uniqueness guard: the
// pre-check in the registration flow can race, the index cannot.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.identifiers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "identifier_type", Value: 1},
			{Key: "identifier_value", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create identifier index: %w", err)
	}
	return nil
}

// CreateWithIdentifier inserts the user and its identifier record inside one
// multi-document transaction; a failure on either insert rolls back both. A
// duplicate key on the identifier index maps to *domain.NotUniqueError.
func (r *MongoUserRepository) CreateWithIdentifier(ctx context.Context, user domain.CreateUser, identifier domain.Identifier) (string, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return "", fmt.Errorf("start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	now := time.Now().UTC()

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.users.InsertOne(sc, userDoc{
			DisplayName:  user.DisplayName,
			PasswordHash: user.PasswordHash,
			Role:         domain.RoleMember,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}

		userID, ok := res.InsertedID.(primitive.ObjectID)
		if !ok {
			return nil, fmt.Errorf("insert user: unexpected inserted id type %T", res.InsertedID)
		}

		_, err = r.identifiers.InsertOne(sc, identifierDoc{
			UserID:    userID,
			Type:      string(identifier.Type),
			Value:     identifier.Value,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, &domain.NotUniqueError{Field: string(identifier.Type)}
			}
			return nil, fmt.Errorf("insert identifier: %w", err)
		}

		return userID.Hex(), nil
	})
	if err != nil {
		return "", err
	}

	id, _ := result.(string)
	return id, nil
}

// FindIdentifier looks up an identifier record by exact (type, value) match.
func (r *MongoUserRepository) FindIdentifier(ctx context.Context, identifier domain.Identifier) (*domain.UserIdentifier, error) {
	filter := bson.M{
		"identifier_type":  string(identifier.Type),
		"identifier_value": identifier.Value,
	}

	var doc identifierDoc
	if err := r.identifiers.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find identifier: %w", err)
	}

	return &domain.UserIdentifier{
		Identifier: domain.Identifier{
			Type:  domain.IdentifierType(doc.Type),
			Value: doc.Value,
		},
		UserID:    doc.UserID.Hex(),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// FindUserByID fetches a user by primary key.
func (r *MongoUserRepository) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var doc userDoc
	if err := r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &domain.User{
		ID:           doc.ID.Hex(),
		DisplayName:  doc.DisplayName,
		PasswordHash: doc.PasswordHash,
		Role:         doc.Role,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}
