package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/newsnotify/notification-system/internal/core/domain"
)

const usersCollection = "users"

// UserRepository persists user accounts in MongoDB. All mutations are
// single-document updates, so per-record read-modify-write is atomic.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty"`
	Name                 string               `bson:"name"`
	Surname              string               `bson:"surname,omitempty"`
	Email                string               `bson:"email"`
	PasswordHash         string               `bson:"password_hash"`
	IsVerified           bool                 `bson:"is_verified"`
	PasswordResetToken   string               `bson:"password_reset_token,omitempty"`
	PasswordResetExpires time.Time            `bson:"password_reset_expires,omitempty"`
	NotificationIDs      []primitive.ObjectID `bson:"notification_ids,omitempty"`
	CreatedAt            time.Time            `bson:"created_at"`
	UpdatedAt            time.Time            `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	ids := make([]string, 0, len(mu.NotificationIDs))
	for _, oid := range mu.NotificationIDs {
		ids = append(ids, oid.Hex())
	}
	return &domain.User{
		ID:                   mu.ID.Hex(),
		Name:                 mu.Name,
		Surname:              mu.Surname,
		Email:                mu.Email,
		PasswordHash:         mu.PasswordHash,
		IsVerified:           mu.IsVerified,
		PasswordResetToken:   mu.PasswordResetToken,
		PasswordResetExpires: mu.PasswordResetExpires,
		NotificationIDs:      ids,
		CreatedAt:            mu.CreatedAt,
		UpdatedAt:            mu.UpdatedAt,
	}
}

// Create inserts a new user. The unique index on email turns a concurrent
// duplicate registration into ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Name:         user.Name,
		Surname:      user.Surname,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsVerified:   user.IsVerified,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByResetToken matches a stored hashed reset token that has not expired.
func (r *UserRepository) FindByResetToken(ctx context.Context, hashedToken string, now time.Time) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"password_reset_token":   hashedToken,
		"password_reset_expires": bson.M{"$gt": now},
	})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// SetResetToken stores the hashed token and expiry in one atomic update.
func (r *UserRepository) SetResetToken(ctx context.Context, id, hashedToken string, expires time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password_reset_token":   hashedToken,
			"password_reset_expires": expires,
			"updated_at":             time.Now().UTC(),
		},
	})
}

// UpdatePassword sets the new hash and clears both reset fields atomically,
// which makes a consumed reset token unusable for a second call.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    time.Now().UTC(),
		},
		"$unset": bson.M{
			"password_reset_token":   "",
			"password_reset_expires": "",
		},
	})
}

func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"is_verified": true,
			"updated_at":  time.Now().UTC(),
		},
	})
}

func (r *UserRepository) AppendNotificationID(ctx context.Context, userID, notificationID string) error {
	oid, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("append notification id: %w", err)
	}
	return r.updateByID(ctx, userID, bson.M{
		"$push": bson.M{"notification_ids": oid},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *UserRepository) RemoveNotificationID(ctx context.Context, userID, notificationID string) error {
	oid, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("remove notification id: %w", err)
	}
	return r.updateByID(ctx, userID, bson.M{
		"$pull": bson.M{"notification_ids": oid},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *UserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index the registration flow relies on.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
