package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/newsnotify/notification-system/internal/core/domain"
)

const notificationsCollection = "notifications"

// NotificationRepository persists notification requests in MongoDB.
type NotificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{coll: db.Collection(notificationsCollection)}
}

type mongoNotification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Creator        primitive.ObjectID `bson:"creator"`
	Receivers      []string           `bson:"receivers"`
	SearchQuery    string             `bson:"search_query"`
	RelevancyScore int                `bson:"relevancy_score"`
	Frequency      string             `bson:"frequency"`
	Days           []string           `bson:"days,omitempty"`
	Time           string             `bson:"time"`
	Timezone       string             `bson:"timezone"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (mn *mongoNotification) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:             mn.ID.Hex(),
		Creator:        mn.Creator.Hex(),
		Receivers:      mn.Receivers,
		SearchQuery:    mn.SearchQuery,
		RelevancyScore: mn.RelevancyScore,
		Frequency:      domain.Frequency(mn.Frequency),
		Days:           mn.Days,
		Time:           mn.Time,
		Timezone:       mn.Timezone,
		CreatedAt:      mn.CreatedAt,
		UpdatedAt:      mn.UpdatedAt,
	}
}

func fromDomain(n *domain.Notification) (*mongoNotification, error) {
	creator, err := primitive.ObjectIDFromHex(n.Creator)
	if err != nil {
		return nil, fmt.Errorf("invalid creator id: %w", err)
	}
	return &mongoNotification{
		Creator:        creator,
		Receivers:      n.Receivers,
		SearchQuery:    n.SearchQuery,
		RelevancyScore: n.RelevancyScore,
		Frequency:      string(n.Frequency),
		Days:           n.Days,
		Time:           n.Time,
		Timezone:       n.Timezone,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := fromDomain(n)
	if err != nil {
		return nil, err
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}

	created := *n
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotificationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mn mongoNotification
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mn); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("find notification: %w", err)
	}
	return mn.toDomain(), nil
}

// FindByCreator returns all notifications owned by creatorID, oldest first.
func (r *NotificationRepository) FindByCreator(ctx context.Context, creatorID string) ([]domain.Notification, error) {
	oid, err := primitive.ObjectIDFromHex(creatorID)
	if err != nil {
		return []domain.Notification{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"creator": oid})
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cur.Close(ctx)

	items := []domain.Notification{}
	for cur.Next(ctx) {
		var mn mongoNotification
		if err := cur.Decode(&mn); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		items = append(items, *mn.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return items, nil
}

// Update replaces the mutable fields of an existing notification. The
// creator field is deliberately not part of the update document.
func (r *NotificationRepository) Update(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	oid, err := primitive.ObjectIDFromHex(n.ID)
	if err != nil {
		return nil, domain.ErrNotificationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"receivers":       n.Receivers,
		"search_query":    n.SearchQuery,
		"relevancy_score": n.RelevancyScore,
		"frequency":       string(n.Frequency),
		"days":            n.Days,
		"time":            n.Time,
		"timezone":        n.Timezone,
		"updated_at":      n.UpdatedAt,
	}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return nil, fmt.Errorf("update notification: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotificationNotFound
	}
	return n, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotificationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// EnsureIndexes creates the creator index List queries depend on.
func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "creator", Value: 1}},
	})
	return err
}
