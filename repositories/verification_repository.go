package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/votline/votline_backend/config"
	"github.com/votline/votline_backend/models"
)

type VerificationRepository struct {
	collection *mongo.Collection
}

func NewVerificationRepository(db *mongo.Client) *VerificationRepository {
	return &VerificationRepository{
		collection: config.GetCollection(db, "verifications"),
	}
}

// CountRecentByPhone returns how many verification records were created for
// the phone since the given instant. This read drives the issuance window;
// the check itself writes nothing.
func (r *VerificationRepository) CountRecentByPhone(ctx context.Context, phone string, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"phone":     phone,
		"createdAt": bson.M{"$gte": since},
	})
}

// Create persists a new verification record and backfills its generated id.
func (r *VerificationRepository) Create(ctx context.Context, rec *models.VerificationRecord) error {
	res, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid
	}
	return nil
}

// FindLatestValid returns the most recent unused, unexpired record for the
// phone and participant, or nil when none qualifies. Callers must not
// distinguish the nil case from a wrong code.
func (r *VerificationRepository) FindLatestValid(ctx context.Context, phone, participantID string, now time.Time) (*models.VerificationRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var rec models.VerificationRecord
	err := r.collection.FindOne(ctx, bson.M{
		"phone":         phone,
		"participantId": participantID,
		"used":          false,
		"expiresAt":     bson.M{"$gte": now},
	}, opts).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteAll removes every verification record in fixed-size pages.
func (r *VerificationRepository) DeleteAll(ctx context.Context) error {
	return deleteAllPaged(ctx, r.collection)
}
