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

// purgeBatchSize caps how many documents a single delete touches, so a
// reset never exceeds the store's batch-write ceiling.
const purgeBatchSize = 500

type VoteRepository struct {
	client        *mongo.Client
	votes         *mongo.Collection
	verifications *mongo.Collection
}

func NewVoteRepository(db *mongo.Client) *VoteRepository {
	return &VoteRepository{
		client:        db,
		votes:         config.GetCollection(db, "votes"),
		verifications: config.GetCollection(db, "verifications"),
	}
}

// Exists reports whether a ballot has already been cast from the phone.
func (r *VoteRepository) Exists(ctx context.Context, phone string) (bool, error) {
	err := r.votes.FindOne(ctx, bson.M{"_id": phone}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Commit casts the ballot and consumes the verification record as one
// all-or-nothing unit. The existence re-check runs inside the transaction,
// so two concurrent verifies for the same phone observe one serialization
// point and only one of them writes. Returns alreadyVoted=true when another
// ballot got there first; nothing is written in that case.
func (r *VoteRepository) Commit(ctx context.Context, phone, participantID string, verificationID primitive.ObjectID) (bool, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return false, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		err := r.votes.FindOne(sc, bson.M{"_id": phone}).Err()
		if err == nil {
			return true, nil
		}
		if err != mongo.ErrNoDocuments {
			return false, err
		}

		vote := models.VoteRecord{
			Phone:         phone,
			ParticipantID: participantID,
			Timestamp:     time.Now(),
		}
		if _, err := r.votes.InsertOne(sc, vote); err != nil {
			return false, err
		}

		if _, err := r.verifications.UpdateOne(sc,
			bson.M{"_id": verificationID},
			bson.M{"$set": bson.M{"used": true}},
		); err != nil {
			return false, err
		}

		return false, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// DeleteAll removes every ballot in fixed-size pages.
func (r *VoteRepository) DeleteAll(ctx context.Context) error {
	return deleteAllPaged(ctx, r.votes)
}

// deleteAllPaged empties a collection one id-page at a time. Sequential on
// purpose: a reset runs against unbounded collections and must bound both
// memory and the per-batch write size.
func deleteAllPaged(ctx context.Context, coll *mongo.Collection) error {
	findOpts := options.Find().
		SetLimit(purgeBatchSize).
		SetProjection(bson.M{"_id": 1})

	for {
		cursor, err := coll.Find(ctx, bson.M{}, findOpts)
		if err != nil {
			return err
		}

		var docs []bson.M
		if err := cursor.All(ctx, &docs); err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}

		ids := make([]interface{}, 0, len(docs))
		for _, doc := range docs {
			ids = append(ids, doc["_id"])
		}
		if _, err := coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
			return err
		}

		if len(docs) < purgeBatchSize {
			return nil
		}
	}
}
