package repositories

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/votline/votline_backend/models"
)

// These tests need a real MongoDB. Point MONGO_TEST_URI at a replica set
// (transactions are unavailable on a standalone) and they will run;
// otherwise they skip. Each run works in its own throwaway database.
func testClient(t *testing.T) *mongo.Client {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set; skipping repository integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	dbName := fmt.Sprintf("votline_test_%d", time.Now().UnixNano())
	t.Setenv("DB_NAME", dbName)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		client.Database(dbName).Drop(ctx)
		client.Disconnect(ctx)
	})

	return client
}

func TestVerificationRepositoryWindowAndLookup(t *testing.T) {
	client := testClient(t)
	repo := NewVerificationRepository(client)
	ctx := context.Background()

	now := time.Now()
	for i, age := range []time.Duration{5 * time.Minute, 30 * time.Minute, 90 * time.Minute} {
		require.NoError(t, repo.Create(ctx, &models.VerificationRecord{
			Phone:         "15551234567",
			ParticipantID: "candidate-1",
			OTPHash:       fmt.Sprintf("hash-%d", i),
			ExpiresAt:     now.Add(10 * time.Minute),
			CreatedAt:     now.Add(-age),
		}))
	}

	// Only the two records younger than an hour count toward the window
	count, err := repo.CountRecentByPhone(ctx, "15551234567", now.Add(-1*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Latest valid is the 5-minute-old record
	rec, err := repo.FindLatestValid(ctx, "15551234567", "candidate-1", now)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "hash-0", rec.OTPHash)

	// Different participant, no match
	rec, err = repo.FindLatestValid(ctx, "15551234567", "candidate-2", now)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestVerificationRepositoryPagedDelete(t *testing.T) {
	client := testClient(t)
	repo := NewVerificationRepository(client)
	ctx := context.Background()

	// Enough records to force multiple delete pages
	total := purgeBatchSize + 50
	for i := 0; i < total; i++ {
		require.NoError(t, repo.Create(ctx, &models.VerificationRecord{
			Phone:     fmt.Sprintf("4071234%04d", i),
			OTPHash:   "hash",
			ExpiresAt: time.Now().Add(10 * time.Minute),
			CreatedAt: time.Now(),
		}))
	}

	require.NoError(t, repo.DeleteAll(ctx))

	count, err := repo.CountRecentByPhone(ctx, "40712340000", time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestVoteRepositoryCommitExactlyOnce(t *testing.T) {
	client := testClient(t)
	verifications := NewVerificationRepository(client)
	votes := NewVoteRepository(client)
	ctx := context.Background()

	rec := &models.VerificationRecord{
		Phone:         "15551234567",
		ParticipantID: "candidate-1",
		OTPHash:       "hash",
		ExpiresAt:     time.Now().Add(10 * time.Minute),
		CreatedAt:     time.Now(),
	}
	require.NoError(t, verifications.Create(ctx, rec))

	const attempts = 4
	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			alreadyVoted, err := votes.Commit(ctx, "15551234567", "candidate-1", rec.ID)
			if err != nil {
				t.Error(err)
				return
			}
			results <- alreadyVoted
		}()
	}
	wg.Wait()
	close(results)

	var committed int
	for alreadyVoted := range results {
		if !alreadyVoted {
			committed++
		}
	}
	assert.Equal(t, 1, committed)

	exists, err := votes.Exists(ctx, "15551234567")
	require.NoError(t, err)
	assert.True(t, exists)

	// The record was consumed in the same transaction
	latest, err := verifications.FindLatestValid(ctx, "15551234567", "candidate-1", time.Now())
	require.NoError(t, err)
	assert.Nil(t, latest)
}
