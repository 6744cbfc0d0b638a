//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// startMongo runs a throwaway MongoDB container and returns a connected
// MongoDB handle scoped to a per-test database.
func startMongo(t *testing.T) *MongoDB {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7.0")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := NewMongoDB(uri, "farecalc_test_"+t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close(ctx))
	})
	return db
}

func TestFareCalcConfigRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewFareCalcConfigRepository(startMongo(t))

	t.Run("find on empty collection returns nil", func(t *testing.T) {
		cfg, err := repo.Find(ctx, 'T', "", "B4T0")
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("create and find by agency identity", func(t *testing.T) {
		cfg := model.DefaultFareCalcConfig()
		cfg.PseudoCity = "B4T0"
		cfg.MaxNoOptions = 12

		doc, err := repo.Create(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, 1, doc.Version)
		assert.True(t, doc.Active)
		assert.NotEmpty(t, doc.ID)

		found, err := repo.Find(ctx, 'T', "", "B4T0")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, 12, found.MaxNoOptions)
	})

	t.Run("pseudo city falls back to the user-application default", func(t *testing.T) {
		wildcard := model.DefaultFareCalcConfig()
		wildcard.PseudoCity = ""
		wildcard.MaxNoOptions = 4
		_, err := repo.Create(ctx, wildcard)
		require.NoError(t, err)

		found, err := repo.Find(ctx, 'T', "", "K25H")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, 4, found.MaxNoOptions)
	})

	t.Run("update bumps the version", func(t *testing.T) {
		cfg := model.DefaultFareCalcConfig()
		cfg.PseudoCity = "HDQ1"
		doc, err := repo.Create(ctx, cfg)
		require.NoError(t, err)

		cfg.MaxNoOptions = 24
		updated, err := repo.Update(ctx, doc.ID, cfg)
		require.NoError(t, err)
		assert.Equal(t, doc.Version+1, updated.Version)
		assert.Equal(t, 24, updated.MaxNoOptions)
	})

	t.Run("list returns newest first", func(t *testing.T) {
		docs, err := repo.List(ctx, 10)
		require.NoError(t, err)
		require.NotEmpty(t, docs)
		for i := 1; i < len(docs); i++ {
			assert.False(t, docs[i-1].CreatedAt.Before(docs[i].CreatedAt))
		}
	})
}

func TestEntryAuditRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryAuditRepository(startMongo(t))

	now := time.Now().UTC().Truncate(time.Millisecond)
	records := []*EntryAuditDocument{
		{Timestamp: now, RequestID: "req-1", Entry: "WP", PseudoCity: "B4T0", OptionCount: 1, StatusCode: 200},
		{Timestamp: now.Add(time.Second), RequestID: "req-2", Entry: "WPA", PseudoCity: "B4T0", OptionCount: 4, StatusCode: 200},
		{Timestamp: now.Add(2 * time.Second), RequestID: "req-3", Entry: "WQ", PseudoCity: "K25H", StatusCode: 400, Error: "NO FARES"},
	}
	require.NoError(t, repo.InsertBatch(ctx, records))

	t.Run("search by entry type", func(t *testing.T) {
		got, err := repo.Search(ctx, AuditQuery{Entry: "WPA"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "req-2", got[0].RequestID)
	})

	t.Run("search by agency", func(t *testing.T) {
		got, err := repo.Search(ctx, AuditQuery{PseudoCity: "B4T0"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("failed only", func(t *testing.T) {
		got, err := repo.Search(ctx, AuditQuery{FailedOnly: true})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "NO FARES", got[0].Error)
	})

	t.Run("count with time window", func(t *testing.T) {
		start := now.Add(500 * time.Millisecond)
		n, err := repo.Count(ctx, AuditQuery{StartTime: &start})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("single insert", func(t *testing.T) {
		require.NoError(t, repo.Insert(ctx, &EntryAuditDocument{
			Timestamp: time.Now(), RequestID: "req-4", Entry: "WP", StatusCode: 200,
		}))
		n, err := repo.Count(ctx, AuditQuery{Entry: "WP"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})
}

func TestMongoDB_HealthCheckAndTTL_Integration(t *testing.T) {
	ctx := context.Background()
	db := startMongo(t)

	require.NoError(t, db.HealthCheck(ctx))
	require.NoError(t, db.SetAuditTTL(ctx, 30))
	// Re-applying the same retention must not error.
	require.NoError(t, db.SetAuditTTL(ctx, 30))
}
