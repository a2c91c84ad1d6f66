package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expired-listings/models"
)

func newRun(t *testing.T, createdAt time.Time, listings ...*models.Listing) *models.Run {
	t.Helper()
	return &models.Run{
		ID:            uuid.New(),
		CreatedAt:     createdAt.UTC().Truncate(time.Millisecond),
		OffMarketRows: 10,
		SoldRows:      4,
		ForSaleRows:   3,
		Listings:      listings,
	}
}

func sampleListing(mls string) *models.Listing {
	return &models.Listing{
		MLS:          mls,
		Address:      mls + " Main St Vancouver BC",
		PropertyType: "House",
		Bedrooms:     sql.NullFloat64{Float64: 3, Valid: true},
		Bathrooms:    sql.NullFloat64{Float64: 2.5, Valid: true},
		ListPrice:    sql.NullFloat64{Float64: 1250000, Valid: true},
		DaysOnMarket: sql.NullFloat64{Float64: 42, Valid: true},
		YearBuilt:    1999,
		CancelDate:   "2024-06-30",
	}
}

// runStoreContract exercises behaviour every RunStore must share.
func runStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	base := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	first := newRun(t, base, sampleListing("R1"), &models.Listing{MLS: "R2", Address: "2 B St"})
	second := newRun(t, base.Add(time.Hour))

	require.NoError(t, store.SaveRun(ctx, first))
	require.NoError(t, store.SaveRun(ctx, second))

	got, err := store.GetRun(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, 10, got.OffMarketRows)
	require.Len(t, got.Listings, 2)
	assert.Equal(t, *sampleListing("R1"), *got.Listings[0])
	assert.Equal(t, "R2", got.Listings[1].MLS)
	assert.False(t, got.Listings[1].ListPrice.Valid)

	summaries, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, second.ID, summaries[0].ID)
	assert.Equal(t, 2, summaries[1].ExpiredCount)

	limited, err := store.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = store.GetRun(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrRunNotFound)

	assert.NoError(t, store.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(10)
	defer store.Close()
	runStoreContract(t, store)
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2)

	runs := []*models.Run{newRun(t, time.Now()), newRun(t, time.Now()), newRun(t, time.Now())}
	for _, r := range runs {
		require.NoError(t, store.SaveRun(ctx, r))
	}

	_, err := store.GetRun(ctx, runs[0].ID)
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = store.GetRun(ctx, runs[2].ID)
	assert.NoError(t, err)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)
	defer store.Close()

	runStoreContract(t, store)
}

func TestSQLiteStoreLargeRun(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	listings := make([]*models.Listing, 0, 120)
	for i := 0; i < 120; i++ {
		listings = append(listings, sampleListing(uuid.NewString()[:8]))
	}
	run := newRun(t, time.Now(), listings...)
	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got.Listings, 120)
	for i := range listings {
		assert.Equal(t, listings[i].MLS, got.Listings[i].MLS, "position %d", i)
	}
}
