package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/steward/internal/repository"
	"github.com/alexanderramin/steward/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func TestFindActive_PicksLatestEffectiveCard(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteRateCardRepo(database)
	ctx := context.Background()

	old := testutil.NewTestRateCard("ENG", "SENIOR", "30000",
		testutil.WithEffectiveWindow(day("2025-01-01"), dayPtr("2026-01-01")))
	current := testutil.NewTestRateCard("ENG", "SENIOR", "36000",
		testutil.WithEffectiveWindow(day("2026-01-01"), nil))
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, current))

	card, err := repo.FindActive(ctx, "ENG", "SENIOR", day("2026-06-15"))
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Equal(t, current.ID, card.ID)

	// Within the older window, the older card resolves.
	card, err = repo.FindActive(ctx, "ENG", "SENIOR", day("2025-06-15"))
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Equal(t, old.ID, card.ID)
}

func TestFindActive_SkipsInactiveCards(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteRateCardRepo(database)
	ctx := context.Background()

	retired := testutil.NewTestRateCard("ENG", "SENIOR", "36000",
		testutil.WithEffectiveWindow(day("2026-01-01"), nil),
		testutil.WithInactive())
	require.NoError(t, repo.Create(ctx, retired))

	card, err := repo.FindActive(ctx, "ENG", "SENIOR", day("2026-06-15"))
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestFindActive_NoMatchReturnsNilNil(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteRateCardRepo(database)

	card, err := repo.FindActive(context.Background(), "ENG", "JUNIOR", day("2026-06-15"))
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestFindActive_RespectsClosedWindow(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteRateCardRepo(database)
	ctx := context.Background()

	expired := testutil.NewTestRateCard("ENG", "SENIOR", "30000",
		testutil.WithEffectiveWindow(day("2025-01-01"), dayPtr("2025-07-01")))
	require.NoError(t, repo.Create(ctx, expired))

	// effective_to is exclusive.
	card, err := repo.FindActive(ctx, "ENG", "SENIOR", day("2025-07-01"))
	require.NoError(t, err)
	assert.Nil(t, card)

	card, err = repo.FindActive(ctx, "ENG", "SENIOR", day("2025-06-30"))
	require.NoError(t, err)
	assert.NotNil(t, card)
}

func TestHasOverlap(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteRateCardRepo(database)
	ctx := context.Background()

	existing := testutil.NewTestRateCard("ENG", "SENIOR", "36000",
		testutil.WithEffectiveWindow(day("2026-01-01"), dayPtr("2026-07-01")))
	require.NoError(t, repo.Create(ctx, existing))

	// Intersecting window.
	overlap, err := repo.HasOverlap(ctx, "ENG", "SENIOR", day("2026-03-01"), dayPtr("2026-09-01"), "")
	require.NoError(t, err)
	assert.True(t, overlap)

	// Open-ended window starting inside.
	overlap, err = repo.HasOverlap(ctx, "ENG", "SENIOR", day("2026-03-01"), nil, "")
	require.NoError(t, err)
	assert.True(t, overlap)

	// Adjacent window, starting exactly at the existing end, is clear.
	overlap, err = repo.HasOverlap(ctx, "ENG", "SENIOR", day("2026-07-01"), nil, "")
	require.NoError(t, err)
	assert.False(t, overlap)

	// A different pair never conflicts.
	overlap, err = repo.HasOverlap(ctx, "ENG", "JUNIOR", day("2026-03-01"), nil, "")
	require.NoError(t, err)
	assert.False(t, overlap)

	// Excluding the card itself clears the check (the update path).
	overlap, err = repo.HasOverlap(ctx, "ENG", "SENIOR", day("2026-03-01"), nil, existing.ID)
	require.NoError(t, err)
	assert.False(t, overlap)
}

func TestHasOverlap_IgnoresInactive(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteRateCardRepo(database)
	ctx := context.Background()

	retired := testutil.NewTestRateCard("ENG", "SENIOR", "36000",
		testutil.WithEffectiveWindow(day("2026-01-01"), nil),
		testutil.WithInactive())
	require.NoError(t, repo.Create(ctx, retired))

	overlap, err := repo.HasOverlap(ctx, "ENG", "SENIOR", day("2026-03-01"), nil, "")
	require.NoError(t, err)
	assert.False(t, overlap)
}
