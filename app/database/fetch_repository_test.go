package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *FetchLogRepository {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	return NewFetchLogRepository(db)
}

func TestNewConnectionRequiresPath(t *testing.T) {
	_, err := NewConnection("")
	assert.Error(t, err)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	_, _, err = RunMigrations(db)
	require.NoError(t, err)

	version, _, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestRecordAndListFetches(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []FetchRecord{
		{ViewID: "a", Source: "rss2json", Outcome: OutcomeOK, Entries: 3, Duration: 120 * time.Millisecond, FetchedAt: base},
		{ViewID: "b", Source: "rss2json", Outcome: "upstream", Error: "Failed to fetch articles", Duration: 80 * time.Millisecond, FetchedAt: base.Add(time.Minute)},
		{ViewID: "c", Source: "direct", Outcome: "transport", Attempts: 3, Duration: 2 * time.Second, FetchedAt: base.Add(2 * time.Minute)},
	}
	for _, record := range records {
		require.NoError(t, repo.RecordFetch(record))
	}

	recent, err := repo.ListRecentFetches(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	assert.Equal(t, "c", recent[0].ViewID)
	assert.Equal(t, 3, recent[0].Attempts)
	assert.Equal(t, 2*time.Second, recent[0].Duration)
	assert.True(t, recent[0].FetchedAt.Equal(base.Add(2*time.Minute)))

	assert.Equal(t, "b", recent[1].ViewID)
	assert.Equal(t, 1, recent[1].Attempts)
	assert.Equal(t, "Failed to fetch articles", recent[1].Error)
}

func TestGetFetchStats(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RecordFetch(FetchRecord{ViewID: "old", Source: "rss2json", Outcome: OutcomeOK, Duration: time.Second, FetchedAt: base.Add(-time.Hour)}))
	require.NoError(t, repo.RecordFetch(FetchRecord{ViewID: "a", Source: "rss2json", Outcome: OutcomeOK, Duration: 100 * time.Millisecond, FetchedAt: base}))
	require.NoError(t, repo.RecordFetch(FetchRecord{ViewID: "b", Source: "rss2json", Outcome: OutcomeOK, Duration: 300 * time.Millisecond, FetchedAt: base.Add(time.Second)}))
	require.NoError(t, repo.RecordFetch(FetchRecord{ViewID: "c", Source: "rss2json", Outcome: "malformed", Duration: 200 * time.Millisecond, FetchedAt: base.Add(2 * time.Second)}))

	stats, err := repo.GetFetchStats(base)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByOutcome[OutcomeOK])
	assert.Equal(t, 1, stats.ByOutcome["malformed"])
	assert.Equal(t, 200*time.Millisecond, stats.AvgDuration)
	require.NotNil(t, stats.LastFetchedAt)
	assert.True(t, stats.LastFetchedAt.Equal(base.Add(2*time.Second)))
}

func TestGetFetchStatsEmpty(t *testing.T) {
	repo := newTestRepository(t)

	stats, err := repo.GetFetchStats(time.Now().Add(-time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Total)
	assert.Nil(t, stats.LastFetchedAt)
	assert.Empty(t, stats.ByOutcome)
}

func TestDeleteFetchesBefore(t *testing.T) {
	repo := newTestRepository(t)
	now := time.Now()

	require.NoError(t, repo.RecordFetch(FetchRecord{ViewID: "old", Source: "rss2json", Outcome: OutcomeOK, FetchedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, repo.RecordFetch(FetchRecord{ViewID: "new", Source: "rss2json", Outcome: OutcomeOK, FetchedAt: now}))

	deleted, err := repo.DeleteFetchesBefore(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := repo.ListRecentFetches(10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].ViewID)
}
