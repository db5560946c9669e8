package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/bill-comb/app/bill"
	"github.com/lysyi3m/bill-comb/app/bill/billtest"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	return db
}

func assertSameBill(t *testing.T, want, got bill.Bill) {
	t.Helper()

	w, g := want.Params(), got.Params()
	assert.True(t, w.PubDate.Equal(g.PubDate), "pubDate %v != %v", w.PubDate, g.PubDate)
	w.PubDate, g.PubDate = time.Time{}, time.Time{}
	assert.Equal(t, w, g)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestBillRepository_ReplaceAndGet(t *testing.T) {
	repo := NewBillRepository(newTestDB(t))
	bills := billtest.New(7).Bills(5)
	loadedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.ReplaceFeedBills("senate", bills, loadedAt))

	got, err := repo.GetBills("senate")
	require.NoError(t, err)
	require.Len(t, got, len(bills))
	for i := range bills {
		assertSameBill(t, bills[i], got[i])
	}

	count, err := repo.GetBillCount("senate")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	feed, err := repo.GetFeed("senate")
	require.NoError(t, err)
	require.NotNil(t, feed)
	assert.Equal(t, 5, feed.BillCount)
	require.NotNil(t, feed.LoadedAt)
	assert.True(t, feed.LoadedAt.Equal(loadedAt))
	assert.True(t, feed.Healthy())
}

func TestBillRepository_ReplaceOverwrites(t *testing.T) {
	repo := NewBillRepository(newTestDB(t))
	gen := billtest.New(1)
	now := time.Now()

	require.NoError(t, repo.ReplaceFeedBills("house", gen.Bills(4), now))
	second := gen.Bills(2)
	require.NoError(t, repo.ReplaceFeedBills("house", second, now.Add(time.Minute)))

	got, err := repo.GetBills("house")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second[0].BillNumber(), got[0].BillNumber())
	assert.Equal(t, second[1].BillNumber(), got[1].BillNumber())
}

func TestBillRepository_PreservesOptionalFields(t *testing.T) {
	repo := NewBillRepository(newTestDB(t))
	b := bill.New(bill.Params{
		BillNumber:     "hb 12",
		Title:          "Unknown date",
		VersionHistory: []bill.VersionSnapshot{{"title": "Draft"}},
		IsReviewed:     true,
	})

	require.NoError(t, repo.ReplaceFeedBills("misc", []bill.Bill{b}, time.Now()))

	got, err := repo.GetBills("misc")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "HB12", got[0].BillNumber())
	assert.False(t, got[0].PubDateKnown())
	assert.True(t, got[0].IsReviewed())
	assert.Equal(t, bill.DefaultStatus, got[0].Status())
	assert.Equal(t, []bill.VersionSnapshot{{"title": "Draft"}}, got[0].VersionHistory())
	assert.Empty(t, got[0].Tags())
	assert.NotNil(t, got[0].Tags())
}

func TestBillRepository_EmptyFeed(t *testing.T) {
	repo := NewBillRepository(newTestDB(t))

	got, err := repo.GetBills("missing")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	feed, err := repo.GetFeed("missing")
	require.NoError(t, err)
	assert.Nil(t, feed)
}

func TestFeedRepository_RecordLoadFailure(t *testing.T) {
	repo := NewBillRepository(newTestDB(t))
	loadedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.ReplaceFeedBills("senate", billtest.New(3).Bills(3), loadedAt))
	require.NoError(t, repo.RecordLoadFailure("senate", "boom", loadedAt.Add(time.Hour)))

	feed, err := repo.GetFeed("senate")
	require.NoError(t, err)
	require.NotNil(t, feed)
	assert.Equal(t, "boom", feed.LastError)
	assert.Equal(t, 3, feed.BillCount)
	assert.False(t, feed.Healthy())

	count, err := repo.GetBillCount("senate")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "failed load keeps previous bills")

	require.NoError(t, repo.ReplaceFeedBills("senate", billtest.New(4).Bills(1), loadedAt.Add(2*time.Hour)))
	feed, err = repo.GetFeed("senate")
	require.NoError(t, err)
	assert.Empty(t, feed.LastError)
	assert.Nil(t, feed.LastErrorAt)
	assert.True(t, feed.Healthy())
}

func TestFeedRepository_FailureForUnknownFeed(t *testing.T) {
	repo := NewFeedRepository(newTestDB(t))

	require.NoError(t, repo.RecordLoadFailure("broken", "malformed input", time.Now()))

	feed, err := repo.GetFeed("broken")
	require.NoError(t, err)
	require.NotNil(t, feed)
	assert.Equal(t, 0, feed.BillCount)
	assert.Nil(t, feed.LoadedAt)
	assert.False(t, feed.Healthy())
}

func TestFeedRepository_GetFeeds(t *testing.T) {
	repo := NewBillRepository(newTestDB(t))
	now := time.Now()

	require.NoError(t, repo.ReplaceFeedBills("senate", nil, now))
	require.NoError(t, repo.ReplaceFeedBills("assembly", nil, now))
	require.NoError(t, repo.RecordLoadFailure("house", "boom", now))

	feeds, err := repo.GetFeeds()
	require.NoError(t, err)
	require.Len(t, feeds, 3)
	assert.Equal(t, "assembly", feeds[0].Name)
	assert.Equal(t, "house", feeds[1].Name)
	assert.Equal(t, "senate", feeds[2].Name)

	count, err := repo.GetFeedCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRepositoryInterface(t *testing.T) {
	var _ Repository = NewBillRepository(newTestDB(t))
}
