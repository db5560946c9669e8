package tasks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/bill-comb/app/bill"
	"github.com/lysyi3m/bill-comb/app/bill/billtest"
)

// MockFeedLister returns a fixed list of feed names
type MockFeedLister struct {
	names []string
	err   error
}

func (m *MockFeedLister) List() ([]string, error) {
	return m.names, m.err
}

// MockBillLoader serves canned bills per feed name
type MockBillLoader struct {
	bills map[string][]bill.Bill
	errs  map[string]error
}

func (m *MockBillLoader) Load(name string) ([]bill.Bill, error) {
	if err := m.errs[name]; err != nil {
		return nil, err
	}
	return m.bills[name], nil
}

// MockBillStore records every write it receives
type MockBillStore struct {
	mu       sync.Mutex
	replaced map[string][]bill.Bill
	failures map[string]string
	err      error
}

func newMockBillStore() *MockBillStore {
	return &MockBillStore{
		replaced: map[string][]bill.Bill{},
		failures: map[string]string{},
	}
}

func (m *MockBillStore) ReplaceFeedBills(feedName string, bills []bill.Bill, loadedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.replaced[feedName] = bills
	return nil
}

func (m *MockBillStore) RecordLoadFailure(name, message string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[name] = message
	return nil
}

func (m *MockBillStore) loadedFeeds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.replaced))
	for name := range m.replaced {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestLoadFeedTask_Execute(t *testing.T) {
	bills := billtest.New(3).Bills(4)
	loader := &MockBillLoader{bills: map[string][]bill.Bill{"senate": bills}}
	store := newMockBillStore()

	task := NewLoadFeedTask("senate", loader, store)
	assert.Equal(t, TaskTypeLoadFeed, task.GetType())
	assert.Equal(t, "senate", task.GetFeedName())
	assert.NotEmpty(t, task.GetID())

	require.NoError(t, task.Execute(context.Background()))
	assert.Equal(t, bills, store.replaced["senate"])
	assert.Empty(t, store.failures)
}

func TestLoadFeedTask_LoadFailureKeepsBills(t *testing.T) {
	loader := &MockBillLoader{errs: map[string]error{"senate": errors.New("malformed input")}}
	store := newMockBillStore()
	previous := billtest.New(9).Bills(2)
	store.replaced["senate"] = previous

	err := NewLoadFeedTask("senate", loader, store).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed input")
	assert.Equal(t, "malformed input", store.failures["senate"])
	assert.Equal(t, previous, store.replaced["senate"])
}

func TestLoadFeedTask_StoreFailure(t *testing.T) {
	loader := &MockBillLoader{bills: map[string][]bill.Bill{"senate": billtest.New(1).Bills(1)}}
	store := newMockBillStore()
	store.err = errors.New("disk full")

	err := NewLoadFeedTask("senate", loader, store).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store bills")
}

func TestLoadFeedTask_CancelledContext(t *testing.T) {
	store := newMockBillStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewLoadFeedTask("senate", &MockBillLoader{}, store).Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.replaced)
}

func TestTask_Duration(t *testing.T) {
	task := NewTask(TaskTypeLoadFeed, "senate")
	assert.Zero(t, task.GetDuration())

	task.Start()
	require.NotNil(t, task.StartedAt)
	assert.GreaterOrEqual(t, task.GetDuration(), time.Duration(0))
}

func TestScheduler_LoadsAllFeedsAtStartup(t *testing.T) {
	gen := billtest.New(5)
	loader := &MockBillLoader{
		bills: map[string][]bill.Bill{"house": gen.Bills(2), "senate": gen.Bills(3)},
		errs:  map[string]error{"broken": errors.New("boom")},
	}
	store := newMockBillStore()
	lister := &MockFeedLister{names: []string{"broken", "house", "senate"}}

	scheduler := NewScheduler(lister, loader, store, 0, 2)
	scheduler.Start()
	defer scheduler.Stop()

	require.Eventually(t, func() bool {
		return len(store.loadedFeeds()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"house", "senate"}, store.loadedFeeds())

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.failures["broken"] == "boom"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_ReloadsOnTick(t *testing.T) {
	loader := &MockBillLoader{bills: map[string][]bill.Bill{"senate": billtest.New(2).Bills(1)}}
	lister := &MockFeedLister{names: []string{"senate"}}
	store := newMockBillStore()

	scheduler := NewScheduler(lister, loader, store, 20*time.Millisecond, 1)
	scheduler.Start()

	require.Eventually(t, func() bool {
		return len(store.loadedFeeds()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	store.mu.Lock()
	delete(store.replaced, "senate")
	store.mu.Unlock()

	require.Eventually(t, func() bool {
		return len(store.loadedFeeds()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	scheduler.Stop()
}

func TestScheduler_QueueFull(t *testing.T) {
	scheduler := NewScheduler(&MockFeedLister{}, &MockBillLoader{}, newMockBillStore(), 0, 1)

	for i := 0; i < taskQueueSize; i++ {
		require.NoError(t, scheduler.LoadFeed("senate"))
	}

	err := scheduler.LoadFeed("senate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task queue is full")
}

func TestScheduler_EnqueueAfterStop(t *testing.T) {
	scheduler := NewScheduler(&MockFeedLister{}, &MockBillLoader{}, newMockBillStore(), 0, 1)
	scheduler.Start()
	scheduler.Stop()

	err := scheduler.LoadFeed("senate")
	assert.ErrorIs(t, err, context.Canceled)
}
