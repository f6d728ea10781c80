package app

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/shelf/internal/libcommon"
	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeFetcher) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeFetcher) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := slices.Clone(f.calls)
	slices.Sort(out)
	return out
}

func (f *fakeFetcher) CurrentUser(context.Context) (*library.User, error) {
	return &library.User{ID: 7, Username: "reader"}, f.record("user")
}

func (f *fakeFetcher) FetchBooks(_ context.Context, q library.BookQuery) (library.Page[library.Book], error) {
	return library.Page[library.Book]{List: []library.Book{{ID: 1, Title: "Dune"}}, Total: 1, Size: q.Size}, f.record("books")
}

func (f *fakeFetcher) FetchMyLoans(context.Context, int, int) (library.Page[library.Loan], error) {
	return library.Page[library.Loan]{List: []library.Loan{{ID: 3}}}, f.record("loans")
}

func (f *fakeFetcher) FetchNotifications(context.Context, int, int) (library.Page[library.Notification], error) {
	return library.Page[library.Notification]{List: []library.Notification{{ID: 4}}}, f.record("notifications")
}

func (f *fakeFetcher) FetchUnreadCount(context.Context) (int64, error) {
	return 2, f.record("unread")
}

func (f *fakeFetcher) FetchLatestAnnouncements(context.Context, int) ([]library.Announcement, error) {
	return []library.Announcement{{ID: 5}}, f.record("announcements")
}

func TestRefresh_AnonymousFetchesPublicDataOnly(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := &state.Store{}
	p := &Poller{Store: store, Fetcher: fetcher, HasToken: func() bool { return false }}

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got, want := fetcher.called(), []string{"announcements", "books"}; !slices.Equal(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	snap := store.Snapshot()
	if !snap.HasData || snap.User != nil || len(snap.Books.List) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Books.Size != pollPageSize {
		t.Fatalf("books page size = %d, want %d", snap.Books.Size, pollPageSize)
	}
}

func TestRefresh_SignedInFetchesEverything(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := &state.Store{}
	p := &Poller{Store: store, Fetcher: fetcher, HasToken: func() bool { return true }}

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	want := []string{"announcements", "books", "loans", "notifications", "unread", "user"}
	if got := fetcher.called(); !slices.Equal(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	snap := store.Snapshot()
	if !snap.SignedIn() || snap.UnreadCount != 2 || len(snap.Loans) != 1 || len(snap.Notifications) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestRefresh_FailureIsRecorded(t *testing.T) {
	fetcher := &fakeFetcher{err: libcommon.ErrNetwork}
	store := &state.Store{}
	p := &Poller{Store: store, Fetcher: fetcher}

	if err := p.Refresh(context.Background()); !errors.Is(err, libcommon.ErrNetwork) {
		t.Fatalf("Refresh error = %v, want ErrNetwork", err)
	}
	snap := store.Snapshot()
	if snap.ConsecutiveFailures != 1 || !errors.Is(snap.LastError, libcommon.ErrNetwork) {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestRefresh_SessionExpiredIsNotAnOutage(t *testing.T) {
	fetcher := &fakeFetcher{err: libcommon.ErrSessionExpired}
	store := &state.Store{}
	p := &Poller{Store: store, Fetcher: fetcher, HasToken: func() bool { return true }}

	_ = p.Refresh(context.Background())
	snap := store.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.LastError != nil {
		t.Fatalf("expired session counted as failure: %+v", snap)
	}
}

func TestPollerStart_ReloadMarksSessionExpired(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signedIn := atomic.Bool{}
	signedIn.Store(true)
	reloads := newSignal()
	store := &state.Store{}
	p := &Poller{
		Store:    store,
		Fetcher:  &fakeFetcher{},
		HasToken: signedIn.Load,
		Interval: time.Hour,
		Reloads:  reloads.C(),
	}
	p.Start(ctx)

	waitFor(t, func() bool { return store.Snapshot().SignedIn() })

	// The client cleared the slots, then asked for a reload.
	signedIn.Store(false)
	reloads.Notify()

	waitFor(t, func() bool {
		snap := store.Snapshot()
		return snap.SessionExpired && snap.User == nil
	})
}

func TestPollerStart_WakeRefreshesImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := &fakeFetcher{}
	wake := newSignal()
	p := &Poller{Store: &state.Store{}, Fetcher: fetcher, Interval: time.Hour, Wake: wake.C()}
	p.Start(ctx)

	waitFor(t, func() bool { return len(fetcher.called()) == 2 })
	wake.Notify()
	waitFor(t, func() bool { return len(fetcher.called()) == 4 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
