package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/shelf/internal/library"
)

// Data is one complete poll of the library API.
type Data struct {
	User          *library.User
	Books         library.Page[library.Book]
	Loans         []library.Loan
	Notifications []library.Notification
	UnreadCount   int64
	Announcements []library.Announcement
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Data
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
	SessionExpired      bool
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// SignedIn reports whether the last poll identified a user and no 401 has
// been seen since.
func (s Snapshot) SignedIn() bool {
	return s.User != nil && !s.SessionExpired
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored data. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(data *Data, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if data != nil {
		s.snapshot.Data = cloneData(*data)
		s.snapshot.HasData = true
		if data.User != nil {
			s.snapshot.SessionExpired = false
		}
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// MarkSessionExpired records that the server rejected the stored token. The
// user is dropped; catalog data stays visible.
func (s *Store) MarkSessionExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.SessionExpired = true
	s.snapshot.User = nil
	s.snapshot.Loans = nil
	s.snapshot.Notifications = nil
	s.snapshot.UnreadCount = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Data = cloneData(s.snapshot.Data)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneData(d Data) Data {
	if d.User != nil {
		user := *d.User
		d.User = &user
	}
	d.Books.List = cloneSlice(d.Books.List)
	d.Loans = cloneSlice(d.Loans)
	d.Notifications = cloneSlice(d.Notifications)
	d.Announcements = cloneSlice(d.Announcements)
	return d
}

func cloneSlice[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	return slices.Clone(items)
}
