package app

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/shelf/internal/libcommon"
	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
	pollPageSize        = 20
	announcementLimit   = 5
)

// Poller refreshes the store from the library API.
type Poller struct {
	Store    *state.Store
	Fetcher  library.Fetcher
	HasToken func() bool
	Interval time.Duration
	Log      logging.Logger

	// Reloads fires after the client cleared an expired session.
	Reloads <-chan struct{}
	// Wake forces an immediate refresh, e.g. after the UI changed something.
	Wake <-chan struct{}
}

// Start launches a background goroutine that refreshes the store at a
// fixed cadence, slowing down while polls fail. It returns immediately.
func (p *Poller) Start(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-p.Reloads:
				p.Store.MarkSessionExpired()
			case <-p.Wake:
			case <-timer.C:
			}
			_ = p.Refresh(ctx)
			timer.Reset(calculateBackoff(p.Store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// Refresh fetches one complete poll concurrently. Public data is always
// fetched; personal data only while a token is stored.
func (p *Poller) Refresh(ctx context.Context) error {
	log := p.Log
	if log == nil {
		log = logging.Discard()
	}
	signedIn := p.HasToken != nil && p.HasToken()

	var data state.Data
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		books, err := p.Fetcher.FetchBooks(gctx, library.BookQuery{Size: pollPageSize})
		data.Books = books
		return err
	})
	g.Go(func() error {
		anns, err := p.Fetcher.FetchLatestAnnouncements(gctx, announcementLimit)
		data.Announcements = anns
		return err
	})
	if signedIn {
		g.Go(func() error {
			user, err := p.Fetcher.CurrentUser(gctx)
			data.User = user
			return err
		})
		g.Go(func() error {
			loans, err := p.Fetcher.FetchMyLoans(gctx, 1, pollPageSize)
			data.Loans = loans.List
			return err
		})
		g.Go(func() error {
			page, err := p.Fetcher.FetchNotifications(gctx, 1, pollPageSize)
			data.Notifications = page.List
			return err
		})
		g.Go(func() error {
			count, err := p.Fetcher.FetchUnreadCount(gctx)
			data.UnreadCount = count
			return err
		})
	}

	err := g.Wait()
	switch {
	case err == nil:
		p.Store.Update(&data, nil)
	case errors.Is(err, libcommon.ErrSessionExpired):
		// The reload signal carries this one; it is not an outage.
		log.Info("poll hit an expired session")
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		p.Store.Update(nil, err)
		log.Warnf("poll failed: %v", err)
	}
	return err
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 || interval >= maxBackoff {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
