package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/libcommon"
)

// CoverProbe reports whether the image at src can be loaded.
type CoverProbe func(ctx context.Context, src string) error

var errEmptySource = errors.New("empty image source")

// HTTPCoverProbe issues a HEAD request for each cover. Relative sources are
// resolved against base.
func HTTPCoverProbe(client *http.Client, base string) CoverProbe {
	if client == nil {
		client = libcommon.NewTransportClient(CoverProbeTimeout)
	}
	baseURL, _ := url.Parse(strings.TrimSpace(base))

	return func(ctx context.Context, src string) error {
		src = strings.TrimSpace(src)
		if src == "" {
			return errEmptySource
		}
		target, err := url.Parse(src)
		if err != nil {
			return err
		}
		if !target.IsAbs() && baseURL != nil {
			target = baseURL.ResolveReference(target)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.String(), nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		_ = resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("cover %s: %s", target, resp.Status)
		}
		return nil
	}
}

// cover is one book's image slot plus its probe state.
type cover struct {
	slot    *libcommon.ImageSlot
	pending bool
	checked bool
}

// coverCache tracks which covers loaded and swaps broken ones for the
// placeholder. It is only touched from the Bubble Tea update loop.
type coverCache struct {
	placeholders libcommon.Placeholders
	probe        CoverProbe
	entries      map[int64]*cover
}

func newCoverCache(placeholders libcommon.Placeholders, probe CoverProbe) *coverCache {
	return &coverCache{
		placeholders: placeholders,
		probe:        probe,
		entries:      make(map[int64]*cover),
	}
}

// slot returns the image slot for a book, creating it on first use.
func (c *coverCache) slot(bookID int64, src string) *cover {
	if entry, ok := c.entries[bookID]; ok {
		return entry
	}
	var slot *libcommon.ImageSlot
	slot = libcommon.NewImageSlot(strings.TrimSpace(src), func() {
		c.placeholders.HandleImgError(libcommon.ImageErrorEvent{Target: slot}, libcommon.ImageCover)
	})
	entry := &cover{slot: slot}
	c.entries[bookID] = entry
	return entry
}

// check starts a probe for the book's cover unless one already ran.
func (c *coverCache) check(ctx context.Context, bookID int64, src string) tea.Cmd {
	entry := c.slot(bookID, src)
	if entry.checked || entry.pending {
		return nil
	}
	if entry.slot.Src() == "" {
		entry.checked = true
		entry.slot.Fail()
		return nil
	}
	if c.probe == nil {
		entry.checked = true
		return nil
	}
	entry.pending = true
	return probeCoverCmd(ctx, c.probe, bookID, entry.slot.Src())
}

// resolve records a probe result and falls back to the placeholder on error.
func (c *coverCache) resolve(msg coverResultMsg) {
	entry, ok := c.entries[msg.bookID]
	if !ok || entry.slot.Src() != msg.src {
		return
	}
	entry.pending = false
	entry.checked = true
	if msg.err != nil {
		entry.slot.Fail()
	}
}

// describe returns the source to show and whether it is the placeholder.
func (c *coverCache) describe(bookID int64) (src string, fallback, known bool) {
	entry, ok := c.entries[bookID]
	if !ok || !entry.checked {
		return "", false, false
	}
	return entry.slot.Src(), !entry.slot.Armed(), true
}

// probeSelectedCover starts a cover check for the selected catalog book.
func (m Model) probeSelectedCover() tea.Cmd {
	if m.currentView != ViewCatalog {
		return nil
	}
	book := m.selectedBook()
	if book == nil {
		return nil
	}
	return m.covers.check(m.ctx, book.ID, book.CoverURL)
}
