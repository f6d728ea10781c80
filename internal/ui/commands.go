package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/state"
)

// Message types
type (
	tickMsg     time.Time
	snapshotMsg state.Snapshot

	actionResultMsg struct {
		success string
		err     error
	}

	coverResultMsg struct {
		bookID int64
		src    string
		err    error
	}
)

// tickCmd returns a command that sends a tick after the given duration.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchSnapshotCmd returns a command that fetches the current snapshot.
func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// actionCmd runs fn off the event loop with ActionTimeout applied.
func actionCmd(ctx context.Context, success string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		return actionResultMsg{success: success, err: fn(ctx)}
	}
}

// probeCoverCmd checks whether src can be loaded.
func probeCoverCmd(ctx context.Context, probe CoverProbe, bookID int64, src string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, CoverProbeTimeout)
		defer cancel()
		return coverResultMsg{bookID: bookID, src: src, err: probe(ctx, src)}
	}
}
