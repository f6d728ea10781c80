package app

import (
	"context"
	"time"

	"github.com/five82/shelf/internal/libcommon"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/ui"
)

// Run boots the shelf TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	return env.RunUI(ctx, opts.PollEvery)
}

// RunUI starts the poller and blocks in the TUI.
func (e *Env) RunUI(ctx context.Context, pollEvery int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := &state.Store{}
	wake := newSignal()

	interval := defaultPollInterval
	if pollEvery > 0 {
		interval = time.Duration(pollEvery) * time.Second
	}

	poller := &Poller{
		Store:    store,
		Fetcher:  e.Library,
		HasToken: func() bool { return e.API.GetToken() != "" },
		Interval: interval,
		Log:      e.Log,
		Reloads:  e.reloads.C(),
		Wake:     wake.C(),
	}
	poller.Start(ctx)

	uiOpts := ui.Options{
		Context:      ctx,
		Store:        store,
		Actions:      e.Library,
		Refresh:      wake.Notify,
		Formatter:    libcommon.NewTimeFormatter(nil, e.Localizer),
		ErrorText:    e.Localizer.ErrorText,
		Placeholders: e.API.Placeholders(),
		CoverProbe:   ui.HTTPCoverProbe(libcommon.NewTransportClient(ui.CoverProbeTimeout), e.API.BaseURL()),
		Session:      e.Session,
		Log:          e.Log,
		PollTick:     time.Second,
		ThemeName:    e.Prefs.Theme,
		PrefsPath:    e.PrefsPath,
	}
	return ui.Run(uiOpts)
}
