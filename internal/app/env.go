package app

import (
	"errors"
	"fmt"

	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/credentials"
	"github.com/five82/shelf/internal/l10n"
	"github.com/five82/shelf/internal/libcommon"
	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/prefs"
)

// Options configure the shelf application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/shelf/prefs.toml
	PollEvery  int    // seconds; zero uses default
	Language   string // overrides prefs and config when set
	LogLevel   string // overrides config when set
}

// Env is everything a subcommand needs, opened once per process.
type Env struct {
	Config      config.Config
	Prefs       prefs.Prefs
	PrefsPath   string
	Log         logging.Logger
	Credentials credentials.Store
	Slots       credentials.Slots
	API         *libcommon.Client
	Library     *library.Client
	Localizer   *l10n.Localizer

	reloads *signal
	closers []func() error
}

// Open loads config and prefs, opens the log file and the credential store,
// and wires the API client. Callers must Close the result.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	userPrefs, _ := prefs.Load(opts.PrefsPath)

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, closeLog, err := logging.Open(cfg.LogPath(), level)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	store, err := credentials.OpenBolt(cfg.CredentialsPath)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open credentials: %w", err)
	}

	bundle, err := l10n.NewBundle()
	if err != nil {
		_ = store.Close()
		_ = closeLog()
		return nil, fmt.Errorf("load messages: %w", err)
	}

	env := newEnv(cfg, logger, store)
	env.Prefs = userPrefs
	env.PrefsPath = opts.PrefsPath
	env.Localizer = bundle.Localizer(pickLanguage(opts.Language, userPrefs.Language, cfg.Language))
	env.closers = append(env.closers, store.Close, closeLog)

	logger.Infof("shelf starting: api=%s language=%s", env.API.BaseURL(), env.Localizer.Language())
	return env, nil
}

// newEnv wires the client stack over an already open store.
func newEnv(cfg config.Config, logger logging.Logger, store credentials.Store) *Env {
	reloads := newSignal()
	api := libcommon.NewHTTPClient(cfg.LibCommon(), cfg.TokenKey, cfg.UserInfoKey, libcommon.Env{
		Storage:    store,
		Navigator:  libcommon.NavigatorFunc(reloads.Notify),
		HTTPClient: libcommon.NewTransportClient(cfg.HTTPTimeout),
		Logger:     logger,
	})
	return &Env{
		Config:      cfg,
		Log:         logger,
		Credentials: store,
		Slots:       credentials.Slots{TokenKey: cfg.TokenKey, UserInfoKey: cfg.UserInfoKey},
		API:         api,
		Library:     library.NewClient(api),
		reloads:     reloads,
	}
}

// Close releases the credential store and the log file.
func (e *Env) Close() error {
	var errs []error
	for _, closeFn := range e.closers {
		errs = append(errs, closeFn())
	}
	e.closers = nil
	return errors.Join(errs...)
}

func pickLanguage(candidates ...string) string {
	for _, lang := range candidates {
		if lang != "" {
			return lang
		}
	}
	return l10n.DefaultLanguageTag
}
