package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/shelf/internal/libcommon"
)

// Config holds everything shelf reads from config.toml.
type Config struct {
	APIBaseURL      string
	TokenKey        string
	UserInfoKey     string
	CredentialsPath string
	LogDir          string
	LogLevel        string
	Language        string
	HTTPTimeout     time.Duration
	Placeholders    libcommon.Placeholders
}

const (
	defaultConfigPath      = "~/.config/shelf/config.toml"
	defaultCredentialsPath = "~/.local/share/shelf/credentials.db"
	defaultLogDir          = "~/.local/share/shelf/logs"
	defaultTokenKey        = "library_token"
	defaultUserInfoKey     = "library_user"
	defaultLogLevel        = "info"
	defaultLanguage        = "en"
	logFileName            = "shelf.log"
)

type rawConfig struct {
	APIBaseURL      string `toml:"api_base_url"`
	TokenKey        string `toml:"token_key"`
	UserInfoKey     string `toml:"user_info_key"`
	CredentialsPath string `toml:"credentials_path"`
	LogDir          string `toml:"log_dir"`
	LogLevel        string `toml:"log_level"`
	Language        string `toml:"language"`
	HTTPTimeout     int    `toml:"http_timeout"`
	Placeholders    struct {
		Cover  string `toml:"cover"`
		Banner string `toml:"banner"`
		Avatar string `toml:"avatar"`
	} `toml:"placeholders"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL:      libcommon.DefaultBaseURL,
		TokenKey:        defaultTokenKey,
		UserInfoKey:     defaultUserInfoKey,
		CredentialsPath: mustExpand(defaultCredentialsPath),
		LogDir:          mustExpand(defaultLogDir),
		LogLevel:        defaultLogLevel,
		Language:        defaultLanguage,
		Placeholders:    libcommon.DefaultPlaceholders(),
	}
}

// Load locates and parses config.toml, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if raw.HTTPTimeout < 0 {
		return Config{}, fmt.Errorf("parse config: http_timeout must not be negative, got %d", raw.HTTPTimeout)
	}

	cfg := Default()
	cfg.APIBaseURL = orDefault(raw.APIBaseURL, cfg.APIBaseURL)
	cfg.TokenKey = orDefault(raw.TokenKey, cfg.TokenKey)
	cfg.UserInfoKey = orDefault(raw.UserInfoKey, cfg.UserInfoKey)
	cfg.LogLevel = strings.ToLower(orDefault(raw.LogLevel, cfg.LogLevel))
	cfg.Language = orDefault(raw.Language, cfg.Language)
	cfg.HTTPTimeout = time.Duration(raw.HTTPTimeout) * time.Second

	if p := strings.TrimSpace(raw.CredentialsPath); p != "" {
		cfg.CredentialsPath = mustExpand(p)
	}
	if p := strings.TrimSpace(raw.LogDir); p != "" {
		cfg.LogDir = mustExpand(p)
	}

	cfg.Placeholders.Cover = orDefault(raw.Placeholders.Cover, cfg.Placeholders.Cover)
	cfg.Placeholders.Banner = orDefault(raw.Placeholders.Banner, cfg.Placeholders.Banner)
	cfg.Placeholders.Avatar = orDefault(raw.Placeholders.Avatar, cfg.Placeholders.Avatar)

	return cfg, nil
}

// LogPath returns the file the TUI and subcommands log to.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

// LibCommon returns the client configuration derived from c.
func (c Config) LibCommon() libcommon.Config {
	return libcommon.Config{
		BaseURL:      c.APIBaseURL,
		Placeholders: c.Placeholders,
	}
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
