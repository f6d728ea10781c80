// Package config loads shelf's config.toml.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/shelf/config.toml
//  3. If the file does not exist, fall back to Default
//  4. Empty fields in an existing file also take their defaults
//
// # TOML Format
//
//	api_base_url     = "http://localhost:8080/api"
//	token_key        = "library_token"
//	user_info_key    = "library_user"
//	credentials_path = "~/.local/share/shelf/credentials.db"
//	log_dir          = "~/.local/share/shelf/logs"
//	log_level        = "info"
//	language         = "en"
//	http_timeout     = 15 # seconds, 0 means none
//
//	[placeholders]
//	cover  = "https://example.com/cover.png"
//	banner = ""
//	avatar = ""
//
// All fields are optional. Paths get tilde expansion and are made absolute.
// A negative http_timeout is rejected.
package config
