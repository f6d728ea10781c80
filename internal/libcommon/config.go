package libcommon

import "strings"

// DefaultBaseURL is the library API root every request path is appended to.
const DefaultBaseURL = "http://localhost:8080/api"

// Placeholder images substituted when a real image fails to load.
const (
	PlaceholderCover  = "https://placehold.co/400x600/e2e8f0/475569?text=No+Cover"
	PlaceholderBanner = "https://placehold.co/1600x600/1e293b/ffffff?text=Library+Banner"
	PlaceholderAvatar = "https://placehold.co/100x100/4f46e5/ffffff?text=U"
)

// Config carries the values shared by every client and image slot.
type Config struct {
	BaseURL      string
	Placeholders Placeholders
}

// DefaultConfig returns the stock base URL and placeholder set.
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		Placeholders: DefaultPlaceholders(),
	}
}

// normalized fills empty fields from the defaults and drops a trailing slash
// from the base URL so "{base}{path}" never doubles it.
func (c Config) normalized() Config {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(base, "/")
	c.Placeholders = c.Placeholders.withDefaults()
	return c
}
