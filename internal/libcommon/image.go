package libcommon

import "strings"

// ImageKind selects which placeholder replaces a broken image.
type ImageKind string

const (
	ImageCover  ImageKind = "cover"
	ImageBanner ImageKind = "banner"
	ImageAvatar ImageKind = "avatar"
)

// Placeholders maps each image kind to its fallback URL.
type Placeholders struct {
	Cover  string
	Banner string
	Avatar string
}

// DefaultPlaceholders returns the stock placeholder URLs.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		Cover:  PlaceholderCover,
		Banner: PlaceholderBanner,
		Avatar: PlaceholderAvatar,
	}
}

func (p Placeholders) withDefaults() Placeholders {
	if strings.TrimSpace(p.Cover) == "" {
		p.Cover = PlaceholderCover
	}
	if strings.TrimSpace(p.Banner) == "" {
		p.Banner = PlaceholderBanner
	}
	if strings.TrimSpace(p.Avatar) == "" {
		p.Avatar = PlaceholderAvatar
	}
	return p
}

// URL returns the placeholder for kind. Unknown kinds get the cover image.
func (p Placeholders) URL(kind ImageKind) string {
	p = p.withDefaults()
	switch kind {
	case ImageBanner:
		return p.Banner
	case ImageAvatar:
		return p.Avatar
	default:
		return p.Cover
	}
}

// ImageElement is anything showing an image that can be re-pointed after a
// load failure.
type ImageElement interface {
	Src() string
	SetSrc(src string)
	// ClearErrorHandler disarms further fallback attempts so a failing
	// placeholder cannot loop.
	ClearErrorHandler()
}

// ImageErrorEvent reports that Target failed to load its source.
type ImageErrorEvent struct {
	Target ImageElement
}

// HandleImgError swaps the event target to the placeholder for kind using the
// default placeholder set.
func HandleImgError(ev ImageErrorEvent, kind ImageKind) {
	DefaultPlaceholders().HandleImgError(ev, kind)
}

// HandleImgError swaps the event target to the placeholder for kind unless it
// already shows it. Repeated calls are no-ops.
func (p Placeholders) HandleImgError(ev ImageErrorEvent, kind ImageKind) {
	if ev.Target == nil {
		return
	}
	fallback := p.URL(kind)
	if ev.Target.Src() == fallback {
		return
	}
	ev.Target.SetSrc(fallback)
	ev.Target.ClearErrorHandler()
}

// ImageSlot is a minimal ImageElement that records the handler state. The TUI
// uses it for cover art; tests use it as a stand-in for a DOM image.
type ImageSlot struct {
	src     string
	onError func()
}

// NewImageSlot returns a slot showing src with onError armed.
func NewImageSlot(src string, onError func()) *ImageSlot {
	return &ImageSlot{src: src, onError: onError}
}

func (s *ImageSlot) Src() string { return s.src }

func (s *ImageSlot) SetSrc(src string) { s.src = src }

func (s *ImageSlot) ClearErrorHandler() { s.onError = nil }

// Armed reports whether a load failure would still trigger the handler.
func (s *ImageSlot) Armed() bool { return s.onError != nil }

// Fail simulates a load failure: the armed handler runs, if any.
func (s *ImageSlot) Fail() {
	if s.onError != nil {
		s.onError()
	}
}
