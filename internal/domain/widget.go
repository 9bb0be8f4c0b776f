package domain

// Kind identifies a widget type (and the remote API service path)
type Kind string

const (
	KindBBS     Kind = "bbs"
	KindCounter Kind = "visit"
	KindLike    Kind = "like"
	KindRanking Kind = "ranking"
	KindYokoso  Kind = "yokoso"
)

// Themes known to the renderer. Unknown names fall back to ThemeDark at render time.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeRetro  = "retro"
	ThemeKawaii = "kawaii"
	ThemeMom    = "mom"
	ThemeFinal  = "final"
)

// Output formats
const (
	FormatHTML  = "html"
	FormatImage = "image"
	FormatJSON  = "json"
	FormatText  = "text"
)

// Attributes is the raw attribute snapshot of one widget element
type Attributes map[string]string

// Observed attribute names. Any change to one of them reloads the widget.
var ObservedAttributes = []string{"id", "page", "theme", "format", "lang"}

// WidgetConfig is derived from Attributes and never stored
type WidgetConfig struct {
	EntityID string `json:"id,omitempty"`
	Page     string `json:"page,omitempty"` // raw; resolved after the first fetch
	Theme    string `json:"theme,omitempty"`
	Format   string `json:"format,omitempty"`
	Language string `json:"lang"` // "ja" or "en"
}

// HasID reports whether the config names a board.
// A config without an id is a terminal configuration error.
func (c WidgetConfig) HasID() bool {
	return c.EntityID != ""
}
