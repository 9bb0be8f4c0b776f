// Package theme holds the visual tokens of the widgets. Lookups are pure; the
// renderer turns tokens into inline styles.
package theme

import (
	"sort"
	"strings"

	"github.com/nostalgic/widgets/internal/domain"
)

// Stacking layers. Decorations always sit below the interactive content.
const (
	ZDecoration = 0
	ZContent    = 10
	ZToast      = 100
)

// StyleTokens is the complete visual language of one theme
type StyleTokens struct {
	Name string

	// Surfaces
	Background string
	Surface    string
	Border     string

	// Text
	Text      string
	TextMuted string
	Accent    string

	// Controls
	ButtonBackground string
	ButtonText       string
	InputBackground  string
	InputText        string

	// Feedback
	SuccessBackground string
	ErrorBackground   string
	ErrorText         string

	FontFamily  string
	BorderStyle string
	Radius      string
	Shadow      string
}

// Decoration is a purely visual overlay layer
type Decoration struct {
	Name  string
	Z     int
	Style map[string]string
}

var styles = map[string]StyleTokens{
	domain.ThemeLight: {
		Name:              domain.ThemeLight,
		Background:        "#ffffff",
		Surface:           "#f5f5f5",
		Border:            "#d0d0d0",
		Text:              "#222222",
		TextMuted:         "#666666",
		Accent:            "#0066cc",
		ButtonBackground:  "#0066cc",
		ButtonText:        "#ffffff",
		InputBackground:   "#ffffff",
		InputText:         "#222222",
		SuccessBackground: "#2e7d32",
		ErrorBackground:   "#c62828",
		ErrorText:         "#c62828",
		FontFamily:        "system-ui, sans-serif",
		BorderStyle:       "solid",
		Radius:            "6px",
		Shadow:            "0 1px 3px rgba(0,0,0,0.12)",
	},
	domain.ThemeDark: {
		Name:              domain.ThemeDark,
		Background:        "#1e1e1e",
		Surface:           "#2a2a2a",
		Border:            "#444444",
		Text:              "#e8e8e8",
		TextMuted:         "#9a9a9a",
		Accent:            "#4fc3f7",
		ButtonBackground:  "#4fc3f7",
		ButtonText:        "#101010",
		InputBackground:   "#121212",
		InputText:         "#e8e8e8",
		SuccessBackground: "#388e3c",
		ErrorBackground:   "#d32f2f",
		ErrorText:         "#ff8a80",
		FontFamily:        "system-ui, sans-serif",
		BorderStyle:       "solid",
		Radius:            "6px",
		Shadow:            "0 1px 4px rgba(0,0,0,0.6)",
	},
	domain.ThemeRetro: {
		Name:              domain.ThemeRetro,
		Background:        "#000080",
		Surface:           "#000060",
		Border:            "#c0c0c0",
		Text:              "#ffff00",
		TextMuted:         "#c0c0c0",
		Accent:            "#00ff00",
		ButtonBackground:  "#c0c0c0",
		ButtonText:        "#000000",
		InputBackground:   "#000000",
		InputText:         "#00ff00",
		SuccessBackground: "#008000",
		ErrorBackground:   "#800000",
		ErrorText:         "#ff0000",
		FontFamily:        "'MS PGothic', 'Courier New', monospace",
		BorderStyle:       "outset",
		Radius:            "0",
		Shadow:            "none",
	},
	domain.ThemeKawaii: {
		Name:              domain.ThemeKawaii,
		Background:        "#fff0f6",
		Surface:           "#ffe3ef",
		Border:            "#ff9ec7",
		Text:              "#7a2950",
		TextMuted:         "#b0668a",
		Accent:            "#ff69b4",
		ButtonBackground:  "#ff69b4",
		ButtonText:        "#ffffff",
		InputBackground:   "#ffffff",
		InputText:         "#7a2950",
		SuccessBackground: "#ec80b4",
		ErrorBackground:   "#d6336c",
		ErrorText:         "#d6336c",
		FontFamily:        "'Hiragino Maru Gothic ProN', 'Comic Sans MS', cursive",
		BorderStyle:       "dashed",
		Radius:            "16px",
		Shadow:            "0 2px 6px rgba(255,105,180,0.3)",
	},
	domain.ThemeMom: {
		Name:              domain.ThemeMom,
		Background:        "#fdf6e3",
		Surface:           "#f4ead0",
		Border:            "#b58900",
		Text:              "#3b3024",
		TextMuted:         "#7a6a55",
		Accent:            "#6b8e23",
		ButtonBackground:  "#6b8e23",
		ButtonText:        "#ffffff",
		InputBackground:   "#fffdf5",
		InputText:         "#3b3024",
		SuccessBackground: "#6b8e23",
		ErrorBackground:   "#b03a2e",
		ErrorText:         "#b03a2e",
		FontFamily:        "Georgia, 'Yu Mincho', serif",
		BorderStyle:       "double",
		Radius:            "4px",
		Shadow:            "none",
	},
	domain.ThemeFinal: {
		Name:              domain.ThemeFinal,
		Background:        "#000022",
		Surface:           "#0a0a5a",
		Border:            "#ffffff",
		Text:              "#ffffff",
		TextMuted:         "#aab",
		Accent:            "#ffd700",
		ButtonBackground:  "#0a0a5a",
		ButtonText:        "#ffffff",
		InputBackground:   "#000033",
		InputText:         "#ffffff",
		SuccessBackground: "#1a5a1a",
		ErrorBackground:   "#5a1a1a",
		ErrorText:         "#ff6666",
		FontFamily:        "'DotGothic16', 'Courier New', monospace",
		BorderStyle:       "solid",
		Radius:            "8px",
		Shadow:            "inset 0 0 0 2px #000022",
	},
}

var decorations = map[string][]Decoration{
	domain.ThemeRetro: {
		{Name: "scanlines", Style: map[string]string{
			"background": "repeating-linear-gradient(0deg, rgba(0,0,0,0.15) 0, rgba(0,0,0,0.15) 1px, transparent 1px, transparent 3px)",
		}},
	},
	domain.ThemeKawaii: {
		{Name: "sparkle", Style: map[string]string{
			"background": "radial-gradient(circle at 10% 10%, rgba(255,255,255,0.8) 0, transparent 8%), radial-gradient(circle at 90% 20%, rgba(255,255,255,0.6) 0, transparent 6%)",
		}},
	},
	domain.ThemeFinal: {
		{Name: "window-gradient", Style: map[string]string{
			"background": "linear-gradient(180deg, rgba(40,40,160,0.6) 0%, rgba(0,0,60,0.6) 100%)",
		}},
		{Name: "scanlines", Style: map[string]string{
			"background": "repeating-linear-gradient(0deg, rgba(0,0,0,0.2) 0, rgba(0,0,0,0.2) 1px, transparent 1px, transparent 2px)",
		}},
	},
}

// Default is the theme used for unknown names
const Default = domain.ThemeDark

// StyleFor returns the tokens of name, or the default theme when name is unknown
func StyleFor(name string) StyleTokens {
	if s, ok := styles[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s
	}
	return styles[Default]
}

// Decorations returns the overlay layers of name. Every layer is positioned
// absolutely over the widget, below ZContent, and ignores pointer events.
func Decorations(name string) []Decoration {
	src := decorations[StyleFor(name).Name]
	out := make([]Decoration, 0, len(src))
	for _, d := range src {
		style := map[string]string{
			"position":       "absolute",
			"inset":          "0",
			"pointer-events": "none",
		}
		for k, v := range d.Style {
			style[k] = v
		}
		out = append(out, Decoration{Name: d.Name, Z: ZDecoration, Style: style})
	}
	return out
}

// Names lists the known themes in sorted order
func Names() []string {
	names := make([]string, 0, len(styles))
	for n := range styles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Inline serializes style properties into a style attribute value with a stable
// property order.
func Inline(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if props[k] == "" {
			continue
		}
		b.WriteString(k)
		b.WriteString(":")
		b.WriteString(props[k])
		b.WriteString(";")
	}
	return b.String()
}
