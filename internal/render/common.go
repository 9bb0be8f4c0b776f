package render

import (
	"strconv"

	"github.com/nostalgic/widgets/internal/theme"
	"github.com/nostalgic/widgets/internal/widget"
	"golang.org/x/net/html"
)

// Frame is the themed root of a widget with its decoration layers
func Frame(class string, s theme.StyleTokens, lang string) *html.Node {
	root := El("div",
		A("class", class+" theme-"+s.Name),
		A("data-theme", s.Name),
		A("lang", lang),
		A("style", theme.Inline(map[string]string{
			"position":      "relative",
			"overflow":      "hidden",
			"background":    s.Background,
			"color":         s.Text,
			"font-family":   s.FontFamily,
			"border":        "2px " + s.BorderStyle + " " + s.Border,
			"border-radius": s.Radius,
			"box-shadow":    s.Shadow,
			"padding":       "10px",
		})),
	)
	for _, d := range theme.Decorations(s.Name) {
		style := map[string]string{"z-index": strconv.Itoa(d.Z)}
		for k, v := range d.Style {
			style[k] = v
		}
		root.AppendChild(El("div",
			A("class", "decoration decoration-"+d.Name),
			A("aria-hidden", "true"),
			A("style", theme.Inline(style)),
		))
	}
	return root
}

// ContentLayer holds the interactive part of a widget above the decorations
func ContentLayer() *html.Node {
	return El("div", A("class", "widget-content"), A("style", theme.Inline(map[string]string{
		"position": "relative",
		"z-index":  strconv.Itoa(theme.ZContent),
	})))
}

// ErrorBox renders a localized error message
func ErrorBox(class, message string, s theme.StyleTokens) *html.Node {
	return Wrap("div", Attrs("class", class, "role", "alert", "style", "color:"+s.ErrorText+";"), Text(message))
}

// ToastNode renders the visible toast, or nil
func ToastNode(t *widget.Toast, s theme.StyleTokens) *html.Node {
	if t == nil {
		return nil
	}
	bg := s.SuccessBackground
	if t.Level == widget.ToastError {
		bg = s.ErrorBackground
	}
	return Wrap("div", Attrs(
		"class", "widget-toast widget-toast-"+string(t.Level),
		"role", "status",
		"data-toast-id", t.ID,
		"style", theme.Inline(map[string]string{
			"position":      "absolute",
			"top":           "8px",
			"right":         "8px",
			"z-index":       strconv.Itoa(theme.ZToast),
			"background":    bg,
			"color":         "#ffffff",
			"padding":       "6px 10px",
			"border-radius": s.Radius,
		}),
	), Text(t.Message))
}

// Button is a themed submit button
func Button(label string, s theme.StyleTokens, disabled bool) *html.Node {
	btn := El("button", A("type", "submit"), A("style", theme.Inline(map[string]string{
		"background":    s.ButtonBackground,
		"color":         s.ButtonText,
		"border":        "1px " + s.BorderStyle + " " + s.Border,
		"border-radius": s.Radius,
		"padding":       "3px 10px",
		"cursor":        "pointer",
		"font":          "inherit",
	})))
	if disabled {
		btn.Attr = append(btn.Attr, A("disabled", ""))
	}
	return Append(btn, Text(label))
}

// Hidden is a hidden form input
func Hidden(name, value string) *html.Node {
	return El("input", A("type", "hidden"), A("name", name), A("value", value))
}
