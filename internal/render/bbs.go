package render

import (
	"strconv"
	"strings"

	"github.com/nostalgic/widgets/internal/domain"
	"github.com/nostalgic/widgets/internal/theme"
	"github.com/nostalgic/widgets/internal/widget"
	"github.com/nostalgic/widgets/pkg/i18n"
	"golang.org/x/net/html"
)

// Form field names posted back by the BBS markup
const (
	FieldAuthor      = "author"
	FieldMessage     = "message"
	FieldStandard    = "standardValue"
	FieldIncremental = "incrementalValue"
	FieldEmote       = "emoteValue"
	FieldEntry       = "entry"
	FieldConfirm     = "confirm"
	FieldPage        = "page"
	ConfirmYes       = "yes"
)

// BBSOptions carries what the markup needs besides the view
type BBSOptions struct {
	Bundle *i18n.Bundle
	// Action is the path prefix the forms post to, e.g. /widgets/bbs/<instance>
	Action string
}

type bbsRenderer struct {
	v      widget.View
	opts   BBSOptions
	style  theme.StyleTokens
	locale i18n.Locale
}

func (r *bbsRenderer) t(key string, args ...interface{}) string {
	return r.opts.Bundle.T(r.locale, key, args...)
}

func (r *bbsRenderer) action(name string) string {
	return strings.TrimRight(r.opts.Action, "/") + "/" + name
}

// BBS renders the bulletin board widget
func BBS(v widget.View, opts BBSOptions) *html.Node {
	if opts.Bundle == nil {
		opts.Bundle = i18n.Default()
	}
	r := &bbsRenderer{v: v, opts: opts, style: theme.StyleFor(v.Config.Theme), locale: v.Locale}

	root := Frame("nostalgic-bbs", r.style, string(r.locale))
	content := ContentLayer()
	root.AppendChild(content)

	if v.Err != nil {
		content.AppendChild(ErrorBox("bbs-error", v.ErrMessage, r.style))
		Append(root, ToastNode(v.Toast, r.style))
		return root
	}

	title := r.t("bbs.default_title")
	if v.Snapshot != nil && strings.TrimSpace(v.Snapshot.Title) != "" {
		title = v.Snapshot.Title
	}
	content.AppendChild(Wrap("h3", Attrs("class", "bbs-title", "style", theme.Inline(map[string]string{
		"margin": "0 0 8px", "color": r.style.Accent, "font-size": "1.1em",
	})), Text(title)))

	Append(content, r.entries(), r.pagination(), r.composer())
	Append(root, ToastNode(v.Toast, r.style))
	return root
}

func (r *bbsRenderer) entries() *html.Node {
	if len(r.v.Entries) == 0 {
		return Wrap("p", Attrs("class", "bbs-empty", "style", "color:"+r.style.TextMuted+";"), Text(r.t("bbs.no_messages")))
	}
	list := El("ul", A("class", "bbs-entries"), A("style", "list-style:none;margin:0;padding:0;"))
	for _, e := range r.v.Entries {
		list.AppendChild(r.entry(e))
	}
	return list
}

func (r *bbsRenderer) entry(e domain.NumberedEntry) *html.Node {
	li := El("li",
		A("class", "bbs-entry"),
		A("data-id", e.ID),
		A("style", theme.Inline(map[string]string{
			"border-bottom": "1px " + r.style.BorderStyle + " " + r.style.Border,
			"padding":       "6px 0",
		})),
	)

	header := Wrap("div", Attrs("class", "bbs-entry-header"),
		Wrap("span", Attrs("class", "bbs-ordinal", "style", "color:"+r.style.Accent+";"), Text("#"+strconv.Itoa(e.Ordinal))),
		Text(" "),
		Wrap("span", Attrs("class", "bbs-author", "style", "font-weight:bold;"), Text(e.Author)),
	)
	if !e.CreatedAt.IsZero() {
		Append(header, Text(" "), Wrap("time",
			Attrs("class", "bbs-time", "datetime", e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), "style", "color:"+r.style.TextMuted+";font-size:0.85em;"),
			Text(e.CreatedAt.Format("2006-01-02 15:04"))))
	}
	for _, aux := range []struct{ class, val string }{
		{"bbs-aux-standard", e.Aux.Standard},
		{"bbs-aux-incremental", e.Aux.Incremental},
		{"bbs-aux-emote", e.Aux.Emote},
	} {
		if aux.val != "" {
			Append(header, Text(" "), Wrap("span", Attrs("class", "bbs-aux "+aux.class), Text(aux.val)))
		}
	}
	li.AppendChild(header)
	li.AppendChild(Wrap("div", Attrs("class", "bbs-body", "style", "white-space:pre-wrap;word-break:break-word;"), Text(e.Body)))

	if e.CanMutate {
		li.AppendChild(Wrap("div", Attrs("class", "bbs-entry-actions"), r.editForm(e.ID), r.deleteForm(e.ID)))
	}
	return li
}

func (r *bbsRenderer) editForm(id string) *html.Node {
	return Wrap("form", Attrs("class", "bbs-edit", "method", "post", "action", r.action("edit"), "style", "display:inline;"),
		Hidden(FieldEntry, id),
		Button(r.t("bbs.edit"), r.style, false),
	)
}

func (r *bbsRenderer) deleteForm(id string) *html.Node {
	return Wrap("form", Attrs("class", "bbs-delete", "method", "post", "action", r.action("delete"), "style", "display:inline;"),
		Hidden(FieldEntry, id),
		Wrap("label", Attrs("class", "bbs-delete-confirm"),
			El("input", A("type", "checkbox"), A("name", FieldConfirm), A("value", ConfirmYes), A("required", "")),
			Text(r.t("bbs.delete_confirm")),
		),
		Button(r.t("bbs.delete"), r.style, false),
	)
}

func (r *bbsRenderer) pagination() *html.Node {
	if len(r.v.Pages) == 0 {
		return nil
	}
	form := El("form", A("class", "bbs-pages"), A("method", "post"), A("action", r.action("page")))
	nav := Wrap("nav", Attrs("aria-label", r.t("bbs.pages"), "style", "margin:8px 0;"), form)
	for _, p := range r.v.Pages {
		btn := Button(p.Label, r.style, p.Current)
		btn.Attr = append(btn.Attr, A("name", FieldPage), A("value", strconv.Itoa(p.Page)))
		if p.Current {
			btn.Attr = append(btn.Attr, A("aria-current", "page"))
		}
		Append(form, btn, Text(" "))
	}
	return nav
}

func (r *bbsRenderer) composer() *html.Node {
	d := r.v.Draft
	form := El("form", A("class", "bbs-composer"), A("method", "post"), A("action", r.action("submit")),
		A("style", "margin-top:10px;display:flex;flex-direction:column;gap:6px;"))

	if d.Mode == domain.ModeEdit {
		form.AppendChild(Wrap("p", Attrs("class", "bbs-editing", "style", "margin:0;color:"+r.style.Accent+";"), Text(r.t("bbs.editing", d.TargetOrdinal))))
	}

	inputStyle := theme.Inline(map[string]string{
		"background": r.style.InputBackground,
		"color":      r.style.InputText,
		"border":     "1px " + r.style.BorderStyle + " " + r.style.Border,
		"padding":    "4px",
		"font":       "inherit",
	})
	form.AppendChild(Wrap("label", Attrs("class", "bbs-field"),
		Text(r.t("bbs.author")+" "),
		El("input", A("type", "text"), A("name", FieldAuthor), A("value", d.Author),
			A("placeholder", r.t("bbs.author_placeholder")), A("style", inputStyle)),
	))

	var settings domain.BoardSettings
	if r.v.Snapshot != nil {
		settings = r.v.Snapshot.Settings
	}
	Append(form,
		r.selector("bbs-select-standard", FieldStandard, settings.Standard, d.Aux.Standard, inputStyle),
		r.selector("bbs-select-incremental", FieldIncremental, settings.Incremental, r.incrementalValue(), inputStyle),
		r.emotePicker(settings, d.Aux.Emote),
	)

	form.AppendChild(Wrap("label", Attrs("class", "bbs-field"),
		Text(r.t("bbs.message")),
		Wrap("textarea", Attrs("name", FieldMessage, "rows", "3", "required", "",
			"placeholder", r.t("bbs.message_placeholder"), "style", inputStyle+"width:100%;box-sizing:border-box;"),
			Text(d.Body)),
	))

	if r.v.FormError != "" {
		form.AppendChild(ErrorBox("bbs-form-error", r.v.FormError, r.style))
	}

	buttons := Wrap("div", Attrs("class", "bbs-composer-actions"), Button(r.submitLabel(), r.style, d.Submitting))
	if d.Mode == domain.ModeEdit {
		cancel := Button(r.t("bbs.cancel"), r.style, d.Submitting)
		cancel.Attr = append(cancel.Attr, A("formaction", r.action("cancel")), A("formnovalidate", ""))
		Append(buttons, Text(" "), cancel)
	}
	form.AppendChild(buttons)
	return form
}

func (r *bbsRenderer) submitLabel() string {
	d := r.v.Draft
	switch {
	case d.Mode == domain.ModeEdit && d.Submitting:
		return r.t("bbs.updating")
	case d.Mode == domain.ModeEdit:
		return r.t("bbs.update")
	case d.Submitting:
		return r.t("bbs.posting")
	default:
		return r.t("bbs.post")
	}
}

func (r *bbsRenderer) incrementalValue() string {
	if r.v.Draft.Aux.Incremental != "" || r.v.Draft.Mode == domain.ModeEdit {
		return r.v.Draft.Aux.Incremental
	}
	return r.v.DefaultIncremental
}

func (r *bbsRenderer) selector(class, name string, s *domain.SelectorSettings, selected, style string) *html.Node {
	if s == nil || len(s.Options) == 0 {
		return nil
	}
	label := s.Label
	if label == "" {
		label = r.t("bbs.select")
	}
	sel := El("select", A("name", name), A("style", style))
	sel.AppendChild(Wrap("option", Attrs("value", ""), Text(r.t("bbs.select"))))
	for _, o := range s.Options {
		opt := El("option", A("value", o))
		if o == selected {
			opt.Attr = append(opt.Attr, A("selected", ""))
		}
		sel.AppendChild(Append(opt, Text(o)))
	}
	return Wrap("label", Attrs("class", "bbs-field "+class), Text(label+" "), sel)
}

// emotePicker lays out at most nine emotes on a 3x3 grid
func (r *bbsRenderer) emotePicker(settings domain.BoardSettings, selected string) *html.Node {
	opts := settings.EmoteOptions()
	if len(opts) == 0 {
		return nil
	}
	legend := settings.Emote.Label
	if legend == "" {
		legend = r.t("bbs.emote")
	}
	grid := El("div", A("class", "bbs-emote-grid"), A("style", "display:grid;grid-template-columns:repeat(3,2.2em);gap:2px;"))
	for _, o := range opts {
		input := El("input", A("type", "radio"), A("name", FieldEmote), A("value", o))
		if o == selected {
			input.Attr = append(input.Attr, A("checked", ""))
		}
		grid.AppendChild(Wrap("label", Attrs("class", "bbs-emote", "style", "text-align:center;cursor:pointer;"), input, Text(o)))
	}
	return Wrap("fieldset", Attrs("class", "bbs-field bbs-select-emote", "style", "border:1px "+r.style.BorderStyle+" "+r.style.Border+";"),
		Wrap("legend", nil, Text(legend)),
		grid,
	)
}
