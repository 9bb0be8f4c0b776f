package render

import (
	"fmt"
	"strconv"

	"github.com/nostalgic/widgets/internal/domain"
	"github.com/nostalgic/widgets/internal/theme"
	"github.com/nostalgic/widgets/internal/widget"
	"github.com/nostalgic/widgets/pkg/i18n"
	"golang.org/x/net/html"
)

func siblingFrame(class string, v widget.SiblingView) (*html.Node, *html.Node, theme.StyleTokens) {
	s := theme.StyleFor(v.Config.Theme)
	root := Frame(class, s, string(v.Locale))
	content := ContentLayer()
	root.AppendChild(content)
	if v.Err != nil {
		content.AppendChild(ErrorBox(class+"-error", v.ErrMessage, s))
	}
	return root, content, s
}

// Counter renders the visit counter. The image format points at the API's
// server-rendered image; every other format shows the number.
func Counter(v widget.CounterView, bundle *i18n.Bundle) *html.Node {
	if bundle == nil {
		bundle = i18n.Default()
	}
	root, content, s := siblingFrame("nostalgic-counter", v.SiblingView)
	if v.Err != nil {
		return root
	}
	if v.Config.Format == domain.FormatImage {
		content.AppendChild(El("img",
			A("class", "counter-image"),
			A("src", v.ImageURL),
			A("alt", bundle.T(v.Locale, "counter."+v.Type)),
		))
		return root
	}
	Append(content,
		Wrap("span", Attrs("class", "counter-label", "style", "color:"+s.TextMuted+";"), Text(bundle.T(v.Locale, "counter."+v.Type)+" ")),
		Wrap("span", Attrs("class", "counter-value", "style", "font-weight:bold;color:"+s.Accent+";"), Text(PadDigits(v.Value, v.Digits))),
	)
	return root
}

// PadDigits left-pads n with zeros to digits places
func PadDigits(n, digits int) string {
	if digits <= 0 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%0*d", digits, n)
}

// Like renders the like button posting to action
func Like(v widget.LikeView, bundle *i18n.Bundle, action string) *html.Node {
	if bundle == nil {
		bundle = i18n.Default()
	}
	root, content, s := siblingFrame("nostalgic-like", v.SiblingView)
	if v.Err != nil || v.State == nil {
		return root
	}
	label := bundle.T(v.Locale, "like.like")
	if v.State.UserLiked {
		label = bundle.T(v.Locale, "like.liked")
	}
	btn := Button(label+" "+strconv.Itoa(v.State.Total), s, false)
	btn.Attr = append(btn.Attr, A("aria-pressed", strconv.FormatBool(v.State.UserLiked)))
	content.AppendChild(Wrap("form", Attrs("class", "like-form", "method", "post", "action", action),
		Hidden("id", v.Config.EntityID),
		Hidden("theme", v.Config.Theme),
		Hidden("lang", v.Config.Language),
		btn,
	))
	return root
}

// Ranking renders the ranking board
func Ranking(v widget.RankingView, bundle *i18n.Bundle) *html.Node {
	if bundle == nil {
		bundle = i18n.Default()
	}
	root, content, s := siblingFrame("nostalgic-ranking", v.SiblingView)
	if v.Err != nil || v.Board == nil {
		return root
	}
	if v.Board.Title != "" {
		content.AppendChild(Wrap("h3", Attrs("class", "ranking-title", "style", "margin:0 0 6px;color:"+s.Accent+";"), Text(v.Board.Title)))
	}
	if len(v.Board.Entries) == 0 {
		content.AppendChild(Wrap("p", Attrs("class", "ranking-empty"), Text(bundle.T(v.Locale, "ranking.empty"))))
		return root
	}
	list := El("ol", A("class", "ranking-entries"), A("style", "margin:0;padding-left:0;list-style:none;"))
	for _, e := range v.Board.Entries {
		score := e.DisplayScore
		if score == "" {
			score = strconv.Itoa(e.Score)
		}
		list.AppendChild(Wrap("li", Attrs("class", "ranking-entry", "data-rank", strconv.Itoa(e.Rank)),
			Wrap("span", Attrs("class", "ranking-rank", "style", "color:"+s.Accent+";"), Text(bundle.T(v.Locale, "ranking.rank", e.Rank)+" ")),
			Wrap("span", Attrs("class", "ranking-name"), Text(e.Name+" ")),
			Wrap("span", Attrs("class", "ranking-score", "style", "float:right;"), Text(score)),
		))
	}
	content.AppendChild(list)
	return root
}

// Yokoso renders the welcome badge
func Yokoso(v widget.YokosoView) *html.Node {
	root, content, s := siblingFrame("nostalgic-yokoso", v.SiblingView)
	if v.Err != nil || v.Message == nil {
		return root
	}
	content.AppendChild(Wrap("p", Attrs("class", "yokoso-message", "style", "margin:0;white-space:pre-wrap;"), Text(v.Message.Message)))
	if v.Message.Author != "" {
		content.AppendChild(Wrap("p", Attrs("class", "yokoso-author", "style", "margin:4px 0 0;text-align:right;color:"+s.TextMuted+";"), Text("- "+v.Message.Author)))
	}
	return root
}
