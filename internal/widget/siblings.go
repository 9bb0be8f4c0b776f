package widget

import (
	"context"
	"strconv"
	"strings"

	"github.com/nostalgic/widgets/internal/common"
	"github.com/nostalgic/widgets/internal/domain"
	"github.com/nostalgic/widgets/pkg/i18n"
)

// SiblingAPI is the part of the remote API used by the smaller widgets
type SiblingAPI interface {
	IncrementCounter(ctx context.Context, id string) (*domain.CounterStats, error)
	CounterStats(ctx context.Context, id string) (*domain.CounterStats, error)
	CounterImageURL(id, counterType, theme string, digits int) string
	GetLike(ctx context.Context, id string) (*domain.LikeState, error)
	ToggleLike(ctx context.Context, id string) (*domain.LikeState, error)
	GetRanking(ctx context.Context, id string, limit int) (*domain.RankingBoard, error)
	GetYokoso(ctx context.Context, id string) (*domain.YokosoMessage, error)
}

// Counter types
const (
	CounterTotal     = "total"
	CounterToday     = "today"
	CounterYesterday = "yesterday"
	CounterWeek      = "week"
	CounterMonth     = "month"
)

// DefaultRankingLimit is used when the limit attribute is absent or invalid
const DefaultRankingLimit = 10

// SiblingView is the shared part of every sibling widget view
type SiblingView struct {
	Config     domain.WidgetConfig
	Locale     i18n.Locale
	Err        error
	ErrMessage string
}

// CounterView is the render input of the visit counter
type CounterView struct {
	SiblingView
	Type     string
	Digits   int
	Value    int
	Stats    *domain.CounterStats
	ImageURL string
}

// LikeView is the render input of the like button
type LikeView struct {
	SiblingView
	State *domain.LikeState
}

// RankingView is the render input of the ranking board
type RankingView struct {
	SiblingView
	Board *domain.RankingBoard
}

// YokosoView is the render input of the welcome badge
type YokosoView struct {
	SiblingView
	Message *domain.YokosoMessage
}

// Siblings loads the counter, like, ranking and welcome widgets
type Siblings struct {
	api     SiblingAPI
	bundle  *i18n.Bundle
	ambient i18n.Locale
}

// NewSiblings creates the sibling widget loader
func NewSiblings(api SiblingAPI, bundle *i18n.Bundle, ambient i18n.Locale) *Siblings {
	if bundle == nil {
		bundle = i18n.Default()
	}
	return &Siblings{api: api, bundle: bundle, ambient: ambient}
}

func (s *Siblings) base(attrs domain.Attributes, ambient i18n.Locale) SiblingView {
	if ambient == "" {
		ambient = s.ambient
	}
	cfg := Resolve(attrs, ambient)
	v := SiblingView{Config: cfg, Locale: Locale(cfg)}
	if !cfg.HasID() {
		v.fail(s.bundle, common.ErrMissingID)
	}
	return v
}

func (v *SiblingView) fail(bundle *i18n.Bundle, err error) {
	v.Err = err
	v.ErrMessage = common.Localize(bundle, v.Locale, err)
}

// Counter loads the visit counter. With increment the visit is counted; callers
// count at most once per widget instance.
func (s *Siblings) Counter(ctx context.Context, attrs domain.Attributes, ambient i18n.Locale, increment bool) CounterView {
	v := CounterView{SiblingView: s.base(attrs, ambient), Type: counterType(attrs["type"])}
	v.Digits, _ = strconv.Atoi(strings.TrimSpace(attrs["digits"]))
	if v.Err != nil {
		return v
	}

	var (
		stats *domain.CounterStats
		err   error
	)
	if increment {
		stats, err = s.api.IncrementCounter(ctx, v.Config.EntityID)
	}
	if v.Config.Format == domain.FormatImage {
		if err != nil {
			v.fail(s.bundle, err)
			return v
		}
		v.ImageURL = s.api.CounterImageURL(v.Config.EntityID, v.Type, v.Config.Theme, v.Digits)
		return v
	}
	if err == nil && stats == nil {
		stats, err = s.api.CounterStats(ctx, v.Config.EntityID)
	}
	if err != nil {
		v.fail(s.bundle, err)
		return v
	}
	v.Stats = stats
	v.Value = CounterValue(stats, v.Type)
	return v
}

func counterType(raw string) string {
	switch t := strings.ToLower(strings.TrimSpace(raw)); t {
	case CounterToday, CounterYesterday, CounterWeek, CounterMonth:
		return t
	default:
		return CounterTotal
	}
}

// CounterValue picks the figure of counterType out of stats
func CounterValue(stats *domain.CounterStats, counterType string) int {
	if stats == nil {
		return 0
	}
	switch counterType {
	case CounterToday:
		return stats.Today
	case CounterYesterday:
		return stats.Yesterday
	case CounterWeek:
		return stats.Week
	case CounterMonth:
		return stats.Month
	default:
		return stats.Total
	}
}

// Like loads the like button, toggling the visitor's like first when asked
func (s *Siblings) Like(ctx context.Context, attrs domain.Attributes, ambient i18n.Locale, toggle bool) LikeView {
	v := LikeView{SiblingView: s.base(attrs, ambient)}
	if v.Err != nil {
		return v
	}
	var err error
	if toggle {
		v.State, err = s.api.ToggleLike(ctx, v.Config.EntityID)
	} else {
		v.State, err = s.api.GetLike(ctx, v.Config.EntityID)
	}
	if err != nil {
		v.fail(s.bundle, err)
	}
	return v
}

// Ranking loads the ranking board; entries without a rank are numbered 1..n
func (s *Siblings) Ranking(ctx context.Context, attrs domain.Attributes, ambient i18n.Locale) RankingView {
	v := RankingView{SiblingView: s.base(attrs, ambient)}
	if v.Err != nil {
		return v
	}
	limit, err := strconv.Atoi(strings.TrimSpace(attrs["limit"]))
	if err != nil || limit < 1 {
		limit = DefaultRankingLimit
	}

	board, err := s.api.GetRanking(ctx, v.Config.EntityID, limit)
	if err != nil {
		v.fail(s.bundle, err)
		return v
	}
	for i := range board.Entries {
		if board.Entries[i].Rank == 0 {
			board.Entries[i].Rank = i + 1
		}
	}
	if len(board.Entries) > limit {
		board.Entries = board.Entries[:limit]
	}
	v.Board = board
	return v
}

// Yokoso loads the welcome badge
func (s *Siblings) Yokoso(ctx context.Context, attrs domain.Attributes, ambient i18n.Locale) YokosoView {
	v := YokosoView{SiblingView: s.base(attrs, ambient)}
	if v.Err != nil {
		return v
	}
	msg, err := s.api.GetYokoso(ctx, v.Config.EntityID)
	if err != nil {
		v.fail(s.bundle, err)
		return v
	}
	if strings.TrimSpace(msg.Message) == "" {
		msg.Message = s.bundle.T(v.Locale, "yokoso.default")
	}
	v.Message = msg
	return v
}
