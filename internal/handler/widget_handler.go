package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nostalgic/widgets/internal/client"
	"github.com/nostalgic/widgets/internal/common"
	"github.com/nostalgic/widgets/internal/config"
	"github.com/nostalgic/widgets/internal/domain"
	"github.com/nostalgic/widgets/internal/middleware"
	"github.com/nostalgic/widgets/internal/render"
	"github.com/nostalgic/widgets/internal/session"
	"github.com/nostalgic/widgets/internal/widget"
	"github.com/nostalgic/widgets/pkg/ginutil"
	"github.com/nostalgic/widgets/pkg/i18n"
	"github.com/nostalgic/widgets/pkg/logger"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// Query parameters that are not widget attributes
const (
	paramInstance = "instance"
	paramAPIBase  = "api-base"
)

// SiblingsFactory builds a sibling widget loader bound to one API base
type SiblingsFactory func(apiBase string) *widget.Siblings

// WidgetHandler serves the embeddable widgets. Every GET is an attribute
// snapshot; every POST is a visitor action followed by a redirect to the view.
type WidgetHandler struct {
	cfg         *config.Config
	registry    *session.Registry
	bundle      *i18n.Bundle
	newSiblings SiblingsFactory
	log         zerolog.Logger

	mu       sync.Mutex
	siblings map[string]*widget.Siblings
}

// NewWidgetHandler creates a new WidgetHandler
func NewWidgetHandler(cfg *config.Config, registry *session.Registry, bundle *i18n.Bundle, newSiblings SiblingsFactory) *WidgetHandler {
	if bundle == nil {
		bundle = i18n.Default()
	}
	return &WidgetHandler{
		cfg:         cfg,
		registry:    registry,
		bundle:      bundle,
		newSiblings: newSiblings,
		log:         logger.GetLogger().With().Str("component", "handler").Logger(),
		siblings:    make(map[string]*widget.Siblings),
	}
}

// callerContext forwards the visitor's network signals to the remote API
func callerContext(c *gin.Context) context.Context {
	return client.WithCaller(c.Request.Context(), client.Caller{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
}

// visitor fingerprints the caller that owns a BBS instance
func visitor(c *gin.Context) string {
	return session.Owner(c.ClientIP(), c.Request.UserAgent())
}

// attributes reads the observed widget attributes from the query string. Without
// a lang attribute the host page language becomes the widget language.
func attributes(c *gin.Context, extra ...string) domain.Attributes {
	names := append(append([]string{}, domain.ObservedAttributes...), extra...)
	attrs := domain.Attributes(ginutil.QueryMap(c, names...))
	if strings.TrimSpace(attrs["lang"]) == "" {
		attrs["lang"] = string(middleware.GetLocale(c))
	}
	return attrs
}

func (h *WidgetHandler) writeHTML(c *gin.Context, status int, title, lang string, root *html.Node) {
	out, err := render.HTML(render.Document(title, lang, root))
	if err != nil {
		h.log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("render failed")
		common.ErrorResponse(c, http.StatusInternalServerError, h.bundle.T(middleware.GetLocale(c), "error.unknown"))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(status, "text/html; charset=utf-8", []byte(out))
}

// bbsURL is the GET view of an instance with its current attributes
func bbsURL(instance string, attrs domain.Attributes) string {
	q := url.Values{}
	for k, v := range attrs {
		q.Set(k, v)
	}
	q.Set(paramInstance, instance)
	return "/widgets/bbs?" + q.Encode()
}

// entryResponse is the JSON shape of one numbered entry
type entryResponse struct {
	ID        string           `json:"id"`
	Ordinal   int              `json:"ordinal"`
	Author    string           `json:"author"`
	Body      string           `json:"message"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt,omitempty"`
	Aux       domain.AuxValues `json:"aux"`
	CanMutate bool             `json:"canMutate"`
}

// bbsResponse is the JSON rendition of the BBS view (format=json)
type bbsResponse struct {
	Instance     string              `json:"instance"`
	Config       domain.WidgetConfig `json:"config"`
	Error        string              `json:"error,omitempty"`
	Category     string              `json:"category,omitempty"`
	Title        string              `json:"title,omitempty"`
	TotalEntries int                 `json:"totalMessages"`
	TotalPages   int                 `json:"totalPages"`
	CurrentPage  int                 `json:"currentPage"`
	Entries      []entryResponse     `json:"messages"`
	Toast        string              `json:"toast,omitempty"`
}

func newBBSResponse(instance string, v widget.View) bbsResponse {
	resp := bbsResponse{Instance: instance, Config: v.Config, Entries: []entryResponse{}}
	if v.Err != nil {
		resp.Error = v.ErrMessage
		resp.Category = string(common.Classify(v.Err))
	}
	if v.Toast != nil {
		resp.Toast = v.Toast.Message
	}
	if v.Snapshot == nil {
		return resp
	}
	resp.Title = v.Snapshot.Title
	resp.TotalEntries = v.Snapshot.TotalEntries
	resp.TotalPages = v.Snapshot.TotalPages
	resp.CurrentPage = v.Snapshot.CurrentPage
	for _, e := range v.Entries {
		er := entryResponse{
			ID:        e.ID,
			Ordinal:   e.Ordinal,
			Author:    e.Author,
			Body:      e.Body,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
			Aux:       e.Aux,
			CanMutate: e.CanMutate,
		}
		if e.UpdatedAt != nil {
			er.UpdatedAt = e.UpdatedAt.Format(time.RFC3339)
		}
		resp.Entries = append(resp.Entries, er)
	}
	return resp
}

// GetBBS handles GET /widgets/bbs
func (h *WidgetHandler) GetBBS(c *gin.Context) {
	ctx := callerContext(c)
	attrs := attributes(c)

	owner := visitor(c)
	instance, ctrl, created := h.registry.Acquire(ctx, c.Query(paramInstance), owner)
	middleware.SetWidgetInstances(h.registry.Len())

	if err := ctrl.SetAttributes(ctx, attrs); err != nil {
		h.log.Debug().Err(err).
			Str("instance", instance).
			Str("category", string(common.Classify(err))).
			Msg("bbs load failed")
	}
	h.registry.Save(ctx, instance, owner, ctrl)
	if created {
		h.log.Debug().Str("instance", instance).Str("entity_id", ctrl.Config().EntityID).Msg("bbs instance created")
	}

	v := ctrl.View()
	if v.Config.Format == domain.FormatJSON {
		common.SuccessResponse(c, http.StatusOK, newBBSResponse(instance, v))
		return
	}

	title := h.bundle.T(v.Locale, "bbs.default_title")
	if v.Snapshot != nil && v.Snapshot.Title != "" {
		title = v.Snapshot.Title
	}
	root := render.BBS(v, render.BBSOptions{Bundle: h.bundle, Action: "/widgets/bbs/" + instance})
	h.writeHTML(c, http.StatusOK, title, v.Config.Language, root)
}

// bbsAction resumes the instance of the request, runs act and redirects to the
// instance's view. Action failures are shown by the view itself.
func (h *WidgetHandler) bbsAction(name string, act func(ctx context.Context, c *gin.Context, ctrl *widget.Controller) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := callerContext(c)
		owner := visitor(c)

		var uri instanceURI
		if err := c.ShouldBindUri(&uri); err != nil {
			h.expired(c, common.ErrUnknownInstance)
			return
		}
		instance := uri.Instance

		ctrl, err := h.registry.Resume(ctx, instance, owner)
		if err != nil {
			h.expired(c, err)
			return
		}

		if err := act(ctx, c, ctrl); err != nil {
			h.log.Info().Err(err).
				Str("request_id", middleware.GetRequestID(c)).
				Str("instance", instance).
				Str("action", name).
				Str("category", string(common.Classify(err))).
				Strs("invalid_fields", invalidFields(err)).
				Msg("bbs action failed")
		}
		h.registry.Save(ctx, instance, owner, ctrl)
		c.Redirect(http.StatusSeeOther, bbsURL(instance, ctrl.Attributes()))
	}
}

func (h *WidgetHandler) expired(c *gin.Context, err error) {
	locale := middleware.GetLocale(c)
	v := widget.View{
		Config:     domain.WidgetConfig{Language: string(locale), Theme: c.PostForm("theme")},
		Locale:     locale,
		Err:        err,
		ErrMessage: common.Localize(h.bundle, locale, err),
	}
	h.writeHTML(c, http.StatusNotFound, h.bundle.T(locale, "bbs.default_title"), string(locale), render.BBS(v, render.BBSOptions{Bundle: h.bundle}))
}

// instanceURI is the instance path segment of the BBS actions
type instanceURI struct {
	Instance string `uri:"instance" binding:"required,uuid"`
}

// draftForm is the posted composer
type draftForm struct {
	Author      string `form:"author"`
	Message     string `form:"message"`
	Standard    string `form:"standardValue"`
	Incremental string `form:"incrementalValue"`
	Emote       string `form:"emoteValue"`
}

func (f draftForm) input() domain.DraftInput {
	return domain.DraftInput{
		Author: f.Author,
		Body:   f.Message,
		Aux: domain.AuxValues{
			Standard:    f.Standard,
			Incremental: f.Incremental,
			Emote:       f.Emote,
		},
	}
}

// entryForm targets one entry
type entryForm struct {
	Entry string `form:"entry" binding:"required"`
}

// deleteForm carries the confirmation checkbox of the delete form
type deleteForm struct {
	Entry   string `form:"entry" binding:"required"`
	Confirm string `form:"confirm" binding:"omitempty,eq=yes"`
}

// pageForm is a pagination button
type pageForm struct {
	Page int `form:"page" binding:"required,min=1"`
}

// invalidFields lists field:tag pairs of a binding failure
func invalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+":"+fe.Tag())
	}
	return fields
}

// SaveDraft handles POST /widgets/bbs/:instance/draft
func (h *WidgetHandler) SaveDraft(c *gin.Context) {
	h.bbsAction("draft", func(_ context.Context, c *gin.Context, ctrl *widget.Controller) error {
		var form draftForm
		if err := c.ShouldBind(&form); err != nil {
			return err
		}
		ctrl.UpdateDraft(form.input())
		return nil
	})(c)
}

// Submit handles POST /widgets/bbs/:instance/submit
func (h *WidgetHandler) Submit(c *gin.Context) {
	h.bbsAction("submit", func(ctx context.Context, c *gin.Context, ctrl *widget.Controller) error {
		var form draftForm
		if err := c.ShouldBind(&form); err != nil {
			return err
		}
		ctrl.UpdateDraft(form.input())
		return ctrl.Submit(ctx)
	})(c)
}

// Edit handles POST /widgets/bbs/:instance/edit
func (h *WidgetHandler) Edit(c *gin.Context) {
	h.bbsAction("edit", func(_ context.Context, c *gin.Context, ctrl *widget.Controller) error {
		var form entryForm
		if err := c.ShouldBind(&form); err != nil {
			return err
		}
		return ctrl.BeginEdit(form.Entry)
	})(c)
}

// Cancel handles POST /widgets/bbs/:instance/cancel
func (h *WidgetHandler) Cancel(c *gin.Context) {
	h.bbsAction("cancel", func(_ context.Context, _ *gin.Context, ctrl *widget.Controller) error {
		ctrl.Cancel()
		return nil
	})(c)
}

// Delete handles POST /widgets/bbs/:instance/delete. The confirmation prompt is
// the checkbox of the delete form; an unchecked box declines it.
func (h *WidgetHandler) Delete(c *gin.Context) {
	h.bbsAction("delete", func(ctx context.Context, c *gin.Context, ctrl *widget.Controller) error {
		var form deleteForm
		if err := c.ShouldBind(&form); err != nil {
			return err
		}
		confirmed := form.Confirm == render.ConfirmYes
		return ctrl.Delete(ctx, form.Entry, func(string) bool { return confirmed })
	})(c)
}

// GoToPage handles POST /widgets/bbs/:instance/page
func (h *WidgetHandler) GoToPage(c *gin.Context) {
	h.bbsAction("page", func(ctx context.Context, c *gin.Context, ctrl *widget.Controller) error {
		var form pageForm
		if err := c.ShouldBind(&form); err != nil {
			return err
		}
		return ctrl.GoToPage(ctx, form.Page)
	})(c)
}

// siblingsFor returns the loader for the request's api-base attribute. Bases that
// are not allowed by configuration are ignored.
func (h *WidgetHandler) siblingsFor(c *gin.Context) *widget.Siblings {
	base := h.cfg.API.BaseURL
	if requested, ok := c.GetQuery(paramAPIBase); ok && h.cfg.AllowsAPIBase(requested) {
		base = strings.TrimRight(strings.TrimSpace(requested), "/")
	} else if ok {
		h.log.Warn().Str("api_base", requested).Msg("api-base not allowed, using default")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.siblings[base]
	if !ok {
		s = h.newSiblings(base)
		h.siblings[base] = s
	}
	return s
}

// GetCounter handles GET /widgets/counter. A visit is counted once per instance.
func (h *WidgetHandler) GetCounter(c *gin.Context) {
	ctx := callerContext(c)
	attrs := attributes(c, "type", "digits")

	instance := c.Query(paramInstance)
	if !session.ValidID(instance) {
		instance = session.NewID()
	}
	increment := false
	if id := strings.TrimSpace(attrs["id"]); id != "" {
		increment = h.registry.ClaimOnce(ctx, string(domain.KindCounter), id+":"+instance)
	}

	v := h.siblingsFor(c).Counter(ctx, attrs, middleware.GetLocale(c), increment)
	if v.Config.Format == domain.FormatJSON {
		h.siblingJSON(c, v.SiblingView, gin.H{"type": v.Type, "value": v.Value, "stats": v.Stats})
		return
	}
	h.writeHTML(c, http.StatusOK, h.bundle.T(v.Locale, "counter."+v.Type), v.Config.Language, render.Counter(v, h.bundle))
}

// GetLike handles GET /widgets/like
func (h *WidgetHandler) GetLike(c *gin.Context) {
	ctx := callerContext(c)
	v := h.siblingsFor(c).Like(ctx, attributes(c), middleware.GetLocale(c), false)
	h.writeLike(c, v)
}

// ToggleLike handles POST /widgets/like/toggle
func (h *WidgetHandler) ToggleLike(c *gin.Context) {
	ctx := callerContext(c)
	attrs := domain.Attributes(ginutil.FormMap(c, "id", "theme", "lang"))
	v := h.siblingsFor(c).Like(ctx, attrs, middleware.GetLocale(c), true)
	if v.Err != nil {
		h.writeLike(c, v)
		return
	}
	q := url.Values{}
	for k, val := range attrs {
		q.Set(k, val)
	}
	c.Redirect(http.StatusSeeOther, "/widgets/like?"+q.Encode())
}

func (h *WidgetHandler) writeLike(c *gin.Context, v widget.LikeView) {
	if v.Config.Format == domain.FormatJSON {
		h.siblingJSON(c, v.SiblingView, v.State)
		return
	}
	h.writeHTML(c, http.StatusOK, h.bundle.T(v.Locale, "like.like"), v.Config.Language, render.Like(v, h.bundle, "/widgets/like/toggle"))
}

// GetRanking handles GET /widgets/ranking
func (h *WidgetHandler) GetRanking(c *gin.Context) {
	ctx := callerContext(c)
	v := h.siblingsFor(c).Ranking(ctx, attributes(c, "limit"), middleware.GetLocale(c))
	if v.Err != nil {
		c.Set(middleware.NoCacheKey, true)
	}
	if v.Config.Format == domain.FormatJSON {
		h.siblingJSON(c, v.SiblingView, v.Board)
		return
	}
	title := "Ranking"
	if v.Board != nil && v.Board.Title != "" {
		title = v.Board.Title
	}
	h.writeHTML(c, http.StatusOK, title, v.Config.Language, render.Ranking(v, h.bundle))
}

// GetYokoso handles GET /widgets/yokoso
func (h *WidgetHandler) GetYokoso(c *gin.Context) {
	ctx := callerContext(c)
	v := h.siblingsFor(c).Yokoso(ctx, attributes(c), middleware.GetLocale(c))
	if v.Err != nil {
		c.Set(middleware.NoCacheKey, true)
	}
	if v.Config.Format == domain.FormatJSON {
		h.siblingJSON(c, v.SiblingView, v.Message)
		return
	}
	h.writeHTML(c, http.StatusOK, h.bundle.T(v.Locale, "yokoso.default"), v.Config.Language, render.Yokoso(v))
}

func (h *WidgetHandler) siblingJSON(c *gin.Context, v widget.SiblingView, data interface{}) {
	if v.Err == nil {
		common.SuccessResponse(c, http.StatusOK, data)
		return
	}
	status := http.StatusBadGateway
	var logical *common.LogicalError
	switch {
	case errors.Is(v.Err, common.ErrMissingID):
		status = http.StatusBadRequest
	case errors.As(v.Err, &logical):
		status = http.StatusOK
	}
	common.ErrorResponse(c, status, v.ErrMessage)
}
