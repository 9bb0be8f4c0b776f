package widget

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/nostalgic/widgets/internal/common"
	"github.com/nostalgic/widgets/internal/domain"
	"github.com/nostalgic/widgets/pkg/i18n"
	"github.com/nostalgic/widgets/pkg/logger"
	"github.com/rs/zerolog"
)

// Options configures a Controller
type Options struct {
	Bundle        *i18n.Bundle
	AmbientLocale i18n.Locale
	ToastDuration time.Duration
	// AcceptStaleLoads keeps last-resolved-wins semantics for overlapping loads.
	AcceptStaleLoads bool
}

// View is everything the renderer needs for one paint
type View struct {
	Config             domain.WidgetConfig
	Locale             i18n.Locale
	Err                error
	ErrMessage         string
	Snapshot           *domain.BoardSnapshot
	Entries            []domain.NumberedEntry
	Pages              []PageLabel
	Draft              domain.CompositionDraft
	DefaultIncremental string
	FormError          string
	Toast              *Toast
}

// Controller is one bulletin board widget instance. It binds attribute snapshots
// to loads, enriches snapshots for rendering and routes visitor actions through
// the workflow.
type Controller struct {
	bundle   *i18n.Bundle
	ambient  i18n.Locale
	engine   *SyncEngine
	workflow *Workflow
	banner   *Banner
	log      zerolog.Logger

	mu       sync.Mutex
	attrs    domain.Attributes
	config   domain.WidgetConfig
	applied  *domain.WidgetConfig
	loadErr  error
	formErr  error
	onChange func()
}

// NewController creates a widget bound to api
func NewController(api BoardAPI, opts Options) *Controller {
	if opts.Bundle == nil {
		opts.Bundle = i18n.Default()
	}
	c := &Controller{
		bundle:  opts.Bundle,
		ambient: opts.AmbientLocale,
		engine:  NewSyncEngine(api, opts.AcceptStaleLoads),
		banner:  NewBanner(opts.ToastDuration),
		attrs:   domain.Attributes{},
		log:     logger.GetLogger().With().Str("widget", string(domain.KindBBS)).Logger(),
	}
	c.workflow = NewWorkflow(api, c.engine, controllerNotifier{c})
	c.config = Resolve(c.attrs, c.ambient)
	c.banner.SetOnChange(func(*Toast) { c.changed() })
	return c
}

// SetOnChange registers a callback run after state changes that need a repaint
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Controller) changed() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Config returns the current derived configuration
func (c *Controller) Config() domain.WidgetConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// Attributes returns a copy of the observed attributes
func (c *Controller) Attributes() domain.Attributes {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(domain.Attributes, len(c.attrs))
	for k, v := range c.attrs {
		out[k] = v
	}
	return out
}

// SetAttributes replaces the observed attributes. A load runs when the derived
// configuration differs from the one last applied, or when the last load failed.
func (c *Controller) SetAttributes(ctx context.Context, attrs domain.Attributes) error {
	next := domain.Attributes{}
	for _, name := range domain.ObservedAttributes {
		if v, ok := attrs[name]; ok {
			next[name] = v
		}
	}

	c.mu.Lock()
	c.attrs = next
	c.config = Resolve(next, c.ambient)
	cfg := c.config
	if c.applied != nil && *c.applied == cfg && c.loadErr == nil {
		c.mu.Unlock()
		return nil
	}
	c.applied = &cfg
	c.mu.Unlock()

	return c.load(ctx, cfg)
}

// SetAttribute changes one observed attribute
func (c *Controller) SetAttribute(ctx context.Context, name, value string) error {
	c.mu.Lock()
	attrs := make(domain.Attributes, len(c.attrs)+1)
	for k, v := range c.attrs {
		attrs[k] = v
	}
	c.mu.Unlock()

	attrs[name] = value
	return c.SetAttributes(ctx, attrs)
}

// GoToPage navigates by pinning the page attribute
func (c *Controller) GoToPage(ctx context.Context, page int) error {
	return c.SetAttribute(ctx, "page", strconv.Itoa(page))
}

// Reload refetches with the current configuration
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	cfg := c.config
	c.applied = &cfg
	c.mu.Unlock()
	return c.load(ctx, cfg)
}

func (c *Controller) load(ctx context.Context, cfg domain.WidgetConfig) error {
	if !cfg.HasID() {
		c.engine.Reset()
		c.setLoadErr(common.ErrMissingID)
		return common.ErrMissingID
	}

	page, pinned := PinnedPage(cfg)
	_, err := c.engine.Load(ctx, cfg.EntityID, page, pinned)
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	if err != nil {
		c.log.Warn().Err(err).Str("entity_id", cfg.EntityID).Str("category", string(common.Classify(err))).Msg("load failed")
	}
	c.setLoadErr(err)
	return err
}

func (c *Controller) setLoadErr(err error) {
	c.mu.Lock()
	c.loadErr = err
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) locale() i18n.Locale {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Locale(c.config)
}

// BeginEdit enters edit mode for an entry the caller owns
func (c *Controller) BeginEdit(entryID string) error {
	err := c.workflow.BeginEdit(entryID)
	c.setFormErr(err)
	return err
}

// UpdateDraft stores typed composer input
func (c *Controller) UpdateDraft(in domain.DraftInput) {
	c.workflow.UpdateDraft(in)
}

// Cancel leaves edit mode and clears the composer
func (c *Controller) Cancel() {
	c.workflow.Cancel()
	c.setFormErr(nil)
}

// Submit posts or updates the current draft
func (c *Controller) Submit(ctx context.Context) error {
	cfg := c.Config()
	if !cfg.HasID() {
		return common.ErrMissingID
	}
	c.setFormErr(nil)
	return c.workflow.Submit(ctx, cfg.EntityID, c.bundle.T(Locale(cfg), "bbs.default_author"))
}

// Delete removes an entry the caller owns after confirm accepts the prompt
func (c *Controller) Delete(ctx context.Context, entryID string, confirm Confirmer) error {
	cfg := c.Config()
	if !cfg.HasID() {
		return common.ErrMissingID
	}
	c.setFormErr(nil)
	prompt := c.bundle.T(Locale(cfg), "bbs.delete_confirm")
	err := c.workflow.Delete(ctx, cfg.EntityID, entryID, prompt, confirm)
	var permission *common.PermissionError
	if errors.As(err, &permission) || errors.Is(err, common.ErrNotConfirmed) {
		c.setFormErr(err)
	}
	return err
}

// Draft returns the composer state
func (c *Controller) Draft() domain.CompositionDraft {
	return c.workflow.Draft()
}

// RestoreDraft rehydrates a draft saved elsewhere
func (c *Controller) RestoreDraft(d domain.CompositionDraft) {
	c.workflow.Restore(d)
}

// Toast returns the visible banner message
func (c *Controller) Toast() *Toast {
	return c.banner.Current()
}

func (c *Controller) setFormErr(err error) {
	c.mu.Lock()
	c.formErr = err
	c.mu.Unlock()
	c.changed()
}

// View computes the render input from the current state
func (c *Controller) View() View {
	c.mu.Lock()
	cfg := c.config
	loadErr := c.loadErr
	formErr := c.formErr
	c.mu.Unlock()

	locale := Locale(cfg)
	v := View{
		Config: cfg,
		Locale: locale,
		Draft:  c.workflow.Draft(),
		Toast:  c.banner.Current(),
	}
	if loadErr != nil {
		v.Err = loadErr
		v.ErrMessage = common.Localize(c.bundle, locale, loadErr)
		return v
	}
	if formErr != nil {
		v.FormError = common.Localize(c.bundle, locale, formErr)
	}

	snap := c.engine.Snapshot()
	if snap == nil {
		return v
	}
	v.Snapshot = snap
	v.Entries = Enrich(snap)
	v.Pages = PageLabels(snap.TotalEntries, snap.EntriesPerPage, snap.CurrentPage)
	v.DefaultIncremental = NextIncremental(snap)
	return v
}

// NextIncremental returns the incremental selector value following the newest
// entry's one, or the first option when no entry carries a value.
func NextIncremental(snap *domain.BoardSnapshot) string {
	if snap == nil || snap.Settings.Incremental == nil || len(snap.Settings.Incremental.Options) == 0 {
		return ""
	}
	opts := snap.Settings.Incremental.Options

	var newest *domain.Entry
	for i := range snap.Entries {
		e := &snap.Entries[i]
		if e.Aux.Incremental == "" {
			continue
		}
		if newest == nil || e.CreatedAt.After(newest.CreatedAt) {
			newest = e
		}
	}
	if newest == nil {
		return opts[0]
	}
	for i, o := range opts {
		if o == newest.Aux.Incremental {
			if i+1 < len(opts) {
				return opts[i+1]
			}
			return o
		}
	}
	return opts[0]
}

// controllerNotifier localizes workflow outcomes into the banner and error state
type controllerNotifier struct {
	c *Controller
}

func (n controllerNotifier) Success(key string) {
	n.c.banner.Show(ToastSuccess, n.c.bundle.T(n.c.locale(), key))
}

func (n controllerNotifier) Failure(err error) {
	n.c.setFormErr(err)
	n.c.banner.Show(ToastError, common.Localize(n.c.bundle, n.c.locale(), err))
}

func (n controllerNotifier) Reloaded(err error) {
	if errors.Is(err, ErrSuperseded) {
		return
	}
	n.c.setLoadErr(err)
}
