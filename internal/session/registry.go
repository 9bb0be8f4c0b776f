// Package session keeps the live widget instances of the embed server. Instances
// are held in memory with a TTL and a size bound; their attributes and unsent
// drafts are mirrored to Redis so an instance can be rebuilt after eviction or a
// restart.
package session

import (
	"container/list"
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nostalgic/widgets/internal/common"
	"github.com/nostalgic/widgets/internal/domain"
	"github.com/nostalgic/widgets/internal/widget"
	"github.com/nostalgic/widgets/pkg/cache"
	"github.com/nostalgic/widgets/pkg/logger"
	"github.com/rs/zerolog"
)

// Factory builds a fresh controller
type Factory func() *widget.Controller

// State is what survives an instance in Redis
type State struct {
	Owner string                  `json:"owner"`
	Attrs domain.Attributes       `json:"attrs"`
	Draft domain.CompositionDraft `json:"draft"`
}

type entry struct {
	ctrl     *widget.Controller
	owner    string
	lastUsed time.Time
	element  *list.Element
}

// Registry maps instance ids to controllers
type Registry struct {
	factory Factory
	store   cache.Service
	log     zerolog.Logger

	mu      sync.Mutex
	entries map[string]*entry
	order   *list.List // least recently used at front
	claims  map[string]time.Time
	ttl     time.Duration
	maxSize int
	done    chan struct{}
	closed  bool
}

// New creates a registry. store may be backed by a nil Redis client.
func New(factory Factory, store cache.Service, ttl time.Duration, maxSize int) *Registry {
	if ttl <= 0 {
		ttl = cache.TTLInstance
	}
	if maxSize <= 0 {
		maxSize = 1000
	}
	if store == nil {
		store = cache.NewService(nil)
	}
	r := &Registry{
		factory: factory,
		store:   store,
		log:     logger.GetLogger().With().Str("component", "session").Logger(),
		entries: make(map[string]*entry),
		order:   list.New(),
		claims:  make(map[string]time.Time),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go r.cleanup()
	return r
}

// NewID returns a fresh instance id
func NewID() string {
	return uuid.New().String()
}

// ownerSpace namespaces owner fingerprints
var ownerSpace = uuid.MustParse("6f1d3c2e-8a4b-5d7e-9f10-2b3c4d5e6f70")

// Owner fingerprints the visitor signals a snapshot was fetched with. The remote
// API derives its identity stamp from the same signals, so an instance must only
// be served to the owner that created it.
func Owner(ip, userAgent string) string {
	return uuid.NewSHA1(ownerSpace, []byte(ip+"\x00"+userAgent)).String()
}

// ValidID reports whether id looks like an instance id issued by NewID
func ValidID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

// Acquire returns the controller of id for owner, creating it when id is unknown.
// An empty or malformed id, or one held by another owner, gets a fresh one.
// created reports whether a new controller was built.
func (r *Registry) Acquire(ctx context.Context, id, owner string) (string, *widget.Controller, bool) {
	if !ValidID(id) {
		id = NewID()
	}
	if ctrl, held, ok := r.lookup(id); ok {
		if held == owner {
			return id, ctrl, false
		}
		r.log.Info().Str("instance", id).Msg("instance requested by another visitor, issuing a new one")
		id = NewID()
	}

	ctrl := r.factory()
	var st State
	if err := r.store.GetDraft(ctx, id, &st); err == nil {
		if st.Owner == owner {
			ctrl.RestoreDraft(st.Draft)
		} else {
			id = NewID()
		}
	}
	r.insert(id, owner, ctrl)
	return id, ctrl, true
}

// Resume returns the controller of an existing instance held by owner. An instance
// evicted from memory is rebuilt from Redis, attributes included; otherwise, or
// when another owner holds it, the id is unknown.
func (r *Registry) Resume(ctx context.Context, id, owner string) (*widget.Controller, error) {
	if !ValidID(id) {
		return nil, common.ErrUnknownInstance
	}
	if ctrl, held, ok := r.lookup(id); ok {
		if held != owner {
			r.log.Warn().Str("instance", id).Msg("action on an instance held by another visitor")
			return nil, common.ErrUnknownInstance
		}
		return ctrl, nil
	}

	var st State
	if err := r.store.GetDraft(ctx, id, &st); err != nil {
		if !errors.Is(err, cache.ErrMiss) && !errors.Is(err, cache.ErrUnavailable) {
			r.log.Warn().Err(err).Str("instance", id).Msg("failed to read instance state")
		}
		return nil, common.ErrUnknownInstance
	}
	if st.Owner != owner {
		return nil, common.ErrUnknownInstance
	}

	ctrl := r.factory()
	ctrl.RestoreDraft(st.Draft)
	if err := ctrl.SetAttributes(ctx, st.Attrs); err != nil {
		r.log.Debug().Err(err).Str("instance", id).Msg("rebuilt instance failed to load")
	}
	r.insert(id, owner, ctrl)
	return ctrl, nil
}

// Save mirrors the instance state to Redis
func (r *Registry) Save(ctx context.Context, id, owner string, ctrl *widget.Controller) {
	st := State{Owner: owner, Attrs: ctrl.Attributes(), Draft: ctrl.Draft()}
	if err := r.store.SetDraft(ctx, id, st); err != nil && !errors.Is(err, cache.ErrUnavailable) {
		r.log.Warn().Err(err).Str("instance", id).Msg("failed to persist instance state")
	}
}

// ClaimOnce reports whether this is the first claim of key within the TTL. Redis
// is used when available so the claim holds across processes.
func (r *Registry) ClaimOnce(ctx context.Context, kind, id string) bool {
	key := cache.InstanceKey(kind, id)
	claimed, err := r.store.ClaimOnce(ctx, key, r.ttl)
	if err == nil {
		return claimed
	}
	if !errors.Is(err, cache.ErrUnavailable) {
		r.log.Warn().Err(err).Str("key", key).Msg("claim fell back to memory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if at, ok := r.claims[key]; ok && time.Since(at) < r.ttl {
		return false
	}
	r.claims[key] = time.Now()
	return true
}

// Len returns the number of live instances
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) lookup(id string) (*widget.Controller, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || time.Since(e.lastUsed) >= r.ttl {
		return nil, "", false
	}
	e.lastUsed = time.Now()
	r.order.MoveToBack(e.element)
	return e.ctrl, e.owner, true
}

func (r *Registry) insert(id, owner string, ctrl *widget.Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.ctrl = ctrl
		e.owner = owner
		e.lastUsed = time.Now()
		r.order.MoveToBack(e.element)
		return
	}
	if len(r.entries) >= r.maxSize {
		r.evictOldest()
	}
	r.entries[id] = &entry{ctrl: ctrl, owner: owner, lastUsed: time.Now(), element: r.order.PushBack(id)}
}

// evictOldest must be called with mu held
func (r *Registry) evictOldest() {
	front := r.order.Front()
	if front == nil {
		return
	}
	id, _ := front.Value.(string)
	r.order.Remove(front)
	delete(r.entries, id)
}

func (r *Registry) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.runCleanup()
		case <-r.done:
			return
		}
	}
}

func (r *Registry) runCleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, e := range r.entries {
		if now.Sub(e.lastUsed) >= r.ttl {
			r.order.Remove(e.element)
			delete(r.entries, id)
		}
	}
	for key, at := range r.claims {
		if now.Sub(at) >= r.ttl {
			delete(r.claims, key)
		}
	}
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		close(r.done)
		r.closed = true
	}
}
