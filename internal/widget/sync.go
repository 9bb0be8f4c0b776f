package widget

import (
	"context"
	"errors"
	"sync"

	"github.com/nostalgic/widgets/internal/domain"
	"github.com/nostalgic/widgets/pkg/logger"
	"github.com/rs/zerolog"
)

// ErrSuperseded is returned for a load whose result arrived after a newer load had
// been started. Its result is dropped.
var ErrSuperseded = errors.New("load superseded by a newer request")

// BoardAPI is the remote board store
type BoardAPI interface {
	GetPage(ctx context.Context, id string, page int) (*domain.BoardSnapshot, error)
	Post(ctx context.Context, id string, in domain.DraftInput) error
	Update(ctx context.Context, id, messageID string, in domain.DraftInput) error
	Remove(ctx context.Context, id, messageID string) error
}

// SyncEngine owns the fetch lifecycle of one board widget and the last
// successfully fetched snapshot.
type SyncEngine struct {
	api         BoardAPI
	acceptStale bool
	log         zerolog.Logger

	mu         sync.Mutex
	snapshot   *domain.BoardSnapshot
	loadedID   string
	generation uint64
}

// NewSyncEngine creates an engine. With acceptStale the engine applies every
// completed load in arrival order (last resolved wins) instead of dropping
// results of superseded loads.
func NewSyncEngine(api BoardAPI, acceptStale bool) *SyncEngine {
	return &SyncEngine{
		api:         api,
		acceptStale: acceptStale,
		log:         logger.GetLogger().With().Str("component", "sync").Logger(),
	}
}

// Snapshot returns the current snapshot (nil before the first successful load)
func (e *SyncEngine) Snapshot() *domain.BoardSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Reset forgets the current board
func (e *SyncEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshot = nil
	e.loadedID = ""
	e.generation++
}

// Load fetches the board for id. A pinned page is fetched once. Without a pinned
// page the first load of a board lands on its last page (two requests), and later
// loads refetch the page currently shown (one request).
func (e *SyncEngine) Load(ctx context.Context, id string, page int, pinned bool) (*domain.BoardSnapshot, error) {
	if pinned {
		return e.LoadPage(ctx, id, page)
	}

	e.mu.Lock()
	first := e.loadedID != id || e.snapshot == nil
	current := 1
	if !first {
		current = e.snapshot.CurrentPage
	}
	e.mu.Unlock()

	if first {
		return e.LoadLatest(ctx, id)
	}
	return e.LoadPage(ctx, id, current)
}

// LoadPage performs exactly one fetch of page
func (e *SyncEngine) LoadPage(ctx context.Context, id string, page int) (*domain.BoardSnapshot, error) {
	gen := e.begin()
	snap, err := e.api.GetPage(ctx, id, page)
	return e.finish(gen, id, snap, err)
}

// LoadLatest fetches page 1 to learn the page count, then refetches the last page
// when there is more than one.
func (e *SyncEngine) LoadLatest(ctx context.Context, id string) (*domain.BoardSnapshot, error) {
	gen := e.begin()
	snap, err := e.api.GetPage(ctx, id, 1)
	if err != nil || snap.TotalPages <= 1 {
		return e.finish(gen, id, snap, err)
	}
	if e.stale(gen) {
		return nil, ErrSuperseded
	}

	e.log.Debug().Str("entity_id", id).Int("total_pages", snap.TotalPages).Msg("refetching last page")
	last, err := e.api.GetPage(ctx, id, snap.TotalPages)
	return e.finish(gen, id, last, err)
}

func (e *SyncEngine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

func (e *SyncEngine) stale(gen uint64) bool {
	if e.acceptStale {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen != e.generation
}

func (e *SyncEngine) finish(gen uint64, id string, snap *domain.BoardSnapshot, err error) (*domain.BoardSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.acceptStale && gen != e.generation {
		e.log.Debug().Str("entity_id", id).Uint64("generation", gen).Msg("dropping superseded load")
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	e.snapshot = snap
	e.loadedID = id
	return snap, nil
}
