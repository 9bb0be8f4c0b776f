package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nostalgic/widgets/internal/common"
	"github.com/nostalgic/widgets/internal/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock BoardAPI ---

type mockBoardAPI struct {
	mock.Mock
}

func (m *mockBoardAPI) GetPage(ctx context.Context, id string, page int) (*domain.BoardSnapshot, error) {
	args := m.Called(ctx, id, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BoardSnapshot), args.Error(1)
}

func (m *mockBoardAPI) Post(ctx context.Context, id string, in domain.DraftInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *mockBoardAPI) Update(ctx context.Context, id, messageID string, in domain.DraftInput) error {
	return m.Called(ctx, id, messageID, in).Error(0)
}

func (m *mockBoardAPI) Remove(ctx context.Context, id, messageID string) error {
	return m.Called(ctx, id, messageID).Error(0)
}

// --- In-memory board ---

// fakeBoard serves pages newest first the way the remote store does
type fakeBoard struct {
	mu       sync.Mutex
	perPage  int
	caller   string
	entries  []domain.Entry // oldest first
	calls    []int
	failNext error
	gates    map[int]chan struct{}
	started  chan int
	nextID   int
	title    string
	settings domain.BoardSettings
}

func newFakeBoard(total, perPage int, caller string) *fakeBoard {
	b := &fakeBoard{perPage: perPage, caller: caller, title: "Guestbook", gates: map[int]chan struct{}{}}
	for i := 0; i < total; i++ {
		b.add("someone", fmt.Sprintf("message %d", i+1), "other-hash", domain.AuxValues{})
	}
	return b
}

func (b *fakeBoard) add(author, body, hash string, aux domain.AuxValues) string {
	b.nextID++
	id := fmt.Sprintf("m%d", b.nextID)
	b.entries = append(b.entries, domain.Entry{
		ID:             id,
		Author:         author,
		Body:           body,
		AuthorIdentity: hash,
		Aux:            aux,
		CreatedAt:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(b.nextID) * time.Minute),
	})
	return id
}

func (b *fakeBoard) pageCalls() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.calls...)
}

func (b *fakeBoard) resetCalls() {
	b.mu.Lock()
	b.calls = nil
	b.mu.Unlock()
}

func (b *fakeBoard) GetPage(ctx context.Context, id string, page int) (*domain.BoardSnapshot, error) {
	b.mu.Lock()
	b.calls = append(b.calls, page)
	gate := b.gates[page]
	started := b.started
	b.mu.Unlock()

	if started != nil {
		started <- page
	}
	if gate != nil {
		<-gate
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failNext; err != nil {
		b.failNext = nil
		return nil, err
	}

	total := len(b.entries)
	start := (page - 1) * b.perPage
	var entries []domain.Entry
	for i := start; i < start+b.perPage && i < total; i++ {
		entries = append(entries, b.entries[total-1-i])
	}
	return &domain.BoardSnapshot{
		Title:                 b.title,
		Entries:               entries,
		TotalEntries:          total,
		EntriesPerPage:        b.perPage,
		TotalPages:            domain.TotalPagesFor(total, b.perPage),
		CurrentPage:           page,
		CurrentCallerIdentity: b.caller,
		Settings:              b.settings,
	}, nil
}

func (b *fakeBoard) Post(ctx context.Context, id string, in domain.DraftInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failNext; err != nil {
		b.failNext = nil
		return err
	}
	b.add(in.Author, in.Body, b.caller, in.Aux)
	return nil
}

func (b *fakeBoard) Update(ctx context.Context, id, messageID string, in domain.DraftInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.entries {
		if b.entries[i].ID == messageID {
			if b.entries[i].AuthorIdentity != b.caller {
				return &common.LogicalError{Op: "update", Message: "You can only edit your own messages"}
			}
			b.entries[i].Author = in.Author
			b.entries[i].Body = in.Body
			b.entries[i].Aux = in.Aux
			return nil
		}
	}
	return &common.LogicalError{Op: "update", Message: "Message not found"}
}

func (b *fakeBoard) Remove(ctx context.Context, id, messageID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.entries {
		if b.entries[i].ID == messageID {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}
