package widget

import (
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ToastLevel indicates the severity of a toast notification.
type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
)

// DefaultToastDuration is how long a toast stays visible
const DefaultToastDuration = 3 * time.Second

// Toast is a transient banner message
type Toast struct {
	ID        string
	Level     ToastLevel
	Message   string
	CreatedAt time.Time
}

// Banner holds at most one visible toast. A new toast replaces the current one;
// the timer of the replaced toast is left running and only ever hides its own toast.
type Banner struct {
	mu       sync.Mutex
	current  *Toast
	duration time.Duration
	onChange func(*Toast)
}

// NewBanner creates a banner whose toasts auto-hide after duration
func NewBanner(duration time.Duration) *Banner {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &Banner{duration: duration}
}

// SetOnChange configures the callback invoked after every show/hide
func (b *Banner) SetOnChange(fn func(*Toast)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Show displays a toast and returns its ID
func (b *Banner) Show(level ToastLevel, message string) string {
	t := &Toast{
		ID:        ulid.Make().String(),
		Level:     level,
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now(),
	}

	b.mu.Lock()
	b.current = t
	cb := b.onChange
	b.mu.Unlock()

	time.AfterFunc(b.duration, func() { b.Dismiss(t.ID) })

	if cb != nil {
		cb(t)
	}
	return t.ID
}

// Dismiss hides the toast with id if it is still the visible one
func (b *Banner) Dismiss(id string) {
	b.mu.Lock()
	if b.current == nil || b.current.ID != id {
		b.mu.Unlock()
		return
	}
	b.current = nil
	cb := b.onChange
	b.mu.Unlock()

	if cb != nil {
		cb(nil)
	}
}

// Current returns the visible toast, or nil
func (b *Banner) Current() *Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	t := *b.current
	return &t
}
