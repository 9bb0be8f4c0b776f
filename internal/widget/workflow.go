package widget

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/nostalgic/widgets/internal/common"
	"github.com/nostalgic/widgets/internal/domain"
)

// Confirmer asks the visitor to confirm a destructive action
type Confirmer func(prompt string) bool

// Notifier receives the outcome of a mutation. Keys are i18n message keys.
type Notifier interface {
	Success(key string)
	Failure(err error)
	Reloaded(err error)
}

// Workflow is the compose/edit/delete state machine on top of a SyncEngine.
type Workflow struct {
	api    BoardAPI
	engine *SyncEngine
	notify Notifier

	mu    sync.Mutex
	draft domain.CompositionDraft
}

// NewWorkflow creates a workflow in create mode
func NewWorkflow(api BoardAPI, engine *SyncEngine, notify Notifier) *Workflow {
	return &Workflow{
		api:    api,
		engine: engine,
		notify: notify,
		draft:  domain.NewDraft(),
	}
}

// Draft returns a copy of the current draft
func (w *Workflow) Draft() domain.CompositionDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Restore replaces the draft, used when an instance is rehydrated
func (w *Workflow) Restore(d domain.CompositionDraft) {
	w.mu.Lock()
	defer w.mu.Unlock()
	d.Submitting = false
	if d.Mode != domain.ModeEdit || d.TargetEntryID == "" {
		d.Mode = domain.ModeCreate
		d.TargetEntryID = ""
		d.TargetOrdinal = 0
		d.TargetIdentity = ""
	}
	w.draft = d
}

// UpdateDraft stores typed input. Ignored while a submission is in flight.
func (w *Workflow) UpdateDraft(in domain.DraftInput) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft.Submitting {
		return
	}
	w.draft.Author = in.Author
	w.draft.Body = in.Body
	w.draft.Aux = in.Aux
}

// BeginEdit switches to edit mode for entryID, pre-filled from the entry. Only the
// owner of the entry may do this; no request is made either way.
func (w *Workflow) BeginEdit(entryID string) error {
	snap := w.engine.Snapshot()
	entry, ok := snap.FindEntry(entryID)
	if !ok || !CanMutate(entry, snap) {
		return &common.PermissionError{Action: "edit", EntryID: entryID}
	}

	ordinal := 0
	for _, n := range Enrich(snap) {
		if n.ID == entryID {
			ordinal = n.Ordinal
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft.Submitting {
		return common.ErrAlreadyPending
	}
	w.draft = domain.CompositionDraft{
		Mode:           domain.ModeEdit,
		TargetEntryID:  entry.ID,
		TargetOrdinal:  ordinal,
		TargetIdentity: entry.AuthorIdentity,
		Author:         entry.Author,
		Body:           entry.Body,
		Aux:            entry.Aux,
	}
	return nil
}

// Cancel discards the draft and returns to create mode
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft.Submitting {
		return
	}
	w.draft = domain.NewDraft()
}

// NormalizeInput coerces the draft into what is sent: a blank author becomes
// defaultAuthor, trailing whitespace of the body is stripped and leading
// whitespace is kept.
func NormalizeInput(d domain.CompositionDraft, defaultAuthor string) domain.DraftInput {
	author := strings.TrimSpace(d.Author)
	if author == "" {
		author = defaultAuthor
	}
	return domain.DraftInput{
		Author: author,
		Body:   strings.TrimRightFunc(d.Body, unicode.IsSpace),
		Aux: domain.AuxValues{
			Standard:    strings.TrimSpace(d.Aux.Standard),
			Incremental: strings.TrimSpace(d.Aux.Incremental),
			Emote:       strings.TrimSpace(d.Aux.Emote),
		},
	}
}

// Submit posts or updates the draft. On success the draft is cleared and the
// board is reloaded onto its last page; on failure the draft is kept.
func (w *Workflow) Submit(ctx context.Context, boardID, defaultAuthor string) error {
	w.mu.Lock()
	if w.draft.Submitting {
		w.mu.Unlock()
		return common.ErrAlreadyPending
	}
	if w.draft.Mode == domain.ModeEdit && !w.ownsTarget(w.draft) {
		err := &common.PermissionError{Action: "edit", EntryID: w.draft.TargetEntryID}
		w.draft.Mode = domain.ModeCreate
		w.draft.TargetEntryID = ""
		w.draft.TargetOrdinal = 0
		w.draft.TargetIdentity = ""
		w.mu.Unlock()
		w.notify.Failure(err)
		return err
	}
	w.draft.Submitting = true
	draft := w.draft
	w.mu.Unlock()

	in := NormalizeInput(draft, defaultAuthor)

	var err error
	successKey := "bbs.post_success"
	if draft.Mode == domain.ModeEdit {
		successKey = "bbs.update_success"
		err = w.api.Update(ctx, boardID, draft.TargetEntryID, in)
	} else {
		err = w.api.Post(ctx, boardID, in)
	}

	w.mu.Lock()
	if err != nil {
		w.draft.Submitting = false
		w.mu.Unlock()
		w.notify.Failure(err)
		return err
	}
	w.draft = domain.NewDraft()
	w.mu.Unlock()

	w.notify.Success(successKey)
	_, reloadErr := w.engine.LoadLatest(ctx, boardID)
	w.notify.Reloaded(reloadErr)
	return nil
}

// ownsTarget re-checks the edit target against the current snapshot. A target no
// longer on the visible page is checked through the stamp taken at BeginEdit.
func (w *Workflow) ownsTarget(d domain.CompositionDraft) bool {
	snap := w.engine.Snapshot()
	if entry, ok := snap.FindEntry(d.TargetEntryID); ok {
		return CanMutate(entry, snap)
	}
	return CanMutate(domain.Entry{ID: d.TargetEntryID, AuthorIdentity: d.TargetIdentity}, snap)
}

// Delete removes entryID after confirmation. The board is reloaded whether or not
// the remote call succeeded.
func (w *Workflow) Delete(ctx context.Context, boardID, entryID, prompt string, confirm Confirmer) error {
	snap := w.engine.Snapshot()
	entry, ok := snap.FindEntry(entryID)
	if !ok || !CanMutate(entry, snap) {
		return &common.PermissionError{Action: "delete", EntryID: entryID}
	}
	if confirm == nil || !confirm(prompt) {
		return common.ErrNotConfirmed
	}

	err := w.api.Remove(ctx, boardID, entryID)
	if err != nil {
		w.notify.Failure(err)
	} else {
		w.mu.Lock()
		if !w.draft.Submitting {
			w.draft = domain.NewDraft()
		}
		w.mu.Unlock()
		w.notify.Success("bbs.delete_success")
	}

	w.notify.Reloaded(w.reloadCurrent(ctx, boardID, snap.CurrentPage))
	return err
}

// reloadCurrent refetches page, stepping back to the new last page when a
// deletion emptied it.
func (w *Workflow) reloadCurrent(ctx context.Context, boardID string, page int) error {
	snap, err := w.engine.LoadPage(ctx, boardID, page)
	if err != nil {
		return err
	}
	if snap.CurrentPage > snap.TotalPages {
		_, err = w.engine.LoadPage(ctx, boardID, snap.TotalPages)
	}
	return err
}
