package domain

// DraftMode is the composer mode
type DraftMode string

const (
	ModeCreate DraftMode = "create"
	ModeEdit   DraftMode = "edit"
)

// CompositionDraft is the composer state. It lives only inside the widget.
type CompositionDraft struct {
	Mode           DraftMode `json:"mode"`
	TargetEntryID  string    `json:"target_entry_id,omitempty"`
	TargetOrdinal  int       `json:"target_ordinal,omitempty"`
	TargetIdentity string    `json:"target_identity,omitempty"` // author stamp when edit began
	Author         string    `json:"author"`
	Body           string    `json:"body"`
	Aux            AuxValues `json:"aux"`
	Submitting     bool      `json:"submitting"`
}

// NewDraft returns an empty create-mode draft
func NewDraft() CompositionDraft {
	return CompositionDraft{Mode: ModeCreate}
}

// DraftInput is the user-editable part of a draft
type DraftInput struct {
	Author string
	Body   string
	Aux    AuxValues
}
