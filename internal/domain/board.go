package domain

import (
	"strings"
	"time"
)

// MaxEmoteOptions is the size of the 3x3 emote picker
const MaxEmoteOptions = 9

// AuxValues holds the optional selector values attached to an entry
type AuxValues struct {
	Standard    string `json:"standardValue,omitempty"`
	Incremental string `json:"incrementalValue,omitempty"`
	Emote       string `json:"emoteValue,omitempty"`
}

// IsZero reports whether no selector value is set
func (a AuxValues) IsZero() bool {
	return a.Standard == "" && a.Incremental == "" && a.Emote == ""
}

// Entry is one posted message. Entries are values; an edit is observed only
// through a new snapshot.
type Entry struct {
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	ID             string
	Author         string
	Body           string
	AuthorIdentity string
	Aux            AuxValues
}

// SelectorSettings configures one auxiliary selector widget
type SelectorSettings struct {
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

// BoardSettings describes the optional selectors of a board
type BoardSettings struct {
	Standard    *SelectorSettings `json:"standardSelect,omitempty"`
	Incremental *SelectorSettings `json:"incrementalSelect,omitempty"`
	Emote       *SelectorSettings `json:"emoteSelect,omitempty"`
}

// EmoteOptions returns at most MaxEmoteOptions emote choices
func (s BoardSettings) EmoteOptions() []string {
	if s.Emote == nil {
		return nil
	}
	opts := s.Emote.Options
	if len(opts) > MaxEmoteOptions {
		opts = opts[:MaxEmoteOptions]
	}
	return opts
}

// BoardSnapshot is the last successfully fetched page of a board.
// It is replaced wholesale on every fetch.
type BoardSnapshot struct {
	Title                 string
	Entries               []Entry
	TotalEntries          int
	EntriesPerPage        int
	TotalPages            int
	CurrentPage           int
	CurrentCallerIdentity string
	Settings              BoardSettings
}

// TotalPagesFor returns ceil(total/perPage), at least 1
func TotalPagesFor(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// FindEntry returns the entry with the given id on the current page
func (s *BoardSnapshot) FindEntry(id string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// NumberedEntry is an entry enriched for rendering
type NumberedEntry struct {
	Entry
	Ordinal   int
	CanMutate bool
}

// BBSMessage is the wire shape of one message in the remote API
type BBSMessage struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	UserHash  string `json:"userHash"`
	AuxValues
}

// ToEntry converts the wire message to an Entry
func (m *BBSMessage) ToEntry() Entry {
	e := Entry{
		ID:             m.ID,
		Author:         m.Author,
		Body:           m.Message,
		AuthorIdentity: strings.TrimSpace(m.UserHash),
		Aux:            m.AuxValues,
		CreatedAt:      parseTimestamp(m.Timestamp),
	}
	if m.UpdatedAt != "" {
		t := parseTimestamp(m.UpdatedAt)
		e.UpdatedAt = &t
	}
	return e
}

// BBSPage is the wire shape of the data field of action=get
type BBSPage struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Messages        []BBSMessage  `json:"messages"`
	TotalMessages   int           `json:"totalMessages"`
	MessagesPerPage int           `json:"messagesPerPage"`
	CurrentPage     int           `json:"currentPage"`
	CurrentUserHash string        `json:"currentUserHash"`
	Settings        BoardSettings `json:"settings"`
}

// DefaultMessagesPerPage is used when the server omits messagesPerPage
const DefaultMessagesPerPage = 10

// ToSnapshot converts the wire page to a BoardSnapshot for the requested page
func (p *BBSPage) ToSnapshot(requestedPage int) *BoardSnapshot {
	perPage := p.MessagesPerPage
	if perPage <= 0 {
		perPage = DefaultMessagesPerPage
	}
	page := p.CurrentPage
	if page <= 0 {
		page = requestedPage
	}
	if page <= 0 {
		page = 1
	}
	entries := make([]Entry, len(p.Messages))
	for i := range p.Messages {
		entries[i] = p.Messages[i].ToEntry()
	}
	return &BoardSnapshot{
		Title:                 p.Title,
		Entries:               entries,
		TotalEntries:          p.TotalMessages,
		EntriesPerPage:        perPage,
		TotalPages:            TotalPagesFor(p.TotalMessages, perPage),
		CurrentPage:           page,
		CurrentCallerIdentity: strings.TrimSpace(p.CurrentUserHash),
		Settings:              p.Settings,
	}
}

func parseTimestamp(v string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
