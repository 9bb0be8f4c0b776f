package widget

import "github.com/nostalgic/widgets/internal/domain"

// CanMutate reports whether the current caller may edit or delete entry.
// The identity stamp is opaque; equality is the whole authorization model, and an
// empty stamp never matches.
func CanMutate(entry domain.Entry, snap *domain.BoardSnapshot) bool {
	if snap == nil || entry.AuthorIdentity == "" || snap.CurrentCallerIdentity == "" {
		return false
	}
	return entry.AuthorIdentity == snap.CurrentCallerIdentity
}

// Enrich numbers the entries of snap and evaluates CanMutate for each of them.
// It must run on every new snapshot.
func Enrich(snap *domain.BoardSnapshot) []domain.NumberedEntry {
	if snap == nil {
		return nil
	}
	numbered := Number(snap.Entries, snap.CurrentPage, snap.EntriesPerPage, snap.TotalEntries)
	for i := range numbered {
		numbered[i].CanMutate = CanMutate(numbered[i].Entry, snap)
	}
	return numbered
}
