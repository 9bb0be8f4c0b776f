package widget

import (
	"fmt"

	"github.com/nostalgic/widgets/internal/domain"
)

// PageLabel is one pagination button
type PageLabel struct {
	Page    int
	Label   string
	Current bool
}

// Number assigns every entry of a page its ordinal on the whole board: the i-th
// entry of page p gets total - (p-1)*perPage - i, so the first post ever is #1.
func Number(entries []domain.Entry, page, perPage, total int) []domain.NumberedEntry {
	if page < 1 {
		page = 1
	}
	if perPage < 0 {
		perPage = 0
	}
	start := (page - 1) * perPage
	out := make([]domain.NumberedEntry, len(entries))
	for i, e := range entries {
		out[i] = domain.NumberedEntry{
			Entry:   e,
			Ordinal: total - start - i,
		}
	}
	return out
}

// PageLabels returns the pagination buttons of a board. Page p is labelled
// "<first>-<last>" with the ordinals it holds; a final page holding a single
// entry is labelled "<n>-".
func PageLabels(total, perPage, current int) []PageLabel {
	pages := domain.TotalPagesFor(total, perPage)
	if pages <= 1 {
		return nil
	}
	labels := make([]PageLabel, 0, pages)
	for p := 1; p <= pages; p++ {
		first := total - (p-1)*perPage
		last := first - perPage + 1
		if last < 1 {
			last = 1
		}
		label := fmt.Sprintf("%d-%d", first, last)
		if p == pages && first == last {
			label = fmt.Sprintf("%d-", first)
		}
		labels = append(labels, PageLabel{Page: p, Label: label, Current: p == current})
	}
	return labels
}
