package feed

import (
	"context"
	"sort"
	"strings"

	"artemis/internal/models"
)

// SortMode selects the feed ordering.
type SortMode string

// Sort modes.
const (
	SortRecent SortMode = "recent"
	SortTop    SortMode = "top"
)

// ParseSortMode maps a request parameter to a SortMode, defaulting to recency.
func ParseSortMode(s string) SortMode {
	if SortMode(s) == SortTop {
		return SortTop
	}
	return SortRecent
}

// Searcher runs a remote full-text search over posts. When a query is active
// the view derives from fresh search results, not the local mirror.
type Searcher interface {
	Search(ctx context.Context, query string) ([]*models.Post, error)
}

// View computes the filtered/sorted/searched projection of the post
// collection. Zero value of the filter state means "show everything by
// recency".
type View struct {
	store    *Store
	searcher Searcher

	query string
	flag  *models.PostFlag
	sort  SortMode
}

// NewView creates a view over the given mirror and searcher.
func NewView(store *Store, searcher Searcher) *View {
	return &View{
		store:    store,
		searcher: searcher,
		sort:     SortRecent,
	}
}

// SetQuery sets the free-text query. Whitespace-only queries count as empty.
func (v *View) SetQuery(q string) { v.query = strings.TrimSpace(q) }

// SetFlag sets the category filter; nil clears it.
func (v *View) SetFlag(f *models.PostFlag) { v.flag = f }

// SetSort sets the sort mode.
func (v *View) SetSort(m SortMode) { v.sort = m }

// Reset restores the unfiltered state: query empty, no flag, sorted by recency.
func (v *View) Reset() {
	v.query = ""
	v.flag = nil
	v.sort = SortRecent
}

// Query returns the active query.
func (v *View) Query() string { return v.query }

// Flag returns the active flag filter.
func (v *View) Flag() *models.PostFlag { return v.flag }

// Sort returns the active sort mode.
func (v *View) Sort() SortMode { return v.sort }

// Posts computes the sequence of posts to display. A non-empty query fetches
// fresh results from the backend search; the flag filter then narrows the
// result set, and the sort mode orders it. Both sorts are stable, so posts
// with tied upvote counts keep their relative order.
func (v *View) Posts(ctx context.Context) ([]*models.Post, error) {
	var base []*models.Post
	if v.query != "" {
		found, err := v.searcher.Search(ctx, v.query)
		if err != nil {
			return nil, err
		}
		base = found
	} else {
		base = v.store.Posts()
	}

	if v.flag != nil {
		filtered := base[:0:0]
		for _, p := range base {
			if p.Flag == *v.flag {
				filtered = append(filtered, p)
			}
		}
		base = filtered
	}

	switch v.sort {
	case SortTop:
		sort.SliceStable(base, func(i, j int) bool {
			return base[i].Upvotes > base[j].Upvotes
		})
	default:
		sort.SliceStable(base, func(i, j int) bool {
			return base[i].CreatedAt.After(base[j].CreatedAt)
		})
	}

	return base, nil
}
