package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ticket-client/models"
)

// Browser holds the transient page/filter state of an event listing view.
// Page and filters are independent axes that all feed one composite
// invalidation key; a fetch happens whenever the key changes, and clearing
// filters resets to page 0 because the result set composition changes.
type Browser struct {
	events   EventAPI
	pageSize int

	mu        sync.Mutex
	page      int
	term      string
	startDate string
	endDate   string
	lastKey   string
	current   *models.EventPage
	loading   bool
}

func NewBrowser(events EventAPI, pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = 6
	}
	return &Browser{events: events, pageSize: pageSize}
}

// SetPage moves to a 0-based page and refetches.
func (b *Browser) SetPage(ctx context.Context, page int) (*models.EventPage, error) {
	if page < 0 {
		return nil, errors.New("browse: page index must not be negative")
	}
	b.mu.Lock()
	b.page = page
	b.mu.Unlock()
	return b.fetch(ctx)
}

// Search applies a free-text term. Any term change resets to page 0.
func (b *Browser) Search(ctx context.Context, term string) (*models.EventPage, error) {
	b.mu.Lock()
	b.term = term
	b.page = 0
	b.mu.Unlock()
	return b.fetch(ctx)
}

// SetDateRange applies an optional date window (already formatted for the
// wire). Resets to page 0.
func (b *Browser) SetDateRange(ctx context.Context, startDate, endDate string) (*models.EventPage, error) {
	b.mu.Lock()
	b.startDate = startDate
	b.endDate = endDate
	b.page = 0
	b.mu.Unlock()
	return b.fetch(ctx)
}

// ClearFilters drops the term and date range and returns to the unfiltered
// first page.
func (b *Browser) ClearFilters(ctx context.Context) (*models.EventPage, error) {
	b.mu.Lock()
	b.term = ""
	b.startDate = ""
	b.endDate = ""
	b.page = 0
	b.mu.Unlock()
	return b.fetch(ctx)
}

// Apply sets every filter axis and the page in one step, the way a routed
// view does on deep-link entry, then fetches.
func (b *Browser) Apply(ctx context.Context, page int, term, startDate, endDate string) (*models.EventPage, error) {
	if page < 0 {
		return nil, errors.New("browse: page index must not be negative")
	}
	b.mu.Lock()
	b.page = page
	b.term = term
	b.startDate = startDate
	b.endDate = endDate
	b.mu.Unlock()
	return b.fetch(ctx)
}

// Refresh refetches the current page unconditionally.
func (b *Browser) Refresh(ctx context.Context) (*models.EventPage, error) {
	b.mu.Lock()
	b.lastKey = ""
	b.mu.Unlock()
	return b.fetch(ctx)
}

func (b *Browser) fetch(ctx context.Context) (*models.EventPage, error) {
	b.mu.Lock()
	key := b.key()
	if key == b.lastKey && b.current != nil {
		page := b.current
		b.mu.Unlock()
		return page, nil
	}
	page, term, start, end := b.page, b.term, b.startDate, b.endDate
	b.loading = true
	b.mu.Unlock()

	result, err := b.events.GetEvents(ctx, page, b.pageSize, term, start, end)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	if key != b.key() {
		// The view moved on while this fetch was in flight; the result
		// belongs to a page/filter combination nobody is looking at.
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	b.lastKey = key
	b.current = result
	return result, nil
}

func (b *Browser) key() string {
	return fmt.Sprintf("%d|%s|%s|%s", b.page, b.term, b.startDate, b.endDate)
}

func (b *Browser) Page() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

func (b *Browser) Term() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.term
}

func (b *Browser) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Current returns the last successfully fetched page, nil before the first
// fetch.
func (b *Browser) Current() *models.EventPage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
