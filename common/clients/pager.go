package clients

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrSuperseded is returned by Advance when the filter changed while the
// page was being fetched. The fetched page is discarded.
var ErrSuperseded = errors.New("page fetch superseded by filter change")

// PageFetcher loads one page of images. GalleryClient implements it.
type PageFetcher interface {
	ListImages(ctx context.Context, filter ImageFilter, page, limit int) ([]Image, error)
}

// PagerState is a point-in-time view of a Pager
type PagerState struct {
	// Images is every loaded page concatenated in page order
	Images []Image
	// IsLoading is true while the first page is in flight
	IsLoading bool
	// IsLoadingMore is true while a page after the first is in flight
	IsLoadingMore bool
	// IsReachingEnd is true once a page came back shorter than the limit
	IsReachingEnd bool
	// Size is the number of pages loaded or in flight
	Size int
	// Err is the failure of the most recent fetch, if it failed
	Err error
}

// Pager accumulates pages of an image listing for infinite scrolling.
// Pages only ever grow for a given filter; changing the filter starts
// over at page 1 and discards any fetch still in flight for the old one.
// A Pager is safe for concurrent use.
type Pager struct {
	fetcher PageFetcher
	limit   int
	logger  Logger
	group   singleflight.Group

	mu         sync.Mutex
	filter     ImageFilter
	generation uint64
	pages      [][]Image
	loading    int // page in flight, 0 when idle
	end        bool
	err        error
}

// NewPager creates a pager over filter that fetches limit images per page
func NewPager(fetcher PageFetcher, filter ImageFilter, limit int, logger Logger) *Pager {
	if limit < 1 {
		limit = 1
	}
	return &Pager{
		fetcher: fetcher,
		limit:   limit,
		logger:  logger,
		filter:  filter,
	}
}

// SetFilter switches the active filter. A different filter resets the
// accumulated pages; the same filter is a no-op.
func (p *Pager) SetFilter(filter ImageFilter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if filter.Key() == p.filter.Key() {
		return
	}

	p.logger.Debug("pager filter changed",
		"from", p.filter.Key(),
		"to", filter.Key(),
		"discarded_pages", len(p.pages))

	p.filter = filter
	p.generation++
	p.pages = nil
	p.loading = 0
	p.end = false
	p.err = nil
}

// Advance loads the next page. Callers racing to advance while a page is
// in flight share that fetch instead of issuing their own. Advancing past
// the end is a no-op.
func (p *Pager) Advance(ctx context.Context) error {
	p.mu.Lock()
	if p.end {
		p.mu.Unlock()
		return nil
	}

	gen := p.generation
	filter := p.filter
	page := len(p.pages) + 1
	p.loading = page

	// Registered under the lock, and the result is applied inside the
	// flight, so a caller can never miss an in-flight fetch of its page.
	// The flight outlives any single caller: one caller giving up must not
	// fail the fetch for the others sharing it.
	key := fmt.Sprintf("%d|%s|%d", gen, filter.Key(), page)
	fetchCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (interface{}, error) {
		images, err := p.fetcher.ListImages(fetchCtx, filter, page, p.limit)
		return nil, p.apply(gen, page, images, err)
	})
	p.mu.Unlock()

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetSize loads pages until n pages are loaded, the end is reached or a
// fetch fails
func (p *Pager) SetSize(ctx context.Context, n int) error {
	for {
		p.mu.Lock()
		done := len(p.pages) >= n || p.end
		p.mu.Unlock()
		if done {
			return nil
		}

		if err := p.Advance(ctx); err != nil {
			return err
		}
	}
}

// State returns a snapshot of the pager
func (p *Pager) State() PagerState {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := 0
	for _, pg := range p.pages {
		total += len(pg)
	}
	images := make([]Image, 0, total)
	for _, pg := range p.pages {
		images = append(images, pg...)
	}

	size := len(p.pages)
	if p.loading != 0 {
		size = p.loading
	}

	return PagerState{
		Images:        images,
		IsLoading:     p.loading != 0 && len(p.pages) == 0,
		IsLoadingMore: p.loading != 0 && len(p.pages) > 0,
		IsReachingEnd: p.end,
		Size:          size,
		Err:           p.err,
	}
}

// apply records a fetched page unless the filter moved on meanwhile
func (p *Pager) apply(gen uint64, page int, images []Image, fetchErr error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation {
		p.logger.Debug("discarding stale page", "page", page, "generation", gen)
		return ErrSuperseded
	}

	if p.loading == page {
		p.loading = 0
	}

	if fetchErr != nil {
		p.err = fetchErr
		return fetchErr
	}

	p.pages = append(p.pages, images)
	p.err = nil
	if len(images) < p.limit {
		p.end = true
	}

	return nil
}
