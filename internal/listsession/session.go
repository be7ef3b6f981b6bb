// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package listsession owns one interactive list-browsing session: the
// current search term, filters, sort and page, and the fetch lifecycle
// those edits trigger. It is the single writer for its own state; remote
// responses are applied under a monotonically increasing request sequence
// so a late reply for a superseded request can never overwrite newer data.
package listsession

import (
	"context"
	"sync"
	"time"
)

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseErrored
)

// Query is the session's committed view of what to fetch.
type Query struct {
	SearchTerm     string
	Filters        map[string][]string
	SortField      string
	SortDescending bool
	Page           int
	PageSize       int
}

// Result is one completed page fetch.
type Result struct {
	Rows       []interface{}
	TotalCount int64
	TotalPages int
}

// Fetcher executes a list query remotely.
type Fetcher interface {
	FetchPage(ctx context.Context, q Query) (*Result, error)
}

// Deleter removes a single row remotely.
type Deleter interface {
	DeleteRow(ctx context.Context, id string) error
}

// State is an immutable snapshot of the session for rendering. TotalCount
// and TotalPages always reflect the most recently completed fetch, never
// an in-flight one.
type State struct {
	Phase           Phase
	Rows            []interface{}
	TotalCount      int64
	TotalPages      int
	Page            int
	SearchDraft     string
	SearchCommitted string
	Err             error
}

// Options configures a Controller.
type Options struct {
	PageSize         int
	DebounceInterval time.Duration
	FetchTimeout     time.Duration
	// OnChange is invoked outside the session lock, from a single
	// goroutine, in state order. When transitions outpace the consumer,
	// superseded snapshots are skipped; the latest state is always
	// delivered.
	OnChange func(State)
}

const (
	defaultDebounceInterval = 300 * time.Millisecond
	defaultFetchTimeout     = 15 * time.Second
)

// Controller drives a list-browsing session against a Fetcher.
type Controller struct {
	fetcher Fetcher
	deleter Deleter
	opts    Options

	mu sync.Mutex

	phase           Phase
	rows            []interface{}
	totalCount      int64
	totalPages      int
	page            int
	searchDraft     string
	searchCommitted string
	filters         map[string][]string
	sortField       string
	sortDescending  bool
	lastErr         error

	// seq is the sequence number of the most recently issued request;
	// only the response carrying this number may be applied.
	seq uint64

	debounce  *time.Timer
	composing bool
	closed    bool

	// notifyCh feeds the single notifier goroutine. Capacity one: an
	// unconsumed snapshot is replaced by its successor, never reordered.
	notifyCh chan State
}

// NewController creates a session controller. The deleter may be nil for
// read-only views.
func NewController(fetcher Fetcher, deleter Deleter, opts Options) *Controller {
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}
	if opts.DebounceInterval <= 0 {
		opts.DebounceInterval = defaultDebounceInterval
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	c := &Controller{
		fetcher: fetcher,
		deleter: deleter,
		opts:    opts,
		page:    1,
		filters: make(map[string][]string),
	}
	if opts.OnChange != nil {
		c.notifyCh = make(chan State, 1)
		go func(ch <-chan State) {
			for state := range ch {
				opts.OnChange(state)
			}
		}(c.notifyCh)
	}
	return c
}

// Start issues the initial fetch.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatchLocked()
}

// Close stops the debounce timer, invalidates any in-flight response, and
// stops the notifier goroutine.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.seq++
	c.stopDebounceLocked()
	if c.notifyCh != nil {
		close(c.notifyCh)
		c.notifyCh = nil
	}
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetSearchDraft records a search-field edit. The fetch is deferred until
// the input quiesces for the debounce interval; edits made while character
// composition is in progress never start the timer.
func (c *Controller) SetSearchDraft(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchDraft = term
	if c.composing {
		return
	}
	c.restartDebounceLocked()
}

// BeginComposition marks the start of multi-keystroke character
// composition in the search field.
func (c *Controller) BeginComposition() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.composing = true
	c.stopDebounceLocked()
}

// EndComposition marks the end of composition; the debounce timer starts
// only now.
func (c *Controller) EndComposition() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.composing = false
	c.restartDebounceLocked()
}

// SubmitSearch commits the draft immediately, bypassing the debounce.
func (c *Controller) SubmitSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopDebounceLocked()
	c.commitSearchLocked()
}

// SetFilter replaces the values for one filter key. An empty value set
// removes the key. The page resets to 1.
func (c *Controller) SetFilter(key string, values ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(values) == 0 {
		delete(c.filters, key)
	} else {
		c.filters[key] = append([]string(nil), values...)
	}
	c.page = 1
	c.dispatchLocked()
}

// SetSort changes the sort order and resets the page to 1.
func (c *Controller) SetSort(field string, descending bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortField = field
	c.sortDescending = descending
	c.page = 1
	c.dispatchLocked()
}

// SetPage navigates to the given page directly.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	c.page = page
	c.dispatchLocked()
}

// Refresh re-fetches the current page.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatchLocked()
}

// Delete removes a row remotely and, on success, reloads the current page
// so rows from the next page backfill the gap. On failure the displayed
// rows are left untouched and the error is returned to the caller.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if c.deleter == nil {
		return ErrNoDeleter
	}
	if err := c.deleter.DeleteRow(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatchLocked()
	return nil
}

func (c *Controller) commitSearchLocked() {
	if c.searchCommitted == c.searchDraft && c.phase != PhaseErrored {
		return
	}
	c.searchCommitted = c.searchDraft
	c.page = 1
	c.dispatchLocked()
}

func (c *Controller) restartDebounceLocked() {
	c.stopDebounceLocked()
	c.debounce = time.AfterFunc(c.opts.DebounceInterval, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || c.composing {
			return
		}
		c.commitSearchLocked()
	})
}

func (c *Controller) stopDebounceLocked() {
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
}

// dispatchLocked issues a new fetch for the current query. Issuing bumps
// the sequence number, which atomically invalidates any in-flight request:
// its response will arrive carrying a stale number and be discarded.
func (c *Controller) dispatchLocked() {
	if c.closed {
		return
	}
	c.seq++
	mySeq := c.seq
	c.phase = PhaseLoading
	query := c.queryLocked()
	c.notifyLocked()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.FetchTimeout)
		defer cancel()
		result, err := c.fetcher.FetchPage(ctx, query)

		c.mu.Lock()
		defer c.mu.Unlock()
		if mySeq != c.seq {
			// A newer request was issued while this one was in flight.
			return
		}
		if err != nil {
			c.phase = PhaseErrored
			c.lastErr = err
			c.notifyLocked()
			return
		}

		c.phase = PhaseIdle
		c.lastErr = nil
		c.rows = result.Rows
		c.totalCount = result.TotalCount
		c.totalPages = result.TotalPages
		if c.totalPages < 1 {
			c.totalPages = 1
		}
		if c.page > c.totalPages {
			// A shrinking result set left the session past the end;
			// clamp back and backfill from the last valid page.
			c.page = c.totalPages
			c.notifyLocked()
			c.dispatchLocked()
			return
		}
		c.notifyLocked()
	}()
}

func (c *Controller) queryLocked() Query {
	filters := make(map[string][]string, len(c.filters))
	for k, v := range c.filters {
		filters[k] = append([]string(nil), v...)
	}
	return Query{
		SearchTerm:     c.searchCommitted,
		Filters:        filters,
		SortField:      c.sortField,
		SortDescending: c.sortDescending,
		Page:           c.page,
		PageSize:       c.opts.PageSize,
	}
}

func (c *Controller) snapshotLocked() State {
	return State{
		Phase:           c.phase,
		Rows:            append([]interface{}(nil), c.rows...),
		TotalCount:      c.totalCount,
		TotalPages:      c.totalPages,
		Page:            c.page,
		SearchDraft:     c.searchDraft,
		SearchCommitted: c.searchCommitted,
		Err:             c.lastErr,
	}
}

func (c *Controller) notifyLocked() {
	if c.notifyCh == nil {
		return
	}
	state := c.snapshotLocked()
	for {
		select {
		case c.notifyCh <- state:
			return
		default:
		}
		// Channel full: evict the unconsumed older snapshot.
		select {
		case <-c.notifyCh:
		default:
		}
	}
}
