// Package search runs the debounced, paginated filter pipeline behind one search
// screen.
package search

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/catalog"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
	"github.com/Apurer/breedmatch-api/internal/platform/debounce"
)

// DefaultDebounce is the quiet window before a filter change is recomputed.
const DefaultDebounce = 300 * time.Millisecond

// FilterKind names the filter field an update touches.
type FilterKind string

const (
	FilterSearchText       FilterKind = "searchText"
	FilterTraitPreferences FilterKind = "traitPreferences"
	FilterResetPreferences FilterKind = "resetPreferences"
)

// FilterUpdate is one call to UpdateFilter.
type FilterUpdate struct {
	Kind        FilterKind
	SearchText  string
	Preferences domain.Preferences
}

// SearchTextUpdate replaces the search text.
func SearchTextUpdate(text string) FilterUpdate {
	return FilterUpdate{Kind: FilterSearchText, SearchText: text}
}

// TraitPreferencesUpdate merges prefs into the current preference map.
func TraitPreferencesUpdate(prefs domain.Preferences) FilterUpdate {
	return FilterUpdate{Kind: FilterTraitPreferences, Preferences: prefs}
}

// ResetPreferencesUpdate clears every preference.
func ResetPreferencesUpdate() FilterUpdate {
	return FilterUpdate{Kind: FilterResetPreferences}
}

// PipelineState is a snapshot of the pipeline's filter state and derived outputs.
type PipelineState struct {
	SearchText     string
	Preferences    domain.Preferences
	Page           int
	PageSize       int
	Breeds         []domain.Breed
	Loading        bool
	HasMore        bool
	TotalMatches   int
	Recomputes     int
	CatalogVersion string
}

func (s PipelineState) clone() PipelineState {
	out := s
	out.Preferences = s.Preferences.Clone()
	out.Breeds = make([]domain.Breed, len(s.Breeds))
	for i, b := range s.Breeds {
		out.Breeds[i] = b.Clone()
	}
	return out
}

// Pipeline owns the filter state of one search screen: it debounces filter changes,
// recomputes the visible page against an immutable catalog index and tracks
// cumulative pagination. Pipelines are independent of each other.
type Pipeline struct {
	index     *catalog.Index
	debouncer *debounce.Debouncer

	mu           sync.Mutex
	state        PipelineState
	listeners    map[uint64]func(PipelineState)
	nextListener uint64
	closed       bool
}

type pipelineConfig struct {
	debounce time.Duration
	pageSize int
	clock    clock.Clock
	initial  catalog.Criteria
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*pipelineConfig)

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) PipelineOption {
	return func(c *pipelineConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithPageSize sets the number of breeds revealed per page.
func WithPageSize(n int) PipelineOption {
	return func(c *pipelineConfig) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithClock swaps the debounce time source.
func WithClock(cl clock.Clock) PipelineOption {
	return func(c *pipelineConfig) {
		c.clock = cl
	}
}

// WithInitialCriteria seeds the filter state before the first recompute.
func WithInitialCriteria(criteria catalog.Criteria) PipelineOption {
	return func(c *pipelineConfig) {
		c.initial = criteria
	}
}

// NewPipeline builds a pipeline over index and computes the first page
// synchronously.
func NewPipeline(index *catalog.Index, opts ...PipelineOption) *Pipeline {
	cfg := pipelineConfig{debounce: DefaultDebounce, pageSize: catalog.DefaultPageSize}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	p := &Pipeline{
		index:     index,
		listeners: map[uint64]func(PipelineState){},
		state: PipelineState{
			SearchText:     cfg.initial.SearchText,
			Preferences:    cfg.initial.Preferences.Clone(),
			Page:           1,
			PageSize:       cfg.pageSize,
			CatalogVersion: index.Catalog().Version(),
		},
	}
	if p.state.Preferences == nil {
		p.state.Preferences = domain.Preferences{}
	}
	p.debouncer = debounce.New(cfg.debounce, p.recompute, debounce.WithClock(cfg.clock))
	p.recompute()
	return p
}

// UpdateFilter applies a filter change, marks the pipeline loading and schedules a
// debounced recompute. The page resets to 1.
func (p *Pipeline) UpdateFilter(update FilterUpdate) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	switch update.Kind {
	case FilterSearchText:
		p.state.SearchText = update.SearchText
	case FilterTraitPreferences:
		p.state.Preferences = p.state.Preferences.Merge(update.Preferences)
	case FilterResetPreferences:
		p.state.Preferences = domain.Preferences{}
	default:
		p.mu.Unlock()
		return
	}
	p.state.Page = 1
	p.state.Loading = true
	p.debouncer.Trigger()
	snapshot, listeners := p.publishLocked()
	p.mu.Unlock()

	notify(listeners, snapshot)
}

// LoadMoreBreeds reveals one more page. It only acts when more results exist and no
// recompute is outstanding, and reports whether it did.
func (p *Pipeline) LoadMoreBreeds() bool {
	p.mu.Lock()
	if p.closed || !p.state.HasMore || p.state.Loading {
		p.mu.Unlock()
		return false
	}
	p.state.Page++
	p.state.Loading = true
	p.debouncer.Trigger()
	snapshot, listeners := p.publishLocked()
	p.mu.Unlock()

	notify(listeners, snapshot)
	return true
}

// Flush runs a scheduled recompute now instead of waiting for the window.
func (p *Pipeline) Flush() bool {
	return p.debouncer.Flush()
}

// State returns a copy of the current state.
func (p *Pipeline) State() PipelineState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.clone()
}

// Subscribe registers fn to receive every published state. The returned function
// removes the subscription.
func (p *Pipeline) Subscribe(fn func(PipelineState)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || fn == nil {
		return func() {}
	}
	id := p.nextListener
	p.nextListener++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// Close cancels any pending recompute. The pipeline ignores every later call.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.listeners = map[uint64]func(PipelineState){}
	p.mu.Unlock()
	p.debouncer.Stop()
}

// Closed reports whether Close has been called.
func (p *Pipeline) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// recompute always reads the latest filter state, so a superseded schedule can
// never publish stale criteria.
func (p *Pipeline) recompute() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	criteria := catalog.Criteria{SearchText: p.state.SearchText, Preferences: p.state.Preferences}
	page := p.index.Search(criteria, p.state.Page, p.state.PageSize)
	p.state.Breeds = page.Breeds
	p.state.TotalMatches = page.TotalMatches
	p.state.HasMore = page.HasMore
	p.state.Loading = false
	p.state.Recomputes++
	snapshot, listeners := p.publishLocked()
	p.mu.Unlock()

	notify(listeners, snapshot)
}

func (p *Pipeline) publishLocked() (PipelineState, []func(PipelineState)) {
	if len(p.listeners) == 0 {
		return PipelineState{}, nil
	}
	listeners := make([]func(PipelineState), 0, len(p.listeners))
	for _, fn := range p.listeners {
		listeners = append(listeners, fn)
	}
	return p.state.clone(), listeners
}

func notify(listeners []func(PipelineState), state PipelineState) {
	for _, fn := range listeners {
		fn(state)
	}
}
