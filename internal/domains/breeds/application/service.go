package application

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/catalog"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/search"
)

const (
	DefaultRankingTTL     = 10 * time.Minute
	DefaultSessionIdleTTL = 30 * time.Minute
	MaxPageSize           = 100

	// MaxPage bounds stateless search pages; larger values are client bugs.
	MaxPage = 100_000
)

// Service orchestrates the breeds bounded context use cases. The live catalog is an
// immutable snapshot swapped atomically on import; sessions keep the snapshot they
// were opened with.
type Service struct {
	repo     ports.CatalogRepository
	sessions ports.SessionStore
	rankings ports.RankingCache

	matcher      *Matcher
	filterPolicy domain.TraitPolicy
	pipelineOpts []search.PipelineOption
	seed         []domain.Breed

	rankingTTL time.Duration
	idleTTL    time.Duration
	clock      clock.Clock
	newID      func() string
	logger     *slog.Logger

	index    atomic.Pointer[catalog.Index]
	importMu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger receives ranking cache failures, which never fail a request.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMatcher replaces the scorer.
func WithMatcher(m *Matcher) Option {
	return func(s *Service) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithFilterPolicy replaces the trait policy searches filter with.
func WithFilterPolicy(policy domain.TraitPolicy) Option {
	return func(s *Service) {
		s.filterPolicy = policy
	}
}

// WithRankingCache enables ranking memoization.
func WithRankingCache(cache ports.RankingCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.rankings = cache
		if ttl > 0 {
			s.rankingTTL = ttl
		}
	}
}

// WithSessionIdleTTL sets how long an untouched session survives a sweep.
func WithSessionIdleTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

// WithPipelineOptions passes options to every session pipeline.
func WithPipelineOptions(opts ...search.PipelineOption) Option {
	return func(s *Service) {
		s.pipelineOpts = append(s.pipelineOpts, opts...)
	}
}

// WithClock overrides the time source for session bookkeeping and pipeline timers.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithSeedCatalog is written to the repository by ReloadCatalog when the repository
// is empty.
func WithSeedCatalog(breeds []domain.Breed) Option {
	return func(s *Service) {
		s.seed = breeds
	}
}

// NewService wires the breeds service. The live catalog starts empty until
// ReloadCatalog or ImportCatalog runs.
func NewService(repo ports.CatalogRepository, sessions ports.SessionStore, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		sessions:     sessions,
		matcher:      NewMatcher(),
		filterPolicy: domain.DefaultFilterPolicy(),
		rankingTTL:   DefaultRankingTTL,
		idleTTL:      DefaultSessionIdleTTL,
		clock:        clock.New(),
		newID:        uuid.NewString,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.index.Store(catalog.NewIndex(catalog.New(nil), s.filterPolicy))
	return s
}

// Index returns the live catalog index.
func (s *Service) Index() *catalog.Index {
	return s.index.Load()
}

// ListBreeds lists the catalog, optionally narrowed to one breed group.
func (s *Service) ListBreeds(_ context.Context, input types.ListBreedsInput) ([]domain.Breed, error) {
	c := s.Index().Catalog()
	if group := strings.TrimSpace(input.Group); group != "" {
		return c.ByGroup(group), nil
	}
	return c.Breeds(), nil
}

// GetBreed loads one breed by case-insensitive name.
func (s *Service) GetBreed(_ context.Context, input types.BreedIdentifier) (*domain.Breed, error) {
	breed, err := s.lookup(s.Index().Catalog(), input.Name)
	if err != nil {
		return nil, err
	}
	return &breed, nil
}

// MatchBreed scores one breed against the preferences.
func (s *Service) MatchBreed(_ context.Context, input types.MatchBreedInput) (*types.BreedMatch, error) {
	breed, err := s.lookup(s.Index().Catalog(), input.Name)
	if err != nil {
		return nil, err
	}
	return &types.BreedMatch{Breed: breed, Percentage: s.matcher.BreedMatch(breed, input.Preferences)}, nil
}

// RankBreeds scores every breed and sorts by percentage, best first. Ties keep
// catalog order.
func (s *Service) RankBreeds(ctx context.Context, input types.RankBreedsInput) ([]types.BreedMatch, error) {
	c := s.Index().Catalog()
	key := rankingKey(c.Version(), s.matcher.Fingerprint(), input.Preferences)

	ranking, ok := s.cachedRanking(ctx, key)
	if !ok {
		ranking = s.rank(c, input.Preferences)
		if s.rankings != nil {
			if err := s.rankings.Set(ctx, key, ranking, s.rankingTTL); err != nil {
				s.logger.WarnContext(ctx, "ranking cache write failed", slog.String("error", err.Error()))
			}
		}
	}
	if input.Limit > 0 && input.Limit < len(ranking) {
		ranking = ranking[:input.Limit]
	}

	result := make([]types.BreedMatch, 0, len(ranking))
	for _, entry := range ranking {
		breed, found := c.ByName(entry.Name)
		if !found {
			continue
		}
		result = append(result, types.BreedMatch{Breed: breed, Percentage: entry.Percentage})
	}
	return result, nil
}

// Search runs one filter pass without keeping state.
func (s *Service) Search(_ context.Context, input types.SearchInput) (*types.SearchResult, error) {
	if input.Page < 0 || input.Page > MaxPage || input.PageSize < 0 || input.PageSize > MaxPageSize {
		return nil, mapError(ErrInvalidPaging)
	}
	index := s.Index()
	page := index.Search(catalog.Criteria{SearchText: input.SearchText, Preferences: input.Preferences}, input.Page, input.PageSize)
	return &types.SearchResult{
		Breeds:         page.Breeds,
		TotalMatches:   page.TotalMatches,
		Page:           page.Page,
		PageSize:       page.PageSize,
		HasMore:        page.HasMore,
		CatalogVersion: index.Catalog().Version(),
	}, nil
}

// OpenSession starts a search pipeline over the live catalog.
func (s *Service) OpenSession(ctx context.Context, input types.OpenSessionInput) (*types.SessionView, error) {
	opts := make([]search.PipelineOption, 0, len(s.pipelineOpts)+2)
	opts = append(opts, search.WithClock(s.clock))
	opts = append(opts, s.pipelineOpts...)
	opts = append(opts, search.WithInitialCriteria(catalog.Criteria{
		SearchText:  input.SearchText,
		Preferences: input.Preferences,
	}))
	pipeline := search.NewPipeline(s.Index(), opts...)

	session := ports.NewSession(s.newID(), pipeline, s.clock.Now())
	if err := s.sessions.Save(ctx, session); err != nil {
		pipeline.Close()
		return nil, mapError(err)
	}
	return sessionView(session), nil
}

// UpdateSession applies a filter change. Without Flush the returned view is loading
// and the new page shows up after the debounce window.
func (s *Service) UpdateSession(ctx context.Context, input types.UpdateSessionInput) (*types.SessionView, error) {
	session, err := s.session(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	p := session.Pipeline
	if input.ResetPreferences {
		p.UpdateFilter(search.ResetPreferencesUpdate())
	}
	if input.SearchText != nil {
		p.UpdateFilter(search.SearchTextUpdate(*input.SearchText))
	}
	if len(input.Preferences) > 0 {
		p.UpdateFilter(search.TraitPreferencesUpdate(input.Preferences))
	}
	if input.Flush {
		p.Flush()
	}
	return sessionView(session), nil
}

// LoadMore reveals one more page of a session. It is a no-op while the session is
// loading or has nothing more to show.
func (s *Service) LoadMore(ctx context.Context, input types.SessionIdentifier) (*types.SessionView, error) {
	session, err := s.session(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	session.Pipeline.LoadMoreBreeds()
	return sessionView(session), nil
}

// GetSession returns the current state of a session.
func (s *Service) GetSession(ctx context.Context, input types.SessionIdentifier) (*types.SessionView, error) {
	session, err := s.session(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return sessionView(session), nil
}

// CloseSession stops the session's pipeline and forgets it.
func (s *Service) CloseSession(ctx context.Context, input types.SessionIdentifier) error {
	if strings.TrimSpace(input.ID) == "" {
		return mapError(ErrEmptySessionID)
	}
	session, err := s.sessions.Delete(ctx, input.ID)
	if err != nil {
		return mapError(err)
	}
	session.Pipeline.Close()
	return nil
}

// SweepSessions closes sessions idle for longer than the idle TTL and reports how
// many it closed.
func (s *Service) SweepSessions(ctx context.Context) (int, error) {
	idle, err := s.sessions.PurgeIdle(ctx, s.clock.Now().Add(-s.idleTTL))
	for _, session := range idle {
		session.Pipeline.Close()
	}
	if err != nil {
		return len(idle), mapError(err)
	}
	return len(idle), nil
}

// CloseAllSessions removes every session and stops its pipeline. Processes call it
// on shutdown so no debounce timer outlives them.
func (s *Service) CloseAllSessions(ctx context.Context) (int, error) {
	drained, err := s.sessions.DeleteAll(ctx)
	for _, session := range drained {
		session.Pipeline.Close()
	}
	if err != nil {
		return len(drained), mapError(err)
	}
	return len(drained), nil
}

// ImportCatalog validates and persists a new catalog, then swaps it in.
func (s *Service) ImportCatalog(ctx context.Context, input types.CatalogImportInput) (*types.CatalogImportResult, error) {
	if err := ValidateCatalog(input.Breeds); err != nil {
		return nil, err
	}
	s.importMu.Lock()
	defer s.importMu.Unlock()

	if err := s.repo.ReplaceAll(ctx, input.Breeds); err != nil {
		return nil, mapError(err)
	}
	return s.install(input.Breeds), nil
}

// ReloadCatalog re-reads the repository. An empty repository is seeded first when a
// seed catalog is configured.
func (s *Service) ReloadCatalog(ctx context.Context) (*types.CatalogImportResult, error) {
	s.importMu.Lock()
	defer s.importMu.Unlock()

	breeds, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	if len(breeds) == 0 && len(s.seed) > 0 {
		if err := ValidateCatalog(s.seed); err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceAll(ctx, s.seed); err != nil {
			return nil, mapError(err)
		}
		breeds = s.seed
	}
	return s.install(breeds), nil
}

func (s *Service) install(breeds []domain.Breed) *types.CatalogImportResult {
	c := catalog.New(breeds)
	s.index.Store(catalog.NewIndex(c, s.filterPolicy))
	return &types.CatalogImportResult{
		Version:         c.Version(),
		Breeds:          c.Len(),
		ExcludedHybrids: c.ExcludedHybrids(),
		Groups:          c.Groups(),
	}
}

func (s *Service) lookup(c *catalog.Catalog, name string) (domain.Breed, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Breed{}, mapError(domain.ErrEmptyName)
	}
	breed, ok := c.ByName(name)
	if !ok {
		return domain.Breed{}, ports.ErrNotFound
	}
	return breed, nil
}

func (s *Service) session(ctx context.Context, id string) (*ports.Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, mapError(ErrEmptySessionID)
	}
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	session.Touch(s.clock.Now())
	return session, nil
}

func (s *Service) cachedRanking(ctx context.Context, key string) ([]types.RankedBreed, bool) {
	if s.rankings == nil {
		return nil, false
	}
	ranking, ok, err := s.rankings.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "ranking cache read failed", slog.String("error", err.Error()))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return ranking, true
}

func (s *Service) rank(c *catalog.Catalog, prefs domain.Preferences) []types.RankedBreed {
	ranking := make([]types.RankedBreed, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		breed := c.At(i)
		ranking = append(ranking, types.RankedBreed{Name: breed.Name, Percentage: s.matcher.BreedMatch(breed, prefs)})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Percentage > ranking[j].Percentage
	})
	return ranking
}

func rankingKey(version, matcher string, prefs domain.Preferences) string {
	return "ranking:" + version + ":" + matcher + ":" + prefs.Fingerprint()
}

func sessionView(session *ports.Session) *types.SessionView {
	state := session.Pipeline.State()
	return &types.SessionView{
		ID:             session.ID,
		SearchText:     state.SearchText,
		Preferences:    state.Preferences,
		Breeds:         state.Breeds,
		Page:           state.Page,
		PageSize:       state.PageSize,
		TotalMatches:   state.TotalMatches,
		HasMore:        state.HasMore,
		Loading:        state.Loading,
		CatalogVersion: state.CatalogVersion,
		OpenedAt:       session.OpenedAt,
		LastActiveAt:   session.LastActive(),
	}
}

var _ ports.Service = (*Service)(nil)
