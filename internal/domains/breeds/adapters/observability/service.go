package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
)

const tracerName = "github.com/Apurer/breedmatch-api/internal/domains/breeds/adapters/observability/service"

// Service decorates the breeds application port with tracing, logging and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) ListBreeds(ctx context.Context, input types.ListBreedsInput) ([]domain.Breed, error) {
	ctx, span := s.startSpan(ctx, "Service.ListBreeds", attribute.String("breed.group", input.Group))
	defer span.End()

	result, err := s.inner.ListBreeds(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list breeds", slog.String("group", input.Group))
	}
	span.SetAttributes(attribute.Int("breed.result.count", len(result)))
	s.logDebug(ctx, "listed breeds", slog.String("group", input.Group), slog.Int("count", len(result)))
	return result, nil
}

func (s *Service) GetBreed(ctx context.Context, input types.BreedIdentifier) (*domain.Breed, error) {
	ctx, span := s.startSpan(ctx, "Service.GetBreed", attribute.String("breed.name", input.Name))
	defer span.End()

	result, err := s.inner.GetBreed(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load breed", slog.String("breed", input.Name))
	}
	return result, nil
}

// MatchBreed scores one breed and records the percentage distribution.
func (s *Service) MatchBreed(ctx context.Context, input types.MatchBreedInput) (*types.BreedMatch, error) {
	ctx, span := s.startSpan(ctx, "Service.MatchBreed",
		attribute.String("breed.name", input.Name),
		attribute.Int("preferences.count", len(input.Preferences)),
	)
	defer span.End()

	result, err := s.inner.MatchBreed(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to match breed", slog.String("breed", input.Name))
	}
	if result != nil {
		span.SetAttributes(attribute.Float64("breed.match.percentage", result.Percentage))
		s.metrics.recordMatch(ctx, result.Percentage)
		s.logInfo(ctx, "breed matched", slog.String("breed", result.Breed.Name), slog.Float64("percentage", result.Percentage))
	}
	return result, nil
}

func (s *Service) RankBreeds(ctx context.Context, input types.RankBreedsInput) ([]types.BreedMatch, error) {
	ctx, span := s.startSpan(ctx, "Service.RankBreeds",
		attribute.Int("preferences.count", len(input.Preferences)),
		attribute.Int("ranking.limit", input.Limit),
	)
	defer span.End()

	result, err := s.inner.RankBreeds(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to rank breeds")
	}
	span.SetAttributes(attribute.Int("breed.result.count", len(result)))
	s.metrics.recordRanking(ctx)
	if len(result) > 0 {
		s.logInfo(ctx, "ranked breeds", slog.Int("count", len(result)), slog.String("top", result[0].Breed.Name))
	}
	return result, nil
}

func (s *Service) Search(ctx context.Context, input types.SearchInput) (*types.SearchResult, error) {
	ctx, span := s.startSpan(ctx, "Service.Search",
		attribute.String("search.text", input.SearchText),
		attribute.Int("search.page", input.Page),
	)
	defer span.End()

	result, err := s.inner.Search(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search breeds", slog.String("search_text", input.SearchText))
	}
	s.metrics.recordSearch(ctx, "stateless")
	if result != nil {
		span.SetAttributes(attribute.Int("search.total_matches", result.TotalMatches))
	}
	return result, nil
}

func (s *Service) OpenSession(ctx context.Context, input types.OpenSessionInput) (*types.SessionView, error) {
	ctx, span := s.startSpan(ctx, "Service.OpenSession", attribute.String("search.text", input.SearchText))
	defer span.End()

	result, err := s.inner.OpenSession(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to open search session")
	}
	s.metrics.recordSessionOpened(ctx)
	if result != nil {
		span.SetAttributes(attribute.String("session.id", result.ID))
		s.logInfo(ctx, "search session opened", slog.String("session", result.ID), slog.String("catalog_version", result.CatalogVersion))
	}
	return result, nil
}

func (s *Service) UpdateSession(ctx context.Context, input types.UpdateSessionInput) (*types.SessionView, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateSession",
		attribute.String("session.id", input.ID),
		attribute.Bool("session.reset_preferences", input.ResetPreferences),
		attribute.Bool("session.flush", input.Flush),
	)
	defer span.End()

	result, err := s.inner.UpdateSession(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update search session", slog.String("session", input.ID))
	}
	s.metrics.recordSearch(ctx, "session")
	return result, nil
}

func (s *Service) LoadMore(ctx context.Context, input types.SessionIdentifier) (*types.SessionView, error) {
	ctx, span := s.startSpan(ctx, "Service.LoadMore", attribute.String("session.id", input.ID))
	defer span.End()

	result, err := s.inner.LoadMore(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load more breeds", slog.String("session", input.ID))
	}
	return result, nil
}

func (s *Service) GetSession(ctx context.Context, input types.SessionIdentifier) (*types.SessionView, error) {
	ctx, span := s.startSpan(ctx, "Service.GetSession", attribute.String("session.id", input.ID))
	defer span.End()

	result, err := s.inner.GetSession(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load search session", slog.String("session", input.ID))
	}
	return result, nil
}

func (s *Service) CloseSession(ctx context.Context, input types.SessionIdentifier) error {
	ctx, span := s.startSpan(ctx, "Service.CloseSession", attribute.String("session.id", input.ID))
	defer span.End()

	if err := s.inner.CloseSession(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to close search session", slog.String("session", input.ID))
	}
	s.metrics.recordSessionsClosed(ctx, 1, "explicit")
	s.logInfo(ctx, "search session closed", slog.String("session", input.ID))
	return nil
}

// SweepSessions closes idle sessions.
func (s *Service) SweepSessions(ctx context.Context) (int, error) {
	ctx, span := s.startSpan(ctx, "Service.SweepSessions")
	defer span.End()

	closed, err := s.inner.SweepSessions(ctx)
	if err != nil {
		return closed, s.handleError(ctx, span, err, "failed to sweep search sessions")
	}
	span.SetAttributes(attribute.Int("session.closed.count", closed))
	if closed > 0 {
		s.metrics.recordSessionsClosed(ctx, int64(closed), "idle")
		s.logInfo(ctx, "idle search sessions closed", slog.Int("count", closed))
	}
	return closed, nil
}

func (s *Service) ImportCatalog(ctx context.Context, input types.CatalogImportInput) (*types.CatalogImportResult, error) {
	ctx, span := s.startSpan(ctx, "Service.ImportCatalog",
		attribute.Int("catalog.input.count", len(input.Breeds)),
		attribute.String("catalog.source", input.Source),
	)
	defer span.End()

	s.logInfo(ctx, "importing catalog", slog.Int("count", len(input.Breeds)), slog.String("source", input.Source))
	result, err := s.inner.ImportCatalog(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to import catalog", slog.String("source", input.Source))
	}
	s.metrics.recordImport(ctx, input.Source)
	if result != nil {
		s.logCatalog(ctx, span, "catalog imported", result)
	}
	return result, nil
}

func (s *Service) ReloadCatalog(ctx context.Context) (*types.CatalogImportResult, error) {
	ctx, span := s.startSpan(ctx, "Service.ReloadCatalog")
	defer span.End()

	result, err := s.inner.ReloadCatalog(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to reload catalog")
	}
	if result != nil {
		s.logCatalog(ctx, span, "catalog reloaded", result)
	}
	return result, nil
}

func (s *Service) logCatalog(ctx context.Context, span trace.Span, msg string, result *types.CatalogImportResult) {
	span.SetAttributes(
		attribute.String("catalog.version", result.Version),
		attribute.Int("catalog.breeds", result.Breeds),
	)
	s.logInfo(ctx, msg,
		slog.String("version", result.Version),
		slog.Int("breeds", result.Breeds),
		slog.Int("excluded_hybrids", result.ExcludedHybrids),
	)
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	matches         metric.Int64Counter
	matchPercentage metric.Float64Histogram
	rankings        metric.Int64Counter
	searches        metric.Int64Counter
	sessionsOpened  metric.Int64Counter
	sessionsClosed  metric.Int64Counter
	imports         metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	matches, _ := m.Int64Counter("breeds.service.matches", metric.WithDescription("Number of single breed matches"))
	matchPercentage, _ := m.Float64Histogram("breeds.service.match.percentage",
		metric.WithDescription("Distribution of match percentages"),
		metric.WithUnit("%"),
		metric.WithExplicitBucketBoundaries(10, 25, 50, 75, 90, 100),
	)
	rankings, _ := m.Int64Counter("breeds.service.rankings", metric.WithDescription("Number of full catalog rankings"))
	searches, _ := m.Int64Counter("breeds.service.searches", metric.WithDescription("Number of filter requests"))
	sessionsOpened, _ := m.Int64Counter("breeds.service.sessions.opened", metric.WithDescription("Number of search sessions opened"))
	sessionsClosed, _ := m.Int64Counter("breeds.service.sessions.closed", metric.WithDescription("Number of search sessions closed"))
	imports, _ := m.Int64Counter("breeds.service.catalog.imports", metric.WithDescription("Number of catalog imports"))
	return serviceMetrics{
		matches:         matches,
		matchPercentage: matchPercentage,
		rankings:        rankings,
		searches:        searches,
		sessionsOpened:  sessionsOpened,
		sessionsClosed:  sessionsClosed,
		imports:         imports,
	}
}

func (m serviceMetrics) recordMatch(ctx context.Context, percentage float64) {
	addCounter(ctx, m.matches, 1)
	if m.matchPercentage != nil {
		m.matchPercentage.Record(ctx, percentage)
	}
}

func (m serviceMetrics) recordRanking(ctx context.Context) {
	addCounter(ctx, m.rankings, 1)
}

func (m serviceMetrics) recordSearch(ctx context.Context, mode string) {
	addCounter(ctx, m.searches, 1, attribute.String("search.mode", mode))
}

func (m serviceMetrics) recordSessionOpened(ctx context.Context) {
	addCounter(ctx, m.sessionsOpened, 1)
}

func (m serviceMetrics) recordSessionsClosed(ctx context.Context, n int64, reason string) {
	addCounter(ctx, m.sessionsClosed, n, attribute.String("session.close_reason", reason))
}

func (m serviceMetrics) recordImport(ctx context.Context, source string) {
	addCounter(ctx, m.imports, 1, attribute.String("catalog.source", source))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
