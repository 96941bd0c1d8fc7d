package search

import (
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/breedstest"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/catalog"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func numberedIndex(n int) *catalog.Index {
	return catalog.NewIndex(catalog.New(breedstest.Numbered(n)), domain.DefaultFilterPolicy())
}

func sampleIndex() *catalog.Index {
	return catalog.NewIndex(catalog.New(breedstest.Sample()), domain.DefaultFilterPolicy())
}

func newTestPipeline(t *testing.T, index *catalog.Index, opts ...PipelineOption) (*Pipeline, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	p := NewPipeline(index, append([]PipelineOption{WithClock(mock)}, opts...)...)
	t.Cleanup(p.Close)
	return p, mock
}

func names(breeds []domain.Breed) []string {
	out := make([]string, 0, len(breeds))
	for _, b := range breeds {
		out = append(out, b.Name)
	}
	return out
}

func TestPipeline_InitialPageIsComputedSynchronously(t *testing.T) {
	p, _ := newTestPipeline(t, numberedIndex(20))

	state := p.State()
	require.False(t, state.Loading)
	require.Equal(t, 1, state.Page)
	require.Equal(t, 1, state.Recomputes)
	require.Len(t, state.Breeds, 8)
	require.Equal(t, 20, state.TotalMatches)
	require.True(t, state.HasMore)
	require.NotEmpty(t, state.CatalogVersion)
}

func TestPipeline_CumulativePagination(t *testing.T) {
	for _, n := range []int{0, 5, 8, 9, 16, 20, 25} {
		p, mock := newTestPipeline(t, numberedIndex(n))
		for k := 0; ; k++ {
			state := p.State()
			want := n
			if limit := 8 * (1 + k); limit < want {
				want = limit
			}
			require.Len(t, state.Breeds, want, "n=%d k=%d", n, k)
			require.Equal(t, n > 8*(1+k), state.HasMore, "n=%d k=%d", n, k)

			if !p.LoadMoreBreeds() {
				require.False(t, state.HasMore)
				break
			}
			require.True(t, p.State().Loading)
			mock.Add(DefaultDebounce)
			require.False(t, p.State().Loading)
		}
	}
}

func TestPipeline_DebounceCoalescesSearchText(t *testing.T) {
	p, mock := newTestPipeline(t, sampleIndex())
	before := p.State().Recomputes

	p.UpdateFilter(SearchTextUpdate("a"))
	mock.Add(100 * time.Millisecond)
	p.UpdateFilter(SearchTextUpdate("ab"))
	mock.Add(100 * time.Millisecond)
	p.UpdateFilter(SearchTextUpdate("abc"))
	require.True(t, p.State().Loading)

	mock.Add(299 * time.Millisecond)
	require.Equal(t, before, p.State().Recomputes)

	mock.Add(time.Millisecond)
	state := p.State()
	require.Equal(t, before+1, state.Recomputes)
	require.Equal(t, "abc", state.SearchText)
	require.False(t, state.Loading)

	mock.Add(time.Second)
	require.Equal(t, before+1, p.State().Recomputes)
}

func TestPipeline_SearchTextIsCaseInsensitiveAndExcludesHybrids(t *testing.T) {
	p, _ := newTestPipeline(t, sampleIndex())
	require.Equal(t, []string{"Golden Retriever", "Basenji", "Mastiff"}, names(p.State().Breeds))

	p.UpdateFilter(SearchTextUpdate("LABRA"))
	require.True(t, p.Flush())
	require.Empty(t, p.State().Breeds)

	p.UpdateFilter(SearchTextUpdate("MAST"))
	require.True(t, p.Flush())
	require.Equal(t, []string{"Mastiff"}, names(p.State().Breeds))
}

func TestPipeline_PreferencesMergeAndReset(t *testing.T) {
	p, mock := newTestPipeline(t, sampleIndex())

	p.UpdateFilter(TraitPreferencesUpdate(domain.Preferences{"Shedding": domain.Want(true)}))
	p.UpdateFilter(TraitPreferencesUpdate(domain.Preferences{"Energy Level": domain.AtLevel(domain.LevelHigh)}))
	mock.Add(DefaultDebounce)

	state := p.State()
	require.Len(t, state.Preferences, 2)
	// Low shedding (Basenji 1) and high energy (Basenji 4).
	require.Equal(t, []string{"Basenji"}, names(state.Breeds))

	p.UpdateFilter(ResetPreferencesUpdate())
	mock.Add(DefaultDebounce)
	state = p.State()
	require.Empty(t, state.Preferences)
	require.Len(t, state.Breeds, 3)
}

func TestPipeline_UnsetPreferenceFailsEveryBreed(t *testing.T) {
	p, _ := newTestPipeline(t, sampleIndex())

	p.UpdateFilter(TraitPreferencesUpdate(domain.Preferences{"Shedding": domain.Unset()}))
	p.Flush()
	state := p.State()
	require.Empty(t, state.Breeds)
	require.Zero(t, state.TotalMatches)
	require.False(t, state.HasMore)
}

func TestPipeline_UpdateFilterResetsPage(t *testing.T) {
	p, mock := newTestPipeline(t, numberedIndex(20))

	require.True(t, p.LoadMoreBreeds())
	mock.Add(DefaultDebounce)
	require.Equal(t, 2, p.State().Page)
	require.Len(t, p.State().Breeds, 16)

	p.UpdateFilter(SearchTextUpdate("breed"))
	require.Equal(t, 1, p.State().Page)
	mock.Add(DefaultDebounce)
	require.Len(t, p.State().Breeds, 8)
}

func TestPipeline_LoadMoreIgnoredWhileLoading(t *testing.T) {
	p, mock := newTestPipeline(t, numberedIndex(30))

	p.UpdateFilter(SearchTextUpdate("breed"))
	require.False(t, p.LoadMoreBreeds())
	require.Equal(t, 1, p.State().Page)

	mock.Add(DefaultDebounce)
	require.True(t, p.LoadMoreBreeds())
	require.False(t, p.LoadMoreBreeds())
	mock.Add(DefaultDebounce)
	require.Equal(t, 2, p.State().Page)
}

func TestPipeline_LoadMoreIgnoredWithoutMore(t *testing.T) {
	p, _ := newTestPipeline(t, numberedIndex(8))
	require.False(t, p.State().HasMore)
	require.False(t, p.LoadMoreBreeds())
	require.Equal(t, 1, p.State().Page)
}

func TestPipeline_CloseCancelsPendingRecompute(t *testing.T) {
	p, mock := newTestPipeline(t, sampleIndex())
	before := p.State().Recomputes

	p.UpdateFilter(SearchTextUpdate("gold"))
	p.Close()
	mock.Add(time.Second)

	require.True(t, p.Closed())
	require.Equal(t, before, p.State().Recomputes)

	p.UpdateFilter(SearchTextUpdate("mast"))
	require.Equal(t, "gold", p.State().SearchText)
	require.False(t, p.LoadMoreBreeds())
	require.False(t, p.Flush())
}

func TestPipeline_SubscribeReceivesLoadingAndResult(t *testing.T) {
	p, mock := newTestPipeline(t, sampleIndex())

	var (
		mu     sync.Mutex
		states []PipelineState
	)
	cancel := p.Subscribe(func(s PipelineState) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s)
	})

	p.UpdateFilter(SearchTextUpdate("basen"))
	mock.Add(DefaultDebounce)

	mu.Lock()
	require.Len(t, states, 2)
	assert.True(t, states[0].Loading)
	assert.False(t, states[1].Loading)
	assert.Equal(t, []string{"Basenji"}, names(states[1].Breeds))
	mu.Unlock()

	cancel()
	p.UpdateFilter(SearchTextUpdate(""))
	mock.Add(DefaultDebounce)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, states, 2)
}

func TestPipeline_CustomPageSizeAndInitialCriteria(t *testing.T) {
	p, _ := newTestPipeline(t, numberedIndex(10),
		WithPageSize(3),
		WithInitialCriteria(catalog.Criteria{
			Preferences: domain.Preferences{"Energy Level": domain.AtLevel(domain.LevelHigh)},
		}),
	)

	state := p.State()
	// Energy cycles 1..5; High accepts 4 and 5.
	require.Equal(t, 4, state.TotalMatches)
	require.Equal(t, []string{"Breed 04", "Breed 05", "Breed 09"}, names(state.Breeds))
	require.True(t, state.HasMore)
}

func TestPipeline_StateIsACopy(t *testing.T) {
	p, _ := newTestPipeline(t, sampleIndex())

	state := p.State()
	state.Breeds[0].Name = "changed"
	state.Preferences["Shedding"] = domain.Want(true)

	again := p.State()
	require.Equal(t, "Golden Retriever", again.Breeds[0].Name)
	require.Empty(t, again.Preferences)
}

func TestPipeline_RealClockDebounce(t *testing.T) {
	p := NewPipeline(sampleIndex(), WithDebounce(10*time.Millisecond))
	defer p.Close()

	p.UpdateFilter(SearchTextUpdate("mastiff"))
	require.Eventually(t, func() bool {
		s := p.State()
		return !s.Loading && len(s.Breeds) == 1
	}, 2*time.Second, 5*time.Millisecond)
}
