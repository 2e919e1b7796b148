package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
	"github.com/samirrijal/c2cexplorer/internal/core/usecases"
)

func newSearch(src *mockRouteSource, pub *mockPublisher) *usecases.SearchService {
	resolver := newResolver(src)
	if pub == nil {
		return usecases.NewSearchService(resolver, nil)
	}
	return usecases.NewSearchService(resolver, pub)
}

func searchRequest(raw usecases.RawSearchParams) domain.SearchRequest {
	return usecases.NormalizeSearchRequest(raw, usecases.DefaultAreaRegistry())
}

func TestSearch_ExactMatch(t *testing.T) {
	src := &mockRouteSource{
		listFn: func(ctx context.Context, p domain.ListParams) (*domain.RoutePage, error) {
			return pageOf(3, docs(3)...), nil
		},
	}

	out, err := newSearch(src, nil).Search(context.Background(),
		searchRequest(usecases.RawSearchParams{Query: "dru"}), usecases.DefaultPolicy())
	require.NoError(t, err)

	assert.Len(t, src.calls, 1)
	assert.False(t, out.Relaxed())
	assert.Empty(t, out.Notices)
	assert.Equal(t, 3, out.Result.Total)
	assert.Equal(t, domain.PageWindow{
		Offset: 0, Limit: 20, Total: 3, Page: 1, Start: 1, End: 3,
		HasPrev: false, HasNext: false, PrevOffset: 0, NextOffset: 20,
	}, out.Window)
}

func TestSearch_RelaxesZeroResultQuery(t *testing.T) {
	src := &mockRouteSource{
		listFn: func(ctx context.Context, p domain.ListParams) (*domain.RoutePage, error) {
			if p.Query == "North" {
				return pageOf(2, docs(2)...), nil
			}
			return pageOf(0), nil
		},
	}

	out, err := newSearch(src, nil).Search(context.Background(),
		searchRequest(usecases.RawSearchParams{Query: "North Face!!"}), usecases.DefaultPolicy())
	require.NoError(t, err)

	require.Len(t, src.calls, 2)
	assert.Equal(t, "North Face!!", src.calls[0].Query)
	assert.Equal(t, "North", src.calls[1].Query)
	assert.Equal(t, "North", out.FallbackQuery)
	assert.True(t, out.Relaxed())
	assert.Equal(t, 2, out.Result.Total)
	require.Len(t, out.Notices, 1)
	assert.Equal(t, domain.NoticeQueryRelaxed, out.Notices[0].Kind)
	assert.Equal(t, `No exact matches for "North Face!!". Showing results for "North".`, out.Notices[0].Message)
}

func TestSearch_RelaxedRetriesFirstPage(t *testing.T) {
	src := &mockRouteSource{
		listFn: func(ctx context.Context, p domain.ListParams) (*domain.RoutePage, error) {
			if p.Query == "Cosmiques" && p.Offset == 0 {
				return pageOf(4, docs(4)...), nil
			}
			return pageOf(0), nil
		},
	}

	out, err := newSearch(src, nil).Search(context.Background(),
		searchRequest(usecases.RawSearchParams{Query: "arete des Cosmiques", Offset: "40"}), usecases.DefaultPolicy())
	require.NoError(t, err)

	require.Len(t, src.calls, 3)
	assert.Equal(t, 40, src.calls[0].Offset)
	assert.Equal(t, 40, src.calls[1].Offset)
	assert.Equal(t, 0, src.calls[2].Offset)
	assert.Equal(t, "Cosmiques", out.FallbackQuery)
	assert.Equal(t, 0, out.Result.Offset)
	assert.Equal(t, 1, out.Window.Page)
	assert.Equal(t, 4, out.Window.End)
}

func TestSearch_RelaxationFindsNothing(t *testing.T) {
	src := &mockRouteSource{
		listFn: func(ctx context.Context, p domain.ListParams) (*domain.RoutePage, error) {
			return pageOf(0), nil
		},
	}

	out, err := newSearch(src, nil).Search(context.Background(),
		searchRequest(usecases.RawSearchParams{Query: "zzzz yy"}), usecases.DefaultPolicy())
	require.NoError(t, err)

	assert.Len(t, src.calls, 2)
	assert.False(t, out.Relaxed())
	assert.Equal(t, "zzzz yy", src.calls[0].Query)
	require.Len(t, out.Notices, 1)
	assert.Equal(t, domain.NoticeEmpty, out.Notices[0].Kind)
	assert.Equal(t, 0, out.Window.Start)
}

func TestSearch_NoRelaxationWhenFallbackEqualsQuery(t *testing.T) {
	src := &mockRouteSource{
		listFn: func(ctx context.Context, p domain.ListParams) (*domain.RoutePage, error) {
			return pageOf(0), nil
		},
	}

	out, err := newSearch(src, nil).Search(context.Background(),
		searchRequest(usecases.RawSearchParams{Query: "Dru"}), usecases.DefaultPolicy())
	require.NoError(t, err)
	assert.Len(t, src.calls, 1)
	assert.False(t, out.Relaxed())
}

func TestSearch_AreaFallbackNotice(t *testing.T) {
	src := &mockRouteSource{
		listFn: func(ctx context.Context, p domain.ListParams) (*domain.RoutePage, error) {
			if len(p.AreaIDs) > 0 {
				return pageOf(0), nil
			}
			return pageOf(25, docs(20)...), nil
		},
	}

	out, err := newSearch(src, nil).Search(context.Background(),
		searchRequest(usecases.RawSearchParams{}), usecases.DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyBBox, out.Result.Strategy)
	require.Len(t, out.Notices, 1)
	assert.Equal(t, domain.NoticeAreaFallback, out.Notices[0].Kind)
	assert.True(t, out.Window.HasNext)
	assert.Equal(t, 20, out.Window.NextOffset)
}

func TestSearch_RelaxedErrorPropagates(t *testing.T) {
	boom := errors.New("upstream down")
	src := &mockRouteSource{
		listFn: func(ctx context.Context, p domain.ListParams) (*domain.RoutePage, error) {
			if p.Query == "North" {
				return nil, boom
			}
			return pageOf(0), nil
		},
	}

	_, err := newSearch(src, nil).Search(context.Background(),
		searchRequest(usecases.RawSearchParams{Query: "North Face"}),
		domain.SearchPolicy{FallbackToBbox: false})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `relaxed search "North"`)
}

func TestSearch_PublishesEvent(t *testing.T) {
	src := &mockRouteSource{
		listFn: func(ctx context.Context, p domain.ListParams) (*domain.RoutePage, error) {
			if p.Query == "North" {
				return pageOf(2, docs(2)...), nil
			}
			return pageOf(0), nil
		},
	}
	pub := newMockPublisher()
	pub.err = errors.New("ignored")

	_, err := newSearch(src, pub).Search(context.Background(),
		searchRequest(usecases.RawSearchParams{Query: "North Face"}), usecases.DefaultPolicy())
	require.NoError(t, err)

	select {
	case e := <-pub.events:
		assert.Equal(t, "North Face", e.Query)
		assert.Equal(t, "North", e.FallbackQuery)
		assert.True(t, e.Relaxed)
		assert.Equal(t, domain.StrategyAreas, e.Strategy)
		assert.Equal(t, 2, e.Total)
		assert.Equal(t, []string{"14410", "14404"}, e.AreaIDs)
	case <-time.After(time.Second):
		t.Fatal("no search event published")
	}
}
