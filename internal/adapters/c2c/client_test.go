package c2c

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
	"github.com/samirrijal/c2cexplorer/internal/core/ports"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

const routesJSON = `{"documents":[{"document_id":57964,"activities":["rock_climbing"],
"locales":[{"lang":"fr","title":"Voie Rébuffat","title_prefix":"Aiguille du Midi"}],
"elevation_min":3300,"elevation_max":3842}],"total":1}`

func newClient(t *testing.T, h http.HandlerFunc, cache ports.CacheService) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, CacheTTL: 60, UserAgent: "c2cexplorer-test"}, cache)
}

func TestListURL(t *testing.T) {
	c := New(Options{BaseURL: "https://api.example.org"}, nil)

	got := c.ListURL(domain.ListParams{
		Limit: 20, Offset: 40, Activities: "skitouring", Query: "north face",
		AreaIDs: []string{"14410", "14404"}, BBox: "1,2,3,4",
	})
	assert.Equal(t, "https://api.example.org/routes?a=14410%2C14404&act=skitouring&limit=20&offset=40&q=north+face", got)

	got = c.ListURL(domain.ListParams{Limit: 10, Activities: "rock_climbing", BBox: "1,2,3,4"})
	assert.Equal(t, "https://api.example.org/routes?act=rock_climbing&bbox=1%2C2%2C3%2C4&limit=10&offset=0", got)
}

func TestListRoutes_DecodesPage(t *testing.T) {
	var gotQuery, gotUA string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, "/routes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(routesJSON))
	}, nil)

	page, err := c.ListRoutes(context.Background(), domain.ListParams{
		Limit: 20, Offset: 0, Activities: "rock_climbing", AreaIDs: []string{"14410"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 20, page.Limit)
	require.Len(t, page.Documents, 1)
	doc := page.Documents[0]
	assert.EqualValues(t, 57964, doc.DocumentID)
	require.NotNil(t, doc.ElevationMax)
	assert.Equal(t, 3842, *doc.ElevationMax)
	require.Len(t, doc.Locales, 1)
	require.NotNil(t, doc.Locales[0].TitlePrefix)
	assert.Equal(t, "Aiguille du Midi", *doc.Locales[0].TitlePrefix)
	assert.Contains(t, gotQuery, "a=14410")
	assert.NotContains(t, gotQuery, "bbox")
	assert.Equal(t, "c2cexplorer-test", gotUA)
}

func TestListRoutes_UpstreamError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}, nil)

	_, err := c.ListRoutes(context.Background(), domain.ListParams{Limit: 20, Activities: "skitouring"})
	require.Error(t, err)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusServiceUnavailable, ue.StatusCode)
	assert.Len(t, ue.Body, maxErrorBody)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to list routes: 503 "))
}

func TestListRoutes_CachesResponses(t *testing.T) {
	var calls atomic.Int32
	cache := newMemCache()
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(routesJSON))
	}, cache)

	params := domain.ListParams{Limit: 20, Activities: "skitouring", BBox: "1,2,3,4"}
	for i := 0; i < 3; i++ {
		page, err := c.ListRoutes(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	}
	assert.EqualValues(t, 1, calls.Load())

	_, ok := cache.data[cachePrefix+c.ListURL(params)]
	assert.True(t, ok)
}

func TestListRoutes_ErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	cache := newMemCache()
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, cache)

	params := domain.ListParams{Limit: 20, Activities: "skitouring"}
	_, err := c.ListRoutes(context.Background(), params)
	require.Error(t, err)
	_, err = c.ListRoutes(context.Background(), params)
	require.Error(t, err)

	assert.EqualValues(t, 2, calls.Load())
	assert.Empty(t, cache.data)
}

func TestGetRoute(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/routes/57964":
			_, _ = w.Write([]byte(`{"document_id":57964,"activities":["alpine_climbing"]}`))
		default:
			http.NotFound(w, r)
		}
	}, nil)

	route, err := c.GetRoute(context.Background(), "57964")
	require.NoError(t, err)
	assert.EqualValues(t, 57964, route.DocumentID)
	assert.Equal(t, []string{"alpine_climbing"}, route.Activities)

	_, err = c.GetRoute(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFetch_CanceledContext(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(routesJSON))
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListRoutes(ctx, domain.ListParams{Limit: 20, Activities: "skitouring"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListRoutes_CoalescedCallersKeepOwnDeadlines(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(routesJSON))
	}, nil)
	params := domain.ListParams{Limit: 20, Activities: "skitouring", BBox: "1,2,3,4"}

	var wg sync.WaitGroup
	var shortErr, longErr error
	var longPage *domain.RoutePage

	wg.Add(2)
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, shortErr = c.ListRoutes(ctx, params)
	}()
	time.Sleep(10 * time.Millisecond)
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		longPage, longErr = c.ListRoutes(ctx, params)
	}()
	wg.Wait()

	assert.ErrorIs(t, shortErr, context.DeadlineExceeded)
	require.NoError(t, longErr)
	assert.Equal(t, 1, longPage.Total)
	assert.EqualValues(t, 1, calls.Load())
}

func TestListRoutes_CancelWhileWaiting(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(routesJSON))
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	_, err := c.ListRoutes(ctx, domain.ListParams{Limit: 20, Activities: "skitouring"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}
