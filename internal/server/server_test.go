package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantryops/aisleflow/internal/common"
	"github.com/pantryops/aisleflow/internal/model"
	"github.com/pantryops/aisleflow/internal/normalize"
	"github.com/pantryops/aisleflow/internal/rules"
	"github.com/pantryops/aisleflow/internal/service"
)

// stubStorage implements service.Storage in memory.
type stubStorage struct {
	layouts []model.StoreLayout
	stores  []model.Store
	items   map[string]model.Classification
}

func newStubStorage() *stubStorage {
	return &stubStorage{items: make(map[string]model.Classification)}
}

func (s *stubStorage) GetLayout(_ context.Context, storeName, postalCode string) (*model.StoreLayout, error) {
	for _, l := range s.layouts {
		if l.StoreName != storeName {
			continue
		}
		if postalCode != "" && l.PostalCode != postalCode {
			continue
		}
		out := l
		return &out, nil
	}
	return nil, nil
}

func (s *stubStorage) ListLayouts(_ context.Context) ([]model.StoreLayout, error) {
	return s.layouts, nil
}

func (s *stubStorage) GetStore(_ context.Context, name, postalCode string) (*model.Store, error) {
	for _, st := range s.stores {
		if st.Name == name && (postalCode == "" || st.PostalCode == postalCode) {
			out := st
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *stubStorage) SaveLayout(_ context.Context, _ model.Store, layout model.StoreLayout) error {
	s.layouts = append(s.layouts, layout)
	return nil
}

func (s *stubStorage) GetCachedItem(_ context.Context, key string) (*model.Classification, error) {
	if row, ok := s.items[key]; ok {
		return &row, nil
	}
	return nil, nil
}

func (s *stubStorage) CacheItem(_ context.Context, key string, result model.Classification) error {
	s.items[key] = result
	return nil
}

func (s *stubStorage) OverrideItem(_ context.Context, key string, category model.Category, displayName string) error {
	s.items[key] = model.Classification{NormalizedName: displayName, Category: category, Source: model.SourceManual}
	return nil
}

func (s *stubStorage) Migrate(_ context.Context) error { return nil }
func (s *stubStorage) Close() error                    { return nil }

// stubFallback answers a fixed category for every item.
type stubFallback struct {
	category model.Category
	calls    int
}

func (f *stubFallback) Classify(_ context.Context, item string) (model.Classification, bool) {
	f.calls++
	return model.Classification{
		Item:           item,
		NormalizedName: normalize.Prettify(item),
		Category:       f.category,
		Source:         model.SourceFallback,
	}, true
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Rules == nil {
		rc, err := rules.NewClassifier(rules.DefaultRules())
		require.NoError(t, err)
		cfg.Rules = rc
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv, err := New(cfg)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresRules(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestOrganizeEndpoint(t *testing.T) {
	store := newStubStorage()
	store.layouts = []model.StoreLayout{{
		StoreName:  "Corner Market",
		PostalCode: "62704",
		Zones: []model.Zone{
			{Name: "Produce", Categories: []model.Category{model.CategoryProduce}},
			{Name: "Dairy", Categories: []model.Category{model.CategoryDairy}},
		},
	}}
	srv := newTestServer(t, Config{Storage: store})

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/organize", organizeRequest{
		Store: "Corner Market",
		Zip:   "62704",
		Items: []string{"Bananas", "milk", "sourdough"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp organizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Corner Market", resp.Store)
	require.Len(t, resp.Groups, 3)
	assert.Equal(t, "Produce", resp.Groups[0].Zone)
	assert.Equal(t, []string{"Bananas"}, resp.Groups[0].Items)
	assert.Equal(t, "Dairy", resp.Groups[1].Zone)
	assert.Equal(t, []string{"milk"}, resp.Groups[1].Items)
	assert.Equal(t, "Misc", resp.Groups[2].Zone)
	assert.Equal(t, []string{"sourdough"}, resp.Groups[2].Items)
}

func TestOrganizeUnknownStoreUsesDefaultLayout(t *testing.T) {
	srv := newTestServer(t, Config{Storage: newStubStorage()})

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/organize", organizeRequest{
		Store: "Nowhere Foods",
		Items: []string{"Bananas"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp organizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, "Produce", resp.Groups[0].Zone)
}

func TestOrganizeValidation(t *testing.T) {
	srv := newTestServer(t, Config{})
	router := srv.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/organize", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/organize", map[string]any{"store": "X"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrganizeEmptyItems(t *testing.T) {
	srv := newTestServer(t, Config{})

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/organize", organizeRequest{Items: []string{}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp organizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Groups)
}

func TestOrganizeFallbackFactoryPerRequest(t *testing.T) {
	fb := &stubFallback{category: model.CategoryProduce}
	factoryCalls := 0
	srv := newTestServer(t, Config{
		Fallback: func() service.FallbackClassifier {
			factoryCalls++
			return fb
		},
	})
	router := srv.Router()

	for i := 0; i < 2; i++ {
		rec := doJSON(t, router, http.MethodPost, "/api/organize", organizeRequest{Items: []string{"rambutan"}})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, factoryCalls)
	assert.Equal(t, 2, fb.calls)
}

func TestStoresEndpoint(t *testing.T) {
	store := newStubStorage()
	store.stores = []model.Store{{
		Name:       "Corner Market",
		Chain:      "Test Chain",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62704",
	}}
	srv := newTestServer(t, Config{Storage: store})
	router := srv.Router()

	rec := doJSON(t, router, http.MethodGet, "/api/stores?name=Corner+Market&zip=62704", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp storeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Corner Market", resp.Name)
	assert.Equal(t, "62704", resp.PostalCode)

	rec = doJSON(t, router, http.MethodGet, "/api/stores", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/stores?name=Nowhere+Foods", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLayoutsEndpoint(t *testing.T) {
	store := newStubStorage()
	store.layouts = []model.StoreLayout{{
		StoreName: "Corner Market",
		Zones: []model.Zone{
			{Name: "Produce", Categories: []model.Category{model.CategoryProduce}},
		},
	}}
	srv := newTestServer(t, Config{Storage: store})

	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/layouts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []layoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Corner Market", resp[0].Store)
	require.Len(t, resp[0].Zones, 1)
	assert.Equal(t, []string{"Produce"}, resp[0].Zones[0].Categories)
}

func TestHealthzAndMetrics(t *testing.T) {
	srv := newTestServer(t, Config{})
	router := srv.Router()

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
