package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartotaco/auth"
	"cartotaco/favorites"
	"cartotaco/filter"
	"cartotaco/models"
	"cartotaco/store"
)

// fakeSource serves canned tables to build a populated site store.
type fakeSource struct {
	tables map[string][]models.RawRecord
	errs   map[string]error
}

func (f *fakeSource) Select(_ context.Context, table string) ([]models.RawRecord, error) {
	if err := f.errs[table]; err != nil {
		return nil, err
	}
	return f.tables[table], nil
}

func populatedSource() *fakeSource {
	recent := time.Now().Add(-24 * time.Hour).Format(time.RFC3339)
	old := time.Now().Add(-90 * 24 * time.Hour).Format(time.RFC3339)
	return &fakeSource{
		tables: map[string][]models.RawRecord{
			"sites": {
				{"est_id": int64(1), "name": "El Taco Rico", "type": "Truck", "created_at": recent},
				{"est_id": int64(2), "name": "Taqueria Sonora", "type": "Stand", "created_at": old},
			},
			"descriptions": {
				{"est_id": int64(1), "short_description": "Street tacos"},
				{"est_id": int64(2), "short_description": "Sonoran style"},
			},
			"menu": {
				{"est_id": int64(1), "taco_perc": 0.8},
				{"est_id": int64(2), "taco_perc": 0.5},
			},
			"hours": {
				{"est_id": int64(1), "wed_start": "9:00", "wed_end": "17:00"},
				{"est_id": int64(2), "wed_start": "NA", "wed_end": "NA"},
			},
			"salsa": {
				{"est_id": int64(1), "num_salsas": 3, "heat_overall": 3.0},
				{"est_id": int64(2), "num_salsas": 5, "heat_overall": 8.0},
			},
			"protein": {
				{"est_id": int64(1), "chicken_perc": 1.0, "chicken_yes": true},
				{"est_id": int64(2), "beef_perc": 1.0, "beef_yes": true},
			},
			"summary": {
				{"max_salsas": 8, "avg_salsas": 4.0, "max_heat": 9, "avg_heat": 5.5},
			},
		},
		errs: map[string]error{},
	}
}

func populatedStore(t *testing.T) (*store.SiteStore, *fakeSource) {
	t.Helper()
	src := populatedSource()
	s := store.NewSiteStore(src, nil)
	require.NoError(t, s.Refresh(context.Background()))
	return s, src
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestParseFilterParams(t *testing.T) {
	cfg := ParseFilterParams(url.Values{})
	assert.Equal(t, models.DefaultFilterConfig(), cfg)

	cfg = ParseFilterParams(url.Values{
		"q":        {"taco"},
		"proteins": {"chicken, beef"},
		"types":    {"Truck"},
		"minSpice": {"2"},
		"maxSpice": {"6"},
		"openNow":  {"true"},
	})
	assert.Equal(t, "taco", cfg.SearchText)
	assert.Equal(t, map[string]bool{"chicken": true, "beef": true}, cfg.Proteins)
	assert.Equal(t, map[string]bool{"Truck": true}, cfg.Types)
	assert.Equal(t, models.SpiceRange{Min: 2, Max: 6}, cfg.SpiceLevel)
	assert.True(t, cfg.OpenNow)
	assert.False(t, cfg.ShowFavoritesOnly)

	// Legacy parameter name and unparsable bounds.
	cfg = ParseFilterParams(url.Values{
		"search":    {"sonora"},
		"minSpice":  {"spicy"},
		"favorites": {"true"},
	})
	assert.Equal(t, "sonora", cfg.SearchText)
	assert.Equal(t, models.DefaultFilterConfig().SpiceLevel, cfg.SpiceLevel)
	assert.True(t, cfg.ShowFavoritesOnly)
}

func TestSitesHandlerListsAndFilters(t *testing.T) {
	sites, _ := populatedStore(t)
	handler := SitesHandler(sites, nil, auth.HeaderProvider{}, filter.Engine{})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/sites", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])
	assert.NotContains(t, body, "error")

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/sites?types=Truck", nil))
	body = decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
}

func TestSitesHandlerFavoritesRequiresAuth(t *testing.T) {
	sites, _ := populatedStore(t)
	handler := SitesHandler(sites, nil, auth.HeaderProvider{}, filter.Engine{})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/sites?favorites=true", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSitesHandlerFavoritesOnly(t *testing.T) {
	sites, _ := populatedStore(t)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectQuery("SELECT est_id FROM user_favorites").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"est_id"}).AddRow(2))

	favs := favorites.NewStore(db, nil)
	handler := SitesHandler(sites, favs, auth.HeaderProvider{}, filter.Engine{})

	req := httptest.NewRequest(http.MethodGet, "/api/sites?favorites=true", nil)
	req.Header.Set("X-User-Id", "user-1")
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSitesHandlerSurfacesRefreshErrorWithLastData(t *testing.T) {
	sites, src := populatedStore(t)
	src.errs["menu"] = errors.New("connection reset")
	require.Error(t, sites.Refresh(context.Background()))

	handler := SitesHandler(sites, nil, auth.HeaderProvider{}, filter.Engine{})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/sites", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"], "stale data stays live")
	assert.Contains(t, body, "error")
}

func TestRecentSitesHandlerAppliesWindow(t *testing.T) {
	sites, _ := populatedStore(t)
	rec := httptest.NewRecorder()
	RecentSitesHandler(sites)(rec, httptest.NewRequest(http.MethodGet, "/api/sites/recent", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"], "only the recently created site qualifies")
}

func newDetailMux(sites *store.SiteStore) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sites/{id}", SiteDetailHandler(sites))
	return mux
}

func TestSiteDetailHandler(t *testing.T) {
	sites, _ := populatedStore(t)
	mux := newDetailMux(sites)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sites/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Contains(t, body, "site")
	assert.Contains(t, body, "weekly_hours")
	assert.Contains(t, body, "open_now")
	assert.Len(t, body["weekly_hours"], 7)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sites/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sites/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryHandler(t *testing.T) {
	sites, _ := populatedStore(t)
	rec := httptest.NewRecorder()
	SummaryHandler(sites)(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.SummaryStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 8.0, stats.MaxSalsas)
}

func TestToggleFavoriteHandlerRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectExec("INSERT INTO user_favorites").
		WithArgs("user-1", int64(7)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM user_favorites").
		WithArgs("user-1", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	favs := favorites.NewStore(db, nil)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/favorites/{id}/toggle", ToggleFavoriteHandler(favs, auth.HeaderProvider{}))

	toggle := func() map[string]interface{} {
		req := httptest.NewRequest(http.MethodPost, "/api/favorites/7/toggle", nil)
		req.Header.Set("X-User-Id", "user-1")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return decodeBody(t, rec)
	}

	assert.Equal(t, true, toggle()["favorited"])
	assert.Equal(t, false, toggle()["favorited"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteHandlersRequireAuth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/favorites/{id}", AddFavoriteHandler(nil, auth.HeaderProvider{}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/favorites/7", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
