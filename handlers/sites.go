package handlers

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"cartotaco/auth"
	"cartotaco/favorites"
	"cartotaco/filter"
	"cartotaco/models"
	"cartotaco/store"
	"cartotaco/wrangle"
)

// recentWindow bounds the "recently added" listing.
const recentWindow = 30 * 24 * time.Hour

// ParseFilterParams extracts and normalizes the site filter from the URL
// query. Absent spice bounds fall back to the full slider range.
func ParseFilterParams(query url.Values) models.FilterConfig {
	cfg := models.DefaultFilterConfig()

	cfg.SearchText = query.Get("q")
	if cfg.SearchText == "" {
		cfg.SearchText = query.Get("search")
	}

	cfg.Proteins = csvFlags(query.Get("proteins"))
	cfg.Types = csvFlags(query.Get("types"))

	if raw := query.Get("minSpice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.SpiceLevel.Min = v
		}
	}
	if raw := query.Get("maxSpice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.SpiceLevel.Max = v
		}
	}

	cfg.OpenNow = query.Get("openNow") == "true"
	cfg.ShowFavoritesOnly = query.Get("favorites") == "true"
	return cfg
}

func csvFlags(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out[name] = true
		}
	}
	return out
}

// SitesHandler serves the filtered processed-site listing. A snapshot
// error is surfaced alongside the last-known-good data, never instead of
// it.
func SitesHandler(sites *store.SiteStore, favs *favorites.Store, provider auth.Provider, engine filter.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := ParseFilterParams(r.URL.Query())

		favoriteIDs := map[int64]struct{}{}
		if cfg.ShowFavoritesOnly {
			user, ok := requireUser(w, r, provider)
			if !ok {
				return
			}
			favoriteIDs = favs.Ensure(r.Context(), user.ID)
		}

		snap := sites.Snapshot()
		filtered := engine.Apply(snap.Sites, cfg, favoriteIDs)

		payload := map[string]interface{}{
			"sites": filtered,
			"count": len(filtered),
		}
		if snap.Err != nil {
			payload["error"] = snap.Err.Error()
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

// RecentSitesHandler lists sites created inside the recent window, newest
// first.
func RecentSitesHandler(sites *store.SiteStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cutoff := time.Now().Add(-recentWindow)

		recent := []models.ProcessedSite{}
		for _, site := range sites.Sites() {
			if site.CreatedAt.After(cutoff) {
				recent = append(recent, site)
			}
		}
		sort.Slice(recent, func(i, j int) bool {
			return recent[i].CreatedAt.After(recent[j].CreatedAt)
		})

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"sites": recent,
			"count": len(recent),
		})
	}
}

// SiteDetailHandler serves one site with its weekly hours schedule and the
// open-now flag evaluated at request time.
func SiteDetailHandler(sites *store.SiteStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid site id")
			return
		}

		for _, site := range sites.Sites() {
			if site.EstID == id {
				writeJSON(w, http.StatusOK, map[string]interface{}{
					"site":         site,
					"weekly_hours": wrangle.ConvertHoursData(site.StartHours, site.EndHours),
					"open_now":     wrangle.IsOpenNow(site.StartHours, site.EndHours),
				})
				return
			}
		}
		writeError(w, http.StatusNotFound, "site not found")
	}
}

// SummaryHandler serves the site-wide aggregates.
func SummaryHandler(sites *store.SiteStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sites.Summary())
	}
}
