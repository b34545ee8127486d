// Package filter applies the user-configured predicate set to the derived
// site collection. Apply is pure: it owns no state, so callers simply
// re-apply it whenever the sites, the config, or the favorites set change.
package filter

import (
	"strings"
	"time"

	"cartotaco/models"
	"cartotaco/wrangle"
)

// Engine evaluates a FilterConfig against processed sites. Now is
// injectable for the open-now predicate; nil means wall-clock time.
type Engine struct {
	Now func() time.Time
}

// Apply returns the sites passing every active predicate, preserving input
// order. Predicates short-circuit per site: favorites, search text,
// proteins, types, spice level, open-now.
func (e Engine) Apply(sites []models.ProcessedSite, cfg models.FilterConfig, favorites map[int64]struct{}) []models.ProcessedSite {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	search := strings.ToLower(strings.TrimSpace(cfg.SearchText))
	activeProteins := activeFlags(cfg.Proteins)
	activeTypes := activeFlags(cfg.Types)

	out := make([]models.ProcessedSite, 0, len(sites))
	for _, site := range sites {
		if cfg.ShowFavoritesOnly {
			if _, ok := favorites[site.EstID]; !ok {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(site.Name), search) {
			continue
		}
		if len(activeProteins) > 0 && !anyProteinAvailable(site, activeProteins) {
			continue
		}
		if len(activeTypes) > 0 && !activeTypes[site.Type] {
			continue
		}
		if site.HeatOverall < cfg.SpiceLevel.Min || site.HeatOverall > cfg.SpiceLevel.Max {
			continue
		}
		if cfg.OpenNow && !wrangle.IsOpenNowAt(site.StartHours, site.EndHours, now()) {
			continue
		}
		out = append(out, site)
	}
	return out
}

// activeFlags drops disabled entries so an all-false map filters nothing.
func activeFlags(flags map[string]bool) map[string]bool {
	out := make(map[string]bool, len(flags))
	for name, on := range flags {
		if on {
			out[name] = true
		}
	}
	return out
}

// anyProteinAvailable is OR semantics across the enabled protein flags.
func anyProteinAvailable(site models.ProcessedSite, active map[string]bool) bool {
	for name := range active {
		if site.ProteinYes[name] {
			return true
		}
	}
	return false
}
