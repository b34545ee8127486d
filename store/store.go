// Package store owns the processed-site collection and summary stats. One
// writer (the refresh pipeline) replaces an immutable snapshot atomically;
// readers always see a complete, consistent collection.
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"cartotaco/database"
	"cartotaco/models"
	"cartotaco/wrangle"
)

// Required table fetches, in section order. A refresh that cannot read any
// of these keeps the previous snapshot (stale-but-consistent beats
// empty-but-broken).
var requiredTables = []struct {
	table   string
	section string
}{
	{"sites", wrangle.SectionSite},
	{"descriptions", wrangle.SectionDescriptions},
	{"menu", wrangle.SectionMenu},
	{"hours", wrangle.SectionHours},
	{"salsa", wrangle.SectionSalsa},
	{"protein", wrangle.SectionProtein},
}

// Optional tables degrade to empty on fetch failure.
var optionalTables = []struct {
	table   string
	section string
}{
	{"specialty_items", wrangle.SectionSpecialtyItems},
	{"specialty_proteins", wrangle.SectionSpecialtyProteins},
	{"specialty_salsas", wrangle.SectionSpecialtySalsas},
}

const summaryTable = "summary"

// Snapshot is one immutable published state of the pipeline. Err is the
// observable fetch-failure flag; when set, Sites and Summary still hold the
// last data that loaded successfully.
type Snapshot struct {
	Sites     []models.ProcessedSite
	Summary   models.SummaryStats
	FetchedAt time.Time
	Err       error
}

// SiteStore runs the fetch → join → derive pipeline and publishes
// snapshots. Refreshes are stamped with a monotonic sequence so a slow
// fetch that completes after a newer one has published is discarded rather
// than clobbering fresher data.
type SiteStore struct {
	source database.Source
	log    *zap.Logger

	seq atomic.Uint64

	mu        sync.Mutex // serializes publish decisions
	published uint64
	snap      atomic.Pointer[Snapshot]

	subMu sync.Mutex
	subs  []func(*Snapshot)
}

// NewSiteStore creates a store with an empty initial snapshot.
func NewSiteStore(source database.Source, log *zap.Logger) *SiteStore {
	if log == nil {
		log = zap.NewNop()
	}
	s := &SiteStore{source: source, log: log}
	s.snap.Store(&Snapshot{Sites: []models.ProcessedSite{}})
	return s
}

// Snapshot returns the current published state. Never nil.
func (s *SiteStore) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Sites returns the current processed-site collection.
func (s *SiteStore) Sites() []models.ProcessedSite {
	return s.snap.Load().Sites
}

// Summary returns the current site-wide aggregates.
func (s *SiteStore) Summary() models.SummaryStats {
	return s.snap.Load().Summary
}

// Subscribe registers fn to run after every successful publish. Consumers
// use it to recompute derived values when the underlying data changes.
func (s *SiteStore) Subscribe(fn func(*Snapshot)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

// Refresh fetches all record sets, joins and derives them, and publishes a
// new snapshot. On fetch failure the previous data stays live and the
// snapshot carries the error flag. Stale completions are dropped.
func (s *SiteStore) Refresh(ctx context.Context) error {
	seq := s.seq.Add(1)

	sets, summaryRecs, err := s.fetchAll(ctx)
	if err != nil {
		s.flagError(seq, err)
		return err
	}

	entities := wrangle.Join(sets)
	sites := wrangle.Derive(entities, s.log)
	snap := &Snapshot{
		Sites:     sites,
		Summary:   wrangle.DeriveSummary(summaryRecs),
		FetchedAt: time.Now(),
	}

	if !s.publish(seq, snap) {
		s.log.Debug("discarding stale refresh", zap.Uint64("seq", seq))
		return nil
	}

	s.log.Info("published site snapshot",
		zap.Uint64("seq", seq),
		zap.Int("entities", len(entities)),
		zap.Int("sites", len(sites)))
	s.notify(snap)
	return nil
}

func (s *SiteStore) fetchAll(ctx context.Context) ([]wrangle.NamedSet, []models.RawRecord, error) {
	sets := make([]wrangle.NamedSet, 0, len(requiredTables)+len(optionalTables))

	for _, t := range requiredTables {
		records, err := s.source.Select(ctx, t.table)
		if err != nil {
			return nil, nil, err
		}
		sets = append(sets, wrangle.NamedSet{Name: t.section, Records: records})
	}

	for _, t := range optionalTables {
		records, err := s.source.Select(ctx, t.table)
		if err != nil {
			s.log.Warn("optional table fetch failed", zap.String("table", t.table), zap.Error(err))
			continue
		}
		sets = append(sets, wrangle.NamedSet{Name: t.section, Records: records})
	}

	summaryRecs, err := s.source.Select(ctx, summaryTable)
	if err != nil {
		s.log.Warn("summary fetch failed", zap.Error(err))
		summaryRecs = nil
	}

	return sets, summaryRecs, nil
}

// publish installs snap if seq is still newer than the last published
// refresh.
func (s *SiteStore) publish(seq uint64, snap *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.published {
		return false
	}
	s.published = seq
	s.snap.Store(snap)
	return true
}

// flagError re-publishes the previous data with the error flag set.
func (s *SiteStore) flagError(seq uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.published {
		return
	}
	prev := s.snap.Load()
	s.published = seq
	s.snap.Store(&Snapshot{
		Sites:     prev.Sites,
		Summary:   prev.Summary,
		FetchedAt: prev.FetchedAt,
		Err:       err,
	})
	s.log.Error("site refresh failed, keeping previous data", zap.Error(err))
}

func (s *SiteStore) notify(snap *Snapshot) {
	s.subMu.Lock()
	subs := make([]func(*Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}
