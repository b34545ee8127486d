// Package favorites maintains per-user sets of favorited establishment ids
// backed by the user_favorites table. Writes go to the database first; the
// in-memory set is updated only after the remote write succeeds.
package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// pq error code for a unique constraint violation.
const uniqueViolation = "23505"

// Store caches favorite id sets per user on top of the database.
type Store struct {
	db  *sql.DB
	log *zap.Logger

	mu     sync.RWMutex
	byUser map[string]map[int64]struct{}
}

// NewStore creates an empty favorites store over db.
func NewStore(db *sql.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		db:     db,
		log:    log,
		byUser: make(map[string]map[int64]struct{}),
	}
}

// Load fetches the user's favorites and primes the in-memory set. A fetch
// failure fails open to an empty set; favorites are never load-bearing for
// the rest of the page.
func (s *Store) Load(ctx context.Context, userID string) map[int64]struct{} {
	ids := make(map[int64]struct{})

	rows, err := s.db.QueryContext(ctx,
		"SELECT est_id FROM user_favorites WHERE user_id = $1", userID)
	if err != nil {
		s.log.Warn("loading favorites failed", zap.String("user_id", userID), zap.Error(err))
		s.replace(userID, ids)
		return ids
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		s.log.Warn("reading favorites failed", zap.String("user_id", userID), zap.Error(err))
	}

	s.replace(userID, ids)
	return copySet(ids)
}

// Ensure returns the user's favorite ids, loading them from the database
// the first time the user is seen.
func (s *Store) Ensure(ctx context.Context, userID string) map[int64]struct{} {
	s.mu.RLock()
	ids, ok := s.byUser[userID]
	if ok {
		defer s.mu.RUnlock()
		return copySet(ids)
	}
	s.mu.RUnlock()
	return s.Load(ctx, userID)
}

// IDSet returns a snapshot copy of the user's favorite ids.
func (s *Store) IDSet(userID string) map[int64]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySet(s.byUser[userID])
}

// IsFavorite reports membership without touching the database.
func (s *Store) IsFavorite(userID string, estID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byUser[userID][estID]
	return ok
}

// Count returns the size of the user's favorite set.
func (s *Store) Count(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUser[userID])
}

// Add favorites estID for the user. A duplicate insert is idempotent: the
// unique constraint violation maps to success. The local set changes only
// after the remote write succeeds.
func (s *Store) Add(ctx context.Context, userID string, estID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO user_favorites (user_id, est_id) VALUES ($1, $2)", userID, estID)
	if err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("adding favorite: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.byUser[userID]
	if ids == nil {
		ids = make(map[int64]struct{})
		s.byUser[userID] = ids
	}
	ids[estID] = struct{}{}
	return nil
}

// Remove unfavorites estID for the user, mirroring Add's write-then-update
// discipline.
func (s *Store) Remove(ctx context.Context, userID string, estID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM user_favorites WHERE user_id = $1 AND est_id = $2", userID, estID)
	if err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser[userID], estID)
	return nil
}

// Toggle flips membership and returns the new state.
func (s *Store) Toggle(ctx context.Context, userID string, estID int64) (bool, error) {
	if s.IsFavorite(userID, estID) {
		if err := s.Remove(ctx, userID, estID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.Add(ctx, userID, estID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) replace(userID string, ids map[int64]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[userID] = ids
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

func copySet(ids map[int64]struct{}) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for id := range ids {
		out[id] = struct{}{}
	}
	return out
}
