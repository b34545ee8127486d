// Package submissions handles user-submitted locations awaiting admin
// review. Rows live in location_submissions; update and delete are only
// allowed while a submission is still pending.
package submissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cartotaco/models"
)

// ErrNotFound covers both a missing row and a row the caller may not
// touch (someone else's, or no longer pending).
var ErrNotFound = errors.New("submission not found")

// Store provides user-scoped CRUD over location submissions.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const submissionColumns = `id, user_id, name, type, address, latitude, longitude,
	short_description, long_description, phone, website, instagram, facebook,
	status, submitted_at`

// Create inserts a new pending submission for the user and returns it with
// its generated id and timestamp.
func (s *Store) Create(ctx context.Context, userID string, sub models.Submission) (models.Submission, error) {
	sub.ID = uuid.New().String()
	sub.UserID = userID
	sub.Status = models.SubmissionPending
	sub.SubmittedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO location_submissions
			(id, user_id, name, type, address, latitude, longitude,
			 short_description, long_description, phone, website, instagram, facebook,
			 status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		sub.ID, sub.UserID, sub.Name, sub.Type, sub.Address, sub.Latitude, sub.Longitude,
		sub.ShortDescription, nullable(sub.LongDescription), nullable(sub.Phone),
		nullable(sub.Website), nullable(sub.Instagram), nullable(sub.Facebook),
		sub.Status, sub.SubmittedAt)
	if err != nil {
		return models.Submission{}, fmt.Errorf("creating submission: %w", err)
	}
	return sub, nil
}

// List returns the user's submissions newest first, optionally narrowed to
// one review status.
func (s *Store) List(ctx context.Context, userID, status string) ([]models.Submission, error) {
	query := "SELECT " + submissionColumns + ` FROM location_submissions
		WHERE user_id = $1`
	args := []interface{}{userID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY submitted_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	out := []models.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// Get returns one submission belonging to the user.
func (s *Store) Get(ctx context.Context, userID, id string) (models.Submission, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+submissionColumns+" FROM location_submissions WHERE id = $1 AND user_id = $2",
		id, userID)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Submission{}, ErrNotFound
	}
	return sub, err
}

// Update applies new field values to a still-pending submission.
func (s *Store) Update(ctx context.Context, userID, id string, sub models.Submission) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE location_submissions
		SET name = $1, type = $2, address = $3, latitude = $4, longitude = $5,
		    short_description = $6, long_description = $7, phone = $8,
		    website = $9, instagram = $10, facebook = $11
		WHERE id = $12 AND user_id = $13 AND status = $14`,
		sub.Name, sub.Type, sub.Address, sub.Latitude, sub.Longitude,
		sub.ShortDescription, nullable(sub.LongDescription), nullable(sub.Phone),
		nullable(sub.Website), nullable(sub.Instagram), nullable(sub.Facebook),
		id, userID, models.SubmissionPending)
	if err != nil {
		return fmt.Errorf("updating submission: %w", err)
	}
	return requireRow(res)
}

// Delete removes a still-pending submission.
func (s *Store) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM location_submissions WHERE id = $1 AND user_id = $2 AND status = $3",
		id, userID, models.SubmissionPending)
	if err != nil {
		return fmt.Errorf("deleting submission: %w", err)
	}
	return requireRow(res)
}

// Stats counts the user's submissions by review state.
func (s *Store) Stats(ctx context.Context, userID string) (models.SubmissionStats, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM location_submissions WHERE user_id = $1 GROUP BY status",
		userID)
	if err != nil {
		return models.SubmissionStats{}, fmt.Errorf("submission stats: %w", err)
	}
	defer rows.Close()

	var stats models.SubmissionStats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return models.SubmissionStats{}, err
		}
		stats.Total += count
		switch status {
		case models.SubmissionPending:
			stats.Pending = count
		case models.SubmissionApproved:
			stats.Approved = count
		case models.SubmissionRejected:
			stats.Rejected = count
		}
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row rowScanner) (models.Submission, error) {
	var sub models.Submission
	var longDesc, phone, website, instagram, facebook sql.NullString
	err := row.Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.Type, &sub.Address,
		&sub.Latitude, &sub.Longitude, &sub.ShortDescription, &longDesc,
		&phone, &website, &instagram, &facebook, &sub.Status, &sub.SubmittedAt)
	if err != nil {
		return models.Submission{}, err
	}
	sub.LongDescription = longDesc.String
	sub.Phone = phone.String
	sub.Website = website.String
	sub.Instagram = instagram.String
	sub.Facebook = facebook.String
	return sub, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
