// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"yamdb/internal/models"
)

// ReviewStore manages reviews in the database.
type ReviewStore struct {
	db *sql.DB
}

// NewReviewStore returns a new ReviewStore.
func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

// reviewSelect joins users so responses can carry the author's username.
const reviewSelect = `
	SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date
	FROM reviews r
	JOIN users u ON u.id = r.author_id`

func scanReview(scanner interface{ Scan(...any) error }) (*models.Review, error) {
	var r models.Review
	err := scanner.Scan(
		&r.ID, &r.TitleID, &r.AuthorID, &r.Author, &r.Text, &r.Score, &r.PubDate,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListByTitle returns a title's reviews, newest first.
func (s *ReviewStore) ListByTitle(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		reviewSelect+`
		WHERE r.title_id = $1
		ORDER BY r.pub_date DESC
		LIMIT $2 OFFSET $3
	`, titleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

// FindByID retrieves a review scoped to a title, so a review ID from a
// different title's URL resolves to not-found. Returns nil if not found.
func (s *ReviewStore) FindByID(ctx context.Context, titleID, reviewID uuid.UUID) (*models.Review, error) {
	row := s.db.QueryRowContext(ctx,
		reviewSelect+` WHERE r.id = $1 AND r.title_id = $2`, reviewID, titleID)
	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find review by id: %w", err)
	}
	return r, nil
}

// ExistsForAuthor reports whether the author already reviewed the title.
// This is the advisory pre-check; the unique index on (title_id, author_id)
// is the backstop under concurrent submissions.
func (s *ReviewStore) ExistsForAuthor(ctx context.Context, titleID, authorID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reviews WHERE title_id = $1 AND author_id = $2
		)
	`, titleID, authorID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("review exists: %w", err)
	}
	return exists, nil
}

// Create inserts a review with a server-assigned pub_date and returns it.
// A unique violation here means a concurrent duplicate slipped past the
// pre-check; callers translate it with IsUniqueViolation.
func (s *ReviewStore) Create(ctx context.Context, titleID, authorID uuid.UUID, text string, score int) (*models.Review, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO reviews (title_id, author_id, text, score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title_id, author_id,
			(SELECT username FROM users WHERE id = $2), text, score, pub_date
	`, titleID, authorID, text, score)
	r, err := scanReview(row)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return r, nil
}

// Update modifies a review's text and score. The author and pub_date
// never change.
func (s *ReviewStore) Update(ctx context.Context, id uuid.UUID, text string, score int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE reviews SET text = $1, score = $2 WHERE id = $3
	`, text, score, id)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

// Delete removes a review. Its comments cascade away.
func (s *ReviewStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
