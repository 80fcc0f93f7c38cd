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

// CommentStore manages review comments in the database.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentSelect = `
	SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
	FROM comments c
	JOIN users u ON u.id = c.author_id`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.PubDate)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByReview returns a review's comments, newest first.
func (s *CommentStore) ListByReview(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		commentSelect+`
		WHERE c.review_id = $1
		ORDER BY c.pub_date DESC
		LIMIT $2 OFFSET $3
	`, reviewID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// FindByID retrieves a comment scoped to its review. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, reviewID, commentID uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		commentSelect+` WHERE c.id = $1 AND c.review_id = $2`, commentID, reviewID)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a comment with a server-assigned pub_date and returns it.
func (s *CommentStore) Create(ctx context.Context, reviewID, authorID uuid.UUID, text string) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (review_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, review_id, author_id,
			(SELECT username FROM users WHERE id = $2), text, pub_date
	`, reviewID, authorID, text)
	c, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// Update modifies a comment's text.
func (s *CommentStore) Update(ctx context.Context, id uuid.UUID, text string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE comments SET text = $1 WHERE id = $2`, text, id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// Delete removes a comment.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
