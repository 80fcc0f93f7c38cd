// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"yamdb/internal/models"
)

// GenreStore manages genres in the database.
type GenreStore struct {
	db *sql.DB
}

// NewGenreStore returns a new GenreStore.
func NewGenreStore(db *sql.DB) *GenreStore {
	return &GenreStore{db: db}
}

const genreColumns = `id, name, slug, created_at`

func scanGenre(scanner interface{ Scan(...any) error }) (*models.Genre, error) {
	var g models.Genre
	if err := scanner.Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns genres ordered by name, optionally filtered to an exact name.
func (s *GenreStore) List(ctx context.Context, search string, limit, offset int) ([]models.Genre, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+genreColumns+` FROM genres
		WHERE ($1 = '' OR name = $1)
		ORDER BY name
		LIMIT $2 OFFSET $3
	`, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	var items []models.Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		items = append(items, *g)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a genre by slug. Returns nil if not found.
func (s *GenreStore) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE slug = $1`, slug)
	g, err := scanGenre(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find genre by slug: %w", err)
	}
	return g, nil
}

// FindBySlugs resolves a set of slugs to genres, preserving nothing about
// order. The caller detects unknown slugs by comparing lengths.
func (s *GenreStore) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	q, args := inClause(`SELECT `+genreColumns+` FROM genres WHERE slug IN `, slugs)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find genres by slugs: %w", err)
	}
	defer rows.Close()

	var items []models.Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		items = append(items, *g)
	}
	return items, rows.Err()
}

// Create inserts a new genre and returns it.
func (s *GenreStore) Create(ctx context.Context, g *models.Genre) (*models.Genre, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO genres (name, slug)
		VALUES ($1, $2)
		RETURNING `+genreColumns,
		g.Name, g.Slug,
	)
	created, err := scanGenre(row)
	if err != nil {
		return nil, fmt.Errorf("create genre: %w", err)
	}
	return created, nil
}

// DeleteBySlug removes a genre by slug. The title join rows cascade away.
// Returns false if no genre had the slug.
func (s *GenreStore) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM genres WHERE slug = $1`, slug)
	if err != nil {
		return false, fmt.Errorf("delete genre: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete genre rows: %w", err)
	}
	return n > 0, nil
}
