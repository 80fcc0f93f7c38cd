// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"yamdb/internal/models"
)

// TitleStore manages titles and their genre links in the database.
type TitleStore struct {
	db *sql.DB
}

// NewTitleStore returns a new TitleStore.
func NewTitleStore(db *sql.DB) *TitleStore {
	return &TitleStore{db: db}
}

// TitleFilter narrows a title listing. Zero values mean "no filter".
type TitleFilter struct {
	Name     string // substring match, case-insensitive
	Year     *int   // exact match
	Genre    string // genre slug
	Category string // category slug
}

// titleSelect is the shared read query. The rating is a read-time
// projection: the average review score, NULL when no reviews exist.
// It is recomputed on every read and never stored.
const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, t.created_at,
	       AVG(r.score)::float8 AS rating,
	       c.id, c.name, c.slug, c.created_at
	FROM titles t
	LEFT JOIN reviews r ON r.title_id = t.id
	LEFT JOIN categories c ON c.id = t.category_id`

const titleGroupBy = ` GROUP BY t.id, c.id`

// scanTitle scans one row of titleSelect into a Title.
func scanTitle(scanner interface{ Scan(...any) error }) (*models.Title, error) {
	var (
		t          models.Title
		rating     sql.NullFloat64
		catID      uuid.NullUUID
		catName    sql.NullString
		catSlug    sql.NullString
		catCreated sql.NullTime
	)
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Year, &t.Description, &t.CreatedAt,
		&rating, &catID, &catName, &catSlug, &catCreated,
	)
	if err != nil {
		return nil, err
	}

	if rating.Valid {
		t.Rating = &rating.Float64
	}
	if catID.Valid {
		t.Category = &models.Category{
			ID:        catID.UUID,
			Name:      catName.String,
			Slug:      catSlug.String,
			CreatedAt: catCreated.Time,
		}
	}
	return &t, nil
}

// List returns titles matching the filter, ordered by name, with computed
// ratings, nested categories, and genres attached.
func (s *TitleStore) List(ctx context.Context, f TitleFilter, limit, offset int) ([]models.Title, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.Name != "" {
		add(`t.name ILIKE '%' || ? || '%'`, escapeLike(f.Name))
	}
	if f.Year != nil {
		add(`t.year = ?`, *f.Year)
	}
	if f.Category != "" {
		add(`c.slug = ?`, f.Category)
	}
	if f.Genre != "" {
		add(`EXISTS (
			SELECT 1 FROM title_genres tg
			JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = ?
		)`, f.Genre)
	}

	query := titleSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += titleGroupBy + " ORDER BY t.name"
	args = append(args, limit, offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	var titles []models.Title
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadGenres(ctx, titles); err != nil {
		return nil, err
	}
	return titles, nil
}

// FindByID retrieves one title with rating, category, and genres.
// Returns nil if not found.
func (s *TitleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Title, error) {
	row := s.db.QueryRowContext(ctx,
		titleSelect+` WHERE t.id = $1`+titleGroupBy, id)
	t, err := scanTitle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find title by id: %w", err)
	}

	one := []models.Title{*t}
	if err := s.loadGenres(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// FindByName retrieves a title by its unique name. Returns nil if not found.
func (s *TitleStore) FindByName(ctx context.Context, name string) (*models.Title, error) {
	row := s.db.QueryRowContext(ctx,
		titleSelect+` WHERE t.name = $1`+titleGroupBy, name)
	t, err := scanTitle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find title by name: %w", err)
	}
	return t, nil
}

// loadGenres attaches genres to the given titles in one query.
func (s *TitleStore) loadGenres(ctx context.Context, titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(titles))
	for i := range titles {
		ids[i] = titles[i].ID
	}

	q, args := inClause(`
		SELECT tg.title_id, g.id, g.name, g.slug, g.created_at
		FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id IN `, ids)
	rows, err := s.db.QueryContext(ctx, q+` ORDER BY g.name`, args...)
	if err != nil {
		return fmt.Errorf("load genres: %w", err)
	}
	defer rows.Close()

	byTitle := make(map[uuid.UUID][]models.Genre, len(titles))
	for rows.Next() {
		var (
			titleID uuid.UUID
			g       models.Genre
		)
		if err := rows.Scan(&titleID, &g.ID, &g.Name, &g.Slug, &g.CreatedAt); err != nil {
			return fmt.Errorf("scan title genre: %w", err)
		}
		byTitle[titleID] = append(byTitle[titleID], g)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range titles {
		titles[i].Genres = byTitle[titles[i].ID]
	}
	return nil
}

// Create inserts a title and its genre links in one transaction, then
// returns the full read representation.
func (s *TitleStore) Create(ctx context.Context, name string, year *int, description *string, categoryID *uuid.UUID, genreIDs []uuid.UUID) (*models.Title, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO titles (name, year, description, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, name, year, description, categoryID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create title: %w", err)
	}

	for _, gid := range genreIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2)
		`, id, gid); err != nil {
			return nil, fmt.Errorf("link title genre: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit title: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update replaces a title's scalar fields and genre links in one
// transaction and returns the fresh read representation.
func (s *TitleStore) Update(ctx context.Context, id uuid.UUID, name string, year *int, description *string, categoryID *uuid.UUID, genreIDs []uuid.UUID) (*models.Title, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE titles SET name = $1, year = $2, description = $3, category_id = $4
		WHERE id = $5
	`, name, year, description, categoryID, id); err != nil {
		return nil, fmt.Errorf("update title: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM title_genres WHERE title_id = $1
	`, id); err != nil {
		return nil, fmt.Errorf("clear title genres: %w", err)
	}
	for _, gid := range genreIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2)
		`, id, gid); err != nil {
			return nil, fmt.Errorf("link title genre: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit title update: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Delete removes a title. Its reviews (and their comments) cascade away.
// Returns false if no title had the ID.
func (s *TitleStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete title: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete title rows: %w", err)
	}
	return n > 0, nil
}
