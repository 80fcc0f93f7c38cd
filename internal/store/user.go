// Package store provides database access methods for all catalog
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"yamdb/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, username, first_name, last_name, bio, role,
	is_staff, is_superuser, code_secret, code_counter, created_at, updated_at`

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.Bio,
		&u.Role, &u.IsStaff, &u.IsSuperuser, &u.CodeSecret, &u.CodeCounter,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail retrieves a user by email address. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByUsername retrieves a user by username. Returns nil if not found.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// List returns users ordered by username. When search is non-empty, only
// usernames containing it (case-insensitive) are returned.
func (s *UserStore) List(ctx context.Context, search string, limit, offset int) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%')
		ORDER BY username
		LIMIT $2 OFFSET $3
	`, escapeLike(search), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Create inserts a new user and returns the stored record.
func (s *UserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, first_name, last_name, bio, role,
			is_staff, is_superuser, code_secret)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+userColumns,
		u.Email, u.Username, u.FirstName, u.LastName, u.Bio, u.Role,
		u.IsStaff, u.IsSuperuser, u.CodeSecret,
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Update modifies an existing user's profile, role and staff/superuser
// flags.
func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			email = $1, username = $2, first_name = $3, last_name = $4,
			bio = $5, role = $6, is_staff = $7, is_superuser = $8,
			updated_at = NOW()
		WHERE id = $9
	`, u.Email, u.Username, u.FirstName, u.LastName, u.Bio, u.Role,
		u.IsStaff, u.IsSuperuser, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// BumpCodeCounter advances the user's confirmation-code counter and
// returns the new value. Every previously issued code becomes invalid
// the moment this commits.
func (s *UserStore) BumpCodeCounter(ctx context.Context, id uuid.UUID) (int64, error) {
	var counter int64
	err := s.db.QueryRowContext(ctx, `
		UPDATE users SET code_counter = code_counter + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING code_counter
	`, id).Scan(&counter)
	if err != nil {
		return 0, fmt.Errorf("bump code counter: %w", err)
	}
	return counter, nil
}

// Delete removes a user by ID. Their reviews and comments cascade away
// at the database level.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
