package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"yamdb/internal/auth"
)

// Seed populates the database with initial development data: a default
// admin account plus a small starter taxonomy. Sign-in is passwordless,
// so the admin logs in by requesting a confirmation code for the seeded
// email address.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	secret, err := auth.NewCodeSecret()
	if err != nil {
		return fmt.Errorf("seed code secret: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, username, role, code_secret)
		VALUES ($1, $2, $3, $4)
	`, "admin@yamdb.local", "admin", "admin", secret)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, c := range []struct{ name, slug string }{
		{"Books", "books"},
		{"Films", "films"},
		{"Music", "music"},
	} {
		if _, err := db.Exec(`
			INSERT INTO categories (name, slug) VALUES ($1, $2)
			ON CONFLICT (slug) DO NOTHING
		`, c.name, c.slug); err != nil {
			return fmt.Errorf("seed category %s: %w", c.slug, err)
		}
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@yamdb.local",
	)

	return nil
}
