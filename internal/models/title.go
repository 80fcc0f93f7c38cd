// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Title is a catalog entry (a book, film, album, and so on). Rating is a
// read-time projection — the average of all review scores — and is nil
// when the title has no reviews. It is never persisted.
type Title struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Year        *int      `json:"year"`
	Rating      *float64  `json:"rating"`
	Description *string   `json:"description"`
	Category    *Category `json:"category"`
	Genres      []Genre   `json:"genre"`
	CreatedAt   time.Time `json:"-"`
}
