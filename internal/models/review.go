// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's verdict on a title: free text plus a score in [1,10].
// At most one review exists per (author, title) pair. PubDate is assigned
// by the server at creation and never changes.
type Review struct {
	ID       uuid.UUID `json:"id"`
	TitleID  uuid.UUID `json:"-"`
	AuthorID uuid.UUID `json:"-"`
	Author   string    `json:"author"` // author's username
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Comment is a user's reply under a review.
type Comment struct {
	ID       uuid.UUID `json:"id"`
	ReviewID uuid.UUID `json:"-"`
	AuthorID uuid.UUID `json:"-"`
	Author   string    `json:"author"` // author's username
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}
