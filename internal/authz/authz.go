// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package authz is the authorization engine. It evaluates two independent
// gates per request: a coarse endpoint-class gate (may this class of actor
// call this action on this resource kind at all) and a fine per-instance
// gate (ownership and role checks against a concrete record). Both must
// pass. The engine is a set of pure functions over the resolved identity;
// a nil user means anonymous.
package authz

import (
	"github.com/google/uuid"

	"yamdb/internal/models"
)

// Action is the request's intent against a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is the kind of record being acted on.
type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceTitle    Resource = "title"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
	ResourceUser     Resource = "user"
)

// Allow is the coarse gate. It decides whether the actor's class may call
// the action on the resource kind, before any instance is involved.
//
//	Category, Genre, Title: read anyone; write admin-equivalent only.
//	Review, Comment:        read anyone; create any authenticated user;
//	                        update/delete any authenticated user (the fine
//	                        gate narrows to author/moderator/admin).
//	User (admin surface):   admin-equivalent only, including read.
func Allow(user *models.User, action Action, resource Resource) bool {
	switch resource {
	case ResourceCategory, ResourceGenre, ResourceTitle:
		if action == ActionRead {
			return true
		}
		return user != nil && user.IsAdmin()

	case ResourceReview, ResourceComment:
		if action == ActionRead {
			return true
		}
		return user != nil

	case ResourceUser:
		return user != nil && user.IsAdmin()
	}
	return false
}

// AllowInstance is the fine gate for object-level actions on reviews and
// comments. Create passes for any authenticated identity (there is no
// instance yet); update and delete require the actor to be the author, a
// moderator, or admin-equivalent.
func AllowInstance(user *models.User, action Action, authorID uuid.UUID) bool {
	if user == nil {
		return false
	}
	if action == ActionRead || action == ActionCreate {
		return true
	}
	return user.ID == authorID || user.IsModerator() || user.IsAdmin()
}
