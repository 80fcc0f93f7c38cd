// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"yamdb/internal/authz"
	"yamdb/internal/models"
	"yamdb/internal/store"
)

// Categories groups the category taxonomy handlers.
type Categories struct {
	store *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(s *store.CategoryStore) *Categories {
	return &Categories{store: s}
}

// List handles GET /categories. Anyone may read; ?search= matches the
// exact name.
func (c *Categories) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	items, err := c.store.List(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		serverError(w, "list categories failed", err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Create handles POST /categories (admin only).
func (c *Categories) Create(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionCreate, authz.ResourceCategory) {
		forbid(w, user)
		return
	}

	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if errs := validateSlugged(req.Name, req.Slug); errs != nil {
		writeFieldErrors(w, errs)
		return
	}

	created, err := c.store.Create(r.Context(), &models.Category{Name: req.Name, Slug: req.Slug})
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeFieldErrors(w, map[string]string{"slug": "A category with this slug already exists."})
			return
		}
		serverError(w, "create category failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Delete handles DELETE /categories/{slug} (admin only). Titles in the
// category keep existing with a null category.
func (c *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionDelete, authz.ResourceCategory) {
		forbid(w, user)
		return
	}

	deleted, err := c.store.DeleteBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "delete category failed", err)
		return
	}
	if !deleted {
		writeDetail(w, http.StatusNotFound, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Genres groups the genre taxonomy handlers. The surface mirrors
// Categories; the two stay separate because deletion semantics differ
// (genre rows cascade out of the join table only).
type Genres struct {
	store *store.GenreStore
}

// NewGenres creates a new Genres handler group.
func NewGenres(s *store.GenreStore) *Genres {
	return &Genres{store: s}
}

// List handles GET /genres.
func (g *Genres) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	items, err := g.store.List(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		serverError(w, "list genres failed", err)
		return
	}
	if items == nil {
		items = []models.Genre{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Create handles POST /genres (admin only).
func (g *Genres) Create(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionCreate, authz.ResourceGenre) {
		forbid(w, user)
		return
	}

	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if errs := validateSlugged(req.Name, req.Slug); errs != nil {
		writeFieldErrors(w, errs)
		return
	}

	created, err := g.store.Create(r.Context(), &models.Genre{Name: req.Name, Slug: req.Slug})
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeFieldErrors(w, map[string]string{"slug": "A genre with this slug already exists."})
			return
		}
		serverError(w, "create genre failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Delete handles DELETE /genres/{slug} (admin only).
func (g *Genres) Delete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionDelete, authz.ResourceGenre) {
		forbid(w, user)
		return
	}

	deleted, err := g.store.DeleteBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "delete genre failed", err)
		return
	}
	if !deleted {
		writeDetail(w, http.StatusNotFound, "genre not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
