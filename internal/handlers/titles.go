// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"yamdb/internal/authz"
	"yamdb/internal/models"
	"yamdb/internal/store"
)

// Titles groups the catalog title handlers.
type Titles struct {
	titles     *store.TitleStore
	categories *store.CategoryStore
	genres     *store.GenreStore
}

// NewTitles creates a new Titles handler group.
func NewTitles(titles *store.TitleStore, categories *store.CategoryStore, genres *store.GenreStore) *Titles {
	return &Titles{
		titles:     titles,
		categories: categories,
		genres:     genres,
	}
}

// titlePayload is the write shape for POST and PATCH. Pointers
// distinguish "absent" from "set to empty" so PATCH can merge.
type titlePayload struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genre       []string `json:"genre"`
}

// List handles GET /titles with optional name/year/genre/category filters.
func (t *Titles) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.TitleFilter{
		Name:     q.Get("name"),
		Genre:    q.Get("genre"),
		Category: q.Get("category"),
	}
	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeFieldErrors(w, map[string]string{"year": "Year must be a number."})
			return
		}
		filter.Year = &year
	}

	limit, offset := pageParams(r)
	items, err := t.titles.List(r.Context(), filter, limit, offset)
	if err != nil {
		serverError(w, "list titles failed", err)
		return
	}
	if items == nil {
		items = []models.Title{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /titles/{titleID}.
func (t *Titles) Get(w http.ResponseWriter, r *http.Request) {
	title, ok := t.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, title)
}

// Create handles POST /titles (admin only).
func (t *Titles) Create(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionCreate, authz.ResourceTitle) {
		forbid(w, user)
		return
	}

	var req titlePayload
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := map[string]string{}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		errs["name"] = "Name is required."
	}
	name := ""
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		errs["name"] = "Name is too long (max 256 characters)."
	}
	if req.Year != nil {
		if msg := validateYear(*req.Year); msg != "" {
			errs["year"] = msg
		}
	}

	categoryID, genreIDs := t.resolveRelations(r.Context(), req.Category, req.Genre, errs, w)
	if categoryID == nil {
		// resolveRelations already wrote a server error.
		return
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	if existing, err := t.titles.FindByName(r.Context(), name); err != nil {
		serverError(w, "title name check failed", err)
		return
	} else if existing != nil {
		writeFieldErrors(w, map[string]string{"name": "A title with this name already exists."})
		return
	}

	created, err := t.titles.Create(r.Context(), name, req.Year, req.Description, categoryID.id, genreIDs.ids)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeFieldErrors(w, map[string]string{"name": "A title with this name already exists."})
			return
		}
		serverError(w, "create title failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Patch handles PATCH /titles/{titleID} (admin only). Absent fields
// keep their current values.
func (t *Titles) Patch(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionUpdate, authz.ResourceTitle) {
		forbid(w, user)
		return
	}

	title, ok := t.load(w, r)
	if !ok {
		return
	}

	var req titlePayload
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := map[string]string{}
	name := title.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			errs["name"] = "Name is required."
		} else if utf8.RuneCountInString(name) > maxNameLen {
			errs["name"] = "Name is too long (max 256 characters)."
		}
	}
	year := title.Year
	if req.Year != nil {
		if msg := validateYear(*req.Year); msg != "" {
			errs["year"] = msg
		}
		year = req.Year
	}
	description := title.Description
	if req.Description != nil {
		description = req.Description
	}

	categoryID, genreIDs := t.resolveRelations(r.Context(), req.Category, req.Genre, errs, w)
	if categoryID == nil {
		return
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	// Absent relations carry over from the stored row.
	catID := categoryID.id
	if req.Category == nil {
		if title.Category != nil {
			catID = &title.Category.ID
		}
	}
	ids := genreIDs.ids
	if req.Genre == nil {
		for _, g := range title.Genres {
			ids = append(ids, g.ID)
		}
	}

	if name != title.Name {
		if existing, err := t.titles.FindByName(r.Context(), name); err != nil {
			serverError(w, "title name check failed", err)
			return
		} else if existing != nil && existing.ID != title.ID {
			writeFieldErrors(w, map[string]string{"name": "A title with this name already exists."})
			return
		}
	}

	updated, err := t.titles.Update(r.Context(), title.ID, name, year, description, catID, ids)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeFieldErrors(w, map[string]string{"name": "A title with this name already exists."})
			return
		}
		serverError(w, "update title failed", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /titles/{titleID} (admin only). Reviews and
// their comments go with it.
func (t *Titles) Delete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionDelete, authz.ResourceTitle) {
		forbid(w, user)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "titleID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "title not found")
		return
	}
	deleted, err := t.titles.Delete(r.Context(), id)
	if err != nil {
		serverError(w, "delete title failed", err)
		return
	}
	if !deleted {
		writeDetail(w, http.StatusNotFound, "title not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// load fetches the title named in the URL, writing a 404 when it does
// not exist.
func (t *Titles) load(w http.ResponseWriter, r *http.Request) (*models.Title, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "titleID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "title not found")
		return nil, false
	}
	title, err := t.titles.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, "load title failed", err)
		return nil, false
	}
	if title == nil {
		writeDetail(w, http.StatusNotFound, "title not found")
		return nil, false
	}
	return title, true
}

// resolvedCategory and resolvedGenres wrap the optional relation IDs so
// a nil return can signal "server error already written".
type resolvedCategory struct{ id *uuid.UUID }
type resolvedGenres struct{ ids []uuid.UUID }

// resolveRelations turns a category slug and genre slug list into IDs,
// recording unknown slugs as field errors. A nil,nil return means a
// 500 was already written.
func (t *Titles) resolveRelations(ctx context.Context, category *string, genreSlugs []string, errs map[string]string, w http.ResponseWriter) (*resolvedCategory, *resolvedGenres) {
	rc := &resolvedCategory{}
	if category != nil && *category != "" {
		cat, err := t.categories.FindBySlug(ctx, *category)
		if err != nil {
			serverError(w, "resolve category failed", err)
			return nil, nil
		}
		if cat == nil {
			errs["category"] = "Unknown category slug."
		} else {
			rc.id = &cat.ID
		}
	}

	rg := &resolvedGenres{}
	if len(genreSlugs) > 0 {
		genres, err := t.genres.FindBySlugs(ctx, genreSlugs)
		if err != nil {
			serverError(w, "resolve genres failed", err)
			return nil, nil
		}
		if len(genres) != len(uniqueStrings(genreSlugs)) {
			errs["genre"] = "Unknown genre slug."
		}
		for _, g := range genres {
			rg.ids = append(rg.ids, g.ID)
		}
	}
	return rc, rg
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
