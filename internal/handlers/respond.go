// Package handlers contains the JSON HTTP handler groups for the API:
// auth, categories, genres, titles, reviews, comments and users. Every
// handler writes either a resource body, {"detail": ...} for single
// errors, or {"field_errors": {...}} for per-field validation failures.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"yamdb/internal/middleware"
	"yamdb/internal/models"
)

// Pagination bounds for list endpoints.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeFieldErrors(w http.ResponseWriter, errs map[string]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"field_errors": errs})
}

func serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	writeDetail(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON reads the request body into dst and writes a 400 response
// on failure. Returns false when the caller should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// forbid writes the correct denial for the caller: 401 when anonymous,
// 403 when authenticated but not allowed.
func forbid(w http.ResponseWriter, user *models.User) {
	if user == nil {
		writeDetail(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeDetail(w, http.StatusForbidden, "you do not have permission to perform this action")
}

// pageParams resolves page/page_size query parameters into a
// limit/offset pair. Invalid values fall back to the defaults.
func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	return limit, (page - 1) * limit
}

// currentUser is a shorthand for pulling the authenticated user (or
// nil) out of the request context.
func currentUser(r *http.Request) *models.User {
	return middleware.UserFromCtx(r.Context())
}
