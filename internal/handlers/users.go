// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"yamdb/internal/auth"
	"yamdb/internal/authz"
	"yamdb/internal/models"
	"yamdb/internal/store"
)

// Users groups the admin account-management handlers and /users/me.
type Users struct {
	users *store.UserStore
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.UserStore) *Users {
	return &Users{users: users}
}

// userPayload is the write shape for admin creates and all patches.
type userPayload struct {
	Email       *string `json:"email"`
	Username    *string `json:"username"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Bio         *string `json:"bio"`
	Role        *string `json:"role"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// List handles GET /users (admin only) with username search.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionRead, authz.ResourceUser) {
		forbid(w, user)
		return
	}
	limit, offset := pageParams(r)
	items, err := h.users.List(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		serverError(w, "list users failed", err)
		return
	}
	if items == nil {
		items = []models.User{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Create handles POST /users (admin only). Unlike self sign-up, an
// admin may set the username, role and flags directly.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionCreate, authz.ResourceUser) {
		forbid(w, user)
		return
	}

	var req userPayload
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := map[string]string{}
	email := ""
	if req.Email != nil {
		email = strings.TrimSpace(strings.ToLower(*req.Email))
	}
	if msg := validateEmail(email); msg != "" {
		errs["email"] = msg
	}
	username := email
	if req.Username != nil {
		username = strings.TrimSpace(*req.Username)
	}
	if msg := validateUsername(username); msg != "" {
		errs["username"] = msg
	}
	role := models.RoleUser
	if req.Role != nil {
		role = models.Role(*req.Role)
		if !models.ValidRole(role) {
			errs["role"] = "Role must be one of: user, moderator, admin."
		}
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	secret, err := auth.NewCodeSecret()
	if err != nil {
		serverError(w, "generate code secret failed", err)
		return
	}
	newUser := &models.User{
		Email:      email,
		Username:   username,
		Role:       role,
		CodeSecret: secret,
	}
	if req.FirstName != nil {
		newUser.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		newUser.LastName = *req.LastName
	}
	if req.Bio != nil {
		newUser.Bio = *req.Bio
	}
	if req.IsStaff != nil {
		newUser.IsStaff = *req.IsStaff
	}
	if req.IsSuperuser != nil {
		newUser.IsSuperuser = *req.IsSuperuser
	}

	created, err := h.users.Create(r.Context(), newUser)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeFieldErrors(w, map[string]string{"username": "A user with this email or username already exists."})
			return
		}
		serverError(w, "create user failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /users/{username} (admin only).
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionRead, authz.ResourceUser) {
		forbid(w, user)
		return
	}
	target, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// Patch handles PATCH /users/{username} (admin only). An admin may
// change any field, role included.
func (h *Users) Patch(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionUpdate, authz.ResourceUser) {
		forbid(w, user)
		return
	}
	target, ok := h.load(w, r)
	if !ok {
		return
	}

	var req userPayload
	if !decodeJSON(w, r, &req) {
		return
	}
	if ok := h.apply(w, target, &req, true); !ok {
		return
	}

	if err := h.users.Update(r.Context(), target); err != nil {
		if store.IsUniqueViolation(err) {
			writeFieldErrors(w, map[string]string{"username": "A user with this email or username already exists."})
			return
		}
		serverError(w, "update user failed", err)
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// Delete handles DELETE /users/{username} (admin only). The user's
// reviews and comments go with the account.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionDelete, authz.ResourceUser) {
		forbid(w, user)
		return
	}
	target, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), target.ID); err != nil {
		serverError(w, "delete user failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /users/me for any authenticated user.
func (h *Users) Me(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		forbid(w, user)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// PatchMe handles PATCH /users/me. Role and the staff/superuser flags
// are silently pinned: sending them is not an error, they just do not
// change.
func (h *Users) PatchMe(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		forbid(w, user)
		return
	}

	var req userPayload
	if !decodeJSON(w, r, &req) {
		return
	}
	if ok := h.apply(w, user, &req, false); !ok {
		return
	}

	if err := h.users.Update(r.Context(), user); err != nil {
		if store.IsUniqueViolation(err) {
			writeFieldErrors(w, map[string]string{"username": "A user with this email or username already exists."})
			return
		}
		serverError(w, "update profile failed", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// apply merges a patch payload onto target, validating as it goes.
// Privileged fields only move when allowPrivileged is set.
func (h *Users) apply(w http.ResponseWriter, target *models.User, req *userPayload, allowPrivileged bool) bool {
	errs := map[string]string{}
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if msg := validateEmail(email); msg != "" {
			errs["email"] = msg
		}
		target.Email = email
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if msg := validateUsername(username); msg != "" {
			errs["username"] = msg
		}
		target.Username = username
	}
	if req.FirstName != nil {
		target.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		target.LastName = *req.LastName
	}
	if req.Bio != nil {
		if len(*req.Bio) > maxBioLen {
			errs["bio"] = "Bio is too long (max 1,000 characters)."
		}
		target.Bio = *req.Bio
	}
	if allowPrivileged {
		if req.Role != nil {
			role := models.Role(*req.Role)
			if !models.ValidRole(role) {
				errs["role"] = "Role must be one of: user, moderator, admin."
			}
			target.Role = role
		}
		if req.IsStaff != nil {
			target.IsStaff = *req.IsStaff
		}
		if req.IsSuperuser != nil {
			target.IsSuperuser = *req.IsSuperuser
		}
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return false
	}
	return true
}

func (h *Users) load(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	target, err := h.users.FindByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		serverError(w, "load user failed", err)
		return nil, false
	}
	if target == nil {
		writeDetail(w, http.StatusNotFound, "user not found")
		return nil, false
	}
	return target, true
}
