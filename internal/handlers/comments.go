package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"yamdb/internal/authz"
	"yamdb/internal/models"
	"yamdb/internal/store"
)

// Comments groups the handlers for comments nested under a review.
type Comments struct {
	comments *store.CommentStore
	reviews  *store.ReviewStore
	titles   *store.TitleStore
}

// NewComments creates a new Comments handler group.
func NewComments(comments *store.CommentStore, reviews *store.ReviewStore, titles *store.TitleStore) *Comments {
	return &Comments{
		comments: comments,
		reviews:  reviews,
		titles:   titles,
	}
}

// List handles GET /titles/{titleID}/reviews/{reviewID}/comments.
func (h *Comments) List(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := h.reviewID(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)
	items, err := h.comments.ListByReview(r.Context(), reviewID, limit, offset)
	if err != nil {
		serverError(w, "list comments failed", err)
		return
	}
	if items == nil {
		items = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET .../comments/{commentID}.
func (h *Comments) Get(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// Create handles POST .../comments. Any authenticated user may comment.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionCreate, authz.ResourceComment) {
		forbid(w, user)
		return
	}

	reviewID, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateText(req.Text); msg != "" {
		writeFieldErrors(w, map[string]string{"text": msg})
		return
	}

	created, err := h.comments.Create(r.Context(), reviewID, user.ID, req.Text)
	if err != nil {
		serverError(w, "create comment failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Patch handles PATCH .../comments/{commentID}. Author, moderator or
// admin only.
func (h *Comments) Patch(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	comment, ok := h.load(w, r)
	if !ok {
		return
	}
	if !authz.AllowInstance(user, authz.ActionUpdate, comment.AuthorID) {
		forbid(w, user)
		return
	}

	var req struct {
		Text *string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	text := comment.Text
	if req.Text != nil {
		if msg := validateText(*req.Text); msg != "" {
			writeFieldErrors(w, map[string]string{"text": msg})
			return
		}
		text = *req.Text
	}

	if err := h.comments.Update(r.Context(), comment.ID, text); err != nil {
		serverError(w, "update comment failed", err)
		return
	}
	comment.Text = text
	writeJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE .../comments/{commentID}.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	comment, ok := h.load(w, r)
	if !ok {
		return
	}
	if !authz.AllowInstance(user, authz.ActionDelete, comment.AuthorID) {
		forbid(w, user)
		return
	}
	if err := h.comments.Delete(r.Context(), comment.ID); err != nil {
		serverError(w, "delete comment failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reviewID resolves both route parents, 404ing when either the title
// or the review is missing or mismatched.
func (h *Comments) reviewID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	titleID, err := uuid.Parse(chi.URLParam(r, "titleID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "title not found")
		return uuid.Nil, false
	}
	title, err := h.titles.FindByID(r.Context(), titleID)
	if err != nil {
		serverError(w, "load title failed", err)
		return uuid.Nil, false
	}
	if title == nil {
		writeDetail(w, http.StatusNotFound, "title not found")
		return uuid.Nil, false
	}

	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "review not found")
		return uuid.Nil, false
	}
	review, err := h.reviews.FindByID(r.Context(), titleID, reviewID)
	if err != nil {
		serverError(w, "load review failed", err)
		return uuid.Nil, false
	}
	if review == nil {
		writeDetail(w, http.StatusNotFound, "review not found")
		return uuid.Nil, false
	}
	return reviewID, true
}

func (h *Comments) load(w http.ResponseWriter, r *http.Request) (*models.Comment, bool) {
	reviewID, ok := h.reviewID(w, r)
	if !ok {
		return nil, false
	}
	commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "comment not found")
		return nil, false
	}
	comment, err := h.comments.FindByID(r.Context(), reviewID, commentID)
	if err != nil {
		serverError(w, "load comment failed", err)
		return nil, false
	}
	if comment == nil {
		writeDetail(w, http.StatusNotFound, "comment not found")
		return nil, false
	}
	return comment, true
}
