package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"yamdb/internal/authz"
	"yamdb/internal/models"
	"yamdb/internal/store"
)

// Reviews groups the handlers for reviews nested under a title.
type Reviews struct {
	reviews *store.ReviewStore
	titles  *store.TitleStore
}

// NewReviews creates a new Reviews handler group.
func NewReviews(reviews *store.ReviewStore, titles *store.TitleStore) *Reviews {
	return &Reviews{
		reviews: reviews,
		titles:  titles,
	}
}

// List handles GET /titles/{titleID}/reviews, newest first.
func (h *Reviews) List(w http.ResponseWriter, r *http.Request) {
	titleID, ok := h.titleID(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)
	items, err := h.reviews.ListByTitle(r.Context(), titleID, limit, offset)
	if err != nil {
		serverError(w, "list reviews failed", err)
		return
	}
	if items == nil {
		items = []models.Review{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /titles/{titleID}/reviews/{reviewID}.
func (h *Reviews) Get(w http.ResponseWriter, r *http.Request) {
	review, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// Create handles POST /titles/{titleID}/reviews. One review per author
// per title; a second attempt is a validation error, not a conflict.
func (h *Reviews) Create(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if !authz.Allow(user, authz.ActionCreate, authz.ResourceReview) {
		forbid(w, user)
		return
	}

	titleID, ok := h.titleID(w, r)
	if !ok {
		return
	}

	var req struct {
		Text  string `json:"text"`
		Score int    `json:"score"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	errs := map[string]string{}
	if msg := validateText(req.Text); msg != "" {
		errs["text"] = msg
	}
	if msg := validateScore(req.Score); msg != "" {
		errs["score"] = msg
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	exists, err := h.reviews.ExistsForAuthor(r.Context(), titleID, user.ID)
	if err != nil {
		serverError(w, "review existence check failed", err)
		return
	}
	if exists {
		writeFieldErrors(w, map[string]string{"title": "You have already reviewed this title."})
		return
	}

	created, err := h.reviews.Create(r.Context(), titleID, user.ID, req.Text, req.Score)
	if err != nil {
		// The unique index backstops the check above under concurrency.
		if store.IsUniqueViolation(err) {
			writeFieldErrors(w, map[string]string{"title": "You have already reviewed this title."})
			return
		}
		serverError(w, "create review failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Patch handles PATCH /titles/{titleID}/reviews/{reviewID}. Author,
// moderator or admin only; author and pub_date never change.
func (h *Reviews) Patch(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	review, ok := h.load(w, r)
	if !ok {
		return
	}
	if !authz.AllowInstance(user, authz.ActionUpdate, review.AuthorID) {
		forbid(w, user)
		return
	}

	var req struct {
		Text  *string `json:"text"`
		Score *int    `json:"score"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	text := review.Text
	score := review.Score
	errs := map[string]string{}
	if req.Text != nil {
		if msg := validateText(*req.Text); msg != "" {
			errs["text"] = msg
		}
		text = *req.Text
	}
	if req.Score != nil {
		if msg := validateScore(*req.Score); msg != "" {
			errs["score"] = msg
		}
		score = *req.Score
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	if err := h.reviews.Update(r.Context(), review.ID, text, score); err != nil {
		serverError(w, "update review failed", err)
		return
	}
	review.Text = text
	review.Score = score
	writeJSON(w, http.StatusOK, review)
}

// Delete handles DELETE /titles/{titleID}/reviews/{reviewID}.
func (h *Reviews) Delete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	review, ok := h.load(w, r)
	if !ok {
		return
	}
	if !authz.AllowInstance(user, authz.ActionDelete, review.AuthorID) {
		forbid(w, user)
		return
	}
	if err := h.reviews.Delete(r.Context(), review.ID); err != nil {
		serverError(w, "delete review failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// titleID parses the title route parameter and 404s when the title
// does not exist, so nested routes never leak ghost parents.
func (h *Reviews) titleID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "titleID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "title not found")
		return uuid.Nil, false
	}
	title, err := h.titles.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, "load title failed", err)
		return uuid.Nil, false
	}
	if title == nil {
		writeDetail(w, http.StatusNotFound, "title not found")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Reviews) load(w http.ResponseWriter, r *http.Request) (*models.Review, bool) {
	titleID, ok := h.titleID(w, r)
	if !ok {
		return nil, false
	}
	reviewID, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "review not found")
		return nil, false
	}
	review, err := h.reviews.FindByID(r.Context(), titleID, reviewID)
	if err != nil {
		serverError(w, "load review failed", err)
		return nil, false
	}
	if review == nil {
		writeDetail(w, http.StatusNotFound, "review not found")
		return nil, false
	}
	return review, true
}
