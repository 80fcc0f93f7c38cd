// catalog_test.go covers the taxonomy and title handlers: the admin
// write gates, slug resolution and the read-time rating average.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"yamdb/internal/models"
)

func TestCategoryCreate_AdminGate(t *testing.T) {
	env := newTestEnv(t)
	plain := createUser(t, env, "cat-plain@test.local", "cat-plain", models.RoleUser)
	admin := createUser(t, env, "cat-admin@test.local", "cat-admin", models.RoleAdmin)
	t.Cleanup(func() { env.DB.Exec(`DELETE FROM categories WHERE slug = $1`, "handler-cat") })

	body := `{"name":"handler-cat","slug":"handler-cat"}`

	// Anonymous: 401.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.Categories.Create(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// Plain user: 403.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(body))
	rec = httptest.NewRecorder()
	env.Categories.Create(rec, withUser(req, plain))
	if rec.Code != http.StatusForbidden {
		t.Errorf("plain user: got %d, want %d", rec.Code, http.StatusForbidden)
	}

	// Admin: 201.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(body))
	rec = httptest.NewRecorder()
	env.Categories.Create(rec, withUser(req, admin))
	if rec.Code != http.StatusCreated {
		t.Errorf("admin: got %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
}

func TestCategoryCreate_BadSlug(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env, "cat-slug-admin@test.local", "cat-slug-admin", models.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories",
		strings.NewReader(`{"name":"bad","slug":"no spaces!"}`))
	rec := httptest.NewRecorder()
	env.Categories.Create(rec, withUser(req, admin))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCategoryDelete_Missing404(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env, "cat-del-admin@test.local", "cat-del-admin", models.RoleAdmin)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/no-such-slug", nil)
	req = withChiParams(withUser(req, admin), "slug", "no-such-slug")
	rec := httptest.NewRecorder()
	env.Categories.Delete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestTitleCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env, "title-val-admin@test.local", "title-val-admin", models.RoleAdmin)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"year":2000}`, "name"},
		{"future year", `{"name":"handler-future","year":3000}`, "year"},
		{"unknown category", `{"name":"handler-nocat","category":"no-such-cat"}`, "category"},
		{"unknown genre", `{"name":"handler-nogenre","genre":["no-such-genre"]}`, "genre"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/titles", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			env.Titles.Create(rec, withUser(req, admin))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("got %d, want %d (%s)", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
			var resp struct {
				FieldErrors map[string]string `json:"field_errors"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := resp.FieldErrors[tc.field]; !ok {
				t.Errorf("expected an error on %q, got %v", tc.field, resp.FieldErrors)
			}
		})
	}
}

func TestTitleCreate_DuplicateName(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env, "title-dup-admin@test.local", "title-dup-admin", models.RoleAdmin)
	t.Cleanup(func() { env.DB.Exec(`DELETE FROM titles WHERE name = $1`, "handler-dup-title") })

	body := `{"name":"handler-dup-title"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/titles", strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.Titles.Create(rec, withUser(req, admin))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create: got %d (%s)", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/titles", strings.NewReader(body))
	rec = httptest.NewRecorder()
	env.Titles.Create(rec, withUser(req, admin))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate create: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestTitleGet_RatingAverage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	t.Cleanup(func() { env.DB.Exec(`DELETE FROM titles WHERE name = $1`, "handler-rated-title") })

	title, err := env.TitleStore.Create(ctx, "handler-rated-title", nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("create title: %v", err)
	}

	get := func() map[string]any {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/"+title.ID.String(), nil)
		req = withChiParams(req, "titleID", title.ID.String())
		rec := httptest.NewRecorder()
		env.Titles.Get(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("get title: %d (%s)", rec.Code, rec.Body.String())
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return body
	}

	// No reviews yet: rating is null, not zero.
	if got := get()["rating"]; got != nil {
		t.Errorf("rating without reviews: got %v, want null", got)
	}

	r1 := createUser(t, env, "rated-r1@test.local", "rated-r1", models.RoleUser)
	r2 := createUser(t, env, "rated-r2@test.local", "rated-r2", models.RoleUser)
	if _, err := env.ReviewStore.Create(ctx, title.ID, r1.ID, "great", 7); err != nil {
		t.Fatalf("review 1: %v", err)
	}
	if _, err := env.ReviewStore.Create(ctx, title.ID, r2.ID, "fine", 10); err != nil {
		t.Fatalf("review 2: %v", err)
	}

	if got, ok := get()["rating"].(float64); !ok || got != 8.5 {
		t.Errorf("rating: got %v, want 8.5", get()["rating"])
	}
}

func TestTitleGet_UnknownID404(t *testing.T) {
	env := newTestEnv(t)

	for _, raw := range []string{uuid.NewString(), "not-a-uuid"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/"+raw, nil)
		req = withChiParams(req, "titleID", raw)
		rec := httptest.NewRecorder()
		env.Titles.Get(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: got %d, want %d", raw, rec.Code, http.StatusNotFound)
		}
	}
}

func TestTitlePatch_MergesPartialPayload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := createUser(t, env, "title-patch-admin@test.local", "title-patch-admin", models.RoleAdmin)
	t.Cleanup(func() { env.DB.Exec(`DELETE FROM titles WHERE name IN ($1, $2)`, "handler-patch-title", "handler-patch-title-2") })

	year := 1990
	desc := "original description"
	title, err := env.TitleStore.Create(ctx, "handler-patch-title", &year, &desc, nil, nil)
	if err != nil {
		t.Fatalf("create title: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/titles/"+title.ID.String(),
		strings.NewReader(`{"name":"handler-patch-title-2"}`))
	req = withChiParams(withUser(req, admin), "titleID", title.ID.String())
	rec := httptest.NewRecorder()
	env.Titles.Patch(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: %d (%s)", rec.Code, rec.Body.String())
	}

	updated, err := env.TitleStore.FindByID(ctx, title.ID)
	if err != nil || updated == nil {
		t.Fatalf("reload title: %v %v", updated, err)
	}
	if updated.Name != "handler-patch-title-2" {
		t.Errorf("name not updated: %q", updated.Name)
	}
	if updated.Year == nil || *updated.Year != 1990 {
		t.Error("year should have carried over")
	}
	if updated.Description == nil || *updated.Description != desc {
		t.Error("description should have carried over")
	}
}
