// users_test.go covers the admin account surface and the self-service
// /users/me endpoints, in particular the role pinning on self edits.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"yamdb/internal/models"
)

func TestUsersList_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	plain := createUser(t, env, "ulist-plain@test.local", "ulist-plain", models.RoleUser)
	mod := createUser(t, env, "ulist-mod@test.local", "ulist-mod", models.RoleModerator)
	admin := createUser(t, env, "ulist-admin@test.local", "ulist-admin", models.RoleAdmin)

	list := func(as *models.User) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		if as != nil {
			req = withUser(req, as)
		}
		rec := httptest.NewRecorder()
		env.Users.List(rec, req)
		return rec.Code
	}

	if got := list(nil); got != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want %d", got, http.StatusUnauthorized)
	}
	if got := list(plain); got != http.StatusForbidden {
		t.Errorf("plain: got %d, want %d", got, http.StatusForbidden)
	}
	// Moderators moderate content, not accounts.
	if got := list(mod); got != http.StatusForbidden {
		t.Errorf("moderator: got %d, want %d", got, http.StatusForbidden)
	}
	if got := list(admin); got != http.StatusOK {
		t.Errorf("admin: got %d, want %d", got, http.StatusOK)
	}
}

func TestUsersCreate_AdminSetsRole(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env, "ucreate-admin@test.local", "ucreate-admin", models.RoleAdmin)
	email := "ucreate-mod@test.local"
	t.Cleanup(func() { env.DB.Exec(`DELETE FROM users WHERE email = $1`, email) })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users",
		strings.NewReader(`{"email":"`+email+`","username":"ucreate-mod","role":"moderator"}`))
	rec := httptest.NewRecorder()
	env.Users.Create(rec, withUser(req, admin))
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d (%s)", rec.Code, rec.Body.String())
	}

	created, err := env.UserStore.FindByEmail(context.Background(), email)
	if err != nil || created == nil {
		t.Fatalf("FindByEmail: %v %v", created, err)
	}
	if created.Role != models.RoleModerator {
		t.Errorf("role: got %s, want moderator", created.Role)
	}
}

func TestUsersPatch_AdminChangesRole(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env, "upatch-admin@test.local", "upatch-admin", models.RoleAdmin)
	target := createUser(t, env, "upatch-target@test.local", "upatch-target", models.RoleUser)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/upatch-target",
		strings.NewReader(`{"role":"moderator","is_staff":true}`))
	req = withChiParams(withUser(req, admin), "username", target.Username)
	rec := httptest.NewRecorder()
	env.Users.Patch(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d (%s)", rec.Code, rec.Body.String())
	}

	reloaded, err := env.UserStore.FindByID(context.Background(), target.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("FindByID: %v %v", reloaded, err)
	}
	if reloaded.Role != models.RoleModerator {
		t.Errorf("role: got %s, want moderator", reloaded.Role)
	}
	if !reloaded.IsStaff {
		t.Error("is_staff flag did not persist through the patch")
	}
}

func TestUsersMe_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	env.Users.Me(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestUsersMe_HidesCodeSecret(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env, "ume-secret@test.local", "ume-secret", models.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	env.Users.Me(rec, withUser(req, user))
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), user.CodeSecret) {
		t.Error("response leaks the confirmation-code secret")
	}
}

func TestUsersPatchMe_RolePinned(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env, "ume-pin@test.local", "ume-pin", models.RoleUser)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/me",
		strings.NewReader(`{"bio":"just a reader","role":"admin","is_superuser":true}`))
	rec := httptest.NewRecorder()
	env.Users.PatchMe(rec, withUser(req, user))
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Bio  string `json:"bio"`
		Role string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Bio != "just a reader" {
		t.Errorf("bio: got %q", resp.Bio)
	}
	if resp.Role != string(models.RoleUser) {
		t.Errorf("role escalated via self edit: %s", resp.Role)
	}

	reloaded, err := env.UserStore.FindByID(context.Background(), user.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("FindByID: %v %v", reloaded, err)
	}
	if reloaded.Role != models.RoleUser || reloaded.IsSuperuser {
		t.Error("privileged fields must not change through /users/me")
	}
}

func TestUsersGet_Missing404(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, env, "uget-admin@test.local", "uget-admin", models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/no-such-user", nil)
	req = withChiParams(withUser(req, admin), "username", "no-such-user")
	rec := httptest.NewRecorder()
	env.Users.Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}
