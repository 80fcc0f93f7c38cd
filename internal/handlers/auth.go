package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"yamdb/internal/auth"
	"yamdb/internal/mail"
	"yamdb/internal/models"
	"yamdb/internal/store"
)

// Auth groups the passwordless sign-up and token-exchange handlers.
type Auth struct {
	users  *store.UserStore
	tokens *auth.Tokens
	mailer mail.Sender
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, tokens *auth.Tokens, mailer mail.Sender) *Auth {
	return &Auth{
		users:  users,
		tokens: tokens,
		mailer: mailer,
	}
}

// Signup handles POST /auth/email: it registers the address on first
// contact (username defaults to the email) and emails a fresh
// confirmation code. Repeating the request supersedes any earlier code.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if msg := validateEmail(req.Email); msg != "" {
		writeFieldErrors(w, map[string]string{"email": msg})
		return
	}

	ctx := r.Context()
	user, err := a.users.FindByEmail(ctx, req.Email)
	if err != nil {
		serverError(w, "signup lookup failed", err)
		return
	}

	created := false
	if user == nil {
		secret, err := auth.NewCodeSecret()
		if err != nil {
			serverError(w, "generate code secret failed", err)
			return
		}
		user, err = a.users.Create(ctx, &models.User{
			Email:      req.Email,
			Username:   req.Email,
			Role:       models.RoleUser,
			CodeSecret: secret,
		})
		if err != nil {
			if store.IsUniqueViolation(err) {
				writeFieldErrors(w, map[string]string{"email": "A user with this email already exists."})
				return
			}
			serverError(w, "signup create failed", err)
			return
		}
		created = true
	}

	counter, err := a.users.BumpCodeCounter(ctx, user.ID)
	if err != nil {
		serverError(w, "bump code counter failed", err)
		return
	}
	code, err := auth.GenerateCode(user.CodeSecret, counter)
	if err != nil {
		serverError(w, "generate confirmation code failed", err)
		return
	}

	// Delivery is best effort: a mail outage must not fail the signup.
	go func(to, code string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		body := fmt.Sprintf("Your confirmation code is %s", code)
		if err := a.mailer.Send(ctx, to, "Your confirmation code", body); err != nil {
			slog.Error("send confirmation code failed", "email", to, "error", err)
		}
	}(user.Email, code)

	detail := "a new confirmation code has been sent"
	if created {
		detail = "account created, confirmation code sent"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"email":  user.Email,
		"detail": detail,
	})
}

// Token handles POST /auth/token: it exchanges a valid confirmation
// code for a bearer token. Only the most recently issued code is
// accepted.
func (a *Auth) Token(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"confirmation_code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if msg := validateEmail(req.Email); msg != "" {
		writeFieldErrors(w, map[string]string{"email": msg})
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeFieldErrors(w, map[string]string{"confirmation_code": "Confirmation code is required."})
		return
	}

	user, err := a.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		serverError(w, "token lookup failed", err)
		return
	}
	if user == nil {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}

	if !auth.ValidateCode(req.Code, user.CodeSecret, user.CodeCounter) {
		// Deliberately vague: do not reveal whether a code was ever issued.
		writeDetail(w, http.StatusBadRequest, "invalid confirmation code")
		return
	}

	token, err := a.tokens.Mint(user.ID)
	if err != nil {
		serverError(w, "mint token failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
