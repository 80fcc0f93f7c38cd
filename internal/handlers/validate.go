package handlers

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Validation limits for user and catalog fields.
const (
	maxEmailLen    = 254
	maxUsernameLen = 150
	maxNameLen     = 256
	maxSlugLen     = 50
	maxTextLen     = 10_000
	maxBioLen      = 1_000

	minScore = 1
	maxScore = 10
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// validateEmail returns an error message or "" when the address is fine.
func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long (max 254 characters)."
	}
	if !emailPattern.MatchString(email) {
		return "Enter a valid email address."
	}
	return ""
}

func validateUsername(username string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return "Username is required."
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "Username is too long (max 150 characters)."
	}
	return ""
}

// validateSlugged checks the shared name+slug shape of categories and genres.
func validateSlugged(name, slug string) map[string]string {
	errs := map[string]string{}
	name = strings.TrimSpace(name)
	if name == "" {
		errs["name"] = "Name is required."
	} else if utf8.RuneCountInString(name) > maxNameLen {
		errs["name"] = "Name is too long (max 256 characters)."
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		errs["slug"] = "Slug is required."
	} else if utf8.RuneCountInString(slug) > maxSlugLen {
		errs["slug"] = "Slug is too long (max 50 characters)."
	} else if !slugPattern.MatchString(slug) {
		errs["slug"] = "Slug may only contain letters, numbers, hyphens and underscores."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateScore(score int) string {
	if score < minScore || score > maxScore {
		return "Score must be between 1 and 10."
	}
	return ""
}

// validateYear rejects publication years in the future.
func validateYear(year int) string {
	if year > time.Now().Year() {
		return "Year cannot be in the future."
	}
	return ""
}

func validateText(text string) string {
	if strings.TrimSpace(text) == "" {
		return "Text is required."
	}
	if utf8.RuneCountInString(text) > maxTextLen {
		return "Text is too long (max 10,000 characters)."
	}
	return ""
}
