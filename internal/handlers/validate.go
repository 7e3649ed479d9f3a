package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for user-supplied fields.
const (
	maxTitleLen    = 300
	maxContentLen  = 50_000
	maxNameLen     = 100
	maxDescLen     = 1_000
	minPasswordLen = 6
)

// validateThread checks thread inputs and returns each problem found.
func validateThread(title, content string) []string {
	var msgs []string
	if strings.TrimSpace(title) == "" {
		msgs = append(msgs, "title can't be blank")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		msgs = append(msgs, "title is too long (max 300 characters)")
	}
	if strings.TrimSpace(content) == "" {
		msgs = append(msgs, "content can't be blank")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		msgs = append(msgs, "content is too long (max 50,000 characters)")
	}
	return msgs
}

// validatePost checks post content.
func validatePost(content string) []string {
	var msgs []string
	if strings.TrimSpace(content) == "" {
		msgs = append(msgs, "content can't be blank")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		msgs = append(msgs, "content is too long (max 50,000 characters)")
	}
	return msgs
}

// validateCategory checks category name and description lengths; blank
// checks live in the store alongside the hierarchy rules.
func validateCategory(name, description string) []string {
	var msgs []string
	if utf8.RuneCountInString(name) > maxNameLen {
		msgs = append(msgs, "name is too long (max 100 characters)")
	}
	if utf8.RuneCountInString(description) > maxDescLen {
		msgs = append(msgs, "description is too long (max 1,000 characters)")
	}
	return msgs
}

// validateCredentials checks registration inputs.
func validateCredentials(email, password string) []string {
	var msgs []string
	email = strings.TrimSpace(email)
	if email == "" {
		msgs = append(msgs, "email can't be blank")
	} else if !strings.Contains(email, "@") {
		msgs = append(msgs, "email is invalid")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		msgs = append(msgs, "password is too short (minimum is 6 characters)")
	}
	return msgs
}
