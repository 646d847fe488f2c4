package gists

import (
	"fmt"
	"strings"
)

const (
	maxUsernameLength = 39 // GitHub login limit

	// GitHub API pagination limits
	maxPage    = 100
	maxPerPage = 100

	defaultPage    = 1
	defaultPerPage = 30
)

// ErrInvalidUsername is returned for path segments that cannot be a
// GitHub login.
type ErrInvalidUsername struct {
	Username string
	Reason   string
}

func (e *ErrInvalidUsername) Error() string {
	return fmt.Sprintf("invalid username %q: %s", e.Username, e.Reason)
}

// ValidateUsername checks that a username is a syntactically valid GitHub
// login: alphanumeric or hyphen, no leading, trailing or consecutive
// hyphens, at most 39 characters.
func ValidateUsername(username string) error {
	if username == "" {
		return &ErrInvalidUsername{Username: username, Reason: "username is required"}
	}

	if len(username) > maxUsernameLength {
		return &ErrInvalidUsername{Username: username, Reason: "username exceeds 39 characters"}
	}

	if strings.HasPrefix(username, "-") || strings.HasSuffix(username, "-") {
		return &ErrInvalidUsername{Username: username, Reason: "username cannot start or end with a hyphen"}
	}

	if strings.Contains(username, "--") {
		return &ErrInvalidUsername{Username: username, Reason: "username cannot contain consecutive hyphens"}
	}

	for _, r := range username {
		if !isLoginRune(r) {
			return &ErrInvalidUsername{Username: username, Reason: fmt.Sprintf("invalid character %q", r)}
		}
	}

	return nil
}

// ClampPagination applies defaults and upstream API limits to the
// pagination parameters. Zero or negative values select the defaults.
func ClampPagination(page, perPage int) (int, int) {
	if page <= 0 {
		page = defaultPage
	}
	if page > maxPage {
		page = maxPage
	}

	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return page, perPage
}

func isLoginRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-':
		return true
	}
	return false
}
