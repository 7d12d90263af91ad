package models

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxContentLength is the limit for post and comment bodies, in characters.
const MaxContentLength = 280

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 6
)

var (
	ErrEmptyContent   = errors.New("content cannot be empty")
	ErrContentTooLong = errors.New("content cannot exceed 280 characters")

	ErrInvalidUsername  = errors.New("username must be between 3 and 20 characters")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidEmail     = errors.New("please enter a valid email address")
	ErrMissingLogin     = errors.New("username or email and password are required")
)

var validationErrors = []error{
	ErrEmptyContent, ErrContentTooLong,
	ErrInvalidUsername, ErrPasswordTooShort, ErrInvalidEmail, ErrMissingLogin,
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidation reports whether err was produced by local input validation,
// i.e. no request was sent.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ValidateContent checks a post or comment body before it is sent.
// Whitespace-only content counts as empty.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}

// Validate checks a registration form. The display name is optional.
func (r RegisterRequest) Validate() error {
	if n := utf8.RuneCountInString(r.Username); n < MinUsernameLength || n > MaxUsernameLength {
		return ErrInvalidUsername
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if !emailPattern.MatchString(r.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.UsernameOrEmail) == "" || r.Password == "" {
		return ErrMissingLogin
	}
	return nil
}
