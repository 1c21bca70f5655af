package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fretvault/api/internal/domain/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrStorageUnavailable = errors.New("object storage not configured")
	ErrUploadMissing      = fmt.Errorf("%w: object has not been uploaded", ErrConflict)
)

// InputError carries per-field messages. It matches ErrInvalidInput with errors.Is.
type InputError struct {
	Details map[string]string
}

func (e *InputError) Error() string {
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Details[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(field, msg string) error {
	return &InputError{Details: map[string]string{field: msg}}
}

// repoErr translates repository sentinels into application ones and wraps the rest.
func repoErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}
