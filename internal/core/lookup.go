package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/widgetdash/internal/model"
)

// Lookup errors.
var (
	ErrNoMatch        = errors.New("no toast matches")
	ErrAmbiguousMatch = errors.New("toast reference is ambiguous")
)

// LookupByID finds a toast by its full ID. Returns nil if not found.
func LookupByID(toasts []model.Toast, id string) *model.Toast {
	for i := range toasts {
		if toasts[i].ID == id {
			return &toasts[i]
		}
	}
	return nil
}

// LookupByIndex finds a toast by its 1-based stack position.
// Returns nil if index is out of bounds.
func LookupByIndex(toasts []model.Toast, index int) *model.Toast {
	idx := index - 1
	if idx < 0 || idx >= len(toasts) {
		return nil
	}
	return &toasts[idx]
}

// Resolve turns a user reference into a toast. ref is a 1-based index, a
// full ID or a unique case-insensitive ID prefix.
func Resolve(toasts []model.Toast, ref string) (*model.Toast, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNoMatch
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if t := LookupByIndex(toasts, n); t != nil {
			return t, nil
		}
		return nil, fmt.Errorf("%w: index %d", ErrNoMatch, n)
	}

	if t := LookupByID(toasts, ref); t != nil {
		return t, nil
	}

	var found *model.Toast
	prefix := strings.ToUpper(ref)
	for i := range toasts {
		if !strings.HasPrefix(strings.ToUpper(toasts[i].ID), prefix) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %s", ErrAmbiguousMatch, ref)
		}
		found = &toasts[i]
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, ref)
	}
	return found, nil
}

// Search finds toasts whose title or message contains term,
// case-insensitively.
func Search(toasts []model.Toast, term string) []model.Toast {
	if term == "" {
		return toasts
	}

	var result []model.Toast
	for _, t := range toasts {
		if matchesSearch(t, term) {
			result = append(result, t)
		}
	}
	return result
}

func matchesSearch(t model.Toast, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Message), term)
}
