package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jmylchreest/widgetdash/internal/model"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByCreated SortField = "created"
	SortByExpires SortField = "expires"
	SortByKind    SortField = "type"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField
	Order SortOrder
}

// DefaultSortOptions matches the stack order: oldest first.
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByCreated,
		Order: SortAsc,
	}
}

// kindRank orders kinds by severity, most severe first.
var kindRank = map[model.Kind]int{
	model.KindError:   0,
	model.KindWarning: 1,
	model.KindSuccess: 2,
	model.KindInfo:    3,
}

// Sort sorts toasts in place. Persistent toasts sort after every expiring
// one when ordering by expiry.
func Sort(toasts []model.Toast, opts SortOptions) {
	slices.SortStableFunc(toasts, func(a, b model.Toast) int {
		var c int
		switch opts.Field {
		case SortByExpires:
			c = compareExpiry(a, b)
		case SortByKind:
			c = kindRank[a.Kind.Resolve(false)] - kindRank[b.Kind.Resolve(false)]
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if opts.Order == SortDesc {
			return -c
		}
		return c
	})
}

func compareExpiry(a, b model.Toast) int {
	switch {
	case a.Persistent() && b.Persistent():
		return 0
	case a.Persistent():
		return 1
	case b.Persistent():
		return -1
	default:
		return a.ExpiresAt.Compare(b.ExpiresAt)
	}
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "created", "time", "c":
		return SortByCreated, nil
	case "expires", "expiry", "e":
		return SortByExpires, nil
	case "type", "kind", "severity", "t":
		return SortByKind, nil
	default:
		return "", fmt.Errorf("invalid sort field: %s (use created, expires or type)", s)
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending", "a":
		return SortAsc, nil
	case "desc", "descending", "d":
		return SortDesc, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (use asc or desc)", s)
	}
}
