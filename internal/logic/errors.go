package logic

import (
	"fmt"
	"strings"
)

// ErrorKind classifies engine failures.
type ErrorKind string

const (
	KindInvalidStatValue       ErrorKind = "invalid_stat_value"
	KindEmptyCategorySet       ErrorKind = "empty_category_set"
	KindInvalidTopK            ErrorKind = "invalid_top_k"
	KindUnknownEntityReference ErrorKind = "unknown_entity_reference"
	KindDuplicateEntity        ErrorKind = "duplicate_entity"
)

// Sentinels for errors.Is. They carry no detail.
var (
	ErrInvalidStatValue       = &Error{Kind: KindInvalidStatValue}
	ErrEmptyCategorySet       = &Error{Kind: KindEmptyCategorySet}
	ErrInvalidTopK            = &Error{Kind: KindInvalidTopK}
	ErrUnknownEntityReference = &Error{Kind: KindUnknownEntityReference}
	ErrDuplicateEntity        = &Error{Kind: KindDuplicateEntity}
)

// Error is a structured engine error.
type Error struct {
	Kind      ErrorKind `json:"kind"`
	Category  string    `json:"category,omitempty"`
	EntityIDs []string  `json:"entity_ids,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Category != "" {
		fmt.Fprintf(&b, " in category %s", e.Category)
	}
	if len(e.EntityIDs) > 0 {
		fmt.Fprintf(&b, " (entities: %s)", strings.Join(e.EntityIDs, ", "))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrInvalidTopK) works
// regardless of detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func invalidStat(cat string, ids []string, detail string) *Error {
	return &Error{Kind: KindInvalidStatValue, Category: cat, EntityIDs: ids, Detail: detail}
}

func unknownEntity(id string) *Error {
	return &Error{Kind: KindUnknownEntityReference, EntityIDs: []string{id}}
}
