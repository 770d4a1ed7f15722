package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// ValidationError reports bad input shape or range. Input is never clamped.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports an unknown member, date, deposit or snapshot reference.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError reports a concurrent modification of a date's allocation unit,
// or an edit to a date whose billing month is closed. Callers retry; nothing is merged.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// VersionConflict builds the ConflictError returned for a stale expected version.
func VersionConflict(date string, expected, actual int64) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf("daily cost for %s is at version %d, expected %d", date, actual, expected)}
}

// PartialBatchFailure aggregates per-member failures of a batch that still
// persisted its successes.
type PartialBatchFailure struct {
	Operation string
	Failed    map[string]error
}

func (e *PartialBatchFailure) Error() string {
	ids := e.FailedIDs()
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %v", id, e.Failed[id]))
	}
	return fmt.Sprintf("%s failed for %d member(s): %s", e.Operation, len(ids), strings.Join(parts, "; "))
}

// FailedIDs returns the failed member IDs in sorted order.
func (e *PartialBatchFailure) FailedIDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
