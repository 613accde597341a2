// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic for menu tree maintenance,
// page resolution, and publishing.
package service

import (
	"fmt"
	"strconv"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ValidationError describes a field-level input failure. Validation
// happens before any write, so a ValidationError implies no side effects.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DuplicateError reports a unique-constraint conflict, naming the
// conflicting field.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s: %q already exists", e.Field, e.Value)
}

// CycleError reports that a proposed parent assignment would make a
// node its own ancestor. It is raised before any write occurs.
type CycleError struct {
	NodeID   int64
	ParentID int64
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("assigning parent %d to menu item %d would create a cycle", e.ParentID, e.NodeID)
}

// NotFoundError reports that a referenced id or slug does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// NewNotFoundError creates a NotFoundError for a resource and key.
func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// CascadeError reports a failure during a multi-row cascade update.
// The transaction is rolled back, but the failure is surfaced loudly
// since the caller's structural change did not take effect.
type CascadeError struct {
	Op  string
	Err error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade %s failed: %v", e.Op, e.Err)
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}
