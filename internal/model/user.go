// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// User roles
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// User represents an editor account recorded as page creator or
// last-modifier. Login flows live with the auth collaborator; only the
// credential hash is stored here.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
