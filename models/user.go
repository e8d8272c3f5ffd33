// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User represents an account of the catalog. The same record backs the
// signup flow, the self-service profile and the admin user management.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used as the token subject.
	UserID int64 `json:"-"`

	// Username is the unique public login of the user.
	Username string `json:"username"`

	// Email is the unique address the confirmation codes are sent to.
	Email string `json:"email"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`

	// Role governs write privileges on catalog and content resources.
	Role Role `json:"role"`

	// IsSuperuser grants admin capabilities regardless of Role.
	// It can only be set directly in the database.
	IsSuperuser bool `json:"-"`

	// CodeVersion is bumped on every signup request and every profile
	// change. Confirmation codes are bound to its value, so any bump
	// invalidates all previously issued codes.
	CodeVersion int64 `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Caller returns the request identity derived from the stored user.
func (u User) Caller() Caller {
	return Caller{
		UserID:      u.UserID,
		Username:    u.Username,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
	}
}

// UserPatch describes a partial update of a user. Nil fields are left
// untouched.
type UserPatch struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Role      *Role   `json:"role,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.FirstName == nil &&
		p.LastName == nil && p.Bio == nil && p.Role == nil
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	// Search matches usernames containing the value (case-insensitive).
	Search string
	PageRequest
}
