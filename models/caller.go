// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Caller is the identity a request is executed on behalf of. It is resolved
// once per request by the authentication middleware and passed by value.
// The zero value is the anonymous caller.
type Caller struct {
	UserID      int64
	Username    string
	Role        Role
	IsSuperuser bool
}

// Anonymous returns the caller used for requests without credentials.
func Anonymous() Caller {
	return Caller{}
}

// IsAnonymous reports whether the request carries no identity.
func (c Caller) IsAnonymous() bool {
	return c.UserID == 0
}

// IsAdmin reports admin capabilities: the admin role or the superuser flag.
func (c Caller) IsAdmin() bool {
	return !c.IsAnonymous() && (c.Role == RoleAdmin || c.IsSuperuser)
}

// IsModerator reports at least moderator capabilities.
func (c Caller) IsModerator() bool {
	return c.IsAdmin() || (!c.IsAnonymous() && c.Role.IsAtLeast(RoleModerator))
}

// Owns reports whether the caller is the owner with the given user id.
func (c Caller) Owns(ownerID int64) bool {
	return !c.IsAnonymous() && c.UserID == ownerID
}
