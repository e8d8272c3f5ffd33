package models

// Role is one of the three privilege levels of the catalog.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var roleLevels = map[Role]int{
	RoleUser:      0,
	RoleModerator: 1,
	RoleAdmin:     2,
}

// IsValid reports whether r is one of the predefined roles.
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// IsAtLeast reports whether r meets the minimum required level.
// Unknown roles never satisfy any level.
func (r Role) IsAtLeast(minRole Role) bool {
	current, ok := roleLevels[r]
	if !ok {
		return false
	}
	required, ok := roleLevels[minRole]
	if !ok {
		return false
	}
	return current >= required
}

// AllRoles returns all roles ordered by privilege.
func AllRoles() []Role {
	return []Role{RoleUser, RoleModerator, RoleAdmin}
}
