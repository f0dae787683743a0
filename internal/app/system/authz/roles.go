// internal/app/system/authz/roles.go
package authz

// Global account roles.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleClubAdmin = "clubadmin"
)

// Club-scoped roles carried in membership records.
const (
	ClubRoleMember    = "member"
	ClubRoleClubAdmin = "clubadmin"
	ClubRoleModerator = "moderator"
)

// ValidRole reports whether role is a recognized global role.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleClubAdmin:
		return true
	}
	return false
}

// ValidClubRole reports whether role is a recognized club-scoped role.
func ValidClubRole(role string) bool {
	switch role {
	case ClubRoleMember, ClubRoleClubAdmin, ClubRoleModerator:
		return true
	}
	return false
}
