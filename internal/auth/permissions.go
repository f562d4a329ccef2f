package auth

import "errors"

const (
	RoleAdmin    = "admin"
	RoleArtist   = "artist"
	RoleEmployer = "employer"
)

const (
	PermJobsWrite     = "jobs:write"
	PermJobsApply     = "jobs:apply"
	PermUsersModerate = "users:moderate"
	PermContentDelete = "content:delete"
)

var Permissions = map[string][]string{
	RoleAdmin: {
		PermJobsWrite,
		PermUsersModerate,
		PermContentDelete,
	},
	RoleEmployer: {
		PermJobsWrite,
	},
	RoleArtist: {
		PermJobsApply,
	},
}

func HasPermission(role, permission string) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

func IsAdmin(claims *Claims) bool {
	return claims != nil && claims.Role == RoleAdmin
}

// ValidateRole accepts only the roles a user may register with.
func ValidateRole(role string) error {
	switch role {
	case RoleArtist, RoleEmployer:
		return nil
	default:
		return errors.New("role must be artist or employer")
	}
}
