package normalize

import "strings"

const (
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleAdvisor  = "advisor"
	RoleParts    = "parts"
	RoleMechanic = "mechanic"
)

var roleAliases = []struct {
	needle string
	role   string
}{
	{"owner", RoleOwner},
	{"admin", RoleAdmin},
	{"parts", RoleParts},
	{"manager", RoleManager},
	{"foreman", RoleManager},
	{"advisor", RoleAdvisor},
	{"adviser", RoleAdvisor},
	{"writer", RoleAdvisor},
	{"front", RoleAdvisor},
	{"tech", RoleMechanic},
	{"mechanic", RoleMechanic},
	{"apprentice", RoleMechanic},
}

// Role collapses a free-text job title onto the staff role enumeration.
// Unrecognised or empty titles become mechanic.
func Role(raw string) string {
	key := Key(raw)
	for _, alias := range roleAliases {
		if strings.Contains(key, alias.needle) {
			return alias.role
		}
	}
	return RoleMechanic
}
