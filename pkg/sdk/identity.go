package sdk

// Role is a coarse-grained permission tier gating entire views.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleFamilyAdmin Role = "family_admin"
	RoleMember      Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleFamilyAdmin, RoleMember:
		return true
	}
	return false
}

// rolePermissions is the role-derived capability table. It is consumed as
// data; the evaluator and guards never special-case individual roles.
var rolePermissions = map[Role][]string{
	RoleSuperAdmin: {
		"families:read", "families:write", "families:delete",
		"users:read", "users:write",
		"documents:read", "documents:write", "documents:delete",
		"notifications:read", "notifications:write",
		"taxonomy:read", "taxonomy:write",
	},
	RoleFamilyAdmin: {
		"families:read", "families:write",
		"users:read", "users:write",
		"documents:read", "documents:write", "documents:delete",
		"notifications:read", "notifications:write",
		"taxonomy:read",
	},
	RoleMember: {
		"families:read",
		"documents:read", "documents:write",
		"notifications:read", "notifications:write",
		"taxonomy:read",
	},
}

// Permissions returns the capability set derived from the role. The returned
// slice is a copy; callers may not mutate the table through it.
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// Identity is the read-only projection of the authenticated principal fetched
// from the backend. It is replaced wholesale on every successful fetch and
// never partially mutated.
type Identity struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Role        Role     `json:"role"`
	FamilyID    string   `json:"family_id,omitempty"` // empty only for super admins
	Permissions []string `json:"permissions"`
}

// Can reports whether the identity carries the given capability.
func (i *Identity) Can(permission string) bool {
	for _, p := range i.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
