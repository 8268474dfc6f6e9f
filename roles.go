package registration

// MembershipRole is the privilege level a membership carries
type MembershipRole = string

const (
	// RoleViewer is a read-only role (ie. view)
	RoleViewer MembershipRole = "viewer"
	// RoleEditor is a contributor role (i.e. view, edit)
	RoleEditor MembershipRole = "editor"
	// RoleAdmin is an admin role (i.e. view, edit, create)
	RoleAdmin MembershipRole = "admin"
	// RoleOwner is the owner role (i.e. view, edit, create, delete)
	RoleOwner MembershipRole = "owner"
)

// InitialMembershipRole is the privilege level assigned to the
// membership created at registration time. New accounts start as
// editors of their own personal organization, never owner/admin.
const InitialMembershipRole = RoleEditor

var roleRank = map[MembershipRole]int{
	RoleViewer: 0,
	RoleEditor: 1,
	RoleAdmin:  2,
	RoleOwner:  3,
}

// IsValidRole reports whether the role belongs to the known set.
func IsValidRole(role MembershipRole) bool {
	_, ok := roleRank[role]
	return ok
}

// RoleIsAtLeast compares two roles by privilege order.
func RoleIsAtLeast(role, minRole MembershipRole) bool {
	r, ok := roleRank[role]
	if !ok {
		return false
	}
	min, ok := roleRank[minRole]
	if !ok {
		return false
	}
	return r >= min
}
