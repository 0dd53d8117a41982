package permissions

import "sort"

// Permission is a global role flag, independent of any team. Grants are
// stored by name in the user_global_permissions relation table.
type Permission string

const (
	// PermAdmin bypasses every admission check.
	PermAdmin Permission = "ADMIN"

	PermTeamsListAdmin  Permission = "TEAMS_LIST_ADMIN"
	PermSkillsListAdmin Permission = "SKILLS_LIST_ADMIN"
	PermReader          Permission = "READER"

	// PermGuest is implicitly held by every authenticated user. It is a real
	// grantable permission checked during admission; it is only hidden from
	// user-facing listings.
	PermGuest Permission = "GUEST"
)

var knownPermissions = map[Permission]struct{}{
	PermAdmin:           {},
	PermTeamsListAdmin:  {},
	PermSkillsListAdmin: {},
	PermReader:          {},
	PermGuest:           {},
}

// Parse returns the Permission with the given name.
func Parse(name string) (Permission, bool) {
	p := Permission(name)
	_, ok := knownPermissions[p]
	return p, ok
}

// All lists every known permission, sorted by name.
func All() []Permission {
	out := make([]Permission, 0, len(knownPermissions))
	for p := range knownPermissions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Set is an unordered set of granted global permissions.
type Set map[Permission]struct{}

func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

func (s Set) Add(p Permission) {
	s[p] = struct{}{}
}

func (s Set) Remove(p Permission) {
	delete(s, p)
}

// Slice returns the set's members sorted by name.
func (s Set) Slice() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasAnyOf decides admission for a required-permission set. A user holding
// ADMIN is admitted unconditionally. Otherwise admission requires a
// non-empty intersection between the user's permissions and required, so an
// empty required set admits only ADMIN.
func HasAnyOf(userPerms Set, required []Permission) bool {
	if userPerms.Has(PermAdmin) {
		return true
	}
	for _, p := range required {
		if userPerms.Has(p) {
			return true
		}
	}
	return false
}

// WithoutGuest strips GUEST from a permission listing. It is a projection
// for display only and must never gate an admission check.
func WithoutGuest(perms []Permission) []Permission {
	out := make([]Permission, 0, len(perms))
	for _, p := range perms {
		if p == PermGuest {
			continue
		}
		out = append(out, p)
	}
	return out
}
