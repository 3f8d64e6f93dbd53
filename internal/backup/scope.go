package backup

import "github.com/pwarnimont/filmdb2/internal/model"

// Principal is the authenticated caller as supplied by the auth layer.
// The engine trusts it unconditionally.
type Principal struct {
	ID   string
	Role model.Role
}

// AccessScope is the capability derived once from a Principal: either the
// principal's own account only, or every account.  Resolvers consult the
// scope instead of checking the role at each site.
type AccessScope struct {
	principalID string
	allAccounts bool
}

// ScopeFor computes the scope of p.
func ScopeFor(p Principal) AccessScope {
	return AccessScope{principalID: p.ID, allAccounts: p.Role == model.RoleAdmin}
}

// PrincipalID is the id of the acting principal.
func (s AccessScope) PrincipalID() string { return s.principalID }

// AllAccounts reports whether the scope spans every account.
func (s AccessScope) AllAccounts() bool { return s.allAccounts }

// Owns reports whether owner is within the scope.
func (s AccessScope) Owns(owner string) bool {
	return s.allAccounts || owner == s.principalID
}
