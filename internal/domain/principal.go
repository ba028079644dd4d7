// Package domain holds cross-cutting domain types and the wire provider set
// for domain services.
package domain

// Principal is the authenticated caller resolved from a bearer token. The
// zero value means "no identity".
type Principal struct {
	Subject string
	Issuer  string
	Email   string
	Name    string
	Roles   []string
}

// Resolved reports whether the principal carries a usable identity.
func (p Principal) Resolved() bool {
	return p.Subject != ""
}
