package domain

// Identity is the viewer role held by one session.
type Identity string

const (
	IdentityAdmin    Identity = "admin"
	IdentityNonAdmin Identity = "non-admin"
)

// ParseIdentity maps a wire value to an Identity.
func ParseIdentity(s string) (Identity, error) {
	switch Identity(s) {
	case IdentityAdmin:
		return IdentityAdmin, nil
	case IdentityNonAdmin:
		return IdentityNonAdmin, nil
	}
	return "", ErrInvalidIdentity
}
