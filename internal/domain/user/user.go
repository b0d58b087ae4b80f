package user

import "context"

// User is the read-only projection of the account signed in through the
// external identity provider.
type User struct {
	Name  string
	Email string
}

// Session exposes the sign-in state owned by the identity provider
// integration. CurrentUser returns nil when nobody is signed in; callers must
// treat that as "no identity" and not cache the result across calls.
type Session interface {
	CurrentUser() *User
	// AccessToken returns a live bearer credential for the push backend. It is
	// read at call time, never cached, so a send after SignOut fails here.
	AccessToken(ctx context.Context) (string, error)
	SignOut()
}
