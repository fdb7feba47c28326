package auth

import "errors"

var (
	ErrMissingCredentials = errors.New("account and password are required")
	ErrNoAccessToken      = errors.New("upstream login returned no access token")
	ErrUnauthenticated    = errors.New("not logged in")
	ErrSessionExpired     = errors.New("session expired")
)
