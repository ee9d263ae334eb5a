package auth

import "errors"

var (
	// ErrInvalidCredentials covers a rejected email/password pair or any
	// non-2xx response from the auth endpoint.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNetwork covers transport failures, undecodable responses, and
	// responses missing the token field.
	ErrNetwork = errors.New("network error, please try again")
	// ErrInvalidEmail is raised client-side before any request is made.
	ErrInvalidEmail = errors.New("please enter a valid email address")
	// ErrPasswordTooShort is raised client-side before any request is made.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)
