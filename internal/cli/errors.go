package cli

import (
	"errors"
)

var (
	ErrNotLoggedIn        = errors.New("not logged in, run the login command first")
	ErrBadCredentials     = errors.New("username or password incorrect")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrMissingCredentials = errors.New("username and password are required")
)
