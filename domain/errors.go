package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken indicates a signup collided with an existing username.
var ErrUsernameTaken = errors.New("username already exists")

// ErrEmailTaken indicates a signup collided with an existing email address.
// Email comparison is case-insensitive.
var ErrEmailTaken = errors.New("email already exists")
