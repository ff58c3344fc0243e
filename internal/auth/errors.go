package auth

import "errors"

// ErrUnauthorized covers every reason a bearer token cannot be resolved to a user:
// bad signature, malformed token, expiry, or an unknown subject. Callers cannot
// tell these apart.
var ErrUnauthorized = errors.New("could not validate credentials")

// ErrForbidden indicates an authenticated user lacks the required role.
var ErrForbidden = errors.New("insufficient role")
