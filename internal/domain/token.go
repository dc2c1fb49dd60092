package domain

import "errors"

// Token verification errors.
var (
	ErrTokenMalformed        = errors.New("malformed token")
	ErrTokenSignatureInvalid = errors.New("invalid token signature")
	ErrTokenExpired          = errors.New("token expired")
)

// Claims is the identity carried by an access token.
type Claims struct {
	UserID string
	Role   Role
}
