package auth

import "github.com/golang-jwt/jwt/v5"

// Token classes. The class is embedded in the claims and enforced at
// verification time, so a token of one class never passes as the other even
// if both secrets were to match.
const (
	ClassAccess  = "access"
	ClassRefresh = "refresh"
)

// Claims is the signed token payload: subject (user id as a string), expiry,
// and the token class discriminator.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
}
