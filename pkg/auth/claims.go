package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the typed view of a token minted by the upstream
// identity provider. Subject carries the provider's stable user ID; the
// profile fields let the API sync a local user row on first sight.
type IdentityClaims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	IsHost    bool   `json:"is_host,omitempty"`
	jwt.RegisteredClaims
}
