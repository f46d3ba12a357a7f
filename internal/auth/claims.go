package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the identity attached to every authenticated request.
// Browser and CLI logins carry them inside a signed JWT; API key
// requests get them synthesized from the key's owner instead. Field
// names follow the standard OIDC claims so minted tokens read naturally
// in any JWT decoder.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"sub"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"picture,omitempty"`
}
