package model

// AuthClaims is the subset of the external auth collaborator's access token
// this service relies on. UserID is the owner of every record it touches.
type AuthClaims struct {
	UserID   string `json:"sub"`
	Username string `json:"username"`
	Type     string `json:"typ"`
	TokenID  string `json:"jti"`
}
