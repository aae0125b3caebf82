package service

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"go-life-planner/internal/model"
	"go-life-planner/pkg/apierror"
)

// TokenValidator checks access tokens issued by the external auth service.
// The token subject becomes the owner id of every recycle bin operation.
type TokenValidator struct {
	jwtSecret []byte
	issuer    string
}

func NewTokenValidator(jwtSecret string, issuer string) (*TokenValidator, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	return &TokenValidator{jwtSecret: []byte(jwtSecret), issuer: strings.TrimSpace(issuer)}, nil
}

func (v *TokenValidator) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	options := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.New("UNAUTHORIZED", "invalid token signing method", "", http.StatusUnauthorized)
		}
		return v.jwtSecret, nil
	}, options...)
	if err != nil || !parsed.Valid {
		return nil, apierror.New("UNAUTHORIZED", "invalid token", "", http.StatusUnauthorized)
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.New("UNAUTHORIZED", "invalid token claims", "", http.StatusUnauthorized)
	}

	typ, _ := claimsMap["typ"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, apierror.New("UNAUTHORIZED", "invalid token type", "", http.StatusUnauthorized)
	}

	claims := &model.AuthClaims{Type: typ}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Username, _ = claimsMap["username"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, apierror.New("UNAUTHORIZED", "invalid token subject", "", http.StatusUnauthorized)
	}

	return claims, nil
}
