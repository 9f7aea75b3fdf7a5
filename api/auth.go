package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenIssuer = "workboard"

// Auth issues and validates the HS256 bearer tokens used by every
// authenticated endpoint. Revoked token IDs live in the revocation list until
// they would have expired anyway.
type Auth struct {
	secret  []byte
	ttl     time.Duration
	revoked *RevocationList
	parser  *jwt.Parser
}

// NewAuth creates an Auth signing with the given secret. Tokens expire after
// ttl.
func NewAuth(secret []byte, ttl time.Duration, revoked *RevocationList) *Auth {
	if len(secret) == 0 {
		panic("auth: empty signing secret")
	}
	return &Auth{
		secret:  secret,
		ttl:     ttl,
		revoked: revoked,
		parser:  jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// IssueToken mints a token for the user. Each token carries a unique ID so it
// can be revoked individually.
func (a *Auth) IssueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"jti": uuid.NewString(),
		"iss": tokenIssuer,
		"iat": now.Unix(),
		"exp": now.Add(a.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// UserIDFromAuthHeader extracts the acting user from the Authorization header.
func (a *Auth) UserIDFromAuthHeader(ctx context.Context, header string) (int64, error) {
	claims, err := a.verify(header)
	if err != nil {
		return 0, err
	}

	if a.revoked != nil {
		jti, _ := claims["jti"].(string)
		if jti == "" {
			return 0, errors.New("missing jti")
		}
		revoked, err := a.revoked.IsRevoked(ctx, jti)
		if err != nil {
			return 0, err
		}
		if revoked {
			return 0, errors.New("token revoked")
		}
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return 0, errors.New("missing sub")
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errors.New("invalid sub")
	}
	return userID, nil
}

// RevokeFromAuthHeader invalidates the presented token. The revocation entry
// lives exactly as long as the token would have.
func (a *Auth) RevokeFromAuthHeader(ctx context.Context, header string) error {
	claims, err := a.verify(header)
	if err != nil {
		return err
	}
	if a.revoked == nil {
		return errors.New("revocation list not configured")
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return errors.New("missing jti")
	}
	ttl := a.ttl
	if exp, ok := claims["exp"].(float64); ok {
		if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
			ttl = remaining
		}
	}
	return a.revoked.Revoke(ctx, jti, ttl)
}

func (a *Auth) verify(header string) (jwt.MapClaims, error) {
	tokenStr, err := bearerTokenFromString(header)
	if err != nil {
		return nil, err
	}

	parsedToken, err := a.parser.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, errors.New("invalid claims")
	}

	now := time.Now().Unix()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, errors.New("token expired")
	}
	if !claims.VerifyIssuedAt(now+60, false) {
		return nil, errors.New("token used before issued")
	}
	if !claims.VerifyIssuer(tokenIssuer, true) {
		return nil, errors.New("invalid issuer")
	}
	return claims, nil
}
