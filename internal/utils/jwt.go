package utils // package utils provides helper functions for token creation and hashing

import (
	"errors" // sentinel error for every kind of token rejection
	"time"   // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessSecret and RefreshSecret are distinct defined types so the two
// signing keys can never be swapped by accident: a function that signs
// access tokens will not compile when handed a RefreshSecret and vice
// versa.  Each token class is signed with its own secret and its own
// expiration window, so leaking one secret never compromises the other.
type AccessSecret string

// RefreshSecret signs long-lived refresh tokens.  See AccessSecret.
type RefreshSecret string

// ErrInvalidToken is returned for every failed verification: malformed,
// expired, tampered, or signed with the other class's secret.  Callers
// cannot tell these cases apart, so token errors never act as an oracle.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by both token classes.  Roles hold the
// caller's role names, not the expanded permission set: permissions are
// recomputed from the role matrix on every request, so matrix changes
// take effect without reissuing tokens.
type Claims struct {
	UserID uint64   // subject (users.id)
	Email  string   // user email
	Roles  []string // role names assigned to the user
}

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and encoded in the Authorization header
// when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long-lived signed JWT used solely to obtain
// new access tokens.  It is never accepted on protected routes.
type RefreshToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The JWT
// includes the subject (sub), email, the user's role names, expiration
// (exp) and issued at (iat).  ttlMin controls the window in minutes.
func NewAccessToken(secret AccessSecret, cl Claims, ttlMin int) (AccessToken, error) {
	signed, exp, err := signClaims([]byte(secret), cl, time.Duration(ttlMin)*time.Minute)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 JWT with the refresh secret.
// Refresh tokens live longer than access tokens and carry the same
// claims so a fresh access token can be derived without a user lookup.
func NewRefreshToken(secret RefreshSecret, cl Claims, ttlMin int) (RefreshToken, error) {
	signed, exp, err := signClaims([]byte(secret), cl, time.Duration(ttlMin)*time.Minute)
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken validates a token against the access secret and
// returns its claims.  A token signed with the refresh secret fails the
// signature check here, which enforces cross-class rejection.
func VerifyAccessToken(secret AccessSecret, raw string) (Claims, error) {
	return verifyClaims([]byte(secret), raw)
}

// VerifyRefreshToken validates a token against the refresh secret and
// returns its claims.  Access-signed tokens are rejected.
func VerifyRefreshToken(secret RefreshSecret, raw string) (Claims, error) {
	return verifyClaims([]byte(secret), raw)
}

// signClaims signs the claims with the given key and TTL.  Shared by both
// token classes; the caller supplies the class-specific secret.
func signClaims(key []byte, cl Claims, ttl time.Duration) (string, time.Time, error) {
	// Calculate the expiration by adding the TTL to the current UTC time.
	now := time.Now().UTC()
	exp := now.Add(ttl)
	// Construct the JWT claims.  Using MapClaims allows arbitrary
	// key/value pairs; roles travel as a plain string slice.
	claims := jwt.MapClaims{
		"sub":   cl.UserID,
		"email": cl.Email,
		"roles": cl.Roles,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// verifyClaims parses and validates a serialized JWT with the given key.
// Signature, algorithm and expiration are all checked by the parser; any
// failure collapses into ErrInvalidToken.
func verifyClaims(key []byte, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC-signed tokens are ever issued; reject anything else
		// before the signature is even checked.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return key, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	// JWT numeric values decode as float64.
	sub, ok := mc["sub"].(float64)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	cl := Claims{UserID: uint64(sub)}
	if email, ok := mc["email"].(string); ok {
		cl.Email = email
	}
	// Roles decode as []interface{}; non-string entries are skipped.
	if rs, ok := mc["roles"].([]interface{}); ok {
		for _, r := range rs {
			if s, ok := r.(string); ok {
				cl.Roles = append(cl.Roles, s)
			}
		}
	}
	return cl, nil
}
