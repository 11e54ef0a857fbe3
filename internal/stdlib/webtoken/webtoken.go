// Package webtoken adapts jsonwebtoken-shaped sign/verify/decode calls
// to golang-jwt. Grounded on
// original_source/crates/perry-stdlib/src/jsonwebtoken.rs, which signs
// and verifies HS256 tokens carrying a JSON claims map and, unlike the
// database/cache adapters, does the work synchronously (HMAC signing is
// not worth a worker-pool round trip) — this adapter keeps that shape
// rather than routing through internal/asyncbridge.
package webtoken

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sign builds an HS256 token from payload (arbitrary JSON-object claims)
// signed with secret. When expiresIn is positive an "exp" (and "iat" if
// absent) claim is set expiresIn seconds from now, matching the
// original's expires_in_secs parameter.
func Sign(payload map[string]any, secret string, expiresIn time.Duration) (string, error) {
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	if expiresIn > 0 {
		now := time.Now()
		claims["exp"] = now.Add(expiresIn).Unix()
		if _, ok := claims["iat"]; !ok {
			claims["iat"] = now.Unix()
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify checks token's signature and expiry against secret and returns
// its claims as a JSON object, mirroring js_jwt_verify's "object or
// invalid" contract.
func Verify(token, secret string) (map[string]any, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("webtoken: unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("webtoken: invalid token")
	}
	return map[string]any(claims), nil
}

// Decode parses token's payload without checking its signature,
// matching js_jwt_decode.
func Decode(token string) (map[string]any, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return map[string]any(claims), nil
}

// MarshalClaims renders claims as the JSON string compiled code reads
// into a runtime.Object, mirroring the original's serde_json round trip.
func MarshalClaims(claims map[string]any) (string, error) {
	b, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
