package api

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/betexcr/pokemon-sub007/internal/constants"
)

// sessionClaims is the JWT payload for a player session. Sub carries the
// player uid so handlers never trust a uid from the request body.
type sessionClaims struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
	Iat  int64  `json:"iat"`
	Exp  int64  `json:"exp"`
}

var (
	devSecret []byte

	errTokenFormat    = errors.New("invalid token format")
	errTokenSignature = errors.New("invalid token signature")
	errTokenExpired   = errors.New("token expired")
)

// sessionSecret returns the HMAC key for session tokens. Without the env var
// a random in-memory key is used, which invalidates sessions on restart.
func sessionSecret() ([]byte, error) {
	if s := os.Getenv(constants.EnvSessionSecret); s != "" {
		return []byte(s), nil
	}
	if len(devSecret) == 0 {
		devSecret = make([]byte, 32)
		if _, err := crand.Read(devSecret); err != nil {
			return nil, errors.New("failed to generate dev session secret")
		}
	}
	return devSecret, nil
}

func b64url(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func signHS256(data string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(data))
	return b64url(mac.Sum(nil))
}

var jwtHeader = b64url([]byte(`{"alg":"HS256","typ":"JWT"}`))

func createSessionToken(playerUID, name string, ttl time.Duration) (string, error) {
	secret, err := sessionSecret()
	if err != nil {
		return "", err
	}
	now := time.Now().Unix()
	claims, _ := json.Marshal(sessionClaims{
		Sub:  playerUID,
		Name: name,
		Iat:  now,
		Exp:  now + int64(ttl.Seconds()),
	})
	unsigned := jwtHeader + "." + b64url(claims)
	return unsigned + "." + signHS256(unsigned, secret), nil
}

func parseAndValidateSession(token string) (*sessionClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errTokenFormat
	}
	secret, err := sessionSecret()
	if err != nil {
		return nil, err
	}
	expected := signHS256(parts[0]+"."+parts[1], secret)
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return nil, errTokenSignature
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, err
	}
	var claims sessionClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	if time.Now().Unix() > claims.Exp {
		return nil, errTokenExpired
	}
	return &claims, nil
}
