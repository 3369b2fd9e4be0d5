package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestTokenExpired(t *testing.T) {
	if tokenExpired(signedToken(t, time.Now().Add(time.Hour))) {
		t.Error("future exp reported as expired")
	}
	if !tokenExpired(signedToken(t, time.Now().Add(-time.Hour))) {
		t.Error("past exp not reported as expired")
	}
}

func TestTokenExpiredOpaqueToken(t *testing.T) {
	// Unparseable tokens are not treated as expired; the server decides
	if tokenExpired("not-a-jwt") {
		t.Error("opaque token reported as expired")
	}
	if tokenExpired("") {
		t.Error("empty token reported as expired")
	}
}

func TestTokenExpiredNoExpClaim(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if tokenExpired(s) {
		t.Error("token without exp reported as expired")
	}
}
