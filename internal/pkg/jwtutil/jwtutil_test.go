package jwtutil

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	token, expiresAt, err := GenerateToken(testSecret, 30*time.Minute, "a@x.com", now)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if want := now.Add(30 * time.Minute); !expiresAt.Equal(want) {
		t.Errorf("expiresAt = %v, want %v", expiresAt, want)
	}

	claims, err := ParseToken(testSecret, token, now.Add(29*time.Minute))
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "a@x.com" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "a@x.com")
	}
}

func TestParseToken_Expired(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	token, _, err := GenerateToken(testSecret, 30*time.Minute, "a@x.com", now)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, err = ParseToken(testSecret, token, now.Add(31*time.Minute))
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("ParseToken error = %v, want ErrTokenExpired", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	now := time.Now()
	token, _, err := GenerateToken(testSecret, time.Minute, "a@x.com", now)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken("other-secret", token, now); !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Fatalf("ParseToken error = %v, want ErrTokenSignatureInvalid", err)
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "a@x.com",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	if _, err := ParseToken(testSecret, hs512, now); err == nil {
		t.Error("ParseToken accepted an HS512 token")
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseToken(testSecret, none, now); err == nil {
		t.Error("ParseToken accepted an unsigned token")
	}
}

func TestParseToken_Malformed(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ParseToken(testSecret, raw, time.Now()); err == nil {
			t.Errorf("ParseToken(%q) succeeded", raw)
		}
	}
}

func TestParseToken_MissingExpiryOrSubject(t *testing.T) {
	now := time.Now()

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: "a@x.com",
	}}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken(testSecret, noExp, now); err == nil {
		t.Error("ParseToken accepted a token without exp")
	}

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken(testSecret, noSub, now); !errors.Is(err, ErrEmptySubject) {
		t.Errorf("ParseToken error = %v, want ErrEmptySubject", err)
	}

	if _, _, err := GenerateToken(testSecret, time.Minute, "", now); !errors.Is(err, ErrEmptySubject) {
		t.Errorf("GenerateToken error = %v, want ErrEmptySubject", err)
	}
}
