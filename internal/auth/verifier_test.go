package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestVerifyRoundTrip(t *testing.T) {
	v, err := NewVerifier("test-secret", "asktrevor")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	userID := uuid.New()
	token, err := v.Sign(userID, "builder@example.com", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rc, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if rc.UserID != userID {
		t.Errorf("want user %s, got %s", userID, rc.UserID)
	}
	if rc.Email != "builder@example.com" {
		t.Errorf("want email builder@example.com, got %s", rc.Email)
	}
}

func TestVerifyRejectsMissingToken(t *testing.T) {
	v, _ := NewVerifier("test-secret", "")
	if _, err := v.Verify(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("want ErrMissingToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v, _ := NewVerifier("test-secret", "")
	token, err := v.Sign(uuid.New(), "x@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := v.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuing, _ := NewVerifier("secret-a", "")
	verifying, _ := NewVerifier("secret-b", "")
	token, err := issuing.Sign(uuid.New(), "x@example.com", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifying.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsNonUUIDSubject(t *testing.T) {
	v, _ := NewVerifier("test-secret", "")
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "service-account-7",
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := v.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for non-uuid subject, got %v", err)
	}
}
