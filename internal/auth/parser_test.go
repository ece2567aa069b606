package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestParse(t *testing.T) {
	userID := uuid.New()
	companyID := uuid.New()
	token := signToken(t, testSecret, Claims{
		UserID:    userID.String(),
		CompanyID: companyID.String(),
		IsAdmin:   true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	principal, err := NewParser(testSecret).Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if principal.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, principal.UserID)
	}
	if principal.CompanyID != companyID {
		t.Fatalf("expected company %s, got %s", companyID, principal.CompanyID)
	}
	if !principal.IsAdmin {
		t.Fatal("expected admin flag")
	}
}

func TestParse_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", Claims{
		UserID:    uuid.NewString(),
		CompanyID: uuid.NewString(),
	})

	if _, err := NewParser(testSecret).Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_Expired(t *testing.T) {
	token := signToken(t, testSecret, Claims{
		UserID:    uuid.NewString(),
		CompanyID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	if _, err := NewParser(testSecret).Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	if _, err := NewParser(testSecret).Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_BadUserID(t *testing.T) {
	token := signToken(t, testSecret, Claims{
		UserID:    "not-a-uuid",
		CompanyID: uuid.NewString(),
	})

	if _, err := NewParser(testSecret).Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
