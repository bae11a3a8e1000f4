package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/novahq/taskhub-backend/internal/platform/ctxutil"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

const testSecret = "unit-test-secret"

func testAuthService(t *testing.T) AuthService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewAuthService(log, nil, testSecret, time.Minute)
}

func mintToken(t *testing.T, secret string, userID uuid.UUID, email string, expiresAt time.Time) string {
	t.Helper()
	claims := JWTClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestSetContextFromToken(t *testing.T) {
	as := testAuthService(t)
	userID := uuid.New()
	token := mintToken(t, testSecret, userID, "dev@example.com", time.Now().Add(time.Minute))

	ctx, err := as.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		t.Fatalf("request data not attached")
	}
	if rd.UserID != userID {
		t.Fatalf("user id: want=%s got=%s", userID, rd.UserID)
	}
	if rd.Email != "dev@example.com" {
		t.Fatalf("email: want=dev@example.com got=%s", rd.Email)
	}
}

func TestSetContextFromTokenRejectsExpired(t *testing.T) {
	as := testAuthService(t)
	token := mintToken(t, testSecret, uuid.New(), "dev@example.com", time.Now().Add(-time.Minute))

	if _, err := as.SetContextFromToken(context.Background(), token); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}

func TestSetContextFromTokenRejectsWrongSecret(t *testing.T) {
	as := testAuthService(t)
	token := mintToken(t, "some-other-secret", uuid.New(), "dev@example.com", time.Now().Add(time.Minute))

	if _, err := as.SetContextFromToken(context.Background(), token); err == nil {
		t.Fatalf("token signed with a different secret must be rejected")
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	as := testAuthService(t)
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := as.SetContextFromToken(context.Background(), token); err == nil {
			t.Fatalf("token %q must be rejected", token)
		}
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")); err == nil {
		t.Fatalf("wrong password must not verify")
	}
}

func TestHashPasswordRejectsBlank(t *testing.T) {
	for _, pw := range []string{"", "   "} {
		if _, err := HashPassword(pw); err == nil {
			t.Fatalf("blank password %q must be rejected", pw)
		}
	}
}
