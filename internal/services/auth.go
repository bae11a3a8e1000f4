package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	dataagg "github.com/novahq/taskhub-backend/internal/data/aggregates"
	domainagg "github.com/novahq/taskhub-backend/internal/domain/aggregates"
	"github.com/novahq/taskhub-backend/internal/domain/user"
	"github.com/novahq/taskhub-backend/internal/platform/ctxutil"
	"github.com/novahq/taskhub-backend/internal/platform/logger"
)

type JWTClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, user.Snapshot, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	users        *dataagg.UserStore
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(log *logger.Logger, users *dataagg.UserStore, jwtSecretKey string, accessTTL time.Duration) AuthService {
	serviceLog := log.With("service", "AuthService")
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &authService{
		log:          serviceLog,
		users:        users,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

// Login verifies credentials and issues an access token. Inactive and
// suspended users cannot log in.
func (as *authService) Login(ctx context.Context, email, password string) (string, user.Snapshot, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	loaded, err := as.users.LoadByEmail(ctx, email)
	if err != nil {
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			return "", user.Snapshot{}, domainagg.NewError(domainagg.CodePermissionDenied, "auth.login", "invalid credentials", nil)
		}
		return "", user.Snapshot{}, err
	}
	if bcErr := bcrypt.CompareHashAndPassword([]byte(loaded.PasswordHash), []byte(password)); bcErr != nil {
		return "", user.Snapshot{}, domainagg.NewError(domainagg.CodePermissionDenied, "auth.login", "invalid credentials", nil)
	}
	u := user.FromSnapshot(loaded.Snapshot)
	if !u.IsActive() && u.Status() != user.StatusPending {
		return "", user.Snapshot{}, domainagg.NewError(domainagg.CodePermissionDenied, "auth.login", fmt.Sprintf("user is %s", u.Status()), nil)
	}

	claims := JWTClaims{
		Email: loaded.Snapshot.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   loaded.Snapshot.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", user.Snapshot{}, domainagg.Wrap(domainagg.CodeInternal, "auth.login", err)
	}
	return signed, loaded.Snapshot, nil
}

// SetContextFromToken validates the JWT and attaches the caller identity.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("missing token")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	rd := &ctxutil.RequestData{
		UserID: userID,
		Email:  claims.Email,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

// HashPassword is the single place credentials are hashed.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password must not be blank")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
