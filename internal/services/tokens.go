package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/scholarlink/internal/platform/ctxutil"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Issue(userID uuid.UUID, role string, ttl time.Duration) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type tokenService struct {
	log          *logger.Logger
	jwtSecretKey string
}

func NewTokenService(log *logger.Logger, jwtSecretKey string) TokenService {
	return &tokenService{
		log:          logger.OrNop(log).With("service", "TokenService"),
		jwtSecretKey: jwtSecretKey,
	}
}

func (ts *tokenService) Issue(userID uuid.UUID, role string, ttl time.Duration) (string, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	switch role {
	case "student", "mentor", "admin":
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
	now := time.Now()
	claims := JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ts.jwtSecretKey))
}

func (ts *tokenService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("missing token")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(ts.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
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
	role := strings.ToLower(strings.TrimSpace(claims.Role))
	if role == "" {
		role = "student"
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:      userID,
		Role:        role,
		TokenString: tokenString,
	}), nil
}
